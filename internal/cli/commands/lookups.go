package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/ccollicutt/fwf/pkg/config"
	"github.com/ccollicutt/fwf/pkg/query"
	"github.com/ccollicutt/fwf/pkg/record"
)

// parseLookups turns key=value flags into lookups. The value is typed by
// the operator and the kind the layout declares for the field.
func parseLookups(pairs []string, s schema) ([]query.Lookup, error) {
	lookups := make([]query.Lookup, 0, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid lookup %q (want key=value)", pair)
		}
		l, err := query.ParseLookup(key, record.String(raw))
		if err != nil {
			return nil, err
		}
		if l.Operand, err = literal(l, raw, s.KindOf(l.Field)); err != nil {
			return nil, fmt.Errorf("lookup %s: %w", key, err)
		}
		lookups = append(lookups, l)
	}
	return lookups, nil
}

func literal(l query.Lookup, raw string, kind record.Kind) (record.Value, error) {
	switch l.Op {
	case query.OpPredicate:
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return record.Value{}, err
		}
		return record.Bool(b), nil
	case query.OpLen, query.OpAttr:
		n, err := cast.ToInt64E(raw)
		if err != nil {
			return record.Value{}, err
		}
		return record.Int(n), nil
	case query.OpIn:
		parts := strings.Split(raw, ",")
		items := make([]record.Value, len(parts))
		for i, p := range parts {
			v, err := typed(p, kind)
			if err != nil {
				return record.Value{}, err
			}
			items[i] = v
		}
		return record.List(items...), nil
	case query.OpContains, query.OpStartsWith, query.OpEndsWith:
		return record.String(raw), nil
	default:
		return typed(raw, kind)
	}
}

// typed converts raw text to the given kind. Strings stay as typed so
// ordering lookups on text fields take the numeric branch.
func typed(raw string, kind record.Kind) (record.Value, error) {
	switch kind {
	case record.KindNumber:
		return record.ParseNumber(raw)
	case record.KindBool:
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return record.Value{}, err
		}
		return record.Bool(b), nil
	case record.KindDate:
		if t, err := time.Parse(config.DefaultDateLayout, raw); err == nil {
			return record.Date(t), nil
		}
		t, err := cast.ToTimeE(raw)
		if err != nil {
			return record.Value{}, err
		}
		return record.Date(t), nil
	default:
		return record.String(raw), nil
	}
}
