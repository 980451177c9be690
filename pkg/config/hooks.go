package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ccollicutt/fwf/pkg/record"
)

// Variant builds the record variant the layout describes. Derived ages are
// computed against the current time.
func (l *Layout) Variant() *record.Variant {
	return l.VariantAt(time.Now())
}

// VariantAt is Variant with a fixed clock.
func (l *Layout) VariantAt(now time.Time) *record.Variant {
	return &record.Variant{
		Name:      l.Name,
		Fields:    l.fieldMap,
		PreParse:  l.preParse(),
		PostParse: l.postParse(now),
	}
}

func (l *Layout) preParse() record.PreParseFunc {
	var hooks []record.PreParseFunc
	skip := l.Skip

	if skip.Blank {
		hooks = append(hooks, func(line string) (string, bool, error) {
			return line, strings.TrimSpace(line) != "", nil
		})
	}
	if len(skip.UnlessPrefix) > 0 {
		hooks = append(hooks, func(line string) (string, bool, error) {
			return line, hasAnyPrefix(line, skip.UnlessPrefix), nil
		})
	}
	if len(skip.Prefix) > 0 {
		hooks = append(hooks, func(line string) (string, bool, error) {
			return line, !hasAnyPrefix(line, skip.Prefix), nil
		})
	}
	if l.Uppercase {
		hooks = append(hooks, func(line string) (string, bool, error) {
			return strings.ToUpper(line), true, nil
		})
	}

	if len(hooks) == 0 {
		return nil
	}
	return record.ChainPre(hooks...)
}

func (l *Layout) postParse(now time.Time) record.PostParseFunc {
	var hooks []record.PostParseFunc

	for i := range l.Types {
		tc := &l.Types[i]
		if tc.Type == TypeString {
			continue
		}
		hooks = append(hooks, coerce(tc))
	}
	for _, d := range l.Derive {
		hooks = append(hooks, yearsSince(d, now))
	}
	if len(l.Require) > 0 {
		required := l.Require
		hooks = append(hooks, func(f *record.Fields) (bool, error) {
			for _, name := range required {
				v, ok := f.Get(name)
				if !ok || v.IsEmpty() {
					return false, nil
				}
			}
			return true, nil
		})
	}

	if len(hooks) == 0 {
		return nil
	}
	return record.ChainPost(hooks...)
}

func coerce(tc *TypeConfig) record.PostParseFunc {
	return func(f *record.Fields) (bool, error) {
		text := f.Text(tc.Field)
		v, err := convert(tc.Type, tc.Layout, text)
		if err != nil {
			if tc.fallback == nil {
				return false, fmt.Errorf("field %s: %w", tc.Field, err)
			}
			v = *tc.fallback
		}
		f.Set(tc.Field, v)
		return true, nil
	}
}

func yearsSince(d DeriveConfig, now time.Time) record.PostParseFunc {
	return func(f *record.Fields) (bool, error) {
		v, _ := f.Get(d.YearsSince)
		t, ok := v.Time()
		if !ok {
			return false, fmt.Errorf("field %s: %w: want date, got %s", d.YearsSince, record.ErrTypeMismatch, v.Kind())
		}
		f.Set(d.Name, record.Int(int64(now.Year()-t.Year())))
		return true, nil
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
