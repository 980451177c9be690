package query

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ccollicutt/fwf/pkg/record"
)

// predicates are the zero-argument character-class tests on text.
var predicates = map[string]func(string) bool{
	"isdigit":   func(s string) bool { return s != "" && allRunes(s, unicode.IsDigit) },
	"isdecimal": func(s string) bool { return s != "" && allRunes(s, func(r rune) bool { return unicode.Is(unicode.Nd, r) }) },
	"isnumeric": func(s string) bool { return s != "" && allRunes(s, unicode.IsNumber) },
	"isalpha":   func(s string) bool { return s != "" && allRunes(s, unicode.IsLetter) },
	"isalnum": func(s string) bool {
		return s != "" && allRunes(s, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsNumber(r) })
	},
	"isspace": func(s string) bool { return s != "" && allRunes(s, unicode.IsSpace) },
	"isascii": func(s string) bool { return allRunes(s, func(r rune) bool { return r < utf8.RuneSelf }) },
	"isupper": func(s string) bool { return hasCased(s) && !strings.ContainsFunc(s, unicode.IsLower) },
	"islower": func(s string) bool { return hasCased(s) && !strings.ContainsFunc(s, unicode.IsUpper) },
	"istitle": isTitle,
}

// dateAttributes are the components readable from date values.
var dateAttributes = map[string]func(time.Time) int{
	"year":    func(t time.Time) int { return t.Year() },
	"month":   func(t time.Time) int { return int(t.Month()) },
	"day":     func(t time.Time) int { return t.Day() },
	"hour":    func(t time.Time) int { return t.Hour() },
	"minute":  func(t time.Time) int { return t.Minute() },
	"second":  func(t time.Time) int { return t.Second() },
	"yearday": func(t time.Time) int { return t.YearDay() },
	// Monday is 0.
	"weekday": func(t time.Time) int { return (int(t.Weekday()) + 6) % 7 },
}

func allRunes(s string, fn func(rune) bool) bool {
	for _, r := range s {
		if !fn(r) {
			return false
		}
	}
	return true
}

func isCased(r rune) bool { return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r) }

func hasCased(s string) bool { return strings.ContainsFunc(s, isCased) }

// isTitle reports whether upper-case runes only follow uncased runes and
// lower-case runes only follow cased ones.
func isTitle(s string) bool {
	prevCased, seen := false, false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased, seen = true, true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased = true
		default:
			prevCased = false
		}
	}
	return seen
}

// Eval applies the lookup to a single field value.
func (l Lookup) Eval(v record.Value) (bool, error) {
	switch l.Op {
	case OpEq:
		return v.Equal(l.Operand), nil
	case OpNe:
		return !v.Equal(l.Operand), nil
	case OpLt, OpLe, OpGt, OpGe:
		c, ok, err := orderCompare(v, l.Operand)
		if err != nil || !ok {
			return false, err
		}
		switch l.Op {
		case OpLt:
			return c < 0, nil
		case OpLe:
			return c <= 0, nil
		case OpGt:
			return c > 0, nil
		default:
			return c >= 0, nil
		}
	case OpIn:
		return membership(v, l.Operand)
	case OpContains:
		return membership(l.Operand, v)
	case OpStartsWith, OpEndsWith:
		return affix(l.Op, v, l.Operand)
	case OpLen:
		n, err := length(v)
		if err != nil {
			return false, err
		}
		return record.Int(int64(n)).Equal(l.Operand), nil
	case OpPredicate:
		s, ok := v.Text()
		if !ok {
			return false, fmt.Errorf("%w: %s on %s value", ErrUnsupportedOperator, l.Name, v.Kind())
		}
		return record.Bool(predicates[l.Name](s)).Equal(l.Operand), nil
	case OpAttr:
		t, ok := v.Time()
		if !ok {
			return false, fmt.Errorf("%w: %s on %s value", ErrUnsupportedOperator, l.Name, v.Kind())
		}
		return record.Int(int64(dateAttributes[l.Name](t))).Equal(l.Operand), nil
	default:
		return false, fmt.Errorf("%w: %s", ErrUnsupportedOperator, l.Op)
	}
}

// orderCompare compares for the ordering operators. Text takes the numeric
// branch: both sides are read as decimals, and the comparison does not hold
// (ok=false) when either side is the empty string. A custom value on either
// side always uses its own Compare.
func orderCompare(a, b record.Value) (c int, ok bool, err error) {
	custom := a.Kind() == record.KindCustom || b.Kind() == record.KindCustom
	if !custom && (a.Kind() == record.KindString || b.Kind() == record.KindString) {
		if a.IsEmpty() || b.IsEmpty() {
			return 0, false, nil
		}
		na, err := asNumber(a)
		if err != nil {
			return 0, false, err
		}
		nb, err := asNumber(b)
		if err != nil {
			return 0, false, err
		}
		a, b = na, nb
	}
	c, err = record.Compare(a, b)
	if err != nil {
		return 0, false, err
	}
	return c, true, nil
}

func asNumber(v record.Value) (record.Value, error) {
	switch v.Kind() {
	case record.KindNumber:
		return v, nil
	case record.KindString:
		s, _ := v.Text()
		return record.ParseNumber(s)
	default:
		return record.Value{}, fmt.Errorf("%w: %s is not numeric", record.ErrTypeMismatch, v.Kind())
	}
}

// membership reports whether item is in container: an element of a list or
// a substring of text.
func membership(item, container record.Value) (bool, error) {
	if items, ok := container.Items(); ok {
		for _, candidate := range items {
			if item.Equal(candidate) {
				return true, nil
			}
		}
		return false, nil
	}
	if haystack, ok := container.Text(); ok {
		needle, ok := item.Text()
		if !ok {
			return false, fmt.Errorf("%w: %s in string", record.ErrTypeMismatch, item.Kind())
		}
		return strings.Contains(haystack, needle), nil
	}
	return false, fmt.Errorf("%w: membership in %s value", ErrUnsupportedOperator, container.Kind())
}

func affix(op Operator, v, operand record.Value) (bool, error) {
	s, ok := v.Text()
	if !ok {
		return false, fmt.Errorf("%w: %s on %s value", ErrUnsupportedOperator, op, v.Kind())
	}
	test := strings.HasPrefix
	if op == OpEndsWith {
		test = strings.HasSuffix
	}

	// A list operand matches any of its strings.
	if items, ok := operand.Items(); ok {
		for _, item := range items {
			p, ok := item.Text()
			if !ok {
				return false, fmt.Errorf("%w: %s with %s operand", record.ErrTypeMismatch, op, item.Kind())
			}
			if test(s, p) {
				return true, nil
			}
		}
		return false, nil
	}
	p, ok := operand.Text()
	if !ok {
		return false, fmt.Errorf("%w: %s with %s operand", record.ErrTypeMismatch, op, operand.Kind())
	}
	return test(s, p), nil
}

func length(v record.Value) (int, error) {
	if s, ok := v.Text(); ok {
		return utf8.RuneCountInString(s), nil
	}
	if items, ok := v.Items(); ok {
		return len(items), nil
	}
	return 0, fmt.Errorf("%w: len of %s value", ErrUnsupportedOperator, v.Kind())
}
