package record

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags the concrete type held by a Value.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindDate
	KindBool
	KindList
	KindCustom
)

var kindNames = map[Kind]string{
	KindString: "string",
	KindNumber: "number",
	KindDate:   "date",
	KindBool:   "bool",
	KindList:   "list",
	KindCustom: "custom",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Comparable is implemented by hook-provided field types that need their own
// ordering and equality.
type Comparable interface {
	// Compare returns -1, 0 or 1, or an error when other cannot be compared.
	Compare(other Value) (int, error)
	String() string
}

// Value is a single field value. The zero Value is the empty string.
type Value struct {
	kind   Kind
	str    string
	num    decimal.Decimal
	date   time.Time
	flag   bool
	list   []Value
	custom Comparable
}

// String returns a text value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a decimal value.
func Number(d decimal.Decimal) Value { return Value{kind: KindNumber, num: d} }

// Int returns a numeric value from an integer.
func Int(n int64) Value { return Number(decimal.NewFromInt(n)) }

// Float returns a numeric value from a float.
func Float(f float64) Value { return Number(decimal.NewFromFloat(f)) }

// Date returns a date/time value.
func Date(t time.Time) Value { return Value{kind: KindDate, date: t} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// List returns a list value, used as the operand of membership lookups.
func List(vs ...Value) Value {
	return Value{kind: KindList, list: append([]Value(nil), vs...)}
}

// Strings returns a list of text values.
func Strings(ss ...string) Value {
	vs := make([]Value, len(ss))
	for i, s := range ss {
		vs[i] = String(s)
	}
	return List(vs...)
}

// Custom wraps a hook-provided comparable type. A nil c is kept; it equals
// only another nil custom value and cannot be ordered.
func Custom(c Comparable) Value { return Value{kind: KindCustom, custom: c} }

func (v Value) isNilCustom() bool { return v.kind == KindCustom && v.custom == nil }

// ParseNumber parses decimal text into a numeric value.
func ParseNumber(s string) (Value, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q is not a number", ErrTypeMismatch, s)
	}
	return Number(d), nil
}

func (v Value) Kind() Kind { return v.kind }

// Text returns the string content and whether v is a string.
func (v Value) Text() (string, bool) { return v.str, v.kind == KindString }

// Decimal returns the numeric content and whether v is a number.
func (v Value) Decimal() (decimal.Decimal, bool) { return v.num, v.kind == KindNumber }

// Time returns the date content and whether v is a date.
func (v Value) Time() (time.Time, bool) { return v.date, v.kind == KindDate }

// Flag returns the boolean content and whether v is a bool.
func (v Value) Flag() (bool, bool) { return v.flag, v.kind == KindBool }

// Items returns the list content and whether v is a list.
func (v Value) Items() ([]Value, bool) { return v.list, v.kind == KindList }

// Comparable returns the custom content and whether v is custom.
func (v Value) Comparable() (Comparable, bool) { return v.custom, v.kind == KindCustom }

// IsEmpty reports whether v is the empty string.
func (v Value) IsEmpty() bool { return v.kind == KindString && v.str == "" }

// String renders v for display.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return v.num.String()
	case KindDate:
		if v.date.Hour() == 0 && v.date.Minute() == 0 && v.date.Second() == 0 && v.date.Nanosecond() == 0 {
			return v.date.Format("2006-01-02")
		}
		return v.date.Format(time.RFC3339)
	case KindBool:
		if v.flag {
			return "true"
		}
		return "false"
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindCustom:
		if v.custom == nil {
			return ""
		}
		return v.custom.String()
	default:
		return v.str
	}
}

// Key is a kind-tagged identity, equal for values that are Equal.
func (v Value) Key() string {
	switch v.kind {
	case KindNumber:
		// decimal.String normalizes trailing zeros away, so 1.50 and 1.5 share a key.
		return "n:" + v.num.String()
	case KindDate:
		return "d:" + v.date.UTC().Format(time.RFC3339Nano)
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.Key()
		}
		return "l:[" + strings.Join(parts, "\x1f") + "]"
	default:
		return v.kind.String()[:1] + ":" + v.String()
	}
}

// Equal reports whether v and other hold the same value. Values of different
// kinds are never equal.
func (v Value) Equal(other Value) bool {
	if v.isNilCustom() || other.isNilCustom() {
		return v.isNilCustom() && other.isNilCustom()
	}
	if v.kind == KindCustom {
		c, err := v.custom.Compare(other)
		return err == nil && c == 0
	}
	if other.kind == KindCustom {
		return other.Equal(v)
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num.Equal(other.num)
	case KindDate:
		return v.date.Equal(other.date)
	case KindBool:
		return v.flag == other.flag
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	default:
		return v.str == other.str
	}
}

// MarshalJSON encodes numbers as JSON numbers, dates as RFC 3339 strings and
// custom values by their String form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return []byte(v.num.String()), nil
	case KindDate:
		return json.Marshal(v.date.Format(time.RFC3339))
	case KindBool:
		return json.Marshal(v.flag)
	case KindList:
		return json.Marshal(v.list)
	case KindCustom:
		return json.Marshal(v.String())
	default:
		return json.Marshal(v.str)
	}
}

// Compare is the natural ordering used for sorting: strings
// lexicographically, numbers numerically, dates chronologically and false
// before true. Custom values use their Comparable implementation. Any other
// combination is ErrTypeMismatch.
func Compare(a, b Value) (int, error) {
	if a.isNilCustom() || b.isNilCustom() {
		return 0, fmt.Errorf("%w: cannot order a nil custom value", ErrTypeMismatch)
	}
	if a.kind == KindCustom {
		return a.custom.Compare(b)
	}
	if b.kind == KindCustom {
		c, err := b.custom.Compare(a)
		return -c, err
	}
	if a.kind != b.kind {
		return 0, fmt.Errorf("%w: cannot order %s against %s", ErrTypeMismatch, a.kind, b.kind)
	}
	switch a.kind {
	case KindString:
		return strings.Compare(a.str, b.str), nil
	case KindNumber:
		return a.num.Cmp(b.num), nil
	case KindDate:
		return a.date.Compare(b.date), nil
	case KindBool:
		switch {
		case a.flag == b.flag:
			return 0, nil
		case !a.flag:
			return -1, nil
		default:
			return 1, nil
		}
	default:
		return 0, fmt.Errorf("%w: %s values have no ordering", ErrTypeMismatch, a.kind)
	}
}
