package query

import (
	"errors"
	"testing"
	"time"

	"github.com/ccollicutt/fwf/pkg/record"
)

func TestParseLookup(t *testing.T) {
	tests := []struct {
		key      string
		wantOp   Operator
		wantName string
		wantKey  string
	}{
		{"name", OpEq, "eq", "name"},
		{"age__gte", OpGe, "ge", "age__ge"},
		{"age__lte", OpLe, "le", "age__le"},
		{"age__lt", OpLt, "lt", "age__lt"},
		{"state__in", OpIn, "in", "state__in"},
		{"name__startswith", OpStartsWith, "startswith", "name__startswith"},
		{"code__isdigit", OpPredicate, "isdigit", "code__isdigit"},
		{"birthday__month", OpAttr, "month", "birthday__month"},
		{"name__len", OpLen, "len", "name__len"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			l, err := ParseLookup(tt.key, record.String("x"))
			if err != nil {
				t.Fatalf("ParseLookup() error = %v", err)
			}
			if l.Op != tt.wantOp || l.Name != tt.wantName {
				t.Errorf("ParseLookup() = %s/%s, want %s/%s", l.Op, l.Name, tt.wantOp, tt.wantName)
			}
			if l.Key() != tt.wantKey {
				t.Errorf("Key() = %q, want %q", l.Key(), tt.wantKey)
			}
		})
	}
}

func TestParseLookup_Errors(t *testing.T) {
	for _, key := range []string{"name__frobnicate", "a__b__c", "name__"} {
		if _, err := ParseLookup(key, record.String("")); !errors.Is(err, ErrUnsupportedOperator) {
			t.Errorf("ParseLookup(%q) error = %v, want ErrUnsupportedOperator", key, err)
		}
	}
	if _, err := ParseLookup("__gt", record.Int(1)); err == nil {
		t.Error("ParseLookup(__gt) expected error for missing field")
	}
}

func TestEval(t *testing.T) {
	july4 := record.Date(time.Date(1980, 7, 4, 0, 0, 0, 0, time.UTC))
	tests := []struct {
		name    string
		key     string
		value   record.Value
		operand record.Value
		want    bool
	}{
		{"eq string", "f", record.String("TX"), record.String("TX"), true},
		{"eq kinds differ", "f", record.String("18"), record.Int(18), false},
		{"ne", "f__ne", record.String(""), record.String(""), false},
		{"gt numeric text", "f__gt", record.String("10"), record.String("9"), true},
		{"lt number", "f__lt", record.Int(3), record.Int(4), true},
		{"ge text vs number", "f__gte", record.String("0018"), record.Int(18), true},
		{"le decimal", "f__lte", record.String("1.50"), record.Float(1.5), true},
		{"gt empty field", "f__gt", record.String(""), record.Int(0), false},
		{"lt empty operand", "f__lt", record.Int(1), record.String(""), false},
		{"gt dates", "f__gt", july4, record.Date(time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)), true},
		{"in list", "f__in", record.String("NY"), record.Strings("TX", "NY"), true},
		{"in list miss", "f__in", record.String("CA"), record.Strings("TX", "NY"), false},
		{"in substring", "f__in", record.String("X"), record.String("TXNY"), true},
		{"in numbers", "f__in", record.Int(2), record.List(record.Int(1), record.Int(2)), true},
		{"contains", "f__contains", record.String("PETR4"), record.String("ETR"), true},
		{"startswith", "f__startswith", record.String("PETR4"), record.String("PETR"), true},
		{"startswith any", "f__startswith", record.String("VALE3"), record.Strings("PETR", "VALE"), true},
		{"endswith", "f__endswith", record.String("PETR4"), record.String("3"), false},
		{"len", "f__len", record.String("José"), record.Int(4), true},
		{"len list", "f__len", record.Strings("a", "b"), record.Int(2), true},
		{"isdigit", "f__isdigit", record.String("0042"), record.Bool(true), true},
		{"isdigit false", "f__isdigit", record.String("42a"), record.Bool(false), true},
		{"isdigit empty", "f__isdigit", record.String(""), record.Bool(false), true},
		{"isupper", "f__isupper", record.String("PETR4"), record.Bool(true), true},
		{"islower", "f__islower", record.String("PETR4"), record.Bool(true), false},
		{"istitle", "f__istitle", record.String("Jean Luc"), record.Bool(true), true},
		{"istitle false", "f__istitle", record.String("JEan"), record.Bool(true), false},
		{"isspace", "f__isspace", record.String("   "), record.Bool(true), true},
		{"isalnum", "f__isalnum", record.String("abc1"), record.Bool(true), true},
		{"isascii empty", "f__isascii", record.String(""), record.Bool(true), true},
		{"month", "f__month", july4, record.Int(7), true},
		{"day", "f__day", july4, record.Int(4), true},
		{"year", "f__year", july4, record.Int(1981), false},
		{"weekday friday", "f__weekday", july4, record.Int(4), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := MustLookup(tt.key, tt.operand)
			got, err := l.Eval(tt.value)
			if err != nil {
				t.Fatalf("Eval() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("%s.Eval(%s) = %v, want %v", l, tt.value, got, tt.want)
			}
		})
	}
}

func TestEval_Errors(t *testing.T) {
	date := record.Date(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	tests := []struct {
		name    string
		key     string
		value   record.Value
		operand record.Value
		wantErr error
	}{
		{"gt non-numeric text", "f__gt", record.String("Alice"), record.Int(1), record.ErrTypeMismatch},
		{"gt text operand", "f__gt", record.String("10"), record.String("ten"), record.ErrTypeMismatch},
		{"gt date vs number", "f__gt", date, record.Int(1), record.ErrTypeMismatch},
		{"startswith number", "f__startswith", record.Int(10), record.String("1"), ErrUnsupportedOperator},
		{"startswith number operand", "f__startswith", record.String("10"), record.Int(1), record.ErrTypeMismatch},
		{"len number", "f__len", record.Int(10), record.Int(2), ErrUnsupportedOperator},
		{"isdigit date", "f__isdigit", date, record.Bool(true), ErrUnsupportedOperator},
		{"month text", "f__month", record.String("7"), record.Int(7), ErrUnsupportedOperator},
		{"in number", "f__in", record.String("1"), record.Int(1), ErrUnsupportedOperator},
		{"in string with number", "f__in", record.Int(1), record.String("123"), record.ErrTypeMismatch},
		{"contains on number", "f__contains", record.Int(1), record.String("1"), ErrUnsupportedOperator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MustLookup(tt.key, tt.operand).Eval(tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Eval() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMatch_UnknownField(t *testing.T) {
	v := &record.Variant{Fields: record.MustFieldMap(record.F("a", 0, 1))}
	res, _ := v.Parse("x", 1)
	rec, _ := res.Record()
	if _, err := MustLookup("b", record.String("x")).Match(rec); !errors.Is(err, record.ErrUnknownField) {
		t.Errorf("Match() error = %v, want ErrUnknownField", err)
	}
}

func TestFilter_ErrorsSurface(t *testing.T) {
	qs := people(t, false)
	if _, err := qs.Filter(Lookups{"name__gt": record.Int(1)}); !errors.Is(err, record.ErrTypeMismatch) {
		t.Errorf("Filter() error = %v, want ErrTypeMismatch", err)
	}
	if _, err := qs.Exclude(Lookups{"missing": record.String("")}); !errors.Is(err, record.ErrUnknownField) {
		t.Errorf("Exclude() error = %v, want ErrUnknownField", err)
	}
	if _, err := qs.Filter(Lookups{"name__bogus": record.String("")}); !errors.Is(err, ErrUnsupportedOperator) {
		t.Errorf("Filter() error = %v, want ErrUnsupportedOperator", err)
	}
}

type grade string

func (g grade) String() string { return string(g) }

// Compare orders grades descending by letter, so "A" sorts above "B".
func (g grade) Compare(other record.Value) (int, error) {
	var o grade
	if c, ok := other.Comparable(); ok {
		o, ok = c.(grade)
		if !ok {
			return 0, record.ErrTypeMismatch
		}
	} else if s, ok := other.Text(); ok {
		o = grade(s)
	} else {
		return 0, record.ErrTypeMismatch
	}
	switch {
	case g == o:
		return 0, nil
	case g < o:
		return 1, nil
	default:
		return -1, nil
	}
}

func TestEval_CustomComparable(t *testing.T) {
	a, b := record.Custom(grade("A")), record.Custom(grade("B"))
	gt, err := MustLookup("g__gt", b).Eval(a)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if !gt {
		t.Error("grade A > B = false, want true")
	}
	eq, _ := MustLookup("g", record.Custom(grade("A"))).Eval(a)
	if !eq {
		t.Error("grade A == A = false")
	}
}

func TestEval_CustomAgainstString(t *testing.T) {
	a := record.Custom(grade("A"))
	tests := []struct {
		key     string
		operand string
		want    bool
	}{
		{"g", "A", true},
		{"g__gt", "B", true},
		{"g__lt", "B", false},
		{"g__ge", "A", true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := MustLookup(tt.key, record.String(tt.operand)).Eval(a)
			if err != nil {
				t.Fatalf("Eval() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Eval(%s=%s) = %v, want %v", tt.key, tt.operand, got, tt.want)
			}
		})
	}
}
