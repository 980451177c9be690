// Package query filters, orders and projects collections of parsed records.
//
// Lookups use the field__operator key syntax:
//
//	qs.Filter(query.Lookups{"name__startswith": record.String("A"), "age__gte": record.Int(18)})
//
// A key without an operator tests equality. Lookups are compiled into a
// closed set of operators evaluated against typed field values.
package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ccollicutt/fwf/pkg/record"
)

// Separator splits a lookup key into field and operator.
const Separator = "__"

var (
	// ErrUnsupportedOperator is returned for operator names outside the
	// supported set, or operators that do not apply to a value's kind.
	ErrUnsupportedOperator = errors.New("unsupported operator")

	// ErrIndexOutOfRange is returned by At for indices past either end.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Operator is one comparison of the lookup interpreter.
type Operator int

const (
	OpEq Operator = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpIn
	OpContains
	OpStartsWith
	OpEndsWith
	OpLen
	// OpPredicate runs a zero-argument character-class test such as isdigit
	// and compares its result with the operand.
	OpPredicate
	// OpAttr reads a component of a date such as its year and compares it
	// with the operand.
	OpAttr
)

var operatorNames = map[string]Operator{
	"eq":         OpEq,
	"ne":         OpNe,
	"lt":         OpLt,
	"le":         OpLe,
	"gt":         OpGt,
	"ge":         OpGe,
	"in":         OpIn,
	"contains":   OpContains,
	"startswith": OpStartsWith,
	"endswith":   OpEndsWith,
	"len":        OpLen,
}

var aliases = map[string]string{
	"lte": "le",
	"gte": "ge",
}

func (op Operator) String() string {
	switch op {
	case OpPredicate:
		return "predicate"
	case OpAttr:
		return "attr"
	}
	for name, o := range operatorNames {
		if o == op {
			return name
		}
	}
	return fmt.Sprintf("operator(%d)", int(op))
}

// Lookup is one compiled criterion.
type Lookup struct {
	Field   string
	Op      Operator
	Name    string // operator name as written after canonicalization
	Operand record.Value
}

// ParseLookup compiles a field__operator key and its operand.
func ParseLookup(key string, operand record.Value) (Lookup, error) {
	field, name, found := strings.Cut(key, Separator)
	if field == "" {
		return Lookup{}, fmt.Errorf("lookup %q: field name is required", key)
	}
	if !found {
		return Lookup{Field: field, Op: OpEq, Name: "eq", Operand: operand}, nil
	}
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}

	l := Lookup{Field: field, Name: name, Operand: operand}
	if op, ok := operatorNames[name]; ok {
		l.Op = op
		return l, nil
	}
	switch {
	case predicates[name] != nil:
		l.Op = OpPredicate
	case dateAttributes[name] != nil:
		l.Op = OpAttr
	default:
		return Lookup{}, fmt.Errorf("%w: %q in lookup %q", ErrUnsupportedOperator, name, key)
	}
	return l, nil
}

// MustLookup is like ParseLookup but panics on error.
func MustLookup(key string, operand record.Value) Lookup {
	l, err := ParseLookup(key, operand)
	if err != nil {
		panic(err)
	}
	return l
}

// Key returns the lookup in field__operator form.
func (l Lookup) Key() string {
	if l.Op == OpEq && l.Name == "eq" {
		return l.Field
	}
	return l.Field + Separator + l.Name
}

func (l Lookup) String() string {
	return fmt.Sprintf("%s=%s", l.Key(), l.Operand)
}

// Match evaluates the lookup against a record's field.
func (l Lookup) Match(r *record.Record) (bool, error) {
	v, err := r.Get(l.Field)
	if err != nil {
		return false, err
	}
	ok, err := l.Eval(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", l.Key(), err)
	}
	return ok, nil
}

// Lookups maps lookup keys to operands, mirroring keyword arguments.
type Lookups map[string]record.Value

// Compile parses every key. Lookups are returned sorted by key so
// evaluation, and therefore error reporting, is deterministic.
func (ls Lookups) Compile() ([]Lookup, error) {
	keys := make([]string, 0, len(ls))
	for k := range ls {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Lookup, 0, len(keys))
	for _, k := range keys {
		l, err := ParseLookup(k, ls[k])
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}
