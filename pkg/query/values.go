package query

import (
	"strings"

	"github.com/ccollicutt/fwf/pkg/record"
)

// ValuesList is the result of a projection. Headers are kept for display
// only and never take part in Equal.
type ValuesList struct {
	headers []string
	rows    [][]record.Value
	flat    bool
}

func newValuesList(headers []string, rows [][]record.Value, flat bool) *ValuesList {
	return &ValuesList{headers: append([]string(nil), headers...), rows: rows, flat: flat}
}

// Headers returns the captured header labels.
func (l *ValuesList) Headers() []string { return append([]string(nil), l.headers...) }

// Len returns the number of rows.
func (l *ValuesList) Len() int { return len(l.rows) }

// Flat reports whether the list holds a single column of scalars. Only a
// projection naming exactly one field is flat; the default projection is
// always tuples.
func (l *ValuesList) Flat() bool { return l.flat }

// Rows returns every row as a tuple of values.
func (l *ValuesList) Rows() [][]record.Value {
	out := make([][]record.Value, len(l.rows))
	for i, row := range l.rows {
		out[i] = append([]record.Value(nil), row...)
	}
	return out
}

// Row returns row i.
func (l *ValuesList) Row(i int) []record.Value { return append([]record.Value(nil), l.rows[i]...) }

// Scalars returns the first column. For a flat list that is every value.
func (l *ValuesList) Scalars() []record.Value {
	out := make([]record.Value, 0, len(l.rows))
	for _, row := range l.rows {
		if len(row) > 0 {
			out = append(out, row[0])
		}
	}
	return out
}

// Strings renders every value with Value.String.
func (l *ValuesList) Strings() [][]string {
	out := make([][]string, len(l.rows))
	for i, row := range l.rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = v.String()
		}
		out[i] = cells
	}
	return out
}

// Equal compares the shape and rows of two lists, ignoring headers. A flat
// column never equals a list of one-value tuples.
func (l *ValuesList) Equal(other *ValuesList) bool {
	if l == nil || other == nil {
		return l == other
	}
	if l.flat != other.flat || len(l.rows) != len(other.rows) {
		return false
	}
	for i := range l.rows {
		if len(l.rows[i]) != len(other.rows[i]) {
			return false
		}
		for j := range l.rows[i] {
			if !l.rows[i][j].Equal(other.rows[i][j]) {
				return false
			}
		}
	}
	return true
}

func rowKey(row []record.Value) string {
	parts := make([]string, len(row))
	for i, v := range row {
		parts[i] = v.Key()
	}
	return strings.Join(parts, "\x1e")
}
