package query

import (
	"fmt"
	"sort"

	"github.com/ccollicutt/fwf/pkg/record"
)

// HeaderSource supplies default projection fields for a QuerySet that has
// no records to take them from. parser.File implements it.
type HeaderSource interface {
	Headers() []string
}

// QuerySet is an immutable, ordered selection of records. Every operation
// returns a new QuerySet; records themselves are shared, never copied.
type QuerySet struct {
	records []*record.Record
	source  HeaderSource
}

// New returns a QuerySet over records. source may be nil.
func New(records []*record.Record, source HeaderSource) *QuerySet {
	return &QuerySet{
		records: append([]*record.Record(nil), records...),
		source:  source,
	}
}

// Concat joins several QuerySets in argument order. The first set's header
// source is kept.
func Concat(sets ...*QuerySet) *QuerySet {
	var (
		records []*record.Record
		source  HeaderSource
	)
	for _, qs := range sets {
		if source == nil {
			source = qs.source
		}
		records = append(records, qs.records...)
	}
	return &QuerySet{records: records, source: source}
}

func (qs *QuerySet) derive(records []*record.Record) *QuerySet {
	return &QuerySet{records: records, source: qs.source}
}

// Filter keeps records matching every lookup.
func (qs *QuerySet) Filter(ls Lookups) (*QuerySet, error) {
	compiled, err := ls.Compile()
	if err != nil {
		return nil, err
	}
	return qs.FilterBy(compiled...)
}

// FilterBy is Filter with already compiled lookups.
func (qs *QuerySet) FilterBy(lookups ...Lookup) (*QuerySet, error) {
	return qs.keep(lookups, func(matched, total int) bool { return matched == total })
}

// Exclude drops every record matching at least one lookup.
func (qs *QuerySet) Exclude(ls Lookups) (*QuerySet, error) {
	compiled, err := ls.Compile()
	if err != nil {
		return nil, err
	}
	return qs.ExcludeBy(compiled...)
}

// ExcludeBy is Exclude with already compiled lookups.
func (qs *QuerySet) ExcludeBy(lookups ...Lookup) (*QuerySet, error) {
	return qs.keep(lookups, func(matched, _ int) bool { return matched == 0 })
}

// keep evaluates every lookup against every record, so a malformed lookup
// fails regardless of the values it is tested against first.
func (qs *QuerySet) keep(lookups []Lookup, keepIf func(matched, total int) bool) (*QuerySet, error) {
	out := make([]*record.Record, 0, len(qs.records))
	for _, rec := range qs.records {
		matched := 0
		for _, l := range lookups {
			ok, err := l.Match(rec)
			if err != nil {
				return nil, recordError(rec, err)
			}
			if ok {
				matched++
			}
		}
		if keepIf(matched, len(lookups)) {
			out = append(out, rec)
		}
	}
	return qs.derive(out), nil
}

func recordError(rec *record.Record, err error) error {
	if rec.LineNumber() > 0 {
		return fmt.Errorf("line %d: %w", rec.LineNumber(), err)
	}
	return err
}

// OrderBy sorts by a field's natural ordering. The sort is stable, and
// reverse keeps records with equal keys in their current relative order.
func (qs *QuerySet) OrderBy(field string, reverse bool) (*QuerySet, error) {
	keys := make([]record.Value, len(qs.records))
	for i, rec := range qs.records {
		v, err := rec.Get(field)
		if err != nil {
			return nil, recordError(rec, err)
		}
		keys[i] = v
	}

	idx := make([]int, len(qs.records))
	for i := range idx {
		idx[i] = i
	}
	var sortErr error
	sort.SliceStable(idx, func(i, j int) bool {
		c, err := record.Compare(keys[idx[i]], keys[idx[j]])
		if err != nil {
			if sortErr == nil {
				sortErr = fmt.Errorf("order by %s: %w", field, err)
			}
			return false
		}
		if reverse {
			return c > 0
		}
		return c < 0
	})
	if sortErr != nil {
		return nil, sortErr
	}

	out := make([]*record.Record, len(idx))
	for i, j := range idx {
		out[i] = qs.records[j]
	}
	return qs.derive(out), nil
}

// Count returns the number of records.
func (qs *QuerySet) Count() int { return len(qs.records) }

// Len is Count.
func (qs *QuerySet) Len() int { return len(qs.records) }

// At returns the record at index i. Negative indices count from the end.
func (qs *QuerySet) At(i int) (*record.Record, error) {
	n := len(qs.records)
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return nil, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, n)
	}
	return qs.records[i], nil
}

// First returns the first record, or nil when the set is empty.
func (qs *QuerySet) First() *record.Record {
	if len(qs.records) == 0 {
		return nil
	}
	return qs.records[0]
}

// Each calls fn with the index and record of every member in order. It
// stops at and returns the first error fn returns.
func (qs *QuerySet) Each(fn func(int, *record.Record) error) error {
	for i, rec := range qs.records {
		if err := fn(i, rec); err != nil {
			return err
		}
	}
	return nil
}

// Slice returns the records in [start, end). Negative bounds count from
// the end and out-of-range bounds are clamped.
func (qs *QuerySet) Slice(start, end int) *QuerySet {
	n := len(qs.records)
	start, end = clamp(start, n), clamp(end, n)
	if end < start {
		end = start
	}
	return qs.derive(append([]*record.Record(nil), qs.records[start:end]...))
}

func clamp(i, n int) int {
	if i < 0 {
		i += n
		if i < 0 {
			return 0
		}
	}
	if i > n {
		return n
	}
	return i
}

// Records returns a copy of the record slice.
func (qs *QuerySet) Records() []*record.Record {
	return append([]*record.Record(nil), qs.records...)
}

// Headers returns the default projection fields: the first record's
// headers, or the header source's when the set is empty.
func (qs *QuerySet) Headers() []string {
	if len(qs.records) > 0 {
		return qs.records[0].Headers()
	}
	if qs.source != nil {
		return qs.source.Headers()
	}
	return nil
}

// Values projects the named fields, or the default headers when none are
// given.
func (qs *QuerySet) Values(fields ...string) (*ValuesList, error) {
	flat := len(fields) == 1
	if len(fields) == 0 {
		fields = qs.Headers()
	}
	rows := make([][]record.Value, 0, len(qs.records))
	for _, rec := range qs.records {
		row, err := rec.Values(fields...)
		if err != nil {
			return nil, recordError(rec, err)
		}
		rows = append(rows, row)
	}
	return newValuesList(fields, rows, flat), nil
}

// Unique returns the distinct projected values in first-seen order.
func (qs *QuerySet) Unique(fields ...string) (*ValuesList, error) {
	all, err := qs.Values(fields...)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, all.Len())
	rows := make([][]record.Value, 0, all.Len())
	for _, row := range all.rows {
		key := rowKey(row)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, row)
	}
	return newValuesList(all.headers, rows, all.flat), nil
}
