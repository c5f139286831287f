package sift

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/roach88/sift/internal/path"
	"github.com/roach88/sift/internal/value"
)

// Get returns every value the field path resolves to across the surviving
// records, in record order. Wildcard paths fan out; records where the path
// resolves to nothing contribute nothing.
func (q *Query) Get(field string) []any {
	p := path.Parse(field)
	var out []any
	for _, pos := range q.positions {
		out = append(out, path.Resolve(q.data[pos], p)...)
	}
	return out
}

// Pluck projects the surviving records down to the named fields,
// preserving nesting for dotted paths. Missing fields are simply absent
// from the projected record.
func (q *Query) Pluck(fields ...string) []Record {
	parsed := make([]path.Path, len(fields))
	for i, f := range fields {
		parsed[i] = path.Parse(f)
	}

	out := make([]Record, 0, len(q.positions))
	for _, pos := range q.positions {
		projected := Record{}
		for _, p := range parsed {
			v, ok := path.ResolvePlain(q.data[pos], p)
			if !ok {
				continue
			}
			nest := projected
			for _, seg := range p.Segments[:len(p.Segments)-1] {
				child, ok := nest[seg].(map[string]any)
				if !ok {
					child = map[string]any{}
					nest[seg] = child
				}
				nest = child
			}
			nest[p.Segments[len(p.Segments)-1]] = v
		}
		out = append(out, projected)
	}
	return out
}

// ToDict keys the surviving records by a field value. With a non-empty
// valueField the mapped value is that field's resolved value, otherwise
// the whole record. Later records overwrite earlier ones on key collision.
func (q *Query) ToDict(keyField, valueField string) map[string]any {
	kp := path.Parse(keyField)
	var vp path.Path
	if valueField != "" {
		vp = path.Parse(valueField)
	}

	out := make(map[string]any)
	for _, pos := range q.positions {
		k, ok := path.ResolvePlain(q.data[pos], kp)
		if !ok {
			continue
		}
		if valueField == "" {
			out[value.Stringify(k)] = q.data[pos]
			continue
		}
		v, _ := path.ResolvePlain(q.data[pos], vp)
		out[value.Stringify(k)] = v
	}
	return out
}

// OrderBy returns a chain with the surviving records stably sorted by a
// field value: numeric when both values are numeric, lexicographic on the
// stringified values otherwise; records missing the field sort as the
// empty string. The resulting chain bypasses the result cache.
func (q *Query) OrderBy(field string, ascending bool) *Query {
	p := path.Parse(field)
	positions := q.Positions()

	keyOf := func(pos int) any {
		v, _ := path.ResolvePlain(q.data[pos], p)
		return v
	}
	sort.SliceStable(positions, func(i, j int) bool {
		c := orderCompare(keyOf(positions[i]), keyOf(positions[j]))
		if ascending {
			return c < 0
		}
		return c > 0
	})
	return q.detach(positions)
}

func orderCompare(a, b any) int {
	fa, oka := value.ToFloat(a)
	fb, okb := value.ToFloat(b)
	if oka && okb {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(value.Stringify(a), value.Stringify(b))
}

// GroupBy partitions the surviving records by the stringified field value.
// Records missing the field group under the empty key. Sub-chains bypass
// the result cache.
func (q *Query) GroupBy(field string) map[string]*Query {
	p := path.Parse(field)

	grouped := make(map[string][]int)
	var order []string
	for _, pos := range q.positions {
		v, _ := path.ResolvePlain(q.data[pos], p)
		key := value.Stringify(v)
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], pos)
	}

	out := make(map[string]*Query, len(order))
	for _, key := range order {
		out[key] = q.detach(grouped[key])
	}
	return out
}

// Distinct keeps the first occurrence of each structurally distinct
// record, judged by content fingerprint. The chain bypasses the result
// cache.
func (q *Query) Distinct() *Query {
	seen := make(map[string]struct{}, len(q.positions))
	var positions []int
	for _, pos := range q.positions {
		fp := value.Fingerprint(q.data[pos])
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		positions = append(positions, pos)
	}
	return q.detach(positions)
}

// DistinctValues returns the distinct values of a field across the
// surviving records, in first-seen order.
func (q *Query) DistinctValues(field string) []any {
	seen := make(map[string]struct{})
	var out []any
	for _, v := range q.Get(field) {
		key := value.Canonical(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ValueCounts tallies occurrences of each resolved field value.
func (q *Query) ValueCounts(field string) map[string]int {
	out := make(map[string]int)
	for _, v := range q.Get(field) {
		out[value.Stringify(v)]++
	}
	return out
}

// Exists keeps records where the field resolves to at least one value.
// The chain bypasses the result cache.
func (q *Query) Exists(field string) *Query {
	p := path.Parse(field)
	var positions []int
	for _, pos := range q.positions {
		if len(path.Resolve(q.data[pos], p)) > 0 {
			positions = append(positions, pos)
		}
	}
	return q.detach(positions)
}

// Missing keeps records where the field resolves to nothing.
// The chain bypasses the result cache.
func (q *Query) Missing(field string) *Query {
	p := path.Parse(field)
	var positions []int
	for _, pos := range q.positions {
		if len(path.Resolve(q.data[pos], p)) == 0 {
			positions = append(positions, pos)
		}
	}
	return q.detach(positions)
}

// Filter keeps records satisfying an arbitrary predicate. The chain
// bypasses the result cache.
func (q *Query) Filter(keep func(Record) bool) *Query {
	var positions []int
	for _, pos := range q.positions {
		if keep(q.data[pos]) {
			positions = append(positions, pos)
		}
	}
	return q.detach(positions)
}

// Apply builds a fresh dataset by transforming every surviving record and
// returns a new Query lineage over it (same options, new identity, new
// indexes and cache). The source dataset is untouched.
func (q *Query) Apply(transform func(Record) Record) *Query {
	transformed := make([]Record, 0, len(q.positions))
	for _, pos := range q.positions {
		transformed = append(transformed, transform(q.data[pos]))
	}
	return NewWithOptions(transformed, q.shared.opts)
}

// Chunk splits the surviving records into consecutive sub-chains of at
// most size records each. Sub-chains bypass the result cache.
func (q *Query) Chunk(size int) []*Query {
	if size <= 0 {
		return nil
	}
	var out []*Query
	for start := 0; start < len(q.positions); start += size {
		end := start + size
		if end > len(q.positions) {
			end = len(q.positions)
		}
		chunk := make([]int, end-start)
		copy(chunk, q.positions[start:end])
		out = append(out, q.detach(chunk))
	}
	return out
}

// Sample picks n surviving records pseudo-randomly, reproducibly for a
// given seed. The chain bypasses the result cache.
func (q *Query) Sample(n int, seed int64) *Query {
	if n > len(q.positions) {
		n = len(q.positions)
	}
	if n < 0 {
		n = 0
	}
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(q.positions))

	positions := make([]int, n)
	for i := 0; i < n; i++ {
		positions[i] = q.positions[perm[i]]
	}
	return q.detach(positions)
}

// Page is one page of results with pagination bookkeeping.
type Page struct {
	Data       []Record
	Page       int
	PerPage    int
	Total      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// Paginate slices the surviving records into a page. Pages are 1-based;
// out-of-range pages return empty data with correct bookkeeping.
func (q *Query) Paginate(page, perPage int) Page {
	if perPage <= 0 {
		perPage = 10
	}
	if page < 1 {
		page = 1
	}

	total := len(q.positions)
	totalPages := (total + perPage - 1) / perPage

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	data := make([]Record, 0, end-start)
	for _, pos := range q.positions[start:end] {
		data = append(data, q.data[pos])
	}

	return Page{
		Data:       data,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && total > 0,
	}
}
