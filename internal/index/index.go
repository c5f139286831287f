// Package index provides lazily built per-field value indexes over a
// dataset snapshot.
//
// A Field index answers equality, membership, ordering, and range
// conditions on a plain (wildcard-free) path without scanning every
// record. The contract is strict equivalence: for any condition the index
// accepts, the positions it returns (plus its residual scan list) must
// equal the positions a full scan with cond.Matches would produce. To
// honor that under mixed-type fields, lookups partition positions by the
// same comparison domains value.Compare uses: numeric vs numeric, bool vs
// bool, and the lexicographic fallback over stringified values.
package index

import (
	"sort"
	"sync"

	"github.com/roach88/sift/internal/cond"
	"github.com/roach88/sift/internal/path"
	"github.com/roach88/sift/internal/value"
)

// Set owns every field index built over one dataset snapshot. Indexes are
// built on first use and reused for the lifetime of the dataset; building
// is guarded so concurrent triggering does exactly one build.
type Set struct {
	mu     sync.Mutex
	data   []map[string]any
	fields map[string]*Field
}

// NewSet creates an empty index set over a dataset snapshot. The dataset
// must not be mutated afterwards.
func NewSet(data []map[string]any) *Set {
	return &Set{data: data, fields: make(map[string]*Field)}
}

// Field returns the index for a plain field path, building it on first use.
func (s *Set) Field(p path.Path) *Field {
	key := p.String()

	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.fields[key]; ok {
		return f
	}
	f := build(s.data, p)
	s.fields[key] = f
	return f
}

type numEntry struct {
	val float64
	pos int
}

type lexEntry struct {
	val string
	pos int
}

// Field is the index for one plain field path.
type Field struct {
	// all holds every position where the path resolves to a non-null
	// value, in dataset order. It is the universe for != complements.
	all []int

	// hash maps normalized scalar value keys to positions (equality).
	hash map[string][]int

	// elems maps normalized element keys of list-valued fields to
	// positions (membership).
	elems map[string][]int

	// arrays / strs are the membership-capable positions: list-valued and
	// string-valued respectively. Substring membership on strings cannot
	// be answered from elems, so strs doubles as the residual scan list.
	arrays []int
	strs   []int

	// numeric is sorted by numeric value; lex is sorted by stringified
	// value and covers every scalar position. boolTrue/boolFalse split the
	// bool positions for bool-literal ordering.
	numeric   []numEntry
	lex       []lexEntry
	boolTrue  []int
	boolFalse []int

	numericPos map[int]struct{}
	boolPos    map[int]struct{}
}

func build(data []map[string]any, p path.Path) *Field {
	f := &Field{
		hash:       make(map[string][]int),
		elems:      make(map[string][]int),
		numericPos: make(map[int]struct{}),
		boolPos:    make(map[int]struct{}),
	}

	for i, rec := range data {
		v, ok := path.ResolvePlain(rec, p)
		if !ok {
			continue
		}
		f.all = append(f.all, i)

		switch val := v.(type) {
		case []any:
			f.arrays = append(f.arrays, i)
			seen := make(map[string]struct{}, len(val))
			for _, elem := range val {
				key, ok := value.Key(elem)
				if !ok {
					continue
				}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				f.elems[key] = append(f.elems[key], i)
			}
		case map[string]any:
			// Present but not scalar: participates only in the != universe.
		default:
			key, ok := value.Key(v)
			if !ok {
				continue
			}
			f.hash[key] = append(f.hash[key], i)
			f.lex = append(f.lex, lexEntry{val: value.Stringify(v), pos: i})

			if n, ok := value.ToFloat(v); ok {
				f.numeric = append(f.numeric, numEntry{val: n, pos: i})
				f.numericPos[i] = struct{}{}
			}
			if b, ok := val.(bool); ok {
				f.boolPos[i] = struct{}{}
				if b {
					f.boolTrue = append(f.boolTrue, i)
				} else {
					f.boolFalse = append(f.boolFalse, i)
				}
			}
			if _, ok := val.(string); ok {
				f.strs = append(f.strs, i)
			}
		}
	}

	sort.Slice(f.numeric, func(a, b int) bool { return f.numeric[a].val < f.numeric[b].val })
	sort.Slice(f.lex, func(a, b int) bool { return f.lex[a].val < f.lex[b].val })
	return f
}

// Lookup answers a condition from the index.
//
// exact holds positions that definitely match. residual holds positions
// whose match status still needs the predicate (string-valued fields under
// membership operators, where substring matching applies). Both are in
// ascending dataset order. ok is false when the operator cannot be served
// by the index at all.
func (f *Field) Lookup(c *cond.Condition) (exact, residual []int, ok bool) {
	switch c.Op {
	case cond.OpEq:
		return ascending(f.equalPositions(c.Lit, c.LitRaw)), nil, true

	case cond.OpNe:
		return subtract(f.all, toSet(f.equalPositions(c.Lit, c.LitRaw))), nil, true

	case cond.OpIn:
		var hits []int
		for _, key := range value.LiteralKeys(c.Lit, c.LitRaw) {
			hits = append(hits, f.elems[key]...)
		}
		return ascending(hits), f.strs, true

	case cond.OpNotIn:
		var hits []int
		for _, key := range value.LiteralKeys(c.Lit, c.LitRaw) {
			hits = append(hits, f.elems[key]...)
		}
		return subtract(f.arrays, toSet(hits)), f.strs, true

	case cond.OpGt, cond.OpGe, cond.OpLt, cond.OpLe:
		return f.ordering(c), nil, true

	case cond.OpBetween:
		return f.between(c), nil, true
	}

	return nil, nil, false
}

// equalPositions collects the positions whose scalar value equals the
// literal under the same key normalization the scan path's Equal uses.
func (f *Field) equalPositions(lit value.Value, raw string) []int {
	var hits []int
	for _, key := range value.LiteralKeys(lit, raw) {
		hits = append(hits, f.hash[key]...)
	}
	return hits
}

// ordering answers > < >= <= by binary search, partitioned the way the
// scan path partitions: positions in the literal's native domain compare
// there, every other scalar position falls back to the lexicographic
// projection.
func (f *Field) ordering(c *cond.Condition) []int {
	if n, isNum := value.Number(c.Lit); isNum {
		hits := f.numericSpan(c.Op, n)
		hits = append(hits, exclude(f.lexSpan(c.Op, c.LitRaw), f.numericPos)...)
		return ascending(hits)
	}

	if b, isBool := c.Lit.(value.Bool); isBool {
		hits := f.boolSpan(c.Op, bool(b))
		hits = append(hits, exclude(f.lexSpan(c.Op, c.LitRaw), f.boolPos)...)
		return ascending(hits)
	}

	return ascending(f.lexSpan(c.Op, c.LitRaw))
}

func (f *Field) between(c *cond.Condition) []int {
	lo, okLo := value.Number(c.Lo)
	hi, okHi := value.Number(c.Hi)
	if okLo && okHi {
		from := sort.Search(len(f.numeric), func(i int) bool { return f.numeric[i].val >= lo })
		to := sort.Search(len(f.numeric), func(i int) bool { return f.numeric[i].val > hi })
		hits := make([]int, 0, to-from)
		for _, e := range f.numeric[from:to] {
			hits = append(hits, e.pos)
		}
		hits = append(hits, exclude(f.lexBetween(c.LoRaw, c.HiRaw), f.numericPos)...)
		return ascending(hits)
	}
	return ascending(f.lexBetween(c.LoRaw, c.HiRaw))
}

func (f *Field) numericSpan(op cond.Token, n float64) []int {
	lower := sort.Search(len(f.numeric), func(i int) bool { return f.numeric[i].val >= n })
	upper := sort.Search(len(f.numeric), func(i int) bool { return f.numeric[i].val > n })
	return spanPositionsNum(f.numeric, op, lower, upper)
}

func (f *Field) lexSpan(op cond.Token, s string) []int {
	lower := sort.Search(len(f.lex), func(i int) bool { return f.lex[i].val >= s })
	upper := sort.Search(len(f.lex), func(i int) bool { return f.lex[i].val > s })
	return spanPositionsLex(f.lex, op, lower, upper)
}

func (f *Field) lexBetween(lo, hi string) []int {
	from := sort.Search(len(f.lex), func(i int) bool { return f.lex[i].val >= lo })
	to := sort.Search(len(f.lex), func(i int) bool { return f.lex[i].val > hi })
	hits := make([]int, 0, to-from)
	for _, e := range f.lex[from:to] {
		hits = append(hits, e.pos)
	}
	return hits
}

func (f *Field) boolSpan(op cond.Token, b bool) []int {
	// false < true, mirroring value.Compare's bool domain.
	var hits []int
	include := func(v bool, positions []int) {
		cmp := 0
		switch {
		case v && !b:
			cmp = 1
		case !v && b:
			cmp = -1
		}
		if opAccepts(op, cmp) {
			hits = append(hits, positions...)
		}
	}
	include(false, f.boolFalse)
	include(true, f.boolTrue)
	return hits
}

func opAccepts(op cond.Token, cmp int) bool {
	switch op {
	case cond.OpGt:
		return cmp > 0
	case cond.OpGe:
		return cmp >= 0
	case cond.OpLt:
		return cmp < 0
	case cond.OpLe:
		return cmp <= 0
	}
	return false
}

func spanPositionsNum(entries []numEntry, op cond.Token, lower, upper int) []int {
	var from, to int
	switch op {
	case cond.OpGt:
		from, to = upper, len(entries)
	case cond.OpGe:
		from, to = lower, len(entries)
	case cond.OpLt:
		from, to = 0, lower
	case cond.OpLe:
		from, to = 0, upper
	}
	hits := make([]int, 0, to-from)
	for _, e := range entries[from:to] {
		hits = append(hits, e.pos)
	}
	return hits
}

func spanPositionsLex(entries []lexEntry, op cond.Token, lower, upper int) []int {
	var from, to int
	switch op {
	case cond.OpGt:
		from, to = upper, len(entries)
	case cond.OpGe:
		from, to = lower, len(entries)
	case cond.OpLt:
		from, to = 0, lower
	case cond.OpLe:
		from, to = 0, upper
	}
	hits := make([]int, 0, to-from)
	for _, e := range entries[from:to] {
		hits = append(hits, e.pos)
	}
	return hits
}

// ascending sorts and deduplicates a position list.
func ascending(positions []int) []int {
	if len(positions) < 2 {
		return positions
	}
	sort.Ints(positions)
	out := positions[:1]
	for _, p := range positions[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

func toSet(positions []int) map[int]struct{} {
	set := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		set[p] = struct{}{}
	}
	return set
}

// subtract returns the members of base (already ascending) not in drop.
func subtract(base []int, drop map[int]struct{}) []int {
	out := make([]int, 0, len(base))
	for _, p := range base {
		if _, gone := drop[p]; !gone {
			out = append(out, p)
		}
	}
	return out
}

// exclude returns the members of positions not in drop, leaving the
// input slice intact.
func exclude(positions []int, drop map[int]struct{}) []int {
	out := make([]int, 0, len(positions))
	for _, p := range positions {
		if _, gone := drop[p]; !gone {
			out = append(out, p)
		}
	}
	return out
}
