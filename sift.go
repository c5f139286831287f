package sift

import (
	"iter"
	"slices"

	"github.com/google/uuid"

	"github.com/roach88/sift/internal/cache"
	"github.com/roach88/sift/internal/cond"
	"github.com/roach88/sift/internal/index"
)

// Record is one semi-structured record: a decoded-JSON tree of maps,
// slices, and scalar leaves. Records are owned by the caller and never
// mutated by this package.
type Record = map[string]any

// Query is an immutable, chainable filtered view over a dataset.
//
// A Query holds the dataset reference, the ordered surviving positions,
// and the lineage of condition strings that produced them. Where returns
// a new Query and never touches its receiver, so two chains branched from
// the same Query cannot interfere.
type Query struct {
	data      []Record
	positions []int
	lineage   []string

	// cacheable is cleared on chains whose position set can no longer be
	// reproduced from the condition lineage alone (after OrderBy, Filter,
	// Sample, ...). Such chains still filter normally but bypass the
	// result cache.
	cacheable bool

	shared *state
}

// state is shared by every Query in one lineage: the dataset identity,
// the options, the lazily built field indexes, and the result cache.
type state struct {
	identity string
	opts     Options
	indexes  *index.Set
	results  *cache.LRU
}

// New creates a Query over a dataset with default options. The dataset
// must not be mutated while any Query derived from it is in use.
func New(data []Record) *Query {
	return NewWithOptions(data, DefaultOptions())
}

// NewWithOptions creates a Query over a dataset with explicit options.
func NewWithOptions(data []Record, opts Options) *Query {
	positions := make([]int, len(data))
	for i := range positions {
		positions[i] = i
	}

	return &Query{
		data:      data,
		positions: positions,
		cacheable: true,
		shared: &state{
			identity: uuid.Must(uuid.NewV7()).String(),
			opts:     opts,
			indexes:  index.NewSet(data),
			results:  cache.NewLRU(opts.CacheCapacity),
		},
	}
}

// Where applies one condition and returns the narrowed Query.
//
// The condition is parsed (parse-cache assisted) and evaluated against the
// current surviving positions only, via the field index when eligible or a
// full scan otherwise. Results are served from and stored into the result
// cache keyed by dataset identity and condition lineage. Malformed
// conditions filter to an empty result; Where never fails.
func (q *Query) Where(condition string) *Query {
	lineage := append(slices.Clone(q.lineage), condition)

	var key string
	if q.cacheable {
		key = cache.Key(q.shared.identity, lineage)
		if positions, ok := q.shared.results.Get(key); ok {
			return q.derive(positions, lineage)
		}
	}

	positions := q.evaluate(cond.Parse(condition))

	if q.cacheable {
		q.shared.results.Put(key, positions)
	}
	return q.derive(positions, lineage)
}

func (q *Query) evaluate(c *cond.Condition) []int {
	if c.Invalid || len(q.positions) == 0 {
		return []int{}
	}

	if q.indexEligible(c) {
		field := q.shared.indexes.Field(c.Field)
		if exact, residual, ok := field.Lookup(c); ok {
			matched := make(map[int]struct{}, len(exact))
			for _, p := range exact {
				matched[p] = struct{}{}
			}
			// Residual positions (string-valued fields under membership
			// operators) still need the predicate.
			if len(residual) > 0 {
				candidates := make(map[int]struct{}, len(residual))
				for _, p := range residual {
					candidates[p] = struct{}{}
				}
				for _, p := range q.positions {
					if _, ok := candidates[p]; ok && c.Matches(q.data[p]) {
						matched[p] = struct{}{}
					}
				}
			}

			selected := make([]int, 0, len(matched))
			for _, p := range q.positions {
				if _, ok := matched[p]; ok {
					selected = append(selected, p)
				}
			}
			return selected
		}
	}

	selected := make([]int, 0, len(q.positions))
	for _, p := range q.positions {
		if c.Matches(q.data[p]) {
			selected = append(selected, p)
		}
	}
	return selected
}

func (q *Query) indexEligible(c *cond.Condition) bool {
	opts := q.shared.opts
	if !opts.UseIndex || !c.Indexable() {
		return false
	}
	return len(q.data) >= opts.IndexThreshold
}

func (q *Query) derive(positions []int, lineage []string) *Query {
	return &Query{
		data:      q.data,
		positions: positions,
		lineage:   lineage,
		cacheable: q.cacheable,
		shared:    q.shared,
	}
}

// detach produces a chain outside the condition-lineage world: it keeps
// filtering normally but no longer participates in the result cache.
func (q *Query) detach(positions []int) *Query {
	return &Query{
		data:      q.data,
		positions: positions,
		cacheable: false,
		shared:    q.shared,
	}
}

// Count returns the number of surviving records.
func (q *Query) Count() int {
	return len(q.positions)
}

// Positions returns a copy of the ordered surviving positions.
func (q *Query) Positions() []int {
	return slices.Clone(q.positions)
}

// ToList materializes the surviving records in order. The slice is fresh;
// the records themselves are shared with the dataset.
func (q *Query) ToList() []Record {
	out := make([]Record, len(q.positions))
	for i, p := range q.positions {
		out[i] = q.data[p]
	}
	return out
}

// Take materializes at most n surviving records from the front.
func (q *Query) Take(n int) []Record {
	if n < 0 {
		n = 0
	}
	if n > len(q.positions) {
		n = len(q.positions)
	}
	out := make([]Record, n)
	for i := 0; i < n; i++ {
		out[i] = q.data[q.positions[i]]
	}
	return out
}

// First returns the first surviving record, if any.
func (q *Query) First() (Record, bool) {
	if len(q.positions) == 0 {
		return nil, false
	}
	return q.data[q.positions[0]], true
}

// Last returns the last surviving record, if any.
func (q *Query) Last() (Record, bool) {
	if len(q.positions) == 0 {
		return nil, false
	}
	return q.data[q.positions[len(q.positions)-1]], true
}

// At returns the i-th surviving record.
func (q *Query) At(i int) (Record, bool) {
	if i < 0 || i >= len(q.positions) {
		return nil, false
	}
	return q.data[q.positions[i]], true
}

// All iterates the surviving records in order.
func (q *Query) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, p := range q.positions {
			if !yield(q.data[p]) {
				return
			}
		}
	}
}

// ClearCache empties the result cache for this lineage and the
// process-wide parse cache. Existing Query values keep their surviving
// positions - those are snapshots, not cache-backed views.
func (q *Query) ClearCache() {
	q.shared.results.Clear()
	cond.ClearCache()
}
