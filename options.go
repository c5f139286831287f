package sift

import "github.com/roach88/sift/internal/cache"

// DefaultIndexThreshold is the dataset size at which indexing switches on
// automatically when Options.UseIndex allows it.
const DefaultIndexThreshold = 100

// Options configures one Query lineage at construction time.
//
// The zero value disables indexing entirely (every condition scans).
// UseIndex with a positive IndexThreshold enables indexing once the
// dataset reaches the threshold; UseIndex with a zero threshold requests
// indexing unconditionally.
type Options struct {
	// UseIndex allows per-field indexes to be built. False forces full
	// scans regardless of dataset size.
	UseIndex bool

	// IndexThreshold is the minimum dataset size before indexes are
	// built automatically. Zero or negative means "index from the first
	// record" when UseIndex is true.
	IndexThreshold int

	// CacheCapacity bounds the result cache (entries, LRU eviction).
	// Zero or negative selects the default capacity.
	CacheCapacity int
}

// DefaultOptions enables indexing at the default threshold with the
// default result-cache capacity.
func DefaultOptions() Options {
	return Options{
		UseIndex:       true,
		IndexThreshold: DefaultIndexThreshold,
		CacheCapacity:  cache.DefaultCapacity,
	}
}
