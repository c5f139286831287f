// Package path resolves dotted, optionally wildcarded field paths like
// "favorite.*.food" against nested records.
package path

import (
	"sort"
	"strings"
)

// Wildcard is the path segment that fans out over every element of a list
// or every value of a map.
const Wildcard = "*"

// Path is a parsed field path: an ordered list of segments, each either a
// literal map key or the wildcard marker.
type Path struct {
	Segments []string
}

// Parse splits a dotted field-path token into a Path.
// "favorite.*.food" → ["favorite", "*", "food"].
func Parse(field string) Path {
	return Path{Segments: strings.Split(field, ".")}
}

// String reassembles the dotted form.
func (p Path) String() string {
	return strings.Join(p.Segments, ".")
}

// HasWildcard reports whether any segment is the wildcard marker.
func (p Path) HasWildcard() bool {
	for _, seg := range p.Segments {
		if seg == Wildcard {
			return true
		}
	}
	return false
}

// Resolve walks the record and returns every leaf value reachable by the
// path. A missing key or a segment applied to the wrong shape simply
// prunes that branch - resolution never fails.
//
// The traversal keeps an explicit frontier instead of recursing, so the
// stack stays flat no matter how deeply nested (or adversarial) the record
// is. Wildcards over maps visit values in sorted key order to keep the
// output deterministic.
//
// nil leaves are dropped: an explicit JSON null behaves exactly like an
// absent field.
func Resolve(record any, p Path) []any {
	frontier := []any{record}

	for _, seg := range p.Segments {
		if len(frontier) == 0 {
			return nil
		}

		var next []any
		for _, node := range frontier {
			if seg == Wildcard {
				switch n := node.(type) {
				case []any:
					next = append(next, n...)
				case map[string]any:
					keys := make([]string, 0, len(n))
					for k := range n {
						keys = append(keys, k)
					}
					sort.Strings(keys)
					for _, k := range keys {
						next = append(next, n[k])
					}
				}
				// Scalars under a wildcard yield nothing.
				continue
			}

			if m, ok := node.(map[string]any); ok {
				if v, ok := m[seg]; ok {
					next = append(next, v)
				}
			}
		}
		frontier = next
	}

	// Drop null leaves.
	out := frontier[:0]
	for _, v := range frontier {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

// ResolvePlain is the fast path for wildcard-free paths: a straight walk
// down nested maps yielding at most one value. The bool reports whether a
// non-null value was found.
func ResolvePlain(record any, p Path) (any, bool) {
	current := record
	for _, seg := range p.Segments {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}
