// Package cond parses condition strings of the form "field op value" into
// structured predicates and evaluates them against records.
//
// A condition is represented as data (path, operator token, typed literal,
// orientation), never as synthesized code. Malformed input degrades to a
// sentinel condition that matches nothing, so chains built on bad input
// stay total instead of failing.
package cond

import (
	"regexp"

	"github.com/roach88/sift/internal/path"
	"github.com/roach88/sift/internal/value"
)

// Condition is one parsed predicate unit.
type Condition struct {
	// Raw is the exact input string (the parse-cache key).
	Raw string

	// Field is the parsed field path.
	Field path.Path

	// Op is the operator token.
	Op Token

	// Lit is the coerced literal; LitRaw is its unquoted text form, which
	// the string-comparison fallback compares against.
	Lit    value.Value
	LitRaw string

	// Lo/Hi are the coerced between bounds (only for OpBetween).
	Lo, Hi       value.Value
	LoRaw, HiRaw string

	// Reversed records that the textual field/value order was swapped:
	// for "peas in favorite.food" the right token is the field path.
	Reversed bool

	// Pattern is the compiled regex (only for OpRegex).
	Pattern *regexp.Regexp

	// Invalid marks the never-matching sentinel produced for malformed
	// input: wrong token count, unknown operator, bad between bounds, or
	// a regex that does not compile.
	Invalid bool
}

// Matches reports whether a record satisfies the condition.
//
// The field path is resolved to zero or more candidate values; the record
// matches if any candidate satisfies the operator (existential semantics
// over wildcards). Missing fields resolve to no candidates and therefore
// never match.
func (c *Condition) Matches(record any) bool {
	if c == nil || c.Invalid {
		return false
	}
	op, ok := operators[c.Op]
	if !ok {
		return false
	}
	for _, v := range path.Resolve(record, c.Field) {
		if op.eval(v, c) {
			return true
		}
	}
	return false
}

// Indexable reports whether the condition can be answered from a per-field
// index: a valid condition on a plain (wildcard-free) path with an
// operator the index supports.
func (c *Condition) Indexable() bool {
	if c == nil || c.Invalid || c.Field.HasWildcard() {
		return false
	}
	op, ok := operators[c.Op]
	return ok && op.indexable
}
