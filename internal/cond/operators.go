package cond

import (
	"strings"

	"github.com/roach88/sift/internal/value"
)

// Token is a condition operator token. Tokens are case-sensitive and
// matched literally.
type Token string

const (
	OpEq         Token = "=="
	OpNe         Token = "!="
	OpGt         Token = ">"
	OpLt         Token = "<"
	OpGe         Token = ">="
	OpLe         Token = "<="
	OpIn         Token = "in"
	OpNotIn      Token = "not_in"
	OpLike       Token = "like"
	OpStartsWith Token = "startswith"
	OpEndsWith   Token = "endswith"
	OpRegex      Token = "regex"
	OpBetween    Token = "between"
)

// opSpec binds an operator token to its predicate and its grammar traits.
type opSpec struct {
	eval func(v any, c *Condition) bool

	// reversed: the grammar reads "literal op field" instead of
	// "field op literal" (the historical membership syntax).
	reversed bool

	// pair: the literal is two comma-separated bounds.
	pair bool

	// indexable: a per-field index can answer this operator.
	indexable bool
}

// operators is the process-wide operator registry. It is populated once
// here and never mutated; there is deliberately no registration API.
var operators = map[Token]opSpec{
	OpEq: {eval: evalEq, indexable: true},
	OpNe: {eval: evalNe, indexable: true},
	OpGt: {eval: orderEval(func(c int) bool { return c > 0 }), indexable: true},
	OpLt: {eval: orderEval(func(c int) bool { return c < 0 }), indexable: true},
	OpGe: {eval: orderEval(func(c int) bool { return c >= 0 }), indexable: true},
	OpLe: {eval: orderEval(func(c int) bool { return c <= 0 }), indexable: true},

	OpIn:    {eval: evalIn, reversed: true, indexable: true},
	OpNotIn: {eval: evalNotIn, reversed: true, indexable: true},

	OpLike:       {eval: evalLike},
	OpStartsWith: {eval: evalStartsWith},
	OpEndsWith:   {eval: evalEndsWith},
	OpRegex:      {eval: evalRegex},

	OpBetween: {eval: evalBetween, pair: true, indexable: true},
}

// Known reports whether a token names a registered operator.
func Known(tok string) bool {
	_, ok := operators[Token(tok)]
	return ok
}

func evalEq(v any, c *Condition) bool {
	return value.Equal(v, c.Lit, c.LitRaw)
}

// evalNe matches any resolved value that is not equal to the literal,
// including non-scalar values (a list is never equal to a scalar literal).
// Records without the field still never match: Matches only sees resolved
// candidates.
func evalNe(v any, c *Condition) bool {
	return !value.Equal(v, c.Lit, c.LitRaw)
}

func orderEval(accept func(int) bool) func(any, *Condition) bool {
	return func(v any, c *Condition) bool {
		cmp, ok := value.Compare(v, c.Lit, c.LitRaw)
		return ok && accept(cmp)
	}
}

// Contains implements membership of the literal in one resolved value:
// element equality for lists, substring for strings. Exported because the
// index's membership lookup shares it for residual string scans.
func Contains(v any, lit value.Value, raw string) bool {
	switch seq := v.(type) {
	case []any:
		for _, elem := range seq {
			if value.Equal(elem, lit, raw) {
				return true
			}
		}
		return false
	case string:
		return strings.Contains(seq, raw)
	default:
		return false
	}
}

func evalIn(v any, c *Condition) bool {
	return Contains(v, c.Lit, c.LitRaw)
}

// evalNotIn matches only membership-capable values (lists and strings)
// that do not contain the literal; a scalar field never matches either
// membership operator.
func evalNotIn(v any, c *Condition) bool {
	switch v.(type) {
	case []any, string:
		return !Contains(v, c.Lit, c.LitRaw)
	default:
		return false
	}
}

func evalLike(v any, c *Condition) bool {
	return strings.Contains(strings.ToLower(value.Stringify(v)), strings.ToLower(c.LitRaw))
}

func evalStartsWith(v any, c *Condition) bool {
	return strings.HasPrefix(value.Stringify(v), c.LitRaw)
}

func evalEndsWith(v any, c *Condition) bool {
	return strings.HasSuffix(value.Stringify(v), c.LitRaw)
}

func evalRegex(v any, c *Condition) bool {
	return c.Pattern != nil && c.Pattern.MatchString(value.Stringify(v))
}

// evalBetween is an inclusive range test: numeric when the value and both
// bounds are numeric, otherwise lexicographic against the raw bound text.
func evalBetween(v any, c *Condition) bool {
	if !value.IsScalar(v) {
		return false
	}

	if f, ok := value.ToFloat(v); ok {
		lo, okLo := value.Number(c.Lo)
		hi, okHi := value.Number(c.Hi)
		if okLo && okHi {
			return f >= lo && f <= hi
		}
	}

	s := value.Stringify(v)
	return s >= c.LoRaw && s <= c.HiRaw
}
