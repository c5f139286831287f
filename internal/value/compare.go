package value

import (
	"strconv"
	"strings"
)

// Compare orders a record value against a literal.
//
// The comparison domain is chosen by both sides:
//   - numeric value vs numeric literal: numeric comparison
//   - bool value vs bool literal: false < true
//   - everything else: lexicographic comparison of the stringified value
//     against the raw literal token
//
// The second return is false when the value cannot be compared at all
// (nil, slices, maps) - such records never match a comparison operator.
func Compare(v any, lit Value, raw string) (int, bool) {
	if !IsScalar(v) {
		return 0, false
	}

	if f, ok := ToFloat(v); ok {
		if n, ok := Number(lit); ok {
			switch {
			case f < n:
				return -1, true
			case f > n:
				return 1, true
			}
			return 0, true
		}
	}

	if b, ok := v.(bool); ok {
		if lb, ok := lit.(Bool); ok {
			return boolCompare(b, bool(lb)), true
		}
	}

	return strings.Compare(Stringify(v), raw), true
}

// Equal reports whether a record value equals a literal under the
// coercion rules of Compare.
func Equal(v any, lit Value, raw string) bool {
	c, ok := Compare(v, lit, raw)
	return ok && c == 0
}

func boolCompare(a, b bool) int {
	switch {
	case a == b:
		return 0
	case b:
		return -1
	}
	return 1
}

// Key normalizes a scalar record value into an index key. Values that
// compare equal under Equal against some literal must normalize to a key
// that literal can produce via LiteralKeys - the scan/index equivalence
// depends on it.
func Key(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return "s:" + val, true
	case bool:
		if val {
			return "b:true", true
		}
		return "b:false", true
	default:
		if f, ok := ToFloat(v); ok {
			return "n:" + strconv.FormatFloat(f, 'g', -1, 64), true
		}
		return "", false
	}
}

// LiteralKeys returns every index key a literal can match: its raw string
// form always, its numeric form when it coerced to a number, and its bool
// form when it coerced to a bool keyword.
func LiteralKeys(lit Value, raw string) []string {
	keys := []string{"s:" + raw}
	if n, ok := Number(lit); ok {
		keys = append(keys, "n:"+strconv.FormatFloat(n, 'g', -1, 64))
	}
	if b, ok := lit.(Bool); ok {
		if b {
			keys = append(keys, "b:true")
		} else {
			keys = append(keys, "b:false")
		}
	}
	return keys
}
