// Package value defines the typed literals of the condition language and
// the coercion and comparison rules shared by the scan and index paths.
//
// Records are caller-owned trees of map[string]any, []any, and scalar
// leaves as produced by encoding/json. This package never mutates them.
package value

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Value is a sealed interface over the types a condition literal can take.
// Only Bool, Int, Float, and String implement it.
type Value interface {
	literalValue() // Sealed - only types in this package implement it
}

// Bool is a boolean literal (the keywords "true"/"false").
type Bool bool

func (Bool) literalValue() {}

// Int is an integer literal.
type Int int64

func (Int) literalValue() {}

// Float is a floating-point literal.
type Float float64

func (Float) literalValue() {}

// String is the fallback literal type for tokens that are not a bool
// keyword or a number.
type String string

func (String) literalValue() {}

// Coerce converts a raw condition token into a typed literal using the
// fixed trial order: bool keywords, then integer, then float, then string.
// Surrounding single or double quotes are stripped before the trials.
func Coerce(token string) Value {
	s := StripQuotes(token)

	switch strings.ToLower(s) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(f)
	}

	return String(s)
}

// StripQuotes removes one matching pair of surrounding quotes, if present.
func StripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Number returns the numeric form of a literal, if it has one.
func Number(v Value) (float64, bool) {
	switch val := v.(type) {
	case Int:
		return float64(val), true
	case Float:
		return float64(val), true
	default:
		return 0, false
	}
}

// IsNumeric reports whether a record value is a numeric scalar.
// The check is by type, not by parseability: the string "25" is not numeric.
func IsNumeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

// ToFloat converts a numeric record value to float64.
func ToFloat(v any) (float64, bool) {
	if !IsNumeric(v) {
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

// IsScalar reports whether a record value is a comparable leaf
// (string, bool, or number). nil, slices, and maps are not scalars.
func IsScalar(v any) bool {
	switch v.(type) {
	case string, bool:
		return true
	default:
		return IsNumeric(v)
	}
}

// Stringify renders a record value the way the string-comparison fallback
// sees it. Numbers use the shortest round-trip form ("25", not "25.000000"),
// bools render as "true"/"false". Composites fall back to canonical JSON
// so that they can still serve as grouping keys.
func Stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		if f, ok := ToFloat(v); ok {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return Canonical(v)
	}
}
