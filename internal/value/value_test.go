package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  Value
	}{
		{"bool_true", "true", Bool(true)},
		{"bool_false", "false", Bool(false)},
		{"bool_mixed_case", "True", Bool(true)},
		{"bool_upper", "FALSE", Bool(false)},
		{"int", "42", Int(42)},
		{"negative_int", "-7", Int(-7)},
		{"float", "3.14", Float(3.14)},
		{"negative_float", "-0.5", Float(-0.5)},
		{"exponent", "1e3", Float(1000)},
		{"string", "pizza", String("pizza")},
		{"numeric_looking_word", "4two", String("4two")},
		{"double_quoted", `"42"`, Int(42)},
		{"single_quoted", "'pizza'", String("pizza")},
		{"quoted_bool", `"true"`, Bool(true)},
		{"empty", "", String("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Coerce(tt.token))
		})
	}
}

func TestStripQuotes(t *testing.T) {
	assert.Equal(t, "abc", StripQuotes(`"abc"`))
	assert.Equal(t, "abc", StripQuotes("'abc'"))
	assert.Equal(t, `"abc'`, StripQuotes(`"abc'`), "mismatched quotes stay")
	assert.Equal(t, `"`, StripQuotes(`"`), "single quote char stays")
	assert.Equal(t, "", StripQuotes(`""`))
	assert.Equal(t, "abc", StripQuotes("abc"))
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric(float64(25)))
	assert.True(t, IsNumeric(int(25)))
	assert.True(t, IsNumeric(int64(25)))
	assert.False(t, IsNumeric("25"), "numeric strings are not numeric values")
	assert.False(t, IsNumeric(true))
	assert.False(t, IsNumeric(nil))
	assert.False(t, IsNumeric([]any{1.0}))
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"string", "hello", "hello"},
		{"bool_true", true, "true"},
		{"bool_false", false, "false"},
		{"nil", nil, ""},
		{"int_valued_float", float64(25), "25"},
		{"fraction", float64(2.5), "2.5"},
		{"int", 7, "7"},
		{"slice", []any{"a", float64(1)}, `["a",1]`},
		{"map", map[string]any{"b": float64(2), "a": "x"}, `{"a":"x","b":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stringify(tt.v))
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name   string
		v      any
		token  string
		want   int
		wantOK bool
	}{
		{"num_lt", float64(1000), "1100", -1, true},
		{"num_eq", float64(1054), "1054", 0, true},
		{"num_gt", float64(1500), "1100", 1, true},
		{"int_value", 42, "42", 0, true},
		{"float_vs_int_literal", float64(2.5), "2", 1, true},
		{"string_vs_string", "banana", "peas", -1, true},
		{"numeric_string_is_lexicographic", "25", "100", 1, true},
		{"number_vs_word_falls_back", float64(25), "abc", -1, true},
		{"bool_vs_bool", false, "true", -1, true},
		{"bool_eq", true, "true", 0, true},
		{"nil_incomparable", nil, "x", 0, false},
		{"slice_incomparable", []any{"a"}, "a", 0, false},
		{"map_incomparable", map[string]any{}, "a", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lit := Coerce(tt.token)
			got, ok := Compare(tt.v, lit, StripQuotes(tt.token))
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestEqualCrossDomain(t *testing.T) {
	// The same literal must equal both typed and stringly-typed values
	// when the comparison domain says so.
	assert.True(t, Equal(float64(25), Coerce("25"), "25"))
	assert.True(t, Equal("25", Coerce("25"), "25"), "string value compares against raw token")
	assert.True(t, Equal("M", Coerce("M"), "M"))
	assert.False(t, Equal(float64(25), Coerce("26"), "26"))
	assert.False(t, Equal(nil, Coerce("25"), "25"))
}

func TestKeyAndLiteralKeys(t *testing.T) {
	// Every value key must appear among the keys of a literal it equals.
	cases := []struct {
		v     any
		token string
	}{
		{"pizza", "pizza"},
		{float64(25), "25"},
		{"25", "25"},
		{true, "true"},
		{float64(1.5), "1.5"},
	}

	for _, c := range cases {
		key, ok := Key(c.v)
		require.True(t, ok)
		lit := Coerce(c.token)
		assert.Contains(t, LiteralKeys(lit, StripQuotes(c.token)), key)
	}

	_, ok := Key(nil)
	assert.False(t, ok)
	_, ok = Key([]any{"a"})
	assert.False(t, ok)
}

func TestCanonicalDeterminism(t *testing.T) {
	a := map[string]any{"b": float64(2), "a": []any{"x", true, nil}}
	b := map[string]any{"a": []any{"x", true, nil}, "b": float64(2)}

	assert.Equal(t, Canonical(a), Canonical(b))
	assert.Equal(t, `{"a":["x",true,null],"b":2}`, Canonical(a))
}

func TestCanonicalNFC(t *testing.T) {
	// é as a single code point vs e + combining acute.
	composed := "caf\u00e9"
	decomposed := "cafe\u0301"
	assert.Equal(t, Canonical(composed), Canonical(decomposed))
}

func TestCanonicalNoHTMLEscaping(t *testing.T) {
	assert.Equal(t, `"a<b&c>"`, Canonical("a<b&c>"))
}

func TestFingerprint(t *testing.T) {
	a := map[string]any{"name": "Thor", "age": float64(1500)}
	b := map[string]any{"age": float64(1500), "name": "Thor"}
	c := map[string]any{"age": float64(1501), "name": "Thor"}

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
	assert.Len(t, Fingerprint(a), 64)
}
