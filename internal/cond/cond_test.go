package cond

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sift/internal/value"
)

var thor = map[string]any{
	"name":   "Thor",
	"age":    float64(1500),
	"gender": "M",
	"active": true,
	"favorite": map[string]any{
		"food": []any{"banana", "pizza"},
	},
}

func TestParseOrientation(t *testing.T) {
	c := Parse("age > 1000")
	require.False(t, c.Invalid)
	assert.Equal(t, "age", c.Field.String())
	assert.Equal(t, OpGt, c.Op)
	assert.Equal(t, value.Int(1000), c.Lit)
	assert.False(t, c.Reversed)

	c = Parse("peas in favorite.food")
	require.False(t, c.Invalid)
	assert.Equal(t, "favorite.food", c.Field.String(), "membership reads literal-first")
	assert.Equal(t, value.String("peas"), c.Lit)
	assert.True(t, c.Reversed)

	c = Parse("peas not_in favorite.food")
	require.False(t, c.Invalid)
	assert.Equal(t, "favorite.food", c.Field.String())
	assert.True(t, c.Reversed)
}

func TestParseBetween(t *testing.T) {
	c := Parse("age between 1000,1100")
	require.False(t, c.Invalid)
	assert.Equal(t, value.Int(1000), c.Lo)
	assert.Equal(t, value.Int(1100), c.Hi)
	assert.Equal(t, "1000", c.LoRaw)
	assert.Equal(t, "1100", c.HiRaw)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"one_token", "age"},
		{"two_tokens", "age >"},
		{"four_tokens", "age > 1000 extra"},
		{"unknown_operator", "age ~= 1000"},
		{"between_single_bound", "age between 1000"},
		{"between_three_bounds", "age between 1,2,3"},
		{"bad_regex", "name regex ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Parse(tt.raw)
			require.True(t, c.Invalid)
			assert.False(t, c.Matches(thor), "invalid conditions match nothing")
			assert.False(t, c.Indexable())
		})
	}
}

func TestParseCacheReturnsSamePointer(t *testing.T) {
	a := Parse("age > 1000")
	b := Parse("age > 1000")
	assert.Same(t, a, b)

	ClearCache()
	c := Parse("age > 1000")
	assert.NotSame(t, a, c, "cleared cache reparses")
	assert.Equal(t, a.Op, c.Op)
}

func TestKnown(t *testing.T) {
	for _, op := range []string{"==", "!=", ">", "<", ">=", "<=", "in", "not_in", "like", "startswith", "endswith", "regex", "between"} {
		assert.True(t, Known(op), op)
	}
	assert.False(t, Known("~="))
	assert.False(t, Known("IN"), "operators are case-sensitive")
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name string
		cond string
		want bool
	}{
		{"eq_string", "name == Thor", true},
		{"eq_string_miss", "name == Loki", false},
		{"eq_number", "age == 1500", true},
		{"eq_quoted", `name == "Thor"`, true},
		{"ne", "name != Loki", true},
		{"ne_self", "name != Thor", false},
		{"ne_composite_value", "favorite.food != pizza", true},
		{"gt", "age > 1000", true},
		{"gt_miss", "age > 1500", false},
		{"ge", "age >= 1500", true},
		{"lt", "age < 2000", true},
		{"le", "age <= 1499", false},
		{"bool_eq", "active == true", true},
		{"bool_order", "active > false", true},
		{"in_list", "pizza in favorite.food", true},
		{"in_list_miss", "peas in favorite.food", false},
		{"in_string_substring", "ho in name", true},
		{"not_in_list", "peas not_in favorite.food", true},
		{"not_in_scalar_never", "x not_in age", false},
		{"in_scalar_never", "5 in age", false},
		{"like", "name like tho", true},
		{"like_number", "age like 150", true},
		{"startswith", "name startswith Th", true},
		{"startswith_case", "name startswith th", false},
		{"endswith", "name endswith or", true},
		{"regex", "name regex ^Th.r$", true},
		{"regex_miss", "name regex ^Lo", false},
		{"between", "age between 1000,1600", true},
		{"between_exclusive_miss", "age between 1501,1600", false},
		{"between_inclusive_edge", "age between 1500,1600", true},
		{"between_strings", "name between Tha,Tic", true},
		{"missing_field", "nemesis == x", false},
		{"missing_field_ne", "nemesis != x", false},
		{"wildcard_path", "favorite.*.food == pizza", false},
		{"wildcard_list", "favorite.food.* == pizza", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.cond).Matches(thor))
		})
	}
}

func TestMatchesExistentialOverWildcard(t *testing.T) {
	rec := map[string]any{
		"crew": []any{
			map[string]any{"name": "Rocket", "rank": float64(2)},
			map[string]any{"name": "Groot", "rank": float64(3)},
		},
	}

	assert.True(t, Parse("crew.*.name == Groot").Matches(rec))
	assert.True(t, Parse("crew.*.rank > 2").Matches(rec))
	assert.False(t, Parse("crew.*.rank > 3").Matches(rec))
}

func TestNumericStringStaysLexicographic(t *testing.T) {
	rec := map[string]any{"score": "25"}
	// "25" is a string, so the fallback is lexicographic: "25" > "100".
	assert.True(t, Parse("score > 100").Matches(rec))
	assert.False(t, Parse("score < 100").Matches(rec))
}

func TestIndexable(t *testing.T) {
	assert.True(t, Parse("age > 1000").Indexable())
	assert.True(t, Parse("name == Thor").Indexable())
	assert.True(t, Parse("peas in favorite.food").Indexable())
	assert.True(t, Parse("age between 1,2").Indexable())
	assert.False(t, Parse("name like th").Indexable())
	assert.False(t, Parse("name regex ^T").Indexable())
	assert.False(t, Parse("favorite.*.food == pizza").Indexable(), "wildcard paths scan")
	assert.False(t, Parse("bogus ~= 1").Indexable())
}

func TestContains(t *testing.T) {
	lit := value.Coerce("pizza")
	assert.True(t, Contains([]any{"banana", "pizza"}, lit, "pizza"))
	assert.False(t, Contains([]any{"banana"}, lit, "pizza"))
	assert.True(t, Contains("pizza party", lit, "pizza"))
	assert.False(t, Contains(float64(3), lit, "pizza"))

	numLit := value.Coerce("2")
	assert.True(t, Contains([]any{float64(1), float64(2)}, numLit, "2"))
}
