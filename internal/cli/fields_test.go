package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sift"
)

func TestFieldsJSONOutput(t *testing.T) {
	out, _, err := execute(t, "fields", "testdata/heroes.json", "--format", "json")
	require.NoError(t, err)
	golden(t).Assert(t, "fields_json", []byte(out))
}

func TestFieldsTextOutput(t *testing.T) {
	out, _, err := execute(t, "fields", "testdata/heroes.json")
	require.NoError(t, err)
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "age")
	assert.Contains(t, out, "number")
	assert.Contains(t, out, "favorite")
	assert.Contains(t, out, "object")
}

func TestFieldsMissingDataset(t *testing.T) {
	_, _, err := execute(t, "fields", "testdata/absent.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSurveyFields(t *testing.T) {
	records := []sift.Record{
		{"a": float64(1), "b": "x"},
		{"a": "two", "c": nil},
		{"a": true},
	}
	infos := surveyFields(records)
	require.Len(t, infos, 3)

	assert.Equal(t, "a", infos[0].Name)
	assert.Equal(t, 3, infos[0].Count)
	assert.Equal(t, []string{"bool", "number", "string"}, infos[0].Types)

	assert.Equal(t, "c", infos[2].Name)
	assert.Equal(t, []string{"null"}, infos[2].Types)
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "null", typeName(nil))
	assert.Equal(t, "bool", typeName(true))
	assert.Equal(t, "string", typeName("x"))
	assert.Equal(t, "number", typeName(float64(1)))
	assert.Equal(t, "number", typeName(int64(1)))
	assert.Equal(t, "array", typeName([]any{}))
	assert.Equal(t, "object", typeName(map[string]any{}))
}
