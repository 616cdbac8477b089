package avrow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFromJSONTriesEveryUnionBranch(t *testing.T) {
	s, err := Parse(`{
		"type": "record",
		"name": "R",
		"fields": [
			{ "name": "x", "type": ["int", "string"] }
		]
	}`)
	require.NoError(t, err)
	rec := s.Root().(*RecordVariant)

	// Unlike a schema default (parseDefault, tested in default_test.go),
	// Record::from_json tries every branch in order rather than narrowing
	// to the first.
	got, err := RecordFromJSON(map[string]any{"x": "a string value"}, rec, s.Registry())
	require.NoError(t, err)
	v, ok := got.Get("x")
	require.True(t, ok)
	idx, inner, err := v.AsUnion()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	str, _ := inner.AsString()
	assert.Equal(t, "a string value", str)
}

func TestRecordFromJSONUsesDeclaredDefaultWhenFieldMissing(t *testing.T) {
	s, err := Parse(`{
		"type": "record",
		"name": "R",
		"fields": [
			{ "name": "a", "type": "int" },
			{ "name": "b", "type": "int", "default": 9 }
		]
	}`)
	require.NoError(t, err)
	rec := s.Root().(*RecordVariant)

	got, err := RecordFromJSON(map[string]any{"a": float64(1)}, rec, s.Registry())
	require.NoError(t, err)
	b, ok := got.Get("b")
	require.True(t, ok)
	i, _ := b.AsInt()
	assert.EqualValues(t, 9, i)
}

func TestRecordFromJSONFailsWhenFieldMissingAndNoDefault(t *testing.T) {
	s, err := Parse(`{"type":"record","name":"R","fields":[{"name":"a","type":"int"}]}`)
	require.NoError(t, err)
	rec := s.Root().(*RecordVariant)

	_, err = RecordFromJSON(map[string]any{}, rec, s.Registry())
	assert.Error(t, err)
}

func TestRecordFromJSONText(t *testing.T) {
	s, err := Parse(`{"type":"record","name":"R","fields":[{"name":"a","type":"string"}]}`)
	require.NoError(t, err)
	rec := s.Root().(*RecordVariant)

	got, err := RecordFromJSONText([]byte(`{"a":"hello"}`), rec, s.Registry())
	require.NoError(t, err)
	a, ok := got.Get("a")
	require.True(t, ok)
	str, _ := a.AsString()
	assert.Equal(t, "hello", str)
}
