package avrow

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalFormPrimitive(t *testing.T) {
	c, err := CanonicalForm([]byte(`"null"`))
	require.NoError(t, err)
	assert.Equal(t, `"null"`, string(c))

	c, err = CanonicalForm([]byte(`{"type": "int"}`))
	require.NoError(t, err)
	assert.Equal(t, `"int"`, string(c))
}

func TestCanonicalFormStripsDocAndAliasesAndOrdersKeys(t *testing.T) {
	c, err := CanonicalForm([]byte(`{
		"type": "record",
		"name": "R",
		"namespace": "ns",
		"doc": "a record",
		"aliases": ["Old"],
		"fields": [
			{ "name": "a", "type": "int", "doc": "field doc" }
		]
	}`))
	require.NoError(t, err)
	assert.Equal(t, `{"name":"ns.R","type":"record","fields":[{"name":"a","type":"int"}]}`, string(c))
}

func TestCanonicalFormQualifiesNestedNamedReferences(t *testing.T) {
	// Fullname promotion must apply uniformly inside union branches, array
	// items, and map values, not just at the top level or within record
	// fields.
	c, err := CanonicalForm([]byte(`{
		"type": "record",
		"name": "R",
		"namespace": "ns",
		"fields": [
			{ "name": "u", "type": ["null", { "type": "fixed", "name": "F", "size": 4 }] },
			{ "name": "arr", "type": { "type": "array", "items": { "type": "enum", "name": "E", "symbols": ["A"] } } }
		]
	}`))
	require.NoError(t, err)
	assert.Contains(t, string(c), `"ns.F"`)
	assert.Contains(t, string(c), `"ns.E"`)
}

func TestCanonicalFormDerivesNamespaceFromDottedName(t *testing.T) {
	// A dotted "name" carries its own namespace (§3) even with no separate
	// "namespace" key, and nested named types must inherit it.
	c, err := CanonicalForm([]byte(`{
		"type": "record",
		"name": "a.b.C",
		"fields": [
			{ "name": "x", "type": { "type": "record", "name": "D", "fields": [] } }
		]
	}`))
	require.NoError(t, err)
	assert.Contains(t, string(c), `"name":"a.b.C"`)
	assert.Contains(t, string(c), `"name":"a.b.D"`)
}

func TestCanonicalFormIsInvariantUnderTextReordering(t *testing.T) {
	a, err := CanonicalForm([]byte(`{"type":"record","name":"R","fields":[{"name":"x","type":"int"},{"name":"y","type":"string"}]}`))
	require.NoError(t, err)
	b, err := CanonicalForm([]byte(`{"fields":[{"type":"int","name":"x"},{"type":"string","name":"y"}],"name":"R","type":"record"}`))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	// Decode both canonical forms back to structured documents and diff them
	// field-by-field: unlike assert.Equal's pass/fail, cmp.Diff pinpoints
	// exactly which key diverged if this ever regresses.
	var da, db any
	require.NoError(t, json.Unmarshal(a, &da))
	require.NoError(t, json.Unmarshal(b, &db))
	if diff := cmp.Diff(da, db); diff != "" {
		t.Errorf("canonical forms diverge (-a +b):\n%s", diff)
	}
}

// The Rabin-64 fingerprint of the canonical form of
// the schema "null" is 0x63dd24e7cc258f8a.
func TestRabin64FingerprintOfNull(t *testing.T) {
	c, err := CanonicalForm([]byte(`"null"`))
	require.NoError(t, err)
	assert.Equal(t, uint64(0x63dd24e7cc258f8a), Rabin64Fingerprint(c))
}

func TestSchemaFingerprintMatchesAcrossEquivalentText(t *testing.T) {
	a, err := Parse(`{"type":"record","name":"R","fields":[{"name":"x","type":"int"}]}`)
	require.NoError(t, err)
	b, err := Parse(`{"name":"R","type":"record","fields":[{"type":"int","name":"x"}]}`)
	require.NoError(t, err)

	fa, err := a.Fingerprint(Rabin64)
	require.NoError(t, err)
	fb, err := b.Fingerprint(Rabin64)
	require.NoError(t, err)
	assert.Equal(t, fa, fb)

	sa, err := a.Fingerprint(SHA256)
	require.NoError(t, err)
	sb, err := b.Fingerprint(SHA256)
	require.NoError(t, err)
	assert.Equal(t, sa, sb)
}
