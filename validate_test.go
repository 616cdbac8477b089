package avrow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePrimitivesAndPromotion(t *testing.T) {
	s := MustParse(`"long"`)
	assert.NoError(t, Validate(NewInt(5), s.Root(), s.Registry()))
	assert.NoError(t, Validate(NewLong(5), s.Root(), s.Registry()))
	assert.Error(t, Validate(NewString("5"), s.Root(), s.Registry()))
}

func TestValidateFixedLengthMismatch(t *testing.T) {
	s := MustParse(`{"type":"fixed","name":"MD5","size":16}`)
	err := Validate(NewFixed("MD5", make([]byte, 15)), s.Root(), s.Registry())
	assert.Error(t, err)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestValidateEnumRejectsUndeclaredSymbol(t *testing.T) {
	s := MustParse(`{"type":"enum","name":"Suit","symbols":["SPADES","HEARTS"]}`)
	assert.Error(t, Validate(NewEnum("Suit", "CLUBS"), s.Root(), s.Registry()))
}

// §9's Open Question, decided in SPEC_FULL.md: empty arrays/maps do not
// validate here even though the wire format can encode them as a single
// zero-count block.
func TestValidateRejectsEmptyArrayAndMap(t *testing.T) {
	arr := MustParse(`{"type":"array","items":"long"}`)
	err := Validate(NewArray(nil), arr.Root(), arr.Registry())
	assert.Error(t, err)

	m := MustParse(`{"type":"map","values":"long"}`)
	err = Validate(NewMap(map[string]Value{}), m.Root(), m.Registry())
	assert.Error(t, err)
}

// §9's Open Question, decided in SPEC_FULL.md: a Record missing a
// schema-declared field fails validation rather than silently encoding
// nothing for it.
func TestValidateRejectsRecordMissingDeclaredField(t *testing.T) {
	s := MustParse(`{"type":"record","name":"R","fields":[{"name":"a","type":"int"},{"name":"b","type":"int"}]}`)
	rec := NewRecordValue("R")
	require.NoError(t, rec.Insert("a", NewInt(1)))
	err := Validate(NewRecord(rec), s.Root(), s.Registry())
	assert.Error(t, err)
}

func TestValidateRejectsRecordWithUndeclaredField(t *testing.T) {
	s := MustParse(`{"type":"record","name":"R","fields":[{"name":"a","type":"int"}]}`)
	rec := NewRecordValue("R")
	require.NoError(t, rec.Insert("a", NewInt(1)))
	require.NoError(t, rec.Insert("extra", NewInt(2)))
	assert.Error(t, Validate(NewRecord(rec), s.Root(), s.Registry()))
}

func TestValidateUnion(t *testing.T) {
	s := MustParse(`["null", "string"]`)
	assert.NoError(t, Validate(NewNull(), s.Root(), s.Registry()))
	assert.NoError(t, Validate(NewString("x"), s.Root(), s.Registry()))
	assert.NoError(t, Validate(NewUnion(1, NewString("x")), s.Root(), s.Registry()))
	assert.Error(t, Validate(NewInt(1), s.Root(), s.Registry()))
}
