package avrow

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeDecode(t *testing.T, s *Schema, v Value) Value {
	t.Helper()
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, Encode(w, v, s.Root(), s.Registry()))
	require.NoError(t, w.Err)

	r := NewReader(&buf)
	got, err := Decode(r, s.Root(), s.Registry())
	require.NoError(t, err)
	return got
}

// Schema "null": a single Null value round-trips exactly.
func TestEncodeDecodeNull(t *testing.T) {
	s := MustParse(`"null"`)
	got := encodeDecode(t, s, NewNull())
	assert.Equal(t, Null, got.Tag())
}

func TestEncodeDecodePrimitives(t *testing.T) {
	cases := []struct {
		schema string
		v      Value
	}{
		{`"boolean"`, NewBoolean(true)},
		{`"int"`, NewInt(-42)},
		{`"long"`, NewLong(1 << 40)},
		{`"float"`, NewFloat(3.5)},
		{`"double"`, NewDouble(2.71828)},
		{`"bytes"`, NewBytes([]byte{0, 1, 2, 0xff})},
		{`"string"`, NewString("hello, 世界")},
	}
	for _, c := range cases {
		s := MustParse(c.schema)
		got := encodeDecode(t, s, c.v)
		assert.Equal(t, c.v, got)
	}
}

func TestEncodeDecodeArrayAndMap(t *testing.T) {
	s := MustParse(`{"type":"array","items":"long"}`)
	got := encodeDecode(t, s, NewArray([]Value{NewLong(1), NewLong(2), NewLong(3)}))
	items, err := got.AsArray()
	require.NoError(t, err)
	assert.Len(t, items, 3)

	m := MustParse(`{"type":"map","values":"string"}`)
	got = encodeDecode(t, m, NewMap(map[string]Value{"a": NewString("x"), "b": NewString("y")}))
	mm, err := got.AsMap()
	require.NoError(t, err)
	assert.Len(t, mm, 2)
}

func TestEncodeDecodeEmptyArrayRoundTripsAtTheCodecLayer(t *testing.T) {
	// Validate (§4.9, tested separately) rejects empty arrays/maps by
	// deliberate choice, but the codec layer itself still honors the wire
	// format's zero-count block.
	s := MustParse(`{"type":"array","items":"long"}`)
	got := encodeDecode(t, s, NewArray(nil))
	items, err := got.AsArray()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestEncodeDecodeFixedAndEnum(t *testing.T) {
	s := MustParse(`{"type":"fixed","name":"MD5","size":4}`)
	got := encodeDecode(t, s, NewFixed("MD5", []byte{1, 2, 3, 4}))
	_, data, err := got.AsFixed()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, data)

	e := MustParse(`{"type":"enum","name":"Suit","symbols":["SPADES","HEARTS"]}`)
	got = encodeDecode(t, e, NewEnum("Suit", "HEARTS"))
	_, symbol, err := got.AsEnum()
	require.NoError(t, err)
	assert.Equal(t, "HEARTS", symbol)
}

func TestEncodeDecodeUnion(t *testing.T) {
	s := MustParse(`["null", "string"]`)
	got := encodeDecode(t, s, NewString("hi"))
	idx, inner, err := got.AsUnion()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	str, _ := inner.AsString()
	assert.Equal(t, "hi", str)

	got = encodeDecode(t, s, NewNull())
	idx, _, err = got.AsUnion()
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}

// A recursive LongList record round-trips at depth 3.
func TestEncodeDecodeRecursiveLongList(t *testing.T) {
	s := MustParse(`{
		"type": "record",
		"name": "LongList",
		"fields": [
			{ "name": "value", "type": "long" },
			{ "name": "next", "type": ["null", "LongList"] }
		]
	}`)

	makeNode := func(value int64, next Value) Value {
		rec := NewRecordValue("LongList")
		require.NoError(t, rec.Insert("value", NewLong(value)))
		require.NoError(t, rec.Insert("next", next))
		return NewRecord(rec)
	}
	tail := makeNode(3, NewUnion(0, NewNull()))
	mid := makeNode(2, NewUnion(1, tail))
	head := makeNode(1, NewUnion(1, mid))

	got := encodeDecode(t, s, head)

	depth := 0
	cur := got
	for {
		rec, err := cur.AsRecord()
		require.NoError(t, err)
		v, ok := rec.Get("value")
		require.True(t, ok)
		i, err := v.AsLong()
		require.NoError(t, err)
		assert.EqualValues(t, depth+1, i)
		depth++

		nextField, ok := rec.Get("next")
		require.True(t, ok)
		idx, inner, err := nextField.AsUnion()
		require.NoError(t, err)
		if idx == 0 {
			break
		}
		cur = inner
	}
	assert.Equal(t, 3, depth)
}

func TestPromotedEncodeDecode(t *testing.T) {
	cases := []struct {
		writerSchema string
		readerSchema string
		writer       Value
	}{
		{`"int"`, `"long"`, NewInt(7)},
		{`"int"`, `"float"`, NewInt(7)},
		{`"int"`, `"double"`, NewInt(7)},
		{`"long"`, `"float"`, NewLong(7)},
		{`"long"`, `"double"`, NewLong(7)},
		{`"float"`, `"double"`, NewFloat(7.5)},
		{`"bytes"`, `"string"`, NewBytes([]byte("hi"))},
		{`"string"`, `"bytes"`, NewString("hi")},
	}
	for _, c := range cases {
		ws := MustParse(c.writerSchema)
		rs := MustParse(c.readerSchema)

		var buf bytes.Buffer
		w := NewWriter(&buf)
		require.NoError(t, Encode(w, c.writer, ws.Root(), ws.Registry()))

		r := NewReader(&buf)
		got, err := DecodeResolved(r, ws.Root(), rs.Root(), ws.Registry(), rs.Registry())
		require.NoError(t, err)
		assert.Equal(t, rs.Root().Type(), got.Tag())
	}
}
