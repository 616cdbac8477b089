package ocf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creativcoder/avrow"
	"github.com/creativcoder/avrow/compress"
)

var nullListSchema = avrow.MustParse(`{
	"type": "record",
	"name": "LongList",
	"fields": [
		{ "name": "value", "type": "long" },
		{ "name": "next", "type": ["null", "LongList"] }
	]
}`)

func longListValue(value int64, hasNext bool, next avrow.Value) avrow.Value {
	rec := avrow.NewRecordValue("LongList")
	_ = rec.Insert("value", avrow.NewLong(value))
	if hasNext {
		_ = rec.Insert("next", avrow.NewUnion(1, next))
	} else {
		_ = rec.Insert("next", avrow.NewUnion(0, avrow.NewNull()))
	}
	return avrow.NewRecord(rec)
}

// Schema "null": write one Null, read it back.
func TestWriterReaderNullRoundTrip(t *testing.T) {
	schema := avrow.MustParse(`"null"`)
	var buf bytes.Buffer

	w, err := NewWriter(&buf, schema)
	require.NoError(t, err)
	require.NoError(t, w.Write(avrow.NewNull()))
	require.NoError(t, w.Close())

	r, err := NewReader(&buf)
	require.NoError(t, err)

	require.True(t, r.HasNext())
	v, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, avrow.Null, v.Tag())
	assert.False(t, r.HasNext())
	assert.NoError(t, r.Err())
}

// The first 4 header bytes are always the OCF magic.
func TestWriterHeaderMagic(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, avrow.MustParse(`"null"`))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, []byte{0x4F, 0x62, 0x6A, 0x01}, buf.Bytes()[:4])
}

// A corrupted magic fails before any value is produced.
func TestReaderRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, avrow.MustParse(`"null"`))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	corrupt := buf.Bytes()
	corrupt[3] = 0x02

	_, err = NewReader(bytes.NewReader(corrupt))
	assert.Error(t, err)
}

func TestWriterReaderRecursiveRecordRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, nullListSchema)
	require.NoError(t, err)

	tail := longListValue(3, false, avrow.Value{})
	mid := longListValue(2, true, tail)
	head := longListValue(1, true, mid)
	require.NoError(t, w.Write(head))
	require.NoError(t, w.Close())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	require.True(t, r.HasNext())
	got, err := r.Next()
	require.NoError(t, err)

	depth := 0
	cur := got
	for {
		rec, err := cur.AsRecord()
		require.NoError(t, err)
		depth++
		next, ok := rec.Get("next")
		require.True(t, ok)
		idx, inner, err := next.AsUnion()
		require.NoError(t, err)
		if idx == 0 {
			break
		}
		cur = inner
	}
	assert.Equal(t, 3, depth)
}

func TestWriterReaderWithCodec(t *testing.T) {
	for _, codec := range []compress.Name{compress.Null, compress.Deflate, compress.Snappy, compress.Zstd, compress.Bzip2, compress.XZ} {
		t.Run(string(codec), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, avrow.MustParse(`"string"`), WithCodec(codec))
			require.NoError(t, err)
			require.NoError(t, w.Write(avrow.NewString("hello world")))
			require.NoError(t, w.Close())

			r, err := NewReader(&buf)
			require.NoError(t, err)
			assert.Equal(t, []byte(codec), r.Metadata()["avro.codec"])

			require.True(t, r.HasNext())
			v, err := r.Next()
			require.NoError(t, err)
			s, _ := v.AsString()
			assert.Equal(t, "hello world", s)
		})
	}
}

func TestWriterBuilder(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriterBuilder().
		Codec(compress.Deflate).
		BlockSize(1).
		UserMetadata("app.name", []byte("avrowcli")).
		Build(&buf, avrow.MustParse(`"int"`))
	require.NoError(t, err)
	require.NoError(t, w.Write(avrow.NewInt(1)))
	require.NoError(t, w.Write(avrow.NewInt(2)))
	require.NoError(t, w.Close())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("avrowcli"), r.Metadata()["app.name"])

	var got []int32
	for r.HasNext() {
		v, err := r.Next()
		require.NoError(t, err)
		i, _ := v.AsInt()
		got = append(got, i)
	}
	require.NoError(t, r.Err())
	assert.Equal(t, []int32{1, 2}, got)
}

func TestReaderWithSchemaAppliesResolution(t *testing.T) {
	writer := avrow.MustParse(`{"type":"record","name":"R","fields":[{"name":"a","type":"int"}]}`)
	reader := avrow.MustParse(`{"type":"record","name":"R","fields":[{"name":"a","type":"int"},{"name":"b","type":"long","default":7}]}`)

	var buf bytes.Buffer
	w, err := NewWriter(&buf, writer)
	require.NoError(t, err)
	rec := avrow.NewRecordValue("R")
	require.NoError(t, rec.Insert("a", avrow.NewInt(1)))
	require.NoError(t, w.Write(avrow.NewRecord(rec)))
	require.NoError(t, w.Close())

	r, err := NewReaderWithSchema(&buf, reader)
	require.NoError(t, err)
	require.True(t, r.HasNext())
	got, err := r.Next()
	require.NoError(t, err)

	gotRec, err := got.AsRecord()
	require.NoError(t, err)
	b, ok := gotRec.Get("b")
	require.True(t, ok)
	i, err := b.AsLong()
	require.NoError(t, err)
	assert.EqualValues(t, 7, i)
}

func TestWriteRejectsValueNotMatchingSchema(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, avrow.MustParse(`"int"`))
	require.NoError(t, err)
	assert.Error(t, w.Write(avrow.NewString("not an int")))
}
