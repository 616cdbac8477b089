package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creativcoder/avrow"
)

type person struct {
	Name string
	Age  int32
	Tags []string
}

func TestStructBridgeToValueAndBack(t *testing.T) {
	s := avrow.MustParse(`{
		"type": "record",
		"name": "Person",
		"fields": [
			{ "name": "name", "type": "string" },
			{ "name": "age", "type": "int" },
			{ "name": "tags", "type": { "type": "array", "items": "string" } }
		]
	}`)
	b := NewStructBridge(s.Root().(*avrow.RecordVariant), s.Registry())

	p := person{Name: "Ada", Age: 36, Tags: []string{"math", "computing"}}
	v, err := b.ToValue(p)
	require.NoError(t, err)

	rec, err := v.AsRecord()
	require.NoError(t, err)
	nameV, ok := rec.Get("name")
	require.True(t, ok)
	name, _ := nameV.AsString()
	assert.Equal(t, "Ada", name)

	var out person
	require.NoError(t, b.FromValue(v, &out))
	assert.Equal(t, p, out)
}

func TestStructBridgeUsesAvroTagOverFieldName(t *testing.T) {
	type tagged struct {
		FullName string `avrow:"name"`
	}
	s := avrow.MustParse(`{"type":"record","name":"R","fields":[{"name":"name","type":"string"}]}`)
	b := NewStructBridge(s.Root().(*avrow.RecordVariant), s.Registry())

	v, err := b.ToValue(tagged{FullName: "hello"})
	require.NoError(t, err)
	rec, _ := v.AsRecord()
	nameV, ok := rec.Get("name")
	require.True(t, ok)
	name, _ := nameV.AsString()
	assert.Equal(t, "hello", name)

	var out tagged
	require.NoError(t, b.FromValue(v, &out))
	assert.Equal(t, "hello", out.FullName)
}

func TestStructBridgeFixedField(t *testing.T) {
	type withFixed struct {
		Checksum []byte
	}
	s := avrow.MustParse(`{
		"type": "record",
		"name": "R",
		"fields": [ { "name": "checksum", "type": { "type": "fixed", "name": "MD5", "size": 4 } } ]
	}`)
	b := NewStructBridge(s.Root().(*avrow.RecordVariant), s.Registry())
	b.FixedFields["checksum"] = true

	v, err := b.ToValue(withFixed{Checksum: []byte{1, 2, 3, 4}})
	require.NoError(t, err)
	rec, _ := v.AsRecord()
	cv, _ := rec.Get("checksum")
	name, data, err := cv.AsFixed()
	require.NoError(t, err)
	assert.Equal(t, "MD5", name)
	assert.Equal(t, []byte{1, 2, 3, 4}, data)
}

func TestStructBridgeMissingFieldWithoutDefaultFails(t *testing.T) {
	type empty struct{}
	s := avrow.MustParse(`{"type":"record","name":"R","fields":[{"name":"a","type":"int"}]}`)
	b := NewStructBridge(s.Root().(*avrow.RecordVariant), s.Registry())
	_, err := b.ToValue(empty{})
	assert.Error(t, err)
}
