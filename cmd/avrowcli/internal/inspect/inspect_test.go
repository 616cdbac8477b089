package inspect

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creativcoder/avrow"
	"github.com/creativcoder/avrow/ocf"
)

func writeSampleFile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.avro")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w, err := ocf.NewWriter(f, avrow.MustParse(`"string"`))
	require.NoError(t, err)
	require.NoError(t, w.Write(avrow.NewString("hello")))
	require.NoError(t, w.Close())
	return path
}

func TestMetadataSchemaCanonicalFingerprint(t *testing.T) {
	path := writeSampleFile(t)

	var buf bytes.Buffer
	require.NoError(t, Metadata(&buf, path))
	assert.Contains(t, buf.String(), "avro.schema")

	buf.Reset()
	require.NoError(t, Schema(&buf, path))
	assert.Contains(t, buf.String(), "string")

	buf.Reset()
	require.NoError(t, Canonical(&buf, path))
	assert.Equal(t, `"string"`+"\n", buf.String())

	buf.Reset()
	require.NoError(t, Fingerprint(&buf, path, "rabin64"))
	assert.NotEmpty(t, buf.String())

	buf.Reset()
	err := Fingerprint(&buf, path, "bogus")
	assert.Error(t, err)
}

func TestReadAndBytes(t *testing.T) {
	path := writeSampleFile(t)

	var buf bytes.Buffer
	require.NoError(t, Read(&buf, path))
	assert.Contains(t, buf.String(), "hello")

	buf.Reset()
	require.NoError(t, Bytes(&buf, path))
	assert.Equal(t, []byte{0x4F, 0x62, 0x6A, 0x01}, buf.Bytes()[:4])
}
