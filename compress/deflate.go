package compress

import (
	"bytes"
	"compress/flate"
	"fmt"
	"io"
)

// deflateCodec implements the "deflate" backend: an RFC-1951 deflate stream
// of the raw block. No ecosystem replacement improves on the standard
// library here (see DESIGN.md), so this backend is the repo's one
// deliberate stdlib-only codec.
type deflateCodec struct{}

func (c *deflateCodec) Name() Name { return Deflate }

func (c *deflateCodec) Encode(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("avrow/compress: deflate: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return nil, fmt.Errorf("avrow/compress: deflate: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("avrow/compress: deflate: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *deflateCodec) Decode(in []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(in))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("avrow/compress: deflate: %w", err)
	}
	return out, nil
}
