package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"
)

// xzCodec implements the "xz" backend: the xz-compressed raw block, no
// extra checksum (§4.7).
type xzCodec struct{}

func (xzCodec) Name() Name { return XZ }

func (xzCodec) Encode(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("avrow/compress: xz: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return nil, fmt.Errorf("avrow/compress: xz: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("avrow/compress: xz: %w", err)
	}
	return buf.Bytes(), nil
}

func (xzCodec) Decode(in []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, fmt.Errorf("avrow/compress: xz: %w", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("avrow/compress: xz: %w", err)
	}
	return out, nil
}
