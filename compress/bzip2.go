package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
)

// bzip2Codec implements the "bzip2" backend. The standard library's
// compress/bzip2 is decode-only, so a writer-capable backend requires a
// real third-party package; dsnet/compress is the pack's standard choice
// for this (see DESIGN.md).
type bzip2Codec struct{}

func (bzip2Codec) Name() Name { return Bzip2 }

func (bzip2Codec) Encode(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := bzip2.NewWriter(&buf, nil)
	if err != nil {
		return nil, fmt.Errorf("avrow/compress: bzip2: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return nil, fmt.Errorf("avrow/compress: bzip2: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("avrow/compress: bzip2: %w", err)
	}
	return buf.Bytes(), nil
}

func (bzip2Codec) Decode(in []byte) ([]byte, error) {
	r, err := bzip2.NewReader(bytes.NewReader(in), nil)
	if err != nil {
		return nil, fmt.Errorf("avrow/compress: bzip2: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("avrow/compress: bzip2: %w", err)
	}
	return out, nil
}
