package compress

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// zstdCodec implements the "zstd" backend: the zstandard-compressed raw
// block, no extra checksum (§4.7).
type zstdCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func (c *zstdCodec) Name() Name { return Zstd }

func (c *zstdCodec) Encode(raw []byte) ([]byte, error) {
	if c.enc == nil {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("avrow/compress: zstd: %w", err)
		}
		c.enc = enc
	}
	return c.enc.EncodeAll(raw, nil), nil
}

func (c *zstdCodec) Decode(in []byte) ([]byte, error) {
	if c.dec == nil {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("avrow/compress: zstd: %w", err)
		}
		c.dec = dec
	}
	out, err := c.dec.DecodeAll(in, nil)
	if err != nil {
		return nil, fmt.Errorf("avrow/compress: zstd: %w", err)
	}
	return out, nil
}
