package compress

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/golang/snappy"
)

// snappyCodec implements the "snappy" backend. Unlike the other backends,
// its wire contract carries an extra trailing 4-byte big-endian CRC32
// (IEEE) of the *uncompressed* block (§4.7), so Encode/Decode here do more
// than hand bytes to the compressor.
type snappyCodec struct{}

func (snappyCodec) Name() Name { return Snappy }

func (snappyCodec) Encode(raw []byte) ([]byte, error) {
	compressed := snappy.Encode(nil, raw)
	out := make([]byte, len(compressed)+4)
	copy(out, compressed)
	binary.BigEndian.PutUint32(out[len(compressed):], crc32.ChecksumIEEE(raw))
	return out, nil
}

func (snappyCodec) Decode(in []byte) ([]byte, error) {
	if len(in) < 4 {
		return nil, fmt.Errorf("avrow/compress: snappy: block too short for trailing CRC32")
	}
	body, trailer := in[:len(in)-4], in[len(in)-4:]
	want := binary.BigEndian.Uint32(trailer)

	out, err := snappy.Decode(nil, body)
	if err != nil {
		return nil, fmt.Errorf("avrow/compress: snappy: %w", err)
	}
	if got := crc32.ChecksumIEEE(out); got != want {
		return nil, fmt.Errorf("avrow/compress: snappy: CRC32 mismatch: got %08x, want %08x", got, want)
	}
	return out, nil
}
