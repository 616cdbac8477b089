package ocf

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/creativcoder/avrow"
	"github.com/creativcoder/avrow/compress"
)

// defaultFlushThreshold is the block-buffer size, in bytes, at which Write
// triggers an automatic Flush: 16*4096 = 65536 (§4.8).
const defaultFlushThreshold = 16 * 4096

type writerConfig struct {
	blockSize int
	codec     compress.Name
	metadata  map[string][]byte
}

// WriterOption configures a Writer at construction, grounded on
// hamba/avro's ocf.EncoderFunc options
// (_examples/other_examples/3589709c_hamba-avro__ocf-ocf.go.go).
type WriterOption func(*writerConfig)

// WithBlockSize overrides the default 65536-byte flush threshold.
func WithBlockSize(n int) WriterOption {
	return func(c *writerConfig) { c.blockSize = n }
}

// WithCodec selects the compression codec advertised in the avro.codec
// header entry and used to compress every block's payload.
func WithCodec(name compress.Name) WriterOption {
	return func(c *writerConfig) { c.codec = name }
}

// WithMetadata adds caller-supplied header metadata entries alongside
// avro.schema and avro.codec.
func WithMetadata(meta map[string][]byte) WriterOption {
	return func(c *writerConfig) {
		for k, v := range meta {
			c.metadata[k] = v
		}
	}
}

// WriterBuilder mirrors original_source/src/writer.rs's builder alongside
// the plain NewWriter constructor, since the original exposes both a
// builder and a convenience constructor.
type WriterBuilder struct {
	cfg writerConfig
}

// NewWriterBuilder starts a WriterBuilder with the default block size and
// the null codec.
func NewWriterBuilder() *WriterBuilder {
	return &WriterBuilder{cfg: writerConfig{blockSize: defaultFlushThreshold, codec: compress.Null, metadata: map[string][]byte{}}}
}

// BlockSize sets the flush threshold.
func (b *WriterBuilder) BlockSize(n int) *WriterBuilder {
	b.cfg.blockSize = n
	return b
}

// Codec sets the compression codec.
func (b *WriterBuilder) Codec(name compress.Name) *WriterBuilder {
	b.cfg.codec = name
	return b
}

// UserMetadata sets a single caller-supplied header metadata entry.
func (b *WriterBuilder) UserMetadata(key string, value []byte) *WriterBuilder {
	b.cfg.metadata[key] = value
	return b
}

// Build constructs the Writer, writing the OCF header to w.
func (b *WriterBuilder) Build(w io.Writer, schema *avrow.Schema) (*Writer, error) {
	return newWriter(w, schema, b.cfg)
}

// Writer writes an Avro Object Container File: header once, then zero or
// more blocks of datums (§4.8). Grounded directly on hamba/avro's
// ocf.Encoder (_examples/other_examples/3589709c_hamba-avro__ocf-ocf.go.go).
type Writer struct {
	sink   io.Writer
	schema *avrow.Schema
	codec  compress.Codec
	sync   [syncSize]byte

	buf        bytes.Buffer
	count      int64
	flushBytes int
}

// NewWriter is the convenience constructor: it writes the OCF header for
// schema to w and returns a Writer ready for Write calls.
func NewWriter(w io.Writer, schema *avrow.Schema, opts ...WriterOption) (*Writer, error) {
	cfg := writerConfig{blockSize: defaultFlushThreshold, codec: compress.Null, metadata: map[string][]byte{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	return newWriter(w, schema, cfg)
}

func newWriter(w io.Writer, schema *avrow.Schema, cfg writerConfig) (*Writer, error) {
	codec, err := compress.Resolve(cfg.codec)
	if err != nil {
		return nil, err
	}

	meta := map[string][]byte{}
	for k, v := range cfg.metadata {
		meta[k] = v
	}
	meta[schemaKey] = []byte(schema.String())
	meta[codecKey] = []byte(cfg.codec)

	var sync [syncSize]byte
	if _, err := rand.Read(sync[:]); err != nil {
		return nil, fmt.Errorf("ocf: generating sync marker: %w", err)
	}

	hw := avrow.NewWriter(w)
	if err := writeHeader(hw, meta, sync); err != nil {
		return nil, fmt.Errorf("ocf: writing header: %w", err)
	}

	blockSize := cfg.blockSize
	if blockSize <= 0 {
		blockSize = defaultFlushThreshold
	}

	return &Writer{
		sink:       w,
		schema:     schema,
		codec:      codec,
		sync:       sync,
		flushBytes: blockSize,
	}, nil
}

// Write validates v against the writer's schema, encodes it into the
// current block buffer, and flushes automatically once the buffer reaches
// the flush threshold (§4.8).
func (wr *Writer) Write(v avrow.Value) error {
	reg := wr.schema.Registry()
	root := wr.schema.Root()

	if err := avrow.Validate(v, root, reg); err != nil {
		return err
	}

	bw := avrow.NewWriter(&wr.buf)
	if err := avrow.Encode(bw, v, root, reg); err != nil {
		return err
	}

	wr.count++
	if wr.buf.Len() >= wr.flushBytes {
		return wr.Flush()
	}
	return nil
}

// Flush writes the accumulated block (count, codec-compressed payload
// length, payload, sync marker) and resets the buffer. A no-op if no
// datums have been written since the last flush (§4.8).
func (wr *Writer) Flush() error {
	if wr.count == 0 {
		return nil
	}

	hw := avrow.NewWriter(wr.sink)
	hw.WriteLong(wr.count)

	payload, err := wr.codec.Encode(wr.buf.Bytes())
	if err != nil {
		return fmt.Errorf("ocf: compressing block: %w", err)
	}

	hw.WriteLong(int64(len(payload)))
	hw.WriteRaw(payload)
	hw.WriteRaw(wr.sync[:])
	if hw.Err != nil {
		return hw.Err
	}

	if f, ok := wr.sink.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return err
		}
	}

	wr.buf.Reset()
	wr.count = 0
	return nil
}

// IntoInner flushes any pending block and returns the underlying sink,
// mirroring original_source/src/writer.rs's into_inner.
func (wr *Writer) IntoInner() (io.Writer, error) {
	if err := wr.Flush(); err != nil {
		return nil, err
	}
	return wr.sink, nil
}

// Close flushes any pending block.
func (wr *Writer) Close() error {
	return wr.Flush()
}
