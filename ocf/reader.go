package ocf

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/creativcoder/avrow"
	"github.com/creativcoder/avrow/compress"
)

// Reader reads datums out of an Avro Object Container File, resolving
// against an optional reader schema (§4.6, §4.10). Grounded on
// hamba/avro's ocf.Decoder (NewDecoder, HasNext/Decode iterator shape,
// readBlock; _examples/other_examples/3589709c_hamba-avro__ocf-ocf.go.go),
// generalized to an idiomatic Next/Err iterator. The teacher repo predates
// Go 1.23 range-over-func, so this stays with that era's plain-loop idiom
// rather than exposing an iter.Seq.
type Reader struct {
	src    *avrow.Reader
	meta   map[string][]byte
	sync   [syncSize]byte
	codec  compress.Codec

	writerSchema *avrow.Schema
	readerSchema *avrow.Schema

	block     *avrow.Reader
	remaining int64

	err error
}

// NewReader parses the header of r and prepares to iterate its datums
// under the embedded writer schema.
func NewReader(r io.Reader) (*Reader, error) {
	return NewReaderWithSchema(r, nil)
}

// NewReaderWithSchema is like NewReader, but resolves every datum against
// readerSchema (§4.6) instead of decoding it as written.
func NewReaderWithSchema(r io.Reader, readerSchema *avrow.Schema) (*Reader, error) {
	src := avrow.NewReader(r)
	meta, sync, err := readHeader(src)
	if err != nil {
		return nil, err
	}

	writerSchema, err := avrow.Parse(string(meta[schemaKey]))
	if err != nil {
		return nil, fmt.Errorf("ocf: parsing embedded writer schema: %w", err)
	}

	codec, err := compress.Resolve(compress.Name(meta[codecKey]))
	if err != nil {
		return nil, err
	}

	return &Reader{
		src:          src,
		meta:         meta,
		sync:         sync,
		codec:        codec,
		writerSchema: writerSchema,
		readerSchema: readerSchema,
	}, nil
}

// Metadata returns the header's metadata map, including avro.schema and
// avro.codec.
func (r *Reader) Metadata() map[string][]byte { return r.meta }

// WriterSchema returns the schema embedded in the file's header.
func (r *Reader) WriterSchema() *avrow.Schema { return r.writerSchema }

// Err returns the first error encountered, if any.
func (r *Reader) Err() error { return r.err }

// HasNext reports whether another datum is available, reading the next
// block if the current one is exhausted.
func (r *Reader) HasNext() bool {
	if r.err != nil {
		return false
	}
	if r.remaining <= 0 {
		if !r.readBlock() {
			return false
		}
	}
	return r.remaining > 0
}

// Next decodes and returns the next datum. Call HasNext first.
func (r *Reader) Next() (avrow.Value, error) {
	if r.err != nil {
		return avrow.Value{}, r.err
	}
	if r.remaining <= 0 {
		return avrow.Value{}, errors.New("ocf: no datum available, call HasNext first")
	}

	var v avrow.Value
	var err error
	if r.readerSchema != nil {
		v, err = avrow.DecodeResolved(r.block, r.writerSchema.Root(), r.readerSchema.Root(),
			r.writerSchema.Registry(), r.readerSchema.Registry())
	} else {
		v, err = avrow.Decode(r.block, r.writerSchema.Root(), r.writerSchema.Registry())
	}
	if err != nil {
		r.err = err
		return avrow.Value{}, err
	}
	r.remaining--
	return v, nil
}

// readBlock reads one block's framing (count, byte-length, payload,
// sync marker), decompresses the payload via the file's codec, and wires
// up a fresh *avrow.Reader over the decompressed bytes for Next to read
// from. Returns false at a clean end-of-stream or on error (see Err).
func (r *Reader) readBlock() bool {
	count := r.src.ReadLong()
	if r.src.Err != nil {
		if errors.Is(r.src.Err, io.EOF) {
			return false
		}
		r.err = r.src.Err
		return false
	}

	size := r.src.ReadLong()
	if r.src.Err != nil {
		r.err = r.src.Err
		return false
	}

	payload := r.src.ReadRaw(int(size))
	if r.src.Err != nil {
		r.err = r.src.Err
		return false
	}

	raw, err := r.codec.Decode(payload)
	if err != nil {
		r.err = fmt.Errorf("ocf: decompressing block: %w", err)
		return false
	}

	var sync [syncSize]byte
	s := r.src.ReadRaw(syncSize)
	if r.src.Err != nil {
		r.err = r.src.Err
		return false
	}
	copy(sync[:], s)
	if sync != r.sync {
		r.err = fmt.Errorf("ocf: block sync marker does not match header sync marker")
		return false
	}

	r.block = avrow.NewReader(bytes.NewReader(raw))
	r.remaining = count
	return true
}
