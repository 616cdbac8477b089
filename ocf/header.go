// Package ocf implements Avro Object Container File encoding and decoding:
// the header/block framing described in §4.8, §4.10 and §6, layered over
// the core binary codec and the compress package's codec backends.
package ocf

import (
	"bytes"
	"fmt"

	"github.com/creativcoder/avrow"
)

const (
	schemaKey = "avro.schema"
	codecKey  = "avro.codec"
)

var magicBytes = [4]byte{'O', 'b', 'j', 0x01}

const syncSize = 16

// writeHeader writes the OCF header: magic, metadata (a Map-of-Bytes per
// §4.5), and the sync marker, in that order (§6).
func writeHeader(w *avrow.Writer, meta map[string][]byte, sync [syncSize]byte) error {
	w.WriteRaw(magicBytes[:])
	if w.Err != nil {
		return w.Err
	}

	if len(meta) > 0 {
		w.WriteLong(int64(len(meta)))
		for k, v := range meta {
			w.WriteString(k)
			w.WriteBytes(v)
		}
	}
	w.WriteLong(0)
	if w.Err != nil {
		return w.Err
	}

	w.WriteRaw(sync[:])
	return w.Err
}

// readHeader reads and validates the OCF header, returning its metadata
// and sync marker.
func readHeader(r *avrow.Reader) (map[string][]byte, [syncSize]byte, error) {
	var sync [syncSize]byte

	magic := r.ReadRaw(4)
	if r.Err != nil {
		return nil, sync, fmt.Errorf("ocf: reading magic: %w", r.Err)
	}
	if !bytes.Equal(magic, magicBytes[:]) {
		return nil, sync, fmt.Errorf("ocf: not an Avro object container file (bad magic)")
	}

	meta := make(map[string][]byte)
	for {
		count := r.ReadLong()
		if r.Err != nil {
			return nil, sync, fmt.Errorf("ocf: reading header metadata: %w", r.Err)
		}
		if count == 0 {
			break
		}
		if count < 0 {
			r.ReadLong()
			if r.Err != nil {
				return nil, sync, r.Err
			}
			count = -count
		}
		for i := int64(0); i < count; i++ {
			key := r.ReadString()
			val := r.ReadBytes()
			if r.Err != nil {
				return nil, sync, fmt.Errorf("ocf: reading header metadata: %w", r.Err)
			}
			meta[key] = val
		}
	}

	s := r.ReadRaw(syncSize)
	if r.Err != nil {
		return nil, sync, fmt.Errorf("ocf: reading sync marker: %w", r.Err)
	}
	copy(sync[:], s)

	return meta, sync, nil
}
