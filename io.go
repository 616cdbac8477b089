package avrow

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"
)

// Reader reads Avro's primitive binary encodings from an underlying
// io.Reader. Like hamba/avro's *Reader and go-avro/avro's BinaryDecoder,
// it accumulates the first error it sees and every subsequent read
// becomes a no-op, so callers can chain several reads and check Err once
// at the end.
type Reader struct {
	r   *bufio.Reader
	Err error
}

// NewReader wraps r for primitive decoding.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

func (r *Reader) fail(err error) {
	if r.Err == nil {
		r.Err = err
	}
}

// ReadRaw reads exactly n bytes.
func (r *Reader) ReadRaw(n int) []byte {
	if r.Err != nil || n < 0 {
		return nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		r.fail(err)
		return nil
	}
	return buf
}

func (r *Reader) readByte() byte {
	if r.Err != nil {
		return 0
	}
	b, err := r.r.ReadByte()
	if err != nil {
		r.fail(err)
		return 0
	}
	return b
}

// ReadVarint reads a raw (not zig-zag-decoded) base-128 varint.
func (r *Reader) ReadVarint() uint64 {
	var result uint64
	var shift uint
	for {
		b := r.readByte()
		if r.Err != nil {
			return 0
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result
		}
		shift += 7
		if shift > 63 {
			r.fail(decodeErrorf("varint too long"))
			return 0
		}
	}
}

// ReadLong reads a zig-zag + varint encoded 64-bit signed integer.
func (r *Reader) ReadLong() int64 {
	u := r.ReadVarint()
	return int64(u>>1) ^ -int64(u&1)
}

// ReadInt reads a zig-zag + varint encoded 32-bit signed integer.
func (r *Reader) ReadInt() int32 {
	return int32(r.ReadLong())
}

// ReadBoolean reads a single boolean byte, failing decode on any value
// other than 0x00/0x01.
func (r *Reader) ReadBoolean() bool {
	b := r.readByte()
	switch b {
	case 0x00:
		return false
	case 0x01:
		return true
	default:
		if r.Err == nil {
			r.fail(decodeErrorf("invalid boolean byte 0x%02x", b))
		}
		return false
	}
}

// ReadFloat reads a little-endian IEEE-754 32-bit float.
func (r *Reader) ReadFloat() float32 {
	b := r.ReadRaw(4)
	if r.Err != nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// ReadDouble reads a little-endian IEEE-754 64-bit float.
func (r *Reader) ReadDouble() float64 {
	b := r.ReadRaw(8)
	if r.Err != nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

// ReadBytes reads a varint length prefix followed by that many raw bytes.
func (r *Reader) ReadBytes() []byte {
	n := r.ReadLong()
	if r.Err != nil {
		return nil
	}
	if n < 0 {
		r.fail(decodeErrorf("negative byte-string length %d", n))
		return nil
	}
	return r.ReadRaw(int(n))
}

// ReadString reads a length-prefixed byte string and validates it as UTF-8.
func (r *Reader) ReadString() string {
	b := r.ReadBytes()
	if r.Err != nil {
		return ""
	}
	if !utf8.Valid(b) {
		r.fail(decodeErrorf("invalid UTF-8 in string"))
		return ""
	}
	return string(b)
}

// Writer writes Avro's primitive binary encodings to an underlying
// io.Writer, accumulating the first write error the same way Reader
// accumulates the first read error.
type Writer struct {
	w   io.Writer
	Err error
}

// NewWriter wraps w for primitive encoding.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

func (w *Writer) fail(err error) {
	if w.Err == nil {
		w.Err = err
	}
}

// WriteRaw writes b verbatim.
func (w *Writer) WriteRaw(b []byte) {
	if w.Err != nil {
		return
	}
	if _, err := w.w.Write(b); err != nil {
		w.fail(err)
	}
}

// WriteVarint writes a raw (not zig-zag-encoded) base-128 varint.
func (w *Writer) WriteVarint(u uint64) {
	if w.Err != nil {
		return
	}
	var buf [10]byte
	n := 0
	for u >= 0x80 {
		buf[n] = byte(u) | 0x80
		u >>= 7
		n++
	}
	buf[n] = byte(u)
	n++
	w.WriteRaw(buf[:n])
}

// WriteLong zig-zag + varint encodes a 64-bit signed integer.
func (w *Writer) WriteLong(v int64) {
	w.WriteVarint(uint64(v<<1) ^ uint64(v>>63))
}

// WriteInt zig-zag + varint encodes a 32-bit signed integer.
func (w *Writer) WriteInt(v int32) { w.WriteLong(int64(v)) }

// WriteBoolean writes a single boolean byte.
func (w *Writer) WriteBoolean(b bool) {
	if b {
		w.WriteRaw([]byte{0x01})
	} else {
		w.WriteRaw([]byte{0x00})
	}
}

// WriteFloat writes a little-endian IEEE-754 32-bit float.
func (w *Writer) WriteFloat(f float32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(f))
	w.WriteRaw(buf[:])
}

// WriteDouble writes a little-endian IEEE-754 64-bit float.
func (w *Writer) WriteDouble(f float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
	w.WriteRaw(buf[:])
}

// WriteBytes writes a varint length prefix followed by b.
func (w *Writer) WriteBytes(b []byte) {
	w.WriteLong(int64(len(b)))
	w.WriteRaw(b)
}

// WriteString writes a length-prefixed UTF-8 byte string.
func (w *Writer) WriteString(s string) { w.WriteBytes([]byte(s)) }
