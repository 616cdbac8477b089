// Package compress implements the block compression backends an Object
// Container File names via its avro.codec metadata entry (§4.7).
package compress

import "fmt"

// Name identifies a registered codec by its avro.codec metadata string.
type Name string

const (
	Null    Name = "null"
	Deflate Name = "deflate"
	Snappy  Name = "snappy"
	Zstd    Name = "zstd"
	Bzip2   Name = "bzip2"
	XZ      Name = "xz"
)

// Codec compresses and decompresses one OCF block's payload.
type Codec interface {
	Name() Name
	Encode(raw []byte) ([]byte, error)
	Decode(in []byte) ([]byte, error)
}

var registry = map[Name]func() Codec{
	Null:    func() Codec { return nullCodec{} },
	Deflate: func() Codec { return &deflateCodec{} },
	Snappy:  func() Codec { return snappyCodec{} },
	Zstd:    func() Codec { return &zstdCodec{} },
	Bzip2:   func() Codec { return bzip2Codec{} },
	XZ:      func() Codec { return xzCodec{} },
}

// Resolve returns a fresh Codec instance for name, grounded on
// hamba/avro's ocf.resolveCodec dispatch-by-name pattern
// (_examples/other_examples/3589709c_hamba-avro__ocf-ocf.go.go).
func Resolve(name Name) (Codec, error) {
	if name == "" {
		name = Null
	}
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("avrow/compress: unknown codec %q", name)
	}
	return ctor(), nil
}
