package compress

// nullCodec is the identity codec: the payload is the raw block bytes.
type nullCodec struct{}

func (nullCodec) Name() Name { return Null }

func (nullCodec) Encode(raw []byte) ([]byte, error) { return raw, nil }

func (nullCodec) Decode(in []byte) ([]byte, error) { return in, nil }
