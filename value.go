package avrow

import "fmt"

// ByteAdapter is an auxiliary Value tag used only while a host language's
// "sequence of 8-bit integers" is being collected into Bytes or Fixed; it
// never appears in encoded output (§3).
const ByteAdapter Type = Named + 1

// Value is a tagged sum over Avro-typed data: Null, Boolean, Int, Long,
// Float, Double, Bytes, Str, Fixed, Enum, Array, Map, Record, Union, plus
// the Byte adapter (§3).
type Value struct {
	typ     Type
	payload any
}

type fixedValue struct {
	name string
	data []byte
}

type enumValue struct {
	name, symbol string
}

type unionValue struct {
	index int
	inner Value
}

func expected(want string, typ Type) error {
	return fmt.Errorf("avrow: expected %s, found %s", want, typ)
}

// Tag returns the Type this Value denotes.
func (v Value) Tag() Type { return v.typ }

func NewNull() Value                { return Value{typ: Null} }
func NewBoolean(b bool) Value       { return Value{typ: Boolean, payload: b} }
func NewInt(i int32) Value          { return Value{typ: Int, payload: i} }
func NewLong(i int64) Value         { return Value{typ: Long, payload: i} }
func NewFloat(f float32) Value      { return Value{typ: Float, payload: f} }
func NewDouble(f float64) Value     { return Value{typ: Double, payload: f} }
func NewBytes(b []byte) Value       { return Value{typ: Bytes, payload: b} }
func NewString(s string) Value      { return Value{typ: String, payload: s} }
func NewByte(b byte) Value          { return Value{typ: ByteAdapter, payload: b} }

// NewFixed constructs a Fixed value for the named fixed type.
func NewFixed(name string, data []byte) Value {
	return Value{typ: Fixed, payload: fixedValue{name: name, data: data}}
}

// NewEnum constructs an Enum value: name is the enum schema's fullname,
// symbol is the selected symbol.
func NewEnum(name, symbol string) Value {
	return Value{typ: Enum, payload: enumValue{name: name, symbol: symbol}}
}

func NewArray(items []Value) Value          { return Value{typ: Array, payload: items} }
func NewMap(m map[string]Value) Value       { return Value{typ: Map, payload: m} }
func NewRecord(r *Record) Value              { return Value{typ: Record, payload: r} }

// NewUnion tags v with the chosen branch index.
func NewUnion(index int, v Value) Value {
	return Value{typ: Union, payload: unionValue{index: index, inner: v}}
}

func (v Value) AsNull() error {
	if v.typ != Null {
		return expected("null", v.typ)
	}
	return nil
}

func (v Value) AsBool() (bool, error) {
	b, ok := v.payload.(bool)
	if v.typ != Boolean || !ok {
		return false, expected("boolean", v.typ)
	}
	return b, nil
}

func (v Value) AsInt() (int32, error) {
	i, ok := v.payload.(int32)
	if v.typ != Int || !ok {
		return 0, expected("int", v.typ)
	}
	return i, nil
}

func (v Value) AsLong() (int64, error) {
	i, ok := v.payload.(int64)
	if v.typ != Long || !ok {
		return 0, expected("long", v.typ)
	}
	return i, nil
}

func (v Value) AsFloat() (float32, error) {
	f, ok := v.payload.(float32)
	if v.typ != Float || !ok {
		return 0, expected("float", v.typ)
	}
	return f, nil
}

func (v Value) AsDouble() (float64, error) {
	f, ok := v.payload.(float64)
	if v.typ != Double || !ok {
		return 0, expected("double", v.typ)
	}
	return f, nil
}

func (v Value) AsBytes() ([]byte, error) {
	b, ok := v.payload.([]byte)
	if v.typ != Bytes || !ok {
		return nil, expected("bytes", v.typ)
	}
	return b, nil
}

func (v Value) AsString() (string, error) {
	s, ok := v.payload.(string)
	if v.typ != String || !ok {
		return "", expected("string", v.typ)
	}
	return s, nil
}

func (v Value) AsByte() (byte, error) {
	b, ok := v.payload.(byte)
	if v.typ != ByteAdapter || !ok {
		return 0, expected("byte", v.typ)
	}
	return b, nil
}

func (v Value) AsFixed() (name string, data []byte, err error) {
	fv, ok := v.payload.(fixedValue)
	if v.typ != Fixed || !ok {
		return "", nil, expected("fixed", v.typ)
	}
	return fv.name, fv.data, nil
}

func (v Value) AsEnum() (name, symbol string, err error) {
	ev, ok := v.payload.(enumValue)
	if v.typ != Enum || !ok {
		return "", "", expected("enum", v.typ)
	}
	return ev.name, ev.symbol, nil
}

func (v Value) AsArray() ([]Value, error) {
	a, ok := v.payload.([]Value)
	if v.typ != Array || !ok {
		return nil, expected("array", v.typ)
	}
	return a, nil
}

func (v Value) AsMap() (map[string]Value, error) {
	m, ok := v.payload.(map[string]Value)
	if v.typ != Map || !ok {
		return nil, expected("map", v.typ)
	}
	return m, nil
}

func (v Value) AsRecord() (*Record, error) {
	r, ok := v.payload.(*Record)
	if v.typ != Record || !ok {
		return nil, expected("record", v.typ)
	}
	return r, nil
}

func (v Value) AsUnion() (index int, inner Value, err error) {
	uv, ok := v.payload.(unionValue)
	if v.typ != Union || !ok {
		return 0, Value{}, expected("union", v.typ)
	}
	return uv.index, uv.inner, nil
}

// FromGo converts a common host scalar into a Value. Supported types:
// nil, bool, int/int32/int64, float32/float64, string, []byte.
func FromGo(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBoolean(x), nil
	case int:
		return NewLong(int64(x)), nil
	case int32:
		return NewInt(x), nil
	case int64:
		return NewLong(x), nil
	case float32:
		return NewFloat(x), nil
	case float64:
		return NewDouble(x), nil
	case string:
		return NewString(x), nil
	case []byte:
		return NewBytes(x), nil
	default:
		return Value{}, fmt.Errorf("avrow: cannot convert %T to an avrow.Value", v)
	}
}

// FieldValue pairs a Value with descriptive sort-order metadata; ordering
// never affects encoding (§3).
type FieldValue struct {
	Value Value
	Order FieldOrder
}

// Record is an insertion-ordered mapping from field name to FieldValue.
// Insertion order is cosmetic only: encoding always follows schema-declared
// field order (§3, §4.5).
type Record struct {
	Fullname string
	order    []string
	fields   map[string]*FieldValue
}

// NewRecordValue constructs an empty Record for the given fullname.
func NewRecordValue(fullname string) *Record {
	return &Record{Fullname: fullname, fields: make(map[string]*FieldValue)}
}

// Insert sets field's value, validating the field name and appending it to
// insertion order if it is new.
func (r *Record) Insert(field string, v Value) error {
	if !ValidSimpleName(field) {
		return fmt.Errorf("avrow: invalid field name %q", field)
	}
	if _, exists := r.fields[field]; !exists {
		r.order = append(r.order, field)
	}
	r.fields[field] = &FieldValue{Value: v, Order: Ascending}
	return nil
}

// SetFieldOrder updates the descriptive sort-order tag for an existing field.
func (r *Record) SetFieldOrder(field string, order FieldOrder) error {
	fv, ok := r.fields[field]
	if !ok {
		return fmt.Errorf("avrow: no such field %q", field)
	}
	fv.Order = order
	return nil
}

// Get returns the field's Value, if present.
func (r *Record) Get(field string) (Value, bool) {
	fv, ok := r.fields[field]
	if !ok {
		return Value{}, false
	}
	return fv.Value, true
}

// Fields returns field names in insertion order.
func (r *Record) Fields() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// FromOrderedMapping builds a Record from a fullname and an ordered list of
// (name, value) pairs, preserving the given order.
func FromOrderedMapping(fullname string, pairs [][2]any) (*Record, error) {
	r := NewRecordValue(fullname)
	for _, p := range pairs {
		name, ok := p[0].(string)
		if !ok {
			return nil, fmt.Errorf("avrow: field name must be a string, got %T", p[0])
		}
		val, ok := p[1].(Value)
		if !ok {
			return nil, fmt.Errorf("avrow: field value must be an avrow.Value, got %T", p[1])
		}
		if err := r.Insert(name, val); err != nil {
			return nil, err
		}
	}
	return r, nil
}
