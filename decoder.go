package avrow

import "fmt"

// Decode reads one value of variant's shape from r, dereferencing Named
// references through reg. This mirrors Encode exactly with no reader-schema
// involved (§4.5's "Decoding without resolution"); use DecodeResolved
// (resolution.go) when the reader schema differs from the writer schema.
func Decode(r *Reader, variant Variant, reg *Registry) (Value, error) {
	resolved, err := Resolve(variant, reg)
	if err != nil {
		return Value{}, err
	}

	switch t := resolved.(type) {
	case primitive:
		return decodePrimitive(r, t.typ)

	case *FixedVariant:
		data := r.ReadRaw(t.Size)
		if r.Err != nil {
			return Value{}, r.Err
		}
		return NewFixed(t.Name.FullName(), data), nil

	case *EnumVariant:
		idx := r.ReadInt()
		if r.Err != nil {
			return Value{}, r.Err
		}
		if int(idx) < 0 || int(idx) >= len(t.Symbols) {
			return Value{}, decodeErrorf("enum %q: index %d out of range", t.Name, idx)
		}
		return NewEnum(t.Name.FullName(), t.Symbols[idx]), nil

	case *ArrayVariant:
		var items []Value
		for {
			count := r.ReadLong()
			if r.Err != nil {
				return Value{}, r.Err
			}
			if count == 0 {
				break
			}
			if count < 0 {
				// negative count form: a varint byte-size follows, which we
				// don't need since we decode item-by-item (§4.5).
				r.ReadLong()
				if r.Err != nil {
					return Value{}, r.Err
				}
				count = -count
			}
			for i := int64(0); i < count; i++ {
				item, err := Decode(r, t.Items, reg)
				if err != nil {
					return Value{}, fmt.Errorf("array item: %w", err)
				}
				items = append(items, item)
			}
		}
		return NewArray(items), nil

	case *MapVariant:
		m := make(map[string]Value)
		for {
			count := r.ReadLong()
			if r.Err != nil {
				return Value{}, r.Err
			}
			if count == 0 {
				break
			}
			if count < 0 {
				r.ReadLong()
				if r.Err != nil {
					return Value{}, r.Err
				}
				count = -count
			}
			for i := int64(0); i < count; i++ {
				key := r.ReadString()
				if r.Err != nil {
					return Value{}, r.Err
				}
				val, err := Decode(r, t.Values, reg)
				if err != nil {
					return Value{}, fmt.Errorf("map[%q]: %w", key, err)
				}
				m[key] = val
			}
		}
		return NewMap(m), nil

	case *RecordVariant:
		rec := NewRecordValue(t.Name.FullName())
		for _, f := range t.Fields {
			v, err := Decode(r, f.Type, reg)
			if err != nil {
				return Value{}, fmt.Errorf("record %q: field %q: %w", t.Name, f.Name, err)
			}
			if err := rec.Insert(f.Name, v); err != nil {
				return Value{}, err
			}
		}
		return NewRecord(rec), nil

	case *UnionVariant:
		idx := r.ReadLong()
		if r.Err != nil {
			return Value{}, r.Err
		}
		if idx < 0 || int(idx) >= len(t.Branches) {
			return Value{}, decodeErrorf("union branch index %d out of range", idx)
		}
		inner, err := Decode(r, t.Branches[idx], reg)
		if err != nil {
			return Value{}, fmt.Errorf("union branch %d: %w", idx, err)
		}
		return NewUnion(int(idx), inner), nil

	default:
		return Value{}, fmt.Errorf("avrow: unknown variant kind %T", resolved)
	}
}

func decodePrimitive(r *Reader, typ Type) (Value, error) {
	switch typ {
	case Null:
		return NewNull(), nil
	case Boolean:
		b := r.ReadBoolean()
		if r.Err != nil {
			return Value{}, r.Err
		}
		return NewBoolean(b), nil
	case Int:
		i := r.ReadInt()
		if r.Err != nil {
			return Value{}, r.Err
		}
		return NewInt(i), nil
	case Long:
		i := r.ReadLong()
		if r.Err != nil {
			return Value{}, r.Err
		}
		return NewLong(i), nil
	case Float:
		f := r.ReadFloat()
		if r.Err != nil {
			return Value{}, r.Err
		}
		return NewFloat(f), nil
	case Double:
		f := r.ReadDouble()
		if r.Err != nil {
			return Value{}, r.Err
		}
		return NewDouble(f), nil
	case Bytes:
		b := r.ReadBytes()
		if r.Err != nil {
			return Value{}, r.Err
		}
		return NewBytes(b), nil
	case String:
		s := r.ReadString()
		if r.Err != nil {
			return Value{}, r.Err
		}
		return NewString(s), nil
	default:
		return Value{}, fmt.Errorf("avrow: %s is not a primitive type", typ)
	}
}
