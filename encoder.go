package avrow

import "fmt"

// Encode writes v's binary encoding to w under variant, resolving Named
// references through reg and applying the numeric/string promotion matrix
// described in §4.5.
func Encode(w *Writer, v Value, variant Variant, reg *Registry) error {
	resolved, err := Resolve(variant, reg)
	if err != nil {
		return err
	}

	switch t := resolved.(type) {
	case primitive:
		return encodePrimitive(w, v, t.typ)

	case *FixedVariant:
		var data []byte
		switch v.Tag() {
		case Fixed:
			_, data, _ = v.AsFixed()
		case Bytes:
			data, _ = v.AsBytes()
		default:
			return fmt.Errorf("avrow: cannot encode %s as fixed %q", v.Tag(), t.Name)
		}
		if len(data) != t.Size {
			return fmt.Errorf("avrow: fixed %q length mismatch: got %d bytes, want %d", t.Name, len(data), t.Size)
		}
		w.WriteRaw(data)
		return w.Err

	case *EnumVariant:
		_, symbol, err := v.AsEnum()
		if err != nil {
			return err
		}
		idx, ok := t.IndexOf(symbol)
		if !ok {
			return fmt.Errorf("avrow: symbol %q is not declared by enum %q", symbol, t.Name)
		}
		w.WriteInt(int32(idx))
		return w.Err

	case *ArrayVariant:
		items, err := v.AsArray()
		if err != nil {
			return err
		}
		if len(items) > 0 {
			w.WriteLong(int64(len(items)))
			for i, item := range items {
				if err := Encode(w, item, t.Items, reg); err != nil {
					return fmt.Errorf("array[%d]: %w", i, err)
				}
			}
		}
		w.WriteLong(0)
		return w.Err

	case *MapVariant:
		m, err := v.AsMap()
		if err != nil {
			return err
		}
		if len(m) > 0 {
			w.WriteLong(int64(len(m)))
			for k, val := range m {
				w.WriteString(k)
				if err := Encode(w, val, t.Values, reg); err != nil {
					return fmt.Errorf("map[%q]: %w", k, err)
				}
			}
		}
		w.WriteLong(0)
		return w.Err

	case *RecordVariant:
		rec, err := v.AsRecord()
		if err != nil {
			return err
		}
		for _, f := range t.Fields {
			fv, ok := rec.Get(f.Name)
			if !ok {
				return fmt.Errorf("avrow: record %q is missing declared field %q", t.Name, f.Name)
			}
			if err := Encode(w, fv, f.Type, reg); err != nil {
				return fmt.Errorf("field %q: %w", f.Name, err)
			}
		}
		return w.Err

	case *UnionVariant:
		index, inner, err := selectUnionBranch(v, t, reg)
		if err != nil {
			return err
		}
		w.WriteLong(int64(index))
		if err := Encode(w, inner, t.Branches[index], reg); err != nil {
			return fmt.Errorf("union branch %d: %w", index, err)
		}
		return w.Err

	default:
		return fmt.Errorf("avrow: unknown variant kind %T", resolved)
	}
}

func encodePrimitive(w *Writer, v Value, want Type) error {
	if !promotedTo(v.Tag(), want) {
		return fmt.Errorf("avrow: value tagged %s is not encodable as %s", v.Tag(), want)
	}
	switch want {
	case Null:
		// Null is encoded as zero bytes.
	case Boolean:
		b, _ := v.AsBool()
		w.WriteBoolean(b)
	case Int:
		i, _ := v.AsInt()
		w.WriteInt(i)
	case Long:
		i := promoteToLong(v)
		w.WriteLong(i)
	case Float:
		f := promoteToFloat(v)
		w.WriteFloat(f)
	case Double:
		f := promoteToDouble(v)
		w.WriteDouble(f)
	case Bytes:
		b := promoteToBytes(v)
		w.WriteBytes(b)
	case String:
		s := promoteToString(v)
		w.WriteString(s)
	}
	return w.Err
}

func promoteToLong(v Value) int64 {
	if v.Tag() == Int {
		i, _ := v.AsInt()
		return int64(i)
	}
	i, _ := v.AsLong()
	return i
}

func promoteToFloat(v Value) float32 {
	switch v.Tag() {
	case Int:
		i, _ := v.AsInt()
		return float32(i)
	case Long:
		i, _ := v.AsLong()
		return float32(i)
	default:
		f, _ := v.AsFloat()
		return f
	}
}

func promoteToDouble(v Value) float64 {
	switch v.Tag() {
	case Int:
		i, _ := v.AsInt()
		return float64(i)
	case Long:
		i, _ := v.AsLong()
		return float64(i)
	case Float:
		f, _ := v.AsFloat()
		return float64(f)
	default:
		f, _ := v.AsDouble()
		return f
	}
}

func promoteToBytes(v Value) []byte {
	if v.Tag() == String {
		s, _ := v.AsString()
		return []byte(s)
	}
	b, _ := v.AsBytes()
	return b
}

func promoteToString(v Value) string {
	if v.Tag() == Bytes {
		b, _ := v.AsBytes()
		return string(b)
	}
	s, _ := v.AsString()
	return s
}

// selectUnionBranch picks the branch v should be encoded under, per §4.5's
// union resolution rule. A Value already tagged Union carries an explicit
// branch index (as produced by schema-resolution decode or NewUnion); any
// other Value is matched against each branch's top-level shape in order,
// picking the first one a promotion-aware Validate accepts.
func selectUnionBranch(v Value, u *UnionVariant, reg *Registry) (int, Value, error) {
	if v.Tag() == Union {
		index, inner, err := v.AsUnion()
		if err != nil {
			return 0, Value{}, err
		}
		if index < 0 || index >= len(u.Branches) {
			return 0, Value{}, fmt.Errorf("avrow: union branch index %d out of range", index)
		}
		if inner.Tag() == Union {
			return 0, Value{}, fmt.Errorf("avrow: immediate nested union values are not allowed")
		}
		return index, inner, nil
	}
	for i, branch := range u.Branches {
		if Validate(v, branch, reg) == nil {
			return i, v, nil
		}
	}
	return 0, Value{}, fmt.Errorf("avrow: no union branch found for value tagged %s", v.Tag())
}
