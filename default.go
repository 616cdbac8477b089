package avrow

import (
	"encoding/base64"
	"fmt"
)

// parseDefault parses a JSON default value against v's Variant, per §4.3.1.
// Union-typed fields parse the default against the union's first branch.
func parseDefault(v Variant, raw any, reg *Registry) (Value, error) {
	if u, ok := v.(*UnionVariant); ok {
		if len(u.Branches) == 0 {
			return Value{}, fmt.Errorf("avrow: union default: union has no branches")
		}
		inner, err := parseDefault(u.Branches[0], raw, reg)
		if err != nil {
			return Value{}, fmt.Errorf("avrow: union default: %w", err)
		}
		return NewUnion(0, inner), nil
	}

	resolved, err := Resolve(v, reg)
	if err != nil {
		return Value{}, err
	}

	switch t := resolved.(type) {
	case primitive:
		return parsePrimitiveDefault(t.typ, raw)
	case *FixedVariant:
		s, ok := raw.(string)
		if !ok {
			return Value{}, fmt.Errorf("avrow: default for fixed %q must be a string", t.Name)
		}
		b := []byte(s)
		if len(b) != t.Size {
			return Value{}, fmt.Errorf("avrow: default for fixed %q has length %d, want %d", t.Name, len(b), t.Size)
		}
		return NewFixed(t.Name.FullName(), b), nil
	case *EnumVariant:
		s, ok := raw.(string)
		if !ok {
			return Value{}, fmt.Errorf("avrow: default for enum %q must be a string", t.Name)
		}
		if _, ok := t.IndexOf(s); !ok {
			return Value{}, fmt.Errorf("avrow: default symbol %q is not in enum %q", s, t.Name)
		}
		return NewEnum(t.Name.FullName(), s), nil
	case *ArrayVariant:
		arr, ok := raw.([]any)
		if !ok {
			return Value{}, fmt.Errorf("avrow: array default must be a JSON array")
		}
		items := make([]Value, len(arr))
		for i, el := range arr {
			iv, err := parseDefault(t.Items, el, reg)
			if err != nil {
				return Value{}, fmt.Errorf("avrow: array default[%d]: %w", i, err)
			}
			items[i] = iv
		}
		return NewArray(items), nil
	case *MapVariant:
		obj, ok := raw.(map[string]any)
		if !ok {
			return Value{}, fmt.Errorf("avrow: map default must be a JSON object")
		}
		m := make(map[string]Value, len(obj))
		for k, el := range obj {
			mv, err := parseDefault(t.Values, el, reg)
			if err != nil {
				return Value{}, fmt.Errorf("avrow: map default[%q]: %w", k, err)
			}
			m[k] = mv
		}
		return NewMap(m), nil
	case *RecordVariant:
		obj, ok := raw.(map[string]any)
		if !ok {
			return Value{}, fmt.Errorf("avrow: record default for %q must be a JSON object", t.Name)
		}
		rec := NewRecordValue(t.Name.FullName())
		for _, f := range t.Fields {
			fv, ok := obj[f.Name]
			if !ok {
				if f.HasDefault {
					if err := rec.Insert(f.Name, f.Default); err != nil {
						return Value{}, err
					}
					continue
				}
				return Value{}, fmt.Errorf("avrow: record default for %q missing field %q", t.Name, f.Name)
			}
			v, err := parseDefault(f.Type, fv, reg)
			if err != nil {
				return Value{}, fmt.Errorf("avrow: record default for %q: field %q: %w", t.Name, f.Name, err)
			}
			if err := rec.Insert(f.Name, v); err != nil {
				return Value{}, err
			}
		}
		return NewRecord(rec), nil
	default:
		return Value{}, fmt.Errorf("avrow: cannot parse default against %s", resolved)
	}
}

func parsePrimitiveDefault(t Type, raw any) (Value, error) {
	switch t {
	case Null:
		if raw != nil {
			return Value{}, fmt.Errorf("avrow: default for null must be JSON null")
		}
		return NewNull(), nil
	case Boolean:
		b, ok := raw.(bool)
		if !ok {
			return Value{}, fmt.Errorf("avrow: default for boolean must be a JSON bool")
		}
		return NewBoolean(b), nil
	case Int:
		n, ok := raw.(float64)
		if !ok || n != float64(int32(n)) {
			return Value{}, fmt.Errorf("avrow: default for int must be an exact-fit integer")
		}
		return NewInt(int32(n)), nil
	case Long:
		n, ok := raw.(float64)
		if !ok || n != float64(int64(n)) {
			return Value{}, fmt.Errorf("avrow: default for long must be an exact-fit integer")
		}
		return NewLong(int64(n)), nil
	case Float:
		n, ok := raw.(float64)
		if !ok {
			return Value{}, fmt.Errorf("avrow: default for float must be a JSON number")
		}
		return NewFloat(float32(n)), nil
	case Double:
		n, ok := raw.(float64)
		if !ok {
			return Value{}, fmt.Errorf("avrow: default for double must be a JSON number")
		}
		return NewDouble(n), nil
	case Bytes:
		s, ok := raw.(string)
		if !ok {
			return Value{}, fmt.Errorf("avrow: default for bytes must be a JSON string")
		}
		return NewBytes([]byte(s)), nil
	case String:
		s, ok := raw.(string)
		if !ok {
			return Value{}, fmt.Errorf("avrow: default for string must be a JSON string")
		}
		return NewString(s), nil
	default:
		return Value{}, fmt.Errorf("avrow: unexpected primitive type %s for default", t)
	}
}

// valueToJSON renders a Value back to the JSON shape a default would have
// been written in, used when re-marshaling a parsed Schema back to text.
func valueToJSON(v Value) ([]byte, error) {
	switch v.Tag() {
	case Null:
		return []byte("null"), nil
	case Boolean:
		b, _ := v.AsBool()
		if b {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case Int:
		i, _ := v.AsInt()
		return []byte(fmt.Sprintf("%d", i)), nil
	case Long:
		i, _ := v.AsLong()
		return []byte(fmt.Sprintf("%d", i)), nil
	case Float:
		f, _ := v.AsFloat()
		return []byte(fmt.Sprintf("%v", f)), nil
	case Double:
		f, _ := v.AsDouble()
		return []byte(fmt.Sprintf("%v", f)), nil
	case Bytes:
		b, _ := v.AsBytes()
		return []byte(fmt.Sprintf("%q", string(b))), nil
	case String:
		s, _ := v.AsString()
		return []byte(fmt.Sprintf("%q", s)), nil
	case Fixed:
		_, b, _ := v.AsFixed()
		return []byte(fmt.Sprintf("%q", string(b))), nil
	case Enum:
		_, sym, _ := v.AsEnum()
		return []byte(fmt.Sprintf("%q", sym)), nil
	case Array:
		items, _ := v.AsArray()
		out := []byte{'['}
		for i, it := range items {
			if i > 0 {
				out = append(out, ',')
			}
			b, err := valueToJSON(it)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		return append(out, ']'), nil
	case Map:
		m, _ := v.AsMap()
		out := []byte{'{'}
		first := true
		for k, val := range m {
			if !first {
				out = append(out, ',')
			}
			first = false
			out = append(out, []byte(fmt.Sprintf("%q:", k))...)
			b, err := valueToJSON(val)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		return append(out, '}'), nil
	case Record:
		rec, _ := v.AsRecord()
		out := []byte{'{'}
		for i, name := range rec.Fields() {
			if i > 0 {
				out = append(out, ',')
			}
			fv, _ := rec.Get(name)
			out = append(out, []byte(fmt.Sprintf("%q:", name))...)
			b, err := valueToJSON(fv)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		return append(out, '}'), nil
	case Union:
		_, inner, _ := v.AsUnion()
		return valueToJSON(inner)
	default:
		return nil, fmt.Errorf("avrow: cannot render %s value as JSON default", v.Tag())
	}
}

// b64 renders raw bytes as standard base64 text; it is not part of the
// Avro wire or JSON grammar.
func b64(b []byte) string { return base64.StdEncoding.EncodeToString(b) }
