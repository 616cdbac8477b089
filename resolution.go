package avrow

import "fmt"

// DecodeResolved reads one value encoded under writer from r, producing a
// Value shaped by reader. Unlike Decode (the no-resolution path), this
// fully consumes bytes written for writer fields the reader schema has
// dropped -- discarding them using the writer's own shape rather than
// leaving them unconsumed on the wire, which would desynchronize every
// field that follows.
func DecodeResolved(r *Reader, writer, reader Variant, wreg, rreg *Registry) (Value, error) {
	w, err := Resolve(writer, wreg)
	if err != nil {
		return Value{}, err
	}
	rd, err := Resolve(reader, rreg)
	if err != nil {
		return Value{}, err
	}

	// A writer union resolves branch-by-branch: read the selected branch's
	// index under the writer, then resolve that single branch against the
	// reader (which need not itself be a union).
	if wu, ok := w.(*UnionVariant); ok {
		idx := r.ReadLong()
		if r.Err != nil {
			return Value{}, r.Err
		}
		if idx < 0 || int(idx) >= len(wu.Branches) {
			return Value{}, decodeErrorf("union branch index %d out of range", idx)
		}
		return DecodeResolved(r, wu.Branches[idx], reader, wreg, rreg)
	}

	// A non-union writer resolved against a reader union: find the first
	// reader branch compatible with the writer's shape.
	if ru, ok := rd.(*UnionVariant); ok {
		for i, branch := range ru.Branches {
			if resolvable(w, branch, wreg, rreg) {
				inner, err := DecodeResolved(r, writer, branch, wreg, rreg)
				if err != nil {
					return Value{}, err
				}
				return NewUnion(i, inner), nil
			}
		}
		return Value{}, resolutionErrorf(w, rd, "no reader union branch is compatible")
	}

	switch wt := w.(type) {
	case primitive:
		rp, ok := rd.(primitive)
		if !ok || !promotedTo(wt.typ, rp.typ) {
			return Value{}, resolutionErrorf(w, rd, "incompatible primitive types")
		}
		v, err := decodePrimitive(r, wt.typ)
		if err != nil || rp.typ == wt.typ {
			return v, err
		}
		switch rp.typ {
		case Long:
			return NewLong(promoteToLong(v)), nil
		case Float:
			return NewFloat(promoteToFloat(v)), nil
		case Double:
			return NewDouble(promoteToDouble(v)), nil
		case Bytes:
			return NewBytes(promoteToBytes(v)), nil
		}
		return NewString(promoteToString(v)), nil

	case *FixedVariant:
		rf, ok := rd.(*FixedVariant)
		if !ok || rf.Size != wt.Size || rf.Name.FullName() != wt.Name.FullName() {
			return Value{}, resolutionErrorf(wt, rd, "fixed name/size mismatch")
		}
		data := r.ReadRaw(wt.Size)
		if r.Err != nil {
			return Value{}, r.Err
		}
		return NewFixed(rf.Name.FullName(), data), nil

	case *EnumVariant:
		re, ok := rd.(*EnumVariant)
		if !ok {
			return Value{}, resolutionErrorf(wt, rd, "reader schema is not an enum")
		}
		idx := r.ReadInt()
		if r.Err != nil {
			return Value{}, r.Err
		}
		if int(idx) < 0 || int(idx) >= len(wt.Symbols) {
			return Value{}, decodeErrorf("enum %q: index %d out of range", wt.Name, idx)
		}
		symbol := wt.Symbols[idx]
		if _, ok := re.IndexOf(symbol); !ok {
			return Value{}, resolutionErrorf(wt, re, "writer symbol %q is not declared by reader enum", symbol)
		}
		return NewEnum(re.Name.FullName(), symbol), nil

	case *ArrayVariant:
		ra, ok := rd.(*ArrayVariant)
		if !ok {
			return Value{}, resolutionErrorf(wt, rd, "reader schema is not an array")
		}
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
				r.ReadLong()
				if r.Err != nil {
					return Value{}, r.Err
				}
				count = -count
			}
			for i := int64(0); i < count; i++ {
				item, err := DecodeResolved(r, wt.Items, ra.Items, wreg, rreg)
				if err != nil {
					return Value{}, fmt.Errorf("array item: %w", err)
				}
				items = append(items, item)
			}
		}
		return NewArray(items), nil

	case *MapVariant:
		rm, ok := rd.(*MapVariant)
		if !ok {
			return Value{}, resolutionErrorf(wt, rd, "reader schema is not a map")
		}
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
				val, err := DecodeResolved(r, wt.Values, rm.Values, wreg, rreg)
				if err != nil {
					return Value{}, fmt.Errorf("map[%q]: %w", key, err)
				}
				m[key] = val
			}
		}
		return NewMap(m), nil

	case *RecordVariant:
		rr, ok := rd.(*RecordVariant)
		if !ok {
			return Value{}, resolutionErrorf(wt, rd, "reader schema is not a record")
		}
		rec := NewRecordValue(rr.Name.FullName())
		for _, wf := range wt.Fields {
			rf, inReader := rr.FieldByName(wf.Name)
			if !inReader {
				// Writer-only field: decode and discard using the writer's
				// shape so the remaining fields stay aligned on the wire.
				if _, err := Decode(r, wf.Type, wreg); err != nil {
					return Value{}, fmt.Errorf("discarding writer field %q: %w", wf.Name, err)
				}
				continue
			}
			v, err := DecodeResolved(r, wf.Type, rf.Type, wreg, rreg)
			if err != nil {
				return Value{}, fmt.Errorf("field %q: %w", wf.Name, err)
			}
			if err := rec.Insert(rf.Name, v); err != nil {
				return Value{}, err
			}
		}
		for _, rf := range rr.Fields {
			if _, ok := rec.Get(rf.Name); ok {
				continue
			}
			if !rf.HasDefault {
				return Value{}, resolutionErrorf(wt, rr, "reader field %q has no writer counterpart and no default", rf.Name)
			}
			if err := rec.Insert(rf.Name, rf.Default); err != nil {
				return Value{}, err
			}
		}
		return NewRecord(rec), nil

	default:
		return Value{}, fmt.Errorf("avrow: unknown variant kind %T", w)
	}
}

// resolvable reports whether a value written under writer could possibly
// resolve against reader, without consuming any bytes. Used to pick the
// first compatible branch when a non-union writer meets a reader union.
func resolvable(writer, reader Variant, wreg, rreg *Registry) bool {
	w, err := Resolve(writer, wreg)
	if err != nil {
		return false
	}
	rd, err := Resolve(reader, rreg)
	if err != nil {
		return false
	}
	switch wt := w.(type) {
	case primitive:
		rp, ok := rd.(primitive)
		return ok && promotedTo(wt.typ, rp.typ)
	case *FixedVariant:
		rf, ok := rd.(*FixedVariant)
		return ok && rf.Size == wt.Size && rf.Name.FullName() == wt.Name.FullName()
	case *EnumVariant:
		_, ok := rd.(*EnumVariant)
		return ok
	case *ArrayVariant:
		_, ok := rd.(*ArrayVariant)
		return ok
	case *MapVariant:
		_, ok := rd.(*MapVariant)
		return ok
	case *RecordVariant:
		rr, ok := rd.(*RecordVariant)
		return ok && rr.Name.FullName() == wt.Name.FullName()
	default:
		return false
	}
}
