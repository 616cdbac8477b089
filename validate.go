package avrow

import "fmt"

// Validate checks that v conforms to variant under reg, per §4.9. This is
// the gate the OCF Writer applies before handing a Value to the encoder.
//
// Two deliberate deviations from strict Avro semantics are called out in
// §9 and decided in SPEC_FULL.md's Open Questions section: empty Array/Map
// values fail validation here (even though Avro's wire format permits an
// empty block), and a Record missing a schema-declared field fails
// validation rather than silently encoding nothing for it.
func Validate(v Value, variant Variant, reg *Registry) error {
	resolved, err := Resolve(variant, reg)
	if err != nil {
		return err
	}

	switch t := resolved.(type) {
	case primitive:
		if !promotedTo(v.Tag(), t.typ) {
			return &ValidationError{Variant: resolved, Reason: fmt.Sprintf("value tag %s is not compatible with %s", v.Tag(), t.typ)}
		}
		return nil

	case *FixedVariant:
		var data []byte
		switch v.Tag() {
		case Fixed:
			_, data, _ = v.AsFixed()
		case Bytes:
			data, _ = v.AsBytes()
		default:
			return &ValidationError{Variant: resolved, Reason: fmt.Sprintf("value tag %s cannot be written as fixed", v.Tag())}
		}
		if len(data) != t.Size {
			return &ValidationError{Variant: resolved, Reason: fmt.Sprintf("fixed length mismatch: got %d bytes, want %d", len(data), t.Size)}
		}
		return nil

	case *EnumVariant:
		_, symbol, err := v.AsEnum()
		if err != nil {
			return &ValidationError{Variant: resolved, Reason: err.Error()}
		}
		if _, ok := t.IndexOf(symbol); !ok {
			return &ValidationError{Variant: resolved, Reason: fmt.Sprintf("symbol %q is not declared by enum %q", symbol, t.Name)}
		}
		return nil

	case *ArrayVariant:
		items, err := v.AsArray()
		if err != nil {
			return &ValidationError{Variant: resolved, Reason: err.Error()}
		}
		if len(items) == 0 {
			return &ValidationError{Variant: resolved, Reason: "empty arrays do not validate"}
		}
		for i, item := range items {
			if err := Validate(item, t.Items, reg); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		return nil

	case *MapVariant:
		m, err := v.AsMap()
		if err != nil {
			return &ValidationError{Variant: resolved, Reason: err.Error()}
		}
		if len(m) == 0 {
			return &ValidationError{Variant: resolved, Reason: "empty maps do not validate"}
		}
		for k, val := range m {
			if err := Validate(val, t.Values, reg); err != nil {
				return fmt.Errorf("map[%q]: %w", k, err)
			}
		}
		return nil

	case *RecordVariant:
		rec, err := v.AsRecord()
		if err != nil {
			return &ValidationError{Variant: resolved, Reason: err.Error()}
		}
		declared := make(map[string]bool, len(t.Fields))
		for _, f := range t.Fields {
			declared[f.Name] = true
			fv, ok := rec.Get(f.Name)
			if !ok {
				return &ValidationError{Variant: resolved, Reason: fmt.Sprintf("record is missing declared field %q", f.Name)}
			}
			if err := Validate(fv, f.Type, reg); err != nil {
				return fmt.Errorf("field %q: %w", f.Name, err)
			}
		}
		for _, name := range rec.Fields() {
			if !declared[name] {
				return &ValidationError{Variant: resolved, Reason: fmt.Sprintf("record has undeclared field %q", name)}
			}
		}
		return nil

	case *UnionVariant:
		for _, branch := range t.Branches {
			if branch.Type() == Union {
				return &ValidationError{Variant: resolved, Reason: "immediate nested union values are not allowed"}
			}
		}
		if v.Tag() == Union {
			index, inner, err := v.AsUnion()
			if err != nil {
				return &ValidationError{Variant: resolved, Reason: err.Error()}
			}
			if index < 0 || index >= len(t.Branches) {
				return &ValidationError{Variant: resolved, Reason: fmt.Sprintf("union branch index %d out of range", index)}
			}
			if err := Validate(inner, t.Branches[index], reg); err != nil {
				return fmt.Errorf("union branch %d: %w", index, err)
			}
			return nil
		}
		for _, branch := range t.Branches {
			if Validate(v, branch, reg) == nil {
				return nil
			}
		}
		return &ValidationError{Variant: resolved, Reason: fmt.Sprintf("no union branch accepts value tagged %s", v.Tag())}

	default:
		return fmt.Errorf("avrow: unknown variant kind %T", resolved)
	}
}
