package avrow

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// RecordFromJSON populates a Record by walking record's schema-declared
// fields against a decoded JSON object. For each field: if obj supplies a
// matching key, the value is parsed against the field's Variant; for a
// union-typed field every branch is tried in order and the first one that
// parses wins (unlike a schema default, which narrows to the union's
// first branch only); otherwise the field's declared default is used;
// otherwise RecordFromJSON fails with a field-missing error.
func RecordFromJSON(obj map[string]any, record *RecordVariant, reg *Registry) (*Record, error) {
	rec := NewRecordValue(record.Name.FullName())
	for _, f := range record.Fields {
		raw, present := obj[f.Name]
		if !present {
			if !f.HasDefault {
				return nil, fmt.Errorf("avrow: record %q: field %q is missing and has no default", record.Name, f.Name)
			}
			if err := rec.Insert(f.Name, f.Default); err != nil {
				return nil, err
			}
			continue
		}

		v, err := jsonValueForField(f.Type, raw, reg)
		if err != nil {
			return nil, fmt.Errorf("avrow: record %q: field %q: %w", record.Name, f.Name, err)
		}
		if err := rec.Insert(f.Name, v); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// RecordFromJSONText is a convenience wrapper that decodes data as a JSON
// object before calling RecordFromJSON.
func RecordFromJSONText(data []byte, record *RecordVariant, reg *Registry) (*Record, error) {
	var obj map[string]any
	if err := jsoniter.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("avrow: invalid JSON object: %w", err)
	}
	return RecordFromJSON(obj, record, reg)
}

// jsonValueForField parses raw against variant. Union fields try every
// branch in declaration order and keep the first one that parses,
// deliberately more permissive than parseDefault's union-first-branch-only
// rule (§4.2: "for union fields the first branch matching the JSON parse
// wins").
func jsonValueForField(variant Variant, raw any, reg *Registry) (Value, error) {
	resolved, err := Resolve(variant, reg)
	if err != nil {
		return Value{}, err
	}
	u, isUnion := resolved.(*UnionVariant)
	if !isUnion {
		return parseDefault(variant, raw, reg)
	}
	for i, branch := range u.Branches {
		v, err := parseDefault(branch, raw, reg)
		if err == nil {
			return NewUnion(i, v), nil
		}
	}
	return Value{}, fmt.Errorf("avrow: no union branch matches the supplied JSON value")
}
