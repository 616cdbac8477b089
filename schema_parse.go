package avrow

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// Parse parses schema JSON text into a Schema with a fresh Registry.
func Parse(schemaJSON string) (*Schema, error) {
	return ParseWithRegistry(schemaJSON, NewRegistry())
}

// MustParse is like Parse but panics on error; handy in tests and for
// package-level schema constants, mirroring hamba/avro's MustParse
// convention.
func MustParse(schemaJSON string) *Schema {
	s, err := Parse(schemaJSON)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseWithRegistry parses schema JSON text, populating reg with any named
// types the schema declares. Passing a Registry that already contains
// named types lets later schemas reference earlier ones.
//
// Unmarshaling uses github.com/json-iterator/go rather than encoding/json,
// grounded on hamba/avro's schema_parse.go (ParseWithCache's
// jsoniter.Unmarshal(schema, &json) call, _examples/other_examples/
// e6509976_hamba-avro__schema_parse.go.go) -- it is a drop-in for the
// decode-to-`any` shape this parser needs, decoding JSON numbers as
// float64 exactly like encoding/json's default Unmarshal.
func ParseWithRegistry(schemaJSON string, reg *Registry) (*Schema, error) {
	var doc any
	if err := jsoniter.Unmarshal([]byte(schemaJSON), &doc); err != nil {
		return nil, schemaErrorf("", "invalid schema JSON: %w", err)
	}
	root, err := parseNode("", doc, reg)
	if err != nil {
		return nil, err
	}
	return &Schema{original: []byte(schemaJSON), root: root, registry: reg}, nil
}

func parseNode(namespace string, doc any, reg *Registry) (Variant, error) {
	switch d := doc.(type) {
	case string:
		return parseStringSchema(namespace, d, reg)
	case []any:
		return parseUnion(namespace, d, reg)
	case map[string]any:
		return parseObject(namespace, d, reg)
	default:
		return nil, schemaErrorf("", "unexpected schema JSON shape %T", doc)
	}
}

func parseStringSchema(namespace, s string, reg *Registry) (Variant, error) {
	if t, ok := isPrimitiveName(s); ok {
		return primitiveVariant(t), nil
	}
	fullname := qualify(s, namespace)
	if _, ok := reg.Lookup(fullname); !ok {
		return nil, schemaErrorf("", "named reference %q is undefined", fullname)
	}
	return &NamedVariant{Fullname: fullname}, nil
}

func parseUnion(namespace string, elems []any, reg *Registry) (Variant, error) {
	branches := make([]Variant, 0, len(elems))
	seen := make(map[any]bool, len(elems))
	for i, el := range elems {
		b, err := parseNode(namespace, el, reg)
		if err != nil {
			return nil, schemaErrorf(fmt.Sprintf("union branch %d", i), "%w", err)
		}
		if b.Type() == Union {
			return nil, schemaErrorf("", "union branch %d is itself a union; immediate nested unions are not allowed", i)
		}
		key := BranchKey(b)
		if seen[key] {
			return nil, schemaErrorf("", "union has duplicate branch %v", key)
		}
		seen[key] = true
		branches = append(branches, b)
	}
	return &UnionVariant{Branches: branches}, nil
}

func parseObject(namespace string, obj map[string]any, reg *Registry) (Variant, error) {
	typeField, ok := obj["type"]
	if !ok {
		return nil, schemaErrorf("", "object schema is missing required \"type\" field")
	}

	if arr, ok := typeField.([]any); ok {
		return parseUnion(namespace, arr, reg)
	}

	typeStr, ok := typeField.(string)
	if !ok {
		return nil, schemaErrorf("", "\"type\" must be a string or array, got %T", typeField)
	}

	if prim, ok := isPrimitiveName(typeStr); ok {
		return primitiveVariant(prim), nil
	}

	switch typeStr {
	case "record":
		return parseRecord(namespace, obj, reg)
	case "enum":
		return parseEnum(namespace, obj, reg)
	case "fixed":
		return parseFixed(namespace, obj, reg)
	case "array":
		items, ok := obj["items"]
		if !ok {
			return nil, schemaErrorf("", "array schema missing \"items\"")
		}
		itemsVariant, err := parseNode(namespace, items, reg)
		if err != nil {
			return nil, schemaErrorf("array", "%w", err)
		}
		return &ArrayVariant{Items: itemsVariant}, nil
	case "map":
		values, ok := obj["values"]
		if !ok {
			return nil, schemaErrorf("", "map schema missing \"values\"")
		}
		valuesVariant, err := parseNode(namespace, values, reg)
		if err != nil {
			return nil, schemaErrorf("map", "%w", err)
		}
		return &MapVariant{Values: valuesVariant}, nil
	default:
		return nil, schemaErrorf("", "unknown schema type %q", typeStr)
	}
}

func parseNameFromObject(obj map[string]any, enclosing string) (Name, error) {
	rawName, ok := obj["name"].(string)
	if !ok {
		return Name{}, schemaErrorf("", "named schema missing required \"name\" string field")
	}
	ns := ""
	if v, ok := obj["namespace"]; ok {
		ns, ok = v.(string)
		if !ok {
			return Name{}, schemaErrorf("", "\"namespace\" must be a string")
		}
	}
	return NewName(rawName, ns, enclosing)
}

func stringSlice(obj map[string]any, key string) ([]string, error) {
	v, ok := obj[key]
	if !ok {
		return nil, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, schemaErrorf("", "%q must be an array of strings", key)
	}
	out := make([]string, len(arr))
	for i, el := range arr {
		s, ok := el.(string)
		if !ok {
			return nil, schemaErrorf("", "%q[%d] must be a string", key, i)
		}
		out[i] = s
	}
	return out, nil
}

func parseRecord(namespace string, obj map[string]any, reg *Registry) (Variant, error) {
	name, err := parseNameFromObject(obj, namespace)
	if err != nil {
		return nil, err
	}
	fullname := name.FullName()
	if err := reg.placeholder(fullname); err != nil {
		return nil, err
	}

	fieldNamespace := namespace
	if name.Namespace != "" {
		fieldNamespace = name.Namespace
	}

	rawFields, ok := obj["fields"].([]any)
	if !ok {
		return nil, schemaErrorf(fmt.Sprintf("record %q", fullname), "\"fields\" must be an array")
	}

	fields := make([]*Field, 0, len(rawFields))
	seen := make(map[string]bool, len(rawFields))
	for i, rf := range rawFields {
		fobj, ok := rf.(map[string]any)
		if !ok {
			return nil, schemaErrorf(fmt.Sprintf("record %q", fullname), "field %d is not an object", i)
		}
		field, err := parseField(fieldNamespace, fobj, reg)
		if err != nil {
			return nil, schemaErrorf(fmt.Sprintf("record %q", fullname), "field %d: %w", i, err)
		}
		if seen[field.Name] {
			return nil, schemaErrorf(fmt.Sprintf("record %q", fullname), "duplicate field name %q", field.Name)
		}
		seen[field.Name] = true
		fields = append(fields, field)
	}

	aliases, err := stringSlice(obj, "aliases")
	if err != nil {
		return nil, err
	}
	doc, _ := obj["doc"].(string)

	rec := newRecordVariant(name, fields, aliases, doc)
	if err := reg.resolveRecord(fullname, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func parseField(namespace string, obj map[string]any, reg *Registry) (*Field, error) {
	name, ok := obj["name"].(string)
	if !ok {
		return nil, schemaErrorf("", "field missing required \"name\" string")
	}
	if !ValidSimpleName(name) {
		return nil, schemaErrorf("", "invalid field name %q", name)
	}
	rawType, ok := obj["type"]
	if !ok {
		return nil, schemaErrorf(fmt.Sprintf("field %q", name), "missing required \"type\"")
	}
	typ, err := parseNode(namespace, rawType, reg)
	if err != nil {
		return nil, schemaErrorf(fmt.Sprintf("field %q", name), "%w", err)
	}

	order := Ascending
	if rawOrder, ok := obj["order"]; ok {
		s, ok := rawOrder.(string)
		if !ok {
			return nil, schemaErrorf(fmt.Sprintf("field %q", name), "\"order\" must be a string")
		}
		switch s {
		case "ascending":
			order = Ascending
		case "descending":
			order = Descending
		case "ignore":
			order = Ignore
		default:
			return nil, schemaErrorf(fmt.Sprintf("field %q", name), "unknown order %q", s)
		}
	}

	aliases, err := stringSlice(obj, "aliases")
	if err != nil {
		return nil, err
	}

	f := &Field{Name: name, Type: typ, Order: order, Aliases: aliases}

	if rawDefault, ok := obj["default"]; ok {
		def, err := parseDefault(typ, rawDefault, reg)
		if err != nil {
			return nil, schemaErrorf(fmt.Sprintf("field %q", name), "invalid default: %w", err)
		}
		f.Default = def
		f.HasDefault = true
	}

	return f, nil
}

func parseEnum(namespace string, obj map[string]any, reg *Registry) (Variant, error) {
	name, err := parseNameFromObject(obj, namespace)
	if err != nil {
		return nil, err
	}
	symbols, err := stringSlice(obj, "symbols")
	if err != nil {
		return nil, err
	}
	if len(symbols) == 0 {
		return nil, schemaErrorf(fmt.Sprintf("enum %q", name.FullName()), "\"symbols\" must be a non-empty array")
	}
	for _, s := range symbols {
		if !ValidSimpleName(s) {
			return nil, schemaErrorf(fmt.Sprintf("enum %q", name.FullName()), "invalid symbol name %q", s)
		}
	}
	aliases, err := stringSlice(obj, "aliases")
	if err != nil {
		return nil, err
	}
	doc, _ := obj["doc"].(string)

	ev := newEnumVariant(name, symbols, aliases, doc)
	if err := reg.register(name.FullName(), ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func parseFixed(namespace string, obj map[string]any, reg *Registry) (Variant, error) {
	name, err := parseNameFromObject(obj, namespace)
	if err != nil {
		return nil, err
	}
	rawSize, ok := obj["size"]
	if !ok {
		return nil, schemaErrorf(fmt.Sprintf("fixed %q", name.FullName()), "missing required \"size\"")
	}
	size, ok := jsonInt(rawSize)
	if !ok || size < 0 {
		return nil, schemaErrorf(fmt.Sprintf("fixed %q", name.FullName()), "\"size\" must be a non-negative integer")
	}
	fv := &FixedVariant{Name: name, Size: size}
	if err := reg.register(name.FullName(), fv); err != nil {
		return nil, err
	}
	return fv, nil
}

// jsonInt extracts an int from a jsoniter-decoded numeric value (always
// float64, matching encoding/json's default Unmarshal representation),
// rejecting a number with a fractional part.
func jsonInt(v any) (int, bool) {
	n, ok := v.(float64)
	if !ok || n != float64(int(n)) {
		return 0, false
	}
	return int(n), true
}
