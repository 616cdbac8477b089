package avrow

import (
	"encoding/json"
	"fmt"
)

// Variant is a parsed Avro schema node. Concrete implementations are the
// eight primitives plus Record, Enum, Fixed, Array, Map, Union, and Named
// (a deferred reference resolved through a Registry), per §3.
type Variant interface {
	Type() Type
	String() string
	json.Marshaler
}

// primitive implements Variant for the eight Avro primitive types.
type primitive struct{ typ Type }

func (p primitive) Type() Type          { return p.typ }
func (p primitive) String() string      { return p.typ.String() }
func (p primitive) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.typ.String())
}

var (
	NullVariant    Variant = primitive{Null}
	BooleanVariant Variant = primitive{Boolean}
	IntVariant     Variant = primitive{Int}
	LongVariant    Variant = primitive{Long}
	FloatVariant   Variant = primitive{Float}
	DoubleVariant  Variant = primitive{Double}
	BytesVariant   Variant = primitive{Bytes}
	StringVariant  Variant = primitive{String}
)

func primitiveVariant(t Type) Variant {
	switch t {
	case Null:
		return NullVariant
	case Boolean:
		return BooleanVariant
	case Int:
		return IntVariant
	case Long:
		return LongVariant
	case Float:
		return FloatVariant
	case Double:
		return DoubleVariant
	case Bytes:
		return BytesVariant
	case String:
		return StringVariant
	default:
		panic(fmt.Sprintf("avrow: %v is not a primitive type", t))
	}
}

// FieldOrder is descriptive sort-order metadata attached to a record field;
// it does not affect encoding (§3).
type FieldOrder int

const (
	Ascending FieldOrder = iota
	Descending
	Ignore
)

func (o FieldOrder) String() string {
	switch o {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	case Ignore:
		return "ignore"
	default:
		return "ascending"
	}
}

// Field is a single record field: name, type, optional default, sort order,
// and optional aliases (§3).
type Field struct {
	Name    string
	Type    Variant
	Default Value
	HasDefault bool
	Order   FieldOrder
	Aliases []string
}

// RecordVariant implements Variant for "record" schemas. Fields preserve
// schema-declared order, which is also encoding order (invariant ii).
type RecordVariant struct {
	Name    Name
	Aliases []string
	Doc     string
	Fields  []*Field

	fieldIndex map[string]int
}

func newRecordVariant(name Name, fields []*Field, aliases []string, doc string) *RecordVariant {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f.Name] = i
	}
	return &RecordVariant{Name: name, Fields: fields, Aliases: aliases, Doc: doc, fieldIndex: idx}
}

func (r *RecordVariant) Type() Type     { return Record }
func (r *RecordVariant) String() string { return r.Name.FullName() }

// FieldByName returns the field with the given name, and whether it exists.
func (r *RecordVariant) FieldByName(name string) (*Field, bool) {
	i, ok := r.fieldIndex[name]
	if !ok {
		return nil, false
	}
	return r.Fields[i], true
}

func (r *RecordVariant) MarshalJSON() ([]byte, error) {
	m := orderedMap{}
	m.set("type", "record")
	m.set("name", r.Name.Name)
	if r.Name.Namespace != "" {
		m.set("namespace", r.Name.Namespace)
	}
	if r.Doc != "" {
		m.set("doc", r.Doc)
	}
	if len(r.Aliases) > 0 {
		m.set("aliases", r.Aliases)
	}
	fields := make([]json.RawMessage, len(r.Fields))
	for i, f := range r.Fields {
		b, err := marshalField(f)
		if err != nil {
			return nil, err
		}
		fields[i] = b
	}
	m.set("fields", fields)
	return m.MarshalJSON()
}

func marshalField(f *Field) ([]byte, error) {
	m := orderedMap{}
	m.set("name", f.Name)
	typeJSON, err := f.Type.MarshalJSON()
	if err != nil {
		return nil, err
	}
	m.set("type", json.RawMessage(typeJSON))
	if f.HasDefault {
		dj, err := valueToJSON(f.Default)
		if err != nil {
			return nil, err
		}
		m.set("default", json.RawMessage(dj))
	}
	if f.Order != Ascending {
		m.set("order", f.Order.String())
	}
	if len(f.Aliases) > 0 {
		m.set("aliases", f.Aliases)
	}
	return m.MarshalJSON()
}

// EnumVariant implements Variant for "enum" schemas.
type EnumVariant struct {
	Name    Name
	Aliases []string
	Doc     string
	Symbols []string

	symbolIndex map[string]int
}

func newEnumVariant(name Name, symbols, aliases []string, doc string) *EnumVariant {
	idx := make(map[string]int, len(symbols))
	for i, s := range symbols {
		idx[s] = i
	}
	return &EnumVariant{Name: name, Symbols: symbols, Aliases: aliases, Doc: doc, symbolIndex: idx}
}

func (e *EnumVariant) Type() Type     { return Enum }
func (e *EnumVariant) String() string { return e.Name.FullName() }

func (e *EnumVariant) IndexOf(symbol string) (int, bool) {
	i, ok := e.symbolIndex[symbol]
	return i, ok
}

func (e *EnumVariant) MarshalJSON() ([]byte, error) {
	m := orderedMap{}
	m.set("type", "enum")
	m.set("name", e.Name.Name)
	if e.Name.Namespace != "" {
		m.set("namespace", e.Name.Namespace)
	}
	if e.Doc != "" {
		m.set("doc", e.Doc)
	}
	if len(e.Aliases) > 0 {
		m.set("aliases", e.Aliases)
	}
	m.set("symbols", e.Symbols)
	return m.MarshalJSON()
}

// FixedVariant implements Variant for "fixed" schemas.
type FixedVariant struct {
	Name Name
	Size int
}

func (f *FixedVariant) Type() Type     { return Fixed }
func (f *FixedVariant) String() string { return f.Name.FullName() }

func (f *FixedVariant) MarshalJSON() ([]byte, error) {
	m := orderedMap{}
	m.set("type", "fixed")
	m.set("name", f.Name.Name)
	if f.Name.Namespace != "" {
		m.set("namespace", f.Name.Namespace)
	}
	m.set("size", f.Size)
	return m.MarshalJSON()
}

// ArrayVariant implements Variant for "array" schemas.
type ArrayVariant struct{ Items Variant }

func (a *ArrayVariant) Type() Type     { return Array }
func (a *ArrayVariant) String() string { return "array<" + a.Items.String() + ">" }
func (a *ArrayVariant) MarshalJSON() ([]byte, error) {
	m := orderedMap{}
	m.set("type", "array")
	items, err := a.Items.MarshalJSON()
	if err != nil {
		return nil, err
	}
	m.set("items", json.RawMessage(items))
	return m.MarshalJSON()
}

// MapVariant implements Variant for "map" schemas.
type MapVariant struct{ Values Variant }

func (mv *MapVariant) Type() Type     { return Map }
func (mv *MapVariant) String() string { return "map<" + mv.Values.String() + ">" }
func (mv *MapVariant) MarshalJSON() ([]byte, error) {
	m := orderedMap{}
	m.set("type", "map")
	values, err := mv.Values.MarshalJSON()
	if err != nil {
		return nil, err
	}
	m.set("values", json.RawMessage(values))
	return m.MarshalJSON()
}

// UnionVariant implements Variant for union schemas (a bare JSON array in
// the schema grammar). Branches are pairwise distinct and never contain an
// immediate nested union (invariant iii).
type UnionVariant struct{ Branches []Variant }

func (u *UnionVariant) Type() Type { return Union }
func (u *UnionVariant) String() string {
	s := "union["
	for i, b := range u.Branches {
		if i > 0 {
			s += ","
		}
		s += b.String()
	}
	return s + "]"
}
func (u *UnionVariant) MarshalJSON() ([]byte, error) {
	parts := make([]json.RawMessage, len(u.Branches))
	for i, b := range u.Branches {
		bj, err := b.MarshalJSON()
		if err != nil {
			return nil, err
		}
		parts[i] = bj
	}
	return json.Marshal(parts)
}

// BranchKey returns the identity a union branch is matched on: a primitive
// Type, or the fullname for Record/Enum/Fixed/Named branches.
func BranchKey(v Variant) any {
	switch t := v.(type) {
	case *RecordVariant:
		return t.Name.FullName()
	case *EnumVariant:
		return t.Name.FullName()
	case *FixedVariant:
		return t.Name.FullName()
	case *NamedVariant:
		return t.Fullname
	default:
		return v.Type()
	}
}

// NamedVariant is a deferred reference to a named type, resolved via a
// Registry at encode/decode time. Keeping it as a string indirection
// (rather than a pointer) keeps the Variant graph acyclic even for
// self-recursive records (§5).
type NamedVariant struct{ Fullname string }

func (n *NamedVariant) Type() Type     { return Named }
func (n *NamedVariant) String() string { return n.Fullname }
func (n *NamedVariant) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Fullname)
}

// Resolve dereferences a Variant through the registry until it reaches a
// non-Named Variant. It fails if the chain is broken (invariant i).
func Resolve(v Variant, reg *Registry) (Variant, error) {
	for {
		nv, ok := v.(*NamedVariant)
		if !ok {
			return v, nil
		}
		resolved, ok := reg.Lookup(nv.Fullname)
		if !ok {
			return nil, fmt.Errorf("avrow: named reference %q does not resolve in the registry", nv.Fullname)
		}
		v = resolved
	}
}

// Schema is a fully parsed top-level Avro schema: the original JSON text,
// the parsed Variant tree, the Registry of named types populated while
// parsing, and a lazily computed canonical form. A Schema is immutable
// once constructed and is safe to share across any number of Readers and
// Writers (§5).
type Schema struct {
	original []byte
	root     Variant
	registry *Registry

	canonicalOnce bool
	canonicalForm []byte
}

// Root returns the schema's parsed Variant tree.
func (s *Schema) Root() Variant { return s.root }

// Registry returns the schema's named-type registry.
func (s *Schema) Registry() *Registry { return s.registry }

// String returns the original JSON text the schema was parsed from.
func (s *Schema) String() string { return string(s.original) }

// Equal reports whether two schemas have the same canonical form (§3:
// "Two schemas are equal iff their canonical forms are equal.").
func (s *Schema) Equal(other *Schema) bool {
	a, erra := s.Canonical()
	b, errb := other.Canonical()
	if erra != nil || errb != nil {
		return false
	}
	return string(a) == string(b)
}

// Canonical returns the schema's canonical-form JSON bytes (§4.4),
// computing and caching it on first use.
func (s *Schema) Canonical() ([]byte, error) {
	if !s.canonicalOnce {
		c, err := CanonicalForm(s.original)
		if err != nil {
			return nil, err
		}
		s.canonicalForm = c
		s.canonicalOnce = true
	}
	return s.canonicalForm, nil
}

// FingerprintAlgorithm selects the digest algorithm for Schema.Fingerprint.
type FingerprintAlgorithm int

const (
	Rabin64 FingerprintAlgorithm = iota
	SHA256
	MD5
)

// Fingerprint returns the hex-encoded fingerprint of the schema's canonical
// form under the given algorithm (§4.4, §6).
func (s *Schema) Fingerprint(algo FingerprintAlgorithm) (string, error) {
	c, err := s.Canonical()
	if err != nil {
		return "", err
	}
	switch algo {
	case Rabin64:
		return fmt.Sprintf("%x", Rabin64Fingerprint(c)), nil
	case SHA256:
		return fmt.Sprintf("%x", SHA256Fingerprint(c)), nil
	case MD5:
		return fmt.Sprintf("%x", MD5Fingerprint(c)), nil
	default:
		return "", fmt.Errorf("avrow: unknown fingerprint algorithm %d", algo)
	}
}

// orderedMap is a tiny helper for marshaling JSON objects with a specific,
// repeatable key order (Go's map marshaling sorts keys alphabetically,
// which would scramble the schema's natural "type, name, ..." shape).
type orderedMap struct {
	keys   []string
	values map[string]any
}

func (m *orderedMap) set(key string, value any) {
	if m.values == nil {
		m.values = map[string]any{}
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *orderedMap) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, k := range m.keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, _ := json.Marshal(k)
		buf = append(buf, kb...)
		buf = append(buf, ':')
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf = append(buf, vb...)
	}
	buf = append(buf, '}')
	return buf, nil
}
