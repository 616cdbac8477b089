package avrow

// Type identifies the discriminant of a schema Variant or a Value. The
// ordering follows go-avro/avro's schema.go, kept for familiarity to
// anyone who has read that package.
type Type int

const (
	Record Type = iota
	Enum
	Array
	Map
	Union
	Fixed
	String
	Bytes
	Int
	Long
	Float
	Double
	Boolean
	Null

	// Named is the deferred-reference discriminant: a schema node that
	// must be looked up in the Registry before it denotes anything.
	Named
)

func (t Type) String() string {
	switch t {
	case Record:
		return "record"
	case Enum:
		return "enum"
	case Array:
		return "array"
	case Map:
		return "map"
	case Union:
		return "union"
	case Fixed:
		return "fixed"
	case String:
		return "string"
	case Bytes:
		return "bytes"
	case Int:
		return "int"
	case Long:
		return "long"
	case Float:
		return "float"
	case Double:
		return "double"
	case Boolean:
		return "boolean"
	case Null:
		return "null"
	case Named:
		return "<named-reference>"
	default:
		return "<unknown>"
	}
}

// primitiveTypes maps the eight Avro primitive type names to their Type tag.
var primitiveTypes = map[string]Type{
	"null":    Null,
	"boolean": Boolean,
	"int":     Int,
	"long":    Long,
	"float":   Float,
	"double":  Double,
	"bytes":   Bytes,
	"string":  String,
}

func isPrimitiveName(s string) (Type, bool) {
	t, ok := primitiveTypes[s]
	return t, ok
}
