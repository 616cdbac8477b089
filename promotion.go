package avrow

// promotedTo reports whether a value/writer of type from may be read/encoded
// under type to, per Avro's promotion rules (§4.5, §4.6, glossary
// "Promotion"): Int->Long/Float/Double, Long->Float/Double, Float->Double,
// and Bytes<->Str in either direction. Identity is always allowed.
func promotedTo(from, to Type) bool {
	if from == to {
		return true
	}
	switch from {
	case Int:
		return to == Long || to == Float || to == Double
	case Long:
		return to == Float || to == Double
	case Float:
		return to == Double
	case Bytes:
		return to == String
	case String:
		return to == Bytes
	default:
		return false
	}
}
