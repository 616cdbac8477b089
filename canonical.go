package avrow

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// canonicalFieldOrder is the key-set and ordering kept by the canonical
// form, grounded on goavro's fieldOrder/byAvroFieldOrder, extended here to
// recurse uniformly into union branches, array items, and map values when
// promoting names to fullnames.
var canonicalFieldOrder = map[string]int{
	"name":    1,
	"type":    2,
	"fields":  3,
	"symbols": 4,
	"items":   5,
	"values":  6,
	"size":    7,
}

// CanonicalForm normalizes schema JSON text into Avro's Parsing Canonical
// Form (§4.4): primitives reduced to bare strings, namespaces merged into
// fullnames, doc/aliases stripped, keys restricted and ordered, and
// serialized with no insignificant whitespace.
func CanonicalForm(schemaJSON []byte) ([]byte, error) {
	var doc any
	if err := json.Unmarshal(schemaJSON, &doc); err != nil {
		return nil, fmt.Errorf("avrow: invalid schema JSON: %w", err)
	}
	pcf, err := canonicalize(canonicalCtx{inType: true}, doc)
	if err != nil {
		return nil, err
	}
	return []byte(pcf), nil
}

type canonicalCtx struct {
	namespace string
	inFields  bool
	inType    bool
}

func canonicalize(ctx canonicalCtx, node any) (string, error) {
	switch v := node.(type) {
	case map[string]any:
		return canonicalizeObject(ctx, v)
	case []any:
		return canonicalizeArray(ctx, v)
	case string:
		return canonicalizeString(ctx, v), nil
	case float64:
		return canonicalizeNumber(v), nil
	case json.Number:
		return v.String(), nil
	default:
		return "", fmt.Errorf("avrow: cannot canonicalize schema node of type %T", node)
	}
}

func canonicalizeNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// startsWithUpper reports whether s follows Avro's convention for named-type
// references (PascalCase), as opposed to a "type" discriminator or a
// primitive type name, both of which are always lowercase.
func startsWithUpper(s string) bool {
	return s != "" && strings.ToUpper(s[:1]) == s[:1]
}

func canonicalizeString(ctx canonicalCtx, s string) string {
	if ctx.inType && ctx.namespace != "" && startsWithUpper(s) && !strings.Contains(s, ".") {
		s = ctx.namespace + "." + s
	}
	b, _ := json.Marshal(s)
	return string(b)
}

func canonicalizeArray(ctx canonicalCtx, arr []any) (string, error) {
	parts := make([]string, len(arr))
	for i, el := range arr {
		// ctx.inType already reflects the array's own position (e.g. a
		// "type"/"items" array is a union of types; a "fields"/"symbols"
		// array is not).
		p, err := canonicalize(ctx, el)
		if err != nil {
			return "", err
		}
		parts[i] = p
	}
	return "[" + strings.Join(parts, ",") + "]", nil
}

func canonicalizeObject(ctx canonicalCtx, obj map[string]any) (string, error) {
	// Reduce {"type": "<primitive>"} to the bare string.
	if len(obj) == 1 {
		if t, ok := obj["type"].(string); ok {
			if _, isPrimitive := isPrimitiveName(t); isPrimitive {
				return `"` + t + `"`, nil
			}
		}
	}

	if ns, ok := obj["namespace"].(string); ok {
		ctx.namespace = ns
	}

	typeStr, _ := obj["type"].(string)
	isNamedType := typeStr == "record" || typeStr == "enum" || typeStr == "fixed"

	// A dotted "name" carries its own namespace and takes priority over an
	// explicit "namespace" key, per NewName's rule (§3) -- so nested named
	// types still inherit the right namespace even when the enclosing type
	// was named "a.b.C" rather than declaring "namespace":"a.b" separately.
	if isNamedType {
		if n, ok := obj["name"].(string); ok {
			if idx := strings.LastIndex(n, "."); idx >= 0 {
				ctx.namespace = n[:idx]
			}
		}
	}

	type pair struct {
		key  string
		json string
	}
	var pairs []pair

	for k, v := range obj {
		if _, keep := canonicalFieldOrder[k]; !keep {
			continue
		}
		// "name" only gets fullname-qualified for named types themselves;
		// a field's own "name" (inside "fields") is not a type name.
		if k == "name" && ctx.inType && !isNamedType {
			continue
		}

		value := v
		if k == "name" && ctx.namespace != "" && !ctx.inFields {
			if s, ok := v.(string); ok && !strings.Contains(s, ".") {
				value = ctx.namespace + "." + s
			}
		}
		if k == "size" {
			if s, ok := v.(string); ok {
				n, err := strconv.ParseUint(s, 10, 64)
				if err != nil {
					return "", fmt.Errorf("avrow: fixed size %q is not a number", s)
				}
				value = float64(n)
			}
		}

		keyJSON, _ := json.Marshal(k)

		childCtx := ctx
		childCtx.inFields = k == "fields"
		childCtx.inType = k == "type" || k == "items" || k == "values"

		valJSON, err := canonicalize(childCtx, value)
		if err != nil {
			return "", err
		}
		pairs = append(pairs, pair{key: k, json: string(keyJSON) + ":" + valJSON})
	}

	sort.Slice(pairs, func(i, j int) bool {
		return canonicalFieldOrder[pairs[i].key] < canonicalFieldOrder[pairs[j].key]
	})

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.json
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}
