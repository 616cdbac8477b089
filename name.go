package avrow

import (
	"fmt"
	"regexp"
	"strings"
)

var simpleNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Name is a simple-name/namespace pair identifying a Record, Enum, or Fixed
// schema. Fullname is "<namespace>.<name>", or just "<name>" when there is
// no namespace.
type Name struct {
	Name      string
	Namespace string
}

// NewName builds a Name, splitting a dotted name into simple-name/namespace
// per §3: if name contains a dot, the portion before the last dot becomes
// the namespace and any separately supplied namespace is ignored.
func NewName(name, namespace, enclosing string) (Name, error) {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		namespace = name[:idx]
		name = name[idx+1:]
	} else if namespace == "" {
		namespace = enclosing
	}

	if !simpleNameRe.MatchString(name) {
		return Name{}, fmt.Errorf("avrow: invalid name %q: must match %s", name, simpleNameRe.String())
	}
	if namespace != "" {
		for _, part := range strings.Split(namespace, ".") {
			if !simpleNameRe.MatchString(part) {
				return Name{}, fmt.Errorf("avrow: invalid namespace %q: component %q is not a simple name", namespace, part)
			}
		}
	}
	return Name{Name: name, Namespace: namespace}, nil
}

// FullName returns "<namespace>.<name>", or "<name>" if Namespace is empty.
func (n Name) FullName() string {
	if n.Namespace == "" {
		return n.Name
	}
	return n.Namespace + "." + n.Name
}

func (n Name) String() string { return n.FullName() }

// ValidSimpleName reports whether s is a legal Avro simple name, used to
// validate field names, enum symbols, and the like.
func ValidSimpleName(s string) bool {
	return simpleNameRe.MatchString(s)
}

// qualify resolves an unqualified reference name against an enclosing
// namespace, per the named-reference rule in §4.3.
func qualify(ref, enclosing string) string {
	if strings.Contains(ref, ".") || enclosing == "" {
		return ref
	}
	return enclosing + "." + ref
}
