package unit

import (
	"fmt"
	"strings"

	"pkt.systems/unicase/internal/resolve"
)

// Naming, description and argument rendering shared by FunctionCase and
// MethodCase.

// displayName renders the module-qualified name of a callable or
// descriptor. A compatName attribute wins over the runtime identifier, which
// keeps renamed and wrapped functions readable.
func displayName(res resolve.Resolver, target any) string {
	addr, err := res.Address(target)
	name := addr.Name
	if compat, ok := attrString(res, target, attrCompatName); ok {
		name = compat
	}
	if name == "" {
		return fmt.Sprintf("%T", target)
	}
	if err == nil && addr.Module != "" {
		return addr.Module + "." + name
	}
	return name
}

// argsSuffix renders a non-empty argument tuple as "(a, b)".
func argsSuffix(args []any) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%v", a)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// describeTarget derives a short description for a unit: an explicit
// description attribute on the executed callable, else the first trimmed
// line of the naming target's doc attribute, else the unit's string form.
func describeTarget(res resolve.Resolver, executed, named any, str string) (string, bool) {
	if desc, ok := attrString(res, executed, attrDescription); ok {
		return desc, true
	}
	if doc, ok := attrString(res, named, attrDoc); ok {
		if line := firstLine(doc); line != "" {
			return line, true
		}
	}
	return str, true
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func attrString(res resolve.Resolver, obj any, key string) (string, bool) {
	val, ok := res.Attr(obj, key)
	if !ok {
		return "", false
	}
	s, ok := val.(string)
	return s, ok && s != ""
}
