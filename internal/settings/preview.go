package settings

import "strings"

// BuildFlagsPreview renders the JVM command-line flags implied by the options:
// the heap flag, then each raw flag, then each property, all space-terminated.
// The trailing space after the last flag is part of the format.
func BuildFlagsPreview(options JVMOptions) string {
	var b strings.Builder

	if options.HeapGB != nil {
		b.WriteString("-Xmx")
		b.WriteString(NormalizeHeapSize(*options.HeapGB))
		b.WriteString(" ")
	}

	for _, other := range options.Other {
		b.WriteString(other)
		b.WriteString(" ")
	}

	for _, property := range options.Properties {
		b.WriteString("-D")
		b.WriteString(property.Name)
		b.WriteString("=")
		b.WriteString(property.Value)
		b.WriteString(" ")
	}

	return b.String()
}

// ParseProperty splits a "name=value" definition. The value may contain '='.
func ParseProperty(definition string) (Property, bool) {
	name, value, found := strings.Cut(definition, "=")
	if !found || strings.TrimSpace(name) == "" {
		return Property{}, false
	}
	return Property{Name: strings.TrimSpace(name), Value: value}, true
}
