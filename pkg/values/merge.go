package values

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// SetNestedValue sets a value in a document using dot notation, mutating the
// document in place. Intermediate mappings are created as needed. An
// intermediate key holding a non-mapping value is overwritten with a fresh
// mapping rather than rejected; the AI owns the shape of its own paths.
func SetNestedValue(doc *yaml.Node, path string, value *yaml.Node) error {
	if doc == nil || doc.Kind != yaml.MappingNode {
		return ErrNotMapping
	}

	segments := strings.Split(path, ".")
	for _, seg := range segments {
		if seg == "" {
			return fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}

	current := doc
	for _, seg := range segments[:len(segments)-1] {
		next := Lookup(current, seg)
		if next == nil || next.Kind != yaml.MappingNode {
			next = emptyMapping()
			setKey(current, seg, next)
		}
		current = next
	}

	setKey(current, segments[len(segments)-1], value)
	return nil
}
