package values

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// NoChanges is returned by SummarizeChanges when the documents are equal.
const NoChanges = "No changes made"

// SummarizeChanges compares two documents and returns one line per
// leaf-level difference, depth-first in the new document's key order:
//
//	resources.requests.cpu: 100m -> 250m
//
// Keys present only in the old document are not reported; the summary
// answers "what did the recommendations change", and recommendations can
// only add or overwrite.
func SummarizeChanges(oldDoc, newDoc *yaml.Node) string {
	var changes []string
	compareMappings(oldDoc, newDoc, "", &changes)
	if len(changes) == 0 {
		return NoChanges
	}
	return strings.Join(changes, "\n")
}

func compareMappings(oldMap, newMap *yaml.Node, prefix string, changes *[]string) {
	if newMap == nil || newMap.Kind != yaml.MappingNode {
		return
	}

	for i := 0; i+1 < len(newMap.Content); i += 2 {
		key := newMap.Content[i].Value
		newVal := newMap.Content[i+1]

		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		oldVal := Lookup(oldMap, key)

		if newVal.Kind == yaml.MappingNode && oldVal != nil && oldVal.Kind == yaml.MappingNode {
			compareMappings(oldVal, newVal, path, changes)
			continue
		}

		if !nodesEqual(oldVal, newVal) {
			*changes = append(*changes, fmt.Sprintf("%s: %s -> %s", path, renderValue(oldVal), renderValue(newVal)))
		}
	}
}

// nodesEqual compares two node trees by value. Mapping comparison is
// order-insensitive; only the key sets and their values matter.
func nodesEqual(a, b *yaml.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case yaml.ScalarNode:
		return a.Tag == b.Tag && a.Value == b.Value
	case yaml.SequenceNode:
		if len(a.Content) != len(b.Content) {
			return false
		}
		for i := range a.Content {
			if !nodesEqual(a.Content[i], b.Content[i]) {
				return false
			}
		}
		return true
	case yaml.MappingNode:
		if len(a.Content) != len(b.Content) {
			return false
		}
		for i := 0; i+1 < len(a.Content); i += 2 {
			other := Lookup(b, a.Content[i].Value)
			if other == nil || !nodesEqual(a.Content[i+1], other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// renderValue formats a node for a change line. Absent and null values both
// render as "null"; composite values render in single-line flow style.
func renderValue(n *yaml.Node) string {
	if n == nil || n.Tag == "!!null" {
		return "null"
	}

	if n.Kind == yaml.ScalarNode {
		return n.Value
	}

	flow := DeepCopy(n)
	setFlowStyle(flow)
	out, err := yaml.Marshal(flow)
	if err != nil {
		return fmt.Sprintf("<unprintable: %v>", err)
	}
	return strings.TrimSpace(string(out))
}

func setFlowStyle(n *yaml.Node) {
	n.Style = yaml.FlowStyle
	for _, child := range n.Content {
		setFlowStyle(child)
	}
}
