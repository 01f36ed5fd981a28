// Package values models Helm values documents as yaml.v3 node trees.
//
// Mapping nodes keep their key insertion order, which the differ and the
// serializer both depend on: changes are reported in document order and the
// generated document round-trips without re-sorting keys.
package values

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for simple error checking with errors.Is.
var (
	// ErrInvalidPath indicates a dotted path with an empty segment.
	ErrInvalidPath = errors.New("invalid path")
	// ErrNotMapping indicates a document whose top level is not a mapping.
	ErrNotMapping = errors.New("document is not a mapping")
)

// Parse decodes YAML text into a mapping document node. The top-level value
// must be a mapping; scalars, sequences, and empty documents are rejected.
func Parse(text string) (*yaml.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	doc := unwrapDocument(&root)
	if doc == nil || doc.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}
	return doc, nil
}

// Marshal serializes a document node back to YAML text, preserving the
// mapping key order (the equivalent of sort_keys=false).
func Marshal(doc *yaml.Node) (string, error) {
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		_ = enc.Close()
		return "", fmt.Errorf("failed to serialize document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize document: %w", err)
	}
	return sb.String(), nil
}

// unwrapDocument strips the document wrapper node yaml.v3 produces when
// decoding into a bare yaml.Node.
func unwrapDocument(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) != 1 {
			return nil
		}
		return n.Content[0]
	}
	if n.Kind == 0 {
		return nil
	}
	return n
}

// DeepCopy returns a structural clone of a node tree. The copy shares
// nothing with the original, so mutating it leaves the source intact.
func DeepCopy(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}

	clone := &yaml.Node{
		Kind:        n.Kind,
		Style:       n.Style,
		Tag:         n.Tag,
		Value:       n.Value,
		Anchor:      n.Anchor,
		HeadComment: n.HeadComment,
		LineComment: n.LineComment,
		FootComment: n.FootComment,
	}
	if len(n.Content) > 0 {
		clone.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			clone.Content[i] = DeepCopy(child)
		}
	}
	return clone
}

// ClearStyle recursively resets node styles to plain. Values decoded from a
// JSON payload carry quoted/flow styles that would otherwise leak into the
// generated YAML; the encoder re-quotes ambiguous scalars on its own.
func ClearStyle(n *yaml.Node) {
	if n == nil {
		return
	}
	n.Style = 0
	for _, child := range n.Content {
		ClearStyle(child)
	}
}

// Lookup returns the value node for a key in a mapping node, or nil when
// the key is absent or the node is not a mapping.
func Lookup(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// setKey sets or replaces a key's value in a mapping node, appending new
// keys at the end to preserve insertion order.
func setKey(mapping *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			mapping.Content[i+1] = value
			return
		}
	}
	mapping.Content = append(mapping.Content, keyNode(key), value)
}

// keyNode builds a scalar node for a mapping key.
func keyNode(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}

// emptyMapping builds an empty mapping node.
func emptyMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

// scalar builds a scalar node from a Go value. Only the scalar types an AI
// payload can carry are supported: string, bool, integers, and floats.
func scalar(v any) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.ScalarNode}
	switch val := v.(type) {
	case string:
		n.Tag = "!!str"
		n.Value = val
	case bool:
		n.Tag = "!!bool"
		n.Value = fmt.Sprintf("%t", val)
	case int:
		n.Tag = "!!int"
		n.Value = fmt.Sprintf("%d", val)
	case int64:
		n.Tag = "!!int"
		n.Value = fmt.Sprintf("%d", val)
	case float64:
		n.Tag = "!!float"
		n.Value = strconv.FormatFloat(val, 'g', -1, 64)
	case nil:
		n.Tag = "!!null"
		n.Value = "null"
	default:
		return nil, fmt.Errorf("unsupported scalar type %T", v)
	}
	return n, nil
}
