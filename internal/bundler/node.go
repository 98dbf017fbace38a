package bundler

import "gopkg.in/yaml.v3"

// Small helpers for manipulating YAML mapping nodes. The bundler works
// on yaml.Node trees rather than Go maps so the primary artifact keeps
// the insertion order of merged keys.

func newMapNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func newStrNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// mapGet returns the value node for key, or nil.
func mapGet(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// mapSet replaces the value for key, appending the pair when absent.
// Returns true when an existing value was overwritten.
func mapSet(m *yaml.Node, key string, value *yaml.Node) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return true
		}
	}
	m.Content = append(m.Content, newStrNode(key), value)
	return false
}

// scalarValue returns the literal text of a scalar node, or "" and
// false for nil or non-scalar nodes.
func scalarValue(n *yaml.Node) (string, bool) {
	if n == nil || n.Kind != yaml.ScalarNode {
		return "", false
	}
	return n.Value, true
}
