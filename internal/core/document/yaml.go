package document

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// EncodeYAML renders n as a YAML document. Mapping order follows the
// object's member order.
func EncodeYAML(n *Node) ([]byte, error) {
	yn, err := toYAML(n)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(yn); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func toYAML(n *Node) (*yaml.Node, error) {
	switch n.Kind() {
	case KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case KindBool:
		v := "false"
		if n.b {
			v = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v}, nil
	case KindNumber:
		tag := "!!int"
		if strings.ContainsAny(n.num, ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: n.num}, nil
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.str}, nil
	case KindArray:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, it := range n.items {
			child, err := toYAML(it)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			seq.Content = append(seq.Content, child)
		}
		return seq, nil
	case KindObject:
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, member := range n.members {
			child, err := toYAML(member.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", member.Key, err)
			}
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: member.Key}
			m.Content = append(m.Content, key, child)
		}
		return m, nil
	}
	return nil, fmt.Errorf("unknown node kind %d", n.Kind())
}

// DecodeYAML parses a single YAML document. Anchors and aliases are
// resolved; mapping order is preserved.
func DecodeYAML(data []byte) (*Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if root.Kind == 0 {
		return Null(), nil
	}
	return fromYAML(&root)
}

func fromYAML(y *yaml.Node) (*Node, error) {
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return Null(), nil
		}
		return fromYAML(y.Content[0])
	case yaml.AliasNode:
		if y.Alias == nil {
			return nil, fmt.Errorf("line %d: dangling alias", y.Line)
		}
		return fromYAML(y.Alias)
	case yaml.SequenceNode:
		arr := Array()
		for i, c := range y.Content {
			child, err := fromYAML(c)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr.Append(child)
		}
		return arr, nil
	case yaml.MappingNode:
		obj := Object()
		for i := 0; i+1 < len(y.Content); i += 2 {
			k, v := y.Content[i], y.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			child, err := fromYAML(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k.Value, err)
			}
			obj.Set(k.Value, child)
		}
		return obj, nil
	case yaml.ScalarNode:
		return scalarFromYAML(y)
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", y.Line, y.Kind)
}

func scalarFromYAML(y *yaml.Node) (*Node, error) {
	switch y.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := y.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", y.Line, err)
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := y.Decode(&i); err == nil {
			return Int(i), nil
		}
		var u uint64
		if err := y.Decode(&u); err != nil {
			return nil, fmt.Errorf("line %d: integer %q out of range", y.Line, y.Value)
		}
		return Uint(u), nil
	case "!!float":
		var f float64
		if err := y.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", y.Line, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("line %d: %q has no document form", y.Line, y.Value)
		}
		if lit, err := Number(y.Value); err == nil {
			return lit, nil
		}
		return Float(f), nil
	default:
		return String(y.Value), nil
	}
}
