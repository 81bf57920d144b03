package ir

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes an IR document written in YAML. The document uses the
// same tagged shape as the JSON encoding; numeric literal values may be
// written as plain YAML numbers or as strings.
func UnmarshalYAML(data []byte) (Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode IR yaml: %w", err)
	}
	raw, err := yamlValue(&doc)
	if err != nil {
		return nil, fmt.Errorf("decode IR yaml: %w", err)
	}
	return DecodeNode(raw)
}

// DecodeYAMLNode decodes an IR document embedded in a larger YAML file, such
// as the program section of a harness scenario.
func DecodeYAMLNode(node *yaml.Node) (Node, error) {
	if node == nil || node.Kind == 0 {
		return nil, ErrNilNode
	}
	raw, err := yamlValue(node)
	if err != nil {
		return nil, fmt.Errorf("decode IR yaml (line %d): %w", node.Line, err)
	}
	n, err := DecodeNode(raw)
	if err != nil {
		return nil, fmt.Errorf("IR document at line %d: %w", node.Line, err)
	}
	return n, nil
}

// yamlValue converts a YAML tree to the generic form DecodeNode reads.
// Numbers keep their source text as json.Number, so integers wider than 64
// bits reach the literal decoder unrounded.
func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlValue(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: dangling alias", n.Line)
		}
		return yamlValue(n.Alias)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.ShortTag() == "!!merge" {
				return nil, fmt.Errorf("line %d: merge keys are not supported", k.Line)
			}
			if _, dup := out[k.Value]; dup {
				return nil, fmt.Errorf("line %d: duplicate key %q", k.Line, k.Value)
			}
			v, err := yamlValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[k.Value] = v
		}
		return out, nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	default:
		return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
	}
}

func yamlScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int":
		// Base prefixes (0x, 0o, 0b) and underscores are YAML spellings.
		plain := strings.ReplaceAll(n.Value, "_", "")
		i, ok := new(big.Int).SetString(plain, 0)
		if !ok {
			return nil, fmt.Errorf("line %d: invalid integer %q", n.Line, n.Value)
		}
		return json.Number(i.String()), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return FormatFloat(f), nil
		}
		return json.Number(strings.ReplaceAll(n.Value, "_", "")), nil
	default:
		return n.Value, nil
	}
}
