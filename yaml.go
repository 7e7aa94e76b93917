package decode

import (
	"errors"
	"fmt"
	"iter"

	"gopkg.in/yaml.v3"
)

// ParseYAML parses a single YAML document into a [Source]. Scalars are interpreted
// according to their resolved YAML tag, so `port: "8080"` is a string and `port: 8080`
// is a number. Aliases are followed transparently.
func ParseYAML(data []byte) (Source, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	return yamlSource{node: resolveNode(&doc)}, nil
}

// DecodeYAML parses the given YAML document and runs dec against it.
func DecodeYAML[T any](dec Decoder[T], data []byte) (T, error) {
	source, err := ParseYAML(data)
	if err != nil {
		var tZero T
		return tZero, err
	}

	return dec(source)
}

type yamlSource struct {
	node *yaml.Node
}

var _ Source = yamlSource{}

// resolveNode unwraps document and alias nodes.
func resolveNode(node *yaml.Node) *yaml.Node {
	for {
		switch {
		case node.Kind == yaml.DocumentNode && len(node.Content) == 1:
			node = node.Content[0]
		case node.Kind == yaml.AliasNode && node.Alias != nil:
			node = node.Alias
		default:
			return node
		}
	}
}

func (s yamlSource) scalar(expected string, tags ...string) error {
	if s.node.Kind == yaml.ScalarNode {
		tag := s.node.ShortTag()
		for _, accepted := range tags {
			if tag == accepted {
				return nil
			}
		}
	}

	return typeError(expected, yamlKindOf(s.node))
}

// decodeScalar decodes the scalar into target. Values the yaml package can not
// represent in the target are reported as ErrNotSupported.
func decodeScalar[T any](node *yaml.Node) (T, error) {
	var value T
	if err := node.Decode(&value); err != nil {
		var tZero T
		return tZero, errors.Join(fmt.Errorf("decode %q: %w", node.Value, err), ErrNotSupported)
	}

	return value, nil
}

func (s yamlSource) Bool() (bool, error) {
	if err := s.scalar("bool", "!!bool"); err != nil {
		return false, err
	}

	return decodeScalar[bool](s.node)
}

func (s yamlSource) Int() (int64, error) {
	if err := s.scalar("integer", "!!int"); err != nil {
		return 0, err
	}

	return decodeScalar[int64](s.node)
}

func (s yamlSource) Uint() (uint64, error) {
	if err := s.scalar("integer", "!!int"); err != nil {
		return 0, err
	}

	return decodeScalar[uint64](s.node)
}

func (s yamlSource) Float() (float64, error) {
	if err := s.scalar("number", "!!float", "!!int"); err != nil {
		return 0, err
	}

	return decodeScalar[float64](s.node)
}

func (s yamlSource) String() (string, error) {
	if err := s.scalar("string", "!!str"); err != nil {
		return "", err
	}

	return s.node.Value, nil
}

func (s yamlSource) Null() error {
	// an empty document is null, too
	if s.node.Kind == 0 {
		return nil
	}

	return s.scalar("null", "!!null")
}

func (s yamlSource) Get(key string) (Source, error) {
	if s.node.Kind != yaml.MappingNode {
		return nil, typeError("object", yamlKindOf(s.node))
	}

	for idx := 0; idx+1 < len(s.node.Content); idx += 2 {
		if s.node.Content[idx].Value == key {
			return yamlSource{node: resolveNode(s.node.Content[idx+1])}, nil
		}
	}

	return nil, ErrNoValue
}

func (s yamlSource) KeyValues() (iter.Seq2[Source, Source], error) {
	if s.node.Kind != yaml.MappingNode {
		return nil, typeError("object", yamlKindOf(s.node))
	}

	content := s.node.Content

	it := func(yield func(Source, Source) bool) {
		for idx := 0; idx+1 < len(content); idx += 2 {
			// keys are taken by their text, like keys of a JSON object
			key := StringSource(resolveNode(content[idx]).Value)
			if !yield(key, yamlSource{node: resolveNode(content[idx+1])}) {
				return
			}
		}
	}

	return it, nil
}

func (s yamlSource) Iter() (iter.Seq[Source], error) {
	if s.node.Kind != yaml.SequenceNode {
		return nil, typeError("array", yamlKindOf(s.node))
	}

	content := s.node.Content

	it := func(yield func(Source) bool) {
		for _, element := range content {
			if !yield(yamlSource{node: resolveNode(element)}) {
				return
			}
		}
	}

	return it, nil
}

func yamlKindOf(node *yaml.Node) string {
	switch node.Kind {
	case yaml.MappingNode:
		return "object"
	case yaml.SequenceNode:
		return "array"
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!str":
			return "string"
		case "!!int":
			return "integer"
		case "!!float":
			return "number"
		case "!!bool":
			return "bool"
		case "!!null":
			return "null"
		default:
			return node.ShortTag()
		}
	case 0:
		return "null"
	default:
		return "unknown"
	}
}
