// Package fieldfile reads submitted field bags and field mappers from YAML
// or JSON files. Field order in the file is kept, since later keys win when
// a mapper sends two of them to the same field.
package fieldfile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/s0up4200/x2rest/x2"
)

// ErrNotMapping is returned when a document is not a flat key/value mapping
var ErrNotMapping = errors.New("document is not a mapping")

// LoadFields reads a field bag from path
func LoadFields(path string) (*x2.Fields, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fields file: %w", err)
	}
	fields, err := ParseFields(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fields, nil
}

// ParseFields decodes a YAML or JSON mapping into a field bag in document
// order. An empty document yields an empty bag.
func ParseFields(data []byte) (*x2.Fields, error) {
	root, err := mappingNode(data)
	if err != nil {
		return nil, err
	}

	fields := x2.NewFields()
	if root == nil {
		return fields, nil
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, node := root.Content[i], root.Content[i+1]

		var value any
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("line %d: field %q: %w", node.Line, key.Value, err)
		}
		fields.Set(key.Value, value)
	}
	return fields, nil
}

// LoadMapper reads a caller key to field name mapping from path
func LoadMapper(path string) (x2.Mapper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapper file: %w", err)
	}
	mapper, err := ParseMapper(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mapper, nil
}

// ParseMapper decodes a mapping of caller keys to field names
func ParseMapper(data []byte) (x2.Mapper, error) {
	root, err := mappingNode(data)
	if err != nil {
		return nil, err
	}

	mapper := make(x2.Mapper)
	if root == nil {
		return mapper, nil
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, node := root.Content[i], root.Content[i+1]
		if node.Kind != yaml.ScalarNode || strings.TrimSpace(node.Value) == "" {
			return nil, fmt.Errorf("line %d: %q must map to a field name", node.Line, key.Value)
		}
		mapper[key.Value] = node.Value
	}
	return mapper, nil
}

// ParsePairs builds a field bag from key=value arguments. Values stay
// strings.
func ParsePairs(pairs []string) (*x2.Fields, error) {
	fields := x2.NewFields()
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q, expected key=value", pair)
		}
		fields.Set(key, value)
	}
	return fields, nil
}

func mappingNode(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	root := &doc
	if doc.Kind == yaml.DocumentNode {
		root = doc.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}
	return root, nil
}
