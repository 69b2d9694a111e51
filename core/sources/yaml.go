package sources

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLRecords streams records from a YAML stream. Every document is either
// one mapping (one record) or a sequence of mappings.
type YAMLRecords struct {
	dec     *yaml.Decoder
	docs    int
	pending []*yaml.Node
	columns []string
	current Row
	err     error
}

// OpenYAML reads the first record to learn the columns: the keys of the
// first mapping, in document order.
func OpenYAML(r io.Reader) (*YAMLRecords, error) {
	y := &YAMLRecords{dec: yaml.NewDecoder(r)}
	if y.fill() {
		y.columns = mappingKeys(y.pending[0])
	}
	if y.err != nil {
		return nil, y.err
	}
	return y, nil
}

// Columns returns the keys of the first mapping.
func (y *YAMLRecords) Columns() []string {
	return y.columns
}

func (y *YAMLRecords) Next() bool {
	if y.err != nil || !y.fill() {
		return false
	}

	node := y.pending[0]
	y.pending = y.pending[1:]

	row := NewRow()
	for i := 0; i+1 < len(node.Content); i += 2 {
		var v any
		if err := node.Content[i+1].Decode(&v); err != nil {
			y.err = fmt.Errorf("error decoding %q at line %d: %w", node.Content[i].Value, node.Content[i+1].Line, err)
			return false
		}
		row.Set(node.Content[i].Value, Field{Value: v})
	}
	y.current = row
	return true
}

func (y *YAMLRecords) Record() Row {
	return y.current
}

func (y *YAMLRecords) Err() error {
	return y.err
}

// fill makes sure at least one mapping is pending, decoding documents as
// needed. It returns false at the end of the stream or on error.
func (y *YAMLRecords) fill() bool {
	for len(y.pending) == 0 {
		var doc yaml.Node
		if err := y.dec.Decode(&doc); err != nil {
			if !errors.Is(err, io.EOF) {
				y.err = fmt.Errorf("error decoding YAML document %d: %w", y.docs+1, err)
			}
			return false
		}
		y.docs++

		if len(doc.Content) == 0 {
			continue
		}
		root := doc.Content[0]
		switch root.Kind {
		case yaml.MappingNode:
			y.pending = append(y.pending, root)
		case yaml.SequenceNode:
			for i, item := range root.Content {
				if item.Kind != yaml.MappingNode {
					y.err = fmt.Errorf("YAML document %d: item %d is not a mapping", y.docs, i+1)
					return false
				}
			}
			y.pending = append(y.pending, root.Content...)
		default:
			y.err = fmt.Errorf("YAML document %d is neither a mapping nor a sequence of mappings", y.docs)
			return false
		}
	}
	return true
}

func mappingKeys(node *yaml.Node) []string {
	keys := make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i].Value)
	}
	return keys
}
