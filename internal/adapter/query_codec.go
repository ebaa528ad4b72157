package adapter

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// QueryCodec abstracts YAML decoding and encoding of query files so the
// domain layer can manipulate node trees without knowing the serialization
// details. Working on yaml.Node rather than maps preserves key order and
// scalar styles across a rewrite.
type QueryCodec interface {
	// DecodeAll parses every YAML document in data, one node per document.
	DecodeAll(data []byte) ([]*yaml.Node, error)

	// EncodeList serializes mapping nodes as a single top-level sequence,
	// the GitOps query list format.
	EncodeList(items []*yaml.Node) ([]byte, error)
}

// YAMLQueryCodec is the concrete QueryCodec backed by gopkg.in/yaml.v3.
type YAMLQueryCodec struct{}

// NewYAMLQueryCodec constructs a YAMLQueryCodec.
func NewYAMLQueryCodec() *YAMLQueryCodec {
	return &YAMLQueryCodec{}
}

// DecodeAll parses all documents contained in data.
func (c *YAMLQueryCodec) DecodeAll(data []byte) ([]*yaml.Node, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))

	var docs []*yaml.Node

	for {
		var doc yaml.Node

		err := decoder.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, err
		}

		docs = append(docs, &doc)
	}

	return docs, nil
}

// EncodeList serializes the items as a YAML sequence with two-space indent.
func (c *YAMLQueryCodec) EncodeList(items []*yaml.Node) ([]byte, error) {
	seq := &yaml.Node{
		Kind:    yaml.SequenceNode,
		Tag:     "!!seq",
		Content: items,
	}

	var buf bytes.Buffer

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(seq); err != nil {
		return nil, err
	}

	if err := encoder.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DocumentList unwraps a decoded document and returns the items of its
// top-level sequence. The second return is false when the document is not a
// sequence (legacy format, scalar junk, empty doc).
func DocumentList(doc *yaml.Node) ([]*yaml.Node, bool) {
	node := doc
	if node != nil && node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}

	if node == nil || node.Kind != yaml.SequenceNode {
		return nil, false
	}

	return node.Content, true
}

// DocumentMapping unwraps a decoded document and returns its top-level
// mapping node, or nil when the document is not a mapping.
func DocumentMapping(doc *yaml.Node) *yaml.Node {
	node := doc
	if node != nil && node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}

	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}

	return node
}

// MappingValue returns the value node for key inside a mapping node, or nil
// when the key is absent.
func MappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}

	return nil
}

// ScalarString returns the string value of a scalar node, or "" for nil and
// non-scalar nodes.
func ScalarString(node *yaml.Node) string {
	if node == nil || node.Kind != yaml.ScalarNode {
		return ""
	}

	return node.Value
}

// ScalarNode builds a scalar node for value. Multi-line values get literal
// block style so SQL stays readable in the output file.
func ScalarNode(value string) *yaml.Node {
	node := &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!str",
		Value: value,
	}

	if strings.Contains(value, "\n") {
		node.Style = yaml.LiteralStyle
	}

	return node
}
