package adapter

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestYAMLQueryCodec_DecodeAll_MultipleDocuments(t *testing.T) {
	codec := NewYAMLQueryCodec()

	docs, err := codec.DecodeAll([]byte("---\nname: a\n---\nname: b\n"))
	if err != nil {
		t.Fatalf("DecodeAll failed: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}

	for i, want := range []string{"a", "b"} {
		mapping := DocumentMapping(docs[i])
		if mapping == nil {
			t.Fatalf("document %d is not a mapping", i)
		}

		if got := ScalarString(MappingValue(mapping, "name")); got != want {
			t.Errorf("doc %d name = %q, want %q", i, got, want)
		}
	}
}

func TestYAMLQueryCodec_DecodeAll_Invalid(t *testing.T) {
	codec := NewYAMLQueryCodec()

	if _, err := codec.DecodeAll([]byte("name: [unclosed\n")); err == nil {
		t.Error("expected an error for invalid YAML")
	}
}

func TestYAMLQueryCodec_EncodeList(t *testing.T) {
	codec := NewYAMLQueryCodec()

	docs, err := codec.DecodeAll([]byte("- name: a\n  query: SELECT 1\n- name: b\n  query: SELECT 2\n"))
	if err != nil {
		t.Fatalf("DecodeAll failed: %v", err)
	}

	items, ok := DocumentList(docs[0])
	if !ok {
		t.Fatal("expected a list document")
	}

	encoded, err := codec.EncodeList(items[:1])
	if err != nil {
		t.Fatalf("EncodeList failed: %v", err)
	}

	got := string(encoded)

	if !strings.HasPrefix(got, "- name: a") {
		t.Errorf("unexpected output:\n%s", got)
	}

	if strings.Contains(got, "name: b") {
		t.Errorf("dropped item leaked into output:\n%s", got)
	}
}

func TestDocumentList_NonSequence(t *testing.T) {
	codec := NewYAMLQueryCodec()

	docs, err := codec.DecodeAll([]byte("name: a\n"))
	if err != nil {
		t.Fatalf("DecodeAll failed: %v", err)
	}

	if _, ok := DocumentList(docs[0]); ok {
		t.Error("mapping document reported as a list")
	}

	if _, ok := DocumentList(nil); ok {
		t.Error("nil document reported as a list")
	}
}

func TestMappingValue_AbsentKey(t *testing.T) {
	codec := NewYAMLQueryCodec()

	docs, err := codec.DecodeAll([]byte("name: a\n"))
	if err != nil {
		t.Fatalf("DecodeAll failed: %v", err)
	}

	mapping := DocumentMapping(docs[0])

	if MappingValue(mapping, "query") != nil {
		t.Error("absent key should yield nil")
	}

	if MappingValue(nil, "query") != nil {
		t.Error("nil mapping should yield nil")
	}
}

func TestScalarNode_MultilineGetsLiteralStyle(t *testing.T) {
	single := ScalarNode("SELECT 1")
	if single.Style == yaml.LiteralStyle {
		t.Error("single-line scalar should not be literal")
	}

	multi := ScalarNode("SELECT *\nFROM users")
	if multi.Style != yaml.LiteralStyle {
		t.Error("multi-line scalar should be literal")
	}
}
