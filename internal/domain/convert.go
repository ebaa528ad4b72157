package domain

import (
	"context"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/fleetops/queryfix/internal/adapter"
	m "github.com/fleetops/queryfix/internal/model"
)

// Converter rewrites query files from the legacy fleetctl apply format
// (apiVersion/kind/spec documents) into the flat GitOps list format, keeping
// only the known query fields.
type Converter struct {
	fs    adapter.QueryFSAdapter
	codec adapter.QueryCodec
}

// NewConverter constructs a Converter.
func NewConverter(fs adapter.QueryFSAdapter, codec adapter.QueryCodec) *Converter {
	return &Converter{fs: fs, codec: codec}
}

// Run converts every legacy-format file matching glob under root. Files
// already in list format are left untouched. With apply unset the pass only
// reports what would change.
func (c *Converter) Run(ctx context.Context, root m.Path, glob string, apply bool) (m.ConvertReport, error) {
	report := m.ConvertReport{}
	normalizer := NewNormalizer(c.fs)

	err := normalizer.eachFile(ctx, root, glob, func(path m.Path, content []byte) error {
		report.FilesScanned++

		docs, decodeErr := c.codec.DecodeAll(content)
		if decodeErr != nil {
			slog.Debug("skipping unparseable file", "path", path, "error", decodeErr)
			return nil
		}

		if len(docs) == 0 {
			return nil
		}

		if _, ok := adapter.DocumentList(docs[0]); ok {
			return nil // already in list format
		}

		queries := extractLegacyQueries(docs)
		if len(queries) == 0 {
			return nil
		}

		report.FilesConverted = append(report.FilesConverted, path)
		report.QueriesKept += len(queries)

		if !apply {
			return nil
		}

		encoded, encodeErr := c.codec.EncodeList(queries)
		if encodeErr != nil {
			return encodeErr
		}

		if err := c.fs.WriteFile(path, encoded, filePerm(c.fs, path)); err != nil {
			slog.Warn("skipping unwritable file", "path", path, "error", err)

			report.FilesConverted = report.FilesConverted[:len(report.FilesConverted)-1]
			report.QueriesKept -= len(queries)
		}

		return nil
	})
	if err != nil {
		return m.ConvertReport{}, err
	}

	return report, nil
}

// extractLegacyQueries pulls query mappings out of legacy documents. Both the
// wrapped apiVersion/kind/spec shape and bare query mappings are handled.
func extractLegacyQueries(docs []*yaml.Node) []*yaml.Node {
	var queries []*yaml.Node

	for _, doc := range docs {
		mapping := adapter.DocumentMapping(doc)
		if mapping == nil {
			continue
		}

		source := mapping

		if adapter.MappingValue(mapping, "apiVersion") != nil &&
			adapter.MappingValue(mapping, "kind") != nil {
			spec := adapter.MappingValue(mapping, "spec")
			if spec == nil || spec.Kind != yaml.MappingNode {
				continue
			}

			source = spec
		} else if adapter.MappingValue(mapping, "name") == nil ||
			adapter.MappingValue(mapping, "query") == nil {
			continue
		}

		query := filterQueryFields(source)
		if query != nil {
			queries = append(queries, query)
		}
	}

	return queries
}

// filterQueryFields builds a new mapping holding only the known query fields,
// in canonical order. Returns nil when none of the fields are present.
func filterQueryFields(source *yaml.Node) *yaml.Node {
	query := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, field := range m.QueryFields {
		value := adapter.MappingValue(source, field)
		if value == nil {
			continue
		}

		query.Content = append(query.Content, adapter.ScalarNode(field), value)
	}

	if len(query.Content) == 0 {
		return nil
	}

	return query
}
