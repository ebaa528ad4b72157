package domain

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fleetops/queryfix/internal/adapter"
	m "github.com/fleetops/queryfix/internal/model"
)

// yaraVarPattern finds $variable references in SQL. Escaped `$$name` and
// Fleet environment variables (`$FLEET_*`) are filtered out afterwards
// because RE2 has no lookahead.
var yaraVarPattern = regexp.MustCompile(`\$\$?[A-Za-z_][A-Za-z0-9_]*`)

// Linter checks query documents for problems that break GitOps applies:
// YARA-style variables in SQL, queries without SQL, and string-typed
// interval values.
type Linter struct {
	fs    adapter.QueryFSAdapter
	codec adapter.QueryCodec
}

// NewLinter constructs a Linter.
func NewLinter(fs adapter.QueryFSAdapter, codec adapter.QueryCodec) *Linter {
	return &Linter{fs: fs, codec: codec}
}

// Run lints every query file matching glob under root. With apply set it
// drops offending queries, coerces intervals, and rewrites the files,
// deleting files left without queries.
func (l *Linter) Run(ctx context.Context, root m.Path, glob string, apply bool) (m.LintReport, error) {
	report := m.LintReport{}
	normalizer := NewNormalizer(l.fs)

	err := normalizer.eachFile(ctx, root, glob, func(path m.Path, content []byte) error {
		report.FilesScanned++

		docs, decodeErr := l.codec.DecodeAll(content)
		if decodeErr != nil {
			slog.Debug("skipping unparseable file", "path", path, "error", decodeErr)
			return nil
		}

		if len(docs) == 0 {
			return nil
		}

		items, ok := adapter.DocumentList(docs[0])
		if !ok {
			return nil
		}

		kept := make([]*yaml.Node, 0, len(items))
		modified := false

		for i, item := range items {
			if item.Kind != yaml.MappingNode {
				kept = append(kept, item)
				continue
			}

			ref := m.QueryRef{
				File:  path,
				Index: i,
				Name:  queryName(item),
			}

			sql := adapter.ScalarString(adapter.MappingValue(item, "query"))

			if strings.TrimSpace(sql) == "" {
				report.MissingSQL = append(report.MissingSQL, ref)

				modified = true

				continue
			}

			if hasYaraVariables(sql) {
				report.YaraQueries = append(report.YaraQueries, ref)

				modified = true

				continue
			}

			if fix, ok := coerceInterval(item, apply); ok {
				fix.Ref = ref
				report.IntervalFixes = append(report.IntervalFixes, fix)
				modified = true
			}

			kept = append(kept, item)
		}

		if !modified || !apply {
			return nil
		}

		if len(kept) == 0 {
			if err := l.fs.Remove(path); err != nil {
				slog.Warn("skipping undeletable file", "path", path, "error", err)
				return nil
			}

			report.FilesDeleted++

			return nil
		}

		encoded, encodeErr := l.codec.EncodeList(kept)
		if encodeErr != nil {
			return encodeErr
		}

		if err := l.fs.WriteFile(path, encoded, filePerm(l.fs, path)); err != nil {
			slog.Warn("skipping unwritable file", "path", path, "error", err)
			return nil
		}

		report.FilesModified++

		return nil
	})
	if err != nil {
		return m.LintReport{}, err
	}

	return report, nil
}

// hasYaraVariables reports whether sql references YARA-style $variables.
func hasYaraVariables(sql string) bool {
	for _, match := range yaraVarPattern.FindAllString(sql, -1) {
		if strings.HasPrefix(match, "$$") {
			continue // escaped dollar
		}

		if strings.HasPrefix(match, "$FLEET_") {
			continue // Fleet env var, substituted at apply time
		}

		return true
	}

	return false
}

// coerceInterval converts a string-typed interval scalar to an integer. The
// node is only mutated when apply is set.
func coerceInterval(item *yaml.Node, apply bool) (m.IntervalFix, bool) {
	node := adapter.MappingValue(item, "interval")
	if node == nil || node.Kind != yaml.ScalarNode || node.Tag != "!!str" {
		return m.IntervalFix{}, false
	}

	value, err := strconv.Atoi(strings.TrimSpace(node.Value))
	if err != nil {
		return m.IntervalFix{}, false
	}

	fix := m.IntervalFix{Old: node.Value, New: value}

	if apply {
		node.Tag = "!!int"
		node.Value = strconv.Itoa(value)
		node.Style = 0
	}

	return fix, true
}

// queryName extracts the name field of a query mapping, "unknown" when absent.
func queryName(item *yaml.Node) string {
	name := adapter.ScalarString(adapter.MappingValue(item, "name"))
	if name == "" {
		return "unknown"
	}

	return name
}
