package domain

import (
	"context"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"

	"github.com/fleetops/queryfix/internal/adapter"
	m "github.com/fleetops/queryfix/internal/model"
)

// DefaultSimilarity is the SQL similarity ratio above which two queries with
// the same name are treated as true duplicates.
const DefaultSimilarity = 0.85

// sourcePrecedence ranks query sources, lower is better. Queries from better
// sources win when duplicates are found.
var sourcePrecedence = map[string]int{
	"fleet-docs":             1,
	"fleet-internal":         2,
	"palantir-configuration": 3,
	"chainguard-defense-kit": 4,
	"osquery-packs":          5,
	"mitre-attck":            6,
	"osquery-configuration":  7,
	"palantir":               8,
	"imessage-detection":     9,
}

// categoryPrecedence ranks query categories, lower is better.
var categoryPrecedence = map[string]int{
	"general":           1,
	"compliance":        2,
	"detection":         3,
	"incident_response": 4,
	"incident-response": 4,
	"informational":     5,
	"endpoints":         6,
	"performance":       7,
	"policy":            8,
}

const unknownPrecedence = 100

var whitespaceRun = regexp.MustCompile(`\s+`)

// Deduper finds queries sharing a name across the tree, confirms true
// duplicates by SQL similarity, and removes all but the best-placed copy.
type Deduper struct {
	fs    adapter.QueryFSAdapter
	codec adapter.QueryCodec
}

// NewDeduper constructs a Deduper.
func NewDeduper(fs adapter.QueryFSAdapter, codec adapter.QueryCodec) *Deduper {
	return &Deduper{fs: fs, codec: codec}
}

// occurrence is one query document observed during the scan.
type occurrence struct {
	ref   m.QueryRef
	sql   string
	score int
}

// parsedFile keeps a decoded query file around so apply can rewrite it
// without a second parse.
type parsedFile struct {
	items []*yaml.Node
	drop  map[int]bool
}

// Run scans the tree, decides winners and losers per duplicated name, and
// with apply set removes the losers in place.
func (d *Deduper) Run(ctx context.Context, root m.Path, glob string, similarity float64, apply bool) (m.DedupeReport, error) {
	if similarity <= 0 || similarity > 1 {
		similarity = DefaultSimilarity
	}

	report := m.DedupeReport{}
	files := make(map[m.Path]*parsedFile)
	byName := make(map[string][]occurrence)
	normalizer := NewNormalizer(d.fs)

	err := normalizer.eachFile(ctx, root, glob, func(path m.Path, content []byte) error {
		report.FilesScanned++

		docs, decodeErr := d.codec.DecodeAll(content)
		if decodeErr != nil || len(docs) == 0 {
			return nil
		}

		items, ok := adapter.DocumentList(docs[0])
		if !ok {
			return nil
		}

		files[path] = &parsedFile{items: items, drop: make(map[int]bool)}
		score := d.placementScore(root, path)

		for i, item := range items {
			if item.Kind != yaml.MappingNode {
				continue
			}

			name := adapter.ScalarString(adapter.MappingValue(item, "name"))
			if name == "" {
				continue
			}

			byName[name] = append(byName[name], occurrence{
				ref:   m.QueryRef{File: path, Index: i, Name: name},
				sql:   adapter.ScalarString(adapter.MappingValue(item, "query")),
				score: score,
			})
		}

		return nil
	})
	if err != nil {
		return m.DedupeReport{}, err
	}

	names := make([]string, 0, len(byName))
	for name, occurrences := range byName {
		if len(occurrences) > 1 {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	for _, name := range names {
		occurrences := byName[name]

		sort.SliceStable(occurrences, func(i, j int) bool {
			if occurrences[i].score != occurrences[j].score {
				return occurrences[i].score < occurrences[j].score
			}

			return occurrences[i].ref.File < occurrences[j].ref.File
		})

		winner := occurrences[0]
		decision := m.DedupeDecision{Name: name, Keep: winner.ref}

		for _, other := range occurrences[1:] {
			if sqlSimilarity(winner.sql, other.sql) >= similarity {
				decision.Remove = append(decision.Remove, other.ref)
				files[other.ref.File].drop[other.ref.Index] = true
				report.Removed++
			} else {
				decision.Distinct = append(decision.Distinct, other.ref)
			}
		}

		report.Decisions = append(report.Decisions, decision)
	}

	if !apply {
		return report, nil
	}

	if err := d.applyDrops(files, &report); err != nil {
		return m.DedupeReport{}, err
	}

	return report, nil
}

// applyDrops rewrites every file with marked removals, deleting files left
// without queries.
func (d *Deduper) applyDrops(files map[m.Path]*parsedFile, report *m.DedupeReport) error {
	paths := make([]m.Path, 0, len(files))
	for path, file := range files {
		if len(file.drop) > 0 {
			paths = append(paths, path)
		}
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	for _, path := range paths {
		file := files[path]

		kept := make([]*yaml.Node, 0, len(file.items))
		for i, item := range file.items {
			if !file.drop[i] {
				kept = append(kept, item)
			}
		}

		if len(kept) == 0 {
			if err := d.fs.Remove(path); err != nil {
				slog.Warn("skipping undeletable file", "path", path, "error", err)
				continue
			}

			report.FilesDeleted++

			continue
		}

		encoded, err := d.codec.EncodeList(kept)
		if err != nil {
			return err
		}

		if err := d.fs.WriteFile(path, encoded, filePerm(d.fs, path)); err != nil {
			slog.Warn("skipping unwritable file", "path", path, "error", err)
			continue
		}

		report.FilesModified++
	}

	return nil
}

// placementScore ranks a file by its path segments, lower is better. The
// expected layout is platform/device/queries/source/category/file.yml;
// segments outside the precedence tables rank last.
func (d *Deduper) placementScore(root, path m.Path) int {
	rel, err := d.fs.RelPath(root, path)
	if err != nil {
		rel = path
	}

	parts := strings.Split(filepath.ToSlash(string(rel)), "/")

	source, category := "unknown", "unknown"
	if len(parts) > 3 {
		source = parts[3]
	}

	if len(parts) > 4 {
		category = parts[4]
	}

	sourceScore, ok := sourcePrecedence[source]
	if !ok {
		sourceScore = unknownPrecedence
	}

	categoryScore, ok := categoryPrecedence[category]
	if !ok {
		categoryScore = unknownPrecedence
	}

	// Prefer platform-specific placement over the catch-all tree.
	platformScore := 0
	if len(parts) > 0 && parts[0] == "all" {
		platformScore = 1
	}

	return sourceScore*100 + categoryScore + platformScore
}

// sqlSimilarity returns the similarity ratio of two SQL strings after
// normalization.
func sqlSimilarity(a, b string) float64 {
	na, nb := normalizeSQL(a), normalizeSQL(b)
	if na == "" || nb == "" {
		return 0
	}

	matcher := difflib.NewMatcher(strings.Split(na, ""), strings.Split(nb, ""))

	return matcher.Ratio()
}

// normalizeSQL lowercases, collapses whitespace, and strips trailing
// semicolons so formatting differences do not defeat the comparison.
func normalizeSQL(sql string) string {
	sql = strings.ToLower(strings.TrimSpace(sql))
	sql = whitespaceRun.ReplaceAllString(sql, " ")

	return strings.TrimRight(sql, ";")
}
