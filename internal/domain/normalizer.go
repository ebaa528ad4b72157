package domain

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fleetops/queryfix/internal/adapter"
	m "github.com/fleetops/queryfix/internal/model"
)

// Normalizer scans a query tree for platform values and rewrites invalid
// ones in place. All passes are stateless and sequential: the file set is
// small and rewrites are idempotent, so a crashed run can simply be re-run.
type Normalizer struct {
	fs adapter.QueryFSAdapter
}

// NewNormalizer constructs a Normalizer on top of the given filesystem adapter.
func NewNormalizer(fs adapter.QueryFSAdapter) *Normalizer {
	return &Normalizer{fs: fs}
}

// Report scans every file matching glob under root and aggregates the
// distinct platform values by descending frequency. Values with tokens
// outside the allowlist are listed separately. Read-only.
func (n *Normalizer) Report(ctx context.Context, root m.Path, glob string) (m.PlatformReport, error) {
	report := m.PlatformReport{}
	counts := make(map[string]int)

	err := n.eachFile(ctx, root, glob, func(path m.Path, content []byte) error {
		report.FilesScanned++

		for _, line := range strings.Split(string(content), "\n") {
			_, value, ok := matchPlatformLine(strings.TrimSuffix(line, "\r"))
			if !ok {
				continue
			}

			counts[value]++
		}

		return nil
	})
	if err != nil {
		return m.PlatformReport{}, err
	}

	report.Counts = sortedCounts(counts)

	for _, entry := range report.Counts {
		if !isAllowedValue(entry.Value) {
			report.Invalid = append(report.Invalid, entry)
		}
	}

	return report, nil
}

// Fix rewrites every platform line whose value exactly matches rule.Old to
// rule.New, across all files matching glob under root. Unreadable or
// unwritable files are logged and skipped; the pass continues.
func (n *Normalizer) Fix(ctx context.Context, root m.Path, glob string, rule m.RewriteRule, dryRun bool) (m.FixResult, error) {
	result := m.FixResult{Rule: rule}

	err := n.eachFile(ctx, root, glob, func(path m.Path, content []byte) error {
		updated, changed := rewritePlatformLines(string(content), rule)
		if changed == 0 {
			return nil
		}

		if !dryRun {
			perm := filePerm(n.fs, path)
			if err := n.fs.WriteFile(path, []byte(updated), perm); err != nil {
				slog.Warn("skipping unwritable file", "path", path, "error", err)
				return nil
			}
		}

		result.FilesChanged++
		result.LinesChanged += changed

		return nil
	})
	if err != nil {
		return m.FixResult{}, err
	}

	return result, nil
}

// FixAll applies the rule table in order. Each rule is independently
// idempotent: after a successful pass the old literal no longer appears, so
// re-running is a no-op.
func (n *Normalizer) FixAll(ctx context.Context, root m.Path, glob string, rules []m.RewriteRule, dryRun bool) ([]m.FixResult, error) {
	results := make([]m.FixResult, 0, len(rules))

	for _, rule := range rules {
		result, err := n.Fix(ctx, root, glob, rule, dryRun)
		if err != nil {
			return nil, err
		}

		results = append(results, result)
	}

	return results, nil
}

// eachFile walks the tree and invokes fn with the contents of every file
// matching glob. Per-file read errors are non-fatal.
func (n *Normalizer) eachFile(ctx context.Context, root m.Path, glob string, fn func(path m.Path, content []byte) error) error {
	return n.fs.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			slog.Warn("skipping unreadable entry", "path", path, "error", err)
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		matched, matchErr := filepath.Match(glob, filepath.Base(path))
		if matchErr != nil || !matched {
			return matchErr
		}

		content, readErr := n.fs.ReadFile(m.Path(path))
		if readErr != nil {
			slog.Warn("skipping unreadable file", "path", path, "error", readErr)
			return nil
		}

		return fn(m.Path(path), content)
	})
}

// rewritePlatformLines replaces whole-value platform matches and returns the
// updated content plus the number of lines changed.
func rewritePlatformLines(content string, rule m.RewriteRule) (string, int) {
	lines := strings.Split(content, "\n")
	changed := 0

	for i, line := range lines {
		bare := strings.TrimSuffix(line, "\r")

		prefix, value, ok := matchPlatformLine(bare)
		if !ok || value != rule.Old {
			continue
		}

		rewritten := prefix + rule.New
		if bare != line {
			rewritten += "\r"
		}

		lines[i] = rewritten
		changed++
	}

	return strings.Join(lines, "\n"), changed
}

// sortedCounts orders the frequency map by descending count, ties broken by
// value so the report is deterministic.
func sortedCounts(counts map[string]int) []m.PlatformCount {
	entries := make([]m.PlatformCount, 0, len(counts))
	for value, count := range counts {
		entries = append(entries, m.PlatformCount{Value: value, Count: count})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}

		return entries[i].Value < entries[j].Value
	})

	return entries
}

// filePerm returns the current mode of path, falling back to 0o644 when the
// file cannot be inspected.
func filePerm(fs adapter.QueryFSAdapter, path m.Path) os.FileMode {
	info, err := fs.FileInfo(path)
	if err != nil {
		return 0o644
	}

	return info.Mode().Perm()
}
