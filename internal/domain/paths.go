package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/fleetops/queryfix/internal/adapter"
	m "github.com/fleetops/queryfix/internal/model"
)

// Config files consuming the path listings. default.yml sits next to the
// query tree; the team configs live one level down in teams/.
const (
	defaultConfigFile = "default.yml"
	teamsDirName      = "teams"
)

// queriesSectionPattern matches a top-level queries key and its existing
// list items so Update can splice in a fresh listing.
var queriesSectionPattern = regexp.MustCompile(`(?m)^queries:[ \t]*\n(?:  - [^\n]+\n)*`)

// PathLister scans the query tree and groups file paths by their device-type
// segment, producing the path listings the team config files reference.
type PathLister struct {
	fs adapter.QueryFSAdapter
}

// NewPathLister constructs a PathLister.
func NewPathLister(fs adapter.QueryFSAdapter) *PathLister {
	return &PathLister{fs: fs}
}

// Run classifies every file matching glob under root. Paths with a devices
// or servers segment go to their group; everything else is shared by both.
// Entries carry the prefix the consuming config expects: default.yml
// references the tree directly, the team configs reach up out of teams/.
func (p *PathLister) Run(ctx context.Context, root m.Path, glob string) (m.PathsListing, error) {
	listing := m.PathsListing{}
	normalizer := NewNormalizer(p.fs)
	treeName := filepath.Base(string(root))

	err := normalizer.eachFile(ctx, root, glob, func(path m.Path, _ []byte) error {
		rel, relErr := p.fs.RelPath(root, path)
		if relErr != nil {
			rel = path
		}

		rel = m.Path(filepath.ToSlash(string(rel)))

		switch {
		case hasSegment(rel, "devices"):
			listing.Devices = append(listing.Devices, m.Path("../"+treeName+"/"+string(rel)))
		case hasSegment(rel, "servers"):
			listing.Servers = append(listing.Servers, m.Path("../"+treeName+"/"+string(rel)))
		default:
			listing.Both = append(listing.Both, m.Path(treeName+"/"+string(rel)))
		}

		return nil
	})
	if err != nil {
		return m.PathsListing{}, err
	}

	sortPaths(listing.Both)
	sortPaths(listing.Devices)
	sortPaths(listing.Servers)

	return listing, nil
}

// Update rewrites the queries sections of default.yml and the team configs
// next to the query tree from a fresh listing. default.yml must exist; team
// configs are skipped when absent.
func (p *PathLister) Update(ctx context.Context, root m.Path, glob string) (m.PathsUpdateReport, error) {
	listing, err := p.Run(ctx, root, glob)
	if err != nil {
		return m.PathsUpdateReport{}, err
	}

	configRoot := filepath.Dir(string(root))
	report := m.PathsUpdateReport{Listing: listing}

	targets := []struct {
		path     m.Path
		paths    []m.Path
		required bool
	}{
		{p.fs.JoinPath(configRoot, defaultConfigFile), listing.Both, true},
		{p.fs.JoinPath(configRoot, teamsDirName, "workstations.yml"), listing.Devices, false},
		{p.fs.JoinPath(configRoot, teamsDirName, "dedicated-devices.yml"), listing.Devices, false},
		{p.fs.JoinPath(configRoot, teamsDirName, "it-servers.yml"), listing.Servers, false},
	}

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return m.PathsUpdateReport{}, err
		}

		if _, statErr := p.fs.FileInfo(target.path); statErr != nil {
			if target.required {
				return m.PathsUpdateReport{}, fmt.Errorf("config file %q: %w", target.path, statErr)
			}

			report.FilesSkipped = append(report.FilesSkipped, target.path)

			continue
		}

		if p.updateConfig(target.path, target.paths) {
			report.FilesUpdated = append(report.FilesUpdated, target.path)
		}
	}

	return report, nil
}

// updateConfig splices the rendered queries section into one config file.
// Returns false when the file could not be rewritten.
func (p *PathLister) updateConfig(path m.Path, paths []m.Path) bool {
	content, err := p.fs.ReadFile(path)
	if err != nil {
		slog.Warn("skipping unreadable config", "path", path, "error", err)
		return false
	}

	loc := queriesSectionPattern.FindIndex(content)
	if loc == nil {
		slog.Warn("config has no queries section", "path", path)
		return false
	}

	updated := string(content[:loc[0]]) + renderQueriesSection(paths) + string(content[loc[1]:])

	if err := p.fs.WriteFile(path, []byte(updated), filePerm(p.fs, path)); err != nil {
		slog.Warn("skipping unwritable config", "path", path, "error", err)
		return false
	}

	return true
}

// renderQueriesSection formats the paths as the YAML list the config files
// carry under their queries key.
func renderQueriesSection(paths []m.Path) string {
	var b strings.Builder

	b.WriteString("queries:\n")

	for _, path := range paths {
		fmt.Fprintf(&b, "  - path: %s\n", path)
	}

	return b.String()
}

// hasSegment reports whether the slash-separated path contains the segment.
func hasSegment(path m.Path, segment string) bool {
	for _, part := range strings.Split(string(path), "/") {
		if part == segment {
			return true
		}
	}

	return false
}

func sortPaths(paths []m.Path) {
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
}
