package controller

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/fleetops/queryfix/internal/model"
)

func newBufferedUI() (*SimpleUI, *bytes.Buffer) {
	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	cmd.SetOut(out)

	return NewSimpleUI(cmd), out
}

func TestRenderPlatformReport_TableAndInvalid(t *testing.T) {
	report := m.PlatformReport{
		FilesScanned: 3,
		Counts: []m.PlatformCount{
			{Value: "darwin", Count: 5},
			{Value: "posix", Count: 2},
		},
		Invalid: []m.PlatformCount{
			{Value: "posix", Count: 2},
		},
	}

	rendered := RenderPlatformReport(report)

	assert.Contains(t, rendered, "darwin")
	assert.Contains(t, rendered, "posix")
	assert.Contains(t, rendered, "Invalid platform values:")
	assert.Contains(t, rendered, "posix (2)")
	// tablewriter uppercases the footer cells.
	assert.Contains(t, rendered, "FILES 3")
}

func TestRenderPlatformReport_NoInvalid(t *testing.T) {
	report := m.PlatformReport{
		FilesScanned: 1,
		Counts:       []m.PlatformCount{{Value: "linux", Count: 1}},
	}

	rendered := RenderPlatformReport(report)

	assert.Contains(t, rendered, "No invalid platform values.")
	assert.NotContains(t, rendered, "Invalid platform values:")
}

func TestSimpleUI_DisplayFixResults(t *testing.T) {
	ui, out := newBufferedUI()

	results := []m.FixResult{
		{Rule: m.RewriteRule{Old: "posix", New: "darwin, linux"}, FilesChanged: 2, LinesChanged: 3},
	}

	err := ui.DisplayFixResults(context.Background(), results, false)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "posix -> darwin, linux")
	assert.Contains(t, out.String(), "2 file(s)")
	assert.NotContains(t, out.String(), "dry run")
}

func TestSimpleUI_DisplayFixResults_DryRun(t *testing.T) {
	ui, out := newBufferedUI()

	results := []m.FixResult{
		{Rule: m.RewriteRule{Old: "macos", New: "darwin"}, FilesChanged: 1, LinesChanged: 1},
	}

	err := ui.DisplayFixResults(context.Background(), results, true)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "(dry run)")
}

func TestSimpleUI_DisplayLintReport(t *testing.T) {
	ui, out := newBufferedUI()

	report := m.LintReport{
		FilesScanned: 4,
		YaraQueries:  []m.QueryRef{{File: "a.yml", Name: "yara_scan"}},
		MissingSQL:   []m.QueryRef{{File: "b.yml", Name: "empty"}},
		IntervalFixes: []m.IntervalFix{
			{Ref: m.QueryRef{File: "c.yml", Name: "iv"}, Old: "3600", New: 3600},
		},
	}

	err := ui.DisplayLintReport(context.Background(), report, false)
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "YARA: a.yml - yara_scan")
	assert.Contains(t, output, "NO SQL: b.yml - empty")
	assert.Contains(t, output, "INTERVAL: c.yml - iv (3600 -> 3600)")
	assert.Contains(t, output, "Run with --fix")
}

func TestSimpleUI_DisplayDedupeReport_Applied(t *testing.T) {
	ui, out := newBufferedUI()

	report := m.DedupeReport{
		Decisions: []m.DedupeDecision{
			{
				Name:   "startup_items",
				Keep:   m.QueryRef{File: "good.yml"},
				Remove: []m.QueryRef{{File: "dup.yml"}},
			},
		},
		Removed:       1,
		FilesModified: 1,
	}

	err := ui.DisplayDedupeReport(context.Background(), report, true)
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "KEEP: good.yml")
	assert.Contains(t, output, "REMOVE: dup.yml")
	assert.Contains(t, output, "Files modified: 1")
	assert.NotContains(t, output, "Run with --fix")
}

func TestSimpleUI_DisplayPathsListing(t *testing.T) {
	ui, out := newBufferedUI()

	listing := m.PathsListing{
		Both:    []m.Path{"darwin/both/queries/a.yml"},
		Devices: []m.Path{"darwin/devices/queries/b.yml"},
	}

	err := ui.DisplayPathsListing(context.Background(), listing)
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "# both (1)")
	assert.Contains(t, output, "  - path: darwin/both/queries/a.yml")
	assert.Contains(t, output, "# devices (1)")
	assert.Contains(t, output, "# servers (0)")
}

func TestSimpleUI_DisplayPathsUpdate(t *testing.T) {
	ui, out := newBufferedUI()

	report := m.PathsUpdateReport{
		Listing: m.PathsListing{
			Both:    []m.Path{"lib/darwin/both/queries/a.yml"},
			Devices: []m.Path{"../lib/darwin/devices/queries/b.yml"},
		},
		FilesUpdated: []m.Path{"default.yml", "teams/workstations.yml"},
		FilesSkipped: []m.Path{"teams/it-servers.yml"},
	}

	err := ui.DisplayPathsUpdate(context.Background(), report)
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "Found 1 'both' queries")
	assert.Contains(t, output, "Found 1 'devices' queries")
	assert.Contains(t, output, "Found 0 'servers' queries")
	assert.Contains(t, output, "Updated: default.yml")
	assert.Contains(t, output, "Updated: teams/workstations.yml")
	assert.Contains(t, output, "Skipped (not found): teams/it-servers.yml")
	assert.Contains(t, output, "Done! Config files updated.")
}

func TestSimpleUI_CancelledContext(t *testing.T) {
	ui, out := newBufferedUI()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ui.DisplayPlatformReport(ctx, m.PlatformReport{})
	require.Error(t, err)
	assert.Empty(t, out.String())
}
