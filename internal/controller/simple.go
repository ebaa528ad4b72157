package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/fleetops/queryfix/internal/model"
)

// SimpleUI implements UI with plain text written to the cobra command's
// stdout. Frequency listings are rendered with tablewriter.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayPlatformReport prints the frequency table and the invalid-value
// listing.
func (s *SimpleUI) DisplayPlatformReport(ctx context.Context, report m.PlatformReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s", RenderPlatformReport(report))

	return nil
}

// DisplayFixResults prints one summary line per applied rule.
func (s *SimpleUI) DisplayFixResults(ctx context.Context, results []m.FixResult, dryRun bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	suffix := ""
	if dryRun {
		suffix = " (dry run)"
	}

	for _, result := range results {
		s.printf("platform: %s -> %s: %d file(s), %d line(s)%s\n",
			result.Rule.Old, result.Rule.New, result.FilesChanged, result.LinesChanged, suffix)
	}

	return nil
}

// DisplayLintReport prints per-finding lines and a summary block.
func (s *SimpleUI) DisplayLintReport(ctx context.Context, report m.LintReport, applied bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, ref := range report.YaraQueries {
		s.printf("YARA: %s - %s\n", ref.File, ref.Name)
	}

	for _, ref := range report.MissingSQL {
		s.printf("NO SQL: %s - %s\n", ref.File, ref.Name)
	}

	for _, fix := range report.IntervalFixes {
		s.printf("INTERVAL: %s - %s (%s -> %d)\n", fix.Ref.File, fix.Ref.Name, fix.Old, fix.New)
	}

	s.printf("\nSummary:\n")
	s.printf("  Files scanned: %d\n", report.FilesScanned)
	s.printf("  YARA queries: %d\n", len(report.YaraQueries))
	s.printf("  Queries without SQL: %d\n", len(report.MissingSQL))
	s.printf("  Interval types fixed: %d\n", len(report.IntervalFixes))

	if applied {
		s.printf("  Files modified: %d\n", report.FilesModified)
		s.printf("  Files deleted: %d\n", report.FilesDeleted)
	} else {
		s.printf("\nReport only. Run with --fix to apply changes.\n")
	}

	return nil
}

// DisplayDedupeReport prints keep/remove decisions and a summary block.
func (s *SimpleUI) DisplayDedupeReport(ctx context.Context, report m.DedupeReport, applied bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, decision := range report.Decisions {
		s.printf("\n%s:\n", decision.Name)
		s.printf("  KEEP: %s\n", decision.Keep.File)

		for _, ref := range decision.Remove {
			s.printf("  REMOVE: %s\n", ref.File)
		}

		for _, ref := range decision.Distinct {
			s.printf("  DIFFERENT SQL: %s\n", ref.File)
		}
	}

	s.printf("\nSummary:\n")
	s.printf("  Files scanned: %d\n", report.FilesScanned)
	s.printf("  Names with duplicates: %d\n", len(report.Decisions))
	s.printf("  Queries removed: %d\n", report.Removed)

	if applied {
		s.printf("  Files modified: %d\n", report.FilesModified)
		s.printf("  Files deleted: %d\n", report.FilesDeleted)
	} else {
		s.printf("\nReport only. Run with --fix to apply changes.\n")
	}

	return nil
}

// DisplayConvertReport prints the converted files and a summary block.
func (s *SimpleUI) DisplayConvertReport(ctx context.Context, report m.ConvertReport, applied bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	verb := "Would convert"
	if applied {
		verb = "Converted"
	}

	for _, path := range report.FilesConverted {
		s.printf("%s: %s\n", verb, path)
	}

	s.printf("\nSummary:\n")
	s.printf("  Files scanned: %d\n", report.FilesScanned)
	s.printf("  Legacy files: %d\n", len(report.FilesConverted))
	s.printf("  Queries kept: %d\n", report.QueriesKept)

	if !applied {
		s.printf("\nReport only. Run with --fix to apply changes.\n")
	}

	return nil
}

// DisplayPathsListing prints the grouped path list items ready to paste into
// team config files.
func (s *SimpleUI) DisplayPathsListing(ctx context.Context, listing m.PathsListing) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	groups := []struct {
		name  string
		paths []m.Path
	}{
		{"both", listing.Both},
		{"devices", listing.Devices},
		{"servers", listing.Servers},
	}

	for _, group := range groups {
		s.printf("# %s (%d)\n", group.name, len(group.paths))

		for _, path := range group.paths {
			s.printf("  - path: %s\n", path)
		}
	}

	return nil
}

// DisplayPathsUpdate prints which config files were rewritten from the
// fresh listing.
func (s *SimpleUI) DisplayPathsUpdate(ctx context.Context, report m.PathsUpdateReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("Found %d 'both' queries\n", len(report.Listing.Both))
	s.printf("Found %d 'devices' queries\n", len(report.Listing.Devices))
	s.printf("Found %d 'servers' queries\n\n", len(report.Listing.Servers))

	for _, path := range report.FilesUpdated {
		s.printf("Updated: %s\n", path)
	}

	for _, path := range report.FilesSkipped {
		s.printf("Skipped (not found): %s\n", path)
	}

	s.printf("\nDone! Config files updated.\n")

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

// RenderPlatformReport renders the frequency and invalid-value tables to a
// string so the pager UI can reuse the same layout.
func RenderPlatformReport(report m.PlatformReport) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Platform", "Count"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	total := 0

	for _, entry := range report.Counts {
		table.Append([]string{entry.Value, fmt.Sprintf("%d", entry.Count)})
		total += entry.Count
	}

	table.SetFooter([]string{
		fmt.Sprintf("Files %d", report.FilesScanned),
		fmt.Sprintf("%d", total),
	})

	table.Render()

	if len(report.Invalid) == 0 {
		fmt.Fprintf(&buf, "\nNo invalid platform values.\n")
		return buf.String()
	}

	fmt.Fprintf(&buf, "\nInvalid platform values:\n")

	for _, entry := range report.Invalid {
		fmt.Fprintf(&buf, "  %s (%d)\n", entry.Value, entry.Count)
	}

	return buf.String()
}
