// Package controller provides output adapters for displaying scan results.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "github.com/fleetops/queryfix/internal/model"
)

// UI defines the interface for displaying scan and rewrite results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	DisplayPlatformReport(ctx context.Context, report m.PlatformReport) error
	DisplayFixResults(ctx context.Context, results []m.FixResult, dryRun bool) error
	DisplayLintReport(ctx context.Context, report m.LintReport, applied bool) error
	DisplayDedupeReport(ctx context.Context, report m.DedupeReport, applied bool) error
	DisplayConvertReport(ctx context.Context, report m.ConvertReport, applied bool) error
	DisplayPathsListing(ctx context.Context, listing m.PathsListing) error
	DisplayPathsUpdate(ctx context.Context, report m.PathsUpdateReport) error
}

// NewUI selects the UI implementation: the interactive pager when stdout is
// a terminal, plain output otherwise.
func NewUI(cmd *cobra.Command, interactive bool) UI {
	if interactive {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
