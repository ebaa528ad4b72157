package domain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fleetops/queryfix/internal/adapter"
	"github.com/fleetops/queryfix/internal/controller"
	m "github.com/fleetops/queryfix/internal/model"
)

// ScanArgs selects the file set every operation works on. The set is
// recomputed on each run; nothing is persisted between invocations beyond
// the rewritten files themselves.
type ScanArgs struct {
	Root m.Path
	Glob string
}

// ReportArgs parameterizes the platform frequency report.
type ReportArgs struct {
	ScanArgs
}

// FixArgs parameterizes a single-rule rewrite.
type FixArgs struct {
	ScanArgs
	Rule   m.RewriteRule
	DryRun bool
}

// FixAllArgs parameterizes the full rule-table rewrite.
type FixAllArgs struct {
	ScanArgs
	Rules  []m.RewriteRule
	DryRun bool
}

// LintArgs parameterizes the lint pass.
type LintArgs struct {
	ScanArgs
	Apply bool
}

// DedupeArgs parameterizes the dedupe pass.
type DedupeArgs struct {
	ScanArgs
	Similarity float64
	Apply      bool
}

// ConvertArgs parameterizes the legacy-format conversion pass.
type ConvertArgs struct {
	ScanArgs
	Apply bool
}

// PathsArgs parameterizes the path listing. With Update set the listing is
// written into the config files next to the query tree instead of printed.
type PathsArgs struct {
	ScanArgs
	Update bool
}

// Workflow is the use-case layer the CLI commands delegate to. Every
// operation is a stateless sequential pass over the file set.
type Workflow interface {
	Report(ctx context.Context, args ReportArgs) error
	Fix(ctx context.Context, args FixArgs) error
	FixAll(ctx context.Context, args FixAllArgs) error
	Lint(ctx context.Context, args LintArgs) error
	Dedupe(ctx context.Context, args DedupeArgs) error
	Convert(ctx context.Context, args ConvertArgs) error
	Paths(ctx context.Context, args PathsArgs) error
}

type workflow struct {
	fs         adapter.QueryFSAdapter
	ui         controller.UI
	normalizer *Normalizer
	linter     *Linter
	deduper    *Deduper
	converter  *Converter
	lister     *PathLister
}

// NewWorkflow creates a Workflow wired to the provided adapters and UI.
func NewWorkflow(fs adapter.QueryFSAdapter, codec adapter.QueryCodec, ui controller.UI) Workflow {
	return &workflow{
		fs:         fs,
		ui:         ui,
		normalizer: NewNormalizer(fs),
		linter:     NewLinter(fs, codec),
		deduper:    NewDeduper(fs, codec),
		converter:  NewConverter(fs, codec),
		lister:     NewPathLister(fs),
	}
}

// checkRoot verifies the scan root exists and is a directory. A missing root
// is the only fatal startup condition.
func (w *workflow) checkRoot(root m.Path) error {
	info, err := w.fs.FileInfo(root)
	if err != nil {
		return fmt.Errorf("query root %q: %w", root, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("query root %q is not a directory", root)
	}

	return nil
}

func (w *workflow) Report(ctx context.Context, args ReportArgs) error {
	if err := w.checkRoot(args.Root); err != nil {
		return err
	}

	report, err := w.normalizer.Report(ctx, args.Root, args.Glob)
	if err != nil {
		slog.Error("platform report failed", "root", args.Root, "error", err)
		return err
	}

	slog.Info("platform report complete",
		"root", args.Root,
		"files", report.FilesScanned,
		"distinct", len(report.Counts),
		"invalid", len(report.Invalid),
	)

	return w.ui.DisplayPlatformReport(ctx, report)
}

func (w *workflow) Fix(ctx context.Context, args FixArgs) error {
	if err := w.checkRoot(args.Root); err != nil {
		return err
	}

	result, err := w.normalizer.Fix(ctx, args.Root, args.Glob, args.Rule, args.DryRun)
	if err != nil {
		slog.Error("platform fix failed", "rule", args.Rule.Old, "error", err)
		return err
	}

	slog.Info("platform fix complete",
		"old", args.Rule.Old,
		"new", args.Rule.New,
		"files_changed", result.FilesChanged,
		"dry_run", args.DryRun,
	)

	return w.ui.DisplayFixResults(ctx, []m.FixResult{result}, args.DryRun)
}

func (w *workflow) FixAll(ctx context.Context, args FixAllArgs) error {
	if err := w.checkRoot(args.Root); err != nil {
		return err
	}

	rules := args.Rules
	if len(rules) == 0 {
		rules = m.DefaultRewriteRules
	}

	results, err := w.normalizer.FixAll(ctx, args.Root, args.Glob, rules, args.DryRun)
	if err != nil {
		slog.Error("platform fix-all failed", "error", err)
		return err
	}

	return w.ui.DisplayFixResults(ctx, results, args.DryRun)
}

func (w *workflow) Lint(ctx context.Context, args LintArgs) error {
	if err := w.checkRoot(args.Root); err != nil {
		return err
	}

	report, err := w.linter.Run(ctx, args.Root, args.Glob, args.Apply)
	if err != nil {
		slog.Error("lint failed", "root", args.Root, "error", err)
		return err
	}

	return w.ui.DisplayLintReport(ctx, report, args.Apply)
}

func (w *workflow) Dedupe(ctx context.Context, args DedupeArgs) error {
	if err := w.checkRoot(args.Root); err != nil {
		return err
	}

	report, err := w.deduper.Run(ctx, args.Root, args.Glob, args.Similarity, args.Apply)
	if err != nil {
		slog.Error("dedupe failed", "root", args.Root, "error", err)
		return err
	}

	return w.ui.DisplayDedupeReport(ctx, report, args.Apply)
}

func (w *workflow) Convert(ctx context.Context, args ConvertArgs) error {
	if err := w.checkRoot(args.Root); err != nil {
		return err
	}

	report, err := w.converter.Run(ctx, args.Root, args.Glob, args.Apply)
	if err != nil {
		slog.Error("convert failed", "root", args.Root, "error", err)
		return err
	}

	return w.ui.DisplayConvertReport(ctx, report, args.Apply)
}

func (w *workflow) Paths(ctx context.Context, args PathsArgs) error {
	if err := w.checkRoot(args.Root); err != nil {
		return err
	}

	if args.Update {
		report, err := w.lister.Update(ctx, args.Root, args.Glob)
		if err != nil {
			slog.Error("path update failed", "root", args.Root, "error", err)
			return err
		}

		slog.Info("path update complete",
			"root", args.Root,
			"updated", len(report.FilesUpdated),
			"skipped", len(report.FilesSkipped),
		)

		return w.ui.DisplayPathsUpdate(ctx, report)
	}

	listing, err := w.lister.Run(ctx, args.Root, args.Glob)
	if err != nil {
		slog.Error("path listing failed", "root", args.Root, "error", err)
		return err
	}

	return w.ui.DisplayPathsListing(ctx, listing)
}
