package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fleetops/queryfix/internal/domain"
)

var lintFixFlag bool

// lintCmd represents the lint command.
var lintCmd = newLintCmd()

func newLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Find queries that break GitOps applies",
		Long: `Check every query document for YARA-style $variables in SQL, missing SQL,
and string-typed interval values. The default run only reports; --fix drops
the offending queries, coerces intervals to integers, and rewrites the
files, deleting files left without queries.`,
		Args: cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return workflow.Lint(context.Background(), domain.LintArgs{
				ScanArgs: scanArgs(),
				Apply:    lintFixFlag,
			})
		},
	}

	cmd.Flags().BoolVar(&lintFixFlag, fixFlagName, false, "apply the fixes instead of reporting")

	return cmd
}

func init() {
	rootCmd.AddCommand(lintCmd)
}
