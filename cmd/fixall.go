package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fleetops/queryfix/internal/domain"
	m "github.com/fleetops/queryfix/internal/model"
)

// fixAllCmd represents the fix-all command.
var fixAllCmd = newFixAllCmd()

func newFixAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fix-all",
		Short: "Apply the full platform normalization table",
		Long: `Apply the fixed rewrite table in order: posix -> "darwin, linux",
gentoo -> linux, macos -> darwin, all -> "darwin, linux, windows".
Each rule is idempotent, so re-running after a successful pass is a no-op.`,
		Args: cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return workflow.FixAll(context.Background(), domain.FixAllArgs{
				ScanArgs: scanArgs(),
				Rules:    m.DefaultRewriteRules,
				DryRun:   viper.GetBool(dryRunFlagName),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(fixAllCmd)
}
