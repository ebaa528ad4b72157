package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fleetops/queryfix/internal/domain"
	m "github.com/fleetops/queryfix/internal/model"
)

// fixCmd represents the fix command.
var fixCmd = newFixCmd()

func newFixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fix OLD NEW",
		Short: "Rewrite one platform value across the query tree",
		Long: `Rewrite every platform line whose value exactly matches OLD to NEW, in
place. The match is against the whole value after "platform:", never a
substring. Unwritable files are logged and skipped.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.Fix(context.Background(), domain.FixArgs{
				ScanArgs: scanArgs(),
				Rule:     m.RewriteRule{Old: args[0], New: args[1]},
				DryRun:   viper.GetBool(dryRunFlagName),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(fixCmd)
}
