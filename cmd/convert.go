package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fleetops/queryfix/internal/domain"
)

var convertFixFlag bool

// convertCmd represents the convert command.
var convertCmd = newConvertCmd()

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert legacy fleetctl files to the GitOps list format",
		Long: `Find files still in the legacy apiVersion/kind/spec format and rewrite
them as a flat query list, keeping only the known query fields. Files
already in list format are left untouched. The default run only reports;
--fix rewrites the files.`,
		Args: cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return workflow.Convert(context.Background(), domain.ConvertArgs{
				ScanArgs: scanArgs(),
				Apply:    convertFixFlag,
			})
		},
	}

	cmd.Flags().BoolVar(&convertFixFlag, fixFlagName, false, "apply the conversion instead of reporting")

	return cmd
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
