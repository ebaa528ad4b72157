package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fleetops/queryfix/internal/domain"
)

// reportCmd represents the report command.
var reportCmd = newReportCmd()

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Report distinct platform values across the query tree",
		Long: `Scan every query file and list the distinct platform values by descending
frequency. Values with tokens outside the allowlist (darwin, linux,
windows, chrome) are listed separately. Read-only.`,
		Args: cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return workflow.Report(context.Background(), domain.ReportArgs{
				ScanArgs: scanArgs(),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
