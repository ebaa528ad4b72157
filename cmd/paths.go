package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fleetops/queryfix/internal/domain"
)

var pathsUpdateFlag bool

// pathsCmd represents the paths command.
var pathsCmd = newPathsCmd()

func newPathsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "List query file paths grouped by device type",
		Long: `Scan the tree and print the query file paths as YAML list items, grouped
by the device-type segment of their path (both/devices/servers), prefixed
the way default.yml and the teams/ configs reference them. The default run
only prints; --update rewrites the queries sections of default.yml and the
team config files next to the tree.`,
		Args: cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return workflow.Paths(context.Background(), domain.PathsArgs{
				ScanArgs: scanArgs(),
				Update:   pathsUpdateFlag,
			})
		},
	}

	cmd.Flags().BoolVar(&pathsUpdateFlag, updateFlagName, false, "rewrite the config files instead of printing")

	return cmd
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
