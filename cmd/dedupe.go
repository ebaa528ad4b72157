package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fleetops/queryfix/internal/domain"
)

var dedupeFixFlag bool
var dedupeSimilarityFlag float64

// dedupeCmd represents the dedupe command.
var dedupeCmd = newDedupeCmd()

func newDedupeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Remove duplicated queries across the tree",
		Long: `Group queries by name, confirm true duplicates by SQL similarity, and keep
the copy from the best-ranked source and category. The default run only
reports the keep/remove decisions; --fix removes the losers in place.`,
		Args: cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return workflow.Dedupe(context.Background(), domain.DedupeArgs{
				ScanArgs:   scanArgs(),
				Similarity: viper.GetFloat64(dedupeSimilarityKey),
				Apply:      dedupeFixFlag,
			})
		},
	}

	cmd.Flags().BoolVar(&dedupeFixFlag, fixFlagName, false, "apply the removals instead of reporting")
	cmd.Flags().Float64Var(&dedupeSimilarityFlag, similarityFlagName, defaultSimilarity, "SQL similarity threshold confirming a duplicate (0-1)")
	bindFlagToConfig(cmd.Flags().Lookup(similarityFlagName), dedupeSimilarityKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(dedupeCmd)
}
