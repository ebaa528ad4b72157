// Package cmd provides the root command and CLI setup for queryfix.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/fleetops/queryfix/internal/adapter"
	"github.com/fleetops/queryfix/internal/controller"
	"github.com/fleetops/queryfix/internal/domain"
	m "github.com/fleetops/queryfix/internal/model"
)

var fsAdapter adapter.QueryFSAdapter
var queryCodec adapter.QueryCodec
var ui controller.UI
var workflow domain.Workflow

// queryDirFlag is a root-level flag selecting the query tree to scan.
var queryDirFlag string

// queryGlobFlag is a root-level flag selecting which files count as query files.
var queryGlobFlag string

// dryRunFlag reports changes without writing any file when set.
var dryRunFlag bool

// verboseFlag raises the log level to debug.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalQueryFSAdapter()
	queryCodec = adapter.NewYAMLQueryCodec()
	workflow = domain.NewWorkflow(fsAdapter, queryCodec, ui)
}

const rootLongDescription = `Queryfix maintains a GitOps tree of osquery query files. It reports the
distinct platform values in use, rewrites invalid values to the canonical
tokens (darwin, linux, windows, chrome), and carries the housekeeping
passes the query library needs: lint, dedupe, convert, paths.

All passes scan the tree fresh on every run; nothing is persisted between
runs beyond the rewritten files themselves.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queryfix",
		Short: "Maintain a GitOps osquery query tree",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&queryDirFlag, dirFlagName, "d",
			defaultQueryRoot,
			"root directory of the query tree",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(dirFlagName), dirFlagName)

	cmd.PersistentFlags().
		StringVarP(
			&queryGlobFlag, globFlagName, "g",
			defaultQueryFileGlob,
			"glob matched against file names to select query files",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(globFlagName), globFlagName)

	cmd.PersistentFlags().BoolVarP(&dryRunFlag, dryRunFlagName, "n", defaultDryRun, "report changes without writing any file")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(dryRunFlagName), dryRunFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "log at debug level")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// scanArgs resolves the shared scan parameters from config/flags.
func scanArgs() domain.ScanArgs {
	return domain.ScanArgs{
		Root: m.Path(viper.GetString(dirFlagName)),
		Glob: viper.GetString(globFlagName),
	}
}
