package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath   string
	databasePath string
	debug        bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "oni-calculator",
		Short: "Oxygen Not Included production chain calculator",
		Long: `oni-calculator answers "to produce resource R at rate X, which buildings
and raw inputs do I need, and what is the power budget?"

Building data lives in a local catalog database. Fill it with the bundled
sample, a YAML catalog file, or by extracting it from decompiled game sources.

Examples:
  oni-calculator init
  oni-calculator load-sample
  oni-calculator calc Oxygen --rate 1.0 --verbose
  oni-calculator calc Oxygen --also Hydrogen --also Power
  oni-calculator extract ./Assembly-CSharp --clear
  oni-calculator list-buildings
  oni-calculator building Electrolyzer
  oni-calculator export catalog.yaml`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupRuntime(cmd)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml or ./configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&databasePath, "database", "",
		"Path to the SQLite catalog database (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug logging")

	// Catalog population
	rootCmd.AddCommand(NewInitCommand())
	rootCmd.AddCommand(NewLoadSampleCommand())
	rootCmd.AddCommand(NewExtractCommand())
	rootCmd.AddCommand(NewImportCommand())
	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewClearCommand())

	// Browsing and calculation
	rootCmd.AddCommand(NewListBuildingsCommand())
	rootCmd.AddCommand(NewListResourcesCommand())
	rootCmd.AddCommand(NewBuildingCommand())
	rootCmd.AddCommand(NewCalcCommand())

	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// run executes the command tree, then exports metrics and flushes the logger
// whether or not the command failed
func run(ctx context.Context, rootCmd *cobra.Command) error {
	err := rootCmd.ExecuteContext(ctx)
	if teardownErr := teardownRuntime(); err == nil {
		err = teardownErr
	}
	return err
}

// Execute runs the root command
func Execute() {
	if err := run(context.Background(), NewRootCommand()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
