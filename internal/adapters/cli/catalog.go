package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/oni-calculator/internal/adapters/catalogfile"
	"github.com/andrescamacho/oni-calculator/internal/application/production/commands"
	"github.com/andrescamacho/oni-calculator/internal/application/production/queries"
	"github.com/andrescamacho/oni-calculator/internal/domain/production"
)

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the catalog database",
		Long: `Create the catalog schema. Existing data is kept.

Example:
  oni-calculator init
  oni-calculator --database /tmp/oni.db init`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Database initialized at: %s\n", databaseLocation(&rt.cfg.Database))
			return nil
		},
	}
}

// NewLoadSampleCommand creates the load-sample command
func NewLoadSampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load-sample",
		Short: "Replace the catalog with the bundled sample buildings",
		Long: `Clear the catalog and load seven well-known buildings (Electrolyzer,
Hydrogen Generator, Coal Generator, Water Sieve, Metal Refinery, Algae
Terrarium and Natural Gas Generator) for testing without game sources.

Example:
  oni-calculator load-sample`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := catalogfile.Sample()
			if err != nil {
				return err
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			response, err := a.mediator.Send(cmd.Context(), &commands.ImportCatalogCommand{
				Snapshot: snapshot,
				Clear:    true,
				Source:   "sample",
			})
			if err != nil {
				return err
			}

			result := response.(*commands.ImportCatalogResponse)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Loaded %d sample buildings\n", result.Facilities)
			fmt.Fprintln(out, "Sample data loaded successfully!")
			return nil
		},
	}
}

// NewImportCommand creates the import command
func NewImportCommand() *cobra.Command {
	var clearFirst bool

	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import buildings from a YAML catalog file",
		Long: `Read a YAML catalog document and write its buildings into the catalog.

Buildings already present are replaced together with their inputs and
outputs; other buildings are left alone. Use --clear to start from an empty
catalog. The whole import is one transaction. Rates must be non-negative.

Examples:
  oni-calculator import catalog.yaml
  oni-calculator import catalog.yaml --clear`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := catalogfile.Load(args[0])
			if err != nil {
				return err
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			response, err := a.mediator.Send(cmd.Context(), &commands.ImportCatalogCommand{
				Snapshot: snapshot,
				Clear:    clearFirst,
				Source:   args[0],
			})
			if err != nil {
				return err
			}

			result := response.(*commands.ImportCatalogResponse)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d buildings (%d inputs, %d outputs) from %s\n",
				result.Facilities, result.Inputs, result.Outputs, args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearFirst, "clear", false, "Clear existing data before importing")

	return cmd
}

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.yaml>",
		Short: "Export the catalog to a YAML file",
		Long: `Write every building with its inputs and outputs to a YAML catalog document
that 'import' can read back.

Example:
  oni-calculator export catalog.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			response, err := a.mediator.Send(cmd.Context(), &queries.ExportCatalogQuery{})
			if err != nil {
				return err
			}

			snapshot := response.(*production.CatalogSnapshot)
			if err := catalogfile.Save(args[0], snapshot); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d buildings to %s\n", len(snapshot.Facilities), args[0])
			return nil
		},
	}
}

// NewClearCommand creates the clear command
func NewClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all catalog data",
		Long: `Delete every building, input, output and resource from the catalog.

Example:
  oni-calculator clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.mediator.Send(cmd.Context(), &commands.ClearCatalogCommand{}); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Catalog cleared")
			return nil
		},
	}
}

// NewExtractCommand creates the extract command
func NewExtractCommand() *cobra.Command {
	var clearFirst bool

	cmd := &cobra.Command{
		Use:   "extract <source-dir>",
		Short: "Extract building data from decompiled game sources",
		Long: `Scan a directory of decompiled C# sources for building configs
(*Config.cs files implementing IBuildingConfig) and write the power, heat,
inputs and outputs found into the catalog.

Extraction is heuristic: buildings whose values are computed at runtime may be
missing inputs or outputs.

Examples:
  oni-calculator extract ./Assembly-CSharp
  oni-calculator extract ./Assembly-CSharp --clear`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if clearFirst {
				fmt.Fprintln(out, "Clearing existing data...")
			}

			response, err := a.mediator.Send(cmd.Context(), &commands.ExtractCatalogCommand{
				SourceDir: args[0],
				Clear:     clearFirst,
			})
			if err != nil {
				return err
			}

			result := response.(*commands.ExtractCatalogResponse)
			fmt.Fprintf(out, "\n%s\n", result.Stats)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearFirst, "clear", false, "Clear existing data before extracting")

	return cmd
}
