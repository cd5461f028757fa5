package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/oni-calculator/internal/application/production/queries"
	"github.com/andrescamacho/oni-calculator/internal/domain/production"
)

const emptyCatalogHint = "Run 'extract' or 'load-sample' first."

// NewListBuildingsCommand creates the list-buildings command
func NewListBuildingsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list-buildings",
		Short: "List all buildings in the catalog",
		Long: `List every building with its power and heat output, ordered by name.
Negative power means the building consumes power.

Example:
  oni-calculator list-buildings`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			response, err := a.mediator.Send(cmd.Context(), &queries.ListFacilitiesQuery{})
			if err != nil {
				return err
			}

			facilities := response.(*queries.ListFacilitiesResponse).Facilities
			out := cmd.OutOrStdout()
			if len(facilities) == 0 {
				fmt.Fprintf(out, "No buildings in database. %s\n", emptyCatalogHint)
				return nil
			}

			renderFacilityTable(out, facilities)
			return nil
		},
	}
}

// NewListResourcesCommand creates the list-resources command
func NewListResourcesCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list-resources",
		Short: "List resources that buildings can produce",
		Long: `List the distinct resources produced by at least one building.
With --all, resources that only appear as inputs are listed too.

Examples:
  oni-calculator list-resources
  oni-calculator list-resources --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			response, err := a.mediator.Send(cmd.Context(), &queries.ListResourcesQuery{All: all})
			if err != nil {
				return err
			}

			ids := response.(*queries.ListResourcesResponse).ResourceIDs
			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintf(out, "No resources in database. %s\n", emptyCatalogHint)
				return nil
			}

			title := "Producible resources"
			if all {
				title = "Resources"
			}
			renderResourceTable(out, title, ids)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include resources that are only consumed")

	return cmd
}

// NewBuildingCommand creates the building command
func NewBuildingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "building <id>",
		Short: "Show details for a building",
		Long: `Show a building's power, heat, inputs and outputs.

Example:
  oni-calculator building Electrolyzer`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			response, err := a.mediator.Send(cmd.Context(), &queries.GetFacilityQuery{FacilityID: args[0]})
			if err != nil {
				var notFound *production.ErrFacilityNotFound
				if errors.As(err, &notFound) {
					fmt.Fprintf(out, "Building '%s' not found\n", args[0])
					return nil
				}
				return err
			}

			printFacilityDetail(out, response.(*queries.GetFacilityResponse))
			return nil
		},
	}
}

func renderFacilityTable(out io.Writer, facilities []production.Facility) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Building", "Power (W)", "Heat (DTU/s)"})
	for _, f := range facilities {
		t.AppendRow(table.Row{
			f.Name,
			fmt.Sprintf("%.0f", f.PowerWatts),
			fmt.Sprintf("%.0f", f.HeatOutputDTU),
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})

	t.SetStyle(listStyle())
	t.Render()
}

func renderResourceTable(out io.Writer, title string, ids []string) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Resource"})
	for _, id := range ids {
		t.AppendRow(table.Row{id})
	}

	t.SetStyle(listStyle())
	t.Render()
}

// listStyle is a borderless light table that keeps header case as written
func listStyle() table.Style {
	style := table.StyleLight
	style.Options.DrawBorder = false
	style.Format.Header = text.FormatDefault
	return style
}

func printFacilityDetail(out io.Writer, detail *queries.GetFacilityResponse) {
	f := detail.Facility
	fmt.Fprintf(out, "Building: %s\n", f.Name)
	fmt.Fprintf(out, "  ID: %s\n", f.ID)
	if f.Category != "" {
		fmt.Fprintf(out, "  Category: %s\n", f.Category)
	}
	fmt.Fprintf(out, "  Power: %vW\n", f.PowerWatts)
	fmt.Fprintf(out, "  Heat: %v DTU/s\n", f.HeatOutputDTU)
	if f.ConstructionTimeSeconds > 0 {
		fmt.Fprintf(out, "  Construction time: %vs\n", f.ConstructionTimeSeconds)
	}

	if len(detail.Inputs) > 0 {
		fmt.Fprintln(out, "  Inputs:")
		for _, input := range detail.Inputs {
			fmt.Fprintf(out, "    %s @ %v kg/s\n", input.ResourceID, input.RateKgPerSecond)
		}
	}

	if len(detail.Outputs) > 0 {
		fmt.Fprintln(out, "  Outputs:")
		for _, output := range detail.Outputs {
			fmt.Fprintf(out, "    %s @ %v kg/s\n", output.ResourceID, output.RateKgPerSecond)
		}
	}
}
