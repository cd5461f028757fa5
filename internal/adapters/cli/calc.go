package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/oni-calculator/internal/application/production/queries"
	"github.com/andrescamacho/oni-calculator/internal/infrastructure/config"
)

// NewCalcCommand creates the calc command
func NewCalcCommand() *cobra.Command {
	var (
		rate        float64
		showTree    bool
		also        []string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "calc <resource>",
		Short: "Calculate the production chain for a resource",
		Long: `Resolve the buildings and raw inputs needed to produce a resource at a
given rate, and print a summary with building counts, raw intake and power.

When several buildings produce the same resource the first one in the catalog
is used, unless resolver.preferred_facilities in the config says otherwise.

Extra targets given with --also are resolved concurrently at the same rate.

Examples:
  oni-calculator calc Oxygen
  oni-calculator calc Oxygen --rate 2.5 --verbose
  oni-calculator calc Oxygen --also Hydrogen --also Power`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("rate") {
				rate = rt.cfg.Resolver.DefaultRate
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			targets := []queries.ChainTarget{{Resource: args[0], Rate: rate}}
			for _, resource := range also {
				targets = append(targets, queries.ChainTarget{Resource: resource, Rate: rate})
			}

			return runCalc(cmd.Context(), a, cmd.OutOrStdout(), targets, concurrency, showTree)
		},
	}

	cmd.Flags().Float64VarP(&rate, "rate", "r", config.DefaultCalcRate, "Target rate in kg/s")
	cmd.Flags().BoolVarP(&showTree, "verbose", "v", false, "Show the full production tree")
	cmd.Flags().StringArrayVar(&also, "also", nil, "Additional resource to calculate (repeatable)")
	cmd.Flags().IntVar(&concurrency, "concurrency", queries.DefaultChainConcurrency, "Maximum parallel resolutions")

	return cmd
}

func runCalc(
	ctx context.Context,
	a *app,
	out io.Writer,
	targets []queries.ChainTarget,
	concurrency int,
	showTree bool,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var results []*queries.CalculateChainResponse
	if len(targets) == 1 {
		response, err := a.mediator.Send(ctx, &queries.CalculateChainQuery{
			Resource: targets[0].Resource,
			Rate:     targets[0].Rate,
		})
		if err != nil {
			return err
		}
		results = append(results, response.(*queries.CalculateChainResponse))
	} else {
		response, err := a.mediator.Send(ctx, &queries.CalculateChainsQuery{
			Targets:     targets,
			Concurrency: concurrency,
		})
		if err != nil {
			return err
		}
		results = response.(*queries.CalculateChainsResponse).Results
	}

	formatter := NewChainFormatter()
	for i, result := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if showTree {
			fmt.Fprint(out, "Production chain:\n\n")
			fmt.Fprintln(out, formatter.FormatChain(result.Tree, 0))
		}
		fmt.Fprintln(out, formatter.FormatSummary(result.Summary))
	}

	return nil
}
