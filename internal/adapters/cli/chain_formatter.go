package cli

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/oni-calculator/internal/domain/production"
)

// indentUnit is the prefix added per indentation level
const indentUnit = "  "

// ChainFormatter renders production trees and summaries as plain text
type ChainFormatter struct{}

// NewChainFormatter creates a new chain formatter
func NewChainFormatter() *ChainFormatter {
	return &ChainFormatter{}
}

// FormatChain renders a production tree starting at the given indentation level.
//
// Each upstream is rendered two levels deeper than the facility that needs it,
// so it lines up under that facility's "needs" line. Inputs without an
// upstream render only their "needs" line.
func (f *ChainFormatter) FormatChain(node *production.ProductionNode, indent int) string {
	if node == nil {
		return ""
	}

	var builder strings.Builder
	f.formatNode(&builder, node, indent)
	return builder.String()
}

func (f *ChainFormatter) formatNode(builder *strings.Builder, node *production.ProductionNode, indent int) {
	prefix := strings.Repeat(indentUnit, indent)

	if node.IsRaw() {
		for _, input := range node.Inputs {
			fmt.Fprintf(builder, "%s→ %s @ %.3f kg/s (raw input)\n", prefix, input.ResourceID, input.RateKgPerSecond)
		}
		return
	}

	fmt.Fprintf(builder, "%s%.2fx %s (%s)\n", prefix, node.Count, node.FacilityName, powerPhrase(node.PowerWatts))

	for _, input := range node.Inputs {
		fmt.Fprintf(builder, "%s%sneeds %s @ %.3f kg/s\n", prefix, indentUnit, input.ResourceID, input.RateKgPerSecond)
		if input.HasUpstream() {
			f.formatNode(builder, input.Upstream, indent+2)
		}
	}
}

// FormatSummary renders the production summary block
func (f *ChainFormatter) FormatSummary(summary *production.ChainSummary) string {
	var builder strings.Builder

	builder.WriteString("=== Production Summary ===\n")
	fmt.Fprintf(&builder, "Target: %s @ %.3f kg/s\n", summary.TargetResource, summary.TargetRate)
	builder.WriteString("\n")

	builder.WriteString("Buildings required:\n")
	for _, entry := range summary.FacilityCounts {
		fmt.Fprintf(&builder, "  %.2fx %s\n", entry.Amount, entry.Name)
	}
	builder.WriteString("\n")

	builder.WriteString("Raw inputs required:\n")
	for _, entry := range summary.RawInputs {
		fmt.Fprintf(&builder, "  %s @ %.3f kg/s\n", entry.Name, entry.Amount)
	}
	builder.WriteString("\n")

	builder.WriteString("Power:\n")
	fmt.Fprintf(&builder, "  Consumption: %.0fW\n", summary.TotalPowerConsumption)
	fmt.Fprintf(&builder, "  Generation:  %.0fW\n", summary.TotalPowerGeneration)
	fmt.Fprintf(&builder, "  Net:         %.0fW\n", summary.NetPower)

	return builder.String()
}

func powerPhrase(watts float64) string {
	switch {
	case watts < 0:
		return fmt.Sprintf("consumes %.0fW", -watts)
	case watts > 0:
		return fmt.Sprintf("generates %.0fW", watts)
	default:
		return "no power"
	}
}
