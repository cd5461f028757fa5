package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/oni-calculator/internal/domain/production"
)

func electrolyzerTree() *production.ProductionNode {
	sieve := &production.ProductionNode{
		FacilityID:   "WaterPurifier",
		FacilityName: "Water Sieve",
		Count:        0.2,
		PowerWatts:   -24,
		Inputs: []production.InputRequirement{
			production.ResolvedInput("DirtyWater", 1.0, production.NewRawResourceNode("DirtyWater", 1.0)),
			production.UnresolvedInput("Sand", 0.2, nil),
		},
	}

	return &production.ProductionNode{
		FacilityID:   "Electrolyzer",
		FacilityName: "Electrolyzer",
		Count:        1,
		PowerWatts:   -120,
		Inputs: []production.InputRequirement{
			production.ResolvedInput("Water", 1.0, sieve),
		},
	}
}

func TestChainFormatter_FormatChain_NestsUpstreamsTwoLevelsDeeper(t *testing.T) {
	// Arrange
	formatter := NewChainFormatter()

	// Act
	output := formatter.FormatChain(electrolyzerTree(), 0)

	// Assert
	expected := "1.00x Electrolyzer (consumes 120W)\n" +
		"  needs Water @ 1.000 kg/s\n" +
		"    0.20x Water Sieve (consumes 24W)\n" +
		"      needs DirtyWater @ 1.000 kg/s\n" +
		"        → DirtyWater @ 1.000 kg/s (raw input)\n" +
		"      needs Sand @ 0.200 kg/s\n"
	assert.Equal(t, expected, output)
}

func TestChainFormatter_FormatChain_RawRoot(t *testing.T) {
	formatter := NewChainFormatter()

	assert.Equal(t, "→ Water @ 2.500 kg/s (raw input)\n",
		formatter.FormatChain(production.NewRawResourceNode("Water", 2.5), 0))
	assert.Equal(t, "  → Water @ 2.500 kg/s (raw input)\n",
		formatter.FormatChain(production.NewRawResourceNode("Water", 2.5), 1))
}

func TestChainFormatter_FormatChain_PowerPhrases(t *testing.T) {
	formatter := NewChainFormatter()

	tests := []struct {
		name     string
		power    float64
		expected string
	}{
		{"generator", 800, "2.00x Hydrogen Generator (generates 800W)\n"},
		{"consumer", -240, "2.00x Hydrogen Generator (consumes 240W)\n"},
		{"unpowered", 0, "2.00x Hydrogen Generator (no power)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &production.ProductionNode{
				FacilityID:   "HydrogenGenerator",
				FacilityName: "Hydrogen Generator",
				Count:        2,
				PowerWatts:   tt.power,
			}
			assert.Equal(t, tt.expected, formatter.FormatChain(node, 0))
		})
	}
}

func TestChainFormatter_FormatChain_Nil(t *testing.T) {
	assert.Equal(t, "", NewChainFormatter().FormatChain(nil, 0))
}

func TestChainFormatter_FormatSummary(t *testing.T) {
	// Arrange
	summary := production.Summarize(electrolyzerTree(), "Oxygen", 0.888)

	// Act
	output := NewChainFormatter().FormatSummary(summary)

	// Assert
	expected := "=== Production Summary ===\n" +
		"Target: Oxygen @ 0.888 kg/s\n" +
		"\n" +
		"Buildings required:\n" +
		"  1.00x Electrolyzer\n" +
		"  0.20x Water Sieve\n" +
		"\n" +
		"Raw inputs required:\n" +
		"  DirtyWater @ 1.000 kg/s\n" +
		"  Sand @ 0.200 kg/s\n" +
		"\n" +
		"Power:\n" +
		"  Consumption: 144W\n" +
		"  Generation:  0W\n" +
		"  Net:         -144W\n"
	assert.Equal(t, expected, output)
}
