package production

import "sort"

// NamedQuantity is a single (key, amount) entry of a summary mapping.
type NamedQuantity struct {
	Name   string
	Amount float64
}

// ChainSummary is the flattened view of a production chain.
type ChainSummary struct {
	TargetResource        string
	TargetRate            float64
	TotalPowerConsumption float64
	TotalPowerGeneration  float64
	NetPower              float64

	// FacilityCounts is keyed by facility display name, sorted by name
	FacilityCounts []NamedQuantity

	// RawInputs is keyed by resource id, sorted by id
	RawInputs []NamedQuantity
}

// FacilityCount returns the summed instance count for a facility name
func (s *ChainSummary) FacilityCount(name string) (float64, bool) {
	return lookup(s.FacilityCounts, name)
}

// RawInputRate returns the summed intake rate for a raw resource
func (s *ChainSummary) RawInputRate(resourceID string) (float64, bool) {
	return lookup(s.RawInputs, resourceID)
}

func lookup(entries []NamedQuantity, name string) (float64, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e.Amount, true
		}
	}
	return 0, false
}

// TotalPower sums the power of a node and every upstream reachable through its inputs.
// Raw leaves contribute nothing.
func TotalPower(node *ProductionNode) float64 {
	total := node.PowerWatts
	for _, input := range node.Inputs {
		if input.HasUpstream() {
			total += TotalPower(input.Upstream)
		}
	}
	return total
}

// Summarize flattens a resolved tree into facility counts, raw intake and power totals.
//
// Facility counts are merged by display name, not id.
func Summarize(node *ProductionNode, targetResource string, targetRate float64) *ChainSummary {
	acc := &summaryAccumulator{
		facilities: make(map[string]float64),
		rawInputs:  make(map[string]float64),
	}
	acc.collect(node)

	return &ChainSummary{
		TargetResource:        targetResource,
		TargetRate:            targetRate,
		TotalPowerConsumption: acc.consumption,
		TotalPowerGeneration:  acc.generation,
		NetPower:              acc.generation - acc.consumption,
		FacilityCounts:        sortedEntries(acc.facilities),
		RawInputs:             sortedEntries(acc.rawInputs),
	}
}

type summaryAccumulator struct {
	facilities  map[string]float64
	rawInputs   map[string]float64
	consumption float64
	generation  float64
}

func (a *summaryAccumulator) collect(node *ProductionNode) {
	if node.IsRaw() {
		for _, input := range node.Inputs {
			a.rawInputs[input.ResourceID] += input.RateKgPerSecond
		}
		return
	}

	a.facilities[node.FacilityName] += node.Count

	if node.PowerWatts < 0 {
		a.consumption += -node.PowerWatts
	} else {
		a.generation += node.PowerWatts
	}

	for _, input := range node.Inputs {
		if input.HasUpstream() {
			a.collect(input.Upstream)
			continue
		}
		// No upstream producer: counts as raw intake
		a.rawInputs[input.ResourceID] += input.RateKgPerSecond
	}
}

func sortedEntries(m map[string]float64) []NamedQuantity {
	entries := make([]NamedQuantity, 0, len(m))
	for name, amount := range m {
		entries = append(entries, NamedQuantity{Name: name, Amount: amount})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}
