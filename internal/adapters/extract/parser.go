package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Element names used when a consumer only declares a conduit or filter type
const (
	genericGas     = "Gas"
	genericLiquid  = "Liquid"
	unknownElement = "Unknown"
)

type flow struct {
	element string
	rate    float64
}

// parsedBuilding is what a single config source yields before it becomes a FacilitySpec
type parsedBuilding struct {
	id         string
	powerWatts float64
	heatDTU    float64
	inputs     []flow
	outputs    []flow
}

func (b *parsedBuilding) hasInput(element string) bool {
	for _, in := range b.inputs {
		if in.element == element {
			return true
		}
	}
	return false
}

func (b *parsedBuilding) addInputOnce(element string, rate float64) {
	if !b.hasInput(element) {
		b.inputs = append(b.inputs, flow{element: element, rate: rate})
	}
}

// isBuildingConfig reports whether a C# source looks like a building definition
func isBuildingConfig(content string) bool {
	return strings.Contains(content, "IBuildingConfig") || strings.Contains(content, "CreateBuildingDef")
}

// parseBuildingConfig extracts a building from C# source. It returns nil when
// no building id can be found.
func parseBuildingConfig(content string) *parsedBuilding {
	b := &parsedBuilding{id: findID(content)}
	if b.id == "" {
		return nil
	}

	if m := consumptionPattern.FindStringSubmatch(content); m != nil {
		b.powerWatts = -parseRate(m[1])
	}
	// A generator rating wins over a consumption rating
	if m := generationPattern.FindStringSubmatch(content); m != nil {
		b.powerWatts = parseRate(m[1])
	}

	for _, m := range heatPattern.FindAllStringSubmatch(content, -1) {
		b.heatDTU += parseRate(m[1]) * 1000 // kW to DTU/s
	}

	// new Tag("Water") form keeps every match; later forms skip known elements
	for _, m := range consumedTagPattern.FindAllStringSubmatch(content, -1) {
		b.inputs = append(b.inputs, flow{element: m[1], rate: parseRate(m[2])})
	}
	for _, m := range consumedHashPattern.FindAllStringSubmatch(content, -1) {
		b.addInputOnce(m[1], parseRate(m[2]))
	}
	for _, m := range formulaPattern.FindAllStringSubmatch(content, -1) {
		b.addInputOnce(m[1], parseRate(m[2]))
	}

	for _, m := range outputElementPattern.FindAllStringSubmatch(content, -1) {
		b.outputs = append(b.outputs, flow{element: m[2], rate: parseRate(m[1])})
	}

	if m := elementConsumerRatePattern.FindStringSubmatch(content); m != nil {
		b.addInputOnce(elementConsumerElement(content), parseRate(m[1]))
	}
	if m := conduitConsumerRatePattern.FindStringSubmatch(content); m != nil {
		b.addInputOnce(conduitConsumerElement(content), parseRate(m[1]))
	}

	for _, m := range generatorOutPattern.FindAllStringSubmatch(content, -1) {
		b.outputs = append(b.outputs, flow{element: m[1], rate: parseRate(m[2])})
	}
	for _, m := range generatorInPattern.FindAllStringSubmatch(content, -1) {
		b.addInputOnce(m[1], parseRate(m[2]))
	}

	return b
}

func findID(content string) string {
	for _, p := range []*regexp.Regexp{constIDPattern, textIDPattern, directIDPattern} {
		if m := p.FindStringSubmatch(content); m != nil {
			return m[1]
		}
	}
	return ""
}

func elementConsumerElement(content string) string {
	switch {
	case strings.Contains(content, "Configuration.AllGas"), strings.Contains(content, "ConduitType.Gas"):
		return genericGas
	case strings.Contains(content, "Configuration.AllLiquid"), strings.Contains(content, "ConduitType.Liquid"):
		return genericLiquid
	}
	if m := anySimHashPattern.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return unknownElement
}

func conduitConsumerElement(content string) string {
	if m := capacityHashPattern.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	if m := capacityCreatePattern.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	switch {
	case strings.Contains(content, "ConduitType.Gas"):
		return genericGas
	case strings.Contains(content, "ConduitType.Liquid"):
		return genericLiquid
	}
	return unknownElement
}

// parseRate reads a C# float literal body such as "0.888"; malformed numbers count as zero
func parseRate(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
