package extract

import "regexp"

// Building id, in order of preference
var (
	constIDPattern  = regexp.MustCompile(`(?:public\s+)?const\s+string\s+ID\s*=\s*"(\w+)"`)
	textIDPattern   = regexp.MustCompile(`string\s+text\s*=\s*"(\w+)"`)
	directIDPattern = regexp.MustCompile(`CreateBuildingDef\s*\(\s*"(\w+)"`)
)

// Power and heat
var (
	consumptionPattern = regexp.MustCompile(`EnergyConsumptionWhenActive\s*=\s*([\d.]+)f?`)
	generationPattern  = regexp.MustCompile(`GeneratorWattageRating\s*=\s*([\d.]+)f?`)
	heatPattern        = regexp.MustCompile(`(?:Exhaust|SelfHeat)KilowattsWhenActive\s*=\s*([\d.]+)f?`)
)

// Inputs
var (
	consumedTagPattern  = regexp.MustCompile(`ConsumedElement\s*\(\s*new\s+Tag\s*\(\s*"(\w+)"\s*\)\s*,\s*([\d.]+)f?`)
	consumedHashPattern = regexp.MustCompile(`ConsumedElement\s*\(\s*SimHashes\.(\w+)\s*,\s*([\d.]+)f?`)
	formulaPattern      = regexp.MustCompile(`CreateSimpleFormula\s*\(\s*SimHashes\.(\w+)\.CreateTag\(\)\s*,\s*([\d.]+)f?`)
	generatorInPattern  = regexp.MustCompile(`EnergyGenerator\.InputItem\s*\(\s*(?:SimHashes\.)?(\w+)(?:\.CreateTag\(\))?\s*,\s*([\d.]+)f?`)

	elementConsumerRatePattern = regexp.MustCompile(`elementConsumer\.consumptionRate\s*=\s*([\d.]+)f?`)
	conduitConsumerRatePattern = regexp.MustCompile(`conduitConsumer\.consumptionRate\s*=\s*([\d.]+)f?`)
	anySimHashPattern          = regexp.MustCompile(`SimHashes\.(\w+)`)
	capacityHashPattern        = regexp.MustCompile(`capacityTag\s*=\s*(?:ElementLoader\.FindElementByHash\()?SimHashes\.(\w+)`)
	capacityCreatePattern      = regexp.MustCompile(`capacityTag\s*=\s*GameTagExtensions\.Create\(SimHashes\.(\w+)\)`)
)

// Outputs
var (
	outputElementPattern = regexp.MustCompile(`OutputElement\s*\(\s*([\d.]+)f?\s*,\s*(?:SimHashes\.)?(\w+)`)
	generatorOutPattern  = regexp.MustCompile(`EnergyGenerator\.OutputItem\s*\(\s*(?:SimHashes\.)?(\w+)\s*,\s*([\d.]+)f?`)
)
