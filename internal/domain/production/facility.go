package production

// Resource is a material, liquid or gas known to the catalog.
type Resource struct {
	ID    string
	Name  string
	State string // Solid, Liquid, Gas (may be empty)
}

// Facility describes a building that turns inputs into outputs.
//
// PowerWatts is signed: negative values consume power, positive values
// generate it. Heat and construction time are informational only and do not
// participate in chain resolution.
type Facility struct {
	ID                      string
	Name                    string
	Category                string
	PowerWatts              float64
	HeatOutputDTU           float64
	ConstructionTimeSeconds float64
}

// FacilityInput is a resource a single facility instance consumes per second.
type FacilityInput struct {
	FacilityID      string
	ResourceID      string
	RateKgPerSecond float64
}

// FacilityOutput is a resource a single facility instance produces per second.
type FacilityOutput struct {
	FacilityID      string
	ResourceID      string
	RateKgPerSecond float64
}

// ProducerCandidate pairs a facility with its per-instance output rate for
// the resource it was looked up by.
type ProducerCandidate struct {
	Facility   Facility
	OutputRate float64
}

// FacilitySpec bundles a facility with its declared inputs and outputs.
// It is the unit of catalog ingestion (sample data, YAML import, source extraction).
type FacilitySpec struct {
	Facility Facility
	Inputs   []FacilityInput
	Outputs  []FacilityOutput
}

// CatalogSnapshot is an ordered set of facility specs ready to be written to a catalog.
type CatalogSnapshot struct {
	Facilities []FacilitySpec
}

// InputCount returns the total number of declared inputs across all facilities
func (s *CatalogSnapshot) InputCount() int {
	n := 0
	for _, f := range s.Facilities {
		n += len(f.Inputs)
	}
	return n
}

// OutputCount returns the total number of declared outputs across all facilities
func (s *CatalogSnapshot) OutputCount() int {
	n := 0
	for _, f := range s.Facilities {
		n += len(f.Outputs)
	}
	return n
}
