package catalogfile

import (
	"github.com/andrescamacho/oni-calculator/internal/domain/production"
)

// CurrentVersion is the document version written by Save
const CurrentVersion = 1

// Document is the YAML representation of a catalog
type Document struct {
	Version   int                `yaml:"version" validate:"required,eq=1"`
	Buildings []BuildingDocument `yaml:"buildings" validate:"dive"`
}

// BuildingDocument is one facility with its inputs and outputs
type BuildingDocument struct {
	ID                      string         `yaml:"id" validate:"required"`
	Name                    string         `yaml:"name" validate:"required"`
	Category                string         `yaml:"category,omitempty"`
	PowerWatts              float64        `yaml:"power_watts"`
	HeatOutputDTU           float64        `yaml:"heat_output_dtu"`
	ConstructionTimeSeconds float64        `yaml:"construction_time_s,omitempty" validate:"gte=0"`
	Inputs                  []FlowDocument `yaml:"inputs,omitempty" validate:"dive"`
	Outputs                 []FlowDocument `yaml:"outputs,omitempty" validate:"dive"`
}

// FlowDocument is a resource consumed or produced per second by one building
type FlowDocument struct {
	Resource string  `yaml:"resource" validate:"required"`
	Rate     float64 `yaml:"rate" validate:"gte=0"`
}

// ToSnapshot converts the document to a catalog snapshot
func (d *Document) ToSnapshot() *production.CatalogSnapshot {
	snapshot := &production.CatalogSnapshot{
		Facilities: make([]production.FacilitySpec, 0, len(d.Buildings)),
	}

	for _, b := range d.Buildings {
		spec := production.FacilitySpec{
			Facility: production.Facility{
				ID:                      b.ID,
				Name:                    b.Name,
				Category:                b.Category,
				PowerWatts:              b.PowerWatts,
				HeatOutputDTU:           b.HeatOutputDTU,
				ConstructionTimeSeconds: b.ConstructionTimeSeconds,
			},
		}
		for _, in := range b.Inputs {
			spec.Inputs = append(spec.Inputs, production.FacilityInput{
				FacilityID:      b.ID,
				ResourceID:      in.Resource,
				RateKgPerSecond: in.Rate,
			})
		}
		for _, out := range b.Outputs {
			spec.Outputs = append(spec.Outputs, production.FacilityOutput{
				FacilityID:      b.ID,
				ResourceID:      out.Resource,
				RateKgPerSecond: out.Rate,
			})
		}
		snapshot.Facilities = append(snapshot.Facilities, spec)
	}

	return snapshot
}

// FromSnapshot builds a document from a catalog snapshot
func FromSnapshot(snapshot *production.CatalogSnapshot) *Document {
	doc := &Document{
		Version:   CurrentVersion,
		Buildings: make([]BuildingDocument, 0, len(snapshot.Facilities)),
	}

	for _, spec := range snapshot.Facilities {
		b := BuildingDocument{
			ID:                      spec.Facility.ID,
			Name:                    spec.Facility.Name,
			Category:                spec.Facility.Category,
			PowerWatts:              spec.Facility.PowerWatts,
			HeatOutputDTU:           spec.Facility.HeatOutputDTU,
			ConstructionTimeSeconds: spec.Facility.ConstructionTimeSeconds,
		}
		for _, in := range spec.Inputs {
			b.Inputs = append(b.Inputs, FlowDocument{Resource: in.ResourceID, Rate: in.RateKgPerSecond})
		}
		for _, out := range spec.Outputs {
			b.Outputs = append(b.Outputs, FlowDocument{Resource: out.ResourceID, Rate: out.RateKgPerSecond})
		}
		doc.Buildings = append(doc.Buildings, b)
	}

	return doc
}
