package persistence

// ResourceModel represents the resources table
type ResourceModel struct {
	ID    string `gorm:"column:id;primaryKey"`
	Name  string `gorm:"column:name;not null"`
	State string `gorm:"column:state"` // Solid, Liquid, Gas
}

func (ResourceModel) TableName() string {
	return "resources"
}

// FacilityModel represents the buildings table
type FacilityModel struct {
	ID                      string  `gorm:"column:id;primaryKey"`
	Name                    string  `gorm:"column:name;not null"`
	Category                string  `gorm:"column:category"`
	PowerWatts              float64 `gorm:"column:power_watts"` // Negative consumes, positive generates
	HeatOutputDTU           float64 `gorm:"column:heat_output_dtu"`
	ConstructionTimeSeconds float64 `gorm:"column:construction_time_s"`
}

func (FacilityModel) TableName() string {
	return "buildings"
}

// FacilityInputModel represents the building_inputs table
// Row id order is declaration order.
type FacilityInputModel struct {
	ID              uint    `gorm:"column:id;primaryKey;autoIncrement"`
	FacilityID      string  `gorm:"column:building_id;index:idx_building_inputs_building;not null"`
	ResourceID      string  `gorm:"column:resource_id;not null"`
	RateKgPerSecond float64 `gorm:"column:rate_kg_per_s;not null"`
}

func (FacilityInputModel) TableName() string {
	return "building_inputs"
}

// FacilityOutputModel represents the building_outputs table
type FacilityOutputModel struct {
	ID              uint    `gorm:"column:id;primaryKey;autoIncrement"`
	FacilityID      string  `gorm:"column:building_id;index:idx_building_outputs_building;not null"`
	ResourceID      string  `gorm:"column:resource_id;index:idx_building_outputs_resource;not null"`
	RateKgPerSecond float64 `gorm:"column:rate_kg_per_s;not null"`
}

func (FacilityOutputModel) TableName() string {
	return "building_outputs"
}

// producerRow is the scan target of the producers join
type producerRow struct {
	FacilityModel
	OutputRate float64 `gorm:"column:output_rate"`
}
