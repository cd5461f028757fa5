package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/oni-calculator/internal/domain/production"
)

// GormCatalogRepository implements production.Catalog using GORM
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GORM catalog repository
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// ProducersOf returns every facility that outputs the resource, in output insertion order
func (r *GormCatalogRepository) ProducersOf(ctx context.Context, resourceID string) ([]production.ProducerCandidate, error) {
	var rows []producerRow
	result := r.db.WithContext(ctx).
		Table("buildings AS b").
		Select("b.id, b.name, b.category, b.power_watts, b.heat_output_dtu, b.construction_time_s, bo.rate_kg_per_s AS output_rate").
		Joins("JOIN building_outputs bo ON b.id = bo.building_id").
		Where("bo.resource_id = ?", resourceID).
		Order("bo.id").
		Scan(&rows)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to query producers: %w", result.Error)
	}

	candidates := make([]production.ProducerCandidate, 0, len(rows))
	for i := range rows {
		candidates = append(candidates, production.ProducerCandidate{
			Facility:   r.facilityModelToEntity(&rows[i].FacilityModel),
			OutputRate: rows[i].OutputRate,
		})
	}

	return candidates, nil
}

// InputsOf returns the declared inputs of a facility in declaration order
func (r *GormCatalogRepository) InputsOf(ctx context.Context, facilityID string) ([]production.FacilityInput, error) {
	var models []FacilityInputModel
	result := r.db.WithContext(ctx).
		Where("building_id = ?", facilityID).
		Order("id").
		Find(&models)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to query inputs: %w", result.Error)
	}

	inputs := make([]production.FacilityInput, 0, len(models))
	for _, m := range models {
		inputs = append(inputs, production.FacilityInput{
			FacilityID:      m.FacilityID,
			ResourceID:      m.ResourceID,
			RateKgPerSecond: m.RateKgPerSecond,
		})
	}

	return inputs, nil
}

// OutputsOf returns the declared outputs of a facility in declaration order
func (r *GormCatalogRepository) OutputsOf(ctx context.Context, facilityID string) ([]production.FacilityOutput, error) {
	var models []FacilityOutputModel
	result := r.db.WithContext(ctx).
		Where("building_id = ?", facilityID).
		Order("id").
		Find(&models)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to query outputs: %w", result.Error)
	}

	outputs := make([]production.FacilityOutput, 0, len(models))
	for _, m := range models {
		outputs = append(outputs, production.FacilityOutput{
			FacilityID:      m.FacilityID,
			ResourceID:      m.ResourceID,
			RateKgPerSecond: m.RateKgPerSecond,
		})
	}

	return outputs, nil
}

// ListFacilities returns all facilities ordered by name
func (r *GormCatalogRepository) ListFacilities(ctx context.Context) ([]production.Facility, error) {
	var models []FacilityModel
	result := r.db.WithContext(ctx).Order("name").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list buildings: %w", result.Error)
	}

	facilities := make([]production.Facility, 0, len(models))
	for i := range models {
		facilities = append(facilities, r.facilityModelToEntity(&models[i]))
	}

	return facilities, nil
}

// ListProducibleResources returns the distinct ids of every produced resource
func (r *GormCatalogRepository) ListProducibleResources(ctx context.Context) ([]string, error) {
	var ids []string
	result := r.db.WithContext(ctx).
		Model(&FacilityOutputModel{}).
		Distinct("resource_id").
		Order("resource_id").
		Pluck("resource_id", &ids)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to list producible resources: %w", result.Error)
	}

	return ids, nil
}

// FindFacility retrieves a facility by id
func (r *GormCatalogRepository) FindFacility(ctx context.Context, facilityID string) (*production.Facility, error) {
	var model FacilityModel
	result := r.db.WithContext(ctx).Where("id = ?", facilityID).First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &production.ErrFacilityNotFound{FacilityID: facilityID}
		}
		return nil, fmt.Errorf("failed to find building: %w", result.Error)
	}

	facility := r.facilityModelToEntity(&model)
	return &facility, nil
}

// UpsertFacility inserts or replaces a facility record
func (r *GormCatalogRepository) UpsertFacility(ctx context.Context, facility production.Facility) error {
	model := r.facilityEntityToModel(facility)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert building %s: %w", facility.ID, result.Error)
	}

	return nil
}

// AddInput appends a declared input and registers its resource
func (r *GormCatalogRepository) AddInput(ctx context.Context, input production.FacilityInput) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureResource(tx, input.ResourceID); err != nil {
			return err
		}

		model := &FacilityInputModel{
			FacilityID:      input.FacilityID,
			ResourceID:      input.ResourceID,
			RateKgPerSecond: input.RateKgPerSecond,
		}
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to insert input %s of %s: %w", input.ResourceID, input.FacilityID, err)
		}
		return nil
	})
}

// AddOutput appends a declared output and registers its resource
func (r *GormCatalogRepository) AddOutput(ctx context.Context, output production.FacilityOutput) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureResource(tx, output.ResourceID); err != nil {
			return err
		}

		model := &FacilityOutputModel{
			FacilityID:      output.FacilityID,
			ResourceID:      output.ResourceID,
			RateKgPerSecond: output.RateKgPerSecond,
		}
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to insert output %s of %s: %w", output.ResourceID, output.FacilityID, err)
		}
		return nil
	})
}

// RemoveFlows deletes every declared input and output of a facility
func (r *GormCatalogRepository) RemoveFlows(ctx context.Context, facilityID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("building_id = ?", facilityID).Delete(&FacilityInputModel{}).Error; err != nil {
			return fmt.Errorf("failed to remove inputs of %s: %w", facilityID, err)
		}
		if err := tx.Where("building_id = ?", facilityID).Delete(&FacilityOutputModel{}).Error; err != nil {
			return fmt.Errorf("failed to remove outputs of %s: %w", facilityID, err)
		}
		return nil
	})
}

// Transaction runs fn against a repository bound to a single database transaction
func (r *GormCatalogRepository) Transaction(ctx context.Context, fn func(writer production.CatalogWriter) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormCatalogRepository(tx))
	})
}

// Clear removes all catalog data
func (r *GormCatalogRepository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&FacilityOutputModel{},
			&FacilityInputModel{},
			&FacilityModel{},
			&ResourceModel{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to clear catalog: %w", err)
			}
		}
		return nil
	})
}

// ListResources returns every resource referenced by an input or output, ordered by id
func (r *GormCatalogRepository) ListResources(ctx context.Context) ([]production.Resource, error) {
	var models []ResourceModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}

	resources := make([]production.Resource, 0, len(models))
	for _, m := range models {
		resources = append(resources, production.Resource{ID: m.ID, Name: m.Name, State: m.State})
	}
	return resources, nil
}

// ensureResource inserts a resource row named after its id unless one exists
func ensureResource(tx *gorm.DB, resourceID string) error {
	model := &ResourceModel{ID: resourceID, Name: resourceID}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(model).Error; err != nil {
		return fmt.Errorf("failed to register resource %s: %w", resourceID, err)
	}
	return nil
}

func (r *GormCatalogRepository) facilityModelToEntity(model *FacilityModel) production.Facility {
	return production.Facility{
		ID:                      model.ID,
		Name:                    model.Name,
		Category:                model.Category,
		PowerWatts:              model.PowerWatts,
		HeatOutputDTU:           model.HeatOutputDTU,
		ConstructionTimeSeconds: model.ConstructionTimeSeconds,
	}
}

func (r *GormCatalogRepository) facilityEntityToModel(facility production.Facility) *FacilityModel {
	return &FacilityModel{
		ID:                      facility.ID,
		Name:                    facility.Name,
		Category:                facility.Category,
		PowerWatts:              facility.PowerWatts,
		HeatOutputDTU:           facility.HeatOutputDTU,
		ConstructionTimeSeconds: facility.ConstructionTimeSeconds,
	}
}
