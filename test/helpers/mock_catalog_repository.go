package helpers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/andrescamacho/oni-calculator/internal/domain/production"
)

// MockCatalogRepository is an in-memory test double for the facility catalog.
// It keeps insertion order for producers, inputs and outputs.
type MockCatalogRepository struct {
	mu         sync.RWMutex
	facilities map[string]production.Facility
	order      []string
	inputs     []production.FacilityInput
	outputs    []production.FacilityOutput

	producerErrors   map[string]error // Key: resource id
	inputErrors      map[string]error // Key: facility id
	inputWriteErrors map[string]error // Key: resource id

	ProducerLookups int
}

// NewMockCatalogRepository creates an empty mock catalog
func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{
		facilities:     make(map[string]production.Facility),
		producerErrors:   make(map[string]error),
		inputErrors:      make(map[string]error),
		inputWriteErrors: make(map[string]error),
	}
}

// AddFacility registers a facility with the given power draw (negative consumes)
func (m *MockCatalogRepository) AddFacility(id, name string, powerWatts float64) {
	_ = m.UpsertFacility(context.Background(), production.Facility{ID: id, Name: name, PowerWatts: powerWatts})
}

// AddFacilityInput declares a per-instance input of a facility
func (m *MockCatalogRepository) AddFacilityInput(facilityID, resourceID string, rate float64) {
	_ = m.AddInput(context.Background(), production.FacilityInput{
		FacilityID: facilityID, ResourceID: resourceID, RateKgPerSecond: rate,
	})
}

// AddFacilityOutput declares a per-instance output of a facility
func (m *MockCatalogRepository) AddFacilityOutput(facilityID, resourceID string, rate float64) {
	_ = m.AddOutput(context.Background(), production.FacilityOutput{
		FacilityID: facilityID, ResourceID: resourceID, RateKgPerSecond: rate,
	})
}

// FailProducersOf makes ProducersOf return err for the resource
func (m *MockCatalogRepository) FailProducersOf(resourceID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.producerErrors[resourceID] = err
}

// FailInputsOf makes InputsOf return err for the facility
func (m *MockCatalogRepository) FailInputsOf(facilityID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputErrors[facilityID] = err
}

// FailInputWrites makes AddInput return err for inputs of the resource
func (m *MockCatalogRepository) FailInputWrites(resourceID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputWriteErrors[resourceID] = err
}

// Seed writes every facility of a snapshot
func (m *MockCatalogRepository) Seed(snapshot *production.CatalogSnapshot) {
	ctx := context.Background()
	for _, spec := range snapshot.Facilities {
		_ = m.UpsertFacility(ctx, spec.Facility)
		for _, in := range spec.Inputs {
			_ = m.AddInput(ctx, in)
		}
		for _, out := range spec.Outputs {
			_ = m.AddOutput(ctx, out)
		}
	}
}

// ProducersOf implements production.CatalogRepository
func (m *MockCatalogRepository) ProducersOf(ctx context.Context, resourceID string) ([]production.ProducerCandidate, error) {
	m.mu.Lock()
	m.ProducerLookups++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	if err, ok := m.producerErrors[resourceID]; ok {
		return nil, err
	}

	var candidates []production.ProducerCandidate
	for _, out := range m.outputs {
		if out.ResourceID != resourceID {
			continue
		}
		f, ok := m.facilities[out.FacilityID]
		if !ok {
			continue
		}
		candidates = append(candidates, production.ProducerCandidate{Facility: f, OutputRate: out.RateKgPerSecond})
	}
	return candidates, nil
}

// InputsOf implements production.CatalogRepository
func (m *MockCatalogRepository) InputsOf(ctx context.Context, facilityID string) ([]production.FacilityInput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err, ok := m.inputErrors[facilityID]; ok {
		return nil, err
	}

	var inputs []production.FacilityInput
	for _, in := range m.inputs {
		if in.FacilityID == facilityID {
			inputs = append(inputs, in)
		}
	}
	return inputs, nil
}

// ListFacilities implements production.CatalogBrowser
func (m *MockCatalogRepository) ListFacilities(ctx context.Context) ([]production.Facility, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]production.Facility, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.facilities[id])
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ListProducibleResources implements production.CatalogBrowser
func (m *MockCatalogRepository) ListProducibleResources(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	var result []string
	for _, out := range m.outputs {
		if !seen[out.ResourceID] {
			seen[out.ResourceID] = true
			result = append(result, out.ResourceID)
		}
	}
	sort.Strings(result)
	return result, nil
}

// ListResources implements production.CatalogBrowser
func (m *MockCatalogRepository) ListResources(ctx context.Context) ([]production.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	var result []production.Resource
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			result = append(result, production.Resource{ID: id, Name: id})
		}
	}
	for _, in := range m.inputs {
		add(in.ResourceID)
	}
	for _, out := range m.outputs {
		add(out.ResourceID)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// FindFacility implements production.CatalogBrowser
func (m *MockCatalogRepository) FindFacility(ctx context.Context, facilityID string) (*production.Facility, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.facilities[facilityID]
	if !ok {
		return nil, &production.ErrFacilityNotFound{FacilityID: facilityID}
	}
	return &f, nil
}

// OutputsOf implements production.CatalogBrowser
func (m *MockCatalogRepository) OutputsOf(ctx context.Context, facilityID string) ([]production.FacilityOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var outputs []production.FacilityOutput
	for _, out := range m.outputs {
		if out.FacilityID == facilityID {
			outputs = append(outputs, out)
		}
	}
	return outputs, nil
}

// UpsertFacility implements production.CatalogWriter
func (m *MockCatalogRepository) UpsertFacility(ctx context.Context, facility production.Facility) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if facility.ID == "" {
		return fmt.Errorf("facility id is required")
	}
	if _, exists := m.facilities[facility.ID]; !exists {
		m.order = append(m.order, facility.ID)
	}
	m.facilities[facility.ID] = facility
	return nil
}

// AddInput implements production.CatalogWriter
func (m *MockCatalogRepository) AddInput(ctx context.Context, input production.FacilityInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.inputWriteErrors[input.ResourceID]; ok {
		return err
	}
	m.inputs = append(m.inputs, input)
	return nil
}

// AddOutput implements production.CatalogWriter
func (m *MockCatalogRepository) AddOutput(ctx context.Context, output production.FacilityOutput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outputs = append(m.outputs, output)
	return nil
}

// RemoveFlows implements production.CatalogWriter
func (m *MockCatalogRepository) RemoveFlows(ctx context.Context, facilityID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	inputs := m.inputs[:0:0]
	for _, in := range m.inputs {
		if in.FacilityID != facilityID {
			inputs = append(inputs, in)
		}
	}
	outputs := m.outputs[:0:0]
	for _, out := range m.outputs {
		if out.FacilityID != facilityID {
			outputs = append(outputs, out)
		}
	}
	m.inputs, m.outputs = inputs, outputs
	return nil
}

// Transaction implements production.CatalogWriter by restoring the previous
// contents when fn fails
func (m *MockCatalogRepository) Transaction(ctx context.Context, fn func(writer production.CatalogWriter) error) error {
	m.mu.RLock()
	facilities := make(map[string]production.Facility, len(m.facilities))
	for id, f := range m.facilities {
		facilities[id] = f
	}
	order := append([]string(nil), m.order...)
	inputs := append([]production.FacilityInput(nil), m.inputs...)
	outputs := append([]production.FacilityOutput(nil), m.outputs...)
	m.mu.RUnlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.facilities, m.order, m.inputs, m.outputs = facilities, order, inputs, outputs
		m.mu.Unlock()
		return err
	}
	return nil
}

// Clear implements production.CatalogWriter
func (m *MockCatalogRepository) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.facilities = make(map[string]production.Facility)
	m.order = nil
	m.inputs = nil
	m.outputs = nil
	return nil
}

// FacilityCount returns how many facilities are stored
func (m *MockCatalogRepository) FacilityCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.facilities)
}
