package production

import (
	"context"
	"fmt"
)

// CatalogRepository is the read side of the facility catalog used by the resolver.
//
// Both methods must return results in a stable order across calls; an empty
// producer list means the resource is raw.
type CatalogRepository interface {
	// ProducersOf returns every facility that outputs the resource, with its per-instance output rate
	ProducersOf(ctx context.Context, resourceID string) ([]ProducerCandidate, error)

	// InputsOf returns the declared inputs of a facility in declaration order
	InputsOf(ctx context.Context, facilityID string) ([]FacilityInput, error)
}

// CatalogBrowser exposes listing operations for the CLI.
type CatalogBrowser interface {
	// ListFacilities returns all facilities ordered by name
	ListFacilities(ctx context.Context) ([]Facility, error)

	// ListProducibleResources returns the distinct ids of every produced resource, ordered
	ListProducibleResources(ctx context.Context) ([]string, error)

	// ListResources returns every resource referenced by the catalog, ordered by id
	ListResources(ctx context.Context) ([]Resource, error)

	// FindFacility returns a facility by id
	FindFacility(ctx context.Context, facilityID string) (*Facility, error)

	// OutputsOf returns the declared outputs of a facility in declaration order
	OutputsOf(ctx context.Context, facilityID string) ([]FacilityOutput, error)
}

// CatalogWriter populates the catalog. The resolver never calls it.
type CatalogWriter interface {
	// UpsertFacility inserts or replaces a facility record
	UpsertFacility(ctx context.Context, facility Facility) error

	// AddInput appends a declared input
	AddInput(ctx context.Context, input FacilityInput) error

	// AddOutput appends a declared output
	AddOutput(ctx context.Context, output FacilityOutput) error

	// RemoveFlows deletes every declared input and output of a facility
	RemoveFlows(ctx context.Context, facilityID string) error

	// Clear removes all catalog data
	Clear(ctx context.Context) error

	// Transaction runs fn with a writer whose changes are committed together,
	// or discarded when fn returns an error
	Transaction(ctx context.Context, fn func(writer CatalogWriter) error) error
}

// Catalog combines every catalog capability; the gorm repository implements it.
type Catalog interface {
	CatalogRepository
	CatalogBrowser
	CatalogWriter
}

// ExtractStats counts what a source extraction found
type ExtractStats struct {
	Buildings int
	Inputs    int
	Outputs   int
	Skipped   int
	Errors    int
}

// CatalogExtractor builds a catalog snapshot from game source files
type CatalogExtractor interface {
	Extract(ctx context.Context, sourceDir string) (*CatalogSnapshot, *ExtractStats, error)
}

func (s ExtractStats) String() string {
	return fmt.Sprintf("Extracted %d buildings (%d inputs, %d outputs). Skipped: %d, Errors: %d",
		s.Buildings, s.Inputs, s.Outputs, s.Skipped, s.Errors)
}
