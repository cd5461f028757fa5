package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/oni-calculator/internal/application/common"
	"github.com/andrescamacho/oni-calculator/internal/domain/production"
)

// ListFacilitiesQuery lists every facility, ordered by name
type ListFacilitiesQuery struct{}

// ListFacilitiesResponse is the facility listing
type ListFacilitiesResponse struct {
	Facilities []production.Facility
}

// ListFacilitiesHandler handles the ListFacilities query
type ListFacilitiesHandler struct {
	catalog production.CatalogBrowser
}

// NewListFacilitiesHandler creates a new ListFacilitiesHandler
func NewListFacilitiesHandler(catalog production.CatalogBrowser) *ListFacilitiesHandler {
	return &ListFacilitiesHandler{catalog: catalog}
}

// Handle executes the ListFacilities query
func (h *ListFacilitiesHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*ListFacilitiesQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListFacilitiesQuery")
	}

	facilities, err := h.catalog.ListFacilities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list buildings: %w", err)
	}

	return &ListFacilitiesResponse{Facilities: facilities}, nil
}

// ListResourcesQuery lists resource ids. By default only produced resources
// are returned; All adds the ones that only appear as inputs.
type ListResourcesQuery struct {
	All bool
}

// ListResourcesResponse is the resource listing, ordered by id
type ListResourcesResponse struct {
	ResourceIDs []string
}

// ListResourcesHandler handles the ListResources query
type ListResourcesHandler struct {
	catalog production.CatalogBrowser
}

// NewListResourcesHandler creates a new ListResourcesHandler
func NewListResourcesHandler(catalog production.CatalogBrowser) *ListResourcesHandler {
	return &ListResourcesHandler{catalog: catalog}
}

// Handle executes the ListResources query
func (h *ListResourcesHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListResourcesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListResourcesQuery")
	}

	if !query.All {
		ids, err := h.catalog.ListProducibleResources(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list resources: %w", err)
		}
		return &ListResourcesResponse{ResourceIDs: ids}, nil
	}

	resources, err := h.catalog.ListResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	ids := make([]string, 0, len(resources))
	for _, r := range resources {
		ids = append(ids, r.ID)
	}
	return &ListResourcesResponse{ResourceIDs: ids}, nil
}

// GetFacilityQuery asks for one facility with its inputs and outputs
type GetFacilityQuery struct {
	FacilityID string
}

// GetFacilityResponse is the facility detail
type GetFacilityResponse struct {
	Facility production.Facility
	Inputs   []production.FacilityInput
	Outputs  []production.FacilityOutput
}

// GetFacilityHandler handles the GetFacility query
type GetFacilityHandler struct {
	catalog production.Catalog
}

// NewGetFacilityHandler creates a new GetFacilityHandler
func NewGetFacilityHandler(catalog production.Catalog) *GetFacilityHandler {
	return &GetFacilityHandler{catalog: catalog}
}

// Handle executes the GetFacility query
func (h *GetFacilityHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetFacilityQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetFacilityQuery")
	}

	return loadSpec(ctx, h.catalog, query.FacilityID)
}

// ExportCatalogQuery dumps the whole catalog, facilities ordered by name
type ExportCatalogQuery struct{}

// ExportCatalogHandler handles the ExportCatalog query
type ExportCatalogHandler struct {
	catalog production.Catalog
}

// NewExportCatalogHandler creates a new ExportCatalogHandler
func NewExportCatalogHandler(catalog production.Catalog) *ExportCatalogHandler {
	return &ExportCatalogHandler{catalog: catalog}
}

// Handle executes the ExportCatalog query and returns a *production.CatalogSnapshot
func (h *ExportCatalogHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*ExportCatalogQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ExportCatalogQuery")
	}

	facilities, err := h.catalog.ListFacilities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list buildings: %w", err)
	}

	snapshot := &production.CatalogSnapshot{Facilities: make([]production.FacilitySpec, 0, len(facilities))}
	for _, f := range facilities {
		detail, err := loadSpec(ctx, h.catalog, f.ID)
		if err != nil {
			return nil, err
		}
		snapshot.Facilities = append(snapshot.Facilities, production.FacilitySpec{
			Facility: detail.Facility,
			Inputs:   detail.Inputs,
			Outputs:  detail.Outputs,
		})
	}

	return snapshot, nil
}

func loadSpec(ctx context.Context, catalog production.Catalog, facilityID string) (*GetFacilityResponse, error) {
	facility, err := catalog.FindFacility(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	inputs, err := catalog.InputsOf(ctx, facilityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inputs of %s: %w", facilityID, err)
	}

	outputs, err := catalog.OutputsOf(ctx, facilityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get outputs of %s: %w", facilityID, err)
	}

	return &GetFacilityResponse{
		Facility: *facility,
		Inputs:   inputs,
		Outputs:  outputs,
	}, nil
}
