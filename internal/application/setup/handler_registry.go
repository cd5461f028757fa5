package setup

import (
	"github.com/andrescamacho/oni-calculator/internal/application/common"
	"github.com/andrescamacho/oni-calculator/internal/application/production/commands"
	"github.com/andrescamacho/oni-calculator/internal/application/production/queries"
	"github.com/andrescamacho/oni-calculator/internal/application/production/services"
	"github.com/andrescamacho/oni-calculator/internal/domain/production"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	catalog   production.Catalog
	resolver  *services.ChainResolver
	extractor production.CatalogExtractor
}

// NewHandlerRegistry creates a new handler registry with required dependencies.
// extractor may be nil, in which case ExtractCatalogCommand is not registered.
func NewHandlerRegistry(
	catalog production.Catalog,
	resolver *services.ChainResolver,
	extractor production.CatalogExtractor,
) *HandlerRegistry {
	if resolver == nil {
		resolver = services.NewChainResolver(catalog)
	}

	return &HandlerRegistry{
		catalog:   catalog,
		resolver:  resolver,
		extractor: extractor,
	}
}

// RegisterProductionHandlers registers all production command and query handlers with the mediator
//
// This method registers:
//   - CalculateChainQuery, CalculateChainsQuery (chain resolution)
//   - ListFacilitiesQuery, ListResourcesQuery, GetFacilityQuery, ExportCatalogQuery (catalog browsing)
//   - ImportCatalogCommand, ClearCatalogCommand, ExtractCatalogCommand (catalog population)
func (r *HandlerRegistry) RegisterProductionHandlers(m common.Mediator) error {
	if err := common.RegisterHandler[*queries.CalculateChainQuery](m, queries.NewCalculateChainHandler(r.resolver)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*queries.CalculateChainsQuery](m, queries.NewCalculateChainsHandler(r.resolver)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*queries.ListFacilitiesQuery](m, queries.NewListFacilitiesHandler(r.catalog)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*queries.ListResourcesQuery](m, queries.NewListResourcesHandler(r.catalog)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*queries.GetFacilityQuery](m, queries.NewGetFacilityHandler(r.catalog)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*queries.ExportCatalogQuery](m, queries.NewExportCatalogHandler(r.catalog)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*commands.ImportCatalogCommand](m, commands.NewImportCatalogHandler(r.catalog)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*commands.ClearCatalogCommand](m, commands.NewClearCatalogHandler(r.catalog)); err != nil {
		return err
	}
	if r.extractor != nil {
		if err := common.RegisterHandler[*commands.ExtractCatalogCommand](m, commands.NewExtractCatalogHandler(r.extractor, r.catalog)); err != nil {
			return err
		}
	}

	return nil
}
