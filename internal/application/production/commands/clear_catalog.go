package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/oni-calculator/internal/application/common"
	"github.com/andrescamacho/oni-calculator/internal/domain/production"
)

// ClearCatalogCommand removes every facility, input, output and resource
type ClearCatalogCommand struct{}

// ClearCatalogHandler handles the ClearCatalog command
type ClearCatalogHandler struct {
	writer production.CatalogWriter
}

// NewClearCatalogHandler creates a new ClearCatalogHandler
func NewClearCatalogHandler(writer production.CatalogWriter) *ClearCatalogHandler {
	return &ClearCatalogHandler{writer: writer}
}

// Handle executes the ClearCatalog command
func (h *ClearCatalogHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*ClearCatalogCommand); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ClearCatalogCommand")
	}

	if err := h.writer.Clear(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear catalog: %w", err)
	}

	common.LoggerFromContext(ctx).Log("INFO", "[ClearCatalog] Catalog cleared", nil)
	return nil, nil
}
