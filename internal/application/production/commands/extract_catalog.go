package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/oni-calculator/internal/application/common"
	"github.com/andrescamacho/oni-calculator/internal/domain/production"
)

// ExtractCatalogCommand scans decompiled game sources and writes what it finds
type ExtractCatalogCommand struct {
	SourceDir string
	Clear     bool
}

// ExtractCatalogResponse reports extraction statistics
type ExtractCatalogResponse struct {
	Stats production.ExtractStats
}

// ExtractCatalogHandler handles the ExtractCatalog command
type ExtractCatalogHandler struct {
	extractor production.CatalogExtractor
	writer    production.CatalogWriter
}

// NewExtractCatalogHandler creates a new ExtractCatalogHandler
func NewExtractCatalogHandler(extractor production.CatalogExtractor, writer production.CatalogWriter) *ExtractCatalogHandler {
	return &ExtractCatalogHandler{
		extractor: extractor,
		writer:    writer,
	}
}

// Handle executes the ExtractCatalog command
func (h *ExtractCatalogHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ExtractCatalogCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ExtractCatalogCommand")
	}
	if cmd.SourceDir == "" {
		return nil, fmt.Errorf("source directory is required")
	}

	snapshot, stats, err := h.extractor.Extract(ctx, cmd.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to extract from %s: %w", cmd.SourceDir, err)
	}

	if err := replaceCatalog(ctx, h.writer, snapshot, cmd.Clear); err != nil {
		return nil, err
	}

	common.LoggerFromContext(ctx).Log("INFO", fmt.Sprintf("[ExtractCatalog] Extracted %d buildings from %s", stats.Buildings, cmd.SourceDir), map[string]interface{}{
		"inputs":  stats.Inputs,
		"outputs": stats.Outputs,
		"skipped": stats.Skipped,
		"errors":  stats.Errors,
	})

	return &ExtractCatalogResponse{Stats: *stats}, nil
}
