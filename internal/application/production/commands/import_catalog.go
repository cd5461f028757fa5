package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/oni-calculator/internal/application/common"
	"github.com/andrescamacho/oni-calculator/internal/domain/production"
)

// ImportCatalogCommand writes a catalog snapshot, optionally replacing the current catalog
type ImportCatalogCommand struct {
	Snapshot *production.CatalogSnapshot
	Clear    bool
	Source   string // Label for logs, e.g. "sample" or a file path
}

// ImportCatalogResponse reports what was written
type ImportCatalogResponse struct {
	Facilities int
	Inputs     int
	Outputs    int
}

// ImportCatalogHandler handles the ImportCatalog command
type ImportCatalogHandler struct {
	writer production.CatalogWriter
}

// NewImportCatalogHandler creates a new ImportCatalogHandler
func NewImportCatalogHandler(writer production.CatalogWriter) *ImportCatalogHandler {
	return &ImportCatalogHandler{writer: writer}
}

// Handle executes the ImportCatalog command
func (h *ImportCatalogHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ImportCatalogCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ImportCatalogCommand")
	}
	if cmd.Snapshot == nil {
		return nil, fmt.Errorf("snapshot is required")
	}

	if err := replaceCatalog(ctx, h.writer, cmd.Snapshot, cmd.Clear); err != nil {
		return nil, err
	}

	response := &ImportCatalogResponse{
		Facilities: len(cmd.Snapshot.Facilities),
		Inputs:     cmd.Snapshot.InputCount(),
		Outputs:    cmd.Snapshot.OutputCount(),
	}

	common.LoggerFromContext(ctx).Log("INFO", fmt.Sprintf("[ImportCatalog] Imported %d buildings", response.Facilities), map[string]interface{}{
		"source":  cmd.Source,
		"inputs":  response.Inputs,
		"outputs": response.Outputs,
		"cleared": cmd.Clear,
	})

	return response, nil
}

// replaceCatalog writes a snapshot in one transaction, after clearing the catalog when asked.
// Buildings already in the catalog get their inputs and outputs replaced.
func replaceCatalog(ctx context.Context, writer production.CatalogWriter, snapshot *production.CatalogSnapshot, clearFirst bool) error {
	return writer.Transaction(ctx, func(tx production.CatalogWriter) error {
		if clearFirst {
			if err := tx.Clear(ctx); err != nil {
				return fmt.Errorf("failed to clear catalog: %w", err)
			}
		}
		return writeSnapshot(ctx, tx, snapshot)
	})
}

func writeSnapshot(ctx context.Context, writer production.CatalogWriter, snapshot *production.CatalogSnapshot) error {
	for _, spec := range snapshot.Facilities {
		if err := writer.UpsertFacility(ctx, spec.Facility); err != nil {
			return fmt.Errorf("failed to write building %s: %w", spec.Facility.ID, err)
		}
		if err := writer.RemoveFlows(ctx, spec.Facility.ID); err != nil {
			return fmt.Errorf("failed to replace flows of %s: %w", spec.Facility.ID, err)
		}
		for _, input := range spec.Inputs {
			input.FacilityID = spec.Facility.ID
			if err := writer.AddInput(ctx, input); err != nil {
				return fmt.Errorf("failed to write input of %s: %w", spec.Facility.ID, err)
			}
		}
		for _, output := range spec.Outputs {
			output.FacilityID = spec.Facility.ID
			if err := writer.AddOutput(ctx, output); err != nil {
				return fmt.Errorf("failed to write output of %s: %w", spec.Facility.ID, err)
			}
		}
	}
	return nil
}
