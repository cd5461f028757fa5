package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/oni-calculator/internal/application/production/commands"
	"github.com/andrescamacho/oni-calculator/internal/domain/production"
	"github.com/andrescamacho/oni-calculator/test/helpers"
)

func sieveSnapshot() *production.CatalogSnapshot {
	return &production.CatalogSnapshot{Facilities: []production.FacilitySpec{
		{
			Facility: production.Facility{ID: "WaterPurifier", Name: "Water Sieve", PowerWatts: -120},
			Inputs: []production.FacilityInput{
				{ResourceID: "DirtyWater", RateKgPerSecond: 5.0},
				{ResourceID: "Sand", RateKgPerSecond: 1.0},
			},
			Outputs: []production.FacilityOutput{
				{ResourceID: "Water", RateKgPerSecond: 5.0},
			},
		},
	}}
}

type stubExtractor struct {
	snapshot *production.CatalogSnapshot
	stats    *production.ExtractStats
	err      error
	gotDir   string
}

func (s *stubExtractor) Extract(ctx context.Context, dir string) (*production.CatalogSnapshot, *production.ExtractStats, error) {
	s.gotDir = dir
	return s.snapshot, s.stats, s.err
}

func TestImportCatalogHandler_WritesSnapshot(t *testing.T) {
	// Arrange
	catalog := helpers.NewMockCatalogRepository()
	handler := commands.NewImportCatalogHandler(catalog)

	// Act
	resp, err := handler.Handle(context.Background(), &commands.ImportCatalogCommand{Snapshot: sieveSnapshot()})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, &commands.ImportCatalogResponse{Facilities: 1, Inputs: 2, Outputs: 1}, resp)

	inputs, err := catalog.InputsOf(context.Background(), "WaterPurifier")
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, "WaterPurifier", inputs[0].FacilityID, "facility id is filled from the owning building")

	producers, err := catalog.ProducersOf(context.Background(), "Water")
	require.NoError(t, err)
	require.Len(t, producers, 1)
}

func TestImportCatalogHandler_ClearReplacesCatalog(t *testing.T) {
	catalog := helpers.NewMockCatalogRepository()
	catalog.AddFacility("Old", "Old Machine", 0)
	handler := commands.NewImportCatalogHandler(catalog)

	_, err := handler.Handle(context.Background(), &commands.ImportCatalogCommand{Snapshot: sieveSnapshot(), Clear: true})

	require.NoError(t, err)
	assert.Equal(t, 1, catalog.FacilityCount())
}

func TestImportCatalogHandler_ReimportReplacesFlows(t *testing.T) {
	// Arrange
	ctx := context.Background()
	catalog := helpers.NewMockCatalogRepository()
	handler := commands.NewImportCatalogHandler(catalog)
	_, err := handler.Handle(ctx, &commands.ImportCatalogCommand{Snapshot: sieveSnapshot()})
	require.NoError(t, err)

	// Act
	_, err = handler.Handle(ctx, &commands.ImportCatalogCommand{Snapshot: sieveSnapshot()})

	// Assert
	require.NoError(t, err)
	inputs, err := catalog.InputsOf(ctx, "WaterPurifier")
	require.NoError(t, err)
	assert.Len(t, inputs, 2)
	producers, err := catalog.ProducersOf(ctx, "Water")
	require.NoError(t, err)
	assert.Len(t, producers, 1)
}

func TestImportCatalogHandler_FailureRollsBackClear(t *testing.T) {
	// Arrange
	ctx := context.Background()
	catalog := helpers.NewMockCatalogRepository()
	catalog.AddFacility("Electrolyzer", "Electrolyzer", -120)
	catalog.AddFacilityInput("Electrolyzer", "Water", 1.0)
	catalog.FailInputWrites("Sand", errors.New("disk full"))
	handler := commands.NewImportCatalogHandler(catalog)

	// Act
	_, err := handler.Handle(ctx, &commands.ImportCatalogCommand{Snapshot: sieveSnapshot(), Clear: true})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 1, catalog.FacilityCount())
	_, err = catalog.FindFacility(ctx, "Electrolyzer")
	assert.NoError(t, err)
	inputs, err := catalog.InputsOf(ctx, "Electrolyzer")
	require.NoError(t, err)
	assert.Len(t, inputs, 1)
	producers, err := catalog.ProducersOf(ctx, "Water")
	require.NoError(t, err)
	assert.Empty(t, producers)
}

func TestImportCatalogHandler_RequiresSnapshot(t *testing.T) {
	handler := commands.NewImportCatalogHandler(helpers.NewMockCatalogRepository())

	_, err := handler.Handle(context.Background(), &commands.ImportCatalogCommand{})

	assert.Error(t, err)
}

func TestClearCatalogHandler(t *testing.T) {
	catalog := helpers.NewMockCatalogRepository()
	catalog.AddFacility("Electrolyzer", "Electrolyzer", -120)

	_, err := commands.NewClearCatalogHandler(catalog).Handle(context.Background(), &commands.ClearCatalogCommand{})

	require.NoError(t, err)
	assert.Equal(t, 0, catalog.FacilityCount())
}

func TestExtractCatalogHandler_WritesExtractedSnapshot(t *testing.T) {
	// Arrange
	catalog := helpers.NewMockCatalogRepository()
	catalog.AddFacility("Stale", "Stale", 0)
	extractor := &stubExtractor{
		snapshot: sieveSnapshot(),
		stats:    &production.ExtractStats{Buildings: 1, Inputs: 2, Outputs: 1, Skipped: 4},
	}
	handler := commands.NewExtractCatalogHandler(extractor, catalog)

	// Act
	resp, err := handler.Handle(context.Background(), &commands.ExtractCatalogCommand{SourceDir: "/src/game", Clear: true})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "/src/game", extractor.gotDir)
	assert.Equal(t, 4, resp.(*commands.ExtractCatalogResponse).Stats.Skipped)
	assert.Equal(t, 1, catalog.FacilityCount())
}

func TestExtractCatalogHandler_ExtractorFailureLeavesCatalog(t *testing.T) {
	catalog := helpers.NewMockCatalogRepository()
	catalog.AddFacility("Electrolyzer", "Electrolyzer", -120)
	handler := commands.NewExtractCatalogHandler(&stubExtractor{err: errors.New("no such directory")}, catalog)

	_, err := handler.Handle(context.Background(), &commands.ExtractCatalogCommand{SourceDir: "/missing", Clear: true})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such directory")
	assert.Equal(t, 1, catalog.FacilityCount())
}
