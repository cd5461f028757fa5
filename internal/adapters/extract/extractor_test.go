package extract_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/oni-calculator/internal/adapters/extract"
)

func writeSource(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSourceExtractor_Extract(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	writeSource(t, dir, "Buildings/WaterPurifierConfig.cs", `
public class WaterPurifierConfig : IBuildingConfig {
	public const string ID = "WaterPurifier";
	def.EnergyConsumptionWhenActive = 120f;
	new ElementConverter.ConsumedElement(new Tag("Filter"), 1f, true),
	new ElementConverter.ConsumedElement(new Tag("DirtyWater"), 5f, true)
	new ElementConverter.OutputElement(5f, SimHashes.Water, 0f, false, true, 0f, 0.5f, 0.75f, byte.MaxValue, 0, true),
	new ElementConverter.OutputElement(0.2f, SimHashes.ToxicSand, 0f, false, true, 0f, 0.5f, 0.25f, byte.MaxValue, 0, true)
}`)
	writeSource(t, dir, "Buildings/Power/GeneratorConfig.cs", `
public class GeneratorConfig : IBuildingConfig {
	public const string ID = "Generator";
	def.GeneratorWattageRating = 600f;
	energyGenerator.formula = EnergyGenerator.CreateSimpleFormula(SimHashes.Carbon.CreateTag(), 1f, 600f, SimHashes.CarbonDioxide, 0.02f, false, new CellOffset(1, 2), 383.15f);
}`)
	writeSource(t, dir, "Buildings/TileConfig.cs", `public class TileConfig : IBuildingConfig { }`)
	writeSource(t, dir, "Entities/HatchConfig.cs", `public class HatchConfig : IEntityConfig { }`)
	writeSource(t, dir, "Buildings/Notes.cs", `public const string ID = "NotAConfigFile"; CreateBuildingDef`)

	// Act
	snapshot, stats, err := extract.NewSourceExtractor().Extract(context.Background(), dir)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Buildings)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Errors)
	assert.Equal(t, 3, stats.Inputs)
	assert.Equal(t, 2, stats.Outputs)
	assert.Equal(t, "Extracted 2 buildings (3 inputs, 2 outputs). Skipped: 1, Errors: 0", stats.String())

	byID := map[string]int{}
	for i, spec := range snapshot.Facilities {
		byID[spec.Facility.ID] = i
	}
	require.Contains(t, byID, "WaterPurifier")
	require.Contains(t, byID, "Generator")

	sieve := snapshot.Facilities[byID["WaterPurifier"]]
	assert.Equal(t, "WaterPurifier", sieve.Facility.Name)
	assert.Equal(t, -120.0, sieve.Facility.PowerWatts)
	assert.Equal(t, "Filter", sieve.Inputs[0].ResourceID)
	assert.Equal(t, "DirtyWater", sieve.Inputs[1].ResourceID)
	assert.Equal(t, "WaterPurifier", sieve.Outputs[0].FacilityID)
	assert.Equal(t, 5.0, sieve.Outputs[0].RateKgPerSecond)

	generator := snapshot.Facilities[byID["Generator"]]
	assert.Equal(t, 600.0, generator.Facility.PowerWatts)
	assert.Equal(t, "Carbon", generator.Inputs[0].ResourceID)
}

func TestSourceExtractor_DuplicateIDKeepsLast(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a/FirstConfig.cs", `const string ID = "Dup"; CreateBuildingDef; EnergyConsumptionWhenActive = 10f; new ElementConverter.ConsumedElement(new Tag("A"), 1f)`)
	writeSource(t, dir, "b/SecondConfig.cs", `const string ID = "Dup"; CreateBuildingDef; EnergyConsumptionWhenActive = 20f;`)

	snapshot, stats, err := extract.NewSourceExtractor().Extract(context.Background(), dir)

	require.NoError(t, err)
	require.Len(t, snapshot.Facilities, 1)
	assert.Equal(t, -20.0, snapshot.Facilities[0].Facility.PowerWatts)
	assert.Equal(t, 1, stats.Buildings)
	assert.Equal(t, 0, stats.Inputs)
}

func TestSourceExtractor_MissingDirectory(t *testing.T) {
	_, _, err := extract.NewSourceExtractor().Extract(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestSourceExtractor_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "XConfig.cs", `const string ID = "X"; CreateBuildingDef`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := extract.NewSourceExtractor().Extract(ctx, dir)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSourceExtractor_FindConfigFiles(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "AConfig.cs", `class A : IBuildingConfig`)
	writeSource(t, dir, "BConfig.cs", `class B : IEntityConfig`)
	writeSource(t, dir, "CConfig.txt", `class C : IBuildingConfig`)

	files, err := extract.NewSourceExtractor().FindConfigFiles(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "AConfig.cs")}, files)
}
