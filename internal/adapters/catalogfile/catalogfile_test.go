package catalogfile_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/oni-calculator/internal/adapters/catalogfile"
	"github.com/andrescamacho/oni-calculator/internal/domain/production"
)

func TestSample_SevenBuildings(t *testing.T) {
	// Act
	snapshot, err := catalogfile.Sample()

	// Assert
	require.NoError(t, err)
	require.Len(t, snapshot.Facilities, 7)

	ids := make([]string, 0, 7)
	for _, spec := range snapshot.Facilities {
		ids = append(ids, spec.Facility.ID)
	}
	assert.Equal(t, []string{
		"Electrolyzer", "HydrogenGenerator", "Generator", "WaterPurifier",
		"MetalRefinery", "AlgaeHabitat", "MethaneGenerator",
	}, ids)
	assert.Equal(t, 9, snapshot.InputCount())
	assert.Equal(t, 10, snapshot.OutputCount())
}

func TestSample_ElectrolyzerValues(t *testing.T) {
	snapshot, err := catalogfile.Sample()
	require.NoError(t, err)

	electrolyzer := snapshot.Facilities[0]
	assert.Equal(t, production.Facility{
		ID: "Electrolyzer", Name: "Electrolyzer", Category: "Oxygen",
		PowerWatts: -120, HeatOutputDTU: 1000, ConstructionTimeSeconds: 30,
	}, electrolyzer.Facility)
	assert.Equal(t, []production.FacilityInput{{FacilityID: "Electrolyzer", ResourceID: "Water", RateKgPerSecond: 1.0}}, electrolyzer.Inputs)
	assert.Equal(t, 0.888, electrolyzer.Outputs[0].RateKgPerSecond)
	assert.Equal(t, 0.112, electrolyzer.Outputs[1].RateKgPerSecond)

	algae := snapshot.Facilities[5]
	assert.Equal(t, "Algae Terrarium", algae.Facility.Name)
	assert.Equal(t, -667.0, algae.Facility.HeatOutputDTU)
	assert.Equal(t, 0.0, algae.Facility.PowerWatts)
}

func TestDecode_RejectsNegativeRate(t *testing.T) {
	doc := `
version: 1
buildings:
  - id: Broken
    name: Broken
    inputs:
      - {resource: Water, rate: -1}
`
	_, err := catalogfile.Decode(strings.NewReader(doc))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Rate")
	assert.Contains(t, err.Error(), "gte")
}

func TestDecode_RejectsMissingFieldsAndUnknownKeys(t *testing.T) {
	_, err := catalogfile.Decode(strings.NewReader("version: 1\nbuildings:\n  - id: X\n"))
	assert.Error(t, err, "name is required")

	_, err = catalogfile.Decode(strings.NewReader("version: 1\nbuildings:\n  - {id: X, name: X, wattage: 5}\n"))
	assert.Error(t, err, "unknown key")

	_, err = catalogfile.Decode(strings.NewReader("version: 2\n"))
	assert.Error(t, err, "unsupported version")

	_, err = catalogfile.Decode(strings.NewReader(""))
	assert.Error(t, err)
}

func TestDecode_RejectsDuplicateIDs(t *testing.T) {
	_, err := catalogfile.Decode(strings.NewReader("version: 1\nbuildings:\n  - {id: A, name: A}\n  - {id: A, name: B}\n"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate building id "A"`)
}

func TestSaveAndLoad_PreservesCatalog(t *testing.T) {
	// Arrange
	sample, err := catalogfile.Sample()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "catalog.yaml")

	// Act
	require.NoError(t, catalogfile.Save(path, sample))
	loaded, err := catalogfile.Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, sample, loaded)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := catalogfile.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
