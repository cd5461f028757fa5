package production_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/oni-calculator/internal/domain/production"
)

func TestNewRawResourceNode(t *testing.T) {
	node := production.NewRawResourceNode("Water", 2.5)

	assert.True(t, node.IsRaw())
	assert.Equal(t, production.RawResourceFacilityID, node.FacilityID)
	assert.Equal(t, "Water (raw input)", node.FacilityName)
	assert.Equal(t, 0.0, node.Count)
	assert.Equal(t, 0.0, node.PowerWatts)
	require.Len(t, node.Inputs, 1)
	assert.Equal(t, "Water", node.Inputs[0].ResourceID)
	assert.Equal(t, 2.5, node.Inputs[0].RateKgPerSecond)
	assert.Nil(t, node.Inputs[0].Upstream)
	assert.Equal(t, production.UpstreamRaw, node.Inputs[0].Status)
}

func TestUnresolvedInput_KeepsReason(t *testing.T) {
	req := production.UnresolvedInput("Coal", 1, errors.New("catalog offline"))

	assert.False(t, req.HasUpstream())
	assert.Equal(t, production.UpstreamUnresolved, req.Status)
	assert.Equal(t, "catalog offline", req.UnresolvedReason)
}

func TestProductionNode_DepthAndCount(t *testing.T) {
	// Arrange
	leaf := production.NewRawResourceNode("Water", 1)
	mid := facilityNode("Sieve", "Water Sieve", 1, -120, production.ResolvedInput("Water", 1, leaf))
	root := facilityNode("Electrolyzer", "Electrolyzer", 1, -120,
		production.ResolvedInput("Water", 1, mid),
		production.UnresolvedInput("Sand", 1, nil),
	)

	// Act & Assert
	assert.Equal(t, 3, root.Depth())
	assert.Equal(t, 3, root.CountNodes())
	assert.Equal(t, 1, leaf.Depth())

	unresolved := root.UnresolvedInputs()
	require.Len(t, unresolved, 1)
	assert.Equal(t, "Sand", unresolved[0].ResourceID)
}

func TestFirstProducer(t *testing.T) {
	candidates := []production.ProducerCandidate{
		{Facility: production.Facility{ID: "Electrolyzer"}, OutputRate: 0.888},
		{Facility: production.Facility{ID: "AlgaeHabitat"}, OutputRate: 0.04},
	}

	chosen, ok := production.FirstProducer(candidates)
	require.True(t, ok)
	assert.Equal(t, "Electrolyzer", chosen.Facility.ID)

	_, ok = production.FirstProducer(nil)
	assert.False(t, ok)
}

func TestPreferFacility_FallsBack(t *testing.T) {
	candidates := []production.ProducerCandidate{
		{Facility: production.Facility{ID: "Electrolyzer"}, OutputRate: 0.888},
		{Facility: production.Facility{ID: "AlgaeHabitat"}, OutputRate: 0.04},
	}

	chosen, ok := production.PreferFacility("AlgaeHabitat", production.FirstProducer)(candidates)
	require.True(t, ok)
	assert.Equal(t, "AlgaeHabitat", chosen.Facility.ID)

	chosen, ok = production.PreferFacility("Missing", production.FirstProducer)(candidates)
	require.True(t, ok)
	assert.Equal(t, "Electrolyzer", chosen.Facility.ID)
}

func TestPreferFacilities_PriorityOrder(t *testing.T) {
	candidates := []production.ProducerCandidate{
		{Facility: production.Facility{ID: "Electrolyzer"}},
		{Facility: production.Facility{ID: "AlgaeHabitat"}},
		{Facility: production.Facility{ID: "Deodorizer"}},
	}

	chosen, ok := production.PreferFacilities([]string{"Missing", "Deodorizer", "AlgaeHabitat"})(candidates)
	require.True(t, ok)
	assert.Equal(t, "Deodorizer", chosen.Facility.ID)

	chosen, ok = production.PreferFacilities(nil)(candidates)
	require.True(t, ok)
	assert.Equal(t, "Electrolyzer", chosen.Facility.ID)
}

func TestCatalogSnapshot_Counts(t *testing.T) {
	snapshot := &production.CatalogSnapshot{Facilities: []production.FacilitySpec{
		{Inputs: make([]production.FacilityInput, 2), Outputs: make([]production.FacilityOutput, 1)},
		{Inputs: make([]production.FacilityInput, 1)},
	}}

	assert.Equal(t, 3, snapshot.InputCount())
	assert.Equal(t, 1, snapshot.OutputCount())
}
