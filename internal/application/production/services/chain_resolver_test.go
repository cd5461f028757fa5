package services_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/oni-calculator/internal/application/common"
	"github.com/andrescamacho/oni-calculator/internal/application/production/services"
	"github.com/andrescamacho/oni-calculator/internal/domain/production"
	"github.com/andrescamacho/oni-calculator/test/helpers"
)

// electrolyzerCatalog holds only the electrolyzer, so water is raw
func electrolyzerCatalog() *helpers.MockCatalogRepository {
	catalog := helpers.NewMockCatalogRepository()
	catalog.AddFacility("Electrolyzer", "Electrolyzer", -120)
	catalog.AddFacilityInput("Electrolyzer", "Water", 1.0)
	catalog.AddFacilityOutput("Electrolyzer", "Oxygen", 0.888)
	catalog.AddFacilityOutput("Electrolyzer", "Hydrogen", 0.112)
	return catalog
}

// waterChainCatalog adds a water sieve feeding the electrolyzer
func waterChainCatalog() *helpers.MockCatalogRepository {
	catalog := electrolyzerCatalog()
	catalog.AddFacility("WaterPurifier", "Water Sieve", -120)
	catalog.AddFacilityInput("WaterPurifier", "DirtyWater", 5.0)
	catalog.AddFacilityInput("WaterPurifier", "Sand", 1.0)
	catalog.AddFacilityOutput("WaterPurifier", "Water", 5.0)
	catalog.AddFacilityOutput("WaterPurifier", "ToxicSand", 0.2)
	return catalog
}

type fakeRecorder struct {
	mu    sync.Mutex
	stats []services.ResolutionStats
}

func (r *fakeRecorder) RecordResolution(stats services.ResolutionStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats = append(r.stats, stats)
}

func TestResolve_ElectrolyzerForOxygen(t *testing.T) {
	// Arrange
	resolver := services.NewChainResolver(electrolyzerCatalog())

	// Act
	node, err := resolver.Resolve(context.Background(), "Oxygen", 1.776)

	// Assert
	require.NoError(t, err)
	expected := &production.ProductionNode{
		FacilityID:   "Electrolyzer",
		FacilityName: "Electrolyzer",
		Count:        1.776 / 0.888,
		PowerWatts:   (1.776 / 0.888) * -120,
		Inputs: []production.InputRequirement{
			production.ResolvedInput("Water", 1.0*(1.776/0.888), production.NewRawResourceNode("Water", 1.0*(1.776/0.888))),
		},
	}
	if diff := cmp.Diff(expected, node); diff != "" {
		t.Errorf("resolved tree mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 2.0, node.Count, 1e-9)
	assert.InDelta(t, -240.0, node.PowerWatts, 1e-9)
	assert.InDelta(t, 2.0, node.Inputs[0].RateKgPerSecond, 1e-9)
}

func TestResolve_NoProducerYieldsRawNode(t *testing.T) {
	resolver := services.NewChainResolver(electrolyzerCatalog())

	node, err := resolver.Resolve(context.Background(), "Unobtainium", 3.5)

	require.NoError(t, err)
	assert.True(t, node.IsRaw())
	assert.Equal(t, production.RawResourceFacilityID, node.FacilityID)
	assert.Equal(t, "Unobtainium (raw input)", node.FacilityName)
	assert.Equal(t, 0.0, node.Count)
	assert.Equal(t, 0.0, node.PowerWatts)
	require.Len(t, node.Inputs, 1)
	assert.Equal(t, "Unobtainium", node.Inputs[0].ResourceID)
	assert.Equal(t, 3.5, node.Inputs[0].RateKgPerSecond)
	assert.Nil(t, node.Inputs[0].Upstream)
	assert.Equal(t, production.UpstreamRaw, node.Inputs[0].Status)
}

func TestResolve_CountAndPowerScaleWithRate(t *testing.T) {
	// Arrange
	resolver := services.NewChainResolver(waterChainCatalog())
	rate := 0.5

	// Act
	node, err := resolver.Resolve(context.Background(), "Oxygen", rate)
	require.NoError(t, err)

	// Assert: every facility node satisfies count = demand / output rate
	count := rate / 0.888
	assert.Equal(t, count, node.Count)
	assert.Equal(t, count*-120, node.PowerWatts)

	water := node.Inputs[0]
	require.NotNil(t, water.Upstream)
	assert.Equal(t, 1.0*count, water.RateKgPerSecond)
	assert.Equal(t, "WaterPurifier", water.Upstream.FacilityID)
	assert.Equal(t, water.RateKgPerSecond/5.0, water.Upstream.Count)

	sieveInputs := water.Upstream.Inputs
	require.Len(t, sieveInputs, 2)
	assert.Equal(t, "DirtyWater", sieveInputs[0].ResourceID)
	assert.Equal(t, "Sand", sieveInputs[1].ResourceID)
	assert.Equal(t, 5.0*water.Upstream.Count, sieveInputs[0].RateKgPerSecond)
	assert.True(t, sieveInputs[0].Upstream.IsRaw())
}

func TestResolve_TotalPowerMatchesNodeSum(t *testing.T) {
	resolver := services.NewChainResolver(waterChainCatalog())

	node, err := resolver.Resolve(context.Background(), "Oxygen", 1.776)
	require.NoError(t, err)

	var sum float64
	node.Walk(func(n *production.ProductionNode) { sum += n.PowerWatts })
	assert.InDelta(t, sum, production.TotalPower(node), 1e-9)
	assert.InDelta(t, -240.0-0.4*120, production.TotalPower(node), 1e-9)
}

func TestResolve_SelfCycleTerminatesAtDepthGuard(t *testing.T) {
	// Arrange: a facility that needs its own output
	catalog := helpers.NewMockCatalogRepository()
	catalog.AddFacility("Loop", "Loop Machine", -10)
	catalog.AddFacilityInput("Loop", "Gunk", 1.0)
	catalog.AddFacilityOutput("Loop", "Gunk", 1.0)
	resolver := services.NewChainResolver(catalog)

	// Act
	node, err := resolver.Resolve(context.Background(), "Gunk", 1.0)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, production.MaxResolutionDepth+1, node.Depth())
	assert.Equal(t, production.MaxResolutionDepth+1, node.CountNodes())

	unresolved := node.UnresolvedInputs()
	require.Len(t, unresolved, 1)
	assert.Equal(t, "Gunk", unresolved[0].ResourceID)
	assert.Nil(t, unresolved[0].Upstream)
	assert.Contains(t, unresolved[0].UnresolvedReason, "maximum recursion depth 20 exceeded")

	summary := production.Summarize(node, "Gunk", 1.0)
	loopMachines, _ := summary.FacilityCount("Loop Machine")
	assert.Equal(t, float64(production.MaxResolutionDepth+1), loopMachines)
	gunk, _ := summary.RawInputRate("Gunk")
	assert.Equal(t, 1.0, gunk)
}

func TestResolve_ZeroRate(t *testing.T) {
	resolver := services.NewChainResolver(electrolyzerCatalog())

	node, err := resolver.Resolve(context.Background(), "Oxygen", 0)

	require.NoError(t, err)
	assert.Equal(t, 0.0, node.Count)
	assert.Equal(t, 0.0, node.Inputs[0].RateKgPerSecond)
}

func TestResolve_ZeroOutputRatePropagatesInfinity(t *testing.T) {
	// Arrange
	catalog := helpers.NewMockCatalogRepository()
	catalog.AddFacility("Broken", "Broken Machine", -100)
	catalog.AddFacilityInput("Broken", "Dust", 1.0)
	catalog.AddFacilityOutput("Broken", "Nothing", 0)
	resolver := services.NewChainResolver(catalog)

	// Act
	node, err := resolver.Resolve(context.Background(), "Nothing", 1.0)

	// Assert
	require.NoError(t, err)
	assert.True(t, math.IsInf(node.Count, 1))
	assert.True(t, math.IsInf(node.PowerWatts, -1))
	assert.True(t, math.IsInf(node.Inputs[0].RateKgPerSecond, 1))

	zero, err := resolver.Resolve(context.Background(), "Nothing", 0)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(zero.Count))
}

func TestResolve_NestedFailureDegradesOnlyThatInput(t *testing.T) {
	// Arrange
	catalog := waterChainCatalog()
	catalog.FailProducersOf("DirtyWater", errors.New("connection reset"))
	logger := &helpers.RecordingLogger{}
	ctx := common.WithLogger(context.Background(), logger)
	resolver := services.NewChainResolver(catalog)

	// Act
	node, err := resolver.Resolve(ctx, "Oxygen", 1.776)

	// Assert
	require.NoError(t, err)
	sieve := node.Inputs[0].Upstream
	require.NotNil(t, sieve)

	dirty := sieve.Inputs[0]
	assert.Equal(t, production.UpstreamUnresolved, dirty.Status)
	assert.Nil(t, dirty.Upstream)
	assert.InDelta(t, 2.0, dirty.RateKgPerSecond, 1e-9)
	assert.Contains(t, dirty.UnresolvedReason, "connection reset")

	sand := sieve.Inputs[1]
	assert.Equal(t, production.UpstreamResolved, sand.Status)
	require.NotNil(t, sand.Upstream)
	assert.True(t, sand.Upstream.IsRaw())

	assert.Equal(t, 1, logger.CountLevel("WARN"))
}

func TestResolve_TopLevelFailuresPropagate(t *testing.T) {
	t.Run("producer lookup", func(t *testing.T) {
		catalog := electrolyzerCatalog()
		catalog.FailProducersOf("Oxygen", errors.New("db locked"))

		node, err := services.NewChainResolver(catalog).Resolve(context.Background(), "Oxygen", 1)

		require.Error(t, err)
		assert.Nil(t, node)
		assert.Contains(t, err.Error(), "failed to find producers of Oxygen")
		assert.Contains(t, err.Error(), "db locked")
	})

	t.Run("input lookup", func(t *testing.T) {
		catalog := electrolyzerCatalog()
		catalog.FailInputsOf("Electrolyzer", errors.New("db locked"))

		_, err := services.NewChainResolver(catalog).Resolve(context.Background(), "Oxygen", 1)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get inputs of Electrolyzer")
	})
}

func TestResolve_NodeLimitDegradesRemainingInputs(t *testing.T) {
	// Arrange
	resolver := services.NewChainResolver(waterChainCatalog())
	resolver.SetMaxNodes(2)

	// Act
	node, err := resolver.Resolve(context.Background(), "Oxygen", 1.776)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, node.CountNodes())
	unresolved := node.UnresolvedInputs()
	require.Len(t, unresolved, 2)
	assert.Contains(t, unresolved[0].UnresolvedReason, "node limit 2")
}

func TestResolve_NonPositiveNodeLimitDisablesCap(t *testing.T) {
	resolver := services.NewChainResolver(waterChainCatalog())
	resolver.SetMaxNodes(-1)

	node, err := resolver.Resolve(context.Background(), "Oxygen", 1)

	require.NoError(t, err)
	assert.Equal(t, 4, node.CountNodes())
	assert.Empty(t, node.UnresolvedInputs())
}

func TestResolve_SelectorChoosesProducer(t *testing.T) {
	// Arrange: two facilities produce oxygen
	catalog := electrolyzerCatalog()
	catalog.AddFacility("AlgaeHabitat", "Algae Terrarium", 0)
	catalog.AddFacilityInput("AlgaeHabitat", "Algae", 0.030)
	catalog.AddFacilityInput("AlgaeHabitat", "Water", 0.300)
	catalog.AddFacilityOutput("AlgaeHabitat", "Oxygen", 0.040)

	// Act
	first, err := services.NewChainResolver(catalog).Resolve(context.Background(), "Oxygen", 0.04)
	require.NoError(t, err)
	preferred, err := services.NewChainResolverWithSelector(
		catalog, production.PreferFacility("AlgaeHabitat", production.FirstProducer),
	).Resolve(context.Background(), "Oxygen", 0.04)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "Electrolyzer", first.FacilityID)
	assert.Equal(t, "AlgaeHabitat", preferred.FacilityID)
	assert.InDelta(t, 1.0, preferred.Count, 1e-9)
	assert.Equal(t, 0.0, preferred.PowerWatts)
}

func TestResolve_DecliningSelectorFailsTopLevel(t *testing.T) {
	never := func([]production.ProducerCandidate) (production.ProducerCandidate, bool) {
		return production.ProducerCandidate{}, false
	}
	resolver := services.NewChainResolverWithSelector(electrolyzerCatalog(), never)

	_, err := resolver.Resolve(context.Background(), "Oxygen", 1)

	var declined *production.ErrNoProducerSelected
	require.ErrorAs(t, err, &declined)
	assert.Equal(t, 1, declined.Candidates)
}

func TestResolve_RecordsStats(t *testing.T) {
	// Arrange
	recorder := &fakeRecorder{}
	resolver := services.NewChainResolver(waterChainCatalog())
	resolver.SetRecorder(recorder)

	// Act
	_, err := resolver.Resolve(context.Background(), "Oxygen", 1.776)
	require.NoError(t, err)

	// Assert
	require.Len(t, recorder.stats, 1)
	stats := recorder.stats[0]
	assert.Equal(t, "Oxygen", stats.Resource)
	assert.Equal(t, 4, stats.Nodes)
	assert.Equal(t, 2, stats.RawLeaves)
	assert.Equal(t, 0, stats.UnresolvedCount)
	assert.Equal(t, 2, stats.MaxDepthReached)
	assert.NoError(t, stats.Err)
}

func TestResolve_ConcurrentResolutionsShareCatalog(t *testing.T) {
	resolver := services.NewChainResolver(waterChainCatalog())

	var wg sync.WaitGroup
	results := make([]*production.ProductionNode, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			node, err := resolver.Resolve(context.Background(), "Oxygen", float64(i+1))
			assert.NoError(t, err)
			results[i] = node
		}(i)
	}
	wg.Wait()

	for i, node := range results {
		require.NotNil(t, node)
		assert.InDelta(t, float64(i+1)/0.888, node.Count, 1e-9)
	}
}
