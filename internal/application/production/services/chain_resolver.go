package services

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/oni-calculator/internal/application/common"
	"github.com/andrescamacho/oni-calculator/internal/domain/production"
)

// ResolutionStats describes one finished resolution for metrics collection
type ResolutionStats struct {
	Resource        string
	Nodes           int
	RawLeaves       int
	UnresolvedCount int
	MaxDepthReached int
	Duration        time.Duration
	Err             error
}

// ResolutionRecorder receives stats for every top-level resolution
type ResolutionRecorder interface {
	RecordResolution(stats ResolutionStats)
}

// ChainResolver expands a target resource and rate into a tree of producing
// facilities by walking the catalog backwards from output to inputs.
//
// Exactly one producer is chosen per resource, by the configured selector.
// Failures below the top level never abort a resolution: the affected input
// is kept as an unresolved requirement and its siblings are still resolved.
type ChainResolver struct {
	catalog  production.CatalogRepository
	selector production.ProducerSelector
	maxNodes int
	recorder ResolutionRecorder
}

// NewChainResolver creates a resolver that always takes the first producer candidate
func NewChainResolver(catalog production.CatalogRepository) *ChainResolver {
	return &ChainResolver{
		catalog:  catalog,
		selector: production.FirstProducer,
	}
}

// NewChainResolverWithSelector creates a resolver with a specific producer selection policy
func NewChainResolverWithSelector(
	catalog production.CatalogRepository,
	selector production.ProducerSelector,
) *ChainResolver {
	if selector == nil {
		selector = production.FirstProducer
	}
	return &ChainResolver{
		catalog:  catalog,
		selector: selector,
	}
}

// SetMaxNodes caps the number of nodes a single resolution may build.
// Zero disables the cap.
func (r *ChainResolver) SetMaxNodes(limit int) {
	r.maxNodes = limit
}

// SetRecorder attaches a metrics recorder
func (r *ChainResolver) SetRecorder(recorder ResolutionRecorder) {
	r.recorder = recorder
}

// Resolve builds the production tree for producing resource at rate kg/s.
//
// Only an error raised while resolving the target itself is returned;
// deeper failures are folded into the tree as unresolved inputs.
func (r *ChainResolver) Resolve(
	ctx context.Context,
	resource string,
	rate float64,
) (*production.ProductionNode, error) {
	started := time.Now()
	run := &resolution{resolver: r}

	node, err := run.resolveAt(ctx, resource, rate, 0)

	if r.recorder != nil {
		r.recorder.RecordResolution(ResolutionStats{
			Resource:        resource,
			Nodes:           run.nodes,
			RawLeaves:       run.rawLeaves,
			UnresolvedCount: run.unresolved,
			MaxDepthReached: run.maxDepth,
			Duration:        time.Since(started),
			Err:             err,
		})
	}

	if err != nil {
		return nil, err
	}

	common.LoggerFromContext(ctx).Log("DEBUG", fmt.Sprintf("[ChainResolver] Resolved %s @ %.3f kg/s", resource, rate), map[string]interface{}{
		"nodes":      run.nodes,
		"raw_leaves": run.rawLeaves,
		"unresolved": run.unresolved,
		"max_depth":  run.maxDepth,
	})

	return node, nil
}

// resolution holds the bookkeeping of a single Resolve call
type resolution struct {
	resolver   *ChainResolver
	nodes      int
	rawLeaves  int
	unresolved int
	maxDepth   int
}

// resolveAt is the depth-tracked recursive step
func (run *resolution) resolveAt(
	ctx context.Context,
	resource string,
	rate float64,
	depth int,
) (*production.ProductionNode, error) {
	r := run.resolver

	if depth > production.MaxResolutionDepth {
		return nil, &production.ErrDepthExceeded{
			Resource: resource,
			Depth:    depth,
			Max:      production.MaxResolutionDepth,
		}
	}

	if r.maxNodes > 0 && run.nodes >= r.maxNodes {
		return nil, &production.ErrNodeLimitExceeded{Resource: resource, Limit: r.maxNodes}
	}

	if depth > run.maxDepth {
		run.maxDepth = depth
	}

	producers, err := r.catalog.ProducersOf(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("failed to find producers of %s: %w", resource, err)
	}

	if len(producers) == 0 {
		// Nobody produces it: raw resource
		run.nodes++
		run.rawLeaves++
		return production.NewRawResourceNode(resource, rate), nil
	}

	chosen, ok := r.selector(producers)
	if !ok {
		return nil, &production.ErrNoProducerSelected{Resource: resource, Candidates: len(producers)}
	}

	// Division by a zero output rate yields Inf/NaN on purpose
	count := rate / chosen.OutputRate
	totalPower := count * chosen.Facility.PowerWatts

	inputs, err := r.catalog.InputsOf(ctx, chosen.Facility.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inputs of %s: %w", chosen.Facility.ID, err)
	}

	run.nodes++

	requirements := make([]production.InputRequirement, 0, len(inputs))
	for _, input := range inputs {
		requiredRate := input.RateKgPerSecond * count

		upstream, err := run.resolveAt(ctx, input.ResourceID, requiredRate, depth+1)
		if err != nil {
			run.unresolved++
			common.LoggerFromContext(ctx).Log("WARN", fmt.Sprintf("[ChainResolver] Treating %s as raw input: %v", input.ResourceID, err), map[string]interface{}{
				"facility": chosen.Facility.ID,
				"depth":    depth + 1,
				"rate":     requiredRate,
			})
			requirements = append(requirements, production.UnresolvedInput(input.ResourceID, requiredRate, err))
			continue
		}

		requirements = append(requirements, production.ResolvedInput(input.ResourceID, requiredRate, upstream))
	}

	return &production.ProductionNode{
		FacilityID:   chosen.Facility.ID,
		FacilityName: chosen.Facility.Name,
		Count:        count,
		PowerWatts:   totalPower,
		Inputs:       requirements,
	}, nil
}
