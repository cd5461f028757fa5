package queries

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/oni-calculator/internal/application/common"
	"github.com/andrescamacho/oni-calculator/internal/application/production/services"
)

// DefaultChainConcurrency bounds parallel resolutions when the query does not say
const DefaultChainConcurrency = 4

// ChainTarget is one resource and rate to resolve
type ChainTarget struct {
	Resource string
	Rate     float64
}

// CalculateChainsQuery resolves several independent targets concurrently
type CalculateChainsQuery struct {
	Targets     []ChainTarget
	Concurrency int
}

// CalculateChainsResponse holds one result per target, in target order
type CalculateChainsResponse struct {
	Results []*CalculateChainResponse
}

// CalculateChainsHandler handles the CalculateChains query
type CalculateChainsHandler struct {
	resolver *services.ChainResolver
}

// NewCalculateChainsHandler creates a new CalculateChainsHandler
func NewCalculateChainsHandler(resolver *services.ChainResolver) *CalculateChainsHandler {
	return &CalculateChainsHandler{
		resolver: resolver,
	}
}

// Handle executes the CalculateChains query.
// The first failing target cancels the remaining ones and its error is returned.
func (h *CalculateChainsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*CalculateChainsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CalculateChainsQuery")
	}

	limit := query.Concurrency
	if limit <= 0 {
		limit = DefaultChainConcurrency
	}

	results := make([]*CalculateChainResponse, len(query.Targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, target := range query.Targets {
		i, target := i, target
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := calculate(gctx, h.resolver, target.Resource, target.Rate)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &CalculateChainsResponse{Results: results}, nil
}
