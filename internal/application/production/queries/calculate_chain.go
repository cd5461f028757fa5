package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrescamacho/oni-calculator/internal/application/common"
	"github.com/andrescamacho/oni-calculator/internal/application/production/services"
	"github.com/andrescamacho/oni-calculator/internal/domain/production"
)

// CalculateChainQuery asks for the production chain of one resource at a rate in kg/s
type CalculateChainQuery struct {
	Resource string
	Rate     float64
}

// CalculateChainResponse carries the resolved tree and its aggregates
type CalculateChainResponse struct {
	Tree       *production.ProductionNode
	Summary    *production.ChainSummary
	TotalPower float64
}

// CalculateChainHandler handles the CalculateChain query
type CalculateChainHandler struct {
	resolver *services.ChainResolver
}

// NewCalculateChainHandler creates a new CalculateChainHandler
func NewCalculateChainHandler(resolver *services.ChainResolver) *CalculateChainHandler {
	return &CalculateChainHandler{
		resolver: resolver,
	}
}

// Handle executes the CalculateChain query
func (h *CalculateChainHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*CalculateChainQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CalculateChainQuery")
	}

	return calculate(ctx, h.resolver, query.Resource, query.Rate)
}

func calculate(
	ctx context.Context,
	resolver *services.ChainResolver,
	resource string,
	rate float64,
) (*CalculateChainResponse, error) {
	if strings.TrimSpace(resource) == "" {
		return nil, fmt.Errorf("resource is required")
	}

	tree, err := resolver.Resolve(ctx, resource, rate)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve production chain for %s: %w", resource, err)
	}

	return &CalculateChainResponse{
		Tree:       tree,
		Summary:    production.Summarize(tree, resource, rate),
		TotalPower: production.TotalPower(tree),
	}, nil
}
