package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/oni-calculator/internal/domain/production"
	"github.com/andrescamacho/oni-calculator/test/helpers"
)

func TestResolveAt_RejectsDepthBeyondLimit(t *testing.T) {
	// Arrange
	run := &resolution{resolver: NewChainResolver(helpers.NewMockCatalogRepository())}

	// Act
	node, err := run.resolveAt(context.Background(), "Water", 1.0, production.MaxResolutionDepth+1)

	// Assert
	assert.Nil(t, node)
	var depthErr *production.ErrDepthExceeded
	require.ErrorAs(t, err, &depthErr)
	assert.Equal(t, "Water", depthErr.Resource)
	assert.Equal(t, 21, depthErr.Depth)
	assert.Equal(t, 20, depthErr.Max)
}

func TestResolveAt_AcceptsMaximumDepth(t *testing.T) {
	run := &resolution{resolver: NewChainResolver(helpers.NewMockCatalogRepository())}

	node, err := run.resolveAt(context.Background(), "Water", 1.0, production.MaxResolutionDepth)

	require.NoError(t, err)
	assert.True(t, node.IsRaw())
	assert.Equal(t, production.MaxResolutionDepth, run.maxDepth)
}
