package utils

import (
	"math"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRequestID_Format(t *testing.T) {
	id := GenerateRequestID("CalculateChainQuery")

	assert.Regexp(t, regexp.MustCompile(`^calculate-chain-query-[0-9a-f]{8}$`), id)
}

func TestGenerateRequestID_Unique(t *testing.T) {
	assert.NotEqual(t, GenerateRequestID("X"), GenerateRequestID("X"))
}

func TestGenerateRequestID_EmptyOperation(t *testing.T) {
	assert.Regexp(t, `^request-[0-9a-f]{8}$`, GenerateRequestID(""))
}

func TestApproxEqual(t *testing.T) {
	assert.True(t, ApproxEqual(0.1+0.2, 0.3, DefaultTolerance))
	assert.False(t, ApproxEqual(1.0, 1.1, DefaultTolerance))
	assert.True(t, ApproxEqual(math.Inf(1), math.Inf(1), DefaultTolerance))
	assert.False(t, ApproxEqual(math.Inf(1), math.Inf(-1), DefaultTolerance))
	assert.False(t, ApproxEqual(math.NaN(), math.NaN(), DefaultTolerance))
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(1.5))
	assert.False(t, IsFinite(math.Inf(-1)))
	assert.False(t, IsFinite(math.NaN()))
}
