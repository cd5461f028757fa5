package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateRequestID creates a short, human-readable request ID.
// Format: {operation}-{8charHexUUID}
//
// Example:
//   - Input: operation="CalculateChainQuery"
//   - Output: "calculate-chain-query-a3f8e2b1"
func GenerateRequestID(operation string) string {
	return kebab(operation) + "-" + generateShortUUID()
}

// kebab turns a CamelCase name into lower-case words joined by hyphens
func kebab(name string) string {
	if name == "" {
		return "request"
	}

	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// generateShortUUID creates an 8-character hex string from a UUID.
func generateShortUUID() string {
	id := uuid.New()
	// Remove hyphens and take first 8 characters
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
