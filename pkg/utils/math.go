package utils

import "math"

// DefaultTolerance is the absolute tolerance used when comparing kg/s rates and watts.
const DefaultTolerance = 1e-9

// ApproxEqual reports whether a and b differ by at most tolerance.
// Two infinities of the same sign are equal; NaN equals nothing.
func ApproxEqual(a, b, tolerance float64) bool {
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return a == b
	}
	return math.Abs(a-b) <= tolerance
}

// IsFinite reports whether f is neither infinite nor NaN.
func IsFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
