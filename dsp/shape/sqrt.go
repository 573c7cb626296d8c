//go:build !fastmath

package shape

import "math"

// shapeSqrt computes sqrt(x) with IEEE 754 precision.
func shapeSqrt(x float64) float64 {
	return math.Sqrt(x)
}
