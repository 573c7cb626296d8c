//go:build fastmath

package shape

import (
	"github.com/meko-christian/algo-approx"
)

// shapeSqrt computes sqrt(x) using the algo-approx fast approximation.
//
// The relative error (<0.01% for the normalization range used by
// TanhLevien) is far below the approximation error of the shaper itself.
func shapeSqrt(x float64) float64 {
	return approx.FastSqrt(x)
}
