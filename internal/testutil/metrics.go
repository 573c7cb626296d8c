package testutil

import (
	"math"
	"testing"
)

// RMS returns the root-mean-square of data, 0 for an empty slice.
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range data {
		sum += v * v
	}

	return math.Sqrt(sum / float64(len(data)))
}

// RequireFinite fails t at the first NaN or Inf in data. Filter tests
// call it on whole output buffers to pin down the sample where a solve
// blew up.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()

	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}
