package shape

import "math"

// TanhLevien computes a fifth-order tanh approximation.
//
// The odd polynomial a = x + 0.16489087*x^3 + 0.00985468*x^5 is normalized
// by sqrt(1 + a^2), which guarantees |result| < 1 for every finite input.
func TanhLevien(x float64) float64 {
	x2 := x * x
	x3 := x2 * x
	x5 := x3 * x2

	a := x + 0.16489087*x3 + 0.00985468*x5

	return a / shapeSqrt(1+a*a)
}

// QuickTanh computes a cheap rational tanh approximation (Matt Tytel).
//
// Stays within about 5e-4 of tanh over the audio range and saturates
// near +-1.008 for large inputs, so the output can slightly exceed
// unity. The slope at zero is roughly 1.004 rather than exactly 1.
func QuickTanh(x float64) float64 {
	absX := math.Abs(x)
	square := x * x

	num := x * (2.45550750702956 +
		2.45550750702956*absX +
		square*(0.893229853513558+0.821226666969744*absX))
	den := 2.44506634652299 +
		(2.44506634652299+square)*math.Abs(x+0.814642734961073*x*absX)

	return num / den
}

// TanhApproxDrive applies drive gain and a piecewise-quadratic soft clip.
//
// The transfer is identity for |x*drive| <= 0.75, blends quadratically up
// to |x*drive| = 1.25 and clips hard beyond that.
func TanhApproxDrive(v, drive float64) float64 {
	x := v * drive

	switch {
	case x < -1.25:
		return -1
	case x < -0.75:
		return -(x*(-2.5-x) - 0.5625)
	case x > 1.25:
		return 1
	case x > 0.75:
		return x*(2.5-x) - 0.5625
	default:
		return x
	}
}
