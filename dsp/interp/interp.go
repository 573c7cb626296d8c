package interp

import (
	"math"

	"github.com/cwbudde/algo-va/dsp/shape"
)

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)

	return ((c3*t+c2)*t+c1)*t + c0
}

// Linear2 computes 2-point linear interpolation from x0 to x1 by t in [0, 1].
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Crossfade blends v1 into v2 linearly. mix 0 returns v1, mix 1 returns v2.
func Crossfade(v1, v2, mix float64) float64 {
	return v1*(1-mix) + v2*mix
}

// CrossfadeClip blends v1 into v2 linearly with the scaled v2 contribution
// clipped to [-1, 1]. Useful for dry/wet stages whose wet signal may exceed
// the nominal range.
func CrossfadeClip(v1, v2, mix float64) float64 {
	wet := v2 * mix
	if wet > 1 {
		wet = 1
	} else if wet < -1 {
		wet = -1
	}

	return v1*(1-mix) + wet
}

// CrossfadeCpow blends v1 into v2 with a constant-power sine law.
func CrossfadeCpow(v1, v2, mix float64) float64 {
	s1 := math.Sin(mix * math.Pi / 2)
	s2 := math.Sin((1 - mix) * math.Pi / 2)

	return v1*s2 + v2*s1
}

// crossLogMin is ln(1e-6), the bottom of the logarithmic mix curve.
const crossLogMin = -13.815510557964274

// CrossfadeLog blends v1 into v2 along a logarithmic mix curve.
func CrossfadeLog(v1, v2, mix float64) float64 {
	x := math.Exp(mix*(0-crossLogMin) + crossLogMin)
	return Crossfade(v1, v2, x)
}

// CrossfadeExp blends v1 into v2 along a squared mix curve.
func CrossfadeExp(v1, v2, mix float64) float64 {
	return Crossfade(v1, v2, mix*mix)
}

// CrossfadeDriveTanh blends v1 into v2 with the wet side driven through a
// tanh-style soft clipper, keeping hot wet signals inside (-1, 1).
func CrossfadeDriveTanh(v1, v2, mix float64) float64 {
	return v1*(1-mix) + shape.TanhApproxDrive(v2*mix*0.111, 0.95)*0.9999
}
