// Package interp provides interpolation primitives used by delay-based DSP
// blocks, plus a family of signal crossfades.
//
// [Hermite4] is the 4-point cubic kernel behind the delay line's
// fractional taps. The crossfade functions blend two signals by a 0..1 mix
// position with different perceptual curves:
//
//   - [Crossfade]:          linear
//   - [CrossfadeClip]:      linear with the wet side clipped to [-1, 1]
//   - [CrossfadeCpow]:      constant power (sine law)
//   - [CrossfadeLog]:       logarithmic mix curve
//   - [CrossfadeExp]:       exponential (squared) mix curve
//   - [CrossfadeDriveTanh]: wet side driven through a tanh-style clipper
package interp
