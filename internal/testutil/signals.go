// Package testutil generates the deterministic excitation signals the
// filter and delay tests drive their processors with.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine returns length samples of a sine tone starting at
// phase zero. The same arguments always yield the same slice, so test
// assertions on the output stay stable.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// DeterministicNoise returns length samples of seeded uniform noise in
// [-amplitude, amplitude]. Reusing a seed reproduces the sequence.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// LinearSweep returns a constant-amplitude sine whose frequency moves
// linearly from startHz to endHz over length samples. The phase is
// accumulated sample by sample, so the waveform has no discontinuities
// even for fast sweeps.
func LinearSweep(startHz, endHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	if length == 0 {
		return out
	}

	phase := 0.0
	for i := range out {
		out[i] = amplitude * math.Sin(phase)

		frac := float64(i) / float64(length)
		freq := startHz + (endHz-startHz)*frac
		phase += 2 * math.Pi * freq / sampleRate
	}

	return out
}
