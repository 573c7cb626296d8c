package response

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Processor is a single-channel sample processor. Filters satisfying it
// must be freshly constructed or reset before measurement.
type Processor interface {
	ProcessSample(input float64) float64
}

// Magnitude measures the processor's magnitude response by capturing its
// response to a unit impulse and transforming it. It returns fftSize/2+1
// values covering DC through Nyquist.
func Magnitude(proc Processor, fftSize int) ([]float64, error) {
	if fftSize <= 1 {
		return nil, fmt.Errorf("response: fft size must be > 1: %d", fftSize)
	}

	in := make([]complex128, fftSize)
	for i := range in {
		x := 0.0
		if i == 0 {
			x = 1
		}

		in[i] = complex(proc.ProcessSample(x), 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("response: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("response: %w", err)
	}

	half := fftSize/2 + 1
	re := make([]float64, half)
	im := make([]float64, half)

	for i := 0; i < half; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, half)
	vecmath.Magnitude(mag, re, im)

	return mag, nil
}

// dbFloor clamps the decibel conversion for silent bins.
const dbFloor = -160.0

// MagnitudeDB converts linear magnitudes to decibels, clamped at -160 dB.
func MagnitudeDB(mag []float64) []float64 {
	out := make([]float64, len(mag))
	for i, m := range mag {
		if m <= 0 {
			out[i] = dbFloor
			continue
		}

		db := 20 * math.Log10(m)
		if db < dbFloor {
			db = dbFloor
		}

		out[i] = db
	}

	return out
}

// BinFrequency returns the center frequency in Hz of an FFT bin.
func BinFrequency(bin, fftSize int, sampleRate float64) float64 {
	return float64(bin) * sampleRate / float64(fftSize)
}

// ToneRMS drives the processor with a steady sine tone and returns the
// output RMS over the measurement window, after discarding the warmup
// samples.
func ToneRMS(proc Processor, freqHz, sampleRate, amplitude float64, warmup, measure int) float64 {
	step := 2 * math.Pi * freqHz / sampleRate

	for i := 0; i < warmup; i++ {
		proc.ProcessSample(amplitude * math.Sin(step*float64(i)))
	}

	sum := 0.0
	for i := 0; i < measure; i++ {
		out := proc.ProcessSample(amplitude * math.Sin(step*float64(warmup+i)))
		sum += out * out
	}

	if measure == 0 {
		return 0
	}

	return math.Sqrt(sum / float64(measure))
}
