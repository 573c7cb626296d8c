package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-va/dsp/interp"
)

const defaultSampleRate = 44100.0

// Line is a circular delay line with nearest, linear and cubic Hermite
// fractional taps.
//
// Offsets address the past: offset 0 is the sample written most recently.
// Offsets beyond the capacity wrap around (modulo arithmetic); this is a
// documented boundary behavior favoring audio continuity over bounds
// errors, not a fault. Capacity is fixed at construction and the line
// never allocates afterwards.
type Line struct {
	buffer     []float64
	writePos   int
	sampleRate float64
}

// New returns a delay line of fixed capacity in samples.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay: size must be > 0: %d", size)
	}

	return &Line{buffer: make([]float64, size), sampleRate: defaultSampleRate}, nil
}

// NewForDuration returns a delay line sized to hold maxMs milliseconds at
// the given sample rate, with four extra guard samples for the cubic tap.
func NewForDuration(maxMs, sampleRate float64) (*Line, error) {
	if maxMs <= 0 || math.IsNaN(maxMs) || math.IsInf(maxMs, 0) {
		return nil, fmt.Errorf("delay: max time must be > 0 ms: %f", maxMs)
	}

	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("delay: sample rate must be > 0: %f", sampleRate)
	}

	size := int(math.Ceil(maxMs*sampleRate/1000)) + 4

	d, err := New(size)
	if err != nil {
		return nil, err
	}

	d.sampleRate = sampleRate

	return d, nil
}

// Len returns the capacity in samples.
func (d *Line) Len() int {
	return len(d.buffer)
}

// SampleRate returns the sample rate used for millisecond conversion.
func (d *Line) SampleRate() float64 {
	return d.sampleRate
}

// SetSampleRate sets the sample rate used for millisecond conversion.
func (d *Line) SetSampleRate(sampleRate float64) {
	d.sampleRate = sampleRate
}

// Write feeds one sample into the line and advances the write cursor.
//
// For sample-accurate feedback loops, read the tap before writing the new
// input for the current tick.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample

	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// At reads the sample written offset feeds ago. Offset 0 is the most
// recent sample; offsets wrap modulo the capacity.
func (d *Line) At(offset int) float64 {
	size := len(d.buffer)
	offset %= size

	if offset < 0 {
		offset += size
	}

	return d.buffer[(d.writePos+size-(offset+1))%size]
}

// ReadNearest reads at a fractional sample offset without interpolation,
// truncating to the integer sample below.
func (d *Line) ReadNearest(offset float64) float64 {
	if offset < 0 {
		offset = 0
	}

	return d.At(int(offset))
}

// ReadLinear reads at a fractional sample offset with linear interpolation
// between the two bracketing samples.
func (d *Line) ReadLinear(offset float64) float64 {
	if offset < 0 {
		offset = 0
	}

	size := len(d.buffer)
	whole := int(offset) % size
	fract := offset - math.Floor(offset)

	i := d.writePos + 2*size - (whole + 1)
	x0 := d.buffer[i%size]
	x1 := d.buffer[(i-1)%size]

	return interp.Linear2(fract, x0, x1)
}

// ReadCubic reads at a fractional sample offset with 4-point cubic Hermite
// interpolation over the samples at offsets {-1, 0, 1, 2} around the
// fractional position. Smoothest of the three taps; use it whenever the
// offset is modulated at audio rate.
func (d *Line) ReadCubic(offset float64) float64 {
	if offset < 0 {
		offset = 0
	}

	size := len(d.buffer)
	whole := int(offset) % size
	fract := offset - math.Floor(offset)

	// One extra slot because Write leaves the cursor on the next unwritten
	// position, and another so the kernel's look-behind sample exists.
	i := d.writePos + 3*size - (whole + 2)

	xm1 := d.buffer[(i-1)%size]
	x0 := d.buffer[i%size]
	x1 := d.buffer[(i+1)%size]
	x2 := d.buffer[(i+2)%size]

	return interp.Hermite4(1-fract, xm1, x0, x1, x2)
}

// TapNearest reads timeMs milliseconds into the past without interpolation.
func (d *Line) TapNearest(timeMs float64) float64 {
	return d.ReadNearest(d.msToSamples(timeMs))
}

// TapLinear reads timeMs milliseconds into the past with linear
// interpolation.
func (d *Line) TapLinear(timeMs float64) float64 {
	return d.ReadLinear(d.msToSamples(timeMs))
}

// TapCubic reads timeMs milliseconds into the past with cubic Hermite
// interpolation.
func (d *Line) TapCubic(timeMs float64) float64 {
	return d.ReadCubic(d.msToSamples(timeMs))
}

// NextNearest combines TapNearest and Write for one tick.
func (d *Line) NextNearest(timeMs, input float64) float64 {
	out := d.TapNearest(timeMs)
	d.Write(input)

	return out
}

// NextLinear combines TapLinear and Write for one tick.
func (d *Line) NextLinear(timeMs, input float64) float64 {
	out := d.TapLinear(timeMs)
	d.Write(input)

	return out
}

// NextCubic combines TapCubic and Write for one tick.
func (d *Line) NextCubic(timeMs, input float64) float64 {
	out := d.TapCubic(timeMs)
	d.Write(input)

	return out
}

// Reset zeroes the buffer contents and write cursor without reallocating.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}

	d.writePos = 0
}

func (d *Line) msToSamples(timeMs float64) float64 {
	return timeMs * d.sampleRate / 1000
}
