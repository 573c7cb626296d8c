package delay

// AllPass is a Schroeder allpass section built on a fractional delay line.
// It passes all frequencies at unit magnitude while smearing phase, which
// makes it the standard diffusion element in reverb networks.
type AllPass struct {
	line *Line
}

// NewAllPass returns an allpass section whose internal delay line holds up
// to maxMs milliseconds at the given sample rate.
func NewAllPass(maxMs, sampleRate float64) (*AllPass, error) {
	line, err := NewForDuration(maxMs, sampleRate)
	if err != nil {
		return nil, err
	}

	return &AllPass{line: line}, nil
}

// SetSampleRate updates the sample rate used for millisecond conversion.
func (a *AllPass) SetSampleRate(sampleRate float64) {
	a.line.SetSampleRate(sampleRate)
}

// Process runs one sample through the allpass with delay timeMs and
// coefficient g, using the cubic tap.
func (a *AllPass) Process(timeMs, g, input float64) float64 {
	s := a.line.TapCubic(timeMs)
	fed := input - g*s
	a.line.Write(fed)

	return fed*g + s
}

// ProcessLinear is Process with the linear tap. Slightly cheaper and
// slightly duller under modulated delay times.
func (a *AllPass) ProcessLinear(timeMs, g, input float64) float64 {
	s := a.line.TapLinear(timeMs)
	fed := input - g*s
	a.line.Write(fed)

	return fed*g + s
}

// Reset clears the internal delay line.
func (a *AllPass) Reset() {
	a.line.Reset()
}
