package delay

// Comb is a comb filter section built on a fractional delay line, usable
// in either feedback or feedforward topology.
type Comb struct {
	line *Line
}

// NewComb returns a comb section whose internal delay line holds up to
// maxMs milliseconds at the given sample rate.
func NewComb(maxMs, sampleRate float64) (*Comb, error) {
	line, err := NewForDuration(maxMs, sampleRate)
	if err != nil {
		return nil, err
	}

	return &Comb{line: line}, nil
}

// SetSampleRate updates the sample rate used for millisecond conversion.
func (c *Comb) SetSampleRate(sampleRate float64) {
	c.line.SetSampleRate(sampleRate)
}

// ProcessFeedback runs one sample through the recirculating topology with
// delay timeMs and feedback gain g. Stable for |g| < 1.
func (c *Comb) ProcessFeedback(timeMs, g, input float64) float64 {
	s := c.line.TapCubic(timeMs)
	fed := input + s*g
	c.line.Write(fed)

	return fed
}

// ProcessFeedforward runs one sample through the non-recirculating
// topology with delay timeMs and tap gain g.
func (c *Comb) ProcessFeedforward(timeMs, g, input float64) float64 {
	s := c.line.TapCubic(timeMs)
	c.line.Write(input)

	return input + s*g
}

// Reset clears the internal delay line.
func (c *Comb) Reset() {
	c.line.Reset()
}
