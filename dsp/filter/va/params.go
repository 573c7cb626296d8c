package va

import "math"

// SvfMode selects the state-variable filter response.
type SvfMode int

const (
	// SvfLP is the 12 dB/oct lowpass response.
	SvfLP SvfMode = iota
	// SvfHP is the 12 dB/oct highpass response.
	SvfHP
	// SvfBP1 is the bandpass response with constant skirt gain.
	SvfBP1
	// SvfNotch is the band-reject response.
	SvfNotch
	// SvfBP2 is the bandpass response with normalized peak gain.
	SvfBP2
)

func (m SvfMode) String() string {
	switch m {
	case SvfLP:
		return "LP"
	case SvfHP:
		return "HP"
	case SvfBP1:
		return "BP1"
	case SvfNotch:
		return "Notch"
	case SvfBP2:
		return "BP2"
	default:
		return "unknown"
	}
}

// LadderMode selects the ladder filter slope and response shape through
// pole mixing.
type LadderMode int

const (
	LadderLP6 LadderMode = iota
	LadderLP12
	LadderLP18
	LadderLP24
	LadderHP6
	LadderHP12
	LadderHP18
	LadderHP24
	LadderBP12
	LadderBP24
	LadderN12
)

func (m LadderMode) String() string {
	switch m {
	case LadderLP6:
		return "LP6"
	case LadderLP12:
		return "LP12"
	case LadderLP18:
		return "LP18"
	case LadderLP24:
		return "LP24"
	case LadderHP6:
		return "HP6"
	case LadderHP12:
		return "HP12"
	case LadderHP18:
		return "HP18"
	case LadderHP24:
		return "HP24"
	case LadderBP12:
		return "BP12"
	case LadderBP24:
		return "BP24"
	case LadderN12:
		return "N12"
	default:
		return "unknown"
	}
}

// mix returns the pole-mixing weights for the mode: one weight for the
// (feedback-compensated) input and one per filter stage. The highpass
// rows are binomial; signs account for the inverting stages.
func (m LadderMode) mix() [5]float64 {
	switch m {
	case LadderLP6:
		return [5]float64{0, -1, 0, 0, 0}
	case LadderLP12:
		return [5]float64{0, 0, 1, 0, 0}
	case LadderLP18:
		return [5]float64{0, 0, 0, -1, 0}
	case LadderLP24:
		return [5]float64{0, 0, 0, 0, 1}
	case LadderHP6:
		return [5]float64{1, -1, 0, 0, 0}
	case LadderHP12:
		return [5]float64{1, -2, 1, 0, 0}
	case LadderHP18:
		return [5]float64{1, -3, 3, -1, 0}
	case LadderHP24:
		return [5]float64{1, -4, 6, -4, 1}
	case LadderBP12:
		return [5]float64{0, -1, 1, 0, 0}
	case LadderBP24:
		return [5]float64{0, 0, 1, -2, 1}
	case LadderN12:
		return [5]float64{1, -2, 2, 0, 0}
	default:
		return [5]float64{0, -1, 0, 0, 0}
	}
}

// Params holds the shared tuning for [Svf] and [Ladder] instances along
// with the derived coefficients the solvers consume.
//
// Params is a read-mostly snapshot: update it from the control path
// between processing blocks, then call Update on the filters that use
// it. It must not be mutated concurrently with processing. The setters
// do not validate; cutoff is expected in 5 Hz to 20 kHz (below Nyquist),
// resonance in [0, 1] and drive at 1 or above.
type Params struct {
	cutoff float64
	res    float64
	drive  float64

	mode       SvfMode
	ladderMode LadderMode

	sampleRate float64
	g          float64
	zeta       float64
	kLadder    float64
}

// NewParams returns parameters at 440 Hz cutoff, 0.5 resonance, unity
// drive and a 44.1 kHz sample rate.
func NewParams() *Params {
	p := &Params{
		cutoff:     440,
		res:        0.5,
		drive:      1,
		mode:       SvfLP,
		ladderMode: LadderLP6,
	}
	p.SetSampleRate(44100)

	return p
}

// SetFrequency sets the cutoff frequency in Hz and recomputes the
// prewarped integrator gain.
func (p *Params) SetFrequency(freq float64) {
	p.cutoff = freq
	p.g = math.Tan(math.Pi * freq / p.sampleRate)
}

// SetResonance sets resonance in [0, 1] and recomputes the damping and
// ladder feedback coefficients.
func (p *Params) SetResonance(res float64) {
	p.res = res
	p.zeta = 5 - 5*res
	p.kLadder = res*res*4.5 - 0.2
}

// SetSampleRate sets the sample rate in Hz and recomputes every derived
// coefficient.
func (p *Params) SetSampleRate(sampleRate float64) {
	p.sampleRate = sampleRate
	p.SetResonance(p.res)
	p.SetFrequency(p.cutoff)
}

// SetDrive sets the filter drive. 1 is clean; higher values push the
// nonlinearities harder.
func (p *Params) SetDrive(drive float64) { p.drive = drive }

// SetMode selects the state-variable filter response.
func (p *Params) SetMode(mode SvfMode) { p.mode = mode }

// SetLadderMode selects the ladder slope and response shape.
func (p *Params) SetLadderMode(mode LadderMode) { p.ladderMode = mode }

// Cutoff returns the cutoff frequency in Hz.
func (p *Params) Cutoff() float64 { return p.cutoff }

// Resonance returns the resonance in [0, 1].
func (p *Params) Resonance() float64 { return p.res }

// Drive returns the filter drive.
func (p *Params) Drive() float64 { return p.drive }

// Mode returns the state-variable filter response.
func (p *Params) Mode() SvfMode { return p.mode }

// LadderMode returns the ladder slope and response shape.
func (p *Params) LadderMode() LadderMode { return p.ladderMode }

// SampleRate returns the sample rate in Hz.
func (p *Params) SampleRate() float64 { return p.sampleRate }

// G returns the prewarped integrator gain tan(pi*cutoff/sampleRate).
func (p *Params) G() float64 { return p.g }

// Zeta returns the damping coefficient derived from resonance.
func (p *Params) Zeta() float64 { return p.zeta }

// KLadder returns the ladder feedback gain derived from resonance.
func (p *Params) KLadder() float64 { return p.kLadder }
