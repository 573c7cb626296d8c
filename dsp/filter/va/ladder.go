package va

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-va/dsp/shape"
)

// Algorithm selects how the ladder's nonlinear system is solved each
// sample.
type Algorithm int

const (
	// AlgoLinear solves the linearized circuit in closed form, without
	// saturation or drive. Cheapest and always stable for k <= 4.
	AlgoLinear Algorithm = iota
	// AlgoPivotal applies Mystran's fixed-pivot method: each tanh is
	// replaced by the local gain tanh(x)/x around the current state,
	// giving a non-iterative approximation of the driven response.
	AlgoPivotal
	// AlgoNewton runs the full Newton-Raphson solve over the four
	// coupled tanh stages with an analytic Jacobian. Most accurate;
	// falls back to the pivotal solution if iteration fails to converge
	// within the step budget.
	AlgoNewton
)

func (a Algorithm) String() string {
	switch a {
	case AlgoLinear:
		return "linear"
	case AlgoPivotal:
		return "pivotal"
	case AlgoNewton:
		return "newton"
	default:
		return "unknown"
	}
}

const (
	// ladderNewtonTol bounds every stage residual for convergence.
	ladderNewtonTol = 1e-5
	// ladderNewtonMaxIter caps the Newton iteration. Convergence usually
	// takes 2 iterations and almost never more than 4; hitting the cap
	// routes to the pivotal fallback instead of stalling the audio
	// thread.
	ladderNewtonMaxIter = 16
)

// Ladder is a nonlinear 4-pole ladder filter in the Moog tradition.
//
// It distorts nicely and is capable of stable self-oscillation when the
// feedback gain reaches 4. Resonance is limited by the differential BJT
// buffers. Mixing the stage outputs and the compensated input produces
// slopes from 6 to 24 dB/oct and highpass, bandpass and notch shapes;
// see [LadderMode].
type Ladder struct {
	params *Params

	vout [4]float64
	s    [4]float64
	mix  [5]float64

	algo Algorithm
}

// NewLadder returns a ladder filter reading its tuning from params, in
// Newton mode, with the pole mixing taken from the params' LadderMode.
func NewLadder(params *Params) (*Ladder, error) {
	if params == nil {
		return nil, fmt.Errorf("va: params must not be nil")
	}

	l := &Ladder{params: params, algo: AlgoNewton}
	l.SetMode(params.ladderMode)

	return l, nil
}

// SetMode selects the pole mixing for the given slope and shape.
func (l *Ladder) SetMode(mode LadderMode) {
	l.mix = mode.mix()
}

// SetAlgorithm selects the nonlinear solve strategy.
func (l *Ladder) SetAlgorithm(algo Algorithm) {
	l.algo = algo
}

// Algorithm returns the active solve strategy.
func (l *Ladder) Algorithm() Algorithm { return l.algo }

// Reset clears the filter state.
func (l *Ladder) Reset() {
	l.s = [4]float64{}
	l.vout = [4]float64{}
}

// State returns a copy of the four integrator states.
func (l *Ladder) State() [4]float64 { return l.s }

// SetState restores externally saved integrator states.
func (l *Ladder) SetState(s [4]float64) error {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("va: state contains NaN or Inf")
		}
	}

	l.s = s

	return nil
}

// ProcessSample advances the filter by one sample. Drive applies to the
// pivotal and Newton paths; the linear path stays clean.
func (l *Ladder) ProcessSample(input float64) float64 {
	var out float64

	switch l.algo {
	case AlgoLinear:
		out = l.runLinear(input)
	case AlgoPivotal:
		out = l.runPivotal(input * l.params.drive)
	default:
		out = l.runNewton(input * l.params.drive)
	}

	l.updateState()

	return out
}

// ProcessInPlace processes a mono buffer in place.
func (l *Ladder) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = l.ProcessSample(buf[i])
	}
}

// ProcessTo processes src into dst. Both slices must have the same length.
func (l *Ladder) ProcessTo(dst, src []float64) {
	n := len(src)
	if n == 0 {
		return
	}

	_ = dst[n-1]
	for i, x := range src {
		dst[i] = l.ProcessSample(x)
	}
}

// updateState applies the trapezoidal integrator update to all stages.
func (l *Ladder) updateState() {
	l.s[0] = 2*l.vout[0] - l.s[0]
	l.s[1] = 2*l.vout[1] - l.s[1]
	l.s[2] = 2*l.vout[2] - l.s[2]
	l.s[3] = 2*l.vout[3] - l.s[3]
}

// poleMix combines the compensated input and the stage outputs with the
// mode's mixing weights.
func (l *Ladder) poleMix(input float64) float64 {
	sum := l.mix[0] * input
	for i := 0; i < 4; i++ {
		sum += l.mix[i+1] * l.vout[i]
	}

	return sum
}

// runLinear solves the linearized ladder in closed form.
func (l *Ladder) runLinear(input float64) float64 {
	g := l.params.g
	k := l.params.kLadder

	// Denominators of the per-stage solutions.
	g0 := 1 / (1 + g)
	g1 := g * g0 * g0
	g2 := g * g1 * g0
	g3 := g * g2 * g0

	l.vout[3] = (g3*g*input + g0*l.s[3] + g1*l.s[2] + g2*l.s[1] + g3*l.s[0]) /
		(g3*g*k + 1)

	// With the feedback known the remaining outputs follow directly.
	l.vout[0] = g0 * (g*(input-k*l.vout[3]) + l.s[0])
	l.vout[1] = g0 * (g*l.vout[0] + l.s[1])
	l.vout[2] = g0 * (g*l.vout[1] + l.s[2])

	return l.poleMix(input - k*l.vout[3])
}

// runPivotal solves the driven ladder with Mystran's fixed-pivot method:
// every tanh is linearized to the gain tanh(x)/x at the current state,
// with gain 1 substituted where the pivot input is exactly zero.
func (l *Ladder) runPivotal(input float64) float64 {
	g := l.params.g
	k := l.params.kLadder

	base := [5]float64{input - k*l.s[3], l.s[0], l.s[1], l.s[2], l.s[3]}

	var a [5]float64
	for n, b := range base {
		if b == 0 {
			a[n] = 1
			continue
		}

		a[n] = shape.TanhLevien(b) / b
	}

	// Denominators of the per-stage solutions.
	g0 := 1 / (1 + g*a[1])
	g1 := 1 / (1 + g*a[2])
	g2 := 1 / (1 + g*a[3])
	g3 := 1 / (1 + g*a[4])

	// Factored out of the feedback solution.
	f3 := g * a[3] * g3
	f2 := g * a[2] * g2 * f3
	f1 := g * a[1] * g1 * f2
	f0 := g * g0 * f1

	l.vout[3] = (f0*input*a[0] + f1*g0*l.s[0] + f2*g1*l.s[1] + f3*g2*l.s[2] +
		g3*l.s[3]) / (f0*k*a[3] + 1)

	l.vout[0] = g0 * (g*a[1]*(input*a[0]-k*a[3]*l.vout[3]) + l.s[0])
	l.vout[1] = g1 * (g*a[2]*l.vout[0] + l.s[1])
	l.vout[2] = g2 * (g*a[3]*l.vout[1] + l.s[2])

	return l.poleMix(input - k*l.vout[3])
}

// runNewton solves the driven ladder with per-sample Newton-Raphson over
// the four coupled tanh stages, using the integrator states as the
// initial estimate and a hand-derived elimination of the 4x4 Jacobian.
// If the iteration budget runs out before every residual is within
// tolerance, the pivotal solution is used for this sample instead.
func (l *Ladder) runNewton(input float64) float64 {
	g := l.params.g
	k := l.params.kLadder

	vEst := l.s

	tanhInput := shape.TanhLevien(input - k*vEst[3])
	tanhEst := [4]float64{
		shape.TanhLevien(vEst[0]),
		shape.TanhLevien(vEst[1]),
		shape.TanhLevien(vEst[2]),
		shape.TanhLevien(vEst[3]),
	}
	residue := [4]float64{
		g*(tanhInput-tanhEst[0]) + l.s[0] - vEst[0],
		g*(tanhEst[0]-tanhEst[1]) + l.s[1] - vEst[1],
		g*(tanhEst[1]-tanhEst[2]) + l.s[2] - vEst[2],
		g*(tanhEst[2]-tanhEst[3]) + l.s[3] - vEst[3],
	}

	converged := residueWithin(residue, ladderNewtonTol)

	for iter := 0; !converged && iter < ladderNewtonMaxIter; iter++ {
		j10 := g * (1 - tanhEst[0]*tanhEst[0])
		j00 := -j10 - 1
		j03 := -g * k * (1 - tanhInput*tanhInput)
		j21 := g * (1 - tanhEst[1]*tanhEst[1])
		j11 := -j21 - 1
		j32 := g * (1 - tanhEst[2]*tanhEst[2])
		j22 := -j32 - 1
		j33 := -g*(1-tanhEst[3]*tanhEst[3]) - 1

		var next [4]float64

		next[0] = (((j22*residue[3]-j32*residue[2])*j11+
			j21*j32*(-j10*vEst[0]+residue[1]))*j03 +
			j11*j22*j33*(j00*vEst[0]-residue[0])) /
			(j00*j11*j22*j33 - j03*j10*j21*j32)
		next[1] = (j10*vEst[0] - j10*next[0] + j11*vEst[1] - residue[1]) / j11
		next[2] = (j21*vEst[1] - j21*next[1] + j22*vEst[2] - residue[2]) / j22
		next[3] = (j32*vEst[2] - j32*next[2] + j33*vEst[3] - residue[3]) / j33

		vEst = next

		tanhInput = shape.TanhLevien(input - k*vEst[3])
		tanhEst = [4]float64{
			shape.TanhLevien(vEst[0]),
			shape.TanhLevien(vEst[1]),
			shape.TanhLevien(vEst[2]),
			shape.TanhLevien(vEst[3]),
		}
		residue = [4]float64{
			g*(tanhInput-tanhEst[0]) + l.s[0] - vEst[0],
			g*(tanhEst[0]-tanhEst[1]) + l.s[1] - vEst[1],
			g*(tanhEst[1]-tanhEst[2]) + l.s[2] - vEst[2],
			g*(tanhEst[2]-tanhEst[3]) + l.s[3] - vEst[3],
		}

		converged = residueWithin(residue, ladderNewtonTol)
	}

	if !converged {
		return l.runPivotal(input)
	}

	l.vout = vEst

	return l.poleMix(input - k*l.vout[3])
}

// residueWithin reports whether every stage residual is finite and
// within tol.
func residueWithin(residue [4]float64, tol float64) bool {
	for _, r := range residue {
		if !(math.Abs(r) <= tol) {
			return false
		}
	}

	return true
}

// StereoLadder runs one independent Ladder per channel off shared Params.
type StereoLadder struct {
	left  *Ladder
	right *Ladder
}

// NewStereoLadder constructs a stereo pair reading its tuning from params.
func NewStereoLadder(params *Params) (*StereoLadder, error) {
	left, err := NewLadder(params)
	if err != nil {
		return nil, err
	}

	right, err := NewLadder(params)
	if err != nil {
		return nil, err
	}

	return &StereoLadder{left: left, right: right}, nil
}

// Left returns the left-channel filter.
func (s *StereoLadder) Left() *Ladder { return s.left }

// Right returns the right-channel filter.
func (s *StereoLadder) Right() *Ladder { return s.right }

// ProcessSample processes one stereo sample frame.
func (s *StereoLadder) ProcessSample(leftIn, rightIn float64) (leftOut, rightOut float64) {
	return s.left.ProcessSample(leftIn), s.right.ProcessSample(rightIn)
}

// SetMode selects the pole mixing for both channels.
func (s *StereoLadder) SetMode(mode LadderMode) {
	s.left.SetMode(mode)
	s.right.SetMode(mode)
}

// SetAlgorithm selects the solve strategy for both channels.
func (s *StereoLadder) SetAlgorithm(algo Algorithm) {
	s.left.SetAlgorithm(algo)
	s.right.SetAlgorithm(algo)
}

// Reset clears both channel states.
func (s *StereoLadder) Reset() {
	s.left.Reset()
	s.right.Reset()
}

// LadderBank runs four independent ladder lanes off shared Params, for
// polyphonic voices or multichannel buses. Lanes never interact.
type LadderBank struct {
	lanes [4]*Ladder
}

// NewLadderBank constructs a four-lane bank reading its tuning from
// params.
func NewLadderBank(params *Params) (*LadderBank, error) {
	b := &LadderBank{}
	for i := range b.lanes {
		l, err := NewLadder(params)
		if err != nil {
			return nil, err
		}

		b.lanes[i] = l
	}

	return b, nil
}

// Lane returns the i-th lane filter.
func (b *LadderBank) Lane(i int) *Ladder { return b.lanes[i] }

// ProcessFrame advances all four lanes by one sample.
func (b *LadderBank) ProcessFrame(frame [4]float64) [4]float64 {
	var out [4]float64
	for i, l := range b.lanes {
		out[i] = l.ProcessSample(frame[i])
	}

	return out
}

// SetMode selects the pole mixing for all lanes.
func (b *LadderBank) SetMode(mode LadderMode) {
	for _, l := range b.lanes {
		l.SetMode(mode)
	}
}

// SetAlgorithm selects the solve strategy for all lanes.
func (b *LadderBank) SetAlgorithm(algo Algorithm) {
	for _, l := range b.lanes {
		l.SetAlgorithm(algo)
	}
}

// Reset clears every lane's state.
func (b *LadderBank) Reset() {
	for _, l := range b.lanes {
		l.Reset()
	}
}
