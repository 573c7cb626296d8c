package va

import (
	"fmt"
	"math"
)

// SolveStats counts solver outcomes for diagnostics. Solves is the total
// number of samples processed, Homotopy the samples where the direct
// Newton solve failed and continuation ran, Abandoned the samples where
// continuation also failed and a best-effort result was used.
type SolveStats struct {
	Solves    uint64
	Homotopy  uint64
	Abandoned uint64
}

// Svf is a nonlinear 2-pole multimode state-variable filter.
//
// The model is an OTA core with saturating op-amp buffers, loosely based
// on the filter of the EDP Wasp. Resonance is limited by a diode clipper
// on the damping feedback, which boosts it back when the buffer
// nonlinearities would otherwise swallow it. It distorts nicely, keeps
// resonance well at high levels and can self-oscillate.
//
// The circuit is solved by Holters and Zölzer's generalization of the
// DK-method: Jacobians are only needed per nonlinear element, and the
// small linear system has a fixed sparsity pattern solved in closed
// form. Each sample runs a Newton iteration seeded by a first-order
// extrapolation from the last converged solve; if it fails to converge,
// a bounded homotopy continuation blends the parameter vector back
// toward the last converged one and bisects toward the target. If the
// continuation is also exhausted the best-effort result is kept, which
// degrades accuracy for that sample but never interrupts audio.
type Svf struct {
	params *Params

	vout [3]float64
	s    [2]float64

	// c1 and c2 are the non-trivial model coefficients, derived from the
	// integrator gain and the damping.
	c1 float64
	c2 float64

	// jq holds the per-element Jacobian entries of the q vector; the odd
	// slots are the constant output-side derivative -1.
	jq [svfPFull]float64

	solver dkSolver
	stats  SolveStats
}

// NewSvf returns a state-variable filter reading its tuning from params.
func NewSvf(params *Params) (*Svf, error) {
	if params == nil {
		return nil, fmt.Errorf("va: params must not be nil")
	}

	f := &Svf{
		params: params,
		jq:     [svfPFull]float64{0, -1, 0, -1, 0, -1, 0, -1},
	}
	f.Update()
	f.Reset()

	return f, nil
}

// Update rederives the model coefficients. Call it after the cutoff,
// resonance or sample rate of the shared Params change.
func (f *Svf) Update() {
	g := 2 * f.params.g

	f.c1 = 2 * g
	f.c2 = f.params.zeta
}

// Reset clears the filter state, re-evaluates the nonlinearities at the
// zero operating point and re-arms the solver's extrapolation origin.
func (f *Svf) Reset() {
	f.s = [2]float64{}
	f.vout = [3]float64{}
	f.solver.pFull = [svfPFull]float64{}
	f.solver.z = [svfNonlin]float64{}
	f.evaluateNonlinearities([svfNonlin]float64{})
	f.solver.setExtrapolationOrigin([svfParams]float64{}, [svfNonlin]float64{})
}

// Stats returns a copy of the solver outcome counters.
func (f *Svf) Stats() SolveStats { return f.stats }

// ResetStats zeroes the solver outcome counters.
func (f *Svf) ResetStats() { f.stats = SolveStats{} }

// ProcessSample advances the filter by one sample and returns the output
// selected by the Params mode.
func (f *Svf) ProcessSample(input float64) float64 {
	// The circuit inverts its input.
	in := -input * f.params.drive

	var p [svfParams]float64
	p[0] = -f.s[0]
	p[1] = -f.s[1]
	p[2] = in

	f.homotopySolver(p)

	f.vout[0] = f.solver.z[3]
	f.vout[1] = f.solver.z[2]
	f.vout[2] = f.solver.z[1]

	// Trapezoidal state update.
	f.s[0] -= 2 * f.c1 * f.solver.z[1]
	f.s[1] -= 2 * f.c1 * f.solver.z[2]

	return f.output(in, f.params.zeta)
}

// ProcessInPlace processes a mono buffer in place.
func (f *Svf) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = f.ProcessSample(buf[i])
	}
}

// ProcessTo processes src into dst. Both slices must have the same length.
func (f *Svf) ProcessTo(dst, src []float64) {
	n := len(src)
	if n == 0 {
		return
	}

	_ = dst[n-1]
	for i, x := range src {
		dst[i] = f.ProcessSample(x)
	}
}

// homotopySolver finds the nonlinear branch variables for the parameter
// vector p. It first attempts a direct Newton solve; on failure it runs
// a bounded bisection continuation between the last converged parameter
// vector and p.
func (f *Svf) homotopySolver(p [svfParams]float64) {
	f.stats.Solves++

	f.nonlinearContribs(p)
	if f.solver.resMaxAbs < solveTol {
		return
	}

	f.stats.Homotopy++

	a := 0.5
	bestA := 0.0

	for step := 0; step < homotopyMaxSteps && bestA < 1; step++ {
		var pa [svfParams]float64
		for i := range pa {
			pa[i] = f.solver.lastP[i]*(1-a) + a*p[i]
		}

		f.nonlinearContribs(pa)

		if f.solver.resMaxAbs < solveTol {
			bestA = a
			a = 1
			continue
		}

		newA := (a + bestA) / 2
		if !(bestA < newA && newA < a) {
			// No representable value between a and bestA is left; the
			// continuation cannot bridge the gap.
			break
		}

		a = newA
	}

	if f.solver.resMaxAbs >= solveTol {
		f.stats.Abandoned++

		// Keep audio flowing on an abandoned solve: if the last attempt
		// blew up, fall back to the last converged branch variables.
		for _, v := range f.solver.z {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				f.solver.z = f.solver.lastZ
				break
			}
		}
	}
}

// nonlinearContribs runs the Newton iteration for the parameter vector
// p, seeding z with a first-order extrapolation from the last converged
// solve. Convergence is not guaranteed; the caller inspects resMaxAbs.
func (f *Svf) nonlinearContribs(p [svfParams]float64) {
	s := &f.solver

	s.pFull[2] = p[0]
	s.pFull[4] = p[1]
	s.pFull[7] = p[2]

	var dp [svfParams]float64
	dp[0] = p[0] - s.lastP[0]
	dp[1] = p[1] - s.lastP[1]
	dp[2] = p[2] - s.lastP[2]

	step := f.solveLinEquations([svfNonlin]float64{
		0,
		f.jq[2] * dp[0],
		f.jq[4] * dp[1],
		-dp[2],
	})
	for i := range s.z {
		s.z[i] = s.lastZ[i] - step[i]
	}

	for iter := 0; iter < newtonMaxIter; iter++ {
		f.evaluateNonlinearities(s.z)

		s.resMaxAbs = 0
		for _, r := range s.residue {
			if math.IsNaN(r) || math.IsInf(r, 0) {
				// Stop early on a blown-up evaluation; the homotopy
				// solver finds an alternate, slower path to convergence.
				s.resMaxAbs = residueSentinel
				return
			}

			if a := math.Abs(r); a > s.resMaxAbs {
				s.resMaxAbs = a
			}
		}

		if s.resMaxAbs < solveTol {
			break
		}

		step = f.solveLinEquations(s.residue)
		for i := range s.z {
			s.z[i] -= step[i]
		}
	}

	if s.resMaxAbs < solveTol {
		s.setExtrapolationOrigin(p, s.z)
	}
}

// evaluateNonlinearities assembles the element input vector q from the
// expanded parameters and z, evaluates the three op-amp buffers and the
// diode clipper and stores their residuals and Jacobian entries.
func (f *Svf) evaluateNonlinearities(z [svfNonlin]float64) {
	q := f.solver.pFull

	q[0] += z[0]
	q[1] += z[1]
	q[2] += f.c1*z[1] - z[2]
	q[3] += z[2]
	q[4] += f.c1*z[2] - z[3]
	q[5] += z[3]
	q[6] += -z[0] - z[2]
	q[7] += 4*z[0] + z[1] + f.c2*z[2] + 2*z[3]

	res1, j1 := f.solver.evalOpAmp(q[0], q[1])
	res2, j2 := f.solver.evalOpAmp(q[2], q[3])
	res3, j3 := f.solver.evalOpAmp(q[4], q[5])
	res4, j4 := f.solver.evalDiodePair(q[6], q[7], 1e-12, 1.28)

	f.jq[0] = j1
	f.jq[2] = j2
	f.jq[4] = j3
	f.jq[6] = j4

	f.solver.residue = [svfNonlin]float64{res1, res2, res3, res4}
}

// solveLinEquations solves J*x = b for the model's fixed sparsity
// pattern by hand-derived elimination, avoiding a general linear solver
// in the per-sample path.
func (f *Svf) solveLinEquations(b [svfNonlin]float64) [svfNonlin]float64 {
	j00 := f.jq[0]
	j11 := f.jq[2] * f.c1
	j12 := -f.jq[2] - 1
	j22 := f.jq[4] * f.c1
	j23 := -f.jq[4] - 1
	j30 := -f.jq[6] - 4
	j32 := -f.jq[6] - f.c2

	var x [svfNonlin]float64

	x[0] = (((-b[0]+b[3])*j12-j32*(b[0]*j11+b[1]))*j23 + 2*b[2]*j12 -
		2*j22*(b[0]*j11+b[1])) /
		(((j30-j00)*j12-j32*j00*j11)*j23 - 2*j00*j11*j22)
	x[1] = j00*x[0] - b[0]
	x[2] = (-j11*x[1] + b[1]) / j12
	x[3] = 0.5 * (j30*x[0] + j32*x[2] - b[3] - x[1])

	return x
}

// output maps the solved stage voltages to the selected response. The
// notch and peaking responses mix the (inverted, driven) input back in
// and are not limited to the -1..1 range like the pure stage outputs.
func (f *Svf) output(input, k float64) float64 {
	switch f.params.mode {
	case SvfLP:
		return f.vout[0]
	case SvfHP:
		return f.vout[2]
	case SvfBP1:
		return f.vout[1]
	case SvfNotch:
		return input + k*f.vout[1]
	case SvfBP2:
		return k * f.vout[1]
	default:
		return f.vout[0]
	}
}

// StereoSvf runs one independent Svf per channel off shared Params.
type StereoSvf struct {
	left  *Svf
	right *Svf
}

// NewStereoSvf constructs a stereo pair reading its tuning from params.
func NewStereoSvf(params *Params) (*StereoSvf, error) {
	left, err := NewSvf(params)
	if err != nil {
		return nil, err
	}

	right, err := NewSvf(params)
	if err != nil {
		return nil, err
	}

	return &StereoSvf{left: left, right: right}, nil
}

// Left returns the left-channel filter.
func (s *StereoSvf) Left() *Svf { return s.left }

// Right returns the right-channel filter.
func (s *StereoSvf) Right() *Svf { return s.right }

// ProcessSample processes one stereo sample frame.
func (s *StereoSvf) ProcessSample(leftIn, rightIn float64) (leftOut, rightOut float64) {
	return s.left.ProcessSample(leftIn), s.right.ProcessSample(rightIn)
}

// Update rederives both channels' coefficients after a Params change.
func (s *StereoSvf) Update() {
	s.left.Update()
	s.right.Update()
}

// Reset clears both channel states.
func (s *StereoSvf) Reset() {
	s.left.Reset()
	s.right.Reset()
}
