package va

import "math"

const (
	// solveTol is the residual bound below which a solve counts as
	// converged.
	solveTol = 1e-5
	// newtonMaxIter caps the Newton refinement inside one solve attempt.
	newtonMaxIter = 100
	// residueSentinel replaces the residual maximum when an evaluation
	// produced NaN or Inf, forcing the homotopy path.
	residueSentinel = 1000.0
	// homotopyMaxSteps bounds the continuation bisection.
	homotopyMaxSteps = 32

	svfNonlin = 4
	svfParams = 3
	svfPFull  = 8
)

// dkSolver carries the per-channel state of the DK-method Newton solve:
// the nonlinear branch variables z, the last converged (p, z) pair used
// as extrapolation origin, the expanded parameter vector and the element
// residuals. Everything is fixed-size; nothing allocates after
// construction.
type dkSolver struct {
	z     [svfNonlin]float64
	lastZ [svfNonlin]float64
	lastP [svfParams]float64
	pFull [svfPFull]float64

	residue   [svfNonlin]float64
	resMaxAbs float64
}

// setExtrapolationOrigin records a converged (p, z) pair. Only converged
// solves may call this; a failed solve keeps the previous origin so the
// next sample still starts from a trusted point.
func (s *dkSolver) setExtrapolationOrigin(p [svfParams]float64, z [svfNonlin]float64) {
	s.lastP = p
	s.lastZ = z
}

// evalOpAmp evaluates a saturating op-amp buffer with input voltage vIn
// and output voltage vOut. It returns the residual tanh(vIn) - vOut and
// the residual's derivative with respect to vIn; the derivative with
// respect to vOut is the constant -1 carried in the caller's Jacobian.
func (s *dkSolver) evalOpAmp(vIn, vOut float64) (res, jIn float64) {
	t := math.Tanh(vIn)
	return t - vOut, 1 - t*t
}

// diodeVt is the thermal voltage of the clipper diodes at room
// temperature, in volts.
const diodeVt = 25e-3

// evalDiodePair evaluates an antiparallel diode pair with voltage vIn
// across it against the current combination vOut. The Shockley branches
// sum to the odd 2*Is*sinh(vIn/(eta*Vt)) characteristic. As with
// evalOpAmp the vOut derivative is the constant -1.
func (s *dkSolver) evalDiodePair(vIn, vOut, is, eta float64) (res, jIn float64) {
	vt := eta * diodeVt
	x := vIn / vt

	return 2*is*math.Sinh(x) - vOut, 2 * is / vt * math.Cosh(x)
}
