// Package shape provides saturating waveshaper functions used by the
// nonlinear filter cores and distortion-style effects.
//
// All functions are odd and monotonic over the audio range. TanhLevien
// maps the real line into (-1, 1) and is the saturator used inside the
// ladder filter stages; it stays within a few 1e-4 of math.Tanh while
// being considerably cheaper. QuickTanh is a rational approximation that
// saturates slightly above unity for extreme inputs; TanhApproxDrive
// clips hard at +-1.
//
// Building with the "fastmath" tag replaces the square root in TanhLevien
// with the algo-approx fast approximation for tighter real-time budgets.
package shape
