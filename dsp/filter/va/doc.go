// Package va implements nonlinear virtual-analog filters solved per
// sample with Newton iteration.
//
// [Svf] is a 2-pole multimode state-variable filter with an OTA core and
// nonlinear op-amp buffers, its circuit solved by Holters and Zölzer's
// generalization of the DK-method. Resonance is limited by a diode
// clipper on the damping feedback. [Ladder] is a 4-pole transistor
// ladder in the Moog tradition with selectable slope and response shape
// via pole mixing, solvable in linear, fixed-pivot or full Newton form.
//
// Both filters read their tuning from a shared [Params] snapshot and
// distort musically under drive; oversampling them 2x or more improves
// both tone and solver convergence. Processing is single-threaded per
// instance and allocation-free after construction.
package va
