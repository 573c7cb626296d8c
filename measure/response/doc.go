// Package response measures the frequency response of sample processors.
//
// It excites a [Processor] with a unit impulse or a steady tone and
// reports magnitude per FFT bin or settled RMS. For nonlinear processors
// the impulse-based magnitude is the small-signal response; use
// [ToneRMS] to probe level-dependent behavior.
package response
