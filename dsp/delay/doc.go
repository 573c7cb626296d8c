// Package delay provides a fractional delay line and the comb and allpass
// building blocks derived from it.
//
// [Line] is a fixed-capacity circular buffer addressed by offsets into the
// past, with nearest, linear and cubic Hermite fractional taps and
// millisecond-based convenience reads. [Comb] and [AllPass] wrap a Line
// with the feedback topologies used by reverbs and resonators.
//
// All types are single-channel and not safe for concurrent use; run one
// instance per goroutine or channel.
package delay
