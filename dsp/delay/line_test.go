package delay

import (
	"math"
	"testing"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// --- construction and validation ---

func TestNewValidation(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("expected error for size=0")
	}

	if _, err := New(-1); err == nil {
		t.Fatal("expected error for size=-1")
	}
}

func TestNewForDurationValidation(t *testing.T) {
	for _, tc := range []struct {
		maxMs float64
		sr    float64
	}{
		{maxMs: 0, sr: 44100},
		{maxMs: -5, sr: 44100},
		{maxMs: math.NaN(), sr: 44100},
		{maxMs: math.Inf(1), sr: 44100},
		{maxMs: 10, sr: 0},
		{maxMs: 10, sr: -1},
		{maxMs: 10, sr: math.NaN()},
	} {
		if _, err := NewForDuration(tc.maxMs, tc.sr); err == nil {
			t.Fatalf("expected error for maxMs=%v sr=%v", tc.maxMs, tc.sr)
		}
	}
}

func TestNewForDurationCapacity(t *testing.T) {
	d, err := NewForDuration(10, 1000)
	if err != nil {
		t.Fatal(err)
	}

	// 10 ms at 1 kHz is 10 samples plus 4 guard samples for the cubic tap.
	if d.Len() != 14 {
		t.Fatalf("Len = %d, want 14", d.Len())
	}

	if d.SampleRate() != 1000 {
		t.Fatalf("SampleRate = %v, want 1000", d.SampleRate())
	}
}

// --- integer offsets ---

func TestAtMostRecentFirst(t *testing.T) {
	d, _ := New(8)
	for _, v := range []float64{1, 2, 3, 4} {
		d.Write(v)
	}

	for offset, want := range []float64{4, 3, 2, 1} {
		if got := d.At(offset); got != want {
			t.Fatalf("At(%d) = %v, want %v", offset, got, want)
		}
	}
}

func TestAtImpulseRoundTripAllOffsets(t *testing.T) {
	const size = 16

	for k := 0; k < size; k++ {
		d, _ := New(size)
		d.Write(1)

		for i := 0; i < k; i++ {
			d.Write(0)
		}

		if got := d.At(k); got != 1 {
			t.Fatalf("At(%d) = %v, want 1", k, got)
		}
	}
}

func TestAtWrapsAroundCapacity(t *testing.T) {
	d, _ := New(4)
	for _, v := range []float64{1, 2, 3, 4} {
		d.Write(v)
	}

	// Offsets equal to or beyond the capacity alias modulo the length.
	if got := d.At(4); got != d.At(0) {
		t.Fatalf("At(4) = %v, want At(0) = %v", got, d.At(0))
	}

	if got := d.At(7); got != d.At(3) {
		t.Fatalf("At(7) = %v, want At(3) = %v", got, d.At(3))
	}
}

func TestAtNegativeOffsetAliases(t *testing.T) {
	d, _ := New(4)
	for _, v := range []float64{1, 2, 3, 4} {
		d.Write(v)
	}

	if got := d.At(-1); got != d.At(3) {
		t.Fatalf("At(-1) = %v, want At(3) = %v", got, d.At(3))
	}
}

// --- fractional reads ---

func TestReadNearestTruncates(t *testing.T) {
	d, _ := New(8)
	for _, v := range []float64{1, 2, 3, 4} {
		d.Write(v)
	}

	if got := d.ReadNearest(1.9); got != d.At(1) {
		t.Fatalf("ReadNearest(1.9) = %v, want %v", got, d.At(1))
	}
}

func TestReadLinearBlendsTowardOlder(t *testing.T) {
	d, _ := New(8)
	for _, v := range []float64{0, 10, 20} {
		d.Write(v)
	}

	// Offset 0.5 sits halfway between the newest (20) and the one before (10).
	if got := d.ReadLinear(0.5); !approxEqual(got, 15, 1e-12) {
		t.Fatalf("ReadLinear(0.5) = %v, want 15", got)
	}

	if got := d.ReadLinear(1.25); !approxEqual(got, 7.5, 1e-12) {
		t.Fatalf("ReadLinear(1.25) = %v, want 7.5", got)
	}
}

func TestReadLinearExactAtIntegerOffsets(t *testing.T) {
	d, _ := New(8)
	for _, v := range []float64{1, 2, 3, 4, 5} {
		d.Write(v)
	}

	for k := 0; k < 5; k++ {
		if got := d.ReadLinear(float64(k)); !approxEqual(got, d.At(k), 1e-12) {
			t.Fatalf("ReadLinear(%d) = %v, want %v", k, got, d.At(k))
		}
	}
}

func TestReadCubicExactAtIntegerOffsets(t *testing.T) {
	d, _ := New(16)
	for _, v := range []float64{0.3, -0.7, 0.9, 0.1, -0.4, 0.6} {
		d.Write(v)
	}

	for k := 1; k < 4; k++ {
		if got := d.ReadCubic(float64(k)); !approxEqual(got, d.At(k), 1e-12) {
			t.Fatalf("ReadCubic(%d) = %v, want %v", k, got, d.At(k))
		}
	}
}

func TestReadCubicBeatsLinearOnSine(t *testing.T) {
	const size = 256

	d, _ := New(size)

	freq := 0.05
	for i := 0; i < size; i++ {
		d.Write(math.Sin(2 * math.Pi * freq * float64(i)))
	}

	// The last written sample is index size-1; offset k refers to index
	// size-1-k, so a fractional offset of k+0.5 has the true value at
	// position size-1-k-0.5.
	var errLin, errCub float64

	for k := 2; k < 40; k++ {
		offset := float64(k) + 0.5
		want := math.Sin(2 * math.Pi * freq * (float64(size-1) - offset))

		errLin += math.Abs(d.ReadLinear(offset) - want)
		errCub += math.Abs(d.ReadCubic(offset) - want)
	}

	if errCub >= errLin {
		t.Fatalf("cubic error %v not below linear error %v", errCub, errLin)
	}
}

func TestReadNegativeOffsetClampsToNewest(t *testing.T) {
	d, _ := New(8)
	d.Write(3)

	if got := d.ReadNearest(-2); got != 3 {
		t.Fatalf("ReadNearest(-2) = %v, want 3", got)
	}

	if got := d.ReadLinear(-0.5); got != 3 {
		t.Fatalf("ReadLinear(-0.5) = %v, want 3", got)
	}

	if got := d.ReadCubic(-0.5); !approxEqual(got, 3, 1e-12) {
		t.Fatalf("ReadCubic(-0.5) = %v, want 3", got)
	}
}

// --- millisecond taps ---

func TestTapMillisecondConversion(t *testing.T) {
	d, _ := New(16)
	d.SetSampleRate(1000)

	for _, v := range []float64{1, 2, 3, 4} {
		d.Write(v)
	}

	// At 1 kHz one millisecond is one sample.
	if got := d.TapNearest(2); got != d.At(2) {
		t.Fatalf("TapNearest(2ms) = %v, want %v", got, d.At(2))
	}

	if got := d.TapLinear(1.5); !approxEqual(got, 2.5, 1e-12) {
		t.Fatalf("TapLinear(1.5ms) = %v, want 2.5", got)
	}
}

func TestNextReadsBeforeWrite(t *testing.T) {
	d, _ := New(16)
	d.SetSampleRate(1000)

	// With a 3 ms tap the impulse fed at step 0 must appear at step 4:
	// at step n the tap sees the sample written at step n-1-3.
	var outs []float64
	for i := 0; i < 8; i++ {
		in := 0.0
		if i == 0 {
			in = 1
		}

		outs = append(outs, d.NextNearest(3, in))
	}

	for i, got := range outs {
		want := 0.0
		if i == 4 {
			want = 1
		}

		if got != want {
			t.Fatalf("step %d: got %v, want %v", i, got, want)
		}
	}
}

func TestNextVariantsAgreeOnIntegerDelay(t *testing.T) {
	dn, _ := New(32)
	dl, _ := New(32)
	dc, _ := New(32)

	for _, d := range []*Line{dn, dl, dc} {
		d.SetSampleRate(1000)
	}

	for i := 0; i < 20; i++ {
		in := math.Sin(0.3 * float64(i))

		n := dn.NextNearest(5, in)
		l := dl.NextLinear(5, in)
		c := dc.NextCubic(5, in)

		if !approxEqual(n, l, 1e-12) || !approxEqual(n, c, 1e-12) {
			t.Fatalf("step %d: nearest %v linear %v cubic %v", i, n, l, c)
		}
	}
}

// --- reset ---

func TestResetClearsStateIdempotently(t *testing.T) {
	d, _ := New(8)
	for _, v := range []float64{1, 2, 3} {
		d.Write(v)
	}

	d.Reset()
	d.Reset()

	for k := 0; k < 8; k++ {
		if got := d.At(k); got != 0 {
			t.Fatalf("At(%d) = %v after reset, want 0", k, got)
		}
	}

	d.Write(7)
	if got := d.At(0); got != 7 {
		t.Fatalf("At(0) = %v after reset+write, want 7", got)
	}
}

func BenchmarkReadCubic(b *testing.B) {
	d, _ := New(1024)
	for i := 0; i < 1024; i++ {
		d.Write(math.Sin(0.01 * float64(i)))
	}

	var sink float64

	for i := 0; i < b.N; i++ {
		sink += d.ReadCubic(100.25)
	}

	_ = sink
}

func BenchmarkNextCubic(b *testing.B) {
	d, _ := New(4096)
	d.SetSampleRate(44100)

	var sink float64

	for i := 0; i < b.N; i++ {
		sink += d.NextCubic(20.5, float64(i&1))
	}

	_ = sink
}
