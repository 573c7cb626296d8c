package delay

import (
	"math"
	"testing"
)

func TestAllPassImpulseHead(t *testing.T) {
	a, err := NewAllPass(10, 1000)
	if err != nil {
		t.Fatal(err)
	}

	const g = 0.5

	// With a 3 ms tap the impulse response starts g at step 0 and 1-g^2
	// at step 4, followed by a geometric tail with ratio -g.
	outs := combImpulse(t, func(in float64) float64 {
		return a.Process(3, g, in)
	}, 13)

	if !approxEqual(outs[0], g, 1e-9) {
		t.Fatalf("step 0: got %v, want %v", outs[0], g)
	}

	for _, i := range []int{1, 2, 3, 5, 6, 7} {
		if !approxEqual(outs[i], 0, 1e-9) {
			t.Fatalf("step %d: got %v, want 0", i, outs[i])
		}
	}

	want := 1 - g*g
	for i := 4; i < 13; i += 4 {
		if !approxEqual(outs[i], want, 1e-9) {
			t.Fatalf("step %d: got %v, want %v", i, outs[i], want)
		}

		want *= -g
	}
}

func TestAllPassPreservesImpulseEnergy(t *testing.T) {
	a, err := NewAllPass(10, 1000)
	if err != nil {
		t.Fatal(err)
	}

	var energy float64

	for i := 0; i < 4000; i++ {
		in := 0.0
		if i == 0 {
			in = 1
		}

		out := a.Process(3, 0.6, in)
		energy += out * out
	}

	if !approxEqual(energy, 1, 1e-6) {
		t.Fatalf("impulse energy = %v, want 1", energy)
	}
}

func TestAllPassLinearMatchesCubicOnIntegerDelay(t *testing.T) {
	ac, err := NewAllPass(10, 1000)
	if err != nil {
		t.Fatal(err)
	}

	al, err := NewAllPass(10, 1000)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 50; i++ {
		in := math.Sin(0.37 * float64(i))

		c := ac.Process(4, 0.5, in)
		l := al.ProcessLinear(4, 0.5, in)

		if !approxEqual(c, l, 1e-9) {
			t.Fatalf("step %d: cubic %v linear %v", i, c, l)
		}
	}
}

func TestAllPassResetSilences(t *testing.T) {
	a, err := NewAllPass(10, 1000)
	if err != nil {
		t.Fatal(err)
	}

	a.Process(3, 0.7, 1)
	a.Reset()

	for i := 0; i < 8; i++ {
		if out := a.Process(3, 0.7, 0); out != 0 {
			t.Fatalf("step %d: got %v after reset, want 0", i, out)
		}
	}
}
