package response_test

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-va/dsp/filter/va"
	"github.com/cwbudde/algo-va/measure/response"
)

type gain struct{ g float64 }

func (p *gain) ProcessSample(x float64) float64 { return p.g * x }

type unitDelay struct{ prev float64 }

func (p *unitDelay) ProcessSample(x float64) float64 {
	out := p.prev
	p.prev = x

	return out
}

func TestMagnitudeValidatesSize(t *testing.T) {
	if _, err := response.Magnitude(&gain{g: 1}, 1); err == nil {
		t.Fatal("expected error for fft size 1")
	}
}

func TestMagnitudeOfGainIsFlat(t *testing.T) {
	mag, err := response.Magnitude(&gain{g: 0.5}, 64)
	if err != nil {
		t.Fatal(err)
	}

	if len(mag) != 33 {
		t.Fatalf("len = %d, want 33", len(mag))
	}

	for i, m := range mag {
		if d := math.Abs(m - mag[0]); d > 1e-9 {
			t.Fatalf("bin %d: magnitude %v deviates from flat %v", i, m, mag[0])
		}
	}
}

func TestMagnitudeScalesWithGain(t *testing.T) {
	unity, err := response.Magnitude(&gain{g: 1}, 64)
	if err != nil {
		t.Fatal(err)
	}

	double, err := response.Magnitude(&gain{g: 2}, 64)
	if err != nil {
		t.Fatal(err)
	}

	for i := range unity {
		if d := math.Abs(double[i] - 2*unity[i]); d > 1e-9 {
			t.Fatalf("bin %d: gain 2 response %v, want %v", i, double[i], 2*unity[i])
		}
	}
}

func TestMagnitudeOfUnitDelayIsAllpass(t *testing.T) {
	mag, err := response.Magnitude(&unitDelay{}, 128)
	if err != nil {
		t.Fatal(err)
	}

	for i, m := range mag {
		if d := math.Abs(m - mag[0]); d > 1e-9 {
			t.Fatalf("bin %d: magnitude %v deviates from flat %v", i, m, mag[0])
		}
	}
}

func TestMagnitudeLadderLowpassRolloff(t *testing.T) {
	params := va.NewParams()
	params.SetFrequency(1000)
	params.SetResonance(0.3)

	ladder, err := va.NewLadder(params)
	if err != nil {
		t.Fatal(err)
	}

	ladder.SetAlgorithm(va.AlgoLinear)
	ladder.SetMode(va.LadderLP24)

	const fftSize = 4096

	mag, err := response.Magnitude(ladder, fftSize)
	if err != nil {
		t.Fatal(err)
	}

	// Roughly 100 Hz vs roughly 10 kHz at 44.1 kHz.
	lowBin := int(100 * fftSize / 44100)

	highBin := int(10000 * fftSize / 44100)
	if mag[lowBin] < 4*mag[highBin] {
		t.Fatalf("no lowpass rolloff: mag[%d]=%v mag[%d]=%v",
			lowBin, mag[lowBin], highBin, mag[highBin])
	}
}

func TestMagnitudeDB(t *testing.T) {
	db := response.MagnitudeDB([]float64{1, 0.1, 0})

	if math.Abs(db[0]) > 1e-12 {
		t.Fatalf("db[0] = %v, want 0", db[0])
	}

	if math.Abs(db[1]+20) > 1e-9 {
		t.Fatalf("db[1] = %v, want -20", db[1])
	}

	if db[2] != -160 {
		t.Fatalf("db[2] = %v, want -160", db[2])
	}
}

func TestBinFrequency(t *testing.T) {
	if got := response.BinFrequency(512, 1024, 44100); got != 22050 {
		t.Fatalf("got %v, want 22050", got)
	}

	if got := response.BinFrequency(0, 1024, 44100); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}

func TestToneRMSOfGain(t *testing.T) {
	got := response.ToneRMS(&gain{g: 2}, 1000, 44100, 0.1, 100, 44100)

	want := 0.2 / math.Sqrt2
	if math.Abs(got-want) > 1e-3 {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestToneRMSEmptyWindow(t *testing.T) {
	if got := response.ToneRMS(&gain{g: 1}, 1000, 44100, 1, 10, 0); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}
