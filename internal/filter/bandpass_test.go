package filter

import (
	"errors"
	"math"
	"testing"
)

func sine(n int, period, amplitude, level float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = level + amplitude*math.Sin(2*math.Pi*float64(i)/period)
	}
	return out
}

func TestCutoffsDefaults(t *testing.T) {
	bp := NewBandpass(0, 0)
	if bp.Detuning != DefaultDetuning || bp.SampleRate != DefaultSampleRate {
		t.Fatalf("expected defaults, got %+v", bp)
	}
	c, err := bp.Cutoffs(20)
	if err != nil {
		t.Fatalf("Cutoffs returned error: %v", err)
	}
	if math.Abs(c.Low-1.0/30/2.5) > 1e-12 {
		t.Fatalf("unexpected low cutoff %.6f", c.Low)
	}
	if math.Abs(c.High-0.1/2.5) > 1e-12 {
		t.Fatalf("unexpected high cutoff %.6f", c.High)
	}
}

func TestCutoffsInvalidConfig(t *testing.T) {
	cases := []struct {
		name     string
		detuning float64
		period   float64
	}{
		{"detuning one", 1, 20},
		{"detuning above one", 1.5, 20},
		{"negative detuning", -0.1, 20},
		{"zero period", 0.5, 0},
		{"negative period", 0.5, -4},
		{"nan period", 0.5, math.NaN()},
	}
	for _, tc := range cases {
		bp := Bandpass{Detuning: tc.detuning, SampleRate: 5}
		if _, err := bp.Cutoffs(tc.period); !errors.Is(err, ErrInvalidFilterConfig) {
			t.Fatalf("%s: expected ErrInvalidFilterConfig, got %v", tc.name, err)
		}
	}
}

func TestCutoffsAliasing(t *testing.T) {
	cases := []Bandpass{
		{Detuning: 0.5, SampleRate: 5},
		{Detuning: 0.5, SampleRate: 0},
		{Detuning: 0.5, SampleRate: -5},
	}
	periods := []float64{0.5, 20, 20}
	for i, bp := range cases {
		if _, err := bp.Cutoffs(periods[i]); !errors.Is(err, ErrFilterDesign) {
			t.Fatalf("case %d: expected ErrFilterDesign, got %v", i, err)
		}
	}
}

func TestCutoffsOrderedInsideUnitInterval(t *testing.T) {
	for _, detuning := range []float64{0.05, 0.25, 0.5, 0.75, 0.95} {
		for _, period := range []float64{0.7, 1, 3, 6, 10, 20, 35, 50, 120} {
			bp := Bandpass{Detuning: detuning, SampleRate: 5}
			c, err := bp.Cutoffs(period)
			if err != nil {
				if !errors.Is(err, ErrFilterDesign) {
					t.Fatalf("detuning %.2f period %.1f: unexpected error %v", detuning, period, err)
				}
				continue
			}
			if !(c.Low < c.High) {
				t.Fatalf("detuning %.2f period %.1f: low %.5f not below high %.5f", detuning, period, c.Low, c.High)
			}
			if c.Low <= 0 || c.High >= 1 {
				t.Fatalf("detuning %.2f period %.1f: cutoffs %+v outside (0,1)", detuning, period, c)
			}
		}
	}
}

func TestDesignMatchesReferenceTaps(t *testing.T) {
	c := Design(Cutoffs{Low: 0.1, High: 0.2})
	wantB := []float64{0.020083365564211232, 0, -0.040166731128422464, 0, 0.020083365564211232}
	wantA := []float64{1.0, -3.212440815469486, 4.167131841756085, -2.5653579121960033, 0.641351538057563}
	for i := range wantB {
		if math.Abs(c.B[i]-wantB[i]) > 1e-9 {
			t.Fatalf("b[%d]: expected %.12f got %.12f", i, wantB[i], c.B[i])
		}
		if math.Abs(c.A[i]-wantA[i]) > 1e-9 {
			t.Fatalf("a[%d]: expected %.12f got %.12f", i, wantA[i], c.A[i])
		}
	}
}

func TestDesignResponseShape(t *testing.T) {
	cut := Cutoffs{Low: 0.1, High: 0.2}
	c := Design(cut)
	if g := c.Response(0); g > 1e-9 {
		t.Fatalf("expected zero DC gain, got %.6f", g)
	}
	if g := c.Response(math.Pi); g > 1e-9 {
		t.Fatalf("expected zero Nyquist gain, got %.6f", g)
	}
	for _, edge := range []float64{cut.Low, cut.High} {
		if g := c.Response(math.Pi * edge); math.Abs(g-math.Sqrt2/2) > 1e-9 {
			t.Fatalf("expected -3dB at edge %.2f, got %.6f", edge, g)
		}
	}
	w1 := 4 * math.Tan(math.Pi*cut.Low/2)
	w2 := 4 * math.Tan(math.Pi*cut.High/2)
	center := 2 * math.Atan(math.Sqrt(w1*w2)/4)
	if g := c.Response(center); math.Abs(g-1) > 1e-9 {
		t.Fatalf("expected unity gain at center, got %.6f", g)
	}
}

func TestFiltFiltRejectsShortWindow(t *testing.T) {
	c := Design(Cutoffs{Low: 0.1, High: 0.2})
	if _, err := FiltFilt(c, make([]float64, PadLen)); !errors.Is(err, ErrFilterDesign) {
		t.Fatalf("expected ErrFilterDesign for short window, got %v", err)
	}
	if _, err := FiltFilt(c, make([]float64, MinWindow)); err != nil {
		t.Fatalf("expected minimum window to pass, got %v", err)
	}
}

func TestApplyConstantWindowIsFlat(t *testing.T) {
	window := make([]float64, 30)
	for i := range window {
		window[i] = 1.1234
	}
	out, err := NewBandpass(0.5, 5).Apply(window, 20)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	for i, v := range out {
		if math.Abs(v) > 1e-9 {
			t.Fatalf("expected flat output, got %.3e at %d", v, i)
		}
	}
}

func TestApplyZeroPhase(t *testing.T) {
	x := sine(120, 20, 0.01, 1)
	out, err := NewBandpass(0.5, 1).Apply(x, 20)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if len(out) != len(x) {
		t.Fatalf("expected %d samples, got %d", len(x), len(out))
	}

	peaks := func(s []float64) []int {
		var idx []int
		for i := 20; i < 100; i++ {
			if s[i] > s[i-1] && s[i] >= s[i+1] {
				idx = append(idx, i)
			}
		}
		return idx
	}
	in, filtered := peaks(x), peaks(out)
	if len(in) != len(filtered) || len(in) == 0 {
		t.Fatalf("peak count mismatch: input %v filtered %v", in, filtered)
	}
	for i := range in {
		if d := in[i] - filtered[i]; d < -1 || d > 1 {
			t.Fatalf("peak %d lags by %d samples (input %v filtered %v)", i, d, in, filtered)
		}
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range out[30:90] {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if p2p := hi - lo; math.Abs(p2p-0.02) > 0.002 {
		t.Fatalf("expected mid-window peak-to-trough near 0.02, got %.5f", p2p)
	}
}

func TestApplyLeavesInputUntouched(t *testing.T) {
	x := sine(40, 20, 0.01, 1)
	orig := append([]float64(nil), x...)
	if _, err := NewBandpass(0.5, 5).Apply(x, 20); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	for i := range x {
		if x[i] != orig[i] {
			t.Fatalf("input mutated at %d", i)
		}
	}
}

func TestApplyPropagatesConfigErrors(t *testing.T) {
	x := sine(30, 20, 0.01, 1)
	if _, err := (Bandpass{Detuning: 1, SampleRate: 5}).Apply(x, 20); !errors.Is(err, ErrInvalidFilterConfig) {
		t.Fatalf("expected ErrInvalidFilterConfig, got %v", err)
	}
	if _, err := NewBandpass(0.5, 5).Apply(x, 0.3); !errors.Is(err, ErrFilterDesign) {
		t.Fatalf("expected ErrFilterDesign, got %v", err)
	}
}
