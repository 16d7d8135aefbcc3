package window

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"fxcycle-go/internal/filter"
	"fxcycle-go/internal/signal"
)

// buildSamples produces a sine-wave series where row 0 lacks a log return, as a real feed would.
func buildSamples(n int, period float64) []signal.Sample {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]signal.Sample, n)
	for i := range out {
		px := 1 + 0.01*math.Sin(2*math.Pi*float64(i)/20)
		out[i] = signal.Sample{
			Ts:        start.Add(time.Duration(i) * time.Hour),
			Price:     signal.Defined(px),
			LogReturn: signal.Defined(0),
			Phase:     signal.Defined(0),
			Period:    signal.Defined(period),
		}
	}
	out[0].LogReturn = signal.Undefined(signal.ReasonInsufficientHistory)
	return out
}

func drop(samples []signal.Sample, idx int) {
	samples[idx].Price = signal.Undefined(signal.ReasonMissingInput)
}

func collect(samples []signal.Sample, length int, policy GapPolicy) []Window {
	var out []Window
	for w := range Windows(samples, length, policy) {
		out = append(out, w)
	}
	return out
}

func TestParseGapPolicy(t *testing.T) {
	cases := map[string]GapPolicy{"": GapReset, "reset": GapReset, " Bridge ": GapBridge}
	for in, want := range cases {
		got, err := ParseGapPolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParseGapPolicy(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseGapPolicy("interpolate"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func TestWindowsCoverCleanSeries(t *testing.T) {
	samples := buildSamples(100, 20)
	windows := collect(samples, 30, GapReset)
	if len(windows) != 100-30 {
		t.Fatalf("expected %d windows, got %d", 70, len(windows))
	}
	first := windows[0]
	if first.End != 30 {
		t.Fatalf("expected first window to end at row 30, got %d", first.End)
	}
	if len(first.Prices) != 30 || first.Prices[0] != samples[1].Price.Value || first.Prices[29] != samples[30].Price.Value {
		t.Fatalf("first window does not span rows 1..30")
	}
}

func TestWindowsUseLastPeriod(t *testing.T) {
	samples := buildSamples(40, 20)
	for i := range samples {
		samples[i].Period = signal.Defined(float64(10 + i))
	}
	for w := range Windows(samples, 30, GapReset) {
		if w.Period != float64(10+w.End) {
			t.Fatalf("window ending at %d used period %.0f", w.End, w.Period)
		}
	}
}

func TestWindowsRestartable(t *testing.T) {
	samples := buildSamples(60, 20)
	seq := Windows(samples, 30, GapReset)
	var first, second []int
	for w := range seq {
		first = append(first, w.End)
	}
	for w := range seq {
		second = append(second, w.End)
	}
	if len(first) == 0 || len(first) != len(second) {
		t.Fatalf("expected identical passes, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("pass mismatch at %d", i)
		}
	}
}

func TestWindowsStopEarly(t *testing.T) {
	samples := buildSamples(60, 20)
	count := 0
	for range Windows(samples, 30, GapReset) {
		count++
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Fatalf("expected to stop after 3 windows, got %d", count)
	}
}

func TestWindowsOwnTheirPrices(t *testing.T) {
	samples := buildSamples(40, 20)
	for w := range Windows(samples, 30, GapReset) {
		w.Prices[0] = -1
	}
	for i, s := range samples {
		if s.Price.Value < 0 {
			t.Fatalf("window write leaked into sample %d", i)
		}
	}
}

func TestWindowsGapReset(t *testing.T) {
	samples := buildSamples(120, 20)
	drop(samples, 60)
	windows := collect(samples, 30, GapReset)
	for _, w := range windows {
		if w.End >= 60 && w.End < 90 {
			t.Fatalf("reset policy produced window ending at %d inside the refill zone", w.End)
		}
	}
	if windows[len(windows)-1].End != 119 {
		t.Fatalf("expected windows to resume through the end")
	}
	resumed := -1
	for _, w := range windows {
		if w.End > 60 {
			resumed = w.End
			break
		}
	}
	if resumed != 90 {
		t.Fatalf("expected reset window to resume at row 90, got %d", resumed)
	}
}

func TestWindowsGapBridge(t *testing.T) {
	samples := buildSamples(120, 20)
	drop(samples, 60)
	windows := collect(samples, 30, GapBridge)
	for _, w := range windows {
		if w.End == 60 {
			t.Fatalf("bridge policy must not end a window on a missing row")
		}
	}
	var bridged *Window
	for i := range windows {
		if windows[i].End == 61 {
			bridged = &windows[i]
		}
	}
	if bridged == nil {
		t.Fatalf("expected bridge window ending at row 61")
	}
	// rows 31..59 and 61 form the 30 cleaned rows ending at 61.
	if bridged.Prices[0] != samples[31].Price.Value || bridged.Prices[29] != samples[61].Price.Value {
		t.Fatalf("bridge window not keyed on cleaned-row index")
	}
	if len(windows) != 120-30-1 {
		t.Fatalf("expected %d bridge windows, got %d", 120-30-1, len(windows))
	}
}

func TestEngineRunReasons(t *testing.T) {
	samples := buildSamples(80, 20)
	engine := NewEngine(30, GapReset, filter.NewBandpass(0.5, 5), 4, zerolog.Nop())
	out := engine.Run(samples)
	if len(out) != len(samples) {
		t.Fatalf("expected %d cells, got %d", len(samples), len(out))
	}
	if out[0].Reason != signal.ReasonMissingInput {
		t.Fatalf("row 0 should be missing_input, got %s", out[0].Reason)
	}
	for i := 1; i < 30; i++ {
		if out[i].Reason != signal.ReasonInsufficientHistory {
			t.Fatalf("row %d should be insufficient_history, got %s", i, out[i].Reason)
		}
	}
	for i := 30; i < len(out); i++ {
		if !out[i].Ok() {
			t.Fatalf("row %d should be filtered, got %s", i, out[i].Reason)
		}
	}
}

func TestEngineIsolatesFilterFailures(t *testing.T) {
	samples := buildSamples(80, 20)
	samples[50].Period = signal.Defined(-3)
	samples[60].Period = signal.Defined(0.2)
	engine := NewEngine(30, GapReset, filter.NewBandpass(0.5, 5), 2, zerolog.Nop())
	out := engine.Run(samples)
	if out[50].Reason != signal.ReasonInvalidFilterConfig {
		t.Fatalf("expected invalid_filter_config at 50, got %s", out[50].Reason)
	}
	if out[60].Reason != signal.ReasonFilterDesign {
		t.Fatalf("expected filter_design at 60, got %s", out[60].Reason)
	}
	for _, i := range []int{49, 51, 59, 61} {
		if !out[i].Ok() {
			t.Fatalf("neighbour row %d should still be filtered, got %s", i, out[i].Reason)
		}
	}
}

func TestEngineParallelMatchesSequential(t *testing.T) {
	samples := buildSamples(150, 20)
	seq := NewEngine(30, GapReset, filter.NewBandpass(0.5, 5), 1, zerolog.Nop()).Run(samples)
	par := NewEngine(30, GapReset, filter.NewBandpass(0.5, 5), 8, zerolog.Nop()).Run(samples)
	for i := range seq {
		if seq[i].Reason != par[i].Reason {
			t.Fatalf("reason mismatch at %d", i)
		}
		if seq[i].Ok() && seq[i].Value != par[i].Value {
			t.Fatalf("value mismatch at %d: %.12f vs %.12f", i, seq[i].Value, par[i].Value)
		}
	}
}

func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine(30, "", filter.NewBandpass(0, 0), 0, zerolog.Nop())
	if e.workers <= 0 {
		t.Fatalf("expected positive default workers")
	}
	if e.policy != GapReset {
		t.Fatalf("expected reset default policy, got %s", e.policy)
	}
	if e.Length() != 30 {
		t.Fatalf("unexpected length %d", e.Length())
	}
}
