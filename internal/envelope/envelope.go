// Package envelope measures how strong the isolated cycle is: trailing peak-to-trough range, then an EMA of it.
package envelope

import (
	talib "github.com/markcheno/go-talib"

	"fxcycle-go/internal/signal"
)

// Estimator chains Amplitude and EMA.
type Estimator struct {
	Length int
	Span   int
}

// NewEstimator returns an estimator; a non-positive span follows the window length.
func NewEstimator(length, span int) Estimator {
	if span <= 0 {
		span = length
	}
	return Estimator{Length: length, Span: span}
}

// Estimate returns the raw and smoothed amplitude columns for filtered.
func (e Estimator) Estimate(filtered []signal.Cell) (amplitude, smoothed []signal.Cell) {
	amplitude = Amplitude(filtered, e.Length)
	smoothed = EMA(amplitude, e.Span)
	return amplitude, smoothed
}

// Amplitude is max minus min over the trailing length cells, defined only when every one of them is defined.
func Amplitude(filtered []signal.Cell, length int) []signal.Cell {
	out := make([]signal.Cell, len(filtered))
	for i, c := range filtered {
		if c.Ok() {
			out[i] = signal.Undefined(signal.ReasonInsufficientHistory)
		} else {
			out[i] = signal.Undefined(c.Reason)
		}
	}
	if length <= 0 {
		return out
	}

	for start := 0; start < len(filtered); {
		if !filtered[start].Ok() {
			start++
			continue
		}
		end := start
		for end < len(filtered) && filtered[end].Ok() {
			end++
		}
		fillRun(out, filtered[start:end], start, length)
		start = end
	}
	return out
}

func fillRun(out, run []signal.Cell, offset, length int) {
	if len(run) < length {
		return
	}
	if length == 1 {
		for j := range run {
			out[offset+j] = signal.Defined(0)
		}
		return
	}
	values := make([]float64, len(run))
	for j, c := range run {
		values[j] = c.Value
	}
	hi := talib.Max(values, length)
	lo := talib.Min(values, length)
	for j := length - 1; j < len(run); j++ {
		out[offset+j] = signal.Defined(hi[j] - lo[j])
	}
}

// EMA smooths values with α = 2/(span+1), seeded by the first defined value.
// Undefined inputs stay undefined; the recursion resumes from the last state when values return.
func EMA(values []signal.Cell, span int) []signal.Cell {
	out := make([]signal.Cell, len(values))
	if span <= 0 {
		span = 1
	}
	alpha := 2.0 / float64(span+1)
	var state float64
	seeded := false
	for i, c := range values {
		if !c.Ok() {
			out[i] = signal.Undefined(c.Reason)
			continue
		}
		if !seeded {
			state = c.Value
			seeded = true
		} else {
			state = alpha*c.Value + (1-alpha)*state
		}
		out[i] = signal.Defined(state)
	}
	return out
}
