// Package filter designs and applies the adaptive band-pass used to isolate the dominant cycle.
package filter

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidFilterConfig is returned when the pass-band cannot be specified at all.
	ErrInvalidFilterConfig = errors.New("invalid filter config")
	// ErrFilterDesign is returned when a cutoff falls outside (0, Nyquist) or the window cannot be padded.
	ErrFilterDesign = errors.New("filter design")
)

const (
	// DefaultDetuning widens the pass-band to ±50% of the target period.
	DefaultDetuning = 0.5
	// DefaultSampleRate is the assumed number of samples per unit time.
	DefaultSampleRate = 5.0
)

// Cutoffs holds the band edges normalized by the Nyquist frequency.
type Cutoffs struct {
	Low  float64
	High float64
}

// Bandpass retunes an order-2 Butterworth band-pass to a target period on every call.
type Bandpass struct {
	Detuning   float64
	SampleRate float64
}

// NewBandpass builds a filter with the given detuning and sample rate, falling back to defaults for zero values.
func NewBandpass(detuning, sampleRate float64) Bandpass {
	if detuning == 0 {
		detuning = DefaultDetuning
	}
	if sampleRate == 0 {
		sampleRate = DefaultSampleRate
	}
	return Bandpass{Detuning: detuning, SampleRate: sampleRate}
}

// Cutoffs places the pass-band around period and normalizes it by Nyquist.
func (b Bandpass) Cutoffs(period float64) (Cutoffs, error) {
	if b.Detuning <= 0 || b.Detuning >= 1 {
		return Cutoffs{}, fmt.Errorf("%w: detuning %.4f outside (0, 1)", ErrInvalidFilterConfig, b.Detuning)
	}
	if math.IsNaN(period) || math.IsInf(period, 0) || period <= 0 {
		return Cutoffs{}, fmt.Errorf("%w: period %.4f must be positive", ErrInvalidFilterConfig, period)
	}
	nyq := 0.5 * b.SampleRate
	low := 1.0 / (period * (1 + b.Detuning)) / nyq
	high := 1.0 / (period * (1 - b.Detuning)) / nyq
	if !(low > 0 && low < 1) || !(high > 0 && high < 1) {
		return Cutoffs{}, fmt.Errorf("%w: normalized cutoffs [%.4f, %.4f] outside (0, 1) for period %.4f at %.2f samples/unit",
			ErrFilterDesign, low, high, period, b.SampleRate)
	}
	return Cutoffs{Low: low, High: high}, nil
}

// Apply filters window with zero net phase shift using a pass-band tuned to period.
// The input is not modified; the output has the same length.
func (b Bandpass) Apply(window []float64, period float64) ([]float64, error) {
	cutoffs, err := b.Cutoffs(period)
	if err != nil {
		return nil, err
	}
	return FiltFilt(Design(cutoffs), window)
}
