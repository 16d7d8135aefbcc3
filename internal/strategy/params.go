// Package strategy turns prices and cycle estimates into fade-the-extreme position labels.
package strategy

import (
	"fmt"
	"runtime"

	"fxcycle-go/internal/filter"
	"fxcycle-go/internal/window"
)

// DefaultWindowLength is the number of eligible rows per filter window and amplitude window.
const DefaultWindowLength = 30

// Params expresses the tunable knobs of the cycle pipeline.
type Params struct {
	WindowLength       int
	Detuning           float64
	SampleRate         float64
	SignalThreshold    float64
	AmplitudeThreshold float64
	EMASpan            int
	GapPolicy          string
	Workers            int
}

// DefaultParams returns the reference tuning.
func DefaultParams() Params {
	return Params{}.withDefaults()
}

func (p Params) withDefaults() Params {
	if p.WindowLength <= 0 {
		p.WindowLength = DefaultWindowLength
	}
	if p.Detuning == 0 {
		p.Detuning = filter.DefaultDetuning
	}
	if p.SampleRate == 0 {
		p.SampleRate = filter.DefaultSampleRate
	}
	if p.SignalThreshold <= 0 {
		p.SignalThreshold = DefaultSignalThreshold
	}
	if p.AmplitudeThreshold <= 0 {
		p.AmplitudeThreshold = DefaultAmplitudeThreshold
	}
	if p.EMASpan <= 0 {
		p.EMASpan = p.WindowLength
	}
	if p.GapPolicy == "" {
		p.GapPolicy = string(window.GapReset)
	}
	if p.Workers <= 0 {
		p.Workers = runtime.GOMAXPROCS(0)
	}
	return p
}

// Validate rejects settings that would make every window fail. Detuning and sample rate
// problems are left to the filter so they surface per window.
func (p Params) Validate() error {
	if p.WindowLength < filter.MinWindow {
		return fmt.Errorf("window length %d below filter minimum %d", p.WindowLength, filter.MinWindow)
	}
	if p.SignalThreshold > 1 {
		return fmt.Errorf("signal threshold %.3f can never fire on a [-1, 1] oscillator", p.SignalThreshold)
	}
	if _, err := window.ParseGapPolicy(p.GapPolicy); err != nil {
		return err
	}
	return nil
}
