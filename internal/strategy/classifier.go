package strategy

import "fxcycle-go/internal/signal"

const (
	// DefaultSignalThreshold is the oscillator level treated as a cycle extreme.
	DefaultSignalThreshold = 0.75
	// DefaultAmplitudeThreshold is the minimum smoothed peak-to-trough range (40 pips).
	DefaultAmplitudeThreshold = 0.004
)

// Classifier fades cycle extremes once the cycle is strong enough to trust.
type Classifier struct {
	SignalThreshold    float64
	AmplitudeThreshold float64
}

// Classify labels one row. Both conditions are read from the same row; undefined inputs stay Flat.
func (c Classifier) Classify(wave, smoothedAmplitude signal.Cell) signal.Position {
	if !wave.Ok() || !smoothedAmplitude.Ok() {
		return signal.Flat
	}
	if smoothedAmplitude.Value <= c.AmplitudeThreshold {
		return signal.Flat
	}
	switch {
	case wave.Value >= c.SignalThreshold:
		return signal.Short
	case wave.Value <= -c.SignalThreshold:
		return signal.Long
	default:
		return signal.Flat
	}
}
