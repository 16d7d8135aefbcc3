package strategy

import (
	"math"

	"fxcycle-go/internal/signal"
)

// Wave projects a cycle phase in radians onto sin(phase + π/4), a bounded oscillator in [-1, 1].
func Wave(phase float64) float64 {
	return math.Sin(phase + math.Pi/4)
}

// WaveCell applies Wave to a possibly-undefined phase.
func WaveCell(phase signal.Cell) signal.Cell {
	if !phase.Ok() {
		return signal.Undefined(phase.Reason)
	}
	return signal.Defined(Wave(phase.Value))
}
