package strategy

import (
	"math"

	"fxcycle-go/internal/signal"
)

// LogReturns differences log prices row over row. Row 0 has no history; a missing price voids both rows it touches.
func LogReturns(prices []signal.Cell) []signal.Cell {
	out := make([]signal.Cell, len(prices))
	for i := range prices {
		switch {
		case i == 0:
			out[i] = signal.Undefined(signal.ReasonInsufficientHistory)
		case !prices[i].Ok() || !prices[i-1].Ok():
			out[i] = signal.Undefined(signal.ReasonMissingInput)
		default:
			out[i] = signal.Defined(math.Log(prices[i].Value) - math.Log(prices[i-1].Value))
		}
	}
	return out
}
