// Package cycle supplies the dominant-cycle phase and period consumed by the strategy.
package cycle

import (
	"errors"
	"fmt"
	"math"
	"strings"

	talib "github.com/markcheno/go-talib"
)

const (
	// PhaseLookback is the number of leading samples HT_DCPHASE leaves undefined.
	PhaseLookback = 63
	// PeriodLookback is the number of leading samples HT_DCPERIOD leaves undefined.
	PeriodLookback = 32
)

// ErrNoPrices is returned when there is nothing to analyze.
var ErrNoPrices = errors.New("no prices to analyze")

// Estimate holds the instantaneous phase (radians) and period (samples), NaN where undefined.
type Estimate struct {
	Phase  []float64
	Period []float64
}

func newEstimate(n int) Estimate {
	e := Estimate{Phase: make([]float64, n), Period: make([]float64, n)}
	for i := 0; i < n; i++ {
		e.Phase[i] = math.NaN()
		e.Period[i] = math.NaN()
	}
	return e
}

// Analyzer derives cycle estimates aligned with a price series. NaN prices are gaps.
type Analyzer interface {
	Name() string
	Analyze(prices []float64) (Estimate, error)
}

// Hilbert uses the Hilbert-transform dominant cycle indicators.
type Hilbert struct{}

// Name returns the identifier for logging.
func (Hilbert) Name() string { return "hilbert" }

// Analyze runs HT_DCPHASE and HT_DCPERIOD over every gap-free run of prices.
// Runs too short to clear the phase lookback stay undefined.
func (Hilbert) Analyze(prices []float64) (Estimate, error) {
	if len(prices) == 0 {
		return Estimate{}, ErrNoPrices
	}
	est := newEstimate(len(prices))
	for start := 0; start < len(prices); {
		if math.IsNaN(prices[start]) {
			start++
			continue
		}
		end := start
		for end < len(prices) && !math.IsNaN(prices[end]) {
			end++
		}
		if end-start > PhaseLookback {
			run := prices[start:end]
			phase := talib.HtDcPhase(run)
			period := talib.HtDcPeriod(run)
			for j := range run {
				if j >= PhaseLookback {
					est.Phase[start+j] = phase[j] * math.Pi / 180
				}
				if j >= PeriodLookback {
					est.Period[start+j] = period[j]
				}
			}
		}
		start = end
	}
	return est, nil
}

// Fixed reports a constant period and a phase that advances 2π per period.
type Fixed struct {
	Period float64
	Offset float64
}

// Name returns the identifier for logging.
func (Fixed) Name() string { return "fixed" }

// Analyze ignores the price values and clocks phase by row index.
func (f Fixed) Analyze(prices []float64) (Estimate, error) {
	if len(prices) == 0 {
		return Estimate{}, ErrNoPrices
	}
	if f.Period <= 0 {
		return Estimate{}, fmt.Errorf("fixed cycle period %.2f must be positive", f.Period)
	}
	est := newEstimate(len(prices))
	for i := range prices {
		est.Phase[i] = math.Mod(2*math.Pi*float64(i)/f.Period+f.Offset, 2*math.Pi)
		est.Period[i] = f.Period
	}
	return est, nil
}

// Build returns the analyzer for mode.
func Build(mode string, fixedPeriod float64) (Analyzer, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "hilbert", "ht":
		return Hilbert{}, nil
	case "fixed":
		if fixedPeriod <= 0 {
			return nil, fmt.Errorf("fixed cycle source needs a positive period, got %.2f", fixedPeriod)
		}
		return Fixed{Period: fixedPeriod}, nil
	default:
		return nil, fmt.Errorf("unknown cycle source %q", mode)
	}
}
