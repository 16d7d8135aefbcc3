// Package window slides a fixed-length window over eligible rows and filters each one independently.
package window

import (
	"errors"
	"fmt"
	"iter"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"fxcycle-go/internal/filter"
	"fxcycle-go/internal/metrics"
	"fxcycle-go/internal/signal"
)

// GapPolicy decides how ineligible rows interrupt a window.
type GapPolicy string

const (
	// GapReset requires a fresh run of eligible rows after every gap.
	GapReset GapPolicy = "reset"
	// GapBridge keys windows on cleaned-row index so they span gaps.
	GapBridge GapPolicy = "bridge"
)

// ParseGapPolicy normalizes a configured policy name; empty means GapReset.
func ParseGapPolicy(name string) (GapPolicy, error) {
	switch GapPolicy(strings.ToLower(strings.TrimSpace(name))) {
	case "", GapReset:
		return GapReset, nil
	case GapBridge:
		return GapBridge, nil
	default:
		return "", fmt.Errorf("unknown gap policy %q", name)
	}
}

// Window is one filter input: a private copy of prices, the period at its last row, and that row's raw index.
type Window struct {
	End    int
	Prices []float64
	Period float64
}

// Windows lazily yields every full window over samples. Ranging twice yields the same windows.
func Windows(samples []signal.Sample, length int, policy GapPolicy) iter.Seq[Window] {
	return func(yield func(Window) bool) {
		if length <= 0 {
			return
		}
		// rows holds raw indices of the current eligible run (reset) or all eligible rows so far (bridge).
		rows := make([]int, 0, length)
		for i, s := range samples {
			if !s.Eligible() {
				if policy != GapBridge {
					rows = rows[:0]
				}
				continue
			}
			rows = append(rows, i)
			if len(rows) < length {
				continue
			}
			tail := rows[len(rows)-length:]
			w := Window{End: i, Prices: make([]float64, length), Period: s.Period.Value}
			for j, idx := range tail {
				w.Prices[j] = samples[idx].Price.Value
			}
			if !yield(w) {
				return
			}
			if len(rows) > 4*length {
				rows = append(rows[:0], rows[len(rows)-length+1:]...)
			}
		}
	}
}

// Engine filters every window on a bounded worker pool and keeps the last filtered sample of each.
type Engine struct {
	length  int
	policy  GapPolicy
	bp      filter.Bandpass
	workers int
	log     zerolog.Logger
}

// NewEngine builds an engine; non-positive workers default to GOMAXPROCS.
func NewEngine(length int, policy GapPolicy, bp filter.Bandpass, workers int, log zerolog.Logger) *Engine {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if policy == "" {
		policy = GapReset
	}
	return &Engine{length: length, policy: policy, bp: bp, workers: workers, log: log}
}

// Length returns the window length.
func (e *Engine) Length() int { return e.length }

// Run returns one filtered cell per sample. Filter failures degrade only their own cell.
func (e *Engine) Run(samples []signal.Sample) []signal.Cell {
	out := make([]signal.Cell, len(samples))
	for i, s := range samples {
		if s.Eligible() {
			out[i] = signal.Undefined(signal.ReasonInsufficientHistory)
		} else {
			out[i] = signal.Undefined(signal.ReasonMissingInput)
		}
	}

	var g errgroup.Group
	g.SetLimit(e.workers)
	for w := range Windows(samples, e.length, e.policy) {
		g.Go(func() error {
			out[w.End] = e.filterWindow(w)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (e *Engine) filterWindow(w Window) signal.Cell {
	filtered, err := e.bp.Apply(w.Prices, w.Period)
	if err != nil {
		reason := reasonFor(err)
		metrics.WindowsTotal.WithLabelValues(reason.String()).Inc()
		e.log.Debug().Err(err).Int("row", w.End).Float64("period", w.Period).Msg("window filter failed")
		return signal.Undefined(reason)
	}
	metrics.WindowsTotal.WithLabelValues("ok").Inc()
	return signal.Defined(filtered[len(filtered)-1])
}

func reasonFor(err error) signal.Reason {
	if errors.Is(err, filter.ErrInvalidFilterConfig) {
		return signal.ReasonInvalidFilterConfig
	}
	return signal.ReasonFilterDesign
}
