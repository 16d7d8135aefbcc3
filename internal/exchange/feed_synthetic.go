package exchange

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"fxcycle-go/internal/signal"
)

// Synthetic shapes a generated series: Level + Amplitude·sin(2πt/Period).
type Synthetic struct {
	Level     float64
	Amplitude float64
	Period    float64
	Count     int
	Step      time.Duration
	Start     time.Time
	// Missing lists row indices emitted as NaN.
	Missing []int
}

func (c Synthetic) withDefaults() Synthetic {
	if c.Level <= 0 {
		c.Level = 1.1
	}
	if c.Amplitude < 0 {
		c.Amplitude = -c.Amplitude
	}
	if c.Period <= 0 {
		c.Period = 20
	}
	if c.Count <= 0 {
		c.Count = 500
	}
	if c.Step <= 0 {
		c.Step = 24 * time.Hour
	}
	if c.Start.IsZero() {
		c.Start = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return c
}

// SyntheticSource emits a deterministic sine wave around a fixed level.
type SyntheticSource struct {
	cfg Synthetic
	log zerolog.Logger
}

// Name returns the provider identifier.
func (s *SyntheticSource) Name() string { return ProviderSynthetic }

// Config returns the effective generator shape.
func (s *SyntheticSource) Config() Synthetic { return s.cfg }

// Load generates Count rows starting at req.Start (or the configured start), stopping at req.End.
func (s *SyntheticSource) Load(ctx context.Context, req Request) ([]signal.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := s.cfg.Start
	if !req.Start.IsZero() {
		start = req.Start
	}
	missing := make(map[int]struct{}, len(s.cfg.Missing))
	for _, idx := range s.cfg.Missing {
		missing[idx] = struct{}{}
	}

	out := make([]signal.Observation, 0, s.cfg.Count)
	for i := 0; i < s.cfg.Count; i++ {
		ts := start.Add(time.Duration(i) * s.cfg.Step)
		if !req.End.IsZero() && ts.After(req.End) {
			break
		}
		px := s.cfg.Level + s.cfg.Amplitude*math.Sin(2*math.Pi*float64(i)/s.cfg.Period)
		if _, gap := missing[i]; gap {
			px = math.NaN()
		}
		out = append(out, signal.Observation{Ts: ts, Price: px})
	}
	s.log.Debug().Int("rows", len(out)).Float64("period", s.cfg.Period).Msg("synthetic prices generated")
	record(req.Pair(), out)
	return out, nil
}
