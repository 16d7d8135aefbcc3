package strategy

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"fxcycle-go/internal/envelope"
	"fxcycle-go/internal/filter"
	"fxcycle-go/internal/metrics"
	"fxcycle-go/internal/signal"
	"fxcycle-go/internal/window"
)

var (
	// ErrEmptySeries is returned when there is nothing to process.
	ErrEmptySeries = errors.New("empty series")
	// ErrMisaligned is returned when phase or period do not line up with the prices.
	ErrMisaligned = errors.New("misaligned cycle estimates")
	// ErrUnordered is returned when timestamps are not strictly increasing.
	ErrUnordered = errors.New("timestamps not strictly increasing")
	// ErrMalformedPrice is returned for zero, negative or infinite prices.
	ErrMalformedPrice = errors.New("malformed price")
)

// Input bundles a price history with the aligned cycle phase (radians) and period (samples). NaN marks a gap.
type Input struct {
	Pair         string
	Observations []signal.Observation
	Phase        []float64
	Period       []float64
}

// CycleFader isolates the dominant cycle with an adaptive band-pass and fades its extremes.
type CycleFader struct {
	params     Params
	engine     *window.Engine
	envelope   envelope.Estimator
	classifier Classifier
	log        zerolog.Logger
}

// NewCycleFader builds the pipeline from params, filling zero values with defaults.
func NewCycleFader(params Params, log zerolog.Logger) (*CycleFader, error) {
	params = params.withDefaults()
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("cycle params: %w", err)
	}
	policy, _ := window.ParseGapPolicy(params.GapPolicy)
	bp := filter.NewBandpass(params.Detuning, params.SampleRate)
	if params.Detuning <= 0 || params.Detuning >= 1 {
		log.Warn().Float64("detuning", params.Detuning).Msg("detuning outside (0, 1); every window will be undefined")
	}
	return &CycleFader{
		params:     params,
		engine:     window.NewEngine(params.WindowLength, policy, bp, params.Workers, log),
		envelope:   envelope.NewEstimator(params.WindowLength, params.EMASpan),
		classifier: Classifier{SignalThreshold: params.SignalThreshold, AmplitudeThreshold: params.AmplitudeThreshold},
		log:        log,
	}, nil
}

// Name returns the identifier for logging.
func (f *CycleFader) Name() string { return "CycleFader" }

// Params returns the effective tuning.
func (f *CycleFader) Params() Params { return f.params }

// Build computes every derived column in one ordered pass and returns the finished series.
func (f *CycleFader) Build(in Input) (*signal.Series, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	n := len(in.Observations)
	prices := make([]signal.Cell, n)
	for i, obs := range in.Observations {
		prices[i] = signal.Defined(obs.Price)
	}
	returns := LogReturns(prices)

	samples := make([]signal.Sample, n)
	for i, obs := range in.Observations {
		phase := signal.Defined(in.Phase[i])
		samples[i] = signal.Sample{
			Ts:        obs.Ts,
			Price:     prices[i],
			LogReturn: returns[i],
			Phase:     phase,
			Period:    signal.Defined(in.Period[i]),
			Signal:    WaveCell(phase),
		}
	}

	filtered := f.engine.Run(samples)
	amplitude, smoothed := f.envelope.Estimate(filtered)

	counts := map[signal.Position]int{}
	eligible, defined := 0, 0
	for i := range samples {
		s := &samples[i]
		s.Filtered = filtered[i]
		s.Amplitude = amplitude[i]
		s.SmoothedAmplitude = smoothed[i]
		s.Position = f.classifier.Classify(s.Signal, s.SmoothedAmplitude)
		counts[s.Position]++
		metrics.PositionsTotal.WithLabelValues(s.Position.String()).Inc()
		if s.Eligible() {
			eligible++
		}
		if s.Filtered.Ok() {
			defined++
		}
	}

	f.log.Info().
		Str("pair", in.Pair).
		Int("rows", n).
		Int("eligible", eligible).
		Int("filtered", defined).
		Int("short", counts[signal.Short]).
		Int("flat", counts[signal.Flat]).
		Int("long", counts[signal.Long]).
		Msg("cycle series built")

	return &signal.Series{Pair: in.Pair, Samples: samples}, nil
}

func validate(in Input) error {
	n := len(in.Observations)
	if n == 0 {
		return ErrEmptySeries
	}
	if len(in.Phase) != n || len(in.Period) != n {
		return fmt.Errorf("%w: %d prices, %d phases, %d periods", ErrMisaligned, n, len(in.Phase), len(in.Period))
	}
	for i, obs := range in.Observations {
		if i > 0 && !obs.Ts.After(in.Observations[i-1].Ts) {
			return fmt.Errorf("%w: row %d at %s", ErrUnordered, i, obs.Ts.Format(time.RFC3339))
		}
		if obs.Missing() {
			continue
		}
		if math.IsInf(obs.Price, 0) || obs.Price <= 0 {
			return fmt.Errorf("%w: row %d price %v", ErrMalformedPrice, i, obs.Price)
		}
	}
	return nil
}
