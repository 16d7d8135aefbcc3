package main

import (
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"fxcycle-go/internal/config"
	"fxcycle-go/internal/cycle"
	"fxcycle-go/internal/exchange"
	"fxcycle-go/internal/metrics"
	"fxcycle-go/internal/report"
	"fxcycle-go/internal/strategy"
	"fxcycle-go/internal/util"
)

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		util.NewLogger("info", "console").Fatal().Err(err).Msg("load config")
	}
	if err := config.ApplyEnv(cfg); err != nil {
		util.NewLogger("info", "console").Fatal().Err(err).Msg("apply env overrides")
	}

	log := util.NewLogger(cfg.App.LogLevel, cfg.App.LogFormat)

	if cfg.App.MetricsAddr != "" {
		_ = metrics.Serve(cfg.App.MetricsAddr)
		log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")
	}

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("cycler run failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	start, end, err := cfg.Feed.Range()
	if err != nil {
		return err
	}
	req := exchange.Request{Base: cfg.Feed.Base, Quote: cfg.Feed.Quote, Start: start, End: end}

	source, err := exchange.NewSource(cfg.Feed.Provider, sourceOptions(cfg.Feed, log)...)
	if err != nil {
		return err
	}
	observations, err := source.Load(ctx, req)
	if err != nil {
		return fmt.Errorf("load prices from %s: %w", source.Name(), err)
	}
	log.Info().Str("source", source.Name()).Str("pair", req.Pair()).Int("rows", len(observations)).Msg("prices loaded")

	analyzer, err := cycle.Build(cfg.Cycle.Mode, cfg.Cycle.FixedPeriod)
	if err != nil {
		return err
	}
	prices := make([]float64, len(observations))
	for i, obs := range observations {
		prices[i] = obs.Price
	}
	est, err := analyzer.Analyze(prices)
	if err != nil {
		return fmt.Errorf("analyze cycle: %w", err)
	}

	fader, err := strategy.NewCycleFader(pipelineParams(cfg.Pipeline), log)
	if err != nil {
		return err
	}
	series, err := fader.Build(strategy.Input{
		Pair:         req.Pair(),
		Observations: observations,
		Phase:        est.Phase,
		Period:       est.Period,
	})
	if err != nil {
		return fmt.Errorf("build series: %w", err)
	}

	if path := cfg.Output.SamplesPath; path != "" {
		recorder, err := report.NewJSONLRecorder(path)
		if err != nil {
			return fmt.Errorf("open samples output: %w", err)
		}
		if err := recorder.RecordSeries(series); err != nil {
			_ = recorder.Close()
			return err
		}
		if err := recorder.Close(); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("samples written")
	}
	if path := cfg.Output.PlotsPath; path != "" {
		params := fader.Params()
		if err := report.WritePlots(path, report.Plots(series, params.SignalThreshold, params.AmplitudeThreshold)); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("plots written")
	}

	if n := series.Len(); n > 0 {
		last := series.Samples[n-1]
		log.Info().
			Str("pair", series.Pair).
			Str("cycle", analyzer.Name()).
			Time("ts", last.Ts).
			Str("position", last.Position.String()).
			Msg("latest position")
	}
	return nil
}

func sourceOptions(feed config.Feed, log zerolog.Logger) []exchange.Option {
	syn := feed.Synthetic
	return []exchange.Option{
		exchange.WithLogger(log),
		exchange.WithBaseURL(feed.BaseURL),
		exchange.WithTimeout(time.Duration(feed.TimeoutMs) * time.Millisecond),
		exchange.WithCSVPath(feed.CSVPath),
		exchange.WithSynthetic(exchange.Synthetic{
			Level:     syn.Level,
			Amplitude: syn.Amplitude,
			Period:    syn.Period,
			Count:     syn.Count,
			Step:      time.Duration(syn.StepHours) * time.Hour,
			Missing:   syn.Missing,
		}),
	}
}

func pipelineParams(p config.Pipeline) strategy.Params {
	return strategy.Params{
		WindowLength:       p.WindowLength,
		Detuning:           p.Detuning,
		SampleRate:         p.SampleRate,
		SignalThreshold:    p.SignalThresh,
		AmplitudeThreshold: p.AmpThresh,
		EMASpan:            p.EMASpan,
		GapPolicy:          p.GapPolicy,
		Workers:            p.Workers,
	}
}
