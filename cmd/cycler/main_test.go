package main

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"fxcycle-go/internal/config"
	"fxcycle-go/internal/report"
)

func TestRunWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Feed: config.Feed{
			Provider: "synthetic",
			Base:     "EUR",
			Quote:    "USD",
			Synthetic: config.Synthetic{
				Level: 1.1, Amplitude: 0.01, Period: 20, Count: 150, StepHours: 24,
			},
		},
		Cycle:    config.Cycle{Mode: "fixed", FixedPeriod: 20},
		Pipeline: config.Pipeline{SampleRate: 2, Workers: 2},
		Output: config.Output{
			SamplesPath: filepath.Join(dir, "samples.jsonl"),
			PlotsPath:   filepath.Join(dir, "plots.json"),
		},
	}
	if err := run(context.Background(), cfg, zerolog.Nop()); err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	file, err := os.Open(cfg.Output.SamplesPath)
	if err != nil {
		t.Fatalf("open samples: %v", err)
	}
	defer file.Close()
	lines := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines++
	}
	if lines != 150 {
		t.Fatalf("expected 150 sample lines, got %d", lines)
	}

	data, err := os.ReadFile(cfg.Output.PlotsPath)
	if err != nil {
		t.Fatalf("read plots: %v", err)
	}
	var plots []report.PlotSeries
	if err := json.Unmarshal(data, &plots); err != nil {
		t.Fatalf("decode plots: %v", err)
	}
	if len(plots) != 3 || plots[0].RefLines[0] != 0.004 {
		t.Fatalf("unexpected plots %+v", plots)
	}
}

func TestRunRejectsBadSettings(t *testing.T) {
	cases := map[string]*config.Config{
		"unknown provider": {Feed: config.Feed{Provider: "bloomberg"}},
		"bad date":         {Feed: config.Feed{Provider: "synthetic", Start: "yesterday"}},
		"unknown cycle":    {Feed: config.Feed{Provider: "synthetic"}, Cycle: config.Cycle{Mode: "fourier"}},
		"short window":     {Feed: config.Feed{Provider: "synthetic"}, Pipeline: config.Pipeline{WindowLength: 5}},
	}
	for name, cfg := range cases {
		if err := run(context.Background(), cfg, zerolog.Nop()); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestPipelineParamsMapping(t *testing.T) {
	p := pipelineParams(config.Pipeline{WindowLength: 40, Detuning: 0.3, SampleRate: 2, SignalThresh: 0.8, AmpThresh: 0.005, EMASpan: 20, GapPolicy: "bridge", Workers: 3})
	if p.WindowLength != 40 || p.Detuning != 0.3 || p.SampleRate != 2 || p.SignalThreshold != 0.8 ||
		p.AmplitudeThreshold != 0.005 || p.EMASpan != 20 || p.GapPolicy != "bridge" || p.Workers != 3 {
		t.Fatalf("unexpected params %+v", p)
	}
}
