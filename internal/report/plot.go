package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fxcycle-go/internal/signal"
)

// PlotSeries is a read-only projection of one column with its reference lines.
// Undefined points are null.
type PlotSeries struct {
	Name     string      `json:"name"`
	Ts       []time.Time `json:"ts"`
	Values   []*float64  `json:"values"`
	RefLines []float64   `json:"ref_lines,omitempty"`
}

// Plots projects the smoothed amplitude, wave signal and position columns.
func Plots(series *signal.Series, signalThreshold, amplitudeThreshold float64) []PlotSeries {
	n := series.Len()
	ts := make([]time.Time, n)
	for i, s := range series.Samples {
		ts[i] = s.Ts
	}
	positions := make([]*float64, n)
	for i, p := range series.Positions() {
		v := float64(p)
		positions[i] = &v
	}
	return []PlotSeries{
		{
			Name:     "amp",
			Ts:       ts,
			Values:   cellValues(series.Column(func(s signal.Sample) signal.Cell { return s.SmoothedAmplitude })),
			RefLines: []float64{amplitudeThreshold},
		},
		{
			Name:     "signal",
			Ts:       ts,
			Values:   cellValues(series.Column(func(s signal.Sample) signal.Cell { return s.Signal })),
			RefLines: []float64{signalThreshold, -signalThreshold},
		},
		{Name: "position", Ts: ts, Values: positions},
	}
}

func cellValues(cells []signal.Cell) []*float64 {
	out := make([]*float64, len(cells))
	for i, c := range cells {
		if c.Ok() {
			v := c.Value
			out[i] = &v
		}
	}
	return out
}

// WritePlots stores plots as an indented JSON document.
func WritePlots(path string, plots []PlotSeries) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(plots, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal plots: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write plots: %w", err)
	}
	return nil
}
