// Package report writes built series to disk and projects them for plotting.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fxcycle-go/internal/signal"
)

type record struct {
	Ts                time.Time                `json:"ts"`
	Price             *float64                 `json:"price"`
	LogReturn         *float64                 `json:"log_return"`
	Phase             *float64                 `json:"phase"`
	Period            *float64                 `json:"period"`
	Signal            *float64                 `json:"signal"`
	Filtered          *float64                 `json:"filtered"`
	Amplitude         *float64                 `json:"amplitude"`
	SmoothedAmplitude *float64                 `json:"smoothed_amplitude"`
	Position          int8                     `json:"position"`
	Undefined         map[string]signal.Reason `json:"undefined,omitempty"`
}

func newRecord(s signal.Sample) record {
	r := record{Ts: s.Ts, Position: int8(s.Position)}
	cells := []struct {
		name string
		cell signal.Cell
		dst  **float64
	}{
		{"price", s.Price, &r.Price},
		{"log_return", s.LogReturn, &r.LogReturn},
		{"phase", s.Phase, &r.Phase},
		{"period", s.Period, &r.Period},
		{"signal", s.Signal, &r.Signal},
		{"filtered", s.Filtered, &r.Filtered},
		{"amplitude", s.Amplitude, &r.Amplitude},
		{"smoothed_amplitude", s.SmoothedAmplitude, &r.SmoothedAmplitude},
	}
	for _, c := range cells {
		if c.cell.Ok() {
			v := c.cell.Value
			*c.dst = &v
			continue
		}
		if r.Undefined == nil {
			r.Undefined = make(map[string]signal.Reason)
		}
		r.Undefined[c.name] = c.cell.Reason
	}
	return r
}

// JSONLRecorder writes one JSON object per sample. Undefined cells are null and
// their reasons are listed under "undefined".
type JSONLRecorder struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewJSONLRecorder creates (or truncates) the target file and returns a recorder.
func NewJSONLRecorder(path string) (*JSONLRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	return &JSONLRecorder{
		file: file,
		enc:  json.NewEncoder(file),
	}, nil
}

// Record writes a single sample.
func (r *JSONLRecorder) Record(s signal.Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return fmt.Errorf("recorder closed")
	}
	return r.enc.Encode(newRecord(s))
}

// RecordSeries writes every sample of series in order.
func (r *JSONLRecorder) RecordSeries(series *signal.Series) error {
	for i, s := range series.Samples {
		if err := r.Record(s); err != nil {
			return fmt.Errorf("record row %d: %w", i, err)
		}
	}
	return nil
}

// Close flushes and closes the file handle.
func (r *JSONLRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
