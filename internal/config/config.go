// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where binaries look for configuration when FXCYCLE_CONFIG is unset.
const DefaultPath = "internal/config/config.yaml"

const dateLayout = "2006-01-02"

// App captures process-wide runtime settings such as name, environment, metrics, and logging.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
}

// Synthetic shapes the offline sine generator.
type Synthetic struct {
	Level     float64 `yaml:"level"`
	Amplitude float64 `yaml:"amplitude"`
	Period    float64 `yaml:"period"`
	Count     int     `yaml:"count"`
	StepHours int     `yaml:"step_hours"`
	Missing   []int   `yaml:"missing"`
}

// Feed selects the price source and the pair/date range to load.
type Feed struct {
	Provider  string    `yaml:"provider"`
	Base      string    `yaml:"base"`
	Quote     string    `yaml:"quote"`
	Start     string    `yaml:"start"`
	End       string    `yaml:"end"`
	BaseURL   string    `yaml:"base_url"`
	TimeoutMs int       `yaml:"timeout_ms"`
	CSVPath   string    `yaml:"csv_path"`
	Synthetic Synthetic `yaml:"synthetic"`
}

// Range parses Start and End; empty values yield zero times.
func (f Feed) Range() (time.Time, time.Time, error) {
	start, err := parseDate(f.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("feed start: %w", err)
	}
	end, err := parseDate(f.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("feed end: %w", err)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("feed end %s before start %s", f.End, f.Start)
	}
	return start, end, nil
}

// Cycle picks the phase/period analyzer.
type Cycle struct {
	Mode        string  `yaml:"mode"`
	FixedPeriod float64 `yaml:"fixed_period"`
}

// Pipeline groups the band-pass, envelope and classifier tunables.
type Pipeline struct {
	WindowLength int     `yaml:"window_length"`
	Detuning     float64 `yaml:"detuning"`
	SampleRate   float64 `yaml:"sample_rate"`
	SignalThresh float64 `yaml:"signal_thresh"`
	AmpThresh    float64 `yaml:"amp_thresh"`
	EMASpan      int     `yaml:"ema_span"`
	GapPolicy    string  `yaml:"gap_policy"`
	Workers      int     `yaml:"workers"`
}

// Output locates the files a run writes.
type Output struct {
	SamplesPath string `yaml:"samples_path"`
	PlotsPath   string `yaml:"plots_path"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App      App      `yaml:"app"`
	Feed     Feed     `yaml:"feed"`
	Cycle    Cycle    `yaml:"cycle"`
	Pipeline Pipeline `yaml:"pipeline"`
	Output   Output   `yaml:"output"`
}

// Path returns FXCYCLE_CONFIG when set, otherwise DefaultPath.
func Path() string {
	if p := os.Getenv("FXCYCLE_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads a YAML file from disk and hydrates a Config struct.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, raw)
}
