package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type override struct {
	key   string
	apply func(cfg *Config, raw string) error
}

var overrides = []override{
	{"FXCYCLE_LOG_LEVEL", setString(func(c *Config) *string { return &c.App.LogLevel })},
	{"FXCYCLE_LOG_FORMAT", setString(func(c *Config) *string { return &c.App.LogFormat })},
	{"FXCYCLE_METRICS_ADDR", setString(func(c *Config) *string { return &c.App.MetricsAddr })},
	{"FXCYCLE_FEED_PROVIDER", setString(func(c *Config) *string { return &c.Feed.Provider })},
	{"FXCYCLE_FEED_BASE", setString(func(c *Config) *string { return &c.Feed.Base })},
	{"FXCYCLE_FEED_QUOTE", setString(func(c *Config) *string { return &c.Feed.Quote })},
	{"FXCYCLE_FEED_START", setString(func(c *Config) *string { return &c.Feed.Start })},
	{"FXCYCLE_FEED_END", setString(func(c *Config) *string { return &c.Feed.End })},
	{"FXCYCLE_FEED_BASE_URL", setString(func(c *Config) *string { return &c.Feed.BaseURL })},
	{"FXCYCLE_CSV_PATH", setString(func(c *Config) *string { return &c.Feed.CSVPath })},
	{"FXCYCLE_CYCLE_MODE", setString(func(c *Config) *string { return &c.Cycle.Mode })},
	{"FXCYCLE_FIXED_PERIOD", setFloat(func(c *Config) *float64 { return &c.Cycle.FixedPeriod })},
	{"FXCYCLE_WINDOW_LENGTH", setInt(func(c *Config) *int { return &c.Pipeline.WindowLength })},
	{"FXCYCLE_DETUNING", setFloat(func(c *Config) *float64 { return &c.Pipeline.Detuning })},
	{"FXCYCLE_SAMPLE_RATE", setFloat(func(c *Config) *float64 { return &c.Pipeline.SampleRate })},
	{"FXCYCLE_SIGNAL_THRESH", setFloat(func(c *Config) *float64 { return &c.Pipeline.SignalThresh })},
	{"FXCYCLE_AMP_THRESH", setFloat(func(c *Config) *float64 { return &c.Pipeline.AmpThresh })},
	{"FXCYCLE_EMA_SPAN", setInt(func(c *Config) *int { return &c.Pipeline.EMASpan })},
	{"FXCYCLE_GAP_POLICY", setString(func(c *Config) *string { return &c.Pipeline.GapPolicy })},
	{"FXCYCLE_WORKERS", setInt(func(c *Config) *int { return &c.Pipeline.Workers })},
	{"FXCYCLE_SAMPLES_PATH", setString(func(c *Config) *string { return &c.Output.SamplesPath })},
	{"FXCYCLE_PLOTS_PATH", setString(func(c *Config) *string { return &c.Output.PlotsPath })},
}

// ApplyEnv overlays FXCYCLE_* variables onto cfg. Process environment wins over
// values read from envFiles (default ".env"); missing files are ignored.
func ApplyEnv(cfg *Config, envFiles ...string) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	fileVars := map[string]string{}
	for _, path := range envFiles {
		vals, err := godotenv.Read(path)
		if err != nil {
			continue // best-effort
		}
		for k, v := range vals {
			fileVars[k] = v
		}
	}

	for _, o := range overrides {
		raw := os.Getenv(o.key)
		if raw == "" {
			raw = fileVars[o.key]
		}
		if raw == "" {
			continue
		}
		if err := o.apply(cfg, raw); err != nil {
			return fmt.Errorf("%s: %w", o.key, err)
		}
	}
	return nil
}

func setString(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, raw string) error {
		*field(c) = raw
		return nil
	}
}

func setFloat(field func(*Config) *float64) func(*Config, string) error {
	return func(c *Config, raw string) error {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		*field(c) = v
		return nil
	}
}

func setInt(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, raw string) error {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		*field(c) = v
		return nil
	}
}
