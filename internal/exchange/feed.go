// Package exchange loads exchange-rate histories from files, HTTP APIs and synthetic generators.
package exchange

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"fxcycle-go/internal/metrics"
	"fxcycle-go/internal/signal"
)

const (
	// ProviderCSV reads a local `date,close` file.
	ProviderCSV = "csv"
	// ProviderFrankfurter queries the Frankfurter ECB reference-rate API.
	ProviderFrankfurter = "frankfurter"
	// ProviderSynthetic generates a deterministic sine series (useful for tests/offline work).
	ProviderSynthetic = "synthetic"
)

const (
	defaultFrankfurterBaseURL = "https://api.frankfurter.app"
	defaultHTTPTimeout        = 10 * time.Second
	dateLayout                = "2006-01-02"
)

// Request identifies the currency pair and date range to load. Zero Start/End leave that side open.
type Request struct {
	Base  string
	Quote string
	Start time.Time
	End   time.Time
}

// Pair returns the concatenated symbol, e.g. EURUSD.
func (r Request) Pair() string {
	return normalizeCurrency(r.Base) + normalizeCurrency(r.Quote)
}

func (r Request) contains(ts time.Time) bool {
	if !r.Start.IsZero() && ts.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && ts.After(r.End) {
		return false
	}
	return true
}

// Source produces an ordered price history for a pair.
type Source interface {
	Name() string
	Load(ctx context.Context, req Request) ([]signal.Observation, error)
}

type settings struct {
	log       zerolog.Logger
	baseURL   string
	client    *http.Client
	csvPath   string
	synthetic Synthetic
}

// Option configures Source construction parameters.
type Option func(*settings)

// WithLogger attaches a logger to the source.
func WithLogger(log zerolog.Logger) Option {
	return func(s *settings) { s.log = log }
}

// WithBaseURL overrides the HTTP API root.
func WithBaseURL(baseURL string) Option {
	return func(s *settings) {
		if baseURL != "" {
			s.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// WithHTTPClient injects the client used by HTTP-based sources.
func WithHTTPClient(client *http.Client) Option {
	return func(s *settings) {
		if client != nil {
			s.client = client
		}
	}
}

// WithTimeout overrides the default request timeout for HTTP-based sources.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.client = &http.Client{Timeout: d}
		}
	}
}

// WithCSVPath points the csv provider at a file.
func WithCSVPath(path string) Option {
	return func(s *settings) { s.csvPath = path }
}

// WithSynthetic sets the generator shape for the synthetic provider.
func WithSynthetic(cfg Synthetic) Option {
	return func(s *settings) { s.synthetic = cfg }
}

// NewSource constructs a source backed by the requested provider.
func NewSource(provider string, opts ...Option) (Source, error) {
	s := &settings{
		log:     zerolog.Nop(),
		baseURL: defaultFrankfurterBaseURL,
		client:  &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderCSV:
		if s.csvPath == "" {
			return nil, fmt.Errorf("csv provider requires a path")
		}
		return &CSVSource{path: s.csvPath, log: s.log}, nil
	case ProviderFrankfurter:
		return &FrankfurterSource{baseURL: s.baseURL, client: s.client, log: s.log}, nil
	case "", ProviderSynthetic:
		return &SyntheticSource{cfg: s.synthetic.withDefaults(), log: s.log}, nil
	default:
		return nil, fmt.Errorf("unknown price provider %q", provider)
	}
}

func record(pair string, obs []signal.Observation) {
	metrics.ObservationsTotal.WithLabelValues(pair).Add(float64(len(obs)))
}

func normalizeCurrency(code string) string {
	code = strings.TrimSpace(code)
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range code {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 32)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		}
	}
	return b.String()
}
