package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"fxcycle-go/internal/signal"
)

type frankfurterResponse struct {
	Base      string                            `json:"base"`
	StartDate string                            `json:"start_date"`
	EndDate   string                            `json:"end_date"`
	Rates     map[string]map[string]json.Number `json:"rates"`
}

// FrankfurterSource fetches daily ECB reference rates over HTTP.
type FrankfurterSource struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// Name returns the provider identifier.
func (s *FrankfurterSource) Name() string { return ProviderFrankfurter }

// Load requests the time series for req and returns it sorted by date.
// A day without a quote for the requested currency becomes a missing observation.
func (s *FrankfurterSource) Load(ctx context.Context, req Request) ([]signal.Observation, error) {
	if req.Start.IsZero() {
		return nil, fmt.Errorf("frankfurter requires a start date")
	}
	base, quote := normalizeCurrency(req.Base), normalizeCurrency(req.Quote)
	if base == "" || quote == "" {
		return nil, fmt.Errorf("frankfurter requires base and quote currencies")
	}

	span := req.Start.Format(dateLayout) + ".."
	if !req.End.IsZero() {
		span += req.End.Format(dateLayout)
	}
	query := url.Values{"from": {base}, "to": {quote}}
	endpoint := fmt.Sprintf("%s/%s?%s", strings.TrimSuffix(s.baseURL, "/"), span, query.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", "fxcycle-go/1.0")
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload frankfurterResponse
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("no rates returned for %s", req.Pair())
	}

	out := make([]signal.Observation, 0, len(payload.Rates))
	for day, quotes := range payload.Rates {
		ts, err := parseDate(day)
		if err != nil {
			return nil, err
		}
		obs := signal.Observation{Ts: ts, Price: math.NaN()}
		if raw, ok := quotes[quote]; ok {
			px, err := decimal.NewFromString(raw.String())
			if err != nil {
				return nil, fmt.Errorf("parse rate %s on %s: %w", raw, day, err)
			}
			obs.Price = px.InexactFloat64()
		}
		if req.contains(ts) {
			out = append(out, obs)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ts.Before(out[j].Ts) })

	s.log.Info().Str("pair", req.Pair()).Int("rows", len(out)).Msg("frankfurter rates loaded")
	record(req.Pair(), out)
	return out, nil
}
