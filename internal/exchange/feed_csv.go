package exchange

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"fxcycle-go/internal/signal"
)

// CSVSource reads `date,close` rows. An empty close is a missing observation.
type CSVSource struct {
	path string
	log  zerolog.Logger
}

// Name returns the provider identifier.
func (s *CSVSource) Name() string { return ProviderCSV }

// Load parses the file and keeps rows inside the requested range.
func (s *CSVSource) Load(ctx context.Context, req Request) ([]signal.Observation, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open prices: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var out []signal.Observation
	for line := 1; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read prices line %d: %w", line, err)
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("line %d: expected date,close", line)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "date") {
			continue
		}
		obs, err := parseCSVRow(rec[0], rec[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if !req.contains(obs.Ts) {
			continue
		}
		out = append(out, obs)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Ts.Before(out[j].Ts) })

	missing := 0
	for _, obs := range out {
		if obs.Missing() {
			missing++
		}
	}
	s.log.Info().Str("path", s.path).Int("rows", len(out)).Int("missing", missing).Msg("csv prices loaded")
	record(req.Pair(), out)
	return out, nil
}

func parseCSVRow(rawDate, rawClose string) (signal.Observation, error) {
	ts, err := parseDate(strings.TrimSpace(rawDate))
	if err != nil {
		return signal.Observation{}, err
	}
	rawClose = strings.TrimSpace(rawClose)
	if rawClose == "" {
		return signal.Observation{Ts: ts, Price: math.NaN()}, nil
	}
	px, err := decimal.NewFromString(rawClose)
	if err != nil {
		return signal.Observation{}, fmt.Errorf("parse close %q: %w", rawClose, err)
	}
	return signal.Observation{Ts: ts, Price: px.InexactFloat64()}, nil
}

func parseDate(raw string) (time.Time, error) {
	if ts, err := time.Parse(dateLayout, raw); err == nil {
		return ts, nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return ts.UTC(), nil
}
