// Package signal standardizes the per-row records shared between price ingestion, the cycle pipeline, and reporting.
package signal

import (
	"math"
	"time"
)

// Observation is one raw exchange-rate print. A NaN price marks a gap in the feed.
type Observation struct {
	Ts    time.Time
	Price float64
}

// Missing reports whether the observation carries no usable price.
func (o Observation) Missing() bool { return math.IsNaN(o.Price) }

// Reason explains why a Cell holds no value.
type Reason uint8

const (
	// ReasonNone marks a defined cell.
	ReasonNone Reason = iota
	// ReasonInsufficientHistory means the trailing window is not full yet.
	ReasonInsufficientHistory
	// ReasonMissingInput means an upstream price, phase or period is absent for the row.
	ReasonMissingInput
	// ReasonInvalidFilterConfig means the band-pass could not be specified (detuning or period out of range).
	ReasonInvalidFilterConfig
	// ReasonFilterDesign means the cutoffs landed outside (0, Nyquist).
	ReasonFilterDesign
)

var reasonNames = map[Reason]string{
	ReasonNone:                "",
	ReasonInsufficientHistory: "insufficient_history",
	ReasonMissingInput:        "missing_input",
	ReasonInvalidFilterConfig: "invalid_filter_config",
	ReasonFilterDesign:        "filter_design",
}

func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return "unknown"
}

// MarshalText renders the reason label for JSON/YAML encoders.
func (r Reason) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// Cell is a numeric value that may be undefined, tagged with the cause when it is.
type Cell struct {
	Value  float64
	Reason Reason
}

// Defined wraps a value. Non-finite values are treated as missing input.
func Defined(v float64) Cell {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined(ReasonMissingInput)
	}
	return Cell{Value: v}
}

// Undefined returns an empty cell with the given reason.
func Undefined(r Reason) Cell {
	if r == ReasonNone {
		r = ReasonMissingInput
	}
	return Cell{Value: math.NaN(), Reason: r}
}

// Ok reports whether the cell holds a value.
func (c Cell) Ok() bool { return c.Reason == ReasonNone }

// Position is the tri-state trading label.
type Position int8

const (
	// Short fades a cycle peak.
	Short Position = -1
	// Flat holds no view.
	Flat Position = 0
	// Long fades a cycle trough.
	Long Position = 1
)

func (p Position) String() string {
	switch p {
	case Short:
		return "short"
	case Long:
		return "long"
	default:
		return "flat"
	}
}

// Sample is the full per-row record produced by the pipeline.
type Sample struct {
	Ts                time.Time
	Price             Cell
	LogReturn         Cell
	Phase             Cell
	Period            Cell
	Signal            Cell
	Filtered          Cell
	Amplitude         Cell
	SmoothedAmplitude Cell
	Position          Position
}

// Eligible reports whether the row survives the missing-input drop and may sit inside a filter window.
func (s Sample) Eligible() bool {
	return s.Price.Ok() && s.LogReturn.Ok() && s.Phase.Ok() && s.Period.Ok()
}

// Series is an ordered, timestamp-keyed sequence of samples built once from a historical range.
type Series struct {
	Pair    string
	Samples []Sample
}

// Len returns the number of rows.
func (s *Series) Len() int { return len(s.Samples) }

// Column projects one cell per row using pick.
func (s *Series) Column(pick func(Sample) Cell) []Cell {
	out := make([]Cell, len(s.Samples))
	for i, sample := range s.Samples {
		out[i] = pick(sample)
	}
	return out
}

// Positions returns the label column.
func (s *Series) Positions() []Position {
	out := make([]Position, len(s.Samples))
	for i, sample := range s.Samples {
		out[i] = sample.Position
	}
	return out
}
