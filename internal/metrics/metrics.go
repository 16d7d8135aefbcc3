// Package metrics exposes Prometheus counters for the cycle pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ObservationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fxcycle_observations_total", Help: "Count of price observations loaded"},
		[]string{"pair"},
	)
	WindowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fxcycle_windows_total", Help: "Filter windows processed by outcome"},
		[]string{"outcome"},
	)
	PositionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fxcycle_positions_total", Help: "Classified rows by position label"},
		[]string{"position"},
	)
)

func init() {
	prometheus.MustRegister(ObservationsTotal, WindowsTotal, PositionsTotal)
}

// Serve exposes /metrics on addr in the background.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
