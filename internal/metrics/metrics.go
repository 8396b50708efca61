package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Backend metrics
	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forecastboard_backend_request_duration_seconds",
			Help:    "Backend request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "status"},
	)
	BackendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecastboard_backend_requests_total",
			Help: "Total backend requests",
		},
		[]string{"endpoint", "status"},
	)

	// Market-data validity checks
	TickerValidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecastboard_ticker_validations_total",
			Help: "Ticker validity checks against the market-data provider",
		},
		[]string{"provider", "result"},
	)

	// Dashboard metrics
	Renders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecastboard_renders_total",
			Help: "Dashboard renders by final state",
		},
		[]string{"state"},
	)
	TickerAdds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecastboard_ticker_adds_total",
			Help: "Add-ticker attempts by outcome",
		},
		[]string{"outcome"},
	)

	// Scheduler metrics
	SnapshotRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecastboard_snapshot_runs_total",
			Help: "Forecast snapshot runs",
		},
		[]string{"status"},
	)
	SnapshotTickerErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "forecastboard_snapshot_ticker_errors_total",
			Help: "Tickers skipped during a snapshot run",
		})

	// HTTP metrics
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forecastboard_http_request_duration_seconds",
			Help:    "Dashboard HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		BackendRequestDuration, BackendRequests,
		TickerValidations,
		Renders, TickerAdds,
		SnapshotRuns, SnapshotTickerErrors,
		HTTPRequestDuration,
	)
}

// Handler exposes the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
