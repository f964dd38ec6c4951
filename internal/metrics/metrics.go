package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DrawDuration tracks the latency of draw requests
	DrawDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "gacha_draw_duration_seconds",
			Help: "Duration of draw requests in seconds",
			Buckets: []float64{
				0.001, // 1ms
				0.005, // 5ms
				0.01,  // 10ms
				0.025, // 25ms
				0.05,  // 50ms
				0.1,   // 100ms
				0.25,  // 250ms
				0.5,   // 500ms
				1.0,   // 1s
				2.5,   // 2.5s
				5.0,   // 5s
				10.0,  // 10s
			},
		},
		[]string{"status"}, // success or failure
	)

	// DrawOutcomes counts draws by outcome
	DrawOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gacha_draw_total",
			Help: "Number of draw requests by outcome",
		},
		[]string{"outcome"}, // success, limit, no_match, error
	)

	// CatalogRecords reports the size of the currently served catalog snapshot
	CatalogRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gacha_catalog_records",
			Help: "Number of destinations in the active catalog snapshot",
		},
	)

	// CatalogLoads counts dataset loads by result
	CatalogLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gacha_catalog_load_total",
			Help: "Number of catalog dataset loads by result",
		},
		[]string{"result"}, // success or failure
	)

	// CatalogLoadDuration tracks how long a full dataset load takes
	CatalogLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gacha_catalog_load_duration_seconds",
			Help:    "Duration of catalog dataset loads in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		},
	)
)

// Draw outcomes
const (
	OutcomeSuccess = "success"
	OutcomeLimit   = "limit"
	OutcomeNoMatch = "no_match"
	OutcomeError   = "error"
)

// RecordDraw records the duration and outcome of a draw request
func RecordDraw(outcome string, duration float64) {
	status := "failure"
	if outcome == OutcomeSuccess {
		status = "success"
	}
	DrawDuration.WithLabelValues(status).Observe(duration)
	DrawOutcomes.WithLabelValues(outcome).Inc()
}

// RecordCatalogLoad records a dataset load attempt
func RecordCatalogLoad(err error, records int, duration float64) {
	CatalogLoadDuration.Observe(duration)
	if err != nil {
		CatalogLoads.WithLabelValues("failure").Inc()
		return
	}
	CatalogLoads.WithLabelValues("success").Inc()
	CatalogRecords.Set(float64(records))
}
