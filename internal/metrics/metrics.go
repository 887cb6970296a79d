package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ClassificationRequests counts classification service calls by operation
	// ("classify", "explain", "resources") and outcome ("ok", "error", "blocked", "empty").
	ClassificationRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "haven_classification_requests_total",
		Help: "Total number of classification service calls",
	}, []string{"operation", "outcome"})

	// ClassificationLatency records classification call latency in seconds.
	ClassificationLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "haven_classification_latency_seconds",
		Help:    "Classification service call latency in seconds",
		Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 40, 60},
	}, []string{"operation"})

	// LedgerIncrements counts adjudicated offenses by ledger kind.
	LedgerIncrements = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "haven_ledger_increments_total",
		Help: "Total number of offense counter increments",
	}, []string{"kind"})

	// SessionsStarted counts sessions created, labeled by origin ("report" or "autoflag").
	SessionsStarted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "haven_sessions_started_total",
		Help: "Total number of moderation sessions started",
	}, []string{"origin"})

	// SessionsCompleted counts sessions removed from the registry by outcome.
	SessionsCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "haven_sessions_completed_total",
		Help: "Total number of moderation sessions completed",
	}, []string{"outcome"})

	// PendingReviews tracks reports waiting for a moderator.
	PendingReviews = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "haven_pending_reviews",
		Help: "Current number of reports waiting for moderator review",
	})
)

func init() {
	prometheus.MustRegister(
		ClassificationRequests,
		ClassificationLatency,
		LedgerIncrements,
		SessionsStarted,
		SessionsCompleted,
		PendingReviews,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
