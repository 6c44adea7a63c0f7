package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method", "status_code"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status_code"},
	)
)

var (
	CartMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_mutations_total",
			Help: "Total number of cart mutations by operation",
		},
		[]string{"operation"},
	)

	CheckoutAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_attempts_total",
			Help: "Total number of checkout attempts",
		},
	)

	CheckoutSuccessTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_success_total",
			Help: "Total number of committed checkouts",
		},
	)

	CheckoutFailureTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_failure_total",
			Help: "Total number of failed checkouts",
		},
		[]string{"reason"},
	)

	CheckoutChoiceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_choice_total",
			Help: "Pending-order choices by outcome",
		},
		[]string{"choice"},
	)

	TagBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tag_batch_size",
			Help:    "Number of deduplicated tag ids per upstream batch call",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		},
	)

	TagBatchFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tag_batch_failures_total",
			Help: "Total number of failed tag batch calls",
		},
	)
)

// CheckoutMetrics groups the counters touched by one checkout request.
type CheckoutMetrics struct {
	userID string
}

func NewCheckoutMetrics(userID string) *CheckoutMetrics {
	return &CheckoutMetrics{userID: userID}
}

func (m *CheckoutMetrics) RecordAttempt() {
	CheckoutAttemptsTotal.Inc()
}

func (m *CheckoutMetrics) RecordSuccess() {
	CheckoutSuccessTotal.Inc()
}

func (m *CheckoutMetrics) RecordFailure(reason string) {
	CheckoutFailureTotal.WithLabelValues(reason).Inc()
}

func (m *CheckoutMetrics) RecordChoice(choice string) {
	CheckoutChoiceTotal.WithLabelValues(choice).Inc()
}
