package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	messagesSent     *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	recommendedPrice *prometheus.GaugeVec
	latency          *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		messagesSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shelfpulse_messages_sent_total",
				Help: "Total number of sale events sent to backend",
			},
			[]string{"backend", "product"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shelfpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		recommendedPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "shelfpulse_recommended_price",
				Help: "Last recommended price for a product",
			},
			[]string{"product"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shelfpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordMessageSent records a sale event sent to a backend.
func (r *Recorder) RecordMessageSent(backend, productID string) {
	r.messagesSent.WithLabelValues(backend, productID).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordRecommendedPrice records the latest recommendation for a product.
func (r *Recorder) RecordRecommendedPrice(productID string, price float64) {
	r.recommendedPrice.WithLabelValues(productID).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
