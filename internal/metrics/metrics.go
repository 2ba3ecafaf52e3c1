package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Webhook metrics
	WebhookRequestsTotal   *prometheus.CounterVec
	WebhookDurationSeconds *prometheus.HistogramVec

	// Geocode metrics
	GeocodeRequestsTotal   *prometheus.CounterVec
	GeocodeDurationSeconds *prometheus.HistogramVec

	// QR metrics
	QRDecodesTotal *prometheus.CounterVec

	// Rate limiter metrics
	RateLimiterDropped *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		// Webhook metrics
		WebhookRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gpsbot_webhook_requests_total",
				Help: "Total number of webhook requests by intent and status",
			},
			[]string{"intent", "status"}, // intent: qr, direct, location, help; status: success, error, rate_limited
		),

		WebhookDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gpsbot_webhook_duration_seconds",
				Help:    "Webhook processing duration in seconds by intent",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 15}, // Matches Twilio's 15s deadline
			},
			[]string{"intent"},
		),

		// Geocode metrics
		GeocodeRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gpsbot_geocode_requests_total",
				Help: "Total number of GhanaPost GPS calls by operation and status",
			},
			[]string{"operation", "status"}, // operation: forward, reverse; status: found, not_found, error
		),

		GeocodeDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gpsbot_geocode_duration_seconds",
				Help:    "GhanaPost GPS call duration in seconds by operation",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5}, // Matches 5s request budget
			},
			[]string{"operation"},
		),

		// QR metrics
		QRDecodesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gpsbot_qr_decodes_total",
				Help: "Total number of QR image decode attempts by status",
			},
			[]string{"status"}, // status: decoded, no_qr, fetch_error, no_code
		),

		// Rate limiter metrics
		RateLimiterDropped: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gpsbot_rate_limiter_dropped_total",
				Help: "Total number of requests dropped by rate limiter",
			},
			[]string{"limiter_type"}, // limiter_type: sender
		),
	}

	return m
}

// RecordWebhook records a webhook request
func (m *Metrics) RecordWebhook(intent, status string, duration float64) {
	m.WebhookRequestsTotal.WithLabelValues(intent, status).Inc()
	m.WebhookDurationSeconds.WithLabelValues(intent).Observe(duration)
}

// RecordGeocode records a GhanaPost GPS call with status
func (m *Metrics) RecordGeocode(operation, status string, duration float64) {
	m.GeocodeRequestsTotal.WithLabelValues(operation, status).Inc()
	m.GeocodeDurationSeconds.WithLabelValues(operation).Observe(duration)
}

// RecordQRDecode records a QR decode attempt
func (m *Metrics) RecordQRDecode(status string) {
	m.QRDecodesTotal.WithLabelValues(status).Inc()
}

// RecordRateLimiterDrop records a request dropped by rate limiter
func (m *Metrics) RecordRateLimiterDrop(limiterType string) {
	m.RateLimiterDropped.WithLabelValues(limiterType).Inc()
}
