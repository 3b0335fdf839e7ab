package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)

	identityWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_identity_writes_total",
			Help: "Committed identity writes by kind and operation",
		},
		[]string{"kind", "op"},
	)

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_notifications_total",
			Help: "Notification deliveries by template and result",
		},
		[]string{"template", "result"},
	)

	notificationQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "backoffice_notification_queue_depth",
			Help: "Messages waiting in the in-process notification queue",
		},
	)
)

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

// IdentityWrite counts a committed create, update or delete.
func IdentityWrite(kind, op string, n int) {
	identityWritesTotal.WithLabelValues(kind, op).Add(float64(n))
}

// Notification counts a delivery attempt; result is "sent", "failed" or "dropped".
func Notification(template, result string) {
	notificationsTotal.WithLabelValues(template, result).Inc()
}

func SetNotificationQueueDepth(n int) {
	notificationQueueDepth.Set(float64(n))
}

func Handler() http.Handler {
	return promhttp.Handler()
}
