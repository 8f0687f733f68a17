package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connect_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "connect_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Messaging metrics
	ConversationsOpened = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connect_conversations_opened_total",
			Help: "Find-or-open requests by outcome (created, existing)",
		},
		[]string{"outcome"},
	)

	MessagesSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "connect_messages_sent_total",
			Help: "Total number of messages persisted",
		},
	)

	MessagesDiscarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "connect_messages_discarded_total",
			Help: "Submissions dropped because the body was empty after trimming",
		},
	)

	MessagesMarkedRead = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "connect_messages_marked_read_total",
			Help: "Messages flipped from unread to read by thread views",
		},
	)

	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connect_rate_limited_total",
			Help: "Requests rejected by a rate limiter",
		},
		[]string{"limiter"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(ConversationsOpened)
	prometheus.MustRegister(MessagesSent)
	prometheus.MustRegister(MessagesDiscarded)
	prometheus.MustRegister(MessagesMarkedRead)
	prometheus.MustRegister(RateLimited)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures the duration of an operation
type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

func (t *Timer) ObserveDurationVec(vec *prometheus.HistogramVec, labels ...string) {
	vec.WithLabelValues(labels...).Observe(t.Duration().Seconds())
}
