package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lunaria",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lunaria",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lunaria",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Auth metrics
	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lunaria",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Total number of login attempts",
		},
		[]string{"result"},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lunaria",
			Subsystem: "auth",
			Name:      "active_sessions",
			Help:      "Number of live server-side sessions",
		},
	)

	// Reading metrics
	readingsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lunaria",
			Subsystem: "reading",
			Name:      "generated_total",
			Help:      "Total number of readings generated",
		},
		[]string{"type", "source"},
	)

	readingGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "lunaria",
			Subsystem: "reading",
			Name:      "generation_duration_seconds",
			Help:      "Duration of reading generation in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	// Payment metrics
	paymentsRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lunaria",
			Subsystem: "payment",
			Name:      "recorded_total",
			Help:      "Total number of payment records created",
		},
		[]string{"type", "status"},
	)

	// Insight metrics
	insightsPublishedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lunaria",
			Subsystem: "insight",
			Name:      "published_total",
			Help:      "Total number of daily insights published",
		},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		// Label by route pattern, not raw path, to keep cardinality bounded
		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unknown"
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordLogin records a login attempt outcome ("success" or "failure")
func RecordLogin(result string) {
	loginsTotal.WithLabelValues(result).Inc()
}

// SessionOpened increments the live session gauge
func SessionOpened() {
	activeSessions.Inc()
}

// SessionClosed decrements the live session gauge
func SessionClosed() {
	activeSessions.Dec()
}

// RecordReadingGenerated records a generated reading. Source is "ai" or
// "template".
func RecordReadingGenerated(readingType, source string, duration time.Duration) {
	readingsGeneratedTotal.WithLabelValues(readingType, source).Inc()
	readingGenerationDuration.Observe(duration.Seconds())
}

// RecordPayment records a created payment row
func RecordPayment(paymentType, status string) {
	paymentsRecordedTotal.WithLabelValues(paymentType, status).Inc()
}

// RecordInsightPublished records a published daily insight
func RecordInsightPublished() {
	insightsPublishedTotal.Inc()
}
