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
			Namespace: "codelab",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "codelab",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "codelab",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Auth metrics
	signupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "codelab",
			Subsystem: "auth",
			Name:      "signups_total",
			Help:      "Total number of successful signups",
		},
	)

	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codelab",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Total number of login attempts",
		},
		[]string{"result"},
	)

	otpVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codelab",
			Subsystem: "auth",
			Name:      "otp_verifications_total",
			Help:      "Total number of OTP verification attempts",
		},
		[]string{"result"},
	)

	tokensRevokedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "codelab",
			Subsystem: "auth",
			Name:      "tokens_revoked_total",
			Help:      "Total number of session tokens denylisted on logout",
		},
	)

	// Subscription metrics
	subscriptionActivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codelab",
			Subsystem: "subscription",
			Name:      "activations_total",
			Help:      "Total number of subscription activations",
		},
		[]string{"plan"},
	)

	activeSubscriptions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "codelab",
			Subsystem: "subscription",
			Name:      "active_count",
			Help:      "Number of active subscriptions",
		},
		[]string{"plan"},
	)

	// Entitlement gate metrics
	gateRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codelab",
			Subsystem: "gate",
			Name:      "rejections_total",
			Help:      "Total number of requests rejected by the entitlement gate",
		},
		[]string{"reason"},
	)

	// AI metrics
	aiGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codelab",
			Subsystem: "ai",
			Name:      "generations_total",
			Help:      "Total number of AI code generations",
		},
		[]string{"status"},
	)

	// Database metrics
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "codelab",
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "table"},
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

// RecordSignup records a successful signup
func RecordSignup() {
	signupsTotal.Inc()
}

// RecordLogin records a login attempt
func RecordLogin(result string) {
	loginsTotal.WithLabelValues(result).Inc()
}

// RecordOTPVerification records an OTP verification attempt
func RecordOTPVerification(result string) {
	otpVerificationsTotal.WithLabelValues(result).Inc()
}

// RecordTokenRevoked records a denylisted session token
func RecordTokenRevoked() {
	tokensRevokedTotal.Inc()
}

// RecordSubscriptionActivation records a subscription activation by plan
func RecordSubscriptionActivation(plan string) {
	subscriptionActivationsTotal.WithLabelValues(plan).Inc()
}

// SetActiveSubscriptions sets the gauge for active subscriptions by plan
func SetActiveSubscriptions(plan string, count float64) {
	activeSubscriptions.WithLabelValues(plan).Set(count)
}

// RecordGateRejection records an entitlement gate rejection by reason
func RecordGateRejection(reason string) {
	gateRejectionsTotal.WithLabelValues(reason).Inc()
}

// RecordAIGeneration records an AI generation attempt
func RecordAIGeneration(status string) {
	aiGenerationsTotal.WithLabelValues(status).Inc()
}

// RecordDBQuery records a database query duration
func RecordDBQuery(operation, table string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}
