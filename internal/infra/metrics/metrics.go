// Package metrics holds the Prometheus collectors of the auth service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth operations.
const (
	OpSignup         = "signup"
	OpLogin          = "login"
	OpGoogleToken    = "google_token"
	OpGoogleCallback = "google_callback"
)

// Federated reconciliation branches.
const (
	BranchExisting = "existing"
	BranchLinked   = "linked"
	BranchCreated  = "created"
)

// Token check outcomes.
const (
	TokenValid   = "valid"
	TokenMissing = "missing"
	TokenInvalid = "invalid"
	TokenOrphan  = "orphan"
	TokenError   = "error"
)

var (
	authAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts by operation and result",
		},
		[]string{"operation", "result"},
	)

	tokenChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_checks_total",
			Help: "Total number of session token checks by outcome",
		},
		[]string{"mode", "outcome"},
	)

	federatedReconciliationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_federated_reconciliations_total",
			Help: "Federated logins by reconciliation branch (existing, linked, created)",
		},
		[]string{"branch"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	userEventsReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_events_received_total",
			Help: "User events delivered to the event worker by type and result",
		},
		[]string{"type", "result"},
	)

	circuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current state of the circuit breaker (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// ObserveAuthAttempt counts one authentication attempt.
func ObserveAuthAttempt(operation string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	authAttemptsTotal.WithLabelValues(operation, result).Inc()
}

// ObserveTokenCheck counts one session middleware decision.
func ObserveTokenCheck(mode, outcome string) {
	tokenChecksTotal.WithLabelValues(mode, outcome).Inc()
}

// ObserveReconciliation counts which branch a federated login took.
func ObserveReconciliation(branch string) {
	federatedReconciliationsTotal.WithLabelValues(branch).Inc()
}

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method, path, status string, seconds float64) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(seconds)
}

// ObserveUserEventReceived counts one pushed user event.
func ObserveUserEventReceived(eventType, result string) {
	userEventsReceivedTotal.WithLabelValues(eventType, result).Inc()
}

// SetCircuitBreakerState publishes a breaker state (0=closed, 1=half-open, 2=open).
func SetCircuitBreakerState(name string, state float64) {
	circuitBreakerState.WithLabelValues(name).Set(state)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
