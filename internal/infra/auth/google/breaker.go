package google

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2"

	"pricetracker/config"
	"pricetracker/internal/domain/service"
	"pricetracker/internal/errors"
	"pricetracker/internal/infra/metrics"
)

func breakerSettings(name string, cfg *config.CircuitBreakerConfig, logger *slog.Logger) gobreaker.Settings {
	maxRequests := uint32(1)
	interval := 60 * time.Second
	timeout := 30 * time.Second
	failureRatio := 0.5
	minRequests := uint32(5)

	if cfg != nil {
		if cfg.MaxRequests > 0 {
			maxRequests = cfg.MaxRequests
		}
		if cfg.Interval > 0 {
			interval = cfg.Interval
		}
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
		if cfg.FailureRatio > 0 {
			failureRatio = cfg.FailureRatio
		}
		if cfg.MinRequests > 0 {
			minRequests = cfg.MinRequests
		}
	}

	return gobreaker.Settings{
		Name:        name,
		MaxRequests: maxRequests,
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}

			return float64(counts.TotalFailures)/float64(counts.Requests) >= failureRatio
		},
		// Rejected credentials are the caller's fault and must not open the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || !isUpstreamFailure(err)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			metrics.SetCircuitBreakerState(name, stateToFloat(to))
		},
	}
}

func newBreaker[T any](name string, cfg *config.CircuitBreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker[T] {
	metrics.SetCircuitBreakerState(name, 0)

	return gobreaker.NewCircuitBreaker[T](breakerSettings(name, cfg, logger))
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// isUpstreamFailure separates transport problems and Google 5xx responses
// from rejected tokens or codes.
func isUpstreamFailure(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return retrieveErr.Response != nil && retrieveErr.Response.StatusCode >= http.StatusInternalServerError
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr)
}

// translateBreakerError maps an open breaker or an upstream failure onto the
// domain sentinel.
func translateBreakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) || isUpstreamFailure(err) {
		return errors.Wrap(service.ErrOAuthUnavailable, err.Error())
	}

	return err
}
