// Package resilience guards the two outbound dependencies this service has,
// the completion gateway and the upload-event publisher. Each dependency
// builds its own Executor with a fixed policy and error classifier; there is
// no shared registry of breakers.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

type ErrorClassification struct {
	Retryable     bool
	RecordFailure bool
}

type ErrorClassifier func(err error) ErrorClassification

// Executor retries transient failures with exponential backoff and trips a
// circuit breaker on sustained ones. Classification is fixed at construction
// because an Executor serves exactly one dependency.
type Executor struct {
	operation string
	cfg       Config
	classify  ErrorClassifier
	breaker   *gobreaker.CircuitBreaker[any]
}

func NewExecutor(operation string, cfg Config, classify ErrorClassifier) *Executor {
	e := &Executor{
		operation: strings.TrimSpace(operation),
		cfg:       cfg.normalize(),
		classify:  classify,
	}
	if e.operation == "" {
		e.operation = "outbound"
	}
	if e.classify == nil {
		e.classify = func(error) ErrorClassification {
			return ErrorClassification{RecordFailure: true}
		}
	}
	if e.cfg.BreakerEnabled {
		e.breaker = gobreaker.NewCircuitBreaker[any](e.breakerSettings())
	}
	return e
}

func (e *Executor) Execute(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("resilience: %s: nil operation callback", e.operation)
	}
	if e.breaker == nil {
		return e.withRetry(ctx, fn)
	}
	_, err := e.breaker.Execute(func() (any, error) {
		return nil, e.withRetry(ctx, fn)
	})
	return err
}

func (e *Executor) withRetry(ctx context.Context, fn func(context.Context) error) error {
	backoff := e.cfg.RetryInitialBackoff
	var lastErr error

	for attempt := 1; attempt <= e.cfg.RetryMaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if class := e.classify(lastErr); !class.Retryable || attempt == e.cfg.RetryMaxAttempts {
			return lastErr
		}

		slog.Warn("outbound_retry",
			"operation", e.operation,
			"attempt", attempt,
			"max_attempts", e.cfg.RetryMaxAttempts,
			"backoff", backoff.String(),
			"error", lastErr,
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		case <-timer.C:
		}

		backoff = time.Duration(float64(backoff) * e.cfg.RetryMultiplier)
		if backoff > e.cfg.RetryMaxBackoff {
			backoff = e.cfg.RetryMaxBackoff
		}
	}

	return lastErr
}

func (e *Executor) breakerSettings() gobreaker.Settings {
	return gobreaker.Settings{
		Name:        e.operation,
		MaxRequests: e.cfg.BreakerHalfOpenMaxCalls,
		Timeout:     e.cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < e.cfg.BreakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= e.cfg.BreakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !e.classify(err).RecordFailure
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit_breaker_state_change",
				"operation", name, "from", from.String(), "to", to.String())
		},
	}
}

func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
