// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package plex

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/starsync/internal/logging"
	"github.com/tomtom215/starsync/internal/metrics"
	"github.com/tomtom215/starsync/internal/models"
)

// BreakerConfig tunes the circuit breaker. Zero values select defaults.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open. Default: 3
	MaxRequests uint32

	// Interval after which closed-state counts reset. Default: 1 minute
	Interval time.Duration

	// Timeout before an open breaker moves to half-open. Default: 2 minutes
	Timeout time.Duration

	// MinRequests before the failure ratio is considered. Default: 10
	MinRequests uint32

	// FailureRatio at which the breaker opens. Default: 0.6
	FailureRatio float64
}

func (c BreakerConfig) withDefaults() BreakerConfig {
	if c.MaxRequests == 0 {
		c.MaxRequests = 3
	}
	if c.Interval <= 0 {
		c.Interval = time.Minute
	}
	if c.Timeout <= 0 {
		c.Timeout = 2 * time.Minute
	}
	if c.MinRequests == 0 {
		c.MinRequests = 10
	}
	if c.FailureRatio <= 0 {
		c.FailureRatio = 0.6
	}
	return c
}

// CircuitBreakerClient wraps Client with circuit breaker protection.
//
// The breaker uses real time for its interval and timeout; tests exercise it
// through failure counts, not by advancing time.
type CircuitBreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewCircuitBreakerClient wraps client with a breaker named "plex-api".
func NewCircuitBreakerClient(client *Client, cfg BreakerConfig) *CircuitBreakerClient {
	cfg = cfg.withDefaults()
	cbName := "plex-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= cfg.FailureRatio
			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},

		// A canceled sweep is not evidence that Plex is down.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// execute wraps a Plex API call with circuit breaker protection.
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
			counts := cbc.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)
	return result, nil
}

// castResult type-asserts a breaker result.
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
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

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// State returns the breaker state as "closed", "half-open" or "open".
func (cbc *CircuitBreakerClient) State() string {
	return stateToString(cbc.cb.State())
}

// IsOpen reports whether calls are currently being rejected.
func (cbc *CircuitBreakerClient) IsOpen() bool {
	return cbc.cb.State() == gobreaker.StateOpen
}

// ListLibraries lists library sections with circuit breaker protection.
func (cbc *CircuitBreakerClient) ListLibraries(ctx context.Context) ([]models.Library, error) {
	return castResult[[]models.Library](cbc.execute(func() (interface{}, error) {
		return cbc.client.ListLibraries(ctx)
	}))
}

// ResolveLibrary finds a library by title with circuit breaker protection.
func (cbc *CircuitBreakerClient) ResolveLibrary(ctx context.Context, name string) (*models.Library, error) {
	return castResult[*models.Library](cbc.execute(func() (interface{}, error) {
		return cbc.client.ResolveLibrary(ctx, name)
	}))
}

// SearchTracks lists tracks with circuit breaker protection.
func (cbc *CircuitBreakerClient) SearchTracks(ctx context.Context, lib models.Library, limit *int) ([]models.Track, error) {
	return castResult[[]models.Track](cbc.execute(func() (interface{}, error) {
		return cbc.client.SearchTracks(ctx, lib, limit)
	}))
}

// SetRating writes a rating with circuit breaker protection.
func (cbc *CircuitBreakerClient) SetRating(ctx context.Context, track models.Track, rating *float64) error {
	_, err := cbc.execute(func() (interface{}, error) {
		return nil, cbc.client.SetRating(ctx, track, rating)
	})
	return err
}
