// Package backoff provides exponential-backoff retry for the network-bound
// collaborators (LLM, Sheets, Drive). The document transform itself is
// deterministic and local and never retries.
package backoff

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net"
	"net/http"
	"time"
)

// Config controls retry behavior.
type Config struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig is suitable for most HTTP calls.
//
//nolint:gochecknoglobals // Shared default, read-only by convention
var DefaultConfig = Config{
	MaxRetries:  3,
	InitialWait: 500 * time.Millisecond,
	MaxWait:     10 * time.Second,
	Multiplier:  2.0,
}

// Do retries fn up to MaxRetries times with exponential backoff. It retries
// only on retryable errors and returns immediately on non-retryable errors
// or context cancellation.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (result T, err error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			result = zero
			err = ctx.Err()
			return result, err
		}

		result, err = fn()
		if err == nil {
			return result, err
		}
		lastErr = err

		if !isRetryable(err) {
			result = zero
			return result, err
		}

		if attempt < cfg.MaxRetries {
			wait := time.Duration(float64(cfg.InitialWait) * math.Pow(cfg.Multiplier, float64(attempt)))
			if wait > cfg.MaxWait {
				wait = cfg.MaxWait
			}
			slog.Debug("retrying", slog.Int("attempt", attempt+1), slog.Duration("wait", wait), slog.Any("error", err))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				result = zero
				err = ctx.Err()
				return result, err
			}
		}
	}

	result = zero
	err = lastErr
	return result, err
}

// StatusError wraps a retryable HTTP status code.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() (msg string) {
	msg = http.StatusText(e.StatusCode)
	return msg
}

// RetryableStatus reports whether an HTTP status code is worth retrying.
func RetryableStatus(code int) (result bool) {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		result = true
	}
	return result
}

// isRetryable returns true for transient errors worth retrying.
func isRetryable(err error) (result bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		result = true
		return result
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		result = true
		return result
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		result = true
		return result
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		result = netErr.Timeout()
		return result
	}

	return result
}
