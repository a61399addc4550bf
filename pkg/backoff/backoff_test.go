package backoff

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	pkgerrors "github.com/pkg/errors"
)

// fastConfig keeps retry tests quick.
var fastConfig = Config{
	MaxRetries:  3,
	InitialWait: time.Millisecond,
	MaxWait:     5 * time.Millisecond,
	Multiplier:  2.0,
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), fastConfig, func() (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if result != "ok" || calls != 1 {
		t.Errorf("Expected single successful call, got result=%q calls=%d", result, calls)
	}
}

func TestDoRetriesRetryableErrors(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), fastConfig, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, &StatusError{StatusCode: http.StatusServiceUnavailable}
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if result != 42 || calls != 3 {
		t.Errorf("Expected recovery on third call, got result=%d calls=%d", result, calls)
	}
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	boom := pkgerrors.New("validation failed")
	_, err := Do(context.Background(), fastConfig, func() (int, error) {
		calls++
		return 0, boom
	})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if calls != 1 {
		t.Errorf("Expected exactly 1 call for non-retryable error, got %d", calls)
	}
}

func TestDoExhaustsRetries(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig, func() (int, error) {
		calls++
		return 0, &StatusError{StatusCode: http.StatusTooManyRequests}
	})
	if err == nil {
		t.Fatal("Expected error after exhausting retries, got nil")
	}
	if calls != fastConfig.MaxRetries+1 {
		t.Errorf("Expected %d calls, got %d", fastConfig.MaxRetries+1, calls)
	}
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Do(ctx, fastConfig, func() (int, error) {
		calls++
		return 0, nil
	})
	if err == nil {
		t.Fatal("Expected context error, got nil")
	}
	if calls != 0 {
		t.Errorf("Expected no calls with cancelled context, got %d", calls)
	}
}

func TestDoRetriesWrappedStatusError(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig, func() (int, error) {
		calls++
		return 0, pkgerrors.Wrap(&StatusError{StatusCode: http.StatusBadGateway}, "request failed")
	})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if calls != fastConfig.MaxRetries+1 {
		t.Errorf("Expected wrapped status error to be retried, got %d calls", calls)
	}
}

func TestRetryableStatus(t *testing.T) {
	retryable := []int{
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
	}
	for _, code := range retryable {
		if !RetryableStatus(code) {
			t.Errorf("Expected %d to be retryable", code)
		}
	}

	for _, code := range []int{http.StatusOK, http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound} {
		if RetryableStatus(code) {
			t.Errorf("Expected %d to not be retryable", code)
		}
	}
}

func TestIsRetryableNetworkErrors(t *testing.T) {
	if !isRetryable(&net.OpError{Op: "dial", Err: pkgerrors.New("connection refused")}) {
		t.Error("Expected net.OpError to be retryable")
	}
	if !isRetryable(&net.DNSError{Err: "no such host"}) {
		t.Error("Expected DNS error to be retryable")
	}
	if isRetryable(pkgerrors.New("plain error")) {
		t.Error("Expected plain error to not be retryable")
	}
}
