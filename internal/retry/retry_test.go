package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"google.golang.org/api/googleapi"
)

func apiError(code int) error {
	return &googleapi.Error{Code: code, Message: "boom"}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"quota 403", apiError(403), true},
		{"rate limit 429", apiError(429), true},
		{"server 500", apiError(500), true},
		{"unavailable 503", apiError(503), true},
		{"not found 404", apiError(404), false},
		{"bad request 400", apiError(400), false},
		{"wrapped api error", fmt.Errorf("call failed: %w", apiError(503)), true},
		{"plain error", errors.New("boom"), false},
		{"context canceled", context.Canceled, false},
		{"deadline exceeded", context.DeadlineExceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Retryable(tt.err); got != tt.want {
				t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestDo(t *testing.T) {
	t.Run("succeeds first try without sleeping", func(t *testing.T) {
		slept := 0
		cfg := Config{MaxAttempts: 5, InitialBackoff: time.Second, Sleep: func(time.Duration) { slept++ }}

		calls := 0
		err := Do(context.Background(), cfg, nil, func() error {
			calls++
			return nil
		})
		if err != nil {
			t.Fatalf("Do: %v", err)
		}
		if calls != 1 || slept != 0 {
			t.Errorf("calls = %d, sleeps = %d, want 1 and 0", calls, slept)
		}
	})

	t.Run("retries transient errors with doubling backoff", func(t *testing.T) {
		var waits []time.Duration
		cfg := Config{MaxAttempts: 5, InitialBackoff: time.Second, Sleep: func(d time.Duration) { waits = append(waits, d) }}

		calls := 0
		err := Do(context.Background(), cfg, nil, func() error {
			calls++
			if calls < 4 {
				return apiError(503)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Do: %v", err)
		}
		if calls != 4 {
			t.Errorf("calls = %d, want 4", calls)
		}

		want := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
		if len(waits) != len(want) {
			t.Fatalf("waits = %v, want %v", waits, want)
		}
		for i := range want {
			if waits[i] != want[i] {
				t.Errorf("wait %d = %v, want %v", i, waits[i], want[i])
			}
		}
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		cfg := Config{MaxAttempts: 3, InitialBackoff: time.Second, Sleep: func(time.Duration) {}}

		calls := 0
		err := Do(context.Background(), cfg, nil, func() error {
			calls++
			return apiError(429)
		})
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
		var apiErr *googleapi.Error
		if !errors.As(err, &apiErr) || apiErr.Code != 429 {
			t.Errorf("err = %v, want the last 429", err)
		}
	})

	t.Run("permanent errors fail immediately", func(t *testing.T) {
		cfg := Config{MaxAttempts: 5, InitialBackoff: time.Second, Sleep: func(time.Duration) {}}

		calls := 0
		err := Do(context.Background(), cfg, nil, func() error {
			calls++
			return apiError(404)
		})
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
		if err == nil {
			t.Error("expected the permanent error back")
		}
	})

	t.Run("zero config falls back to defaults", func(t *testing.T) {
		calls := 0
		err := Do(context.Background(), Config{Sleep: func(time.Duration) {}}, nil, func() error {
			calls++
			return apiError(500)
		})
		if calls != DefaultConfig().MaxAttempts {
			t.Errorf("calls = %d, want %d", calls, DefaultConfig().MaxAttempts)
		}
		if err == nil {
			t.Error("expected exhaustion error")
		}
	})

	t.Run("cancelled context stops the wall clock wait", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// nil Sleep uses the real clock; cancellation must short-circuit it.
		cfg := Config{MaxAttempts: 3, InitialBackoff: time.Hour}
		err := Do(ctx, cfg, nil, func() error { return apiError(503) })
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}
