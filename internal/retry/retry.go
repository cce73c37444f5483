// Package retry wraps remote calls with exponential backoff on transient
// YouTube API failures.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"google.golang.org/api/googleapi"
)

// Config holds retry configuration.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first call.
	MaxAttempts int
	// InitialBackoff is the delay before the first retry. Each subsequent
	// retry doubles it.
	InitialBackoff time.Duration
	// Sleep is called to wait between attempts. Nil means sleeping on the
	// wall clock with context cancellation honored. Tests inject this.
	Sleep func(time.Duration)
}

// DefaultConfig returns sensible defaults: 5 attempts starting at 1s.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    5,
		InitialBackoff: 1 * time.Second,
	}
}

// Statuses the API uses for rate limiting and server-side trouble. 403 covers
// quota exhaustion, which clears after the daily reset.
var retryableStatuses = map[int]bool{
	403: true,
	429: true,
	500: true,
	503: true,
}

// Retryable reports whether err is a transient remote failure worth retrying.
// Context cancellation and permanent API errors (not-found, bad request) are
// never retryable.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return retryableStatuses[apiErr.Code]
	}

	return false
}

// Do executes fn, retrying transient failures with exponential backoff.
//
// The wait before retry k is InitialBackoff * 2^(k-1). Permanent errors
// propagate immediately; exhausting MaxAttempts returns the last error seen.
func Do(ctx context.Context, cfg Config, logger *log.Logger, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = DefaultConfig().InitialBackoff
	}

	backoff := cfg.InitialBackoff
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !Retryable(lastErr) || attempt == cfg.MaxAttempts {
			return lastErr
		}

		if logger != nil {
			logger.Warn("transient API error, retrying",
				"error", lastErr, "wait", backoff, "attempt", attempt, "max", cfg.MaxAttempts)
		}

		if cfg.Sleep != nil {
			cfg.Sleep(backoff)
		} else {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		backoff *= 2
	}

	return lastErr
}
