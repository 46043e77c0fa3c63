// Package retry implements bounded exponential backoff for provider calls.
// Only errors classified as transient by the domain taxonomy are retried.
package retry

import (
	"context"
	"math"
	"time"

	"ttsgateway/internal/platform/errors"
)

// Config controls the backoff schedule. The zero value is not usable; start
// from DefaultConfig and override fields as needed.
type Config struct {
	MaxRetries   uint32
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

func DefaultConfig() Config {
	return Config{
		MaxRetries:   3,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// Delay returns the backoff before retry attempt n (0-based), capped at
// MaxDelay: InitialDelay * Multiplier^n.
func (c Config) Delay(attempt uint32) time.Duration {
	d := time.Duration(float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt)))
	if d > c.MaxDelay || d < 0 {
		return c.MaxDelay
	}
	return d
}

// Policy executes operations with retries. The sleep function is injectable
// so tests run without wall-clock delays.
type Policy struct {
	cfg   Config
	sleep func(ctx context.Context, d time.Duration) error
}

func NewPolicy(cfg Config) *Policy {
	return &Policy{cfg: cfg, sleep: sleepCtx}
}

// WithSleep replaces the sleep function. Test hook.
func (p *Policy) WithSleep(sleep func(ctx context.Context, d time.Duration) error) *Policy {
	p.sleep = sleep
	return p
}

func (p *Policy) Config() Config {
	return p.cfg
}

// Do runs op until it succeeds, fails permanently, or the retry budget is
// exhausted. Attempt 0 runs immediately; each retry n waits Delay(n) first.
// On exhaustion the last error is returned unchanged so the caller sees the
// real failure, not a synthetic retry error.
func (p *Policy) Do(ctx context.Context, op func() error) error {
	var lastErr error
	for attempt := uint32(0); attempt <= p.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := p.sleep(ctx, p.cfg.Delay(attempt-1)); err != nil {
				return errors.Wrap(errors.CodeNetworkError, "retry", "cancelled while waiting", err)
			}
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !errors.IsRetryable(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

// RetryableStatus reports whether a raw HTTP status is worth retrying before
// any domain translation happens: 429 and all 5xx.
func RetryableStatus(status int) bool {
	return status == 429 || status >= 500
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
