package retry

import (
	"context"
	"testing"
	"time"

	"ttsgateway/internal/platform/errors"
)

func TestConfig_Delay(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		attempt  uint32
		expected time.Duration
	}{
		{"first retry", 0, time.Second},
		{"second retry doubles", 1, 2 * time.Second},
		{"third retry doubles again", 2, 4 * time.Second},
		{"large attempt caps at max", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.Delay(tt.attempt); got != tt.expected {
				t.Errorf("Delay(%d) = %v, expected %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func newTestPolicy(cfg Config, slept *[]time.Duration) *Policy {
	return NewPolicy(cfg).WithSleep(func(ctx context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	})
}

func TestPolicy_Do_SucceedsFirstTry(t *testing.T) {
	var slept []time.Duration
	p := newTestPolicy(DefaultConfig(), &slept)

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("op called %d times, expected 1", calls)
	}
	if len(slept) != 0 {
		t.Errorf("slept %d times before first attempt, expected 0", len(slept))
	}
}

func TestPolicy_Do_RecoversAfterTransientFailures(t *testing.T) {
	var slept []time.Duration
	p := newTestPolicy(DefaultConfig(), &slept)

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls <= 2 {
			return errors.ServiceUnavailable("synthesize", "down")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("op called %d times, expected 3", calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(slept) != len(want) {
		t.Fatalf("slept %v, expected %v", slept, want)
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Errorf("sleep %d = %v, expected %v", i, slept[i], want[i])
		}
	}
}

func TestPolicy_Do_ReturnsLastErrorOnExhaustion(t *testing.T) {
	var slept []time.Duration
	p := newTestPolicy(DefaultConfig(), &slept)

	calls := 0
	lastErr := errors.Network("synthesize", "timeout")
	err := p.Do(context.Background(), func() error {
		calls++
		return lastErr
	})

	if err != lastErr {
		t.Errorf("expected the last operation error back, got %v", err)
	}
	if calls != 4 {
		t.Errorf("op called %d times, expected 4 (1 initial + 3 retries)", calls)
	}
}

func TestPolicy_Do_PermanentErrorStopsImmediately(t *testing.T) {
	var slept []time.Duration
	p := newTestPolicy(DefaultConfig(), &slept)

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return errors.Unauthorized("synthesize", "bad key")
	})

	if !errors.IsCode(err, errors.CodeUnauthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}
	if calls != 1 {
		t.Errorf("op called %d times, expected 1", calls)
	}
}

func TestPolicy_Do_ContextCancelDuringWait(t *testing.T) {
	p := NewPolicy(DefaultConfig()).WithSleep(func(ctx context.Context, d time.Duration) error {
		return context.Canceled
	})

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return errors.ServiceUnavailable("synthesize", "down")
	})

	if !errors.IsCode(err, errors.CodeNetworkError) {
		t.Errorf("expected network-error wrapping cancellation, got %v", err)
	}
	if calls != 1 {
		t.Errorf("op called %d times, expected 1", calls)
	}
}

func TestRetryableStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected bool
	}{
		{429, true},
		{500, true},
		{502, true},
		{503, true},
		{400, false},
		{401, false},
		{404, false},
		{200, false},
	}

	for _, tt := range tests {
		if got := RetryableStatus(tt.status); got != tt.expected {
			t.Errorf("RetryableStatus(%d) = %v, expected %v", tt.status, got, tt.expected)
		}
	}
}
