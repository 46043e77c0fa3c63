package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"ttsgateway/internal/tts/inter"
)

func TestCache_FillsOnceWithinTTL(t *testing.T) {
	c := New(time.Minute)

	calls := 0
	fill := func(ctx context.Context) ([]inter.VoiceInfo, error) {
		calls++
		return []inter.VoiceInfo{{ID: "Joanna"}}, nil
	}

	for i := 0; i < 3; i++ {
		voices, err := c.Voices(context.Background(), "polly", fill)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(voices) != 1 || voices[0].ID != "Joanna" {
			t.Errorf("voices = %+v", voices)
		}
	}

	if calls != 1 {
		t.Errorf("fill called %d times, expected 1", calls)
	}
}

func TestCache_RefillsAfterExpiry(t *testing.T) {
	now := time.Now()
	c := New(time.Minute).WithClock(func() time.Time { return now })

	calls := 0
	fill := func(ctx context.Context) ([]inter.VoiceInfo, error) {
		calls++
		return []inter.VoiceInfo{{ID: "Joanna"}}, nil
	}

	c.Voices(context.Background(), "polly", fill)
	now = now.Add(2 * time.Minute)
	c.Voices(context.Background(), "polly", fill)

	if calls != 2 {
		t.Errorf("fill called %d times, expected 2 after expiry", calls)
	}
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	c := New(time.Minute)

	calls := 0
	failing := func(ctx context.Context) ([]inter.VoiceInfo, error) {
		calls++
		return nil, errors.New("upstream down")
	}

	if _, err := c.Voices(context.Background(), "polly", failing); err == nil {
		t.Fatal("expected error")
	}
	if _, err := c.Voices(context.Background(), "polly", failing); err == nil {
		t.Fatal("expected error")
	}
	if calls != 2 {
		t.Errorf("fill called %d times, expected 2 (errors not cached)", calls)
	}
}

func TestCache_KeysAreIndependent(t *testing.T) {
	c := New(time.Minute)

	c.Voices(context.Background(), "polly", func(ctx context.Context) ([]inter.VoiceInfo, error) {
		return []inter.VoiceInfo{{ID: "Joanna"}}, nil
	})
	voices, _ := c.Voices(context.Background(), "deepgram", func(ctx context.Context) ([]inter.VoiceInfo, error) {
		return []inter.VoiceInfo{{ID: "aura-asteria-en"}}, nil
	})

	if voices[0].ID != "aura-asteria-en" {
		t.Errorf("cross-key contamination: %+v", voices)
	}
}

func TestCache_Invalidate(t *testing.T) {
	c := New(time.Minute)

	calls := 0
	fill := func(ctx context.Context) ([]inter.VoiceInfo, error) {
		calls++
		return nil, nil
	}

	c.Voices(context.Background(), "polly", fill)
	c.Invalidate("polly")
	c.Voices(context.Background(), "polly", fill)

	if calls != 2 {
		t.Errorf("fill called %d times, expected 2 after invalidate", calls)
	}
}
