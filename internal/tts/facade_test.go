package tts

import (
	"context"
	"testing"

	"ttsgateway/internal/platform/errors"
	"ttsgateway/internal/tts/inter"
)

type stubProvider struct {
	inter.Provider

	listCalls int
}

func (p *stubProvider) Name() string          { return "stub" }
func (p *stubProvider) MaxInputChars() uint32 { return 5000 }

func (p *stubProvider) ListVoices(ctx context.Context, filter *inter.VoiceFilter) ([]inter.VoiceInfo, error) {
	p.listCalls++
	return []inter.VoiceInfo{
		{ID: "a", Language: "en-US", Gender: inter.GenderFemale},
		{ID: "b", Language: "en-GB", Gender: inter.GenderMale},
	}, nil
}

func (p *stubProvider) Synthesize(ctx context.Context, input inter.TextInput, options inter.SynthesisOptions) (inter.SynthesisResult, error) {
	return inter.SynthesisResult{AudioData: []byte("audio")}, nil
}

func TestFacade_ListVoicesCachesAndFilters(t *testing.T) {
	p := &stubProvider{}
	f := NewFacade(p, nil)
	ctx := context.Background()

	all, err := f.ListVoices(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("got %d voices", len(all))
	}

	males, err := f.ListVoices(ctx, &inter.VoiceFilter{Gender: inter.GenderMale})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(males) != 1 || males[0].ID != "b" {
		t.Errorf("filtered voices = %+v", males)
	}

	if p.listCalls != 1 {
		t.Errorf("provider listed %d times, expected 1 (cached)", p.listCalls)
	}
}

func TestFacade_InvalidateVoiceCache(t *testing.T) {
	p := &stubProvider{}
	f := NewFacade(p, nil)
	ctx := context.Background()

	f.ListVoices(ctx, nil)
	f.InvalidateVoiceCache()
	f.ListVoices(ctx, nil)

	if p.listCalls != 2 {
		t.Errorf("provider listed %d times, expected refill after invalidate", p.listCalls)
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider("no-such-provider", nil)
	if !errors.IsCode(err, errors.CodeInvalidConfiguration) {
		t.Errorf("expected invalid-configuration, got %v", err)
	}
}
