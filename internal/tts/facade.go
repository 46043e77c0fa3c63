package tts

import (
	"context"

	"ttsgateway/internal/platform/logging"
	"ttsgateway/internal/tts/catalog"
	"ttsgateway/internal/tts/inter"
)

// Facade fronts a provider with the cross-cutting behavior shared by every
// adapter: voice catalog caching and operation logging. It satisfies the
// full Provider surface itself, so callers never reach around it.
type Facade struct {
	inter.Provider

	cache *catalog.Cache
	log   *logging.Logger
}

func NewFacade(p inter.Provider, log *logging.Logger) *Facade {
	if log == nil {
		log = logging.Default()
	}
	return &Facade{
		Provider: p,
		cache:    catalog.New(catalog.DefaultTTL),
		log:      log.With("provider", p.Name()),
	}
}

// ListVoices serves the catalog from cache, applying the filter locally so
// one upstream listing covers all filter combinations.
func (f *Facade) ListVoices(ctx context.Context, filter *inter.VoiceFilter) ([]inter.VoiceInfo, error) {
	all, err := f.cache.Voices(ctx, f.Name(), func(ctx context.Context) ([]inter.VoiceInfo, error) {
		f.log.Debug("filling voice catalog cache")
		return f.Provider.ListVoices(ctx, nil)
	})
	if err != nil {
		return nil, err
	}

	if filter == nil {
		return all, nil
	}
	filtered := make([]inter.VoiceInfo, 0, len(all))
	for _, v := range all {
		if filter.Matches(v) {
			filtered = append(filtered, v)
		}
	}
	return filtered, nil
}

func (f *Facade) Synthesize(ctx context.Context, input inter.TextInput, options inter.SynthesisOptions) (inter.SynthesisResult, error) {
	f.log.Info("synthesizing", "chars", len(input.Content), "voice", options.VoiceID)
	result, err := f.Provider.Synthesize(ctx, input, options)
	if err != nil {
		f.log.Warn("synthesis failed", "error", err)
		return inter.SynthesisResult{}, err
	}
	f.log.Debug("synthesis complete",
		"audio_bytes", result.Metadata.AudioSizeBytes,
		"request_id", result.Metadata.RequestID)
	return result, nil
}

func (f *Facade) SynthesizeBatch(ctx context.Context, inputs []inter.TextInput, options inter.SynthesisOptions) ([]inter.SynthesisResult, error) {
	f.log.Info("batch synthesizing", "inputs", len(inputs), "voice", options.VoiceID)
	return f.Provider.SynthesizeBatch(ctx, inputs, options)
}

// InvalidateVoiceCache drops the cached catalog, e.g. after a voice clone
// is created or deleted.
func (f *Facade) InvalidateVoiceCache() {
	f.cache.Invalidate(f.Name())
}
