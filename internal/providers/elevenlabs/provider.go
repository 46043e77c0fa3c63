package elevenlabs

import (
	"context"
	"fmt"

	"ttsgateway/internal/platform/config"
	"ttsgateway/internal/platform/errors"
	"ttsgateway/internal/platform/httpx"
	"ttsgateway/internal/platform/logging"
	"ttsgateway/internal/platform/retry"
	"ttsgateway/internal/tts"
	"ttsgateway/internal/tts/inter"
)

const (
	maxInputChars = 5000
	warnThreshold = 4000
)

// Provider adapts ElevenLabs. Streaming is not exposed by the REST API
// surface used here; voice cloning is.
type Provider struct {
	inter.UnsupportedStreaming
	inter.UnsupportedTimingMarks
	inter.UnsupportedAdvanced

	client *Client
	log    *logging.Logger
}

func init() {
	tts.Register("elevenlabs", func(log *logging.Logger) (inter.Provider, error) {
		return New(log)
	})
}

func New(log *logging.Logger) (*Provider, error) {
	apiKey, err := config.Require("ELEVENLABS_API_KEY")
	if err != nil {
		return nil, err
	}

	pc := config.LoadProvider("https://api.elevenlabs.io")
	if log == nil {
		log = logging.Default()
	}
	log = log.With("provider", "elevenlabs")

	cfg := retry.DefaultConfig()
	cfg.MaxRetries = pc.MaxRetries
	client := NewClient(apiKey, pc.Endpoint, httpx.NewClient(pc.Timeout), retry.NewPolicy(cfg), log)

	return newProvider(client, log), nil
}

func newProvider(client *Client, log *logging.Logger) *Provider {
	return &Provider{
		UnsupportedStreaming:   inter.UnsupportedStreaming{ProviderName: providerName},
		UnsupportedTimingMarks: inter.UnsupportedTimingMarks{ProviderName: providerName},
		UnsupportedAdvanced:    inter.UnsupportedAdvanced{ProviderName: providerName},
		client:                 client,
		log:                    log,
	}
}

func (p *Provider) Name() string          { return "elevenlabs" }
func (p *Provider) MaxInputChars() uint32 { return maxInputChars }

func (p *Provider) ListVoices(ctx context.Context, filter *inter.VoiceFilter) ([]inter.VoiceInfo, error) {
	p.log.Debug("listing voices")
	all, err := p.client.ListVoices(ctx)
	if err != nil {
		return nil, err
	}

	voices := make([]inter.VoiceInfo, 0, len(all))
	for _, v := range all {
		if filter.Matches(v) {
			voices = append(voices, v)
		}
	}
	return voices, nil
}

func (p *Provider) GetVoice(ctx context.Context, voiceID string) (inter.VoiceInfo, error) {
	all, err := p.client.ListVoices(ctx)
	if err != nil {
		return inter.VoiceInfo{}, err
	}
	for _, v := range all {
		if v.ID == voiceID {
			return v, nil
		}
	}
	return inter.VoiceInfo{}, errors.VoiceNotFound("get_voice", "voice "+voiceID+" not found")
}

func (p *Provider) SearchVoices(ctx context.Context, query string, filter *inter.VoiceFilter) ([]inter.VoiceInfo, error) {
	p.log.Debug("searching voices", "query", query)
	all, err := p.ListVoices(ctx, filter)
	if err != nil {
		return nil, err
	}

	var matched []inter.VoiceInfo
	for _, v := range all {
		if v.MatchesQuery(query) {
			matched = append(matched, v)
		}
	}
	return matched, nil
}

// ListLanguages derives the language set from the live voice catalog.
func (p *Provider) ListLanguages(ctx context.Context) ([]inter.LanguageInfo, error) {
	all, err := p.client.ListVoices(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]uint32)
	for _, v := range all {
		counts[v.Language]++
	}

	languages := make([]inter.LanguageInfo, 0, len(counts))
	for code, count := range counts {
		languages = append(languages, inter.LanguageInfo{
			Code:       code,
			Name:       code,
			NativeName: code,
			VoiceCount: count,
		})
	}
	return languages, nil
}

func (p *Provider) Synthesize(ctx context.Context, input inter.TextInput, options inter.SynthesisOptions) (inter.SynthesisResult, error) {
	if input.Content == "" {
		return inter.SynthesisResult{}, errors.InvalidText("synthesize", "Text cannot be empty")
	}
	if err := validateVoiceSettings(options.VoiceSettings); err != nil {
		return inter.SynthesisResult{}, err
	}
	p.log.Info("synthesizing", "chars", len(input.Content), "voice", options.VoiceID)
	return p.client.TextToSpeech(ctx, input, options)
}

func (p *Provider) SynthesizeBatch(ctx context.Context, inputs []inter.TextInput, options inter.SynthesisOptions) ([]inter.SynthesisResult, error) {
	p.log.Info("batch synthesizing", "inputs", len(inputs))
	results := make([]inter.SynthesisResult, 0, len(inputs))
	for _, input := range inputs {
		result, err := p.Synthesize(ctx, input, options)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (p *Provider) ValidateInput(input inter.TextInput, voiceID string) (inter.ValidationResult, error) {
	return inter.ValidateText(input, providerName, maxInputChars, warnThreshold), nil
}

// CreateVoiceClone uploads the samples and returns the new voice id.
func (p *Provider) CreateVoiceClone(ctx context.Context, name string, samples []inter.AudioSample, description string) (string, error) {
	if err := validateAudioSamples(samples); err != nil {
		return "", err
	}
	return p.client.CreateVoiceClone(ctx, name, samples, description)
}

// DeleteVoiceClone removes a cloned voice. Not part of the uniform
// surface; exposed for the management API.
func (p *Provider) DeleteVoiceClone(ctx context.Context, voiceID string) error {
	return p.client.DeleteVoiceClone(ctx, voiceID)
}

// VoiceCloneStatus reports a cloned voice's processing status.
func (p *Provider) VoiceCloneStatus(ctx context.Context, voiceID string) (string, error) {
	return p.client.VoiceCloneStatus(ctx, voiceID)
}

// validateVoiceSettings rejects out-of-range fine-tuning values before any
// network call.
func validateVoiceSettings(s *inter.VoiceSettings) error {
	if s == nil {
		return nil
	}
	check := func(name string, v float32) error {
		if v < 0 || v > 1 {
			return errors.InvalidConfiguration("synthesize",
				fmt.Sprintf("%s must be between 0.0 and 1.0, got %g", name, v))
		}
		return nil
	}
	if err := check("Stability", s.Stability); err != nil {
		return err
	}
	if err := check("Similarity", s.SimilarityBoost); err != nil {
		return err
	}
	return check("Style", s.Style)
}

const (
	minSampleBytes = 1024
	maxSamples     = 25
)

func validateAudioSamples(samples []inter.AudioSample) error {
	const op = "create_voice_clone"
	if len(samples) == 0 {
		return errors.InvalidText(op, "At least one audio sample required for voice cloning")
	}
	if len(samples) > maxSamples {
		return errors.InvalidText(op, fmt.Sprintf("Maximum %d audio samples allowed", maxSamples))
	}
	for i, sample := range samples {
		if len(sample.Data) < minSampleBytes {
			return errors.InvalidText(op, fmt.Sprintf("Sample %d is too small (minimum 1KB)", i))
		}
	}
	return nil
}
