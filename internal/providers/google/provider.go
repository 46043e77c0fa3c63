package google

import (
	"context"

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

	defaultEndpoint = "https://texttospeech.googleapis.com"
)

// Provider adapts Google Cloud TTS. Streaming, timing marks, and the
// advanced surface are not exposed through the REST synthesize endpoint
// used here.
type Provider struct {
	inter.UnsupportedStreaming
	inter.UnsupportedTimingMarks
	inter.UnsupportedAdvanced

	client *Client
	log    *logging.Logger
}

func init() {
	tts.Register("google", func(log *logging.Logger) (inter.Provider, error) {
		return New(log)
	})
}

// New builds the provider. A pre-issued GOOGLE_ACCESS_TOKEN wins; otherwise
// GOOGLE_APPLICATION_CREDENTIALS_JSON starts the service account flow.
func New(log *logging.Logger) (*Provider, error) {
	pc := config.LoadProvider(defaultEndpoint)
	if log == nil {
		log = logging.Default()
	}
	log = log.With("provider", "google")

	httpClient := httpx.NewClient(pc.Timeout)

	var tokens TokenSource
	if token, ok := config.Optional("GOOGLE_ACCESS_TOKEN"); ok {
		tokens = StaticTokenSource(token)
	} else {
		raw, err := config.Require("GOOGLE_APPLICATION_CREDENTIALS_JSON")
		if err != nil {
			return nil, errors.InvalidConfiguration("authenticate",
				"set GOOGLE_ACCESS_TOKEN or GOOGLE_APPLICATION_CREDENTIALS_JSON")
		}
		key, err := ParseServiceAccountKey([]byte(raw))
		if err != nil {
			return nil, err
		}
		tokens = NewJWTTokenSource(key, httpClient)
	}

	projectID := config.OrDefault("GOOGLE_PROJECT_ID", "default-project")

	cfg := retry.DefaultConfig()
	cfg.MaxRetries = pc.MaxRetries
	client := NewClient(tokens, pc.Endpoint, projectID, httpClient, retry.NewPolicy(cfg), log)

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

func (p *Provider) Name() string          { return "google" }
func (p *Provider) MaxInputChars() uint32 { return maxInputChars }

func (p *Provider) ListVoices(ctx context.Context, filter *inter.VoiceFilter) ([]inter.VoiceInfo, error) {
	p.log.Debug("listing voices")
	voices := make([]inter.VoiceInfo, 0, len(voiceCatalog()))
	for _, v := range voiceCatalog() {
		if filter.Matches(v) {
			voices = append(voices, v)
		}
	}
	return voices, nil
}

func (p *Provider) GetVoice(ctx context.Context, voiceID string) (inter.VoiceInfo, error) {
	for _, v := range voiceCatalog() {
		if v.ID == voiceID {
			return v, nil
		}
	}
	return inter.VoiceInfo{}, errors.VoiceNotFound("get_voice", "voice "+voiceID+" not found")
}

func (p *Provider) SearchVoices(ctx context.Context, query string, filter *inter.VoiceFilter) ([]inter.VoiceInfo, error) {
	p.log.Debug("searching voices", "query", query)

	var matched []inter.VoiceInfo
	for _, v := range voiceCatalog() {
		if filter.Matches(v) && v.MatchesQuery(query) {
			matched = append(matched, v)
		}
	}
	return matched, nil
}

func (p *Provider) ListLanguages(ctx context.Context) ([]inter.LanguageInfo, error) {
	return languageCatalog(), nil
}

func (p *Provider) Synthesize(ctx context.Context, input inter.TextInput, options inter.SynthesisOptions) (inter.SynthesisResult, error) {
	if input.Content == "" {
		return inter.SynthesisResult{}, errors.InvalidText("synthesize", "Text cannot be empty")
	}
	p.log.Info("synthesizing", "chars", len(input.Content), "voice", options.VoiceID)
	return p.client.Synthesize(ctx, input, options)
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
