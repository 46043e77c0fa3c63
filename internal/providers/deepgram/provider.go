package deepgram

import (
	"context"
	"strings"

	"ttsgateway/internal/platform/config"
	"ttsgateway/internal/platform/errors"
	"ttsgateway/internal/platform/httpx"
	"ttsgateway/internal/platform/logging"
	"ttsgateway/internal/platform/retry"
	"ttsgateway/internal/tts"
	"ttsgateway/internal/tts/inter"
)

const (
	maxInputChars = 2000
	warnThreshold = 1500

	defaultEndpoint = "https://api.deepgram.com"
)

// Provider adapts Deepgram Aura. This is the one provider with a streaming
// protocol; timing marks and the advanced surface are not offered.
type Provider struct {
	inter.UnsupportedTimingMarks
	inter.UnsupportedAdvanced

	client  *Client
	streams *StreamManager
	log     *logging.Logger
}

func init() {
	tts.Register("deepgram", func(log *logging.Logger) (inter.Provider, error) {
		return New(log)
	})
}

func New(log *logging.Logger) (*Provider, error) {
	apiKey, err := config.Require("DEEPGRAM_API_KEY")
	if err != nil {
		return nil, err
	}

	pc := config.LoadProvider(defaultEndpoint)
	if log == nil {
		log = logging.Default()
	}
	log = log.With("provider", "deepgram")

	cfg := retry.DefaultConfig()
	cfg.MaxRetries = pc.MaxRetries
	client := NewClient(apiKey, pc.Endpoint, httpx.NewClient(pc.Timeout), retry.NewPolicy(cfg), log)
	streams := NewStreamManager(apiKey, wsEndpoint(pc.Endpoint), log)

	return newProvider(client, streams, log), nil
}

func newProvider(client *Client, streams *StreamManager, log *logging.Logger) *Provider {
	return &Provider{
		UnsupportedTimingMarks: inter.UnsupportedTimingMarks{ProviderName: providerName},
		UnsupportedAdvanced:    inter.UnsupportedAdvanced{ProviderName: providerName},
		client:                 client,
		streams:                streams,
		log:                    log,
	}
}

// wsEndpoint derives the websocket base from the REST endpoint.
func wsEndpoint(endpoint string) string {
	if rest, ok := strings.CutPrefix(endpoint, "https://"); ok {
		return "wss://" + rest
	}
	if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
		return "ws://" + rest
	}
	return endpoint
}

func (p *Provider) Name() string          { return "deepgram" }
func (p *Provider) MaxInputChars() uint32 { return maxInputChars }

func (p *Provider) ListVoices(ctx context.Context, filter *inter.VoiceFilter) ([]inter.VoiceInfo, error) {
	p.log.Debug("listing voices")
	voices := make([]inter.VoiceInfo, 0, len(modelCatalog()))
	for _, m := range modelCatalog() {
		v := m.toVoiceInfo()
		if filter.Matches(v) {
			voices = append(voices, v)
		}
	}
	return voices, nil
}

func (p *Provider) GetVoice(ctx context.Context, voiceID string) (inter.VoiceInfo, error) {
	for _, m := range modelCatalog() {
		if m.VoiceID == voiceID {
			return m.toVoiceInfo(), nil
		}
	}
	return inter.VoiceInfo{}, errors.VoiceNotFound("get_voice", "voice "+voiceID+" not found")
}

func (p *Provider) SearchVoices(ctx context.Context, query string, filter *inter.VoiceFilter) ([]inter.VoiceInfo, error) {
	p.log.Debug("searching voices", "query", query)

	var matched []inter.VoiceInfo
	for _, m := range modelCatalog() {
		v := m.toVoiceInfo()
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
	p.log.Info("synthesizing", "chars", len(input.Content), "model", options.VoiceID)
	return p.client.Speak(ctx, input, paramsForOptions(options))
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

func (p *Provider) CreateStream(ctx context.Context, options inter.SynthesisOptions) (inter.StreamSession, error) {
	return p.streams.CreateStream(ctx, options)
}

func (p *Provider) StreamSendText(ctx context.Context, sessionID string, input inter.TextInput) error {
	return p.streams.SendText(ctx, sessionID, input)
}

func (p *Provider) StreamFinish(ctx context.Context, sessionID string) error {
	return p.streams.Finish(ctx, sessionID)
}

func (p *Provider) StreamReceiveChunk(ctx context.Context, sessionID string) (*inter.AudioChunk, error) {
	return p.streams.ReceiveChunk(ctx, sessionID)
}

func (p *Provider) StreamHasPending(sessionID string) (bool, error) {
	return p.streams.HasPending(sessionID)
}

func (p *Provider) StreamGetStatus(sessionID string) (inter.StreamStatus, error) {
	return p.streams.Status(sessionID)
}

func (p *Provider) StreamClose(sessionID string) error {
	return p.streams.Close(sessionID)
}
