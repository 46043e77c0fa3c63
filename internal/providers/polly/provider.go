package polly

import (
	"context"
	"fmt"
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
	maxInputChars = 3000
	warnThreshold = 2500
)

// Provider adapts AWS Polly. Streaming and most advanced features are not
// part of Polly's API; speech marks and lexicons are.
type Provider struct {
	inter.UnsupportedStreaming
	inter.UnsupportedAdvanced

	client *Client
	log    *logging.Logger
}

func init() {
	tts.Register("polly", func(log *logging.Logger) (inter.Provider, error) {
		return New(log)
	})
}

func New(log *logging.Logger) (*Provider, error) {
	accessKey, err := config.Require("AWS_ACCESS_KEY_ID")
	if err != nil {
		return nil, err
	}
	secretKey, err := config.Require("AWS_SECRET_ACCESS_KEY")
	if err != nil {
		return nil, err
	}
	sessionToken, _ := config.Optional("AWS_SESSION_TOKEN")
	region := config.OrDefault("AWS_REGION", "us-east-1")

	pc := config.LoadProvider(BaseURLForRegion(region))
	if log == nil {
		log = logging.Default()
	}
	log = log.With("provider", "polly")

	cfg := retry.DefaultConfig()
	cfg.MaxRetries = pc.MaxRetries
	signer := NewSigner(accessKey, secretKey, sessionToken, region)
	client := NewClient(signer, pc.Endpoint, httpx.NewClient(pc.Timeout), retry.NewPolicy(cfg), log)

	return &Provider{
		UnsupportedStreaming: inter.UnsupportedStreaming{ProviderName: providerName},
		UnsupportedAdvanced:  inter.UnsupportedAdvanced{ProviderName: providerName},
		client:               client,
		log:                  log,
	}, nil
}

func (p *Provider) Name() string          { return "polly" }
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

func (p *Provider) GetTimingMarks(ctx context.Context, input inter.TextInput, voiceID string) ([]inter.TimingInfo, error) {
	return p.client.SpeechMarks(ctx, input, voiceID)
}

func (p *Provider) ValidateInput(input inter.TextInput, voiceID string) (inter.ValidationResult, error) {
	return inter.ValidateText(input, providerName, maxInputChars, warnThreshold), nil
}

// CreateLexicon uploads the entries as a PLS document named after the
// lexicon. The returned id is the lexicon name.
func (p *Provider) CreateLexicon(ctx context.Context, name, language string, entries []inter.PronunciationEntry) (string, error) {
	if err := p.client.PutLexicon(ctx, name, buildPls(language, entries)); err != nil {
		return "", err
	}
	return name, nil
}

// ExportLexicon returns the stored PLS document.
func (p *Provider) ExportLexicon(ctx context.Context, lexiconID string) (string, error) {
	return p.client.GetLexicon(ctx, lexiconID)
}

// buildPls renders a minimal Pronunciation Lexicon Specification document.
func buildPls(language string, entries []inter.PronunciationEntry) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&b, `<lexicon version="1.0" xmlns="http://www.w3.org/2005/01/pronunciation-lexicon" alphabet="ipa" xml:lang=%q>`+"\n", language)
	for _, e := range entries {
		b.WriteString("  <lexeme>\n")
		fmt.Fprintf(&b, "    <grapheme>%s</grapheme>\n", xmlEscape(e.Word))
		fmt.Fprintf(&b, "    <alias>%s</alias>\n", xmlEscape(e.Pronunciation))
		b.WriteString("  </lexeme>\n")
	}
	b.WriteString("</lexicon>\n")
	return b.String()
}

func xmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")
	return r.Replace(s)
}
