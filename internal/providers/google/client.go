// Package google adapts Google Cloud TTS to the uniform provider surface.
// Authentication is either a pre-issued access token or the service account
// JWT bearer flow; synthesis is a single JSON POST that returns base64 audio.
package google

import (
	"context"
	"encoding/base64"

	"github.com/google/uuid"

	"ttsgateway/internal/platform/errors"
	"ttsgateway/internal/platform/httpx"
	"ttsgateway/internal/platform/logging"
	"ttsgateway/internal/platform/retry"
	"ttsgateway/internal/tts/inter"
)

const providerName = "Google Cloud TTS"

type Client struct {
	tokens    TokenSource
	baseURL   string
	projectID string
	http      *httpx.Client
	retry     *retry.Policy
	log       *logging.Logger
}

func NewClient(tokens TokenSource, baseURL, projectID string, http *httpx.Client, policy *retry.Policy, log *logging.Logger) *Client {
	return &Client{
		tokens:    tokens,
		baseURL:   baseURL,
		projectID: projectID,
		http:      http,
		retry:     policy,
		log:       log,
	}
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text,omitempty"`
		Ssml string `json:"ssml,omitempty"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding   string `json:"audioEncoding"`
		SampleRateHertz uint32 `json:"sampleRateHertz,omitempty"`
	} `json:"audioConfig"`
}

// Synthesize posts to v1/text:synthesize and decodes the base64 payload.
func (c *Client) Synthesize(ctx context.Context, input inter.TextInput, options inter.SynthesisOptions) (inter.SynthesisResult, error) {
	const op = "synthesize"
	c.log.Debug("synthesizing with voice", "voice", options.VoiceID)

	var body synthesizeRequest
	if input.Kind == inter.TextSsml {
		body.Input.Ssml = input.Content
	} else {
		body.Input.Text = input.Content
	}
	body.Voice.LanguageCode = languageForVoice(options.VoiceID, input.Language)
	body.Voice.Name = options.VoiceID
	body.AudioConfig.AudioEncoding = audioEncoding(options.AudioConfig)
	if options.AudioConfig != nil {
		body.AudioConfig.SampleRateHertz = options.AudioConfig.SampleRate
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return inter.SynthesisResult{}, err
	}

	resp, err := c.http.Post(c.baseURL+"/v1/text:synthesize").
		Header("Authorization", "Bearer "+token).
		Header("X-Goog-User-Project", c.projectID).
		JSON(body).
		SendWithRetry(ctx, c.retry)
	if err != nil {
		return inter.SynthesisResult{}, errors.Translate(op, err, maxInputChars)
	}
	if !resp.OK() {
		return inter.SynthesisResult{}, errors.FromStatus(op, resp.Status, resp.Body, maxInputChars)
	}

	var parsed struct {
		AudioContent string `json:"audioContent"`
	}
	if err := resp.DecodeJSON(&parsed); err != nil {
		return inter.SynthesisResult{}, errors.Wrap(errors.CodeInternalError, op, "parse synthesize response", err)
	}
	audio, err := base64.StdEncoding.DecodeString(parsed.AudioContent)
	if err != nil {
		return inter.SynthesisResult{}, errors.Wrap(errors.CodeInternalError, op, "decode audio content", err)
	}

	charCount := uint32(len([]rune(input.Content)))
	return inter.SynthesisResult{
		AudioData: audio,
		Metadata: inter.SynthesisMetadata{
			DurationSeconds: float32(charCount) * 0.05,
			CharacterCount:  charCount,
			WordCount:       inter.WordCount(input.Content),
			AudioSizeBytes:  uint32(len(audio)),
			RequestID:       uuid.NewString(),
			ProviderInfo:    providerName,
		},
	}, nil
}

// audioEncoding maps the uniform format onto the API's enum. MP3 is the
// default; unsupported formats also fall back to MP3 rather than failing.
func audioEncoding(cfg *inter.AudioConfig) string {
	if cfg == nil {
		return "MP3"
	}
	switch cfg.Format {
	case inter.FormatWav, inter.FormatPcm:
		return "LINEAR16"
	case inter.FormatOggOpus:
		return "OGG_OPUS"
	case inter.FormatMulaw:
		return "MULAW"
	case inter.FormatAlaw:
		return "ALAW"
	default:
		return "MP3"
	}
}

// languageForVoice derives the languageCode the API requires alongside the
// voice name. Voice names embed their locale as the first two segments, e.g.
// "en-US-Neural2-A".
func languageForVoice(voiceID, inputLanguage string) string {
	if parts := splitVoiceName(voiceID); parts != "" {
		return parts
	}
	if inputLanguage != "" {
		return inputLanguage
	}
	return "en-US"
}

func splitVoiceName(voiceID string) string {
	dashes := 0
	for i, r := range voiceID {
		if r == '-' {
			dashes++
			if dashes == 2 {
				return voiceID[:i]
			}
		}
	}
	return ""
}
