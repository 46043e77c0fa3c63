// Package polly adapts AWS Polly to the uniform provider surface. Requests
// are signed with SigV4 directly; Polly's speech endpoint is a single
// signed POST, so the gateway's own HTTP layer does all the transport work.
package polly

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"ttsgateway/internal/platform/errors"
	"ttsgateway/internal/platform/httpx"
	"ttsgateway/internal/platform/logging"
	"ttsgateway/internal/platform/retry"
	"ttsgateway/internal/tts/inter"
)

type Client struct {
	signer  *Signer
	baseURL string
	http    *httpx.Client
	retry   *retry.Policy
	log     *logging.Logger
}

func NewClient(signer *Signer, baseURL string, http *httpx.Client, policy *retry.Policy, log *logging.Logger) *Client {
	return &Client{
		signer:  signer,
		baseURL: baseURL,
		http:    http,
		retry:   policy,
		log:     log,
	}
}

func (c *Client) host() string {
	return strings.TrimPrefix(c.baseURL, "https://")
}

type synthesizeSpeechRequest struct {
	Text            string   `json:"Text"`
	OutputFormat    string   `json:"OutputFormat"`
	VoiceID         string   `json:"VoiceId"`
	Engine          string   `json:"Engine"`
	SampleRate      string   `json:"SampleRate,omitempty"`
	SpeechMarkTypes []string `json:"SpeechMarkTypes,omitempty"`
}

// Synthesize performs one signed POST to /v1/speech and returns MP3 audio.
func (c *Client) Synthesize(ctx context.Context, input inter.TextInput, options inter.SynthesisOptions) (inter.SynthesisResult, error) {
	const op = "synthesize"
	c.log.Debug("synthesizing with voice", "voice", options.VoiceID)

	body := synthesizeSpeechRequest{
		Text:         input.Content,
		OutputFormat: "mp3",
		VoiceID:      options.VoiceID,
		Engine:       "neural",
	}
	if options.AudioConfig != nil && options.AudioConfig.SampleRate != 0 {
		body.SampleRate = strconv.FormatUint(uint64(options.AudioConfig.SampleRate), 10)
	}

	resp, err := c.postSpeech(ctx, op, body)
	if err != nil {
		return inter.SynthesisResult{}, err
	}

	charCount := uint32(len(input.Content))
	return inter.SynthesisResult{
		AudioData: resp.Body,
		Metadata: inter.SynthesisMetadata{
			DurationSeconds: float32(charCount) * 0.05,
			CharacterCount:  charCount,
			WordCount:       inter.WordCount(input.Content),
			AudioSizeBytes:  uint32(len(resp.Body)),
			RequestID:       uuid.NewString(),
			ProviderInfo:    providerName,
		},
	}, nil
}

// SpeechMarks asks Polly for word and sentence marks, returned by the API
// as line-delimited JSON.
func (c *Client) SpeechMarks(ctx context.Context, input inter.TextInput, voiceID string) ([]inter.TimingInfo, error) {
	const op = "get_timing_marks"

	body := synthesizeSpeechRequest{
		Text:            input.Content,
		OutputFormat:    "json",
		VoiceID:         voiceID,
		Engine:          "neural",
		SpeechMarkTypes: []string{"word", "sentence"},
	}

	resp, err := c.postSpeech(ctx, op, body)
	if err != nil {
		return nil, err
	}

	type speechMark struct {
		Time  uint32 `json:"time"`
		Type  string `json:"type"`
		Start uint32 `json:"start"`
		End   uint32 `json:"end"`
		Value string `json:"value"`
	}

	var marks []inter.TimingInfo
	for _, line := range strings.Split(string(resp.Body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var mark speechMark
		if err := sonic.Unmarshal([]byte(line), &mark); err != nil {
			return nil, errors.Wrap(errors.CodeInternalError, op, "parse speech mark", err)
		}
		marks = append(marks, inter.TimingInfo{
			TimeMs:      mark.Time,
			MarkType:    mark.Type,
			Text:        mark.Value,
			StartOffset: mark.Start,
			EndOffset:   mark.End,
		})
	}
	return marks, nil
}

func (c *Client) postSpeech(ctx context.Context, op string, body synthesizeSpeechRequest) (*httpx.Response, error) {
	payload, err := sonic.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternalError, op, "encode request", err)
	}

	signed := c.signer.Sign("POST", "/v1/speech", "", map[string]string{
		"host":         c.host(),
		"content-type": "application/json",
	}, payload)

	req := c.http.Post(c.baseURL + "/v1/speech").
		Body("application/json", payload)
	for k, v := range signed {
		req.Header(k, v)
	}

	resp, err := req.SendWithRetry(ctx, c.retry)
	if err != nil {
		return nil, errors.Translate(op, err, maxInputChars)
	}
	if err := resp.ErrorForStatus(); err != nil {
		return nil, errors.Translate(op, err, maxInputChars)
	}
	return resp, nil
}

// PutLexicon uploads a PLS lexicon document under the given name.
func (c *Client) PutLexicon(ctx context.Context, name, content string) error {
	const op = "create_lexicon"
	uri := "/v1/lexicons/" + name

	signed := c.signer.Sign("PUT", uri, "", map[string]string{
		"host":         c.host(),
		"content-type": "application/x-pls+xml",
	}, []byte(content))

	req := c.http.Put(c.baseURL + uri).
		Body("application/x-pls+xml", []byte(content))
	for k, v := range signed {
		req.Header(k, v)
	}

	resp, err := req.SendWithRetry(ctx, c.retry)
	if err != nil {
		return errors.Translate(op, err, maxInputChars)
	}
	if err := resp.ErrorForStatus(); err != nil {
		return errors.Translate(op, err, maxInputChars)
	}
	return nil
}

// GetLexicon fetches the stored PLS document for the given name.
func (c *Client) GetLexicon(ctx context.Context, name string) (string, error) {
	const op = "export_lexicon"
	uri := "/v1/lexicons/" + name

	signed := c.signer.Sign("GET", uri, "", map[string]string{
		"host": c.host(),
	}, nil)

	req := c.http.Get(c.baseURL + uri)
	for k, v := range signed {
		req.Header(k, v)
	}

	resp, err := req.SendWithRetry(ctx, c.retry)
	if err != nil {
		return "", errors.Translate(op, err, maxInputChars)
	}
	if err := resp.ErrorForStatus(); err != nil {
		return "", errors.Translate(op, err, maxInputChars)
	}
	return string(resp.Body), nil
}

// BaseURLForRegion builds the regional Polly endpoint.
func BaseURLForRegion(region string) string {
	return fmt.Sprintf("https://polly.%s.amazonaws.com", region)
}
