// Package deepgram adapts Deepgram Aura to the uniform provider surface.
// One-shot synthesis is a JSON POST to /v1/speak with the output format in
// the query string; streaming runs over the /v1/speak websocket.
package deepgram

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"ttsgateway/internal/platform/errors"
	"ttsgateway/internal/platform/httpx"
	"ttsgateway/internal/platform/logging"
	"ttsgateway/internal/platform/retry"
	"ttsgateway/internal/tts/inter"
)

type Client struct {
	apiKey  string
	baseURL string
	http    *httpx.Client
	retry   *retry.Policy
	log     *logging.Logger

	now func() time.Time
}

func NewClient(apiKey, baseURL string, http *httpx.Client, policy *retry.Policy, log *logging.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    http,
		retry:   policy,
		log:     log,
		now:     time.Now,
	}
}

// speakMetadata is what the API reports through response headers.
type speakMetadata struct {
	ContentType   string
	RequestID     string
	ModelName     string
	ModelUUID     string
	CharCount     uint32
	ContentLength uint64
	Date          string
}

func (c *Client) speakURL(params speakParams) string {
	query := url.Values{}
	if params.Model != "" {
		query.Set("model", params.Model)
	}
	if params.Encoding != "" {
		query.Set("encoding", params.Encoding)
	}
	if params.Container != "" {
		query.Set("container", params.Container)
	}
	if params.SampleRate != 0 {
		query.Set("sample_rate", strconv.FormatUint(uint64(params.SampleRate), 10))
	}
	if params.BitRate != 0 {
		query.Set("bit_rate", strconv.FormatUint(uint64(params.BitRate), 10))
	}
	return c.baseURL + "/v1/speak?" + query.Encode()
}

// Speak posts one text and returns the audio plus header metadata.
func (c *Client) Speak(ctx context.Context, input inter.TextInput, params speakParams) (inter.SynthesisResult, error) {
	const op = "synthesize"
	c.log.Debug("synthesizing with model", "model", params.Model, "encoding", params.Encoding)

	resp, err := c.http.Post(c.speakURL(params)).
		Header("Authorization", "Token "+c.apiKey).
		JSON(map[string]string{"text": input.Content}).
		SendWithRetry(ctx, c.retry)
	if err != nil {
		return inter.SynthesisResult{}, errors.Translate(op, err, maxInputChars)
	}
	if !resp.OK() {
		return inter.SynthesisResult{}, errors.FromStatus(op, resp.Status, resp.Body, maxInputChars)
	}

	meta := metadataFromHeaders(resp)
	requestID := meta.RequestID
	if requestID == "" {
		requestID = fmt.Sprintf("deepgram-%d", c.now().Unix())
	}

	return inter.SynthesisResult{
		AudioData: resp.Body,
		Metadata: inter.SynthesisMetadata{
			DurationSeconds: estimateDuration(resp.Body, params.SampleRate),
			CharacterCount:  uint32(len([]rune(input.Content))),
			WordCount:       inter.WordCount(input.Content),
			AudioSizeBytes:  uint32(len(resp.Body)),
			RequestID:       requestID,
			ProviderInfo: fmt.Sprintf("Deepgram TTS - Encoding: %s, Sample Rate: %dHz",
				params.Encoding, params.SampleRate),
		},
	}, nil
}

func metadataFromHeaders(resp *httpx.Response) speakMetadata {
	meta := speakMetadata{
		ContentType: resp.Header.Get("content-type"),
		RequestID:   resp.Header.Get("dg-request-id"),
		ModelName:   resp.Header.Get("dg-model-name"),
		ModelUUID:   resp.Header.Get("dg-model-uuid"),
		Date:        resp.Header.Get("date"),
	}
	if count, err := strconv.ParseUint(resp.Header.Get("dg-char-count"), 10, 32); err == nil {
		meta.CharCount = uint32(count)
	}
	if length, err := strconv.ParseUint(resp.Header.Get("content-length"), 10, 64); err == nil {
		meta.ContentLength = length
	}
	return meta
}
