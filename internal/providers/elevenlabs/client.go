// Package elevenlabs adapts the ElevenLabs API to the uniform provider
// surface. Voices are listed live, synthesis is a JSON POST per voice, and
// voice cloning uses the multipart /v1/voices/add endpoint.
package elevenlabs

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"ttsgateway/internal/platform/errors"
	"ttsgateway/internal/platform/httpx"
	"ttsgateway/internal/platform/logging"
	"ttsgateway/internal/platform/retry"
	"ttsgateway/internal/tts/inter"
)

const providerName = "ElevenLabs"

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

// apiVoice is the wire shape of one voice in /v1/voices. Labels carry
// gender and use-case hints.
type apiVoice struct {
	VoiceID     string            `json:"voice_id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	PreviewURL  string            `json:"preview_url"`
	Labels      map[string]string `json:"labels"`
}

func (v apiVoice) toVoiceInfo() inter.VoiceInfo {
	gender := inter.GenderNeutral
	switch v.Labels["gender"] {
	case "male":
		gender = inter.GenderMale
	case "female":
		gender = inter.GenderFemale
	}

	useCase := v.Labels["use_case"]
	isCustom := strings.Contains(useCase, "custom")

	var useCases []string
	if useCase != "" {
		useCases = []string{useCase}
	}

	return inter.VoiceInfo{
		ID:                  v.VoiceID,
		Name:                v.Name,
		Language:            "en",
		AdditionalLanguages: []string{},
		Gender:              gender,
		Quality:             inter.QualityNeural,
		Description:         v.Description,
		Provider:            providerName,
		SampleRate:          44100,
		IsCustom:            isCustom,
		IsCloned:            isCustom,
		PreviewURL:          v.PreviewURL,
		UseCases:            useCases,
	}
}

// ListVoices fetches the account's voice catalog.
func (c *Client) ListVoices(ctx context.Context) ([]inter.VoiceInfo, error) {
	const op = "list_voices"

	resp, err := c.http.Get(c.baseURL+"/v1/voices").
		Header("xi-api-key", c.apiKey).
		SendWithRetry(ctx, c.retry)
	if err != nil {
		return nil, errors.Translate(op, err, maxInputChars)
	}
	if !resp.OK() {
		return nil, parseError(op, resp.Status, resp.Body)
	}

	var parsed struct {
		Voices []apiVoice `json:"voices"`
	}
	if err := resp.DecodeJSON(&parsed); err != nil {
		return nil, errors.Wrap(errors.CodeInternalError, op, "parse voices response", err)
	}

	voices := make([]inter.VoiceInfo, 0, len(parsed.Voices))
	for _, v := range parsed.Voices {
		voices = append(voices, v.toVoiceInfo())
	}
	return voices, nil
}

type synthesisRequest struct {
	Text          string               `json:"text"`
	ModelID       string               `json:"model_id"`
	VoiceSettings *inter.VoiceSettings `json:"voice_settings,omitempty"`
}

// TextToSpeech synthesizes one input with the given voice. The response is
// MP3 at 44.1kHz.
func (c *Client) TextToSpeech(ctx context.Context, input inter.TextInput, options inter.SynthesisOptions) (inter.SynthesisResult, error) {
	const op = "synthesize"

	body := synthesisRequest{
		Text:          input.Content,
		ModelID:       "eleven_monolingual_v1",
		VoiceSettings: options.VoiceSettings,
	}

	resp, err := c.http.Post(c.baseURL+"/v1/text-to-speech/"+options.VoiceID).
		Header("xi-api-key", c.apiKey).
		JSON(body).
		SendWithRetry(ctx, c.retry)
	if err != nil {
		return inter.SynthesisResult{}, errors.Translate(op, err, maxInputChars)
	}
	if !resp.OK() {
		return inter.SynthesisResult{}, parseError(op, resp.Status, resp.Body)
	}

	charCount := uint32(len([]rune(input.Content)))
	return inter.SynthesisResult{
		AudioData: resp.Body,
		Metadata: inter.SynthesisMetadata{
			DurationSeconds: estimateDuration(resp.Body),
			CharacterCount:  charCount,
			WordCount:       inter.WordCount(input.Content),
			AudioSizeBytes:  uint32(len(resp.Body)),
			RequestID:       fmt.Sprintf("elevenlabs-%d", c.now().Unix()),
			ProviderInfo:    "ElevenLabs TTS - MP3 44.1kHz",
		},
	}, nil
}

// CreateVoiceClone uploads reference samples to /v1/voices/add and returns
// the new voice id.
func (c *Client) CreateVoiceClone(ctx context.Context, name string, samples []inter.AudioSample, description string) (string, error) {
	const op = "create_voice_clone"

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if err := form.WriteField("name", name); err != nil {
		return "", errors.Wrap(errors.CodeInternalError, op, "build multipart form", err)
	}
	if description != "" {
		if err := form.WriteField("description", description); err != nil {
			return "", errors.Wrap(errors.CodeInternalError, op, "build multipart form", err)
		}
	}
	for i, sample := range samples {
		filename := sample.Name
		if filename == "" {
			filename = fmt.Sprintf("sample_%d.mp3", i)
		}
		part, err := form.CreateFormFile("files", filename)
		if err != nil {
			return "", errors.Wrap(errors.CodeInternalError, op, "build multipart form", err)
		}
		if _, err := part.Write(sample.Data); err != nil {
			return "", errors.Wrap(errors.CodeInternalError, op, "build multipart form", err)
		}
	}
	if err := form.Close(); err != nil {
		return "", errors.Wrap(errors.CodeInternalError, op, "build multipart form", err)
	}

	resp, err := c.http.Post(c.baseURL+"/v1/voices/add").
		Header("xi-api-key", c.apiKey).
		Body(form.FormDataContentType(), buf.Bytes()).
		SendWithRetry(ctx, c.retry)
	if err != nil {
		return "", errors.Translate(op, err, maxInputChars)
	}
	if !resp.OK() {
		return "", parseError(op, resp.Status, resp.Body)
	}

	var parsed struct {
		VoiceID string `json:"voice_id"`
	}
	if err := resp.DecodeJSON(&parsed); err != nil {
		return "", errors.Wrap(errors.CodeInternalError, op, "parse clone response", err)
	}
	return parsed.VoiceID, nil
}

// DeleteVoiceClone removes a cloned voice.
func (c *Client) DeleteVoiceClone(ctx context.Context, voiceID string) error {
	const op = "delete_voice_clone"

	resp, err := c.http.Delete(c.baseURL+"/v1/voices/"+voiceID).
		Header("xi-api-key", c.apiKey).
		SendWithRetry(ctx, c.retry)
	if err != nil {
		return errors.Translate(op, err, maxInputChars)
	}
	if !resp.OK() {
		return parseError(op, resp.Status, resp.Body)
	}
	return nil
}

// VoiceCloneStatus reports the processing status of a cloned voice.
func (c *Client) VoiceCloneStatus(ctx context.Context, voiceID string) (string, error) {
	const op = "get_voice_clone_status"

	resp, err := c.http.Get(c.baseURL+"/v1/voices/"+voiceID).
		Header("xi-api-key", c.apiKey).
		SendWithRetry(ctx, c.retry)
	if err != nil {
		return "", errors.Translate(op, err, maxInputChars)
	}
	if !resp.OK() {
		return "", parseError(op, resp.Status, resp.Body)
	}

	var parsed struct {
		Status string `json:"status"`
	}
	if err := resp.DecodeJSON(&parsed); err != nil {
		return "", errors.Wrap(errors.CodeInternalError, op, "parse voice status", err)
	}
	return parsed.Status, nil
}

// estimateDuration approximates MP3 playback time at 128kbps.
func estimateDuration(audio []byte) float32 {
	if len(audio) == 0 {
		return 0
	}
	return float32(len(audio)) / 16000.0
}

// parseError maps an ElevenLabs error response onto the domain taxonomy.
// The API reports problems in a "detail" field and uses 422 for bad voice
// settings; everything else follows the shared status mapping.
func parseError(op string, status int, body []byte) *errors.Error {
	var parsed struct {
		Detail string `json:"detail"`
	}
	detail := ""
	if err := sonic.Unmarshal(body, &parsed); err == nil {
		detail = parsed.Detail
	}

	if status == 422 {
		if detail == "" {
			detail = string(body)
		}
		return errors.InvalidConfiguration(op, detail)
	}
	return errors.FromStatus(op, status, body, maxInputChars)
}
