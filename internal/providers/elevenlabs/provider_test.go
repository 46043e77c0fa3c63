package elevenlabs

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"ttsgateway/internal/platform/errors"
	"ttsgateway/internal/platform/httpx"
	"ttsgateway/internal/platform/logging"
	"ttsgateway/internal/platform/retry"
	"ttsgateway/internal/tts/inter"
)

type scriptedTransport struct {
	responses []*http.Response
	requests  []*http.Request
	bodies    []string
}

func (s *scriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.requests = append(s.requests, req)
	body := ""
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		body = string(data)
	}
	s.bodies = append(s.bodies, body)

	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func textResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestProvider(transport *scriptedTransport) *Provider {
	log := logging.Default()
	policy := retry.NewPolicy(retry.DefaultConfig()).
		WithSleep(func(ctx context.Context, d time.Duration) error { return nil })
	client := NewClient("test-key", "https://api.elevenlabs.io",
		httpx.NewClient(time.Second).WithTransport(transport), policy, log)
	client.now = func() time.Time { return time.Unix(1700000000, 0) }
	return newProvider(client, log)
}

const voicesJSON = `{"voices":[
  {"voice_id":"21m00","name":"Rachel","description":"calm narration voice","labels":{"gender":"female","use_case":"narration"}},
  {"voice_id":"abc99","name":"Custom Bob","description":"my clone","labels":{"gender":"male","use_case":"custom clone"}}
]}`

func TestProvider_ListVoices(t *testing.T) {
	transport := &scriptedTransport{responses: []*http.Response{
		textResponse(200, voicesJSON),
	}}
	p := newTestProvider(transport)

	voices, err := p.ListVoices(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(voices) != 2 {
		t.Fatalf("got %d voices", len(voices))
	}

	rachel := voices[0]
	if rachel.Gender != inter.GenderFemale || rachel.SampleRate != 44100 {
		t.Errorf("voice = %+v", rachel)
	}
	if rachel.IsCloned {
		t.Error("narration voice marked as cloned")
	}
	if !voices[1].IsCloned || !voices[1].IsCustom {
		t.Error("custom use case should mark the voice cloned")
	}

	if got := transport.requests[0].Header.Get("xi-api-key"); got != "test-key" {
		t.Errorf("api key header = %q", got)
	}
}

func TestProvider_GetVoiceNotFound(t *testing.T) {
	transport := &scriptedTransport{responses: []*http.Response{
		textResponse(200, voicesJSON),
	}}
	p := newTestProvider(transport)

	_, err := p.GetVoice(context.Background(), "missing")
	if !errors.IsCode(err, errors.CodeVoiceNotFound) {
		t.Errorf("expected voice-not-found, got %v", err)
	}
}

func TestProvider_Synthesize(t *testing.T) {
	transport := &scriptedTransport{responses: []*http.Response{
		textResponse(200, strings.Repeat("x", 32000)),
	}}
	p := newTestProvider(transport)

	result, err := p.Synthesize(context.Background(),
		inter.TextInput{Content: "hello there"},
		inter.SynthesisOptions{VoiceID: "21m00"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Metadata.DurationSeconds != 2.0 {
		t.Errorf("duration = %f, expected 32000/16000", result.Metadata.DurationSeconds)
	}
	if result.Metadata.RequestID != "elevenlabs-1700000000" {
		t.Errorf("request id = %q", result.Metadata.RequestID)
	}

	req := transport.requests[0]
	if req.URL.Path != "/v1/text-to-speech/21m00" {
		t.Errorf("path = %s", req.URL.Path)
	}
	if !strings.Contains(transport.bodies[0], `"model_id":"eleven_monolingual_v1"`) {
		t.Errorf("body = %q", transport.bodies[0])
	}
}

func TestProvider_SynthesizeRejectsBadVoiceSettings(t *testing.T) {
	p := newTestProvider(&scriptedTransport{})

	_, err := p.Synthesize(context.Background(),
		inter.TextInput{Content: "hi"},
		inter.SynthesisOptions{
			VoiceID:       "21m00",
			VoiceSettings: &inter.VoiceSettings{Stability: 1.5},
		})
	if !errors.IsCode(err, errors.CodeInvalidConfiguration) {
		t.Errorf("expected invalid-configuration, got %v", err)
	}
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   errors.Code
	}{
		{"detail field surfaces in 400", 400, `{"detail":"bad characters"}`, errors.CodeInvalidText},
		{"422 maps to invalid configuration", 422, `{"detail":"bad voice settings"}`, errors.CodeInvalidConfiguration},
		{"401 unauthorized", 401, `{"detail":"invalid api key"}`, errors.CodeUnauthorized},
		{"429 rate limited", 429, "", errors.CodeRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseError("synthesize", tt.status, []byte(tt.body))
			if err.Code != tt.code {
				t.Errorf("code = %s, expected %s", err.Code, tt.code)
			}
		})
	}
}

func TestProvider_CreateVoiceClone(t *testing.T) {
	transport := &scriptedTransport{responses: []*http.Response{
		textResponse(200, `{"voice_id":"new-voice"}`),
	}}
	p := newTestProvider(transport)

	sample := inter.AudioSample{Name: "ref.mp3", Data: make([]byte, 2048), Format: inter.FormatMp3}
	id, err := p.CreateVoiceClone(context.Background(), "My Clone", []inter.AudioSample{sample}, "test clone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "new-voice" {
		t.Errorf("voice id = %q", id)
	}

	req := transport.requests[0]
	if req.URL.Path != "/v1/voices/add" {
		t.Errorf("path = %s", req.URL.Path)
	}
	if !strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data") {
		t.Errorf("content type = %q", req.Header.Get("Content-Type"))
	}
	body := transport.bodies[0]
	if !strings.Contains(body, `name="files"; filename="ref.mp3"`) {
		t.Errorf("multipart body missing file part")
	}
}

func TestProvider_CreateVoiceCloneValidation(t *testing.T) {
	p := newTestProvider(&scriptedTransport{})
	ctx := context.Background()

	if _, err := p.CreateVoiceClone(ctx, "x", nil, ""); !errors.IsCode(err, errors.CodeInvalidText) {
		t.Errorf("empty samples: got %v", err)
	}

	tiny := []inter.AudioSample{{Data: make([]byte, 100)}}
	if _, err := p.CreateVoiceClone(ctx, "x", tiny, ""); !errors.IsCode(err, errors.CodeInvalidText) {
		t.Errorf("tiny sample: got %v", err)
	}
}

func TestProvider_DeleteVoiceClone(t *testing.T) {
	transport := &scriptedTransport{responses: []*http.Response{
		textResponse(200, "{}"),
	}}
	p := newTestProvider(transport)

	if err := p.DeleteVoiceClone(context.Background(), "abc99"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := transport.requests[0]
	if req.Method != http.MethodDelete || req.URL.Path != "/v1/voices/abc99" {
		t.Errorf("request = %s %s", req.Method, req.URL.Path)
	}
}

func TestProvider_TimingMarksUnsupported(t *testing.T) {
	p := newTestProvider(&scriptedTransport{})

	_, err := p.GetTimingMarks(context.Background(), inter.TextInput{Content: "hi"}, "21m00")
	if !errors.IsCode(err, errors.CodeUnsupportedOperation) {
		t.Errorf("expected unsupported-operation, got %v", err)
	}
}
