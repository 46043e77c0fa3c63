package polly

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
	signer := testSigner("")
	client := NewClient(signer, "https://polly.us-east-1.amazonaws.com",
		httpx.NewClient(time.Second).WithTransport(transport), policy, log)

	return &Provider{
		UnsupportedStreaming: inter.UnsupportedStreaming{ProviderName: providerName},
		UnsupportedAdvanced:  inter.UnsupportedAdvanced{ProviderName: providerName},
		client:               client,
		log:                  log,
	}
}

func TestProvider_GetVoice(t *testing.T) {
	p := newTestProvider(&scriptedTransport{})

	voice, err := p.GetVoice(context.Background(), "Joanna")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if voice.Language != "en-US" || voice.Gender != inter.GenderFemale {
		t.Errorf("voice = %+v", voice)
	}

	_, err = p.GetVoice(context.Background(), "Nobody")
	if !errors.IsCode(err, errors.CodeVoiceNotFound) {
		t.Errorf("expected voice-not-found, got %v", err)
	}
}

func TestProvider_ListVoicesFilters(t *testing.T) {
	p := newTestProvider(&scriptedTransport{})

	gb, err := p.ListVoices(context.Background(), &inter.VoiceFilter{Language: "en-GB"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gb) != 3 {
		t.Errorf("got %d en-GB voices, expected 3", len(gb))
	}

	all, err := p.ListVoices(context.Background(), &inter.VoiceFilter{Language: "en"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 10 {
		t.Errorf("got %d voices for the 'en' prefix, expected the full catalog of 10", len(all))
	}
}

func TestProvider_SearchVoices(t *testing.T) {
	p := newTestProvider(&scriptedTransport{})

	results, err := p.SearchVoices(context.Background(), "british", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("got %d matches for 'british', expected 3", len(results))
	}
}

func TestProvider_SearchVoicesByUseCase(t *testing.T) {
	p := newTestProvider(&scriptedTransport{})

	results, err := p.SearchVoices(context.Background(), "assistant", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].ID != "Joanna" {
		t.Errorf("search by use case = %+v, expected Joanna only", results)
	}
}

func TestProvider_Synthesize(t *testing.T) {
	transport := &scriptedTransport{responses: []*http.Response{
		textResponse(200, "mp3-audio-bytes"),
	}}
	p := newTestProvider(transport)

	result, err := p.Synthesize(context.Background(),
		inter.TextInput{Content: "hello world"},
		inter.SynthesisOptions{VoiceID: "Joanna"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(result.AudioData) != "mp3-audio-bytes" {
		t.Errorf("audio = %q", result.AudioData)
	}
	if result.Metadata.CharacterCount != 11 || result.Metadata.WordCount != 2 {
		t.Errorf("metadata = %+v", result.Metadata)
	}
	if result.Metadata.RequestID == "" {
		t.Error("missing request id")
	}

	req := transport.requests[0]
	if req.URL.Path != "/v1/speech" {
		t.Errorf("path = %s", req.URL.Path)
	}
	if req.Header.Get("Authorization") == "" || req.Header.Get("X-Amz-Date") == "" {
		t.Error("request is not signed")
	}

	body := transport.bodies[0]
	for _, want := range []string{`"Text":"hello world"`, `"VoiceId":"Joanna"`, `"Engine":"neural"`, `"OutputFormat":"mp3"`} {
		if !strings.Contains(body, want) {
			t.Errorf("request body %q missing %s", body, want)
		}
	}
}

func TestProvider_SynthesizeEmptyText(t *testing.T) {
	p := newTestProvider(&scriptedTransport{})

	_, err := p.Synthesize(context.Background(), inter.TextInput{}, inter.SynthesisOptions{VoiceID: "Joanna"})
	if !errors.IsCode(err, errors.CodeInvalidText) {
		t.Errorf("expected invalid-text, got %v", err)
	}
}

func TestProvider_SynthesizeBatchAbortsOnFailure(t *testing.T) {
	transport := &scriptedTransport{responses: []*http.Response{
		textResponse(200, "audio-1"),
		textResponse(401, "denied"),
	}}
	p := newTestProvider(transport)

	_, err := p.SynthesizeBatch(context.Background(),
		[]inter.TextInput{{Content: "one"}, {Content: "two"}, {Content: "three"}},
		inter.SynthesisOptions{VoiceID: "Joanna"})

	if !errors.IsCode(err, errors.CodeUnauthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}
	if len(transport.requests) != 2 {
		t.Errorf("made %d requests, expected batch to stop at the failure", len(transport.requests))
	}
}

func TestProvider_GetTimingMarks(t *testing.T) {
	marks := `{"time":6,"type":"word","start":0,"end":5,"value":"Hello"}
{"time":374,"type":"word","start":6,"end":11,"value":"world"}
{"time":0,"type":"sentence","start":0,"end":11,"value":"Hello world"}`
	transport := &scriptedTransport{responses: []*http.Response{
		textResponse(200, marks),
	}}
	p := newTestProvider(transport)

	timing, err := p.GetTimingMarks(context.Background(), inter.TextInput{Content: "Hello world"}, "Joanna")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(timing) != 3 {
		t.Fatalf("got %d marks, expected 3", len(timing))
	}
	if timing[1].Text != "world" || timing[1].TimeMs != 374 || timing[1].StartOffset != 6 {
		t.Errorf("mark = %+v", timing[1])
	}
	if timing[2].MarkType != "sentence" {
		t.Errorf("mark type = %s", timing[2].MarkType)
	}

	if !strings.Contains(transport.bodies[0], `"OutputFormat":"json"`) {
		t.Errorf("speech marks request body = %q", transport.bodies[0])
	}
}

func TestProvider_ValidateInput(t *testing.T) {
	p := newTestProvider(&scriptedTransport{})

	ok, _ := p.ValidateInput(inter.TextInput{Content: "short"}, "Joanna")
	if !ok.IsValid {
		t.Error("short text should be valid")
	}

	long, _ := p.ValidateInput(inter.TextInput{Content: strings.Repeat("a", 3001)}, "Joanna")
	if long.IsValid {
		t.Error("3001 chars should exceed the 3000 limit")
	}
}

func TestProvider_CreateAndExportLexicon(t *testing.T) {
	transport := &scriptedTransport{responses: []*http.Response{
		textResponse(200, ""),
		textResponse(200, "<lexicon/>"),
	}}
	p := newTestProvider(transport)
	ctx := context.Background()

	id, err := p.CreateLexicon(ctx, "greetings", "en-US", []inter.PronunciationEntry{
		{Word: "TTS", Pronunciation: "text to speech"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "greetings" {
		t.Errorf("lexicon id = %q", id)
	}

	put := transport.requests[0]
	if put.Method != http.MethodPut || put.URL.Path != "/v1/lexicons/greetings" {
		t.Errorf("lexicon upload = %s %s", put.Method, put.URL.Path)
	}
	if !strings.Contains(transport.bodies[0], "<grapheme>TTS</grapheme>") {
		t.Errorf("pls document = %q", transport.bodies[0])
	}

	exported, err := p.ExportLexicon(ctx, "greetings")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exported != "<lexicon/>" {
		t.Errorf("exported = %q", exported)
	}
}

func TestProvider_StreamingUnsupported(t *testing.T) {
	p := newTestProvider(&scriptedTransport{})

	_, err := p.CreateStream(context.Background(), inter.SynthesisOptions{VoiceID: "Joanna"})
	if !errors.IsCode(err, errors.CodeUnsupportedOperation) {
		t.Errorf("expected unsupported-operation, got %v", err)
	}
}
