package httpx

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"ttsgateway/internal/platform/retry"
)

// scriptedTransport serves canned responses in order, recording requests.
type scriptedTransport struct {
	responses []*http.Response
	requests  []*http.Request
}

func (s *scriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.requests = append(s.requests, req)
	if len(s.responses) == 0 {
		return textResponse(500, "no scripted response"), nil
	}
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

func TestRequest_Send(t *testing.T) {
	transport := &scriptedTransport{responses: []*http.Response{
		textResponse(200, `{"ok":true}`),
	}}
	client := NewClient(time.Second).WithTransport(transport)

	resp, err := client.Post("https://api.example.com/v1/speech").
		Header("Authorization", "Token abc").
		JSON(map[string]string{"text": "hello"}).
		Send(context.Background())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.OK() {
		t.Errorf("status = %d, expected 2xx", resp.Status)
	}
	if string(resp.Body) != `{"ok":true}` {
		t.Errorf("body = %q", resp.Body)
	}

	req := transport.requests[0]
	if req.Method != http.MethodPost {
		t.Errorf("method = %s, expected POST", req.Method)
	}
	if got := req.Header.Get("Authorization"); got != "Token abc" {
		t.Errorf("authorization header = %q", got)
	}
	if got := req.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("content type = %q", got)
	}
}

func TestResponse_ErrorForStatus(t *testing.T) {
	resp := &Response{Status: 404, Body: []byte(`{"message":"voice not found"}`)}
	err := resp.ErrorForStatus()
	if err == nil {
		t.Fatal("expected error for 404")
	}

	statusErr, ok := err.(*StatusError)
	if !ok {
		t.Fatalf("expected *StatusError, got %T", err)
	}
	if statusErr.HTTPStatus() != 404 {
		t.Errorf("status = %d", statusErr.HTTPStatus())
	}
	if !strings.Contains(statusErr.Error(), "HTTP 404") {
		t.Errorf("error string %q missing status", statusErr.Error())
	}

	ok2 := &Response{Status: 200}
	if ok2.ErrorForStatus() != nil {
		t.Error("2xx should not produce an error")
	}
}

func TestRequest_SendWithRetry_RecoversFrom503(t *testing.T) {
	transport := &scriptedTransport{responses: []*http.Response{
		textResponse(503, "unavailable"),
		textResponse(503, "unavailable"),
		textResponse(200, "audio-bytes"),
	}}
	client := NewClient(time.Second).WithTransport(transport)
	policy := retry.NewPolicy(retry.DefaultConfig()).
		WithSleep(func(ctx context.Context, d time.Duration) error { return nil })

	resp, err := client.Post("https://api.example.com/v1/speech").
		Body("text/plain", []byte("hello")).
		SendWithRetry(context.Background(), policy)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != 200 {
		t.Errorf("status = %d, expected 200", resp.Status)
	}
	if len(transport.requests) != 3 {
		t.Errorf("made %d requests, expected 3", len(transport.requests))
	}
}

func TestRequest_SendWithRetry_DoesNotRetryClientErrors(t *testing.T) {
	transport := &scriptedTransport{responses: []*http.Response{
		textResponse(401, "bad key"),
	}}
	client := NewClient(time.Second).WithTransport(transport)
	policy := retry.NewPolicy(retry.DefaultConfig()).
		WithSleep(func(ctx context.Context, d time.Duration) error { return nil })

	resp, err := client.Get("https://api.example.com/v1/voices").
		SendWithRetry(context.Background(), policy)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != 401 {
		t.Errorf("status = %d, expected 401 passed back for translation", resp.Status)
	}
	if len(transport.requests) != 1 {
		t.Errorf("made %d requests, expected 1", len(transport.requests))
	}
}

func TestRequest_SendWithRetry_ExhaustionReturnsLastResponse(t *testing.T) {
	transport := &scriptedTransport{responses: []*http.Response{
		textResponse(500, "boom"),
		textResponse(500, "boom"),
		textResponse(500, "boom"),
		textResponse(429, "slow down"),
	}}
	client := NewClient(time.Second).WithTransport(transport)
	policy := retry.NewPolicy(retry.DefaultConfig()).
		WithSleep(func(ctx context.Context, d time.Duration) error { return nil })

	resp, err := client.Post("https://api.example.com/v1/speech").
		SendWithRetry(context.Background(), policy)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != 429 {
		t.Errorf("status = %d, expected the final 429 back", resp.Status)
	}
	if len(transport.requests) != 4 {
		t.Errorf("made %d requests, expected 4", len(transport.requests))
	}
}

func TestResponse_DecodeJSON(t *testing.T) {
	resp := &Response{Status: 200, Body: []byte(`{"audioContent":"aGk="}`)}

	var out struct {
		AudioContent string `json:"audioContent"`
	}
	if err := resp.DecodeJSON(&out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.AudioContent != "aGk=" {
		t.Errorf("decoded %q", out.AudioContent)
	}
}
