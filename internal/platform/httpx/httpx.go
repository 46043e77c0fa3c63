// Package httpx is the HTTP gateway every provider adapter talks through.
// It wraps net/http with a small builder API, reads response bodies eagerly,
// and reports non-2xx responses as *StatusError so callers can translate
// them into domain errors without touching net/http themselves.
package httpx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"ttsgateway/internal/platform/retry"
)

const DefaultTimeout = 30 * time.Second

// Client issues requests. The transport is swappable for tests.
type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// WithTransport replaces the underlying round tripper. Test hook.
func (c *Client) WithTransport(rt http.RoundTripper) *Client {
	c.http.Transport = rt
	return c
}

func (c *Client) Get(rawURL string) *Request    { return c.newRequest(http.MethodGet, rawURL) }
func (c *Client) Post(rawURL string) *Request   { return c.newRequest(http.MethodPost, rawURL) }
func (c *Client) Put(rawURL string) *Request    { return c.newRequest(http.MethodPut, rawURL) }
func (c *Client) Delete(rawURL string) *Request { return c.newRequest(http.MethodDelete, rawURL) }

func (c *Client) newRequest(method, rawURL string) *Request {
	return &Request{
		client: c,
		method: method,
		url:    rawURL,
		header: make(http.Header),
	}
}

// Request accumulates method, URL, headers and body before Send.
type Request struct {
	client *Client
	method string
	url    string
	header http.Header
	body   []byte
	err    error
}

func (r *Request) Header(key, value string) *Request {
	r.header.Set(key, value)
	return r
}

// JSON sets a JSON request body and the matching content type.
func (r *Request) JSON(v any) *Request {
	data, err := sonic.Marshal(v)
	if err != nil {
		r.err = fmt.Errorf("encode request body: %w", err)
		return r
	}
	r.body = data
	r.header.Set("Content-Type", "application/json")
	return r
}

// Body sets a raw request body with an explicit content type.
func (r *Request) Body(contentType string, data []byte) *Request {
	r.body = data
	if contentType != "" {
		r.header.Set("Content-Type", contentType)
	}
	return r
}

// Form sets a URL-encoded form body.
func (r *Request) Form(values url.Values) *Request {
	r.body = []byte(values.Encode())
	r.header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

// Payload returns the accumulated body bytes. Signing layers need the exact
// bytes that will go on the wire.
func (r *Request) Payload() []byte {
	return r.body
}

// Send executes the request and drains the response body. Any status is
// returned as a normal *Response; use ErrorForStatus to reject non-2xx.
func (r *Request) Send(ctx context.Context) (*Response, error) {
	if r.err != nil {
		return nil, r.err
	}

	var bodyReader io.Reader
	if r.body != nil {
		bodyReader = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := r.client.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", r.method, r.url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   data,
	}, nil
}

// SendWithRetry executes the request under the given policy, retrying
// transport failures and responses whose raw status is 429 or 5xx. The final
// response is returned even when its status is still an error so the caller
// can translate the actual body.
func (r *Request) SendWithRetry(ctx context.Context, policy *retry.Policy) (*Response, error) {
	var resp *Response
	err := policy.Do(ctx, func() error {
		var sendErr error
		resp, sendErr = r.Send(ctx)
		if sendErr != nil {
			return sendErr
		}
		if retry.RetryableStatus(resp.Status) {
			return resp.ErrorForStatus()
		}
		return nil
	})
	if err != nil {
		if resp != nil {
			return resp, nil
		}
		return nil, err
	}
	return resp, nil
}

// Response is a fully-read HTTP response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// ErrorForStatus returns a *StatusError for non-2xx responses, nil otherwise.
func (r *Response) ErrorForStatus() error {
	if r.OK() {
		return nil
	}
	return &StatusError{Status: r.Status, Body: r.Body}
}

// DecodeJSON unmarshals the body into v.
func (r *Response) DecodeJSON(v any) error {
	if err := sonic.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// StatusError carries the status and body of a rejected response so the
// error translator can classify it.
type StatusError struct {
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	return fmt.Sprintf("HTTP %d: %s", e.Status, body)
}

func (e *StatusError) HTTPStatus() int      { return e.Status }
func (e *StatusError) ResponseBody() []byte { return e.Body }
