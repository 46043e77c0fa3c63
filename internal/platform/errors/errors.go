// Package errors defines the closed domain error taxonomy shared by every
// TTS provider adapter. No transport-level error type escapes a provider
// boundary: everything is translated into a *Error before it reaches a caller.
package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

type Code string

const (
	CodeNetworkError         Code = "network-error"
	CodeUnauthorized         Code = "unauthorized"
	CodeAccessDenied         Code = "access-denied"
	CodeRateLimited          Code = "rate-limited"
	CodeServiceUnavailable   Code = "service-unavailable"
	CodeInvalidText          Code = "invalid-text"
	CodeInvalidConfiguration Code = "invalid-configuration"
	CodeVoiceNotFound        Code = "voice-not-found"
	CodeTextTooLong          Code = "text-too-long"
	CodeInvalidSsml          Code = "invalid-ssml"
	CodeSynthesisFailed      Code = "synthesis-failed"
	CodeUnsupportedOperation Code = "unsupported-operation"
	CodeSessionNotFound      Code = "session-not-found"
	CodeInternalError        Code = "internal-error"
)

// Error is the only error shape surfaced by public operations.
// RetryAfter is set for rate-limited, MaxChars for text-too-long.
type Error struct {
	Code       Code
	Op         string
	Message    string
	RetryAfter uint32
	MaxChars   uint32
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Code, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Code, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(code Code, op, message string) *Error {
	return &Error{Code: code, Op: op, Message: message}
}

func Wrap(code Code, op, message string, err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	return &Error{Code: code, Op: op, Message: message, Cause: err}
}

func Network(op, message string) *Error {
	return New(CodeNetworkError, op, message)
}

func Unauthorized(op, message string) *Error {
	return New(CodeUnauthorized, op, message)
}

func AccessDenied(op, message string) *Error {
	return New(CodeAccessDenied, op, message)
}

func RateLimited(op string, retryAfter uint32) *Error {
	return &Error{
		Code:       CodeRateLimited,
		Op:         op,
		Message:    fmt.Sprintf("rate limited, retry after %ds", retryAfter),
		RetryAfter: retryAfter,
	}
}

func ServiceUnavailable(op, message string) *Error {
	return New(CodeServiceUnavailable, op, message)
}

func InvalidText(op, message string) *Error {
	return New(CodeInvalidText, op, message)
}

func InvalidConfiguration(op, message string) *Error {
	return New(CodeInvalidConfiguration, op, message)
}

func VoiceNotFound(op, message string) *Error {
	return New(CodeVoiceNotFound, op, message)
}

func TextTooLong(op string, maxChars uint32) *Error {
	return &Error{
		Code:     CodeTextTooLong,
		Op:       op,
		Message:  fmt.Sprintf("text exceeds the provider limit of %d characters", maxChars),
		MaxChars: maxChars,
	}
}

func InvalidSsml(op, message string) *Error {
	return New(CodeInvalidSsml, op, message)
}

func SynthesisFailed(op, message string) *Error {
	return New(CodeSynthesisFailed, op, message)
}

func Unsupported(op, reason string) *Error {
	return New(CodeUnsupportedOperation, op, reason)
}

func SessionNotFound(op, sessionID string) *Error {
	return New(CodeSessionNotFound, op, "session not found: "+sessionID)
}

func Internal(op, message string) *Error {
	return New(CodeInternalError, op, message)
}

// IsCode checks whether any error in the chain matches the provided code.
func IsCode(err error, code Code) bool {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Code == code
	}
	return false
}

// CodeOf returns the domain code of err, or internal-error for anything untyped.
func CodeOf(err error) Code {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Code
	}
	return CodeInternalError
}

// IsRetryable reports whether the error is classified as transient. Only this
// set is eligible for automatic retry; client-caused errors are permanent.
func IsRetryable(err error) bool {
	switch CodeOf(err) {
	case CodeNetworkError, CodeRateLimited, CodeServiceUnavailable, CodeInternalError:
		return true
	}
	return false
}

// statusCarrier is implemented by transport errors that captured an HTTP
// response (see httpx.StatusError). Declared here as a local interface so the
// taxonomy does not depend on the transport package.
type statusCarrier interface {
	HTTPStatus() int
	ResponseBody() []byte
}

// Translate converts an arbitrary failure into a domain error. Transport
// errors carrying an HTTP status go through FromStatus; anything else is a
// network failure (connection refused, timeout, truncated body).
func Translate(op string, err error, maxChars uint32) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	var sc statusCarrier
	if errors.As(err, &sc) {
		return FromStatus(op, sc.HTTPStatus(), sc.ResponseBody(), maxChars)
	}

	return Wrap(CodeNetworkError, op, "request failed", err)
}

// FromStatus maps a non-2xx HTTP response onto the domain taxonomy. maxChars
// is the provider's input limit, carried into text-too-long errors.
//
// 401 unauthorized, 403 access denied, 429 rate limited with a fixed 60s
// hint, 503 service unavailable, 400 classified by message content, 404
// voice detection, everything else synthesis-failed.
func FromStatus(op string, status int, body []byte, maxChars uint32) *Error {
	message := messageFromBody(body)

	switch status {
	case 401:
		return Unauthorized(op, "unauthorized")
	case 403:
		return AccessDenied(op, "access denied")
	case 429:
		return RateLimited(op, 60)
	case 503:
		return ServiceUnavailable(op, "service unavailable")
	case 400:
		lower := strings.ToLower(message)
		switch {
		case strings.Contains(lower, "too long"):
			return TextTooLong(op, maxChars)
		case strings.Contains(lower, "ssml"):
			return InvalidSsml(op, message)
		default:
			return InvalidText(op, message)
		}
	case 404:
		if strings.Contains(strings.ToLower(message), "voice") {
			return VoiceNotFound(op, message)
		}
		return ServiceUnavailable(op, message)
	default:
		return SynthesisFailed(op, fmt.Sprintf("HTTP %d: %s", status, message))
	}
}

// messageFromBody pulls a human-readable message out of a provider error
// body. Providers disagree on the field name, so the common ones are tried
// before falling back to the raw body text.
func messageFromBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var parsed struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := sonic.Unmarshal(body, &parsed); err == nil {
		switch {
		case parsed.Message != "":
			return parsed.Message
		case parsed.Detail != "":
			return parsed.Detail
		case parsed.Error.Message != "":
			return parsed.Error.Message
		}
	}

	return string(body)
}
