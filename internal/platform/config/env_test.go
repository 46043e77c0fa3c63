package config

import (
	"testing"
	"time"

	"ttsgateway/internal/platform/errors"
)

func TestRequire(t *testing.T) {
	t.Setenv("TTS_TEST_KEY", "secret")

	v, err := Require("TTS_TEST_KEY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "secret" {
		t.Errorf("value = %q", v)
	}
}

func TestRequire_Missing(t *testing.T) {
	t.Setenv("TTS_TEST_MISSING", "")

	_, err := Require("TTS_TEST_MISSING")
	if !errors.IsCode(err, errors.CodeInvalidConfiguration) {
		t.Errorf("expected invalid-configuration, got %v", err)
	}
}

func TestOrDefault(t *testing.T) {
	t.Setenv("TTS_TEST_SET", "custom")

	if got := OrDefault("TTS_TEST_SET", "fallback"); got != "custom" {
		t.Errorf("set variable: got %q", got)
	}
	if got := OrDefault("TTS_TEST_UNSET_XYZ", "fallback"); got != "fallback" {
		t.Errorf("unset variable: got %q", got)
	}
}

func TestIntOrDefault(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
	}{
		{"parseable", "7", 7},
		{"unparseable falls back", "seven", 3},
		{"empty falls back", "", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TTS_TEST_INT", tt.value)
			if got := IntOrDefault("TTS_TEST_INT", 3); got != tt.expected {
				t.Errorf("IntOrDefault() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestLoadProvider(t *testing.T) {
	t.Setenv("TTS_PROVIDER_ENDPOINT", "")
	t.Setenv("TTS_PROVIDER_TIMEOUT", "10")
	t.Setenv("TTS_PROVIDER_MAX_RETRIES", "")

	p := LoadProvider("https://api.example.com")
	if p.Endpoint != "https://api.example.com" {
		t.Errorf("endpoint = %q", p.Endpoint)
	}
	if p.Timeout != 10*time.Second {
		t.Errorf("timeout = %v", p.Timeout)
	}
	if p.MaxRetries != 3 {
		t.Errorf("max retries = %d", p.MaxRetries)
	}
}

func TestLoadProvider_EndpointOverride(t *testing.T) {
	t.Setenv("TTS_PROVIDER_ENDPOINT", "http://127.0.0.1:9999")

	p := LoadProvider("https://api.example.com")
	if p.Endpoint != "http://127.0.0.1:9999" {
		t.Errorf("endpoint = %q", p.Endpoint)
	}
}
