// Package config reads provider configuration from the environment.
// Every provider is configured the same way: credentials plus optional
// endpoint, timeout and retry overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"ttsgateway/internal/platform/errors"
)

// LoadDotEnv loads a .env file when present. Missing files are fine; the
// process environment is the source of truth either way.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("no .env file found, using process environment")
	}
}

// Require returns the value of key or an invalid-configuration error when
// the variable is unset or empty.
func Require(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", errors.InvalidConfiguration("config",
			fmt.Sprintf("required environment variable %s not set or empty", key))
	}
	return v, nil
}

// Optional returns the value of key and whether it was set to something
// non-empty.
func Optional(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

// OrDefault returns the value of key, or fallback when unset or empty.
func OrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// IntOrDefault parses key as an integer, returning fallback when unset or
// unparseable.
func IntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// SecondsOrDefault parses key as a whole number of seconds.
func SecondsOrDefault(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}

// Provider holds the knobs shared by every provider client.
type Provider struct {
	Endpoint   string
	Timeout    time.Duration
	MaxRetries uint32
}

// LoadProvider reads the shared provider settings. defaultEndpoint is the
// provider's public API base; TTS_PROVIDER_ENDPOINT overrides it for tests
// and proxies.
func LoadProvider(defaultEndpoint string) Provider {
	return Provider{
		Endpoint:   OrDefault("TTS_PROVIDER_ENDPOINT", defaultEndpoint),
		Timeout:    SecondsOrDefault("TTS_PROVIDER_TIMEOUT", 30*time.Second),
		MaxRetries: uint32(IntOrDefault("TTS_PROVIDER_MAX_RETRIES", 3)),
	}
}
