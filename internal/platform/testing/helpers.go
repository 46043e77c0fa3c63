package testing

import (
	"testing"

	"ttsgateway/internal/platform/errors"
	"ttsgateway/internal/platform/logging"
)

func SetupTestLogger(t *testing.T) *logging.Logger {
	t.Helper()

	logger, err := logging.New(logging.Config{Level: "debug"})
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return logger
}

func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error but got nil")
	}
}

func AssertCode(t *testing.T, err error, code errors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error but got nil", code)
	}
	if !errors.IsCode(err, code) {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}

func AssertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if expected != actual {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}
