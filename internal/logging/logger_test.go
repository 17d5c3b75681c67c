package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	logger, err := New("debug")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected debug level to be enabled")
	}

	logger, err = New("warn")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("expected info level to be disabled at warn")
	}
}

func TestNewInvalidLevel(t *testing.T) {
	if _, err := New("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
