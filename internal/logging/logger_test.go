package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warn"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("info"))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "warn", LevelWarn.String())
	assert.Equal(t, "error", LevelError.String())
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelWarn, Format: "text", Output: &buf})

	logger.Debug("debug message")
	logger.Info("info message")
	assert.Empty(t, buf.String())

	logger.Warn("warn message")
	assert.Contains(t, buf.String(), "warn message")
}

func TestLoggerComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Format: "text", Output: &buf})

	scoped := logger.WithComponent("module/date")
	scoped.Info("rebuilding cache")

	out := buf.String()
	assert.Contains(t, out, "module/date")
	assert.Contains(t, out, "rebuilding cache")
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Format: "json", Output: &buf})

	logger.With("module", "volume").Info("started", "workers", 2)

	out := buf.String()
	assert.Contains(t, out, `"module":"volume"`)
	assert.Contains(t, out, `"workers":2`)
}

func TestLoggerError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Format: "text", Output: &buf})

	logger.Error(errors.New("socket closed"), "halting")

	out := buf.String()
	assert.Contains(t, out, "socket closed")
	assert.Contains(t, out, "halting")
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := Nop()
	// Must not panic and must accept all shapes.
	logger.Debug("a")
	logger.Info("b", "k", "v")
	logger.Warn("c")
	logger.Error(errors.New("x"), "d")

	assert.NotNil(t, logger.With("k", "v"))
}
