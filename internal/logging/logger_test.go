package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevels(t *testing.T) {
	t.Setenv("NEBULA_JSON_LOG", "")
	var buf bytes.Buffer
	logger := NewLogger("nebula", "info", &buf)

	logger.Debug("hidden")
	logger.Info("shown", "bits", 42)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "bits=42")
	assert.Contains(t, out, "nebula")
}

func TestOrNull(t *testing.T) {
	assert.NotNil(t, OrNull(nil))
	logger := NewLogger("x", "info", &bytes.Buffer{})
	assert.Equal(t, logger, OrNull(logger))
}
