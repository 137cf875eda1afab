package utils

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerToRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, "warn", false)

	logger.Info("should be suppressed")
	assert.Empty(t, buf.String())

	logger.Warn("should appear")
	assert.Contains(t, buf.String(), "should appear")
}

func TestNewLoggerToJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, "info", true)

	logger.Info("structured", "service", "database")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "structured", entry["msg"])
	assert.Equal(t, "database", entry["service"])
}

func TestNewLoggerToUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, "chatty", false)

	logger.Debug("suppressed")
	assert.Empty(t, buf.String())
	logger.Info("visible")
	assert.NotEmpty(t, buf.String())
}

func TestParseRFC3339(t *testing.T) {
	ts, err := ParseRFC3339("2025-01-15T14:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 2025, ts.Year())

	_, err = ParseRFC3339("")
	assert.Error(t, err)
	_, err = ParseRFC3339("yesterday")
	assert.Error(t, err)
}
