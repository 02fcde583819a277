package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cupo/internal/config"
)

func TestNewLogger_JSONFieldNames(t *testing.T) {
	logger := NewLogger(config.LogConfig{Level: "warn", Format: "json"})
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	logger.Info("dropped")
	logger.WithField("trip_id", "trip-1").Warn("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "trip-1", entry["trip_id"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewLogger_Fallbacks(t *testing.T) {
	logger := NewLogger(config.LogConfig{Level: "loud", Format: "text"})

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	_, isText := logger.Formatter.(*logrus.TextFormatter)
	assert.True(t, isText)
}
