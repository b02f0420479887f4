package utils

import (
	"bytes"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWith(&buf, "info", "json")

	logger.Info("loaded %d listings", 42)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "loaded 42 listings", entry["message"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWith(&buf, "warn", "json")

	logger.Info("hidden")
	logger.Debug("hidden too")
	assert.Zero(t, buf.Len())

	logger.Warn("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWith(&buf, "debug", "json").With("pricing")

	logger.Duration("rank", time.Now())

	assert.Contains(t, buf.String(), `"component":"pricing"`)
	assert.Contains(t, buf.String(), `"step":"rank"`)
}

func TestLogger_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWith(&buf, "", "console")

	logger.Error("boom: %v", "bad row")
	assert.Contains(t, buf.String(), "ERR")
	assert.Contains(t, buf.String(), "boom: bad row")
}
