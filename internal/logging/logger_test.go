package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, FormatText, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Warn("source failed", "error", errors.New("boom"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "err=boom")
}

func TestNewWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, ParseFormat("JSON"), slog.LevelDebug)
	logger.Debug("tick", "tick", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "tick", rec["msg"])
	assert.EqualValues(t, 3, rec["tick"])
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatText, ParseFormat(""))
	assert.Equal(t, FormatText, ParseFormat("logfmt"))
	assert.Equal(t, FormatJSON, ParseFormat("json"))
}
