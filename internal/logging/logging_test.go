package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
		{"trace", zerolog.TraceLevel},
		{" DEBUG ", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_JSONOutputWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "debug", Format: JSONFormat, Output: &buf})
	require.NoError(t, err)
	defer func() { _ = closeFn() }()

	viewer := Component(logger, "viewer")
	viewer.Info().Int("lines", 5).Msg("loaded")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "viewer", line["component"])
	assert.Equal(t, "loaded", line["message"])
	assert.Equal(t, "info", line["level"])
	assert.EqualValues(t, 5, line["lines"])
}

func TestNew_ConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Options{Output: &buf})
	require.NoError(t, err)

	client := Component(logger, "client")
	client.Warn().Str("endpoint", "x").Msg("slow")
	logger.Debug().Msg("hidden")

	out := buf.String()
	assert.Contains(t, out, "[client]")
	assert.Contains(t, out, "slow")
	assert.Contains(t, out, "endpoint=x")
	assert.NotContains(t, out, "component=")
	assert.NotContains(t, out, "hidden")
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "chatlog.log")
	logger, closeFn, err := New(Options{File: path, Format: JSONFormat})
	require.NoError(t, err)

	logger.Error().Msg("boom")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"boom"`))
}

func TestNew_NoFileIsNop(t *testing.T) {
	logger, closeFn, err := New(Options{})
	require.NoError(t, err)
	assert.NoError(t, closeFn())
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}
