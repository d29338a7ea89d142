package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"contact-gateway/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"Error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := parseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseLevel("loud")
	assert.Error(t, err)
}

func TestSetup_FileOutputWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "contact.log")

	logger, closer, err := Setup(config.LogConfig{
		Level:  "debug",
		Format: "json",
		Output: "file",
		File:   path,
	})
	require.NoError(t, err)
	require.NotNil(t, closer)

	logger.Debug("hello", "key", "value")
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(raw))), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "value", line["key"])
	assert.Equal(t, "contact-api", line["service"])
}

func TestSetup_StdoutHasNoCloser(t *testing.T) {
	logger, closer, err := Setup(config.LogConfig{Level: "info", Format: "text", Output: "stdout"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.Nil(t, closer)
}

func TestSetup_FileOutputRequiresPath(t *testing.T) {
	_, _, err := Setup(config.LogConfig{Output: "file"})
	assert.ErrorContains(t, err, "LOG_FILE")
}

func TestSetup_RejectsUnknownLevel(t *testing.T) {
	_, _, err := Setup(config.LogConfig{Level: "chatty"})
	assert.Error(t, err)
}
