package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			t.Setenv("XDG_STATE_HOME", tempDir)

			SetupLogger(tt.verbosity)

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())

			logPath := filepath.Join(tempDir, "piplayer", "piplayer.log")
			_, err := os.Stat(logPath)
			assert.NoError(t, err, "log file should exist at %s", logPath)
		})
	}
}

func TestGetLogFilePath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	assert.Equal(t, "/custom/state/piplayer/piplayer.log", getLogFilePath())

	t.Setenv("XDG_STATE_HOME", "")
	got := getLogFilePath()
	assert.True(t, strings.HasSuffix(got, filepath.Join("piplayer", "piplayer.log")), got)
}

func TestGetLogger(t *testing.T) {
	logger := GetLogger("test-component")
	assert.NotEqual(t, zerolog.Disabled, logger.GetLevel())
}

func TestWithFields(t *testing.T) {
	saved, level := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = saved
		zerolog.SetGlobalLevel(level)
	})
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var out bytes.Buffer
	log.Logger = zerolog.New(&out)
	logger := WithFields(map[string]interface{}{"component": "provision", "host": "pi1"})
	logger.Info().Msg("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, "provision", entry["component"])
	assert.Equal(t, "pi1", entry["host"])
	assert.Equal(t, "hello", entry["message"])
}

func TestLineWriter(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	var out bytes.Buffer
	logger := zerolog.New(&out)

	w := LineWriter(logger, zerolog.DebugLevel, "stdout")
	_, err := w.Write([]byte("starting\npart"))
	require.NoError(t, err)
	_, err = w.Write([]byte("ial\n\nlast"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"message":"starting"`)
	assert.Contains(t, lines[1], `"message":"partial"`)
	assert.Contains(t, lines[2], `"message":"last"`)
	assert.Contains(t, lines[2], `"stream":"stdout"`)
}
