package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/cstlint/cstlint/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		expected zapcore.Level
		wantErr  bool
	}{
		{in: "debug", expected: zapcore.DebugLevel},
		{in: "INFO", expected: zapcore.InfoLevel},
		{in: "", expected: zapcore.InfoLevel},
		{in: "warning", expected: zapcore.WarnLevel},
		{in: "error", expected: zapcore.ErrorLevel},
		{in: "trace", wantErr: true},
	}
	for _, tt := range tests {
		got, err := logger.ParseLevel(tt.in)
		if tt.wantErr {
			require.Error(t, err, "level %q", tt.in)
			continue
		}
		require.NoError(t, err, "level %q", tt.in)
		assert.Equal(t, tt.expected, got)
	}
}

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := logger.New("warn", logger.FormatJSON, &buf)
	require.NoError(t, err)

	log.Info("dropped")
	log.Warn("file failed", zap.String("file", "Main.kt"))
	require.NoError(t, log.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "file failed", entry["msg"])
	assert.Equal(t, "Main.kt", entry["file"])
}

func TestNew_Console(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := logger.New("debug", logger.FormatConsole, &buf)
	require.NoError(t, err)

	log.Debug("rules scheduled", zap.Int("rules", 6))
	out := buf.String()
	assert.Contains(t, out, " | DEBUG | rules scheduled")
	assert.Contains(t, out, `{"rules": 6}`)
}

func TestNew_Off(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := logger.New("off", logger.FormatConsole, &buf)
	require.NoError(t, err)
	log.Error("ignored")
	assert.Empty(t, buf.String())
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := logger.New("loud", logger.FormatConsole, &bytes.Buffer{})
	require.Error(t, err)

	_, err = logger.New("info", "xml", &bytes.Buffer{})
	require.Error(t, err)
}
