package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestHandlerRenamesStandardKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, slog.LevelInfo))
	logger.Debug("hidden")
	logger.Info("contract applied", "component", "processor")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "contract applied", line["message"])
	require.Equal(t, "INFO", line["severity"])
	require.Equal(t, "processor", line["component"])
	require.Contains(t, line, "timestamp")
	require.NotContains(t, line, "msg")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("WARN")
	require.NoError(t, err)
	require.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("verbose")
	require.Error(t, err)
}

func TestOptionsWriterRotatesFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.log")
	w := Options{File: path, MaxBackups: 2}.Writer()
	rotating, ok := w.(*lumberjack.Logger)
	require.True(t, ok)
	require.Equal(t, path, rotating.Filename)
	require.Equal(t, 100, rotating.MaxSize)
}
