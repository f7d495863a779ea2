package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/friendsearch/internal/config"
)

func TestNewWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	log, err := New(config.LogConfig{File: path, Level: "info"}, true)
	require.NoError(t, err)

	log.Info("search finished")
	log.Debug("dropped by level")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "INFO", entry["level"])
	require.Equal(t, "search finished", entry["message"])
	require.Contains(t, entry, "timestamp")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"}, true)
	require.Error(t, err)
}

func TestNewQuietWithoutFileIsNop(t *testing.T) {
	log, err := New(config.LogConfig{Level: "debug"}, true)
	require.NoError(t, err)
	require.NotNil(t, log)
	log.Info("goes nowhere")
}
