package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ironsheep/rice-detect/internal/config"
)

func TestNew_NopWithoutFile(t *testing.T) {
	l, err := New(config.LogConfig{Level: "debug"}, "")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.ErrorLevel))
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "detect.log")

	l, err := New(config.LogConfig{Level: "info"}, path)
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("decoded image", zap.Int("width", 640))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "decoded image", entry["msg"])
	assert.Equal(t, float64(640), entry["width"])
	assert.Contains(t, entry, "pid")
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "chatty"}, filepath.Join(t.TempDir(), "x.log"))
	assert.Error(t, err)
}
