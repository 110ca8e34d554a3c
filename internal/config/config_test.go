package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, root, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(body), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "pal-ai-model", cfg.Model.Dir)
	assert.Equal(t, "best.onnx", cfg.Model.File)
	assert.Equal(t, 640, cfg.Model.InputSize)
	assert.Equal(t, 0.25, cfg.Model.Confidence)
	assert.Equal(t, 0.7, cfg.Model.IoU)
	assert.Equal(t, 300, cfg.Model.MaxDetections)
	assert.Equal(t, int64(50<<20), cfg.Input.MaxBytes)
	assert.Equal(t, 40_000_000, cfg.Input.MaxPixels)
	assert.True(t, cfg.Output.Enriched)
	assert.Empty(t, cfg.Log.File)
	assert.Equal(t, filepath.Join(root, "pal-ai-model", "best.onnx"), cfg.ModelPath())
	assert.Equal(t, filepath.Join(root, defaultRuntimeLibrary()), cfg.RuntimePath())
}

func TestLoad_FileOverrides(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
model:
  dir: models/v2
  confidence: 0.4
output:
  enriched: false
log:
  file: logs/detect.log
  level: debug
`)

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "models", "v2", "best.onnx"), cfg.ModelPath())
	assert.Equal(t, 0.4, cfg.Model.Confidence)
	assert.Equal(t, 0.7, cfg.Model.IoU, "unset keys keep their defaults")
	assert.False(t, cfg.Output.Enriched)
	assert.Equal(t, filepath.Join(root, "logs", "detect.log"), cfg.Resolve(cfg.Log.File))
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_AbsolutePathsKept(t *testing.T) {
	root := t.TempDir()
	abs := filepath.Join(t.TempDir(), "ort.so")
	writeConfig(t, root, "model:\n  runtime: "+abs+"\n")

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.RuntimePath())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"confidence", "model:\n  confidence: 1.5\n", "model.confidence"},
		{"input size", "model:\n  inputsize: 600\n", "model.inputsize"},
		{"max bytes", "input:\n  maxbytes: 0\n", "input.maxbytes"},
		{"log to stdout", "log:\n  file: stdout\n", "standard stream"},
		{"broken yaml", "model: [", "failed to load"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeConfig(t, root, tt.body)

			_, err := Load(root)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInstallRoot(t *testing.T) {
	root, err := InstallRoot()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(root))
}
