package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/rice-detect/internal/config"
	"github.com/ironsheep/rice-detect/internal/result"
)

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"--version"}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "rice-detect")
	assert.Contains(t, stdout.String(), Version)
	assert.Empty(t, stderr.String())
}

func TestRun_RejectsArguments(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"image.png"}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())

	var env result.Envelope
	require.NoError(t, json.Unmarshal(stderr.Bytes(), &env))
	assert.NotEmpty(t, env.Error)
}

func TestBuild_MissingModel(t *testing.T) {
	root := t.TempDir()
	cfg, err := config.Load(root)
	require.NoError(t, err)

	r, log, err := build(cfg)
	require.NoError(t, err)
	defer func() { _ = log.Sync() }()

	// Streams stay live in this test; the model path is checked first anyway.
	r.Silence = func(fn func() error) error { return fn() }

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewGray(image.Rect(0, 0, 4, 4))))

	var stdout, stderr bytes.Buffer
	code := r.Run(&img, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())

	var env result.Envelope
	require.NoError(t, json.Unmarshal(stderr.Bytes(), &env))
	assert.Equal(t, "Model file not found at: "+filepath.Join(root, "pal-ai-model", "best.onnx"), env.Error)
}

func TestBuild_CustomCatalogAndLog(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "classes.yaml"), []byte(`
unknown_prefix: Unknown_Class_
fallback:
  description: none
  treatments: [consult an agronomist]
classes:
  - name: Brown Spot
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, config.FileName), []byte(`
catalog:
  file: classes.yaml
log:
  file: detect.log
`), 0o644))

	cfg, err := config.Load(root)
	require.NoError(t, err)

	r, log, err := build(cfg)
	require.NoError(t, err)
	require.NoError(t, log.Sync())

	assert.Equal(t, "Brown Spot", r.Serializer.Catalog.Name(0))
	assert.FileExists(t, filepath.Join(root, "detect.log"))
}
