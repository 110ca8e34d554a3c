// Package config loads the per-deployment settings of the detector.
//
// Settings come from built-in defaults overlaid with an optional YAML file,
// rice-detect.yaml, in the install root (the directory holding the resolved
// executable). The process reads no environment variables and no arguments, so
// every invocation of one deployment behaves the same way.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
)

// FileName is the optional configuration file looked up in the install root.
const FileName = "rice-detect.yaml"

// ModelConfig locates the model artifact and tunes the backend.
type ModelConfig struct {
	Dir           string  `koanf:"dir"`
	File          string  `koanf:"file"`
	Runtime       string  `koanf:"runtime"`
	InputSize     int     `koanf:"inputsize"`
	Confidence    float64 `koanf:"confidence"`
	IoU           float64 `koanf:"iou"`
	MaxDetections int     `koanf:"maxdetections"`
	Threads       int     `koanf:"threads"`
}

// InputConfig bounds the accepted input.
type InputConfig struct {
	MaxBytes  int64 `koanf:"maxbytes"`
	MaxPixels int   `koanf:"maxpixels"`
}

// OutputConfig selects the output schema for the deployment.
type OutputConfig struct {
	Enriched bool `koanf:"enriched"`
}

// CatalogConfig points at an alternative class catalog.
type CatalogConfig struct {
	File string `koanf:"file"`
}

// LogConfig controls the diagnostic log. Logging is off unless File is set.
type LogConfig struct {
	File  string `koanf:"file"`
	Level string `koanf:"level"`
	Debug bool   `koanf:"debug"`
}

// AppConfig is the full deployment configuration.
type AppConfig struct {
	Model   ModelConfig   `koanf:"model"`
	Input   InputConfig   `koanf:"input"`
	Output  OutputConfig  `koanf:"output"`
	Catalog CatalogConfig `koanf:"catalog"`
	Log     LogConfig     `koanf:"log"`

	// Root is the install root every relative path is resolved against.
	Root string `koanf:"-"`
}

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	return map[string]any{
		"model.dir":           "pal-ai-model",
		"model.file":          "best.onnx",
		"model.runtime":       defaultRuntimeLibrary(),
		"model.inputsize":     640,
		"model.confidence":    0.25,
		"model.iou":           0.7,
		"model.maxdetections": 300,
		"model.threads":       1,
		"input.maxbytes":      int64(50 << 20),
		"input.maxpixels":     40_000_000,
		"output.enriched":     true,
		"catalog.file":        "",
		"log.file":            "",
		"log.level":           "info",
		"log.debug":           false,
	}
}

// defaultRuntimeLibrary names the ONNX Runtime shared library shipped under lib/.
func defaultRuntimeLibrary() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join("lib", "onnxruntime.dll")
	case "darwin":
		return filepath.Join("lib", "libonnxruntime.dylib")
	default:
		return filepath.Join("lib", "libonnxruntime.so")
	}
}

// InstallRoot returns the directory of the running executable, following
// symlinks so that a linked binary still finds its bundled model.
func InstallRoot() (string, error) {
	exePath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	if real, err := filepath.EvalSymlinks(exePath); err == nil {
		exePath = real
	}
	return filepath.Dir(exePath), nil
}

// Load builds the configuration for the install root. A missing config file is
// not an error; an unreadable or invalid one is.
func Load(root string) (*AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.Root = root

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateConfig rejects settings the pipeline cannot honor.
func ValidateConfig(cfg *AppConfig) error {
	var problems []string

	if cfg.Model.File == "" {
		problems = append(problems, "model.file is empty")
	}
	if cfg.Model.InputSize <= 0 || cfg.Model.InputSize%32 != 0 {
		problems = append(problems, fmt.Sprintf("model.inputsize %d is not a positive multiple of 32", cfg.Model.InputSize))
	}
	if cfg.Model.Confidence < 0 || cfg.Model.Confidence > 1 {
		problems = append(problems, fmt.Sprintf("model.confidence %v is outside [0,1]", cfg.Model.Confidence))
	}
	if cfg.Model.IoU < 0 || cfg.Model.IoU > 1 {
		problems = append(problems, fmt.Sprintf("model.iou %v is outside [0,1]", cfg.Model.IoU))
	}
	if cfg.Model.MaxDetections < 0 {
		problems = append(problems, "model.maxdetections is negative")
	}
	if cfg.Model.Threads < 0 {
		problems = append(problems, "model.threads is negative")
	}
	if cfg.Input.MaxBytes <= 0 {
		problems = append(problems, "input.maxbytes must be positive")
	}
	if cfg.Input.MaxPixels <= 0 {
		problems = append(problems, "input.maxpixels must be positive")
	}
	switch strings.ToLower(cfg.Log.File) {
	case "stdout", "stderr", "/dev/stdout", "/dev/stderr":
		problems = append(problems, "log.file may not be a standard stream")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Resolve makes p absolute relative to the install root. Empty stays empty.
func (c *AppConfig) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// ModelPath is the model artifact location: <root>/<model.dir>/<model.file>.
func (c *AppConfig) ModelPath() string {
	return c.Resolve(filepath.Join(c.Model.Dir, c.Model.File))
}

// RuntimePath is the ONNX Runtime shared library location.
func (c *AppConfig) RuntimePath() string {
	return c.Resolve(c.Model.Runtime)
}
