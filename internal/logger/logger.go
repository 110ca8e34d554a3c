// Package logger builds the process's zap logger.
//
// Standard output and standard error belong to the result contract, so the
// logger never writes there: it is a no-op unless a log file is configured.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ironsheep/rice-detect/internal/config"
)

// New returns a logger for cfg. path is the resolved log file location; an
// empty path yields zap.NewNop().
func New(cfg config.LogConfig, path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		l, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = l
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	if cfg.Debug {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.Lock(f),
		level,
	)

	opts := []zap.Option{zap.Fields(zap.Int("pid", os.Getpid()))}
	if cfg.Debug {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(core, opts...), nil
}
