package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kailas-cloud/assetdex/internal/version"
)

// Options tune the environment preset. Zero values keep the preset.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// NewLogger builds the process logger for env: prod logs sampled JSON,
// local/dev/docker log colored console lines, test discards everything.
// Entries carry the service name and build version.
func NewLogger(env string, opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	switch env {
	case "prod":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	case "local", "dev", "docker":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case "test":
		return zap.NewNop(), nil
	default:
		return nil, fmt.Errorf("unknown environment %q for logger", env)
	}

	if opts.Level != "" {
		level, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	switch opts.Format {
	case "":
	case "json", "console":
		cfg.Encoding = opts.Format
		if opts.Format == "json" {
			// color codes would end up in the JSON strings
			cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		}
	default:
		return nil, fmt.Errorf("invalid log format %q", opts.Format)
	}

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l.With(zap.String("service", "assetdex"), zap.String("version", version.Version)), nil
}
