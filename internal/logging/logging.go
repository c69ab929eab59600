// Package logging builds the zap logger shared by every component.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Option func(cfg *zap.Config)

// WithLevel sets the minimum level. Unknown names fall back to info.
func WithLevel(levelStr string) Option {
	return func(cfg *zap.Config) {
		cfg.Level = zap.NewAtomicLevelAt(ParseLevel(levelStr))
	}
}

// WithDevelopment switches to the human-readable console encoder.
func WithDevelopment(dev bool) Option {
	return func(cfg *zap.Config) {
		if !dev {
			return
		}
		dcfg := zap.NewDevelopmentConfig()
		dcfg.Level = cfg.Level
		dcfg.OutputPaths = cfg.OutputPaths
		dcfg.InitialFields = cfg.InitialFields
		*cfg = dcfg
	}
}

// WithOutput redirects log lines, e.g. to a file while the console front end owns stdout.
func WithOutput(paths ...string) Option {
	return func(cfg *zap.Config) {
		if len(paths) == 0 {
			return
		}
		cfg.OutputPaths = paths
	}
}

func WithFields(fields map[string]interface{}) Option {
	return func(cfg *zap.Config) {
		if cfg.InitialFields == nil {
			cfg.InitialFields = map[string]interface{}{}
		}
		for key, value := range fields {
			if key == "" {
				continue
			}
			cfg.InitialFields[key] = value
		}
	}
}

func New(options ...Option) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	for _, option := range options {
		option(&cfg)
	}
	return cfg.Build()
}

func ParseLevel(levelStr string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
