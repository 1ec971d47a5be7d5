// Package observability provides the logger, tracer and metrics sinks used
// by every entry point.
package observability

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a production JSON logger in production and a
// development console logger elsewhere. An empty level keeps the preset's
// default.
func NewLogger(environment, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if environment == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	if level = strings.TrimSpace(level); level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	return cfg.Build(zap.Fields(zap.String("environment", environment)))
}
