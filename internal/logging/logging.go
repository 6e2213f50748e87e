// Package logging builds the zap loggers shared by the CLI, the HTTP API and
// the calculation engine.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production logger. level is a zap level name ("debug", "INFO", ...);
// an empty or unknown level keeps the production default. verbose forces debug.
func New(level string, verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if level != "" {
		if lvl, err := zapcore.ParseLevel(strings.ToLower(level)); err == nil {
			config.Level = zap.NewAtomicLevelAt(lvl)
		}
	}
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Calculation returns the printf-style logger handed to the calculation engine.
func Calculation(l *zap.Logger) *zap.SugaredLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return l.Named("calc").Sugar()
}
