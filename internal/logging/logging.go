// Package logging provides structured logging with zap.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger = zap.NewNop()
	globalLevel  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Config holds logging configuration.
type Config struct {
	Level      string `toml:"level"`  // debug, info, warn, error
	Format     string `toml:"format"` // json, console
	OutputPath string `toml:"path"`   // stderr, stdout or a file path; empty disables logging
}

// Init builds the global logger from cfg and returns it. An empty OutputPath
// installs a no-op logger.
func Init(cfg Config) (*zap.Logger, error) {
	if cfg.OutputPath == "" {
		globalLogger = zap.NewNop()
		return globalLogger, nil
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var config zap.Config
	if cfg.Format == "console" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}

	globalLevel.SetLevel(level)
	config.Level = globalLevel
	config.OutputPaths = []string{cfg.OutputPath}
	config.ErrorOutputPaths = []string{cfg.OutputPath}

	logger, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, err
	}

	globalLogger = logger
	return logger, nil
}

// Sync flushes any buffered log entries.
func Sync() error {
	return globalLogger.Sync()
}

// L returns the global logger.
func L() *zap.Logger {
	return globalLogger
}
