package main

import (
	"go.uber.org/zap"

	"github.com/hayeah/fdl/internal/clip"
	"github.com/hayeah/fdl/internal/config"
	"github.com/hayeah/fdl/internal/history"
	"github.com/hayeah/fdl/internal/logging"
	"github.com/hayeah/fdl/internal/metrics"
)

// Env is the set of services a command runs with.
type Env struct {
	Args      Args
	Config    *config.Config
	Logger    *zap.Logger
	Store     *history.Store // nil when history is disabled or unavailable
	History   history.Recorder
	Counter   metrics.Counter
	Clipboard clip.Clipboard
}

// ProvideConfig loads the config file and applies the global flags over it.
func ProvideConfig(args Args) (*config.Config, error) {
	cfg, err := config.Load(args.Config)
	if err != nil {
		return nil, err
	}
	if args.LogFile != "" {
		cfg.Log.OutputPath = args.LogFile
	}
	if args.LogLevel != "" {
		cfg.Log.Level = args.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ProvideLogger builds the global logger. The browser owns the terminal, so
// it logs only to a configured file; the other commands fall back to warnings
// on stderr.
func ProvideLogger(args Args, cfg *config.Config) (*zap.Logger, error) {
	lc := cfg.Log
	if !args.interactive() && lc.OutputPath == "" {
		lc = logging.Config{Level: "warn", Format: "console", OutputPath: "stderr"}
		if args.LogLevel != "" {
			lc.Level = args.LogLevel
		}
	}
	return logging.Init(lc)
}

// ProvideStore opens the history database. A database that cannot be opened
// disables history instead of failing the command.
func ProvideStore(cfg *config.Config, logger *zap.Logger) (*history.Store, func(), error) {
	if !cfg.History.Enabled || cfg.History.Path == "" {
		return nil, func() {}, nil
	}
	store, err := history.Open(cfg.History.Path, logger)
	if err != nil {
		logger.Warn("history disabled", zap.String("path", cfg.History.Path), zap.Error(err))
		return nil, func() {}, nil
	}
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close history", zap.Error(err))
		}
	}, nil
}

func ProvideRecorder(store *history.Store) history.Recorder {
	if store == nil {
		return history.Nop{}
	}
	return store
}

// ProvideCounter returns the configured token counter, falling back to the
// simple estimate when the tiktoken encoding cannot be loaded.
func ProvideCounter(cfg *config.Config, logger *zap.Logger) metrics.Counter {
	c, err := metrics.NewCounter(cfg.Tokenizer, cfg.TiktokenModel)
	if err != nil {
		logger.Warn("using simple token estimate", zap.Error(err))
		return &metrics.SimpleCounter{}
	}
	return c
}

// ProvideClipboard returns the system clipboard.
func ProvideClipboard(logger *zap.Logger) clip.Clipboard {
	if clip.Unsupported() {
		logger.Warn("no clipboard utility found; clipboard export and unpack will fail")
	}
	return clip.System{}
}
