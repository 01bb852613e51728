package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/hayeah/fdl/ignore"
	"github.com/hayeah/fdl/internal/term"
	"github.com/hayeah/fdl/internal/tree"
	"github.com/hayeah/fdl/internal/ui"
)

// BrowseCmd opens the interactive browser.
type BrowseCmd struct {
	Dir       string   `arg:"positional" default:"." help:"directory to browse"`
	Exclude   []string `arg:"-x,--exclude,separate" help:"glob excluded at the root level (repeatable)"`
	Gitignore bool     `arg:"--gitignore" help:"also exclude root-level entries matched by the root .gitignore"`
	Sort      string   `arg:"--sort" help:"initial order: name or size"`
	OutputDir string   `arg:"--output-dir" help:"directory for saved exports"`
}

// scanOptions are the flags shared by browse and pack.
type scanOptions struct {
	Dir       string
	Exclude   []string
	Gitignore bool
	Sort      string
}

// builder returns a tree builder for opts merged over the config.
func (r *Runner) builder(opts scanOptions) (*tree.Builder, error) {
	cfg := r.Env.Config

	info, err := os.Stat(opts.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("directory %s not found", opts.Dir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", opts.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", opts.Dir)
	}

	patterns := append(append([]string{}, cfg.Exclude...), opts.Exclude...)
	matcher, err := ignore.New(patterns)
	if err != nil {
		return nil, err
	}
	if cfg.Gitignore || opts.Gitignore {
		if err := matcher.LoadGitignoreDir(opts.Dir); err != nil {
			r.Env.Logger.Warn("ignoring .gitignore", zap.String("root", opts.Dir), zap.Error(err))
		}
	}

	order := cfg.SortOrder()
	if opts.Sort != "" {
		if order, err = tree.ParseCriterion(opts.Sort); err != nil {
			return nil, err
		}
	}

	return &tree.Builder{
		Root:    opts.Dir,
		Exclude: matcher,
		Sort:    order,
		Logger:  r.Env.Logger,
	}, nil
}

// Browse runs the interactive browser on the controlling terminal.
func (r *Runner) Browse(cmd BrowseCmd) error {
	b, err := r.builder(scanOptions{Dir: cmd.Dir, Exclude: cmd.Exclude, Gitignore: cmd.Gitignore, Sort: cmd.Sort})
	if err != nil {
		return err
	}

	outputDir := r.Env.Config.OutputDir
	if cmd.OutputDir != "" {
		outputDir = cmd.OutputDir
	}

	t, err := term.Open()
	if err != nil {
		return err
	}
	defer t.Close()

	app := ui.New(ui.Options{
		Builder:      b,
		Clipboard:    r.Env.Clipboard,
		History:      r.Env.History,
		Counter:      r.Env.Counter,
		OutputDir:    outputDir,
		Renderer:     lipgloss.NewRenderer(t.File()),
		Logger:       r.Env.Logger,
		PollInterval: r.Env.Config.PollInterval.Duration,
	})
	if err := app.Run(t); err != nil {
		return fmt.Errorf("browser: %w", err)
	}
	return nil
}
