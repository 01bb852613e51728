package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hayeah/fdl"
	"github.com/hayeah/fdl/internal/history"
)

// UnpackCmd writes the files of an FDL block under a directory.
type UnpackCmd struct {
	Dest   string `arg:"positional" default:"." help:"destination directory, created if missing"`
	Input  string `arg:"-i,--input" help:"read the block from FILE, or - for stdin (default: clipboard)"`
	DryRun bool   `arg:"-n,--dry-run" help:"print what would be written"`
}

// Unpack decodes a block and writes its records. Records that fail to write
// are reported and skipped; only input that is not a block fails the command.
func (r *Runner) Unpack(cmd UnpackCmd) error {
	text, source, err := r.readInput(cmd.Input)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("nothing to unpack: %s is empty", source)
	}

	if cmd.DryRun {
		return r.planUnpack(cmd.Dest, text)
	}

	batch, result, err := fdl.UnpackString(cmd.Dest, text)
	if err != nil {
		return err
	}
	r.warn(batch)

	for _, path := range result.Written {
		fmt.Fprintf(r.Stdout, "created %s\n", path)
	}
	for _, e := range result.Errors {
		r.Env.Logger.Error("failed to write file", zap.String("path", e.Path), zap.Error(e.Err))
		fmt.Fprintf(r.Stderr, "error: %v\n", e)
	}
	fmt.Fprintf(r.Stderr, "unpacked %d of %d files into %s\n", len(result.Written), len(batch.Records), cmd.Dest)

	dest, err := filepath.Abs(cmd.Dest)
	if err != nil {
		dest = cmd.Dest
	}
	if _, err := r.Env.History.Record(history.Entry{
		Kind:   history.KindUnpack,
		Root:   dest,
		Target: source,
		Files:  len(result.Written),
		Bytes:  int64(len(text)),
	}); err != nil {
		r.Env.Logger.Warn("failed to record history", zap.Error(err))
	}
	return nil
}

// planUnpack prints the writes an unpack would do, and the checks they fail.
func (r *Runner) planUnpack(dest, text string) error {
	batch, err := fdl.Decode(text)
	if err != nil {
		return err
	}
	r.warn(batch)

	for _, action := range fdl.Plan(dest, batch.Records) {
		if err := action.Verify(); err != nil {
			fmt.Fprintf(r.Stdout, "skip %s: %v\n", action.Record.Path, err)
			continue
		}
		fmt.Fprintln(r.Stdout, action.Description())
	}
	return nil
}

func (r *Runner) warn(batch *fdl.Batch) {
	for _, w := range batch.Warnings {
		r.Env.Logger.Warn("malformed record", zap.Int("index", w.Index), zap.String("reason", w.Reason))
		fmt.Fprintf(r.Stderr, "warning: %v\n", w)
	}
}

// readInput returns the block text and a name for where it came from.
func (r *Runner) readInput(input string) (string, string, error) {
	switch input {
	case "":
		text, err := r.Env.Clipboard.ReadAll()
		if err != nil {
			return "", "", fmt.Errorf("failed to read clipboard: %w", err)
		}
		return text, "clipboard", nil
	case "-":
		data, err := io.ReadAll(r.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	data, err := os.ReadFile(input)
	if errors.Is(err, os.ErrNotExist) {
		return "", "", fmt.Errorf("input file %s does not exist", input)
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", input, err)
	}
	return string(data), input, nil
}
