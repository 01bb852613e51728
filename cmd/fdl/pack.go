package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/hayeah/fdl"
	"github.com/hayeah/fdl/internal/history"
	"github.com/hayeah/fdl/internal/metrics"
	"github.com/hayeah/fdl/internal/metrics/chart"
	"github.com/hayeah/fdl/internal/progress"
	"github.com/hayeah/fdl/internal/selection"
	"github.com/hayeah/fdl/internal/tree"
	"github.com/hayeah/fdl/render"
)

// PackCmd encodes a directory without the browser.
type PackCmd struct {
	Dir       string   `arg:"positional" default:"." help:"directory to pack"`
	Exclude   []string `arg:"-x,--exclude,separate" help:"glob excluded at the root level (repeatable)"`
	Gitignore bool     `arg:"--gitignore" help:"also exclude root-level entries matched by the root .gitignore"`
	Output    string   `arg:"-o,--output" help:"write to FILE, or - for stdout (default: clipboard)"`
	Stats     bool     `arg:"--stats" help:"print a per-file token breakdown"`
	JSON      bool     `arg:"--json" help:"print --stats as JSON instead of a chart"`
	Quiet     bool     `arg:"-q,--quiet" help:"no progress spinner"`
}

// Pack encodes every text file under cmd.Dir, in tree order.
func (r *Runner) Pack(cmd PackCmd) error {
	b, err := r.builder(scanOptions{Dir: cmd.Dir, Exclude: cmd.Exclude, Gitignore: cmd.Gitignore})
	if err != nil {
		return err
	}
	res := r.scan(b, cmd.Quiet)

	records, failed := selection.Collect(res.Root)
	for _, f := range failed {
		r.Env.Logger.Error("failed to read file", zap.String("path", f.Rel), zap.Error(f.Err))
	}
	if len(records) == 0 {
		return fmt.Errorf("no text files under %s", cmd.Dir)
	}

	block := fdl.Encode(records)
	target, err := r.writeBlock(cmd.Output, block)
	if err != nil {
		return err
	}

	_, tokens, _ := r.Env.Counter.Count(block)
	fmt.Fprintf(r.Stderr, "packed %d files (%s, ~%d tokens) to %s\n",
		len(records), render.Size(int64(len(block))), tokens, target)

	if _, err := r.Env.History.Record(history.Entry{
		Kind:   history.KindPack,
		Root:   res.Root.Path,
		Target: target,
		Files:  len(records),
		Bytes:  int64(len(block)),
		Tokens: tokens,
	}); err != nil {
		r.Env.Logger.Warn("failed to record history", zap.Error(err))
	}

	if cmd.Stats {
		m := metrics.NewOutputMetrics(r.Env.Counter, runtime.NumCPU())
		for _, rec := range records {
			m.Add(metrics.TypeFile, rec.Path, rec.Content)
		}
		m.Add(metrics.TypeHeader, fdl.Marker, headers(records))
		if cmd.JSON {
			m.Wait()
			data, err := json.Marshal(m)
			if err != nil {
				return fmt.Errorf("failed to encode stats: %w", err)
			}
			_, err = fmt.Fprintf(r.Stderr, "%s\n", data)
			return err
		}
		return chart.Print(m, chart.DefaultOptions(termWidth(), r.Stderr))
	}
	return nil
}

// scan runs b in the background and reports its progress on a spinner.
func (r *Runner) scan(b *tree.Builder, quiet bool) *tree.Result {
	tracker := progress.New()
	b.Progress = tracker
	results := b.Start()
	if quiet {
		return <-results
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(r.Stderr),
		progressbar.OptionSetDescription("scanning"),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case res := <-results:
			_ = bar.Finish()
			return res
		case <-ticker.C:
			s := tracker.Snapshot()
			bar.Describe(fmt.Sprintf("scanning %s", s.Path))
			_ = bar.Set(s.Scanned)
		}
	}
}

// writeBlock sends block to output and returns a name for where it went.
func (r *Runner) writeBlock(output, block string) (string, error) {
	switch output {
	case "":
		if err := r.Env.Clipboard.WriteAll(block); err != nil {
			return "", fmt.Errorf("failed to write clipboard: %w", err)
		}
		return "clipboard", nil
	case "-":
		if _, err := io.WriteString(r.Stdout, block); err != nil {
			return "", err
		}
		return "stdout", nil
	}

	if err := os.WriteFile(output, []byte(block), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", output, err)
	}
	return output, nil
}

// headers is the record header text of a block, counted apart from content.
func headers(records []fdl.Record) string {
	var sb strings.Builder
	for _, rec := range records {
		sb.WriteString(fdl.Marker + " " + rec.Path + "\n")
	}
	return sb.String()
}

// termWidth returns the width of the terminal, or 80 as a fallback.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
