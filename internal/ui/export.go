package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hayeah/fdl"
	"github.com/hayeah/fdl/internal/history"
	"github.com/hayeah/fdl/internal/selection"
	"github.com/hayeah/fdl/render"
)

// export is one encoded selection.
type export struct {
	block  string
	files  int
	tokens int
	failed int
}

// encodeSelection encodes the selected files in tree order. It reports false
// and sets the message when there is nothing to export.
func (a *App) encodeSelection() (export, bool) {
	records, failed := selection.Collect(a.view.Root())
	for _, f := range failed {
		a.log.Error("failed to read file for export", zap.String("path", f.Rel), zap.Error(f.Err))
	}
	if len(records) == 0 {
		if len(failed) > 0 {
			a.message = fmt.Sprintf("Nothing exported: %d selected files could not be read", len(failed))
		} else {
			a.message = "Nothing selected"
		}
		return export{}, false
	}

	block := fdl.Encode(records)
	_, tokens, _ := a.opt.Counter.Count(block)
	return export{block: block, files: len(records), tokens: tokens, failed: len(failed)}, true
}

func (a *App) exportClipboard() {
	ex, ok := a.encodeSelection()
	if !ok {
		return
	}
	if err := a.opt.Clipboard.WriteAll(ex.block); err != nil {
		a.log.Error("failed to write clipboard", zap.Error(err))
		a.message = fmt.Sprintf("Copy failed: %v", err)
		return
	}
	a.message = fmt.Sprintf("Copied %d files (%s, ~%d tokens) to clipboard", ex.files, render.Size(int64(len(ex.block))), ex.tokens)
	a.finishExport(ex, history.KindClipboard, "clipboard")
}

// exportFile writes the block to a timestamp-named file in the output directory.
func (a *App) exportFile() {
	ex, ok := a.encodeSelection()
	if !ok {
		return
	}
	name := "fdl_output_" + a.opt.Now().Format("20060102_150405") + ".txt"
	path := filepath.Join(a.opt.OutputDir, name)
	if err := os.WriteFile(path, []byte(ex.block), 0o644); err != nil {
		a.log.Error("failed to save export", zap.String("path", path), zap.Error(err))
		a.message = fmt.Sprintf("Save failed: %v", err)
		return
	}
	a.message = fmt.Sprintf("Saved %d files (%s, ~%d tokens) to %s", ex.files, render.Size(int64(len(ex.block))), ex.tokens, path)
	a.finishExport(ex, history.KindFile, path)
}

func (a *App) finishExport(ex export, kind, target string) {
	if ex.failed > 0 {
		a.message += fmt.Sprintf(", %d unreadable", ex.failed)
	}
	a.log.Info("exported selection",
		zap.String("kind", kind),
		zap.String("target", target),
		zap.Int("files", ex.files),
		zap.Int("bytes", len(ex.block)))

	entry := history.Entry{
		Kind:      kind,
		Root:      a.view.Root().Path,
		Target:    target,
		Files:     ex.files,
		Bytes:     int64(len(ex.block)),
		Tokens:    ex.tokens,
		CreatedAt: a.opt.Now(),
	}
	if _, err := a.opt.History.Record(entry); err != nil {
		a.log.Warn("failed to record history", zap.Error(err))
	}
}
