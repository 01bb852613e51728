package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/hayeah/fdl"
	"github.com/hayeah/fdl/internal/tree"
	"github.com/hayeah/fdl/render"
)

type previewState struct {
	node     *tree.Node
	markdown bool // show the glamour rendering instead of the raw text
	lines    []string
	vp       viewport.Model
}

// previewBox returns the outer size and position of the preview overlay.
func (a *App) previewBox() (x, y, w, h int) {
	w = max(a.width-10, 20)
	h = max(a.height-6, 10)
	return max((a.width-w)/2, 0), max((a.height-h)/2, 0), w, h
}

// previewTextWidth is the width of the text inside the box: the border and a
// leading space take three cells.
func (a *App) previewTextWidth() int {
	_, _, w, _ := a.previewBox()
	return w - 3
}

func isMarkdown(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// openPreview shows the file under the cursor. Only a selected text file can
// be previewed.
func (a *App) openPreview() {
	n := a.view.Current()
	if n == nil || n.IsDir() || !n.Encodable || !n.Selected {
		return
	}
	a.preview = previewState{node: n}
	if err := a.layoutPreview(); err != nil {
		a.log.Error("failed to read file for preview", zap.String("path", n.Rel), zap.Error(err))
		a.message = fmt.Sprintf("Cannot preview %s: %v", n.Rel, err)
		a.preview = previewState{}
		return
	}
	a.mode = ModePreview
}

// layoutPreview fills the preview line buffer for the current box size.
func (a *App) layoutPreview() error {
	p := &a.preview
	_, _, _, h := a.previewBox()
	width := a.previewTextWidth()

	text, err := a.previewText(p.node, p.markdown, width)
	if err != nil {
		return err
	}

	p.lines = p.lines[:0]
	for _, l := range strings.Split(text, "\n") {
		p.lines = append(p.lines, render.Fit(l, width))
	}

	offset := p.vp.YOffset
	p.vp = viewport.New(width, render.BodyRows(h))
	p.vp.SetContent(strings.Join(p.lines, "\n"))
	p.vp.SetYOffset(offset)
	return nil
}

// previewText returns the content to show for n, from the cache when it was
// loaded before.
func (a *App) previewText(n *tree.Node, markdown bool, width int) (string, error) {
	rawKey := "raw:" + n.Path
	raw, ok := a.cache.Get(rawKey)
	if !ok {
		data, err := os.ReadFile(n.Path)
		if err != nil {
			return "", err
		}
		text := fdl.NormalizeNewlines(string(data))
		text = strings.ReplaceAll(text, "\t", "    ")
		text = strings.TrimSuffix(text, "\n")
		a.cache.Set(rawKey, text, cache.NoExpiration)
		raw = text
	}
	if !markdown {
		return raw.(string), nil
	}

	mdKey := fmt.Sprintf("md:%d:%s", width, n.Path)
	if md, ok := a.cache.Get(mdKey); ok {
		return md.(string), nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(raw.(string))
	if err != nil {
		return "", err
	}
	out = strings.Trim(out, "\n")
	a.cache.Set(mdKey, out, cache.NoExpiration)
	return out, nil
}

func (a *App) previewKey(k tea.KeyMsg) {
	vp := &a.preview.vp
	switch {
	case key.Matches(k, previewKeys.Close):
		a.preview = previewState{}
		a.mode = ModeBrowse
		a.redraw = true
	case key.Matches(k, previewKeys.Up):
		vp.LineUp(1)
	case key.Matches(k, previewKeys.Down):
		vp.LineDown(1)
	case key.Matches(k, previewKeys.PageUp):
		vp.ViewUp()
	case key.Matches(k, previewKeys.PageDown):
		vp.ViewDown()
	case key.Matches(k, previewKeys.Top):
		vp.GotoTop()
	case key.Matches(k, previewKeys.Bottom):
		vp.GotoBottom()
	case key.Matches(k, previewKeys.Markdown):
		if !isMarkdown(a.preview.node.Name) {
			return
		}
		a.preview.markdown = !a.preview.markdown
		a.preview.vp.SetYOffset(0)
		if err := a.layoutPreview(); err != nil {
			a.log.Warn("failed to render markdown", zap.String("path", a.preview.node.Rel), zap.Error(err))
			a.message = "Markdown rendering failed"
			a.preview.markdown = false
			_ = a.layoutPreview()
		}
	}
}

// visibleLines returns the part of the line buffer inside the viewport.
func (p *previewState) visibleLines() []string {
	top := p.vp.YOffset
	end := min(top+p.vp.Height, len(p.lines))
	if top >= end {
		return nil
	}
	return p.lines[top:end]
}

// previewFrame overlays the preview box on the browser.
func (a *App) previewFrame() []string {
	p := &a.preview
	x, y, w, h := a.previewBox()

	title := " " + p.node.Rel + " "
	if p.markdown {
		title += "(rendered) "
	}

	pos := fmt.Sprintf(" Ln %d/%d ", min(p.vp.YOffset+1, len(p.lines)), len(p.lines))
	help := a.help.ShortHelpView(previewKeys.ShortHelp())
	if a.message != "" {
		help = a.styles.Message.Render(a.message)
	}
	footer := render.Spread(a.styles.PreviewBar.Render(pos), help+" ", w-2)

	box := render.Box(a.styles.Title.Render(title), p.visibleLines(), footer, w, h)
	return render.Overlay(a.browseFrame(), box, x, y, a.width)
}
