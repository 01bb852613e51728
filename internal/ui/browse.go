package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hayeah/fdl/internal/tree"
	"github.com/hayeah/fdl/render"
)

func (a *App) browseKey(k tea.KeyMsg) {
	v := a.view
	switch {
	case key.Matches(k, browseKeys.Up):
		v.Move(-1)
	case key.Matches(k, browseKeys.Down):
		v.Move(1)
	case key.Matches(k, browseKeys.PageUp):
		v.PageUp()
	case key.Matches(k, browseKeys.PageDown):
		v.PageDown()
	case key.Matches(k, browseKeys.Home):
		v.Home()
	case key.Matches(k, browseKeys.End):
		v.End()
	case key.Matches(k, browseKeys.Collapse):
		v.Collapse()
	case key.Matches(k, browseKeys.Expand):
		v.Expand()
	case key.Matches(k, browseKeys.Select):
		if n := v.Current(); n != nil {
			a.sel.Set(n, true)
		}
	case key.Matches(k, browseKeys.Deselect):
		if n := v.Current(); n != nil {
			a.sel.Set(n, false)
		}
	case key.Matches(k, browseKeys.Toggle):
		if n := v.Current(); n != nil {
			a.sel.Toggle(n)
		}
	case key.Matches(k, browseKeys.All):
		a.sel.SelectAll()
	case key.Matches(k, browseKeys.None):
		a.sel.SelectNone()
	case key.Matches(k, browseKeys.Sort):
		order := v.ToggleOrder()
		a.message = "Sorted by " + order.String()
	case key.Matches(k, browseKeys.Preview):
		a.openPreview()
	case key.Matches(k, browseKeys.Search):
		a.openSearch()
	case key.Matches(k, browseKeys.Copy):
		a.exportClipboard()
	case key.Matches(k, browseKeys.Save):
		a.exportFile()
	case key.Matches(k, browseKeys.Quit):
		a.mode = ModeQuitConfirm
	}
}

// browseFrame renders the header, the visible part of the tree and the footer.
func (a *App) browseFrame() []string {
	w := a.width
	frame := make([]string, 0, a.height)
	frame = append(frame, a.styles.Header.Render(render.Fit(a.header(), w)))

	rows := a.view.Visible()
	cursor := a.view.Cursor() - a.view.Top()
	for i := 0; i < a.listRows(); i++ {
		if i < len(rows) {
			frame = append(frame, a.row(rows[i], i == cursor))
		} else {
			frame = append(frame, render.Fit("", w))
		}
	}

	if a.height > 1 {
		frame = append(frame, a.footer())
	}
	return frame
}

func (a *App) header() string {
	t := a.sel.Totals()
	return fmt.Sprintf("FDL Exporter | Selected: %s (%d) | Total: %s (%d) | Sort: %s",
		render.Size(t.Size), t.Count,
		render.Size(a.result.EncodableSize), a.result.EncodableCount,
		a.view.Order())
}

func (a *App) footer() string {
	w := a.width
	switch {
	case a.mode == ModeSearch:
		return render.Fit(a.searchLine(), w)
	case a.message != "":
		return a.styles.Message.Render(render.Fit(a.message, w))
	}
	return render.Fit(a.help.View(browseKeys), w)
}

// row renders one tree entry: indent, checkbox, expander, name and size.
func (a *App) row(n *tree.Node, atCursor bool) string {
	w := a.width

	var b strings.Builder
	b.WriteString(strings.Repeat("  ", n.Depth))
	if n.Selected && n.Selectable() {
		b.WriteString("[✓] ")
	} else {
		b.WriteString("[ ] ")
	}
	switch {
	case !n.IsDir():
		b.WriteString("  ")
	case n.Expanded:
		b.WriteString("▾ ")
	default:
		b.WriteString("▸ ")
	}
	b.WriteString(n.Name)
	if n.IsDir() {
		b.WriteString("/")
	}
	switch {
	case n.Symlink:
		b.WriteString(" (link)")
	case n.Unreadable:
		b.WriteString(" (unreadable)")
	}

	size := render.Size(n.Size) + " "
	line := render.Spread(b.String(), size, w)

	switch {
	case atCursor:
		return a.styles.Cursor.Render(render.Fit(line, w))
	case !n.Selectable():
		return a.styles.Dim.Render(render.Fit(line, w))
	case n.Selected && !n.IsDir():
		return a.styles.Checked.Render(render.Fit(line, w))
	}
	return render.Fit(line, w)
}
