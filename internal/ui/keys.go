package ui

import "github.com/charmbracelet/bubbles/key"

// browseKeyMap defines keybindings for the tree browser.
type browseKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Collapse key.Binding
	Expand   key.Binding
	Select   key.Binding
	Deselect key.Binding
	Toggle   key.Binding
	All      key.Binding
	None     key.Binding
	Sort     key.Binding
	Preview  key.Binding
	Search   key.Binding
	Copy     key.Binding
	Save     key.Binding
	Quit     key.Binding
	Abort    key.Binding
}

var browseKeys = browseKeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓", "move")),
	Down:     key.NewBinding(key.WithKeys("down", "j")),
	PageUp:   key.NewBinding(key.WithKeys("pgup")),
	PageDown: key.NewBinding(key.WithKeys("pgdown")),
	Home:     key.NewBinding(key.WithKeys("home", "g")),
	End:      key.NewBinding(key.WithKeys("end", "G")),
	Collapse: key.NewBinding(key.WithKeys("left", "h")),
	Expand:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("←→", "expand/collapse")),
	Select:   key.NewBinding(key.WithKeys("+", "=")),
	Deselect: key.NewBinding(key.WithKeys("-")),
	Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("+/-/spc", "toggle")),
	All:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a/n", "all/none")),
	None:     key.NewBinding(key.WithKeys("n")),
	Sort:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "sort")),
	Preview:  key.NewBinding(key.WithKeys("p", "P", "enter"), key.WithHelp("p", "preview")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find")),
	Copy:     key.NewBinding(key.WithKeys("c", "C"), key.WithHelp("c", "copy")),
	Save:     key.NewBinding(key.WithKeys("s", "S"), key.WithHelp("s", "save")),
	Quit:     key.NewBinding(key.WithKeys("q", "Q"), key.WithHelp("q", "quit")),
	Abort:    key.NewBinding(key.WithKeys("ctrl+c")),
}

// ShortHelp is the footer line of the browser.
func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Expand, k.Sort, k.Preview, k.Toggle, k.All, k.Search, k.Save, k.Copy, k.Quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// previewKeyMap defines keybindings for the preview overlay.
type previewKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Markdown key.Binding
	Close    key.Binding
}

var previewKeys = previewKeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓", "scroll")),
	Down:     key.NewBinding(key.WithKeys("down", "j")),
	PageUp:   key.NewBinding(key.WithKeys("pgup")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", " ")),
	Top:      key.NewBinding(key.WithKeys("home", "g")),
	Bottom:   key.NewBinding(key.WithKeys("end", "G")),
	Markdown: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "markdown")),
	Close:    key.NewBinding(key.WithKeys("p", "P", "q", "Q", "esc"), key.WithHelp("p/q/esc", "close")),
}

func (k previewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Markdown, k.Close}
}

func (k previewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
