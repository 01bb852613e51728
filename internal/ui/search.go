package ui

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hayeah/fdl/internal/search"
	"github.com/hayeah/fdl/internal/tree"
)

type searchState struct {
	input textinput.Model
	paths []string // relative paths of every node but the root
	best  string   // best match for the current query
	err   error    // the query does not parse
}

// index records the paths that can be searched.
func (s *searchState) index(root *tree.Node) {
	s.paths = s.paths[:0]
	root.Walk(func(n *tree.Node) bool {
		if n.Rel != "" {
			s.paths = append(s.paths, n.Rel)
		}
		return true
	})
}

// match ranks the paths against the query and remembers the best one.
func (s *searchState) match() {
	s.best, s.err = search.Best(s.input.Value(), s.paths)
}

func (a *App) openSearch() {
	in := &a.search.input
	in.Reset()
	in.Cursor.SetMode(cursor.CursorStatic)
	in.Focus()
	a.search.best, a.search.err = "", nil
	a.mode = ModeSearch
}

func (a *App) searchKey(k tea.KeyMsg) {
	s := &a.search
	switch k.Type {
	case tea.KeyEsc:
		s.input.Blur()
		a.mode = ModeBrowse
		return
	case tea.KeyEnter:
		s.input.Blur()
		a.mode = ModeBrowse
		switch {
		case s.best == "":
			a.message = "No match"
		case a.view.Reveal(s.best):
			a.message = "Found " + s.best
		}
		return
	}

	s.input, _ = s.input.Update(k)
	s.match()
}

// searchLine is the footer while searching: the input and its best match.
func (a *App) searchLine() string {
	line := a.search.input.View()
	switch {
	case a.search.err != nil:
		line += "  " + a.search.err.Error()
	case a.search.best != "":
		line += "  → " + a.search.best
	}
	return line
}
