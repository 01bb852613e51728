// Package view projects a tree onto the ordered row list the browser shows,
// and tracks the cursor and the scrolled viewport over that list.
package view

import "github.com/hayeah/fdl/internal/tree"

// Flatten lists root and, below every expanded directory, its children in
// pre-order. The root is always the first row.
func Flatten(root *tree.Node) []*tree.Node {
	var rows []*tree.Node
	var walk func(n *tree.Node)
	walk = func(n *tree.Node) {
		rows = append(rows, n)
		if n.IsDir() && n.Expanded {
			for _, c := range n.Children {
				walk(c)
			}
		}
	}
	walk(root)
	return rows
}

// Model is the browser's list state.
type Model struct {
	root     *tree.Node
	rows     []*tree.Node
	order    tree.Criterion
	cursor   int
	top      int
	viewport int
}

// New flattens root. Call SetViewport before relying on scrolling.
func New(root *tree.Node, order tree.Criterion) *Model {
	m := &Model{root: root, order: order, viewport: 1}
	m.refresh()
	return m
}

func (m *Model) Root() *tree.Node      { return m.root }
func (m *Model) Rows() []*tree.Node    { return m.rows }
func (m *Model) Len() int              { return len(m.rows) }
func (m *Model) Cursor() int           { return m.cursor }
func (m *Model) Top() int              { return m.top }
func (m *Model) Viewport() int         { return m.viewport }
func (m *Model) Order() tree.Criterion { return m.order }

// Current returns the node under the cursor.
func (m *Model) Current() *tree.Node {
	if len(m.rows) == 0 {
		return nil
	}
	return m.rows[m.cursor]
}

// Visible returns the rows inside the viewport.
func (m *Model) Visible() []*tree.Node {
	end := m.top + m.viewport
	if end > len(m.rows) {
		end = len(m.rows)
	}
	return m.rows[m.top:end]
}

// SetViewport sets the number of rows the viewport can show.
func (m *Model) SetViewport(height int) {
	if height < 1 {
		height = 1
	}
	m.viewport = height
	m.ensureVisible()
}

// Move shifts the cursor by delta rows, clamped to the list.
func (m *Model) Move(delta int) {
	m.SetCursor(m.cursor + delta)
}

func (m *Model) PageUp()   { m.Move(-m.viewport) }
func (m *Model) PageDown() { m.Move(m.viewport) }
func (m *Model) Home()     { m.SetCursor(0) }
func (m *Model) End()      { m.SetCursor(len(m.rows) - 1) }

// SetCursor places the cursor at row i, clamped to the list.
func (m *Model) SetCursor(i int) {
	m.cursor = i
	m.clamp()
	m.ensureVisible()
}

// Expand opens the directory under the cursor. It reports false, changing
// nothing, when the row is a file or an already expanded directory.
func (m *Model) Expand() bool {
	n := m.Current()
	if n == nil || !n.IsDir() || n.Expanded {
		return false
	}
	n.Expanded = true
	m.refresh()
	return true
}

// Collapse closes the directory under the cursor. It reports false, changing
// nothing, when the row is a file or an already collapsed directory.
func (m *Model) Collapse() bool {
	n := m.Current()
	if n == nil || !n.IsDir() || !n.Expanded {
		return false
	}
	n.Expanded = false
	m.refresh()
	return true
}

// ToggleOrder switches between name and size order, re-sorts the whole tree
// and keeps the cursor on the same node.
func (m *Model) ToggleOrder() tree.Criterion {
	m.SetOrder(m.order.Next())
	return m.order
}

// SetOrder re-sorts the tree by c.
func (m *Model) SetOrder(c tree.Criterion) {
	current := m.Current()
	m.order = c
	tree.Sort(m.root, c)
	m.refresh()
	m.focus(current)
}

// Reveal expands every ancestor of the node at rel and moves the cursor onto
// it. It reports false when no such node exists.
func (m *Model) Reveal(rel string) bool {
	ancestors := m.root.Ancestors(rel)
	if ancestors == nil {
		return false
	}
	for _, a := range ancestors {
		a.Expanded = true
	}
	m.refresh()
	return m.focus(m.root.Find(rel))
}

func (m *Model) focus(n *tree.Node) bool {
	for i, r := range m.rows {
		if r == n {
			m.SetCursor(i)
			return true
		}
	}
	return false
}

// refresh re-flattens the tree after a structural change.
func (m *Model) refresh() {
	m.rows = Flatten(m.root)
	m.clamp()
	m.ensureVisible()
}

func (m *Model) clamp() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// ensureVisible moves the viewport the least distance that brings the cursor
// into it.
func (m *Model) ensureVisible() {
	if m.cursor < m.top {
		m.top = m.cursor
	}
	if m.cursor > m.top+m.viewport-1 {
		m.top = m.cursor - m.viewport + 1
	}

	// keep the viewport filled after the list shrank
	if last := len(m.rows) - m.viewport; m.top > last {
		m.top = last
	}
	if m.top < 0 {
		m.top = 0
	}
}
