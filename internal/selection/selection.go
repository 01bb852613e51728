// Package selection maintains which files of a tree are selected for export,
// along with running totals of the selection.
package selection

import "github.com/hayeah/fdl/internal/tree"

// Totals is the number and combined size of selected encodable files.
type Totals struct {
	Count int
	Size  int64
}

func (t Totals) Add(d Totals) Totals {
	return Totals{Count: t.Count + d.Count, Size: t.Size + d.Size}
}

func (t Totals) IsZero() bool {
	return t.Count == 0 && t.Size == 0
}

// Count computes the totals of root by visiting every node. Engine only does
// this once, at construction.
func Count(root *tree.Node) Totals {
	var t Totals
	root.Walk(func(n *tree.Node) bool {
		if !n.IsDir() && n.Encodable && n.Selected {
			t.Count++
			t.Size += n.Size
		}
		return true
	})
	return t
}

// Engine applies selection changes to a tree and keeps Totals in step with
// them incrementally.
type Engine struct {
	root   *tree.Node
	totals Totals
}

func New(root *tree.Node) *Engine {
	return &Engine{root: root, totals: Count(root)}
}

func (e *Engine) Root() *tree.Node {
	return e.root
}

func (e *Engine) Totals() Totals {
	return e.totals
}

// Toggle flips the selection of n and returns the change in totals.
func (e *Engine) Toggle(n *tree.Node) Totals {
	return e.Set(n, !n.Selected)
}

// Set selects or deselects n and, for a directory, every selectable node below
// it. Nodes already in the target state are left alone and add nothing to the
// returned delta. A non-selectable node is a no-op.
func (e *Engine) Set(n *tree.Node, target bool) Totals {
	if !n.Selectable() {
		return Totals{}
	}

	// first pass: find the nodes that change and what they are worth
	var changed []*tree.Node
	var delta Totals
	n.Walk(func(c *tree.Node) bool {
		if !c.Selectable() || c.Selected == target {
			return true
		}
		changed = append(changed, c)
		if !c.IsDir() {
			sign := 1
			if !target {
				sign = -1
			}
			delta.Count += sign
			delta.Size += int64(sign) * c.Size
		}
		return true
	})

	// second pass: apply
	for _, c := range changed {
		c.Selected = target
	}
	e.totals = e.totals.Add(delta)
	return delta
}

// SelectAll selects every encodable file.
func (e *Engine) SelectAll() Totals {
	return e.Set(e.root, true)
}

// SelectNone clears the selection.
func (e *Engine) SelectNone() Totals {
	return e.Set(e.root, false)
}
