package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hayeah/fdl/internal/tree"
)

func file(name string, size int64) *tree.Node {
	return &tree.Node{Name: name, Kind: tree.File, Size: size, Encodable: true}
}

func dir(name string, children ...*tree.Node) *tree.Node {
	d := &tree.Node{Name: name, Kind: tree.Directory, Children: children}
	for _, c := range children {
		d.Size += c.Size
	}
	return d
}

// fixture builds root/{src/{a.go,b.go}, docs/{x.md}, big.txt, small.txt} with
// Rel paths filled in.
func fixture() *tree.Node {
	root := dir("root",
		dir("src", file("a.go", 10), file("b.go", 30)),
		dir("docs", file("x.md", 1)),
		file("big.txt", 500),
		file("small.txt", 2),
	)
	var setRel func(n *tree.Node, prefix string, depth int)
	setRel = func(n *tree.Node, prefix string, depth int) {
		n.Depth = depth
		for _, c := range n.Children {
			c.Rel = prefix + c.Name
			setRel(c, c.Rel+"/", depth+1)
		}
	}
	setRel(root, "", 0)
	tree.Sort(root, tree.ByName)
	return root
}

func rels(rows []*tree.Node) []string {
	var out []string
	for _, r := range rows {
		out = append(out, r.Rel)
	}
	return out
}

func TestFlatten(t *testing.T) {
	assert := assert.New(t)
	root := fixture()

	assert.Equal([]string{""}, rels(Flatten(root)), "root starts collapsed")

	root.Expanded = true
	assert.Equal([]string{"", "docs", "src", "big.txt", "small.txt"}, rels(Flatten(root)))

	root.Find("src").Expanded = true
	assert.Equal([]string{"", "docs", "src", "src/a.go", "src/b.go", "big.txt", "small.txt"}, rels(Flatten(root)))

	// a collapsed ancestor hides an expanded descendant
	root.Expanded = false
	assert.Equal([]string{""}, rels(Flatten(root)))
}

func TestExpandCollapseAsymmetric(t *testing.T) {
	assert := assert.New(t)
	m := New(fixture(), tree.ByName)

	assert.False(m.Collapse(), "collapsing a collapsed directory is a no-op")
	assert.True(m.Expand())
	assert.False(m.Expand(), "expanding an expanded directory is a no-op")
	assert.Equal(5, m.Len())

	m.SetCursor(3) // big.txt
	assert.False(m.Expand())
	assert.False(m.Collapse())
	assert.Equal(5, m.Len())
}

func TestCursorClampAfterCollapse(t *testing.T) {
	assert := assert.New(t)
	m := New(fixture(), tree.ByName)
	m.SetViewport(10)

	m.Expand()
	m.Move(2) // src
	m.Expand()
	m.End()
	assert.Equal(6, m.Cursor())

	m.Home()
	assert.True(m.Collapse())
	assert.Equal(1, m.Len())
	assert.Equal(0, m.Cursor())

	m.Move(-5)
	assert.Equal(0, m.Cursor())
	m.Move(99)
	assert.Equal(0, m.Cursor())
}

func TestEnsureVisibleMinimalScroll(t *testing.T) {
	assert := assert.New(t)
	root := fixture()
	root.Expanded = true
	root.Find("src").Expanded = true
	root.Find("docs").Expanded = true
	m := New(root, tree.ByName) // 8 rows
	m.SetViewport(3)

	assert.Equal(0, m.Top())
	m.Move(2)
	assert.Equal(0, m.Top(), "cursor still inside the viewport")

	m.Move(1)
	assert.Equal(3, m.Cursor())
	assert.Equal(1, m.Top(), "scrolled by exactly one row")

	m.End()
	assert.Equal(7, m.Cursor())
	assert.Equal(5, m.Top())

	m.Move(-2)
	assert.Equal(5, m.Top(), "cursor at the top edge needs no scroll")
	m.Move(-1)
	assert.Equal(4, m.Top())

	m.PageUp()
	assert.Equal(1, m.Cursor())
	assert.Equal(1, m.Top())

	assert.Len(m.Visible(), 3)
	assert.Equal(m.Current(), m.Visible()[m.Cursor()-m.Top()])
}

func TestViewportInvariant(t *testing.T) {
	assert := assert.New(t)
	root := fixture()
	root.Expanded = true
	root.Find("src").Expanded = true
	m := New(root, tree.ByName)

	for _, height := range []int{1, 2, 4, 20} {
		m.SetViewport(height)
		for _, step := range []int{1, 1, 3, -2, 5, -7, 2, 1, 1} {
			m.Move(step)
			assert.GreaterOrEqual(m.Cursor(), m.Top())
			assert.LessOrEqual(m.Cursor(), m.Top()+m.Viewport()-1)
		}
	}
}

func TestToggleOrderKeepsCursorNode(t *testing.T) {
	assert := assert.New(t)
	m := New(fixture(), tree.ByName)
	m.Expand()
	m.SetCursor(4) // small.txt
	assert.Equal("small.txt", m.Current().Rel)

	assert.Equal(tree.BySize, m.ToggleOrder())
	assert.Equal([]string{"", "src", "docs", "big.txt", "small.txt"}, rels(m.Rows()))
	assert.Equal("small.txt", m.Current().Rel)

	assert.Equal(tree.ByName, m.ToggleOrder())
	assert.Equal([]string{"", "docs", "src", "big.txt", "small.txt"}, rels(m.Rows()))
}

func TestReveal(t *testing.T) {
	assert := assert.New(t)
	m := New(fixture(), tree.ByName)
	m.SetViewport(4)

	assert.True(m.Reveal("src/b.go"))
	assert.Equal("src/b.go", m.Current().Rel)
	assert.True(m.Root().Expanded)
	assert.True(m.Root().Find("src").Expanded)
	assert.False(m.Root().Find("docs").Expanded)
	assert.GreaterOrEqual(m.Cursor(), m.Top())
	assert.LessOrEqual(m.Cursor(), m.Top()+3)

	assert.False(m.Reveal("missing.txt"))
	assert.Equal("src/b.go", m.Current().Rel)
}
