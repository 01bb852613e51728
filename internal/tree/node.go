// Package tree models a scanned directory as an owned tree of nodes.
package tree

// Kind distinguishes files from directories.
type Kind int

const (
	File Kind = iota
	Directory
)

func (k Kind) String() string {
	if k == Directory {
		return "dir"
	}
	return "file"
}

// Node is one filesystem entry. A node owns its children; there are no
// parent links.
//
// Only Selected, Expanded and the order of Children change after the tree is
// built.
type Node struct {
	Path  string // absolute host path
	Rel   string // slash-separated path relative to the scan root, "" for the root
	Name  string
	Kind  Kind
	Depth int

	// Size is the byte length of an encodable file, zero for any other file,
	// and the sum of the children's sizes for a directory.
	Size int64

	// Encodable is set on files that passed the text probe.
	Encodable bool

	// EncodableCount and EncodableSize aggregate the encodable files of the
	// subtree rooted here.
	EncodableCount int
	EncodableSize  int64

	// Selected marks a file for export. On a directory it only records the
	// last toggle applied to it.
	Selected bool

	Expanded bool

	// Unreadable is set on a directory whose listing failed. It has no children.
	Unreadable bool

	// Symlink is set on a directory reached through a symbolic link. Its
	// target is not traversed.
	Symlink bool

	Children []*Node
}

func (n *Node) IsDir() bool {
	return n.Kind == Directory
}

// Selectable reports whether the selection can change this node. Non-encodable
// files never can.
func (n *Node) Selectable() bool {
	return n.IsDir() || n.Encodable
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the node with the given relative path, or nil.
func (n *Node) Find(rel string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Rel == rel {
			found = c
			return false
		}
		return c.IsDir()
	})
	return found
}

// Ancestors returns the directories on the way from n down to the node at
// rel, excluding that node. It returns nil when rel is not in the subtree.
func (n *Node) Ancestors(rel string) []*Node {
	if n.Rel == rel {
		return []*Node{}
	}
	for _, c := range n.Children {
		if path := c.Ancestors(rel); path != nil {
			return append([]*Node{n}, path...)
		}
	}
	return nil
}

// SelectedFiles returns the selected encodable files of the subtree in tree order.
func (n *Node) SelectedFiles() []*Node {
	var files []*Node
	n.Walk(func(c *Node) bool {
		if !c.IsDir() && c.Encodable && c.Selected {
			files = append(files, c)
		}
		return true
	})
	return files
}
