package tree

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Criterion is a child ordering. Directories always precede files.
type Criterion int

const (
	ByName Criterion = iota // case-insensitive name, ascending
	BySize                  // size descending, then name
)

func (c Criterion) String() string {
	if c == BySize {
		return "Size"
	}
	return "Name"
}

// Next returns the other criterion.
func (c Criterion) Next() Criterion {
	if c == ByName {
		return BySize
	}
	return ByName
}

// ParseCriterion accepts "name" or "size" in any case. The empty string means ByName.
func ParseCriterion(s string) (Criterion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "name":
		return ByName, nil
	case "size":
		return BySize, nil
	}
	return ByName, fmt.Errorf("unknown sort order %q (want name or size)", s)
}

// Sort reorders the children of every directory under n in place.
func Sort(n *Node, c Criterion) {
	if !n.IsDir() {
		return
	}
	slices.SortStableFunc(n.Children, func(a, b *Node) int {
		return compare(a, b, c)
	})
	for _, child := range n.Children {
		Sort(child, c)
	}
}

func compare(a, b *Node, c Criterion) int {
	// directories first
	if a.IsDir() != b.IsDir() {
		if a.IsDir() {
			return -1
		}
		return 1
	}

	if c == BySize {
		if d := cmp.Compare(b.Size, a.Size); d != 0 {
			return d
		}
	}

	if d := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); d != 0 {
		return d
	}
	return cmp.Compare(a.Name, b.Name)
}
