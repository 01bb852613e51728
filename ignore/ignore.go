// Package ignore decides which root-level entries of a scan are left out.
//
// Exclusion is deliberately shallow: patterns are matched against the names of
// the scan root's immediate children only, and an excluded entry drops its
// whole subtree. Deeper entries are never tested.
package ignore

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// GitignoreFile is the name of the ignore file read from the scan root.
const GitignoreFile = ".gitignore"

// Matcher reports whether a root-level entry is excluded. A nil *Matcher
// excludes nothing.
type Matcher struct {
	globs []string
	git   gitignore.Matcher // nil unless a root .gitignore was loaded
}

// New returns a Matcher for shell-glob patterns such as "node_modules" or
// "*.log". An invalid pattern is an error.
func New(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
		m.globs = append(m.globs, p)
	}
	return m, nil
}

// LoadGitignore adds the .gitignore patterns found in fs. A missing file is
// not an error. Patterns of nested .gitignore files are scoped to their
// directory, so only the root file can exclude a root-level entry.
func (m *Matcher) LoadGitignore(fs billy.Filesystem) error {
	patterns, err := gitignore.ReadPatterns(fs, nil)
	if err != nil {
		return fmt.Errorf("failed to read gitignore patterns: %w", err)
	}
	if len(patterns) > 0 {
		m.git = gitignore.NewMatcher(patterns)
	}
	return nil
}

// LoadGitignoreDir is LoadGitignore over the host directory root.
func (m *Matcher) LoadGitignoreDir(root string) error {
	return m.LoadGitignore(osfs.New(root))
}

// Patterns returns the glob patterns in effect.
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.globs...)
}

// Excluded reports whether the root-level entry name should be omitted.
func (m *Matcher) Excluded(name string, isDir bool) bool {
	if m == nil {
		return false
	}

	for _, g := range m.globs {
		// patterns were validated in New, so the error is always nil
		if ok, _ := doublestar.Match(g, name); ok {
			return true
		}
	}

	if m.git != nil && m.git.Match([]string{name}, isDir) {
		return true
	}
	return false
}
