// Package assert extends testify assertions with helpers for directory
// fixtures.
package assert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Assert is a wrapper around assert.Assertions and testing.T
type Assert struct {
	*assert.Assertions
	T *testing.T
}

// New creates a new Assert object
func New(t *testing.T) *Assert {
	return &Assert{
		Assertions: assert.New(t),
		T:          t,
	}
}

// Binary is fixture content that fails the text probe.
const Binary = "\xff\xfe\x00\x81binary"

// WriteTree creates files, keyed by slash-separated relative path, under a
// fresh temporary directory and returns its path. A key ending in "/" creates
// an empty directory.
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if rel[len(rel)-1] == '/' {
			require.NoError(t, os.MkdirAll(path, 0755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

// Tree is WriteTree bound to a.T.
func (a *Assert) Tree(files map[string]string) string {
	a.T.Helper()
	return WriteTree(a.T, files)
}

// FileContent asserts that the file at path exists and holds want.
func (a *Assert) FileContent(path, want string) bool {
	a.T.Helper()
	got, err := os.ReadFile(path)
	if !a.NoError(err, "read %s", path) {
		return false
	}
	return a.Equal(want, string(got), "content of %s", path)
}

// NoFile asserts that nothing exists at path.
func (a *Assert) NoFile(path string) bool {
	a.T.Helper()
	_, err := os.Lstat(path)
	return a.True(os.IsNotExist(err), "expected no file at %s", path)
}
