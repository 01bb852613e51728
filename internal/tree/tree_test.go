package tree

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hayeah/fdl/ignore"
	"github.com/hayeah/fdl/internal/assert"
	"github.com/hayeah/fdl/internal/logging"
	"github.com/hayeah/fdl/internal/progress"
)

const binary = assert.Binary

func names(nodes []*Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

func scenarioTree(a *assert.Assert) string {
	return a.Tree(map[string]string{
		"a.txt":     "0123456789",
		"b.bin":     binary,
		"sub/c.txt": "hello",
	})
}

func TestBuild(t *testing.T) {
	assert := assert.New(t)
	root := scenarioTree(assert)

	tracker := progress.New()
	result := (&Builder{Root: root, Progress: tracker}).Build()

	assert.Equal(2, result.EncodableCount)
	assert.Equal(int64(15), result.EncodableSize)
	assert.Equal(5, result.Entries)
	assert.Zero(result.Unreadable)

	r := result.Root
	assert.Equal("", r.Rel)
	assert.Equal(0, r.Depth)
	assert.True(r.IsDir())
	assert.False(r.Expanded)
	assert.Equal(int64(15), r.Size)

	// directories first, then case-insensitive name
	assert.Equal([]string{"sub", "a.txt", "b.bin"}, names(r.Children))

	bin := r.Find("b.bin")
	require.NotNil(t, bin)
	assert.False(bin.Encodable)
	assert.False(bin.Selected)
	assert.Zero(bin.Size)
	assert.False(bin.Selectable())

	c := r.Find("sub/c.txt")
	require.NotNil(t, c)
	assert.Equal(2, c.Depth)
	assert.Equal(filepath.Join(root, "sub", "c.txt"), c.Path)
	assert.True(c.Selected)

	assert.Equal([]string{"c.txt", "a.txt"}, names(r.SelectedFiles()))

	snap := tracker.Snapshot()
	assert.Equal(5, snap.Scanned)
	assert.Equal(5, snap.Total)
}

func TestBuildAggregatesMatchChildren(t *testing.T) {
	assert := assert.New(t)
	root := assert.Tree(map[string]string{
		"x/y/z.txt": "zz",
		"x/y/w.bin": binary,
		"x/v.txt":   "vvv",
		"x/empty/":  "",
		"top.md":    "# t",
	})

	result := (&Builder{Root: root}).Build()
	result.Root.Walk(func(n *Node) bool {
		if !n.IsDir() {
			return true
		}
		var count int
		var size, esize int64
		for _, c := range n.Children {
			count += c.EncodableCount
			esize += c.EncodableSize
			size += c.Size
		}
		assert.Equal(count, n.EncodableCount, n.Rel)
		assert.Equal(esize, n.EncodableSize, n.Rel)
		assert.Equal(size, n.Size, n.Rel)
		return true
	})
	assert.Equal(3, result.EncodableCount)
	assert.Equal(int64(8), result.EncodableSize)

	empty := result.Root.Find("x/empty")
	assert.NotNil(empty)
	assert.Empty(empty.Children)
}

func TestBuildExcludeRootOnly(t *testing.T) {
	assert := assert.New(t)
	root := assert.Tree(map[string]string{
		"a.txt":         "0123456789",
		"sub/c.txt":     "hello",
		"keep/sub/d.go": "package d",
	})

	m, err := ignore.New([]string{"sub"})
	require.NoError(t, err)

	tracker := progress.New()
	result := (&Builder{Root: root, Exclude: m, Progress: tracker}).Build()

	assert.Nil(result.Root.Find("sub"))
	assert.Nil(result.Root.Find("sub/c.txt"))
	// the same name deeper down is kept
	assert.NotNil(result.Root.Find("keep/sub/d.go"))
	assert.Equal(2, result.EncodableCount)

	snap := tracker.Snapshot()
	assert.Equal(snap.Total, snap.Scanned, "excluded entries are not counted as work")
}

func TestBuildUnreadableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	assert := assert.New(t)
	root := assert.Tree(map[string]string{
		"locked/secret.txt": "s",
		"open.txt":          "o",
	})
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	result := (&Builder{Root: root}).Build()

	n := result.Root.Find("locked")
	require.NotNil(t, n)
	assert.True(n.Unreadable)
	assert.Empty(n.Children)
	assert.Zero(n.Size)
	assert.Equal(1, result.Unreadable)
	assert.Equal(1, result.EncodableCount)
}

func TestBuildSymlinkedDirectoryNotFollowed(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges")
	}
	assert := assert.New(t)
	root := assert.Tree(map[string]string{
		"real/f.txt": "f",
	})
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")))
	// a cycle back to the root must not hang the scan
	require.NoError(t, os.Symlink(root, filepath.Join(root, "real", "loop")))

	result := (&Builder{Root: root}).Build()

	link := result.Root.Find("link")
	require.NotNil(t, link)
	assert.True(link.IsDir())
	assert.True(link.Symlink)
	assert.Empty(link.Children)
	assert.Equal(1, result.EncodableCount)
}

func TestStartDeliversOnce(t *testing.T) {
	assert := assert.New(t)
	root := scenarioTree(assert)

	ch := (&Builder{Root: root}).Start()
	result, ok := <-ch
	assert.True(ok)
	assert.Equal(2, result.EncodableCount)

	_, ok = <-ch
	assert.False(ok, "channel is closed after the single result")
}

func TestBuildCustomProbe(t *testing.T) {
	assert := assert.New(t)
	root := assert.Tree(map[string]string{"a.txt": "aaa", "b.txt": "bb"})

	result := (&Builder{
		Root:  root,
		Probe: func(path string) bool { return filepath.Base(path) == "b.txt" },
	}).Build()

	assert.Equal(1, result.EncodableCount)
	assert.Equal(int64(2), result.EncodableSize)
}

func TestBuildLogsToGlobalLogger(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "fdl.log")

	_, err := logging.Init(logging.Config{Level: "info", Format: "json", OutputPath: path})
	require.NoError(t, err)
	t.Cleanup(func() { logging.Init(logging.Config{}) })

	(&Builder{Root: scenarioTree(assert)}).Build()
	require.NoError(t, logging.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(string(data), "scan finished")
}
