package tree

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/hayeah/fdl"
	"github.com/hayeah/fdl/ignore"
	"github.com/hayeah/fdl/internal/logging"
	"github.com/hayeah/fdl/internal/progress"
)

// Builder scans a directory into a tree.
type Builder struct {
	Root     string
	Exclude  *ignore.Matcher   // applied to the root's immediate children only; may be nil
	Progress *progress.Tracker // may be nil
	Sort     Criterion         // order applied once the scan is complete
	Probe    func(string) bool // text probe; defaults to fdl.IsEncodable
	Logger   *zap.Logger       // may be nil
}

// Result is a finished scan.
type Result struct {
	Root           *Node
	EncodableCount int
	EncodableSize  int64
	Entries        int // nodes in the tree, root included
	Unreadable     int // directories whose listing failed
	Elapsed        time.Duration
}

// Start runs Build on a new goroutine. The returned channel delivers exactly
// one Result and is then closed.
func (b *Builder) Start() <-chan *Result {
	ch := make(chan *Result, 1)
	go func() {
		defer close(ch)
		ch <- b.Build()
	}()
	return ch
}

// Build scans b.Root. Listing failures are absorbed: the directory becomes an
// empty Unreadable node and the scan goes on.
func (b *Builder) Build() *Result {
	start := time.Now()

	log := b.Logger
	if log == nil {
		log = logging.L()
	}
	probe := b.Probe
	if probe == nil {
		probe = fdl.IsEncodable
	}

	root, err := filepath.Abs(b.Root)
	if err != nil {
		root = filepath.Clean(b.Root)
	}

	s := &scan{
		probe:    probe,
		exclude:  b.Exclude,
		progress: b.Progress,
		log:      log,
	}

	log.Info("scan started", zap.String("root", root))
	s.addTotal(1)

	rootNode := &Node{
		Path:     root,
		Name:     filepath.Base(root),
		Kind:     Directory,
		Selected: true,
	}
	s.visit(rootNode)
	s.fill(rootNode)

	Sort(rootNode, b.Sort)

	result := &Result{
		Root:           rootNode,
		EncodableCount: rootNode.EncodableCount,
		EncodableSize:  rootNode.EncodableSize,
		Entries:        s.entries,
		Unreadable:     s.unreadable,
		Elapsed:        time.Since(start),
	}

	log.Info("scan finished",
		zap.String("root", root),
		zap.Int("entries", result.Entries),
		zap.Int("encodable", result.EncodableCount),
		zap.Int64("encodable_bytes", result.EncodableSize),
		zap.Int("unreadable", result.Unreadable),
		zap.Duration("elapsed", result.Elapsed),
	)
	return result
}

type scan struct {
	probe    func(string) bool
	exclude  *ignore.Matcher
	progress *progress.Tracker
	log      *zap.Logger

	entries    int
	unreadable int
}

func (s *scan) addTotal(n int) {
	if s.progress != nil {
		s.progress.AddTotal(n)
	}
}

func (s *scan) visit(n *Node) {
	s.entries++
	if s.progress != nil {
		s.progress.Advance(1, n.Path)
	}
}

// fill lists dir, creates its children and recurses into subdirectories.
func (s *scan) fill(dir *Node) {
	if dir.Symlink {
		return
	}

	entries, err := os.ReadDir(dir.Path)
	if err != nil {
		s.unreadable++
		dir.Unreadable = true
		s.log.Debug("directory unreadable", zap.String("path", dir.Path), zap.Error(err))
		return
	}

	// drop excluded root entries before they are counted as work
	kept := entries[:0]
	for _, e := range entries {
		if dir.Depth == 0 && s.exclude.Excluded(e.Name(), s.isDir(dir, e)) {
			s.log.Debug("excluded", zap.String("name", e.Name()))
			continue
		}
		kept = append(kept, e)
	}
	s.addTotal(len(kept))

	for _, e := range kept {
		child := s.node(dir, e)
		s.visit(child)
		if child.IsDir() {
			s.fill(child)
		}

		dir.Children = append(dir.Children, child)
		dir.Size += child.Size
		dir.EncodableCount += child.EncodableCount
		dir.EncodableSize += child.EncodableSize
	}
}

// isDir resolves symbolic links so that a link to a directory is matched as one.
func (s *scan) isDir(parent *Node, e os.DirEntry) bool {
	if e.Type()&os.ModeSymlink != 0 {
		info, err := os.Stat(filepath.Join(parent.Path, e.Name()))
		return err == nil && info.IsDir()
	}
	return e.IsDir()
}

func (s *scan) node(parent *Node, e os.DirEntry) *Node {
	path := filepath.Join(parent.Path, e.Name())
	rel := e.Name()
	if parent.Rel != "" {
		rel = parent.Rel + "/" + e.Name()
	}

	n := &Node{
		Path:  path,
		Rel:   rel,
		Name:  e.Name(),
		Depth: parent.Depth + 1,
	}

	if s.isDir(parent, e) {
		n.Kind = Directory
		n.Selected = true
		n.Symlink = e.Type()&os.ModeSymlink != 0
		return n
	}

	n.Kind = File
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		// broken links, sockets and devices are listed but never exported
		return n
	}

	if s.probe(path) {
		n.Encodable = true
		n.Selected = true
		n.Size = info.Size()
		n.EncodableCount = 1
		n.EncodableSize = n.Size
	}
	return n
}
