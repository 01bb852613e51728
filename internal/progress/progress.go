// Package progress holds the scan progress shared between the tree builder
// and the render loop.
package progress

import "sync"

// Snapshot is a consistent view of a Tracker at one point in time.
type Snapshot struct {
	Scanned int
	Total   int
	Path    string // entry most recently reported
}

// Fraction returns Scanned/Total clamped to [0, 1]. An unknown total reads as 0.
func (s Snapshot) Fraction() float64 {
	if s.Total <= 0 {
		return 0
	}
	f := float64(s.Scanned) / float64(s.Total)
	if f > 1 {
		return 1
	}
	return f
}

// Tracker is a lock-guarded progress counter. The zero value is ready to use.
type Tracker struct {
	mu      sync.Mutex
	scanned int
	total   int
	path    string
}

func New() *Tracker {
	return &Tracker{}
}

// SetTotal replaces the expected number of entries.
func (t *Tracker) SetTotal(n int) {
	t.mu.Lock()
	t.total = n
	t.mu.Unlock()
}

// AddTotal raises the expected number of entries by n.
func (t *Tracker) AddTotal(n int) {
	t.mu.Lock()
	t.total += n
	t.mu.Unlock()
}

// Advance records by more scanned entries, the last of which is path.
func (t *Tracker) Advance(by int, path string) {
	t.mu.Lock()
	t.scanned += by
	t.path = path
	t.mu.Unlock()
}

// Snapshot returns the counter triple as one unit.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{Scanned: t.scanned, Total: t.total, Path: t.path}
}
