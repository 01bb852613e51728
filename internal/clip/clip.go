// Package clip wraps the system clipboard behind a small interface.
package clip

import (
	"sync"

	"github.com/atotto/clipboard"
)

// Clipboard reads and writes a single text value.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// System is the host clipboard.
type System struct{}

func (System) ReadAll() (string, error) {
	return clipboard.ReadAll()
}

func (System) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Unsupported reports whether no clipboard utility is available on this host.
func Unsupported() bool {
	return clipboard.Unsupported
}

// Memory is an in-process clipboard.
type Memory struct {
	mu   sync.Mutex
	text string
	Err  error // returned by every call when set
}

func (m *Memory) ReadAll() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.text, nil
}

func (m *Memory) WriteAll(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.text = text
	return nil
}
