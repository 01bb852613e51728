//go:build !unix

package term

import (
	"errors"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Terminal is unavailable on this platform.
type Terminal struct{}

func Open() (*Terminal, error) {
	return nil, errors.New("interactive mode requires a unix terminal")
}

func (t *Terminal) Close() error                                 { return nil }
func (t *Terminal) File() *os.File                               { return nil }
func (t *Terminal) Write(p []byte) (int, error)                  { return len(p), nil }
func (t *Terminal) Size() (int, int, error)                      { return 0, 0, errors.ErrUnsupported }
func (t *Terminal) ReadKeys(time.Duration) ([]tea.KeyMsg, error) { return nil, errors.ErrUnsupported }
