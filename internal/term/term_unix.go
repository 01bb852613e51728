//go:build unix

// Package term owns the controlling terminal for the interactive browser:
// raw mode, the alternate screen, input polling and size queries.
package term

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sys/unix"
	xterm "golang.org/x/term"
)

const (
	enterAltScreen = "\x1b[?1049h"
	exitAltScreen  = "\x1b[?1049l"
	hideCursor     = "\x1b[?25l"
	showCursor     = "\x1b[?25h"
	clearScreen    = "\x1b[2J"
	disableWrap    = "\x1b[?7l"
	enableWrap     = "\x1b[?7h"
)

// Terminal is the raw-mode /dev/tty.
type Terminal struct {
	tty   *os.File
	state *xterm.State
	buf   []byte
}

// Open switches the controlling terminal to raw mode and the alternate screen.
// The caller must Close it, on every path, to restore the terminal.
func Open() (*Terminal, error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open terminal: %w", err)
	}

	state, err := xterm.MakeRaw(int(tty.Fd()))
	if err != nil {
		tty.Close()
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}

	t := &Terminal{tty: tty, state: state, buf: make([]byte, 256)}
	if _, err := t.tty.WriteString(enterAltScreen + hideCursor + disableWrap + clearScreen); err != nil {
		t.Close()
		return nil, err
	}
	return t, nil
}

// Close leaves the alternate screen and restores the original terminal mode.
// It is safe to call more than once.
func (t *Terminal) Close() error {
	if t.tty == nil {
		return nil
	}
	_, werr := t.tty.WriteString(enableWrap + showCursor + exitAltScreen)
	rerr := xterm.Restore(int(t.tty.Fd()), t.state)
	cerr := t.tty.Close()
	t.tty = nil
	return errors.Join(werr, rerr, cerr)
}

// File is the underlying tty, for output capability detection.
func (t *Terminal) File() *os.File {
	return t.tty
}

func (t *Terminal) Write(p []byte) (int, error) {
	return t.tty.Write(p)
}

// Size returns the terminal's width and height in cells.
func (t *Terminal) Size() (int, int, error) {
	return xterm.GetSize(int(t.tty.Fd()))
}

// ReadKeys waits up to timeout for input and decodes whatever arrived. It
// returns no keys and no error on timeout.
func (t *Terminal) ReadKeys(timeout time.Duration) ([]tea.KeyMsg, error) {
	fds := []unix.PollFd{{Fd: int32(t.tty.Fd()), Events: unix.POLLIN}}

	n, err := unix.Poll(fds, int(timeout/time.Millisecond))
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	rn, err := unix.Read(int(t.tty.Fd()), t.buf)
	if err != nil {
		if err == unix.EINTR || err == unix.EAGAIN {
			return nil, nil
		}
		return nil, err
	}
	return Decode(t.buf[:rn]), nil
}
