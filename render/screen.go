// Package render draws full-screen frames to a terminal, writing only the
// rows that differ from the previous frame.
package render

import (
	"bytes"
	"fmt"
	"io"
)

// Screen remembers the last frame written to out.
type Screen struct {
	out    io.Writer
	width  int
	height int
	prev   []string // nil after Invalidate; every row is then redrawn
}

func NewScreen(out io.Writer, width, height int) *Screen {
	return &Screen{out: out, width: width, height: height}
}

func (s *Screen) Size() (width, height int) {
	return s.width, s.height
}

// Resize changes the grid dimensions. A change of size invalidates the
// previous frame.
func (s *Screen) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	s.Invalidate()
}

// Invalidate forgets the previous frame so the next Draw repaints every row.
func (s *Screen) Invalidate() {
	s.prev = nil
}

// Previous returns the last frame drawn, fitted to the screen width.
func (s *Screen) Previous() []string {
	return s.prev
}

// Draw writes frame, one string per row. Rows beyond the frame are blank and
// rows beyond the screen height are dropped. Each row is cut or padded to the
// screen width. Only rows that changed since the previous frame are written;
// Draw returns how many were.
func (s *Screen) Draw(frame []string) (int, error) {
	next := make([]string, s.height)
	for i := range next {
		var line string
		if i < len(frame) {
			line = frame[i]
		}
		next[i] = Fit(line, s.width)
	}

	var buf bytes.Buffer
	rows := 0
	for i, line := range next {
		if s.prev != nil && i < len(s.prev) && s.prev[i] == line {
			continue
		}
		fmt.Fprintf(&buf, "\x1b[%d;1H%s", i+1, line)
		rows++
	}

	s.prev = next
	if rows == 0 {
		return 0, nil
	}
	if _, err := s.out.Write(buf.Bytes()); err != nil {
		// the terminal state is unknown now; repaint everything next time
		s.Invalidate()
		return rows, err
	}
	return rows, nil
}
