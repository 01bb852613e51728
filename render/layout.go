package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// reset ends any style left open by a cut.
const reset = "\x1b[0m"

// Fit cuts s to width display cells or pads it with spaces to width. Escape
// sequences in s do not count towards the width.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.StringWidth(s)
	if w > width {
		s = ansi.Truncate(s, width, "")
		s = closeStyle(s)
		w = ansi.StringWidth(s)
	}
	if w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// closeStyle appends a reset to s when it carries escape sequences.
func closeStyle(s string) string {
	if strings.Contains(s, "\x1b") {
		return s + reset
	}
	return s
}

// Spread places left and right on one line of width cells, right-aligned.
// The right part is dropped when both do not fit.
func Spread(left, right string, width int) string {
	lw, rw := ansi.StringWidth(left), ansi.StringWidth(right)
	if lw+1+rw > width {
		return Fit(left, width)
	}
	return left + strings.Repeat(" ", width-lw-rw) + right
}

// Overlay draws box over bg with its top-left corner at column x, row y. Rows
// of bg outside the box are kept as they are.
func Overlay(bg, box []string, x, y, width int) []string {
	out := make([]string, len(bg))
	copy(out, bg)

	for i, line := range box {
		row := y + i
		if row < 0 || row >= len(out) {
			continue
		}
		under := Fit(out[row], width)
		boxWidth := ansi.StringWidth(line)

		left := ansi.Truncate(under, x, "")
		right := ""
		if x+boxWidth < width {
			right = ansi.TruncateLeft(under, x+boxWidth, "")
		}
		out[row] = Fit(closeStyle(left)+closeStyle(line)+right, width)
	}
	return out
}

// Box frames body in a rounded border of the given outer size. title is set
// into the top edge and footer fills the last line inside the frame. Body
// lines are cut to fit; missing lines are blank.
func Box(title string, body []string, footer string, width, height int) []string {
	b := lipgloss.RoundedBorder()
	inner := width - 2
	if inner < 0 {
		inner = 0
	}

	lines := make([]string, 0, height)

	var top string
	if tw := ansi.StringWidth(title); tw < inner {
		top = b.TopLeft + title + strings.Repeat(b.Top, inner-tw) + b.TopRight
	} else {
		top = b.TopLeft + Fit(title, inner) + b.TopRight
	}
	lines = append(lines, top)

	// rows between the top edge, the footer and the bottom edge
	bodyRows := BodyRows(height)
	for i := 0; i < bodyRows; i++ {
		var line string
		if i < len(body) {
			line = body[i]
		}
		lines = append(lines, b.Left+Fit(" "+line, inner)+b.Right)
	}
	lines = append(lines, b.Left+Fit(footer, inner)+b.Right)
	lines = append(lines, b.BottomLeft+strings.Repeat(b.Bottom, inner)+b.BottomRight)
	return lines
}

// BodyRows is the number of body lines a Box of the given height shows.
func BodyRows(height int) int {
	if height < 3 {
		return 0
	}
	return height - 3
}

// Size formats a byte count for display.
func Size(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
