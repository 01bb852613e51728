package ui

import "github.com/charmbracelet/lipgloss"

// styles are bound to the renderer of the output terminal, so that color
// support is detected on the terminal actually drawn to.
type styles struct {
	Header     lipgloss.Style
	Footer     lipgloss.Style
	Message    lipgloss.Style
	Cursor     lipgloss.Style
	Checked    lipgloss.Style
	Dim        lipgloss.Style
	Title      lipgloss.Style
	PreviewBar lipgloss.Style
	Prompt     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		Header:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("252")),
		Footer:     r.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("252")),
		Message:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		Cursor:     r.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("2")),
		Checked:    r.NewStyle().Foreground(lipgloss.Color("2")),
		Dim:        r.NewStyle().Faint(true),
		Title:      r.NewStyle().Bold(true),
		PreviewBar: r.NewStyle().Reverse(true),
		Prompt:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}
