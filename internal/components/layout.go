package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ksight-io/ksight/internal/ui"
)

// Layout owns the vertical budget of the screen: header line, body, status
// bar and help line. The body gets whatever the chrome leaves over.
type Layout struct {
	width  int
	height int
	theme  *ui.Theme
}

func NewLayout(width, height int, theme *ui.Theme) *Layout {
	return &Layout{
		width:  width,
		height: height,
		theme:  theme,
	}
}

func (l *Layout) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// BodyHeight returns the available height for the body content.
// Reserved: header (1) + blank (1) + status (1) + help (1).
func (l *Layout) BodyHeight() int {
	bodyHeight := l.height - 4
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	return bodyHeight
}

// Render builds the full screen from its parts
func (l *Layout) Render(header, body, status, help string) string {
	parts := []string{}

	if header != "" {
		parts = append(parts, header, "")
	}
	if body != "" {
		parts = append(parts, body)
	}
	if status != "" {
		parts = append(parts, status)
	}
	if help != "" {
		helpStyle := lipgloss.NewStyle().
			Foreground(l.theme.Dimmed).
			Padding(0, 1)
		parts = append(parts, helpStyle.Render(help))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Overlay centers content over the base view, for modal rendering
func (l *Layout) Overlay(content string) string {
	return lipgloss.Place(
		l.width,
		l.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}
