package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ksight-io/ksight/internal/ui"
)

// StatusBar displays transient status messages (success, errors, progress).
// Level uses the status wire names plus "loading"; see ui.RenderMessage.
type StatusBar struct {
	message string
	level   string
	spinner string
	width   int
	theme   *ui.Theme
}

// NewStatusBar creates a new status bar
func NewStatusBar(theme *ui.Theme) *StatusBar {
	return &StatusBar{
		theme: theme,
	}
}

// SetMessage sets the status message with level
func (sb *StatusBar) SetMessage(msg, level string) {
	sb.message = msg
	sb.level = level
}

// SetSpinner sets the spinner frame shown next to loading messages
func (sb *StatusBar) SetSpinner(view string) {
	sb.spinner = view
}

// ClearMessage clears the status message
func (sb *StatusBar) ClearMessage() {
	sb.message = ""
	sb.level = ""
}

// SetWidth sets the status bar width
func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

// GetHeight returns the height (always 1 line to reserve space)
func (sb *StatusBar) GetHeight() int {
	return 1
}

// View renders the status bar
func (sb *StatusBar) View() string {
	baseStyle := lipgloss.NewStyle().
		Width(sb.width).
		Padding(0, 1)

	if sb.message == "" {
		// Render empty line to reserve space
		return baseStyle.Render("")
	}

	return baseStyle.Render(ui.RenderMessage(sb.message, sb.level, sb.theme, sb.spinner, sb.width))
}
