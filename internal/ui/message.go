package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// RenderMessage renders a transient status message with level-appropriate
// styling. Level uses the same wire names as section status levels plus
// "loading"; unknown levels render muted. Long messages are truncated to fit
// the terminal width.
func RenderMessage(text, level string, theme *Theme, spinnerView string, width int) string {
	if text == "" {
		return ""
	}

	// Max length = terminal width - prefix (2) - margin (5)
	maxMessageLength := width - 7
	if maxMessageLength < 20 {
		maxMessageLength = 20
	}
	if len(text) > maxMessageLength {
		text = text[:maxMessageLength-1] + "…"
	}

	var messageColor lipgloss.AdaptiveColor
	prefix := "⏺ "

	switch level {
	case "success":
		messageColor = theme.Success
	case "error":
		messageColor = theme.Error
	case "warning":
		messageColor = theme.Warning
	case "loading":
		messageColor = theme.Secondary
		if spinnerView != "" {
			prefix = spinnerView + " "
		}
	default:
		messageColor = theme.Muted
	}

	messageStyle := lipgloss.NewStyle().Foreground(messageColor)
	return messageStyle.Render(prefix + text)
}
