package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ksight-io/ksight/internal/ui"
)

// Header renders the single top line: app title, cluster context and the
// current location (kind, resource, item count).
type Header struct {
	appName   string
	context   string
	kind      string
	resource  string
	itemCount int
	width     int
	theme     *ui.Theme
}

func NewHeader(appName string, theme *ui.Theme) *Header {
	return &Header{
		appName: appName,
		theme:   theme,
	}
}

func (h *Header) SetContext(context string) {
	h.context = context
}

// SetLocation updates the breadcrumb. Empty kind means the kind picker;
// empty resource means the resource list for the kind.
func (h *Header) SetLocation(kind, resource string) {
	h.kind = kind
	h.resource = resource
}

func (h *Header) SetItemCount(count int) {
	h.itemCount = count
}

func (h *Header) SetWidth(width int) {
	h.width = width
}

func (h *Header) View() string {
	title := h.theme.AppTitle.Padding(0, 1).Render(h.appName)

	// Build left side: "ksight • Pods • web-abc • 47 items"
	leftParts := []string{}
	if h.kind != "" {
		leftParts = append(leftParts, h.kind)
	}
	if h.resource != "" {
		leftParts = append(leftParts, h.resource)
	}
	if h.itemCount > 0 && h.resource == "" {
		leftParts = append(leftParts, fmt.Sprintf("%d items", h.itemCount))
	}

	left := title
	if len(leftParts) > 0 {
		left = lipgloss.JoinHorizontal(lipgloss.Top, title, " ",
			h.theme.Header.Render(strings.Join(leftParts, " • ")))
	}

	// Build right side: "context: kind-dev"
	var right string
	if h.context != "" {
		right = lipgloss.NewStyle().
			Foreground(h.theme.Muted).
			Padding(0, 1).
			Render(fmt.Sprintf("context: %s", h.context))
	}

	// Calculate spacing to push the context to the right
	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)
	spacing := h.width - leftWidth - rightWidth
	if spacing < 0 {
		spacing = 0
	}

	spacer := lipgloss.NewStyle().
		Width(spacing).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, spacer, right)
}
