package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme and styles for the TUI
type Theme struct {
	Name string

	// Core colors
	Primary    lipgloss.AdaptiveColor
	Secondary  lipgloss.AdaptiveColor
	Accent     lipgloss.AdaptiveColor
	Foreground lipgloss.AdaptiveColor
	Muted      lipgloss.AdaptiveColor
	Error      lipgloss.AdaptiveColor
	Success    lipgloss.AdaptiveColor
	Warning    lipgloss.AdaptiveColor

	// UI element colors
	Border     lipgloss.AdaptiveColor // Separator lines, borders
	Dimmed     lipgloss.AdaptiveColor // Very subtle text (shortcuts)
	Subtle     lipgloss.AdaptiveColor // Subtle UI elements
	Background lipgloss.AdaptiveColor // Background for overlays

	// Gauge fill colors, keyed by the section wire names
	GaugeBlue   lipgloss.AdaptiveColor
	GaugeGreen  lipgloss.AdaptiveColor
	GaugeYellow lipgloss.AdaptiveColor
	GaugeRed    lipgloss.AdaptiveColor

	// Component styles
	Table        TableStyles
	AppTitle     lipgloss.Style // App title with background
	Header       lipgloss.Style
	StatusBar    lipgloss.Style
	SectionTitle lipgloss.Style
}

// TableStyles defines styles for table components
type TableStyles struct {
	Header      lipgloss.Style
	Cell        lipgloss.Style
	SelectedRow lipgloss.Style
}

// ToTableStyles converts Theme.Table to bubbles table.Styles
func (t *Theme) ToTableStyles() table.Styles {
	return table.Styles{
		Header:   t.Table.Header,
		Cell:     t.Table.Cell,
		Selected: t.Table.SelectedRow,
	}
}

// LevelStyle returns the foreground style for a status level wire name
// ("success", "warning", "error"). Unknown names render as neutral
// foreground, so new levels degrade to plain text instead of breaking.
func (t *Theme) LevelStyle(level string) lipgloss.Style {
	switch level {
	case "success":
		return lipgloss.NewStyle().Foreground(t.Success)
	case "warning":
		return lipgloss.NewStyle().Foreground(t.Warning)
	case "error":
		return lipgloss.NewStyle().Foreground(t.Error)
	default:
		return lipgloss.NewStyle().Foreground(t.Foreground)
	}
}

// GaugeStyle returns the fill style for a gauge color wire name ("blue",
// "green", "yellow", "red"). Unknown names fall back to blue.
func (t *Theme) GaugeStyle(color string) lipgloss.Style {
	switch color {
	case "green":
		return lipgloss.NewStyle().Foreground(t.GaugeGreen)
	case "yellow":
		return lipgloss.NewStyle().Foreground(t.GaugeYellow)
	case "red":
		return lipgloss.NewStyle().Foreground(t.GaugeRed)
	default:
		return lipgloss.NewStyle().Foreground(t.GaugeBlue)
	}
}

// ThemeCharm returns the default Charm theme
func ThemeCharm() *Theme {
	t := &Theme{Name: "charm"}

	// Define adaptive colors
	t.Primary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	t.Secondary = lipgloss.AdaptiveColor{Light: "#02BA84", Dark: "#02BF87"}
	t.Accent = lipgloss.AdaptiveColor{Light: "#F780E2", Dark: "#F780E2"}
	t.Foreground = lipgloss.AdaptiveColor{Light: "235", Dark: "252"}
	t.Muted = lipgloss.AdaptiveColor{Light: "243", Dark: "243"}
	t.Error = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}
	t.Success = lipgloss.AdaptiveColor{Light: "#02BA84", Dark: "#02BF87"}
	t.Warning = lipgloss.AdaptiveColor{Light: "#FFAA00", Dark: "#FFAA00"}

	// UI element colors
	t.Border = lipgloss.AdaptiveColor{Light: "240", Dark: "240"}
	t.Dimmed = lipgloss.AdaptiveColor{Light: "243", Dark: "243"}
	t.Subtle = lipgloss.AdaptiveColor{Light: "241", Dark: "241"}
	t.Background = lipgloss.AdaptiveColor{Light: "254", Dark: "235"}

	// Gauge fills
	t.GaugeBlue = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	t.GaugeGreen = lipgloss.AdaptiveColor{Light: "#02BA84", Dark: "#02BF87"}
	t.GaugeYellow = lipgloss.AdaptiveColor{Light: "#FFAA00", Dark: "#FFAA00"}
	t.GaugeRed = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}

	applyComponentStyles(t)
	return t
}

// ThemeDracula returns a Dracula-inspired theme
func ThemeDracula() *Theme {
	t := &Theme{Name: "dracula"}

	// Dracula color palette
	t.Primary = lipgloss.AdaptiveColor{Light: "#bd93f9", Dark: "#bd93f9"}
	t.Secondary = lipgloss.AdaptiveColor{Light: "#8be9fd", Dark: "#8be9fd"}
	t.Accent = lipgloss.AdaptiveColor{Light: "#ff79c6", Dark: "#ff79c6"}
	t.Foreground = lipgloss.AdaptiveColor{Light: "#282a36", Dark: "#f8f8f2"}
	t.Muted = lipgloss.AdaptiveColor{Light: "#6272a4", Dark: "#6272a4"}
	t.Error = lipgloss.AdaptiveColor{Light: "#ff5555", Dark: "#ff5555"}
	t.Success = lipgloss.AdaptiveColor{Light: "#50fa7b", Dark: "#50fa7b"}
	t.Warning = lipgloss.AdaptiveColor{Light: "#f1fa8c", Dark: "#f1fa8c"}

	// UI element colors
	t.Border = lipgloss.AdaptiveColor{Light: "61", Dark: "61"}
	t.Dimmed = lipgloss.AdaptiveColor{Light: "#6272a4", Dark: "#6272a4"}
	t.Subtle = lipgloss.AdaptiveColor{Light: "#44475a", Dark: "#44475a"}
	t.Background = lipgloss.AdaptiveColor{Light: "#f8f8f2", Dark: "#282a36"}

	// Gauge fills
	t.GaugeBlue = lipgloss.AdaptiveColor{Light: "#8be9fd", Dark: "#8be9fd"}
	t.GaugeGreen = lipgloss.AdaptiveColor{Light: "#50fa7b", Dark: "#50fa7b"}
	t.GaugeYellow = lipgloss.AdaptiveColor{Light: "#f1fa8c", Dark: "#f1fa8c"}
	t.GaugeRed = lipgloss.AdaptiveColor{Light: "#ff5555", Dark: "#ff5555"}

	applyComponentStyles(t)
	return t
}

// ThemeNord returns a Nord-inspired theme
func ThemeNord() *Theme {
	t := &Theme{Name: "nord"}

	// Nord color palette - cool blues and grays
	t.Primary = lipgloss.AdaptiveColor{Light: "#5e81ac", Dark: "#88c0d0"}   // Frost blue
	t.Secondary = lipgloss.AdaptiveColor{Light: "#81a1c1", Dark: "#81a1c1"} // Frost lighter blue
	t.Accent = lipgloss.AdaptiveColor{Light: "#b48ead", Dark: "#b48ead"}    // Aurora purple
	t.Foreground = lipgloss.AdaptiveColor{Light: "#2e3440", Dark: "#eceff4"}
	t.Muted = lipgloss.AdaptiveColor{Light: "#4c566a", Dark: "#4c566a"}
	t.Error = lipgloss.AdaptiveColor{Light: "#bf616a", Dark: "#bf616a"}
	t.Success = lipgloss.AdaptiveColor{Light: "#a3be8c", Dark: "#a3be8c"}
	t.Warning = lipgloss.AdaptiveColor{Light: "#ebcb8b", Dark: "#ebcb8b"}

	// UI element colors
	t.Border = lipgloss.AdaptiveColor{Light: "#d8dee9", Dark: "#3b4252"}
	t.Dimmed = lipgloss.AdaptiveColor{Light: "#4c566a", Dark: "#4c566a"}
	t.Subtle = lipgloss.AdaptiveColor{Light: "#434c5e", Dark: "#434c5e"}
	t.Background = lipgloss.AdaptiveColor{Light: "#eceff4", Dark: "#2e3440"}

	// Gauge fills
	t.GaugeBlue = lipgloss.AdaptiveColor{Light: "#5e81ac", Dark: "#88c0d0"}
	t.GaugeGreen = lipgloss.AdaptiveColor{Light: "#a3be8c", Dark: "#a3be8c"}
	t.GaugeYellow = lipgloss.AdaptiveColor{Light: "#ebcb8b", Dark: "#ebcb8b"}
	t.GaugeRed = lipgloss.AdaptiveColor{Light: "#bf616a", Dark: "#bf616a"}

	applyComponentStyles(t)
	return t
}

// applyComponentStyles derives the component styles from the palette. Every
// theme shares the same layout rules; only the colors differ.
func applyComponentStyles(t *Theme) {
	t.Table.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Bold(false).
		PaddingLeft(1).
		PaddingRight(1)

	t.Table.Cell = lipgloss.NewStyle().
		PaddingLeft(1).
		PaddingRight(1)

	t.Table.SelectedRow = lipgloss.NewStyle().
		Foreground(t.Background).
		Background(t.Primary).
		Bold(false)

	t.AppTitle = lipgloss.NewStyle().
		Foreground(t.Primary).
		Background(t.Background).
		Bold(true)

	t.Header = lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(t.Muted)

	t.SectionTitle = lipgloss.NewStyle().
		Foreground(t.Secondary).
		Bold(true)
}

// GetTheme returns a theme by name, defaulting to Charm
func GetTheme(name string) *Theme {
	switch name {
	case "dracula":
		return ThemeDracula()
	case "nord":
		return ThemeNord()
	default:
		return ThemeCharm()
	}
}

// AvailableThemes returns a list of available theme names
func AvailableThemes() []string {
	return []string{"charm", "dracula", "nord"}
}
