package keyboard

// Keys holds all keyboard shortcut configurations for ksight
type Keys struct {
	// List navigation
	Up         string // Move selection up
	Down       string // Move selection down
	JumpTop    string // Jump to top
	JumpBottom string // Jump to bottom
	PageUp     string // Page up
	PageDown   string // Page down

	// Picker
	FilterActivate string // Activate fuzzy filter
	Select         string // Open the selected kind or resource

	// Panel
	FocusNext   string // Focus next interactive element
	FocusPrev   string // Focus previous interactive element
	LoadRelated string // Load or reload the focused related list
	Reveal      string // Reveal/mask the focused secret value
	Expand      string // Expand/collapse the focused multiline value
	Copy        string // Copy the focused value to the clipboard
	Actions     string // Open the actions overlay

	// Global
	Quit    string // Quit application
	Refresh string // Refresh data
	Back    string // Back/clear filter
	Help    string // Toggle help line detail
}

// Default returns the default k9s-aligned keyboard configuration
func Default() *Keys {
	return &Keys{
		Up:         "k",
		Down:       "j",
		JumpTop:    "g",
		JumpBottom: "G",
		PageUp:     "ctrl+b",
		PageDown:   "ctrl+f",

		FilterActivate: "/",
		Select:         "enter",

		FocusNext:   "tab",
		FocusPrev:   "shift+tab",
		LoadRelated: "enter",
		Reveal:      "r",
		Expand:      "e",
		Copy:        "c",
		Actions:     "a",

		Quit:    "ctrl+c",
		Refresh: "ctrl+r",
		Back:    "esc",
		Help:    "?",
	}
}

// GetKeys returns the current keyboard configuration
// Future: This will load from config file
func GetKeys() *Keys {
	return Default()
}
