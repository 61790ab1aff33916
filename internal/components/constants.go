package components

import "time"

// UI component constants
const (
	// MaxActionRows is the maximum number of actions shown in the actions
	// overlay before scrolling is required. Set to 8 to fit comfortably on
	// most terminal sizes without overwhelming the user.
	MaxActionRows = 8

	// StatusBarDisplayDuration is how long status messages (success, error,
	// info) are displayed before automatically clearing. 5 seconds provides
	// enough time to read without cluttering the UI.
	StatusBarDisplayDuration = 5 * time.Second
)
