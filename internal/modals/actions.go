package modals

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ksight-io/ksight/internal/components"
	"github.com/ksight-io/ksight/internal/ui"
)

var (
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true)
)

// ActionItem is one executable operation shown in the actions overlay. Index
// refers back to the caller's action slice; the modal never executes
// anything itself.
type ActionItem struct {
	Index    int
	Label    string
	Variant  string // "default", "warning" or "danger"
	Confirm  string // confirmation prompt, empty for none
	Disabled bool
}

// ActionChosenMsg is emitted when the user picks (and, where required,
// confirms) an action.
type ActionChosenMsg struct {
	Index int
}

// DismissActionsMsg is emitted when the overlay is closed without a choice.
type DismissActionsMsg struct{}

type actionListItem struct {
	item ActionItem
}

func (i actionListItem) FilterValue() string { return i.item.Label }

func (i actionListItem) Title() string {
	if i.item.Disabled {
		return i.item.Label + " (unavailable)"
	}
	return i.item.Label
}

func (i actionListItem) Description() string {
	switch {
	case i.item.Disabled:
		return "not available for this object"
	case i.item.Confirm != "":
		return "asks for confirmation"
	case i.item.Variant == "danger":
		return "destructive"
	default:
		return ""
	}
}

// ActionsModal lists the operations available on the selected resource.
// Actions that declare a confirmation prompt go through a confirm step
// before ActionChosenMsg is emitted.
type ActionsModal struct {
	list    list.Model
	confirm *ActionItem
	theme   *ui.Theme
	width   int
	height  int
}

func NewActionsModal(resource string, items []ActionItem, theme *ui.Theme) *ActionsModal {
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = actionListItem{item: item}
	}

	delegate := list.NewDefaultDelegate()
	l := list.New(listItems, delegate, 0, 0)
	l.Title = "Actions: " + resource
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.Styles.Title = titleStyle.Foreground(theme.Accent)

	return &ActionsModal{
		list:  l,
		theme: theme,
	}
}

func (m *ActionsModal) Init() tea.Cmd {
	return nil
}

func (m *ActionsModal) Update(msg tea.Msg) (*ActionsModal, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if m.confirm != nil {
		switch keyMsg.String() {
		case "y", "enter":
			index := m.confirm.Index
			m.confirm = nil
			return m, func() tea.Msg {
				return ActionChosenMsg{Index: index}
			}
		case "n", "esc":
			m.confirm = nil
			return m, nil
		}
		return m, nil
	}

	switch keyMsg.String() {
	case "enter":
		item, ok := m.list.SelectedItem().(actionListItem)
		if !ok || item.item.Disabled {
			return m, nil
		}
		if item.item.Confirm != "" {
			chosen := item.item
			m.confirm = &chosen
			return m, nil
		}
		return m, func() tea.Msg {
			return ActionChosenMsg{Index: item.item.Index}
		}
	case "esc":
		return m, func() tea.Msg {
			return DismissActionsMsg{}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *ActionsModal) View() string {
	style := modalStyle.BorderForeground(m.theme.Border)

	if m.confirm != nil {
		prompt := titleStyle.Foreground(m.theme.Warning).Render(m.confirm.Confirm)
		hint := lipgloss.NewStyle().
			Foreground(m.theme.Dimmed).
			Render("y confirm • n cancel")
		body := lipgloss.JoinVertical(lipgloss.Left, prompt, "", hint)
		return style.Width(60).Render(body)
	}

	// Use up to 60% of terminal height for the list, capped so long action
	// lists scroll instead of growing past MaxActionRows.
	modalHeight := int(float64(m.height) * 0.6)
	if maxHeight := components.MaxActionRows*3 + 4; modalHeight > maxHeight {
		modalHeight = maxHeight
	}
	if modalHeight < 10 {
		modalHeight = 10
	}
	modalWidth := 60

	// List size = modal size - border and padding
	m.list.SetSize(modalWidth-6, modalHeight-4)

	return style.Width(modalWidth).Height(modalHeight).Render(m.list.View())
}

func (m *ActionsModal) SetSize(width, height int) {
	m.width = width
	m.height = height
}
