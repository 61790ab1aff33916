// Package app is the terminal viewer: a kind and resource picker on top of
// the adapter registry, and a section panel for the selected object.
// Deferred related lists resolve on demand, secret values stay masked until
// explicitly revealed, and adapter actions run behind a confirmation
// overlay.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ksight-io/ksight/internal/adapters"
	"github.com/ksight-io/ksight/internal/components"
	"github.com/ksight-io/ksight/internal/k8s"
	"github.com/ksight-io/ksight/internal/keyboard"
	"github.com/ksight-io/ksight/internal/logging"
	"github.com/ksight-io/ksight/internal/modals"
	"github.com/ksight-io/ksight/internal/sections"
	"github.com/ksight-io/ksight/internal/ui"
)

// requestTimeout bounds every cluster round trip started from the UI.
const requestTimeout = 10 * time.Second

// writeClipboard is swapped in tests; real clipboard access needs a display.
var writeClipboard = clipboard.WriteAll

type mode int

const (
	modeKinds mode = iota
	modeResources
	modePanel
)

// Deps carries everything the viewer needs. Lister and Getter are usually
// the same *k8s.Client; Theme defaults to Charm when nil.
type Deps struct {
	Registry *adapters.Registry
	Lister   k8s.Lister
	Getter   k8s.Getter

	Context   string // kubeconfig context name, shown in the header
	Namespace string // namespace scope, "" for all namespaces
	Theme     *ui.Theme
}

type Model struct {
	mode  mode
	keys  *keyboard.Keys
	theme *ui.Theme

	header *components.Header
	layout *components.Layout
	status *components.StatusBar
	spin   spinner.Model

	registry *adapters.Registry
	lister   k8s.Lister
	getter   k8s.Getter

	namespace string

	picker pickerModel
	panel  panelModel

	actions   *modals.ActionsModal
	actionSet []adapters.Action

	loading   bool
	statusSeq int
	width     int
	height    int
}

func NewModel(deps Deps) Model {
	theme := deps.Theme
	if theme == nil {
		theme = ui.ThemeCharm()
	}
	keys := keyboard.GetKeys()

	header := components.NewHeader("ksight", theme)
	header.SetContext(deps.Context)
	layout := components.NewLayout(80, 24, theme)
	status := components.NewStatusBar(theme)

	sp := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Secondary)),
	)

	kinds := deps.Registry.SupportedKinds()
	m := Model{
		mode:      modeKinds,
		keys:      keys,
		theme:     theme,
		header:    header,
		layout:    layout,
		status:    status,
		spin:      sp,
		registry:  deps.Registry,
		lister:    deps.Lister,
		getter:    deps.Getter,
		namespace: deps.Namespace,
		picker:    newPicker(kinds, theme, keys),
		panel:     newPanel(theme, keys),
		width:     80,
		height:    24,
	}
	m.header.SetItemCount(len(kinds))
	m.picker.setSize(m.width, layout.BodyHeight())
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.busy() {
			m.status.SetSpinner("")
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		m.status.SetSpinner(m.spin.View())
		return m, cmd

	case resourcesLoadedMsg:
		m.loading = false
		m.status.ClearMessage()
		m.picker.showResources(msg.kind, msg.cfg, msg.rows)
		m.mode = modeResources
		m.header.SetLocation(msg.kind, "")
		m.header.SetItemCount(len(msg.rows))
		if msg.cfg == nil {
			return m, m.postStatus("warning", fmt.Sprintf("cluster does not serve %s", msg.kind))
		}
		return m, nil

	case objectLoadedMsg:
		m.loading = false
		m.status.ClearMessage()
		m.panel.setResource(m.picker.kind, msg.obj, msg.secs)
		m.panel.setSize(m.width, m.layout.BodyHeight())
		m.mode = modePanel
		m.header.SetLocation(m.picker.kind, m.panel.name)
		return m, nil

	case relatedLoadedMsg:
		m.loading = false
		m.status.ClearMessage()
		m.panel.setRelated(msg.sectionID, msg.items)
		return m, nil

	case loadErrMsg:
		m.loading = false
		logging.Error("load failed", "error", msg.err)
		return m, m.postStatus("error", msg.err.Error())

	case actionDoneMsg:
		return m.finishAction(msg)

	case statusMsg:
		m.statusSeq++
		seq := m.statusSeq
		m.status.SetMessage(msg.text, msg.level)
		return m, tea.Tick(components.StatusBarDisplayDuration, func(time.Time) tea.Msg {
			return clearStatusMsg{seq: seq}
		})

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status.ClearMessage()
		}
		return m, nil

	case modals.ActionChosenMsg:
		m.actions = nil
		if msg.Index < 0 || msg.Index >= len(m.actionSet) {
			return m, nil
		}
		act := m.actionSet[msg.Index]
		return m.startLoading(act.Label, m.executeAction(act))

	case modals.DismissActionsMsg:
		m.actions = nil
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.actions != nil {
		return m.layout.Overlay(m.actions.View())
	}
	var body string
	if m.mode == modePanel {
		body = m.panel.view()
	} else {
		body = m.picker.view()
	}
	return m.layout.Render(m.header.View(), body, m.status.View(), m.helpLine())
}

func (m Model) resize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.layout.SetSize(msg.Width, msg.Height)
	m.header.SetWidth(msg.Width)
	m.status.SetWidth(msg.Width)
	body := m.layout.BodyHeight()
	m.picker.setSize(msg.Width, body)
	m.panel.setSize(msg.Width, body)
	if m.actions != nil {
		m.actions.SetSize(msg.Width, msg.Height)
	}
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == m.keys.Quit {
		return m, tea.Quit
	}

	if m.actions != nil {
		var cmd tea.Cmd
		m.actions, cmd = m.actions.Update(msg)
		return m, cmd
	}

	// While the filter input is focused, keys edit the filter.
	if m.mode != modePanel && m.picker.filtering {
		switch key {
		case m.keys.Back:
			m.picker.stopFilter(true)
			return m, nil
		case m.keys.Select:
			m.picker.stopFilter(false)
			return m, nil
		}
		cmd := m.picker.updateFilter(msg)
		return m, cmd
	}

	if key == "q" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeKinds:
		return m.handleKindsKey(msg)
	case modeResources:
		return m.handleResourcesKey(msg)
	default:
		return m.handlePanelKey(msg)
	}
}

func (m Model) handleKindsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.keys.FilterActivate:
		cmd := m.picker.startFilter()
		return m, cmd
	case m.keys.Select:
		kind := m.picker.selectedKind()
		if kind == "" {
			return m, nil
		}
		return m.startLoading("Loading "+kind, m.loadResources(kind))
	}
	var cmd tea.Cmd
	m.picker.table, cmd = m.picker.table.Update(msg)
	return m, cmd
}

func (m Model) handleResourcesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.keys.Back:
		m.picker.showKinds()
		m.header.SetLocation("", "")
		m.header.SetItemCount(len(m.picker.kinds))
		return m, nil
	case m.keys.FilterActivate:
		cmd := m.picker.startFilter()
		return m, cmd
	case m.keys.Refresh:
		return m.startLoading("Refreshing "+m.picker.kind, m.loadResources(m.picker.kind))
	case m.keys.Select:
		row, ok := m.picker.selectedResource()
		if !ok {
			return m, nil
		}
		return m.startLoading("Fetching "+row.name, m.loadObject(row))
	}
	var cmd tea.Cmd
	m.picker.table, cmd = m.picker.table.Update(msg)
	return m, cmd
}

func (m Model) handlePanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.keys.Back:
		m.mode = modeResources
		m.header.SetLocation(m.picker.kind, "")
		m.header.SetItemCount(len(m.picker.rows))
		return m, nil
	case m.keys.FocusNext:
		m.panel.moveFocus(1)
		return m, nil
	case m.keys.FocusPrev:
		m.panel.moveFocus(-1)
		return m, nil
	case m.keys.LoadRelated:
		t, ok := m.panel.focusedTarget()
		if !ok || t.kind != targetRelated {
			return m, nil
		}
		m.panel.markRelatedLoading(t.sectionID)
		return m.startLoading("Loading "+t.sectionID, m.loadRelated(t.sectionID))
	case m.keys.Reveal:
		if t, ok := m.panel.focusedTarget(); ok && t.kind == targetSecret {
			m.panel.toggleReveal(t)
		}
		return m, nil
	case m.keys.Expand:
		if t, ok := m.panel.focusedTarget(); ok && t.kind == targetSecret {
			m.panel.toggleExpand(t)
		}
		return m, nil
	case m.keys.Copy:
		return m.copyFocusedValue()
	case m.keys.Actions:
		return m.openActions()
	case m.keys.Refresh:
		row := resourceRow{name: m.panel.name, namespace: m.panel.namespace}
		return m.startLoading("Refreshing "+m.panel.name, m.loadObject(row))
	}
	cmd := m.panel.update(msg)
	return m, cmd
}

// startLoading posts a loading status and batches the spinner tick with the
// actual work.
func (m Model) startLoading(text string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.loading = true
	m.status.SetMessage(text, "loading")
	m.status.SetSpinner(m.spin.View())
	return m, tea.Batch(cmd, m.spin.Tick)
}

func (m Model) busy() bool {
	if m.loading {
		return true
	}
	for _, loading := range m.panel.relatedLoading {
		if loading {
			return true
		}
	}
	return false
}

func (m Model) postStatus(level, text string) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{level: level, text: text}
	}
}

func (m Model) copyFocusedValue() (tea.Model, tea.Cmd) {
	t, ok := m.panel.focusedTarget()
	if !ok || t.kind != targetSecret {
		return m, nil
	}
	entry, ok := m.panel.entryFor(t)
	if !ok {
		return m, nil
	}
	if entry.Kind == sections.EntryBinary {
		return m, m.postStatus("warning", "binary entries cannot be copied")
	}
	if err := writeClipboard(entry.Value); err != nil {
		logging.Error("clipboard write failed", "key", entry.Key, "error", err)
		return m, m.postStatus("error", "copy failed: "+err.Error())
	}
	// The value itself never reaches the status line or the log.
	logging.Debug("copied secret entry", "key", entry.Key)
	return m, m.postStatus("success", "Copied "+entry.Key+" to clipboard")
}

func (m Model) openActions() (tea.Model, tea.Cmd) {
	acts := m.registry.Actions(m.panel.obj)
	if len(acts) == 0 {
		return m, m.postStatus("info", "no actions for this kind")
	}
	items := make([]modals.ActionItem, len(acts))
	for i, act := range acts {
		disabled := act.IsDisabled != nil && act.IsDisabled(m.panel.obj)
		items[i] = modals.ActionItem{
			Index:    i,
			Label:    act.Label,
			Variant:  string(act.Variant),
			Confirm:  act.Confirm,
			Disabled: disabled,
		}
	}
	m.actionSet = acts
	modal := modals.NewActionsModal(m.panel.name, items, m.theme)
	modal.SetSize(m.width, m.height)
	m.actions = modal
	return m, nil
}

func (m Model) executeAction(act adapters.Action) tea.Cmd {
	obj := m.panel.obj
	namespace := m.panel.namespace
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := act.Execute(ctx, obj, namespace)
		return actionDoneMsg{actionID: act.ID, label: act.Label, err: err}
	}
}

func (m Model) finishAction(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		logging.Error("action failed",
			"action", msg.actionID, "kind", m.panel.kind, "name", m.panel.name, "error", msg.err)
		return m, m.postStatus("error", fmt.Sprintf("%s failed: %v", msg.label, msg.err))
	}
	logging.Info("action executed",
		"action", msg.actionID, "kind", m.panel.kind, "name", m.panel.name)

	if msg.actionID == "delete" {
		// The subject is gone; fall back to the resource list.
		m.mode = modeResources
		m.header.SetLocation(m.picker.kind, "")
		m.loading = true
		return m, tea.Batch(
			m.postStatus("success", msg.label+" requested"),
			m.loadResources(m.picker.kind),
			m.spin.Tick,
		)
	}

	row := resourceRow{name: m.panel.name, namespace: m.panel.namespace}
	m.loading = true
	return m, tea.Batch(
		m.postStatus("success", msg.label+" requested"),
		m.loadObject(row),
		m.spin.Tick,
	)
}

func (m Model) helpLine() string {
	switch m.mode {
	case modePanel:
		return "tab focus • enter load • r reveal • e expand • c copy • a actions • esc back • q quit"
	case modeResources:
		return "enter open • / filter • ctrl+r refresh • esc back • q quit"
	default:
		return "enter open • / filter • q quit"
	}
}
