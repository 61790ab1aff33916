package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/ksight-io/ksight/internal/k8s"
	"github.com/ksight-io/ksight/internal/keyboard"
	"github.com/ksight-io/ksight/internal/logging"
	"github.com/ksight-io/ksight/internal/ui"
)

// resourceRow is one listed resource, preformatted for the table.
type resourceRow struct {
	name      string
	namespace string
	age       string
}

// pickerModel is the two-step navigation surface: a kind list, then the
// resource list for the chosen kind. One table is rebuilt on every
// transition and filter change.
type pickerModel struct {
	theme *ui.Theme
	keys  *keyboard.Keys

	kinds []string
	kind  string // "" while picking a kind
	cfg   *k8s.ResourceConfig
	rows  []resourceRow

	table     table.Model
	filter    textinput.Model
	filtering bool

	width  int
	height int
}

func newPicker(kinds []string, theme *ui.Theme, keys *keyboard.Keys) pickerModel {
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter"
	filter.CharLimit = 64

	t := table.New(
		table.WithFocused(true),
		table.WithStyles(theme.ToTableStyles()),
	)

	p := pickerModel{
		theme:  theme,
		keys:   keys,
		kinds:  kinds,
		table:  t,
		filter: filter,
		width:  80,
		height: 20,
	}
	p.showKinds()
	return p
}

func (p *pickerModel) setSize(width, height int) {
	p.width = width
	p.height = height
	p.filter.Width = width - 4
	p.table.SetWidth(width)
	// One line is reserved for the filter row.
	tableHeight := height - 1
	if tableHeight < 3 {
		tableHeight = 3
	}
	p.table.SetHeight(tableHeight)
	p.rebuildTable()
}

// showKinds switches back to the kind list and drops any filter.
func (p *pickerModel) showKinds() {
	p.kind = ""
	p.cfg = nil
	p.rows = nil
	p.resetFilter()
	p.rebuildTable()
}

// showResources switches to the resource list for one kind.
func (p *pickerModel) showResources(kind string, cfg *k8s.ResourceConfig, rows []resourceRow) {
	p.kind = kind
	p.cfg = cfg
	p.rows = rows
	p.resetFilter()
	p.rebuildTable()
}

func (p *pickerModel) resetFilter() {
	p.filtering = false
	p.filter.SetValue("")
	p.filter.Blur()
}

func (p *pickerModel) startFilter() tea.Cmd {
	p.filtering = true
	return p.filter.Focus()
}

// stopFilter leaves filter entry mode. When clear is set the filter text is
// dropped too, restoring the full list.
func (p *pickerModel) stopFilter(clear bool) {
	p.filtering = false
	p.filter.Blur()
	if clear {
		p.filter.SetValue("")
		p.rebuildTable()
	}
}

func (p *pickerModel) updateFilter(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.filter, cmd = p.filter.Update(msg)
	p.rebuildTable()
	return cmd
}

// visibleKinds returns the kind list after fuzzy filtering.
func (p *pickerModel) visibleKinds() []string {
	pattern := p.filter.Value()
	if pattern == "" {
		return p.kinds
	}
	matches := fuzzy.Find(pattern, lowered(p.kinds))
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = p.kinds[m.Index]
	}
	return out
}

// visibleRows returns the resource list after fuzzy filtering. The search
// string covers name and namespace.
func (p *pickerModel) visibleRows() []resourceRow {
	pattern := p.filter.Value()
	if pattern == "" {
		return p.rows
	}
	searchStrings := make([]string, len(p.rows))
	for i, row := range p.rows {
		searchStrings[i] = strings.ToLower(row.name + " " + row.namespace)
	}
	matches := fuzzy.Find(pattern, searchStrings)
	out := make([]resourceRow, len(matches))
	for i, m := range matches {
		out[i] = p.rows[m.Index]
	}
	return out
}

func lowered(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

// selectedKind returns the kind under the cursor, or "" when the filtered
// list is empty.
func (p *pickerModel) selectedKind() string {
	row := p.table.SelectedRow()
	if row == nil || len(row) == 0 {
		return ""
	}
	return row[0]
}

// selectedResource returns the resource under the cursor.
func (p *pickerModel) selectedResource() (resourceRow, bool) {
	cursor := p.table.Cursor()
	visible := p.visibleRows()
	if cursor < 0 || cursor >= len(visible) {
		return resourceRow{}, false
	}
	return visible[cursor], true
}

func (p *pickerModel) rebuildTable() {
	if p.kind == "" {
		p.table.SetColumns([]table.Column{
			{Title: "Kind", Width: max(20, p.width-4)},
		})
		kinds := p.visibleKinds()
		rows := make([]table.Row, len(kinds))
		for i, k := range kinds {
			rows[i] = table.Row{k}
		}
		p.table.SetRows(rows)
	} else {
		p.table.SetColumns(p.resourceColumns())
		visible := p.visibleRows()
		rows := make([]table.Row, len(visible))
		for i, r := range visible {
			if p.namespaced() {
				rows[i] = table.Row{r.namespace, r.name, r.age}
			} else {
				rows[i] = table.Row{r.name, r.age}
			}
		}
		p.table.SetRows(rows)
	}
	if p.table.Cursor() >= len(p.table.Rows()) {
		p.table.SetCursor(0)
	}
}

func (p *pickerModel) namespaced() bool {
	return p.cfg == nil || p.cfg.Namespaced
}

func (p *pickerModel) resourceColumns() []table.Column {
	const ageWidth = 8
	if p.namespaced() {
		nsWidth := 20
		nameWidth := p.width - nsWidth - ageWidth - 8
		if nameWidth < 20 {
			nameWidth = 20
		}
		return []table.Column{
			{Title: "Namespace", Width: nsWidth},
			{Title: "Name", Width: nameWidth},
			{Title: "Age", Width: ageWidth},
		}
	}
	nameWidth := p.width - ageWidth - 6
	if nameWidth < 20 {
		nameWidth = 20
	}
	return []table.Column{
		{Title: "Name", Width: nameWidth},
		{Title: "Age", Width: ageWidth},
	}
}

func (p *pickerModel) view() string {
	if p.filtering || p.filter.Value() != "" {
		return p.filter.View() + "\n" + p.table.View()
	}
	return p.table.View()
}

// loadResources resolves and lists the chosen kind off the Update loop.
func (m Model) loadResources(kind string) tea.Cmd {
	lister := m.lister
	namespace := m.namespace
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		cfg, err := lister.ResourceConfig(ctx, kind)
		if err != nil {
			return loadErrMsg{err: fmt.Errorf("resolving %s: %w", kind, err)}
		}
		if cfg == nil {
			return resourcesLoadedMsg{kind: kind}
		}

		objs, err := lister.List(ctx, cfg, namespace)
		if err != nil {
			return loadErrMsg{err: fmt.Errorf("listing %s: %w", kind, err)}
		}

		rows := make([]resourceRow, 0, len(objs))
		for _, obj := range objs {
			rows = append(rows, resourceRow{
				name:      obj.GetName(),
				namespace: obj.GetNamespace(),
				age:       humanAge(obj.GetCreationTimestamp().Time),
			})
		}
		logging.Debug("listed resources", "kind", kind, "count", len(rows))
		return resourcesLoadedMsg{kind: kind, cfg: cfg, rows: rows}
	}
}

// loadObject fetches one resource and adapts it into sections.
func (m Model) loadObject(row resourceRow) tea.Cmd {
	getter := m.getter
	registry := m.registry
	cfg := m.picker.cfg
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		obj, err := getter.Get(ctx, cfg, row.namespace, row.name)
		if err != nil {
			return loadErrMsg{err: fmt.Errorf("fetching %s: %w", row.name, err)}
		}
		return objectLoadedMsg{obj: obj, secs: registry.Adapt(obj, row.namespace)}
	}
}

// humanAge renders a creation timestamp the way kubectl does (45s, 5m, 3h,
// 12d).
func humanAge(created time.Time) string {
	if created.IsZero() {
		return "<unknown>"
	}
	d := time.Since(created)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
