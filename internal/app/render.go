package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ksight-io/ksight/internal/sections"
)

const gaugeBarWidth = 24

// panelRenderer accumulates the rendered lines of a panel together with the
// focus targets discovered along the way.
type panelRenderer struct {
	p       *panelModel
	lines   []string
	targets []focusTarget
}

// content renders the full section list. Target line offsets refer to the
// returned content.
func (p *panelModel) content() (string, []focusTarget) {
	r := &panelRenderer{p: p}
	for _, sec := range p.secs {
		r.section(sec)
	}
	return strings.Join(r.lines, "\n"), r.targets
}

func (r *panelRenderer) add(lines ...string) {
	r.lines = append(r.lines, lines...)
}

// mark registers a focus target starting at the next line to be added.
func (r *panelRenderer) mark(t focusTarget) {
	t.line = len(r.lines)
	r.targets = append(r.targets, t)
}

func (r *panelRenderer) muted(s string) string {
	return lipgloss.NewStyle().Foreground(r.p.theme.Muted).Render(s)
}

func (r *panelRenderer) dimmed(s string) string {
	return lipgloss.NewStyle().Foreground(r.p.theme.Dimmed).Render(s)
}

func (r *panelRenderer) bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Render(s)
}

func (r *panelRenderer) section(sec sections.Section) {
	if rel, ok := sec.Data.(sections.Related); ok {
		r.relatedSection(sec, rel)
		r.add("")
		return
	}

	r.add(r.p.theme.SectionTitle.Render(sec.Title))

	switch data := sec.Data.(type) {
	case sections.StatusCards:
		r.statusCards(data)
	case sections.Gauges:
		r.gauges(data)
	case sections.Conditions:
		r.conditions(data)
	case sections.InfoGrid:
		r.infoGrid(data)
	case sections.Labels:
		r.labels(data)
	case sections.Table:
		r.table(data)
	case sections.Containers:
		r.containers(data)
	case sections.Volumes:
		r.volumes(data)
	case sections.SecretEntries:
		r.secretEntries(sec.ID, data)
	case sections.Custom:
		r.custom(data)
	}

	r.add("")
}

func (r *panelRenderer) statusCards(data sections.StatusCards) {
	parts := make([]string, 0, len(data.Cards))
	for _, card := range data.Cards {
		style := r.p.theme.LevelStyle(string(card.Level))
		dot := "●"
		if card.Icon != "" {
			dot = card.Icon
		}
		parts = append(parts, fmt.Sprintf("%s %s %s",
			style.Render(dot), r.muted(card.Label), style.Bold(true).Render(card.Value)))
	}
	r.add("  " + strings.Join(parts, "   "))
}

func (r *panelRenderer) gauges(data sections.Gauges) {
	for _, g := range data.Gauges {
		filled := 0
		if g.Total > 0 {
			filled = int(float64(g.Current) / float64(g.Total) * gaugeBarWidth)
			// Current beyond Total happens mid-surge; clamp for display.
			if filled > gaugeBarWidth {
				filled = gaugeBarWidth
			}
			if filled < 0 {
				filled = 0
			}
		}
		bar := r.p.theme.GaugeStyle(string(g.Color)).Render(strings.Repeat("█", filled)) +
			r.dimmed(strings.Repeat("░", gaugeBarWidth-filled))
		r.add(fmt.Sprintf("  %-12s %s %d / %d", g.Label, bar, g.Current, g.Total))
	}
}

func (r *panelRenderer) conditions(data sections.Conditions) {
	style := r.p.theme.LevelStyle("warning")
	for _, c := range data.Conditions {
		line := fmt.Sprintf("! %s is %s", c.Type, c.Status)
		if c.Reason != "" {
			line += fmt.Sprintf(" (%s)", c.Reason)
		}
		r.add("  " + style.Render(line))
		if c.Message != "" {
			r.add("    " + r.muted(clip(c.Message, r.width()-6)))
		}
	}
}

func (r *panelRenderer) infoGrid(data sections.InfoGrid) {
	labelWidth := 0
	for _, row := range data.Rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
	}
	if labelWidth > 24 {
		labelWidth = 24
	}
	for _, row := range data.Rows {
		label := fmt.Sprintf("%-*s", labelWidth, clip(row.Label, labelWidth))
		r.add(fmt.Sprintf("  %s  %s", r.muted(label), row.Value))
	}
}

func (r *panelRenderer) labels(data sections.Labels) {
	keys := make([]string, 0, len(data.Labels))
	for k := range data.Labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	line := "  "
	used := 2
	for _, k := range keys {
		chip := fmt.Sprintf("%s=%s", k, data.Labels[k])
		if used > 2 && used+len(chip)+2 > r.width() {
			r.add(line)
			line = "  "
			used = 2
		}
		line += r.muted(k) + "=" + data.Labels[k] + "  "
		used += len(chip) + 2
	}
	if used > 2 {
		r.add(strings.TrimRight(line, " "))
	}
}

func (r *panelRenderer) table(data sections.Table) {
	widths := make([]int, len(data.Headers))
	for i, h := range data.Headers {
		widths[i] = len(h)
	}
	for _, row := range data.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	for i := range widths {
		if widths[i] > 40 {
			widths[i] = 40
		}
	}

	header := make([]string, len(data.Headers))
	for i, h := range data.Headers {
		header[i] = fmt.Sprintf("%-*s", widths[i], h)
	}
	r.add("  " + r.muted(strings.Join(header, "  ")))

	for _, row := range data.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			w := 40
			if i < len(widths) {
				w = widths[i]
			}
			cells[i] = fmt.Sprintf("%-*s", w, clip(cell, w))
		}
		r.add("  " + strings.Join(cells, "  "))
	}
}

func (r *panelRenderer) containers(data sections.Containers) {
	for _, c := range data.Containers {
		dot := r.p.theme.LevelStyle(string(c.Level)).Render("●")
		name := r.bold(c.Name)
		if c.Init {
			name += r.muted(" (init)")
		}
		ready := ""
		if c.Ready {
			ready = " " + r.p.theme.LevelStyle("success").Render("✓")
		}
		meta := c.State
		if c.Restarts > 0 {
			meta += fmt.Sprintf(", %d restarts", c.Restarts)
		}
		r.add(fmt.Sprintf("  %s %s%s  %s", dot, name, ready, meta))

		detail := c.Image
		if len(c.Ports) > 0 {
			detail += "  " + strings.Join(c.Ports, " ")
		}
		r.add("    " + r.muted(clip(detail, r.width()-6)))
	}
}

func (r *panelRenderer) volumes(data sections.Volumes) {
	for _, v := range data.Volumes {
		line := fmt.Sprintf("  %s  %s", r.bold(v.Name), v.Source)
		if v.Detail != "" {
			line += r.muted(" (" + v.Detail + ")")
		}
		r.add(line)
	}
}

func (r *panelRenderer) secretEntries(sectionID string, data sections.SecretEntries) {
	for _, entry := range data.Entries {
		key := sectionID + "/" + entry.Key
		focused := r.p.focusKey == key
		marker := "  "
		if focused {
			marker = "▸ "
		}
		r.mark(focusTarget{
			kind:      targetSecret,
			sectionID: sectionID,
			entryKey:  entry.Key,
			key:       key,
		})

		head := fmt.Sprintf("%s%s  %s", marker, r.bold(entry.Key),
			r.muted(fmt.Sprintf("%s, %d bytes", entry.Kind, entry.Size)))
		if entry.Sensitive {
			head += "  " + r.p.theme.LevelStyle("warning").Render("sensitive")
		}
		r.add(head)

		switch {
		case entry.Kind == sections.EntryBinary:
			r.add("    " + r.muted("<binary>"))
		case entry.Sensitive && !r.p.revealed[key]:
			mask := "••••••••"
			if focused {
				mask += r.dimmed("  (r to reveal)")
			}
			r.add("    " + mask)
		default:
			r.secretValue(key, entry, focused)
		}
	}
}

func (r *panelRenderer) secretValue(key string, entry sections.SecretEntry, focused bool) {
	lines := strings.Split(entry.Value, "\n")
	if entry.Kind == sections.EntryMultiline && !r.p.expanded[key] {
		first := clip(lines[0], r.width()-10)
		hint := fmt.Sprintf("  (+%d lines)", len(lines)-1)
		if focused {
			hint = fmt.Sprintf("  (+%d lines, e to expand)", len(lines)-1)
		}
		r.add("    " + first + r.dimmed(hint))
		return
	}
	for _, line := range lines {
		r.add("    " + clip(line, r.width()-6))
	}
}

func (r *panelRenderer) relatedSection(sec sections.Section, rel sections.Related) {
	focused := r.p.focusKey == sec.ID
	marker := "  "
	if focused {
		marker = "▸ "
	}
	r.mark(focusTarget{
		kind:      targetRelated,
		sectionID: sec.ID,
		key:       sec.ID,
	})
	r.add(marker + r.p.theme.SectionTitle.Render(sec.Title) + r.muted(" "+rel.Kind))

	items, loaded := r.p.related[sec.ID], r.p.relatedLoaded[sec.ID]
	switch {
	case r.p.relatedLoading[sec.ID]:
		r.add("    " + r.muted("loading"))
	case !loaded:
		hint := "press enter to load"
		if !focused {
			hint = "tab here, enter to load"
		}
		r.add("    " + r.dimmed(hint))
	case len(items) == 0:
		r.add("    " + r.muted("none found"))
	default:
		for _, item := range items {
			dot := r.p.theme.LevelStyle(string(item.Level)).Render("●")
			name := item.Name
			if item.Namespace != "" && item.Namespace != r.p.namespace {
				name = item.Namespace + "/" + name
			}
			if item.Heuristic {
				// Tilde flags name-pattern matches that lack an owner
				// reference.
				name = "~" + name
			}
			line := fmt.Sprintf("    %s %s", dot, name)
			if item.Detail != "" {
				line += "  " + r.muted(item.Detail)
			}
			r.add(line)
		}
	}
}

func (r *panelRenderer) custom(data sections.Custom) {
	if data.Render == nil {
		return
	}
	for _, line := range strings.Split(strings.TrimRight(data.Render(), "\n"), "\n") {
		r.add("  " + line)
	}
}

func (r *panelRenderer) width() int {
	if r.p.viewport.Width > 0 {
		return r.p.viewport.Width
	}
	return 80
}

// clip truncates a plain string to at most width runes.
func clip(s string, width int) string {
	if width < 4 {
		width = 4
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
