package app

import (
	"context"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/ksight-io/ksight/internal/keyboard"
	"github.com/ksight-io/ksight/internal/logging"
	"github.com/ksight-io/ksight/internal/sections"
	"github.com/ksight-io/ksight/internal/ui"
)

type targetKind int

const (
	targetRelated targetKind = iota
	targetSecret
)

// focusTarget is one interactive element inside the panel: a deferred
// related list or a secret entry. key is stable across re-renders; line is
// the offset of the element's first rendered line.
type focusTarget struct {
	kind      targetKind
	sectionID string
	entryKey  string
	key       string
	line      int
}

// panelModel renders one adapted resource. Reveal and expand toggles are
// keyed by section and entry identity so they survive re-renders but never
// outlive the panel.
type panelModel struct {
	theme *ui.Theme
	keys  *keyboard.Keys

	kind      string
	name      string
	namespace string
	obj       *unstructured.Unstructured
	secs      []sections.Section

	viewport viewport.Model
	focusKey string
	targets  []focusTarget

	revealed       map[string]bool
	expanded       map[string]bool
	related        map[string][]sections.RelatedResource
	relatedLoaded  map[string]bool
	relatedLoading map[string]bool
}

func newPanel(theme *ui.Theme, keys *keyboard.Keys) panelModel {
	return panelModel{
		theme:    theme,
		keys:     keys,
		viewport: viewport.New(80, 20),
	}
}

// setResource replaces the panel content with a freshly adapted object. All
// per-entry toggles and resolved related lists reset with it.
func (p *panelModel) setResource(kind string, obj *unstructured.Unstructured, secs []sections.Section) {
	p.kind = kind
	p.obj = obj
	p.secs = secs
	if obj != nil {
		p.name = obj.GetName()
		p.namespace = obj.GetNamespace()
	}
	p.focusKey = ""
	p.revealed = map[string]bool{}
	p.expanded = map[string]bool{}
	p.related = map[string][]sections.RelatedResource{}
	p.relatedLoaded = map[string]bool{}
	p.relatedLoading = map[string]bool{}
	p.refresh()
	p.viewport.GotoTop()
}

func (p *panelModel) setSize(width, height int) {
	p.viewport.Width = width
	p.viewport.Height = height
	p.refresh()
}

// refresh re-renders the content and re-collects focus targets.
func (p *panelModel) refresh() {
	content, targets := p.content()
	p.targets = targets
	p.viewport.SetContent(content)
}

func (p *panelModel) view() string {
	return p.viewport.View()
}

func (p *panelModel) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd
}

// focusedTarget returns the target the focus key points at.
func (p *panelModel) focusedTarget() (focusTarget, bool) {
	for _, t := range p.targets {
		if t.key == p.focusKey {
			return t, true
		}
	}
	return focusTarget{}, false
}

// moveFocus cycles the focus through the interactive targets and scrolls
// the viewport so the newly focused element is visible.
func (p *panelModel) moveFocus(delta int) {
	if len(p.targets) == 0 {
		return
	}
	index := -1
	for i, t := range p.targets {
		if t.key == p.focusKey {
			index = i
			break
		}
	}
	index += delta
	if index < 0 {
		index = len(p.targets) - 1
	}
	if index >= len(p.targets) {
		index = 0
	}
	p.focusKey = p.targets[index].key
	p.refresh()
	p.scrollTo(p.targets[index].line)
}

func (p *panelModel) scrollTo(line int) {
	switch {
	case line < p.viewport.YOffset:
		p.viewport.SetYOffset(line)
	case line >= p.viewport.YOffset+p.viewport.Height-1:
		p.viewport.SetYOffset(line - p.viewport.Height + 2)
	}
}

// entryFor resolves a secret focus target back to its entry.
func (p *panelModel) entryFor(t focusTarget) (sections.SecretEntry, bool) {
	for _, sec := range p.secs {
		if sec.ID != t.sectionID {
			continue
		}
		data, ok := sec.Data.(sections.SecretEntries)
		if !ok {
			continue
		}
		for _, entry := range data.Entries {
			if entry.Key == t.entryKey {
				return entry, true
			}
		}
	}
	return sections.SecretEntry{}, false
}

// toggleReveal flips the mask on the focused sensitive entry. Binary
// entries carry no value and stay masked.
func (p *panelModel) toggleReveal(t focusTarget) bool {
	entry, ok := p.entryFor(t)
	if !ok || !entry.Sensitive || entry.Kind == sections.EntryBinary {
		return false
	}
	p.revealed[t.key] = !p.revealed[t.key]
	p.refresh()
	return true
}

// toggleExpand flips collapse on the focused multiline entry.
func (p *panelModel) toggleExpand(t focusTarget) bool {
	entry, ok := p.entryFor(t)
	if !ok || entry.Kind != sections.EntryMultiline {
		return false
	}
	p.expanded[t.key] = !p.expanded[t.key]
	p.refresh()
	return true
}

// relatedSection finds the deferred section with the given ID.
func (p *panelModel) relatedSection(sectionID string) (sections.Related, bool) {
	for _, sec := range p.secs {
		if sec.ID != sectionID {
			continue
		}
		if rel, ok := sec.Data.(sections.Related); ok {
			return rel, true
		}
	}
	return sections.Related{}, false
}

func (p *panelModel) markRelatedLoading(sectionID string) {
	p.relatedLoading[sectionID] = true
	p.refresh()
}

func (p *panelModel) setRelated(sectionID string, items []sections.RelatedResource) {
	p.relatedLoading[sectionID] = false
	p.relatedLoaded[sectionID] = true
	p.related[sectionID] = items
	p.refresh()
}

// loadRelated resolves one deferred list off the Update loop. Every
// invocation performs a fresh fetch; pressing enter again reloads.
func (m Model) loadRelated(sectionID string) tea.Cmd {
	rel, ok := m.panel.relatedSection(sectionID)
	if !ok {
		return nil
	}
	kind, name := m.panel.kind, m.panel.name
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		items := rel.Load(ctx)
		logging.Debug("resolved related resources",
			"kind", kind, "name", name, "section", sectionID, "count", len(items))
		return relatedLoadedMsg{sectionID: sectionID, items: items}
	}
}
