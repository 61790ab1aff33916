package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksight-io/ksight/internal/keyboard"
	"github.com/ksight-io/ksight/internal/sections"
	"github.com/ksight-io/ksight/internal/ui"
)

func renderSections(secs ...sections.Section) string {
	p := newPanel(ui.ThemeCharm(), keyboard.GetKeys())
	p.setSize(80, 40)
	p.setResource("Pod", nil, secs)
	content, _ := p.content()
	return content
}

func TestGaugeRendersProportionalBar(t *testing.T) {
	out := renderSections(sections.Section{
		ID:    "replicas",
		Title: "Replicas",
		Data: sections.Gauges{Gauges: []sections.Gauge{
			{Label: "Ready", Current: 2, Total: 3, Color: sections.GaugeGreen},
		}},
	})

	assert.Contains(t, out, strings.Repeat("█", 16))
	assert.Contains(t, out, strings.Repeat("░", 8))
	assert.Contains(t, out, "2 / 3")
}

func TestGaugeClampsSurgeAboveTotal(t *testing.T) {
	out := renderSections(sections.Section{
		ID:    "replicas",
		Title: "Replicas",
		Data: sections.Gauges{Gauges: []sections.Gauge{
			{Label: "Updated", Current: 5, Total: 3, Color: sections.GaugeBlue},
		}},
	})

	assert.Contains(t, out, strings.Repeat("█", 24))
	assert.NotContains(t, out, "░")
	assert.Contains(t, out, "5 / 3")
}

func TestGaugeZeroTotalRendersEmptyBar(t *testing.T) {
	out := renderSections(sections.Section{
		ID:    "replicas",
		Title: "Replicas",
		Data: sections.Gauges{Gauges: []sections.Gauge{
			{Label: "Ready", Current: 0, Total: 0, Color: sections.GaugeBlue},
		}},
	})

	assert.Contains(t, out, strings.Repeat("░", 24))
	assert.NotContains(t, out, "█")
	assert.Contains(t, out, "0 / 0")
}

func TestConditionLinesFlagAbnormalState(t *testing.T) {
	out := renderSections(sections.Section{
		ID:    "conditions",
		Title: "Conditions",
		Data: sections.Conditions{Conditions: []sections.Condition{
			{
				Type:    "Progressing",
				Status:  "False",
				Reason:  "ProgressDeadlineExceeded",
				Message: "ReplicaSet has timed out progressing.",
			},
		}},
	})

	assert.Contains(t, out, "! Progressing is False (ProgressDeadlineExceeded)")
	assert.Contains(t, out, "ReplicaSet has timed out progressing.")
}

func TestStatusCardIconOverridesDot(t *testing.T) {
	out := renderSections(sections.Section{
		ID:    "status",
		Title: "Status",
		Data: sections.StatusCards{Cards: []sections.StatusCard{
			{Label: "Phase", Value: "Pending", Level: sections.LevelWarning, Icon: "◷"},
		}},
	})

	assert.Contains(t, out, "◷")
	assert.NotContains(t, out, "●")
	assert.Contains(t, out, "Phase")
	assert.Contains(t, out, "Pending")
}

func TestSecretEntryMasking(t *testing.T) {
	out := renderSections(sections.Section{
		ID:    "data",
		Title: "Data",
		Data: sections.SecretEntries{Entries: []sections.SecretEntry{
			{Key: "namespace", Value: "default", Kind: sections.EntrySingleLine, Size: 7},
			{Key: "password", Value: "hunter2", Kind: sections.EntrySingleLine, Sensitive: true, Size: 7},
			{Key: "keystore", Kind: sections.EntryBinary, Sensitive: true, Size: 2048},
		}},
	})

	// Public entries show their value, sensitive ones only the mask.
	assert.Contains(t, out, "default")
	assert.Contains(t, out, "••••••••")
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "sensitive")
	assert.Contains(t, out, "<binary>")
	assert.Contains(t, out, "single-line, 7 bytes")
	assert.Contains(t, out, "binary, 2048 bytes")
}

func TestSecretMultilineCollapses(t *testing.T) {
	secs := []sections.Section{{
		ID:    "data",
		Title: "Data",
		Data: sections.SecretEntries{Entries: []sections.SecretEntry{
			{Key: "ca.crt", Value: "line one\nline two", Kind: sections.EntryMultiline, Size: 17},
		}},
	}}

	p := newPanel(ui.ThemeCharm(), keyboard.GetKeys())
	p.setSize(80, 40)
	p.setResource("Secret", nil, secs)

	out, _ := p.content()
	assert.Contains(t, out, "line one")
	assert.Contains(t, out, "(+1 lines")
	assert.NotContains(t, out, "line two")

	require.True(t, p.toggleExpand(targetByKey(t, p, "data/ca.crt")))
	out, _ = p.content()
	assert.Contains(t, out, "line two")
	assert.NotContains(t, out, "(+1 lines")
}

func TestRelatedItemMarkers(t *testing.T) {
	p := newPanel(ui.ThemeCharm(), keyboard.GetKeys())
	p.setSize(80, 40)
	p.setResource("Service", testObject("Service", "default", "web", nil), []sections.Section{{
		ID:    "related-pods",
		Title: "Pods",
		Data:  sections.Related{Kind: "Pod", Load: noRelated},
	}})

	p.setRelated("related-pods", []sections.RelatedResource{
		{Name: "web-1", Namespace: "default", Detail: "Running"},
		{Name: "dns", Namespace: "kube-system"},
		{Name: "web-legacy", Namespace: "default", Heuristic: true},
	})

	out, _ := p.content()
	// Same-namespace names stay bare; foreign namespaces are prefixed and
	// heuristic matches carry a tilde.
	assert.Contains(t, out, "web-1  Running")
	assert.NotContains(t, out, "default/web-1")
	assert.Contains(t, out, "kube-system/dns")
	assert.Contains(t, out, "~web-legacy")
}

func TestRelatedStateLines(t *testing.T) {
	secs := []sections.Section{{
		ID:    "related-pods",
		Title: "Pods",
		Data:  sections.Related{Kind: "Pod", Load: noRelated},
	}}

	p := newPanel(ui.ThemeCharm(), keyboard.GetKeys())
	p.setSize(80, 40)
	p.setResource("Service", nil, secs)

	out, _ := p.content()
	assert.Contains(t, out, "tab here, enter to load")

	p.moveFocus(1)
	out, _ = p.content()
	assert.Contains(t, out, "▸")
	assert.Contains(t, out, "press enter to load")

	p.markRelatedLoading("related-pods")
	out, _ = p.content()
	assert.Contains(t, out, "loading")

	p.setRelated("related-pods", nil)
	out, _ = p.content()
	assert.Contains(t, out, "none found")
}

func TestTableClipsWideCells(t *testing.T) {
	out := renderSections(sections.Section{
		ID:    "rules",
		Title: "Rules",
		Data: sections.Table{
			Headers: []string{"Host", "Path"},
			Rows:    [][]string{{"example.com", strings.Repeat("x", 60)}},
		},
	})

	assert.Contains(t, out, "Host")
	assert.Contains(t, out, "example.com")
	assert.Contains(t, out, strings.Repeat("x", 39)+"…")
	assert.NotContains(t, out, strings.Repeat("x", 40))
}

func TestLabelChipsSorted(t *testing.T) {
	out := renderSections(sections.Section{
		ID:    "labels",
		Title: "Labels",
		Data: sections.Labels{Labels: map[string]string{
			"tier": "backend",
			"app":  "web",
		}},
	})

	assert.Contains(t, out, "app=web  tier=backend")
}

func TestContainerLines(t *testing.T) {
	out := renderSections(sections.Section{
		ID:    "containers",
		Title: "Containers",
		Data: sections.Containers{Containers: []sections.Container{
			{
				Name:     "app",
				Image:    "nginx:1.27",
				Ready:    true,
				State:    "Running",
				Level:    sections.LevelSuccess,
				Restarts: 3,
				Ports:    []string{"80/TCP"},
			},
			{
				Name:  "setup",
				Image: "busybox:1.36",
				State: "Completed",
				Level: sections.LevelNeutral,
				Init:  true,
			},
		}},
	})

	assert.Contains(t, out, "app ✓  Running, 3 restarts")
	assert.Contains(t, out, "nginx:1.27  80/TCP")
	assert.Contains(t, out, "setup (init)")
	assert.NotContains(t, out, "Completed, 0 restarts")
}

func TestVolumeLines(t *testing.T) {
	out := renderSections(sections.Section{
		ID:    "volumes",
		Title: "Volumes",
		Data: sections.Volumes{Volumes: []sections.Volume{
			{Name: "config", Source: "ConfigMap", Detail: "app-config"},
			{Name: "scratch", Source: "EmptyDir"},
		}},
	})

	assert.Contains(t, out, "config  ConfigMap (app-config)")
	assert.Contains(t, out, "scratch  EmptyDir")
	assert.NotContains(t, out, "EmptyDir (")
}

func TestCustomSectionIndents(t *testing.T) {
	out := renderSections(sections.Section{
		ID:    "raw",
		Title: "Raw",
		Data: sections.Custom{Render: func() string {
			return "first\nsecond\n"
		}},
	})

	assert.Contains(t, out, "  first\n  second")
}

func TestClipTruncatesRunes(t *testing.T) {
	assert.Equal(t, "abcdef", clip("abcdef", 10))
	assert.Equal(t, "abc…", clip("abcdef", 4))
	assert.Equal(t, "héllo…", clip("héllo-wörld", 6))
	// Widths below the floor are raised to it.
	assert.Equal(t, "abc…", clip("abcdef", 2))
}
