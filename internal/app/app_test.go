package app

import (
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"

	"github.com/ksight-io/ksight/internal/adapters"
	"github.com/ksight-io/ksight/internal/k8s"
	"github.com/ksight-io/ksight/internal/modals"
	"github.com/ksight-io/ksight/internal/ui"
)

func testObject(kind, namespace, name string, fields map[string]interface{}) *unstructured.Unstructured {
	obj := map[string]interface{}{
		"apiVersion": "v1",
		"kind":       kind,
		"metadata": map[string]interface{}{
			"name":      name,
			"namespace": namespace,
		},
	}
	for k, v := range fields {
		obj[k] = v
	}
	return &unstructured.Unstructured{Object: obj}
}

func deploymentConfig() k8s.ResourceConfig {
	return k8s.ResourceConfig{
		GVR:        schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "deployments"},
		Kind:       "Deployment",
		Namespaced: true,
	}
}

func replicaSetConfig() k8s.ResourceConfig {
	return k8s.ResourceConfig{
		GVR:        schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "replicasets"},
		Kind:       "ReplicaSet",
		Namespaced: true,
	}
}

func secretConfig() k8s.ResourceConfig {
	return k8s.ResourceConfig{
		GVR:        schema.GroupVersionResource{Version: "v1", Resource: "secrets"},
		Kind:       "Secret",
		Namespaced: true,
	}
}

func webDeployment() *unstructured.Unstructured {
	obj := testObject("Deployment", "default", "web", map[string]interface{}{
		"spec": map[string]interface{}{
			"replicas": int64(3),
			"strategy": map[string]interface{}{"type": "RollingUpdate"},
			"selector": map[string]interface{}{
				"matchLabels": map[string]interface{}{"app": "web"},
			},
		},
		"status": map[string]interface{}{
			"readyReplicas":     int64(2),
			"updatedReplicas":   int64(3),
			"availableReplicas": int64(2),
		},
	})
	obj.SetUID(types.UID("uid-1"))
	obj.SetAnnotations(map[string]string{"deployment.kubernetes.io/revision": "4"})
	return obj
}

func webReplicaSet() *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "apps/v1",
		"kind":       "ReplicaSet",
		"metadata": map[string]interface{}{
			"name":      "web-abc1234",
			"namespace": "default",
			"ownerReferences": []interface{}{map[string]interface{}{
				"apiVersion": "apps/v1",
				"kind":       "Deployment",
				"name":       "web",
				"uid":        "uid-1",
			}},
			"annotations": map[string]interface{}{
				"deployment.kubernetes.io/revision": "4",
			},
		},
		"spec":   map[string]interface{}{"replicas": int64(2)},
		"status": map[string]interface{}{"readyReplicas": int64(2)},
	}}
}

func credsSecret() *unstructured.Unstructured {
	return testObject("Secret", "default", "creds", map[string]interface{}{
		"type": "Opaque",
		"data": map[string]interface{}{
			"password": "aHVudGVyMg==",
			"ca.crt":   "bGluZSBvbmUKbGluZSB0d28K",
		},
	})
}

func newTestModel(t *testing.T) (Model, *k8s.Fake) {
	t.Helper()
	fake := k8s.NewFake()
	fake.Register(deploymentConfig(), webDeployment())
	fake.Register(replicaSetConfig(), webReplicaSet())
	fake.Register(secretConfig(), credsSecret())

	registry := adapters.NewRegistry(adapters.Deps{Lister: fake, Actions: fake})
	m := NewModel(Deps{
		Registry: registry,
		Lister:   fake,
		Getter:   fake,
		Context:  "kind-test",
		Theme:    ui.ThemeCharm(),
	})
	model, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return model.(Model), fake
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

// runCmd executes a command tree and returns the produced messages.
// Spinner ticks are dropped so tests stay synchronous.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, sub := range batch {
			out = append(out, runCmd(sub)...)
		}
		return out
	}
	if _, ok := msg.(spinner.TickMsg); ok {
		return nil
	}
	return []tea.Msg{msg}
}

// deliver feeds messages into the model and follows the commands they
// produce. The clear timer scheduled after a status message is skipped so
// tests never sleep.
func deliver(t *testing.T, m Model, msgs []tea.Msg) Model {
	t.Helper()
	queue := append([]tea.Msg(nil), msgs...)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		var cmd tea.Cmd
		m, cmd = update(t, m, msg)
		if _, ok := msg.(statusMsg); ok {
			continue
		}
		queue = append(queue, runCmd(cmd)...)
	}
	return m
}

// openKind filters the kind list down to one match and opens it.
func openKind(t *testing.T, m Model, filter string) Model {
	t.Helper()
	m, _ = update(t, m, key("/"))
	m, _ = update(t, m, key(filter))
	m, _ = update(t, m, key("enter"))
	m, cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)
	return deliver(t, m, runCmd(cmd))
}

// openResource opens the resource under the cursor.
func openResource(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)
	return deliver(t, m, runCmd(cmd))
}

func TestModelStartsOnKindPicker(t *testing.T) {
	m, _ := newTestModel(t)

	assert.Equal(t, modeKinds, m.mode)
	view := m.View()
	assert.Contains(t, view, "ksight")
	assert.Contains(t, view, "Deployment")
	assert.Contains(t, view, "Pod")
	assert.Contains(t, view, "kind-test")
}

func TestKindSelectionListsResources(t *testing.T) {
	m, _ := newTestModel(t)

	m = openKind(t, m, "deployment")

	assert.Equal(t, modeResources, m.mode)
	assert.Equal(t, "Deployment", m.picker.kind)
	view := m.View()
	assert.Contains(t, view, "web")
	assert.Contains(t, view, "default")
}

func TestResourceSelectionOpensPanel(t *testing.T) {
	m, _ := newTestModel(t)
	m = openKind(t, m, "deployment")

	m = openResource(t, m)

	assert.Equal(t, modePanel, m.mode)
	view := m.View()
	assert.Contains(t, view, "Status")
	assert.Contains(t, view, "Replicas")
	assert.Contains(t, view, "Replica Sets")
	assert.Contains(t, view, "2 / 3")
}

func TestRelatedListLoadsOnDemand(t *testing.T) {
	m, _ := newTestModel(t)
	m = openKind(t, m, "deployment")
	m = openResource(t, m)

	// The deferred list starts unresolved.
	assert.Contains(t, m.View(), "enter to load")
	assert.NotContains(t, m.View(), "web-abc1234")

	m, _ = update(t, m, key("tab"))
	m, cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "loading")

	m = deliver(t, m, runCmd(cmd))
	view := m.View()
	assert.Contains(t, view, "web-abc1234")
	assert.Contains(t, view, "revision 4, 2/2 ready")
}

func TestPanelEscReturnsToResources(t *testing.T) {
	m, _ := newTestModel(t)
	m = openKind(t, m, "deployment")
	m = openResource(t, m)

	m, _ = update(t, m, key("esc"))

	assert.Equal(t, modeResources, m.mode)
	assert.Contains(t, m.View(), "web")
}

func TestSecretValuesMaskedUntilRevealed(t *testing.T) {
	m, _ := newTestModel(t)
	m = openKind(t, m, "secret")
	m = openResource(t, m)

	view := m.View()
	assert.Contains(t, view, "password")
	assert.Contains(t, view, "••••••••")
	assert.NotContains(t, view, "hunter2")
	// Public entries render their decoded first line.
	assert.Contains(t, view, "line one")

	// Entries are sorted, so the second target is the password.
	m, _ = update(t, m, key("tab"))
	m, _ = update(t, m, key("tab"))
	m, _ = update(t, m, key("r"))
	assert.Contains(t, m.View(), "hunter2")

	m, _ = update(t, m, key("r"))
	assert.NotContains(t, m.View(), "hunter2")
}

func TestSecretCopyUsesClipboard(t *testing.T) {
	old := writeClipboard
	var copied string
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	defer func() { writeClipboard = old }()

	m, _ := newTestModel(t)
	m = openKind(t, m, "secret")
	m = openResource(t, m)

	m, _ = update(t, m, key("tab"))
	m, _ = update(t, m, key("tab"))
	m, cmd := update(t, m, key("c"))
	require.NotNil(t, cmd)

	assert.Equal(t, "hunter2", copied)
	m = deliver(t, m, runCmd(cmd))
	view := m.View()
	assert.Contains(t, view, "Copied password to clipboard")
	assert.NotContains(t, view, "hunter2", "the value stays off the status line")
}

func TestActionsOverlayExecutesRestart(t *testing.T) {
	m, fake := newTestModel(t)
	m = openKind(t, m, "deployment")
	m = openResource(t, m)

	m, _ = update(t, m, key("a"))
	require.NotNil(t, m.actions)
	assert.Contains(t, m.View(), "Actions: web")

	// Rolling restart asks for confirmation first.
	m, cmd := update(t, m, key("enter"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Restart this deployment?")

	m, cmd = update(t, m, key("y"))
	msgs := runCmd(cmd)
	require.Len(t, msgs, 1)
	chosen, ok := msgs[0].(modals.ActionChosenMsg)
	require.True(t, ok)

	m, cmd = update(t, m, chosen)
	assert.Nil(t, m.actions)
	m = deliver(t, m, runCmd(cmd))

	patches := fake.Patches()
	require.Len(t, patches, 1)
	assert.Equal(t, "deployments", patches[0].Resource)
	assert.Equal(t, "web", patches[0].Name)
	assert.Contains(t, string(patches[0].Data), "restartedAt")
}

func TestActionsOverlayDismiss(t *testing.T) {
	m, fake := newTestModel(t)
	m = openKind(t, m, "deployment")
	m = openResource(t, m)

	m, _ = update(t, m, key("a"))
	require.NotNil(t, m.actions)

	m, cmd := update(t, m, key("esc"))
	msgs := runCmd(cmd)
	m = deliver(t, m, msgs)

	assert.Nil(t, m.actions)
	assert.Empty(t, fake.Patches())
}

func TestListFailureSurfacesStatus(t *testing.T) {
	m, fake := newTestModel(t)
	fake.FailList("deployments", assert.AnError)

	m, _ = update(t, m, key("/"))
	m, _ = update(t, m, key("deployment"))
	m, _ = update(t, m, key("enter"))
	m, cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)

	m = deliver(t, m, runCmd(cmd))
	assert.Equal(t, modeKinds, m.mode, "stays on the kind list when listing fails")
	assert.Contains(t, m.View(), "listing Deployment")
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := update(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	_, cmd = update(t, m, key("ctrl+c"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestFilterSwallowsQuitRune(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, key("/"))
	m, _ = update(t, m, key("q"))

	assert.Equal(t, modeKinds, m.mode)
	assert.Equal(t, "q", m.picker.filter.Value())

	// Ctrl+C still quits while typing.
	_, cmd := update(t, m, key("ctrl+c"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestFilterEscRestoresFullList(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, key("/"))
	m, _ = update(t, m, key("secret"))
	assert.Len(t, m.picker.visibleKinds(), 1)

	m, _ = update(t, m, key("esc"))
	assert.False(t, m.picker.filtering)
	assert.Len(t, m.picker.visibleKinds(), len(m.picker.kinds))
}
