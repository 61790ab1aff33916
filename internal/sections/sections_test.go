package sections

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionType(t *testing.T) {
	tests := []struct {
		name     string
		data     Data
		expected string
	}{
		{"status cards", StatusCards{}, "status-cards"},
		{"gauges", Gauges{}, "gauges"},
		{"conditions", Conditions{}, "conditions"},
		{"info grid", InfoGrid{}, "info-grid"},
		{"labels", Labels{}, "labels"},
		{"table", Table{}, "table"},
		{"containers", Containers{}, "containers"},
		{"volumes", Volumes{}, "volumes"},
		{"secret data", SecretEntries{}, "secret-data"},
		{"related", Related{}, "related"},
		{"custom", Custom{}, "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Section{ID: "x", Data: tt.data}
			assert.Equal(t, tt.expected, s.Type())
		})
	}

	assert.Equal(t, "", Section{ID: "empty"}.Type())
}

func TestSectionMarshalJSON(t *testing.T) {
	s := Section{
		ID:    "status",
		Title: "Status",
		Data: StatusCards{Cards: []StatusCard{
			{Label: "Phase", Value: "Running", Level: LevelSuccess},
		}},
	}

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "status", decoded["id"])
	assert.Equal(t, "Status", decoded["title"])
	assert.Equal(t, "status-cards", decoded["type"])

	data, ok := decoded["data"].(map[string]any)
	require.True(t, ok)
	cards, ok := data["cards"].([]any)
	require.True(t, ok)
	require.Len(t, cards, 1)
}

func TestSectionMarshalJSONRelatedNotInvoked(t *testing.T) {
	invoked := false
	s := Section{
		ID:    "replicasets",
		Title: "Replica Sets",
		Data: Related{
			Kind: "ReplicaSet",
			Load: func(ctx context.Context) []RelatedResource {
				invoked = true
				return nil
			},
		},
	}

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	// Serialization must describe the deferred section, never resolve it.
	assert.False(t, invoked)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "related", decoded["type"])
	data, ok := decoded["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ReplicaSet", data["kind"])
}

func TestSectionMarshalJSONCustom(t *testing.T) {
	s := Section{
		ID:   "notes",
		Data: Custom{Render: func() string { return "rendered" }},
	}

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	data, ok := decoded["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "rendered", data["content"])
}

func TestGaugeToleratesCurrentAboveTotal(t *testing.T) {
	// A surge rollout can report more current replicas than desired; the
	// data model carries the values untouched.
	g := Gauge{Label: "Ready", Current: 4, Total: 3, Color: GaugeGreen}

	raw, err := json.Marshal(Section{ID: "g", Data: Gauges{Gauges: []Gauge{g}}})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	data := decoded["data"].(map[string]any)
	gauges := data["gauges"].([]any)
	first := gauges[0].(map[string]any)
	assert.Equal(t, float64(4), first["current"])
	assert.Equal(t, float64(3), first["total"])
}
