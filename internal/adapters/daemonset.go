package adapters

import (
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/ksight-io/ksight/internal/sections"
)

// daemonSetAdapter renders daemon sets: per-node scheduling counts and
// update strategy.
type daemonSetAdapter struct{}

func newDaemonSetAdapter() daemonSetAdapter { return daemonSetAdapter{} }

func (daemonSetAdapter) Kinds() []string { return []string{"DaemonSet", "DaemonSets"} }

func (daemonSetAdapter) Adapt(obj *unstructured.Unstructured, namespace string) []sections.Section {
	if !hasSpec(obj) {
		return nil
	}

	secs := []sections.Section{}

	desired, _, _ := unstructured.NestedInt64(obj.Object, "status", "desiredNumberScheduled")
	current, _, _ := unstructured.NestedInt64(obj.Object, "status", "currentNumberScheduled")
	ready, _, _ := unstructured.NestedInt64(obj.Object, "status", "numberReady")
	updated, _, _ := unstructured.NestedInt64(obj.Object, "status", "updatedNumberScheduled")
	available, _, _ := unstructured.NestedInt64(obj.Object, "status", "numberAvailable")

	level := readyLevel(ready, desired)

	secs = append(secs, sections.Section{
		ID:    "status",
		Title: "Status",
		Data: sections.StatusCards{Cards: []sections.StatusCard{
			{Label: "Ready", Value: fmt.Sprintf("%d/%d", ready, desired), Level: level},
			{Label: "Current", Value: fmt.Sprintf("%d", current), Level: sections.LevelNeutral},
			{Label: "Up-to-date", Value: fmt.Sprintf("%d", updated), Level: sections.LevelNeutral},
			{Label: "Available", Value: fmt.Sprintf("%d", available), Level: sections.LevelNeutral},
		}},
	})

	secs = append(secs, sections.Section{
		ID:    "nodes",
		Title: "Scheduled Nodes",
		Data: sections.Gauges{Gauges: []sections.Gauge{
			{Label: "Ready", Current: ready, Total: desired, Color: gaugeColor(level)},
			{Label: "Updated", Current: updated, Total: desired, Color: sections.GaugeBlue},
		}},
	})

	updateStrategy, _, _ := unstructured.NestedString(obj.Object, "spec", "updateStrategy", "type")
	nodeSelector, _, _ := unstructured.NestedStringMap(obj.Object, "spec", "template", "spec", "nodeSelector")

	secs = append(secs, sections.Section{
		ID:    "info",
		Title: "Details",
		Data: sections.InfoGrid{
			Columns: 2,
			Rows: []sections.InfoRow{
				{Label: "Update Strategy", Value: orNone(updateStrategy)},
				{Label: "Node Selector", Value: selectorString(nodeSelector)},
				{Label: "Age", Value: formatAge(obj)},
			},
		},
	})

	return appendMetaSections(secs, "DaemonSet", obj)
}
