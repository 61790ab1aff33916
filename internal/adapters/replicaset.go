package adapters

import (
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/ksight-io/ksight/internal/sections"
)

// replicaSetAdapter renders replica sets: readiness, the owning controller,
// and the rollout revision they belong to.
type replicaSetAdapter struct{}

func newReplicaSetAdapter() replicaSetAdapter { return replicaSetAdapter{} }

func (replicaSetAdapter) Kinds() []string { return []string{"ReplicaSet", "ReplicaSets"} }

func (replicaSetAdapter) Adapt(obj *unstructured.Unstructured, namespace string) []sections.Section {
	if !hasSpec(obj) {
		return nil
	}

	secs := []sections.Section{}

	desired, _, _ := unstructured.NestedInt64(obj.Object, "spec", "replicas")
	ready, _, _ := unstructured.NestedInt64(obj.Object, "status", "readyReplicas")
	available, _, _ := unstructured.NestedInt64(obj.Object, "status", "availableReplicas")

	secs = append(secs, sections.Section{
		ID:    "status",
		Title: "Status",
		Data: sections.StatusCards{Cards: []sections.StatusCard{
			{Label: "Ready", Value: fmt.Sprintf("%d/%d", ready, desired), Level: readyLevel(ready, desired)},
			{Label: "Available", Value: fmt.Sprintf("%d", available), Level: sections.LevelNeutral},
			{Label: "Desired", Value: fmt.Sprintf("%d", desired), Level: sections.LevelNeutral},
		}},
	})

	revision := parseRevision(obj.GetAnnotations()[revisionAnnotation])

	secs = append(secs, sections.Section{
		ID:    "info",
		Title: "Details",
		Data: sections.InfoGrid{
			Columns: 2,
			Rows: []sections.InfoRow{
				{Label: "Controlled By", Value: controlledBy(obj)},
				{Label: "Revision", Value: fmt.Sprintf("%d", revision)},
				{Label: "Selector", Value: selectorString(matchLabels(obj, "spec", "selector"))},
				{Label: "Age", Value: formatAge(obj)},
			},
		},
	})

	return appendMetaSections(secs, "ReplicaSet", obj)
}
