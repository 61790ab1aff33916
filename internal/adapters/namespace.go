package adapters

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/ksight-io/ksight/internal/sections"
)

// namespaceAdapter renders namespaces: lifecycle phase and finalizers.
type namespaceAdapter struct{}

func newNamespaceAdapter() namespaceAdapter { return namespaceAdapter{} }

func (namespaceAdapter) Kinds() []string { return []string{"Namespace", "Namespaces"} }

func (namespaceAdapter) Adapt(obj *unstructured.Unstructured, namespace string) []sections.Section {
	if !hasSpec(obj) {
		return nil
	}

	secs := []sections.Section{}

	phase, _, _ := unstructured.NestedString(obj.Object, "status", "phase")

	level := sections.LevelNeutral
	switch phase {
	case "Active":
		level = sections.LevelSuccess
	case "Terminating":
		level = sections.LevelWarning
	}

	secs = append(secs, sections.Section{
		ID:    "status",
		Title: "Status",
		Data: sections.StatusCards{Cards: []sections.StatusCard{
			{Label: "Phase", Value: orNone(phase), Level: level},
			{Label: "Age", Value: formatAge(obj), Level: sections.LevelNeutral},
		}},
	})

	finalizers, _, _ := unstructured.NestedStringSlice(obj.Object, "spec", "finalizers")

	secs = append(secs, sections.Section{
		ID:    "info",
		Title: "Details",
		Data: sections.InfoGrid{
			Columns: 1,
			Rows: []sections.InfoRow{
				{Label: "Finalizers", Value: joinOrNone(finalizers)},
			},
		},
	})

	return appendMetaSections(secs, "Namespace", obj)
}
