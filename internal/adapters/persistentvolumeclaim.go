package adapters

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/ksight-io/ksight/internal/sections"
)

// persistentVolumeClaimAdapter renders claims with their binding state and
// requested versus granted capacity.
type persistentVolumeClaimAdapter struct{}

func newPersistentVolumeClaimAdapter() persistentVolumeClaimAdapter {
	return persistentVolumeClaimAdapter{}
}

func (persistentVolumeClaimAdapter) Kinds() []string {
	return []string{"PersistentVolumeClaim", "PersistentVolumeClaims"}
}

func (persistentVolumeClaimAdapter) Adapt(obj *unstructured.Unstructured, namespace string) []sections.Section {
	if !hasSpec(obj) {
		return nil
	}

	secs := []sections.Section{}

	phase, _, _ := unstructured.NestedString(obj.Object, "status", "phase")
	capacity, _, _ := unstructured.NestedString(obj.Object, "status", "capacity", "storage")
	requested, _, _ := unstructured.NestedString(obj.Object, "spec", "resources", "requests", "storage")
	class, _, _ := unstructured.NestedString(obj.Object, "spec", "storageClassName")

	secs = append(secs, sections.Section{
		ID:    "status",
		Title: "Status",
		Data: sections.StatusCards{Cards: []sections.StatusCard{
			{Label: "Phase", Value: orNone(phase), Level: volumePhaseLevel(phase)},
			{Label: "Capacity", Value: orNone(capacity), Level: sections.LevelNeutral},
			{Label: "Requested", Value: orNone(requested), Level: sections.LevelNeutral},
			{Label: "Storage Class", Value: orNone(class), Level: sections.LevelNeutral},
		}},
	})

	accessModes, _, _ := unstructured.NestedStringSlice(obj.Object, "spec", "accessModes")
	volumeMode, _, _ := unstructured.NestedString(obj.Object, "spec", "volumeMode")
	volumeName, _, _ := unstructured.NestedString(obj.Object, "spec", "volumeName")

	secs = append(secs, sections.Section{
		ID:    "info",
		Title: "Details",
		Data: sections.InfoGrid{
			Columns: 2,
			Rows: []sections.InfoRow{
				{Label: "Access Modes", Value: joinOrNone(accessModes)},
				{Label: "Volume Mode", Value: orNone(volumeMode)},
				{Label: "Volume", Value: orNone(volumeName)},
				{Label: "Age", Value: formatAge(obj)},
			},
		},
	})

	return appendMetaSections(secs, "PersistentVolumeClaim", obj)
}
