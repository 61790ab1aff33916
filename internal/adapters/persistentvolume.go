package adapters

import (
	"sort"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/ksight-io/ksight/internal/sections"
)

// persistentVolumeAdapter renders cluster-scoped persistent volumes.
type persistentVolumeAdapter struct{}

func newPersistentVolumeAdapter() persistentVolumeAdapter {
	return persistentVolumeAdapter{}
}

func (persistentVolumeAdapter) Kinds() []string {
	return []string{"PersistentVolume", "PersistentVolumes"}
}

func (persistentVolumeAdapter) Adapt(obj *unstructured.Unstructured, namespace string) []sections.Section {
	if !hasSpec(obj) {
		return nil
	}

	secs := []sections.Section{}

	phase, _, _ := unstructured.NestedString(obj.Object, "status", "phase")
	capacity, _, _ := unstructured.NestedString(obj.Object, "spec", "capacity", "storage")
	reclaim, _, _ := unstructured.NestedString(obj.Object, "spec", "persistentVolumeReclaimPolicy")
	class, _, _ := unstructured.NestedString(obj.Object, "spec", "storageClassName")

	secs = append(secs, sections.Section{
		ID:    "status",
		Title: "Status",
		Data: sections.StatusCards{Cards: []sections.StatusCard{
			{Label: "Phase", Value: orNone(phase), Level: volumePhaseLevel(phase)},
			{Label: "Capacity", Value: orNone(capacity), Level: sections.LevelNeutral},
			{Label: "Reclaim", Value: orNone(reclaim), Level: sections.LevelNeutral},
			{Label: "Storage Class", Value: orNone(class), Level: sections.LevelNeutral},
		}},
	})

	accessModes, _, _ := unstructured.NestedStringSlice(obj.Object, "spec", "accessModes")
	volumeMode, _, _ := unstructured.NestedString(obj.Object, "spec", "volumeMode")

	secs = append(secs, sections.Section{
		ID:    "info",
		Title: "Details",
		Data: sections.InfoGrid{
			Columns: 2,
			Rows: []sections.InfoRow{
				{Label: "Access Modes", Value: joinOrNone(accessModes)},
				{Label: "Volume Mode", Value: orNone(volumeMode)},
				{Label: "Claim", Value: volumeClaimRef(obj)},
				{Label: "Source", Value: volumeSourceType(obj)},
				{Label: "Age", Value: formatAge(obj)},
			},
		},
	})

	return appendMetaSections(secs, "PersistentVolume", obj)
}

// volumeClaimRef formats the bound claim as namespace/name.
func volumeClaimRef(obj *unstructured.Unstructured) string {
	claimRef, found, _ := unstructured.NestedMap(obj.Object, "spec", "claimRef")
	if !found {
		return "<none>"
	}
	name, _, _ := unstructured.NestedString(claimRef, "name")
	if name == "" {
		return "<none>"
	}
	ns, _, _ := unstructured.NestedString(claimRef, "namespace")
	if ns == "" {
		return name
	}
	return ns + "/" + name
}

// volumeSourceType names the backing volume source, e.g. csi or nfs. The
// source lives directly under spec alongside the regular volume fields, so
// known non-source keys are skipped.
func volumeSourceType(obj *unstructured.Unstructured) string {
	spec, found, _ := unstructured.NestedMap(obj.Object, "spec")
	if !found {
		return "<none>"
	}
	nonSource := map[string]bool{
		"capacity": true, "accessModes": true, "persistentVolumeReclaimPolicy": true,
		"storageClassName": true, "volumeMode": true, "claimRef": true,
		"mountOptions": true, "nodeAffinity": true,
	}
	var names []string
	for key := range spec {
		if !nonSource[key] {
			names = append(names, key)
		}
	}
	sort.Strings(names)
	return joinOrNone(names)
}
