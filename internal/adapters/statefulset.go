package adapters

import (
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/ksight-io/ksight/internal/k8s"
	"github.com/ksight-io/ksight/internal/sections"
)

// statefulSetAdapter renders stateful sets: readiness, update strategy, and
// a deferred panel of the claims created from its volume claim templates.
type statefulSetAdapter struct {
	lister k8s.Lister
}

func newStatefulSetAdapter(lister k8s.Lister) statefulSetAdapter {
	return statefulSetAdapter{lister: lister}
}

func (statefulSetAdapter) Kinds() []string { return []string{"StatefulSet", "StatefulSets"} }

func (a statefulSetAdapter) Adapt(obj *unstructured.Unstructured, namespace string) []sections.Section {
	if !hasSpec(obj) {
		return nil
	}

	secs := []sections.Section{}

	desired, _, _ := unstructured.NestedInt64(obj.Object, "spec", "replicas")
	ready, _, _ := unstructured.NestedInt64(obj.Object, "status", "readyReplicas")
	updated, _, _ := unstructured.NestedInt64(obj.Object, "status", "updatedReplicas")
	serviceName, _, _ := unstructured.NestedString(obj.Object, "spec", "serviceName")

	level := readyLevel(ready, desired)

	secs = append(secs, sections.Section{
		ID:    "status",
		Title: "Status",
		Data: sections.StatusCards{Cards: []sections.StatusCard{
			{Label: "Ready", Value: fmt.Sprintf("%d/%d", ready, desired), Level: level},
			{Label: "Updated", Value: fmt.Sprintf("%d", updated), Level: sections.LevelNeutral},
			{Label: "Service", Value: orNone(serviceName), Level: sections.LevelNeutral},
		}},
	})

	secs = append(secs, sections.Section{
		ID:    "replicas",
		Title: "Replicas",
		Data: sections.Gauges{Gauges: []sections.Gauge{
			{Label: "Ready", Current: ready, Total: desired, Color: gaugeColor(level)},
			{Label: "Updated", Current: updated, Total: desired, Color: sections.GaugeBlue},
		}},
	})

	updateStrategy, _, _ := unstructured.NestedString(obj.Object, "spec", "updateStrategy", "type")
	podManagement, _, _ := unstructured.NestedString(obj.Object, "spec", "podManagementPolicy")

	secs = append(secs, sections.Section{
		ID:    "info",
		Title: "Details",
		Data: sections.InfoGrid{
			Columns: 2,
			Rows: []sections.InfoRow{
				{Label: "Service", Value: orNone(serviceName)},
				{Label: "Update Strategy", Value: orNone(updateStrategy)},
				{Label: "Pod Management", Value: orNone(podManagement)},
				{Label: "Age", Value: formatAge(obj)},
			},
		},
	})

	secs = appendMetaSections(secs, "StatefulSet", obj)

	if claims := claimTemplateNames(obj); len(claims) > 0 {
		ns := namespace
		if ns == "" {
			ns = obj.GetNamespace()
		}
		secs = append(secs, sections.Section{
			ID:    "related-claims",
			Title: "Volume Claims",
			Data: sections.Related{
				Kind: "PersistentVolumeClaim",
				Load: newPVCLoader(a.lister, ns, obj.GetName(), claims),
			},
		})
	}

	return secs
}

// claimTemplateNames collects the declared volume claim template names.
func claimTemplateNames(obj *unstructured.Unstructured) []string {
	templates, _, _ := unstructured.NestedSlice(obj.Object, "spec", "volumeClaimTemplates")

	var names []string
	for _, t := range templates {
		tMap, ok := t.(map[string]interface{})
		if !ok {
			continue
		}
		name, _, _ := unstructured.NestedString(tMap, "metadata", "name")
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
