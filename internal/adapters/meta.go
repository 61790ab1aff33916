package adapters

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/ksight-io/ksight/internal/sections"
)

// hasSpec reports whether the object carries a spec field. Spec-bearing
// kinds yield no sections at all without one.
func hasSpec(obj *unstructured.Unstructured) bool {
	if obj == nil || obj.Object == nil {
		return false
	}
	_, ok := obj.Object["spec"]
	return ok
}

// formatAge renders the time since the object's creation timestamp.
func formatAge(obj *unstructured.Unstructured) string {
	created := obj.GetCreationTimestamp().Time
	if created.IsZero() {
		return "<unknown>"
	}
	return formatDuration(time.Since(created))
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}

// orNone substitutes the kubectl-style placeholder for empty values.
func orNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}

// joinOrNone joins values with commas, or the placeholder when empty.
func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "<none>"
	}
	return strings.Join(values, ",")
}

// selectorString renders a label-selector map as k=v pairs in key order.
func selectorString(sel map[string]string) string {
	if len(sel) == 0 {
		return "<none>"
	}
	pairs := make([]string, 0, len(sel))
	for k, v := range sel {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

// matchLabels reads the matchLabels of a selector at the given path.
func matchLabels(obj *unstructured.Unstructured, path ...string) map[string]string {
	sel, _, _ := unstructured.NestedStringMap(obj.Object, append(path, "matchLabels")...)
	return sel
}

// controlledBy renders the object's first owner reference as kind/name.
func controlledBy(obj *unstructured.Unstructured) string {
	owners := obj.GetOwnerReferences()
	if len(owners) == 0 {
		return "<none>"
	}
	return owners[0].Kind + "/" + owners[0].Name
}

// labelsSection emits the redacted labels of the object, if any survive.
func labelsSection(kind string, obj *unstructured.Unstructured) (sections.Section, bool) {
	labels := redactLabels(kind, obj.GetLabels())
	if labels == nil {
		return sections.Section{}, false
	}
	return sections.Section{
		ID:    "labels",
		Title: "Labels",
		Data:  sections.Labels{Labels: labels},
	}, true
}

// annotationsSection emits the redacted annotations of the object, if any
// survive.
func annotationsSection(kind string, obj *unstructured.Unstructured) (sections.Section, bool) {
	annotations := redactAnnotations(kind, obj.GetAnnotations())
	if annotations == nil {
		return sections.Section{}, false
	}
	return sections.Section{
		ID:    "annotations",
		Title: "Annotations",
		Data:  sections.Labels{Labels: annotations},
	}, true
}

// appendMetaSections appends the shared trailing sections every adapter
// emits in the same order: abnormal conditions, labels, annotations.
func appendMetaSections(secs []sections.Section, kind string, obj *unstructured.Unstructured) []sections.Section {
	if s, ok := conditionsSection(obj); ok {
		secs = append(secs, s)
	}
	if s, ok := labelsSection(kind, obj); ok {
		secs = append(secs, s)
	}
	if s, ok := annotationsSection(kind, obj); ok {
		secs = append(secs, s)
	}
	return secs
}
