package adapters

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/ksight-io/ksight/internal/sections"
)

// phaseLevel maps a pod or container phase to a status level. Unrecognized
// phases are neutral, never an error.
func phaseLevel(phase string) sections.StatusLevel {
	switch phase {
	case "Running", "Succeeded":
		return sections.LevelSuccess
	case "Pending":
		return sections.LevelWarning
	case "Failed":
		return sections.LevelError
	default:
		return sections.LevelNeutral
	}
}

// volumePhaseLevel maps a PersistentVolume or PersistentVolumeClaim phase to
// a status level.
func volumePhaseLevel(phase string) sections.StatusLevel {
	switch phase {
	case "Bound", "Available":
		return sections.LevelSuccess
	case "Released":
		return sections.LevelWarning
	case "Failed":
		return sections.LevelError
	default:
		return sections.LevelNeutral
	}
}

// serviceTypeLevel maps a service type to a status level.
func serviceTypeLevel(serviceType string) sections.StatusLevel {
	switch serviceType {
	case "LoadBalancer":
		return sections.LevelSuccess
	case "NodePort":
		return sections.LevelWarning
	default:
		return sections.LevelNeutral
	}
}

// readyLevel classifies a ready/desired pair: all ready is success, none
// ready is error, partial is warning. Zero desired is neutral.
func readyLevel(ready, desired int64) sections.StatusLevel {
	switch {
	case desired == 0:
		return sections.LevelNeutral
	case ready >= desired:
		return sections.LevelSuccess
	case ready == 0:
		return sections.LevelError
	default:
		return sections.LevelWarning
	}
}

// gaugeColor picks the gauge fill family for a status level.
func gaugeColor(level sections.StatusLevel) sections.GaugeColor {
	switch level {
	case sections.LevelSuccess:
		return sections.GaugeGreen
	case sections.LevelWarning:
		return sections.GaugeYellow
	case sections.LevelError:
		return sections.GaugeRed
	default:
		return sections.GaugeBlue
	}
}

// negativePolarityConditions are condition types whose healthy status is
// "False": their presence as True signals a problem. Everything else is
// healthy at "True".
var negativePolarityConditions = map[string]bool{
	"ReplicaFailure":     true,
	"Failed":             true,
	"MemoryPressure":     true,
	"DiskPressure":       true,
	"PIDPressure":        true,
	"NetworkUnavailable": true,
	"OutOfDisk":          true,
}

// healthyConditionStatus returns the status string that represents a healthy
// state for the given condition type.
func healthyConditionStatus(condType string) string {
	if negativePolarityConditions[condType] {
		return "False"
	}
	return "True"
}

// conditionsSection builds a conditions section from the object's status
// conditions, keeping only conditions whose status differs from the healthy
// sentinel for their type. When every condition is healthy no section is
// emitted at all.
func conditionsSection(obj *unstructured.Unstructured) (sections.Section, bool) {
	entries, _, _ := unstructured.NestedSlice(obj.Object, "status", "conditions")

	var conds []sections.Condition
	for _, e := range entries {
		m, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		condType, _, _ := unstructured.NestedString(m, "type")
		status, _, _ := unstructured.NestedString(m, "status")
		if status == healthyConditionStatus(condType) {
			continue
		}
		reason, _, _ := unstructured.NestedString(m, "reason")
		message, _, _ := unstructured.NestedString(m, "message")
		conds = append(conds, sections.Condition{
			Type:     condType,
			Status:   status,
			Reason:   reason,
			Message:  message,
			Positive: false,
		})
	}

	if len(conds) == 0 {
		return sections.Section{}, false
	}
	return sections.Section{
		ID:    "conditions",
		Title: "Conditions",
		Data:  sections.Conditions{Conditions: conds},
	}, true
}
