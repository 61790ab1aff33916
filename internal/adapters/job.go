package adapters

import (
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/ksight-io/ksight/internal/sections"
)

// jobAdapter renders jobs: completion state derived from conditions, pod
// counts, and run duration.
type jobAdapter struct{}

func newJobAdapter() jobAdapter { return jobAdapter{} }

func (jobAdapter) Kinds() []string { return []string{"Job", "Jobs"} }

func (jobAdapter) Adapt(obj *unstructured.Unstructured, namespace string) []sections.Section {
	if !hasSpec(obj) {
		return nil
	}

	secs := []sections.Section{}

	completions, _, _ := unstructured.NestedInt64(obj.Object, "spec", "completions")
	succeeded, _, _ := unstructured.NestedInt64(obj.Object, "status", "succeeded")
	active, _, _ := unstructured.NestedInt64(obj.Object, "status", "active")
	failed, _, _ := unstructured.NestedInt64(obj.Object, "status", "failed")

	state, level := jobState(obj, active)

	failedLevel := sections.LevelSuccess
	if failed > 0 {
		failedLevel = sections.LevelError
	}

	secs = append(secs, sections.Section{
		ID:    "status",
		Title: "Status",
		Data: sections.StatusCards{Cards: []sections.StatusCard{
			{Label: "Status", Value: state, Level: level},
			{Label: "Succeeded", Value: fmt.Sprintf("%d/%d", succeeded, completions), Level: sections.LevelNeutral},
			{Label: "Active", Value: fmt.Sprintf("%d", active), Level: sections.LevelNeutral},
			{Label: "Failed", Value: fmt.Sprintf("%d", failed), Level: failedLevel},
		}},
	})

	parallelism, _, _ := unstructured.NestedInt64(obj.Object, "spec", "parallelism")
	backoffLimit, _, _ := unstructured.NestedInt64(obj.Object, "spec", "backoffLimit")

	secs = append(secs, sections.Section{
		ID:    "info",
		Title: "Details",
		Data: sections.InfoGrid{
			Columns: 2,
			Rows: []sections.InfoRow{
				{Label: "Completions", Value: fmt.Sprintf("%d", completions)},
				{Label: "Parallelism", Value: fmt.Sprintf("%d", parallelism)},
				{Label: "Backoff Limit", Value: fmt.Sprintf("%d", backoffLimit)},
				{Label: "Duration", Value: jobDuration(obj)},
				{Label: "Controlled By", Value: controlledBy(obj)},
				{Label: "Age", Value: formatAge(obj)},
			},
		},
	})

	return appendMetaSections(secs, "Job", obj)
}

// jobState derives a display state from the job's terminal conditions, or
// from its active count while it is still running.
func jobState(obj *unstructured.Unstructured, active int64) (string, sections.StatusLevel) {
	entries, _, _ := unstructured.NestedSlice(obj.Object, "status", "conditions")
	for _, e := range entries {
		m, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		condType, _, _ := unstructured.NestedString(m, "type")
		status, _, _ := unstructured.NestedString(m, "status")
		if status != "True" {
			continue
		}
		switch condType {
		case "Complete":
			return "Complete", sections.LevelSuccess
		case "Failed":
			return "Failed", sections.LevelError
		case "Suspended":
			return "Suspended", sections.LevelWarning
		}
	}

	if active > 0 {
		return "Running", sections.LevelSuccess
	}
	return "Pending", sections.LevelWarning
}

// jobDuration renders how long the job ran, or has been running.
func jobDuration(obj *unstructured.Unstructured) string {
	startStr, _, _ := unstructured.NestedString(obj.Object, "status", "startTime")
	if startStr == "" {
		return "<not started>"
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return "<unknown>"
	}

	completionStr, _, _ := unstructured.NestedString(obj.Object, "status", "completionTime")
	if completionStr != "" {
		if completion, err := time.Parse(time.RFC3339, completionStr); err == nil {
			return formatDuration(completion.Sub(start))
		}
	}
	return formatDuration(time.Since(start))
}
