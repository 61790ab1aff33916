package adapters

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"

	"github.com/ksight-io/ksight/internal/k8s"
	"github.com/ksight-io/ksight/internal/sections"
)

// cronJobAdapter renders cron jobs: schedule, suspension state, and active
// runs, with suspend/resume actions.
type cronJobAdapter struct {
	actions k8s.ActionClient
}

func newCronJobAdapter(actions k8s.ActionClient) cronJobAdapter {
	return cronJobAdapter{actions: actions}
}

func (cronJobAdapter) Kinds() []string { return []string{"CronJob", "CronJobs"} }

func (cronJobAdapter) Adapt(obj *unstructured.Unstructured, namespace string) []sections.Section {
	if !hasSpec(obj) {
		return nil
	}

	secs := []sections.Section{}

	schedule, _, _ := unstructured.NestedString(obj.Object, "spec", "schedule")
	suspended, _, _ := unstructured.NestedBool(obj.Object, "spec", "suspend")
	activeRuns, _, _ := unstructured.NestedSlice(obj.Object, "status", "active")

	suspendValue, suspendLevel := "No", sections.LevelSuccess
	if suspended {
		suspendValue, suspendLevel = "Yes", sections.LevelWarning
	}

	secs = append(secs, sections.Section{
		ID:    "status",
		Title: "Status",
		Data: sections.StatusCards{Cards: []sections.StatusCard{
			{Label: "Schedule", Value: orNone(schedule), Level: sections.LevelNeutral},
			{Label: "Suspended", Value: suspendValue, Level: suspendLevel},
			{Label: "Active", Value: fmt.Sprintf("%d", len(activeRuns)), Level: sections.LevelNeutral},
			{Label: "Last Run", Value: lastScheduleAge(obj), Level: sections.LevelNeutral},
		}},
	})

	concurrency, _, _ := unstructured.NestedString(obj.Object, "spec", "concurrencyPolicy")
	successLimit, _, _ := unstructured.NestedInt64(obj.Object, "spec", "successfulJobsHistoryLimit")
	failedLimit, _, _ := unstructured.NestedInt64(obj.Object, "spec", "failedJobsHistoryLimit")

	secs = append(secs, sections.Section{
		ID:    "info",
		Title: "Details",
		Data: sections.InfoGrid{
			Columns: 2,
			Rows: []sections.InfoRow{
				{Label: "Concurrency Policy", Value: orNone(concurrency)},
				{Label: "History (ok/failed)", Value: fmt.Sprintf("%d/%d", successLimit, failedLimit)},
				{Label: "Age", Value: formatAge(obj)},
			},
		},
	})

	return appendMetaSections(secs, "CronJob", obj)
}

// Actions exposes suspend and resume; exactly one is visible depending on
// the object's current suspend flag.
func (a cronJobAdapter) Actions() []Action {
	return []Action{
		{
			ID:      "suspend",
			Label:   "Suspend",
			Variant: ActionWarning,
			Confirm: "Suspend this cron job? No new runs will start until it is resumed.",
			Execute: a.setSuspend(true),
			IsVisible: func(obj *unstructured.Unstructured) bool {
				return !cronJobSuspended(obj)
			},
		},
		{
			ID:      "resume",
			Label:   "Resume",
			Variant: ActionDefault,
			Execute: a.setSuspend(false),
			IsVisible: func(obj *unstructured.Unstructured) bool {
				return cronJobSuspended(obj)
			},
		},
	}
}

func (a cronJobAdapter) setSuspend(suspend bool) func(ctx context.Context, obj *unstructured.Unstructured, namespace string) error {
	return func(ctx context.Context, obj *unstructured.Unstructured, namespace string) error {
		if a.actions == nil {
			return fmt.Errorf("cluster write access not configured")
		}
		if namespace == "" {
			namespace = obj.GetNamespace()
		}
		cfg := &k8s.ResourceConfig{
			GVR:        schema.GroupVersionResource{Group: "batch", Version: "v1", Resource: "cronjobs"},
			Kind:       "CronJob",
			Namespaced: true,
		}
		patch := fmt.Sprintf(`{"spec":{"suspend":%t}}`, suspend)
		return a.actions.Patch(ctx, cfg, namespace, obj.GetName(),
			types.MergePatchType, []byte(patch))
	}
}

func cronJobSuspended(obj *unstructured.Unstructured) bool {
	suspended, _, _ := unstructured.NestedBool(obj.Object, "spec", "suspend")
	return suspended
}

// lastScheduleAge renders how long ago the last run was scheduled.
func lastScheduleAge(obj *unstructured.Unstructured) string {
	lastStr, _, _ := unstructured.NestedString(obj.Object, "status", "lastScheduleTime")
	if lastStr == "" {
		return "<never>"
	}
	last, err := time.Parse(time.RFC3339, lastStr)
	if err != nil {
		return "<unknown>"
	}
	return formatDuration(time.Since(last)) + " ago"
}
