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

// deploymentAdapter renders deployments: rollout cards and gauges, strategy
// info, abnormal conditions, and a deferred panel of owned replica sets.
type deploymentAdapter struct {
	lister  k8s.Lister
	actions k8s.ActionClient
}

func newDeploymentAdapter(lister k8s.Lister, actions k8s.ActionClient) deploymentAdapter {
	return deploymentAdapter{lister: lister, actions: actions}
}

func (deploymentAdapter) Kinds() []string { return []string{"Deployment", "Deployments"} }

func (a deploymentAdapter) Adapt(obj *unstructured.Unstructured, namespace string) []sections.Section {
	if !hasSpec(obj) {
		return nil
	}

	secs := []sections.Section{}

	desired, _, _ := unstructured.NestedInt64(obj.Object, "spec", "replicas")
	ready, _, _ := unstructured.NestedInt64(obj.Object, "status", "readyReplicas")
	updated, _, _ := unstructured.NestedInt64(obj.Object, "status", "updatedReplicas")
	available, _, _ := unstructured.NestedInt64(obj.Object, "status", "availableReplicas")
	strategy, _, _ := unstructured.NestedString(obj.Object, "spec", "strategy", "type")

	level := readyLevel(ready, desired)

	secs = append(secs, sections.Section{
		ID:    "status",
		Title: "Status",
		Data: sections.StatusCards{Cards: []sections.StatusCard{
			{Label: "Ready", Value: fmt.Sprintf("%d/%d", ready, desired), Level: level},
			{Label: "Up-to-date", Value: fmt.Sprintf("%d", updated), Level: sections.LevelNeutral},
			{Label: "Available", Value: fmt.Sprintf("%d", available), Level: sections.LevelNeutral},
			{Label: "Strategy", Value: orNone(strategy), Level: sections.LevelNeutral},
		}},
	})

	// Updated may exceed desired mid-surge; the gauge carries it as-is.
	secs = append(secs, sections.Section{
		ID:    "replicas",
		Title: "Replicas",
		Data: sections.Gauges{Gauges: []sections.Gauge{
			{Label: "Ready", Current: ready, Total: desired, Color: gaugeColor(level)},
			{Label: "Updated", Current: updated, Total: desired, Color: sections.GaugeBlue},
			{Label: "Available", Current: available, Total: desired, Color: sections.GaugeBlue},
		}},
	})

	revision := parseRevision(obj.GetAnnotations()[revisionAnnotation])

	secs = append(secs, sections.Section{
		ID:    "info",
		Title: "Details",
		Data: sections.InfoGrid{
			Columns: 2,
			Rows: []sections.InfoRow{
				{Label: "Strategy", Value: orNone(strategy)},
				{Label: "Revision", Value: fmt.Sprintf("%d", revision)},
				{Label: "Selector", Value: selectorString(matchLabels(obj, "spec", "selector"))},
				{Label: "Age", Value: formatAge(obj)},
			},
		},
	})

	secs = appendMetaSections(secs, "Deployment", obj)

	ns := namespace
	if ns == "" {
		ns = obj.GetNamespace()
	}
	secs = append(secs, sections.Section{
		ID:    "related-replicasets",
		Title: "Replica Sets",
		Data: sections.Related{
			Kind: "ReplicaSet",
			Load: newReplicaSetLoader(a.lister, ns, obj.GetName(), obj.GetUID()),
		},
	})

	return secs
}

// Actions exposes a rolling restart, implemented the way kubectl does it: a
// timestamp annotation on the pod template forces a new rollout.
func (a deploymentAdapter) Actions() []Action {
	return []Action{
		{
			ID:      "restart",
			Label:   "Rolling restart",
			Variant: ActionWarning,
			Confirm: "Restart this deployment? Every pod will be replaced.",
			Execute: func(ctx context.Context, obj *unstructured.Unstructured, namespace string) error {
				if a.actions == nil {
					return fmt.Errorf("cluster write access not configured")
				}
				if namespace == "" {
					namespace = obj.GetNamespace()
				}
				cfg := &k8s.ResourceConfig{
					GVR:        schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "deployments"},
					Kind:       "Deployment",
					Namespaced: true,
				}
				patch := fmt.Sprintf(
					`{"spec":{"template":{"metadata":{"annotations":{"kubectl.kubernetes.io/restartedAt":%q}}}}}`,
					time.Now().Format(time.RFC3339))
				return a.actions.Patch(ctx, cfg, namespace, obj.GetName(),
					types.StrategicMergePatchType, []byte(patch))
			},
		},
	}
}
