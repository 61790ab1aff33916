package adapters

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"

	"github.com/ksight-io/ksight/internal/k8s"
	"github.com/ksight-io/ksight/internal/sections"
)

// nodeAdapter renders nodes: readiness and scheduling state, allocatable
// capacity, system info, and pressure conditions. Pressure condition types
// are healthy at "False", which the shared condition filter knows.
type nodeAdapter struct {
	actions k8s.ActionClient
}

func newNodeAdapter(actions k8s.ActionClient) nodeAdapter {
	return nodeAdapter{actions: actions}
}

func (nodeAdapter) Kinds() []string { return []string{"Node", "Nodes"} }

func (a nodeAdapter) Adapt(obj *unstructured.Unstructured, namespace string) []sections.Section {
	if !hasSpec(obj) {
		return nil
	}

	secs := []sections.Section{}

	readyValue, readyLevel := nodeReadiness(obj)
	unschedulable, _, _ := unstructured.NestedBool(obj.Object, "spec", "unschedulable")
	if unschedulable {
		readyValue += ",SchedulingDisabled"
		if readyLevel == sections.LevelSuccess {
			readyLevel = sections.LevelWarning
		}
	}

	kubelet, _, _ := unstructured.NestedString(obj.Object, "status", "nodeInfo", "kubeletVersion")
	osName, _, _ := unstructured.NestedString(obj.Object, "status", "nodeInfo", "operatingSystem")
	arch, _, _ := unstructured.NestedString(obj.Object, "status", "nodeInfo", "architecture")

	secs = append(secs, sections.Section{
		ID:    "status",
		Title: "Status",
		Data: sections.StatusCards{Cards: []sections.StatusCard{
			{Label: "Status", Value: readyValue, Level: readyLevel},
			{Label: "Roles", Value: nodeRoles(obj), Level: sections.LevelNeutral},
			{Label: "Kubelet", Value: orNone(kubelet), Level: sections.LevelNeutral},
			{Label: "OS/Arch", Value: orNone(osName) + "/" + orNone(arch), Level: sections.LevelNeutral},
		}},
	})

	if gauges := nodeCapacityGauges(obj); len(gauges) > 0 {
		secs = append(secs, sections.Section{
			ID:    "capacity",
			Title: "Allocatable / Capacity",
			Data:  sections.Gauges{Gauges: gauges},
		})
	}

	osImage, _, _ := unstructured.NestedString(obj.Object, "status", "nodeInfo", "osImage")
	kernel, _, _ := unstructured.NestedString(obj.Object, "status", "nodeInfo", "kernelVersion")
	runtime, _, _ := unstructured.NestedString(obj.Object, "status", "nodeInfo", "containerRuntimeVersion")
	podCIDR, _, _ := unstructured.NestedString(obj.Object, "spec", "podCIDR")

	secs = append(secs, sections.Section{
		ID:    "info",
		Title: "Details",
		Data: sections.InfoGrid{
			Columns: 2,
			Rows: []sections.InfoRow{
				{Label: "OS Image", Value: orNone(osImage)},
				{Label: "Kernel", Value: orNone(kernel)},
				{Label: "Runtime", Value: orNone(runtime)},
				{Label: "Internal IP", Value: nodeAddress(obj, "InternalIP")},
				{Label: "Pod CIDR", Value: orNone(podCIDR)},
				{Label: "Age", Value: formatAge(obj)},
			},
		},
	})

	return appendMetaSections(secs, "Node", obj)
}

// Actions exposes cordon and uncordon; exactly one is visible depending on
// the current unschedulable flag.
func (a nodeAdapter) Actions() []Action {
	return []Action{
		{
			ID:      "cordon",
			Label:   "Cordon",
			Variant: ActionWarning,
			Confirm: "Cordon this node? New pods will not be scheduled onto it.",
			Execute: a.setUnschedulable(true),
			IsVisible: func(obj *unstructured.Unstructured) bool {
				return !nodeUnschedulable(obj)
			},
		},
		{
			ID:      "uncordon",
			Label:   "Uncordon",
			Variant: ActionDefault,
			Execute: a.setUnschedulable(false),
			IsVisible: func(obj *unstructured.Unstructured) bool {
				return nodeUnschedulable(obj)
			},
		},
	}
}

func (a nodeAdapter) setUnschedulable(unschedulable bool) func(ctx context.Context, obj *unstructured.Unstructured, namespace string) error {
	return func(ctx context.Context, obj *unstructured.Unstructured, namespace string) error {
		if a.actions == nil {
			return fmt.Errorf("cluster write access not configured")
		}
		cfg := &k8s.ResourceConfig{
			GVR:  schema.GroupVersionResource{Version: "v1", Resource: "nodes"},
			Kind: "Node",
		}
		patch := fmt.Sprintf(`{"spec":{"unschedulable":%t}}`, unschedulable)
		return a.actions.Patch(ctx, cfg, "", obj.GetName(),
			types.MergePatchType, []byte(patch))
	}
}

func nodeUnschedulable(obj *unstructured.Unstructured) bool {
	unschedulable, _, _ := unstructured.NestedBool(obj.Object, "spec", "unschedulable")
	return unschedulable
}

// nodeReadiness reads the Ready condition.
func nodeReadiness(obj *unstructured.Unstructured) (string, sections.StatusLevel) {
	entries, _, _ := unstructured.NestedSlice(obj.Object, "status", "conditions")
	for _, e := range entries {
		m, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		condType, _, _ := unstructured.NestedString(m, "type")
		if condType != "Ready" {
			continue
		}
		status, _, _ := unstructured.NestedString(m, "status")
		switch status {
		case "True":
			return "Ready", sections.LevelSuccess
		case "False":
			return "NotReady", sections.LevelError
		default:
			return "Unknown", sections.LevelWarning
		}
	}
	return "Unknown", sections.LevelWarning
}

// nodeRoles collects role names from node-role.kubernetes.io labels.
func nodeRoles(obj *unstructured.Unstructured) string {
	var roles []string
	for key := range obj.GetLabels() {
		if role, found := strings.CutPrefix(key, "node-role.kubernetes.io/"); found && role != "" {
			roles = append(roles, role)
		}
	}
	sort.Strings(roles)
	return joinOrNone(roles)
}

// nodeAddress reads one address type from the node's address list.
func nodeAddress(obj *unstructured.Unstructured, addrType string) string {
	addresses, _, _ := unstructured.NestedSlice(obj.Object, "status", "addresses")
	for _, a := range addresses {
		m, ok := a.(map[string]interface{})
		if !ok {
			continue
		}
		t, _, _ := unstructured.NestedString(m, "type")
		if t != addrType {
			continue
		}
		addr, _, _ := unstructured.NestedString(m, "address")
		return orNone(addr)
	}
	return "<none>"
}

// nodeCapacityGauges compares allocatable against capacity for cpu, memory
// and pod count.
func nodeCapacityGauges(obj *unstructured.Unstructured) []sections.Gauge {
	capacity, _, _ := unstructured.NestedStringMap(obj.Object, "status", "capacity")
	allocatable, _, _ := unstructured.NestedStringMap(obj.Object, "status", "allocatable")
	if len(capacity) == 0 || len(allocatable) == 0 {
		return nil
	}

	var gauges []sections.Gauge

	if current, total, ok := quantityPair(allocatable["cpu"], capacity["cpu"], milliOf); ok {
		gauges = append(gauges, sections.Gauge{
			Label: "CPU (m)", Current: current, Total: total, Color: sections.GaugeBlue,
		})
	}
	if current, total, ok := quantityPair(allocatable["memory"], capacity["memory"], mebibytesOf); ok {
		gauges = append(gauges, sections.Gauge{
			Label: "Memory (Mi)", Current: current, Total: total, Color: sections.GaugeBlue,
		})
	}
	if current, total, ok := quantityPair(allocatable["pods"], capacity["pods"], unitsOf); ok {
		gauges = append(gauges, sections.Gauge{
			Label: "Pods", Current: current, Total: total, Color: sections.GaugeBlue,
		})
	}

	return gauges
}

// quantityPair parses two quantity strings through the same unit extractor.
func quantityPair(currentStr, totalStr string, value func(resource.Quantity) int64) (int64, int64, bool) {
	if currentStr == "" || totalStr == "" {
		return 0, 0, false
	}
	current, err := resource.ParseQuantity(currentStr)
	if err != nil {
		return 0, 0, false
	}
	total, err := resource.ParseQuantity(totalStr)
	if err != nil {
		return 0, 0, false
	}
	return value(current), value(total), true
}

func milliOf(q resource.Quantity) int64     { return q.MilliValue() }
func mebibytesOf(q resource.Quantity) int64 { return q.Value() / (1024 * 1024) }
func unitsOf(q resource.Quantity) int64     { return q.Value() }
