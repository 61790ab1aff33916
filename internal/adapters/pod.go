package adapters

import (
	"context"
	"fmt"
	"sort"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/ksight-io/ksight/internal/k8s"
	"github.com/ksight-io/ksight/internal/sections"
)

// podAdapter renders pods: phase and readiness cards, scheduling info,
// per-container summaries, volumes, and abnormal conditions.
type podAdapter struct {
	actions k8s.ActionClient
}

func newPodAdapter(actions k8s.ActionClient) podAdapter {
	return podAdapter{actions: actions}
}

func (podAdapter) Kinds() []string { return []string{"Pod", "Pods"} }

func (a podAdapter) Adapt(obj *unstructured.Unstructured, namespace string) []sections.Section {
	if !hasSpec(obj) {
		return nil
	}

	secs := []sections.Section{}

	phase, _, _ := unstructured.NestedString(obj.Object, "status", "phase")
	node, _, _ := unstructured.NestedString(obj.Object, "spec", "nodeName")
	ready, total, restarts := containerReadiness(obj)

	restartLevel := sections.LevelSuccess
	if restarts > 0 {
		restartLevel = sections.LevelWarning
	}

	// A completed pod legitimately has no ready containers.
	readyLvl := readyLevel(ready, total)
	if phase == "Succeeded" {
		readyLvl = sections.LevelNeutral
	}

	secs = append(secs, sections.Section{
		ID:    "status",
		Title: "Status",
		Data: sections.StatusCards{Cards: []sections.StatusCard{
			{Label: "Phase", Value: orNone(phase), Level: phaseLevel(phase)},
			{Label: "Ready", Value: fmt.Sprintf("%d/%d", ready, total), Level: readyLvl},
			{Label: "Restarts", Value: fmt.Sprintf("%d", restarts), Level: restartLevel},
			{Label: "Node", Value: orNone(node), Level: sections.LevelNeutral},
		}},
	})

	podIP, _, _ := unstructured.NestedString(obj.Object, "status", "podIP")
	qos, _, _ := unstructured.NestedString(obj.Object, "status", "qosClass")
	serviceAccount, _, _ := unstructured.NestedString(obj.Object, "spec", "serviceAccountName")
	restartPolicy, _, _ := unstructured.NestedString(obj.Object, "spec", "restartPolicy")

	secs = append(secs, sections.Section{
		ID:    "info",
		Title: "Details",
		Data: sections.InfoGrid{
			Columns: 2,
			Rows: []sections.InfoRow{
				{Label: "Pod IP", Value: orNone(podIP)},
				{Label: "QoS Class", Value: orNone(qos)},
				{Label: "Service Account", Value: orNone(serviceAccount)},
				{Label: "Restart Policy", Value: orNone(restartPolicy)},
				{Label: "Age", Value: formatAge(obj)},
			},
		},
	})

	if containers := podContainers(obj); len(containers) > 0 {
		secs = append(secs, sections.Section{
			ID:    "containers",
			Title: "Containers",
			Data:  sections.Containers{Containers: containers},
		})
	}

	if volumes := podVolumes(obj); len(volumes) > 0 {
		secs = append(secs, sections.Section{
			ID:    "volumes",
			Title: "Volumes",
			Data:  sections.Volumes{Volumes: volumes},
		})
	}

	return appendMetaSections(secs, "Pod", obj)
}

// Actions exposes pod deletion. The owning controller usually replaces a
// deleted pod, which makes this the standard way to bounce one.
func (a podAdapter) Actions() []Action {
	return []Action{
		{
			ID:      "delete",
			Label:   "Delete pod",
			Variant: ActionDanger,
			Confirm: "Delete this pod? Its controller may recreate it.",
			Execute: func(ctx context.Context, obj *unstructured.Unstructured, namespace string) error {
				if a.actions == nil {
					return fmt.Errorf("cluster write access not configured")
				}
				if namespace == "" {
					namespace = obj.GetNamespace()
				}
				cfg := &k8s.ResourceConfig{
					GVR:        schema.GroupVersionResource{Version: "v1", Resource: "pods"},
					Kind:       "Pod",
					Namespaced: true,
				}
				return a.actions.Delete(ctx, cfg, namespace, obj.GetName())
			},
		},
	}
}

// containerReadiness counts ready containers and accumulated restarts.
func containerReadiness(obj *unstructured.Unstructured) (ready, total, restarts int64) {
	statuses, _, _ := unstructured.NestedSlice(obj.Object, "status", "containerStatuses")
	total = int64(len(statuses))

	for _, cs := range statuses {
		csMap, ok := cs.(map[string]interface{})
		if !ok {
			continue
		}
		if isReady, _, _ := unstructured.NestedBool(csMap, "ready"); isReady {
			ready++
		}
		restartCount, _, _ := unstructured.NestedInt64(csMap, "restartCount")
		restarts += restartCount
	}
	return ready, total, restarts
}

// podContainers merges spec containers with their runtime statuses, init
// containers first.
func podContainers(obj *unstructured.Unstructured) []sections.Container {
	var out []sections.Container
	out = appendContainers(out, obj, "initContainers", "initContainerStatuses", true)
	out = appendContainers(out, obj, "containers", "containerStatuses", false)
	return out
}

func appendContainers(out []sections.Container, obj *unstructured.Unstructured, specField, statusField string, init bool) []sections.Container {
	statuses := indexContainerStatuses(obj, statusField)

	specContainers, _, _ := unstructured.NestedSlice(obj.Object, "spec", specField)
	for _, c := range specContainers {
		cMap, ok := c.(map[string]interface{})
		if !ok {
			continue
		}
		name, _, _ := unstructured.NestedString(cMap, "name")
		image, _, _ := unstructured.NestedString(cMap, "image")

		container := sections.Container{
			Name:  name,
			Image: image,
			State: "Unknown",
			Level: sections.LevelNeutral,
			Init:  init,
			Ports: containerPorts(cMap),
		}

		if cs, found := statuses[name]; found {
			ready, _, _ := unstructured.NestedBool(cs, "ready")
			restartCount, _, _ := unstructured.NestedInt64(cs, "restartCount")
			container.Ready = ready
			container.Restarts = int32(restartCount)
			container.State, container.Level = containerState(cs)
		}

		out = append(out, container)
	}
	return out
}

// indexContainerStatuses maps container name to its status entry.
func indexContainerStatuses(obj *unstructured.Unstructured, field string) map[string]map[string]interface{} {
	statuses, _, _ := unstructured.NestedSlice(obj.Object, "status", field)

	index := make(map[string]map[string]interface{}, len(statuses))
	for _, cs := range statuses {
		csMap, ok := cs.(map[string]interface{})
		if !ok {
			continue
		}
		name, _, _ := unstructured.NestedString(csMap, "name")
		if name != "" {
			index[name] = csMap
		}
	}
	return index
}

// containerState reduces the container state union (running, waiting,
// terminated) to a display string and level.
func containerState(cs map[string]interface{}) (string, sections.StatusLevel) {
	if _, found, _ := unstructured.NestedMap(cs, "state", "running"); found {
		return "Running", sections.LevelSuccess
	}

	if _, found, _ := unstructured.NestedMap(cs, "state", "waiting"); found {
		reason, _, _ := unstructured.NestedString(cs, "state", "waiting", "reason")
		if reason == "" {
			reason = "Waiting"
		}
		level := sections.LevelWarning
		if reason == "CrashLoopBackOff" || reason == "ImagePullBackOff" || reason == "ErrImagePull" {
			level = sections.LevelError
		}
		return reason, level
	}

	if _, found, _ := unstructured.NestedMap(cs, "state", "terminated"); found {
		reason, _, _ := unstructured.NestedString(cs, "state", "terminated", "reason")
		exitCode, _, _ := unstructured.NestedInt64(cs, "state", "terminated", "exitCode")
		if reason == "" {
			reason = fmt.Sprintf("Terminated (%d)", exitCode)
		}
		if exitCode == 0 {
			return reason, sections.LevelSuccess
		}
		return reason, sections.LevelError
	}

	return "Unknown", sections.LevelNeutral
}

// containerPorts renders a container's declared ports as name:port/protocol.
func containerPorts(cMap map[string]interface{}) []string {
	portsSlice, _, _ := unstructured.NestedSlice(cMap, "ports")

	var ports []string
	for _, p := range portsSlice {
		portMap, ok := p.(map[string]interface{})
		if !ok {
			continue
		}
		port, _, _ := unstructured.NestedInt64(portMap, "containerPort")
		protocol, _, _ := unstructured.NestedString(portMap, "protocol")
		name, _, _ := unstructured.NestedString(portMap, "name")

		portStr := fmt.Sprintf("%d", port)
		if protocol != "" {
			portStr = fmt.Sprintf("%s/%s", portStr, protocol)
		}
		if name != "" {
			portStr = fmt.Sprintf("%s:%s", name, portStr)
		}
		ports = append(ports, portStr)
	}
	return ports
}

// podVolumes summarizes the pod's volumes by source type.
func podVolumes(obj *unstructured.Unstructured) []sections.Volume {
	volumesSlice, _, _ := unstructured.NestedSlice(obj.Object, "spec", "volumes")

	var out []sections.Volume
	for _, v := range volumesSlice {
		vMap, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		name, _, _ := unstructured.NestedString(vMap, "name")
		source, detail := volumeSource(vMap)
		out = append(out, sections.Volume{Name: name, Source: source, Detail: detail})
	}
	return out
}

// volumeSource identifies a volume's source type and a short detail string.
func volumeSource(vMap map[string]interface{}) (string, string) {
	if cmName, _, _ := unstructured.NestedString(vMap, "configMap", "name"); cmName != "" {
		return "ConfigMap", cmName
	}
	if secretName, _, _ := unstructured.NestedString(vMap, "secret", "secretName"); secretName != "" {
		return "Secret", secretName
	}
	if claimName, _, _ := unstructured.NestedString(vMap, "persistentVolumeClaim", "claimName"); claimName != "" {
		return "PersistentVolumeClaim", claimName
	}
	if _, found, _ := unstructured.NestedMap(vMap, "emptyDir"); found {
		medium, _, _ := unstructured.NestedString(vMap, "emptyDir", "medium")
		return "EmptyDir", medium
	}
	if path, _, _ := unstructured.NestedString(vMap, "hostPath", "path"); path != "" {
		return "HostPath", path
	}
	if srcs, found, _ := unstructured.NestedSlice(vMap, "projected", "sources"); found {
		return "Projected", fmt.Sprintf("%d sources", len(srcs))
	}
	if _, found, _ := unstructured.NestedMap(vMap, "downwardAPI"); found {
		return "DownwardAPI", ""
	}
	if driver, _, _ := unstructured.NestedString(vMap, "csi", "driver"); driver != "" {
		return "CSI", driver
	}
	if server, _, _ := unstructured.NestedString(vMap, "nfs", "server"); server != "" {
		path, _, _ := unstructured.NestedString(vMap, "nfs", "path")
		return "NFS", server + ":" + path
	}

	// Fall back to the first non-name field as the source type. Sorted so
	// malformed multi-source volumes still render deterministically.
	var keys []string
	for key := range vMap {
		if key != "name" {
			keys = append(keys, key)
		}
	}
	if len(keys) > 0 {
		sort.Strings(keys)
		return keys[0], ""
	}
	return "Unknown", ""
}
