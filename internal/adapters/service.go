package adapters

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/ksight-io/ksight/internal/sections"
)

// serviceAdapter renders services: exposure type, addresses, and the port
// table.
type serviceAdapter struct{}

func newServiceAdapter() serviceAdapter { return serviceAdapter{} }

func (serviceAdapter) Kinds() []string { return []string{"Service", "Services"} }

func (serviceAdapter) Adapt(obj *unstructured.Unstructured, namespace string) []sections.Section {
	if !hasSpec(obj) {
		return nil
	}

	secs := []sections.Section{}

	svcType, _, _ := unstructured.NestedString(obj.Object, "spec", "type")
	if svcType == "" {
		svcType = "ClusterIP"
	}
	clusterIP, _, _ := unstructured.NestedString(obj.Object, "spec", "clusterIP")

	secs = append(secs, sections.Section{
		ID:    "status",
		Title: "Status",
		Data: sections.StatusCards{Cards: []sections.StatusCard{
			{Label: "Type", Value: svcType, Level: serviceTypeLevel(svcType)},
			{Label: "Cluster IP", Value: orNone(clusterIP), Level: sections.LevelNeutral},
			{Label: "External", Value: externalAddress(obj), Level: sections.LevelNeutral},
		}},
	})

	if rows := servicePortRows(obj); len(rows) > 0 {
		secs = append(secs, sections.Section{
			ID:    "ports",
			Title: "Ports",
			Data: sections.Table{
				Headers: []string{"Name", "Port", "Target", "Node Port", "Protocol"},
				Rows:    rows,
			},
		})
	}

	affinity, _, _ := unstructured.NestedString(obj.Object, "spec", "sessionAffinity")
	selector, _, _ := unstructured.NestedStringMap(obj.Object, "spec", "selector")

	secs = append(secs, sections.Section{
		ID:    "info",
		Title: "Details",
		Data: sections.InfoGrid{
			Columns: 2,
			Rows: []sections.InfoRow{
				{Label: "Selector", Value: selectorString(selector)},
				{Label: "Session Affinity", Value: orNone(affinity)},
				{Label: "Age", Value: formatAge(obj)},
			},
		},
	})

	return appendMetaSections(secs, "Service", obj)
}

// externalAddress resolves the service's external endpoint: load balancer
// ingress first, then declared external IPs.
func externalAddress(obj *unstructured.Unstructured) string {
	lbIngress, _, _ := unstructured.NestedSlice(obj.Object, "status", "loadBalancer", "ingress")
	if len(lbIngress) > 0 {
		if ingressMap, ok := lbIngress[0].(map[string]interface{}); ok {
			if ip, _, _ := unstructured.NestedString(ingressMap, "ip"); ip != "" {
				return ip
			}
			if hostname, _, _ := unstructured.NestedString(ingressMap, "hostname"); hostname != "" {
				return hostname
			}
		}
	}

	externalIPs, _, _ := unstructured.NestedStringSlice(obj.Object, "spec", "externalIPs")
	if len(externalIPs) > 0 {
		return strings.Join(externalIPs, ",")
	}
	return "<none>"
}

// servicePortRows renders the port table.
func servicePortRows(obj *unstructured.Unstructured) [][]string {
	portsSlice, _, _ := unstructured.NestedSlice(obj.Object, "spec", "ports")

	var rows [][]string
	for _, p := range portsSlice {
		portMap, ok := p.(map[string]interface{})
		if !ok {
			continue
		}
		name, _, _ := unstructured.NestedString(portMap, "name")
		port, _, _ := unstructured.NestedInt64(portMap, "port")
		protocol, _, _ := unstructured.NestedString(portMap, "protocol")

		// targetPort is an int-or-string union.
		target := ""
		if t, found, _ := unstructured.NestedInt64(portMap, "targetPort"); found {
			target = fmt.Sprintf("%d", t)
		} else if t, _, _ := unstructured.NestedString(portMap, "targetPort"); t != "" {
			target = t
		}

		nodePort := ""
		if np, found, _ := unstructured.NestedInt64(portMap, "nodePort"); found && np != 0 {
			nodePort = fmt.Sprintf("%d", np)
		}

		rows = append(rows, []string{
			orNone(name),
			fmt.Sprintf("%d", port),
			orNone(target),
			orNone(nodePort),
			orNone(protocol),
		})
	}
	return rows
}
