package adapters

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/ksight-io/ksight/internal/sections"
)

// ingressAdapter renders ingresses with their routing rules flattened into
// one row per host and path pair.
type ingressAdapter struct{}

func newIngressAdapter() ingressAdapter {
	return ingressAdapter{}
}

func (ingressAdapter) Kinds() []string { return []string{"Ingress", "Ingresses"} }

func (ingressAdapter) Adapt(obj *unstructured.Unstructured, namespace string) []sections.Section {
	if !hasSpec(obj) {
		return nil
	}

	secs := []sections.Section{}

	class, _, _ := unstructured.NestedString(obj.Object, "spec", "ingressClassName")
	if class == "" {
		class = obj.GetAnnotations()["kubernetes.io/ingress.class"]
	}
	tlsEntries, _, _ := unstructured.NestedSlice(obj.Object, "spec", "tls")
	tlsValue := "No"
	tlsLevel := sections.LevelNeutral
	if len(tlsEntries) > 0 {
		tlsValue = fmt.Sprintf("Yes (%d)", len(tlsEntries))
		tlsLevel = sections.LevelSuccess
	}

	secs = append(secs, sections.Section{
		ID:    "status",
		Title: "Status",
		Data: sections.StatusCards{Cards: []sections.StatusCard{
			{Label: "Class", Value: orNone(class), Level: sections.LevelNeutral},
			{Label: "Address", Value: ingressAddress(obj), Level: sections.LevelNeutral},
			{Label: "TLS", Value: tlsValue, Level: tlsLevel},
		}},
	})

	if rows := ingressRuleRows(obj); len(rows) > 0 {
		secs = append(secs, sections.Section{
			ID:    "rules",
			Title: "Rules",
			Data: sections.Table{
				Headers: []string{"Host", "Path", "Path Type", "Backend"},
				Rows:    rows,
			},
		})
	}

	secs = append(secs, sections.Section{
		ID:    "info",
		Title: "Details",
		Data: sections.InfoGrid{
			Columns: 2,
			Rows: []sections.InfoRow{
				{Label: "Default Backend", Value: ingressDefaultBackend(obj)},
				{Label: "Age", Value: formatAge(obj)},
			},
		},
	})

	return appendMetaSections(secs, "Ingress", obj)
}

// ingressAddress joins the load balancer addresses assigned to the ingress.
func ingressAddress(obj *unstructured.Unstructured) string {
	entries, _, _ := unstructured.NestedSlice(obj.Object, "status", "loadBalancer", "ingress")
	var addrs []string
	for _, e := range entries {
		m, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		ip, _, _ := unstructured.NestedString(m, "ip")
		if ip != "" {
			addrs = append(addrs, ip)
			continue
		}
		hostname, _, _ := unstructured.NestedString(m, "hostname")
		if hostname != "" {
			addrs = append(addrs, hostname)
		}
	}
	return joinOrNone(addrs)
}

// ingressRuleRows flattens spec.rules into per-path table rows. A rule with
// no HTTP paths still yields one row so its host stays visible.
func ingressRuleRows(obj *unstructured.Unstructured) [][]string {
	rules, _, _ := unstructured.NestedSlice(obj.Object, "spec", "rules")
	var rows [][]string
	for _, r := range rules {
		rule, ok := r.(map[string]interface{})
		if !ok {
			continue
		}
		host, _, _ := unstructured.NestedString(rule, "host")
		if host == "" {
			host = "*"
		}
		paths, _, _ := unstructured.NestedSlice(rule, "http", "paths")
		if len(paths) == 0 {
			rows = append(rows, []string{host, "<none>", "<none>", "<none>"})
			continue
		}
		for _, p := range paths {
			path, ok := p.(map[string]interface{})
			if !ok {
				continue
			}
			pathValue, _, _ := unstructured.NestedString(path, "path")
			pathType, _, _ := unstructured.NestedString(path, "pathType")
			backend, _, _ := unstructured.NestedMap(path, "backend")
			rows = append(rows, []string{
				host,
				orNone(pathValue),
				orNone(pathType),
				ingressBackend(backend),
			})
		}
	}
	return rows
}

// ingressBackend formats a backend as service:port, falling back to the
// resource reference form used by object backends.
func ingressBackend(backend map[string]interface{}) string {
	if backend == nil {
		return "<none>"
	}
	name, _, _ := unstructured.NestedString(backend, "service", "name")
	if name != "" {
		if port, found, _ := unstructured.NestedInt64(backend, "service", "port", "number"); found {
			return fmt.Sprintf("%s:%d", name, port)
		}
		if portName, _, _ := unstructured.NestedString(backend, "service", "port", "name"); portName != "" {
			return name + ":" + portName
		}
		return name
	}
	kind, _, _ := unstructured.NestedString(backend, "resource", "kind")
	resName, _, _ := unstructured.NestedString(backend, "resource", "name")
	if kind != "" && resName != "" {
		return kind + "/" + resName
	}
	return "<none>"
}

func ingressDefaultBackend(obj *unstructured.Unstructured) string {
	backend, found, _ := unstructured.NestedMap(obj.Object, "spec", "defaultBackend")
	if !found {
		return "<none>"
	}
	value := ingressBackend(backend)
	if strings.HasPrefix(value, "<") {
		return "<none>"
	}
	return value
}
