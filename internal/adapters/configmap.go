package adapters

import (
	"fmt"
	"sort"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/ksight-io/ksight/internal/sections"
)

// configMapAdapter renders config maps. ConfigMaps carry no spec, so there
// is no spec gate; missing data simply yields fewer sections.
type configMapAdapter struct{}

func newConfigMapAdapter() configMapAdapter { return configMapAdapter{} }

func (configMapAdapter) Kinds() []string { return []string{"ConfigMap", "ConfigMaps"} }

func (configMapAdapter) Adapt(obj *unstructured.Unstructured, namespace string) []sections.Section {
	if obj == nil || obj.Object == nil {
		return nil
	}

	secs := []sections.Section{}

	data, _, _ := unstructured.NestedStringMap(obj.Object, "data")
	binaryData, _, _ := unstructured.NestedStringMap(obj.Object, "binaryData")
	immutable, _, _ := unstructured.NestedBool(obj.Object, "immutable")

	immutableValue := "No"
	if immutable {
		immutableValue = "Yes"
	}

	secs = append(secs, sections.Section{
		ID:    "info",
		Title: "Details",
		Data: sections.InfoGrid{
			Columns: 2,
			Rows: []sections.InfoRow{
				{Label: "Entries", Value: fmt.Sprintf("%d", len(data))},
				{Label: "Binary Entries", Value: fmt.Sprintf("%d", len(binaryData))},
				{Label: "Immutable", Value: immutableValue},
				{Label: "Age", Value: formatAge(obj)},
			},
		},
	})

	if rows := configMapRows(data, binaryData); len(rows) > 0 {
		secs = append(secs, sections.Section{
			ID:    "data",
			Title: "Data",
			Data: sections.Table{
				Headers: []string{"Key", "Size", "Preview"},
				Rows:    rows,
			},
		})
	}

	return appendMetaSections(secs, "ConfigMap", obj)
}

// configMapRows renders data entries sorted by key, text entries first.
func configMapRows(data, binaryData map[string]string) [][]string {
	var rows [][]string

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := data[k]
		rows = append(rows, []string{k, fmt.Sprintf("%d B", len(v)), previewValue(v)})
	}

	binKeys := make([]string, 0, len(binaryData))
	for k := range binaryData {
		binKeys = append(binKeys, k)
	}
	sort.Strings(binKeys)
	for _, k := range binKeys {
		rows = append(rows, []string{k, fmt.Sprintf("%d B", len(binaryData[k])), "<binary>"})
	}

	return rows
}

// previewValue shows the first line of a value, truncated.
func previewValue(v string) string {
	if i := strings.IndexAny(v, "\r\n"); i >= 0 {
		v = v[:i] + " ..."
	}
	if len(v) > 48 {
		v = v[:48] + "..."
	}
	return v
}
