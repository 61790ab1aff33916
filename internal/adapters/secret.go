package adapters

import (
	"fmt"
	"sort"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/ksight-io/ksight/internal/sections"
)

// secretAdapter renders secrets. Every entry goes through the content
// classifier; values appear only inside SecretEntry payloads and are never
// written to the log.
type secretAdapter struct{}

func newSecretAdapter() secretAdapter { return secretAdapter{} }

func (secretAdapter) Kinds() []string { return []string{"Secret", "Secrets"} }

func (secretAdapter) Adapt(obj *unstructured.Unstructured, namespace string) []sections.Section {
	if obj == nil || obj.Object == nil {
		return nil
	}

	secs := []sections.Section{}

	secretType, _, _ := unstructured.NestedString(obj.Object, "type")
	data, _, _ := unstructured.NestedStringMap(obj.Object, "data")
	stringData, _, _ := unstructured.NestedStringMap(obj.Object, "stringData")
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
				{Label: "Type", Value: orNone(secretType)},
				{Label: "Entries", Value: fmt.Sprintf("%d", len(data)+len(stringData))},
				{Label: "Immutable", Value: immutableValue},
				{Label: "Age", Value: formatAge(obj)},
			},
		},
	})

	if entries := secretEntries(data, stringData); len(entries) > 0 {
		secs = append(secs, sections.Section{
			ID:    "data",
			Title: "Data",
			Data:  sections.SecretEntries{Entries: entries},
		})
	}

	return appendMetaSections(secs, "Secret", obj)
}

// secretEntries classifies every entry, sorted by key. The data map holds
// base64 values; stringData holds plaintext and wins on key collision, the
// same way the API server merges the two on write.
func secretEntries(data, stringData map[string]string) []sections.SecretEntry {
	values := make(map[string]string, len(data)+len(stringData))
	plaintext := make(map[string]bool, len(stringData))

	for k, v := range data {
		values[k] = v
	}
	for k, v := range stringData {
		values[k] = v
		plaintext[k] = true
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]sections.SecretEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, classifySecretValue(k, values[k], !plaintext[k]))
	}
	return entries
}
