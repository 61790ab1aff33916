package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/ksight-io/ksight/internal/k8s"
	"github.com/ksight-io/ksight/internal/sections"
)

func statefulSetFixture(templates ...string) *unstructured.Unstructured {
	spec := map[string]interface{}{
		"replicas":    int64(3),
		"serviceName": "db-headless",
		"updateStrategy": map[string]interface{}{
			"type": "RollingUpdate",
		},
	}
	if len(templates) > 0 {
		var vcts []interface{}
		for _, name := range templates {
			vcts = append(vcts, map[string]interface{}{
				"metadata": map[string]interface{}{"name": name},
			})
		}
		spec["volumeClaimTemplates"] = vcts
	}
	return newTestObject("StatefulSet", "default", "db", map[string]interface{}{
		"spec": spec,
		"status": map[string]interface{}{
			"readyReplicas":   int64(3),
			"updatedReplicas": int64(3),
		},
	})
}

func TestStatefulSetAdapterSections(t *testing.T) {
	secs := newStatefulSetAdapter(nil).Adapt(statefulSetFixture("data"), "default")
	ids := sectionIDs(secs)

	assert.Equal(t, []string{"status", "replicas", "info", "related-claims"}, ids)

	cards := secs[0].Data.(sections.StatusCards).Cards
	assert.Equal(t, "3/3", cards[0].Value)
	assert.Equal(t, sections.LevelSuccess, cards[0].Level)
	assert.Equal(t, "db-headless", cards[2].Value)
}

func TestStatefulSetAdapterWithoutClaimTemplates(t *testing.T) {
	secs := newStatefulSetAdapter(nil).Adapt(statefulSetFixture(), "default")
	assert.NotContains(t, sectionIDs(secs), "related-claims",
		"no claim templates means no claims panel")
}

func TestStatefulSetRelatedClaims(t *testing.T) {
	fake := k8s.NewFake()
	fake.Register(k8s.ResourceConfig{
		GVR:        schema.GroupVersionResource{Version: "v1", Resource: "persistentvolumeclaims"},
		Kind:       "PersistentVolumeClaim",
		Namespaced: true,
	},
		pvcFixture("data-db-0", "Bound", "1Gi"),
		pvcFixture("data-db-1", "Bound", "1Gi"),
		pvcFixture("data-web-0", "Bound", "1Gi"),
	)

	secs := newStatefulSetAdapter(fake).Adapt(statefulSetFixture("data"), "default")
	last := secs[len(secs)-1]

	related, ok := last.Data.(sections.Related)
	require.True(t, ok)
	assert.Equal(t, "PersistentVolumeClaim", related.Kind)

	resolved := related.Load(context.Background())
	require.Len(t, resolved, 2)
	assert.Equal(t, "data-db-0", resolved[0].Name)
	assert.Equal(t, "data-db-1", resolved[1].Name)
}

func TestClaimTemplateNames(t *testing.T) {
	assert.Equal(t, []string{"data", "logs"},
		claimTemplateNames(statefulSetFixture("data", "logs")))
	assert.Empty(t, claimTemplateNames(statefulSetFixture()))
}
