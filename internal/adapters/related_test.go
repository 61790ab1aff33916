package adapters

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"

	"github.com/ksight-io/ksight/internal/k8s"
)

func replicaSetFixture(name string, owners []interface{}, revision string, ready, desired int64) *unstructured.Unstructured {
	metadata := map[string]interface{}{
		"name":      name,
		"namespace": "default",
	}
	if owners != nil {
		metadata["ownerReferences"] = owners
	}
	if revision != "" {
		metadata["annotations"] = map[string]interface{}{
			revisionAnnotation: revision,
		}
	}
	return &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "apps/v1",
		"kind":       "ReplicaSet",
		"metadata":   metadata,
		"spec": map[string]interface{}{
			"replicas": desired,
		},
		"status": map[string]interface{}{
			"readyReplicas": ready,
		},
	}}
}

func deploymentOwner(name, uid string) []interface{} {
	return []interface{}{map[string]interface{}{
		"apiVersion": "apps/v1",
		"kind":       "Deployment",
		"name":       name,
		"uid":        uid,
	}}
}

func TestReplicaSetMatch(t *testing.T) {
	tests := []struct {
		name          string
		rs            *unstructured.Unstructured
		deployment    string
		uid           types.UID
		wantHeuristic bool
		wantOK        bool
	}{
		{
			name:       "owner reference by name",
			rs:         replicaSetFixture("web-abc1234", deploymentOwner("web", "uid-1"), "", 1, 1),
			deployment: "web", uid: "other-uid",
			wantHeuristic: false, wantOK: true,
		},
		{
			name:       "owner reference by uid when renamed",
			rs:         replicaSetFixture("old-abc1234", deploymentOwner("old-name", "uid-1"), "", 1, 1),
			deployment: "web", uid: "uid-1",
			wantHeuristic: false, wantOK: true,
		},
		{
			name:       "owned by a different deployment",
			rs:         replicaSetFixture("web-abc1234", deploymentOwner("api", "uid-9"), "", 1, 1),
			deployment: "web", uid: "uid-1",
			wantHeuristic: false, wantOK: false,
		},
		{
			name: "owned by a non-deployment controller",
			rs: replicaSetFixture("web-abc1234", []interface{}{map[string]interface{}{
				"apiVersion": "example.com/v1",
				"kind":       "Rollout",
				"name":       "web",
			}}, "", 1, 1),
			deployment: "web", uid: "",
			wantHeuristic: false, wantOK: false,
		},
		{
			name:       "no owners, generated name suffix",
			rs:         replicaSetFixture("web-abc1234", nil, "", 1, 1),
			deployment: "web", uid: "",
			wantHeuristic: true, wantOK: true,
		},
		{
			name:       "no owners, suffix too short",
			rs:         replicaSetFixture("web-extra", nil, "", 1, 1),
			deployment: "web", uid: "",
			wantHeuristic: false, wantOK: false,
		},
		{
			name:       "no owners, suffix too long",
			rs:         replicaSetFixture("web-abcdef12345", nil, "", 1, 1),
			deployment: "web", uid: "",
			wantHeuristic: false, wantOK: false,
		},
		{
			name:       "no owners, uppercase suffix",
			rs:         replicaSetFixture("web-ABCD1234", nil, "", 1, 1),
			deployment: "web", uid: "",
			wantHeuristic: false, wantOK: false,
		},
		{
			name:       "no owners, name is bare prefix",
			rs:         replicaSetFixture("web-", nil, "", 1, 1),
			deployment: "web", uid: "",
			wantHeuristic: false, wantOK: false,
		},
		{
			name:       "no owners, different deployment",
			rs:         replicaSetFixture("api-abc1234", nil, "", 1, 1),
			deployment: "web", uid: "",
			wantHeuristic: false, wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			heuristic, ok := replicaSetMatch(tt.rs, tt.deployment, tt.uid)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantHeuristic, heuristic)
		})
	}
}

func TestReplicaSetsRelatedToSortsByRevision(t *testing.T) {
	items := []*unstructured.Unstructured{
		replicaSetFixture("web-aaaaaaa", deploymentOwner("web", "uid-1"), "3", 0, 0),
		replicaSetFixture("web-bbbbbbb", deploymentOwner("web", "uid-1"), "", 0, 0),
		replicaSetFixture("web-ccccccc", deploymentOwner("web", "uid-1"), "5", 2, 2),
	}

	related := replicaSetsRelatedTo(items, "web", "uid-1")
	require.Len(t, related, 3)

	assert.Equal(t, "web-ccccccc", related[0].Name)
	assert.Equal(t, "web-aaaaaaa", related[1].Name)
	assert.Equal(t, "web-bbbbbbb", related[2].Name, "missing revision sorts last as 0")

	assert.Equal(t, "revision 5, 2/2 ready", related[0].Detail)
	assert.False(t, related[0].Heuristic)
}

func TestReplicaSetsRelatedToMixedOwnership(t *testing.T) {
	items := []*unstructured.Unstructured{
		replicaSetFixture("web-abc1234", deploymentOwner("web", "uid-1"), "2", 1, 1),
		replicaSetFixture("web-def5678", nil, "1", 1, 1),
		replicaSetFixture("api-abc1234", deploymentOwner("api", "uid-9"), "4", 1, 1),
	}

	related := replicaSetsRelatedTo(items, "web", "uid-1")
	require.Len(t, related, 2)

	assert.Equal(t, "web-abc1234", related[0].Name)
	assert.False(t, related[0].Heuristic)
	assert.Equal(t, "web-def5678", related[1].Name)
	assert.True(t, related[1].Heuristic)
}

func TestParseRevision(t *testing.T) {
	assert.Equal(t, int64(0), parseRevision(""))
	assert.Equal(t, int64(7), parseRevision("7"))
	assert.Equal(t, int64(0), parseRevision("not-a-number"))
}

func pvcFixture(name, phase, capacity string) *unstructured.Unstructured {
	status := map[string]interface{}{"phase": phase}
	if capacity != "" {
		status["capacity"] = map[string]interface{}{"storage": capacity}
	}
	return &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "v1",
		"kind":       "PersistentVolumeClaim",
		"metadata": map[string]interface{}{
			"name":      name,
			"namespace": "default",
		},
		"status": status,
	}}
}

func TestClaimsRelatedTo(t *testing.T) {
	items := []*unstructured.Unstructured{
		pvcFixture("data-db-0", "Bound", "1Gi"),
		pvcFixture("data-db-1", "Pending", ""),
		pvcFixture("logs-db-0", "Bound", "5Gi"),
		pvcFixture("data-other-0", "Bound", "1Gi"),
		pvcFixture("cache-db-0", "Bound", "1Gi"),
	}

	related := claimsRelatedTo(items, "db", []string{"data", "logs"})
	require.Len(t, related, 3)

	names := []string{related[0].Name, related[1].Name, related[2].Name}
	assert.Equal(t, []string{"data-db-0", "data-db-1", "logs-db-0"}, names)

	assert.Equal(t, "Bound, 1Gi", related[0].Detail)
	assert.Equal(t, "Pending", related[1].Detail)
	for _, r := range related {
		assert.False(t, r.Heuristic, "claim template prefixes are authoritative")
	}
}

func replicaSetConfig() k8s.ResourceConfig {
	return k8s.ResourceConfig{
		GVR:        schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "replicasets"},
		Kind:       "ReplicaSet",
		Namespaced: true,
	}
}

func TestReplicaSetLoaderFindsRelated(t *testing.T) {
	fake := k8s.NewFake()
	fake.Register(replicaSetConfig(),
		replicaSetFixture("web-abc1234", deploymentOwner("web", "uid-1"), "2", 1, 1),
		replicaSetFixture("api-def5678", deploymentOwner("api", "uid-9"), "1", 1, 1),
	)

	load := newReplicaSetLoader(fake, "default", "web", "uid-1")
	related := load(context.Background())

	require.Len(t, related, 1)
	assert.Equal(t, "web-abc1234", related[0].Name)
}

func TestReplicaSetLoaderListFailure(t *testing.T) {
	fake := k8s.NewFake()
	fake.Register(replicaSetConfig())
	fake.FailList("replicasets", errors.New("connection refused"))

	load := newReplicaSetLoader(fake, "default", "web", "uid-1")
	related := load(context.Background())

	assert.NotNil(t, related, "failures resolve to empty, not nil")
	assert.Empty(t, related)
}

func TestReplicaSetLoaderUnknownResource(t *testing.T) {
	load := newReplicaSetLoader(k8s.NewFake(), "default", "web", "uid-1")
	related := load(context.Background())

	assert.NotNil(t, related)
	assert.Empty(t, related)
}

func TestReplicaSetLoaderNilLister(t *testing.T) {
	load := newReplicaSetLoader(nil, "default", "web", "uid-1")
	related := load(context.Background())

	assert.NotNil(t, related)
	assert.Empty(t, related)
}

func TestPVCLoaderListFailure(t *testing.T) {
	fake := k8s.NewFake()
	fake.Register(k8s.ResourceConfig{
		GVR:        schema.GroupVersionResource{Version: "v1", Resource: "persistentvolumeclaims"},
		Kind:       "PersistentVolumeClaim",
		Namespaced: true,
	})
	fake.FailList("persistentvolumeclaims", errors.New("timeout"))

	load := newPVCLoader(fake, "default", "db", []string{"data"})
	related := load(context.Background())

	assert.NotNil(t, related)
	assert.Empty(t, related)
}

func TestPVCLoaderFindsClaims(t *testing.T) {
	fake := k8s.NewFake()
	fake.Register(k8s.ResourceConfig{
		GVR:        schema.GroupVersionResource{Version: "v1", Resource: "persistentvolumeclaims"},
		Kind:       "PersistentVolumeClaim",
		Namespaced: true,
	}, pvcFixture("data-db-0", "Bound", "1Gi"), pvcFixture("data-web-0", "Bound", "1Gi"))

	load := newPVCLoader(fake, "default", "db", []string{"data"})
	related := load(context.Background())

	require.Len(t, related, 1)
	assert.Equal(t, "data-db-0", related[0].Name)
}
