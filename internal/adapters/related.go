package adapters

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"

	"github.com/ksight-io/ksight/internal/k8s"
	"github.com/ksight-io/ksight/internal/logging"
	"github.com/ksight-io/ksight/internal/sections"
)

// revisionAnnotation tracks rollout generations on replica sets.
const revisionAnnotation = "deployment.kubernetes.io/revision"

// hashSuffixPattern matches the generated name suffix controllers append to
// the objects they create: 7 to 10 lowercase alphanumeric characters. The
// length bound keeps deployments whose names are literal prefixes of
// unrelated objects from matching them.
var hashSuffixPattern = regexp.MustCompile(`^[a-z0-9]{7,10}$`)

// listRelated resolves a plural kind name and lists it in a namespace. A nil
// descriptor (the server does not serve the kind) is an error here because
// the caller cannot proceed without one.
func listRelated(ctx context.Context, lister k8s.Lister, plural, namespace string) ([]*unstructured.Unstructured, error) {
	if lister == nil {
		return nil, fmt.Errorf("no lister configured")
	}

	cfg, err := lister.ResourceConfig(ctx, plural)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("server does not serve %s", plural)
	}

	timer := logging.Start("list related " + plural)
	items, err := lister.List(ctx, cfg, namespace)
	if err != nil {
		return nil, err
	}
	logging.EndWithCount(timer, len(items))
	return items, nil
}

// newReplicaSetLoader builds the deferred loader for a Deployment's replica
// sets. Each invocation performs an independent fetch-and-filter pass; any
// failure is logged and resolved to an empty list so a broken enrichment
// cannot take down the rest of the panel.
func newReplicaSetLoader(lister k8s.Lister, namespace, name string, uid types.UID) sections.RelatedLoader {
	return func(ctx context.Context) []sections.RelatedResource {
		items, err := listRelated(ctx, lister, "replicasets", namespace)
		if err != nil {
			logging.Error("Related replica set fetch failed",
				"deployment", name, "namespace", namespace, "error", err)
			return []sections.RelatedResource{}
		}
		return replicaSetsRelatedTo(items, name, uid)
	}
}

// replicaSetsRelatedTo keeps the replica sets belonging to one deployment.
// An owner reference of kind Deployment matching the subject's name or uid
// is authoritative. Candidates without any owner references fall back to the
// generated-name heuristic and are flagged as such. Candidates whose owner
// references all point elsewhere are unrelated. Results sort newest revision
// first.
func replicaSetsRelatedTo(items []*unstructured.Unstructured, name string, uid types.UID) []sections.RelatedResource {
	type match struct {
		resource sections.RelatedResource
		revision int64
	}

	matches := []match{}
	for _, rs := range items {
		heuristic, ok := replicaSetMatch(rs, name, uid)
		if !ok {
			continue
		}

		ready, _, _ := unstructured.NestedInt64(rs.Object, "status", "readyReplicas")
		desired, _, _ := unstructured.NestedInt64(rs.Object, "spec", "replicas")
		revision := parseRevision(rs.GetAnnotations()[revisionAnnotation])

		matches = append(matches, match{
			resource: sections.RelatedResource{
				Name:      rs.GetName(),
				Namespace: rs.GetNamespace(),
				Detail:    fmt.Sprintf("revision %d, %d/%d ready", revision, ready, desired),
				Level:     readyLevel(ready, desired),
				Heuristic: heuristic,
			},
			revision: revision,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].revision > matches[j].revision
	})

	out := make([]sections.RelatedResource, len(matches))
	for i, m := range matches {
		out[i] = m.resource
	}
	return out
}

// replicaSetMatch reports whether one replica set belongs to the deployment,
// and whether that conclusion came from the name heuristic rather than an
// owner reference.
func replicaSetMatch(rs *unstructured.Unstructured, name string, uid types.UID) (heuristic, ok bool) {
	owners := rs.GetOwnerReferences()
	if len(owners) > 0 {
		for _, owner := range owners {
			if owner.Kind != "Deployment" {
				continue
			}
			if owner.Name == name || (uid != "" && owner.UID == uid) {
				return false, true
			}
		}
		return false, false
	}

	// Degraded metadata: no owner references at all. Accept names of the
	// form <deployment>-<generated hash suffix>.
	prefix := name + "-"
	rsName := rs.GetName()
	if len(rsName) <= len(prefix) || rsName[:len(prefix)] != prefix {
		return false, false
	}
	if !hashSuffixPattern.MatchString(rsName[len(prefix):]) {
		return false, false
	}
	return true, true
}

// parseRevision parses the revision annotation, treating missing or
// unparsable values as 0.
func parseRevision(value string) int64 {
	if value == "" {
		return 0
	}
	rev, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return rev
}

// newPVCLoader builds the deferred loader for a StatefulSet's persistent
// volume claims. Same isolation contract as newReplicaSetLoader.
func newPVCLoader(lister k8s.Lister, namespace, name string, claimTemplates []string) sections.RelatedLoader {
	return func(ctx context.Context) []sections.RelatedResource {
		items, err := listRelated(ctx, lister, "persistentvolumeclaims", namespace)
		if err != nil {
			logging.Error("Related claim fetch failed",
				"statefulset", name, "namespace", namespace, "error", err)
			return []sections.RelatedResource{}
		}
		return claimsRelatedTo(items, name, claimTemplates)
	}
}

// claimsRelatedTo keeps the claims created from a StatefulSet's volume claim
// templates: names of the form <template>-<statefulset>-<ordinal>. Ordinal
// suffixes are not validated further.
func claimsRelatedTo(items []*unstructured.Unstructured, name string, claimTemplates []string) []sections.RelatedResource {
	out := []sections.RelatedResource{}
	for _, pvc := range items {
		pvcName := pvc.GetName()

		matched := false
		for _, template := range claimTemplates {
			prefix := template + "-" + name + "-"
			if len(pvcName) > len(prefix) && pvcName[:len(prefix)] == prefix {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		phase, _, _ := unstructured.NestedString(pvc.Object, "status", "phase")
		capacity, _, _ := unstructured.NestedString(pvc.Object, "status", "capacity", "storage")

		detail := phase
		if capacity != "" {
			detail = fmt.Sprintf("%s, %s", phase, capacity)
		}

		out = append(out, sections.RelatedResource{
			Name:      pvcName,
			Namespace: pvc.GetNamespace(),
			Detail:    detail,
			Level:     volumePhaseLevel(phase),
		})
	}
	return out
}
