package adapters

import (
	"fmt"
	"sort"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/ksight-io/ksight/internal/logging"
	"github.com/ksight-io/ksight/internal/sections"
)

// Registry resolves resource kinds to their adapters. The alias map is built
// once at construction and read-only afterward, so the registry is safe for
// concurrent use without locking.
type Registry struct {
	adapters map[string]Adapter
	kinds    []string
}

// NewRegistry builds the dispatch table over every adapter. Two adapters
// claiming the same alias is a programming error; construction panics rather
// than letting one silently shadow the other.
func NewRegistry(deps Deps) *Registry {
	all := []Adapter{
		newPodAdapter(deps.Actions),
		newDeploymentAdapter(deps.Lister, deps.Actions),
		newReplicaSetAdapter(),
		newStatefulSetAdapter(deps.Lister),
		newDaemonSetAdapter(),
		newJobAdapter(),
		newCronJobAdapter(deps.Actions),
		newServiceAdapter(),
		newConfigMapAdapter(),
		newSecretAdapter(),
		newNamespaceAdapter(),
		newNodeAdapter(deps.Actions),
		newPersistentVolumeAdapter(),
		newPersistentVolumeClaimAdapter(),
		newIngressAdapter(),
	}

	r := &Registry{adapters: make(map[string]Adapter)}
	for _, adapter := range all {
		aliases := adapter.Kinds()
		if len(aliases) == 0 {
			panic("adapters: adapter with no kind aliases")
		}
		for _, alias := range aliases {
			key := strings.ToLower(alias)
			if _, taken := r.adapters[key]; taken {
				panic(fmt.Sprintf("adapters: kind alias %q registered twice", alias))
			}
			r.adapters[key] = adapter
		}
		r.kinds = append(r.kinds, aliases[0])
	}
	sort.Strings(r.kinds)

	return r
}

// Get resolves a kind alias case-insensitively. Exact alias match only, no
// partial or fuzzy matching. Returns nil for unregistered kinds.
func (r *Registry) Get(kind string) Adapter {
	return r.adapters[strings.ToLower(kind)]
}

// Adapt resolves the object's kind and invokes its adapter. A nil object, a
// missing kind field, or an unregistered kind all yield nil: unknown kinds
// degrade to an empty panel, they never fail the caller.
func (r *Registry) Adapt(obj *unstructured.Unstructured, namespace string) []sections.Section {
	if obj == nil {
		return nil
	}
	kind := obj.GetKind()
	if kind == "" {
		return nil
	}

	adapter := r.Get(kind)
	if adapter == nil {
		logging.Debug("No adapter for kind", "kind", kind)
		return nil
	}
	return adapter.Adapt(obj, namespace)
}

// Actions returns the actions applicable to this object: the adapter's
// static list filtered through each action's IsVisible predicate, evaluated
// fresh against the object on every call. Visibility is never cached.
func (r *Registry) Actions(obj *unstructured.Unstructured) []Action {
	if obj == nil {
		return nil
	}

	adapter := r.Get(obj.GetKind())
	if adapter == nil {
		return nil
	}
	provider, ok := adapter.(ActionProvider)
	if !ok {
		return nil
	}

	var visible []Action
	for _, action := range provider.Actions() {
		if action.IsVisible != nil && !action.IsVisible(obj) {
			continue
		}
		visible = append(visible, action)
	}
	return visible
}

// SupportedKinds returns the canonical kind names in sorted order.
func (r *Registry) SupportedKinds() []string {
	out := make([]string, len(r.kinds))
	copy(out, r.kinds)
	return out
}
