package k8s

import (
	"context"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
)

// ResourceConfig describes one fetchable resource type on the connected
// cluster. It is resolved from a kind name via discovery and passed back to
// List/Get verbatim.
type ResourceConfig struct {
	GVR        schema.GroupVersionResource
	Kind       string
	Namespaced bool
}

// Lister is the listing capability injected into the adapter registry.
// ResourceConfig resolves a plural kind name ("replicasets") to a fetchable
// descriptor; it returns (nil, nil) when the server does not serve that kind.
// List fetches all objects of a resolved type, optionally namespace-scoped.
// Both operations hit the network and may fail; callers that enrich panels
// must recover locally.
type Lister interface {
	ResourceConfig(ctx context.Context, plural string) (*ResourceConfig, error)
	List(ctx context.Context, cfg *ResourceConfig, namespace string) ([]*unstructured.Unstructured, error)
}

// Getter fetches a single object. The viewer and API surfaces need it; the
// adapter subsystem itself only lists.
type Getter interface {
	Get(ctx context.Context, cfg *ResourceConfig, namespace, name string) (*unstructured.Unstructured, error)
}

// ActionClient is the write capability behind resource actions. It is
// deliberately narrow: actions patch or delete the subject resource, nothing
// else.
type ActionClient interface {
	Delete(ctx context.Context, cfg *ResourceConfig, namespace, name string) error
	Patch(ctx context.Context, cfg *ResourceConfig, namespace, name string, pt types.PatchType, data []byte) error
}
