// Package adapters normalizes heterogeneous Kubernetes object shapes into
// the closed section vocabulary of internal/sections. One adapter covers one
// resource kind; the Registry dispatches on the object's kind field and
// degrades to no sections for kinds it does not know.
package adapters

import (
	"context"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/ksight-io/ksight/internal/k8s"
	"github.com/ksight-io/ksight/internal/sections"
)

// Adapter turns one resource kind's raw object shape into sections.
//
// Adapt must be total over well-formed input: objects missing their spec
// yield an empty section list, malformed fields degrade to fewer sections,
// and the input object is never mutated. Adapters hold no mutable state and
// are safe for concurrent use; the only thing an adapter may capture is the
// listing capability referenced by deferred related-resource loaders.
type Adapter interface {
	// Kinds returns the kind aliases this adapter claims, canonical
	// CamelCase name first (for example "Pod", "Pods").
	Kinds() []string

	// Adapt produces the section list for one object. The namespace is the
	// object's namespace as known to the caller; it is only used by
	// relationship resolvers.
	Adapt(obj *unstructured.Unstructured, namespace string) []sections.Section
}

// ActionProvider is implemented by adapters that expose operations on their
// resource kind.
type ActionProvider interface {
	Actions() []Action
}

// ActionVariant is a visual hint for how an action should be presented.
type ActionVariant string

const (
	ActionDefault ActionVariant = "default"
	ActionWarning ActionVariant = "warning"
	ActionDanger  ActionVariant = "danger"
)

// Action is one operation a kind supports. Visibility and disabled state are
// evaluated fresh against the concrete object at render time, never cached.
type Action struct {
	ID      string
	Label   string
	Variant ActionVariant

	// Confirm is a confirmation prompt shown before execution. Empty means
	// no confirmation is required.
	Confirm string

	// Execute performs the operation. It is invoked by the consuming
	// surface, not by this package.
	Execute func(ctx context.Context, obj *unstructured.Unstructured, namespace string) error

	// IsVisible reports whether the action applies to this object. Nil
	// means always visible.
	IsVisible func(obj *unstructured.Unstructured) bool

	// IsDisabled reports whether the action is shown but not executable.
	// Nil means enabled.
	IsDisabled func(obj *unstructured.Unstructured) bool
}

// Deps carries the external capabilities adapters may close over. Lister
// feeds relationship resolvers; Actions backs action execution. Either may
// be nil, in which case the dependent features degrade (empty related lists,
// erroring actions) without affecting section output.
type Deps struct {
	Lister  k8s.Lister
	Actions k8s.ActionClient
}
