package k8s

import (
	"context"
	"strings"
	"sync"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
)

// Fake is an in-memory Lister, Getter and ActionClient for tests and
// offline development. Register seeds descriptors and objects; FailList
// injects listing errors per resource type.
type Fake struct {
	mu       sync.Mutex
	configs  map[string]ResourceConfig
	objects  map[string][]*unstructured.Unstructured
	listErrs map[string]error

	deletes []ActionRecord
	patches []PatchRecord
}

// ActionRecord captures a delete issued against the fake.
type ActionRecord struct {
	Resource  string
	Namespace string
	Name      string
}

// PatchRecord captures a patch issued against the fake.
type PatchRecord struct {
	Resource  string
	Namespace string
	Name      string
	PatchType types.PatchType
	Data      []byte
}

// NewFake returns an empty fake with no registered resource types.
func NewFake() *Fake {
	return &Fake{
		configs:  make(map[string]ResourceConfig),
		objects:  make(map[string][]*unstructured.Unstructured),
		listErrs: make(map[string]error),
	}
}

// Register seeds a resource type and its objects. The descriptor becomes
// resolvable by plural name and by lower-cased kind.
func (f *Fake) Register(cfg ResourceConfig, objs ...*unstructured.Unstructured) {
	f.mu.Lock()
	defer f.mu.Unlock()

	plural := cfg.GVR.Resource
	f.configs[plural] = cfg
	if cfg.Kind != "" {
		f.configs[strings.ToLower(cfg.Kind)] = cfg
	}
	f.objects[plural] = append(f.objects[plural], objs...)
}

// FailList makes subsequent List calls for the given plural name fail.
func (f *Fake) FailList(plural string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listErrs[plural] = err
}

// Deletes returns the deletes recorded so far.
func (f *Fake) Deletes() []ActionRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ActionRecord, len(f.deletes))
	copy(out, f.deletes)
	return out
}

// Patches returns the patches recorded so far.
func (f *Fake) Patches() []PatchRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]PatchRecord, len(f.patches))
	copy(out, f.patches)
	return out
}

func (f *Fake) ResourceConfig(ctx context.Context, plural string) (*ResourceConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cfg, ok := f.configs[strings.ToLower(plural)]
	if !ok {
		return nil, nil
	}
	return &cfg, nil
}

func (f *Fake) List(ctx context.Context, cfg *ResourceConfig, namespace string) ([]*unstructured.Unstructured, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.listErrs[cfg.GVR.Resource]; err != nil {
		return nil, err
	}

	var out []*unstructured.Unstructured
	for _, obj := range f.objects[cfg.GVR.Resource] {
		if cfg.Namespaced && namespace != "" && obj.GetNamespace() != namespace {
			continue
		}
		out = append(out, obj)
	}
	return out, nil
}

func (f *Fake) Get(ctx context.Context, cfg *ResourceConfig, namespace, name string) (*unstructured.Unstructured, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, obj := range f.objects[cfg.GVR.Resource] {
		if obj.GetName() != name {
			continue
		}
		if cfg.Namespaced && namespace != "" && obj.GetNamespace() != namespace {
			continue
		}
		return obj, nil
	}
	return nil, apierrors.NewNotFound(
		schema.GroupResource{Group: cfg.GVR.Group, Resource: cfg.GVR.Resource}, name)
}

func (f *Fake) Delete(ctx context.Context, cfg *ResourceConfig, namespace, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deletes = append(f.deletes, ActionRecord{
		Resource:  cfg.GVR.Resource,
		Namespace: namespace,
		Name:      name,
	})

	kept := f.objects[cfg.GVR.Resource][:0]
	for _, obj := range f.objects[cfg.GVR.Resource] {
		if obj.GetName() == name && (!cfg.Namespaced || namespace == "" || obj.GetNamespace() == namespace) {
			continue
		}
		kept = append(kept, obj)
	}
	f.objects[cfg.GVR.Resource] = kept
	return nil
}

func (f *Fake) Patch(ctx context.Context, cfg *ResourceConfig, namespace, name string, pt types.PatchType, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.patches = append(f.patches, PatchRecord{
		Resource:  cfg.GVR.Resource,
		Namespace: namespace,
		Name:      name,
		PatchType: pt,
		Data:      data,
	})
	return nil
}
