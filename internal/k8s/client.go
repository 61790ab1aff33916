package k8s

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/ksight-io/ksight/internal/logging"
)

// Client implements Lister, Getter and ActionClient against a live cluster
// using the dynamic client. Resource descriptors come from API discovery and
// are cached after the first successful build; a failed build is retried on
// the next lookup.
type Client struct {
	dynamic   dynamic.Interface
	discovery discovery.DiscoveryInterface

	kubeconfig  string
	contextName string

	mu          sync.RWMutex
	built       bool
	descriptors map[string]ResourceConfig
}

// NewClient builds a cluster client from a kubeconfig path and optional
// context name. An empty path falls back to $HOME/.kube/config.
func NewClient(kubeconfig, contextName string) (*Client, error) {
	if kubeconfig == "" {
		if home := os.Getenv("HOME"); home != "" {
			kubeconfig = filepath.Join(home, ".kube", "config")
		} else {
			return nil, fmt.Errorf("HOME environment variable not set and no kubeconfig provided")
		}
	}

	loadingRules := &clientcmd.ClientConfigLoadingRules{ExplicitPath: kubeconfig}
	configOverrides := &clientcmd.ConfigOverrides{}
	if contextName != "" {
		configOverrides.CurrentContext = contextName
	}

	config, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		loadingRules,
		configOverrides,
	).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("error building kubeconfig: %w", err)
	}

	client, err := NewClientForConfig(config)
	if err != nil {
		return nil, err
	}
	client.kubeconfig = kubeconfig
	client.contextName = contextName
	return client, nil
}

// NewClientForConfig builds a Client from an existing rest.Config, for
// in-cluster use and tests where no kubeconfig file is involved.
func NewClientForConfig(config *rest.Config) (*Client, error) {
	dynamicClient, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("error creating dynamic client: %w", err)
	}

	discoveryClient, err := discovery.NewDiscoveryClientForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("error creating discovery client: %w", err)
	}

	return &Client{
		dynamic:   dynamicClient,
		discovery: discoveryClient,
	}, nil
}

// GetKubeconfig returns the kubeconfig path in use.
func (c *Client) GetKubeconfig() string {
	return c.kubeconfig
}

// GetContext returns the context name in use ("" for the current context).
func (c *Client) GetContext() string {
	return c.contextName
}

// ResourceConfig resolves a kind name (plural, singular or CamelCase kind)
// to a fetchable descriptor. It returns (nil, nil) when the server does not
// serve that kind.
func (c *Client) ResourceConfig(ctx context.Context, plural string) (*ResourceConfig, error) {
	if err := c.ensureDescriptors(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	cfg, ok := c.descriptors[strings.ToLower(plural)]
	if !ok {
		return nil, nil
	}
	return &cfg, nil
}

// List fetches all objects of a resolved resource type. An empty namespace
// lists across the cluster (or all namespaces for namespaced types).
func (c *Client) List(ctx context.Context, cfg *ResourceConfig, namespace string) ([]*unstructured.Unstructured, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil resource config")
	}

	timer := logging.Start("list " + cfg.GVR.Resource)
	var list *unstructured.UnstructuredList
	var err error
	if cfg.Namespaced && namespace != "" {
		list, err = c.dynamic.Resource(cfg.GVR).Namespace(namespace).List(ctx, metav1.ListOptions{})
	} else {
		list, err = c.dynamic.Resource(cfg.GVR).List(ctx, metav1.ListOptions{})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", cfg.GVR.Resource, err)
	}

	items := make([]*unstructured.Unstructured, 0, len(list.Items))
	for i := range list.Items {
		items = append(items, &list.Items[i])
	}
	logging.EndWithCount(timer, len(items))
	return items, nil
}

// Get fetches a single object by name.
func (c *Client) Get(ctx context.Context, cfg *ResourceConfig, namespace, name string) (*unstructured.Unstructured, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil resource config")
	}

	if cfg.Namespaced && namespace != "" {
		return c.dynamic.Resource(cfg.GVR).Namespace(namespace).Get(ctx, name, metav1.GetOptions{})
	}
	return c.dynamic.Resource(cfg.GVR).Get(ctx, name, metav1.GetOptions{})
}

// Delete removes an object by name.
func (c *Client) Delete(ctx context.Context, cfg *ResourceConfig, namespace, name string) error {
	if cfg == nil {
		return fmt.Errorf("nil resource config")
	}

	if cfg.Namespaced && namespace != "" {
		return c.dynamic.Resource(cfg.GVR).Namespace(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	}
	return c.dynamic.Resource(cfg.GVR).Delete(ctx, name, metav1.DeleteOptions{})
}

// Patch applies a patch to an object by name.
func (c *Client) Patch(ctx context.Context, cfg *ResourceConfig, namespace, name string, pt types.PatchType, data []byte) error {
	if cfg == nil {
		return fmt.Errorf("nil resource config")
	}

	var err error
	if cfg.Namespaced && namespace != "" {
		_, err = c.dynamic.Resource(cfg.GVR).Namespace(namespace).Patch(ctx, name, pt, data, metav1.PatchOptions{})
	} else {
		_, err = c.dynamic.Resource(cfg.GVR).Patch(ctx, name, pt, data, metav1.PatchOptions{})
	}
	return err
}

// ensureDescriptors builds the discovery index once. Failures leave the
// index unbuilt so the next lookup retries.
func (c *Client) ensureDescriptors(ctx context.Context) error {
	c.mu.RLock()
	built := c.built
	c.mu.RUnlock()
	if built {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	timer := logging.Start("discover API resources")
	resourceLists, err := c.discovery.ServerPreferredResources()
	if err != nil && len(resourceLists) == 0 {
		return fmt.Errorf("error discovering server resources: %w", err)
	}
	if err != nil {
		// Partial discovery (a broken aggregated API group) still yields a
		// usable index.
		logging.Warn("Partial API discovery", "error", err)
	}

	index := buildDescriptorIndex(resourceLists)
	logging.EndWithCount(timer, len(index))

	c.mu.Lock()
	c.descriptors = index
	c.built = true
	c.mu.Unlock()

	return nil
}

// buildDescriptorIndex converts discovery results into a lookup table keyed
// by lower-cased plural name, singular name and kind. Subresources and
// unlistable resources are skipped.
func buildDescriptorIndex(resourceLists []*metav1.APIResourceList) map[string]ResourceConfig {
	index := make(map[string]ResourceConfig)

	for _, list := range resourceLists {
		gv, err := schema.ParseGroupVersion(list.GroupVersion)
		if err != nil {
			continue
		}

		for _, res := range list.APIResources {
			if strings.Contains(res.Name, "/") {
				continue
			}
			if res.Kind == "" || !hasVerb(res.Verbs, "list") {
				continue
			}

			cfg := ResourceConfig{
				GVR: schema.GroupVersionResource{
					Group:    gv.Group,
					Version:  gv.Version,
					Resource: res.Name,
				},
				Kind:       res.Kind,
				Namespaced: res.Namespaced,
			}

			keys := []string{res.Name, strings.ToLower(res.Kind)}
			if res.SingularName != "" {
				keys = append(keys, res.SingularName)
			}
			for _, key := range keys {
				// Core resources win over same-named aggregated ones
				// (first list wins since preferred resources are ordered).
				if _, exists := index[key]; !exists {
					index[key] = cfg
				}
			}
		}
	}

	return index
}

// hasVerb reports whether a discovery verb list contains the given verb.
func hasVerb(verbs metav1.Verbs, verb string) bool {
	for _, v := range verbs {
		if v == verb {
			return true
		}
	}
	return false
}
