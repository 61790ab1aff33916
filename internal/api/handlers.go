package api

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/ksight-io/ksight/internal/k8s"
	"github.com/ksight-io/ksight/internal/sections"
)

// sectionView is the wire shape of one section. Related sections carry a
// descriptor with a resolve URL instead of materialized content; the client
// follows the URL when (and if) it wants the list.
type sectionView struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
}

type relatedDescriptor struct {
	Kind    string `json:"kind"`
	Resolve string `json:"resolve"`
}

type resourceRef struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
}

func (s *Server) handleKinds(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"kinds": s.registry.SupportedKinds()})
}

func (s *Server) handleList(c *gin.Context) {
	kind := c.Param("kind")
	namespace := c.Query("namespace")

	cfg, err := s.lister.ResourceConfig(c.Request.Context(), kind)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if cfg == nil {
		// Unknown kinds list as empty rather than failing.
		c.JSON(http.StatusOK, gin.H{"items": []resourceRef{}})
		return
	}

	items, err := s.lister.List(c.Request.Context(), cfg, namespace)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	refs := make([]resourceRef, 0, len(items))
	for _, item := range items {
		refs = append(refs, resourceRef{Name: item.GetName(), Namespace: item.GetNamespace()})
	}
	c.JSON(http.StatusOK, gin.H{"items": refs})
}

func (s *Server) handleSections(c *gin.Context) {
	kind := c.Param("kind")
	name := c.Param("name")
	namespace := c.Query("namespace")

	obj, cfg, err := s.fetch(c, kind, name, namespace)
	if err != nil {
		return
	}
	if cfg == nil || s.registry.Get(kind) == nil {
		c.JSON(http.StatusOK, gin.H{"sections": []sectionView{}})
		return
	}

	secs := s.registry.Adapt(obj, namespace)
	views := make([]sectionView, 0, len(secs))
	for _, sec := range secs {
		views = append(views, s.viewOf(sec, kind, name, namespace))
	}

	c.JSON(http.StatusOK, gin.H{
		"kind":      kind,
		"name":      name,
		"namespace": namespace,
		"sections":  views,
	})
}

func (s *Server) handleRelated(c *gin.Context) {
	kind := c.Param("kind")
	name := c.Param("name")
	sectionID := c.Param("section")
	namespace := c.Query("namespace")

	obj, cfg, err := s.fetch(c, kind, name, namespace)
	if err != nil {
		return
	}
	if cfg == nil || s.registry.Get(kind) == nil {
		c.JSON(http.StatusOK, gin.H{"items": []sections.RelatedResource{}})
		return
	}

	for _, sec := range s.registry.Adapt(obj, namespace) {
		related, ok := sec.Data.(sections.Related)
		if !ok || sec.ID != sectionID {
			continue
		}
		// The loader tolerates repeated invocation and resolves its own
		// failures to an empty list.
		items := related.Load(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"kind": related.Kind, "items": items})
		return
	}

	c.JSON(http.StatusNotFound, gin.H{
		"error": fmt.Sprintf("no related section %q on %s/%s", sectionID, kind, name),
	})
}

// fetch resolves the kind and gets the object, writing the error response
// itself. A nil config with a nil error means the kind is unknown; callers
// degrade instead of failing.
func (s *Server) fetch(c *gin.Context, kind, name, namespace string) (*unstructured.Unstructured, *k8s.ResourceConfig, error) {
	resolved, rerr := s.lister.ResourceConfig(c.Request.Context(), kind)
	if rerr != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": rerr.Error()})
		return nil, nil, rerr
	}
	if resolved == nil {
		return nil, nil, nil
	}

	fetched, gerr := s.getter.Get(c.Request.Context(), resolved, namespace, name)
	if gerr != nil {
		if apierrors.IsNotFound(gerr) {
			c.JSON(http.StatusNotFound, gin.H{"error": gerr.Error()})
		} else {
			c.JSON(http.StatusBadGateway, gin.H{"error": gerr.Error()})
		}
		return nil, nil, gerr
	}
	return fetched, resolved, nil
}

// viewOf converts one section to its wire shape, substituting descriptors
// for deferred and opaque payloads.
func (s *Server) viewOf(sec sections.Section, kind, name, namespace string) sectionView {
	view := sectionView{ID: sec.ID, Title: sec.Title, Type: sec.Type()}

	switch d := sec.Data.(type) {
	case sections.Related:
		resolve := fmt.Sprintf("/api/resources/%s/%s/related/%s",
			url.PathEscape(kind), url.PathEscape(name), url.PathEscape(sec.ID))
		if namespace != "" {
			resolve += "?namespace=" + url.QueryEscape(namespace)
		}
		view.Data = relatedDescriptor{Kind: d.Kind, Resolve: resolve}
	case sections.Custom:
		content := ""
		if d.Render != nil {
			content = d.Render()
		}
		view.Data = gin.H{"content": content}
	default:
		view.Data = sec.Data
	}
	return view
}
