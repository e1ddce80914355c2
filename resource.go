package beam

import (
	"context"
	"fmt"
	"sync"

	"github.com/beamkit/beam/internal/router"
)

// ResourceContent is the value read from a resource.
type ResourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

// ResourceHandler produces the content for a matched resource read. For
// templated resources, params holds the values extracted from the URI, keyed
// by parameter name; for static resources it is nil.
type ResourceHandler func(ctx context.Context, uri string, params map[string]string) (*ResourceContent, error)

// ResourceInfo describes a static resource for listings.
type ResourceInfo struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ResourceTemplateInfo describes a parameterized resource for listings.
type ResourceTemplateInfo struct {
	URITemplate string `json:"uriTemplate"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

type resourceEntry struct {
	pattern     *router.Pattern
	name        string
	description string
	mimeType    string
	handler     ResourceHandler
}

// ResourceRegistry maps URI patterns (static or templated) to handlers.
// Reads are routed by the URI router; resource reads do not pass through the
// policy pipeline.
type ResourceRegistry struct {
	mu      sync.RWMutex
	router  *router.Router
	entries map[*router.Pattern]*resourceEntry
	order   []*router.Pattern
}

// NewResourceRegistry creates an empty resource registry.
func NewResourceRegistry() *ResourceRegistry {
	return &ResourceRegistry{
		router:  router.New(),
		entries: make(map[*router.Pattern]*resourceEntry),
	}
}

// Register adds a resource under a URI pattern like "api://docs" or
// "readme://{projectType}". Patterns that could match the same concrete URI
// as an existing registration are rejected; conflicts are load-time errors.
func (r *ResourceRegistry) Register(pattern, name, description, mimeType string, h ResourceHandler) error {
	if h == nil {
		return fmt.Errorf("beam: resource %q has no handler", pattern)
	}
	p, err := router.Compile(pattern)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.router.Register(p); err != nil {
		return err
	}
	r.entries[p] = &resourceEntry{
		pattern:     p,
		name:        name,
		description: description,
		mimeType:    mimeType,
		handler:     h,
	}
	r.order = append(r.order, p)
	return nil
}

// Read matches the URI against the registered patterns and invokes the
// matching handler with the extracted parameters.
func (r *ResourceRegistry) Read(ctx context.Context, uri string) (*ResourceContent, error) {
	r.mu.RLock()
	p, params, ok := r.router.Match(uri)
	var entry *resourceEntry
	if ok {
		entry = r.entries[p]
	}
	r.mu.RUnlock()

	if entry == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, uri)
	}
	content, err := entry.handler(ctx, uri, params)
	if err != nil {
		return nil, err
	}
	if content.URI == "" {
		content.URI = uri
	}
	if content.MimeType == "" {
		content.MimeType = entry.mimeType
	}
	return content, nil
}

// ListStatic returns the fixed-URI resources, in registration order.
// Templated resources never appear here.
func (r *ResourceRegistry) ListStatic() []ResourceInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []ResourceInfo
	for _, p := range r.order {
		if p.IsTemplate() {
			continue
		}
		e := r.entries[p]
		out = append(out, ResourceInfo{
			URI:         p.String(),
			Name:        e.name,
			Description: e.description,
			MimeType:    e.mimeType,
		})
	}
	return out
}

// ListTemplates returns the parameterized resources, in registration order.
// Static resources never appear here.
func (r *ResourceRegistry) ListTemplates() []ResourceTemplateInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []ResourceTemplateInfo
	for _, p := range r.order {
		if !p.IsTemplate() {
			continue
		}
		e := r.entries[p]
		out = append(out, ResourceTemplateInfo{
			URITemplate: p.String(),
			Name:        e.name,
			Description: e.description,
			MimeType:    e.mimeType,
		})
	}
	return out
}

// Len reports the number of registered resources, static and templated.
func (r *ResourceRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
