// Package router matches resource URIs against registered patterns of the
// form scheme://literal/{param}/literal and extracts named parameters.
package router

import (
	"fmt"
	"strings"
	"sync"
)

// Segment is one path element of a pattern: either a literal that must match
// exactly, or a named parameter that captures any non-empty segment.
type Segment struct {
	Literal string
	Param   string // non-empty means this segment is a parameter
}

// Pattern is a compiled URI pattern.
type Pattern struct {
	Scheme   string
	Segments []Segment
	raw      string
}

// Compile parses a pattern string like "readme://{projectType}" or
// "api://docs". Segments wrapped in braces become named parameters.
func Compile(pattern string) (*Pattern, error) {
	scheme, rest, ok := strings.Cut(pattern, "://")
	if !ok || scheme == "" {
		return nil, fmt.Errorf("router: pattern %q has no scheme", pattern)
	}
	if rest == "" {
		return nil, fmt.Errorf("router: pattern %q has no path", pattern)
	}

	parts := strings.Split(rest, "/")
	segments := make([]Segment, 0, len(parts))
	seen := make(map[string]bool)
	for _, part := range parts {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			name := part[1 : len(part)-1]
			if name == "" {
				return nil, fmt.Errorf("router: pattern %q has an unnamed parameter", pattern)
			}
			if seen[name] {
				return nil, fmt.Errorf("router: pattern %q repeats parameter %q", pattern, name)
			}
			seen[name] = true
			segments = append(segments, Segment{Param: name})
			continue
		}
		if strings.ContainsAny(part, "{}") {
			return nil, fmt.Errorf("router: pattern %q has a malformed segment %q", pattern, part)
		}
		segments = append(segments, Segment{Literal: part})
	}

	return &Pattern{Scheme: scheme, Segments: segments, raw: pattern}, nil
}

// IsTemplate reports whether the pattern has at least one parameter segment.
// Templates are listed separately from static resources, never both.
func (p *Pattern) IsTemplate() bool {
	for _, s := range p.Segments {
		if s.Param != "" {
			return true
		}
	}
	return false
}

// String returns the pattern source text.
func (p *Pattern) String() string { return p.raw }

// match tests p against a pre-split URI and extracts parameters
// left-to-right. Parameter segments require a non-empty value.
func (p *Pattern) match(scheme string, parts []string) (map[string]string, bool) {
	if scheme != p.Scheme || len(parts) != len(p.Segments) {
		return nil, false
	}
	var params map[string]string
	for i, seg := range p.Segments {
		if seg.Param != "" {
			if parts[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[seg.Param] = parts[i]
			continue
		}
		if parts[i] != seg.Literal {
			return nil, false
		}
	}
	return params, true
}

// overlaps reports whether p and other can both match one concrete URI:
// same scheme, same segment count, and no position where two different
// literals disagree.
func (p *Pattern) overlaps(other *Pattern) bool {
	if p.Scheme != other.Scheme || len(p.Segments) != len(other.Segments) {
		return false
	}
	for i, seg := range p.Segments {
		o := other.Segments[i]
		if seg.Param == "" && o.Param == "" && seg.Literal != o.Literal {
			return false
		}
	}
	return true
}

// Router holds registered patterns and resolves concrete URIs against them.
type Router struct {
	mu       sync.RWMutex
	patterns []*Pattern
}

// New creates an empty router.
func New() *Router {
	return &Router{}
}

// Register adds a compiled pattern. Two patterns that could both match the
// same concrete URI conflict; conflicts are registration-time errors, never
// runtime ambiguity.
func (r *Router) Register(p *Pattern) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.patterns {
		if existing.overlaps(p) {
			return fmt.Errorf("router: pattern %q conflicts with %q", p, existing)
		}
	}
	r.patterns = append(r.patterns, p)
	return nil
}

// Match resolves a concrete URI to the registered pattern that matches it
// and the extracted parameters. The URI is split exactly as patterns are
// split at registration.
func (r *Router) Match(uri string) (*Pattern, map[string]string, bool) {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok || rest == "" {
		return nil, nil, false
	}
	parts := strings.Split(rest, "/")

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.patterns {
		if params, ok := p.match(scheme, parts); ok {
			return p, params, true
		}
	}
	return nil, nil, false
}

// Patterns returns the registered patterns in registration order.
func (r *Router) Patterns() []*Pattern {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Pattern, len(r.patterns))
	copy(out, r.patterns)
	return out
}
