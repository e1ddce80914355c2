package beam

import (
	"context"
	"fmt"
	"sync"
)

// PromptArgument describes one named argument a prompt accepts.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// PromptMessage is one message produced by a prompt handler.
type PromptMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// PromptHandler renders a prompt from its arguments.
type PromptHandler func(ctx context.Context, args map[string]string) ([]PromptMessage, error)

// PromptInfo describes a registered prompt for listings.
type PromptInfo struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

type promptEntry struct {
	info    PromptInfo
	handler PromptHandler
}

// PromptRegistry holds named prompts. It is concurrent-safe.
type PromptRegistry struct {
	mu      sync.RWMutex
	prompts map[string]*promptEntry
	order   []string
}

// NewPromptRegistry creates an empty prompt registry.
func NewPromptRegistry() *PromptRegistry {
	return &PromptRegistry{prompts: make(map[string]*promptEntry)}
}

// Register adds a prompt under a unique name.
func (r *PromptRegistry) Register(name, description string, args []PromptArgument, h PromptHandler) error {
	if h == nil {
		return fmt.Errorf("beam: prompt %q has no handler", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.prompts[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePrompt, name)
	}
	r.prompts[name] = &promptEntry{
		info: PromptInfo{
			Name:        name,
			Description: description,
			Arguments:   args,
		},
		handler: h,
	}
	r.order = append(r.order, name)
	return nil
}

// Get renders a prompt. Missing required arguments are rejected before the
// handler runs.
func (r *PromptRegistry) Get(ctx context.Context, name string, args map[string]string) ([]PromptMessage, error) {
	r.mu.RLock()
	entry, ok := r.prompts[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPrompt, name)
	}
	for _, a := range entry.info.Arguments {
		if a.Required {
			if _, present := args[a.Name]; !present {
				return nil, fmt.Errorf("beam: prompt %q missing required argument %q", name, a.Name)
			}
		}
	}
	return entry.handler(ctx, args)
}

// List returns descriptors for all prompts in registration order.
func (r *PromptRegistry) List() []PromptInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]PromptInfo, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.prompts[name].info)
	}
	return out
}
