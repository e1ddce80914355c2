package beam

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/beamkit/beam/internal/schema"
	"github.com/beamkit/beam/policy"
)

// Tool is the generic interface for exposed methods. The type parameter T is
// the input struct deserialized from the call's JSON arguments; its struct
// tags drive the generated parameter schema.
type Tool[T any] interface {
	Name() string
	Description() string
	Execute(ctx context.Context, input T) (*ToolResult, error)
}

// Content is one block of tool output.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ToolResult is the outcome of a tool execution.
type ToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// TextResult is a convenience constructor for a text-only result.
func TextResult(text string) *ToolResult {
	return &ToolResult{Content: []Content{{Type: "text", Text: text}}}
}

// ErrorResult is a convenience constructor for an error result.
func ErrorResult(text string) *ToolResult {
	return &ToolResult{Content: []Content{{Type: "text", Text: text}}, IsError: true}
}

// ToolInfo describes a registered tool for listings.
type ToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
	Deprecated  string          `json:"deprecated,omitempty"`
}

// RawFunc is a type-erased tool callable.
type RawFunc func(ctx context.Context, args json.RawMessage) (*ToolResult, error)

// toolEntry is the type-erased wrapper stored in the registry. execute is
// the pipeline-wrapped callable, built once at registration; the policy
// state registry is supplied per call so session scopes stay isolated.
type toolEntry struct {
	name        string
	description string
	inputSchema json.RawMessage
	spec        *policy.Spec
	execute     policy.Wrapped[*ToolResult]
}

// Registry resolves tool names to their callable and policy spec, and routes
// every call through the policy pipeline. It is concurrent-safe.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]*toolEntry
	order  []string // preserve registration order
	states *policy.Registry
}

// NewRegistry creates an empty tool registry with its own default policy
// state scope.
func NewRegistry() *Registry {
	return &Registry{
		tools:  make(map[string]*toolEntry),
		states: policy.NewRegistry(),
	}
}

// RegisterTool registers a generic tool. The input type T is used to
// auto-generate the parameter schema. Policy options apply in order; a
// directive parse failure or duplicate name is a registration error.
func RegisterTool[T any](r *Registry, tool Tool[T], opts ...ToolOption) error {
	return RegisterFunc(r, tool.Name(), tool.Description(), tool.Execute, opts...)
}

// RegisterFunc registers a plain function as a tool.
func RegisterFunc[T any](r *Registry, name, description string, fn func(ctx context.Context, input T) (*ToolResult, error), opts ...ToolOption) error {
	inputSchema, err := schema.GenerateJSON[T]()
	if err != nil {
		return fmt.Errorf("beam: schema for tool %q: %w", name, err)
	}
	return r.RegisterRaw(name, description, inputSchema,
		func(ctx context.Context, raw json.RawMessage) (*ToolResult, error) {
			var input T
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &input); err != nil {
					return ErrorResult(fmt.Sprintf("invalid input: %s", err.Error())), nil
				}
			}
			return fn(ctx, input)
		}, opts...)
}

// RegisterRaw registers a tool with a pre-built schema and callable. This is
// the path for dynamic tool sources that don't use the generic interface.
func (r *Registry) RegisterRaw(name, description string, inputSchema json.RawMessage, fn RawFunc, opts ...ToolOption) error {
	spec, err := resolveToolOptions(opts)
	if err != nil {
		return fmt.Errorf("beam: tool %q: %w", name, err)
	}

	entry := &toolEntry{
		name:        name,
		description: description,
		inputSchema: inputSchema,
		spec:        spec,
		execute:     policy.Wrap(name, spec, policy.Func[*ToolResult](fn)),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	r.order = append(r.order, name)
	r.tools[name] = entry
	return nil
}

// Execute runs a tool by name through its policy pipeline, using the
// registry's default state scope.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (*ToolResult, error) {
	return r.ExecuteScoped(ctx, r.states, name, args)
}

// ExecuteScoped runs a tool with an explicit policy state scope. Callers
// serving multiple client sessions pass each session's own scope so cache,
// rate and queue state never leak between sessions.
func (r *Registry) ExecuteScoped(ctx context.Context, states *policy.Registry, name string, args json.RawMessage) (*ToolResult, error) {
	r.mu.RLock()
	entry, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return entry.execute(ctx, states, args)
}

// List returns descriptors for all registered tools in registration order.
func (r *Registry) List() []ToolInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ToolInfo, 0, len(r.order))
	for _, name := range r.order {
		entry := r.tools[name]
		out = append(out, ToolInfo{
			Name:        entry.name,
			Description: entry.description,
			InputSchema: entry.inputSchema,
			Deprecated:  entry.spec.Deprecated,
		})
	}
	return out
}

// Spec returns the policy spec attached to a tool, or nil if the tool is
// unknown. The returned spec is a copy; registered specs never mutate.
func (r *Registry) Spec(name string) *policy.Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.tools[name]
	if !ok {
		return nil
	}
	return entry.spec.Clone()
}

// Len reports the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
