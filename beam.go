package beam

// Service aggregates everything one server exposes: tools, resources and
// prompts. It is the unit handed to a protocol server.
type Service struct {
	name      string
	version   string
	tools     *Registry
	resources *ResourceRegistry
	prompts   *PromptRegistry
}

// New creates an empty service with the given identity.
func New(name, version string) *Service {
	return &Service{
		name:      name,
		version:   version,
		tools:     NewRegistry(),
		resources: NewResourceRegistry(),
		prompts:   NewPromptRegistry(),
	}
}

// Name returns the service name advertised during initialization.
func (s *Service) Name() string { return s.name }

// Version returns the service version advertised during initialization.
func (s *Service) Version() string { return s.version }

// Tools returns the tool registry.
func (s *Service) Tools() *Registry { return s.tools }

// Resources returns the resource registry.
func (s *Service) Resources() *ResourceRegistry { return s.resources }

// Prompts returns the prompt registry.
func (s *Service) Prompts() *PromptRegistry { return s.prompts }
