package registry

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"personaos/core/audit"
	. "personaos/core/types"
)

// Registry manages the tools available to one processor
type Registry struct {
	tools  map[string]Tool
	mu     sync.RWMutex
	logger *zap.Logger
	audit  *audit.Logger

	// StatusHandler is an optional callback for execution phases
	// ("executing", "completed", "error").
	StatusHandler func(toolName string, phase string)
}

// Option configures a Registry
type Option func(*Registry)

// WithLogger sets the structured logger
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithAudit records every execution in the given audit log
func WithAudit(a *audit.Logger) Option {
	return func(r *Registry) {
		r.audit = a
	}
}

// New creates an empty registry
func New(opts ...Option) *Registry {
	r := &Registry{
		tools:  make(map[string]Tool),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a tool; a tool with the same name is replaced
func (r *Registry) Register(tool Tool) {
	name := tool.Metadata().Name

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tools[name] = tool
	r.logger.Debug("registered tool", zap.String("tool", name))
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	return tool, exists
}

// List returns all tool names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Tools returns all registered tools ordered by name
func (r *Registry) Tools() []Tool {
	names := r.List()

	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(names))
	for _, name := range names {
		if tool, ok := r.tools[name]; ok {
			tools = append(tools, tool)
		}
	}
	return tools
}

// ToolsByCategory returns tools grouped by category
func (r *Registry) ToolsByCategory() map[ToolCategory][]Tool {
	categorized := make(map[ToolCategory][]Tool)
	for _, tool := range r.Tools() {
		category := tool.Metadata().Category
		categorized[category] = append(categorized[category], tool)
	}
	return categorized
}
