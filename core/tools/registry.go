// Package tools holds the catalog of operations the assistant may request
// during a turn. The registry only resolves and lists tools; execution stays
// with the individual tool.
package tools

import (
	"fmt"
	"sync"

	"github.com/grandrevier/concierge-core/core/llms"
)

// Registry is an ordered tool catalog. Catalog order is registration order,
// so the tool list presented to the reasoning model is identical across
// calls.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]llms.Tool
}

func NewRegistry(catalog ...llms.Tool) (*Registry, error) {
	registry := &Registry{entries: map[string]llms.Tool{}}
	for _, tool := range catalog {
		if err := registry.Register(tool); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Register adds a tool to the catalog. Names are unique across the registry.
func (r *Registry) Register(tool llms.Tool) error {
	if tool.Name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[tool.Name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, tool.Name)
	}

	r.entries[tool.Name] = tool
	r.order = append(r.order, tool.Name)
	return nil
}

// Resolve looks up a tool by name.
func (r *Registry) Resolve(name string) (llms.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.entries[name]
	if !exists {
		return llms.Tool{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return tool, nil
}

// Catalog returns the registered tools in registration order.
func (r *Registry) Catalog() []llms.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	catalog := make([]llms.Tool, 0, len(r.order))
	for _, name := range r.order {
		catalog = append(catalog, r.entries[name])
	}
	return catalog
}
