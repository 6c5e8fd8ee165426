package tools

import (
	"fmt"
	"sort"
	"sync"

	"dayflow/internal/workspace"
)

// Registry holds all registered tool descriptors and provides lookup.
// Registration happens once at startup; reads are concurrent.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Descriptor

	// byModule provides fast lookup by domain module.
	byModule map[workspace.Module][]*Descriptor
}

// NewRegistry creates a new empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:    make(map[string]*Descriptor),
		byModule: make(map[workspace.Module][]*Descriptor),
	}
}

// Register adds a descriptor to the registry.
// Returns ErrDuplicateName if the name is already taken.
func (r *Registry) Register(d *Descriptor) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("invalid tool: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[d.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateName, d.Name)
	}

	r.tools[d.Name] = d
	r.byModule[d.Module] = append(r.byModule[d.Module], d)
	return nil
}

// MustRegister registers a descriptor and panics on error.
// Use for static registration at startup, where a failure is a programming
// invariant violation.
func (r *Registry) MustRegister(d *Descriptor) {
	if err := r.Register(d); err != nil {
		panic(fmt.Sprintf("failed to register tool %s: %v", d.Name, err))
	}
}

// Get returns a descriptor by name, or nil if not found.
func (r *Registry) Get(name string) *Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// Has returns true if a tool with the given name is registered.
func (r *Registry) Has(name string) bool {
	return r.Get(name) != nil
}

// ByModules returns the descriptors of the requested modules. An empty module
// set returns everything.
func (r *Registry) ByModules(modules []workspace.Module) []*Descriptor {
	if len(modules) == 0 {
		return r.All()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Descriptor
	for _, m := range modules {
		result = append(result, r.byModule[m]...)
	}
	sortDescriptors(result)
	return result
}

// All returns every registered descriptor, ordered by name.
func (r *Registry) All() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Descriptor, 0, len(r.tools))
	for _, d := range r.tools {
		result = append(result, d)
	}
	sortDescriptors(result)
	return result
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// IsMutating reports the mutating flag of a tool. Unknown names report false:
// the read path fails open, while the dispatch path fails closed.
func (r *Registry) IsMutating(name string) bool {
	d := r.Get(name)
	return d != nil && d.Mutating
}

func sortDescriptors(ds []*Descriptor) {
	sort.Slice(ds, func(i, j int) bool { return ds[i].Name < ds[j].Name })
}
