// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// DefaultRegistry holds the builtins registered during package initialization.
var DefaultRegistry = NewRegistry()

// Registry maps action names to builtins. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	builtins map[string]Builtin
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		builtins: make(map[string]Builtin),
	}
}

// Register adds a builtin to the registry.
// Panics if a builtin with the same name is already registered.
func (r *Registry) Register(b Builtin) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := b.Name()
	if name == "" {
		panic("shell: cannot register builtin with empty name")
	}
	if _, exists := r.builtins[name]; exists {
		panic(fmt.Sprintf("shell: builtin %q already registered", name))
	}
	r.builtins[name] = b
}

// Lookup retrieves a builtin by name.
func (r *Registry) Lookup(name string) (Builtin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.builtins[name]
	return b, ok
}

// Names returns the names of all registered builtins in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.builtins))
	for name := range r.builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes a builtin by name. args[0] must be the name.
func (r *Registry) Run(ctx context.Context, name string, args []string) error {
	b, ok := r.Lookup(name)
	if !ok {
		return &UnknownCommandError{Action: name}
	}
	return b.Run(ctx, args)
}

// RegisterDefault registers a builtin in the DefaultRegistry.
func RegisterDefault(b Builtin) {
	DefaultRegistry.Register(b)
}
