// Package keymap maps key strings to command ids.
package keymap

import (
	"sort"
	"sync"
)

// Binding maps a key to a command in a help context.
type Binding struct {
	Key     string
	Command string
	Context string
}

// Registry holds default bindings and user overrides.
type Registry struct {
	mu        sync.RWMutex
	bindings  []Binding
	byKey     map[string]string
	overrides map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byKey:     make(map[string]string),
		overrides: make(map[string]string),
	}
}

// RegisterBinding adds a binding. A later binding for the same key wins.
func (r *Registry) RegisterBinding(b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings = append(r.bindings, b)
	r.byKey[b.Key] = b.Command
}

// SetUserOverride binds key to cmdID ahead of the defaults.
func (r *Registry) SetUserOverride(key, cmdID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[key] = cmdID
}

// Lookup returns the command bound to key.
func (r *Registry) Lookup(key string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cmd, ok := r.overrides[key]; ok {
		return cmd, cmd != ""
	}
	cmd, ok := r.byKey[key]
	return cmd, ok
}

// KeysForCommand returns every key that currently triggers cmdID, sorted.
func (r *Registry) KeysForCommand(cmdID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var keys []string
	for _, b := range r.bindings {
		if b.Command != cmdID || seen[b.Key] {
			continue
		}
		if o, ok := r.overrides[b.Key]; ok && o != cmdID {
			continue
		}
		seen[b.Key] = true
		keys = append(keys, b.Key)
	}
	for k, c := range r.overrides {
		if c == cmdID && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// BindingsForContext returns the bindings registered for a help context,
// in registration order.
func (r *Registry) BindingsForContext(context string) []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Binding
	for _, b := range r.bindings {
		if b.Context == context {
			out = append(out, b)
		}
	}
	return out
}
