package checks

import "fmt"

// DefaultCheckRegistry is a simple, ordered, in-memory registry.
// Checks are evaluated in registration order.
// Register panics on duplicate check IDs to catch wiring mistakes at startup.
type DefaultCheckRegistry struct {
	checks []Check
	index  map[string]int
}

// NewDefaultCheckRegistry returns a registry holding checks, registered in
// slice order.
func NewDefaultCheckRegistry(checks ...Check) *DefaultCheckRegistry {
	r := &DefaultCheckRegistry{
		index: make(map[string]int),
	}
	for _, c := range checks {
		r.Register(c)
	}
	return r
}

// Register adds check to the registry. Panics if the same ID is registered twice.
func (r *DefaultCheckRegistry) Register(check Check) {
	if _, exists := r.index[check.ID()]; exists {
		panic(fmt.Sprintf("duplicate check ID: %q", check.ID()))
	}
	r.index[check.ID()] = len(r.checks)
	r.checks = append(r.checks, check)
}

// All returns a copy of the registered checks in registration order.
func (r *DefaultCheckRegistry) All() []Check {
	out := make([]Check, len(r.checks))
	copy(out, r.checks)
	return out
}

// IDs returns the registered check IDs in registration order.
func (r *DefaultCheckRegistry) IDs() []string {
	ids := make([]string, len(r.checks))
	for i, c := range r.checks {
		ids[i] = c.ID()
	}
	return ids
}

// Get returns the check registered under id.
func (r *DefaultCheckRegistry) Get(id string) (Check, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.checks[i], true
}
