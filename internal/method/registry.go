package method

import (
	"fmt"
	"strings"
)

// Registry holds the lacing methods available to the application.
// It is built once at startup and read-only afterwards.
type Registry struct {
	methods []LacingMethod
	byID    map[string]LacingMethod
}

// NewRegistry registers methods in order. The first method is the default.
func NewRegistry(methods ...LacingMethod) (*Registry, error) {
	r := &Registry{byID: make(map[string]LacingMethod, len(methods))}
	for _, m := range methods {
		if err := r.register(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustRegistry is NewRegistry for statically known method lists.
func MustRegistry(methods ...LacingMethod) *Registry {
	r, err := NewRegistry(methods...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) register(m LacingMethod) error {
	d := m.Descriptor()
	if err := d.Validate(); err != nil {
		return err
	}
	if err := ValidateDefs(m.ParamSchema()); err != nil {
		return fmt.Errorf("%s: %w", d.ID, err)
	}
	id := strings.ToLower(d.ID)
	if _, exists := r.byID[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateMethod, d.ID)
	}
	r.byID[id] = m
	r.methods = append(r.methods, m)
	return nil
}

// Get returns a method by its id, case-insensitively.
func (r *Registry) Get(id string) (LacingMethod, error) {
	m, ok := r.byID[strings.ToLower(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, id)
	}
	return m, nil
}

// Resolve returns the method for id, or the default method when id is empty.
func (r *Registry) Resolve(id string) (LacingMethod, error) {
	if id == "" {
		if d := r.Default(); d != nil {
			return d, nil
		}
	}
	return r.Get(id)
}

// Default returns the first registered method, or nil for an empty registry.
func (r *Registry) Default() LacingMethod {
	if len(r.methods) == 0 {
		return nil
	}
	return r.methods[0]
}

// List returns the registered methods in registration order.
func (r *Registry) List() []LacingMethod {
	out := make([]LacingMethod, len(r.methods))
	copy(out, r.methods)
	return out
}
