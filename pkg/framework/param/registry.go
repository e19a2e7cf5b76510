package param

import (
	"fmt"
	"sync"
)

// Registry manages synth parameters.
//
// Parameters are registered once before processing starts. After that the
// audio thread reads them through Get and Snapshot without taking a lock;
// only the values change, and those are atomic.
type Registry struct {
	params [NumParams]*Parameter
	order  []ID // Maintain order for indexed access
	mu     sync.Mutex
}

// NewRegistry creates a new, empty parameter registry
func NewRegistry() *Registry {
	return &Registry{
		order: make([]ID, 0, NumParams),
	}
}

// Add registers parameters. Duplicate or out-of-range IDs are an error.
func (r *Registry) Add(params ...*Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range params {
		if p.ID >= NumParams {
			return fmt.Errorf("parameter %q: id %d out of range", p.Name, p.ID)
		}
		if r.params[p.ID] != nil {
			return fmt.Errorf("parameter %q: id %s already registered", p.Name, p.ID)
		}
		r.params[p.ID] = p
		r.order = append(r.order, p.ID)
	}

	return nil
}

// Get retrieves a parameter by ID, or nil
func (r *Registry) Get(id ID) *Parameter {
	if id >= NumParams {
		return nil
	}
	return r.params[id]
}

// GetByKey retrieves a parameter by its patch key, or nil
func (r *Registry) GetByKey(key string) *Parameter {
	id, ok := ParseKey(key)
	if !ok {
		return nil
	}
	return r.Get(id)
}

// GetByIndex retrieves a parameter by registration index
func (r *Registry) GetByIndex(index int32) *Parameter {
	if index < 0 || index >= int32(len(r.order)) {
		return nil
	}
	return r.params[r.order[index]]
}

// Count returns the number of parameters
func (r *Registry) Count() int32 {
	return int32(len(r.order))
}

// All returns all parameters in registration order
func (r *Registry) All() []*Parameter {
	result := make([]*Parameter, len(r.order))
	for i, id := range r.order {
		result[i] = r.params[id]
	}
	return result
}

// ResetAll restores every parameter to its default
func (r *Registry) ResetAll() {
	for _, id := range r.order {
		r.params[id].Reset()
	}
}
