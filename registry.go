package attrpool

import "fmt"

// Registry holds named schemas, typically loaded from one description
// document. IDs of removed schemas are reused.
type Registry struct {
	items   []*Schema
	names   map[string]int
	freeIds []int
}

// NewRegistry builds a schema for every description and registers it.
func NewRegistry(descs ...Description) (*Registry, error) {
	r := &Registry{}
	for _, d := range descs {
		s, err := NewSchema(d)
		if err != nil {
			if d.Name != "" {
				return nil, fmt.Errorf("schema %q: %w", d.Name, err)
			}
			return nil, err
		}
		if _, err := r.Add(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add registers s and returns its ID. Schemas must be named and names
// must be unique.
func (r *Registry) Add(s *Schema) (int, error) {
	if s == nil {
		return -1, fmt.Errorf("attrpool: cannot register nil schema")
	}
	if s.name == "" {
		return -1, fmt.Errorf("%w: registered schemas need a name", ErrSchemaViolation)
	}
	if r.names == nil {
		r.names = make(map[string]int)
	}
	if _, ok := r.names[s.name]; ok {
		return -1, fmt.Errorf("%w: schema %q already registered", ErrSchemaViolation, s.name)
	}
	var id int
	if len(r.freeIds) > 0 {
		id = r.freeIds[len(r.freeIds)-1]
		r.freeIds = r.freeIds[:len(r.freeIds)-1]
		r.items[id] = s
	} else {
		r.items = append(r.items, s)
		id = len(r.items) - 1
	}
	r.names[s.name] = id
	return id, nil
}

// Has checks if a schema with the given ID exists.
func (r *Registry) Has(id int) bool {
	return id >= 0 && id < len(r.items) && r.items[id] != nil
}

// Get retrieves the schema by ID, or nil if it doesn't exist.
func (r *Registry) Get(id int) *Schema {
	if !r.Has(id) {
		return nil
	}
	return r.items[id]
}

// Lookup retrieves a schema by name.
func (r *Registry) Lookup(name string) (*Schema, bool) {
	id, ok := r.names[name]
	if !ok {
		return nil, false
	}
	return r.items[id], true
}

// Names returns the registered names in ID order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.names))
	for _, s := range r.items {
		if s != nil {
			out = append(out, s.name)
		}
	}
	return out
}

// Len returns the number of registered schemas.
func (r *Registry) Len() int { return len(r.names) }

// Remove unregisters the schema by ID, marking the ID as free for reuse.
// Pools already built from the schema keep working.
func (r *Registry) Remove(id int) {
	if !r.Has(id) {
		return
	}
	delete(r.names, r.items[id].name)
	r.items[id] = nil
	r.freeIds = append(r.freeIds, id)
}

// Clear removes all schemas.
func (r *Registry) Clear() {
	for i := range r.items {
		r.items[i] = nil
	}
	r.items = r.items[:0]
	clear(r.names)
	r.freeIds = r.freeIds[:0]
}
