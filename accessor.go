package attrpool

import (
	"fmt"
	"sort"
)

// Accessor reads and writes one attribute of any object whose pool was
// built from the accessor's schema. Values are per vertex, vertex-major:
// an attribute of size n on a schema with v vertices per object has n*v
// values.
type Accessor struct {
	schema *Schema
	attr   *Attribute
}

// Accessors is the accessor table of a schema. It is built once per Schema
// value and shared by every pool of that schema.
type Accessors struct {
	byAttr   []*Accessor
	byName   map[string]*Accessor
	getters  map[string]*Accessor
	setters  map[string]*Accessor
	disabled map[string]bool
}

// Accessors returns the accessor table of s, building it on first use.
// Schema identity is the cache key: two schemas built from equal
// descriptions get two tables.
func (s *Schema) Accessors() *Accessors {
	s.accessorsOnce.Do(func() {
		t := &Accessors{
			byAttr:   make([]*Accessor, len(s.attrs)),
			byName:   make(map[string]*Accessor, len(s.attrs)),
			getters:  make(map[string]*Accessor, len(s.attrs)),
			setters:  make(map[string]*Accessor, len(s.attrs)),
			disabled: make(map[string]bool),
		}
		for i, a := range s.attrs {
			if a.Getter == "" && a.Setter == "" {
				t.disabled[a.Name] = true
				continue
			}
			acc := &Accessor{schema: s, attr: a}
			t.byAttr[i] = acc
			t.byName[a.Name] = acc
			if a.Getter != "" {
				t.getters[a.Getter] = acc
			}
			if a.Setter != "" {
				t.setters[a.Setter] = acc
			}
		}
		s.accessors = t
	})
	return s.accessors
}

// Lookup returns the accessor of the named attribute. It fails with
// ErrNoAccessor when both accessors were suppressed and with
// ErrUnknownAttribute when the name is not part of the schema.
func (t *Accessors) Lookup(name string) (*Accessor, error) {
	if a, ok := t.byName[name]; ok {
		return a, nil
	}
	if t.disabled[name] {
		return nil, fmt.Errorf("%w: %q", ErrNoAccessor, name)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
}

// Getter returns the read function registered under a getter name such as
// "GetPosition".
func (t *Accessors) Getter(method string) (func(Handle) ([]float64, error), bool) {
	a, ok := t.getters[method]
	if !ok {
		return nil, false
	}
	return a.Get, true
}

// Setter returns the write function registered under a setter name such as
// "SetPosition".
func (t *Accessors) Setter(method string) (func(Handle, ...float64) error, bool) {
	a, ok := t.setters[method]
	if !ok {
		return nil, false
	}
	return a.Set, true
}

// Methods returns every generated getter and setter name, sorted.
func (t *Accessors) Methods() []string {
	out := make([]string, 0, len(t.getters)+len(t.setters))
	for m := range t.getters {
		out = append(out, m)
	}
	for m := range t.setters {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Attribute returns the attribute served by the accessor.
func (a *Accessor) Attribute() *Attribute { return a.attr }

// Len returns the number of values per object.
func (a *Accessor) Len() int { return a.attr.Size * a.schema.vertices }

func (a *Accessor) resolve(h Handle) (*Buffer, *AttributeLayout, int, error) {
	if h.pool == nil || h.pool.schema != a.schema {
		return nil, nil, 0, fmt.Errorf("%w: handle is not from a pool of this schema", ErrInvalidHandle)
	}
	slot := h.Slot()
	if slot < 0 {
		return nil, nil, 0, fmt.Errorf("%w: object %d version %d is not live", ErrInvalidHandle, h.ID, h.Version)
	}
	al := h.pool.layout.attribute(a.attr.index)
	return h.pool.buffers[al.Buffer], al, slot, nil
}

// Get returns the current values of the attribute for h.
func (a *Accessor) Get(h Handle) ([]float64, error) {
	return a.AppendTo(make([]float64, 0, a.Len()), h)
}

// AppendTo appends the values of the attribute for h to dst.
func (a *Accessor) AppendTo(dst []float64, h Handle) ([]float64, error) {
	if a.attr.Getter == "" {
		return dst, fmt.Errorf("%w: getter of %q", ErrNoAccessor, a.attr.Name)
	}
	b, al, slot, err := a.resolve(h)
	if err != nil {
		return dst, err
	}
	vs := b.layout.VertexStride
	for v := range a.schema.vertices {
		dst = b.Read(slot, v*vs+al.Offset, a.attr.Size, dst)
	}
	return dst, nil
}

// Set writes the attribute for h and marks the slot dirty. It accepts
// either one value per component of every vertex, or one value per
// component which is then written to every vertex.
func (a *Accessor) Set(h Handle, values ...float64) error {
	if a.attr.Setter == "" {
		return fmt.Errorf("%w: setter of %q", ErrNoAccessor, a.attr.Name)
	}
	size := a.attr.Size
	if len(values) != size && len(values) != a.Len() {
		return fmt.Errorf("attrpool: %q takes %d or %d values, got %d",
			a.attr.Name, size, a.Len(), len(values))
	}
	b, al, slot, err := a.resolve(h)
	if err != nil {
		return err
	}
	vs := b.layout.VertexStride
	for v := range a.schema.vertices {
		src := values
		if len(values) != size {
			src = values[v*size : (v+1)*size]
		}
		b.put(slot, v*vs+al.Offset, src)
	}
	b.MarkRangeDirty(slot, 1)
	return nil
}

// Component returns one named component of the first vertex.
func (a *Accessor) Component(h Handle, component string) (float64, error) {
	c := a.attr.Component(component)
	if c < 0 {
		return 0, fmt.Errorf("%w: component %q of %q", ErrUnknownAttribute, component, a.attr.Name)
	}
	if a.attr.Getter == "" {
		return 0, fmt.Errorf("%w: getter of %q", ErrNoAccessor, a.attr.Name)
	}
	b, al, slot, err := a.resolve(h)
	if err != nil {
		return 0, err
	}
	var one [1]float64
	return b.Read(slot, al.Offset+c, 1, one[:0])[0], nil
}

// SetComponent writes one named component on every vertex of h.
func (a *Accessor) SetComponent(h Handle, component string, value float64) error {
	c := a.attr.Component(component)
	if c < 0 {
		return fmt.Errorf("%w: component %q of %q", ErrUnknownAttribute, component, a.attr.Name)
	}
	if a.attr.Setter == "" {
		return fmt.Errorf("%w: setter of %q", ErrNoAccessor, a.attr.Name)
	}
	b, al, slot, err := a.resolve(h)
	if err != nil {
		return err
	}
	one := []float64{value}
	vs := b.layout.VertexStride
	for v := range a.schema.vertices {
		b.put(slot, v*vs+al.Offset+c, one)
	}
	b.MarkRangeDirty(slot, 1)
	return nil
}
