package attrpool

import (
	"fmt"
	"sync"
)

// Description is the input form of an object schema. Zero values select
// the defaults: one vertex per object, multiplicity 1, no indices.
type Description struct {
	Name              string                 `toml:"name,omitempty" yaml:"name,omitempty"`
	VerticesPerObject int                    `toml:"vertices_per_object,omitempty" yaml:"vertices_per_object,omitempty"`
	Indices           []int                  `toml:"indices,omitempty" yaml:"indices,omitempty"`
	Multiplicity      int                    `toml:"multiplicity,omitempty" yaml:"multiplicity,omitempty"`
	Attributes        []AttributeDescription `toml:"attributes" yaml:"attributes"`

	// Initializer runs exactly once for every object made by Pool.Create.
	Initializer func(Handle) `toml:"-" yaml:"-"`
}

// Schema describes the shape of every object in a pool. A Schema is
// immutable; the accessor table and layouts derived from it are built
// once and shared by every pool using the same Schema value.
type Schema struct {
	name         string
	attrs        []*Attribute
	byName       map[string]*Attribute
	indices      []uint32
	vertices     int
	multiplicity int
	initializer  func(Handle)

	accessorsOnce sync.Once
	accessors     *Accessors

	layoutsMu sync.Mutex
	plan      []BufferLayout
	layouts   map[int]*Layout
}

// NewSchema validates d and builds a Schema. Attribute names and accessor
// names must be unique, and index template values must address a vertex
// of one object.
//
// Parameters:
//   - d: The description to validate. Zero fields take their defaults.
//
// Returns:
//   - The immutable Schema, ready to build pools from.
//   - An error wrapping ErrSchemaViolation when d is inconsistent.
func NewSchema(d Description) (*Schema, error) {
	s := &Schema{
		name:         d.Name,
		vertices:     d.VerticesPerObject,
		multiplicity: d.Multiplicity,
		initializer:  d.Initializer,
		byName:       make(map[string]*Attribute, len(d.Attributes)),
		attrs:        make([]*Attribute, 0, len(d.Attributes)),
	}
	if s.vertices == 0 {
		s.vertices = 1
	}
	if s.multiplicity == 0 {
		s.multiplicity = 1
	}
	if s.vertices < 1 {
		return nil, fmt.Errorf("%w: vertices per object must be at least 1, got %d", ErrSchemaViolation, d.VerticesPerObject)
	}
	if s.multiplicity < 1 {
		return nil, fmt.Errorf("%w: multiplicity must be at least 1, got %d", ErrSchemaViolation, d.Multiplicity)
	}
	if len(d.Indices) > 0 {
		s.indices = make([]uint32, len(d.Indices))
		for i, v := range d.Indices {
			if v < 0 || v >= s.vertices {
				return nil, fmt.Errorf("%w: index template value %d at %d outside [0, %d)",
					ErrSchemaViolation, v, i, s.vertices)
			}
			s.indices[i] = uint32(v)
		}
	}
	keyTypes := make(map[string]*Attribute)
	methods := make(map[string]string, 2*len(d.Attributes))
	for i, ad := range d.Attributes {
		a, err := newAttribute(ad, i)
		if err != nil {
			return nil, err
		}
		if _, dup := s.byName[a.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate attribute %q", ErrSchemaViolation, a.Name)
		}
		for _, m := range [2]string{a.Getter, a.Setter} {
			if m == "" {
				continue
			}
			if owner, dup := methods[m]; dup {
				return nil, fmt.Errorf("%w: accessor %s of %q already belongs to %q",
					ErrSchemaViolation, m, a.Name, owner)
			}
			methods[m] = a.Name
		}
		if first, ok := keyTypes[a.Key]; ok {
			if first.Type != a.Type || first.Normalized != a.Normalized {
				return nil, fmt.Errorf("%w: attributes %q and %q share buffer %q with different element types",
					ErrSchemaViolation, first.Name, a.Name, a.Key)
			}
		} else {
			keyTypes[a.Key] = a
		}
		s.byName[a.Name] = a
		s.attrs = append(s.attrs, a)
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error. It is meant for
// package-level schema variables.
func MustSchema(d Description) *Schema {
	s, err := NewSchema(d)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the optional schema name.
func (s *Schema) Name() string { return s.name }

// Attributes returns the attributes in description order. The slice must
// not be modified.
func (s *Schema) Attributes() []*Attribute { return s.attrs }

// Attribute looks up an attribute by name.
func (s *Schema) Attribute(name string) (*Attribute, bool) {
	a, ok := s.byName[name]
	return a, ok
}

// HasIndices reports whether the schema carries an index template.
func (s *Schema) HasIndices() bool { return len(s.indices) > 0 }

// Indices returns a copy of the index template.
func (s *Schema) Indices() []uint32 { return append([]uint32(nil), s.indices...) }

// VertexCount returns the number of vertex rows one object occupies.
func (s *Schema) VertexCount() int { return s.vertices }

// Multiplicity returns how many physical instances one slot represents.
func (s *Schema) Multiplicity() int { return s.multiplicity }
