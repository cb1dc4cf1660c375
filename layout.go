package attrpool

import (
	"github.com/gogpu/gputypes"
)

// AttributeLayout locates one attribute inside its buffer.
type AttributeLayout struct {
	Attribute *Attribute
	// Buffer is the index of the owning buffer in Layout.Buffers.
	Buffer int
	// Offset is the element offset of the attribute within one vertex.
	Offset int
	// ByteOffset is Offset in bytes.
	ByteOffset int
	// Stride is the byte stride of one vertex in the owning buffer.
	Stride int
}

// BufferLayout describes one backing buffer: its element type and the
// attributes interleaved in it.
type BufferLayout struct {
	Key        string
	Type       ElementType
	Usage      Usage
	Normalized bool
	// Attributes lists the schema indices of the attributes stored in the
	// buffer, in placement order.
	Attributes []int
	// VertexStride is the number of elements in one vertex row.
	VertexStride int
	// ByteStride is VertexStride in bytes.
	ByteStride int
	attributes []*Attribute
}

// Interleaved reports whether the buffer holds more than one attribute.
func (b *BufferLayout) Interleaved() bool { return len(b.Attributes) > 1 }

// Layout is a planned buffer layout for a schema at a fixed capacity.
// Layouts are read-only and shared by every pool built from them.
type Layout struct {
	schema   *Schema
	buffers  []BufferLayout
	attrs    []AttributeLayout
	capacity int
}

// plan groups attributes by buffer key in one pass over schema order.
// The first attribute seen with a key opens that buffer; later attributes
// with the same key are appended at the running offset.
func plan(s *Schema) []BufferLayout {
	var buffers []BufferLayout
	index := make(map[string]int, len(s.attrs))
	for _, a := range s.attrs {
		bi, ok := index[a.Key]
		if !ok {
			bi = len(buffers)
			index[a.Key] = bi
			buffers = append(buffers, BufferLayout{
				Key:        a.Key,
				Type:       a.Type,
				Usage:      a.Usage,
				Normalized: a.Normalized,
			})
		}
		b := &buffers[bi]
		b.Attributes = append(b.Attributes, a.index)
		b.attributes = append(b.attributes, a)
		b.VertexStride += a.Size
		b.ByteStride += a.ByteSize()
	}
	return buffers
}

// Layout returns the layout of s for a pool of the given physical capacity.
// The number of slots is capacity divided by the schema multiplicity.
// Layouts are cached per capacity, so repeated calls return the same value.
func (s *Schema) Layout(capacity int) *Layout {
	if capacity < 0 {
		panic("attrpool: negative capacity")
	}
	s.layoutsMu.Lock()
	defer s.layoutsMu.Unlock()
	if l, ok := s.layouts[capacity]; ok {
		return l
	}
	if s.plan == nil {
		s.plan = plan(s)
		Logger().Debug("attrpool: planned layout",
			"schema", s.name, "attributes", len(s.attrs), "buffers", len(s.plan))
	}
	l := &Layout{
		schema:   s,
		buffers:  s.plan,
		attrs:    make([]AttributeLayout, len(s.attrs)),
		capacity: capacity / s.multiplicity,
	}
	for bi := range l.buffers {
		b := &l.buffers[bi]
		offset := 0
		for _, ai := range b.Attributes {
			a := s.attrs[ai]
			l.attrs[ai] = AttributeLayout{
				Attribute:  a,
				Buffer:     bi,
				Offset:     offset,
				ByteOffset: offset * b.Type.Size(),
				Stride:     b.ByteStride,
			}
			offset += a.Size
		}
	}
	if s.layouts == nil {
		s.layouts = make(map[int]*Layout)
	}
	s.layouts[capacity] = l
	return l
}

// Schema returns the schema the layout was planned from.
func (l *Layout) Schema() *Schema { return l.schema }

// Capacity returns the number of object slots.
func (l *Layout) Capacity() int { return l.capacity }

// Buffers returns the planned buffers in creation order. The slice must not
// be modified.
func (l *Layout) Buffers() []BufferLayout { return l.buffers }

// Attribute returns the placement of the named attribute.
func (l *Layout) Attribute(name string) (AttributeLayout, bool) {
	a, ok := l.schema.byName[name]
	if !ok {
		return AttributeLayout{}, false
	}
	return l.attrs[a.index], true
}

// attribute returns the placement by schema index.
func (l *Layout) attribute(i int) *AttributeLayout { return &l.attrs[i] }

// VertexBufferLayouts describes every buffer for pipeline creation. Shader
// locations are assigned in schema order starting at firstLocation.
func (l *Layout) VertexBufferLayouts(firstLocation uint32, step gputypes.VertexStepMode) []gputypes.VertexBufferLayout {
	out := make([]gputypes.VertexBufferLayout, len(l.buffers))
	for bi := range l.buffers {
		b := &l.buffers[bi]
		vb := gputypes.VertexBufferLayout{
			ArrayStride: uint64(b.ByteStride),
			StepMode:    step,
			Attributes:  make([]gputypes.VertexAttribute, 0, len(b.Attributes)),
		}
		for _, ai := range b.Attributes {
			al := &l.attrs[ai]
			a := al.Attribute
			vb.Attributes = append(vb.Attributes, gputypes.VertexAttribute{
				Format:         a.Type.VertexFormat(a.Size, a.Normalized),
				Offset:         uint64(al.ByteOffset),
				ShaderLocation: firstLocation + uint32(ai),
			})
		}
		out[bi] = vb
	}
	return out
}
