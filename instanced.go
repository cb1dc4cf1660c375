package attrpool

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Instanced pairs a base pool holding a shared vertex template with an
// instance pool holding one row per logical instance. Drawing issues
// Instances.Len() * Multiplicity() instances of the base shape, each
// group of Multiplicity() instances reading the same instance row.
type Instanced struct {
	Base      *Pool
	Instances *Pool
	indices   []uint32
}

// NewInstanced builds both pools.
//
// Parameters:
//   - base: The template shape. Its multiplicity must be 1.
//   - baseCapacity: Slots of the base pool, usually 1.
//   - instances: The per-instance schema, one vertex per object.
//   - instanceCapacity: Physical instances; the instance pool gets
//     instanceCapacity / multiplicity slots.
//
// Returns:
//   - The paired pools with the base index buffer expanded.
//   - An error wrapping ErrSchemaViolation when either schema does not fit
//     its role.
func NewInstanced(base *Schema, baseCapacity int, instances *Schema, instanceCapacity int) (*Instanced, error) {
	if base.multiplicity != 1 {
		return nil, fmt.Errorf("%w: base schema multiplicity must be 1, got %d", ErrSchemaViolation, base.multiplicity)
	}
	if instances.vertices != 1 {
		return nil, fmt.Errorf("%w: instance schema must have one vertex per object, got %d",
			ErrSchemaViolation, instances.vertices)
	}
	in := &Instanced{
		Base:      NewPool(base, baseCapacity),
		Instances: NewPool(instances, instanceCapacity),
	}
	in.indices = in.Base.IndexBuffer()
	return in, nil
}

// IndexBuffer returns the base template expanded for every base slot.
func (in *Instanced) IndexBuffer() []uint32 { return in.indices }

// IndexFormat returns the format of IndexBuffer.
func (in *Instanced) IndexFormat() gputypes.IndexFormat { return gputypes.IndexFormatUint32 }

// IndexCount returns the number of indices to draw for the live base objects.
func (in *Instanced) IndexCount() int {
	return in.Base.Len() * len(in.Base.schema.indices)
}

// VertexCount returns the number of base vertices to draw when the base
// schema has no index template.
func (in *Instanced) VertexCount() int {
	return in.Base.Len() * in.Base.schema.vertices
}

// Multiplicity returns the number of primitives drawn per instance row.
// Renderers that support instance step rates use it as the divisor.
func (in *Instanced) Multiplicity() int { return in.Instances.schema.multiplicity }

// InstanceCount returns the number of instances to draw when the
// instance buffers advance once every Multiplicity() instances.
func (in *Instanced) InstanceCount() int {
	return in.Instances.Len() * in.Instances.schema.multiplicity
}

// InstanceRows returns the number of live instance rows, the instance count
// to draw with buffers that advance once per instance.
func (in *Instanced) InstanceRows() int { return in.Instances.Len() }

// VertexBufferLayouts describes the base buffers stepping per vertex
// followed by the instance buffers stepping per instance. Shader locations
// continue from the base attributes into the instance attributes.
//
// The instance buffers hold InstanceRows() rows, not InstanceCount(), and
// gputypes has no step-rate divisor. With
// Multiplicity() > 1 a renderer using these layouts as-is must draw
// InstanceRows() instances once per repeat, or derive the row as
// instance_index / Multiplicity() in the shader from a storage binding;
// drawing InstanceCount() instances directly reads past the live rows.
func (in *Instanced) VertexBufferLayouts() []gputypes.VertexBufferLayout {
	out := in.Base.layout.VertexBufferLayouts(0, gputypes.VertexStepModeVertex)
	next := uint32(len(in.Base.schema.attrs))
	return append(out, in.Instances.layout.VertexBufferLayouts(next, gputypes.VertexStepModeInstance)...)
}
