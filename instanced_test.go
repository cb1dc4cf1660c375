package attrpool_test

import (
	"testing"

	"github.com/edwinsyarief/attrpool"
	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandIndices(t *testing.T) {
	got := attrpool.ExpandIndices([]uint32{0, 2, 1, 0, 3, 2}, 4, 2)
	assert.Equal(t, []uint32{0, 2, 1, 0, 3, 2, 4, 6, 5, 4, 7, 6}, got)
	assert.Empty(t, attrpool.ExpandIndices([]uint32{0, 1, 2}, 3, 0))
}

func quadSchemas(t *testing.T, multiplicity int) (*attrpool.Schema, *attrpool.Schema) {
	t.Helper()
	base, err := attrpool.NewSchema(attrpool.Description{
		Name:              "quad",
		VerticesPerObject: 4,
		Indices:           []int{0, 2, 1, 0, 3, 2},
		Attributes: []attrpool.AttributeDescription{
			{Name: "corner", Components: []string{"x", "y"}},
		},
	})
	require.NoError(t, err)
	inst, err := attrpool.NewSchema(attrpool.Description{
		Name:         "particle",
		Multiplicity: multiplicity,
		Attributes: []attrpool.AttributeDescription{
			{Name: "center", Components: []string{"x", "y"}, Usage: "stream"},
			{Name: "tint", Size: 4, Type: "uint8", Normalized: true, Usage: "stream"},
		},
	})
	require.NoError(t, err)
	return base, inst
}

func TestInstanced(t *testing.T) {
	base, inst := quadSchemas(t, 2)
	in, err := attrpool.NewInstanced(base, 1, inst, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, in.Instances.Capacity())
	assert.Equal(t, gputypes.IndexFormatUint32, in.IndexFormat())
	assert.Equal(t, []uint32{0, 2, 1, 0, 3, 2}, in.IndexBuffer())
	assert.Equal(t, 2, in.Multiplicity())

	quad, err := in.Base.Create()
	require.NoError(t, err)
	require.NoError(t, quad.Set("corner", -1, -1, 1, -1, 1, 1, -1, 1))
	assert.Equal(t, 6, in.IndexCount())
	assert.Equal(t, 4, in.VertexCount())

	for range 3 {
		_, err := in.Instances.Create()
		require.NoError(t, err)
	}
	assert.Equal(t, 6, in.InstanceCount())
	assert.Equal(t, 3, in.InstanceRows())

	vbs := in.VertexBufferLayouts()
	require.Len(t, vbs, 3)
	assert.Equal(t, gputypes.VertexStepModeVertex, vbs[0].StepMode)
	assert.Equal(t, uint32(0), vbs[0].Attributes[0].ShaderLocation)
	assert.Equal(t, gputypes.VertexStepModeInstance, vbs[1].StepMode)
	assert.Equal(t, uint32(1), vbs[1].Attributes[0].ShaderLocation)
	assert.Equal(t, gputypes.VertexFormatUnorm8x4, vbs[2].Attributes[0].Format)
	assert.Equal(t, uint32(2), vbs[2].Attributes[0].ShaderLocation)
}

func TestInstancedRejectsBadSchemas(t *testing.T) {
	base, inst := quadSchemas(t, 1)
	_, err := attrpool.NewInstanced(inst, 1, base, 4)
	assert.ErrorIs(t, err, attrpool.ErrSchemaViolation, "instances need one vertex per object")

	_, multi := quadSchemas(t, 3)
	_, err = attrpool.NewInstanced(multi, 1, inst, 4)
	assert.ErrorIs(t, err, attrpool.ErrSchemaViolation, "base needs multiplicity 1")
}
