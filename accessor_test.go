package attrpool_test

import (
	"testing"

	"github.com/edwinsyarief/attrpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessorFidelity(t *testing.T) {
	pool := attrpool.NewPool(spriteSchema(t), 4)
	h, err := pool.Create()
	require.NoError(t, err)

	corners := []float64{0, 0, 1, 0, 1, 1, 0, 1}
	require.NoError(t, h.Set("position", corners...))
	got, err := h.Get("position")
	require.NoError(t, err)
	assert.Equal(t, corners, got)

	require.NoError(t, h.Set("color", 1, 0, 0.5, 1))
	color, err := h.Get("color")
	require.NoError(t, err)
	require.Len(t, color, 16)
	for v := range 4 {
		assert.InDeltaSlice(t, []float64{1, 0, 0.5, 1}, color[v*4:v*4+4], 1.0/255, "vertex %d", v)
	}

	err = h.Set("position", 1, 2, 3)
	assert.Error(t, err, "neither size nor size*vertices values")
}

func TestAccessorIntegerRounding(t *testing.T) {
	s, err := attrpool.NewSchema(attrpool.Description{
		Attributes: []attrpool.AttributeDescription{{Name: "layer", Size: 2, Type: "int16"}},
	})
	require.NoError(t, err)
	pool := attrpool.NewPool(s, 1)
	h, _ := pool.Create()
	require.NoError(t, h.Set("layer", 2.9999999, -1.2))
	v, err := h.Get("layer")
	require.NoError(t, err)
	assert.Equal(t, []float64{3, -1}, v)
}

func TestAccessorDirtiesOnlyItsSlot(t *testing.T) {
	pool := attrpool.NewPool(spriteSchema(t), 8)
	var hs []attrpool.Handle
	for range 6 {
		h, err := pool.Create()
		require.NoError(t, err)
		hs = append(hs, h)
	}
	pool.Flush()

	require.NoError(t, hs[4].Set("position", 3, 4))
	pos, _ := pool.Buffer("dynamic/float32")
	uv, _ := pool.Buffer("static/float32")
	assert.Equal(t, attrpool.Range{First: 4, Count: 1}, pos.Dirty())
	assert.Equal(t, uint64(1), pos.Version(), "one version bump per Set")
	assert.True(t, uv.Dirty().Empty())

	ups := pool.Flush()
	require.Len(t, ups, 1)
	assert.Equal(t, "dynamic/float32", ups[0].Key)
	assert.Equal(t, 4*32, ups[0].ByteOffset)
	assert.Len(t, ups[0].Changed, 32)
}

func TestAccessorComponents(t *testing.T) {
	pool := attrpool.NewPool(spriteSchema(t), 1)
	h, _ := pool.Create()
	acc, err := pool.Schema().Accessors().Lookup("position")
	require.NoError(t, err)
	assert.Equal(t, 8, acc.Len())
	assert.Equal(t, "position", acc.Attribute().Name)

	require.NoError(t, acc.SetComponent(h, "y", 3))
	y, err := acc.Component(h, "y")
	require.NoError(t, err)
	assert.Equal(t, 3.0, y)
	all, _ := acc.Get(h)
	assert.Equal(t, []float64{0, 3, 0, 3, 0, 3, 0, 3}, all)

	_, err = acc.Component(h, "w")
	assert.ErrorIs(t, err, attrpool.ErrUnknownAttribute)
}

func TestAccessorMethods(t *testing.T) {
	s := spriteSchema(t)
	table := s.Accessors()
	assert.Equal(t, []string{
		"GetColor", "GetPosition", "GetUv",
		"SetColor", "SetPosition", "SetUv",
	}, table.Methods())

	pool := attrpool.NewPool(s, 2)
	h, _ := pool.Create()
	set, ok := table.Setter("SetUv")
	require.True(t, ok)
	require.NoError(t, set(h, 0.25, 0.75))
	get, ok := table.Getter("GetUv")
	require.True(t, ok)
	uv, err := get(h)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.75, 0.25, 0.75, 0.25, 0.75, 0.25, 0.75}, uv)

	_, ok = table.Getter("GetNothing")
	assert.False(t, ok)
}

func TestAccessorSuppressed(t *testing.T) {
	s, err := attrpool.NewSchema(attrpool.Description{
		Attributes: []attrpool.AttributeDescription{
			{Name: "depth", Setter: attrpool.Rename("")},
			{Name: "hidden", Getter: attrpool.Suppress(), Setter: attrpool.Suppress()},
		},
	})
	require.NoError(t, err)
	pool := attrpool.NewPool(s, 1)
	h, _ := pool.Create()

	_, err = h.Get("depth")
	assert.NoError(t, err)
	assert.ErrorIs(t, h.Set("depth", 1), attrpool.ErrNoAccessor)

	_, err = h.Get("hidden")
	assert.ErrorIs(t, err, attrpool.ErrNoAccessor)
	_, err = h.Get("missing")
	assert.ErrorIs(t, err, attrpool.ErrUnknownAttribute)

	assert.Equal(t, []string{"GetDepth"}, s.Accessors().Methods())
}

func TestAccessorsSharedAcrossPools(t *testing.T) {
	s := spriteSchema(t)
	a := attrpool.NewPool(s, 2)
	b := attrpool.NewPool(s, 2)
	assert.Same(t, s.Accessors(), a.Schema().Accessors())
	assert.Same(t, a.Schema().Accessors(), b.Schema().Accessors())

	acc, err := s.Accessors().Lookup("uv")
	require.NoError(t, err)
	ha, _ := a.Create()
	hb, _ := b.Create()
	require.NoError(t, acc.Set(ha, 1, 2))
	require.NoError(t, acc.Set(hb, 3, 4))
	va, _ := acc.Get(ha)
	vb, _ := acc.Get(hb)
	assert.Equal(t, 1.0, va[0])
	assert.Equal(t, 3.0, vb[0])

	other := attrpool.NewPool(spriteSchema(t), 2)
	hc, _ := other.Create()
	assert.ErrorIs(t, acc.Set(hc, 1, 2), attrpool.ErrInvalidHandle, "schema identity decides")

	_, err = attrpool.Handle{}.Get("uv")
	assert.ErrorIs(t, err, attrpool.ErrInvalidHandle)
}
