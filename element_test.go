package attrpool

import (
	"errors"
	"math"
	"testing"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
)

func roundTrip(t ElementType, v float64) float64 {
	var w uint64
	t.store(unsafe.Pointer(&w), v)
	return t.load(unsafe.Pointer(&w))
}

func TestParseElementType(t *testing.T) {
	tests := []struct {
		in   string
		want ElementType
	}{
		{"", Float32},
		{"float32", Float32},
		{"F32", Float32},
		{"half", Float16},
		{"uint8", Uint8},
		{"u16", Uint16},
		{"int", Int32},
		{"float64", Float64},
	}
	for _, tt := range tests {
		got, err := ParseElementType(tt.in)
		if err != nil {
			t.Errorf("ParseElementType(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseElementType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseElementType("vec3"); !errors.Is(err, ErrSchemaViolation) {
		t.Errorf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestElementSizes(t *testing.T) {
	for ty := Int8; ty <= Float64; ty++ {
		if !ty.Valid() {
			t.Errorf("%v should be valid", ty)
		}
		if ty.Size() == 0 {
			t.Errorf("%v has no size", ty)
		}
		parsed, err := ParseElementType(ty.String())
		if err != nil || parsed != ty {
			t.Errorf("String/Parse mismatch for %v", ty)
		}
	}
	if ElementInvalid.Valid() {
		t.Error("invalid type reported valid")
	}
}

func TestStoreSaturates(t *testing.T) {
	assert.Equal(t, 255.0, roundTrip(Uint8, 300))
	assert.Equal(t, 0.0, roundTrip(Uint8, -5))
	assert.Equal(t, -128.0, roundTrip(Int8, -200))
	assert.Equal(t, 32767.0, roundTrip(Int16, 1e9))
	assert.Equal(t, 0.0, roundTrip(Int32, math.NaN()))
	assert.Equal(t, float64(math.MaxUint64), roundTrip(Uint64, 1e30))
	assert.Equal(t, float64(math.MinInt64), roundTrip(Int64, -1e30))
	assert.Equal(t, 7.0, roundTrip(Int32, 7.4))
	assert.Equal(t, 3.0, roundTrip(Int16, 2.9999999), "integers round to nearest")
	assert.Equal(t, -3.0, roundTrip(Int8, -2.5), "halves round away from zero")
	assert.Equal(t, 255.0, roundTrip(Uint8, 254.6))
}

func TestFloatRoundTrip(t *testing.T) {
	assert.Equal(t, 1.5, roundTrip(Float16, 1.5))
	assert.Equal(t, -0.25, roundTrip(Float16, -0.25))
	assert.Equal(t, 1.25, roundTrip(Float32, 1.25))
	assert.Equal(t, 0.1, roundTrip(Float64, 0.1))
	assert.InDelta(t, 0.1, roundTrip(Float32, 0.1), 1e-7)
	assert.True(t, math.IsInf(roundTrip(Float16, 1e6), 1), "float16 overflows to +Inf")
}

func TestNormalization(t *testing.T) {
	assert.Equal(t, 128.0, Uint8.denormalize(0.5))
	assert.InDelta(t, 0.5, Uint8.normalize(128), 1.0/255)
	assert.Equal(t, 255.0, Uint8.denormalize(2), "clamped to 1")
	assert.Equal(t, 0.0, Uint8.denormalize(-1), "unsigned clamps to 0")
	assert.Equal(t, -127.0, Int8.denormalize(-1))
	assert.Equal(t, -1.0, Int8.normalize(-128))
	assert.Equal(t, 1.0, Uint16.normalize(65535))
	assert.Equal(t, 0.75, Float32.denormalize(0.75), "floats pass through")
}

func TestVertexFormat(t *testing.T) {
	tests := []struct {
		t    ElementType
		n    int
		norm bool
		want gputypes.VertexFormat
	}{
		{Float32, 1, false, gputypes.VertexFormatFloat32},
		{Float32, 3, false, gputypes.VertexFormatFloat32x3},
		{Uint8, 4, true, gputypes.VertexFormatUnorm8x4},
		{Uint8, 4, false, gputypes.VertexFormatUint8x4},
		{Int16, 2, true, gputypes.VertexFormatSnorm16x2},
		{Float16, 2, false, gputypes.VertexFormatFloat16x2},
		{Uint32, 2, false, gputypes.VertexFormatUint32x2},
		{Uint8, 3, true, gputypes.VertexFormatUndefined},
		{Float64, 1, false, gputypes.VertexFormatUndefined},
	}
	for _, tt := range tests {
		if got := tt.t.VertexFormat(tt.n, tt.norm); got != tt.want {
			t.Errorf("%v x%d norm=%v: got %v, want %v", tt.t, tt.n, tt.norm, got, tt.want)
		}
	}
}
