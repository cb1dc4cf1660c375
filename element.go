package attrpool

import (
	"fmt"
	"math"
	"strings"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/x448/float16"
)

// ElementType is the numeric type of every component stored in a buffer.
// All attributes sharing a buffer share one ElementType.
type ElementType uint8

const (
	// ElementInvalid is the zero value and never describes real data.
	ElementInvalid ElementType = iota
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float16
	Float32
	Float64
)

var elementNames = [...]string{
	ElementInvalid: "invalid",
	Int8:           "int8",
	Uint8:          "uint8",
	Int16:          "int16",
	Uint16:         "uint16",
	Int32:          "int32",
	Uint32:         "uint32",
	Int64:          "int64",
	Uint64:         "uint64",
	Float16:        "float16",
	Float32:        "float32",
	Float64:        "float64",
}

// String returns the lower-case type name used in descriptions and buffer keys.
func (t ElementType) String() string {
	if int(t) < len(elementNames) {
		return elementNames[t]
	}
	return fmt.Sprintf("element(%d)", uint8(t))
}

// ParseElementType resolves a type name such as "float32" or "uint8".
// The empty string resolves to Float32. Aliases used by typed-array APIs
// ("f32", "u8", ...) are accepted as well.
func ParseElementType(s string) (ElementType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "float32", "f32", "float":
		return Float32, nil
	case "float64", "f64", "double":
		return Float64, nil
	case "float16", "f16", "half":
		return Float16, nil
	case "int8", "i8", "byte":
		return Int8, nil
	case "uint8", "u8", "ubyte":
		return Uint8, nil
	case "int16", "i16", "short":
		return Int16, nil
	case "uint16", "u16", "ushort":
		return Uint16, nil
	case "int32", "i32", "int":
		return Int32, nil
	case "uint32", "u32", "uint":
		return Uint32, nil
	case "int64", "i64":
		return Int64, nil
	case "uint64", "u64":
		return Uint64, nil
	}
	return ElementInvalid, fmt.Errorf("%w: unknown element type %q", ErrSchemaViolation, s)
}

// Size returns the byte width of one component.
func (t ElementType) Size() int {
	switch t {
	case Int8, Uint8:
		return 1
	case Int16, Uint16, Float16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	}
	return 0
}

// Valid reports whether t names a real element type.
func (t ElementType) Valid() bool {
	return t > ElementInvalid && t <= Float64
}

// IsFloat reports whether t is a floating point type.
func (t ElementType) IsFloat() bool {
	return t == Float16 || t == Float32 || t == Float64
}

// IsSigned reports whether t is a signed integer type.
func (t ElementType) IsSigned() bool {
	return t == Int8 || t == Int16 || t == Int32 || t == Int64
}

// limits returns the representable integer range of t as float64.
func (t ElementType) limits() (lo, hi float64) {
	switch t {
	case Int8:
		return math.MinInt8, math.MaxInt8
	case Uint8:
		return 0, math.MaxUint8
	case Int16:
		return math.MinInt16, math.MaxInt16
	case Uint16:
		return 0, math.MaxUint16
	case Int32:
		return math.MinInt32, math.MaxInt32
	case Uint32:
		return 0, math.MaxUint32
	case Int64:
		return math.MinInt64, math.MaxInt64
	case Uint64:
		return 0, math.MaxUint64
	}
	return math.Inf(-1), math.Inf(1)
}

// normalize maps a stored integer to [0,1] or [-1,1].
func (t ElementType) normalize(v float64) float64 {
	if t.IsFloat() {
		return v
	}
	_, hi := t.limits()
	n := v / hi
	if n < -1 {
		n = -1
	}
	return n
}

// denormalize is the inverse of normalize with saturation.
func (t ElementType) denormalize(v float64) float64 {
	if t.IsFloat() {
		return v
	}
	lo := 0.0
	if t.IsSigned() {
		lo = -1
	}
	v = min(max(v, lo), 1)
	_, hi := t.limits()
	return math.Round(v * hi)
}

// saturate rounds v to the nearest integer and clamps it into the range
// of t. NaN stores as zero.
func (t ElementType) saturate(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	lo, hi := t.limits()
	return min(max(math.Round(v), lo), hi)
}

// load reads one component at p.
func (t ElementType) load(p unsafe.Pointer) float64 {
	switch t {
	case Int8:
		return float64(*(*int8)(p))
	case Uint8:
		return float64(*(*uint8)(p))
	case Int16:
		return float64(*(*int16)(p))
	case Uint16:
		return float64(*(*uint16)(p))
	case Int32:
		return float64(*(*int32)(p))
	case Uint32:
		return float64(*(*uint32)(p))
	case Int64:
		return float64(*(*int64)(p))
	case Uint64:
		return float64(*(*uint64)(p))
	case Float16:
		return float64(float16.Frombits(*(*uint16)(p)).Float32())
	case Float32:
		return float64(*(*float32)(p))
	case Float64:
		return *(*float64)(p)
	}
	panic("attrpool: load of invalid element type")
}

// store writes one component at p. Integers are rounded to nearest and
// saturated to their range.
func (t ElementType) store(p unsafe.Pointer, v float64) {
	switch t {
	case Int8:
		*(*int8)(p) = int8(t.saturate(v))
	case Uint8:
		*(*uint8)(p) = uint8(t.saturate(v))
	case Int16:
		*(*int16)(p) = int16(t.saturate(v))
	case Uint16:
		*(*uint16)(p) = uint16(t.saturate(v))
	case Int32:
		*(*int32)(p) = int32(t.saturate(v))
	case Uint32:
		*(*uint32)(p) = uint32(t.saturate(v))
	case Int64:
		// float64(MaxInt64) rounds up past the int64 range.
		if v >= math.MaxInt64 {
			*(*int64)(p) = math.MaxInt64
			return
		}
		*(*int64)(p) = int64(t.saturate(v))
	case Uint64:
		if v >= math.MaxUint64 {
			*(*uint64)(p) = math.MaxUint64
			return
		}
		*(*uint64)(p) = uint64(t.saturate(v))
	case Float16:
		*(*uint16)(p) = float16.Fromfloat32(float32(v)).Bits()
	case Float32:
		*(*float32)(p) = float32(v)
	case Float64:
		*(*float64)(p) = v
	default:
		panic("attrpool: store of invalid element type")
	}
}

// VertexFormat returns the gputypes vertex format for components of t,
// or VertexFormatUndefined when the combination has no GPU equivalent
// (for example three uint8 components or any 64-bit type).
func (t ElementType) VertexFormat(components int, normalized bool) gputypes.VertexFormat {
	switch t {
	case Float32:
		switch components {
		case 1:
			return gputypes.VertexFormatFloat32
		case 2:
			return gputypes.VertexFormatFloat32x2
		case 3:
			return gputypes.VertexFormatFloat32x3
		case 4:
			return gputypes.VertexFormatFloat32x4
		}
	case Uint32:
		switch components {
		case 1:
			return gputypes.VertexFormatUint32
		case 2:
			return gputypes.VertexFormatUint32x2
		case 3:
			return gputypes.VertexFormatUint32x3
		case 4:
			return gputypes.VertexFormatUint32x4
		}
	case Int32:
		switch components {
		case 1:
			return gputypes.VertexFormatSint32
		case 2:
			return gputypes.VertexFormatSint32x2
		case 3:
			return gputypes.VertexFormatSint32x3
		case 4:
			return gputypes.VertexFormatSint32x4
		}
	case Float16:
		switch components {
		case 2:
			return gputypes.VertexFormatFloat16x2
		case 4:
			return gputypes.VertexFormatFloat16x4
		}
	case Uint8:
		switch {
		case components == 2 && normalized:
			return gputypes.VertexFormatUnorm8x2
		case components == 4 && normalized:
			return gputypes.VertexFormatUnorm8x4
		case components == 2:
			return gputypes.VertexFormatUint8x2
		case components == 4:
			return gputypes.VertexFormatUint8x4
		}
	case Int8:
		switch {
		case components == 2 && normalized:
			return gputypes.VertexFormatSnorm8x2
		case components == 4 && normalized:
			return gputypes.VertexFormatSnorm8x4
		case components == 2:
			return gputypes.VertexFormatSint8x2
		case components == 4:
			return gputypes.VertexFormatSint8x4
		}
	case Uint16:
		switch {
		case components == 2 && normalized:
			return gputypes.VertexFormatUnorm16x2
		case components == 4 && normalized:
			return gputypes.VertexFormatUnorm16x4
		case components == 2:
			return gputypes.VertexFormatUint16x2
		case components == 4:
			return gputypes.VertexFormatUint16x4
		}
	case Int16:
		switch {
		case components == 2 && normalized:
			return gputypes.VertexFormatSnorm16x2
		case components == 4 && normalized:
			return gputypes.VertexFormatSnorm16x4
		case components == 2:
			return gputypes.VertexFormatSint16x2
		case components == 4:
			return gputypes.VertexFormatSint16x4
		}
	}
	return gputypes.VertexFormatUndefined
}
