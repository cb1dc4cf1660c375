package attrpool

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/x448/float16"
	"golang.org/x/exp/constraints"
)

// Range is a half-open interval of object slots [First, First+Count).
type Range struct {
	First int
	Count int
}

// Empty reports whether r covers no slots.
func (r Range) Empty() bool { return r.Count == 0 }

// End returns the first slot past r.
func (r Range) End() int { return r.First + r.Count }

// union returns the smallest range covering r and [first, first+count).
func (r Range) union(first, count int) Range {
	if count <= 0 {
		return r
	}
	if r.Empty() {
		return Range{First: first, Count: count}
	}
	lo := min(r.First, first)
	hi := max(r.End(), first+count)
	return Range{First: lo, Count: hi - lo}
}

// Buffer owns one contiguous array holding every object's data for the
// attributes of one BufferLayout. Buffers are allocated once and never
// resized.
type Buffer struct {
	layout    *BufferLayout
	data      []byte
	owner     *bitmask256 // dirty-buffer set of the owning pool
	dirty     Range
	version   uint64
	capacity  int
	vertices  int
	slotBytes int
	bit       uint8
}

func newBuffer(l *BufferLayout, capacity, vertices int, owner *bitmask256, bit uint8) *Buffer {
	b := &Buffer{
		layout:    l,
		owner:     owner,
		bit:       bit,
		capacity:  capacity,
		vertices:  vertices,
		slotBytes: l.ByteStride * vertices,
	}
	n := b.slotBytes * capacity
	if n > 0 {
		// Back the bytes with uint64 words so typed views of any element
		// type are aligned.
		words := make([]uint64, (n+7)/8)
		b.data = unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), n)
	}
	return b
}

// Key returns the buffer key shared by its attributes.
func (b *Buffer) Key() string { return b.layout.Key }

// Layout returns the planned layout of the buffer.
func (b *Buffer) Layout() *BufferLayout { return b.layout }

// Type returns the element type of the buffer.
func (b *Buffer) Type() ElementType { return b.layout.Type }

// Capacity returns the number of object slots.
func (b *Buffer) Capacity() int { return b.capacity }

// Stride returns the number of elements one object occupies.
func (b *Buffer) Stride() int { return b.layout.VertexStride * b.vertices }

// Version returns the content version, incremented on every write.
func (b *Buffer) Version() uint64 { return b.version }

// Dirty returns the slots written since the last Flush.
func (b *Buffer) Dirty() Range { return b.dirty }

// Bytes returns the raw contents. The slice aliases the buffer.
func (b *Buffer) Bytes() []byte { return b.data }

// Usage returns the GPU usage flags a consumer should create the buffer with.
func (b *Buffer) Usage() gputypes.BufferUsage {
	return gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst
}

// Write stores values at element offset within slot, extending the dirty
// range to cover slot. Values of normalized buffers are given in [0,1] or
// [-1,1]. Writing outside the buffer panics.
func (b *Buffer) Write(slot, offset int, values []float64) {
	b.put(slot, offset, values)
	b.MarkRangeDirty(slot, 1)
}

// put stores values without touching the dirty state.
func (b *Buffer) put(slot, offset int, values []float64) {
	b.checkBounds(slot, offset, len(values))
	t := b.layout.Type
	size := t.Size()
	p := unsafe.Add(unsafe.Pointer(unsafe.SliceData(b.data)), slot*b.slotBytes+offset*size)
	for _, v := range values {
		if b.layout.Normalized {
			v = t.denormalize(v)
		}
		t.store(p, v)
		p = unsafe.Add(p, size)
	}
}

// Read appends count elements starting at element offset within slot to dst.
// Normalized buffers yield values in [0,1] or [-1,1].
func (b *Buffer) Read(slot, offset, count int, dst []float64) []float64 {
	b.checkBounds(slot, offset, count)
	t := b.layout.Type
	size := t.Size()
	p := unsafe.Add(unsafe.Pointer(unsafe.SliceData(b.data)), slot*b.slotBytes+offset*size)
	for range count {
		v := t.load(p)
		if b.layout.Normalized {
			v = t.normalize(v)
		}
		dst = append(dst, v)
		p = unsafe.Add(p, size)
	}
	return dst
}

func (b *Buffer) checkBounds(slot, offset, count int) {
	if slot < 0 || slot >= b.capacity {
		panic(fmt.Sprintf("attrpool: slot %d out of range [0, %d) in buffer %q", slot, b.capacity, b.layout.Key))
	}
	if offset < 0 || count < 0 || offset+count > b.Stride() {
		panic(fmt.Sprintf("attrpool: elements [%d, %d) exceed stride %d in buffer %q",
			offset, offset+count, b.Stride(), b.layout.Key))
	}
}

// MarkRangeDirty records an external write to count slots starting at
// first. It is meant for bulk writers that fill Bytes directly.
func (b *Buffer) MarkRangeDirty(first, count int) {
	if count <= 0 {
		return
	}
	if first < 0 || first+count > b.capacity {
		panic(fmt.Sprintf("attrpool: dirty range [%d, %d) outside capacity %d", first, first+count, b.capacity))
	}
	b.dirty = b.dirty.union(first, count)
	b.version++
	if b.owner != nil {
		b.owner.set(b.bit)
	}
}

// Flush returns the dirty range and content version, then clears the
// dirty range.
func (b *Buffer) Flush() (Range, uint64) {
	r := b.dirty
	b.dirty = Range{}
	if b.owner != nil {
		b.owner.unset(b.bit)
	}
	return r, b.version
}

// DirtyBytes returns the raw bytes covered by the dirty range.
func (b *Buffer) DirtyBytes() []byte {
	return b.rows(b.dirty)
}

func (b *Buffer) rows(r Range) []byte {
	return b.data[r.First*b.slotBytes : r.End()*b.slotBytes]
}

// copySlot moves the full row of src into dst.
func (b *Buffer) copySlot(dst, src int) {
	if b.slotBytes == 0 {
		return
	}
	copy(b.data[dst*b.slotBytes:(dst+1)*b.slotBytes], b.data[src*b.slotBytes:(src+1)*b.slotBytes])
	b.MarkRangeDirty(dst, 1)
}

// load copies count rows of raw bytes into the buffer starting at first.
func (b *Buffer) load(first, count int, raw []byte) {
	if count <= 0 {
		return
	}
	copy(b.data[first*b.slotBytes:(first+count)*b.slotBytes], raw)
	b.MarkRangeDirty(first, count)
}

// Number is the set of Go types a buffer can be viewed as.
type Number interface {
	constraints.Integer | constraints.Float
}

// View reinterprets the buffer contents as a slice of T without copying.
// T must match the element type of the buffer; a Float16 buffer may be
// viewed as uint16 or float16.Float16. Writes through the view are not
// tracked; call MarkRangeDirty afterwards.
func View[T Number](b *Buffer) ([]T, error) {
	var zero T
	want := b.layout.Type
	got := elementOf(any(zero))
	if got != want && !(want == Float16 && got == Uint16) {
		return nil, fmt.Errorf("attrpool: cannot view %s buffer %q as %T", want, b.layout.Key, zero)
	}
	if len(b.data) == 0 {
		return nil, nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b.data))), len(b.data)/int(unsafe.Sizeof(zero))), nil
}

func elementOf(v any) ElementType {
	switch v.(type) {
	case int8:
		return Int8
	case uint8:
		return Uint8
	case int16:
		return Int16
	case uint16:
		return Uint16
	case float16.Float16:
		return Float16
	case int32:
		return Int32
	case uint32:
		return Uint32
	case int64:
		return Int64
	case uint64:
		return Uint64
	case float32:
		return Float32
	case float64:
		return Float64
	}
	return ElementInvalid
}
