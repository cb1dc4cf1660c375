package attrpool

import (
	"fmt"
)

// Pool packs objects of one schema into fixed-capacity buffers. Live
// objects always occupy the slots [0, Len()), so Len is all a consumer
// needs to know how much of each buffer to read, upload or draw.
//
// A Pool is not safe for concurrent use.
type Pool struct {
	layout      *Layout
	schema      *Schema
	buffers     []*Buffer
	byKey       map[string]int
	events      *EventBus
	indexBuffer []uint32
	handles     handleRegistry
	dirty       bitmask256 // buffers with an unflushed dirty range
	capacity    int
	used        int
}

// NewPool creates a pool for s and allocates every backing buffer up
// front. Buffers are never resized.
//
// Parameters:
//   - s: The schema of every object in the pool.
//   - capacity: Physical instances to hold, that is capacity /
//     s.Multiplicity() object slots.
//
// Returns:
//   - The empty pool. It panics on a negative capacity or when the schema
//     plans more than MaxBuffers buffers.
func NewPool(s *Schema, capacity int) *Pool {
	return NewPoolFromLayout(s.Layout(capacity))
}

// NewPoolFromLayout creates a pool from an already planned layout.
func NewPoolFromLayout(l *Layout) *Pool {
	if len(l.buffers) > MaxBuffers {
		panic(fmt.Sprintf("attrpool: layout plans %d buffers, maximum is %d", len(l.buffers), MaxBuffers))
	}
	p := &Pool{
		layout:   l,
		schema:   l.schema,
		capacity: l.capacity,
		buffers:  make([]*Buffer, len(l.buffers)),
		byKey:    make(map[string]int, len(l.buffers)),
		handles:  newHandleRegistry(l.capacity),
	}
	for i := range l.buffers {
		p.buffers[i] = newBuffer(&l.buffers[i], l.capacity, l.schema.vertices, &p.dirty, uint8(i))
		p.byKey[l.buffers[i].Key] = i
	}
	if l.schema.HasIndices() {
		p.indexBuffer = ExpandIndices(l.schema.indices, l.schema.vertices, l.capacity)
	}
	Logger().Debug("attrpool: pool created",
		"schema", l.schema.name, "capacity", l.capacity, "buffers", len(p.buffers))
	return p
}

// Schema returns the schema of the pool.
func (p *Pool) Schema() *Schema { return p.schema }

// Layout returns the shared layout the pool was built from.
func (p *Pool) Layout() *Layout { return p.layout }

// Capacity returns the number of object slots.
func (p *Pool) Capacity() int { return p.capacity }

// Len returns the number of live objects.
func (p *Pool) Len() int { return p.used }

// Available returns the number of free slots.
func (p *Pool) Available() int { return p.capacity - p.used }

// Buffers returns the backing buffers in layout order.
func (p *Pool) Buffers() []*Buffer { return p.buffers }

// Buffer returns the buffer with the given key.
func (p *Pool) Buffer(key string) (*Buffer, bool) {
	i, ok := p.byKey[key]
	if !ok {
		return nil, false
	}
	return p.buffers[i], true
}

// IndexBuffer returns the index template expanded for every slot, or nil
// when the schema has no template. The slice must not be modified.
func (p *Pool) IndexBuffer() []uint32 { return p.indexBuffer }

// Events returns the event bus of the pool, creating it on first use.
func (p *Pool) Events() *EventBus {
	if p.events == nil {
		p.events = &EventBus{}
	}
	return p.events
}

// HandleAt returns the handle of the object in slot.
func (p *Pool) HandleAt(slot int) (Handle, bool) {
	if slot < 0 || slot >= p.used {
		return Handle{}, false
	}
	id := p.handles.slotIDs[slot]
	return Handle{pool: p, ID: id, Version: p.handles.metas[id].version}, true
}

// Create allocates the next free slot and runs the schema initializer on
// it. It returns ErrCapacityExceeded when every slot is live.
func (p *Pool) Create() (Handle, error) {
	if p.used == p.capacity {
		return Handle{}, ErrCapacityExceeded
	}
	slot := p.used
	id, version := p.handles.issue(slot)
	h := Handle{pool: p, ID: id, Version: version}
	p.used++
	if init := p.schema.initializer; init != nil {
		init(h)
	}
	if p.events != nil {
		Publish(p.events, Created{Handle: h, Slot: slot})
	}
	return h, nil
}

// CreateMany appends objects whose data is given as raw rows per buffer
// key, as produced by Snapshot. Every buffer of the layout must be present.
// The number of objects is the smallest row count over all buffers,
// clamped to the free capacity. The initializer is not run. It returns the
// number of objects created.
func (p *Pool) CreateMany(rows map[string][]byte) (int, error) {
	count := p.Available()
	for key := range rows {
		if _, ok := p.byKey[key]; !ok {
			return 0, fmt.Errorf("%w: buffer %q", ErrUnknownAttribute, key)
		}
	}
	for _, b := range p.buffers {
		raw, ok := rows[b.Key()]
		if !ok {
			return 0, fmt.Errorf("attrpool: bulk data is missing buffer %q", b.Key())
		}
		if b.slotBytes > 0 {
			count = min(count, len(raw)/b.slotBytes)
		}
	}
	if len(p.buffers) == 0 {
		count = 0
	}
	if requested := p.requested(rows); count < requested {
		Logger().Warn("attrpool: bulk create clamped by capacity",
			"schema", p.schema.name, "requested", requested, "created", count)
	}
	first := p.used
	for _, b := range p.buffers {
		b.load(first, count, rows[b.Key()])
	}
	for i := range count {
		id, version := p.handles.issue(first + i)
		p.used++
		if p.events != nil {
			Publish(p.events, Created{Handle: Handle{pool: p, ID: id, Version: version}, Slot: first + i})
		}
	}
	return count, nil
}

// requested is the row count the caller supplied, for diagnostics.
func (p *Pool) requested(rows map[string][]byte) int {
	n := -1
	for _, b := range p.buffers {
		if b.slotBytes == 0 {
			continue
		}
		if r := len(rows[b.Key()]) / b.slotBytes; n < 0 || r < n {
			n = r
		}
	}
	return max(n, 0)
}

// Free releases the object of h. The last live object is moved into the
// freed slot so live slots stay dense; its handle remains valid and
// reports the new slot. Only h itself becomes invalid.
func (p *Pool) Free(h Handle) error {
	if h.pool != p {
		return fmt.Errorf("%w: handle belongs to another pool", ErrInvalidHandle)
	}
	if !p.handles.valid(h.ID, h.Version) {
		return fmt.Errorf("%w: object %d version %d is not live", ErrInvalidHandle, h.ID, h.Version)
	}
	meta := &p.handles.metas[h.ID]
	slot := meta.slot
	last := p.used - 1
	if slot < last {
		for _, b := range p.buffers {
			b.copySlot(slot, last)
		}
		lastID := p.handles.slotIDs[last]
		p.handles.slotIDs[slot] = lastID
		p.handles.metas[lastID].slot = slot
		if p.events != nil {
			moved := Handle{pool: p, ID: lastID, Version: p.handles.metas[lastID].version}
			Publish(p.events, Relocated{Handle: moved, From: last, To: slot})
		}
	}
	p.handles.release(h.ID)
	p.used--
	if p.events != nil {
		Publish(p.events, Freed{Handle: h, Slot: slot})
	}
	return nil
}

// Clear frees every object without touching buffer contents; data past
// Len is never read. All handles become invalid.
func (p *Pool) Clear() {
	n := p.used
	p.used = 0
	p.handles.reset()
	if p.events != nil {
		Publish(p.events, Cleared{Count: n})
	}
}

// Flush clears the dirty range of every buffer and returns the buffers
// that were dirty, each with its range and version.
func (p *Pool) Flush() []Upload {
	var out []Upload
	p.dirty.each(func(bit int) {
		out = append(out, p.buffers[bit].flushUpload())
	})
	return out
}

// Dirty reports whether any buffer has an unflushed dirty range.
func (p *Pool) Dirty() bool { return !p.dirty.empty() }

// DirtyBuffers returns the number of buffers with an unflushed dirty range.
func (p *Pool) DirtyBuffers() int { return p.dirty.count() }
