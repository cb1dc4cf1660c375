package attrpool

// Handle is a lightweight reference to one object in a Pool. It combines a
// recyclable ID with a version so a handle kept after its object was freed
// is detected instead of silently reaching whichever object now occupies
// the slot.
type Handle struct {
	pool *Pool
	// ID is the recyclable identifier of the object within its pool.
	ID uint32
	// Version is a generation counter; it changes every time ID is reused.
	Version uint32
}

// objectMeta holds the current location and state of an object.
type objectMeta struct {
	slot    int    // position in every buffer, -1 when free
	version uint32 // current version, 0 when free
}

// handleRegistry maps stable handle IDs to slots and back.
type handleRegistry struct {
	freeIDs     []uint32     // stack of recycled IDs
	metas       []objectMeta // indexed by ID
	slotIDs     []uint32     // ID of the object in each live slot
	nextVersion uint32       // version for the next created object
}

func newHandleRegistry(capacity int) handleRegistry {
	r := handleRegistry{
		freeIDs:     make([]uint32, capacity),
		metas:       make([]objectMeta, capacity),
		slotIDs:     make([]uint32, capacity),
		nextVersion: 1,
	}
	r.reset()
	return r
}

// reset frees every ID. The stack is filled in reverse so IDs are handed
// out in ascending order.
func (r *handleRegistry) reset() {
	n := len(r.metas)
	r.freeIDs = r.freeIDs[:n]
	for i := range r.freeIDs {
		r.freeIDs[i] = uint32(n - 1 - i)
	}
	for i := range r.metas {
		r.metas[i].slot = -1
		r.metas[i].version = 0
	}
}

// issue pops an ID and binds it to slot.
func (r *handleRegistry) issue(slot int) (uint32, uint32) {
	last := len(r.freeIDs) - 1
	id := r.freeIDs[last]
	r.freeIDs = r.freeIDs[:last]
	meta := &r.metas[id]
	meta.slot = slot
	meta.version = r.nextVersion
	r.nextVersion++
	if r.nextVersion == 0 {
		r.nextVersion = 1
	}
	r.slotIDs[slot] = id
	return id, meta.version
}

// release returns id to the free stack and invalidates its version.
func (r *handleRegistry) release(id uint32) {
	meta := &r.metas[id]
	meta.slot = -1
	meta.version = 0
	r.freeIDs = append(r.freeIDs, id)
}

// valid reports whether id and version name a live object.
func (r *handleRegistry) valid(id, version uint32) bool {
	if int(id) >= len(r.metas) {
		return false
	}
	meta := r.metas[id]
	return meta.version != 0 && meta.version == version
}

// Pool returns the pool the handle was issued by, or nil for the zero Handle.
func (h Handle) Pool() *Pool { return h.pool }

// IsLive reports whether the handle still refers to a live object.
func (h Handle) IsLive() bool {
	return h.pool != nil && h.pool.handles.valid(h.ID, h.Version)
}

// Slot returns the current slot of the object, or -1 if the handle is no
// longer live. The slot of a live object changes when another object of
// the same pool is freed.
func (h Handle) Slot() int {
	if !h.IsLive() {
		return -1
	}
	return h.pool.handles.metas[h.ID].slot
}

// Get returns the values of the named attribute.
func (h Handle) Get(name string) ([]float64, error) {
	a, err := h.accessor(name)
	if err != nil {
		return nil, err
	}
	return a.Get(h)
}

// Set writes the values of the named attribute. See Accessor.Set.
func (h Handle) Set(name string, values ...float64) error {
	a, err := h.accessor(name)
	if err != nil {
		return err
	}
	return a.Set(h, values...)
}

func (h Handle) accessor(name string) (*Accessor, error) {
	if h.pool == nil {
		return nil, ErrInvalidHandle
	}
	return h.pool.schema.Accessors().Lookup(name)
}
