package attrpool

// Filter iterates over the live objects of a pool in slot order.
//
// Freeing objects while iterating moves the last object into the freed
// slot, so collect the handles first and free them after the loop.
type Filter struct {
	pool   *Pool
	curIdx int
	curEnt Handle
}

// NewFilter creates a Filter positioned before the first object.
func NewFilter(p *Pool) *Filter {
	f := &Filter{pool: p}
	f.Reset()
	return f
}

// Reset rewinds the filter to the first object.
func (f *Filter) Reset() {
	f.curIdx = -1
	f.curEnt = Handle{}
}

// Next advances to the next live object. It returns false when the
// iteration is complete.
//
//	f := attrpool.NewFilter(pool)
//	for f.Next() {
//	    pos, _ := f.Handle().Get("position")
//	    ...
//	}
func (f *Filter) Next() bool {
	f.curIdx++
	h, ok := f.pool.HandleAt(f.curIdx)
	if !ok {
		f.curIdx = f.pool.used
		return false
	}
	f.curEnt = h
	return true
}

// Handle returns the current object. Only valid after Next returned true.
func (f *Filter) Handle() Handle { return f.curEnt }

// Slot returns the slot of the current object.
func (f *Filter) Slot() int { return f.curIdx }

// Handles returns the handles of every live object in slot order.
func (f *Filter) Handles() []Handle {
	out := make([]Handle, 0, f.pool.used)
	for slot := range f.pool.used {
		h, _ := f.pool.HandleAt(slot)
		out = append(out, h)
	}
	return out
}

// FreeAll frees every live object by clearing the pool.
func (f *Filter) FreeAll() {
	f.pool.Clear()
	f.Reset()
}
