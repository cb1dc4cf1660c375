package attrpool

// Typed wraps a pool so objects are handed out as a user type T built
// around their Handle. T carries the shared behavior of every object of
// the schema, much like methods on a struct that embeds Handle:
//
//	type Sprite struct{ attrpool.Handle }
//
//	func (s Sprite) Move(dx, dy float64) error { ... }
//
//	sprites := attrpool.NewTyped(pool, func(h attrpool.Handle) Sprite { return Sprite{h} })
type Typed[T any] struct {
	pool *Pool
	bind func(Handle) T
}

// NewTyped wraps p so objects are handed out as T.
//
// Parameters:
//   - p: The pool to create objects in.
//   - bind: Builds a T around a live handle. It is called for every object
//     handed out and must not retain the handle past a Free.
//
// Returns:
//   - The typed view of p.
func NewTyped[T any](p *Pool, bind func(Handle) T) *Typed[T] {
	return &Typed[T]{pool: p, bind: bind}
}

// Pool returns the wrapped pool.
func (t *Typed[T]) Pool() *Pool { return t.pool }

// New creates an object and returns it bound to T.
func (t *Typed[T]) New() (T, error) {
	h, err := t.pool.Create()
	if err != nil {
		var zero T
		return zero, err
	}
	return t.bind(h), nil
}

// NewObjects creates count objects, stopping at the first error. It returns
// the objects created so far together with that error.
func (t *Typed[T]) NewObjects(count int) ([]T, error) {
	out := make([]T, 0, count)
	for range count {
		v, err := t.New()
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Get binds a live handle of the wrapped pool.
func (t *Typed[T]) Get(h Handle) (T, bool) {
	if h.pool != t.pool || !h.IsLive() {
		var zero T
		return zero, false
	}
	return t.bind(h), true
}

// At binds the object in slot.
func (t *Typed[T]) At(slot int) (T, bool) {
	h, ok := t.pool.HandleAt(slot)
	if !ok {
		var zero T
		return zero, false
	}
	return t.bind(h), true
}
