package attrpool

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the serialized state of a pool. Buffers holds, per buffer
// key, the raw rows of the live objects [0, UsedCount).
type Snapshot struct {
	Buffers   map[string][]byte `json:"buffers"`
	Capacity  int               `json:"capacity"`
	UsedCount int               `json:"usedCount"`
}

// Serialize copies the live state of the pool into a Snapshot.
func (p *Pool) Serialize() Snapshot {
	s := Snapshot{
		Capacity:  p.capacity,
		UsedCount: p.used,
		Buffers:   make(map[string][]byte, len(p.buffers)),
	}
	live := Range{Count: p.used}
	for _, b := range p.buffers {
		s.Buffers[b.Key()] = append([]byte(nil), b.rows(live)...)
	}
	return s
}

// Restore replaces the contents of the pool with s. Every previously issued
// handle becomes invalid. It fails with ErrCapacityMismatch when s was
// taken from a pool of another capacity; on any error the pool is left
// untouched.
func (p *Pool) Restore(s Snapshot) error {
	if s.Capacity != p.capacity {
		return fmt.Errorf("%w: snapshot has %d slots, pool has %d", ErrCapacityMismatch, s.Capacity, p.capacity)
	}
	if s.UsedCount < 0 || s.UsedCount > p.capacity {
		return fmt.Errorf("attrpool: snapshot used count %d outside [0, %d]", s.UsedCount, p.capacity)
	}
	if len(s.Buffers) != len(p.buffers) {
		return fmt.Errorf("attrpool: snapshot has %d buffers, pool has %d", len(s.Buffers), len(p.buffers))
	}
	for _, b := range p.buffers {
		raw, ok := s.Buffers[b.Key()]
		if !ok {
			return fmt.Errorf("attrpool: snapshot is missing buffer %q", b.Key())
		}
		if len(raw) < s.UsedCount*b.slotBytes {
			return fmt.Errorf("attrpool: snapshot buffer %q holds %d bytes, need %d",
				b.Key(), len(raw), s.UsedCount*b.slotBytes)
		}
	}
	p.used = 0
	p.handles.reset()
	for _, b := range p.buffers {
		b.load(0, s.UsedCount, s.Buffers[b.Key()])
	}
	for slot := range s.UsedCount {
		p.handles.issue(slot)
	}
	p.used = s.UsedCount
	Logger().Debug("attrpool: snapshot restored", "schema", p.schema.name, "used", p.used)
	if p.events != nil {
		Publish(p.events, Restored{Count: p.used})
	}
	return nil
}

// FromSnapshot builds a new pool for schema and restores s into it.
func FromSnapshot(schema *Schema, s Snapshot) (*Pool, error) {
	if s.Capacity < 0 {
		return nil, fmt.Errorf("%w: negative snapshot capacity %d", ErrCapacityMismatch, s.Capacity)
	}
	p := NewPool(schema, s.Capacity*schema.multiplicity)
	if err := p.Restore(s); err != nil {
		return nil, err
	}
	return p, nil
}

// UnmarshalSnapshot decodes a snapshot produced by json.Marshal. Raw
// buffers travel as base64 strings.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("attrpool: decode snapshot: %w", err)
	}
	return s, nil
}
