package attrpool

import "math/bits"

// MaxBuffers is the maximum number of backing buffers one layout may plan.
const MaxBuffers = 256

// bitmask256 is a set of up to 256 buffer indices. A pool keeps one to
// know which of its buffers carry an unflushed dirty range.
type bitmask256 [4]uint64

// set enables the bit for the given buffer index.
func (m *bitmask256) set(bit uint8) {
	i := bit >> 6 // (bit / 64) to find the uint64 index
	o := bit & 63 // (bit % 64) to find the bit offset
	m[i] |= uint64(1) << uint64(o)
}

// unset disables the bit for the given buffer index.
func (m *bitmask256) unset(bit uint8) {
	i := bit >> 6
	o := bit & 63
	m[i] &= ^(uint64(1) << uint64(o))
}

// empty reports whether no bit is set.
func (m bitmask256) empty() bool {
	return m[0]|m[1]|m[2]|m[3] == 0
}

// count returns the number of set bits.
func (m bitmask256) count() int {
	return bits.OnesCount64(m[0]) + bits.OnesCount64(m[1]) +
		bits.OnesCount64(m[2]) + bits.OnesCount64(m[3])
}

// each calls fn for every set bit in ascending order.
func (m bitmask256) each(fn func(bit int)) {
	for w, word := range m {
		for word != 0 {
			o := bits.TrailingZeros64(word)
			fn(w*64 + o)
			word &= word - 1
		}
	}
}
