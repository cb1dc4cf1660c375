package attrpool

// ExpandIndices repeats template once per object, offsetting each copy by
// the number of vertices before it. The result has count*len(template)
// entries and is meant for an index buffer of format uint32.
func ExpandIndices(template []uint32, verticesPerObject, count int) []uint32 {
	out := make([]uint32, 0, count*len(template))
	for i := range count {
		base := uint32(i * verticesPerObject)
		for _, v := range template {
			out = append(out, base+v)
		}
	}
	return out
}
