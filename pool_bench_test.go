package attrpool

import (
	"fmt"
	"testing"
)

var benchSchema = MustSchema(Description{
	Name:              "sprite",
	VerticesPerObject: 4,
	Indices:           []int{0, 1, 2, 0, 2, 3},
	Attributes: []AttributeDescription{
		{Name: "position", Components: []string{"x", "y"}, Usage: "dynamic"},
		{Name: "uv", Components: []string{"u", "v"}},
		{Name: "color", Size: 4, Type: "uint8", Normalized: true},
	},
})

func sizeName(size int) string {
	if size >= 1000000 {
		return fmt.Sprintf("%dM", size/1000000)
	}
	return fmt.Sprintf("%dK", size/1000)
}

func BenchmarkNewPool(b *testing.B) {
	for _, size := range []int{1000, 10000, 100000} {
		b.Run(sizeName(size), func(b *testing.B) {
			for b.Loop() {
				_ = NewPool(benchSchema, size)
			}
			b.ReportAllocs()
		})
	}
}

func BenchmarkCreateFree(b *testing.B) {
	for _, size := range []int{1000, 10000, 100000} {
		b.Run(sizeName(size), func(b *testing.B) {
			p := NewPool(benchSchema, size)
			hs := make([]Handle, size)
			for b.Loop() {
				for i := range size {
					hs[i], _ = p.Create()
				}
				// free from the front so every Free swaps the last row in
				for i := range size {
					_ = p.Free(hs[i])
				}
			}
			b.ReportAllocs()
		})
	}
}

func BenchmarkAccessorSet(b *testing.B) {
	for _, size := range []int{1000, 10000, 100000} {
		b.Run(sizeName(size), func(b *testing.B) {
			p := NewPool(benchSchema, size)
			for range size {
				_, _ = p.Create()
			}
			acc, _ := benchSchema.Accessors().Lookup("position")
			f := NewFilter(p)
			for b.Loop() {
				f.Reset()
				for f.Next() {
					_ = acc.Set(f.Handle(), 1, 2)
				}
				p.Flush()
			}
			b.ReportAllocs()
		})
	}
}

func BenchmarkAccessorGet(b *testing.B) {
	p := NewPool(benchSchema, 10000)
	for range 10000 {
		_, _ = p.Create()
	}
	acc, _ := benchSchema.Accessors().Lookup("position")
	buf := make([]float64, 0, acc.Len())
	f := NewFilter(p)
	for b.Loop() {
		f.Reset()
		for f.Next() {
			buf, _ = acc.AppendTo(buf[:0], f.Handle())
		}
	}
	b.ReportAllocs()
}

func BenchmarkSerializeRestore(b *testing.B) {
	p := NewPool(benchSchema, 10000)
	for range 10000 {
		_, _ = p.Create()
	}
	for b.Loop() {
		s := p.Serialize()
		_ = p.Restore(s)
	}
	b.ReportAllocs()
}
