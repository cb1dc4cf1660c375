// Profiling:
// go build ./profile/churn
// go tool pprof -http=":8000" -nodefraction=0.001 ./churn mem.pprof

package main

import (
	"github.com/edwinsyarief/attrpool"
	"github.com/pkg/profile"
)

var sprite = attrpool.MustSchema(attrpool.Description{
	Name:              "sprite",
	VerticesPerObject: 4,
	Indices:           []int{0, 1, 2, 0, 2, 3},
	Attributes: []attrpool.AttributeDescription{
		{Name: "position", Components: []string{"x", "y"}, Usage: "dynamic"},
		{Name: "uv", Components: []string{"u", "v"}},
		{Name: "color", Size: 4, Type: "uint8", Normalized: true},
	},
})

func main() {
	rounds := 50
	iters := 1000
	objects := 10000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, iters, objects)
	p.Stop()
}

func run(rounds, iters, numObjects int) {
	for range rounds {
		pool := attrpool.NewPool(sprite, numObjects)
		pos, _ := sprite.Accessors().Lookup("position")
		handles := make([]attrpool.Handle, 0, numObjects)
		for range iters {
			for pool.Available() > 0 {
				h, _ := pool.Create()
				handles = append(handles, h)
			}
			for i, h := range handles {
				_ = pos.Set(h, float64(i), float64(i))
			}
			// Free every other object to exercise swap-compaction.
			for i := 0; i < len(handles); i += 2 {
				_ = pool.Free(handles[i])
			}
			pool.Clear()
			handles = handles[:0]
			pool.Flush()
		}
	}
}
