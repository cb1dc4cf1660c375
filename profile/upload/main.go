// Profiling:
// go build ./profile/upload
// go tool pprof -http=":8000" -nodefraction=0.001 ./upload cpu.pprof

package main

import (
	"github.com/edwinsyarief/attrpool"
	"github.com/pkg/profile"
)

var quad = attrpool.MustSchema(attrpool.Description{
	Name:              "quad",
	VerticesPerObject: 4,
	Indices:           []int{0, 1, 2, 0, 2, 3},
	Attributes: []attrpool.AttributeDescription{
		{Name: "corner", Components: []string{"x", "y"}},
	},
})

var instance = attrpool.MustSchema(attrpool.Description{
	Name: "instance",
	Attributes: []attrpool.AttributeDescription{
		{Name: "offset", Components: []string{"x", "y"}, Usage: "stream"},
		{Name: "scale", Usage: "stream"},
		{Name: "tint", Size: 4, Type: "uint8", Normalized: true},
	},
})

func main() {
	rounds := 20
	frames := 2000
	instances := 100000
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, frames, instances)
	p.Stop()
}

func run(rounds, frames, numInstances int) {
	for range rounds {
		in, err := attrpool.NewInstanced(quad, 1, instance, numInstances)
		if err != nil {
			panic(err)
		}
		corner, _ := quad.Accessors().Lookup("corner")
		h, _ := in.Base.Create()
		_ = corner.Set(h, 0, 0, 1, 0, 1, 1, 0, 1)
		offset, _ := instance.Accessors().Lookup("offset")
		for range numInstances {
			_, _ = in.Instances.Create()
		}
		queue := attrpool.NewUploadQueue()
		f := attrpool.NewFilter(in.Instances)
		for frame := range frames {
			f.Reset()
			for f.Next() {
				// Touch a moving window so dirty ranges stay partial.
				if (f.Slot()+frame)%64 == 0 {
					_ = offset.Set(f.Handle(), float64(frame), float64(f.Slot()))
				}
			}
			queue.Collect(in.Base)
			queue.Collect(in.Instances)
			_ = queue.Drain(func(attrpool.Upload) error { return nil })
		}
	}
}
