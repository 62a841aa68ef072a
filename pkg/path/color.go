package path

import (
	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/random"
)

// RGB carries all three channels through every path and consumes no draws
type RGB struct{}

func (RGB) Sample(src random.Source) core.Vec3 {
	return core.NewVec3(1, 1, 1)
}

// SingleChannel picks one channel per path with one draw and scales it by 3
type SingleChannel struct{}

func (SingleChannel) Sample(src random.Source) core.Vec3 {
	switch c := int(src.Next() * 3); c {
	case 0:
		return core.NewVec3(3, 0, 0)
	case 1:
		return core.NewVec3(0, 3, 0)
	default:
		return core.NewVec3(0, 0, 3)
	}
}
