package path

import (
	"github.com/df07/go-metropolis-raytracer/pkg/core"
)

// Direction returns the unit vector from a toward b
func Direction(a, b *Node) core.Vec3 {
	switch {
	case b.AtInfinity():
		return b.Position().Normalize()
	case a.AtInfinity():
		return a.Position().Negate().Normalize()
	default:
		return b.Position().Subtract(a.Position()).Normalize()
	}
}

// GeometricFactor is |cos a|·|cos b| / d². Vertices without a surface
// contribute a cosine of 1 and the distance term is dropped at infinity.
func GeometricFactor(a, b *Node) float64 {
	v := Direction(a, b)

	g := 1.0
	if n := a.Normal(); !n.IsZero() {
		g *= n.AbsDot(v)
	}
	if n := b.Normal(); !n.IsZero() {
		g *= n.AbsDot(v)
	}

	if a.AtInfinity() || b.AtInfinity() {
		return g
	}
	d2 := b.Position().Subtract(a.Position()).LengthSquared()
	if d2 == 0 {
		return 0
	}
	return g / d2
}
