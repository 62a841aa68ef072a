package scene

import (
	"math"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/path"
)

// rayEpsilon offsets ray origins off the surface they leave from
const rayEpsilon = 1e-4

// Scene contains all the elements needed for rendering
type Scene struct {
	Shapes []core.Shape // Objects in the scene, including emitting surfaces
	BVH    *core.BVH    // Acceleration structure for ray-object intersection

	lens  path.Lens
	light path.Light

	center core.Vec3
	radius float64
}

// New builds the acceleration structure over shapes and wraps the lens and light
func New(shapes []core.Shape, lens path.Lens, light path.Light) *Scene {
	bvh := core.NewBVH(shapes)
	center, radius := bvh.BoundingBox().BoundingSphere()
	return &Scene{
		Shapes: shapes,
		BVH:    bvh,
		lens:   lens,
		light:  light,
		center: center,
		radius: radius,
	}
}

func (s *Scene) Lens() path.Lens   { return s.lens }
func (s *Scene) Light() path.Light { return s.light }

// Intersect returns the closest hit along the ray
func (s *Scene) Intersect(ray core.Ray) (*core.HitRecord, bool) {
	return s.BVH.Hit(ray, rayEpsilon, math.Inf(1))
}

// Visible reports whether nothing blocks the segment between a and b
func (s *Scene) Visible(a, b core.Vec3) bool {
	d := b.Subtract(a)
	distance := d.Length()
	if distance <= 2*rayEpsilon {
		return true
	}
	_, blocked := s.BVH.Hit(core.NewRay(a, d.Multiply(1/distance)), rayEpsilon, distance-rayEpsilon)
	return !blocked
}

// BoundingSphere returns a sphere enclosing every shape
func (s *Scene) BoundingSphere() (core.Vec3, float64) {
	return s.center, s.radius
}
