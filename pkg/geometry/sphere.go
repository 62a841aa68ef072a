package geometry

import (
	"math"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
)

// Sphere is a sphere shape. Hit records point their Shape back at the
// sphere, which lets a sphere light recognise its own surface.
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material core.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, material core.Material) *Sphere {
	return &Sphere{Center: center, Radius: radius, Material: material}
}

// Hit returns the nearest intersection with t in [tMin, tMax]
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	near, far, ok := s.roots(ray)
	if !ok {
		return nil, false
	}

	t := near
	if t < tMin || t > tMax {
		t = far
		if t < tMin || t > tMax {
			return nil, false
		}
	}

	hit := &core.HitRecord{T: t, Point: ray.At(t), Material: s.Material, Shape: s}
	hit.SetFaceNormal(ray, s.outwardNormal(hit.Point))
	return hit, true
}

// roots solves |o + t·d - c|² = r² for t, nearest first
func (s *Sphere) roots(ray core.Ray) (float64, float64, bool) {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || a == 0 {
		return 0, 0, false
	}
	sqrtD := math.Sqrt(discriminant)
	return (-halfB - sqrtD) / a, (-halfB + sqrtD) / a, true
}

func (s *Sphere) outwardNormal(p core.Vec3) core.Vec3 {
	return p.Subtract(s.Center).Multiply(1 / s.Radius)
}

func (s *Sphere) BoundingBox() core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(s.Center.Subtract(r), s.Center.Add(r))
}

// Area is the full surface area, 4πr²
func (s *Sphere) Area() float64 {
	return 4 * math.Pi * s.Radius * s.Radius
}

// SamplePoint maps two uniform draws to a uniformly distributed surface point
// and its outward normal
func (s *Sphere) SamplePoint(sample core.Vec2) (core.Vec3, core.Vec3) {
	normal := core.SampleOnUnitSphere(sample)
	return s.Center.Add(normal.Multiply(s.Radius)), normal
}
