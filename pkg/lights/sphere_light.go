package lights

import (
	"math"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/geometry"
	"github.com/df07/go-metropolis-raytracer/pkg/material"
	"github.com/df07/go-metropolis-raytracer/pkg/path"
)

// SphereLight represents a spherical area light. The sphere must also be part
// of the scene geometry so eye paths can land on it.
type SphereLight struct {
	*geometry.Sphere // Embed sphere for hit testing and area sampling

	emitter core.Emitter
}

// NewSphereLight creates a new spherical light
func NewSphereLight(center core.Vec3, radius float64, emissive *material.Emissive) *SphereLight {
	return &SphereLight{
		Sphere:  geometry.NewSphere(center, radius, emissive),
		emitter: emissive,
	}
}

// Sample picks a point uniformly over the surface area
func (sl *SphereLight) Sample(info *path.Info, ru, rv, rj float64) *path.Node {
	point, normal := sl.SamplePoint(core.NewVec2(ru, rv))
	hit := &core.HitRecord{
		Point:     point,
		Normal:    normal,
		FrontFace: true,
		Material:  sl.Material,
		Shape:     sl.Sphere,
	}
	return path.NewLightNode(&sphereEndpoint{light: sl, hit: hit}, info)
}

// PositionPDF implements the Light interface - uniform area density on the outside of the sphere
func (sl *SphereLight) PositionPDF(hit *core.HitRecord) float64 {
	if !sl.owns(hit) {
		return 0
	}
	return 1 / sl.Area()
}

// DirectionPDF implements the Light interface - cosine-weighted emission about the outward normal
func (sl *SphereLight) DirectionPDF(hit *core.HitRecord, v core.Vec3) float64 {
	if !sl.owns(hit) || v.Dot(hit.Normal) <= 0 {
		return 0
	}
	return 1 / math.Pi
}

func (sl *SphereLight) owns(hit *core.HitRecord) bool {
	shape, ok := hit.Shape.(*geometry.Sphere)
	return ok && shape == sl.Sphere && hit.FrontFace
}

type sphereEndpoint struct {
	light *SphereLight
	hit   *core.HitRecord
}

func (e *sphereEndpoint) Position() core.Vec3 { return e.hit.Point }
func (e *sphereEndpoint) AtInfinity() bool    { return false }
func (e *sphereEndpoint) Normal() core.Vec3   { return e.hit.Normal }
func (e *sphereEndpoint) Specular() bool      { return false }
func (e *sphereEndpoint) Hittable() bool      { return true }

func (e *sphereEndpoint) PositionPDF() float64 {
	return 1 / e.light.Area()
}

func (e *sphereEndpoint) Sample(ru, rv, rj float64) (core.Vec3, float64, bool) {
	v := core.SampleCosineHemisphere(e.hit.Normal, core.NewVec2(ru, rv))
	if v.Dot(e.hit.Normal) <= 0 {
		return core.Vec3{}, 0, false
	}
	return v, 1 / math.Pi, true
}

func (e *sphereEndpoint) Evaluate(v core.Vec3) core.Vec3 {
	return e.light.emitter.Emitted(e.hit, v)
}

func (e *sphereEndpoint) PDF(v core.Vec3) float64 {
	return e.light.DirectionPDF(e.hit, v)
}
