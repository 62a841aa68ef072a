package material

import (
	"math"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo core.Vec3
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Scatter samples a cosine-weighted direction on the side of wIn.
// Per projected solid angle the density is 1/π, so the weight is the albedo.
func (l *Lambertian) Scatter(hit *core.HitRecord, wIn core.Vec3, ru, rv, rj float64) (core.ScatterResult, bool) {
	normal := hit.Normal
	if wIn.Dot(normal) < 0 {
		normal = normal.Negate()
	}

	direction := core.SampleCosineHemisphere(normal, core.NewVec2(ru, rv))
	if direction.Dot(normal) <= 0 {
		return core.ScatterResult{}, false
	}

	return core.ScatterResult{
		Direction: direction,
		Weight:    l.Albedo,
		PDF:       1 / math.Pi,
	}, true
}

// Evaluate returns albedo / π for directions on the same side of the surface
func (l *Lambertian) Evaluate(hit *core.HitRecord, wIn, wOut core.Vec3) core.Vec3 {
	if !core.SameHemisphere(wIn, wOut, hit.Normal) {
		return core.Vec3{}
	}
	return l.Albedo.Multiply(1 / math.Pi)
}

func (l *Lambertian) PDF(hit *core.HitRecord, wIn, wOut core.Vec3) float64 {
	if !core.SameHemisphere(wIn, wOut, hit.Normal) {
		return 0
	}
	return 1 / math.Pi
}

func (l *Lambertian) Specular() bool {
	return false
}

// Emissive is a diffuse surface that also emits uniform radiance from its front face
type Emissive struct {
	Lambertian
	Emission core.Vec3
}

// NewEmissive creates a diffuse emitter
func NewEmissive(albedo, emission core.Vec3) *Emissive {
	return &Emissive{Lambertian: Lambertian{Albedo: albedo}, Emission: emission}
}

// Emitted returns the emission toward wOut on the front face only
func (e *Emissive) Emitted(hit *core.HitRecord, wOut core.Vec3) core.Vec3 {
	if !hit.FrontFace || wOut.Dot(hit.Normal) <= 0 {
		return core.Vec3{}
	}
	return e.Emission
}
