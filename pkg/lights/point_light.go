package lights

import (
	"math"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/path"
)

// PointLight emits uniformly in all directions from a single point. It cannot
// be hit by eye paths, so every contribution it makes comes from a join.
type PointLight struct {
	Position  core.Vec3
	Intensity core.Vec3 // Radiant intensity per projected solid angle
}

// NewPointLight creates a point light
func NewPointLight(position, intensity core.Vec3) *PointLight {
	return &PointLight{Position: position, Intensity: intensity}
}

// Sample creates a light root at the light's position
func (pl *PointLight) Sample(info *path.Info, ru, rv, rj float64) *path.Node {
	return path.NewLightNode(&pointEndpoint{light: pl}, info)
}

// PositionPDF is zero: no surface point belongs to a point light
func (pl *PointLight) PositionPDF(hit *core.HitRecord) float64 { return 0 }

func (pl *PointLight) DirectionPDF(hit *core.HitRecord, v core.Vec3) float64 { return 0 }

type pointEndpoint struct {
	light *PointLight
}

func (e *pointEndpoint) Position() core.Vec3  { return e.light.Position }
func (e *pointEndpoint) AtInfinity() bool     { return false }
func (e *pointEndpoint) Normal() core.Vec3    { return core.Vec3{} }
func (e *pointEndpoint) PositionPDF() float64 { return 1 }
func (e *pointEndpoint) Specular() bool       { return false }
func (e *pointEndpoint) Hittable() bool       { return false }

func (e *pointEndpoint) Sample(ru, rv, rj float64) (core.Vec3, float64, bool) {
	return core.SampleOnUnitSphere(core.NewVec2(ru, rv)), 1 / (4 * math.Pi), true
}

func (e *pointEndpoint) Evaluate(v core.Vec3) core.Vec3 {
	return e.light.Intensity
}

func (e *pointEndpoint) PDF(v core.Vec3) float64 {
	return 1 / (4 * math.Pi)
}
