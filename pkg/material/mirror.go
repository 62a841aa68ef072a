package material

import (
	"github.com/df07/go-metropolis-raytracer/pkg/core"
)

// Mirror reflects every path about the normal
type Mirror struct {
	Albedo core.Vec3
}

// NewMirror creates a perfect mirror tinted by albedo
func NewMirror(albedo core.Vec3) *Mirror {
	return &Mirror{Albedo: albedo}
}

func (m *Mirror) Scatter(hit *core.HitRecord, wIn core.Vec3, ru, rv, rj float64) (core.ScatterResult, bool) {
	direction := core.Reflect(wIn, hit.Normal)
	return core.ScatterResult{
		Direction: direction,
		Weight:    m.Albedo,
		PDF:       1,
		Specular:  true,
	}, true
}

// Evaluate is zero: a Dirac distribution has no finite value
func (m *Mirror) Evaluate(hit *core.HitRecord, wIn, wOut core.Vec3) core.Vec3 {
	return core.Vec3{}
}

func (m *Mirror) PDF(hit *core.HitRecord, wIn, wOut core.Vec3) float64 {
	return 0
}

func (m *Mirror) Specular() bool {
	return true
}
