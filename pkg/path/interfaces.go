package path

import (
	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/random"
)

// Scene is what path construction needs from the world
type Scene interface {
	Lens() Lens
	Light() Light

	// Intersect returns the closest hit along the ray beyond a small epsilon
	Intersect(ray core.Ray) (*core.HitRecord, bool)

	// Visible reports whether the segment between two finite points is unoccluded
	Visible(a, b core.Vec3) bool

	BoundingSphere() (core.Vec3, float64)
}

// Lens creates eye sub-path roots
type Lens interface {
	// Sample creates the eye root for an image point in [0,1)²
	Sample(imagePoint core.Vec2, info *Info, ru, rv, rj float64) *Node
}

// Light creates light sub-path roots and reports the densities it samples
// emitter points and directions with, so eye paths that land on an emitter
// can be weighted against light sampling.
type Light interface {
	Sample(info *Info, ru, rv, rj float64) *Node

	// PositionPDF is the area density of sampling the hit point (0 when not on this light)
	PositionPDF(hit *core.HitRecord) float64

	// DirectionPDF is the projected solid angle density of emitting toward v from the hit point
	DirectionPDF(hit *core.HitRecord, v core.Vec3) float64
}

// Endpoint is a lens or emitter sample at the root of a sub-path
type Endpoint interface {
	Position() core.Vec3
	AtInfinity() bool

	// Normal returns the zero vector for points that are not on a surface
	Normal() core.Vec3

	// PositionPDF is the density the position was sampled with
	PositionPDF() float64

	// Sample draws an outgoing direction with its projected solid angle density
	Sample(ru, rv, rj float64) (core.Vec3, float64, bool)

	// Evaluate returns emitted radiance or importance toward v, per projected solid angle
	Evaluate(v core.Vec3) core.Vec3

	PDF(v core.Vec3) float64
	Specular() bool

	// Hittable reports whether a sub-path from the opposite end can land on this endpoint
	Hittable() bool
}

// Projector is implemented by eye endpoints that map world points onto the image
type Projector interface {
	Project(p core.Vec3) (core.Vec2, bool)
}

// ColorModel picks the colour sample shared by every node of a path
type ColorModel interface {
	Sample(src random.Source) core.Vec3
}

// Info is the read-only context shared by every node of one path generation
type Info struct {
	Scene  Scene
	Sample core.Vec3
}

// NewInfo creates path context for a scene and colour sample
func NewInfo(scene Scene, sample core.Vec3) *Info {
	return &Info{Scene: scene, Sample: sample}
}
