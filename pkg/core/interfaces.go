package core

// Directional densities throughout this package are expressed with respect to
// projected solid angle, so a Lambertian surface samples with density 1/π and
// the geometric factor between two vertices is |cos a|·|cos b| / d².

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     Vec3     // Point of intersection
	Normal    Vec3     // Surface normal, oriented against the incoming ray
	T         float64  // Parameter t along the ray
	FrontFace bool     // Whether ray hit the front face
	Material  Material // Material of the hit object
	Shape     Shape    // Shape that was hit
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// Shape is anything that can be intersected by a ray
type Shape interface {
	Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool)
	BoundingBox() AABB
}

// ScatterResult is a sampled scattering event at a surface
type ScatterResult struct {
	Direction Vec3    // Outgoing unit direction
	Weight    Vec3    // BSDF value divided by PDF (throughput multiplier)
	PDF       float64 // Projected solid angle density; 1 for specular events
	Specular  bool    // True for Dirac (zero-measure) distributions
}

// Material describes how light scatters at a surface. Both direction arguments
// are unit vectors pointing away from the surface: wIn toward the vertex the
// path arrived from, wOut toward the vertex it leaves for.
type Material interface {
	// Scatter samples an outgoing direction from three uniform draws.
	// Returns false when the path is absorbed.
	Scatter(hit *HitRecord, wIn Vec3, ru, rv, rj float64) (ScatterResult, bool)

	// Evaluate returns the BSDF for the given pair of directions.
	// Specular materials return zero.
	Evaluate(hit *HitRecord, wIn, wOut Vec3) Vec3

	// PDF returns the density Scatter would produce wOut with. Specular
	// materials return zero.
	PDF(hit *HitRecord, wIn, wOut Vec3) float64

	// Specular reports whether scattering is a Dirac distribution.
	Specular() bool
}

// Emitter is implemented by materials that emit light
type Emitter interface {
	// Emitted returns the radiance leaving the hit point toward wOut.
	Emitted(hit *HitRecord, wOut Vec3) Vec3
}
