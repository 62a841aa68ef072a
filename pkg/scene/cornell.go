package scene

import (
	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/geometry"
	"github.com/df07/go-metropolis-raytracer/pkg/lens"
	"github.com/df07/go-metropolis-raytracer/pkg/lights"
	"github.com/df07/go-metropolis-raytracer/pkg/material"
)

// NewCornellScene creates a classic Cornell box with quad walls, a mirror
// sphere and a spherical light below the ceiling
func NewCornellScene(aspectRatio float64) (*Scene, error) {
	camera, err := lens.NewPinhole(lens.PinholeConfig{
		Eye:         core.NewVec3(278, 278, -800), // Outside the box looking in
		Target:      core.NewVec3(278, 278, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: aspectRatio,
	})
	if err != nil {
		return nil, err
	}

	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))

	// Standard 555 unit box, open toward the camera
	boxSize := 555.0
	shapes := []core.Shape{
		// Floor and ceiling
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white),
		geometry.NewQuad(core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white),
		// Back wall
		geometry.NewQuad(core.NewVec3(0, 0, boxSize), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), white),
		// Left (red) and right (green) walls
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0), red),
		geometry.NewQuad(core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(0, 0, boxSize), green),
	}

	// Mirror sphere on the left, diffuse sphere on the right
	shapes = append(shapes,
		geometry.NewSphere(core.NewVec3(185, 82.5, 169), 82.5, material.NewMirror(core.NewVec3(0.9, 0.9, 0.9))),
		geometry.NewSphere(core.NewVec3(370, 90, 351), 90, white),
	)

	light := lights.NewSphereLight(
		core.NewVec3(278, 470, 278),
		40,
		material.NewEmissive(core.Vec3{}, core.NewVec3(12, 12, 12)),
	)
	shapes = append(shapes, light.Sphere)

	return New(shapes, camera, light), nil
}
