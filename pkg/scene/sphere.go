package scene

import (
	"math"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/geometry"
	"github.com/df07/go-metropolis-raytracer/pkg/lens"
	"github.com/df07/go-metropolis-raytracer/pkg/lights"
	"github.com/df07/go-metropolis-raytracer/pkg/material"
)

// NewSphereScene creates a single diffuse sphere lit by a point light at the
// camera. The centre pixel converges to albedo·I/(π·d²) = 0.5.
func NewSphereScene(aspectRatio float64) (*Scene, error) {
	config := lens.DefaultPinholeConfig()
	config.AspectRatio = aspectRatio
	camera, err := lens.NewPinhole(config)
	if err != nil {
		return nil, err
	}

	sphere := geometry.NewSphere(
		core.NewVec3(0, 0, -3),
		1,
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)),
	)
	intensity := 4 * math.Pi
	light := lights.NewPointLight(config.Eye, core.NewVec3(intensity, intensity, intensity))

	return New([]core.Shape{sphere}, camera, light), nil
}
