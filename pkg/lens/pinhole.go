package lens

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/path"
)

// fovTolerance keeps directions sampled on the image border inside the field of view
const fovTolerance = 1e-9

// PinholeConfig describes a perspective camera
type PinholeConfig struct {
	Eye         core.Vec3 // Camera position
	Target      core.Vec3 // Point the camera looks at
	Up          core.Vec3 // Up direction
	VFov        float64   // Vertical field of view in degrees
	AspectRatio float64   // Width / height
}

// DefaultPinholeConfig looks down -Z from the origin
func DefaultPinholeConfig() PinholeConfig {
	return PinholeConfig{
		Eye:         core.NewVec3(0, 0, 0),
		Target:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 1,
	}
}

// Validate checks the configuration for degenerate values
func (c PinholeConfig) Validate() error {
	if c.VFov <= 0 || c.VFov >= 180 {
		return fmt.Errorf("vertical fov must be in (0, 180), got %v", c.VFov)
	}
	if c.AspectRatio <= 0 {
		return fmt.Errorf("aspect ratio must be positive, got %v", c.AspectRatio)
	}
	forward := c.Target.Subtract(c.Eye)
	if forward.IsZero() {
		return fmt.Errorf("eye and target coincide at %v", c.Eye)
	}
	if forward.Cross(c.Up).IsZero() {
		return fmt.Errorf("up vector %v is parallel to the view direction", c.Up)
	}
	return nil
}

// Pinhole is a perspective camera with an infinitesimal aperture. Image
// coordinates run over [0,1)² with y pointing down.
type Pinhole struct {
	eye     core.Vec3
	forward core.Vec3

	view    mgl64.Mat4 // world to camera
	invView mgl64.Mat4 // camera to world

	tanX, tanY float64
	area       float64 // image plane area at unit distance
}

// NewPinhole creates a pinhole lens from a validated configuration
func NewPinhole(config PinholeConfig) (*Pinhole, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	view := mgl64.LookAtV(toMgl(config.Eye), toMgl(config.Target), toMgl(config.Up))
	tanY := math.Tan(mgl64.DegToRad(config.VFov) / 2)
	tanX := tanY * config.AspectRatio

	return &Pinhole{
		eye:     config.Eye,
		forward: config.Target.Subtract(config.Eye).Normalize(),
		view:    view,
		invView: view.Inv(),
		tanX:    tanX,
		tanY:    tanY,
		area:    4 * tanX * tanY,
	}, nil
}

// Sample creates the eye root for an image point
func (p *Pinhole) Sample(imagePoint core.Vec2, info *path.Info, ru, rv, rj float64) *path.Node {
	return path.NewEyeNode(&pinholeEndpoint{lens: p, imagePoint: imagePoint}, info)
}

// Direction returns the unit world direction through an image point
func (p *Pinhole) Direction(imagePoint core.Vec2) core.Vec3 {
	local := mgl64.Vec4{
		(2*imagePoint.X - 1) * p.tanX,
		(1 - 2*imagePoint.Y) * p.tanY,
		-1,
		0,
	}
	return fromMgl(p.invView.Mul4x1(local).Vec3()).Normalize()
}

// Project maps a world point onto the image plane
func (p *Pinhole) Project(point core.Vec3) (core.Vec2, bool) {
	local := p.view.Mul4x1(toMgl(point).Vec4(1))
	if local.Z() >= 0 {
		return core.Vec2{}, false
	}

	x := local.X() / -local.Z()
	y := local.Y() / -local.Z()
	image := core.NewVec2((x/p.tanX+1)/2, (1-y/p.tanY)/2)
	if image.X < 0 || image.X >= 1 || image.Y < 0 || image.Y >= 1 {
		return core.Vec2{}, false
	}
	return image, true
}

// importance is 1/(A·cos⁴θ) inside the field of view
func (p *Pinhole) importance(v core.Vec3) float64 {
	local := p.view.Mul4x1(toMgl(v).Vec4(0))
	if local.Z() >= 0 {
		return 0
	}

	x := local.X() / -local.Z()
	y := local.Y() / -local.Z()
	if math.Abs(x) > p.tanX*(1+fovTolerance) || math.Abs(y) > p.tanY*(1+fovTolerance) {
		return 0
	}

	cos := v.Dot(p.forward) / v.Length()
	return 1 / (p.area * cos * cos * cos * cos)
}

// pinholeEndpoint is the eye root for one image point
type pinholeEndpoint struct {
	lens       *Pinhole
	imagePoint core.Vec2
}

func (e *pinholeEndpoint) Position() core.Vec3  { return e.lens.eye }
func (e *pinholeEndpoint) AtInfinity() bool     { return false }
func (e *pinholeEndpoint) Normal() core.Vec3    { return e.lens.forward }
func (e *pinholeEndpoint) PositionPDF() float64 { return 1 }
func (e *pinholeEndpoint) Specular() bool       { return false }
func (e *pinholeEndpoint) Hittable() bool       { return false }

func (e *pinholeEndpoint) PDF(v core.Vec3) float64 {
	return e.lens.importance(v)
}

func (e *pinholeEndpoint) Sample(ru, rv, rj float64) (core.Vec3, float64, bool) {
	v := e.lens.Direction(e.imagePoint)
	pdf := e.lens.importance(v)
	return v, pdf, pdf > 0
}

func (e *pinholeEndpoint) Evaluate(v core.Vec3) core.Vec3 {
	w := e.lens.importance(v)
	return core.NewVec3(w, w, w)
}

func (e *pinholeEndpoint) Project(p core.Vec3) (core.Vec2, bool) {
	return e.lens.Project(p)
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}
