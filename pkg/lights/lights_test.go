package lights

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/material"
	"github.com/df07/go-metropolis-raytracer/pkg/path"
)

func testInfo() *path.Info {
	return path.NewInfo(nil, core.NewVec3(1, 1, 1))
}

func TestPointLight_Root(t *testing.T) {
	light := NewPointLight(core.NewVec3(1, 2, 3), core.NewVec3(5, 5, 5))
	node := light.Sample(testInfo(), 0.3, 0.6, 0.9)

	if node.Kind() != path.LightKind {
		t.Fatalf("Expected light node, got %v", node.Kind())
	}
	if node.Position() != light.Position {
		t.Errorf("Expected position %v, got %v", light.Position, node.Position())
	}
	if node.Hittable() {
		t.Error("Expected point light to be unhittable")
	}
	if !node.Normal().IsZero() {
		t.Errorf("Expected zero normal, got %v", node.Normal())
	}
	if node.Weight() != core.NewVec3(1, 1, 1) {
		t.Errorf("Expected unit weight, got %v", node.Weight())
	}

	v := core.NewVec3(0, 1, 0)
	if got := node.Scatter(v); got != light.Intensity {
		t.Errorf("Expected intensity %v, got %v", light.Intensity, got)
	}
	if got := node.PDFToward(v); math.Abs(got-1/(4*math.Pi)) > 1e-12 {
		t.Errorf("Expected pdf 1/4π, got %f", got)
	}
}

func TestPointLight_NotOnSurfaces(t *testing.T) {
	light := NewPointLight(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1))
	hit := &core.HitRecord{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0)}

	if got := light.PositionPDF(hit); got != 0 {
		t.Errorf("Expected zero position pdf, got %f", got)
	}
	if got := light.DirectionPDF(hit, core.NewVec3(0, 1, 0)); got != 0 {
		t.Errorf("Expected zero direction pdf, got %f", got)
	}
}

func TestSphereLight_Sample(t *testing.T) {
	emission := core.NewVec3(4, 4, 4)
	light := NewSphereLight(core.NewVec3(0, 2, 0), 0.5, material.NewEmissive(core.Vec3{}, emission))
	random := rand.New(rand.NewSource(11))

	for i := 0; i < 100; i++ {
		node := light.Sample(testInfo(), random.Float64(), random.Float64(), random.Float64())

		if d := node.Position().Subtract(light.Center).Length(); math.Abs(d-0.5) > 1e-9 {
			t.Fatalf("Expected point on the sphere, got distance %f", d)
		}
		if !node.Hittable() {
			t.Fatal("Expected sphere light to be hittable")
		}
		if math.Abs(node.PDF()-1/light.Area()) > 1e-12 {
			t.Fatalf("Expected area pdf %f, got %f", 1/light.Area(), node.PDF())
		}

		outward := node.Normal()
		if got := node.Scatter(outward); got != emission {
			t.Fatalf("Expected emission %v outward, got %v", emission, got)
		}
		if got := node.Scatter(outward.Negate()); !got.IsZero() {
			t.Fatalf("Expected no emission inward, got %v", got)
		}
		if got := node.PDFToward(outward); math.Abs(got-1/math.Pi) > 1e-12 {
			t.Fatalf("Expected pdf 1/π, got %f", got)
		}
	}
}

func TestSphereLight_PDFsMatchHits(t *testing.T) {
	light := NewSphereLight(core.NewVec3(0, 0, 0), 1, material.NewEmissive(core.Vec3{}, core.NewVec3(1, 1, 1)))

	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
	hit, ok := light.Hit(ray, 1e-4, math.Inf(1))
	if !ok {
		t.Fatal("Expected ray to hit the light")
	}

	if got := light.PositionPDF(hit); math.Abs(got-1/(4*math.Pi)) > 1e-12 {
		t.Errorf("Expected position pdf 1/4π, got %f", got)
	}
	if got := light.DirectionPDF(hit, core.NewVec3(0, 0, 1)); math.Abs(got-1/math.Pi) > 1e-12 {
		t.Errorf("Expected direction pdf 1/π, got %f", got)
	}
	if got := light.DirectionPDF(hit, core.NewVec3(0, 0, -1)); got != 0 {
		t.Errorf("Expected zero pdf into the surface, got %f", got)
	}

	other := &core.HitRecord{Point: hit.Point, Normal: hit.Normal, FrontFace: true}
	if got := light.PositionPDF(other); got != 0 {
		t.Errorf("Expected zero pdf for another shape, got %f", got)
	}
}
