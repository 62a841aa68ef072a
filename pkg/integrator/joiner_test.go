package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/lens"
	"github.com/df07/go-metropolis-raytracer/pkg/path"
	"github.com/df07/go-metropolis-raytracer/pkg/random"
	"github.com/df07/go-metropolis-raytracer/pkg/raster"
	"github.com/df07/go-metropolis-raytracer/pkg/scene"
)

func newTestScene(t *testing.T, build scene.Builder) *scene.Scene {
	t.Helper()
	sc, err := build(1)
	if err != nil {
		t.Fatalf("Failed to build scene: %v", err)
	}
	return sc
}

func newSingle(t *testing.T, lightDepth, eyeDepth int) *SingleContributionStrategy {
	t.Helper()
	s, err := NewSingleContributionStrategy(lightDepth, eyeDepth)
	if err != nil {
		t.Fatalf("Failed to create strategy: %v", err)
	}
	return s
}

func TestContributionList(t *testing.T) {
	var list ContributionList
	list.Add(Contribution{Point: core.NewVec2(0.1, 0.1), Color: core.NewVec3(1, 1, 1)})
	list.Add(Contribution{Point: core.NewVec2(0.9, 0.9), Color: core.NewVec3(2, 2, 2)})
	list.Add(Contribution{Point: core.NewVec2(1.5, 0.5), Color: core.NewVec3(4, 4, 4)})

	if got := list.Luminance(); math.Abs(got-7) > 1e-9 {
		t.Errorf("Expected luminance 7, got %f", got)
	}

	r := raster.New(2, 2)
	list.Record(r, 0.5)
	if got := r.At(0, 0); math.Abs(got.X-0.5) > 1e-12 {
		t.Errorf("Expected 0.5 at top left, got %v", got)
	}
	if got := r.At(1, 1); math.Abs(got.X-1) > 1e-12 {
		t.Errorf("Expected 1 at bottom right, got %v", got)
	}
	if got := r.At(1, 0); !got.IsZero() {
		t.Errorf("Expected off-image contribution to be dropped, got %v", got)
	}
}

// The point light sits at the eye, so joining it to the first eye hit gives
// albedo·I/π·cosθ/t² = 2·cosθ/t² for the sphere scene
func TestJoiner_EyePathJoinedToPointLight(t *testing.T) {
	sc := newTestScene(t, scene.NewSphereScene)
	pinhole := sc.Lens().(*lens.Pinhole)
	direct := NewDirect(sc, newSingle(t, 1, 2), path.RGB{})

	points := []core.Vec2{
		core.NewVec2(0.5, 0.5),
		core.NewVec2(0.4, 0.55),
		core.NewVec2(0.3, 0.3),
	}
	for _, p := range points {
		dir := pinhole.Direction(p)
		hit, ok := sc.Intersect(core.NewRay(core.NewVec3(0, 0, 0), dir))
		if !ok {
			t.Fatalf("Expected the ray through %v to hit the sphere", p)
		}
		expected := 2 * math.Abs(hit.Normal.Dot(dir)) / (hit.T * hit.T)

		contributions := direct.Sample(p, random.NewSource(1))
		if len(contributions) != 1 {
			t.Fatalf("Expected one contribution for %v, got %d", p, len(contributions))
		}
		got := contributions[0]
		if got.Point != p {
			t.Errorf("Expected contribution at %v, got %v", p, got.Point)
		}
		if math.Abs(got.Color.X-expected) > 1e-3 || math.Abs(got.Color.Z-expected) > 1e-3 {
			t.Errorf("Expected %f at %v, got %v", expected, p, got.Color)
		}
	}

	centre := direct.Sample(core.NewVec2(0.5, 0.5), random.NewSource(1))
	if math.Abs(centre[0].Color.Y-0.5) > 1e-3 {
		t.Errorf("Expected 0.5 at the image centre, got %v", centre[0].Color)
	}
}

func TestJoiner_LightTracingGoesToSink(t *testing.T) {
	sc := newTestScene(t, scene.NewSphereScene)
	joiner := NewJoiner(newSingle(t, 2, 1))
	strategy := joiner.Strategy
	src := random.NewSource(7)

	sunk := 0
	for i := 0; i < 2000; i++ {
		info := path.NewInfo(sc, core.NewVec3(1, 1, 1))
		eyeTail := strategy.TraceEyePath(sc.Lens(), core.NewVec2(0.5, 0.5), info, src)
		lightTail := strategy.TraceLightPath(sc.Light(), info, src)

		var sink ContributionList
		score := joiner.Join(lightTail, eyeTail, 1, &sink)
		if !score.IsZero() {
			t.Fatalf("Expected light tracing to leave the eye point empty, got %v", score)
		}
		for _, c := range sink {
			if c.Point.X < 0 || c.Point.X >= 1 || c.Point.Y < 0 || c.Point.Y >= 1 {
				t.Errorf("Expected contribution on the image, got %v", c.Point)
			}
			if c.Color.X <= 0 {
				t.Errorf("Expected positive contribution, got %v", c.Color)
			}
		}
		sunk += len(sink)
	}

	if sunk == 0 {
		t.Error("Expected some light paths to reach the lens")
	}
}

func TestJoiner_EyePathLandsOnLight(t *testing.T) {
	sc := newTestScene(t, scene.NewCornellScene)
	pinhole := sc.Lens().(*lens.Pinhole)
	direct := NewDirect(sc, newSingle(t, 0, 2), path.RGB{})

	p, ok := pinhole.Project(core.NewVec3(278, 470, 278))
	if !ok {
		t.Fatal("Expected the light to be in view")
	}

	contributions := direct.Sample(p, random.NewSource(1))
	if len(contributions) != 1 {
		t.Fatalf("Expected one contribution, got %d", len(contributions))
	}
	got := contributions[0].Color
	if got.Subtract(core.NewVec3(12, 12, 12)).Length() > 1e-9 {
		t.Errorf("Expected the emitted radiance (12,12,12), got %v", got)
	}

	// Pointing at the floor sees nothing without a join
	floor := direct.Sample(core.NewVec2(0.5, 0.95), random.NewSource(1))
	if len(floor) != 0 {
		t.Errorf("Expected no contributions from the floor, got %v", floor)
	}
}

func TestDirect_MISSampleCarriesLight(t *testing.T) {
	sc := newTestScene(t, scene.NewSphereScene)
	mis := newTestMIS(t, BalanceHeuristic)
	direct := NewDirect(sc, mis, path.RGB{})

	contributions := direct.Sample(core.NewVec2(0.5, 0.5), random.NewSource(3))
	if contributions.Luminance() <= 0 {
		t.Errorf("Expected light at the image centre, got %v", contributions)
	}
}
