package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestSampleCosineHemisphere_StaysAboveSurface(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	normals := []Vec3{
		NewVec3(0, 1, 0),
		NewVec3(1, 0, 0),
		NewVec3(0, 0, -1),
		NewVec3(1, 1, 1).Normalize(),
	}

	for _, normal := range normals {
		for i := 0; i < 1000; i++ {
			dir := SampleCosineHemisphere(normal, NewVec2(random.Float64(), random.Float64()))
			if dir.Dot(normal) < -1e-12 {
				t.Fatalf("Expected direction above surface for normal %v, got %v", normal, dir)
			}
			if math.Abs(dir.Length()-1) > 1e-9 {
				t.Fatalf("Expected unit direction, got length %f", dir.Length())
			}
		}
	}
}

func TestSampleCosineHemisphere_MeanCosine(t *testing.T) {
	// E[cos θ] under a cosine-weighted distribution is 2/3
	random := rand.New(rand.NewSource(7))
	normal := NewVec3(0, 0, 1)
	const n = 200000

	sum := 0.0
	for i := 0; i < n; i++ {
		sum += SampleCosineHemisphere(normal, NewVec2(random.Float64(), random.Float64())).Dot(normal)
	}

	if mean := sum / n; math.Abs(mean-2.0/3.0) > 0.01 {
		t.Errorf("Expected mean cosine 2/3, got %f", mean)
	}
}

func TestSampleOnUnitSphere_IsUnit(t *testing.T) {
	random := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		dir := SampleOnUnitSphere(NewVec2(random.Float64(), random.Float64()))
		if math.Abs(dir.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit direction, got length %f", dir.Length())
		}
	}
}

func TestReflect(t *testing.T) {
	normal := NewVec3(0, 1, 0)
	w := NewVec3(1, 1, 0).Normalize()
	got := Reflect(w, normal)
	expected := NewVec3(-1, 1, 0).Normalize()

	if got.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}
