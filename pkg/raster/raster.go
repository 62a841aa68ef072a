package raster

import (
	"image"
	"image/color"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
)

// Raster is a grid of accumulated colour values, row-major from the top-left.
// A raster is owned by one writer at a time; callers serialise access.
type Raster struct {
	Width  int
	Height int
	pixels []core.Vec3
}

// New creates a black raster
func New(width, height int) *Raster {
	return &Raster{
		Width:  width,
		Height: height,
		pixels: make([]core.Vec3, width*height),
	}
}

func (r *Raster) index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return 0, false
	}
	return y*r.Width + x, true
}

// At returns the pixel at (x, y); zero outside the raster
func (r *Raster) At(x, y int) core.Vec3 {
	if i, ok := r.index(x, y); ok {
		return r.pixels[i]
	}
	return core.Vec3{}
}

func (r *Raster) Set(x, y int, c core.Vec3) {
	if i, ok := r.index(x, y); ok {
		r.pixels[i] = c
	}
}

func (r *Raster) Add(x, y int, c core.Vec3) {
	if i, ok := r.index(x, y); ok {
		r.pixels[i] = r.pixels[i].Add(c)
	}
}

// PixelAt maps an image point in [0,1)² to the pixel containing it
func (r *Raster) PixelAt(p core.Vec2) (int, int, bool) {
	if p.X < 0 || p.Y < 0 || p.X >= 1 || p.Y >= 1 {
		return 0, 0, false
	}
	return int(p.X * float64(r.Width)), int(p.Y * float64(r.Height)), true
}

// AddPoint adds c to the pixel containing image point p, ignoring points off the image
func (r *Raster) AddPoint(p core.Vec2, c core.Vec3) {
	if x, y, ok := r.PixelAt(p); ok {
		r.Add(x, y, c)
	}
}

// Merge adds every pixel of other into r
func (r *Raster) Merge(other *Raster) {
	for i := range r.pixels {
		r.pixels[i] = r.pixels[i].Add(other.pixels[i])
	}
}

// Blend sets r to r·(1-alpha) + other·alpha
func (r *Raster) Blend(other *Raster, alpha float64) {
	for i := range r.pixels {
		r.pixels[i] = r.pixels[i].Multiply(1 - alpha).Add(other.pixels[i].Multiply(alpha))
	}
}

func (r *Raster) Scale(k float64) {
	for i := range r.pixels {
		r.pixels[i] = r.pixels[i].Multiply(k)
	}
}

func (r *Raster) Clone() *Raster {
	clone := New(r.Width, r.Height)
	copy(clone.pixels, r.pixels)
	return clone
}

// SameSize reports whether two rasters can be merged
func (r *Raster) SameSize(other *Raster) bool {
	return other != nil && r.Width == other.Width && r.Height == other.Height
}

// Image converts the raster to 8-bit colour after scaling by exposure
func (r *Raster) Image(exposure float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			img.SetRGBA(x, y, toColor(r.At(x, y).Multiply(exposure)))
		}
	}
	return img
}

// toColor converts a Vec3 color to RGBA with clamping and gamma correction
func toColor(c core.Vec3) color.RGBA {
	c = c.Clamp(0.0, 1.0).GammaCorrect(2.0)
	return color.RGBA{
		R: uint8(255 * c.X),
		G: uint8(255 * c.Y),
		B: uint8(255 * c.Z),
		A: 255,
	}
}
