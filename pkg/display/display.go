package display

import (
	"github.com/df07/go-metropolis-raytracer/pkg/raster"
)

// Display presents partial or final rasters
type Display interface {
	Initialize(width, height int) error

	// SetPixels copies r into the display with its top-left corner at (x, y)
	SetPixels(x, y int, r *raster.Raster) error

	Finish() error
}
