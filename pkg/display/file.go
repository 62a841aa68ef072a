package display

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/tiff"

	"github.com/df07/go-metropolis-raytracer/pkg/raster"
)

// File collects pixels and writes them to an image file on Finish. The format
// is chosen from the file extension: .png, .tif/.tiff or .bmp.
type File struct {
	Path     string
	Exposure float64 // Multiplier applied before tone mapping
	Scale    int     // Integer upscaling factor; 0 or 1 keeps the raster size
	Caption  string  // Optional text stamped in the bottom-left corner
	Rewrite  bool    // Write the file after every full-frame update, not only on Finish

	raster *raster.Raster
}

// NewFile creates a file display writing to path
func NewFile(path string) *File {
	return &File{Path: path, Exposure: 1}
}

func (f *File) Initialize(width, height int) error {
	if _, err := encoderFor(f.Path); err != nil {
		return err
	}
	f.raster = raster.New(width, height)
	return nil
}

// SetPixels copies r into the collected image with its top-left corner at (x, y)
func (f *File) SetPixels(x, y int, r *raster.Raster) error {
	if f.raster == nil {
		return fmt.Errorf("display not initialized")
	}
	if x < 0 || y < 0 || x+r.Width > f.raster.Width || y+r.Height > f.raster.Height {
		return fmt.Errorf("%dx%d block at (%d,%d) exceeds %dx%d display",
			r.Width, r.Height, x, y, f.raster.Width, f.raster.Height)
	}
	for j := 0; j < r.Height; j++ {
		for i := 0; i < r.Width; i++ {
			f.raster.Set(x+i, y+j, r.At(i, j))
		}
	}
	if f.Rewrite && x == 0 && y == 0 && f.raster.SameSize(r) {
		return f.write()
	}
	return nil
}

// Finish encodes the collected image and writes it to Path
func (f *File) Finish() error {
	if f.raster == nil {
		return fmt.Errorf("display not initialized")
	}
	return f.write()
}

func (f *File) write() error {
	encode, err := encoderFor(f.Path)
	if err != nil {
		return err
	}

	img := f.Image()

	if dir := filepath.Dir(f.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	file, err := os.Create(f.Path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", f.Path, err)
	}
	defer file.Close()

	if err := encode(file, img); err != nil {
		return fmt.Errorf("encoding %s: %w", f.Path, err)
	}
	return file.Close()
}

// Image returns the tone-mapped image as it would be written
func (f *File) Image() image.Image {
	var img draw.Image = f.raster.Image(f.Exposure)
	if f.Scale > 1 {
		bounds := img.Bounds()
		scaled := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*f.Scale, bounds.Dy()*f.Scale))
		draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)
		img = scaled
	}
	if f.Caption != "" {
		drawer := &font.Drawer{
			Dst:  img,
			Src:  image.White,
			Face: basicfont.Face7x13,
			Dot:  fixed.P(4, img.Bounds().Dy()-4),
		}
		drawer.DrawString(f.Caption)
	}
	return img
}

type encoder func(w *os.File, img image.Image) error

func encoderFor(path string) (encoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return func(w *os.File, img image.Image) error { return png.Encode(w, img) }, nil
	case ".tif", ".tiff":
		return func(w *os.File, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	case ".bmp":
		return func(w *os.File, img image.Image) error { return bmp.Encode(w, img) }, nil
	default:
		return nil, fmt.Errorf("unsupported image format %q", filepath.Ext(path))
	}
}
