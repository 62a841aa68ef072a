package display

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/tiff"

	"github.com/df07/go-metropolis-raytracer/pkg/core"
	"github.com/df07/go-metropolis-raytracer/pkg/raster"
)

func TestFile_UnsupportedFormat(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "out.gif"))
	if err := f.Initialize(4, 4); err == nil {
		t.Error("Expected error for unsupported extension")
	}
}

func TestFile_SetPixelsBounds(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "out.png"))
	if err := f.SetPixels(0, 0, raster.New(1, 1)); err == nil {
		t.Error("Expected error before Initialize")
	}
	if err := f.Initialize(4, 4); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := f.SetPixels(3, 3, raster.New(2, 2)); err == nil {
		t.Error("Expected error for block outside the display")
	}
	if err := f.SetPixels(2, 2, raster.New(2, 2)); err != nil {
		t.Errorf("Expected block to fit, got %v", err)
	}
}

func TestFile_WritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "renders", "out.png")
	f := NewFile(path)
	if err := f.Initialize(4, 3); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	block := raster.New(2, 1)
	block.Set(0, 0, core.NewVec3(1, 1, 1))
	if err := f.SetPixels(1, 2, block); err != nil {
		t.Fatalf("SetPixels failed: %v", err)
	}
	if err := f.Finish(); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Failed to decode png: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Fatalf("Expected 4x3 image, got %v", img.Bounds())
	}
	if r, _, _, _ := img.At(1, 2).RGBA(); r != 0xffff {
		t.Errorf("Expected white pixel at (1,2), got red %d", r)
	}
	if r, _, _, _ := img.At(0, 0).RGBA(); r != 0 {
		t.Errorf("Expected black pixel at (0,0), got red %d", r)
	}
}

func TestFile_WritesScaledTIFF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tiff")
	f := NewFile(path)
	f.Scale = 2
	if err := f.Initialize(3, 2); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := f.Finish(); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer file.Close()

	img, err := tiff.Decode(file)
	if err != nil {
		t.Fatalf("Failed to decode tiff: %v", err)
	}
	if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 4 {
		t.Errorf("Expected 6x4 image, got %v", img.Bounds())
	}
}

func TestFile_RewriteOnFullFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.bmp")
	f := NewFile(path)
	f.Rewrite = true
	if err := f.Initialize(2, 2); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if err := f.SetPixels(0, 0, raster.New(1, 1)); err != nil {
		t.Fatalf("SetPixels failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("Expected no file after a partial update, got %v", err)
	}

	if err := f.SetPixels(0, 0, raster.New(2, 2)); err != nil {
		t.Fatalf("SetPixels failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected file after a full-frame update, got %v", err)
	}
}
