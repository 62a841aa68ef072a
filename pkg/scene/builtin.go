package scene

import (
	"fmt"
	"sort"
)

// Builder creates a scene for an image with the given aspect ratio
type Builder func(aspectRatio float64) (*Scene, error)

// Info describes a built-in scene
type Info struct {
	Name        string
	Description string
	build       Builder
}

var builtins = map[string]Info{
	"sphere": {
		Name:        "sphere",
		Description: "Diffuse sphere lit by a point light at the camera",
		build:       NewSphereScene,
	},
	"cornell": {
		Name:        "cornell",
		Description: "Cornell box with a mirror sphere and a spherical area light",
		build:       NewCornellScene,
	},
}

// List returns the built-in scenes sorted by name
func List() []Info {
	scenes := make([]Info, 0, len(builtins))
	for _, info := range builtins {
		scenes = append(scenes, info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes
}

// Load builds the named scene for a width × height image
func Load(name string, width, height int) (*Scene, error) {
	info, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q", name)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	return info.build(float64(width) / float64(height))
}
