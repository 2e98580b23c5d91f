package scene

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownScene is returned when a scene name is not registered
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a built-in scene for listings
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier, used with Lookup
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"`
}

type registration struct {
	description string
	build       func() *Scene
}

var builtInScenes = map[string]registration{
	"default": {
		description: "Spheres, a triangle and a floor under spot, point and directional lights",
		build:       NewDefaultScene,
	},
	"mirror": {
		description: "Mirror wall, frosted glass, glossy sphere, column, glowing disc and rail",
		build:       NewMirrorScene,
	},
	"sphere-grid": {
		description: "Grid of colored spheres on a reflective floor",
		build:       NewSphereGridScene,
	},
	"cylinders": {
		description: "Capped cylinders in different orientations",
		build:       NewCylinderScene,
	},
}

// Lookup builds a fresh copy of the named built-in scene
func Lookup(name string) (*Scene, error) {
	reg, ok := builtInScenes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, name, strings.Join(Names(), ", "))
	}
	return reg.build(), nil
}

// Names returns the registered scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtInScenes))
	for name := range builtInScenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListScenes returns the built-in scenes sorted by display name
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtInScenes))
	for _, name := range Names() {
		scenes = append(scenes, SceneInfo{
			ID:          name,
			DisplayName: titleCase(name),
			Description: builtInScenes[name].description,
		})
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes
}

// titleCase converts a scene name to title case
// e.g., "sphere-grid" -> "Sphere Grid"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
