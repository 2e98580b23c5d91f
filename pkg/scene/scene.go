package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

// Scene contains all the elements needed for rendering.
// It is mutated only while it is being assembled and is read-only during a render.
type Scene struct {
	Name           string
	Background     core.Vec3       // Color of rays that hit nothing
	Ambient        lights.Ambient  // Uniform light added through each surface's kD
	Geometries     *geometry.Group // Every surface in the scene
	Lights         []lights.Light  // Direct light sources
	Camera         CameraSetup     // Suggested viewpoint
	SamplingConfig SamplingConfig
}

// CameraSetup is the viewpoint a scene was composed for
type CameraSetup struct {
	Location   core.Vec3
	Forward    core.Vec3
	Up         core.Vec3
	ViewWidth  float64 // View-plane size in world units
	ViewHeight float64
	Distance   float64 // Distance from the camera to the view plane
}

// SamplingConfig contains the rendering defaults for a scene
type SamplingConfig struct {
	Width           int // Image width in pixels
	Height          int // Image height in pixels
	SamplesPerPixel int
	MaxDepth        int // Maximum recursion depth for reflection and refraction
}

// New creates an empty scene with a black background and no ambient light
func New(name string) *Scene {
	return &Scene{
		Name:       name,
		Geometries: geometry.NewGroup(),
		Camera: CameraSetup{
			Location:   core.NewVec3(0, 0, 0),
			Forward:    core.NewVec3(0, 0, -1),
			Up:         core.NewVec3(0, 1, 0),
			ViewWidth:  2,
			ViewHeight: 2,
			Distance:   1,
		},
		SamplingConfig: SamplingConfig{
			Width:           200,
			Height:          200,
			SamplesPerPixel: 1,
			MaxDepth:        10,
		},
	}
}

// Add appends surfaces or groups of surfaces
func (s *Scene) Add(shapes ...geometry.Intersectable) {
	s.Geometries.Add(shapes...)
}

// AddLight appends light sources
func (s *Scene) AddLight(ls ...lights.Light) {
	s.Lights = append(s.Lights, ls...)
}

// Intersect finds every hit with the scene geometry
func (s *Scene) Intersect(ray core.Ray, maxDistance float64) []geometry.Intersection {
	return s.Geometries.Intersect(ray, maxDistance)
}

// GetPrimitiveCount returns the number of surfaces, counting into nested groups
func (s *Scene) GetPrimitiveCount() int {
	return countPrimitives(s.Geometries)
}

func countPrimitives(shape geometry.Intersectable) int {
	switch obj := shape.(type) {
	case *geometry.Group:
		count := 0
		for _, member := range obj.Members() {
			count += countPrimitives(member)
		}
		return count
	default:
		return 1
	}
}

// must unwraps constructors used by the built-in scenes. Their arguments are
// constants, so an error here is a programming mistake.
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
