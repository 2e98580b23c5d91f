package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewDefaultScene creates a default scene with spheres, a triangle and a floor
// lit by a soft spot light, a point light and a faint directional light
func NewDefaultScene() *Scene {
	s := New("default")
	s.Background = core.NewColor(0.05, 0.05, 0.1)
	s.Ambient = must(lights.NewUniformAmbient(core.NewColor(1, 1, 1), 0.15))
	s.Camera = CameraSetup{
		Location:   core.NewVec3(0, 1, 6),
		Forward:    core.NewVec3(0, 0, -1),
		Up:         core.NewVec3(0, 1, 0),
		ViewWidth:  4,
		ViewHeight: 3,
		Distance:   4,
	}
	s.SamplingConfig = SamplingConfig{
		Width:           400,
		Height:          300,
		SamplesPerPixel: 4,
		MaxDepth:        10,
	}

	// Create materials
	floor := material.New().WithDiffuse(0.5).WithSpecular(0.2).WithShininess(20).WithReflection(0.1)
	glassy := material.New().WithDiffuse(0.5).WithSpecular(0.5).WithShininess(100).WithTransparency(0.3)
	mirror := material.New().WithDiffuse(0.4).WithSpecular(0.3).WithShininess(30).WithReflection(0.5)
	matte := material.New().WithDiffuseColor(core.NewVec3(0.3, 0.6, 0.3))

	s.Add(
		must(geometry.NewPlane(
			core.NewVec3(0, -1, 0), // point on plane
			core.NewVec3(0, 1, 0),  // normal (up)
			geometry.WithMaterial(floor),
		)),
		must(geometry.NewSphere(
			core.NewVec3(0, 0, -1), 1,
			geometry.WithEmission(core.NewColor(0.1, 0.02, 0.02)),
			geometry.WithMaterial(glassy),
		)),
		must(geometry.NewSphere(
			core.NewVec3(-2, -0.4, -0.5), 0.6,
			geometry.WithMaterial(mirror),
		)),
		must(geometry.NewTriangle(
			core.NewVec3(1.5, -1, 0),
			core.NewVec3(3, -1, -1),
			core.NewVec3(2.2, 1.2, -1.5),
			geometry.WithMaterial(matte),
		)),
	)

	s.AddLight(
		must(lights.NewSpot(
			core.NewColor(1, 0.8, 0.6),
			core.NewVec3(-3, 4, 2),  // position
			core.NewVec3(3, -4, -3), // beam direction
			lights.WithAttenuation(1, 0.01, 0.002),
			lights.WithNarrowness(4),
			lights.WithRadius(0.3),
		)),
		must(lights.NewPoint(
			core.NewColor(0.5, 0.5, 0.6),
			core.NewVec3(3, 3, 3),
			lights.WithAttenuation(1, 0.05, 0),
		)),
		must(lights.NewDirectional(core.NewColor(0.2, 0.2, 0.2), core.NewVec3(0, -1, -1))),
	)

	return s
}
