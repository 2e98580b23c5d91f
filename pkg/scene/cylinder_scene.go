package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewCylinderScene creates a simple scene with cylinders in different orientations
func NewCylinderScene() *Scene {
	s := New("cylinders")
	s.Background = core.NewColor(0.7, 0.8, 0.9)
	s.Ambient = must(lights.NewUniformAmbient(core.NewColor(1, 1, 1), 0.2))
	s.Camera = CameraSetup{
		Location:   core.NewVec3(0, 1.5, 5),
		Forward:    core.NewVec3(0, 0, -1),
		Up:         core.NewVec3(0, 1, 0),
		ViewWidth:  3.2,
		ViewHeight: 1.8,
		Distance:   2,
	}
	s.SamplingConfig = SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 4,
		MaxDepth:        8,
	}

	gray := material.New().WithDiffuse(0.5)
	red := material.New().WithDiffuseColor(core.NewVec3(0.8, 0.2, 0.2)).WithSpecular(0.3).WithShininess(30)
	blue := material.New().WithDiffuseColor(core.NewVec3(0.2, 0.2, 0.8)).WithSpecular(0.3).WithShininess(30)
	gold := material.New().WithDiffuseColor(core.NewVec3(0.4, 0.3, 0.1)).WithSpecular(0.6).WithShininess(80).
		WithReflection(0.5).WithGlossiness(0.02)
	glass := material.New().WithDiffuse(0.05).WithSpecular(0.6).WithShininess(150).WithTransparency(0.85)

	s.Add(
		must(geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), geometry.WithMaterial(gray))),

		// Right: tall Y-axis cylinder
		must(geometry.NewCylinder(
			core.MustRay(core.NewVec3(1.8, 0, 0), core.NewVec3(0, 1, 0)),
			0.5, 2,
			geometry.WithMaterial(red),
		)),

		// Left: lying along X
		must(geometry.NewCylinder(
			core.MustRay(core.NewVec3(-2.5, 0.3, 0), core.NewVec3(1, 0, 0)),
			0.3, 1.5,
			geometry.WithMaterial(blue),
		)),

		// Center: tilted toward the camera
		must(geometry.NewCylinder(
			core.MustRay(core.NewVec3(-0.3, 1.0, -1.5), core.NewVec3(0.3, 0.2, 3.5)),
			0.35, 2.5,
			geometry.WithMaterial(gold),
		)),

		// Glass cylinder in front
		must(geometry.NewCylinder(
			core.MustRay(core.NewVec3(0.6, 0, 1), core.NewVec3(0, 1, 0)),
			0.25, 0.8,
			geometry.WithMaterial(glass),
		)),
	)

	s.AddLight(
		must(lights.NewPoint(
			core.NewColor(0.9, 0.9, 0.8),
			core.NewVec3(2, 5, 3),
			lights.WithAttenuation(1, 0.02, 0.01),
			lights.WithRadius(0.5),
		)),
		must(lights.NewDirectional(core.NewColor(0.25, 0.25, 0.3), core.NewVec3(1, -1, -1))),
	)

	return s
}
