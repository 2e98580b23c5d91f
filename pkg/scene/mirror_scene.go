package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewMirrorScene creates a showcase of reflective and transparent surfaces:
// a mirror wall, a frosted glass panel, a glossy sphere and a capped column
func NewMirrorScene() *Scene {
	s := New("mirror")
	s.Background = core.NewColor(0.02, 0.02, 0.02)
	s.Ambient = must(lights.NewAmbient(core.NewColor(1, 1, 1), core.NewVec3(0.1, 0.1, 0.12)))
	s.Camera = CameraSetup{
		Location:   core.NewVec3(0, 1.5, 8),
		Forward:    core.NewVec3(0, 0, -1),
		Up:         core.NewVec3(0, 1, 0),
		ViewWidth:  6,
		ViewHeight: 4,
		Distance:   5,
	}
	s.SamplingConfig = SamplingConfig{
		Width:           480,
		Height:          320,
		SamplesPerPixel: 9,
		MaxDepth:        10,
	}

	floor := material.New().WithDiffuseColor(core.NewVec3(0.4, 0.35, 0.3)).WithSpecular(0.1).WithShininess(10)
	mirrorWall := material.New().WithDiffuse(0.05).WithSpecular(0.5).WithShininess(200).WithReflection(0.9)
	frosted := material.New().WithDiffuse(0.1).WithSpecular(0.4).WithShininess(80).WithTransparency(0.8).WithBlur(0.1)
	glossy := material.New().WithDiffuseColor(core.NewVec3(0.2, 0.2, 0.6)).WithSpecular(0.6).WithShininess(60).
		WithReflection(0.6).WithGlossiness(0.05)
	column := material.New().WithDiffuseColor(core.NewVec3(0.7, 0.3, 0.2)).WithSpecular(0.3).WithShininess(40)
	rail := material.New().WithDiffuse(0.2).WithSpecular(0.8).WithShininess(300).WithReflection(0.3)

	s.Add(
		must(geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), geometry.WithMaterial(floor))),

		// Mirror wall behind the objects
		must(geometry.NewPolygon([]core.Vec3{
			core.NewVec3(-4, 0, -4),
			core.NewVec3(4, 0, -4),
			core.NewVec3(4, 4, -4),
			core.NewVec3(-4, 4, -4),
		}, geometry.WithMaterial(mirrorWall))),

		// Frosted glass panel in front of the column
		must(geometry.NewPolygon([]core.Vec3{
			core.NewVec3(0.8, 0, 0.5),
			core.NewVec3(2.8, 0, 0.5),
			core.NewVec3(2.8, 2, 0.5),
			core.NewVec3(0.8, 2, 0.5),
		}, geometry.WithMaterial(frosted))),

		must(geometry.NewSphere(core.NewVec3(-1.5, 1, -1), 1, geometry.WithMaterial(glossy))),

		must(geometry.NewCylinder(
			core.MustRay(core.NewVec3(1.8, 0, -1), core.NewVec3(0, 1, 0)),
			0.5, // radius
			2.5, // height
			geometry.WithMaterial(column),
		)),

		// Glowing disc on the floor
		must(geometry.NewCircle(
			core.NewVec3(-1.5, 0.01, 1.5), 0.6, core.NewVec3(0, 1, 0),
			geometry.WithEmission(core.NewColor(0.4, 0.3, 0.05)),
			geometry.WithMaterial(material.New().WithDiffuse(0.3)),
		)),

		// Infinite rail running along the mirror
		must(geometry.NewTube(
			core.MustRay(core.NewVec3(0, 3.5, -3.8), core.NewVec3(1, 0, 0)),
			0.08,
			geometry.WithMaterial(rail),
		)),
	)

	s.AddLight(
		must(lights.NewPoint(
			core.NewColor(1, 1, 0.9),
			core.NewVec3(-2, 5, 4),
			lights.WithAttenuation(1, 0.02, 0.005),
			lights.WithRadius(0.4),
		)),
		must(lights.NewSpot(
			core.NewColor(0.6, 0.6, 1),
			core.NewVec3(4, 4, 2),
			core.NewVec3(-2, -4, -3),
			lights.WithNarrowness(6),
		)),
	)

	return s
}
