package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewVec3(r, g, blue).Clamp(0, 1)
}

// NewSphereGridScene creates a grid of colored spheres on a reflective floor.
// The spheres go in a nested group per row.
func NewSphereGridScene() *Scene {
	s := New("sphere-grid")
	s.Background = core.NewColor(0.5, 0.7, 1.0)
	s.Ambient = must(lights.NewUniformAmbient(core.NewColor(1, 1, 1), 0.1))
	s.Camera = CameraSetup{
		Location:   core.NewVec3(0, 6, 14),
		Forward:    core.NewVec3(0, -0.5, -1),
		Up:         core.NewVec3(0, 1, -0.5),
		ViewWidth:  8,
		ViewHeight: 4.5,
		Distance:   6,
	}
	s.SamplingConfig = SamplingConfig{
		Width:           640,
		Height:          360,
		SamplesPerPixel: 4,
		MaxDepth:        6,
	}

	s.Add(must(geometry.NewPlane(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 1, 0),
		geometry.WithMaterial(material.New().WithDiffuse(0.4).WithReflection(0.3)),
	)))

	gridSize := 8
	targetArea := 9.0
	spacing := targetArea / float64(gridSize-1)
	sphereRadius := spacing * 0.35

	// OKLCH parameters for color variation
	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	for i := 0; i < gridSize; i++ {
		row := geometry.NewGroup()
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0
			z := float64(j)*spacing - targetArea/2.0

			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)
			color := oklchToRGB(lightness, chroma, hue)

			// Alternate mirror-like and matte finishes
			reflection := 0.05 + 0.4*float64((i+j)%3)/2.0
			m := material.New().
				WithDiffuseColor(color.Multiply(0.7)).
				WithSpecular(0.4).
				WithShininess(50).
				WithReflection(reflection)

			row.Add(must(geometry.NewSphere(core.NewVec3(x, sphereRadius, z), sphereRadius, geometry.WithMaterial(m))))
		}
		s.Add(row)
	}

	s.AddLight(
		must(lights.NewPoint(
			core.NewColor(1.2, 1.15, 1.0),
			core.NewVec3(10, 12, 10),
			lights.WithAttenuation(1, 0.01, 0),
			lights.WithRadius(1),
		)),
		must(lights.NewDirectional(core.NewColor(0.3, 0.3, 0.35), core.NewVec3(-1, -2, -1))),
	)

	return s
}
