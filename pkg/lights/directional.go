package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Directional is a light at infinity shining along a fixed direction
type Directional struct {
	intensity core.Vec3
	direction core.Vec3 // Unit direction the light travels in
}

// NewDirectional creates a directional light shining along direction
func NewDirectional(intensity, direction core.Vec3) (*Directional, error) {
	if direction.IsZero() {
		return nil, fmt.Errorf("directional light: %w", core.ErrZeroVector)
	}
	if !validIntensity(intensity) {
		return nil, fmt.Errorf("directional light: %w, got %v", ErrInvalidIntensity, intensity)
	}
	return &Directional{intensity: intensity, direction: direction.Normalize()}, nil
}

// Type returns LightTypeDirectional
func (d *Directional) Type() LightType { return LightTypeDirectional }

// Intensity is the same everywhere
func (d *Directional) Intensity(core.Vec3) core.Vec3 {
	return d.intensity
}

// DirectionTo points back against the light direction
func (d *Directional) DirectionTo(core.Vec3) core.Vec3 {
	return d.direction.Negate()
}

// Distance is always +Inf
func (d *Directional) Distance(core.Vec3) float64 {
	return math.Inf(1)
}

// Radius is zero; directional lights cast hard shadows
func (d *Directional) Radius() float64 {
	return 0
}
