package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Spot is a point light restricted to a beam.
// Intensity is scaled by max(0, cos θ)^narrowness, θ measured from the beam axis.
type Spot struct {
	Point
	direction  core.Vec3
	narrowness float64
}

// NewSpot creates a spot light at position pointing along direction
func NewSpot(intensity, position, direction core.Vec3, opts ...Option) (*Spot, error) {
	if direction.IsZero() {
		return nil, fmt.Errorf("spot light: %w", core.ErrZeroVector)
	}
	point, err := NewPoint(intensity, position, opts...)
	if err != nil {
		return nil, fmt.Errorf("spot light: %w", err)
	}
	o, err := newOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("spot light: %w", err)
	}
	return &Spot{Point: *point, direction: direction.Normalize(), narrowness: o.narrowness}, nil
}

// Type returns LightTypeSpot
func (s *Spot) Type() LightType { return LightTypeSpot }

// Direction returns the beam axis
func (s *Spot) Direction() core.Vec3 {
	return s.direction
}

// Intensity is zero outside the beam
func (s *Spot) Intensity(point core.Vec3) core.Vec3 {
	cos := core.AlignZero(s.direction.Dot(s.DirectionTo(point).Negate()))
	if cos <= 0 {
		return core.Vec3{}
	}
	return s.Point.Intensity(point).Multiply(math.Pow(cos, s.narrowness))
}
