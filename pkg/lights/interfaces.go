package lights

import (
	"errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

var (
	ErrInvalidAttenuation = errors.New("attenuation coefficients must be non-negative and not all zero")
	ErrInvalidNarrowness  = errors.New("spot narrowness must be at least 1")
	ErrInvalidRadius      = errors.New("light radius must be non-negative")
	ErrInvalidIntensity   = errors.New("light intensity must be non-negative")
)

// LightType names the kind of light for listings and inspection
type LightType string

const (
	LightTypeDirectional LightType = "directional"
	LightTypePoint       LightType = "point"
	LightTypeSpot        LightType = "spot"
)

// Light is a source of direct illumination
type Light interface {
	// Type identifies the light kind
	Type() LightType

	// Intensity returns the light color arriving at a point, after attenuation
	Intensity(point core.Vec3) core.Vec3

	// DirectionTo returns the unit direction FROM the point TO the light
	DirectionTo(point core.Vec3) core.Vec3

	// Distance returns how far the light is from a point.
	// Lights at infinity return +Inf.
	Distance(point core.Vec3) float64

	// Radius is the size of the emitting disc. Zero gives hard shadows.
	Radius() float64
}

func validIntensity(c core.Vec3) bool {
	return c.X >= 0 && c.Y >= 0 && c.Z >= 0
}
