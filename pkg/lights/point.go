package lights

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Attenuation holds the constant, linear and quadratic fall-off coefficients
type Attenuation struct {
	KC, KL, KQ float64
}

// Validate rejects coefficients that could make the denominator zero or negative
func (a Attenuation) Validate() error {
	if a.KC < 0 || a.KL < 0 || a.KQ < 0 || (a.KC == 0 && a.KL == 0 && a.KQ == 0) {
		return fmt.Errorf("%w, got %+v", ErrInvalidAttenuation, a)
	}
	return nil
}

// factor returns kC + kL·d + kQ·d²
func (a Attenuation) factor(d float64) float64 {
	return a.KC + a.KL*d + a.KQ*d*d
}

// options collects the optional settings shared by point and spot lights
type options struct {
	attenuation Attenuation
	radius      float64
	narrowness  float64
}

// Option configures a point or spot light
type Option func(*options)

// WithAttenuation sets the fall-off coefficients (default 1, 0, 0)
func WithAttenuation(kC, kL, kQ float64) Option {
	return func(o *options) {
		o.attenuation = Attenuation{KC: kC, KL: kL, KQ: kQ}
	}
}

// WithRadius gives the light a disc of the given radius for soft shadows
func WithRadius(radius float64) Option {
	return func(o *options) {
		o.radius = radius
	}
}

// WithNarrowness sets the spot beam exponent. Ignored by point lights.
func WithNarrowness(narrowness float64) Option {
	return func(o *options) {
		o.narrowness = narrowness
	}
}

func newOptions(opts []Option) (options, error) {
	o := options{attenuation: Attenuation{KC: 1}, narrowness: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.attenuation.Validate(); err != nil {
		return options{}, err
	}
	if o.radius < 0 {
		return options{}, fmt.Errorf("%w, got %f", ErrInvalidRadius, o.radius)
	}
	if o.narrowness < 1 {
		return options{}, fmt.Errorf("%w, got %f", ErrInvalidNarrowness, o.narrowness)
	}
	return o, nil
}

// Point is an omnidirectional light whose intensity falls off with distance
type Point struct {
	intensity   core.Vec3
	position    core.Vec3
	attenuation Attenuation
	radius      float64
}

// NewPoint creates a point light
func NewPoint(intensity, position core.Vec3, opts ...Option) (*Point, error) {
	if !validIntensity(intensity) {
		return nil, fmt.Errorf("point light: %w, got %v", ErrInvalidIntensity, intensity)
	}
	o, err := newOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("point light: %w", err)
	}
	return &Point{
		intensity:   intensity,
		position:    position,
		attenuation: o.attenuation,
		radius:      o.radius,
	}, nil
}

// Type returns LightTypePoint
func (p *Point) Type() LightType { return LightTypePoint }

// Position returns the light center
func (p *Point) Position() core.Vec3 {
	return p.position
}

// Intensity divides the light color by the attenuation at the point's distance
func (p *Point) Intensity(point core.Vec3) core.Vec3 {
	return p.intensity.Multiply(1 / p.attenuation.factor(p.Distance(point)))
}

// DirectionTo returns the unit vector from point to the light.
// At the light position itself there is no direction and zero is returned.
func (p *Point) DirectionTo(point core.Vec3) core.Vec3 {
	return p.position.Subtract(point).Normalize()
}

// Distance returns the distance from point to the light center
func (p *Point) Distance(point core.Vec3) float64 {
	return p.position.Distance(point)
}

// Radius returns the emitting disc radius used for soft shadows
func (p *Point) Radius() float64 {
	return p.radius
}
