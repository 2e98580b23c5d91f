package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

var (
	ErrInvalidRadius   = errors.New("radius must be positive")
	ErrInvalidHeight   = errors.New("height must be positive")
	ErrDegeneratePlane = errors.New("plane points are coincident or collinear")
	ErrInvalidEmission = errors.New("emission must be non-negative")
)

// Intersectable is anything that can be hit by a ray. Both single surfaces
// and composites such as Group implement it.
type Intersectable interface {
	// Intersect returns every hit with Epsilon < distance < maxDistance.
	// A nil slice means the ray misses.
	Intersect(ray core.Ray, maxDistance float64) []Intersection
}

// Surface is a geometric primitive with shading properties
type Surface interface {
	Intersectable
	// Normal returns the unit surface normal at a point on the surface
	Normal(point core.Vec3) core.Vec3
	Emission() core.Vec3
	Material() material.Material
}

// Intersection records where a ray hit which surface
type Intersection struct {
	Surface  Surface
	Point    core.Vec3
	Distance float64 // Parametric distance along the (unit) ray direction
}

// FindIntersections returns every hit along the ray with no distance bound
func FindIntersections(shape Intersectable, ray core.Ray) []Intersection {
	return shape.Intersect(ray, math.Inf(1))
}

// Points returns just the hit points along the ray, or nil on a miss
func Points(shape Intersectable, ray core.Ray) []core.Vec3 {
	hits := FindIntersections(shape, ray)
	if hits == nil {
		return nil
	}
	points := make([]core.Vec3, len(hits))
	for i, hit := range hits {
		points[i] = hit.Point
	}
	return points
}

// Properties holds the emission and material shared by every surface variant
type Properties struct {
	emission core.Vec3
	material material.Material
}

// Emission returns the light the surface emits on its own
func (p *Properties) Emission() core.Vec3 {
	return p.emission
}

// Material returns the reflectance parameters of the surface
func (p *Properties) Material() material.Material {
	return p.material
}

// Option configures the shading properties of a surface at construction
type Option func(*Properties)

// WithEmission sets the emission color
func WithEmission(color core.Vec3) Option {
	return func(p *Properties) {
		p.emission = color
	}
}

// WithMaterial sets the material
func WithMaterial(m material.Material) Option {
	return func(p *Properties) {
		p.material = m
	}
}

func newProperties(opts []Option) (Properties, error) {
	var p Properties
	for _, opt := range opts {
		opt(&p)
	}
	if err := p.material.Validate(); err != nil {
		return Properties{}, err
	}
	if p.emission.X < 0 || p.emission.Y < 0 || p.emission.Z < 0 {
		return Properties{}, fmt.Errorf("%w, got %v", ErrInvalidEmission, p.emission)
	}
	return p, nil
}

// inRange reports whether a parametric distance lies strictly inside (0, maxDistance)
func inRange(t, maxDistance float64) bool {
	return core.AlignZero(t) > 0 && core.AlignZero(t-maxDistance) < 0
}
