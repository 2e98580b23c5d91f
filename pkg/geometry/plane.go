package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Properties
	point  core.Vec3 // A point on the plane
	normal core.Vec3 // Unit normal
}

// NewPlane creates a plane through a point with the given normal
func NewPlane(point, normal core.Vec3, opts ...Option) (*Plane, error) {
	if normal.IsZero() {
		return nil, fmt.Errorf("plane normal: %w", core.ErrZeroVector)
	}
	props, err := newProperties(opts)
	if err != nil {
		return nil, fmt.Errorf("plane: %w", err)
	}
	return &Plane{Properties: props, point: point, normal: normal.Normalize()}, nil
}

// NewPlaneFromPoints creates the plane through three non-collinear points.
// The normal is (p2-p1) x (p3-p2), normalized.
func NewPlaneFromPoints(p1, p2, p3 core.Vec3, opts ...Option) (*Plane, error) {
	if p1.Equals(p2) || p2.Equals(p3) || p1.Equals(p3) {
		return nil, fmt.Errorf("plane: %w", ErrDegeneratePlane)
	}
	normal := p2.Subtract(p1).Cross(p3.Subtract(p2))
	if normal.IsZero() {
		return nil, fmt.Errorf("plane: %w", ErrDegeneratePlane)
	}
	return NewPlane(p1, normal, opts...)
}

// Point returns the reference point of the plane
func (p *Plane) Point() core.Vec3 {
	return p.point
}

// Normal returns the plane normal, which is the same everywhere
func (p *Plane) Normal(core.Vec3) core.Vec3 {
	return p.normal
}

// Intersect returns the single hit with the plane, if any
func (p *Plane) Intersect(ray core.Ray, maxDistance float64) []Intersection {
	t, ok := p.hitDistance(ray, maxDistance)
	if !ok {
		return nil
	}
	return []Intersection{{Surface: p, Point: ray.At(t), Distance: t}}
}

// hitDistance computes the parametric distance to the plane.
// Rays parallel to the plane, or starting on it, never hit.
func (p *Plane) hitDistance(ray core.Ray, maxDistance float64) (float64, bool) {
	denominator := core.AlignZero(p.normal.Dot(ray.Direction))
	if denominator == 0 {
		return 0, false
	}

	t := core.AlignZero(p.normal.Dot(p.point.Subtract(ray.Origin)) / denominator)
	if !inRange(t, maxDistance) {
		return 0, false
	}
	return t, true
}
