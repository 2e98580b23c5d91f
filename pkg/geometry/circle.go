package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Circle is a flat disc
type Circle struct {
	Properties
	Center core.Vec3
	Radius float64
	plane  *Plane
}

// NewCircle creates a disc around center, facing along normal
func NewCircle(center core.Vec3, radius float64, normal core.Vec3, opts ...Option) (*Circle, error) {
	if radius <= 0 || core.IsZero(radius) {
		return nil, fmt.Errorf("circle: %w, got %f", ErrInvalidRadius, radius)
	}
	props, err := newProperties(opts)
	if err != nil {
		return nil, fmt.Errorf("circle: %w", err)
	}
	plane, err := NewPlane(center, normal)
	if err != nil {
		return nil, fmt.Errorf("circle: %w", err)
	}
	return &Circle{Properties: props, Center: center, Radius: radius, plane: plane}, nil
}

// Normal returns the disc normal
func (c *Circle) Normal(core.Vec3) core.Vec3 {
	return c.plane.normal
}

// Intersect hits the backing plane and rejects points on or beyond the rim
func (c *Circle) Intersect(ray core.Ray, maxDistance float64) []Intersection {
	t, ok := c.plane.hitDistance(ray, maxDistance)
	if !ok {
		return nil
	}
	point := ray.At(t)
	if core.AlignZero(point.Subtract(c.Center).LengthSquared()-c.Radius*c.Radius) >= 0 {
		return nil
	}
	return []Intersection{{Surface: c, Point: point, Distance: t}}
}
