package core

import "fmt"

// RayOffset is how far secondary ray origins are pushed off a surface
// to keep them from re-intersecting the surface they start on
const RayOffset = 0.1

// Ray represents a ray with an origin and a unit-length direction.
// The direction is normalized once at construction and never re-derived.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a ray, normalizing the direction.
// A zero direction is rejected with ErrZeroVector.
func NewRay(origin, direction Vec3) (Ray, error) {
	if direction.IsZero() {
		return Ray{}, fmt.Errorf("ray direction: %w", ErrZeroVector)
	}
	return Ray{Origin: origin, Direction: direction.Normalize()}, nil
}

// MustRay is like NewRay but panics on a zero direction.
// Only use it where the direction is known to be non-zero.
func MustRay(origin, direction Vec3) Ray {
	ray, err := NewRay(origin, direction)
	if err != nil {
		panic(err)
	}
	return ray
}

// NewRayOffset creates a ray starting at point moved RayOffset along the normal,
// on the same side of the surface as the direction
func NewRayOffset(point, direction, normal Vec3) Ray {
	nd := AlignZero(normal.Dot(direction))
	origin := point
	if nd > 0 {
		origin = point.Add(normal.Multiply(RayOffset))
	} else if nd < 0 {
		origin = point.Add(normal.Multiply(-RayOffset))
	}
	return MustRay(origin, direction)
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}
