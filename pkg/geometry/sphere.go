package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Properties
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, opts ...Option) (*Sphere, error) {
	if radius <= 0 || core.IsZero(radius) {
		return nil, fmt.Errorf("sphere: %w, got %f", ErrInvalidRadius, radius)
	}
	props, err := newProperties(opts)
	if err != nil {
		return nil, fmt.Errorf("sphere: %w", err)
	}
	return &Sphere{Properties: props, Center: center, Radius: radius}, nil
}

// Intersect returns the 0, 1 (tangent) or 2 hits ordered by distance
func (s *Sphere) Intersect(ray core.Ray, maxDistance float64) []Intersection {
	// Vector from ray origin to sphere center
	u := s.Center.Subtract(ray.Origin)

	// Starting at the center: the only hit is one radius along the ray
	if u.IsZero() {
		if !inRange(s.Radius, maxDistance) {
			return nil
		}
		return []Intersection{{Surface: s, Point: ray.At(s.Radius), Distance: s.Radius}}
	}

	tm := core.AlignZero(ray.Direction.Dot(u))
	distanceSq := core.AlignZero(u.LengthSquared() - tm*tm)
	thSq := core.AlignZero(s.Radius*s.Radius - distanceSq)
	if thSq < 0 {
		return nil
	}

	if thSq == 0 {
		if !inRange(tm, maxDistance) {
			return nil
		}
		return []Intersection{{Surface: s, Point: ray.At(tm), Distance: tm}}
	}

	th := math.Sqrt(thSq)
	var hits []Intersection
	for _, t := range [2]float64{tm - th, tm + th} {
		if inRange(t, maxDistance) {
			hits = append(hits, Intersection{Surface: s, Point: ray.At(t), Distance: t})
		}
	}
	return hits
}

// Normal returns the outward normal (from center to point)
func (s *Sphere) Normal(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Normalize()
}
