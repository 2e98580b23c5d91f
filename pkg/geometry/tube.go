package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Tube is an infinite cylinder around an axis ray
type Tube struct {
	Properties
	Axis   core.Ray
	Radius float64
}

// NewTube creates an infinite cylinder
func NewTube(axis core.Ray, radius float64, opts ...Option) (*Tube, error) {
	if radius <= 0 || core.IsZero(radius) {
		return nil, fmt.Errorf("tube: %w, got %f", ErrInvalidRadius, radius)
	}
	props, err := newProperties(opts)
	if err != nil {
		return nil, fmt.Errorf("tube: %w", err)
	}
	return &Tube{Properties: props, Axis: axis, Radius: radius}, nil
}

// Intersect returns the hits with the lateral surface ordered by distance
func (t *Tube) Intersect(ray core.Ray, maxDistance float64) []Intersection {
	var hits []Intersection
	for _, d := range t.roots(ray) {
		if inRange(d, maxDistance) {
			hits = append(hits, Intersection{Surface: t, Point: ray.At(d), Distance: d})
		}
	}
	return hits
}

// roots solves for the ray parameters where the ray is Radius away from the
// axis. The ray and the offset to the axis origin are projected onto the
// plane perpendicular to the axis, which turns the tube into a circle.
func (t *Tube) roots(ray core.Ray) []float64 {
	va := t.Axis.Direction
	perpendicular := func(v core.Vec3) core.Vec3 {
		return v.Subtract(va.Multiply(v.Dot(va)))
	}

	vPerp := perpendicular(ray.Direction)
	if vPerp.IsZero() {
		// Parallel to the axis
		return nil
	}
	dpPerp := perpendicular(ray.Origin.Subtract(t.Axis.Origin))

	// Quadratic equation coefficients: at² + bt + c = 0
	a := vPerp.LengthSquared()
	b := 2 * vPerp.Dot(dpPerp)
	c := dpPerp.LengthSquared() - t.Radius*t.Radius

	discriminant := core.AlignZero(b*b - 4*a*c)
	if discriminant < 0 {
		return nil
	}
	if discriminant == 0 {
		return []float64{-b / (2 * a)}
	}

	sqrtD := math.Sqrt(discriminant)
	return []float64{(-b - sqrtD) / (2 * a), (-b + sqrtD) / (2 * a)}
}

// Normal points from the axis to the point, perpendicular to the axis
func (t *Tube) Normal(point core.Vec3) core.Vec3 {
	along := core.AlignZero(point.Subtract(t.Axis.Origin).Dot(t.Axis.Direction))
	center := t.Axis.Origin
	if along != 0 {
		center = t.Axis.At(along)
	}
	return point.Subtract(center).Normalize()
}
