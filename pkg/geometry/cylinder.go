package geometry

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Cylinder is a closed finite cylinder: a tube between two cap discs.
// The axis origin is the center of the bottom cap.
type Cylinder struct {
	Properties
	Height  float64
	lateral *Tube
	bottom  *Circle
	top     *Circle
}

// NewCylinder creates a capped cylinder of the given height along the axis
func NewCylinder(axis core.Ray, radius, height float64, opts ...Option) (*Cylinder, error) {
	if height <= 0 || core.IsZero(height) {
		return nil, fmt.Errorf("cylinder: %w, got %f", ErrInvalidHeight, height)
	}
	props, err := newProperties(opts)
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}

	lateral, err := NewTube(axis, radius)
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}
	bottom, err := NewCircle(axis.Origin, radius, axis.Direction.Negate())
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}
	top, err := NewCircle(axis.At(height), radius, axis.Direction)
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}

	return &Cylinder{
		Properties: props,
		Height:     height,
		lateral:    lateral,
		bottom:     bottom,
		top:        top,
	}, nil
}

// Axis returns the axis ray starting at the bottom cap center
func (c *Cylinder) Axis() core.Ray {
	return c.lateral.Axis
}

// Radius returns the cylinder radius
func (c *Cylinder) Radius() float64 {
	return c.lateral.Radius
}

// Intersect combines lateral hits between the caps with hits on the caps
func (c *Cylinder) Intersect(ray core.Ray, maxDistance float64) []Intersection {
	var hits []Intersection

	axis := c.lateral.Axis
	for _, d := range c.lateral.roots(ray) {
		if !inRange(d, maxDistance) {
			continue
		}
		point := ray.At(d)
		h := point.Subtract(axis.Origin).Dot(axis.Direction)
		if core.AlignZero(h) <= 0 || core.AlignZero(h-c.Height) >= 0 {
			continue
		}
		hits = append(hits, Intersection{Surface: c, Point: point, Distance: d})
	}

	for _, cap := range [2]*Circle{c.bottom, c.top} {
		for _, hit := range cap.Intersect(ray, maxDistance) {
			hit.Surface = c
			hits = append(hits, hit)
		}
	}

	if len(hits) == 0 {
		return nil
	}
	slices.SortFunc(hits, func(a, b Intersection) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return hits
}

// Normal is the cap normal on either cap and the tube normal elsewhere
func (c *Cylinder) Normal(point core.Vec3) core.Vec3 {
	axis := c.lateral.Axis
	h := core.AlignZero(point.Subtract(axis.Origin).Dot(axis.Direction))
	if h == 0 {
		return c.bottom.plane.normal
	}
	if core.IsZero(h - c.Height) {
		return c.top.plane.normal
	}
	return c.lateral.Normal(point)
}
