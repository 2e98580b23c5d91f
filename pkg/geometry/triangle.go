package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Triangle is a polygon with exactly three vertices
type Triangle struct {
	*Polygon
}

// NewTriangle creates a triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, opts ...Option) (*Triangle, error) {
	polygon, err := NewPolygon([]core.Vec3{v0, v1, v2}, opts...)
	if err != nil {
		return nil, err
	}
	return &Triangle{Polygon: polygon}, nil
}

// Intersect reports the triangle itself as the hit surface
func (t *Triangle) Intersect(ray core.Ray, maxDistance float64) []Intersection {
	hits := t.Polygon.Intersect(ray, maxDistance)
	for i := range hits {
		hits[i].Surface = t
	}
	return hits
}
