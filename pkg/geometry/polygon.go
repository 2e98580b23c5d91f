package geometry

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

var (
	ErrTooFewVertices     = errors.New("polygon needs at least 3 vertices")
	ErrCoincidentVertices = errors.New("polygon has coincident vertices")
	ErrCollinearVertices  = errors.New("polygon has collinear adjacent vertices")
	ErrNotCoplanar        = errors.New("polygon vertices are not coplanar")
	ErrVertexOnEdge       = errors.New("polygon vertex lies on a non-adjacent edge")
	ErrConcave            = errors.New("polygon is not convex")
)

// Polygon is a convex planar polygon given by its vertices in order
type Polygon struct {
	Properties
	vertices []core.Vec3
	plane    *Plane
}

// NewPolygon validates the vertex list and creates a polygon. The vertices
// must be distinct, coplanar and ordered so that they form a strictly convex
// outline (either winding).
func NewPolygon(vertices []core.Vec3, opts ...Option) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("polygon: %w, got %d", ErrTooFewVertices, len(vertices))
	}
	vs := append([]core.Vec3(nil), vertices...)

	normal, err := validatePolygon(vs)
	if err != nil {
		return nil, fmt.Errorf("polygon: %w", err)
	}

	props, err := newProperties(opts)
	if err != nil {
		return nil, fmt.Errorf("polygon: %w", err)
	}

	plane, err := NewPlane(vs[0], normal)
	if err != nil {
		return nil, fmt.Errorf("polygon: %w", err)
	}

	return &Polygon{Properties: props, vertices: vs, plane: plane}, nil
}

// validatePolygon checks the vertex list and returns the unit normal
func validatePolygon(vs []core.Vec3) (core.Vec3, error) {
	n := len(vs)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if vs[i].Equals(vs[j]) {
				return core.Vec3{}, fmt.Errorf("%w: %d and %d", ErrCoincidentVertices, i, j)
			}
		}
	}

	// Normal from the first corner that actually turns
	var normal core.Vec3
	for i := 0; i < n; i++ {
		turn := corner(vs, i)
		if !turn.IsZero() {
			normal = turn.Normalize()
			break
		}
	}
	if normal.IsZero() {
		return core.Vec3{}, ErrCollinearVertices
	}

	for i, v := range vs {
		if !core.IsZero(normal.Dot(v.Subtract(vs[0]))) {
			return core.Vec3{}, fmt.Errorf("%w: vertex %d", ErrNotCoplanar, i)
		}
	}

	// A vertex sitting on an edge it does not belong to
	for i := 0; i < n; i++ {
		a, b := vs[i], vs[(i+1)%n]
		edge := b.Subtract(a)
		for k := 0; k < n; k++ {
			if k == i || k == (i+1)%n {
				continue
			}
			offset := vs[k].Subtract(a)
			if !core.IsZero(edge.Cross(offset).Dot(normal)) {
				continue
			}
			along := offset.Dot(edge) / edge.LengthSquared()
			if along >= 0 && along <= 1 {
				return core.Vec3{}, fmt.Errorf("%w: vertex %d on edge %d", ErrVertexOnEdge, k, i)
			}
		}
	}

	for i := 0; i < n; i++ {
		turn := core.AlignZero(corner(vs, i).Dot(normal))
		if turn == 0 {
			return core.Vec3{}, fmt.Errorf("%w: at vertex %d", ErrCollinearVertices, (i+1)%n)
		}
		if turn < 0 {
			return core.Vec3{}, fmt.Errorf("%w: at vertex %d", ErrConcave, (i+1)%n)
		}
	}

	// Every vertex strictly left of every other edge rules out star shapes
	for i := 0; i < n; i++ {
		a, b := vs[i], vs[(i+1)%n]
		for k := 0; k < n; k++ {
			if k == i || k == (i+1)%n {
				continue
			}
			if core.AlignZero(b.Subtract(a).Cross(vs[k].Subtract(a)).Dot(normal)) <= 0 {
				return core.Vec3{}, fmt.Errorf("%w: vertex %d against edge %d", ErrConcave, k, i)
			}
		}
	}

	return normal, nil
}

// corner returns the cross product of the two edges meeting at vertex i+1
func corner(vs []core.Vec3, i int) core.Vec3 {
	n := len(vs)
	prev, cur, next := vs[i], vs[(i+1)%n], vs[(i+2)%n]
	return cur.Subtract(prev).Cross(next.Subtract(cur))
}

// Vertices returns a copy of the polygon outline
func (p *Polygon) Vertices() []core.Vec3 {
	return append([]core.Vec3(nil), p.vertices...)
}

// Normal returns the polygon normal, which is the same everywhere
func (p *Polygon) Normal(core.Vec3) core.Vec3 {
	return p.plane.normal
}

// Intersect hits the backing plane, then keeps the point only if it is on
// the inner side of every edge
func (p *Polygon) Intersect(ray core.Ray, maxDistance float64) []Intersection {
	t, ok := p.plane.hitDistance(ray, maxDistance)
	if !ok {
		return nil
	}
	point := ray.At(t)
	if !p.contains(point) {
		return nil
	}
	return []Intersection{{Surface: p, Point: point, Distance: t}}
}

// contains reports whether a point on the plane is strictly inside the outline
func (p *Polygon) contains(point core.Vec3) bool {
	n := len(p.vertices)
	sign := 0.0
	for i := 0; i < n; i++ {
		a, b := p.vertices[i], p.vertices[(i+1)%n]
		s := core.AlignZero(b.Subtract(a).Cross(point.Subtract(a)).Dot(p.plane.normal))
		if s == 0 {
			return false
		}
		if sign == 0 {
			sign = s
		} else if sign*s < 0 {
			return false
		}
	}
	return true
}
