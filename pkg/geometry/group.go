package geometry

import "github.com/df07/go-whitted-raytracer/pkg/core"

// Group is a composite that fans one intersection query out over its members
type Group struct {
	members []Intersectable
}

// NewGroup creates a group holding the given members
func NewGroup(members ...Intersectable) *Group {
	g := &Group{}
	g.Add(members...)
	return g
}

// Add appends members. Groups are only mutated while a scene is assembled.
func (g *Group) Add(members ...Intersectable) {
	g.members = append(g.members, members...)
}

// Len returns the number of direct members
func (g *Group) Len() int {
	return len(g.members)
}

// Members returns a copy of the direct members
func (g *Group) Members() []Intersectable {
	return append([]Intersectable(nil), g.members...)
}

// Intersect concatenates member hits in declaration order.
// The result is nil only when every member misses.
func (g *Group) Intersect(ray core.Ray, maxDistance float64) []Intersection {
	var hits []Intersection
	for _, member := range g.members {
		if memberHits := member.Intersect(ray, maxDistance); memberHits != nil {
			hits = append(hits, memberHits...)
		}
	}
	return hits
}
