package geometry

import (
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func newFixtureGroup(t *testing.T) *Group {
	t.Helper()
	sphere, err := NewSphere(core.NewVec3(2, 0, 0), 2)
	if err != nil {
		t.Fatalf("NewSphere failed: %v", err)
	}
	plane, err := NewPlane(core.NewVec3(1, 1, 0.5), core.NewVec3(0, 0, 1))
	if err != nil {
		t.Fatalf("NewPlane failed: %v", err)
	}
	tri, err := NewTriangle(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0), core.NewVec3(3, 0, 0))
	if err != nil {
		t.Fatalf("NewTriangle failed: %v", err)
	}
	return NewGroup(sphere, plane, tri)
}

func TestGroup_IntersectFixture(t *testing.T) {
	group := newFixtureGroup(t)

	tests := []struct {
		name      string
		origin    core.Vec3
		direction core.Vec3
		want      int
	}{
		{"sphere and plane", core.NewVec3(1, 1, -2), core.NewVec3(0, 0, 1), 3},
		{"every member", core.NewVec3(0.5, 0.5, -2), core.NewVec3(0, 0, 1), 4},
		{"plane only", core.NewVec3(5, 0, -2), core.NewVec3(0, 0, 1), 1},
		{"nothing", core.NewVec3(2.5, -5.5, -2), core.NewVec3(6.5, 10.5, -3), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := Points(group, core.MustRay(tt.origin, tt.direction))
			if len(points) != tt.want {
				t.Fatalf("Expected %d points, got %d", tt.want, len(points))
			}
			if tt.want == 0 && points != nil {
				t.Errorf("Expected nil for a total miss, got %v", points)
			}
		})
	}
}

func TestGroup_DeclarationOrder(t *testing.T) {
	group := newFixtureGroup(t)
	hits := FindIntersections(group, core.MustRay(core.NewVec3(0.5, 0.5, -2), core.NewVec3(0, 0, 1)))
	if len(hits) != 4 {
		t.Fatalf("Expected 4 hits, got %d", len(hits))
	}

	if _, ok := hits[0].Surface.(*Sphere); !ok {
		t.Errorf("Expected sphere first, got %T", hits[0].Surface)
	}
	if _, ok := hits[1].Surface.(*Sphere); !ok {
		t.Errorf("Expected sphere second, got %T", hits[1].Surface)
	}
	if _, ok := hits[2].Surface.(*Plane); !ok {
		t.Errorf("Expected plane third, got %T", hits[2].Surface)
	}
	if _, ok := hits[3].Surface.(*Triangle); !ok {
		t.Errorf("Expected triangle last, got %T", hits[3].Surface)
	}
}

func TestGroup_NestedAndEmpty(t *testing.T) {
	ray := core.MustRay(core.NewVec3(0.5, 0.5, -2), core.NewVec3(0, 0, 1))

	empty := NewGroup()
	if hits := FindIntersections(empty, ray); hits != nil {
		t.Errorf("Expected nil from empty group, got %v", hits)
	}

	outer := NewGroup(empty, newFixtureGroup(t))
	if outer.Len() != 2 {
		t.Errorf("Expected 2 members, got %d", outer.Len())
	}
	if hits := FindIntersections(outer, ray); len(hits) != 4 {
		t.Errorf("Expected 4 hits through nested group, got %d", len(hits))
	}
}
