package scene

import (
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

func TestScene_GetPrimitiveCount(t *testing.T) {
	s := New("test")
	if s.GetPrimitiveCount() != 0 {
		t.Errorf("Expected empty scene, got %d primitives", s.GetPrimitiveCount())
	}

	inner := geometry.NewGroup(
		must(geometry.NewSphere(core.NewVec3(0, 0, -5), 1)),
		must(geometry.NewSphere(core.NewVec3(3, 0, -5), 1)),
	)
	s.Add(inner, must(geometry.NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0))))

	if got := s.GetPrimitiveCount(); got != 3 {
		t.Errorf("Expected 3 primitives, got %d", got)
	}
}

func TestScene_Intersect(t *testing.T) {
	s := New("test")
	ray := core.MustRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if hits := s.Intersect(ray, 100); hits != nil {
		t.Errorf("Expected nil from empty scene, got %v", hits)
	}

	s.Add(must(geometry.NewSphere(core.NewVec3(0, 0, -5), 1)))
	if hits := s.Intersect(ray, 100); len(hits) != 2 {
		t.Errorf("Expected 2 hits, got %d", len(hits))
	}
	if hits := s.Intersect(ray, 5); len(hits) != 1 {
		t.Errorf("Expected 1 hit before the center, got %d", len(hits))
	}
}

func TestMust_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic")
		}
	}()
	must(geometry.NewSphere(core.NewVec3(0, 0, 0), -1))
}
