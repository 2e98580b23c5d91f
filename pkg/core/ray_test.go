package core

import (
	"errors"
	"math"
	"testing"
)

func TestNewRay_NormalizesDirection(t *testing.T) {
	tests := []struct {
		name      string
		direction Vec3
	}{
		{"unit", NewVec3(0, 0, 1)},
		{"long", NewVec3(10, -20, 30)},
		{"short", NewVec3(1e-3, 2e-3, -1e-3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray, err := NewRay(NewVec3(1, 2, 3), tt.direction)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if math.Abs(ray.Direction.Length()-1) > 1e-9 {
				t.Errorf("Expected unit direction, got length %f", ray.Direction.Length())
			}
			if !ray.Direction.Equals(tt.direction.Normalize()) {
				t.Errorf("Expected %v, got %v", tt.direction.Normalize(), ray.Direction)
			}
		})
	}
}

func TestNewRay_RejectsZeroDirection(t *testing.T) {
	_, err := NewRay(NewVec3(0, 0, 0), NewVec3(0, 0, 0))
	if !errors.Is(err, ErrZeroVector) {
		t.Errorf("Expected ErrZeroVector, got %v", err)
	}
}

func TestMustRay_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for zero direction")
		}
	}()
	MustRay(NewVec3(0, 0, 0), NewVec3(0, 0, 0))
}

func TestNewRayOffset(t *testing.T) {
	point := NewVec3(0, 0, 0)
	normal := NewVec3(0, 1, 0)

	up := NewRayOffset(point, NewVec3(1, 1, 0), normal)
	if !up.Origin.Equals(NewVec3(0, RayOffset, 0)) {
		t.Errorf("Expected origin moved along normal, got %v", up.Origin)
	}

	down := NewRayOffset(point, NewVec3(1, -1, 0), normal)
	if !down.Origin.Equals(NewVec3(0, -RayOffset, 0)) {
		t.Errorf("Expected origin moved against normal, got %v", down.Origin)
	}

	grazing := NewRayOffset(point, NewVec3(1, 0, 0), normal)
	if !grazing.Origin.Equals(point) {
		t.Errorf("Expected unmoved origin for grazing direction, got %v", grazing.Origin)
	}
}
