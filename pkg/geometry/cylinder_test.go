package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func newTestCylinder(t *testing.T) *Cylinder {
	t.Helper()
	cyl, err := NewCylinder(core.MustRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)), 1, 2)
	if err != nil {
		t.Fatalf("NewCylinder failed: %v", err)
	}
	return cyl
}

func TestNewCylinder_Validation(t *testing.T) {
	axis := core.MustRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))

	if _, err := NewCylinder(axis, 1, 0); !errors.Is(err, ErrInvalidHeight) {
		t.Errorf("Expected ErrInvalidHeight, got %v", err)
	}
	if _, err := NewCylinder(axis, -1, 2); !errors.Is(err, ErrInvalidRadius) {
		t.Errorf("Expected ErrInvalidRadius, got %v", err)
	}
}

func TestCylinder_Intersect(t *testing.T) {
	cyl := newTestCylinder(t)

	tests := []struct {
		name      string
		origin    core.Vec3
		direction core.Vec3
		distances []float64
	}{
		{"through both caps", core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), []float64{1, 3}},
		{"through the side", core.NewVec3(-2, 1, 0), core.NewVec3(1, 0, 0), []float64{1, 3}},
		{"above the top", core.NewVec3(-2, 3, 0), core.NewVec3(1, 0, 0), nil},
		{"top cap then side", core.NewVec3(0, 2.5, 0), core.NewVec3(1, -1, 0), []float64{0.5 * math.Sqrt2, math.Sqrt2}},
		{"outside parallel to axis", core.NewVec3(2, -1, 0), core.NewVec3(0, 1, 0), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := FindIntersections(cyl, core.MustRay(tt.origin, tt.direction))
			if tt.distances == nil {
				if hits != nil {
					t.Fatalf("Expected nil, got %v", hits)
				}
				return
			}
			if len(hits) != len(tt.distances) {
				t.Fatalf("Expected %d hits, got %d", len(tt.distances), len(hits))
			}
			for i, want := range tt.distances {
				if math.Abs(hits[i].Distance-want) > 1e-9 {
					t.Errorf("hit %d: expected distance %f, got %f", i, want, hits[i].Distance)
				}
				if hits[i].Surface != cyl {
					t.Errorf("hit %d: expected the cylinder as surface, got %T", i, hits[i].Surface)
				}
			}
		})
	}
}

func TestCylinder_Normal(t *testing.T) {
	cyl := newTestCylinder(t)

	tests := []struct {
		name  string
		point core.Vec3
		want  core.Vec3
	}{
		{"bottom cap", core.NewVec3(0.5, 0, 0), core.NewVec3(0, -1, 0)},
		{"top cap", core.NewVec3(0, 2, 0.5), core.NewVec3(0, 1, 0)},
		{"side", core.NewVec3(1, 1.5, 0), core.NewVec3(1, 0, 0)},
		{"side facing z", core.NewVec3(0, 0.3, -1), core.NewVec3(0, 0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cyl.Normal(tt.point); !got.Equals(tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
