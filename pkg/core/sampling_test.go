package core

import (
	"math"
	"math/rand/v2"
	"testing"
)

func newTestSampler() Sampler {
	return NewRandomSampler(rand.New(rand.NewPCG(42, 54)))
}

func TestBoard_DegenerateReturnsBaseRay(t *testing.T) {
	base := MustRay(NewVec3(1, 2, 3), NewVec3(1, -2, 2))

	tests := []struct {
		name  string
		board Board
	}{
		{"zero width", Board{Width: 0, Distance: 1, Samples: 81}},
		{"zero distance", Board{Width: 1, Distance: 0, Samples: 16}},
		{"single sample", Board{Width: 1, Distance: 1, Samples: 1}},
		{"zero samples", Board{Width: 1, Distance: 1, Samples: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rays := tt.board.Rays(base, newTestSampler())
			if len(rays) != 1 {
				t.Fatalf("Expected exactly one ray, got %d", len(rays))
			}
			if rays[0] != base {
				t.Errorf("Expected base ray %v, got %v", base, rays[0])
			}
			// The single ray reaches the point one unit along the base direction
			if !rays[0].At(1).Equals(base.Origin.Add(base.Direction)) {
				t.Errorf("Expected the ray to pass through %v, got %v", base.Origin.Add(base.Direction), rays[0].At(1))
			}
		})
	}
}

func TestBoard_RayCountWithinGrid(t *testing.T) {
	directions := []Vec3{
		NewVec3(0, 0, -1),
		NewVec3(0, 1, 0), // parallel to the canonical up
		NewVec3(0, -1, 0),
		NewVec3(1, 2, 3),
	}

	for _, samples := range []int{2, 4, 9, 50, 200} {
		for _, dir := range directions {
			board := Board{Width: 0.5, Distance: 2, Samples: samples}
			base := MustRay(NewVec3(1, 1, 1), dir)
			rays := board.Rays(base, newTestSampler())

			cells := board.GridSize() * board.GridSize()
			if len(rays) == 0 || len(rays) > cells {
				t.Errorf("samples=%d dir=%v: expected 0 < rays <= %d, got %d", samples, dir, cells, len(rays))
			}
			for _, r := range rays {
				if math.Abs(r.Direction.Length()-1) > 1e-9 {
					t.Errorf("Expected unit direction, got %v", r.Direction)
				}
				if r.Origin != base.Origin {
					t.Errorf("Expected rays to share the base origin")
				}
			}
		}
	}
}

func TestBoard_PointsInsideDisc(t *testing.T) {
	board := Board{Width: 2, Distance: 5, Samples: 100}
	base := MustRay(NewVec3(0, 0, 0), NewVec3(0, 0, 1))
	center := base.At(board.Distance)

	points := board.Points(base, newTestSampler())
	if len(points) < 50 {
		t.Errorf("Expected most of the requested samples, got %d", len(points))
	}
	for _, p := range points {
		offset := p.Subtract(center)
		if offset.Length() > board.Width/2+1e-9 {
			t.Errorf("Point %v lies outside the disc", p)
		}
		if math.Abs(offset.Dot(base.Direction)) > 1e-9 {
			t.Errorf("Point %v is not on the board plane", p)
		}
	}
}

func TestBoard_Reproducible(t *testing.T) {
	board := Board{Width: 1, Distance: 1, Samples: 16}
	base := MustRay(NewVec3(0, 0, 0), NewVec3(0, 0, -1))

	first := board.Rays(base, NewSeededSampler(7, 3))
	second := board.Rays(base, NewSeededSampler(7, 3))
	if len(first) != len(second) {
		t.Fatalf("Expected equal ray counts, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Ray %d differs between identically seeded samplers", i)
		}
	}
}

func TestOrthonormalBasis(t *testing.T) {
	for _, dir := range []Vec3{NewVec3(0, 1, 0), NewVec3(0, 0, 1), NewVec3(1, 1, 1).Normalize()} {
		right, up := OrthonormalBasis(dir)
		if math.Abs(right.Dot(dir)) > 1e-9 || math.Abs(up.Dot(dir)) > 1e-9 || math.Abs(right.Dot(up)) > 1e-9 {
			t.Errorf("Basis for %v is not orthogonal: right=%v up=%v", dir, right, up)
		}
		if math.Abs(right.Length()-1) > 1e-9 || math.Abs(up.Length()-1) > 1e-9 {
			t.Errorf("Basis for %v is not normalized", dir)
		}
	}
}
