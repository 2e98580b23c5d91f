package core

import (
	"math"
	"math/rand/v2"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a PCG-backed sampler for a seed and stream.
// Renderers use one stream per pixel so results do not depend on scheduling.
func NewSeededSampler(seed, stream uint64) *RandomSampler {
	return &RandomSampler{random: rand.New(rand.NewPCG(seed, stream))}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Board is a square grid of jittered sample points laid over a disc that is
// perpendicular to a base ray. It is used for anti-aliasing, soft shadows and
// glossy/blurry secondary rays.
type Board struct {
	Width    float64 // Diameter of the sampled disc
	Distance float64 // Distance from the ray origin to the disc center
	Samples  int     // Requested number of rays
}

// GridSize returns the number of cells per side of the board. The grid is
// enlarged by 4/π so that roughly Samples points survive the disc rejection.
func (b Board) GridSize() int {
	if b.Samples <= 1 {
		return 1
	}
	return max(1, int(math.Round(math.Sqrt(float64(b.Samples)*4/math.Pi))))
}

// degenerate reports whether the board collapses to the base ray
func (b Board) degenerate() bool {
	return IsZero(b.Width) || b.Width < 0 || b.Samples <= 1 || b.Distance <= 0
}

// Rays returns rays from the base ray origin through jittered board points.
// A degenerate board (zero width, a single sample or no distance) yields one
// ray from the base origin through base.At(1). Since directions are unit
// length that ray is the base ray itself, so it is returned unchanged.
func (b Board) Rays(base Ray, sampler Sampler) []Ray {
	if b.degenerate() {
		return []Ray{base}
	}

	points := b.Points(base, sampler)
	rays := make([]Ray, 0, len(points))
	for _, p := range points {
		direction := p.Subtract(base.Origin)
		if direction.IsZero() {
			continue
		}
		rays = append(rays, MustRay(base.Origin, direction))
	}

	// Rejection can, with tiny probability, discard every point on a coarse grid
	if len(rays) == 0 {
		return []Ray{base}
	}
	return rays
}

// Points returns the jittered points that fall inside the board disc
func (b Board) Points(base Ray, sampler Sampler) []Vec3 {
	center := base.At(b.Distance)
	if b.degenerate() {
		return []Vec3{center}
	}

	right, up := OrthonormalBasis(base.Direction)
	size := b.GridSize()
	cell := b.Width / float64(size)
	half := b.Width / 2
	radiusSq := half * half

	points := make([]Vec3, 0, size*size)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			jitter := sampler.Get2D()
			x := -half + (float64(i)+jitter.X)*cell
			y := -half + (float64(j)+jitter.Y)*cell
			if x*x+y*y > radiusSq {
				continue
			}
			points = append(points, center.Add(right.Multiply(x)).Add(up.Multiply(y)))
		}
	}
	return points
}

// OrthonormalBasis returns right and up vectors perpendicular to a unit direction.
// The world Y axis is the canonical up; a direction parallel to it uses Z instead.
func OrthonormalBasis(direction Vec3) (right, up Vec3) {
	canonical := NewVec3(0, 1, 0)
	if IsZero(1 - math.Abs(direction.Dot(canonical))) {
		canonical = NewVec3(0, 0, 1)
	}
	right = direction.Cross(canonical).Normalize()
	up = right.Cross(direction).Normalize()
	return right, up
}
