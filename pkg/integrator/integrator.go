package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Integrator defines the interface for light transport algorithms.
// Implementations must be safe for concurrent use; per-call randomness
// comes from the sampler, which belongs to the caller.
type Integrator interface {
	// RayColor computes the color seen along a ray
	RayColor(ray core.Ray, sampler core.Sampler) core.Vec3

	// Background is the color of rays that hit nothing
	Background() core.Vec3
}
