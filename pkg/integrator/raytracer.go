package integrator

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

var (
	ErrInvalidOptions = errors.New("invalid ray tracer options")
	ErrNilScene       = errors.New("scene is nil")
)

// Options bounds the recursion and sets the sample counts for soft effects
type Options struct {
	MaxDepth      int     // Maximum number of surface hits along one path
	MinWeight     float64 // Contributions scaled below this are not traced
	GlossSamples  int     // Rays per glossy reflection or blurry refraction
	ShadowSamples int     // Shadow rays per light with a radius
}

// DefaultOptions returns the standard recursion limits
func DefaultOptions() Options {
	return Options{
		MaxDepth:      10,
		MinWeight:     0.001,
		GlossSamples:  16,
		ShadowSamples: 16,
	}
}

// Validate checks that the options describe a terminating recursion
func (o Options) Validate() error {
	if o.MaxDepth < 1 {
		return fmt.Errorf("%w: max depth must be at least 1, got %d", ErrInvalidOptions, o.MaxDepth)
	}
	if o.MinWeight <= 0 || o.MinWeight >= 1 {
		return fmt.Errorf("%w: min weight must be in (0, 1), got %f", ErrInvalidOptions, o.MinWeight)
	}
	if o.GlossSamples < 1 || o.ShadowSamples < 1 {
		return fmt.Errorf("%w: sample counts must be at least 1", ErrInvalidOptions)
	}
	return nil
}

// RayTracer implements recursive Whitted-style ray tracing with Phong local
// shading, shadow transmittance, reflection and refraction
type RayTracer struct {
	scene   *scene.Scene
	options Options
}

// NewRayTracer creates a ray tracer over a fully assembled scene
func NewRayTracer(s *scene.Scene, options Options) (*RayTracer, error) {
	if s == nil {
		return nil, ErrNilScene
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}
	return &RayTracer{scene: s, options: options}, nil
}

// Background returns the scene background color
func (rt *RayTracer) Background() core.Vec3 {
	return rt.scene.Background
}

// Options returns the recursion settings
func (rt *RayTracer) Options() Options {
	return rt.options
}

// TraceRay computes the color along a ray with a fixed-seed sampler.
// Use RayColor with a per-goroutine sampler when tracing concurrently.
func (rt *RayTracer) TraceRay(ray core.Ray) core.Vec3 {
	return rt.RayColor(ray, core.NewSeededSampler(0, 0))
}

// RayColor computes the color along a ray
func (rt *RayTracer) RayColor(ray core.Ray, sampler core.Sampler) core.Vec3 {
	return rt.trace(ray, sampler, 1, core.NewVec3(1, 1, 1))
}

// trace shades the closest hit along the ray, or returns the background.
// depth counts surface hits along the path, weight is the product of the
// reflection and transparency coefficients that led here.
func (rt *RayTracer) trace(ray core.Ray, sampler core.Sampler, depth int, weight core.Vec3) core.Vec3 {
	hit, ok := rt.closestHit(ray)
	if !ok {
		return rt.scene.Background
	}
	return rt.shade(hit, ray, sampler, depth, weight)
}

// closestHit returns the nearest intersection. On equal distances the
// surface declared first in the scene wins.
func (rt *RayTracer) closestHit(ray core.Ray) (geometry.Intersection, bool) {
	hits := rt.scene.Intersect(ray, math.Inf(1))
	if hits == nil {
		return geometry.Intersection{}, false
	}
	closest := hits[0]
	for _, hit := range hits[1:] {
		if hit.Distance < closest.Distance {
			closest = hit
		}
	}
	return closest, true
}

func (rt *RayTracer) shade(hit geometry.Intersection, ray core.Ray, sampler core.Sampler, depth int, weight core.Vec3) core.Vec3 {
	mat := hit.Surface.Material()
	color := hit.Surface.Emission().Add(rt.scene.Ambient.Intensity().MultiplyVec(mat.KD))

	normal := hit.Surface.Normal(hit.Point)
	color = color.Add(rt.localEffects(hit, normal, ray, sampler, weight))

	if depth >= rt.options.MaxDepth {
		return color
	}
	return color.Add(rt.globalEffects(hit, normal, ray, sampler, depth, weight))
}

// localEffects sums the diffuse and specular contribution of every light
func (rt *RayTracer) localEffects(hit geometry.Intersection, n core.Vec3, ray core.Ray, sampler core.Sampler, weight core.Vec3) core.Vec3 {
	v := ray.Direction
	nv := core.AlignZero(n.Dot(v))
	if nv == 0 {
		return core.Vec3{}
	}

	mat := hit.Surface.Material()
	var color core.Vec3
	for _, light := range rt.scene.Lights {
		l := light.DirectionTo(hit.Point).Negate()
		nl := core.AlignZero(n.Dot(l))
		// Light and viewer must be on the same side of the surface
		if nl*nv <= 0 {
			continue
		}

		ktr := rt.transmittance(light, l, n, hit.Point, sampler)
		if ktr.MultiplyVec(weight).MaxComponent() <= rt.options.MinWeight {
			continue
		}

		intensity := light.Intensity(hit.Point).MultiplyVec(ktr)
		diffuse := mat.KD.Multiply(math.Abs(nl))
		specular := mat.KS.Multiply(specularFactor(l, n, v, nl, mat.Shininess))
		color = color.Add(intensity.MultiplyVec(diffuse.Add(specular)))
	}
	return color
}

// specularFactor computes max(0, -v·r)^shininess for the mirror direction r of l
func specularFactor(l, n, v core.Vec3, nl, shininess float64) float64 {
	r := l.Subtract(n.Multiply(2 * nl))
	vr := core.AlignZero(-v.Dot(r))
	if vr <= 0 {
		return 0
	}
	return math.Pow(vr, shininess)
}

// transmittance returns how much of a light reaches the point. Lights with a
// radius are sampled over a disc centered on the light and facing the point,
// which softens shadow edges.
func (rt *RayTracer) transmittance(light lights.Light, l, n, point core.Vec3, sampler core.Sampler) core.Vec3 {
	base := core.NewRayOffset(point, l.Negate(), n)
	// Aim from the offset origin so the cap and the disc center sit on the light
	if toLight, err := core.NewRay(base.Origin, light.DirectionTo(base.Origin)); err == nil {
		base = toLight
	}
	distance := light.Distance(base.Origin)

	if light.Radius() <= 0 || rt.options.ShadowSamples <= 1 || math.IsInf(distance, 1) {
		return rt.shadowRay(base, distance)
	}

	board := core.Board{Width: 2 * light.Radius(), Distance: distance, Samples: rt.options.ShadowSamples}
	points := board.Points(base, sampler)
	if len(points) == 0 {
		return rt.shadowRay(base, distance)
	}

	var total core.Vec3
	count := 0
	for _, target := range points {
		direction := target.Subtract(base.Origin)
		ray, err := core.NewRay(base.Origin, direction)
		if err != nil {
			continue
		}
		total = total.Add(rt.shadowRay(ray, direction.Length()))
		count++
	}
	if count == 0 {
		return rt.shadowRay(base, distance)
	}
	return total.Multiply(1 / float64(count))
}

// shadowRay multiplies the transparency of every surface between the ray
// origin and the light. Partially transparent occluders let light through.
func (rt *RayTracer) shadowRay(ray core.Ray, maxDistance float64) core.Vec3 {
	ktr := core.NewVec3(1, 1, 1)
	for _, hit := range rt.scene.Intersect(ray, maxDistance) {
		ktr = ktr.MultiplyVec(hit.Surface.Material().KT)
		if ktr.MaxComponent() < rt.options.MinWeight {
			return core.Vec3{}
		}
	}
	return ktr
}

// globalEffects adds the recursive reflection and refraction contributions
func (rt *RayTracer) globalEffects(hit geometry.Intersection, n core.Vec3, ray core.Ray, sampler core.Sampler, depth int, weight core.Vec3) core.Vec3 {
	mat := hit.Surface.Material()
	v := ray.Direction
	var color core.Vec3

	if kr := weight.MultiplyVec(mat.KR); kr.MaxComponent() > rt.options.MinWeight {
		reflected := core.NewRayOffset(hit.Point, v.Reflect(n), n)
		color = color.Add(rt.spread(reflected, mat.Glossiness, sampler, depth, kr).MultiplyVec(mat.KR))
	}

	if kt := weight.MultiplyVec(mat.KT); kt.MaxComponent() > rt.options.MinWeight {
		refracted := core.NewRayOffset(hit.Point, v, n)
		color = color.Add(rt.spread(refracted, mat.Blur, sampler, depth, kt).MultiplyVec(mat.KT))
	}

	return color
}

// spread traces a secondary ray, or averages a board of rays around it when
// the surface scatters (glossy reflection or blurry refraction)
func (rt *RayTracer) spread(ray core.Ray, width float64, sampler core.Sampler, depth int, weight core.Vec3) core.Vec3 {
	if width <= 0 || rt.options.GlossSamples <= 1 {
		return rt.trace(ray, sampler, depth+1, weight)
	}

	board := core.Board{Width: width, Distance: 1, Samples: rt.options.GlossSamples}
	rays := board.Rays(ray, sampler)

	var total core.Vec3
	for _, r := range rays {
		total = total.Add(rt.trace(r, sampler, depth+1, weight))
	}
	return total.Multiply(1 / float64(len(rays)))
}
