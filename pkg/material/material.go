package material

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrInvalidMaterial is returned for negative reflectance parameters
var ErrInvalidMaterial = errors.New("invalid material")

// Material holds the Phong reflectance parameters of a surface.
// Coefficients are per color channel so surfaces can tint what they reflect.
type Material struct {
	KD        core.Vec3 // Diffuse coefficient (also scales ambient light)
	KS        core.Vec3 // Specular coefficient
	KT        core.Vec3 // Transparency coefficient
	KR        core.Vec3 // Reflectivity coefficient
	Shininess float64   // Specular exponent

	Glossiness float64 // Spread of reflected rays at unit distance, 0 for a perfect mirror
	Blur       float64 // Spread of refracted rays at unit distance, 0 for clear glass
}

// New returns a black, fully opaque material
func New() Material {
	return Material{}
}

// Uniform returns a coefficient with the same value on every channel
func Uniform(k float64) core.Vec3 {
	return core.NewVec3(k, k, k)
}

// WithDiffuse sets the diffuse coefficient on every channel
func (m Material) WithDiffuse(kd float64) Material {
	m.KD = Uniform(kd)
	return m
}

// WithDiffuseColor sets a tinted diffuse coefficient
func (m Material) WithDiffuseColor(kd core.Vec3) Material {
	m.KD = kd
	return m
}

// WithSpecular sets the specular coefficient on every channel
func (m Material) WithSpecular(ks float64) Material {
	m.KS = Uniform(ks)
	return m
}

// WithShininess sets the specular exponent
func (m Material) WithShininess(n float64) Material {
	m.Shininess = n
	return m
}

// WithTransparency sets the transparency coefficient on every channel
func (m Material) WithTransparency(kt float64) Material {
	m.KT = Uniform(kt)
	return m
}

// WithReflection sets the reflectivity coefficient on every channel
func (m Material) WithReflection(kr float64) Material {
	m.KR = Uniform(kr)
	return m
}

// WithGlossiness spreads reflected rays over a disc of the given width
func (m Material) WithGlossiness(g float64) Material {
	m.Glossiness = g
	return m
}

// WithBlur spreads refracted rays over a disc of the given width
func (m Material) WithBlur(b float64) Material {
	m.Blur = b
	return m
}

// Validate rejects negative coefficients
func (m Material) Validate() error {
	coefficients := []struct {
		name  string
		value core.Vec3
	}{
		{"kD", m.KD},
		{"kS", m.KS},
		{"kT", m.KT},
		{"kR", m.KR},
	}
	for _, c := range coefficients {
		if c.value.X < 0 || c.value.Y < 0 || c.value.Z < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %v", ErrInvalidMaterial, c.name, c.value)
		}
	}
	if m.Shininess < 0 {
		return fmt.Errorf("%w: shininess must be non-negative, got %f", ErrInvalidMaterial, m.Shininess)
	}
	if m.Glossiness < 0 || m.Blur < 0 {
		return fmt.Errorf("%w: glossiness and blur must be non-negative", ErrInvalidMaterial)
	}
	return nil
}
