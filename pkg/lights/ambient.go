package lights

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Ambient is the uniform background illumination of a scene: color × kA
type Ambient struct {
	intensity core.Vec3
}

// NewAmbient creates ambient light with a per-channel attenuation factor
func NewAmbient(color, kA core.Vec3) (Ambient, error) {
	if !validIntensity(color) || !validIntensity(kA) {
		return Ambient{}, fmt.Errorf("ambient light: %w", ErrInvalidIntensity)
	}
	return Ambient{intensity: color.MultiplyVec(kA)}, nil
}

// NewUniformAmbient creates ambient light with a scalar attenuation factor
func NewUniformAmbient(color core.Vec3, kA float64) (Ambient, error) {
	return NewAmbient(color, core.NewVec3(kA, kA, kA))
}

// Intensity returns the ambient color after attenuation
func (a Ambient) Intensity() core.Vec3 {
	return a.intensity
}
