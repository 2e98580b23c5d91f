package renderer

import (
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int     // Total number of pixels rendered
	TotalSamples   int     // Total number of samples taken
	AverageSamples float64 // Average samples per pixel
	MinSamples     int     // Minimum samples taken per pixel
	MaxSamplesUsed int     // Maximum samples actually used by any pixel
	Workers        int     // Worker goroutines, 0 when sequential
	Elapsed        time.Duration
}

// newRenderStats aggregates the per-pixel sample counts of a finished render
func newRenderStats(samplesUsed []int, workers int, elapsed time.Duration) RenderStats {
	stats := RenderStats{
		TotalPixels: len(samplesUsed),
		Workers:     workers,
		Elapsed:     elapsed,
	}
	if len(samplesUsed) == 0 {
		return stats
	}

	stats.MinSamples = samplesUsed[0]
	for _, n := range samplesUsed {
		stats.TotalSamples += n
		stats.MinSamples = min(stats.MinSamples, n)
		stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, n)
	}
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	return stats
}

// PixelStats accumulates the samples of a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // RGB accumulator for final result
	Min, Max    core.Vec3 // Per-channel bounds of the samples seen
	SampleCount int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	if ps.SampleCount == 0 {
		ps.Min, ps.Max = color, color
	} else {
		ps.Min = core.NewVec3(min(ps.Min.X, color.X), min(ps.Min.Y, color.Y), min(ps.Min.Z, color.Z))
		ps.Max = core.NewVec3(max(ps.Max.X, color.X), max(ps.Max.Y, color.Y), max(ps.Max.Z, color.Z))
	}
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// Spread returns the widest per-channel range among the samples
func (ps *PixelStats) Spread() float64 {
	return ps.Max.Subtract(ps.Min).MaxComponent()
}
