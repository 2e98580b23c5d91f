package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

var (
	ErrMissingField      = errors.New("camera field is required")
	ErrInvalidViewPlane  = errors.New("view plane width, height and distance must be positive")
	ErrNotOrthogonal     = errors.New("camera directions are not orthogonal")
	ErrInvalidSamples    = errors.New("samples per pixel must be at least 1")
	ErrInvalidResolution = errors.New("image resolution must be positive")
	ErrInvalidBoard      = errors.New("sampling board width, distance and adaptive tolerance must be non-negative")
	ErrRenderInProgress  = errors.New("render already in progress")
)

// adaptiveProbes is the number of rays traced before deciding whether a
// pixel needs the full sample set
const adaptiveProbes = 4

// BoardWidthPixel sizes the sampling board to one pixel of the view plane.
// A board width of 0 disables jitter and traces only the pixel center ray.
const BoardWidthPixel = -1.0

// DefaultAdaptiveTolerance is the largest per-channel probe spread accepted
// without tracing the full sample set
const DefaultAdaptiveTolerance = 0.01

// CameraConfig is the staged, mutable description of a camera.
// Build validates it once and produces an immutable Camera.
type CameraConfig struct {
	Location core.Vec3
	Forward  core.Vec3
	Up       core.Vec3
	Right    *core.Vec3 // Optional override; derived as Forward × Up when nil

	ViewWidth  float64 // View-plane size in world units
	ViewHeight float64
	Distance   float64 // Distance from the location to the view plane

	ImageWidth  int // Resolution in pixels
	ImageHeight int

	Samples           int     // Rays per pixel
	BoardWidth        float64 // Sampling disc diameter; 0 traces the center ray, BoardWidthPixel uses the pixel width
	BoardDistance     float64 // Sampling disc distance; 0 uses the distance to the pixel center
	Adaptive          bool    // Trace a few probe rays first and stop early when they agree
	AdaptiveTolerance float64 // Largest channel spread at which probes agree

	Workers          int           // 0 = sequential, N = fixed pool, WorkersAuto or WorkersAll
	ProgressInterval time.Duration // Minimum time between progress reports; 0 disables them
	Seed             uint64        // Base seed for the per-pixel samplers

	Integrator integrator.Integrator
	Sink       PixelSink
	Logger     *slog.Logger   // Defaults to slog.Default()
	OnProgress func(Progress) // Optional progress callback
}

// NewCameraConfig starts a config from a scene's camera placement and
// sampling defaults
func NewCameraConfig(s *scene.Scene, tracer integrator.Integrator, sink PixelSink) CameraConfig {
	return CameraConfig{
		Location:    s.Camera.Location,
		Forward:     s.Camera.Forward,
		Up:          s.Camera.Up,
		ViewWidth:   s.Camera.ViewWidth,
		ViewHeight:  s.Camera.ViewHeight,
		Distance:    s.Camera.Distance,
		ImageWidth:  s.SamplingConfig.Width,
		ImageHeight: s.SamplingConfig.Height,
		Samples:     s.SamplingConfig.SamplesPerPixel,
		BoardWidth:  BoardWidthPixel,
		Workers:     WorkersAuto,
		Integrator:  tracer,
		Sink:        sink,

		AdaptiveTolerance: DefaultAdaptiveTolerance,
	}
}

// Translate returns a copy of the config moved by offset
func (c CameraConfig) Translate(offset core.Vec3) CameraConfig {
	c.Location = c.Location.Add(offset)
	return c
}

// Rotate returns a copy of the config with its directions rotated by Euler
// angles in radians (X, then Y, then Z)
func (c CameraConfig) Rotate(rotation core.Vec3) CameraConfig {
	c.Forward = c.Forward.Rotate(rotation)
	c.Up = c.Up.Rotate(rotation)
	if c.Right != nil {
		right := c.Right.Rotate(rotation)
		c.Right = &right
	}
	return c
}

// Build validates the config and creates the camera
func (c CameraConfig) Build() (*Camera, error) {
	if c.Forward.IsZero() {
		return nil, fmt.Errorf("forward: %w", ErrMissingField)
	}
	if c.Up.IsZero() {
		return nil, fmt.Errorf("up: %w", ErrMissingField)
	}
	if c.Integrator == nil {
		return nil, fmt.Errorf("integrator: %w", ErrMissingField)
	}
	if c.Sink == nil {
		return nil, fmt.Errorf("sink: %w", ErrMissingField)
	}

	forward := c.Forward.Normalize()
	up := c.Up.Normalize()
	if !core.IsZero(forward.Dot(up)) {
		return nil, fmt.Errorf("forward %v and up %v: %w", c.Forward, c.Up, ErrNotOrthogonal)
	}
	right := forward.Cross(up).Normalize()
	if c.Right != nil {
		if c.Right.IsZero() {
			return nil, fmt.Errorf("right: %w", core.ErrZeroVector)
		}
		right = c.Right.Normalize()
		if !core.IsZero(right.Dot(forward)) || !core.IsZero(right.Dot(up)) {
			return nil, fmt.Errorf("right %v: %w", *c.Right, ErrNotOrthogonal)
		}
	}

	if c.ViewWidth <= 0 || c.ViewHeight <= 0 || c.Distance <= 0 {
		return nil, fmt.Errorf("%w, got %gx%g at %g", ErrInvalidViewPlane, c.ViewWidth, c.ViewHeight, c.Distance)
	}
	if c.ImageWidth <= 0 || c.ImageHeight <= 0 {
		return nil, fmt.Errorf("%w, got %dx%d", ErrInvalidResolution, c.ImageWidth, c.ImageHeight)
	}
	if c.Samples < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidSamples, c.Samples)
	}
	if (c.BoardWidth < 0 && c.BoardWidth != BoardWidthPixel) || c.BoardDistance < 0 || c.AdaptiveTolerance < 0 {
		return nil, fmt.Errorf("%w, got width %g distance %g tolerance %g",
			ErrInvalidBoard, c.BoardWidth, c.BoardDistance, c.AdaptiveTolerance)
	}
	if _, err := resolveWorkers(c.Workers); err != nil {
		return nil, err
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Camera{
		location:         c.Location,
		forward:          forward,
		up:               up,
		right:            right,
		viewWidth:        c.ViewWidth,
		viewHeight:       c.ViewHeight,
		distance:         c.Distance,
		imageWidth:       c.ImageWidth,
		imageHeight:      c.ImageHeight,
		samples:          c.Samples,
		boardWidth:       c.BoardWidth,
		boardDistance:    c.BoardDistance,
		adaptive:         c.Adaptive,
		tolerance:        c.AdaptiveTolerance,
		workers:          c.Workers,
		progressInterval: c.ProgressInterval,
		seed:             c.Seed,
		integrator:       c.Integrator,
		sink:             c.Sink,
		logger:           logger,
		onProgress:       c.OnProgress,
	}, nil
}

// Camera generates rays through a view plane and renders them into a sink.
// All fields are fixed at Build time.
type Camera struct {
	location, forward, up, right    core.Vec3
	viewWidth, viewHeight, distance float64
	imageWidth, imageHeight         int

	samples                   int
	boardWidth, boardDistance float64
	adaptive                  bool
	tolerance                 float64

	workers          int
	progressInterval time.Duration
	seed             uint64

	integrator integrator.Integrator
	sink       PixelSink
	logger     *slog.Logger
	onProgress func(Progress)

	rendering atomic.Bool
}

// Location returns the camera position
func (c *Camera) Location() core.Vec3 { return c.location }

// Basis returns the unit forward, up and right vectors
func (c *Camera) Basis() (forward, up, right core.Vec3) {
	return c.forward, c.up, c.right
}

// Resolution returns the image size in pixels
func (c *Camera) Resolution() (width, height int) {
	return c.imageWidth, c.imageHeight
}

// Samples returns the configured rays per pixel
func (c *Camera) Samples() int {
	return c.samples
}

// ConstructRay returns the ray through the center of pixel (col, row) of an
// nX by nY grid laid over the view plane. Row 0 is the top of the image.
func (c *Camera) ConstructRay(nX, nY, col, row int) core.Ray {
	return core.MustRay(c.location, c.pixelCenter(nX, nY, col, row).Subtract(c.location))
}

func (c *Camera) pixelCenter(nX, nY, col, row int) core.Vec3 {
	center := c.location.Add(c.forward.Multiply(c.distance))

	pixelWidth := c.viewWidth / float64(nX)
	pixelHeight := c.viewHeight / float64(nY)
	xJ := core.AlignZero((float64(col) - float64(nX-1)/2) * pixelWidth)
	yI := core.AlignZero(-(float64(row) - float64(nY-1)/2) * pixelHeight)

	point := center
	if xJ != 0 {
		point = point.Add(c.right.Multiply(xJ))
	}
	if yI != 0 {
		point = point.Add(c.up.Multiply(yI))
	}
	return point
}

// ConstructSampleRays returns jittered rays through the pixel's sampling disc.
// With one sample or a zero board width it returns exactly the center ray.
func (c *Camera) ConstructSampleRays(nX, nY, col, row, samples int, sampler core.Sampler) []core.Ray {
	return c.board(nX, nY, col, row, samples).Rays(c.ConstructRay(nX, nY, col, row), sampler)
}

func (c *Camera) board(nX, nY, col, row, samples int) core.Board {
	width := c.boardWidth
	if width == BoardWidthPixel {
		width = c.viewWidth / float64(nX)
	}
	distance := c.boardDistance
	if distance == 0 {
		distance = c.pixelCenter(nX, nY, col, row).Distance(c.location)
	}
	return core.Board{Width: width, Distance: distance, Samples: samples}
}

// Render traces every pixel of the image into the sink and blocks until all
// workers finish. A camera renders one pass at a time.
func (c *Camera) Render() (RenderStats, error) {
	if !c.rendering.CompareAndSwap(false, true) {
		return RenderStats{}, ErrRenderInProgress
	}
	defer c.rendering.Store(false)

	scheduler, err := NewPixelScheduler(c.imageWidth, c.imageHeight, c.workers)
	if err != nil {
		return RenderStats{}, err
	}

	total := c.imageWidth * c.imageHeight
	samplesUsed := make([]int, total)
	progress := newProgressReporter(total, c.progressInterval, c.logger, c.onProgress)

	c.logger.Info("render started",
		"width", c.imageWidth,
		"height", c.imageHeight,
		"samples", c.samples,
		"adaptive", c.adaptive,
		"workers", scheduler.Workers())

	start := time.Now()
	err = scheduler.Run(func(col, row int) {
		samplesUsed[row*c.imageWidth+col] = c.renderPixel(col, row)
		progress.pixelDone()
	})
	if err != nil {
		return RenderStats{}, err
	}

	stats := newRenderStats(samplesUsed, scheduler.Workers(), time.Since(start))
	c.logger.Info("render complete",
		"elapsed", stats.Elapsed,
		"samples", stats.TotalSamples,
		"avg_samples", stats.AverageSamples)
	return stats, nil
}

// renderPixel computes and writes one pixel, returning the rays traced
func (c *Camera) renderPixel(col, row int) int {
	nX, nY := c.imageWidth, c.imageHeight
	sampler := core.NewSeededSampler(c.seed, uint64(row*nX+col))

	if c.samples == 1 {
		c.sink.SetPixel(col, row, c.integrator.RayColor(c.ConstructRay(nX, nY, col, row), sampler))
		return 1
	}

	var stats PixelStats
	base := c.ConstructRay(nX, nY, col, row)

	if c.adaptive && c.samples > adaptiveProbes {
		for _, ray := range c.board(nX, nY, col, row, adaptiveProbes).Rays(base, sampler) {
			stats.AddSample(c.integrator.RayColor(ray, sampler))
		}
		if stats.SampleCount > 1 && stats.Spread() <= c.tolerance {
			c.sink.SetPixel(col, row, stats.GetColor())
			return stats.SampleCount
		}
	}

	for _, ray := range c.board(nX, nY, col, row, c.samples).Rays(base, sampler) {
		stats.AddSample(c.integrator.RayColor(ray, sampler))
	}

	if stats.SampleCount == 0 {
		c.sink.SetPixel(col, row, c.integrator.Background())
		return 0
	}
	c.sink.SetPixel(col, row, stats.GetColor())
	return stats.SampleCount
}
