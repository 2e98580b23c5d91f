package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

const (
	minDimension = 1
	maxDimension = 2000
	maxSamples   = 1024
	maxDepth     = 50
	maxTolerance = 1.0
)

// RenderRequest represents a render request from the client.
// Zero dimensions, samples and depth fall back to the scene's defaults.
type RenderRequest struct {
	Scene             string  `json:"scene"`
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	Samples           int     `json:"samples"`
	MaxDepth          int     `json:"maxDepth"`
	Adaptive          bool    `json:"adaptive"`
	AdaptiveTolerance float64 `json:"adaptiveTolerance"`
	Seed              uint64  `json:"seed"`
}

// parseRenderRequest parses request parameters, using the server config for
// anything the query leaves out
func parseRenderRequest(r *http.Request, cfg *config.Config) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = cfg.Scene
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", cfg.Width, minDimension, maxDimension); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", cfg.Height, minDimension, maxDimension); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "samples", cfg.Samples, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", cfg.MaxDepth, 1, maxDepth); err != nil {
		return nil, err
	}
	if req.Adaptive, err = parseBoolParam(query, "adaptive", cfg.Adaptive); err != nil {
		return nil, err
	}
	if req.AdaptiveTolerance, err = parseFloatParam(query, "adaptiveTolerance", cfg.AdaptiveTolerance, 0, maxTolerance); err != nil {
		return nil, err
	}
	if value := query.Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseUint(value, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
	} else {
		req.Seed = cfg.Seed
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// RenderingPipeline contains the configured scene, tracer, camera and frame
// buffer for one render
type RenderingPipeline struct {
	Scene  *scene.Scene
	Tracer *integrator.RayTracer
	Camera *renderer.Camera
	Frame  *renderer.FrameBuffer
}

// sceneMaxDepth returns the depth a render of the scene uses when the request
// leaves it out
func sceneMaxDepth(s *scene.Scene, cfg *config.Config) int {
	switch {
	case cfg.MaxDepth > 0:
		return cfg.MaxDepth
	case s.SamplingConfig.MaxDepth > 0:
		return s.SamplingConfig.MaxDepth
	default:
		return integrator.DefaultOptions().MaxDepth
	}
}

// newPipeline resolves the scene and builds a camera for the request.
// configure may adjust the camera config (logger, progress callback) before Build.
func (s *Server) newPipeline(req *RenderRequest, configure func(*renderer.CameraConfig)) (*RenderingPipeline, error) {
	sceneObj, err := scene.Lookup(req.Scene)
	if err != nil {
		return nil, err
	}

	opts := integrator.DefaultOptions()
	opts.MaxDepth = req.MaxDepth
	if opts.MaxDepth == 0 {
		opts.MaxDepth = sceneMaxDepth(sceneObj, s.cfg)
	}
	opts.MinWeight = s.cfg.MinWeight
	tracer, err := integrator.NewRayTracer(sceneObj, opts)
	if err != nil {
		return nil, err
	}

	camConfig := renderer.NewCameraConfig(sceneObj, tracer, nil)
	if req.Width > 0 {
		camConfig.ImageWidth = req.Width
	}
	if req.Height > 0 {
		camConfig.ImageHeight = req.Height
	}
	if req.Samples > 0 {
		camConfig.Samples = req.Samples
	}
	camConfig.Adaptive = req.Adaptive
	camConfig.AdaptiveTolerance = req.AdaptiveTolerance
	camConfig.Seed = req.Seed
	camConfig.Workers = s.cfg.Workers
	camConfig.ProgressInterval = s.cfg.ProgressInterval
	camConfig.Logger = s.logger

	frame := renderer.NewFrameBuffer(max(camConfig.ImageWidth, 0), max(camConfig.ImageHeight, 0))
	camConfig.Sink = frame
	if configure != nil {
		configure(&camConfig)
	}

	camera, err := camConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("build camera: %w", err)
	}
	return &RenderingPipeline{
		Scene:  sceneObj,
		Tracer: tracer,
		Camera: camera,
		Frame:  frame,
	}, nil
}
