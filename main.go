package main

import (
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Command line flags override the environment
	flag.StringVar(&cfg.Scene, "scene", cfg.Scene, "Scene name: "+strings.Join(scene.Names(), ", "))
	flag.IntVar(&cfg.Width, "width", cfg.Width, "Image width in pixels (0 = scene default)")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "Image height in pixels (0 = scene default)")
	flag.IntVar(&cfg.Samples, "samples", cfg.Samples, "Rays per pixel (0 = scene default)")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "Worker goroutines: 0 = sequential, -1 = auto, -2 = all CPUs")
	flag.BoolVar(&cfg.Adaptive, "adaptive", cfg.Adaptive, "Stop sampling early when probe rays agree")
	flag.Float64Var(&cfg.AdaptiveTolerance, "adaptive-tolerance", cfg.AdaptiveTolerance, "Largest probe color spread accepted by adaptive sampling")
	flag.IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "Maximum reflection/refraction depth (0 = scene default)")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Sampler seed")
	flag.StringVar(&cfg.OutputDir, "output", cfg.OutputDir, "Output directory")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()})))

	filename, err := run(cfg)
	if err != nil {
		slog.Error("render failed", "error", err)
		os.Exit(1)
	}
	slog.Info("render saved", "file", filename)
}

func printHelp() {
	fmt.Println("Whitted Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, info := range scene.ListScenes() {
		fmt.Printf("  %-12s %s\n", info.ID, info.Description)
	}
	fmt.Println()
	fmt.Println("Output will be saved to <output>/<scene>/render_<timestamp>.png")
}

// run renders the configured scene and writes it as a PNG
func run(cfg *config.Config) (string, error) {
	s, err := scene.Lookup(cfg.Scene)
	if err != nil {
		return "", err
	}

	tracer, err := integrator.NewRayTracer(s, tracerOptions(s, cfg))
	if err != nil {
		return "", err
	}

	camConfig := cameraConfig(s, cfg, tracer)
	fb := renderer.NewFrameBuffer(camConfig.ImageWidth, camConfig.ImageHeight)
	camConfig.Sink = fb
	camera, err := camConfig.Build()
	if err != nil {
		return "", fmt.Errorf("build camera: %w", err)
	}

	slog.Info("rendering scene", "scene", s.Name, "primitives", s.GetPrimitiveCount(), "lights", len(s.Lights))
	stats, err := camera.Render()
	if err != nil {
		return "", err
	}
	slog.Info("samples per pixel",
		"avg", fmt.Sprintf("%.1f", stats.AverageSamples),
		"min", stats.MinSamples,
		"max", stats.MaxSamplesUsed)

	outputDir, err := createOutputDir(cfg.OutputDir, cfg.Scene)
	if err != nil {
		return "", err
	}
	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", time.Now().Format("20060102_150405")))
	if err := writePNG(filename, fb, cfg.Gamma); err != nil {
		return "", err
	}
	return filename, nil
}

// tracerOptions uses the scene's recursion depth unless the config sets one
func tracerOptions(s *scene.Scene, cfg *config.Config) integrator.Options {
	opts := integrator.DefaultOptions()
	if s.SamplingConfig.MaxDepth > 0 {
		opts.MaxDepth = s.SamplingConfig.MaxDepth
	}
	if cfg.MaxDepth > 0 {
		opts.MaxDepth = cfg.MaxDepth
	}
	opts.MinWeight = cfg.MinWeight
	return opts
}

// cameraConfig applies the config's overrides to the scene's camera
func cameraConfig(s *scene.Scene, cfg *config.Config, tracer integrator.Integrator) renderer.CameraConfig {
	camConfig := renderer.NewCameraConfig(s, tracer, nil)
	if cfg.Width > 0 {
		camConfig.ImageWidth = cfg.Width
	}
	if cfg.Height > 0 {
		camConfig.ImageHeight = cfg.Height
	}
	if cfg.Samples > 0 {
		camConfig.Samples = cfg.Samples
	}
	camConfig.Workers = cfg.Workers
	camConfig.Adaptive = cfg.Adaptive
	camConfig.AdaptiveTolerance = cfg.AdaptiveTolerance
	camConfig.ProgressInterval = cfg.ProgressInterval
	camConfig.Seed = cfg.Seed
	return camConfig
}

func createOutputDir(base, sceneName string) (string, error) {
	outputDir := filepath.Join(base, sceneName)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	return outputDir, nil
}

func writePNG(filename string, fb *renderer.FrameBuffer, gamma float64) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, fb.Image(gamma)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return file.Close()
}
