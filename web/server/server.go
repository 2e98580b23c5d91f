package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Server handles web requests for the raytracer
type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	router *mux.Router

	// OriginPatterns are the hosts allowed to open render streams
	OriginPatterns []string
}

// NewServer creates a new web server and registers its routes
func NewServer(cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:            cfg,
		logger:         logger,
		router:         mux.NewRouter(),
		OriginPatterns: []string{"localhost:*", "127.0.0.1:*"},
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.recovery)
	s.router.Use(s.requestLogger)
	s.router.Use(cors)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/scenes", s.handleScenes).Methods("GET")
	api.HandleFunc("/scene-config", s.handleSceneConfig).Methods("GET")
	api.HandleFunc("/render", s.handleRender).Methods("GET")
	api.HandleFunc("/inspect", s.handleInspect).Methods("GET")

	s.router.HandleFunc("/ws/render", s.handleRenderStream)
}

// Handler returns the routed HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute, // PNG renders block until the last pixel
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scene.ListScenes())
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = s.cfg.Scene
	}

	sceneObj, err := scene.Lookup(sceneName)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	lightTypes := make([]lights.LightType, 0, len(sceneObj.Lights))
	for _, light := range sceneObj.Lights {
		lightTypes = append(lightTypes, light.Type())
	}

	sampling := sceneObj.SamplingConfig
	writeJSON(w, http.StatusOK, map[string]any{
		"scene":      sceneName,
		"primitives": sceneObj.GetPrimitiveCount(),
		"lights":     len(sceneObj.Lights),
		"lightTypes": lightTypes,
		"defaults": map[string]any{
			"width":             sampling.Width,
			"height":            sampling.Height,
			"samplesPerPixel":   sampling.SamplesPerPixel,
			"maxDepth":          sceneMaxDepth(sceneObj, s.cfg),
			"adaptiveTolerance": s.cfg.AdaptiveTolerance,
		},
		"limits": map[string]any{
			"width":             map[string]int{"min": minDimension, "max": maxDimension},
			"height":            map[string]int{"min": minDimension, "max": maxDimension},
			"samples":           map[string]int{"min": 1, "max": maxSamples},
			"maxDepth":          map[string]int{"min": 1, "max": maxDepth},
			"adaptiveTolerance": map[string]float64{"min": 0, "max": maxTolerance},
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
