package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func testServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	cfg := &config.Config{
		Port:      8080,
		Scene:     "default",
		Workers:   2,
		MaxDepth:  4,
		MinWeight: 0.001,
		Gamma:     2.2,
		LogLevel:  "info",
	}
	srv := NewServer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func TestHandleHealth(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body)
	}
}

func TestHandleScenes(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/scenes")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	var scenes []scene.SceneInfo
	if err := json.NewDecoder(resp.Body).Decode(&scenes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(scenes) != len(scene.Names()) {
		t.Errorf("Expected %d scenes, got %d", len(scene.Names()), len(scenes))
	}
}

func TestHandleSceneConfig(t *testing.T) {
	_, ts := testServer(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"server default scene", "", http.StatusOK},
		{"named scene", "?scene=mirror", http.StatusOK},
		{"unknown scene", "?scene=nonexistent", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/api/scene-config" + tt.query)
			if err != nil {
				t.Fatalf("GET failed: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("Expected %d, got %d", tt.wantStatus, resp.StatusCode)
			}
		})
	}
}

func TestHandleSceneConfig_Defaults(t *testing.T) {
	srv, ts := testServer(t)
	srv.cfg.MaxDepth = 0
	srv.cfg.AdaptiveTolerance = 0.02

	resp, err := http.Get(ts.URL + "/api/scene-config?scene=sphere-grid")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		LightTypes []string `json:"lightTypes"`
		Lights     int      `json:"lights"`
		Defaults   struct {
			MaxDepth          int     `json:"maxDepth"`
			AdaptiveTolerance float64 `json:"adaptiveTolerance"`
		} `json:"defaults"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Defaults.MaxDepth != 6 {
		t.Errorf("Expected the sphere grid's max depth 6, got %d", body.Defaults.MaxDepth)
	}
	if body.Defaults.AdaptiveTolerance != 0.02 {
		t.Errorf("Expected tolerance 0.02, got %g", body.Defaults.AdaptiveTolerance)
	}
	if len(body.LightTypes) != body.Lights || body.Lights == 0 {
		t.Fatalf("Expected one type per light, got %v for %d lights", body.LightTypes, body.Lights)
	}
	for _, lt := range body.LightTypes {
		switch lt {
		case "directional", "point", "spot":
		default:
			t.Errorf("Unexpected light type %q", lt)
		}
	}
}

func TestNewPipeline_Defaults(t *testing.T) {
	srv, _ := testServer(t)
	srv.cfg.MaxDepth = 0

	tests := []struct {
		name          string
		query         string
		wantDepth     int
		wantTolerance float64
	}{
		{"scene depth", "?scene=sphere-grid&width=4&height=3&samples=1", 6, 0},
		{"requested depth", "?scene=sphere-grid&width=4&height=3&samples=1&maxDepth=2", 2, 0},
		{"requested tolerance", "?scene=cylinders&width=4&height=3&samples=1&adaptiveTolerance=0.25", 8, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := parseRenderRequest(httptest.NewRequest(http.MethodGet, "/api/render"+tt.query, nil), srv.cfg)
			if err != nil {
				t.Fatalf("parseRenderRequest failed: %v", err)
			}
			if req.AdaptiveTolerance != tt.wantTolerance {
				t.Errorf("Expected tolerance %g, got %g", tt.wantTolerance, req.AdaptiveTolerance)
			}
			pipeline, err := srv.newPipeline(req, nil)
			if err != nil {
				t.Fatalf("newPipeline failed: %v", err)
			}
			if got := pipeline.Tracer.Options().MaxDepth; got != tt.wantDepth {
				t.Errorf("Expected max depth %d, got %d", tt.wantDepth, got)
			}
		})
	}
}

func TestHandleRender_PNG(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/render?scene=mirror&width=12&height=9&samples=1")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %s", ct)
	}
	if err := validateRenderID(resp.Header.Get("X-Render-ID")); err != nil {
		t.Errorf("Bad render id: %v", err)
	}
	if resp.Header.Get("X-Render-Samples") != "108" {
		t.Errorf("Expected 108 samples for 12x9 at 1 spp, got %s", resp.Header.Get("X-Render-Samples"))
	}

	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 9 {
		t.Errorf("Expected 12x9 image, got %v", img.Bounds())
	}
}

func TestHandleRender_BadRequests(t *testing.T) {
	_, ts := testServer(t)

	tests := []struct {
		name  string
		query string
	}{
		{"unknown scene", "?scene=nonexistent&width=4&height=4"},
		{"width too large", "?width=5000"},
		{"bad samples", "?samples=many"},
		{"bad seed", "?seed=-1"},
		{"bad adaptive", "?adaptive=sometimes"},
		{"negative adaptive tolerance", "?adaptiveTolerance=-0.5"},
		{"zero max depth", "?maxDepth=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/api/render" + tt.query)
			if err != nil {
				t.Fatalf("GET failed: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestHandleInspect(t *testing.T) {
	_, ts := testServer(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantHit    bool
		wantType   string
	}{
		// The bottom row of the default scene sees the floor in front of the spheres
		{"floor below center", "?scene=default&width=40&height=30&x=20&y=29", http.StatusOK, true, "plane"},
		{"missing coordinates", "?scene=default&width=40&height=30", http.StatusBadRequest, false, ""},
		{"out of bounds", "?scene=default&width=40&height=30&x=40&y=0", http.StatusBadRequest, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/api/inspect" + tt.query)
			if err != nil {
				t.Fatalf("GET failed: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("Expected %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var body InspectResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Hit != tt.wantHit || body.GeometryType != tt.wantType {
				t.Errorf("Expected hit=%v type=%q, got hit=%v type=%q", tt.wantHit, tt.wantType, body.Hit, body.GeometryType)
			}
		})
	}
}

func TestHandleRenderStream(t *testing.T) {
	_, ts := testServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/render?scene=default&width=16&height=12&samples=2"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.CloseNow()
	conn.SetReadLimit(1 << 20)

	var (
		events   []StreamEvent
		complete CompleteData
	)
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				t.Fatalf("Unexpected close: %v", err)
			}
			break
		}
		var raw struct {
			StreamEvent
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		events = append(events, raw.StreamEvent)
		if raw.Type == "complete" {
			if err := json.Unmarshal(raw.Data, &complete); err != nil {
				t.Fatalf("decode complete: %v", err)
			}
		}
	}

	if len(events) < 2 {
		t.Fatalf("Expected at least start and complete events, got %d", len(events))
	}
	if events[0].Type != "start" {
		t.Errorf("Expected start first, got %s", events[0].Type)
	}
	if last := events[len(events)-1]; last.Type != "complete" {
		t.Errorf("Expected complete last, got %s", last.Type)
	}

	sawConsole := false
	for _, e := range events {
		if e.RenderID != events[0].RenderID || e.SessionID != events[0].SessionID {
			t.Errorf("Event %s has mismatched ids", e.Type)
		}
		if e.Type == "console" {
			sawConsole = true
		}
	}
	if !sawConsole {
		t.Error("Expected console events from the render logger")
	}
	if err := validateRenderID(events[0].RenderID); err != nil {
		t.Errorf("Bad render id: %v", err)
	}

	if complete.Stats.TotalPixels != 16*12 {
		t.Errorf("Expected %d pixels, got %d", 16*12, complete.Stats.TotalPixels)
	}
	pngData, err := base64.StdEncoding.DecodeString(complete.ImageData)
	if err != nil {
		t.Fatalf("decode image data: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 12 {
		t.Errorf("Expected 16x12 image, got %v", img.Bounds())
	}
}

func TestHandleRenderStream_UnknownScene(t *testing.T) {
	_, ts := testServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/render?scene=nonexistent"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.CloseNow()

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	var event StreamEvent
	if err := json.Unmarshal(data, &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if event.Type != "error" {
		t.Errorf("Expected error event, got %s", event.Type)
	}

	_, _, err = conn.Read(ctx)
	if websocket.CloseStatus(err) != websocket.StatusInternalError {
		t.Errorf("Expected internal error close, got %v", err)
	}
}

func TestRenderIDs(t *testing.T) {
	id := newRenderID()
	if !strings.HasPrefix(id, PrefixRender+"_") {
		t.Errorf("Expected %s_ prefix, got %s", PrefixRender, id)
	}
	if err := validateRenderID(id); err != nil {
		t.Errorf("Generated id failed validation: %v", err)
	}
	if err := validateRenderID("session_01h455vb4pex5vsknk084sn02q"); err == nil {
		t.Error("Expected a prefix mismatch error")
	}
	if newSessionID() == newSessionID() {
		t.Error("Expected unique session ids")
	}
}
