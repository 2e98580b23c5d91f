package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

const (
	writeWait         = 10 * time.Second
	eventBufferSize   = 100
	consoleBufferSize = 50
)

// StreamEvent is one websocket message of a render stream
type StreamEvent struct {
	Type      string `json:"type"` // "start", "console", "progress", "complete", "error"
	RenderID  string `json:"renderId"`
	SessionID string `json:"sessionId"`
	Data      any    `json:"data,omitempty"`
}

// StartData announces a render
type StartData struct {
	Scene      string `json:"scene"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Samples    int    `json:"samples"`
	Primitives int    `json:"primitives"`
}

// ProgressData reports pixels finished so far
type ProgressData struct {
	Done      int     `json:"done"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
	ElapsedMs int64   `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	MinSamples     int     `json:"minSamples"`
	MaxSamplesUsed int     `json:"maxSamplesUsed"`
	Workers        int     `json:"workers"`
	ElapsedMs      int64   `json:"elapsedMs"`
}

// CompleteData carries the final image and statistics
type CompleteData struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
}

func newStats(stats renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:    stats.TotalPixels,
		TotalSamples:   stats.TotalSamples,
		AverageSamples: stats.AverageSamples,
		MinSamples:     stats.MinSamples,
		MaxSamplesUsed: stats.MaxSamplesUsed,
		Workers:        stats.Workers,
		ElapsedMs:      stats.Elapsed.Milliseconds(),
	}
}

// handleRender renders a scene and responds with the PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r, s.cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	renderID := newRenderID()
	logger := s.logger.With("render_id", renderID)
	pipeline, err := s.newPipeline(req, func(c *renderer.CameraConfig) { c.Logger = logger })
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	stats, err := pipeline.Camera.Render()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, pipeline.Frame.Image(s.cfg.Gamma)); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("encode png: %w", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Render-ID", renderID)
	w.Header().Set("X-Render-Elapsed-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))
	w.Header().Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleRenderStream renders a scene while streaming console lines and
// progress over a websocket, then sends the finished image.
// Renders cannot be cancelled: a client that disconnects stops receiving
// events but the render runs to completion.
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r, s.cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.OriginPatterns,
	})
	if err != nil {
		s.logger.Error("websocket accept", "error", err)
		return
	}
	defer conn.CloseNow()

	// Client messages are ignored; CloseRead cancels ctx when the client goes away
	ctx := conn.CloseRead(context.Background())

	stream := &renderStream{
		renderID:  newRenderID(),
		sessionID: newSessionID(),
		events:    make(chan StreamEvent, eventBufferSize),
	}
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeEvents(ctx, conn, stream.events)
	}()

	err = s.streamRender(ctx, stream, req)
	close(stream.events)
	<-writerDone

	if err != nil {
		conn.Close(websocket.StatusInternalError, "render failed")
		return
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

// renderStream is the per-connection state of a streamed render
type renderStream struct {
	renderID  string
	sessionID string
	events    chan StreamEvent
}

func (rs *renderStream) event(eventType string, data any) StreamEvent {
	return StreamEvent{Type: eventType, RenderID: rs.renderID, SessionID: rs.sessionID, Data: data}
}

// send queues an event, giving up if the client is gone
func (rs *renderStream) send(ctx context.Context, event StreamEvent) {
	select {
	case rs.events <- event:
	case <-ctx.Done():
	}
}

// trySend queues an event unless the buffer is full
func (rs *renderStream) trySend(event StreamEvent) {
	select {
	case rs.events <- event:
	default:
		// Channel full, skip (don't block the render)
	}
}

// streamRender runs the render and queues its events. It returns once no
// more events will be sent.
func (s *Server) streamRender(ctx context.Context, stream *renderStream, req *RenderRequest) error {
	consoleChan := make(chan ConsoleMessage, consoleBufferSize)
	logger := slog.New(NewConsoleHandler(stream.renderID, consoleChan, s.logger.Handler())).
		With("session_id", stream.sessionID)

	stopConsole := make(chan struct{})
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, stream, consoleChan, stopConsole)
	}()
	stopConsoleAndWait := func() {
		close(stopConsole)
		<-consoleDone
	}

	pipeline, err := s.newPipeline(req, func(c *renderer.CameraConfig) {
		c.Logger = logger
		c.OnProgress = func(p renderer.Progress) {
			stream.trySend(stream.event("progress", ProgressData{
				Done:      p.Done,
				Total:     p.Total,
				Percent:   p.Percent,
				ElapsedMs: p.Elapsed.Milliseconds(),
			}))
		}
	})
	if err != nil {
		stopConsoleAndWait()
		stream.send(ctx, stream.event("error", err.Error()))
		return err
	}

	width, height := pipeline.Camera.Resolution()
	stream.send(ctx, stream.event("start", StartData{
		Scene:      pipeline.Scene.Name,
		Width:      width,
		Height:     height,
		Samples:    pipeline.Camera.Samples(),
		Primitives: pipeline.Scene.GetPrimitiveCount(),
	}))

	stats, err := pipeline.Camera.Render()
	stopConsoleAndWait()
	if err != nil {
		stream.send(ctx, stream.event("error", fmt.Sprintf("Rendering failed: %v", err)))
		return err
	}

	imageData, err := imageToBase64PNG(pipeline.Frame.Image(s.cfg.Gamma))
	if err != nil {
		stream.send(ctx, stream.event("error", fmt.Sprintf("encode image: %v", err)))
		return err
	}
	stream.send(ctx, stream.event("complete", CompleteData{ImageData: imageData, Stats: newStats(stats)}))
	return nil
}

// streamConsoleMessages forwards console lines until stop is closed, then
// drains whatever is still buffered
func (s *Server) streamConsoleMessages(ctx context.Context, stream *renderStream, consoleChan <-chan ConsoleMessage, stop <-chan struct{}) {
	for {
		select {
		case msg := <-consoleChan:
			stream.send(ctx, stream.event("console", msg))
		case <-stop:
			for {
				select {
				case msg := <-consoleChan:
					stream.send(ctx, stream.event("console", msg))
				default:
					return
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// writeEvents handles writing all events in a single goroutine. It keeps
// draining the channel after the client leaves so senders never block.
func (s *Server) writeEvents(ctx context.Context, conn *websocket.Conn, events <-chan StreamEvent) {
	connected := true
	for event := range events {
		if !connected {
			continue
		}

		data, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal stream event", "type", event.Type, "error", err)
			continue
		}

		writeCtx, cancel := context.WithTimeout(ctx, writeWait)
		err = conn.Write(writeCtx, websocket.MessageText, data)
		cancel()
		if err != nil {
			s.logger.Debug("write error", "error", err, "render_id", event.RenderID)
			connected = false
		}
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
