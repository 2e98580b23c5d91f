package server

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "warn", "error"
}

// ConsoleHandler is a slog.Handler that copies records into a console channel
// for a single render and passes them on to the next handler.
// Sends never block; messages are dropped when the channel is full.
type ConsoleHandler struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
	next        slog.Handler
	attrs       []slog.Attr
}

// NewConsoleHandler creates a console handler for a specific render.
// next may be nil to only feed the console.
func NewConsoleHandler(renderID string, consoleChan chan<- ConsoleMessage, next slog.Handler) *ConsoleHandler {
	return &ConsoleHandler{
		renderID:    renderID,
		consoleChan: consoleChan,
		next:        next,
	}
}

func (h *ConsoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.consoleChan != nil && level >= slog.LevelInfo {
		return true
	}
	return h.next != nil && h.next.Enabled(ctx, level)
}

func (h *ConsoleHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.consoleChan != nil && record.Level >= slog.LevelInfo {
		select {
		case h.consoleChan <- ConsoleMessage{
			Message:   h.format(record),
			Timestamp: record.Time,
			Level:     strings.ToLower(record.Level.String()),
		}:
		default:
			// Channel full, skip (don't block)
		}
	}

	if h.next != nil && h.next.Enabled(ctx, record.Level) {
		record = record.Clone()
		record.AddAttrs(slog.String("render_id", h.renderID))
		return h.next.Handle(ctx, record)
	}
	return nil
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	if h.next != nil {
		clone.next = h.next.WithAttrs(attrs)
	}
	return &clone
}

// WithGroup is passed through to the next handler; console lines stay flat
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	clone := *h
	if h.next != nil {
		clone.next = h.next.WithGroup(name)
	}
	return &clone
}

// format renders a record as "message key=value ..."
func (h *ConsoleHandler) format(record slog.Record) string {
	var b strings.Builder
	b.WriteString(record.Message)
	write := func(a slog.Attr) bool {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteByte('=')
		b.WriteString(a.Value.String())
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	record.Attrs(write)
	return b.String()
}
