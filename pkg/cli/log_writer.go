package cli

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/haivivi/lincon/pkg/buffer"
)

// LogWriter implements io.Writer and keeps the most recent log lines.
type LogWriter struct {
	mu       sync.Mutex
	lines    *buffer.Ring[string]
	maxLines int
}

// NewLogWriter creates a log writer retaining at most maxLines lines.
func NewLogWriter(maxLines int) *LogWriter {
	maxLines = max(maxLines, 1)
	return &LogWriter{
		lines:    buffer.RingN[string](maxLines),
		maxLines: maxLines,
	}
}

// Write implements io.Writer.
// Handles multi-line input by splitting on newlines.
func (w *LogWriter) Write(p []byte) (n int, err error) {
	text := strings.TrimRight(string(p), "\n")
	if text == "" {
		return len(p), nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for line := range strings.SplitSeq(text, "\n") {
		if w.lines.Len() == w.maxLines {
			w.lines.Pop()
		}
		w.lines.PushBack(line)
	}
	return len(p), nil
}

// Lines returns the retained lines, oldest first.
func (w *LogWriter) Lines() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, w.lines.Len())
	for line := range w.lines.Values() {
		out = append(out, line)
	}
	return out
}

// TeeHandler returns a slog.Handler that passes each record to every
// handler enabled for its level.
func TeeHandler(handlers ...slog.Handler) slog.Handler {
	return teeHandler(handlers)
}

type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}
