package logger

import (
	"context"
	"log/slog"
	"runtime"
)

type levelSet map[slog.Level]struct{}

func (s levelSet) has(l slog.Level) bool {
	_, ok := s[l]
	return ok
}

type conditionalSourceHandler struct {
	handler slog.Handler
	levels  levelSet
}

// NewConditionalSourceHandler wraps handler so that the source location is added
// only to records of the given levels. The wrapped handler must not add source itself.
func NewConditionalSourceHandler(handler slog.Handler, levels ...slog.Level) slog.Handler {
	set := make(levelSet, len(levels))
	for _, l := range levels {
		set[l] = struct{}{}
	}
	return &conditionalSourceHandler{handler: handler, levels: set}
}

func (h *conditionalSourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.levels.has(r.Level) {
		r.AddAttrs(slog.Any(slog.SourceKey, callerSource()))
	}
	return h.handler.Handle(ctx, r)
}

// callerSource skips runtime.Callers, this function, Handle and the slog frame.
func callerSource() *slog.Source {
	var pcs [1]uintptr
	runtime.Callers(4, pcs[:])
	f, _ := runtime.CallersFrames(pcs[:]).Next()
	return &slog.Source{Function: f.Function, File: f.File, Line: f.Line}
}

func (h *conditionalSourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &conditionalSourceHandler{handler: h.handler.WithAttrs(attrs), levels: h.levels}
}

func (h *conditionalSourceHandler) WithGroup(name string) slog.Handler {
	return &conditionalSourceHandler{handler: h.handler.WithGroup(name), levels: h.levels}
}

func (h *conditionalSourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}
