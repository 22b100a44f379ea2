package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// Logger is the app-wide logger type (slog).
type Logger = *slog.Logger

// NewLogger creates a structured logger with an explicit level.
// format "pretty" selects the human-readable handler; anything else is JSON.
// A nil w writes to stdout.
func NewLogger(level, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	opts := &slog.HandlerOptions{
		Level:     parseLogLevel(level),
		AddSource: true,
	}

	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "pretty", "text":
		h = newPrettyHandler(w, opts, isTerminal(w))
	default:
		h = slog.NewJSONHandler(w, opts)
	}

	log := slog.New(newRequestIDHandler(h))
	slog.SetDefault(log)
	return log
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// requestIDHandler adds the request_id carried by ctx to every record as a
// top-level attribute, including on loggers that opened groups.
type requestIDHandler struct {
	next slog.Handler

	// root is the handler before any WithAttrs/WithGroup; steps replays them
	// after request_id is attached. Only consulted once a group is open.
	root    slog.Handler
	steps   []handlerStep
	grouped bool
}

type handlerStep struct {
	group string
	attrs []slog.Attr
}

func newRequestIDHandler(next slog.Handler) requestIDHandler {
	return requestIDHandler{next: next, root: next}
}

func (h requestIDHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h requestIDHandler) Handle(ctx context.Context, r slog.Record) error {
	id := RequestIDFromContext(ctx)
	if id == "" {
		return h.next.Handle(ctx, r)
	}
	if !h.grouped {
		r.AddAttrs(slog.String("request_id", id))
		return h.next.Handle(ctx, r)
	}

	out := h.root.WithAttrs([]slog.Attr{slog.String("request_id", id)})
	for _, st := range h.steps {
		if st.group != "" {
			out = out.WithGroup(st.group)
			continue
		}
		out = out.WithAttrs(st.attrs)
	}
	return out.Handle(ctx, r)
}

func (h requestIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h.next = h.next.WithAttrs(attrs)
	h.steps = append(h.steps[:len(h.steps):len(h.steps)], handlerStep{attrs: attrs})
	return h
}

func (h requestIDHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h.next = h.next.WithGroup(name)
	h.steps = append(h.steps[:len(h.steps):len(h.steps)], handlerStep{group: name})
	h.grouped = true
	return h
}
