package app

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPrettyHandler_FormatsLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}, false))

	log.With("component", "http").WithGroup("req").Info("http.request",
		"path", "/auth/signin",
		"status", 401,
		"user_agent", "curl 8.0",
	)

	line := buf.String()
	for _, want := range []string{
		"[INFO]",
		"http.request",
		" component=http",
		"req.path=/auth/signin",
		"req.status=401",
		`req.user_agent="curl 8.0"`,
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("line %q missing %q", line, want)
		}
	}
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("colour codes emitted with colour disabled: %q", line)
	}
}

func TestPrettyHandler_Colour(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, nil, true))
	log.Error("store.fail", "status", 500)

	line := buf.String()
	if !strings.Contains(line, ansiRed) {
		t.Fatalf("expected red for error: %q", line)
	}
	plain := stripANSI(line)
	if !strings.Contains(plain, "[ERROR] store.fail status=500") {
		t.Fatalf("stripped line=%q", plain)
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	t.Parallel()

	h := newPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}, false)
	if h.Enabled(t.Context(), slog.LevelInfo) {
		t.Fatalf("info enabled at warn level")
	}
	if !h.Enabled(t.Context(), slog.LevelError) {
		t.Fatalf("error disabled at warn level")
	}
}
