package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "unknown", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
	}

	for _, tc := range cases {
		got := parseLogLevel(tc.in)
		if got != tc.want {
			t.Fatalf("parseLogLevel(%q)=%v want=%v", tc.in, got, tc.want)
		}
	}
}

func TestNewLogger_JSONCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("debug", "json", &buf)

	ctx := context.WithValue(context.Background(), requestIDKey{}, "req-123")
	log.InfoContext(ctx, "hello", "k", "v")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if rec["msg"] != "hello" || rec["k"] != "v" {
		t.Fatalf("unexpected record: %v", rec)
	}
	if rec["request_id"] != "req-123" {
		t.Fatalf("request_id=%v want req-123", rec["request_id"])
	}
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("warn", "json", &buf)

	log.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info logged at warn level: %q", buf.String())
	}
	log.Warn("kept")
	if !strings.Contains(buf.String(), `"kept"`) {
		t.Fatalf("warn not logged: %q", buf.String())
	}
}

func TestRequestIDHandler_TopLevelOnGroupedLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(newRequestIDHandler(slog.NewJSONHandler(&buf, nil)))

	ctx := context.WithValue(context.Background(), requestIDKey{}, "req-9")
	log.With("component", "auth").WithGroup("req").With("path", "/auth/signin").InfoContext(ctx, "hello", "status", 401)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if rec["request_id"] != "req-9" {
		t.Fatalf("request_id=%v want top-level req-9 (record=%v)", rec["request_id"], rec)
	}
	if rec["component"] != "auth" {
		t.Fatalf("component=%v want auth", rec["component"])
	}
	group, ok := rec["req"].(map[string]any)
	if !ok {
		t.Fatalf("missing req group: %v", rec)
	}
	if group["path"] != "/auth/signin" || group["status"] != float64(401) {
		t.Fatalf("unexpected group contents: %v", group)
	}
	if _, leaked := group["request_id"]; leaked {
		t.Fatalf("request_id must not be nested in the group: %v", group)
	}
}
