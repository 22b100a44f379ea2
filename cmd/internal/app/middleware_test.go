package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"authd/cmd/internal/metrics"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWithRequestLogging_AssignsRequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(newRequestIDHandler(slog.NewJSONHandler(&buf, nil)))

	var seen string
	h := WithRequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}), log, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	got := rec.Header().Get(RequestIDHeader)
	if got == "" || got != seen {
		t.Fatalf("header id=%q context id=%q", got, seen)
	}
	if _, err := ulid.ParseStrict(got); err != nil {
		t.Fatalf("generated id %q is not a ULID: %v", got, err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log %q: %v", buf.String(), err)
	}
	if entry["request_id"] != got || entry["result"] != "client_error" || entry["level"] != "WARN" {
		t.Fatalf("unexpected log entry: %v", entry)
	}
}

func TestWithRequestLogging_InboundRequestID(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := WithRequestLogging(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}), log, nil)

	cases := []struct {
		name    string
		inbound string
		keep    bool
	}{
		{name: "valid", inbound: "abc-123", keep: true},
		{name: "control chars", inbound: "abc\x01", keep: false},
		{name: "too long", inbound: strings.Repeat("a", maxInboundRequestIDLen+1), keep: false},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, tc.inbound)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		got := rec.Header().Get(RequestIDHeader)
		if tc.keep && got != tc.inbound {
			t.Fatalf("%s: id=%q want inbound", tc.name, got)
		}
		if !tc.keep && (got == tc.inbound || got == "") {
			t.Fatalf("%s: id=%q want fresh id", tc.name, got)
		}
	}
}

func TestWithRequestLogging_ObservesRoutePattern(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	h := WithRequestLogging(mux, log, m)

	for _, path := range []string{"/healthz", "/nope/1", "/nope/2"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if n := testutil.CollectAndCount(reg, "authd_http_request_duration_seconds"); n != 2 {
		t.Fatalf("histogram series=%d want 2 (healthz + unmatched)", n)
	}
}

func TestWithRequestLogging_BoundsMethodLabel(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := WithRequestLogging(http.NotFoundHandler(), log, m)

	for i := 0; i < 200; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(fmt.Sprintf("X%d", i), "/", nil))
	}
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if n := testutil.CollectAndCount(reg, "authd_http_request_duration_seconds"); n != 2 {
		t.Fatalf("histogram series=%d want 2 (GET + other)", n)
	}
}

func TestMethodLabel(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		http.MethodGet:     http.MethodGet,
		http.MethodPost:    http.MethodPost,
		http.MethodOptions: http.MethodOptions,
		"get":              "other",
		"PROPFIND":         "other",
		"":                 "other",
	}
	for in, want := range cases {
		if got := methodLabel(in); got != want {
			t.Fatalf("methodLabel(%q)=%q want %q", in, got, want)
		}
	}
}

func TestRequestLogMeta(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		level  slog.Level
		result string
	}{
		{status: 200, level: slog.LevelInfo, result: "ok"},
		{status: 204, level: slog.LevelInfo, result: "ok"},
		{status: 401, level: slog.LevelWarn, result: "client_error"},
		{status: 500, level: slog.LevelError, result: "server_error"},
	}
	for _, tc := range cases {
		level, result := requestLogMeta(tc.status)
		if level != tc.level || result != tc.result {
			t.Fatalf("requestLogMeta(%d)=(%v,%q) want (%v,%q)", tc.status, level, result, tc.level, tc.result)
		}
	}
}
