package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_ObserveOperation(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveOperation("create", "created")
	m.ObserveOperation("create", "created")
	m.ObserveOperation("create", "username_taken")
	m.SetUsers(2)

	if got := testutil.ToFloat64(m.operations.WithLabelValues("create", "created")); got != 2 {
		t.Fatalf("created counter=%v want 2", got)
	}
	if got := testutil.ToFloat64(m.operations.WithLabelValues("create", "username_taken")); got != 1 {
		t.Fatalf("username_taken counter=%v want 1", got)
	}
	if got := testutil.ToFloat64(m.users); got != 2 {
		t.Fatalf("users gauge=%v want 2", got)
	}
}

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveRequest(http.MethodPost, "/auth/signin", http.StatusUnauthorized, 3*time.Millisecond)
	m.SetUsers(1)

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	for _, want := range []string{
		"authd_identity_users 1",
		`authd_http_request_duration_seconds_count{method="POST",path="/auth/signin",status_class="4xx"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %q:\n%s", want, body)
		}
	}
}

func TestStatusClass(t *testing.T) {
	t.Parallel()

	cases := map[int]string{200: "2xx", 204: "2xx", 302: "3xx", 404: "4xx", 503: "5xx", 0: "unknown", 700: "unknown"}
	for in, want := range cases {
		if got := StatusClass(in); got != want {
			t.Fatalf("StatusClass(%d)=%q want %q", in, got, want)
		}
	}
}
