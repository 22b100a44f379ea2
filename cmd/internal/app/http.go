package app

import (
	"fmt"
	"net/http"

	"authd/cmd/identity"
	authapi "authd/cmd/internal/auth/api"
	"authd/cmd/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

func registerHTTP(
	mux *http.ServeMux,
	store identity.Store,
	gatherer prometheus.Gatherer,
	auth *authapi.Handler,
) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if store == nil {
			http.Error(w, "store not configured", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, "ready users=%d\n", store.Len())
	})

	if gatherer != nil {
		mux.Handle("/metrics", metrics.Handler(gatherer))
	}

	if auth != nil {
		auth.Register(mux)
	}
}
