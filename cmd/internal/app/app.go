// Package app wires the authd server runtime: config, logging, metrics, the
// credential store and its HTTP routes.
package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"authd/cmd/identity"
	authapi "authd/cmd/internal/auth/api"
	"authd/cmd/internal/metrics"
	"authd/cmd/security/password"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 10 * time.Second

// App is the authd server runtime: it owns the credential store and HTTP wiring.
type App struct {
	cfg Config
	log Logger

	store   *identity.MemoryStore
	metrics *metrics.Metrics
	reg     *prometheus.Registry

	handler http.Handler
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat, nil)
	}

	hasher, err := password.FromEnv()
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, log: log}

	storeOpts := []identity.Option{
		identity.WithHasher(hasher),
		identity.WithLogger(log),
	}
	if cfg.MetricsEnabled {
		a.reg = prometheus.NewRegistry()
		a.reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		a.metrics = metrics.New(a.reg)
		storeOpts = append(storeOpts, identity.WithRecorder(a.metrics))
	}

	store, err := identity.NewMemoryStore(storeOpts...)
	if err != nil {
		return nil, err
	}
	a.store = store

	auth, err := authapi.NewHandler(log, store, authapi.Config{MaxBodyBytes: cfg.MaxBodyBytes})
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	var gatherer prometheus.Gatherer
	if a.reg != nil {
		gatherer = a.reg
	}
	registerHTTP(mux, store, gatherer, auth)
	a.handler = WithRequestLogging(mux, log, a.metrics)

	log.Info("app.ready",
		"password_algorithm", string(hasher.Algorithm),
		"metrics_enabled", cfg.MetricsEnabled,
	)
	return a, nil
}

// Handler returns the root HTTP handler (routes plus request logging).
func (a *App) Handler() http.Handler { return a.handler }

// Store exposes the credential store owned by the app.
func (a *App) Store() identity.Store { return a.store }

// Run starts the HTTP server and blocks until context cancellation or fatal server error.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.HTTPAddr)
	if err != nil {
		a.log.Error("server.listen.fail", "addr", a.cfg.HTTPAddr, "err", err)
		return err
	}
	return a.Serve(ctx, ln)
}

// Serve runs the HTTP server on ln until ctx is done, then shuts down gracefully.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	a.log.Info("server.stopped", "users", a.store.Len())
	return nil
}

// Close releases the credential store.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
