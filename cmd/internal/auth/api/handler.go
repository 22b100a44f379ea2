// Package authapi exposes the credential store over JSON/HTTP.
package authapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"authd/cmd/identity"
)

// Handler wires HTTP auth endpoints to the credential store.
type Handler struct {
	log   *slog.Logger
	cfg   Config
	store identity.Store
}

// NewHandler constructs an auth Handler over store.
func NewHandler(log *slog.Logger, store identity.Store, cfg Config) (*Handler, error) {
	if store == nil {
		return nil, errors.New("authapi: nil store")
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	return &Handler{log: log, cfg: cfg, store: store}, nil
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/auth/signup", h.handleSignUp)
	mux.HandleFunc("/auth/signin", h.handleSignIn)
	mux.HandleFunc("/auth/delete", h.handleDelete)
}

// ---- handlers ----

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req credentialsRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidJSON, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "username and password are required")
		return
	}

	ctx := r.Context()
	err := h.store.CreateUser(ctx, req.Username, req.Password)
	switch {
	case err == nil:
		h.log.InfoContext(ctx, "auth.signup.ok")
		writeJSON(w, http.StatusCreated, signUpResponse{Status: "created"})
	case identity.IsUsernameTaken(err):
		writeError(w, http.StatusConflict, codeUsernameTaken, "username already exists")
	case identity.IsIdentityCollision(err):
		h.log.ErrorContext(ctx, "auth.signup.collision", "err", err)
		writeError(w, http.StatusConflict, codeIdentityCollision, "could not allocate identity, retry")
	case identity.IsInvalidInput(err):
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "username and password are required")
	case identity.IsHashing(err):
		h.log.ErrorContext(ctx, "auth.signup.hash.fail", "err", err)
		writeError(w, http.StatusInternalServerError, codeHashingFailed, "failed to hash password")
	default:
		h.log.ErrorContext(ctx, "auth.signup.fail", "err", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req credentialsRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidJSON, "invalid request body")
		return
	}

	// Unknown user and wrong password share one response.
	token, ok := h.store.GetUserIdentity(r.Context(), req.Username, req.Password)
	if !ok {
		writeError(w, http.StatusUnauthorized, codeInvalidCredentials, "invalid username or password")
		return
	}
	writeJSON(w, http.StatusOK, signInResponse{IdentityToken: token})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req deleteRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidJSON, "invalid request body")
		return
	}
	token := strings.TrimSpace(req.IdentityToken)
	if token == "" {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "identity_token is required")
		return
	}

	h.store.DeleteUser(r.Context(), token)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusNoContent)
}
