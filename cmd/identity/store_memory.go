package identity

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"authd/cmd/identity/ids"
)

// maxIdentityAttempts bounds identity token regeneration on collision.
const maxIdentityAttempts = 3

// dummyPassword feeds the timing-equalisation digest used for unknown usernames.
const dummyPassword = "authd-dummy-password-for-timing-only"

// MemoryStore is the in-memory credential store.
//
// Layout:
//   - byID is the arena: identity token -> record (the only owner of records)
//   - byUsername is a redirection index: username -> identity token
//
// Both maps are mutated only under mu's write lock, so every insert and delete
// touches them in one guarded step. Password hashing and verification run
// outside the lock.
type MemoryStore struct {
	mu         sync.RWMutex
	byID       map[string]*user
	byUsername map[string]string

	hasher Hasher
	newID  ids.Generator
	log    *slog.Logger
	rec    Recorder
	now    func() time.Time

	// dummyDigest is verified against for unknown usernames; set once in NewMemoryStore.
	dummyDigest string
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithHasher overrides the env-configured password hasher.
func WithHasher(h Hasher) Option {
	return func(s *MemoryStore) {
		if h != nil {
			s.hasher = h
		}
	}
}

// WithIDGenerator overrides the identity token source.
func WithIDGenerator(g ids.Generator) Option {
	return func(s *MemoryStore) {
		if g != nil {
			s.newID = g
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *MemoryStore) {
		if log != nil {
			s.log = log
		}
	}
}

// WithRecorder sets the outcome recorder.
func WithRecorder(r Recorder) Option {
	return func(s *MemoryStore) {
		if r != nil {
			s.rec = r
		}
	}
}

// WithClock overrides time.Now for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore constructs an empty store. Without WithHasher the hasher is
// loaded from env, which fails on invalid hashing config. It also derives the
// digest used for unknown usernames and fails with ErrHashing if it cannot.
func NewMemoryStore(opts ...Option) (*MemoryStore, error) {
	const op = "identity.NewMemoryStore"

	s := &MemoryStore{
		byID:       make(map[string]*user),
		byUsername: make(map[string]string),
		newID:      ids.NewIdentityToken,
		log:        slog.Default(),
		rec:        nopRecorder{},
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.hasher == nil {
		h, err := DefaultHasher()
		if err != nil {
			return nil, err
		}
		s.hasher = h
	}

	d, err := s.hasher.Hash(dummyPassword)
	if err != nil {
		return nil, OpError{Op: op, Kind: ErrHashing, Msg: "derive timing digest", Err: err}
	}
	if d == "" {
		return nil, OpError{Op: op, Kind: ErrHashing, Msg: "empty timing digest"}
	}
	s.dummyDigest = d
	return s, nil
}

// Close releases store resources (noop for in-memory).
func (s *MemoryStore) Close() error { return nil }

// Len returns the number of active users.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// CreateUser registers username with a digest of password under a new identity token.
func (s *MemoryStore) CreateUser(ctx context.Context, username, password string) error {
	const op = "identity.CreateUser"

	username = NormalizeUsername(username)
	if username == "" {
		s.rec.ObserveOperation(OpCreate, OutcomeInvalidInput)
		return OpError{Op: op, Kind: ErrInvalidInput, Msg: "username is required"}
	}

	// Skip the expensive hash when the name is already taken; re-checked under the write lock.
	if s.hasUsername(username) {
		s.rec.ObserveOperation(OpCreate, OutcomeUsernameTaken)
		return ConflictError{Op: op, Field: FieldUsername}
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		s.log.ErrorContext(ctx, "identity.user.hash.fail", "err", err)
		s.rec.ObserveOperation(OpCreate, OutcomeHashingFailed)
		return OpError{Op: op, Kind: ErrHashing, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byUsername[username]; taken {
		s.rec.ObserveOperation(OpCreate, OutcomeUsernameTaken)
		return ConflictError{Op: op, Field: FieldUsername}
	}

	token, err := s.allocateIdentityLocked(op)
	if err != nil {
		outcome := OutcomeIdentityGenFailed
		if IsIdentityCollision(err) {
			outcome = OutcomeIdentityCollision
		}
		s.log.ErrorContext(ctx, "identity.user.token.fail", "err", err)
		s.rec.ObserveOperation(OpCreate, outcome)
		return err
	}

	s.byID[token] = &user{
		identityToken:  token,
		username:       username,
		passwordDigest: digest,
		createdAt:      s.now(),
	}
	s.byUsername[username] = token

	s.rec.ObserveOperation(OpCreate, OutcomeCreated)
	s.rec.SetUsers(len(s.byID))
	s.log.DebugContext(ctx, "identity.user.created", "identity_token", token)
	return nil
}

// GetUserIdentity returns the identity token for username if password matches.
// An unknown username still costs one verification against a dummy digest.
func (s *MemoryStore) GetUserIdentity(ctx context.Context, username, password string) (string, bool) {
	username = NormalizeUsername(username)

	s.mu.RLock()
	var token, digest string
	if id, ok := s.byUsername[username]; ok {
		if u := s.byID[id]; u != nil {
			token, digest = u.identityToken, u.passwordDigest
		}
	}
	s.mu.RUnlock()

	if token == "" {
		_ = s.hasher.Matches(s.dummyDigest, password)
		s.rec.ObserveOperation(OpAuthenticate, OutcomeFailure)
		s.log.DebugContext(ctx, "identity.auth.fail")
		return "", false
	}

	if !s.hasher.Matches(digest, password) {
		s.rec.ObserveOperation(OpAuthenticate, OutcomeFailure)
		s.log.DebugContext(ctx, "identity.auth.fail")
		return "", false
	}

	s.rec.ObserveOperation(OpAuthenticate, OutcomeSuccess)
	s.log.DebugContext(ctx, "identity.auth.ok", "identity_token", token)
	return token, true
}

// DeleteUser removes the user owning identityToken. Unknown tokens are a no-op.
func (s *MemoryStore) DeleteUser(ctx context.Context, identityToken string) {
	s.mu.Lock()
	u, ok := s.byID[identityToken]
	if ok {
		delete(s.byID, identityToken)
		delete(s.byUsername, u.username)
		// Gauge updates stay ordered with the mutations they describe.
		s.rec.SetUsers(len(s.byID))
	}
	s.mu.Unlock()

	if !ok {
		s.rec.ObserveOperation(OpDelete, OutcomeAbsent)
		return
	}
	s.rec.ObserveOperation(OpDelete, OutcomeDeleted)
	s.log.DebugContext(ctx, "identity.user.deleted", "identity_token", identityToken)
}

func (s *MemoryStore) hasUsername(username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byUsername[username]
	return ok
}

// allocateIdentityLocked returns a token not present in byID. Caller holds mu.
func (s *MemoryStore) allocateIdentityLocked(op string) (string, error) {
	for attempt := 1; attempt <= maxIdentityAttempts; attempt++ {
		token, err := s.newID()
		if err != nil {
			return "", OpError{Op: op, Kind: ErrIdentityGen, Err: err}
		}
		if token == "" {
			return "", OpError{Op: op, Kind: ErrIdentityGen, Err: errors.New("empty identity token")}
		}
		if _, exists := s.byID[token]; !exists {
			return token, nil
		}
		s.log.Warn("identity.user.token.collision", "attempt", attempt)
	}
	return "", ConflictError{Op: op, Field: FieldIdentityToken}
}

var _ Store = (*MemoryStore)(nil)
