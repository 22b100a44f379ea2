package identity

import (
	"context"
	"time"
)

// user is one registered account. Records are owned by the store and are
// never handed to callers; passwordDigest in particular never leaves it.
type user struct {
	identityToken  string
	username       string
	passwordDigest string
	createdAt      time.Time
}

// Store is the credential store boundary consumed by the service layer.
//
// Contract:
//   - CreateUser fails with a username ConflictError (no state change) if the name is taken,
//     with ErrHashing if no digest could be produced, and never inserts partially.
//   - GetUserIdentity returns ("", false) for an unknown username and for a wrong password alike.
//   - DeleteUser is idempotent; deleting an unknown token is a no-op.
type Store interface {
	CreateUser(ctx context.Context, username, password string) error
	GetUserIdentity(ctx context.Context, username, password string) (identityToken string, ok bool)
	DeleteUser(ctx context.Context, identityToken string)
	Len() int
}

// Operation and outcome labels reported to a Recorder.
const (
	OpCreate       = "create"
	OpAuthenticate = "authenticate"
	OpDelete       = "delete"

	OutcomeCreated           = "created"
	OutcomeUsernameTaken     = "username_taken"
	OutcomeIdentityCollision = "identity_collision"
	OutcomeHashingFailed     = "hashing_failed"
	OutcomeIdentityGenFailed = "identity_generation_failed"
	OutcomeInvalidInput      = "invalid_input"
	OutcomeSuccess           = "success"
	OutcomeFailure           = "failure"
	OutcomeDeleted           = "deleted"
	OutcomeAbsent            = "absent"
)

// Recorder receives store outcomes (metrics). Implementations must be safe for concurrent use.
type Recorder interface {
	ObserveOperation(op, outcome string)
	SetUsers(n int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, string) {}
func (nopRecorder) SetUsers(int) {}
