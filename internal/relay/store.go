package relay

import (
	"context"
	"errors"

	"github.com/hengjingzhu/remote-mcp-gateway/internal/session"
)

// ErrEmptyCredential is returned when a store is attempted with an empty
// token. Absence must stay representable: an empty string stored as a
// credential would be indistinguishable from "no credential".
var ErrEmptyCredential = errors.New("credential must not be empty")

// CredentialStore is the durable, session-scoped credential storage behind the
// relay. Each session key addresses exactly one slot holding at most one
// credential; stores are idempotent with last-write-wins semantics, and reads
// never consume or mutate state.
//
// Implementations must keep the two connection styles in disjoint namespaces:
// a credential stored under a streamed key is never visible under a direct key
// with the same raw ID.
type CredentialStore interface {
	// StoreCredential durably writes the credential for the session,
	// overwriting any previously held value. A failed write must surface as
	// an error; a silently dropped credential manifests much later as a
	// confusing authentication failure at tool-execution time.
	StoreCredential(ctx context.Context, key session.Key, token string) error

	// RetrieveCredential returns the most recently stored credential for the
	// session. found is false when no store has ever happened; that is a
	// normal outcome, not an error.
	RetrieveCredential(ctx context.Context, key session.Key) (token string, found bool, err error)

	// DeleteSession removes the session's credential. Deleting a session that
	// holds nothing is a no-op.
	DeleteSession(ctx context.Context, key session.Key) error

	// SessionCount returns the number of sessions currently holding a
	// credential (for monitoring).
	SessionCount(ctx context.Context) (int, error)
}
