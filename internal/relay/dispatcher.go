package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/hengjingzhu/remote-mcp-gateway/internal/session"
	"github.com/hengjingzhu/remote-mcp-gateway/pkg/logging"
)

// DefaultRelayTimeout bounds how long a relay push may take before the
// request is rejected. Proceeding with an unknown credential state is strictly
// worse than an explicit failure: the failure would otherwise surface much
// later as a downstream authentication error far from its cause.
const DefaultRelayTimeout = 5 * time.Second

// Dispatcher pushes credentials into session actors. It is internal-only:
// nothing on the public HTTP surface reaches it except the gateway router's
// own dispatch.
type Dispatcher struct {
	store   CredentialStore
	timeout time.Duration
}

// NewDispatcher creates a dispatcher over the given store. A non-positive
// timeout falls back to DefaultRelayTimeout.
func NewDispatcher(store CredentialStore, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultRelayTimeout
	}
	return &Dispatcher{store: store, timeout: timeout}
}

// Relay durably stores the credential under the style-namespaced session key.
// It returns only after the write has committed (or failed), establishing the
// happens-before edge the caller relies on: once Relay returns nil, any later
// retrieval within the session observes the credential.
func (d *Dispatcher) Relay(ctx context.Context, key session.Key, token string) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.store.StoreCredential(ctx, key, token); err != nil {
		return fmt.Errorf("relaying credential to session actor %s: %w", key.ActorAddress(), err)
	}

	logging.Debug("Relay", "Relayed credential to session %s (%s)",
		logging.TruncateSessionID(key.ID), key.Style)
	return nil
}
