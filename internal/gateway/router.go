package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/hengjingzhu/remote-mcp-gateway/internal/credential"
	"github.com/hengjingzhu/remote-mcp-gateway/internal/relay"
	"github.com/hengjingzhu/remote-mcp-gateway/internal/session"
	"github.com/hengjingzhu/remote-mcp-gateway/pkg/logging"
)

// Router is the admission pipeline for inbound gateway requests. Every request
// to a recognized route passes through the same sequence before the transport
// handler sees it: extract the bearer credential, resolve the style-namespaced
// session key, relay the credential into the session's durable store. Only a
// request whose relay has completed is handed off, so any retrieval performed
// later within the session observes the credential.
type Router struct {
	dispatcher *relay.Dispatcher
}

// NewRouter creates a router over the given relay dispatcher.
func NewRouter(dispatcher *relay.Dispatcher) *Router {
	return &Router{dispatcher: dispatcher}
}

// Protect wraps a transport handler with the admission pipeline for the given
// connection style.
func (rt *Router) Protect(style session.Style, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Authenticating: no credential means no session and no relay.
		token, ok := credential.FromRequest(r)
		if !ok {
			writeUnauthorized(w)
			return
		}

		// Relaying: the push must complete before the handoff.
		key, generated := session.ResolveKey(style, r)
		if generated {
			logging.Debug("Gateway", "Assigned new %s session %s", style, logging.TruncateSessionID(key.ID))
		}
		if err := rt.dispatcher.Relay(r.Context(), key, token); err != nil {
			logging.Error("Gateway", err, "Credential relay failed for session %s", logging.TruncateSessionID(key.ID))
			writeRelayFailure(w)
			return
		}

		// Dispatching: the transport handler and everything below it can
		// resolve the session key and, for session registration hooks, the
		// original token from the request context.
		ctx := session.ContextWithKey(r.Context(), key)
		ctx = credential.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// NotFoundHandler serves unrecognized routes. No session is created and no
// relay is attempted.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "not_found", "unknown path: "+r.URL.Path)
	})
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="remote-mcp-gateway"`)
	writeJSONError(w, http.StatusUnauthorized, "unauthorized", "bearer credential required")
}

func writeRelayFailure(w http.ResponseWriter) {
	writeJSONError(w, http.StatusInternalServerError, "relay_failed",
		"could not establish session credential; retry the request")
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
	})
}
