package credential

import "context"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// relayedTokenKey is the context key for carrying the request's bearer
// credential from the gateway router to transport-level session hooks.
//
//nolint:gosec // G101 false positive - this is a context key name, not a credential
const relayedTokenKey contextKey = "relayed_bearer_token"

// ContextWithToken returns a context carrying the extracted bearer credential.
// The router attaches it before handing the request to the transport handler so
// that session registration hooks can mirror the credential under
// transport-assigned session IDs.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, relayedTokenKey, token)
}

// TokenFromContext retrieves the bearer credential from the context.
// Returns the token and true if present, or empty string and false if not.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(relayedTokenKey).(string)
	return token, ok && token != ""
}
