package session

import "context"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// sessionKeyKey is the context key for the resolved session key.
const sessionKeyKey contextKey = "gateway_session_key"

// ContextWithKey returns a context carrying the resolved session key.
// The gateway router attaches it before dispatch; the tool layer reads it back
// when a tool executing inside the session needs its credential.
func ContextWithKey(ctx context.Context, key Key) context.Context {
	return context.WithValue(ctx, sessionKeyKey, key)
}

// KeyFromContext retrieves the session key from the context.
// Returns the key and true if present, or a zero Key and false if the context
// did not pass through the gateway router.
func KeyFromContext(ctx context.Context) (Key, bool) {
	key, ok := ctx.Value(sessionKeyKey).(Key)
	return key, ok && key.ID != ""
}
