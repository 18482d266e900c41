package session

import (
	"net/http"

	"github.com/google/uuid"
)

// Style identifies the connection pattern a session was established over.
// The two styles are routed to disjoint actor namespaces: a streamed session
// and a direct session must never alias, even when their raw IDs match.
type Style string

const (
	// StyleStreamed is the long-lived SSE connection style. The session key
	// travels in the sessionId query parameter.
	StyleStreamed Style = "streamed"

	// StyleDirect is the streamable HTTP request/response style. The session
	// key travels in the Mcp-Session-Id request header.
	StyleDirect Style = "direct"
)

const (
	// HeaderSessionID is the request header carrying the session key for the
	// direct connection style.
	HeaderSessionID = "Mcp-Session-Id"

	// QueryParamSessionID is the query parameter carrying the session key for
	// the streamed connection style.
	QueryParamSessionID = "sessionId"

	// MaxKeyLength is the maximum accepted length for a client-supplied
	// session key. Longer values are treated as absent and replaced with a
	// fresh key, bounding per-session storage against hostile inputs.
	MaxKeyLength = 256
)

// Key addresses exactly one session actor. The same Key always resolves to the
// same actor for the lifetime of the session.
type Key struct {
	Style Style
	ID    string
}

// ActorAddress returns the style-namespaced storage address for this key.
// The style prefix keeps the two connection styles from ever aliasing.
func (k Key) ActorAddress() string {
	return string(k.Style) + ":" + k.ID
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return k.ActorAddress()
}

// ResolveKey derives the session key for an inbound request according to the
// connection style. An existing key in the style-appropriate location is
// reused as-is, so resolution of an already-assigned key is idempotent.
// When no usable key is present a fresh globally-unique key is minted and
// generated is true.
func ResolveKey(style Style, r *http.Request) (key Key, generated bool) {
	var id string
	switch style {
	case StyleStreamed:
		id = r.URL.Query().Get(QueryParamSessionID)
	case StyleDirect:
		id = r.Header.Get(HeaderSessionID)
	}

	if id == "" || len(id) > MaxKeyLength {
		return Key{Style: style, ID: uuid.New().String()}, true
	}
	return Key{Style: style, ID: id}, false
}
