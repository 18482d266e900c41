// Package gateway is the single entry point for all inbound MCP connections.
//
// # Connection styles
//
// The gateway serves the same MCP server over two transports:
//
//   - Streamed: GET /sse opens a long-lived SSE connection; POST /message
//     carries follow-up messages. The session key travels in the sessionId
//     query parameter.
//   - Direct: /mcp speaks streamable HTTP. The session key travels in the
//     Mcp-Session-Id request header.
//
// Requests to any other path receive a not-found response without touching
// session or credential state.
//
// # Credential relay
//
// The bearer credential arrives on an inbound HTTP request, but tools execute
// later inside a long-lived per-session context served by a different
// request. The Router therefore runs a fixed admission pipeline on every
// recognized request:
//
//	Received -> Authenticating -> Relaying -> Dispatching
//
// Authenticating extracts the bearer token; a request without one is rejected
// with 401 before any session is created. Relaying resolves the
// style-namespaced session key and durably stores the credential under it; a
// failed or timed-out relay rejects the request with 500 rather than handing
// off with unknown credential state. Only then does Dispatching pass the
// request to the transport handler, with the session key and token attached to
// the request context.
//
// Tool handlers read the credential back via the relay store using the session
// key from their context. Credential verification is out of scope: any bearer
// string is relayed verbatim to the downstream provider.
package gateway
