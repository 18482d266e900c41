// Package relay implements the session-scoped credential relay.
//
// The connection that carries a client's bearer credential and the connection
// that later executes a tool on its behalf are different requests, temporally
// decoupled and possibly served by different goroutines. The relay bridges
// that gap: the gateway router pushes the credential into a durable,
// session-keyed store before handing the request off, and the tool layer reads
// it back out by session key whenever a tool executes inside that session.
//
// Storage semantics:
//
//   - one session key maps to exactly one credential slot
//   - stores are idempotent upserts with last-write-wins semantics
//   - reads never consume state; absence is an explicit, normal outcome
//   - the streamed and direct connection styles occupy disjoint namespaces
//
// The primary store is SQLite-backed so credentials survive a restart of the
// process hosting the session.
package relay
