// Package app bootstraps the gateway: it loads configuration, opens the
// durable credential store, wires the provider client and tool registry into
// the gateway server, and runs everything until shutdown.
package app
