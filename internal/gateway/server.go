package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/hengjingzhu/remote-mcp-gateway/internal/config"
	"github.com/hengjingzhu/remote-mcp-gateway/internal/credential"
	"github.com/hengjingzhu/remote-mcp-gateway/internal/relay"
	"github.com/hengjingzhu/remote-mcp-gateway/internal/session"
	"github.com/hengjingzhu/remote-mcp-gateway/pkg/logging"
)

const (
	serverName = "remote-mcp-gateway"

	// Entry routes. Anything else on the HTTP surface is a not-found.
	sseEndpoint        = "/sse"
	messageEndpoint    = "/message"
	streamableEndpoint = "/mcp"
	healthEndpoint     = "/healthz"

	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
	keepAliveInterval = 30 * time.Second
)

// ToolRegistry adds tools to the MCP server during startup.
type ToolRegistry interface {
	Register(srv *server.MCPServer)
}

// GatewayServer serves the MCP gateway over both connection styles at once:
// SSE on /sse + /message and streamable HTTP on /mcp, all behind the Router's
// credential relay pipeline.
type GatewayServer struct {
	config     config.GatewayConfig
	store      relay.CredentialStore
	dispatcher *relay.Dispatcher
	tools      ToolRegistry
	version    string

	server               *server.MCPServer
	sseServer            *server.SSEServer
	streamableHTTPServer *server.StreamableHTTPServer
	httpServer           *http.Server

	// Lifecycle management
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	mu         sync.RWMutex
}

// NewGatewayServer creates a new gateway server.
func NewGatewayServer(cfg config.GatewayConfig, store relay.CredentialStore, tools ToolRegistry, version string) *GatewayServer {
	if version == "" {
		version = "dev"
	}
	return &GatewayServer{
		config:     cfg,
		store:      store,
		dispatcher: relay.NewDispatcher(store, cfg.RelayTimeout()),
		tools:      tools,
		version:    version,
	}
}

// Start starts the gateway server. It returns once the HTTP listener is
// running in the background; use Stop for shutdown.
func (g *GatewayServer) Start(ctx context.Context) error {
	g.mu.Lock()
	if g.server != nil {
		g.mu.Unlock()
		return fmt.Errorf("gateway server already started")
	}

	g.ctx, g.cancelFunc = context.WithCancel(ctx)

	hooks := &server.Hooks{}
	hooks.AddOnRegisterSession(g.mirrorSessionCredential)

	mcpServer := server.NewMCPServer(
		serverName,
		g.version,
		server.WithToolCapabilities(true),
		server.WithHooks(hooks),
	)
	g.server = mcpServer

	if g.tools != nil {
		g.tools.Register(mcpServer)
	}

	baseURL := fmt.Sprintf("http://%s:%d", g.config.Host, g.config.Port)
	g.sseServer = server.NewSSEServer(
		mcpServer,
		server.WithBaseURL(baseURL),
		server.WithSSEEndpoint(sseEndpoint),
		server.WithMessageEndpoint(messageEndpoint),
		server.WithKeepAlive(true),
		server.WithKeepAliveInterval(keepAliveInterval),
	)
	g.streamableHTTPServer = server.NewStreamableHTTPServer(
		mcpServer,
		server.WithEndpointPath(streamableEndpoint),
	)

	addr := fmt.Sprintf("%s:%d", g.config.Host, g.config.Port)
	g.httpServer = &http.Server{
		Addr:              addr,
		Handler:           g.buildMux(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	httpServer := g.httpServer

	// Bind synchronously so a bad address or an already-bound port fails
	// Start instead of being logged from the serve goroutine.
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		g.server = nil
		g.sseServer = nil
		g.streamableHTTPServer = nil
		g.httpServer = nil
		g.cancelFunc()
		g.mu.Unlock()
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	g.mu.Unlock()

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logging.Error("Gateway", err, "HTTP server error")
		}
	}()

	logging.Info("Gateway", "Serving MCP gateway on %s (sse: %s, streamable-http: %s)",
		addr, sseEndpoint, streamableEndpoint)
	return nil
}

// buildMux assembles the public HTTP surface. The two recognized styles pass
// through the Router; everything else is a not-found with no session handling.
func (g *GatewayServer) buildMux() *http.ServeMux {
	router := NewRouter(g.dispatcher)

	mux := http.NewServeMux()
	mux.Handle(sseEndpoint, router.Protect(session.StyleStreamed, g.sseServer))
	mux.Handle(messageEndpoint, router.Protect(session.StyleStreamed, g.sseServer))
	mux.Handle(streamableEndpoint, router.Protect(session.StyleDirect, g.streamableHTTPServer))
	mux.HandleFunc(healthEndpoint, g.handleHealth)
	mux.Handle("/", NotFoundHandler())
	return mux
}

// mirrorSessionCredential runs when a transport registers a new client
// session. The transport may mint its own session ID on the opening request
// (the SSE transport always does); the credential was relayed under the key
// the router resolved, so mirror it under the transport-assigned ID as well.
// Later in-session retrievals then resolve even when follow-up messages omit
// the Authorization header.
func (g *GatewayServer) mirrorSessionCredential(ctx context.Context, clientSession server.ClientSession) {
	token, ok := credential.TokenFromContext(ctx)
	if !ok {
		return
	}
	key, ok := session.KeyFromContext(ctx)
	if !ok {
		return
	}

	transportKey := session.Key{Style: key.Style, ID: clientSession.SessionID()}
	if transportKey == key {
		return
	}
	if err := g.dispatcher.Relay(ctx, transportKey, token); err != nil {
		// The primary relay already committed under the resolved key; a
		// failed mirror surfaces later as credential-absent-at-use.
		logging.Warn("Gateway", "Failed to mirror credential to transport session %s: %v",
			logging.TruncateSessionID(transportKey.ID), err)
	}
}

// handleHealth reports liveness and the number of sessions holding a
// credential.
func (g *GatewayServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := g.store.SessionCount(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "store_unavailable", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": count,
	})
}

// SSEEndpoint returns the URL clients use to open a streamed session.
func (g *GatewayServer) SSEEndpoint() string {
	return fmt.Sprintf("http://%s:%d%s", g.config.Host, g.config.Port, sseEndpoint)
}

// StreamableEndpoint returns the URL clients use for direct calls.
func (g *GatewayServer) StreamableEndpoint() string {
	return fmt.Sprintf("http://%s:%d%s", g.config.Host, g.config.Port, streamableEndpoint)
}

// Stop gracefully stops the gateway server.
func (g *GatewayServer) Stop(ctx context.Context) error {
	g.mu.Lock()
	if g.server == nil {
		g.mu.Unlock()
		return nil
	}
	sseServer := g.sseServer
	streamableServer := g.streamableHTTPServer
	httpServer := g.httpServer
	cancelFunc := g.cancelFunc
	g.mu.Unlock()

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if sseServer != nil {
		if err := sseServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("Gateway", err, "Error shutting down SSE server")
		}
	}
	if streamableServer != nil {
		if err := streamableServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("Gateway", err, "Error shutting down streamable HTTP server")
		}
	}
	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("Gateway", err, "Error shutting down HTTP server")
		}
	}

	if cancelFunc != nil {
		cancelFunc()
	}
	g.wg.Wait()

	g.mu.Lock()
	g.server = nil
	g.sseServer = nil
	g.streamableHTTPServer = nil
	g.httpServer = nil
	g.mu.Unlock()

	logging.Info("Gateway", "Gateway server stopped")
	return nil
}
