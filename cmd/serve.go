package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hengjingzhu/remote-mcp-gateway/internal/app"
)

// serveDebug enables verbose logging across the application.
var serveDebug bool

// serveSilent suppresses all log output. Useful when the gateway runs under a
// supervisor that captures health through /healthz instead of logs.
var serveSilent bool

// serveConfigPath specifies a custom configuration directory.
// When set, the default per-user directory is not consulted.
var serveConfigPath string

// Listener and store overrides. These win over the configuration file.
var (
	serveHost      string
	servePort      int
	serveStorePath string
)

// serveCmd starts the gateway server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP gateway server",
	Long: `Starts the gateway HTTP server with both MCP connection styles:

  /sse + /message   long-lived SSE sessions (sessionId query parameter)
  /mcp              streamable HTTP sessions (Mcp-Session-Id header)

Every request must carry an Authorization: Bearer header. The credential is
relayed into the session's durable store before the request is dispatched, so
tools invoked later in the session can authenticate against the downstream
generation API. Requests without a credential are rejected with 401 before any
session state is created.

Configuration is read from config.yaml in the user config directory
(~/.config/remote-mcp-gateway) unless --config-path points elsewhere.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// runServe is the main entry point for the serve command.
func runServe(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(serveDebug, serveSilent, serveConfigPath)
	cfg.Host = serveHost
	cfg.Port = servePort
	cfg.StorePath = serveStorePath

	application, err := app.NewApplication(cfg, GetVersion())
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().BoolVar(&serveSilent, "silent", false, "Suppress all log output")
	serveCmd.Flags().StringVar(&serveConfigPath, "config-path", "", "Custom configuration directory path")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveStorePath, "store", "", "Path to the session credential store (overrides config)")
}
