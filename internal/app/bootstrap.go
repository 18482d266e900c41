package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hengjingzhu/remote-mcp-gateway/internal/config"
	"github.com/hengjingzhu/remote-mcp-gateway/internal/gateway"
	"github.com/hengjingzhu/remote-mcp-gateway/internal/provider"
	"github.com/hengjingzhu/remote-mcp-gateway/internal/relay"
	"github.com/hengjingzhu/remote-mcp-gateway/internal/tools"
	"github.com/hengjingzhu/remote-mcp-gateway/pkg/logging"
)

// purgeInterval is how often the idle-session cleanup runs when a session TTL
// is configured.
const purgeInterval = time.Minute

// Application bootstraps and runs the gateway. It follows a two-phase
// pattern:
//
//  1. Bootstrap phase: initialize logging, load configuration, open the
//     credential store, wire the tool registry and gateway server.
//  2. Execution phase: run the server until the context is canceled or a
//     termination signal arrives.
type Application struct {
	config *Config
	store  *relay.SQLiteStore
	server *gateway.GatewayServer
}

// NewApplication creates and initializes a new application instance with the
// provided configuration. It returns an error if configuration loading or
// store initialization fails.
func NewApplication(cfg *Config, version string) (*Application, error) {
	appLogLevel := logging.LevelInfo
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}
	var logOutput io.Writer = os.Stdout
	if cfg.Silent {
		logOutput = io.Discard
	}
	logging.InitForCLI(appLogLevel, logOutput)

	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = config.GetDefaultConfigPathOrPanic()
	}
	gatewayCfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to load gateway configuration from %s", configPath)
		return nil, fmt.Errorf("failed to load gateway configuration from %s: %w", configPath, err)
	}

	// Flag overrides win over the configuration file.
	if cfg.Host != "" {
		gatewayCfg.Host = cfg.Host
	}
	if cfg.Port != 0 {
		gatewayCfg.Port = cfg.Port
	}
	if cfg.StorePath != "" {
		gatewayCfg.StorePath = cfg.StorePath
	}
	if gatewayCfg.StorePath == "" {
		gatewayCfg.StorePath = config.DefaultStorePath()
	}
	cfg.GatewayConfig = &gatewayCfg

	store, err := relay.NewSQLiteStore(gatewayCfg.StorePath)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to open credential store at %s", gatewayCfg.StorePath)
		return nil, fmt.Errorf("failed to open credential store at %s: %w", gatewayCfg.StorePath, err)
	}
	logging.Info("Bootstrap", "Credential store ready at %s", gatewayCfg.StorePath)

	client := provider.NewClient(provider.Options{
		BaseURL: gatewayCfg.Provider.BaseURL,
	})
	registry := tools.NewRegistry(store, client, gatewayCfg.Provider)
	server := gateway.NewGatewayServer(gatewayCfg, store, registry, version)

	return &Application{
		config: cfg,
		store:  store,
		server: server,
	}, nil
}

// Run executes the application. It blocks until the context is canceled or a
// termination signal (SIGINT, SIGTERM) arrives, then shuts the server down
// gracefully and closes the store.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.server.Start(ctx); err != nil {
		return fmt.Errorf("failed to start gateway server: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	if ttl := a.config.GatewayConfig.SessionTTL(); ttl > 0 {
		g.Go(func() error {
			return a.purgeLoop(ctx, ttl)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		logging.Info("App", "Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.server.Stop(shutdownCtx)
	})

	err := g.Wait()
	if closeErr := a.store.Close(); closeErr != nil {
		logging.Error("App", closeErr, "Error closing credential store")
	}
	return err
}

// purgeLoop periodically removes credentials of sessions idle longer than the
// configured TTL.
func (a *Application) purgeLoop(ctx context.Context, ttl time.Duration) error {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			purged, err := a.store.PurgeIdleSessions(ctx, ttl)
			if err != nil {
				logging.Warn("App", "Idle session purge failed: %v", err)
				continue
			}
			if purged > 0 {
				logging.Info("App", "Purged %d idle sessions", purged)
			}
		}
	}
}
