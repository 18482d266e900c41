package app

import (
	"github.com/hengjingzhu/remote-mcp-gateway/internal/config"
)

// Config holds the application configuration assembled from CLI flags.
type Config struct {
	// Debug enables verbose logging
	Debug bool

	// Silent suppresses all log output
	Silent bool

	// Custom configuration file path (optional)
	ConfigPath string

	// Flag overrides applied on top of the loaded configuration. Zero values
	// mean "not set".
	Host      string
	Port      int
	StorePath string

	// GatewayConfig is the effective configuration after loading and
	// applying overrides. Populated during bootstrap.
	GatewayConfig *config.GatewayConfig
}

// NewConfig creates a new application configuration.
func NewConfig(debug, silent bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		Silent:     silent,
		ConfigPath: configPath,
	}
}
