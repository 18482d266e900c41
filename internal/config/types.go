package config

import "time"

// GatewayConfig is the top-level configuration structure for the gateway.
type GatewayConfig struct {
	Host string `yaml:"host,omitempty"` // Host to bind to (default: localhost)
	Port int    `yaml:"port,omitempty"` // Port for the gateway HTTP endpoints (default: 8090)

	// StorePath is the SQLite database file holding relayed session
	// credentials. Empty means the default location under the user config
	// directory.
	StorePath string `yaml:"storePath,omitempty"`

	// RelayTimeoutSeconds bounds the credential relay push. A request whose
	// relay does not complete within this window is rejected instead of being
	// handed off with an unknown credential state.
	RelayTimeoutSeconds int `yaml:"relayTimeoutSeconds,omitempty"`

	// SessionTTLMinutes is how long an idle session keeps its credential
	// before the periodic cleanup removes it. Zero disables cleanup.
	SessionTTLMinutes int `yaml:"sessionTTLMinutes,omitempty"`

	Provider ProviderConfig `yaml:"provider,omitempty"`
}

// ProviderConfig configures the downstream generation API the tools proxy to.
type ProviderConfig struct {
	BaseURL    string `yaml:"baseURL,omitempty"`    // Base URL of the generation API
	TextModel  string `yaml:"textModel,omitempty"`  // Model passed on text generation requests
	ImageModel string `yaml:"imageModel,omitempty"` // Model passed on image generation requests
}

// RelayTimeout returns the configured relay timeout as a duration.
func (c GatewayConfig) RelayTimeout() time.Duration {
	return time.Duration(c.RelayTimeoutSeconds) * time.Second
}

// SessionTTL returns the configured idle-session lifetime as a duration.
func (c GatewayConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}
