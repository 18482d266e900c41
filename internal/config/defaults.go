package config

const (
	// DefaultHost is the default bind address.
	DefaultHost = "localhost"
	// DefaultPort is the default HTTP port.
	DefaultPort = 8090
	// DefaultRelayTimeoutSeconds bounds the credential relay push.
	DefaultRelayTimeoutSeconds = 5
	// DefaultSessionTTLMinutes matches the idle-session window used for
	// in-memory session registries elsewhere in the MCP ecosystem.
	DefaultSessionTTLMinutes = 30
)

// GetDefaultConfig returns the default configuration for the gateway.
func GetDefaultConfig() GatewayConfig {
	return GatewayConfig{
		Host:                DefaultHost,
		Port:                DefaultPort,
		RelayTimeoutSeconds: DefaultRelayTimeoutSeconds,
		SessionTTLMinutes:   DefaultSessionTTLMinutes,
	}
}
