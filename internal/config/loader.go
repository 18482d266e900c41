package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hengjingzhu/remote-mcp-gateway/pkg/logging"
)

const (
	userConfigDir  = ".config/remote-mcp-gateway"
	configFileName = "config.yaml"
	storeFileName  = "sessions.db"
)

// GetDefaultConfigPathOrPanic returns the per-user configuration directory.
func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}
	return filepath.Join(homeDir, userConfigDir)
}

// DefaultStorePath returns the default location of the credential store.
func DefaultStorePath() string {
	return filepath.Join(GetDefaultConfigPathOrPanic(), storeFileName)
}

// LoadConfig loads configuration from the specified directory. A missing
// config.yaml is not an error; defaults are used instead.
func LoadConfig(configPath string) (GatewayConfig, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		logging.Info("ConfigLoader", "Error loading config.yaml from %s: %s", configFilePath, err)
		return GatewayConfig{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		// config malformed
		return GatewayConfig{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
	}
	logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return config, nil
}
