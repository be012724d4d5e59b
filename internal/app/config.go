package app

import (
	"azmcp/internal/config"
	"azmcp/pkg/logging"
)

// Config holds the application configuration
type Config struct {
	// Debug settings
	Debug     bool
	LogFormat logging.Format

	// Version of the binary, reported by the MCP server unless configured
	Version string

	// ConfigPath replaces the layered configuration with a single file when set
	ConfigPath string

	// Overrides from the command line, applied on top of the loaded file
	Mode                    config.Mode
	Namespaces              []string
	ReadOnly                bool
	TolerateDiscoveryErrors bool

	// Loaded configuration
	AzmcpConfig *config.AzmcpConfig
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, logFormat logging.Format, configPath string) *Config {
	return &Config{
		Debug:      debug,
		LogFormat:  logFormat,
		ConfigPath: configPath,
	}
}

// applyOverrides layers the command line over the loaded server settings.
// Booleans can only switch features on.
func (c *Config) applyOverrides(server config.ServerConfig) config.ServerConfig {
	if c.Version != "" && server.Version == config.DefaultVersion {
		server.Version = c.Version
	}
	if c.Mode != "" {
		server.Mode = c.Mode
	}
	if len(c.Namespaces) > 0 {
		server.Namespaces = append([]string(nil), c.Namespaces...)
	}
	server.ReadOnly = server.ReadOnly || c.ReadOnly
	server.TolerateDiscoveryErrors = server.TolerateDiscoveryErrors || c.TolerateDiscoveryErrors
	return server
}
