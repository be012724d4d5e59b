package config

const (
	DefaultServerName = "Azure MCP Server"
	DefaultVersion    = "dev"
)

// GetDefaultConfig returns the built-in configuration: all commands exposed
// directly, no registry servers.
func GetDefaultConfig() AzmcpConfig {
	return AzmcpConfig{
		Server: ServerConfig{
			Name:       DefaultServerName,
			Version:    DefaultVersion,
			Mode:       ModeAll,
			Namespaces: []string{},
		},
		Registry: RegistryConfig{
			Servers: []RegistryServer{},
		},
	}
}
