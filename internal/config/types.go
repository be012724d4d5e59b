package config

// AzmcpConfig is the top-level configuration structure for azmcp.
type AzmcpConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Registry RegistryConfig `yaml:"registry"`
}

// Mode selects how the command tree is exposed as tools.
type Mode string

const (
	// ModeAll exposes every command and every registry tool directly.
	ModeAll Mode = "all"
	// ModeSingle exposes one proxy tool that dispatches to everything else.
	ModeSingle Mode = "single"
	// ModeNamespace exposes one proxy tool per top-level namespace.
	ModeNamespace Mode = "namespace"
)

// ServerConfig holds the settings of the MCP server itself.
type ServerConfig struct {
	Name                    string   `yaml:"name,omitempty"`
	Version                 string   `yaml:"version,omitempty"`
	Mode                    Mode     `yaml:"mode,omitempty"`
	Namespaces              []string `yaml:"namespaces,omitempty"`               // Namespace prefixes, e.g. ["kv", "kubernetes.pod"]
	ReadOnly                bool     `yaml:"readOnly,omitempty"`                 // Hide destructive commands
	TolerateDiscoveryErrors bool     `yaml:"tolerateDiscoveryErrors,omitempty"` // Skip failing discovery sources instead of failing the listing
}

const (
	// TransportStreamableHTTP is the streamable HTTP transport.
	TransportStreamableHTTP = "streamable-http"
	// TransportSSE is the Server-Sent Events transport.
	TransportSSE = "sse"
	// TransportStdio is the standard I/O transport.
	TransportStdio = "stdio"
)

// RegistryConfig lists the remote MCP servers whose tools are re-exposed.
type RegistryConfig struct {
	Servers []RegistryServer `yaml:"servers,omitempty"`
}

// RegistryServer defines how to reach one remote MCP server.
type RegistryServer struct {
	Name        string `yaml:"name"`                  // Unique name, also the tool name prefix
	Description string `yaml:"description,omitempty"` // Shown in namespace mode
	Transport   string `yaml:"transport,omitempty"`   // "stdio", "sse" or "streamable-http"

	// Fields for Transport = "sse" or "streamable-http"
	URL string `yaml:"url,omitempty"`

	// Fields for Transport = "stdio"
	Command string            `yaml:"command,omitempty"`
	Args    []string          `yaml:"args,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
}
