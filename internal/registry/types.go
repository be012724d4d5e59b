package registry

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// MCPClient defines the client operations the registry needs from a remote
// MCP server.
type MCPClient interface {
	// Initialize establishes the connection and performs protocol handshake
	Initialize(ctx context.Context) error

	// Close cleanly shuts down the client connection
	Close() error

	// ListTools returns all available tools from the server
	ListTools(ctx context.Context) ([]mcp.Tool, error)

	// CallTool executes a specific tool and returns the result
	CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error)
}

// ServerTools is the tool listing of one registry server.
type ServerTools struct {
	Server      string
	Description string
	Tools       []mcp.Tool
}

// ServerError reports a failure talking to one registry server.
type ServerError struct {
	Server string
	Err    error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("registry server %s: %v", e.Server, e.Err)
}

func (e *ServerError) Unwrap() error {
	return e.Err
}
