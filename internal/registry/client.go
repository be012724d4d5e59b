package registry

import (
	"context"
	"fmt"
	"sort"

	"azmcp/internal/config"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// ClientFactory creates an unconnected client for a configured server.
type ClientFactory func(server config.RegistryServer) MCPClient

// clientName is reported to remote servers during the handshake.
var clientName = "azmcp-registry"

// mcpGoClient adapts an mcp-go client to MCPClient. The underlying
// transport is chosen from the server definition on Initialize.
type mcpGoClient struct {
	server config.RegistryServer
	client client.MCPClient
}

// NewClient is the default ClientFactory.
func NewClient(server config.RegistryServer) MCPClient {
	return &mcpGoClient{server: server}
}

func (c *mcpGoClient) Initialize(ctx context.Context) error {
	mcpClient, err := c.connect(ctx)
	if err != nil {
		return err
	}

	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{
		Name:    clientName,
		Version: "1.0.0",
	}
	req.Params.Capabilities = mcp.ClientCapabilities{}

	if _, err := mcpClient.Initialize(ctx, req); err != nil {
		mcpClient.Close()
		return fmt.Errorf("initialization failed: %w", err)
	}

	c.client = mcpClient
	return nil
}

func (c *mcpGoClient) connect(ctx context.Context) (client.MCPClient, error) {
	switch c.server.Transport {
	case config.TransportStdio:
		// stdio clients start their subprocess on creation
		stdioClient, err := client.NewStdioMCPClient(c.server.Command, envList(c.server.Env), c.server.Args...)
		if err != nil {
			return nil, fmt.Errorf("failed to start stdio client: %w", err)
		}
		return stdioClient, nil

	case config.TransportSSE:
		sseClient, err := client.NewSSEMCPClient(c.server.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to create SSE client: %w", err)
		}
		// The event stream outlives the request that opened it.
		if err := startOrClose(context.WithoutCancel(ctx), sseClient); err != nil {
			return nil, fmt.Errorf("failed to start SSE client: %w", err)
		}
		return sseClient, nil

	case config.TransportStreamableHTTP:
		httpClient, err := client.NewStreamableHttpClient(c.server.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to create streamable-http client: %w", err)
		}
		if err := startOrClose(context.WithoutCancel(ctx), httpClient); err != nil {
			return nil, fmt.Errorf("failed to start streamable-http client: %w", err)
		}
		return httpClient, nil
	}
	return nil, fmt.Errorf("unsupported transport %q", c.server.Transport)
}

// startableClient is a network client whose transport is started
// separately from its construction.
type startableClient interface {
	Start(ctx context.Context) error
	Close() error
}

// startOrClose starts the transport and releases it when starting fails.
func startOrClose(ctx context.Context, c startableClient) error {
	if err := c.Start(ctx); err != nil {
		c.Close()
		return err
	}
	return nil
}

func (c *mcpGoClient) Close() error {
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

func (c *mcpGoClient) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	if c.client == nil {
		return nil, fmt.Errorf("client not connected")
	}
	result, err := c.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	return result.Tools, nil
}

func (c *mcpGoClient) CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	if c.client == nil {
		return nil, fmt.Errorf("client not connected")
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := c.client.CallTool(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("tool call failed: %w", err)
	}
	return result, nil
}

func envList(env map[string]string) []string {
	list := make([]string, 0, len(env))
	for k, v := range env {
		list = append(list, k+"="+v)
	}
	sort.Strings(list)
	return list
}
