package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"azmcp/internal/config"
	"azmcp/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"
)

// ServerInfo holds the connection state of one registry server.
type ServerInfo struct {
	Name        string
	Description string

	definition config.RegistryServer
	client     MCPClient
	tools      []mcp.Tool
	listed     bool
	mu         sync.Mutex
}

// ServerRegistry manages the configured remote MCP servers. Servers are
// connected lazily on first use and their tool listings are cached until
// Refresh is called.
type ServerRegistry struct {
	servers []*ServerInfo
	byName  map[string]*ServerInfo
	factory ClientFactory
}

// NewServerRegistry creates a registry for the given servers, in order. A
// nil factory uses NewClient.
func NewServerRegistry(servers []config.RegistryServer, factory ClientFactory) *ServerRegistry {
	if factory == nil {
		factory = NewClient
	}
	r := &ServerRegistry{
		servers: make([]*ServerInfo, 0, len(servers)),
		byName:  make(map[string]*ServerInfo, len(servers)),
		factory: factory,
	}
	for _, def := range servers {
		info := &ServerInfo{
			Name:        def.Name,
			Description: def.Description,
			definition:  def,
		}
		r.servers = append(r.servers, info)
		r.byName[def.Name] = info
	}
	return r
}

// Servers returns the configured server names in order.
func (r *ServerRegistry) Servers() []string {
	names := make([]string, len(r.servers))
	for i, info := range r.servers {
		names[i] = info.Name
	}
	return names
}

// ListTools returns the tools of every server in configured order. Servers
// are queried concurrently and a failing server does not stop the others:
// the listings of the healthy servers are returned together with one
// *ServerError per failing server, joined.
func (r *ServerRegistry) ListTools(ctx context.Context) ([]ServerTools, error) {
	results := make([]ServerTools, len(r.servers))
	errs := make([]error, len(r.servers))

	var group errgroup.Group
	for i, info := range r.servers {
		group.Go(func() error {
			tools, err := info.listTools(ctx, r.factory)
			if err != nil {
				errs[i] = &ServerError{Server: info.Name, Err: err}
				return nil
			}
			results[i] = ServerTools{
				Server:      info.Name,
				Description: info.Description,
				Tools:       tools,
			}
			return nil
		})
	}
	_ = group.Wait()

	listing := make([]ServerTools, 0, len(results))
	for i, res := range results {
		if errs[i] == nil {
			listing = append(listing, res)
		}
	}
	return listing, errors.Join(errs...)
}

// CallTool forwards a call to the named server.
func (r *ServerRegistry) CallTool(ctx context.Context, server, tool string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	info, ok := r.byName[server]
	if !ok {
		return nil, fmt.Errorf("server %s not found", server)
	}
	client, err := info.connected(ctx, r.factory)
	if err != nil {
		return nil, &ServerError{Server: server, Err: err}
	}
	logging.Debug("Registry", "Calling %s on server %s", tool, server)
	return client.CallTool(ctx, tool, args)
}

// Refresh drops the cached listings so the next ListTools queries every
// server again.
func (r *ServerRegistry) Refresh() {
	for _, info := range r.servers {
		info.mu.Lock()
		info.tools = nil
		info.listed = false
		info.mu.Unlock()
	}
}

// Close disconnects every connected server.
func (r *ServerRegistry) Close() error {
	var lastErr error
	for _, info := range r.servers {
		info.mu.Lock()
		if info.client != nil {
			if err := info.client.Close(); err != nil {
				logging.Warn("Registry", "Error closing client for %s: %v", info.Name, err)
				lastErr = err
			}
			info.client = nil
		}
		info.mu.Unlock()
	}
	return lastErr
}

// SplitPrefixedName splits a "<server>.<tool>" name into its parts.
func SplitPrefixedName(prefixedName string) (serverName, toolName string, err error) {
	parts := strings.SplitN(prefixedName, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid prefixed name format: %s", prefixedName)
	}
	return parts[0], parts[1], nil
}

// PrefixedName joins a server and tool name.
func PrefixedName(server, tool string) string {
	return server + "." + tool
}

func (s *ServerInfo) listTools(ctx context.Context, factory ClientFactory) ([]mcp.Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listed {
		return s.tools, nil
	}
	if err := s.connectLocked(ctx, factory); err != nil {
		return nil, err
	}
	tools, err := s.client.ListTools(ctx)
	if err != nil {
		return nil, err
	}
	s.tools = tools
	s.listed = true
	logging.Debug("Registry", "Server %s lists %d tools", s.Name, len(tools))
	return tools, nil
}

func (s *ServerInfo) connected(ctx context.Context, factory ClientFactory) (MCPClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.connectLocked(ctx, factory); err != nil {
		return nil, err
	}
	return s.client, nil
}

func (s *ServerInfo) connectLocked(ctx context.Context, factory ClientFactory) error {
	if s.client != nil {
		return nil
	}
	client := factory(s.definition)
	if err := client.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize client: %w", err)
	}
	s.client = client
	logging.Info("Registry", "Connected to MCP server %s (%s)", s.Name, s.definition.Transport)
	return nil
}
