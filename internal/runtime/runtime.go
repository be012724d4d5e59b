package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"azmcp/internal/command"
	"azmcp/internal/toolloader"
	"azmcp/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Runtime binds MCP tools/list and tools/call to a tool loader.
type Runtime struct {
	loader  toolloader.Loader
	name    string
	version string
}

// New creates a runtime serving the loader under the given server identity.
func New(loader toolloader.Loader, name, version string) *Runtime {
	return &Runtime{loader: loader, name: name, version: version}
}

// ListTools returns the MCP tool definitions of the loader. Namespaces
// further restrict the listing; none means all.
func (r *Runtime) ListTools(ctx context.Context, namespaces ...string) ([]mcp.Tool, error) {
	descriptors, err := r.loader.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	tools := make([]mcp.Tool, 0, len(descriptors))
	for _, d := range descriptors {
		if !command.MatchesNamespace(d.Name, namespaces) {
			continue
		}
		tools = append(tools, d.Tool())
	}
	return tools, nil
}

// Invoke runs one tool call and returns the structured response.
func (r *Runtime) Invoke(ctx context.Context, name string, args map[string]any) *command.Response {
	start := time.Now()
	resp := r.loader.Call(ctx, name, args)
	if resp == nil {
		resp = command.Failed(errors.New("tool loader returned no response"))
	}
	if resp.Duration == 0 {
		resp.Duration = time.Since(start).Milliseconds()
	}
	logging.Debug("Runtime", "Tool %s finished: %s", name, resp)
	return resp
}

// CallTool runs one tool call and wraps the response as MCP result: a
// single JSON text content, flagged as error when the status is not 2xx.
func (r *Runtime) CallTool(ctx context.Context, name string, args map[string]any) *mcp.CallToolResult {
	return toResult(r.Invoke(ctx, name, args))
}

func toResult(resp *command.Response) *mcp.CallToolResult {
	payload, err := json.Marshal(resp)
	if err != nil {
		fallback := command.Failed(fmt.Errorf("failed to encode results: %w", err))
		fallback.Duration = resp.Duration
		payload, _ = json.Marshal(fallback)
		resp = fallback
	}
	result := mcp.NewToolResultText(string(payload))
	result.IsError = !resp.IsSuccess()
	return result
}

// NewMCPServer creates an mcp-go server exposing the currently listed tools.
// The tool set is fixed at creation; the loader graph is immutable after
// startup.
func (r *Runtime) NewMCPServer(ctx context.Context) (*server.MCPServer, error) {
	mcpServer := server.NewMCPServer(
		r.name,
		r.version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	tools, err := r.ListTools(ctx)
	if err != nil {
		return nil, err
	}
	serverTools := make([]server.ServerTool, 0, len(tools))
	for _, tool := range tools {
		serverTools = append(serverTools, server.ServerTool{
			Tool:    tool,
			Handler: r.handler(tool.Name),
		})
	}
	mcpServer.AddTools(serverTools...)
	logging.Info("Runtime", "Registered %d tools", len(serverTools))
	return mcpServer, nil
}

func (r *Runtime) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := make(map[string]interface{})
		if req.Params.Arguments != nil {
			if argsMap, ok := req.Params.Arguments.(map[string]interface{}); ok {
				args = argsMap
			}
		}
		return r.CallTool(ctx, name, args), nil
	}
}

// ServeStdio serves MCP over the given streams until ctx is done or the
// input is closed.
func (r *Runtime) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	mcpServer, err := r.NewMCPServer(ctx)
	if err != nil {
		return err
	}
	stdio := server.NewStdioServer(mcpServer)
	stdio.SetErrorLogger(logging.StdLogger("Transport"))

	logging.Info("Runtime", "Serving %s %s over stdio", r.name, r.version)
	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server stopped: %w", err)
	}
	return nil
}
