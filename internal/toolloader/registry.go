package toolloader

import (
	"context"

	"azmcp/internal/command"
	"azmcp/internal/discovery"
	"azmcp/internal/registry"
	"azmcp/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
)

// RegistryCaller forwards calls to a remote registry server.
type RegistryCaller interface {
	CallTool(ctx context.Context, server, tool string, args map[string]interface{}) (*mcp.CallToolResult, error)
}

// RegistryLoader exposes the tools of the remote registry servers.
type RegistryLoader struct {
	strategy discovery.Strategy
	caller   RegistryCaller
	filter   discovery.Filter
}

func NewRegistryLoader(strategy discovery.Strategy, caller RegistryCaller, filter discovery.Filter) *RegistryLoader {
	return &RegistryLoader{strategy: strategy, caller: caller, filter: filter}
}

func (l *RegistryLoader) List(ctx context.Context) ([]discovery.ToolDescriptor, error) {
	return l.strategy.Discover(ctx, l.filter)
}

func (l *RegistryLoader) Call(ctx context.Context, name string, args map[string]any) *command.Response {
	tools, err := l.List(ctx)
	if err != nil {
		return command.Failed(err)
	}
	if _, ok := find(tools, name); !ok {
		return command.NotFound(name)
	}

	server, tool, err := registry.SplitPrefixedName(name)
	if err != nil {
		return command.NotFound(name)
	}
	if args == nil {
		args = map[string]any{}
	}

	result, err := l.caller.CallTool(ctx, server, tool, args)
	if err != nil {
		logging.Error("ToolLoader", err, "Remote call %s failed", name)
		return command.Failed(err)
	}
	if err := ctx.Err(); err != nil {
		return command.Failed(err)
	}
	return responseFromResult(result)
}
