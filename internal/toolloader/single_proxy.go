package toolloader

import (
	"context"

	"azmcp/internal/command"
	"azmcp/internal/discovery"
)

// SingleProxyToolName is the only tool listed by a SingleProxyLoader.
const SingleProxyToolName = "azure"

const singleProxyDescription = `Entry point to every Azure command and every tool of the configured MCP servers.
Call with learn=true to get the list of available tools and their descriptions.
Then call again with targetTool set to one of those names and targetArgs holding its arguments.`

var singleProxyOptions = []command.Option{
	{Name: "targetTool", Type: command.TypeString, Description: "Name of the tool to invoke."},
	{Name: "targetArgs", Type: command.TypeObject, Description: "Arguments passed to the target tool."},
	{Name: "intent", Type: command.TypeString, Description: "What you are trying to achieve. Informational only."},
	{Name: "learn", Type: command.TypeBool, Default: false, Description: "List the available tools instead of invoking one."},
}

// SingleProxyLoader lists exactly one tool that dispatches to an inner
// loader. Responses of the inner loader are returned unchanged.
type SingleProxyLoader struct {
	inner      Loader
	descriptor discovery.ToolDescriptor
}

func NewSingleProxyLoader(inner Loader) *SingleProxyLoader {
	return &SingleProxyLoader{
		inner: inner,
		descriptor: discovery.ToolDescriptor{
			Name:        SingleProxyToolName,
			Title:       "Azure",
			Description: singleProxyDescription,
			Options:     singleProxyOptions,
			Source:      discovery.SourceProxy,
		},
	}
}

func (l *SingleProxyLoader) List(context.Context) ([]discovery.ToolDescriptor, error) {
	return []discovery.ToolDescriptor{l.descriptor}, nil
}

func (l *SingleProxyLoader) Call(ctx context.Context, name string, args map[string]any) *command.Response {
	if name != SingleProxyToolName {
		return command.NotFound(name)
	}

	opts, err := command.Bind(command.Descriptor{Name: name, Options: singleProxyOptions}, args)
	if err != nil {
		return command.FromError(err)
	}

	if opts.Bool("learn") {
		tools, err := l.inner.List(ctx)
		if err != nil {
			return command.Failed(err)
		}
		summaries := make([]ToolSummary, 0, len(tools))
		for _, d := range tools {
			summaries = append(summaries, summarize(d, d.Name, false))
		}
		return command.OK(summaries)
	}

	target := opts.String("targetTool")
	if target == "" {
		return command.FromError(command.MissingRequired("targetTool"))
	}
	targetArgs := opts.Object("targetArgs")
	if targetArgs == nil {
		targetArgs = map[string]any{}
	}
	return l.inner.Call(ctx, target, targetArgs)
}
