package toolloader

import (
	"context"
	"fmt"
	"strings"

	"azmcp/internal/command"
	"azmcp/internal/discovery"
)

var namespaceOptions = []command.Option{
	{Name: "command", Type: command.TypeString, Description: "Command to run, relative to the namespace, e.g. \"key.list\"."},
	{Name: "parameters", Type: command.TypeObject, Description: "Arguments passed to the command."},
	{Name: "intent", Type: command.TypeString, Description: "What you are trying to achieve. Informational only."},
	{Name: "learn", Type: command.TypeBool, Default: false, Description: "List the commands of this namespace and their parameters."},
}

// NamespaceLoader lists one tool per top-level namespace. Calls name a
// command relative to the namespace and are routed to the inner loader.
type NamespaceLoader struct {
	strategy     discovery.Strategy
	inner        Loader
	filter       discovery.Filter
	descriptions map[string]string
}

// NewNamespaceLoader groups what strategy yields by namespace. Descriptions
// optionally describe each namespace.
func NewNamespaceLoader(strategy discovery.Strategy, inner Loader, filter discovery.Filter, descriptions map[string]string) *NamespaceLoader {
	return &NamespaceLoader{
		strategy:     strategy,
		inner:        inner,
		filter:       filter,
		descriptions: descriptions,
	}
}

type namespaceGroup struct {
	name  string
	tools []discovery.ToolDescriptor
}

func (l *NamespaceLoader) groups(ctx context.Context) ([]namespaceGroup, error) {
	tools, err := l.strategy.Discover(ctx, l.filter)
	if err != nil {
		return nil, err
	}
	var groups []namespaceGroup
	index := map[string]int{}
	for _, d := range tools {
		ns, _, _ := strings.Cut(d.Name, ".")
		i, ok := index[ns]
		if !ok {
			i = len(groups)
			index[ns] = i
			groups = append(groups, namespaceGroup{name: ns})
		}
		groups[i].tools = append(groups[i].tools, d)
	}
	return groups, nil
}

func (l *NamespaceLoader) List(ctx context.Context) ([]discovery.ToolDescriptor, error) {
	groups, err := l.groups(ctx)
	if err != nil {
		return nil, err
	}
	tools := make([]discovery.ToolDescriptor, 0, len(groups))
	for _, g := range groups {
		tools = append(tools, l.describe(g))
	}
	return tools, nil
}

func (l *NamespaceLoader) describe(g namespaceGroup) discovery.ToolDescriptor {
	var b strings.Builder
	if desc := l.descriptions[g.name]; desc != "" {
		b.WriteString(desc)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Commands of the %s namespace:", g.name)
	readOnly := true
	for _, d := range g.tools {
		fmt.Fprintf(&b, "\n- %s", relative(g.name, d.Name))
		if !d.ReadOnly {
			readOnly = false
		}
	}
	b.WriteString("\nCall with learn=true to get their parameters.")

	return discovery.ToolDescriptor{
		Name:        g.name,
		Title:       g.name,
		Description: b.String(),
		ReadOnly:    readOnly,
		Options:     namespaceOptions,
		Source:      discovery.SourceProxy,
	}
}

func (l *NamespaceLoader) Call(ctx context.Context, name string, args map[string]any) *command.Response {
	groups, err := l.groups(ctx)
	if err != nil {
		return command.Failed(err)
	}
	var group *namespaceGroup
	for i := range groups {
		if groups[i].name == name {
			group = &groups[i]
			break
		}
	}
	if group == nil {
		return command.NotFound(name)
	}

	opts, err := command.Bind(command.Descriptor{Name: name, Options: namespaceOptions}, args)
	if err != nil {
		return command.FromError(err)
	}

	if opts.Bool("learn") {
		summaries := make([]ToolSummary, 0, len(group.tools))
		for _, d := range group.tools {
			summaries = append(summaries, summarize(d, relative(name, d.Name), true))
		}
		return command.OK(summaries)
	}

	cmd := strings.TrimPrefix(opts.String("command"), name+".")
	if cmd == "" {
		return command.FromError(command.MissingRequired("command"))
	}
	full := name + "." + cmd
	if _, ok := find(group.tools, full); !ok {
		return command.NotFound(full)
	}

	params := opts.Object("parameters")
	if params == nil {
		params = map[string]any{}
	}
	return l.inner.Call(ctx, full, params)
}

func relative(namespace, name string) string {
	return strings.TrimPrefix(name, namespace+".")
}
