package toolloader

import (
	"context"

	"azmcp/internal/command"
	"azmcp/internal/discovery"
)

// CommandFactoryLoader exposes the commands of the tree directly, one tool
// per command.
type CommandFactoryLoader struct {
	tree     *command.Tree
	executor *command.Executor
	strategy *discovery.TreeStrategy
	filter   discovery.Filter
}

func NewCommandFactoryLoader(tree *command.Tree, executor *command.Executor, filter discovery.Filter) *CommandFactoryLoader {
	return &CommandFactoryLoader{
		tree:     tree,
		executor: executor,
		strategy: discovery.NewTreeStrategy(tree),
		filter:   filter,
	}
}

func (l *CommandFactoryLoader) List(ctx context.Context) ([]discovery.ToolDescriptor, error) {
	return l.strategy.Discover(ctx, l.filter)
}

func (l *CommandFactoryLoader) Call(ctx context.Context, name string, args map[string]any) *command.Response {
	leaf, err := l.tree.Resolve(name)
	if err != nil {
		return command.FromError(err)
	}
	// Commands hidden by the filter are not callable either.
	if !l.filter.Accepts(discovery.FromCommand(leaf.Descriptor)) {
		return command.NotFound(name)
	}
	return l.executor.Execute(ctx, leaf, args)
}
