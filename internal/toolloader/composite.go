package toolloader

import (
	"context"
	"fmt"

	"azmcp/internal/command"
	"azmcp/internal/discovery"
	"azmcp/pkg/logging"
)

// CompositeLoader merges child loaders. The first child to list a name owns
// it for both listing and calls.
type CompositeLoader struct {
	children []Loader
	policy   discovery.FailurePolicy
}

func NewCompositeLoader(policy discovery.FailurePolicy, children ...Loader) *CompositeLoader {
	return &CompositeLoader{children: children, policy: policy}
}

func (l *CompositeLoader) List(ctx context.Context) ([]discovery.ToolDescriptor, error) {
	seen := make(map[string]struct{})
	var tools []discovery.ToolDescriptor

	for i, child := range l.children {
		childTools, err := l.listChild(ctx, i, child)
		if err != nil {
			return nil, err
		}
		for _, d := range childTools {
			if _, dup := seen[d.Name]; dup {
				continue
			}
			seen[d.Name] = struct{}{}
			tools = append(tools, d)
		}
	}
	return tools, nil
}

func (l *CompositeLoader) Call(ctx context.Context, name string, args map[string]any) *command.Response {
	for i, child := range l.children {
		childTools, err := l.listChild(ctx, i, child)
		if err != nil {
			return command.Failed(err)
		}
		if _, ok := find(childTools, name); ok {
			return child.Call(ctx, name, args)
		}
	}
	return command.NotFound(name)
}

// listChild lists one child. Under TolerateFailures a failing child is
// logged and treated as empty.
func (l *CompositeLoader) listChild(ctx context.Context, i int, child Loader) ([]discovery.ToolDescriptor, error) {
	tools, err := child.List(ctx)
	if err == nil {
		return tools, nil
	}
	if l.policy == discovery.FailFast || ctx.Err() != nil {
		return nil, fmt.Errorf("tool loader %d (%T): %w", i, child, err)
	}
	logging.Warn("ToolLoader", "Skipping tool loader %d (%T): %v", i, child, err)
	return nil, nil
}
