package discovery

import (
	"context"
	"errors"
	"fmt"

	"azmcp/internal/command"
	"azmcp/internal/registry"
	"azmcp/pkg/logging"
)

// Filter restricts what a strategy yields.
type Filter struct {
	// Namespaces are dotted prefixes matched segment by segment. Empty
	// means everything.
	Namespaces []string
	// ReadOnly drops tools flagged destructive.
	ReadOnly bool
}

// Accepts reports whether a tool passes the filter.
func (f Filter) Accepts(d ToolDescriptor) bool {
	if f.ReadOnly && d.Destructive {
		return false
	}
	return command.MatchesNamespace(d.Name, f.Namespaces)
}

// Strategy turns one source of tools into a flat, filtered listing.
type Strategy interface {
	// Name identifies the source in logs and errors.
	Name() string
	// Discover returns the visible tools in a deterministic order.
	Discover(ctx context.Context, filter Filter) ([]ToolDescriptor, error)
}

// SourceError reports that a discovery source could not be listed.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("discovery source %s failed: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// TreeStrategy lists the commands of a static command tree.
type TreeStrategy struct {
	tree *command.Tree
}

func NewTreeStrategy(tree *command.Tree) *TreeStrategy {
	return &TreeStrategy{tree: tree}
}

func (s *TreeStrategy) Name() string { return SourceCommands }

func (s *TreeStrategy) Discover(ctx context.Context, filter Filter) ([]ToolDescriptor, error) {
	var tools []ToolDescriptor
	for _, leaf := range s.tree.Walk() {
		d := FromCommand(leaf.Descriptor)
		if filter.Accepts(d) {
			tools = append(tools, d)
		}
	}
	return tools, ctx.Err()
}

// RegistryLister is the part of the server registry discovery needs.
type RegistryLister interface {
	ListTools(ctx context.Context) ([]registry.ServerTools, error)
}

// RegistryStrategy lists the tools of every registry server as
// "<server>.<tool>". Under TolerateFailures a failing server is skipped and
// the healthy servers are still listed.
type RegistryStrategy struct {
	registry RegistryLister
	policy   FailurePolicy
}

func NewRegistryStrategy(r RegistryLister, policy FailurePolicy) *RegistryStrategy {
	return &RegistryStrategy{registry: r, policy: policy}
}

func (s *RegistryStrategy) Name() string { return SourceRegistry }

func (s *RegistryStrategy) Discover(ctx context.Context, filter Filter) ([]ToolDescriptor, error) {
	listing, err := s.registry.ListTools(ctx)
	if err != nil {
		if s.policy == FailFast || ctx.Err() != nil {
			return nil, &SourceError{Source: s.Name(), Err: err}
		}
		logging.Warn("Discovery", "Skipping unavailable registry servers: %v", err)
	}
	var tools []ToolDescriptor
	for _, server := range listing {
		for _, tool := range server.Tools {
			d := FromRemoteTool(server.Server, tool)
			if filter.Accepts(d) {
				tools = append(tools, d)
			}
		}
	}
	return tools, nil
}

// FailurePolicy decides what a composite does when a child fails.
type FailurePolicy int

const (
	// FailFast aborts the listing with the child's error.
	FailFast FailurePolicy = iota
	// TolerateFailures logs the error and skips the failing child.
	TolerateFailures
)

// CompositeStrategy merges its children in order. The first occurrence of a
// name wins.
type CompositeStrategy struct {
	children []Strategy
	policy   FailurePolicy
}

func NewCompositeStrategy(policy FailurePolicy, children ...Strategy) *CompositeStrategy {
	return &CompositeStrategy{children: children, policy: policy}
}

func (s *CompositeStrategy) Name() string { return "composite" }

func (s *CompositeStrategy) Discover(ctx context.Context, filter Filter) ([]ToolDescriptor, error) {
	seen := make(map[string]struct{})
	var tools []ToolDescriptor

	for _, child := range s.children {
		childTools, err := child.Discover(ctx, filter)
		if err != nil {
			var srcErr *SourceError
			if !errors.As(err, &srcErr) {
				err = &SourceError{Source: child.Name(), Err: err}
			}
			if s.policy == FailFast || ctx.Err() != nil {
				return nil, err
			}
			logging.Warn("Discovery", "Skipping source %s: %v", child.Name(), err)
			continue
		}
		for _, d := range childTools {
			if _, dup := seen[d.Name]; dup {
				logging.Debug("Discovery", "Tool %s from %s shadowed by an earlier source", d.Name, child.Name())
				continue
			}
			seen[d.Name] = struct{}{}
			tools = append(tools, d)
		}
	}
	return tools, nil
}
