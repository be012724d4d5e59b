package kubernetes

import (
	"context"

	"azmcp/internal/command"
)

const (
	optionContext   = "context"
	optionNamespace = "namespace"
	optionPod       = "pod"
	optionSelector  = "selector"
)

func contextOption() command.Option {
	return command.Option{
		Name:        optionContext,
		Description: "The kubeconfig context to use. Defaults to the current context.",
		Type:        command.TypeString,
	}
}

func namespaceOption(required bool) command.Option {
	opt := command.Option{
		Name:        optionNamespace,
		Description: "The Kubernetes namespace.",
		Type:        command.TypeString,
		Required:    required,
	}
	if !required {
		opt.Default = "default"
	}
	return opt
}

// Register adds the kubernetes group and its commands to tree.
func Register(tree *command.Tree, svc Service) error {
	if err := tree.AddGroup("kubernetes", "Kubernetes operations - Commands for inspecting namespaces and pods of a cluster from the local kubeconfig."); err != nil {
		return err
	}
	if err := tree.Register("kubernetes.namespace.list", &namespaceListCommand{svc: svc}); err != nil {
		return err
	}
	if err := tree.Register("kubernetes.pod.list", &podListCommand{svc: svc}); err != nil {
		return err
	}
	return tree.Register("kubernetes.pod.get", &podGetCommand{svc: svc})
}

type namespaceListCommand struct{ svc Service }

func (c *namespaceListCommand) Descriptor() command.Descriptor {
	return command.Descriptor{
		Title:       "List Kubernetes Namespaces",
		Description: "List the namespaces of the cluster.",
		ReadOnly:    true,
		Options:     []command.Option{contextOption()},
	}
}

func (c *namespaceListCommand) Execute(ctx context.Context, opts command.Options) (any, error) {
	namespaces, err := c.svc.ListNamespaces(ctx, opts.String(optionContext))
	if err != nil {
		return nil, err
	}
	if len(namespaces) == 0 {
		return nil, nil
	}
	return map[string]any{"namespaces": namespaces}, nil
}

type podListCommand struct{ svc Service }

func (c *podListCommand) Descriptor() command.Descriptor {
	return command.Descriptor{
		Title:       "List Kubernetes Pods",
		Description: "List the pods of a namespace, optionally filtered by a label selector.",
		ReadOnly:    true,
		Options: []command.Option{
			contextOption(),
			namespaceOption(false),
			{
				Name:        optionSelector,
				Description: "A label selector such as app=web.",
				Type:        command.TypeString,
			},
		},
	}
}

func (c *podListCommand) Execute(ctx context.Context, opts command.Options) (any, error) {
	pods, err := c.svc.ListPods(ctx, opts.String(optionContext), opts.String(optionNamespace), opts.String(optionSelector))
	if err != nil {
		return nil, err
	}
	if len(pods) == 0 {
		return nil, nil
	}
	return map[string]any{"pods": pods}, nil
}

type podGetCommand struct{ svc Service }

func (c *podGetCommand) Descriptor() command.Descriptor {
	return command.Descriptor{
		Title:       "Get Kubernetes Pod",
		Description: "Get the status of a single pod.",
		ReadOnly:    true,
		Options: []command.Option{
			contextOption(),
			namespaceOption(true),
			{
				Name:        optionPod,
				Description: "The name of the pod.",
				Type:        command.TypeString,
				Required:    true,
			},
		},
	}
}

func (c *podGetCommand) Execute(ctx context.Context, opts command.Options) (any, error) {
	pod, err := c.svc.GetPod(ctx, opts.String(optionContext), opts.String(optionNamespace), opts.String(optionPod))
	if err != nil {
		return nil, err
	}
	return pod, nil
}
