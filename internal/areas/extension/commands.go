// Package extension holds commands that extend the server beyond Azure
// services, such as inspecting the local kubeconfig.
package extension

import (
	"context"

	"azmcp/internal/command"
	"azmcp/internal/kube"
)

// KubeconfigReader reads contexts from the local kubeconfig.
type KubeconfigReader interface {
	ListContexts() ([]kube.ContextInfo, error)
	CurrentContext() (string, error)
}

type localKubeconfig struct{}

func (localKubeconfig) ListContexts() ([]kube.ContextInfo, error) { return kube.ListContexts() }
func (localKubeconfig) CurrentContext() (string, error)          { return kube.GetCurrentKubeContext() }

// LocalKubeconfig reads the kubeconfig named by KUBECONFIG or the default path.
func LocalKubeconfig() KubeconfigReader { return localKubeconfig{} }

// Register adds the extension group and its commands to tree.
func Register(tree *command.Tree, reader KubeconfigReader) error {
	if err := tree.AddGroup("extension", "Extension commands - Local tooling helpers that are not tied to an Azure service."); err != nil {
		return err
	}
	if err := tree.AddGroup("extension.kubeconfig", "Inspect the local kubeconfig."); err != nil {
		return err
	}
	if err := tree.Register("extension.kubeconfig.context.list", &contextListCommand{reader: reader}); err != nil {
		return err
	}
	return tree.Register("extension.kubeconfig.context.current", &contextCurrentCommand{reader: reader})
}

type contextListCommand struct{ reader KubeconfigReader }

func (c *contextListCommand) Descriptor() command.Descriptor {
	return command.Descriptor{
		Title:       "List Kubeconfig Contexts",
		Description: "List the contexts of the local kubeconfig and mark the current one.",
		ReadOnly:    true,
	}
}

func (c *contextListCommand) Execute(context.Context, command.Options) (any, error) {
	contexts, err := c.reader.ListContexts()
	if err != nil {
		return nil, err
	}
	if len(contexts) == 0 {
		return nil, nil
	}
	return map[string]any{"contexts": contexts}, nil
}

type contextCurrentCommand struct{ reader KubeconfigReader }

func (c *contextCurrentCommand) Descriptor() command.Descriptor {
	return command.Descriptor{
		Title:       "Get Current Kubeconfig Context",
		Description: "Get the name of the current kubeconfig context.",
		ReadOnly:    true,
	}
}

func (c *contextCurrentCommand) Execute(context.Context, command.Options) (any, error) {
	name, err := c.reader.CurrentContext()
	if err != nil {
		return nil, err
	}
	return map[string]any{"context": name}, nil
}
