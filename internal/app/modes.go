package app

import (
	"fmt"
	"slices"

	"azmcp/internal/command"
	"azmcp/internal/config"
	"azmcp/internal/discovery"
	"azmcp/internal/registry"
	"azmcp/internal/toolloader"
	"azmcp/pkg/logging"
)

// defaultNamespaceModeNamespaces replace an empty namespace list in
// namespace mode. When in effect, their commands are also exposed directly.
var defaultNamespaceModeNamespaces = []string{"extension"}

// BuildLoader composes the tool loaders for the configured mode.
func BuildLoader(cfg config.AzmcpConfig, tree *command.Tree, executor *command.Executor, reg *registry.ServerRegistry) (toolloader.Loader, error) {
	server := cfg.Server
	policy := discovery.FailFast
	if server.TolerateDiscoveryErrors {
		policy = discovery.TolerateFailures
	}
	namespaces := server.Namespaces
	if server.Mode == config.ModeNamespace && len(namespaces) == 0 {
		logging.Debug("Bootstrap", "No namespaces configured, defaulting to %v", defaultNamespaceModeNamespaces)
		namespaces = defaultNamespaceModeNamespaces
	}
	filter := discovery.Filter{Namespaces: namespaces, ReadOnly: server.ReadOnly}

	registryStrategy := discovery.NewRegistryStrategy(reg, policy)
	direct := toolloader.NewCompositeLoader(policy,
		toolloader.NewRegistryLoader(registryStrategy, reg, filter),
		toolloader.NewCommandFactoryLoader(tree, executor, filter),
	)

	switch server.Mode {
	case config.ModeAll, "":
		return direct, nil

	case config.ModeSingle:
		return toolloader.NewSingleProxyLoader(direct), nil

	case config.ModeNamespace:
		strategy := discovery.NewCompositeStrategy(policy, registryStrategy, discovery.NewTreeStrategy(tree))
		children := []toolloader.Loader{
			toolloader.NewNamespaceLoader(strategy, direct, filter, namespaceDescriptions(tree, cfg.Registry)),
		}
		if slices.Equal(namespaces, defaultNamespaceModeNamespaces) {
			children = append(children, toolloader.NewCommandFactoryLoader(tree, executor, filter))
		}
		return toolloader.NewCompositeLoader(policy, children...), nil

	default:
		return nil, fmt.Errorf("unknown mode %q", server.Mode)
	}
}

func namespaceDescriptions(tree *command.Tree, reg config.RegistryConfig) map[string]string {
	descriptions := make(map[string]string)
	for _, ns := range tree.Namespaces() {
		descriptions[ns.Name] = ns.Description
	}
	for _, s := range reg.Servers {
		if _, taken := descriptions[s.Name]; !taken {
			descriptions[s.Name] = s.Description
		}
	}
	return descriptions
}
