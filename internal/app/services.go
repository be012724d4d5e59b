package app

import (
	"fmt"

	"azmcp/internal/areas/extension"
	"azmcp/internal/areas/keyvault"
	"azmcp/internal/areas/kubernetes"
	"azmcp/internal/azure"
	"azmcp/internal/command"
	"azmcp/internal/config"
	"azmcp/internal/registry"
	"azmcp/internal/runtime"
	"azmcp/internal/telemetry"
	"azmcp/internal/toolloader"
	"azmcp/pkg/logging"
)

// Collaborators are the external services behind the command areas and the
// registry. Tests replace them with fakes.
type Collaborators struct {
	KeyVault      keyvault.Service
	Kubernetes    kubernetes.Service
	Kubeconfig    extension.KubeconfigReader
	ClientFactory registry.ClientFactory
	Telemetry     command.Telemetry
}

// DefaultCollaborators talks to Azure, the local kubeconfig and the
// configured MCP servers, and records telemetry through the global otel
// providers.
func DefaultCollaborators() (Collaborators, error) {
	recorder, err := telemetry.NewGlobalRecorder()
	if err != nil {
		return Collaborators{}, fmt.Errorf("failed to create telemetry recorder: %w", err)
	}
	return Collaborators{
		KeyVault:      keyvault.NewAzureService(azure.NewCredentialProvider()),
		Kubernetes:    kubernetes.NewClientsetService(),
		Kubeconfig:    extension.LocalKubeconfig(),
		ClientFactory: registry.NewClient,
		Telemetry:     recorder,
	}, nil
}

// Services holds everything built at startup. Nothing here is mutated after
// InitializeServices returns.
type Services struct {
	Tree     *command.Tree
	Executor *command.Executor
	Registry *registry.ServerRegistry
	Loader   toolloader.Loader
	Runtime  *runtime.Runtime
}

// BuildTree registers every command area.
func BuildTree(c Collaborators) (*command.Tree, error) {
	tree := command.NewTree()
	if err := keyvault.Register(tree, c.KeyVault); err != nil {
		return nil, fmt.Errorf("failed to register kv commands: %w", err)
	}
	if err := kubernetes.Register(tree, c.Kubernetes); err != nil {
		return nil, fmt.Errorf("failed to register kubernetes commands: %w", err)
	}
	if err := extension.Register(tree, c.Kubeconfig); err != nil {
		return nil, fmt.Errorf("failed to register extension commands: %w", err)
	}
	return tree, nil
}

// InitializeServices creates the command tree, the registry and the loader
// graph for the configured mode.
func InitializeServices(cfg config.AzmcpConfig, c Collaborators) (*Services, error) {
	tree, err := BuildTree(c)
	if err != nil {
		return nil, err
	}

	executor := command.NewExecutor(c.Telemetry)
	reg := registry.NewServerRegistry(cfg.Registry.Servers, c.ClientFactory)

	loader, err := BuildLoader(cfg, tree, executor, reg)
	if err != nil {
		return nil, err
	}
	logging.Info("Bootstrap", "Mode %s with %d commands and %d registry servers", cfg.Server.Mode, tree.Len(), len(reg.Servers()))

	return &Services{
		Tree:     tree,
		Executor: executor,
		Registry: reg,
		Loader:   loader,
		Runtime:  runtime.New(loader, cfg.Server.Name, cfg.Server.Version),
	}, nil
}

// Close releases the registry connections.
func (s *Services) Close() error {
	return s.Registry.Close()
}
