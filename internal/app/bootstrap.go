package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"azmcp/internal/config"
	"azmcp/pkg/logging"
)

// Application is the main application structure that bootstraps and runs azmcp
type Application struct {
	config   *Config
	services *Services
}

// NewApplication loads the configuration and wires the default collaborators.
func NewApplication(cfg *Config) (*Application, error) {
	// stdout belongs to the stdio transport
	appLogLevel := logging.LevelInfo
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}
	logging.Init(appLogLevel, cfg.LogFormat, os.Stderr)

	collaborators, err := DefaultCollaborators()
	if err != nil {
		return nil, err
	}
	return NewApplicationWith(cfg, collaborators)
}

// NewApplicationWith is NewApplication with caller-provided collaborators.
func NewApplicationWith(cfg *Config, collaborators Collaborators) (*Application, error) {
	azmcpCfg, err := LoadAzmcpConfig(cfg)
	if err != nil {
		return nil, err
	}
	cfg.AzmcpConfig = &azmcpCfg

	services, err := InitializeServices(azmcpCfg, collaborators)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// LoadAzmcpConfig loads the file configuration and applies the command line
// overrides of cfg.
func LoadAzmcpConfig(cfg *Config) (config.AzmcpConfig, error) {
	var azmcpCfg config.AzmcpConfig
	var err error

	if cfg.ConfigPath != "" {
		azmcpCfg, err = config.LoadConfigFromPath(cfg.ConfigPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load azmcp configuration from path: %s", cfg.ConfigPath)
			return config.AzmcpConfig{}, fmt.Errorf("failed to load azmcp configuration from path %s: %w", cfg.ConfigPath, err)
		}
		logging.Info("Bootstrap", "Loaded configuration from custom path: %s", cfg.ConfigPath)
	} else {
		azmcpCfg, err = config.LoadConfig()
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load azmcp configuration")
			return config.AzmcpConfig{}, fmt.Errorf("failed to load azmcp configuration: %w", err)
		}
		logging.Debug("Bootstrap", "Loaded configuration using layered approach")
	}

	azmcpCfg.Server = cfg.applyOverrides(azmcpCfg.Server)
	if err := config.Validate(azmcpCfg); err != nil {
		return config.AzmcpConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return azmcpCfg, nil
}

// Services exposes the wired services, mainly for the tools subcommands.
func (a *Application) Services() *Services {
	return a.services
}

// Run serves MCP over stdin and stdout until ctx is done or stdin closes.
func (a *Application) Run(ctx context.Context) error {
	return a.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve serves MCP over the given streams.
func (a *Application) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	defer func() {
		if err := a.services.Close(); err != nil {
			logging.Warn("Bootstrap", "Failed to close registry connections: %v", err)
		}
	}()
	return a.services.Runtime.ServeStdio(ctx, in, out)
}

// Close releases resources without serving.
func (a *Application) Close() error {
	return a.services.Close()
}
