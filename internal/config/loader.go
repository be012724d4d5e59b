package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"azmcp/pkg/logging"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/azmcp"
	projectConfigDir = ".azmcp"
	configFileName   = "config.yaml"
)

// LoadConfig loads the azmcp configuration by layering default, user, and project settings.
func LoadConfig() (AzmcpConfig, error) {
	config := GetDefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// user config is optional
		logging.Warn("Config", "Could not determine user config path: %v", err)
	} else if config, err = overlayIfExists(config, userConfigPath); err != nil {
		return AzmcpConfig{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		logging.Warn("Config", "Could not determine project config path: %v", err)
	} else if config, err = overlayIfExists(config, projectConfigPath); err != nil {
		return AzmcpConfig{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
	}

	return config, Validate(config)
}

// LoadConfigFromPath layers a single explicit file over the defaults. The
// user and project layers are skipped.
func LoadConfigFromPath(path string) (AzmcpConfig, error) {
	fileConfig, err := loadConfigFromFile(path)
	if err != nil {
		return AzmcpConfig{}, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	config := mergeConfigs(GetDefaultConfig(), fileConfig)
	return config, Validate(config)
}

func overlayIfExists(base AzmcpConfig, path string) (AzmcpConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return base, nil
	}
	overlay, err := loadConfigFromFile(path)
	if err != nil {
		return base, err
	}
	logging.Debug("Config", "Loaded configuration layer %s", path)
	return mergeConfigs(base, overlay), nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// loadConfigFromFile loads an AzmcpConfig from a YAML file.
func loadConfigFromFile(filePath string) (AzmcpConfig, error) {
	var config AzmcpConfig
	data, err := os.ReadFile(filePath)
	if err != nil {
		return AzmcpConfig{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return AzmcpConfig{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config. Scalars in the
// overlay win when set; boolean switches can only be turned on. Registry
// servers are merged by name, keeping the base order and appending new ones.
func mergeConfigs(base, overlay AzmcpConfig) AzmcpConfig {
	merged := base

	if overlay.Server.Name != "" {
		merged.Server.Name = overlay.Server.Name
	}
	if overlay.Server.Version != "" {
		merged.Server.Version = overlay.Server.Version
	}
	if overlay.Server.Mode != "" {
		merged.Server.Mode = overlay.Server.Mode
	}
	if len(overlay.Server.Namespaces) > 0 {
		merged.Server.Namespaces = append([]string(nil), overlay.Server.Namespaces...)
	}
	merged.Server.ReadOnly = base.Server.ReadOnly || overlay.Server.ReadOnly
	merged.Server.TolerateDiscoveryErrors = base.Server.TolerateDiscoveryErrors || overlay.Server.TolerateDiscoveryErrors

	servers := append([]RegistryServer(nil), base.Registry.Servers...)
	index := make(map[string]int, len(servers))
	for i, srv := range servers {
		index[srv.Name] = i
	}
	for _, srv := range overlay.Registry.Servers {
		if i, ok := index[srv.Name]; ok {
			servers[i] = srv
			continue
		}
		index[srv.Name] = len(servers)
		servers = append(servers, srv)
	}
	merged.Registry.Servers = servers

	return merged
}

// Validate checks the mode, namespaces and registry server definitions.
func Validate(config AzmcpConfig) error {
	var errs []error

	switch config.Server.Mode {
	case ModeAll, ModeSingle, ModeNamespace:
	default:
		errs = append(errs, fmt.Errorf("server.mode %q is not one of all, single, namespace", config.Server.Mode))
	}

	for _, ns := range config.Server.Namespaces {
		if strings.TrimSpace(ns) == "" {
			errs = append(errs, errors.New("server.namespaces must not contain empty entries"))
			break
		}
	}

	seen := make(map[string]bool, len(config.Registry.Servers))
	for i, srv := range config.Registry.Servers {
		if srv.Name == "" {
			errs = append(errs, fmt.Errorf("registry.servers[%d]: name is required", i))
			continue
		}
		if strings.Contains(srv.Name, ".") {
			errs = append(errs, fmt.Errorf("registry server %s: name must not contain '.'", srv.Name))
		}
		if seen[srv.Name] {
			errs = append(errs, fmt.Errorf("registry server %s: defined more than once", srv.Name))
		}
		seen[srv.Name] = true

		switch srv.Transport {
		case TransportStdio:
			if srv.Command == "" {
				errs = append(errs, fmt.Errorf("registry server %s: command is required for stdio transport", srv.Name))
			}
		case TransportSSE, TransportStreamableHTTP:
			if srv.URL == "" {
				errs = append(errs, fmt.Errorf("registry server %s: url is required for %s transport", srv.Name, srv.Transport))
			}
		default:
			errs = append(errs, fmt.Errorf("registry server %s: unknown transport %q", srv.Name, srv.Transport))
		}
	}

	return errors.Join(errs...)
}

// GetUserConfigDir returns the user configuration directory path
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
