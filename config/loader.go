package config

import (
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = ".codestyle.yaml"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load loads configuration with layered precedence:
// 1. Built-in defaults
// 2. Project config (.codestyle.yaml in the given directory or its parents)
//
// An explicit path, when non-empty, replaces the search and must exist.
func (l *Loader) Load(startDir, explicitPath string) (*Config, error) {
	config := DefaultConfig()

	configPath := explicitPath
	if configPath == "" {
		configPath = l.findProjectConfig(startDir)
	}

	if configPath != "" {
		projectConfig, err := LoadFromFile(configPath)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded project config", slog.String("path", configPath))
		config.Merge(projectConfig)
	} else {
		l.logger.Debug("No project config found")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// findProjectConfig searches for .codestyle.yaml in startDir and parent directories
func (l *Loader) findProjectConfig(startDir string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return ""
}
