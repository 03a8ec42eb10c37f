package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/k1LoW/placeicon/version"
)

var (
	homePath       string
	configHomePath string
	stateHomePath  string
)

type Config struct {
	// Icon sizes to write instead of the default set
	Sizes []int `yaml:"sizes,omitempty" json:"sizes,omitempty"`
	// Number of icons written at the same time
	Concurrency int `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`
	// Whether to keep writing the remaining icons after a failure
	ContinueOnError *bool `yaml:"continueOnError,omitempty" json:"continueOnError,omitempty"`
}

func init() {
	var err error
	homePath, err = os.UserHomeDir()
	if err != nil {
		panic(fmt.Sprintf("failed to get home directory: %v", err))
	}
}

// Load loads the configuration from the config file.
// It searches for config files in the following order:
// 1. $XDG_CONFIG_HOME/placeicon/config-{profile}.yml
// 2. $XDG_CONFIG_HOME/placeicon/config.yml
// If no config file is found, it returns an empty Config struct.
func Load(profile string) (*Config, error) {
	var configBasePaths []string
	if profile != "" {
		configBasePaths = append(configBasePaths, filepath.Join(configPath(), fmt.Sprintf("config-%s", profile)))
	}
	configBasePaths = append(configBasePaths, filepath.Join(configPath(), "config"))
	cfg := &Config{}
	for _, basePath := range configBasePaths {
		for _, ext := range []string{".yml", ".yaml"} {
			configPath := basePath + ext
			if b, err := os.ReadFile(configPath); err == nil {
				if err := yaml.Unmarshal(b, cfg); err != nil {
					return nil, fmt.Errorf("failed to unmarshal config %s: %w", configPath, err)
				}
				return cfg, nil
			}
		}
	}
	// If no config file is found, return an empty config
	return cfg, nil
}

// configPath returns the path to the configuration directory.
func configPath() string {
	if configHomePath != "" {
		return configHomePath
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		configHomePath = filepath.Join(v, version.Name)
	} else {
		configHomePath = filepath.Join(homePath, ".config", version.Name)
	}
	return configHomePath
}

// StateHomePath returns the path to the state home directory.
func StateHomePath() string {
	if stateHomePath != "" {
		return stateHomePath
	}
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		stateHomePath = filepath.Join(v, version.Name)
	} else {
		stateHomePath = filepath.Join(homePath, ".local", "state", version.Name)
	}
	return stateHomePath
}
