package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nguyenvanduocit/rag-cost-calculator/internal/model"
)

// Config holds the CLI configuration: a default workload applied before
// flags, and an optional pricing table override file.
type Config struct {
	Defaults    model.UsageConfig `yaml:"defaults"`
	PricingPath string            `yaml:"pricing_path"`
}

// configPath returns the path to the config file
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ragcost.yaml"), nil
}

// Load loads the configuration from disk
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save saves the configuration to disk
func Save(cfg *Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
