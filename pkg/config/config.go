package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig                 `yaml:"app"`
	Gateways  map[string]GatewayConfig  `yaml:"gateways"`
	Providers map[string]ProviderConfig `yaml:"providers"`
	Memory    MemoryConfig              `yaml:"memory"`
	SMTP      SMTPConfig                `yaml:"smtp"`
	Execution ExecutionConfig           `yaml:"execution"`
}

type AppConfig struct {
	Name         string `yaml:"name"`
	ExportDir    string `yaml:"export_dir"`
	LogDir       string `yaml:"log_dir"`
	ShareBaseURL string `yaml:"share_base_url"`
}

type GatewayConfig struct {
	Token   string `yaml:"token"`
	Enabled bool   `yaml:"enabled"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url,omitempty"`
	Enabled bool   `yaml:"enabled"`
}

type MemoryConfig struct {
	Path string `yaml:"path"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Sender   string `yaml:"sender"`
}

type ExecutionConfig struct {
	// MarkFailedOutcomes switches on corrected status recording: an
	// action whose outcome reports a failure is counted as failed in
	// the execution summary instead of completed.
	MarkFailedOutcomes bool `yaml:"mark_failed_outcomes"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if cfg.App.ExportDir == "" {
		cfg.App.ExportDir = "exports"
	}
	if cfg.App.LogDir == "" {
		cfg.App.LogDir = "logs"
	}
	if cfg.Memory.Path == "" {
		cfg.Memory.Path = "taskpilot.db"
	}
	return cfg, nil
}

// GetDefaultProvider returns the first enabled provider
func (c *Config) GetDefaultProvider() (string, ProviderConfig) {
	for name, p := range c.Providers {
		if p.Enabled {
			return name, p
		}
	}
	return "", ProviderConfig{}
}

// GetGateway returns the named gateway config if enabled
func (c *Config) GetGateway(name string) (GatewayConfig, bool) {
	g, ok := c.Gateways[name]
	if ok && g.Enabled {
		return g, true
	}
	return GatewayConfig{}, false
}
