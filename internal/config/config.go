package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config contains application configuration
type Config struct {
	// Hetzner Cloud API token (lowest-precedence credential source)
	Token string `yaml:"token"`

	// Defaults for server creation
	DefaultName       string `yaml:"default_name"`
	DefaultServerType string `yaml:"default_server_type"`
	DefaultImage      string `yaml:"default_image"`
	DefaultLocation   string `yaml:"default_location"`
	DefaultSSHKey     string `yaml:"default_ssh_key"`
}

// Load loads configuration from an optional YAML file. Built-in defaults are
// applied first, then the file (located via CONFIG_PATH, else hcloudctl.yaml
// in the working directory), then the HETZNER_API_TOKEN environment variable
// for the token.
func Load() (*Config, error) {
	config := &Config{
		DefaultName:       "isaac",
		DefaultServerType: "cax41",       // shared vCPU (ARM64)
		DefaultImage:      "ubuntu-24.04",
		DefaultLocation:   "nbg1",        // Nuremberg
		DefaultSSHKey:     "hosted-fornet@protonmail.com",
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "hcloudctl.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %v", err)
		}
	}

	// Expand environment variables in string fields
	config.Token = os.ExpandEnv(config.Token)
	config.DefaultName = os.ExpandEnv(config.DefaultName)
	config.DefaultServerType = os.ExpandEnv(config.DefaultServerType)
	config.DefaultImage = os.ExpandEnv(config.DefaultImage)
	config.DefaultLocation = os.ExpandEnv(config.DefaultLocation)
	config.DefaultSSHKey = os.ExpandEnv(config.DefaultSSHKey)

	// Environment variable takes precedence over the config file
	if token := os.Getenv("HETZNER_API_TOKEN"); token != "" {
		config.Token = token
	}

	return config, nil
}

// ResolveToken picks the API token by precedence: command-line flag, then
// environment/config file (already merged into c.Token by Load). An empty
// result is a usage error and must abort before any API call.
func (c *Config) ResolveToken(flagToken string) (string, error) {
	if flagToken != "" {
		return flagToken, nil
	}
	if c.Token != "" {
		return c.Token, nil
	}
	return "", fmt.Errorf("API token is required. Provide it with --token or set HETZNER_API_TOKEN environment variable")
}
