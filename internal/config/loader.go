package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/giantswarm/linkedin-mcp/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/linkedin-mcp"
	configFileName = "config.yaml"
)

// osUserHomeDir is swapped in tests.
var osUserHomeDir = os.UserHomeDir

// GetDefaultConfigPath returns ~/.config/linkedin-mcp.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadConfig loads config.yaml from configPath on top of the defaults and
// resolves the record paths. A missing config.yaml is not an error.
func LoadConfig(configPath string) (Config, error) {
	config := GetDefaultConfig()

	configFilePath := filepath.Join(configPath, configFileName)
	// #nosec G304 -- configPath is operator supplied
	data, err := os.ReadFile(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Debug("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
	case err != nil:
		return Config{}, fmt.Errorf("error reading %s: %w", configFilePath, err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
		}
		logging.Debug("ConfigLoader", "Loaded configuration from %s", configFilePath)
	}

	config.applyDefaults()

	config.CredentialsFile, err = resolvePath(configPath, config.CredentialsFile)
	if err != nil {
		return Config{}, err
	}
	config.TokenFile, err = resolvePath(configPath, config.TokenFile)
	if err != nil {
		return Config{}, err
	}

	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration in %s: %w", configFilePath, err)
	}
	return config, nil
}

// applyDefaults fills values that an explicit empty entry in config.yaml
// would otherwise zero out.
func (c *Config) applyDefaults() {
	d := GetDefaultConfig()
	if c.CredentialsFile == "" {
		c.CredentialsFile = d.CredentialsFile
	}
	if c.TokenFile == "" {
		c.TokenFile = d.TokenFile
	}
	if c.LinkedIn.AuthURL == "" {
		c.LinkedIn.AuthURL = d.LinkedIn.AuthURL
	}
	if c.LinkedIn.TokenURL == "" {
		c.LinkedIn.TokenURL = d.LinkedIn.TokenURL
	}
	if c.LinkedIn.APIBaseURL == "" {
		c.LinkedIn.APIBaseURL = d.LinkedIn.APIBaseURL
	}
	if c.LinkedIn.APIVersion == "" {
		c.LinkedIn.APIVersion = d.LinkedIn.APIVersion
	}
	if len(c.LinkedIn.Scopes) == 0 {
		c.LinkedIn.Scopes = d.LinkedIn.Scopes
	}
	if c.Auth.CallbackTimeout <= 0 {
		c.Auth.CallbackTimeout = d.Auth.CallbackTimeout
	}
	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = d.HTTP.Timeout
	}
	c.LinkedIn.APIBaseURL = strings.TrimSuffix(c.LinkedIn.APIBaseURL, "/")
}

// resolvePath expands a leading ~/ and anchors relative paths at base.
func resolvePath(base, p string) (string, error) {
	if strings.HasPrefix(p, "~/") {
		home, err := osUserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not expand %s: %w", p, err)
		}
		return filepath.Join(home, p[2:]), nil
	}
	if filepath.IsAbs(p) {
		return p, nil
	}
	return filepath.Join(base, p), nil
}
