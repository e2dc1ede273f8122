package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/mvdocs/internal/foundation/errors"
)

// Load reads, expands, defaults and validates a configuration file.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, ferrors.ConfigError("read configuration file").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	return Parse(data)
}

// Parse decodes YAML configuration content. Environment variables in the
// content are expanded before decoding.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, ferrors.ConfigError("unmarshal configuration").WithCause(err).Build()
	}
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes the example configuration to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ValidationError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).Build()
	}
	data, err := yaml.Marshal(Example())
	if err != nil {
		return ferrors.InternalError("marshal example configuration").WithCause(err).Build()
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return ferrors.FileSystemError("write configuration file").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	return nil
}
