package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads the first present .env file. Existing process
// environment variables are never overwritten.
func loadEnvFiles() {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Failed to load environment file", "path", name, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "path", name)
		return
	}
}

// LookupFunc resolves an environment variable.
type LookupFunc func(key string) (string, bool)

// VersionName returns the version currently being built as named by the
// configured environment variable, or "" when unset.
func (c *Config) VersionName(lookup LookupFunc) string {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	name, _ := lookup(c.Versions.EnvVar)
	return name
}

// VersionSlug is the value of the configured variable when it is set, even
// to "", and the default slug otherwise.
func (c *Config) VersionSlug(lookup LookupFunc) string {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if name, ok := lookup(c.Versions.EnvVar); ok {
		return name
	}
	return c.Versions.DefaultSlug
}
