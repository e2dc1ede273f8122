package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	ferrors "git.home.luguber.info/inful/mvdocs/internal/foundation/errors"
)

// Validate checks a defaulted configuration.
func Validate(cfg *Config) error {
	for _, check := range []func(*Config) error{
		validateSource,
		validateVersions,
		validateReplacements,
		validateRedirects,
		validateSitemap,
	} {
		if err := check(cfg); err != nil {
			return err
		}
	}
	return nil
}

func validateSource(cfg *Config) error {
	for suffix, parser := range cfg.Source.Suffixes {
		if !strings.HasPrefix(suffix, ".") {
			return ferrors.ConfigError("source suffix must start with a dot").WithContext("suffix", suffix).Build()
		}
		if parser != ParserMarkdown && parser != ParserRestructuredText {
			return ferrors.ConfigError(fmt.Sprintf("unsupported parser %q", parser)).WithContext("suffix", suffix).Build()
		}
	}
	for _, pattern := range cfg.Source.ExcludePatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return ferrors.ConfigError("invalid exclude pattern").WithCause(err).WithContext("pattern", pattern).Build()
		}
	}
	return nil
}

func validateVersions(cfg *Config) error {
	v := cfg.Versions
	if v.Latest != "" && (len(v.Branches) > 0 || len(v.Tags) > 0) {
		if !slices.Contains(v.Branches, v.Latest) && !slices.Contains(v.Tags, v.Latest) {
			return ferrors.ConfigError("latest version must be listed in branches or tags").
				WithContext("latest", v.Latest).
				Build()
		}
	}
	for _, p := range []struct{ name, expr string }{
		{"remote_whitelist", v.RemoteWhitelist},
		{"released_pattern", v.ReleasedPattern},
	} {
		if _, err := regexp.Compile(p.expr); err != nil {
			return ferrors.ConfigError("invalid "+p.name).WithCause(err).WithContext("pattern", p.expr).Build()
		}
	}
	if !strings.Contains(v.OutputDirFormat, "{ref.name}") {
		return ferrors.ConfigError("outputdir_format must contain {ref.name}").Build()
	}
	return nil
}

func validateReplacements(cfg *Config) error {
	for i, r := range cfg.Replacements {
		if r.Pattern == "" {
			return ferrors.ConfigError("replacement pattern cannot be empty").WithContext("index", i).Build()
		}
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return ferrors.ConfigError("invalid replacement pattern").
				WithCause(err).
				WithContext("index", i).
				WithContext("pattern", r.Pattern).
				Build()
		}
	}
	return nil
}

func validateRedirects(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.Redirects))
	for _, r := range cfg.Redirects {
		if r.Path == "" || r.Target == "" {
			return ferrors.ConfigError("redirect path and target are required").Build()
		}
		if filepath.IsAbs(r.Path) || strings.HasPrefix(filepath.Clean(r.Path), "..") {
			return ferrors.ConfigError("redirect path must stay inside the output directory").WithContext("path", r.Path).Build()
		}
		if seen[r.Path] {
			return ferrors.ConfigError("duplicate redirect path").WithContext("path", r.Path).Build()
		}
		seen[r.Path] = true
	}
	return nil
}

func validateSitemap(cfg *Config) error {
	if !cfg.Sitemap.Enabled {
		return nil
	}
	if cfg.BaseURL == "" {
		return ferrors.ConfigError("sitemap requires base_url").Build()
	}
	if !strings.Contains(cfg.Sitemap.URLScheme, "{link}") {
		return ferrors.ConfigError("sitemap url_scheme must contain {link}").Build()
	}
	return nil
}
