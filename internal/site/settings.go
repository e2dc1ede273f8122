// Package site builds the immutable settings object shared by every hook of
// one build.
package site

import (
	"slices"

	"git.home.luguber.info/inful/mvdocs/internal/config"
	"git.home.luguber.info/inful/mvdocs/internal/markdown"
	"git.home.luguber.info/inful/mvdocs/internal/substitute"
	"git.home.luguber.info/inful/mvdocs/internal/theme"
)

// Settings is resolved once per build and only read afterwards.
type Settings struct {
	cfg          config.Config
	versionName  string
	slug         string
	replacements *substitute.Table
	resolver     *markdown.LinkResolver
	theme        theme.Options
}

// New resolves cfg against the environment: the version name comes from the
// configured variable, the slug falls back to the default alias only when
// the variable is unset.
func New(cfg *config.Config, lookup config.LookupFunc) (*Settings, error) {
	return resolve(cfg, cfg.VersionName(lookup), cfg.VersionSlug(lookup))
}

// ForVersion resolves cfg for an explicitly named version. An empty name
// behaves like an unset environment variable.
func ForVersion(cfg *config.Config, versionName string) (*Settings, error) {
	slug := versionName
	if slug == "" {
		slug = cfg.Versions.DefaultSlug
	}
	return resolve(cfg, versionName, slug)
}

func resolve(cfg *config.Config, versionName, slug string) (*Settings, error) {
	table, err := substitute.NewTable(cfg.Replacements, slug)
	if err != nil {
		return nil, err
	}
	return &Settings{
		cfg:          cloneConfig(cfg),
		versionName:  versionName,
		slug:         slug,
		replacements: table,
		resolver:     markdown.NewLinkResolver(cfg.Markdown.SupportedExtensions),
		theme:        theme.NewOptions(cfg.Theme.Options),
	}, nil
}

// VersionName is the version being built, "" when building unversioned.
func (s *Settings) VersionName() string { return s.versionName }

// Slug is the version name, or the default alias when the variable is unset.
func (s *Settings) Slug() string { return s.slug }

func (s *Settings) Replacements() *substitute.Table      { return s.replacements }
func (s *Settings) LinkResolver() *markdown.LinkResolver { return s.resolver }
func (s *Settings) Theme() theme.Options                 { return s.theme }
func (s *Settings) Project() string                      { return s.cfg.Project }
func (s *Settings) BaseURL() string                      { return s.cfg.BaseURL }
func (s *Settings) MasterDoc() string                    { return s.cfg.MasterDoc }
func (s *Settings) SourceDir() string                    { return s.cfg.Source.Dir }
func (s *Settings) OutputDir() string                    { return s.cfg.Output.Directory }
func (s *Settings) CleanOutput() bool                    { return s.cfg.Output.Clean }
func (s *Settings) Sitemap() config.SitemapConfig        { return s.cfg.Sitemap }
func (s *Settings) Versions() config.VersionsConfig      { return cloneVersions(s.cfg.Versions) }
func (s *Settings) Redirects() []config.RedirectConfig   { return slices.Clone(s.cfg.Redirects) }
func (s *Settings) ExcludePatterns() []string            { return slices.Clone(s.cfg.Source.ExcludePatterns) }
func (s *Settings) MetricsTextfile() string              { return s.cfg.Metrics.Textfile }

// Suffixes returns a copy of the suffix to parser map.
func (s *Settings) Suffixes() map[string]string {
	out := make(map[string]string, len(s.cfg.Source.Suffixes))
	for k, v := range s.cfg.Source.Suffixes {
		out[k] = v
	}
	return out
}

// WithDirs returns a copy reading sources from src and writing to out.
func (s *Settings) WithDirs(src, out string) *Settings {
	cp := *s
	cp.cfg.Source.Dir = src
	cp.cfg.Output.Directory = out
	return &cp
}

func cloneConfig(cfg *config.Config) config.Config {
	cp := *cfg
	cp.Source.Suffixes = make(map[string]string, len(cfg.Source.Suffixes))
	for k, v := range cfg.Source.Suffixes {
		cp.Source.Suffixes[k] = v
	}
	cp.Source.ExcludePatterns = slices.Clone(cfg.Source.ExcludePatterns)
	cp.Versions = cloneVersions(cfg.Versions)
	cp.Markdown.SupportedExtensions = slices.Clone(cfg.Markdown.SupportedExtensions)
	cp.Replacements = slices.Clone(cfg.Replacements)
	cp.Redirects = slices.Clone(cfg.Redirects)
	return cp
}

func cloneVersions(v config.VersionsConfig) config.VersionsConfig {
	v.Tags = slices.Clone(v.Tags)
	v.Branches = slices.Clone(v.Branches)
	v.Unstable = slices.Clone(v.Unstable)
	v.Deprecated = slices.Clone(v.Deprecated)
	return v
}
