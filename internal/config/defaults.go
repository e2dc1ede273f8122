package config

// Default values mirrored from the documentation site's historical build setup.
const (
	DefaultEnvVar          = "SPHINX_MULTIVERSION_NAME"
	DefaultSlug            = "stable"
	DefaultRemoteWhitelist = `^origin$`
	DefaultReleasedPattern = `^tags/.*$`
	DefaultOutputDirFormat = "{ref.name}"
	DefaultSitemapScheme   = "/stable/{link}"
	DefaultSourceDir       = "docs/source"
	DefaultOutputDir       = "docs/_build/html"
	DefaultMasterDoc       = "contents"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config)
	Domain() string
}

type sourceDefaults struct{}

func (sourceDefaults) Domain() string { return "source" }

func (sourceDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Source.Dir == "" {
		cfg.Source.Dir = DefaultSourceDir
	}
	if len(cfg.Source.Suffixes) == 0 {
		cfg.Source.Suffixes = map[string]string{
			".rst": ParserRestructuredText,
			".md":  ParserMarkdown,
		}
	}
	if cfg.Source.ExcludePatterns == nil {
		cfg.Source.ExcludePatterns = []string{"_build", "Thumbs.db", ".DS_Store", "_utils"}
	}
	if cfg.MasterDoc == "" {
		cfg.MasterDoc = DefaultMasterDoc
	}
}

type versionDefaults struct{}

func (versionDefaults) Domain() string { return "versions" }

func (versionDefaults) ApplyDefaults(cfg *Config) {
	v := &cfg.Versions
	if v.RenameLatest == "" {
		v.RenameLatest = DefaultSlug
	}
	if v.RemoteWhitelist == "" {
		v.RemoteWhitelist = DefaultRemoteWhitelist
	}
	if v.ReleasedPattern == "" {
		v.ReleasedPattern = DefaultReleasedPattern
	}
	if v.OutputDirFormat == "" {
		v.OutputDirFormat = DefaultOutputDirFormat
	}
	if v.EnvVar == "" {
		v.EnvVar = DefaultEnvVar
	}
	if v.DefaultSlug == "" {
		v.DefaultSlug = DefaultSlug
	}
}

type markdownDefaults struct{}

func (markdownDefaults) Domain() string { return "markdown" }

func (markdownDefaults) ApplyDefaults(cfg *Config) {
	if len(cfg.Markdown.SupportedExtensions) == 0 {
		cfg.Markdown.SupportedExtensions = []string{"md", "markdown"}
	}
}

type outputDefaults struct{}

func (outputDefaults) Domain() string { return "output" }

func (outputDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDir
	}
	if cfg.Sitemap.URLScheme == "" {
		cfg.Sitemap.URLScheme = DefaultSitemapScheme
	}
	if cfg.Redirects == nil {
		cfg.Redirects = []RedirectConfig{{Path: "api.html", Target: "api/index.html"}}
	}
}

var appliers = []DefaultApplier{sourceDefaults{}, versionDefaults{}, markdownDefaults{}, outputDefaults{}}

// ApplyDefaults fills every unset field with its default.
func ApplyDefaults(cfg *Config) {
	for _, a := range appliers {
		a.ApplyDefaults(cfg)
	}
}

// Example returns the configuration of the Java driver documentation site.
func Example() *Config {
	cfg := &Config{
		Project: "Scylla Java Driver",
		Author:  "Scylla Project Contributors",
		BaseURL: "https://java-driver.docs.scylladb.com",
		Versions: VersionsConfig{
			Branches: []string{
				"scylla-3.7.2.x", "scylla-3.10.2.x", "scylla-3.11.0.x", "scylla-3.11.2.x",
				"scylla-4.7.2.x", "scylla-4.10.0.x", "scylla-4.11.1.x", "scylla-4.12.0.x",
				"scylla-4.13.0.x", "scylla-4.14.1.x", "scylla-4.15.0.x",
			},
			Latest: "scylla-4.15.0.x",
		},
		Replacements: []Replacement{
			{
				Pattern:     `docs.datastax.com/en/drivers/java\/(.*?)\/`,
				Replacement: "java-driver.docs.scylladb.com/{version}/api/",
			},
			{
				Pattern:     `java-driver.docs.scylladb.com\/(.*?)\/`,
				Replacement: "java-driver.docs.scylladb.com/{version}/",
			},
		},
		Sitemap: SitemapConfig{Enabled: true},
		Theme: ThemeConfig{
			Name: "sphinx_scylladb_theme",
			Options: map[string]any{
				"conf_py_path":               "docs/source/",
				"branch_substring_removed":   "scylla-",
				"github_repository":          "scylladb/java-driver",
				"github_issues_repository":   "scylladb/java-driver",
				"hide_edit_this_page_button": "false",
				"hide_feedback_buttons":      "false",
				"hide_version_dropdown":      []any{"scylla-3.x"},
				"skip_warnings":              "document_has_underscores",
			},
		},
		Output: OutputConfig{Clean: true},
	}
	ApplyDefaults(cfg)
	return cfg
}
