package config

// Config is the on-disk mvdocs configuration.
type Config struct {
	Project      string           `yaml:"project"`
	Author       string           `yaml:"author,omitempty"`
	BaseURL      string           `yaml:"base_url"`
	MasterDoc    string           `yaml:"master_doc,omitempty"`
	Source       SourceConfig     `yaml:"source"`
	Versions     VersionsConfig   `yaml:"versions"`
	Markdown     MarkdownConfig   `yaml:"markdown"`
	Replacements []Replacement    `yaml:"replacements,omitempty"`
	Redirects    []RedirectConfig `yaml:"redirects,omitempty"`
	Sitemap      SitemapConfig    `yaml:"sitemap"`
	Theme        ThemeConfig      `yaml:"theme"`
	Output       OutputConfig     `yaml:"output"`
	Metrics      MetricsConfig    `yaml:"metrics,omitempty"`
}

// SourceConfig describes where source documents live and how they are parsed.
type SourceConfig struct {
	Dir             string            `yaml:"dir"`
	Suffixes        map[string]string `yaml:"suffixes"` // ".md" -> "markdown"
	ExcludePatterns []string          `yaml:"exclude_patterns,omitempty"`
}

// Parser kinds accepted in SourceConfig.Suffixes.
const (
	ParserMarkdown         = "markdown"
	ParserRestructuredText = "restructuredtext"
)

// VersionsConfig lists the refs to build and how they are labelled.
type VersionsConfig struct {
	Tags            []string `yaml:"tags,omitempty"`
	Branches        []string `yaml:"branches,omitempty"`
	Latest          string   `yaml:"latest"`
	RenameLatest    string   `yaml:"rename_latest,omitempty"`
	Unstable        []string `yaml:"unstable,omitempty"`
	Deprecated      []string `yaml:"deprecated,omitempty"`
	RemoteWhitelist string   `yaml:"remote_whitelist,omitempty"`
	ReleasedPattern string   `yaml:"released_pattern,omitempty"`
	OutputDirFormat string   `yaml:"outputdir_format,omitempty"`
	// EnvVar names the variable carrying the version currently being built.
	EnvVar string `yaml:"env_var,omitempty"`
	// DefaultSlug is used for link substitution when EnvVar is unset.
	DefaultSlug string `yaml:"default_slug,omitempty"`
}

// MarkdownConfig controls the Markdown link normalizer.
type MarkdownConfig struct {
	SupportedExtensions []string `yaml:"supported_extensions"`
}

// Replacement is one ordered text substitution applied to raw sources.
// The literal placeholder {version} in Replacement is expanded to the version slug.
type Replacement struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// RedirectConfig describes one generated redirect file.
// Target is relative to the version prefix, e.g. "api/index.html".
type RedirectConfig struct {
	Path   string `yaml:"path"`
	Target string `yaml:"target"`
}

// SitemapConfig controls sitemap.xml generation.
type SitemapConfig struct {
	Enabled   bool   `yaml:"enabled"`
	URLScheme string `yaml:"url_scheme"`
}

// ThemeConfig carries the theme name and its loosely typed options.
type ThemeConfig struct {
	Name    string         `yaml:"name"`
	Options map[string]any `yaml:"options,omitempty"`
}

// OutputConfig describes where builds are written.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"`
}

// MetricsConfig enables the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}
