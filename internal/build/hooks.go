package build

import (
	"context"

	"git.home.luguber.info/inful/mvdocs/internal/extension"
	"git.home.luguber.info/inful/mvdocs/internal/redirect"
	"git.home.luguber.info/inful/mvdocs/internal/site"
	"git.home.luguber.info/inful/mvdocs/internal/sitemap"
	"git.home.luguber.info/inful/mvdocs/internal/substitute"
)

// substitution rewrites raw source text with the settings' replacement table.
type substitution struct {
	table *substitute.Table
}

func (substitution) Name() string { return "substitute" }

func (s substitution) TransformSource(_ context.Context, src *extension.Source) error {
	src.Text = s.table.Apply(src.Text)
	return nil
}

// DefaultRegistry wires the standard hooks for settings: the text
// substitution pass, the Markdown link resolver, the redirect writer and,
// when enabled, the sitemap writer.
func DefaultRegistry(settings *site.Settings) (*extension.Registry, error) {
	reg := extension.NewRegistry()
	reg.SetLinkResolver(settings.LinkResolver())

	if err := reg.AddSourceTransformer(substitution{table: settings.Replacements()}); err != nil {
		return nil, err
	}
	if err := reg.AddBuildFinishedHandler(redirect.NewHandler(settings.VersionName(), settings.Redirects())); err != nil {
		return nil, err
	}
	if h := sitemap.NewHandler(settings.BaseURL(), settings.Sitemap()); h != nil {
		if err := reg.AddBuildFinishedHandler(h); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
