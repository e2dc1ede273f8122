// Package sitemap writes sitemap.xml for a built version.
package sitemap

import (
	"context"
	"encoding/xml"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/mvdocs/internal/config"
	"git.home.luguber.info/inful/mvdocs/internal/extension"
	ferrors "git.home.luguber.info/inful/mvdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/mvdocs/internal/logfields"
)

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []entry  `xml:"url"`
}

type entry struct {
	Loc string `xml:"loc"`
}

// Location builds the public URL of a page from the base URL and a scheme
// such as "/stable/{link}".
func Location(baseURL, scheme, link string) string {
	path := strings.ReplaceAll(scheme, "{link}", strings.TrimPrefix(link, "/"))
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

// Handler is the build-finished hook writing sitemap.xml.
type Handler struct {
	baseURL string
	scheme  string
}

// NewHandler returns a handler for cfg; it returns nil when the sitemap is disabled.
func NewHandler(baseURL string, cfg config.SitemapConfig) *Handler {
	if !cfg.Enabled {
		return nil
	}
	return &Handler{baseURL: baseURL, scheme: cfg.URLScheme}
}

func (h *Handler) Name() string { return "sitemap" }

// BuildFinished writes one <url> per page, sorted by location.
func (h *Handler) BuildFinished(_ context.Context, info extension.BuildInfo, buildErr error) error {
	if buildErr != nil {
		return nil
	}
	set := urlset{Xmlns: xmlns, URLs: make([]entry, 0, len(info.Pages))}
	for _, p := range info.Pages {
		set.URLs = append(set.URLs, entry{Loc: Location(h.baseURL, h.scheme, p.Path)})
	}
	sort.Slice(set.URLs, func(i, j int) bool { return set.URLs[i].Loc < set.URLs[j].Loc })

	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return ferrors.InternalError("marshal sitemap").WithCause(err).Build()
	}
	data = append([]byte(xml.Header), data...)
	data = append(data, '\n')

	target := filepath.Join(info.OutputDir, "sitemap.xml")
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return ferrors.FileSystemError("write sitemap").WithCause(err).WithContext("path", target).Build()
	}
	slog.Info("Wrote sitemap", logfields.Path(target), logfields.Count(len(set.URLs)))
	return nil
}
