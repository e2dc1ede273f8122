// Package redirect writes the static HTML files that forward browsers from a
// fixed path to the versioned location of a page.
package redirect

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/mvdocs/internal/config"
	"git.home.luguber.info/inful/mvdocs/internal/extension"
	ferrors "git.home.luguber.info/inful/mvdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/mvdocs/internal/logfields"
)

// Record is one redirect file: Path is relative to the output dir.
type Record struct {
	Path        string
	Destination string
}

// Prefix returns "/<version>" or "" when no version is being built.
func Prefix(versionName string) string {
	if versionName == "" {
		return ""
	}
	return "/" + versionName
}

// Destination builds the absolute URL path of target inside the version.
func Destination(versionName, target string) string {
	return Prefix(versionName) + "/" + strings.TrimPrefix(target, "/")
}

// Records resolves redirect configuration for a version.
func Records(versionName string, redirects []config.RedirectConfig) []Record {
	out := make([]Record, 0, len(redirects))
	for _, r := range redirects {
		out = append(out, Record{Path: r.Path, Destination: Destination(versionName, r.Target)})
	}
	return out
}

var page = template.Must(template.New("redirect").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Redirecting&hellip;</title>
    <link rel="canonical" href="{{.}}">
    <noscript><meta http-equiv="refresh" content="0; url={{.}}"></noscript>
  </head>
  <body>
    <script>window.location.replace({{.}} + window.location.hash);</script>
    <p>Redirecting to <a href="{{.}}">{{.}}</a>&hellip;</p>
  </body>
</html>
`))

// Render returns the redirect document for destination.
func Render(destination string) ([]byte, error) {
	var buf bytes.Buffer
	if err := page.Execute(&buf, destination); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders r below outDir.
func Write(outDir string, r Record) error {
	if outDir == "" {
		return ferrors.FileSystemError("output directory is not set").Build()
	}
	data, err := Render(r.Destination)
	if err != nil {
		return ferrors.InternalError("render redirect").WithCause(err).Build()
	}
	target := filepath.Join(outDir, filepath.FromSlash(r.Path))
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return ferrors.FileSystemError("create redirect directory").WithCause(err).WithContext("path", target).Build()
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return ferrors.FileSystemError("write redirect file").WithCause(err).WithContext("path", target).Build()
	}
	return nil
}

// Handler is the build-finished hook that writes every configured redirect.
type Handler struct {
	records []Record
}

// NewHandler returns a handler for the given version's redirects.
func NewHandler(versionName string, redirects []config.RedirectConfig) *Handler {
	return &Handler{records: Records(versionName, redirects)}
}

func (h *Handler) Name() string { return "redirect" }

// Records returns the redirects the handler writes.
func (h *Handler) Records() []Record {
	return append([]Record(nil), h.records...)
}

// BuildFinished writes the redirect files. Nothing is written for a failed build.
func (h *Handler) BuildFinished(ctx context.Context, info extension.BuildInfo, buildErr error) error {
	if buildErr != nil {
		return nil
	}
	for _, r := range h.records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := Write(info.OutputDir, r); err != nil {
			return err
		}
		slog.Info("Wrote redirect", logfields.Path(r.Path), logfields.RedirectTo(r.Destination))
	}
	return nil
}
