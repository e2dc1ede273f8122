// Package extension defines the typed extension points fired by the build
// host and the registry hooks are attached through.
package extension

import (
	"context"

	"git.home.luguber.info/inful/mvdocs/internal/markdown"
)

// Source is one document's raw text in flight between reading and parsing.
// SourceTransformers rewrite Text in place.
type Source struct {
	Docname string
	Parser  string
	Text    string
}

// Page is one rendered output page.
type Page struct {
	Docname string
	Path    string // slash-separated, relative to the output dir
	Title   string
}

// BuildInfo is passed to build-finished handlers.
type BuildInfo struct {
	BuildID   string
	OutputDir string
	Pages     []Page
}

// SourceTransformer is fired once per document before it is parsed.
type SourceTransformer interface {
	Name() string
	TransformSource(ctx context.Context, src *Source) error
}

// LinkResolver decides where a Markdown link points after rendering.
type LinkResolver interface {
	Resolve(destination, title string) markdown.Reference
}

// BuildFinishedHandler is fired exactly once after all documents were
// processed. buildErr is the error that ended the build, if any.
type BuildFinishedHandler interface {
	Name() string
	BuildFinished(ctx context.Context, info BuildInfo, buildErr error) error
}
