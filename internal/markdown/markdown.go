// Package markdown parses and renders Markdown sources with goldmark.
//
// Relative links to other source documents are rewritten by LinkNormalizer
// so that "guide.md" resolves to the rendered "guide" page. Existence of the
// target is not checked.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Result is one rendered Markdown document.
type Result struct {
	HTML           []byte
	Title          string
	LinksRewritten int
}

// Renderer converts Markdown to HTML with the link normalizer installed.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer builds a renderer for resolver.
func NewRenderer(resolver Resolver) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(&LinkNormalizer{Resolver: resolver}, 100)),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Renderer{md: md}
}

// Render parses and renders src.
func (r *Renderer) Render(src []byte) (Result, error) {
	pc := parser.NewContext()
	doc := r.md.Parser().Parse(text.NewReader(src), parser.WithContext(pc))

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return Result{}, err
	}
	return Result{
		HTML:           buf.Bytes(),
		Title:          firstHeading(doc, src),
		LinksRewritten: RewrittenLinks(pc),
	}, nil
}
