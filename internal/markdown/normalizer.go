package markdown

import (
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var rewrittenKey = parser.NewContextKey()

// Resolver maps a link destination and title to the reference written to
// the rendered page.
type Resolver interface {
	Resolve(destination, title string) Reference
}

// LinkNormalizer is a goldmark AST transformer applying a Resolver to every
// link node of a document.
type LinkNormalizer struct {
	Resolver Resolver
}

// Transform implements parser.ASTTransformer.
func (n *LinkNormalizer) Transform(doc *gmast.Document, _ text.Reader, pc parser.Context) {
	rewritten := 0
	_ = gmast.Walk(doc, func(node gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		link, ok := node.(*gmast.Link)
		if !ok {
			return gmast.WalkContinue, nil
		}
		ref := n.Resolver.Resolve(string(link.Destination), string(link.Title))
		if ref.RefURI != string(link.Destination) {
			rewritten++
		}
		link.Destination = []byte(ref.RefURI)
		if ref.Title != "" {
			link.Title = []byte(ref.Title)
		}
		return gmast.WalkContinue, nil
	})
	pc.Set(rewrittenKey, rewritten)
}

// RewrittenLinks returns how many link destinations the normalizer changed
// while parsing with pc.
func RewrittenLinks(pc parser.Context) int {
	if v, ok := pc.Get(rewrittenKey).(int); ok {
		return v
	}
	return 0
}
