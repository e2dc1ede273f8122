package markdown

import (
	"bytes"

	gmast "github.com/yuin/goldmark/ast"
)

// firstHeading returns the plain text of the first level-1 heading, falling
// back to the first heading of any level.
func firstHeading(doc gmast.Node, src []byte) string {
	var first, h1 *gmast.Heading
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		h, ok := n.(*gmast.Heading)
		if !entering || !ok {
			return gmast.WalkContinue, nil
		}
		if first == nil {
			first = h
		}
		if h.Level == 1 {
			h1 = h
			return gmast.WalkStop, nil
		}
		return gmast.WalkSkipChildren, nil
	})
	if h1 != nil {
		return plainText(h1, src)
	}
	if first != nil {
		return plainText(first, src)
	}
	return ""
}

func plainText(n gmast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *gmast.String:
			buf.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return buf.String()
}
