package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderRewritesRelativeLinks(t *testing.T) {
	r := NewRenderer(NewLinkResolver([]string{"md", "markdown"}))

	src := "# Getting started\n\n" +
		"Read the [FAQ](faq.md \"Questions\"), the [manual](../manual/README.md#intro)\n" +
		"and the [upstream docs](https://example.com/doc.md).\n\n" +
		"[ref]: other.md\n\nSee [other][ref].\n"

	res, err := r.Render([]byte(src))
	require.NoError(t, err)

	html := string(res.HTML)
	require.Contains(t, html, `<a href="faq" title="Questions">FAQ</a>`)
	require.Contains(t, html, `<a href="../manual/README.md#intro">manual</a>`)
	require.Contains(t, html, `<a href="https://example.com/doc.md">upstream docs</a>`)
	require.Contains(t, html, `<a href="other">other</a>`)
	require.Equal(t, 2, res.LinksRewritten)
	require.Equal(t, "Getting started", res.Title)
}

func TestRenderLeavesImagesAlone(t *testing.T) {
	r := NewRenderer(NewLinkResolver([]string{"md"}))

	res, err := r.Render([]byte("![diagram](diagram.md)\n"))
	require.NoError(t, err)
	require.True(t, strings.Contains(string(res.HTML), `src="diagram.md"`))
	require.Zero(t, res.LinksRewritten)
}

func TestRenderTitleFallback(t *testing.T) {
	r := NewRenderer(NewLinkResolver(nil))

	res, err := r.Render([]byte("intro\n\n## Section *one*\n"))
	require.NoError(t, err)
	require.Equal(t, "Section one", res.Title)

	res, err = r.Render([]byte("no headings here\n"))
	require.NoError(t, err)
	require.Empty(t, res.Title)
}
