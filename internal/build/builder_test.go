package build

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/mvdocs/internal/config"
	"git.home.luguber.info/inful/mvdocs/internal/extension"
	ferrors "git.home.luguber.info/inful/mvdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/mvdocs/internal/metrics"
	"git.home.luguber.info/inful/mvdocs/internal/site"
)

type countingTransformer struct {
	mu   sync.Mutex
	seen []string
	err  error
}

func (c *countingTransformer) Name() string { return "counting" }

func (c *countingTransformer) TransformSource(_ context.Context, src *extension.Source) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, src.Docname)
	return c.err
}

type countingHandler struct {
	calls    int
	buildErr error
	pages    []extension.Page
}

func (c *countingHandler) Name() string { return "counting-finished" }

func (c *countingHandler) BuildFinished(_ context.Context, info extension.BuildInfo, buildErr error) error {
	c.calls++
	c.buildErr = buildErr
	c.pages = info.Pages
	return nil
}

type recordingRecorder struct {
	metrics.NoopRecorder
	documents map[string]int
	links     int
	outcomes  []metrics.Outcome
	hooks     map[string]int
}

func (r *recordingRecorder) IncDocuments(parser string) { r.documents[parser]++ }
func (r *recordingRecorder) AddLinksRewritten(n int)    { r.links += n }
func (r *recordingRecorder) IncBuildOutcome(_ string, o metrics.Outcome) {
	r.outcomes = append(r.outcomes, o)
}
func (r *recordingRecorder) IncHook(hook string, _ bool) { r.hooks[hook]++ }

func newRecordingRecorder() *recordingRecorder {
	return &recordingRecorder{documents: map[string]int{}, hooks: map[string]int{}}
}

func sampleSource(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	writeFile(t, src, "contents.rst", "Contents\n========\n\nSee <https://docs.datastax.com/en/drivers/java/4.0/index.html>.\n")
	writeFile(t, src, "manual/index.md", "# Manual\n\nRead [setup](setup.md), [install](setup.md#install) and [site](https://example.com/a.md).\n")
	writeFile(t, src, "manual/setup.md", "# Setup\n\nAPI docs: https://docs.datastax.com/en/drivers/java/4.0/com/datastax/Cluster.html\n")
	writeFile(t, src, "_static/logo.svg", "<svg/>")
	return src
}

func newTestBuilder(t *testing.T, src, out, version string) (*Builder, *extension.Registry) {
	t.Helper()
	cfg := config.Example()
	cfg.Output.Clean = false
	settings, err := site.ForVersion(cfg, version)
	require.NoError(t, err)
	settings = settings.WithDirs(src, out)

	reg, err := DefaultRegistry(settings)
	require.NoError(t, err)
	return New(settings, reg), reg
}

func anchors(t *testing.T, data []byte) []string {
	t.Helper()
	doc, err := html.Parse(bytes.NewReader(data))
	require.NoError(t, err)
	var hrefs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, a := range n.Attr {
				if a.Key == "href" {
					hrefs = append(hrefs, a.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return hrefs
}

func TestBuildRendersSite(t *testing.T) {
	src, out := sampleSource(t), t.TempDir()
	b, reg := newTestBuilder(t, src, out, "")
	tr, fin := &countingTransformer{}, &countingHandler{}
	require.NoError(t, reg.AddSourceTransformer(tr))
	require.NoError(t, reg.AddBuildFinishedHandler(fin))
	rec := newRecordingRecorder()
	b.WithRecorder(rec)

	res, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.NotEmpty(t, res.BuildID)
	assert.Equal(t, 3, res.Documents)
	assert.Equal(t, 1, res.Assets)
	assert.Equal(t, 1, res.LinksRewritten)

	// source-read once per document, build-finished once
	assert.ElementsMatch(t, []string{"contents", "manual/index", "manual/setup"}, tr.seen)
	assert.Equal(t, 1, fin.calls)
	require.NoError(t, fin.buildErr)
	assert.Len(t, fin.pages, 3)

	index, err := os.ReadFile(filepath.Join(out, "manual", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, []string{"setup", "setup.md#install", "https://example.com/a.md"}, anchors(t, index))
	assert.Contains(t, string(index), "<title>Manual | Scylla Java Driver</title>")

	setup, err := os.ReadFile(filepath.Join(out, "manual", "setup.html"))
	require.NoError(t, err)
	assert.Contains(t, string(setup), "java-driver.docs.scylladb.com/stable/api/com/datastax/Cluster.html")
	assert.NotContains(t, string(setup), "docs.datastax.com")

	raw, err := os.ReadFile(filepath.Join(out, "_sources", "contents.rst.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "java-driver.docs.scylladb.com/stable/api/index.html")
	contents, err := os.ReadFile(filepath.Join(out, "contents.html"))
	require.NoError(t, err)
	assert.Contains(t, string(contents), `<pre class="source">`)
	assert.Contains(t, string(contents), "&lt;https://java-driver.docs.scylladb.com/stable/api/index.html&gt;")

	assert.FileExists(t, filepath.Join(out, "_static", "logo.svg"))
	assert.FileExists(t, filepath.Join(out, "sitemap.xml"))
	api, err := os.ReadFile(filepath.Join(out, "api.html"))
	require.NoError(t, err)
	assert.Contains(t, string(api), `url=/api/index.html`)

	assert.Equal(t, 1, rec.documents[config.ParserRestructuredText])
	assert.Equal(t, 2, rec.documents[config.ParserMarkdown])
	assert.Equal(t, 1, rec.links)
	assert.Equal(t, []metrics.Outcome{metrics.OutcomeSuccess}, rec.outcomes)
	assert.Equal(t, 3, rec.hooks["counting"])
	assert.Equal(t, 1, rec.hooks["redirect"])
}

func TestBuildVersionedRedirect(t *testing.T) {
	src, out := sampleSource(t), t.TempDir()
	b, _ := newTestBuilder(t, src, out, "scylla-4.14.1.x")

	_, err := b.Build(context.Background())
	require.NoError(t, err)

	api, err := os.ReadFile(filepath.Join(out, "api.html"))
	require.NoError(t, err)
	assert.Contains(t, string(api), "/scylla-4.14.1.x/api/index.html")

	setup, err := os.ReadFile(filepath.Join(out, "manual", "setup.html"))
	require.NoError(t, err)
	assert.Contains(t, string(setup), "java-driver.docs.scylladb.com/scylla-4.14.1.x/api/")
}

func TestBuilderKeepsExistingObservers(t *testing.T) {
	src, out := sampleSource(t), t.TempDir()
	cfg := config.Example()
	cfg.Output.Clean = false
	settings, err := site.ForVersion(cfg, "")
	require.NoError(t, err)
	settings = settings.WithDirs(src, out)
	reg, err := DefaultRegistry(settings)
	require.NoError(t, err)

	seen := map[string]int{}
	reg.Observe(func(hook string, _ error) { seen[hook]++ })

	rec := newRecordingRecorder()
	_, err = New(settings, reg).WithRecorder(rec).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, seen["substitute"])
	assert.Equal(t, 1, seen["redirect"])
	assert.Equal(t, 3, rec.hooks["substitute"])
	assert.Equal(t, 1, rec.hooks["redirect"])
}

func TestRebuildSkipsUnchangedOutputs(t *testing.T) {
	src, out := sampleSource(t), t.TempDir()
	b, _ := newTestBuilder(t, src, out, "")

	first, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, first.FilesWritten) // 3 pages, 1 rst source, 1 asset
	assert.Positive(t, first.BytesWritten)

	second, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.FilesWritten)
	assert.Equal(t, 5, second.FilesUnchanged)

	writeFile(t, src, "manual/setup.md", "# Setup\n\nChanged.\n")
	third, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, third.FilesWritten)
	assert.NotEqual(t, first.BuildID, third.BuildID)
}

func TestBuildFailureSkipsOutputHandlers(t *testing.T) {
	src, out := sampleSource(t), t.TempDir()
	b, reg := newTestBuilder(t, src, out, "")
	boom := errors.New("boom")
	fin := &countingHandler{}
	require.NoError(t, reg.AddSourceTransformer(&countingTransformer{err: boom}))
	require.NoError(t, reg.AddBuildFinishedHandler(fin))
	rec := newRecordingRecorder()
	b.WithRecorder(rec)

	res, err := b.Build(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryBuild))
	assert.Equal(t, StatusFailed, res.Status)

	assert.Equal(t, 1, fin.calls)
	assert.ErrorIs(t, fin.buildErr, boom)
	assert.NoFileExists(t, filepath.Join(out, "api.html"))
	assert.NoFileExists(t, filepath.Join(out, "sitemap.xml"))
	assert.Equal(t, []metrics.Outcome{metrics.OutcomeFailed}, rec.outcomes)
}

func TestBuildCancelled(t *testing.T) {
	src, out := sampleSource(t), t.TempDir()
	b, reg := newTestBuilder(t, src, out, "")
	fin := &countingHandler{}
	require.NoError(t, reg.AddBuildFinishedHandler(fin))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := b.Build(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusCancelled, res.Status)
	assert.Equal(t, 1, fin.calls)
	assert.Zero(t, res.Documents)
}

func TestBuildCleanRemovesStaleOutput(t *testing.T) {
	src, out := sampleSource(t), t.TempDir()
	writeFile(t, out, "stale.html", "old")

	cfg := config.Example()
	settings, err := site.ForVersion(cfg, "")
	require.NoError(t, err)
	settings = settings.WithDirs(src, out)
	reg, err := DefaultRegistry(settings)
	require.NoError(t, err)

	_, err = New(settings, reg).Build(context.Background())
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(out, "stale.html"))
	assert.FileExists(t, filepath.Join(out, "contents.html"))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusSuccess, statusOf(nil))
	assert.Equal(t, StatusCancelled, statusOf(context.DeadlineExceeded))
	assert.Equal(t, StatusFailed, statusOf(errors.New("x")))
}
