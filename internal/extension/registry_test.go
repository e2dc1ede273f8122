package extension

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/mvdocs/internal/foundation/errors"
)

type upper struct{ name string }

func (u upper) Name() string { return u.name }
func (u upper) TransformSource(_ context.Context, src *Source) error {
	src.Text = strings.ToUpper(src.Text)
	return nil
}

type suffix struct{}

func (suffix) Name() string { return "suffix" }
func (suffix) TransformSource(_ context.Context, src *Source) error {
	src.Text += "!"
	return nil
}

type failing struct{}

func (failing) Name() string                                   { return "failing" }
func (failing) TransformSource(context.Context, *Source) error { return errors.New("nope") }

type recorder struct {
	name  string
	calls *[]string
	err   error
}

func (r recorder) Name() string { return r.name }
func (r recorder) BuildFinished(_ context.Context, info BuildInfo, buildErr error) error {
	*r.calls = append(*r.calls, r.name+":"+info.OutputDir)
	return r.err
}

func TestFireSourceReadOrder(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddSourceTransformer(upper{name: "upper"}))
	require.NoError(t, reg.AddSourceTransformer(suffix{}))

	var hooks []string
	reg.Observe(func(hook string, err error) { hooks = append(hooks, hook) })

	src := &Source{Docname: "index", Text: "hello"}
	require.NoError(t, reg.FireSourceRead(context.Background(), src))
	assert.Equal(t, "HELLO!", src.Text)
	assert.Equal(t, []string{"upper", "suffix"}, hooks)
}

func TestFireSourceReadError(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddSourceTransformer(failing{}))
	require.NoError(t, reg.AddSourceTransformer(suffix{}))

	src := &Source{Docname: "index", Text: "x"}
	err := reg.FireSourceRead(context.Background(), src)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryBuild))
	assert.Equal(t, "x", src.Text, "later transformers must not run")
}

func TestDuplicateNames(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddSourceTransformer(upper{name: "dup"}))
	require.Error(t, reg.AddSourceTransformer(upper{name: "dup"}))
	var calls []string
	require.Error(t, reg.AddBuildFinishedHandler(recorder{name: "dup", calls: &calls}))
	require.Error(t, reg.AddSourceTransformer(nil))
	require.Error(t, reg.AddBuildFinishedHandler(nil))
	require.Error(t, reg.AddSourceTransformer(upper{}))
}

func TestFireBuildFinishedRunsEveryHandler(t *testing.T) {
	reg := NewRegistry()
	var calls []string
	diskFull := errors.New("disk full")
	require.NoError(t, reg.AddBuildFinishedHandler(recorder{name: "a", calls: &calls}))
	require.NoError(t, reg.AddBuildFinishedHandler(recorder{name: "redirect", calls: &calls, err: diskFull}))
	require.NoError(t, reg.AddBuildFinishedHandler(recorder{name: "sitemap", calls: &calls}))

	err := reg.FireBuildFinished(context.Background(), BuildInfo{OutputDir: "out"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, diskFull)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryBuild))
	assert.Equal(t, []string{"a:out", "redirect:out", "sitemap:out"}, calls)
}

func TestFireBuildFinishedJoinsFailures(t *testing.T) {
	reg := NewRegistry()
	var calls []string
	first := ferrors.FileSystemError("write api.html").Build()
	second := errors.New("sitemap failed")
	require.NoError(t, reg.AddBuildFinishedHandler(recorder{name: "redirect", calls: &calls, err: first}))
	require.NoError(t, reg.AddBuildFinishedHandler(recorder{name: "sitemap", calls: &calls, err: second}))

	err := reg.FireBuildFinished(context.Background(), BuildInfo{OutputDir: "out"}, nil)
	require.Error(t, err)
	assert.Len(t, calls, 2)
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem), "category of the first failure is kept")

	c, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	n, _ := c.Context().Get("failures")
	assert.Equal(t, 2, n)
}

func TestObserversAccumulate(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddSourceTransformer(suffix{}))

	var first, second []string
	reg.Observe(func(hook string, _ error) { first = append(first, hook) })
	reg.Observe(func(hook string, _ error) { second = append(second, hook) })
	reg.Observe(nil)

	require.NoError(t, reg.FireSourceRead(context.Background(), &Source{Docname: "index"}))
	assert.Equal(t, []string{"suffix"}, first)
	assert.Equal(t, []string{"suffix"}, second)
}

func TestLinkResolverSlot(t *testing.T) {
	reg := NewRegistry()
	assert.Nil(t, reg.LinkResolver())
}
