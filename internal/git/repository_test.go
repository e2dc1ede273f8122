package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/mvdocs/internal/foundation/errors"
	helpers "git.home.luguber.info/inful/mvdocs/internal/testutil/testutils"
	"git.home.luguber.info/inful/mvdocs/internal/versioning"
)

func fixture(t *testing.T) (*helpers.Repo, string, string) {
	t.Helper()
	r := helpers.SetupTestGitRepo(t)
	r.Write("README.md", "root\n").
		Write("docs/source/contents.rst", "Contents\n========\n").
		Write("docs/source/manual/index.md", "# Manual v1\n")
	c1 := r.Commit("v1")
	r.Write("docs/source/manual/index.md", "# Manual v2\n")
	c2 := r.Commit("v2")
	return r, c1, c2
}

func byRefName(refs []versioning.Ref) map[string]versioning.Ref {
	out := make(map[string]versioning.Ref, len(refs))
	for _, ref := range refs {
		out[ref.RefName()] = ref
	}
	return out
}

func TestRefs(t *testing.T) {
	r, c1, c2 := fixture(t)
	r.Branch("scylla-4.14.1.x", c1)
	r.RemoteBranch("origin", "scylla-4.15.0.x", c2)
	r.RemoteBranch("fork", "scylla-4.15.0.x", c1)
	r.Tag("4.14.1.0", c1)
	r.AnnotatedTag("4.15.0.0", c2, "release")
	require.NoError(t, r.Repo.Storer.SetReference(plumbing.NewSymbolicReference(
		plumbing.NewRemoteHEADReferenceName("origin"),
		plumbing.NewRemoteReferenceName("origin", "scylla-4.15.0.x"))))

	repo, err := Open(r.Dir)
	require.NoError(t, err)
	refs, err := repo.Refs()
	require.NoError(t, err)

	got := byRefName(refs)
	assert.Equal(t, c1, got["heads/scylla-4.14.1.x"].CommitSHA)
	assert.Equal(t, c2, got["remotes/origin/scylla-4.15.0.x"].CommitSHA)
	assert.Equal(t, "origin", got["remotes/origin/scylla-4.15.0.x"].Remote)
	assert.Equal(t, c1, got["remotes/fork/scylla-4.15.0.x"].CommitSHA)
	assert.Equal(t, c1, got["tags/4.14.1.0"].CommitSHA)
	assert.Equal(t, c2, got["tags/4.15.0.0"].CommitSHA, "annotated tag peeled to its commit")
	assert.Equal(t, versioning.RefTypeTag, got["tags/4.15.0.0"].Type)
	assert.NotContains(t, got, "remotes/origin/HEAD")
}

func TestOpenFromSubdirectory(t *testing.T) {
	r, _, _ := fixture(t)
	repo, err := Open(filepath.Join(r.Dir, "docs", "source"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(r.Dir, "docs", "source"), repo.Path())
}

func TestOpenMissingRepository(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryGit))
}

func TestExport(t *testing.T) {
	r, c1, c2 := fixture(t)
	repo, err := Open(r.Dir)
	require.NoError(t, err)

	dest := t.TempDir()
	n, err := repo.Export(context.Background(), c1, "docs/source", dest)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(filepath.Join(dest, "manual", "index.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Manual v1\n", string(data))
	assert.NoFileExists(t, filepath.Join(dest, "README.md"))

	dest2 := t.TempDir()
	_, err = repo.Export(context.Background(), c2, "/docs/source/", dest2)
	require.NoError(t, err)
	data, err = os.ReadFile(filepath.Join(dest2, "manual", "index.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Manual v2\n", string(data))
}

func TestExportMissingSubdir(t *testing.T) {
	r, c1, _ := fixture(t)
	repo, err := Open(r.Dir)
	require.NoError(t, err)

	_, err = repo.Export(context.Background(), c1, "nope", t.TempDir())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestExportCancelled(t *testing.T) {
	r, c1, _ := fixture(t)
	repo, err := Open(r.Dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = repo.Export(ctx, c1, "docs/source", t.TempDir())
	require.ErrorIs(t, err, context.Canceled)
}

func TestTreeHash(t *testing.T) {
	r, c1, c2 := fixture(t)
	r.Write("README.md", "changed outside docs\n")
	c3 := r.Commit("readme")

	repo, err := Open(r.Dir)
	require.NoError(t, err)

	h1, err := repo.TreeHash(c1, "docs/source")
	require.NoError(t, err)
	h2, err := repo.TreeHash(c2, "docs/source")
	require.NoError(t, err)
	h3, err := repo.TreeHash(c3, "docs/source")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.Equal(t, h2, h3)
}
