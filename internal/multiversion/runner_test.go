package multiversion

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mvdocs/internal/config"
	ferrors "git.home.luguber.info/inful/mvdocs/internal/foundation/errors"
	helpers "git.home.luguber.info/inful/mvdocs/internal/testutil/testutils"
)

const (
	oldBranch    = "scylla-4.14.1.x"
	latestBranch = "scylla-4.15.0.x"
)

func testConfig() *config.Config {
	cfg := config.Example()
	cfg.Versions.Branches = []string{oldBranch, latestBranch}
	cfg.Versions.Latest = latestBranch
	return cfg
}

func docsRepo(t *testing.T) *helpers.Repo {
	t.Helper()
	r := helpers.SetupTestGitRepo(t)
	r.Write("docs/source/contents.rst", "Contents\n========\n").
		Write("docs/source/manual/index.md", "# Manual\n\n[API](https://docs.datastax.com/en/drivers/java/4.0/index.html)\n")
	c1 := r.Commit("old docs")
	r.Write("docs/source/manual/index.md", "# Manual\n\nSee [core](core.md).\n\n[API](https://docs.datastax.com/en/drivers/java/4.0/index.html)\n").
		Write("docs/source/manual/core.md", "# Core\n")
	c2 := r.Commit("new docs")

	r.Branch(oldBranch, c1)
	r.RemoteBranch("origin", latestBranch, c2)
	r.RemoteBranch("upstream", oldBranch, c2)
	r.Branch("feature-x", c2)
	return r
}

func TestPlan(t *testing.T) {
	r := docsRepo(t)
	versions, err := New(testConfig(), Options{RepoPath: r.Dir}).Plan()
	require.NoError(t, err)

	require.Len(t, versions, 2)
	assert.Equal(t, oldBranch, versions[0].Name)
	assert.Empty(t, versions[0].Ref.Remote)
	assert.Equal(t, latestBranch, versions[1].Name)
	assert.Equal(t, "stable", versions[1].OutputDir)
	assert.Equal(t, "4.15.0.x", versions[1].Label)
}

func TestPlanNoMatchingRefs(t *testing.T) {
	r := helpers.SetupTestGitRepo(t)
	r.Write("docs/source/contents.rst", "x\n")
	r.Commit("init")

	_, err := New(testConfig(), Options{RepoPath: r.Dir}).Plan()
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestRunBuildsEveryVersion(t *testing.T) {
	r := docsRepo(t)
	out := t.TempDir()

	res, err := New(testConfig(), Options{RepoPath: r.Dir, OutputRoot: out}).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Built, 2)
	assert.Empty(t, res.Skipped)

	old, err := os.ReadFile(filepath.Join(out, oldBranch, "manual", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(old), "java-driver.docs.scylladb.com/"+oldBranch+"/api/index.html")
	assert.NoFileExists(t, filepath.Join(out, oldBranch, "manual", "core.html"))

	latest, err := os.ReadFile(filepath.Join(out, "stable", "manual", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(latest), `href="core"`)
	assert.Contains(t, string(latest), "java-driver.docs.scylladb.com/stable/api/index.html")

	api, err := os.ReadFile(filepath.Join(out, "stable", "api.html"))
	require.NoError(t, err)
	assert.Contains(t, string(api), "/stable/api/index.html")
	api, err = os.ReadFile(filepath.Join(out, oldBranch, "api.html"))
	require.NoError(t, err)
	assert.Contains(t, string(api), "/"+oldBranch+"/api/index.html")

	index, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "/stable/contents.html")

	m, err := ReadManifest(out)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "stable", m.Latest)
	assert.Equal(t, "Scylla Java Driver", m.Project)
	require.Len(t, m.Versions, 2)
	assert.Equal(t, oldBranch, m.Versions[0].Name)
	assert.NotEmpty(t, m.Versions[0].Tree)
	assert.True(t, m.Versions[1].Latest)
	assert.Equal(t, "scylla-", m.ThemeOptions["branch_substring_removed"])
}

func TestRunSkipsUnchangedVersions(t *testing.T) {
	r := docsRepo(t)
	out := t.TempDir()
	opts := Options{RepoPath: r.Dir, OutputRoot: out}

	first, err := New(testConfig(), opts).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, first.Built, 2)

	second, err := New(testConfig(), opts).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second.Built)
	require.Len(t, second.Skipped, 2)
	assert.Equal(t, first.Built[0].BuildID, second.Skipped[0].BuildID)

	opts.Force = true
	forced, err := New(testConfig(), opts).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, forced.Built, 2)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	r := helpers.SetupTestGitRepo(t)
	r.Write("README.md", "no docs yet\n")
	c1 := r.Commit("init")
	r.Write("docs/source/contents.rst", "Contents\n========\n")
	c2 := r.Commit("docs")
	r.Branch(oldBranch, c1)
	r.Branch(latestBranch, c2)

	out := t.TempDir()
	_, err := New(testConfig(), Options{RepoPath: r.Dir, OutputRoot: out}).Run(context.Background())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))

	c, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	version, _ := c.Context().GetString("version")
	assert.Equal(t, oldBranch, version)
	assert.NoDirExists(t, filepath.Join(out, "stable"))
	assert.NoFileExists(t, filepath.Join(out, ManifestFile))
}

func TestRunPersistentWorkspace(t *testing.T) {
	r := docsRepo(t)
	ws := filepath.Join(t.TempDir(), "exports")

	_, err := New(testConfig(), Options{RepoPath: r.Dir, OutputRoot: t.TempDir(), WorkspaceDir: ws}).Run(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(ws, "stable", "manual", "core.md"))
	assert.FileExists(t, filepath.Join(ws, oldBranch, "contents.rst"))
}

func TestRunCancelled(t *testing.T) {
	r := docsRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(testConfig(), Options{RepoPath: r.Dir, OutputRoot: t.TempDir()}).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
