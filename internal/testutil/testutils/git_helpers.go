// Package helpers builds throwaway git repositories for tests.
package helpers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo is a temporary repository with helpers to commit files and create refs.
type Repo struct {
	t        *testing.T
	Repo     *git.Repository
	Worktree *git.Worktree
	Dir      string
	when     time.Time
}

// SetupTestGitRepo initializes a temporary git repository for testing.
func SetupTestGitRepo(t *testing.T) *Repo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to initialize git repo: %v", err)
	}
	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}
	return &Repo{
		t:        t,
		Repo:     repo,
		Worktree: w,
		Dir:      dir,
		when:     time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Write creates or replaces a file in the worktree.
func (r *Repo) Write(rel, content string) *Repo {
	r.t.Helper()
	p := filepath.Join(r.Dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		r.t.Fatalf("mkdir %s: %v", rel, err)
	}
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		r.t.Fatalf("write %s: %v", rel, err)
	}
	return r
}

// Commit stages every change and commits it, returning the commit hash.
func (r *Repo) Commit(msg string) string {
	r.t.Helper()
	if err := r.Worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		r.t.Fatalf("add: %v", err)
	}
	r.when = r.when.Add(time.Minute)
	h, err := r.Worktree.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "t", Email: "t@example.invalid", When: r.when},
	})
	if err != nil {
		r.t.Fatalf("commit: %v", err)
	}
	return h.String()
}

// Branch points a local branch at commit.
func (r *Repo) Branch(name, commit string) {
	r.setRef(plumbing.NewBranchReferenceName(name), commit)
}

// RemoteBranch points a remote-tracking branch at commit.
func (r *Repo) RemoteBranch(remote, name, commit string) {
	r.setRef(plumbing.NewRemoteReferenceName(remote, name), commit)
}

// Tag creates a lightweight tag.
func (r *Repo) Tag(name, commit string) {
	r.setRef(plumbing.NewTagReferenceName(name), commit)
}

// AnnotatedTag creates an annotated tag object pointing at commit.
func (r *Repo) AnnotatedTag(name, commit, msg string) {
	r.t.Helper()
	_, err := r.Repo.CreateTag(name, plumbing.NewHash(commit), &git.CreateTagOptions{
		Tagger:  &object.Signature{Name: "t", Email: "t@example.invalid", When: r.when},
		Message: msg,
	})
	if err != nil {
		r.t.Fatalf("tag %s: %v", name, err)
	}
}

func (r *Repo) setRef(name plumbing.ReferenceName, commit string) {
	r.t.Helper()
	if err := r.Repo.Storer.SetReference(plumbing.NewHashReference(name, plumbing.NewHash(commit))); err != nil {
		r.t.Fatalf("set %s: %v", name, err)
	}
}
