package git

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	ferrors "git.home.luguber.info/inful/mvdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/mvdocs/internal/logfields"
	"git.home.luguber.info/inful/mvdocs/internal/versioning"
)

// Repository is a read-only view of a local git repository.
type Repository struct {
	repo *git.Repository
	path string
}

// Open opens the repository containing path, searching parent directories
// for the .git directory.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, ferrors.GitError("open repository").WithCause(err).WithContext("path", path).Build()
	}
	return &Repository{repo: repo, path: path}, nil
}

// Path returns the path the repository was opened from.
func (r *Repository) Path() string { return r.path }

// Refs lists local branches, remote-tracking branches and tags. Annotated
// tags are peeled to the commit they point at; symbolic refs are skipped.
func (r *Repository) Refs() ([]versioning.Ref, error) {
	iter, err := r.repo.References()
	if err != nil {
		return nil, ferrors.GitError("list references").WithCause(err).Build()
	}
	defer iter.Close()

	var refs []versioning.Ref
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name := ref.Name()
		switch {
		case name.IsBranch():
			refs = append(refs, versioning.Ref{
				Name:      name.Short(),
				Type:      versioning.RefTypeBranch,
				CommitSHA: ref.Hash().String(),
			})
		case name.IsRemote():
			remote, branch, ok := strings.Cut(strings.TrimPrefix(name.String(), "refs/remotes/"), "/")
			if !ok || branch == "HEAD" {
				return nil
			}
			refs = append(refs, versioning.Ref{
				Name:      branch,
				Type:      versioning.RefTypeBranch,
				Remote:    remote,
				CommitSHA: ref.Hash().String(),
			})
		case name.IsTag():
			commit, err := r.peel(ref.Hash())
			if err != nil {
				slog.Debug("Skipping tag", logfields.Ref(name.Short()), logfields.Error(err))
				return nil
			}
			refs = append(refs, versioning.Ref{
				Name:      name.Short(),
				Type:      versioning.RefTypeTag,
				CommitSHA: commit.String(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, ferrors.GitError("iterate references").WithCause(err).Build()
	}
	return refs, nil
}

// peel resolves an annotated tag object to its commit. Lightweight tags are
// returned unchanged.
func (r *Repository) peel(h plumbing.Hash) (plumbing.Hash, error) {
	tag, err := r.repo.TagObject(h)
	switch {
	case errors.Is(err, plumbing.ErrObjectNotFound):
		if _, err := r.repo.CommitObject(h); err != nil {
			return plumbing.ZeroHash, err
		}
		return h, nil
	case err != nil:
		return plumbing.ZeroHash, err
	}
	commit, err := tag.Commit()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return commit.Hash, nil
}

// tree returns the tree of commit, narrowed to subdir when it is not empty.
func (r *Repository) tree(commit, subdir string) (*object.Tree, error) {
	c, err := r.repo.CommitObject(plumbing.NewHash(commit))
	if err != nil {
		return nil, ferrors.GitError("load commit").WithCause(err).WithContext("commit", commit).Build()
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, ferrors.GitError("load tree").WithCause(err).WithContext("commit", commit).Build()
	}
	subdir = strings.Trim(subdir, "/")
	if subdir == "" || subdir == "." {
		return tree, nil
	}
	sub, err := tree.Tree(subdir)
	if err != nil {
		return nil, ferrors.NotFoundError("source directory not found in commit").
			WithCause(err).
			WithContext("commit", commit).
			WithContext("path", subdir).
			Build()
	}
	return sub, nil
}

// TreeHash returns the git object id of subdir at commit. Two commits with
// the same tree hash export identical sources.
func (r *Repository) TreeHash(commit, subdir string) (string, error) {
	t, err := r.tree(commit, subdir)
	if err != nil {
		return "", err
	}
	return t.Hash.String(), nil
}
