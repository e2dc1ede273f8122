package git

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	ferrors "git.home.luguber.info/inful/mvdocs/internal/foundation/errors"
)

// Export writes every regular file below subdir at commit into dest, keeping
// the relative layout. Symlinks and submodules are skipped. It returns the
// number of files written.
func (r *Repository) Export(ctx context.Context, commit, subdir, dest string) (int, error) {
	tree, err := r.tree(commit, subdir)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dest, 0o750); err != nil {
		return 0, ferrors.FileSystemError("create export directory").WithCause(err).WithContext("path", dest).Build()
	}

	n := 0
	err = tree.Files().ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if f.Mode != filemode.Regular && f.Mode != filemode.Executable && f.Mode != filemode.Deprecated {
			return nil
		}
		if err := writeFile(f, filepath.Join(dest, filepath.FromSlash(f.Name))); err != nil {
			return err
		}
		n++
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return n, ctx.Err()
		}
		if _, ok := ferrors.AsClassified(err); ok {
			return n, err
		}
		return n, ferrors.GitError("export tree").WithCause(err).WithContext("commit", commit).Build()
	}
	return n, nil
}

func writeFile(f *object.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return ferrors.FileSystemError("create directory").WithCause(err).WithContext("path", target).Build()
	}
	perm := os.FileMode(0o644)
	if f.Mode == filemode.Executable {
		perm = 0o755
	}
	rd, err := f.Reader()
	if err != nil {
		return err
	}
	defer func() { _ = rd.Close() }()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return ferrors.FileSystemError("create file").WithCause(err).WithContext("path", target).Build()
	}
	if _, err := io.Copy(out, rd); err != nil {
		_ = out.Close()
		return ferrors.FileSystemError("write file").WithCause(err).WithContext("path", target).Build()
	}
	return out.Close()
}
