package workspace

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/mvdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/mvdocs/internal/logfields"
)

// Manager handles one workspace directory.
type Manager struct {
	baseDir    string
	dir        string
	persistent bool
}

// NewManager returns a manager for an ephemeral workspace below baseDir
// (the system temp dir when empty).
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// NewPersistentManager returns a manager for the fixed directory dir, which
// Cleanup leaves in place.
func NewPersistentManager(dir string) *Manager {
	return &Manager{baseDir: filepath.Dir(dir), dir: dir, persistent: true}
}

// Create creates the workspace directory.
func (m *Manager) Create() error {
	if m.persistent {
		if err := os.MkdirAll(m.dir, 0o750); err != nil {
			return ferrors.FileSystemError("create persistent workspace").WithCause(err).WithContext("path", m.dir).Build()
		}
		slog.Debug("Using persistent workspace", logfields.Path(m.dir))
		return nil
	}
	if err := os.MkdirAll(m.baseDir, 0o750); err != nil {
		return ferrors.FileSystemError("create workspace base").WithCause(err).WithContext("path", m.baseDir).Build()
	}
	dir, err := os.MkdirTemp(m.baseDir, "mvdocs-")
	if err != nil {
		return ferrors.FileSystemError("create workspace").WithCause(err).WithContext("path", m.baseDir).Build()
	}
	m.dir = dir
	slog.Debug("Created workspace", logfields.Path(dir))
	return nil
}

// Path returns the workspace directory, "" before Create.
func (m *Manager) Path() string { return m.dir }

// Persistent reports whether Cleanup keeps the directory.
func (m *Manager) Persistent() bool { return m.persistent }

// Cleanup removes an ephemeral workspace.
func (m *Manager) Cleanup() error {
	if m.dir == "" || m.persistent {
		return nil
	}
	if err := os.RemoveAll(m.dir); err != nil {
		return ferrors.FileSystemError("remove workspace").WithCause(err).WithContext("path", m.dir).Build()
	}
	slog.Debug("Cleaned up workspace", logfields.Path(m.dir))
	m.dir = ""
	return nil
}

// Subdir returns a fresh, empty directory named name inside the workspace.
// Any previous content is removed.
func (m *Manager) Subdir(name string) (string, error) {
	if m.dir == "" {
		return "", ferrors.InternalError("workspace not created").Build()
	}
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", ferrors.ValidationError("invalid workspace subdirectory").WithContext("name", name).Build()
	}
	sub := filepath.Join(m.dir, clean)
	if err := os.RemoveAll(sub); err != nil {
		return "", ferrors.FileSystemError("reset workspace subdirectory").WithCause(err).WithContext("path", sub).Build()
	}
	if err := os.MkdirAll(sub, 0o750); err != nil {
		return "", ferrors.FileSystemError("create workspace subdirectory").WithCause(err).WithContext("path", sub).Build()
	}
	return sub, nil
}
