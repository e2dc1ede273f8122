package multiversion

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	ferrors "git.home.luguber.info/inful/mvdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/mvdocs/internal/versioning"
)

// ManifestFile is written to the output root.
const ManifestFile = "versions.json"

// Entry is one built version as published to the theme's version dropdown.
type Entry struct {
	versioning.Version
	Tree    string    `json:"tree,omitempty"`
	BuildID string    `json:"build_id,omitempty"`
	BuiltAt time.Time `json:"built_at"`
}

// Manifest describes every version present in the output root.
type Manifest struct {
	Project      string         `json:"project"`
	Latest       string         `json:"latest,omitempty"`
	ThemeOptions map[string]any `json:"theme_options,omitempty"`
	Versions     []Entry        `json:"versions"`
}

// Find returns the entry published under outputDir.
func (m *Manifest) Find(outputDir string) (Entry, bool) {
	if m == nil {
		return Entry{}, false
	}
	for _, e := range m.Versions {
		if e.OutputDir == outputDir {
			return e, true
		}
	}
	return Entry{}, false
}

// ReadManifest loads the manifest of outRoot. A missing file yields nil
// without error.
func ReadManifest(outRoot string) (*Manifest, error) {
	p := filepath.Join(outRoot, ManifestFile)
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, ferrors.FileSystemError("read version manifest").WithCause(err).WithContext("path", p).Build()
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, ferrors.ValidationError("malformed version manifest").WithCause(err).WithContext("path", p).Build()
	}
	return &m, nil
}

// WriteManifest stores m in outRoot.
func WriteManifest(outRoot string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return ferrors.InternalError("encode version manifest").WithCause(err).Build()
	}
	p := filepath.Join(outRoot, ManifestFile)
	if err := os.WriteFile(p, append(data, '\n'), 0o644); err != nil {
		return ferrors.FileSystemError("write version manifest").WithCause(err).WithContext("path", p).Build()
	}
	return nil
}
