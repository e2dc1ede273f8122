package build

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Document is one discovered source document.
type Document struct {
	Docname string // slash-separated, relative to the source dir, without suffix
	Path    string
	Suffix  string
	Parser  string
}

// Asset is a non-source file copied to the output unchanged.
type Asset struct {
	Rel  string // slash-separated, relative to the source dir
	Path string
}

// Discover walks srcDir and classifies every file by the suffix map. Paths
// matching an exclude pattern (as a whole or in any element) are skipped.
func Discover(srcDir string, suffixes map[string]string, exclude []string) ([]Document, []Asset, error) {
	known := make([]string, 0, len(suffixes))
	for s := range suffixes {
		known = append(known, s)
	}
	// Longest suffix wins, so ".rst.txt" beats ".txt".
	sort.Slice(known, func(i, j int) bool {
		if len(known[i]) != len(known[j]) {
			return len(known[i]) > len(known[j])
		}
		return known[i] < known[j]
	})

	var docs []Document
	var assets []Asset
	err := filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if excluded(rel, exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		for _, s := range known {
			if strings.HasSuffix(rel, s) && len(rel) > len(s) {
				docs = append(docs, Document{
					Docname: strings.TrimSuffix(rel, s),
					Path:    p,
					Suffix:  s,
					Parser:  suffixes[s],
				})
				return nil
			}
		}
		assets = append(assets, Asset{Rel: rel, Path: p})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return docs, assets, nil
}

func excluded(rel string, patterns []string) bool {
	parts := strings.Split(rel, "/")
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		for _, part := range parts {
			if ok, _ := path.Match(pattern, part); ok {
				return true
			}
		}
	}
	return false
}
