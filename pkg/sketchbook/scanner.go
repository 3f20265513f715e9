// Package sketchbook manages the on-disk Arduino workspace: a read-write set
// of project directories and the read-only libraries folder, each mirrored by
// an in-memory listing cache that is recomputed wholesale on refresh.
package sketchbook

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// artifactNames are OS-generated files never surfaced in listings.
var artifactNames = map[string]struct{}{
	".DS_Store": {},
	"Thumbs.db": {},
}

func isHiddenName(name string) bool {
	return strings.HasPrefix(name, ".")
}

func isArtifactName(name string) bool {
	_, ok := artifactNames[name]
	return ok
}

// ListFiles walks baseDir recursively and returns every file path relative to
// it, lexicographically sorted. Hidden path components and OS artifact files
// are skipped. An empty directory yields an empty slice, not an error.
func ListFiles(baseDir string) ([]string, error) {
	files := []string{}
	err := filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == baseDir {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if isHiddenName(name) {
				return filepath.SkipDir
			}
			return nil
		}
		if isHiddenName(name) || isArtifactName(name) {
			return nil
		}
		rel, err := filepath.Rel(baseDir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	// WalkDir visits entries in per-directory lexical order, which is not the
	// same as lexicographic order on the joined relative path ("a.txt" sorts
	// before "a/b").
	sort.Strings(files)
	return files, nil
}
