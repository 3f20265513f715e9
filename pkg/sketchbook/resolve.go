package sketchbook

import (
	"os"
	"path/filepath"
	"slices"

	apperrors "github.com/odvcencio/sketchd/pkg/errors"
)

// ResolveProject resolves a project name against the cache. A cached entry is
// trusted as-is. On a miss the directory is checked on disk: if present, a
// single-entry refresh runs and the lookup is retried; if absent, the project
// does not exist.
func (s *Store) ResolveProject(name string) (Entry, error) {
	if e, ok := s.LookupProject(name); ok {
		return e, nil
	}

	dir := s.ProjectDir(name)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return Entry{}, apperrors.New(apperrors.ErrCodeProjectNotFound, "project folder not found").
			WithContext("project", name)
	}

	if err := s.RefreshProject(name); err != nil {
		return Entry{}, apperrors.Wrap(err, apperrors.ErrCodeStorageRead, "refreshing project").
			WithContext("project", name)
	}

	e, ok := s.LookupProject(name)
	if !ok {
		return Entry{}, apperrors.New(apperrors.ErrCodeProjectNotFound, "project folder not found").
			WithContext("project", name)
	}
	return e, nil
}

// ResolveProjectFile resolves a relative file path within a project to its
// absolute location. A path missing from the cached listing is double-checked
// against the real filesystem before being declared absent: if the file exists
// on disk the listing was merely stale, so one refresh runs and the listing is
// consulted again.
func (s *Store) ResolveProjectFile(name, relPath string) (string, error) {
	e, err := s.ResolveProject(name)
	if err != nil {
		return "", err
	}

	if slices.Contains(e.Files, relPath) {
		return filepath.Join(e.Path, filepath.FromSlash(relPath)), nil
	}

	fullPath := filepath.Join(e.Path, filepath.FromSlash(relPath))
	if _, statErr := os.Stat(fullPath); statErr != nil {
		return "", apperrors.New(apperrors.ErrCodeFileNotFound, "file not found in project").
			WithContext("project", name).
			WithContext("path", relPath)
	}

	if err := s.RefreshProject(name); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeStorageRead, "refreshing project").
			WithContext("project", name)
	}

	e, ok := s.LookupProject(name)
	if !ok || !slices.Contains(e.Files, relPath) {
		return "", apperrors.New(apperrors.ErrCodeFileNotFound, "file not found in project after refresh").
			WithContext("project", name).
			WithContext("path", relPath)
	}
	return fullPath, nil
}

// ResolveLibraryFile resolves a relative file path within a library. The
// library table is never refreshed per-entry: membership comes from the last
// wholesale rebuild, and a path outside the cached listing is simply absent.
func (s *Store) ResolveLibraryFile(name, relPath string) (string, error) {
	e, ok := s.LookupLibrary(name)
	if !ok {
		return "", apperrors.New(apperrors.ErrCodeLibraryNotFound, "library not found").
			WithContext("library", name)
	}

	if !slices.Contains(e.Files, relPath) {
		return "", apperrors.New(apperrors.ErrCodeFileNotFound, "file not found in this library").
			WithContext("library", name).
			WithContext("path", relPath)
	}
	return filepath.Join(e.Path, filepath.FromSlash(relPath)), nil
}
