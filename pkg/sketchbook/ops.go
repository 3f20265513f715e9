package sketchbook

import (
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/odvcencio/sketchd/pkg/errors"
	"github.com/odvcencio/sketchd/pkg/logging"
)

// DefaultSketchName returns the conventional primary sketch filename for a
// project.
func DefaultSketchName(project string) string {
	return project + ".ino"
}

// validateWritePath rejects relative paths that would land outside the
// project directory. Reads are already confined by the listing check.
func validateWritePath(relPath string) error {
	if !filepath.IsLocal(filepath.FromSlash(relPath)) {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "file path must stay inside the project").
			WithContext("path", relPath)
	}
	return nil
}

// ProjectExists reports whether the project directory exists on disk. This is
// a pure disk check and never consults or mutates the cache.
func (s *Store) ProjectExists(name string) bool {
	info, err := os.Stat(s.ProjectDir(name))
	return err == nil && info.IsDir()
}

// SketchPath returns the absolute path of the project's primary sketch file.
func (s *Store) SketchPath(name string) string {
	return filepath.Join(s.ProjectDir(name), DefaultSketchName(name))
}

// CreateProject creates a new project directory with an initial file and
// caches its listing. Creating over an existing directory is a conflict and
// leaves the existing contents untouched.
func (s *Store) CreateProject(name, relPath, content string) error {
	dir := s.ProjectDir(name)
	if _, err := os.Stat(dir); err == nil {
		return apperrors.New(apperrors.ErrCodeProjectExists, "project already exists").
			WithContext("project", name)
	}

	if relPath == "" {
		relPath = DefaultSketchName(name)
	}
	if err := validateWritePath(relPath); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeStorageWrite, "creating project directory").
			WithContext("project", name)
	}
	if err := writeTextFile(dir, relPath, content); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeStorageWrite, "writing project file").
			WithContext("project", name).
			WithContext("path", relPath)
	}

	if err := s.RefreshProject(name); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeStorageRead, "refreshing project").
			WithContext("project", name)
	}
	s.logInfo(logging.CategoryFiles, "project_created", fmt.Sprintf("created project %q with file %q", name, relPath), nil)
	return nil
}

// UpdateProjectFile creates or overwrites a file in an existing project,
// then refreshes the project's cache entry so subsequent reads observe the
// write immediately.
func (s *Store) UpdateProjectFile(name, relPath, content string) error {
	dir := s.ProjectDir(name)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return apperrors.New(apperrors.ErrCodeProjectNotFound, "project folder not found").
			WithContext("project", name)
	}

	if relPath == "" {
		relPath = DefaultSketchName(name)
	}
	if err := validateWritePath(relPath); err != nil {
		return err
	}
	if err := writeTextFile(dir, relPath, content); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeStorageWrite, "writing project file").
			WithContext("project", name).
			WithContext("path", relPath)
	}

	if err := s.RefreshProject(name); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeStorageRead, "refreshing project").
			WithContext("project", name)
	}
	s.logInfo(logging.CategoryFiles, "file_updated", fmt.Sprintf("updated %q in project %q", relPath, name), nil)
	return nil
}

// ReadProjectFile returns the text content of one project file, resolving the
// relative path through the refresh policy first.
func (s *Store) ReadProjectFile(name, relPath string) (string, error) {
	fullPath, err := s.ResolveProjectFile(name, relPath)
	if err != nil {
		return "", err
	}

	content, err := readTextFile(fullPath)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeStorageRead, "reading project file").
			WithContext("project", name).
			WithContext("path", relPath)
	}
	return content, nil
}

// ReadLibraryFile returns the text content of one library file.
func (s *Store) ReadLibraryFile(name, relPath string) (string, error) {
	fullPath, err := s.ResolveLibraryFile(name, relPath)
	if err != nil {
		return "", err
	}

	content, err := readTextFile(fullPath)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeStorageRead, "reading library file").
			WithContext("library", name).
			WithContext("path", relPath)
	}
	return content, nil
}

// CopyLibraryExample copies an example folder from a library's examples
// subdirectory into a new or existing project, then refreshes the destination
// project's cache entry.
func (s *Store) CopyLibraryExample(libraryName, exampleFolder, newProjectName string) error {
	lib, ok := s.LookupLibrary(libraryName)
	if !ok {
		return apperrors.New(apperrors.ErrCodeLibraryNotFound, "library not found").
			WithContext("library", libraryName)
	}

	sourceDir := filepath.Join(lib.Path, "examples", filepath.FromSlash(exampleFolder))
	info, err := os.Stat(sourceDir)
	if err != nil || !info.IsDir() {
		return apperrors.New(apperrors.ErrCodeFileNotFound, "example folder not found in library").
			WithContext("library", libraryName).
			WithContext("example", exampleFolder)
	}

	destDir := s.ProjectDir(newProjectName)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeStorageWrite, "creating project directory").
			WithContext("project", newProjectName)
	}
	if err := copyTree(sourceDir, destDir); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeStorageWrite, "copying example folder").
			WithContext("library", libraryName).
			WithContext("example", exampleFolder)
	}

	if err := s.RefreshProject(newProjectName); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeStorageRead, "refreshing project").
			WithContext("project", newProjectName)
	}
	s.logInfo(logging.CategoryFiles, "example_copied",
		fmt.Sprintf("copied example %q from library %q to project %q", exampleFolder, libraryName, newProjectName), nil)
	return nil
}
