package api

import (
	"fmt"
	"net/http"

	apperrors "github.com/odvcencio/sketchd/pkg/errors"
)

// ReadLibraryFileRequest names one file within an installed library.
type ReadLibraryFileRequest struct {
	LibraryName string `json:"library_name"`
	FilePath    string `json:"file_path"`
}

// CopyExampleRequest copies a library example folder into a new project.
type CopyExampleRequest struct {
	LibraryName    string `json:"library_name"`
	ExampleFolder  string `json:"example_folder"`
	NewProjectName string `json:"new_project_name"`
}

// handleListLibraries rebuilds the library table so newly installed or
// removed libraries show up without a restart.
func (s *Server) handleListLibraries(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RebuildLibraries(); err != nil {
		respondAppError(w, apperrors.Wrap(err, apperrors.ErrCodeStorageRead, "rebuilding library cache"))
		return
	}

	respondJSON(w, map[string]any{"libraries": s.store.LibraryNames()})
}

func (s *Server) handleListFilesInLibrary(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("library_name")
	if !requireField(w, "library_name", name) {
		return
	}

	entry, ok := s.store.LookupLibrary(name)
	if !ok {
		respondAppError(w, apperrors.New(apperrors.ErrCodeLibraryNotFound, "library not found").
			WithContext("library", name))
		return
	}

	respondJSON(w, map[string]any{
		"library_name": name,
		"files":        entry.Files,
	})
}

func (s *Server) handleReadLibraryFile(w http.ResponseWriter, r *http.Request) {
	var req ReadLibraryFileRequest
	if status, err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, status, err)
		return
	}
	if !requireField(w, "library_name", req.LibraryName) || !requireField(w, "file_path", req.FilePath) {
		return
	}

	content, err := s.store.ReadLibraryFile(req.LibraryName, req.FilePath)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, map[string]string{
		"file_path": req.FilePath,
		"content":   content,
	})
}

func (s *Server) handleCopyLibraryExample(w http.ResponseWriter, r *http.Request) {
	var req CopyExampleRequest
	if status, err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, status, err)
		return
	}
	if !requireField(w, "library_name", req.LibraryName) ||
		!requireField(w, "example_folder", req.ExampleFolder) ||
		!requireField(w, "new_project_name", req.NewProjectName) {
		return
	}

	if err := s.store.CopyLibraryExample(req.LibraryName, req.ExampleFolder, req.NewProjectName); err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, map[string]string{
		"status": "success",
		"message": fmt.Sprintf("Copied example %q from library %q to project %q",
			req.ExampleFolder, req.LibraryName, req.NewProjectName),
	})
}
