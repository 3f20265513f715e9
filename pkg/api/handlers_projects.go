package api

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	apperrors "github.com/odvcencio/sketchd/pkg/errors"
	"github.com/odvcencio/sketchd/pkg/sketchbook"
)

// ProjectRequest names a single project.
type ProjectRequest struct {
	ProjectName string `json:"project_name"`
}

// UploadRequest names a project and the serial port to flash over.
type UploadRequest struct {
	ProjectName string `json:"project_name"`
	Port        string `json:"port"`
}

// SketchRequest carries file content for create/update operations. FilePath
// defaults to the project's primary sketch when omitted.
type SketchRequest struct {
	ProjectName   string `json:"project_name"`
	SketchContent string `json:"sketch_content"`
	FilePath      string `json:"file_path,omitempty"`
}

// ReadFileRequest names one file within a project.
type ReadFileRequest struct {
	ProjectName string `json:"project_name"`
	FilePath    string `json:"file_path"`
}

func requireField(w http.ResponseWriter, name, value string) bool {
	if strings.TrimSpace(value) != "" {
		return true
	}
	respondError(w, http.StatusBadRequest,
		apperrors.New(apperrors.ErrCodeInvalidInput, name+" is required"))
	return false
}

func (s *Server) handleCheckFolder(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if status, err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, status, err)
		return
	}
	if !requireField(w, "project_name", req.ProjectName) {
		return
	}

	respondJSON(w, map[string]bool{"exists": s.store.ProjectExists(req.ProjectName)})
}

// handleReadFiles is a deprecated alias that only returns filenames. Content
// is served one file at a time through /read_file.
func (s *Server) handleReadFiles(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if status, err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, status, err)
		return
	}
	if !requireField(w, "project_name", req.ProjectName) {
		return
	}

	entry, err := s.store.ResolveProject(req.ProjectName)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, map[string]any{
		"files":   entry.Files,
		"message": "Use /read_file to get content of individual files.",
	})
}

func (s *Server) handleListFilesInProject(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("project_name")
	if !requireField(w, "project_name", name) {
		return
	}

	entry, err := s.store.ResolveProject(name)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, map[string]any{
		"project_name": name,
		"files":        entry.Files,
	})
}

func (s *Server) handleReadFile(w http.ResponseWriter, r *http.Request) {
	var req ReadFileRequest
	if status, err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, status, err)
		return
	}
	if !requireField(w, "project_name", req.ProjectName) || !requireField(w, "file_path", req.FilePath) {
		return
	}

	content, err := s.store.ReadProjectFile(req.ProjectName, req.FilePath)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, map[string]string{
		"file_path": req.FilePath,
		"content":   content,
	})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req SketchRequest
	if status, err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, status, err)
		return
	}
	if !requireField(w, "project_name", req.ProjectName) {
		return
	}

	filePath := req.FilePath
	if filePath == "" {
		filePath = sketchbook.DefaultSketchName(req.ProjectName)
	}

	if err := s.store.CreateProject(req.ProjectName, filePath, req.SketchContent); err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, map[string]string{
		"status":  "success",
		"message": fmt.Sprintf("Created project %q with file %q", req.ProjectName, filePath),
	})
}

func (s *Server) handleUpdateSketch(w http.ResponseWriter, r *http.Request) {
	var req SketchRequest
	if status, err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, status, err)
		return
	}
	if !requireField(w, "project_name", req.ProjectName) {
		return
	}

	filePath := req.FilePath
	if filePath == "" {
		filePath = sketchbook.DefaultSketchName(req.ProjectName)
	}

	if err := s.store.UpdateProjectFile(req.ProjectName, filePath, req.SketchContent); err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, map[string]string{
		"status":  "success",
		"message": fmt.Sprintf("Updated file %q in project %q", filePath, req.ProjectName),
	})
}

// requireSketch checks that the project directory and its primary sketch file
// exist before a compile or upload is attempted.
func (s *Server) requireSketch(w http.ResponseWriter, name string) bool {
	if !s.store.ProjectExists(name) {
		respondAppError(w, apperrors.New(apperrors.ErrCodeProjectNotFound, "project or sketch file not found").
			WithContext("project", name))
		return false
	}
	if _, err := os.Stat(s.store.SketchPath(name)); err != nil {
		respondAppError(w, apperrors.New(apperrors.ErrCodeFileNotFound, "project or sketch file not found").
			WithContext("project", name))
		return false
	}
	return true
}

func (s *Server) handleCompileProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if status, err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, status, err)
		return
	}
	if !requireField(w, "project_name", req.ProjectName) {
		return
	}
	if !s.requireSketch(w, req.ProjectName) {
		return
	}

	result := s.cli.Compile(s.store.ProjectDir(req.ProjectName), s.store.Root())
	if !result.Succeeded() {
		respondJSON(w, map[string]string{"status": "error", "message": result.Error})
		return
	}
	respondJSON(w, result)
}

func (s *Server) handleUploadProject(w http.ResponseWriter, r *http.Request) {
	var req UploadRequest
	if status, err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, status, err)
		return
	}
	if !requireField(w, "project_name", req.ProjectName) || !requireField(w, "port", req.Port) {
		return
	}
	if !s.requireSketch(w, req.ProjectName) {
		return
	}

	result := s.cli.Upload(s.store.ProjectDir(req.ProjectName), req.Port, s.store.Root())
	if !result.Succeeded() {
		respondJSON(w, map[string]string{"status": "error", "message": result.Error})
		return
	}
	respondJSON(w, result)
}

// handleListProjects always rebuilds the project table first so membership
// changes made out-of-band are observed.
func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RebuildProjects(); err != nil {
		respondAppError(w, apperrors.Wrap(err, apperrors.ErrCodeStorageRead, "rebuilding project cache"))
		return
	}

	respondJSON(w, map[string]any{
		"projects":    s.store.ProjectNames(),
		"arduino_dir": s.store.Root(),
	})
}
