package api

import (
	"net/http"

	"github.com/odvcencio/sketchd/pkg/arduinocli"
	"github.com/odvcencio/sketchd/pkg/logging"
)

// LibraryRequest names a library in the package index.
type LibraryRequest struct {
	LibraryName string `json:"library_name"`
}

// LibrarySearchRequest carries a free-text search keyword.
type LibrarySearchRequest struct {
	Keyword string `json:"keyword"`
}

// CoreRequest names a platform core, e.g. "arduino:avr".
type CoreRequest struct {
	Core string `json:"core"`
}

// CoreSearchRequest carries a free-text core search keyword.
type CoreSearchRequest struct {
	Keyword string `json:"keyword"`
}

// respondResult writes a tool invocation result. Failures are routine
// outcomes of running an external tool, so they still travel as 200 with
// status "error" in the body.
func respondResult(w http.ResponseWriter, result *arduinocli.Result) {
	respondJSON(w, result)
}

// refreshLibrariesAfter rebuilds the library cache after every package
// action so filesystem-backed endpoints see the change immediately. A failed
// action can still have altered the libraries directory (dependencies
// installed before the failure), so the rebuild runs unconditionally.
func (s *Server) refreshLibrariesAfter() {
	if err := s.store.RebuildLibraries(); err != nil && s.logger != nil {
		_ = s.logger.Error(logging.CategoryCache, "library_rebuild_failed", err.Error(), nil)
	}
}

func (s *Server) handleListLibrariesInstalled(w http.ResponseWriter, r *http.Request) {
	respondResult(w, s.cli.LibList())
}

func (s *Server) handleSearchLibrary(w http.ResponseWriter, r *http.Request) {
	var req LibrarySearchRequest
	if status, err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, status, err)
		return
	}
	if !requireField(w, "keyword", req.Keyword) {
		return
	}

	respondResult(w, s.cli.LibSearch(req.Keyword))
}

func (s *Server) handleInstallLibrary(w http.ResponseWriter, r *http.Request) {
	var req LibraryRequest
	if status, err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, status, err)
		return
	}
	if !requireField(w, "library_name", req.LibraryName) {
		return
	}

	result := s.cli.LibInstall(req.LibraryName)
	s.refreshLibrariesAfter()
	respondResult(w, result)
}

func (s *Server) handleUninstallLibrary(w http.ResponseWriter, r *http.Request) {
	var req LibraryRequest
	if status, err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, status, err)
		return
	}
	if !requireField(w, "library_name", req.LibraryName) {
		return
	}

	result := s.cli.LibUninstall(req.LibraryName)
	s.refreshLibrariesAfter()
	respondResult(w, result)
}

func (s *Server) handleUpdateLibrary(w http.ResponseWriter, r *http.Request) {
	var req LibraryRequest
	if status, err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, status, err)
		return
	}
	if !requireField(w, "library_name", req.LibraryName) {
		return
	}

	result := s.cli.LibUpdate(req.LibraryName)
	s.refreshLibrariesAfter()
	respondResult(w, result)
}

func (s *Server) handleUpdateAllLibraries(w http.ResponseWriter, r *http.Request) {
	result := s.cli.LibUpdateAll()
	s.refreshLibrariesAfter()
	respondResult(w, result)
}

func (s *Server) handleListConnectedBoards(w http.ResponseWriter, r *http.Request) {
	respondResult(w, s.cli.BoardList())
}

func (s *Server) handleSearchCores(w http.ResponseWriter, r *http.Request) {
	var req CoreSearchRequest
	if status, err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, status, err)
		return
	}
	if !requireField(w, "keyword", req.Keyword) {
		return
	}

	respondResult(w, s.cli.CoreSearch(req.Keyword))
}

func (s *Server) handleInstallCore(w http.ResponseWriter, r *http.Request) {
	var req CoreRequest
	if status, err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, status, err)
		return
	}
	if !requireField(w, "core", req.Core) {
		return
	}

	respondResult(w, s.cli.CoreInstall(req.Core))
}

func (s *Server) handleUninstallCore(w http.ResponseWriter, r *http.Request) {
	var req CoreRequest
	if status, err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, status, err)
		return
	}
	if !requireField(w, "core", req.Core) {
		return
	}

	respondResult(w, s.cli.CoreUninstall(req.Core))
}
