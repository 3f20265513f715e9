// Package api hosts the JSON/HTTP control surface for the sketchbook and the
// arduino-cli passthrough actions.
package api

import (
	"context"
	stdliberrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/odvcencio/sketchd/pkg/arduinocli"
	"github.com/odvcencio/sketchd/pkg/logging"
	"github.com/odvcencio/sketchd/pkg/sketchbook"
)

// Config controls the API server behavior.
type Config struct {
	BindAddress    string
	AllowedOrigins []string
}

// Server hosts the HTTP API over one store and one tool runner.
type Server struct {
	cfg        Config
	store      *sketchbook.Store
	cli        *arduinocli.Runner
	logger     *logging.Logger
	httpServer *http.Server
}

// NewServer constructs a server bound to the provided store and runner.
func NewServer(cfg Config, store *sketchbook.Store, cli *arduinocli.Runner, logger *logging.Logger) *Server {
	if cfg.BindAddress == "" {
		cfg.BindAddress = "127.0.0.1:8180"
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost", "http://127.0.0.1"}
	}

	return &Server{
		cfg:    cfg,
		store:  store,
		cli:    cli,
		logger: logger,
	}
}

// Handler builds the full route tree.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(s.corsMiddleware)
	router.Use(s.securityHeadersMiddleware)
	router.Use(s.requestLogMiddleware)

	router.Get("/healthz", s.handleHealthz)
	router.Get("/metrics", s.handleMetrics)

	// Project management
	router.Post("/check_folder", s.handleCheckFolder)
	router.Post("/read_files", s.handleReadFiles) // deprecated: listing only
	router.Get("/list_files_in_project", s.handleListFilesInProject)
	router.Post("/read_file", s.handleReadFile)
	router.Post("/create_project", s.handleCreateProject)
	router.Post("/update_sketch", s.handleUpdateSketch)
	router.Post("/compile_project", s.handleCompileProject)
	router.Post("/upload_project", s.handleUploadProject)
	router.Get("/list_projects", s.handleListProjects)

	// Read-only library browsing
	router.Get("/list_libraries", s.handleListLibraries)
	router.Get("/list_files_in_library", s.handleListFilesInLibrary)
	router.Post("/read_library_file", s.handleReadLibraryFile)
	router.Post("/copy_library_example", s.handleCopyLibraryExample)

	// Library management (arduino-cli passthrough)
	router.Get("/list_libraries_installed", s.handleListLibrariesInstalled)
	router.Post("/search_library", s.handleSearchLibrary)
	router.Post("/install_library", s.handleInstallLibrary)
	router.Post("/uninstall_library", s.handleUninstallLibrary)
	router.Post("/update_library", s.handleUpdateLibrary)
	router.Post("/update_all_libraries", s.handleUpdateAllLibraries)

	// Board / core management
	router.Get("/list_connected_boards", s.handleListConnectedBoards)
	router.Post("/search_cores", s.handleSearchCores)
	router.Post("/install_core", s.handleInstallCore)
	router.Post("/uninstall_core", s.handleUninstallCore)

	return router
}

// Start runs the HTTP server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.BindAddress,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logInfo("serving", "listening on "+s.cfg.BindAddress, nil)
		if err := s.httpServer.ListenAndServe(); err != nil && !stdliberrors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{
		"status":      "ok",
		"arduino_dir": s.store.Root(),
		"time":        time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) logInfo(eventType, message string, details map[string]any) {
	if s.logger == nil {
		return
	}
	_ = s.logger.Info(logging.CategoryServer, eventType, message, details)
}
