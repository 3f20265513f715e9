package sketchbook

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/odvcencio/sketchd/pkg/logging"
)

var (
	metricProjectsCached = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "sketchd",
		Name:      "projects_cached_total",
		Help:      "Number of project entries currently cached.",
	})
	metricLibrariesCached = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "sketchd",
		Name:      "libraries_cached_total",
		Help:      "Number of library entries currently cached.",
	})
	metricRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sketchd",
		Name:      "cache_refreshes_total",
		Help:      "Cache refresh operations by kind.",
	}, []string{"kind"})
)

// Entry is one cached directory listing.
type Entry struct {
	// Name is the directory name, stable for the entry's lifetime.
	Name string

	// Path is the absolute base path this entry mirrors.
	Path string

	// Files holds relative paths, sorted, recomputed wholesale on refresh.
	Files []string
}

// excludedProjectDirs keeps toolchain-owned subdirectories of the sketchbook
// out of the project table. Matched case-insensitively.
var excludedProjectDirs = map[string]struct{}{
	"hardware":  {},
	"libraries": {},
	"tools":     {},
}

// Store owns the two cache tables: read-write projects and read-only
// libraries. The tables are pure derived state; a rebuild from disk is always
// safe. All mutations are serialized behind a single lock, so a whole-table
// rebuild cannot interleave with a concurrent single-entry refresh.
type Store struct {
	root   string
	logger *logging.Logger

	mu        sync.RWMutex
	projects  map[string]Entry
	libraries map[string]Entry
}

// NewStore creates a store rooted at the sketchbook directory, creating the
// directory when missing. Tables start empty; callers run the initial
// rebuilds.
func NewStore(root string, logger *logging.Logger) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("sketchbook root must not be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving sketchbook root: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("creating sketchbook root: %w", err)
	}

	return &Store{
		root:      abs,
		logger:    logger,
		projects:  make(map[string]Entry),
		libraries: make(map[string]Entry),
	}, nil
}

// Root returns the absolute sketchbook directory.
func (s *Store) Root() string {
	return s.root
}

// LibrariesDir returns the read-only libraries directory.
func (s *Store) LibrariesDir() string {
	return filepath.Join(s.root, "libraries")
}

// ProjectDir returns the directory a project of the given name would occupy.
func (s *Store) ProjectDir(name string) string {
	return filepath.Join(s.root, name)
}

// RebuildProjects clears the project table and repopulates it from the
// immediate subdirectories of the sketchbook root, skipping hidden entries
// and the toolchain-owned exclusion set.
func (s *Store) RebuildProjects() error {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return fmt.Errorf("reading sketchbook root: %w", err)
	}

	next := make(map[string]Entry)
	for _, item := range entries {
		if !item.IsDir() {
			continue
		}
		name := item.Name()
		if isHiddenName(name) {
			continue
		}
		if _, excluded := excludedProjectDirs[strings.ToLower(name)]; excluded {
			continue
		}

		dir := filepath.Join(s.root, name)
		files, err := ListFiles(dir)
		if err != nil {
			return fmt.Errorf("scanning project %s: %w", name, err)
		}
		next[name] = Entry{Name: name, Path: dir, Files: files}
	}

	s.mu.Lock()
	s.projects = next
	s.mu.Unlock()

	metricProjectsCached.Set(float64(len(next)))
	metricRefreshes.WithLabelValues("projects_full").Inc()
	s.logInfo(logging.CategoryCache, "projects_rebuilt", fmt.Sprintf("project cache rebuilt with %d projects", len(next)), nil)
	return nil
}

// RebuildLibraries clears the library table and repopulates it from the
// libraries directory, creating that directory when missing. Library entries
// are only ever rebuilt wholesale.
func (s *Store) RebuildLibraries() error {
	librariesDir := s.LibrariesDir()
	if err := os.MkdirAll(librariesDir, 0755); err != nil {
		return fmt.Errorf("creating libraries directory: %w", err)
	}

	entries, err := os.ReadDir(librariesDir)
	if err != nil {
		return fmt.Errorf("reading libraries directory: %w", err)
	}

	next := make(map[string]Entry)
	for _, item := range entries {
		if !item.IsDir() || isHiddenName(item.Name()) {
			continue
		}
		name := item.Name()
		dir := filepath.Join(librariesDir, name)
		files, err := ListFiles(dir)
		if err != nil {
			return fmt.Errorf("scanning library %s: %w", name, err)
		}
		next[name] = Entry{Name: name, Path: dir, Files: files}
	}

	s.mu.Lock()
	s.libraries = next
	s.mu.Unlock()

	metricLibrariesCached.Set(float64(len(next)))
	metricRefreshes.WithLabelValues("libraries_full").Inc()
	s.logInfo(logging.CategoryCache, "libraries_rebuilt", fmt.Sprintf("library cache rebuilt with %d libraries", len(next)), nil)
	return nil
}

// RefreshProject recomputes the listing for a single project. If the project
// directory no longer exists on disk, the entry is evicted.
func (s *Store) RefreshProject(name string) error {
	dir := s.ProjectDir(name)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		s.mu.Lock()
		_, existed := s.projects[name]
		delete(s.projects, name)
		size := len(s.projects)
		s.mu.Unlock()

		if existed {
			metricProjectsCached.Set(float64(size))
			s.logInfo(logging.CategoryCache, "project_evicted", fmt.Sprintf("evicted %q, no longer on disk", name), nil)
		}
		return nil
	}

	files, err := ListFiles(dir)
	if err != nil {
		return fmt.Errorf("scanning project %s: %w", name, err)
	}

	s.mu.Lock()
	s.projects[name] = Entry{Name: name, Path: dir, Files: files}
	size := len(s.projects)
	s.mu.Unlock()

	metricProjectsCached.Set(float64(size))
	metricRefreshes.WithLabelValues("project_single").Inc()
	s.logInfo(logging.CategoryCache, "project_refreshed", fmt.Sprintf("refreshed %q", name), map[string]any{"files": len(files)})
	return nil
}

// LookupProject returns the cached entry for a project name, if present.
// Absence means the caller should refresh or treat the name as unknown, never
// an error by itself.
func (s *Store) LookupProject(name string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.projects[name]
	return e, ok
}

// LookupLibrary returns the cached entry for a library name, if present.
func (s *Store) LookupLibrary(name string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.libraries[name]
	return e, ok
}

// ProjectNames returns the cached project names, sorted.
func (s *Store) ProjectNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.projects))
	for name := range s.projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LibraryNames returns the cached library names, sorted.
func (s *Store) LibraryNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.libraries))
	for name := range s.libraries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) logInfo(category logging.Category, eventType, message string, details map[string]any) {
	if s.logger == nil {
		return
	}
	_ = s.logger.Info(category, eventType, message, details)
}
