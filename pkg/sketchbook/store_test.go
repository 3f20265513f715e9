package sketchbook

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

func TestNewStore_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "sketchbook")
	store, err := NewStore(root, nil)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	info, err := os.Stat(store.Root())
	if err != nil || !info.IsDir() {
		t.Fatalf("root not created: %v", err)
	}
}

func TestRebuildProjects(t *testing.T) {
	store := testStore(t)
	writeTestFile(t, store.ProjectDir("Blink"), "Blink.ino", "void setup(){}")
	writeTestFile(t, store.ProjectDir("Servo"), "Servo.ino", "void loop(){}")
	writeTestFile(t, store.ProjectDir("Servo"), "notes/todo.txt", "tune")

	// Excluded and hidden subdirectories never become projects.
	writeTestFile(t, filepath.Join(store.Root(), "libraries", "FooLib"), "foo.h", "")
	writeTestFile(t, filepath.Join(store.Root(), "hardware"), "x.txt", "")
	writeTestFile(t, filepath.Join(store.Root(), "Tools"), "x.txt", "")
	writeTestFile(t, filepath.Join(store.Root(), ".stash"), "x.txt", "")

	if err := store.RebuildProjects(); err != nil {
		t.Fatalf("RebuildProjects() error = %v", err)
	}

	if got := store.ProjectNames(); !reflect.DeepEqual(got, []string{"Blink", "Servo"}) {
		t.Fatalf("ProjectNames() = %v, want [Blink Servo]", got)
	}

	// Every entry's listing equals the scanner's direct result.
	for _, name := range store.ProjectNames() {
		entry, ok := store.LookupProject(name)
		if !ok {
			t.Fatalf("LookupProject(%q) missing after rebuild", name)
		}
		direct, err := ListFiles(entry.Path)
		if err != nil {
			t.Fatalf("ListFiles(%q) error = %v", entry.Path, err)
		}
		if !reflect.DeepEqual(entry.Files, direct) {
			t.Errorf("entry %q files = %v, want %v", name, entry.Files, direct)
		}
	}
}

func TestRebuildProjects_ReplacesTableWholesale(t *testing.T) {
	store := testStore(t)
	writeTestFile(t, store.ProjectDir("Old"), "Old.ino", "")
	if err := store.RebuildProjects(); err != nil {
		t.Fatalf("RebuildProjects() error = %v", err)
	}

	if err := os.RemoveAll(store.ProjectDir("Old")); err != nil {
		t.Fatalf("removing project: %v", err)
	}
	writeTestFile(t, store.ProjectDir("New"), "New.ino", "")
	if err := store.RebuildProjects(); err != nil {
		t.Fatalf("RebuildProjects() error = %v", err)
	}

	if _, ok := store.LookupProject("Old"); ok {
		t.Error("stale entry survived the rebuild")
	}
	if _, ok := store.LookupProject("New"); !ok {
		t.Error("new project missing after rebuild")
	}
}

func TestRebuildLibraries(t *testing.T) {
	store := testStore(t)
	writeTestFile(t, filepath.Join(store.LibrariesDir(), "Servo"), "src/Servo.h", "")
	writeTestFile(t, filepath.Join(store.LibrariesDir(), "Servo"), "examples/Sweep/Sweep.ino", "")
	writeTestFile(t, filepath.Join(store.LibrariesDir(), ".incoming"), "x.h", "")

	if err := store.RebuildLibraries(); err != nil {
		t.Fatalf("RebuildLibraries() error = %v", err)
	}

	if got := store.LibraryNames(); !reflect.DeepEqual(got, []string{"Servo"}) {
		t.Fatalf("LibraryNames() = %v, want [Servo]", got)
	}

	entry, _ := store.LookupLibrary("Servo")
	want := []string{"examples/Sweep/Sweep.ino", "src/Servo.h"}
	if !reflect.DeepEqual(entry.Files, want) {
		t.Errorf("library files = %v, want %v", entry.Files, want)
	}
}

func TestRebuildLibraries_CreatesMissingDir(t *testing.T) {
	store := testStore(t)
	if err := store.RebuildLibraries(); err != nil {
		t.Fatalf("RebuildLibraries() error = %v", err)
	}
	info, err := os.Stat(store.LibrariesDir())
	if err != nil || !info.IsDir() {
		t.Fatalf("libraries directory not created: %v", err)
	}
	if got := store.LibraryNames(); len(got) != 0 {
		t.Errorf("LibraryNames() = %v, want empty", got)
	}
}

func TestRefreshProject_EvictsDeleted(t *testing.T) {
	store := testStore(t)
	writeTestFile(t, store.ProjectDir("Gone"), "Gone.ino", "")
	if err := store.RebuildProjects(); err != nil {
		t.Fatalf("RebuildProjects() error = %v", err)
	}

	if err := os.RemoveAll(store.ProjectDir("Gone")); err != nil {
		t.Fatalf("removing project: %v", err)
	}
	if err := store.RefreshProject("Gone"); err != nil {
		t.Fatalf("RefreshProject() error = %v", err)
	}

	if _, ok := store.LookupProject("Gone"); ok {
		t.Error("deleted project still cached after refresh")
	}
}

func TestRefreshProject_PicksUpNewFiles(t *testing.T) {
	store := testStore(t)
	writeTestFile(t, store.ProjectDir("Blink"), "Blink.ino", "")
	if err := store.RefreshProject("Blink"); err != nil {
		t.Fatalf("RefreshProject() error = %v", err)
	}

	writeTestFile(t, store.ProjectDir("Blink"), "extras/wiring.md", "")
	if err := store.RefreshProject("Blink"); err != nil {
		t.Fatalf("RefreshProject() error = %v", err)
	}

	entry, _ := store.LookupProject("Blink")
	want := []string{"Blink.ino", "extras/wiring.md"}
	if !reflect.DeepEqual(entry.Files, want) {
		t.Errorf("files = %v, want %v", entry.Files, want)
	}
}
