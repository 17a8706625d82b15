package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/johanforsgren/repodeck/internal/domain"
)

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	repo, err := NewLocalRepository(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}

	repos, err := repo.Load()
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}

	if len(repos) != 0 {
		t.Fatalf("Expected empty list, got %d entries", len(repos))
	}
}

func TestSaveAndLoad(t *testing.T) {
	repo, err := NewLocalRepository(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}

	want := []domain.TrackedRepository{
		{Name: "octocat/Hello-World", URL: "https://github.com/octocat/Hello-World"},
		{Name: "foo/bar", URL: "https://github.com/foo/bar"},
	}

	if err := repo.Save(want); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(got))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Entry %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestSavedFileUsesDataWrapper(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewLocalRepository(dir)
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}

	if err := repo.Save([]domain.TrackedRepository{{Name: "foo/bar", URL: "https://github.com/foo/bar"}}); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, reposFile))
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}

	var raw []map[string]map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Saved file is not a list of records: %v", err)
	}

	if len(raw) != 1 || raw[0]["data"]["name"] != "foo/bar" || raw[0]["data"]["url"] != "https://github.com/foo/bar" {
		t.Errorf("Unexpected saved shape: %s", data)
	}
}

func TestLoadExistingFileWrittenByBrowserVersion(t *testing.T) {
	dir := t.TempDir()
	content := `[{"data":{"name":"facebook/react","url":"https://github.com/facebook/react"}}]`
	if err := os.WriteFile(filepath.Join(dir, reposFile), []byte(content), 0600); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}

	repo, err := NewLocalRepository(dir)
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}

	repos, err := repo.Load()
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}

	if len(repos) != 1 || repos[0].Name != "facebook/react" {
		t.Errorf("Unexpected repos: %+v", repos)
	}
}

func TestLoadUnparsableFileReturnsError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, reposFile), []byte("not json"), 0600); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}

	repo, err := NewLocalRepository(dir)
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}

	if _, err := repo.Load(); err == nil {
		t.Error("Expected an error for unparsable content")
	}
}

func TestFilePermissions(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewLocalRepository(dir)
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}

	if err := repo.Save(nil); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	info, err := os.Stat(repo.Path())
	if err != nil {
		t.Fatalf("Failed to stat: %v", err)
	}

	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %v", info.Mode().Perm())
	}
}

func TestDefaultDataDir(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	dir, err := DefaultDataDir()
	if err != nil {
		t.Fatalf("Failed to resolve data dir: %v", err)
	}

	expected := filepath.Join(tmpDir, ".repodeck")
	if dir != expected {
		t.Errorf("Expected data dir %s, got %s", expected, dir)
	}
}
