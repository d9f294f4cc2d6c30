package processor

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func createResolverFile(t *testing.T, dir, name, content string, modTime time.Time) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("creating test file %s: %v", name, err)
	}
	if !modTime.IsZero() {
		if err := os.Chtimes(path, modTime, modTime); err != nil {
			t.Fatalf("setting mod time for %s: %v", name, err)
		}
	}
	return path
}

func TestNewInputResolver(t *testing.T) {
	resolver := NewInputResolver("/some/dir")
	if resolver.GetBaseDir() != "/some/dir" {
		t.Errorf("GetBaseDir() = %q, want %q", resolver.GetBaseDir(), "/some/dir")
	}

	// Empty base directory defaults to the working directory
	resolver = NewInputResolver("")
	if resolver.GetBaseDir() != "." {
		t.Errorf("GetBaseDir() = %q, want %q", resolver.GetBaseDir(), ".")
	}
}

func TestResolveInputDirectPath(t *testing.T) {
	dir := t.TempDir()
	created := createResolverFile(t, dir, "dates.txt", "2022-09-30\n", time.Time{})

	resolver := NewInputResolver(dir)

	// Relative path within the base directory
	resolved, err := resolver.ResolveInput("dates.txt")
	if err != nil {
		t.Fatalf("ResolveInput() error = %v", err)
	}
	if resolved != created {
		t.Errorf("ResolveInput() = %q, want %q", resolved, created)
	}

	// Absolute path bypasses the base directory
	resolved, err = resolver.ResolveInput(created)
	if err != nil {
		t.Fatalf("ResolveInput() error = %v", err)
	}
	if resolved != created {
		t.Errorf("ResolveInput() = %q, want %q", resolved, created)
	}
}

func TestResolveInputGlobPicksNewest(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	createResolverFile(t, dir, "log-old.txt", "old\n", now.Add(-2*time.Hour))
	newest := createResolverFile(t, dir, "log-new.txt", "new\n", now.Add(-1*time.Minute))
	createResolverFile(t, dir, "log-mid.txt", "mid\n", now.Add(-1*time.Hour))

	resolver := NewInputResolver(dir)

	resolved, err := resolver.ResolveInput("log-*.txt")
	if err != nil {
		t.Fatalf("ResolveInput() error = %v", err)
	}
	if resolved != newest {
		t.Errorf("ResolveInput() = %q, want newest %q", resolved, newest)
	}
}

func TestResolveInputNoMatch(t *testing.T) {
	resolver := NewInputResolver(t.TempDir())

	if _, err := resolver.ResolveInput("missing-*.txt"); err == nil {
		t.Error("expected error for pattern with no matches")
	}
	if _, err := resolver.ResolveInput(""); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestFindInputFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	oldFile := createResolverFile(t, dir, "a.txt", "a\n", now.Add(-2*time.Hour))
	newFile := createResolverFile(t, dir, "b.txt", "b\n", now.Add(-1*time.Minute))
	createResolverFile(t, dir, "c.csv", "c\n", now)

	resolver := NewInputResolver(dir)

	files, err := resolver.FindInputFiles("*.txt")
	if err != nil {
		t.Fatalf("FindInputFiles() error = %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("FindInputFiles() returned %d files, want 2", len(files))
	}
	if files[0] != newFile {
		t.Errorf("files[0] = %q, want newest %q", files[0], newFile)
	}
	if files[1] != oldFile {
		t.Errorf("files[1] = %q, want oldest %q", files[1], oldFile)
	}
}

func TestFindInputFilesEmpty(t *testing.T) {
	resolver := NewInputResolver(t.TempDir())

	files, err := resolver.FindInputFiles("*.txt")
	if err != nil {
		t.Fatalf("FindInputFiles() error = %v", err)
	}
	if len(files) != 0 {
		t.Errorf("FindInputFiles() returned %d files, want 0", len(files))
	}
}

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	valid := createResolverFile(t, dir, "valid.txt", "2022-09-30\n", time.Time{})
	empty := createResolverFile(t, dir, "empty.txt", "", time.Time{})

	resolver := NewInputResolver(dir)

	if err := resolver.ValidateInputFile(valid); err != nil {
		t.Errorf("ValidateInputFile(valid) error = %v", err)
	}
	if err := resolver.ValidateInputFile(empty); err == nil {
		t.Error("expected error for empty file")
	}
	if err := resolver.ValidateInputFile(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
	if err := resolver.ValidateInputFile(dir); err == nil {
		t.Error("expected error for directory path")
	}
}

func TestIsFileNewer(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	older := createResolverFile(t, dir, "older.txt", "a\n", now.Add(-time.Hour))
	newer := createResolverFile(t, dir, "newer.txt", "b\n", now)

	resolver := NewInputResolver(dir)

	isNewer, err := resolver.IsFileNewer(newer, older)
	if err != nil {
		t.Fatalf("IsFileNewer() error = %v", err)
	}
	if !isNewer {
		t.Error("IsFileNewer(newer, older) should be true")
	}

	isNewer, err = resolver.IsFileNewer(older, newer)
	if err != nil {
		t.Fatalf("IsFileNewer() error = %v", err)
	}
	if isNewer {
		t.Error("IsFileNewer(older, newer) should be false")
	}
}

func TestGetFileAge(t *testing.T) {
	dir := t.TempDir()
	path := createResolverFile(t, dir, "aged.txt", "a\n", time.Now().Add(-time.Hour))

	resolver := NewInputResolver(dir)

	age, err := resolver.GetFileAge(path)
	if err != nil {
		t.Fatalf("GetFileAge() error = %v", err)
	}
	if age < 59*time.Minute {
		t.Errorf("GetFileAge() = %v, want at least ~1h", age)
	}

	if _, err := resolver.GetFileAge(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSetBaseDir(t *testing.T) {
	resolver := NewInputResolver("/first")
	resolver.SetBaseDir("/second")

	if resolver.GetBaseDir() != "/second" {
		t.Errorf("GetBaseDir() = %q, want %q", resolver.GetBaseDir(), "/second")
	}
}
