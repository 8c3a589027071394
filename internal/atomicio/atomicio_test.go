package atomicio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "file.txt")
	want := []byte("hello, overlay")
	if err := WriteFile(path, want, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteFileOverwritesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	if err := WriteFile(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("first WriteFile: %v", err)
	}
	if err := WriteFile(path, []byte("second"), 0o644); err != nil {
		t.Fatalf("second WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("got %q, want %q", got, "second")
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one entry left behind, got %d", len(entries))
	}
}

func TestExistsAndRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	if Exists(path) {
		t.Fatal("file should not exist yet")
	}
	if err := WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if !Exists(path) {
		t.Fatal("file should exist after WriteFile")
	}
	if err := Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if Exists(path) {
		t.Fatal("file should not exist after Remove")
	}
	if err := Remove(path); err != nil {
		t.Fatalf("Remove of a missing file should not error, got %v", err)
	}
}

func TestIsBinary(t *testing.T) {
	if IsBinary([]byte("plain text\nwith newlines")) {
		t.Fatal("plain text misclassified as binary")
	}
	if !IsBinary([]byte("abc\x00def")) {
		t.Fatal("NUL-containing content not classified as binary")
	}
}

func TestExceedsSize(t *testing.T) {
	data := make([]byte, 100)
	if ExceedsSize(data, 0) {
		t.Fatal("a limit of 0 should disable the size check")
	}
	if ExceedsSize(data, 200) {
		t.Fatal("100 bytes should not exceed a 200-byte limit")
	}
	if !ExceedsSize(data, 50) {
		t.Fatal("100 bytes should exceed a 50-byte limit")
	}
}

func TestIsRegularFileAndIsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if !IsRegularFile(file) {
		t.Fatal("expected file to be a regular file")
	}
	if IsRegularFile(dir) {
		t.Fatal("a directory should not report as a regular file")
	}
	if !IsDir(dir) {
		t.Fatal("expected dir to report as a directory")
	}
}
