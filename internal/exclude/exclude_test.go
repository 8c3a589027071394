package exclude

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAddCreatesBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude")
	m := New(path)
	if err := m.Add("local/secrets.env"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	entries, err := m.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 1 || entries[0] != "local/secrets.env" {
		t.Fatalf("got %v, want [local/secrets.env]", entries)
	}
}

func TestAddIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude")
	m := New(path)
	if err := m.Add("a.txt"); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	first, _ := os.ReadFile(path)
	if err := m.Add("a.txt"); err != nil {
		t.Fatalf("second Add: %v", err)
	}
	second, _ := os.ReadFile(path)
	if string(first) != string(second) {
		t.Fatalf("re-adding an existing entry should leave the file byte-identical:\n%q\nvs\n%q", first, second)
	}
}

func TestRemoveEmptiesBlockAndDropsMarkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude")
	m := New(path)
	if err := m.Add("a.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := m.Remove("a.txt"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "" {
		t.Fatalf("expected an empty file once the managed block is empty, got %q", data)
	}
}

func TestPreservesUserContentOutsideBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude")
	if err := os.WriteFile(path, []byte("*.log\nbuild/\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	m := New(path)
	if err := m.Add("local.env"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "*.log") || !strings.Contains(content, "build/") {
		t.Fatalf("pre-existing user content was not preserved: %q", content)
	}
	if !strings.Contains(content, "local.env") {
		t.Fatalf("new entry missing: %q", content)
	}

	if err := m.Remove("local.env"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content = string(data)
	if !strings.Contains(content, "*.log") || !strings.Contains(content, "build/") {
		t.Fatalf("user content lost after Remove: %q", content)
	}
	if strings.Contains(content, "local.env") {
		t.Fatalf("removed entry still present: %q", content)
	}
}
