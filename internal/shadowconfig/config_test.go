package shadowconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg != want {
		t.Fatalf("got %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	content := "size_limit_bytes = 2048\ndefault_exclude_managed = false\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SizeLimitBytes != 2048 {
		t.Fatalf("got size limit %d, want 2048", cfg.SizeLimitBytes)
	}
	if cfg.DefaultExcludeManaged {
		t.Fatal("expected default_exclude_managed to be overridden to false")
	}
	if cfg.DoctorSlowThresholdMS != Default().DoctorSlowThresholdMS {
		t.Fatalf("unset fields should keep their default value")
	}
}

func TestLoadMalformedFileReturnsError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("not = [valid toml"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected Load to report a malformed config file")
	}
}

func TestWriteDefaultRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteDefault(dir)
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to be written: %v", err)
	}
	if _, err := WriteDefault(dir); err == nil {
		t.Fatal("expected a second WriteDefault to refuse to overwrite")
	}
}
