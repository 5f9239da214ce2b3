package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListsRoot != "lists" || cfg.SessionsRoot != "sessions" {
		t.Fatalf("unexpected default roots: %+v", cfg)
	}
	if cfg.History != "jsonl" || cfg.LogFile != "ckl.log" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestProjectFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Chdir(dir)

	content := "lists_root = \"my-lists\"\nhistory = \"sqlite\"\n"
	if err := os.WriteFile(filepath.Join(dir, "ckl.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListsRoot != "my-lists" {
		t.Fatalf("expected project file to win; got %q", cfg.ListsRoot)
	}
	if cfg.History != "sqlite" {
		t.Fatalf("expected sqlite history; got %q", cfg.History)
	}
	// Untouched keys keep their defaults.
	if cfg.SessionsRoot != "sessions" {
		t.Fatalf("expected default sessions root; got %q", cfg.SessionsRoot)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Chdir(dir)

	if err := os.WriteFile(filepath.Join(dir, ".ckl.toml"), []byte("lists_root = \"from-file\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CKL_LISTS_ROOT", "from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListsRoot != "from-env" {
		t.Fatalf("env must override the config file; got %q", cfg.ListsRoot)
	}
}

func TestMalformedProjectFileFails(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Chdir(dir)

	if err := os.WriteFile(filepath.Join(dir, "ckl.toml"), []byte("lists_root = [broken"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed config")
	}
}
