package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.MaxPanes != 4 {
		t.Errorf("MaxPanes = %d, want 4", cfg.MaxPanes)
	}
	if cfg.ScrollbackLines != 10_000 {
		t.Errorf("ScrollbackLines = %d, want 10000", cfg.ScrollbackLines)
	}
	if cfg.SubPaneRatio != 0.7 {
		t.Errorf("SubPaneRatio = %v, want 0.7", cfg.SubPaneRatio)
	}
}

func TestLoadMissingPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paned.yaml")
	doc := "max_panes: 2\nscrollback_lines: 500\nsub_pane_ratio: 0.5\ndefault_shell: /bin/bash\nplugins_enabled: true\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MaxPanes != 2 || cfg.ScrollbackLines != 500 || cfg.SubPaneRatio != 0.5 {
		t.Errorf("Load() = %+v, want overridden fields", cfg)
	}
	if cfg.DefaultShell != "/bin/bash" || !cfg.PluginsEnabled {
		t.Errorf("Load() = %+v, want shell/plugins overrides applied", cfg)
	}
}

func TestLoadRejectsInvalidMaxPanes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paned.yaml")
	if err := os.WriteFile(path, []byte("max_panes: 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for max_panes out of range")
	}
}

func TestLoadRejectsInvalidSubPaneRatio(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paned.yaml")
	if err := os.WriteFile(path, []byte("sub_pane_ratio: 1.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for sub_pane_ratio out of range")
	}
}

func TestLoadRejectsEscapingPath(t *testing.T) {
	if _, err := Load("../../etc/paned.yaml"); err == nil {
		t.Fatal("expected error for a path escaping its directory")
	}
}

func TestLoadRejectsOversizeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paned.yaml")
	big := make([]byte, maxConfigFileBytes+1)
	if err := os.WriteFile(path, big, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for oversize config file")
	}
}

func TestValidateWorkingDir(t *testing.T) {
	if err := ValidateWorkingDir(""); err != nil {
		t.Errorf("empty dir should be valid, got %v", err)
	}
	if err := ValidateWorkingDir("/tmp/project"); err != nil {
		t.Errorf("plain absolute dir should be valid, got %v", err)
	}
	if err := ValidateWorkingDir("/tmp/../etc"); err == nil {
		t.Error("expected error for a working dir that escapes its base")
	}
}
