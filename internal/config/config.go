// Package config loads the YAML-backed defaults for a PaneManager.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

const maxConfigFileBytes int64 = 1 << 20 // 1MB

// ManagerConfig mirrors the YAML document a host can hand to
// paned.NewManagerWithConfig.
type ManagerConfig struct {
	MaxPanes        int     `yaml:"max_panes"`
	ScrollbackLines int     `yaml:"scrollback_lines"`
	SubPaneRatio    float64 `yaml:"sub_pane_ratio"`
	DefaultShell    string  `yaml:"default_shell"`
	PluginsEnabled  bool    `yaml:"plugins_enabled"`
}

// Default returns the manager's built-in defaults, used whenever a YAML
// document omits a field (zero value in the struct).
func Default() ManagerConfig {
	return ManagerConfig{
		MaxPanes:        4,
		ScrollbackLines: 10_000,
		SubPaneRatio:    0.7,
		PluginsEnabled:  false,
	}
}

// Load reads and validates a ManagerConfig from a YAML file at path. Missing
// fields fall back to Default(); the file itself is optional and a missing
// path returns Default() with no error.
func Load(path string) (ManagerConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	path, err := validatePath(path)
	if err != nil {
		return ManagerConfig{}, err
	}

	raw, err := readBounded(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("[DEBUG-CONFIG] config file not found, using defaults", "path", path)
			return cfg, nil
		}
		return ManagerConfig{}, err
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return ManagerConfig{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, validate(cfg)
}

func readBounded(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() > maxConfigFileBytes {
		return nil, fmt.Errorf("config: %s exceeds %d bytes", path, maxConfigFileBytes)
	}

	buf := make([]byte, info.Size())
	if _, err := f.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// validatePath rejects a path that escapes its own directory tree via "..",
// the same defensive check the host application's own config loader applies
// before ever opening a user-supplied path.
func validatePath(path string) (string, error) {
	clean := filepath.Clean(path)
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("config: path %q escapes its directory", path)
	}
	return clean, nil
}

func validate(cfg ManagerConfig) error {
	if cfg.MaxPanes <= 0 || cfg.MaxPanes > 4 {
		return fmt.Errorf("config: max_panes must be in 1..=4, got %d", cfg.MaxPanes)
	}
	if cfg.ScrollbackLines < 0 {
		return fmt.Errorf("config: scrollback_lines must be >= 0, got %d", cfg.ScrollbackLines)
	}
	if cfg.SubPaneRatio <= 0 || cfg.SubPaneRatio >= 1 {
		return fmt.Errorf("config: sub_pane_ratio must be in (0,1), got %f", cfg.SubPaneRatio)
	}
	return nil
}

// ValidateWorkingDir rejects a spawn-time working directory containing a
// ".." element, mirroring validatePath's policy for config files. The raw
// path is inspected rather than the cleaned one so "/tmp/../etc" is caught
// even though it cleans to a dotless path.
func ValidateWorkingDir(dir string) error {
	if dir == "" {
		return nil
	}
	for _, part := range strings.Split(filepath.ToSlash(dir), "/") {
		if part == ".." {
			return fmt.Errorf("config: working directory %q escapes its base", dir)
		}
	}
	return nil
}
