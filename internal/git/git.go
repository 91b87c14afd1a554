package git

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// Open opens an existing git repository using CLI-only detection.
func Open(path string) (*Repository, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("repository path cannot be empty")
	}
	path = filepath.Clean(path)
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	path = absPath

	start := time.Now()
	defer func() {
		slog.Debug("[DEBUG-GIT] Open repository",
			"duration_ms", time.Since(start).Milliseconds(),
			"path", path)
	}()

	_, err = runGitCLI(path, []string{"rev-parse", "--git-dir"})
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %s: %w", path, err)
	}
	return &Repository{path: path}, nil
}

// IsGitRepository checks if the path is a git repository.
// Uses runGitCLI to respect the semaphore concurrency limit.
func IsGitRepository(path string) bool {
	start := time.Now()
	_, err := runGitCLI(path, []string{"rev-parse", "--git-dir"})
	slog.Debug("[DEBUG-GIT] IsGitRepository check",
		"duration_ms", time.Since(start).Milliseconds(),
		"path", path,
		"isGitRepo", err == nil)
	return err == nil
}

// FindRepoRoot returns the root directory of the git repository.
// Returns ("", error) if path is not inside a git repository.
func FindRepoRoot(path string) (string, error) {
	output, err := runGitCLI(path, []string{"rev-parse", "--show-toplevel"})
	if err != nil {
		return "", fmt.Errorf("failed to find repo root: %w", err)
	}
	return filepath.FromSlash(strings.TrimSpace(string(output))), nil
}

// CurrentBranch returns the name of the current branch, or empty string if detached HEAD.
func (r *Repository) CurrentBranch() (string, error) {
	output, err := r.runGitCommand("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	if output == "HEAD" {
		return "", nil // detached HEAD
	}
	return output, nil
}

// HasUncommittedChanges checks if the worktree has uncommitted changes.
func (r *Repository) HasUncommittedChanges() (bool, error) {
	output, err := r.runGitCommand("status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(output) != "", nil
}

// ConfigValue reads a single git config key (e.g. "user.name"). Returns an
// empty string, nil error when the key is unset.
func (r *Repository) ConfigValue(key string) (string, error) {
	output, err := r.runGitCommand("config", key)
	if err != nil {
		return "", nil
	}
	return output, nil
}

// HeadFile returns the path to this repository's .git/HEAD file, the file a
// status-bar plugin watches to notice branch switches without polling.
func (r *Repository) HeadFile() (string, error) {
	output, err := r.runGitCommand("rev-parse", "--git-path", "HEAD")
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(output) {
		return output, nil
	}
	return filepath.Join(r.path, output), nil
}
