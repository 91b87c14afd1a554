package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/centy-project/paned/internal/testutil"
)

func TestIsGitRepository(t *testing.T) {
	testutil.SkipIfNoGit(t)

	t.Run("valid git repo", func(t *testing.T) {
		dir := testutil.CreateTempGitRepo(t)
		if !IsGitRepository(dir) {
			t.Error("expected IsGitRepository to return true for a git repo")
		}
	})

	t.Run("non-git directory", func(t *testing.T) {
		dir := t.TempDir()
		if IsGitRepository(dir) {
			t.Error("expected IsGitRepository to return false for a non-git directory")
		}
	})

	t.Run("nonexistent directory", func(t *testing.T) {
		if IsGitRepository("/nonexistent/path/12345") {
			t.Error("expected IsGitRepository to return false for nonexistent path")
		}
	})
}

func TestOpen(t *testing.T) {
	testutil.SkipIfNoGit(t)

	t.Run("valid repo", func(t *testing.T) {
		dir := testutil.CreateTempGitRepo(t)
		repo, err := Open(dir)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		if repo.GetPath() != dir {
			t.Errorf("GetPath() = %q, want %q", repo.GetPath(), dir)
		}
	})

	t.Run("non-git directory", func(t *testing.T) {
		dir := t.TempDir()
		_, err := Open(dir)
		if err == nil {
			t.Error("expected Open() to return error for non-git directory")
		}
	})
}

func TestFindRepoRoot(t *testing.T) {
	testutil.SkipIfNoGit(t)

	dir := testutil.CreateTempGitRepo(t)
	subDir := filepath.Join(dir, "sub", "dir")
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatal(err)
	}

	root, err := FindRepoRoot(subDir)
	if err != nil {
		t.Fatalf("FindRepoRoot() error = %v", err)
	}
	wantAbs := testutil.ResolvePath(dir)
	gotAbs := testutil.ResolvePath(root)
	if gotAbs != wantAbs {
		t.Errorf("FindRepoRoot() = %q, want %q", gotAbs, wantAbs)
	}
}

func TestCurrentBranch(t *testing.T) {
	testutil.SkipIfNoGit(t)

	dir := testutil.CreateTempGitRepo(t)
	repo, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}

	branch, err := repo.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch() error = %v", err)
	}
	// Default branch could be "main" or "master" depending on git config.
	if branch == "" {
		t.Error("expected non-empty branch name")
	}
}

func TestHasUncommittedChanges(t *testing.T) {
	testutil.SkipIfNoGit(t)

	dir := testutil.CreateTempGitRepo(t)
	repo, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("clean repo", func(t *testing.T) {
		has, err := repo.HasUncommittedChanges()
		if err != nil {
			t.Fatalf("HasUncommittedChanges() error = %v", err)
		}
		if has {
			t.Error("expected no uncommitted changes in clean repo")
		}
	})

	t.Run("dirty repo", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "new.txt"), []byte("change"), 0o644); err != nil {
			t.Fatal(err)
		}
		has, err := repo.HasUncommittedChanges()
		if err != nil {
			t.Fatalf("HasUncommittedChanges() error = %v", err)
		}
		if !has {
			t.Error("expected uncommitted changes")
		}
	})
}
