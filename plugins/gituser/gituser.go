// Package gituser provides a status-bar plugin that displays the git
// identity and current branch of the directory a PaneManager was started
// in. It favors an fsnotify watch over .git/HEAD instead of relying solely
// on its declared refresh interval, so a branch switch shows up immediately
// rather than after the next periodic tick.
package gituser

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"

	"github.com/centy-project/paned"
	"github.com/centy-project/paned/internal/git"
)

// Plugin implements paned.Plugin, rendering "name <email> (branch)" in the
// status bar, or a placeholder segment outside a git repository.
type Plugin struct {
	mu   sync.Mutex
	repo *git.Repository

	name   string
	email  string
	branch string

	watcher *fsnotify.Watcher
	stop    chan struct{}
}

// New creates an uninitialized git-user plugin. Call Init (via
// PluginRegistry.Register) before use.
func New() *Plugin {
	return &Plugin{}
}

// Name returns this plugin's unique registry key.
func (p *Plugin) Name() string { return "git-user" }

// Config requests a 30-second fallback refresh and a left-leaning
// priority.
func (p *Plugin) Config() paned.PluginConfig {
	return paned.PluginConfig{RefreshInterval: 30 * time.Second, Priority: 10}
}

// Init opens the repository at ctx.Cwd, if any, and starts an fsnotify
// watch on its .git/HEAD file. A non-git working directory is not an
// error: the plugin simply renders a placeholder segment.
func (p *Plugin) Init(ctx paned.PluginContext) error {
	repo, err := git.Open(ctx.Cwd)
	if err != nil {
		slog.Debug("[DEBUG-GITUSER] not a git repository, plugin will render placeholder",
			"cwd", ctx.Cwd, "error", err)
		return nil
	}
	p.repo = repo
	p.startWatch()
	return nil
}

func (p *Plugin) startWatch() {
	headFile, err := p.repo.HeadFile()
	if err != nil {
		slog.Debug("[DEBUG-GITUSER] could not resolve HEAD path, falling back to tick-only refresh",
			"error", err)
		return
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Debug("[DEBUG-GITUSER] fsnotify watcher unavailable, falling back to tick-only refresh",
			"error", err)
		return
	}
	if err := w.Add(headFile); err != nil {
		slog.Debug("[DEBUG-GITUSER] failed to watch HEAD file, falling back to tick-only refresh",
			"path", headFile, "error", err)
		_ = w.Close()
		return
	}
	p.watcher = w
	p.stop = make(chan struct{})
	go p.watchLoop()
}

func (p *Plugin) watchLoop() {
	// A checkout rewrites HEAD several times in quick succession; coalesce
	// the burst into one git invocation.
	debounced := debounce.New(75 * time.Millisecond)
	for {
		select {
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounced(p.refreshBranch)
			}
		case _, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
		case <-p.stop:
			return
		}
	}
}

func (p *Plugin) refreshBranch() {
	branch, err := p.repo.CurrentBranch()
	if err != nil {
		return
	}
	p.mu.Lock()
	p.branch = branch
	p.mu.Unlock()
}

// Refresh re-reads git user.name/user.email and the current branch. Called
// periodically as a fallback in case the fsnotify watch never started
// (e.g. a read-only filesystem) and to pick up user.name/email edits,
// which the HEAD watch does not cover.
func (p *Plugin) Refresh(ctx paned.PluginContext) error {
	if p.repo == nil {
		return nil
	}
	name, _ := p.repo.ConfigValue("user.name")
	email, _ := p.repo.ConfigValue("user.email")
	branch, branchErr := p.repo.CurrentBranch()

	p.mu.Lock()
	p.name = name
	p.email = email
	if branchErr == nil {
		p.branch = branch
	}
	p.mu.Unlock()
	return nil
}

// Render composes the cached git identity into a status-bar segment.
func (p *Plugin) Render() paned.StatusSegment {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.repo == nil {
		return paned.StatusSegment{
			Content: "no git user",
			Icon:    "?",
			Fg:      paned.Color{Kind: paned.ColorIndexed, Indexed: 8},
		}
	}

	var content string
	switch {
	case p.name != "" && p.email != "":
		content = fmt.Sprintf("%s <%s>", p.name, p.email)
	case p.name != "":
		content = p.name
	case p.email != "":
		content = fmt.Sprintf("<%s>", p.email)
	default:
		return paned.StatusSegment{
			Content: "no git user",
			Icon:    "?",
			Fg:      paned.Color{Kind: paned.ColorIndexed, Indexed: 8},
		}
	}
	if p.branch != "" {
		content = fmt.Sprintf("%s (%s)", content, p.branch)
	}
	return paned.StatusSegment{
		Content: content,
		Icon:    "@",
		Fg:      paned.Color{Kind: paned.ColorIndexed, Indexed: 6},
	}
}

// Shutdown stops the HEAD watcher goroutine, if one was started.
func (p *Plugin) Shutdown() {
	if p.stop != nil {
		close(p.stop)
	}
	if p.watcher != nil {
		_ = p.watcher.Close()
	}
}
