package paned

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// StatusSegment is one unit of status-bar content contributed by a plugin.
type StatusSegment struct {
	Content  string
	Icon     string
	Fg       Color
	MinWidth int
}

// Width returns the segment's approximate display width: icon plus a
// separating space, plus content, floored by MinWidth.
func (s StatusSegment) Width() int {
	iconWidth := 0
	if s.Icon != "" {
		iconWidth = len([]rune(s.Icon)) + 1
	}
	total := iconWidth + len([]rune(s.Content))
	if s.MinWidth > total {
		return s.MinWidth
	}
	return total
}

// PluginConfig controls a plugin's refresh cadence and status-bar ordering.
type PluginConfig struct {
	// RefreshInterval is how often Tick re-invokes Refresh. Zero means "use
	// the registry default" (5s).
	RefreshInterval time.Duration
	// Priority orders segments left-to-right; lower sorts first.
	Priority int
}

// PluginContext is the read-only view of manager state a plugin's Init and
// Refresh are given. Plugins never hold a reference to the PaneManager
// itself, matching the "plugins are display-only" contract.
type PluginContext struct {
	Cwd           string
	FocusedPane   PaneID
	PaneCount     int
	TerminalWidth int
}

// Plugin is the contract a status-bar content provider implements. Refresh
// runs inside Tick, on the caller's goroutine with the registry lock held
// (the registry starts no goroutine of its own), so implementations should
// keep it fast or push slow work onto their own background watcher (as
// plugins/gituser does with fsnotify) and have Refresh read cached state.
type Plugin interface {
	Name() string
	Config() PluginConfig
	Init(ctx PluginContext) error
	Refresh(ctx PluginContext) error
	Render() StatusSegment
	Shutdown()
}

type registeredPlugin struct {
	plugin      Plugin
	config      PluginConfig
	lastRefresh time.Time
	cached      StatusSegment
}

const defaultPluginRefreshInterval = 5 * time.Second

// PluginRegistry owns plugin lifecycle and refresh scheduling. It is a
// small, named, priority-ordered registry guarded by one mutex: a
// single-registration handler map generalized to many named entries with a
// priority-sorted rendering order.
type PluginRegistry struct {
	mu      sync.Mutex
	plugins map[string]*registeredPlugin
	order   []string // plugin names, sorted by ascending priority
	ctx     PluginContext
}

// NewPluginRegistry builds an empty registry rooted at cwd, the working
// directory plugins use for filesystem-relative state (e.g. .git/HEAD).
func NewPluginRegistry(cwd string) *PluginRegistry {
	return &PluginRegistry{
		plugins: make(map[string]*registeredPlugin),
		ctx:     PluginContext{Cwd: cwd, TerminalWidth: defaultCols},
	}
}

// Register initializes p and performs its first Refresh synchronously, so a
// caller sees an immediate segment rather than waiting for the first tick.
// A name collision or an Init/Refresh failure fails registration with
// InitFailed and leaves the registry unchanged.
func (r *PluginRegistry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.plugins[name]; exists {
		return newErr(ErrKindInitFailed, fmt.Sprintf("plugin %q already registered", name), nil)
	}

	cfg := p.Config()
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = defaultPluginRefreshInterval
	}

	if err := p.Init(r.ctx); err != nil {
		return newErr(ErrKindInitFailed, fmt.Sprintf("plugin %q init failed", name), err)
	}
	if err := p.Refresh(r.ctx); err != nil {
		return newErr(ErrKindInitFailed, fmt.Sprintf("plugin %q initial refresh failed", name), err)
	}

	r.plugins[name] = &registeredPlugin{
		plugin:      p,
		config:      cfg,
		lastRefresh: time.Now(),
		cached:      p.Render(),
	}
	r.rebuildOrderLocked()
	return nil
}

// Unregister shuts down and removes a plugin by name. A no-op if the name
// isn't registered.
func (r *PluginRegistry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rp, ok := r.plugins[name]
	if !ok {
		return
	}
	rp.plugin.Shutdown()
	delete(r.plugins, name)
	r.rebuildOrderLocked()
}

func (r *PluginRegistry) rebuildOrderLocked() {
	order := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		order = append(order, name)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return r.plugins[order[i]].config.Priority < r.plugins[order[j]].config.Priority
	})
	r.order = order
}

// UpdateContext refreshes the shared context every registered plugin's next
// Refresh call observes. PaneManager.TickPlugins calls it with the current
// focus, pane count, and terminal width right before each Tick.
func (r *PluginRegistry) UpdateContext(focused PaneID, paneCount, width int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx.FocusedPane = focused
	r.ctx.PaneCount = paneCount
	r.ctx.TerminalWidth = width
}

// Tick refreshes every plugin whose RefreshInterval has elapsed since its
// last refresh. A plugin whose Refresh call errors keeps its last cached
// segment rather than going blank.
func (r *PluginRegistry) Tick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, rp := range r.plugins {
		if now.Sub(rp.lastRefresh) < rp.config.RefreshInterval {
			continue
		}
		if err := rp.plugin.Refresh(r.ctx); err == nil {
			rp.cached = rp.plugin.Render()
		}
		rp.lastRefresh = now
	}
}

// Segments returns every registered plugin's cached segment, ordered by
// ascending priority (lower priority paints further left).
func (r *PluginRegistry) Segments() []StatusSegment {
	r.mu.Lock()
	defer r.mu.Unlock()

	segs := make([]StatusSegment, 0, len(r.order))
	for _, name := range r.order {
		segs = append(segs, r.plugins[name].cached)
	}
	return segs
}

// Shutdown shuts down every registered plugin and empties the registry.
func (r *PluginRegistry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rp := range r.plugins {
		rp.plugin.Shutdown()
	}
	r.plugins = make(map[string]*registeredPlugin)
	r.order = nil
}
