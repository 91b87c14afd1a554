package paned

import (
	"sync"

	"go.uber.org/multierr"

	"github.com/centy-project/paned/internal/config"
	"github.com/centy-project/paned/internal/layout"
)

// ManagerConfig mirrors internal/config.ManagerConfig for callers that do
// not want to depend on the config package directly.
type ManagerConfig = config.ManagerConfig

// PaneManager owns the pane registry, the layout state, the focused id, and
// the inbound event queue a host drains via PollEvents. Its mutable state is
// owned by a single sync.RWMutex; the manager never holds a per-pane lock
// while holding its own (lock ordering: manager before pane).
type PaneManager struct {
	mu sync.RWMutex

	cfg   ManagerConfig
	panes map[PaneID]*managedPane
	order []PaneID

	focused PaneID

	layoutState  layout.State
	terminalSize Rect
	cachedAreas  map[PaneID]Rect
	emptySlots   []layout.EmptySlot
	subPanes     [layout.NumSubPanes]Rect

	events *eventQueue

	plugins *PluginRegistry
}

// NewManager builds a PaneManager with built-in defaults (max 4 panes,
// 10,000 lines of scrollback, 0.7 sub-pane ratio).
func NewManager() *PaneManager {
	return NewManagerWithConfig(config.Default())
}

// NewManagerWithConfig builds a PaneManager from an explicit ManagerConfig,
// e.g. loaded via internal/config.Load from a host's YAML document.
func NewManagerWithConfig(cfg ManagerConfig) *PaneManager {
	if cfg.MaxPanes <= 0 || cfg.MaxPanes > layout.NumPrimary {
		cfg.MaxPanes = layout.NumPrimary
	}
	return &PaneManager{
		cfg:         cfg,
		panes:       make(map[PaneID]*managedPane, cfg.MaxPanes),
		cachedAreas: make(map[PaneID]Rect, cfg.MaxPanes),
		events:      newEventQueue(),
		layoutState: layout.State{Ratio: cfg.SubPaneRatio},
	}
}

// WithPlugins enables the plugin registry, rooted at cwd for any plugin
// that needs repository-relative state (e.g. watching .git/HEAD).
func (m *PaneManager) WithPlugins(cwd string) *PaneManager {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plugins = NewPluginRegistry(cwd)
	return m
}

// Spawn starts a new pane from cfg, registers it, auto-focuses if no pane
// was focused, recomputes the layout, and fans a resize out to every live
// pane. It fails with LayoutFull if the manager is already at capacity.
func (m *PaneManager) Spawn(cfg SpawnConfig) (*PaneHandle, error) {
	m.mu.Lock()
	if len(m.order) >= m.cfg.MaxPanes {
		m.mu.Unlock()
		return nil, newErr(ErrKindLayout, "manager is at capacity", nil)
	}
	if err := config.ValidateWorkingDir(cfg.Dir); err != nil {
		m.mu.Unlock()
		return nil, newErr(ErrKindLayout, err.Error(), err)
	}
	if cfg.Size.Rows == 0 || cfg.Size.Cols == 0 {
		cfg.Size = m.initialSizeLocked()
	}
	id := mintPaneID()
	m.mu.Unlock()

	mp, err := spawnPane(id, cfg, m.cfg.ScrollbackLines, m.events)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.panes[id] = mp
	m.order = append(m.order, id)
	if m.focused == 0 {
		m.focused = id
	}
	m.recomputeLayoutLocked()
	m.mu.Unlock()

	// Resize errors during spawn are swallowed: the child may not yet be
	// ready for a resize ioctl.
	m.fanOutResizeNow()

	return mp.handle, nil
}

// initialSizeLocked computes a spawn's initial size from the current
// terminal area and the pending pane count, so every pane starts close to
// its final size. Must be called with m.mu held.
func (m *PaneManager) initialSizeLocked() PaneSize {
	if m.terminalSize.Empty() {
		return PaneSize{Rows: defaultRows, Cols: defaultCols}
	}
	primarySlots := len(m.order) + 1
	if primarySlots > layout.NumPrimary {
		primarySlots = layout.NumPrimary
	}
	st := m.layoutState
	res := layout.Compute(toLayoutRect(m.terminalSize), st)
	area := res.Primary[primarySlots-1]
	inner := Rect{X: area.X, Y: area.Y, W: area.W, H: area.H}.Inner()
	rows, cols := inner.H, inner.W
	if rows <= 0 || cols <= 0 {
		rows, cols = defaultRows, defaultCols
	}
	return PaneSize{Rows: uint16(rows), Cols: uint16(cols)}
}

// ClosePane tears down a pane's workers, removes it from the registry,
// updates focus, and recomputes the layout. Idempotent: closing an unknown
// id is a no-op.
func (m *PaneManager) ClosePane(id PaneID) {
	m.mu.Lock()
	mp, ok := m.panes[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.panes, id)
	m.order = removeID(m.order, id)
	if m.focused == id {
		if len(m.order) > 0 {
			m.focused = m.order[0]
		} else {
			m.focused = 0
		}
	}
	m.recomputeLayoutLocked()
	m.mu.Unlock()

	_ = mp.close()
	m.fanOutResizeNow()
}

// Close tears down every live pane's workers, collecting per-pane teardown
// errors with multierr rather than stopping at the first failure.
func (m *PaneManager) Close() error {
	m.mu.Lock()
	panes := make([]*managedPane, 0, len(m.panes))
	for _, mp := range m.panes {
		panes = append(panes, mp)
	}
	m.panes = make(map[PaneID]*managedPane)
	m.order = nil
	m.focused = 0
	m.recomputeLayoutLocked()
	reg := m.plugins
	m.mu.Unlock()

	if reg != nil {
		reg.Shutdown()
	}

	var err error
	for _, mp := range panes {
		err = multierr.Append(err, mp.close())
	}
	return err
}

// PaneIDs returns the live pane ids in insertion order.
func (m *PaneManager) PaneIDs() []PaneID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]PaneID, len(m.order))
	copy(out, m.order)
	return out
}

// PaneCount returns the number of live panes.
func (m *PaneManager) PaneCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}

// GetPane returns the handle for id, if live.
func (m *PaneManager) GetPane(id PaneID) (*PaneHandle, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mp, ok := m.panes[id]
	if !ok {
		return nil, false
	}
	return mp.handle, true
}

// PollEvents drains every currently pending event without blocking.
func (m *PaneManager) PollEvents() []Event {
	return m.events.drain()
}

// RegisterPlugin registers p with the manager's plugin registry. Callers
// must have enabled plugins via WithPlugins first; registration on a manager
// without plugins enabled fails with InitFailed.
func (m *PaneManager) RegisterPlugin(p Plugin) error {
	m.mu.RLock()
	reg := m.plugins
	m.mu.RUnlock()
	if reg == nil {
		return newErr(ErrKindInitFailed, "plugins are not enabled on this manager", nil)
	}
	return reg.Register(p)
}

// TickPlugins refreshes every registered plugin whose interval has elapsed
// and refreshes the shared plugin context (focused pane, pane count,
// terminal width) first, so Refresh sees current manager state. A no-op
// when plugins were never enabled.
func (m *PaneManager) TickPlugins() {
	m.mu.RLock()
	reg := m.plugins
	focused := m.focused
	paneCount := len(m.order)
	width := m.terminalSize.W
	m.mu.RUnlock()
	if reg == nil {
		return
	}
	reg.UpdateContext(focused, paneCount, width)
	reg.Tick()
}

// StatusBarSegments returns the current priority-ordered segments from
// every registered plugin. Returns nil when plugins were never enabled.
func (m *PaneManager) StatusBarSegments() []StatusSegment {
	m.mu.RLock()
	reg := m.plugins
	m.mu.RUnlock()
	if reg == nil {
		return nil
	}
	return reg.Segments()
}

func removeID(order []PaneID, id PaneID) []PaneID {
	out := order[:0:0]
	for _, v := range order {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func toLayoutRect(r Rect) layout.Rect {
	return layout.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

func fromLayoutRect(r layout.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
}
