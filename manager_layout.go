package paned

import (
	"github.com/centy-project/paned/internal/layout"
)

// SetTerminalSize stores the host's current terminal area. It short-circuits
// if unchanged; otherwise it recomputes the layout and fans the resize out
// to every live pane's PTY and emulator before returning, the same way every
// other layout mutator does.
func (m *PaneManager) SetTerminalSize(r Rect) {
	m.mu.Lock()
	if r == m.terminalSize {
		m.mu.Unlock()
		return
	}
	m.terminalSize = r
	m.recomputeLayoutLocked()
	m.mu.Unlock()

	m.fanOutResizeNow()
}

// recomputeLayoutLocked derives cachedAreas, emptySlots, and subPanes from
// the current terminal size, pane order, and expansion state. Must be
// called with m.mu held for writing.
func (m *PaneManager) recomputeLayoutLocked() {
	if m.terminalSize.Empty() {
		m.cachedAreas = make(map[PaneID]Rect)
		m.emptySlots = nil
		m.subPanes = [layout.NumSubPanes]Rect{}
		return
	}

	res := layout.Compute(toLayoutRect(m.terminalSize), m.layoutState)
	areas, empty := layout.AssignSlots(m.order, res.Primary)

	cached := make(map[PaneID]Rect, len(areas))
	for id, a := range areas {
		cached[id] = fromLayoutRect(a)
	}
	m.cachedAreas = cached
	m.emptySlots = empty
	for i, sp := range res.SubPanes {
		m.subPanes[i] = fromLayoutRect(sp)
	}
}

// fanOutResizeNow instructs the PTY and emulator of every live pane to
// adopt the inner area (rectangle minus a 1-cell border) of its current
// cached rectangle. Errors are swallowed here; ResizePane
// surfaces them for an explicit, single-pane resize request.
func (m *PaneManager) fanOutResizeNow() {
	m.mu.RLock()
	type job struct {
		mp    *managedPane
		inner Rect
	}
	jobs := make([]job, 0, len(m.order))
	for _, id := range m.order {
		mp, ok := m.panes[id]
		if !ok {
			continue
		}
		area, ok := m.cachedAreas[id]
		if !ok {
			continue
		}
		jobs = append(jobs, job{mp: mp, inner: area.Inner()})
	}
	m.mu.RUnlock()

	for _, j := range jobs {
		_ = j.mp.resize(j.inner.H, j.inner.W)
	}
}

// ResizePane explicitly resizes one pane's PTY and emulator to match its
// current cached area, surfacing any failure to the caller.
func (m *PaneManager) ResizePane(id PaneID) error {
	m.mu.RLock()
	mp, ok := m.panes[id]
	area, hasArea := m.cachedAreas[id]
	m.mu.RUnlock()
	if !ok {
		return errPaneNotFound(id)
	}
	if !hasArea {
		return newPaneErr(ErrKindResize, id, "no cached area for pane", nil)
	}
	inner := area.Inner()
	return mp.resize(inner.H, inner.W)
}

// TogglePaneExpansion flips vertical expansion for a primary slot (0..3),
// recomputes the layout, and resizes survivors.
func (m *PaneManager) TogglePaneExpansion(slot int) {
	m.mu.Lock()
	layout.ToggleVertical(&m.layoutState.Expanded, slot)
	m.recomputeLayoutLocked()
	m.mu.Unlock()
	m.fanOutResizeNow()
}

// ToggleHorizontalExpansion applies the per-row tri-state machine (see
// layout.ToggleHorizontal), recomputes the layout, and resizes survivors.
func (m *PaneManager) ToggleHorizontalExpansion(row int, expandLeft bool) {
	m.mu.Lock()
	layout.ToggleHorizontal(&m.layoutState.HorizontalExpanded, row, expandLeft)
	m.recomputeLayoutLocked()
	m.mu.Unlock()
	m.fanOutResizeNow()
}

// GetAreas returns a copy of the current primary pane rectangles, keyed by
// pane id.
func (m *PaneManager) GetAreas() map[PaneID]Rect {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[PaneID]Rect, len(m.cachedAreas))
	for k, v := range m.cachedAreas {
		out[k] = v
	}
	return out
}

// GetSubPaneAreas returns a copy of the eight sub-pane navigation rectangles.
func (m *PaneManager) GetSubPaneAreas() [layout.NumSubPanes]Rect {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.subPanes
}

// GetEmptyPaneAreas returns the current unoccupied primary slots.
func (m *PaneManager) GetEmptyPaneAreas() []layout.EmptySlot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]layout.EmptySlot, len(m.emptySlots))
	copy(out, m.emptySlots)
	return out
}

// GetExpandedPositions returns the current per-slot vertical expansion
// flags.
func (m *PaneManager) GetExpandedPositions() [layout.NumPrimary]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.layoutState.Expanded
}

// GetHorizontalExpanded returns the current per-row horizontal expansion
// state.
func (m *PaneManager) GetHorizontalExpanded() [2]layout.HState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.layoutState.HorizontalExpanded
}

// HandleClick is the single entry point a host calls on mouse-down,
// resolving in fixed order: collapse an expanded slot's
// up-arrow, expand a corner sub-pane's down-arrow, toggle an inner sub-pane's
// horizontal arrow, or focus the primary pane under the click. It reports
// whether focus actually changed as a result of case 4.
func (m *PaneManager) HandleClick(x, y int) bool {
	m.mu.RLock()
	primary := m.primaryRectsLocked()
	subPanes := m.subPanes
	expanded := m.layoutState.Expanded
	order := append([]PaneID(nil), m.order...)
	areas := m.cachedAreas
	m.mu.RUnlock()

	var primaryLayout [layout.NumPrimary]layout.Rect
	for i, r := range primary {
		primaryLayout[i] = toLayoutRect(r)
	}
	var subPanesLayout [layout.NumSubPanes]layout.Rect
	for i, r := range subPanes {
		subPanesLayout[i] = toLayoutRect(r)
	}

	if slot, ok := layout.UpArrowAt(x, y, primaryLayout, expanded); ok {
		m.TogglePaneExpansion(slot)
		return false
	}
	if slot, ok := layout.DownArrowAt(x, y, subPanesLayout); ok {
		m.TogglePaneExpansion(slot)
		return false
	}
	if row, expandLeft, ok := layout.HorizontalArrowAt(x, y, subPanesLayout); ok {
		m.ToggleHorizontalExpansion(row, expandLeft)
		return false
	}
	for _, id := range order {
		area, ok := areas[id]
		if !ok || area.Empty() {
			continue
		}
		if x >= area.X && x < area.X+area.W && y >= area.Y && y < area.Y+area.H {
			return m.SetFocus(id)
		}
	}
	return false
}

// primaryRectsLocked rebuilds the four primary slot rectangles from the
// cached per-pane areas and empty-slot list. Must be called with m.mu held
// for reading.
func (m *PaneManager) primaryRectsLocked() [layout.NumPrimary]Rect {
	var out [layout.NumPrimary]Rect
	for i, id := range m.order {
		if i >= layout.NumPrimary {
			break
		}
		out[i] = m.cachedAreas[id]
	}
	for _, es := range m.emptySlots {
		out[es.SlotIndex-1] = fromLayoutRect(es.Area)
	}
	return out
}
