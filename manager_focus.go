package paned

import "github.com/centy-project/paned/internal/inputenc"

// SetFocus focuses id if it is a live pane, reporting whether focus
// actually changed.
func (m *PaneManager) SetFocus(id PaneID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.panes[id]; !ok {
		return false
	}
	if m.focused == id {
		return false
	}
	m.focused = id
	return true
}

// Focused returns the currently focused pane id, or 0 if none is focused.
func (m *PaneManager) Focused() PaneID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.focused
}

// FocusNext cycles focus to the next pane in insertion order, wrapping at
// the end. No-op on an empty registry.
func (m *PaneManager) FocusNext() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focused = cycleFocus(m.order, m.focused, 1)
}

// FocusPrev cycles focus to the previous pane in insertion order, wrapping
// at the start. No-op on an empty registry.
func (m *PaneManager) FocusPrev() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focused = cycleFocus(m.order, m.focused, -1)
}

func cycleFocus(order []PaneID, focused PaneID, dir int) PaneID {
	if len(order) == 0 {
		return 0
	}
	idx := 0
	for i, id := range order {
		if id == focused {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(order)) % len(order)
	return order[idx]
}

// SendInput routes bytes to the focused pane's writer queue, failing with
// PaneClosed if no pane is focused.
func (m *PaneManager) SendInput(data []byte) error {
	m.mu.RLock()
	focused := m.focused
	var mp *managedPane
	if focused != 0 {
		mp = m.panes[focused]
	}
	m.mu.RUnlock()

	if mp == nil {
		return errPaneClosed(focused)
	}
	return mp.handle.SendInput(data)
}

// RouteKey encodes a semantic key event via the input encoder and, for any
// non-empty encoding, delegates to SendInput. Unbound keys encode to an
// empty sequence and are silently dropped.
func (m *PaneManager) RouteKey(ev inputenc.Event) error {
	seq := inputenc.Encode(ev)
	if len(seq) == 0 {
		return nil
	}
	return m.SendInput(seq)
}
