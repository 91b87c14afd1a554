package paned

import "testing"

// paintGrid is a minimal ScreenBuffer recording every written glyph.
type paintGrid struct {
	cells map[[2]int]rune
}

func newPaintGrid() *paintGrid {
	return &paintGrid{cells: make(map[[2]int]rune)}
}

func (g *paintGrid) SetCell(x, y int, r rune, fg, bg Color, bold, italic, underline bool) {
	g.cells[[2]int{x, y}] = r
}

func (g *paintGrid) count(r rune) int {
	n := 0
	for _, v := range g.cells {
		if v == r {
			n++
		}
	}
	return n
}

func TestWidgetRendersEmptyGrid(t *testing.T) {
	m := NewManager()
	defer m.Close()
	m.SetTerminalSize(Rect{X: 0, Y: 0, W: 80, H: 20})

	buf := newPaintGrid()
	NewWidget().Render(buf, m)

	if got := buf.cells[[2]int{0, 0}]; got != '┌' {
		t.Fatalf("top-left corner = %q, want box-drawing corner", got)
	}

	// Every unoccupied slot paints its centered 1-indexed label.
	for _, label := range []rune{'1', '2', '3', '4'} {
		if buf.count(label) == 0 {
			t.Errorf("empty-slot label %q not painted", label)
		}
	}

	// Corner sub-panes carry down-arrows, inner ones horizontal arrows.
	if got := buf.count('▼'); got != 4 {
		t.Errorf("down-arrow count = %d, want 4", got)
	}
	if got := buf.count('◆'); got != 4 {
		t.Errorf("horizontal-arrow count = %d, want 4", got)
	}
	if got := buf.count('▲'); got != 0 {
		t.Errorf("up-arrow count = %d, want 0 with nothing expanded", got)
	}
}

func TestWidgetRendersExpansionOverlays(t *testing.T) {
	m := NewManager()
	defer m.Close()
	m.SetTerminalSize(Rect{X: 0, Y: 0, W: 80, H: 20})
	m.TogglePaneExpansion(0)

	buf := newPaintGrid()
	NewWidget().Render(buf, m)

	// Slot 0's two sub-panes are hidden, taking their down-arrow and
	// horizontal arrow with them; the expanded primary gains an up-arrow.
	if got := buf.count('▼'); got != 3 {
		t.Errorf("down-arrow count = %d, want 3 with slot 0 expanded", got)
	}
	if got := buf.count('◆'); got != 3 {
		t.Errorf("horizontal-arrow count = %d, want 3 with slot 0 expanded", got)
	}
	if got := buf.count('▲'); got != 1 {
		t.Errorf("up-arrow count = %d, want 1 on the expanded primary", got)
	}
}

func TestWidgetUsesExternalEmptyLabels(t *testing.T) {
	m := NewManager()
	defer m.Close()
	m.SetTerminalSize(Rect{X: 0, Y: 0, W: 80, H: 20})

	w := NewWidget()
	w.EmptyLabels = map[int]string{1: "x"}

	buf := newPaintGrid()
	w.Render(buf, m)

	if buf.count('x') == 0 {
		t.Error("externally supplied slot label not painted")
	}
}
