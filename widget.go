package paned

import (
	"fmt"
	"sort"

	"github.com/mattn/go-runewidth"

	"github.com/centy-project/paned/internal/layout"
)

// ScreenBuffer is the host's paintable surface. The Render Widget is the
// only component in this library that writes into one; it never retains a
// reference to buf past a single Render call.
type ScreenBuffer interface {
	SetCell(x, y int, r rune, fg, bg Color, bold, italic, underline bool)
}

// BorderGlyphs names the box-drawing characters a Widget uses. The zero
// value has every glyph set to rune 0; NewWidget defaults to box-drawing
// glyphs.
type BorderGlyphs struct {
	Horizontal, Vertical                       rune
	TopLeft, TopRight, BottomLeft, BottomRight rune
}

var defaultBorder = BorderGlyphs{
	Horizontal: '─', Vertical: '│',
	TopLeft: '┌', TopRight: '┐', BottomLeft: '└', BottomRight: '┘',
}

// Widget is a stateless painter: given a manager's current layout and live
// handles, it composes the grid, borders, arrows, and empty-slot
// placeholders into a host-supplied ScreenBuffer. It acquires
// each pane's emulator read lock only for the duration of a single
// Snapshot() call and never holds it across a host-level await.
type Widget struct {
	Border      BorderGlyphs
	EmptyLabels map[int]string // slot index (1-indexed) -> externally supplied label, e.g. a process id
}

// NewWidget returns a Widget with default box-drawing borders.
func NewWidget() *Widget {
	return &Widget{Border: defaultBorder}
}

// Render paints the manager's current state into buf.
func (w *Widget) Render(buf ScreenBuffer, m *PaneManager) {
	ids := m.PaneIDs()
	areas := m.GetAreas()
	sub := m.GetSubPaneAreas()
	empty := m.GetEmptyPaneAreas()
	expanded := m.GetExpandedPositions()
	focused := m.Focused()

	type paneArea struct {
		id   PaneID
		area Rect
	}
	primaries := make([]paneArea, 0, len(ids))
	for _, id := range ids {
		if a, ok := areas[id]; ok && !a.Empty() {
			primaries = append(primaries, paneArea{id: id, area: a})
		}
	}
	sort.Slice(primaries, func(i, j int) bool { return primaries[i].area.X < primaries[j].area.X })

	for i, p := range primaries {
		leftmost := i == 0
		w.paintBorder(buf, p.area, leftmost)
		handle, ok := m.GetPane(p.id)
		if !ok {
			continue
		}
		w.paintPane(buf, handle, p.area, p.id == focused)
	}

	for _, es := range empty {
		area := fromLayoutRect(es.Area)
		if area.Empty() {
			continue
		}
		w.paintBorder(buf, area, true)
		w.paintEmptyLabel(buf, area, es.SlotIndex)
	}

	w.paintSubPanes(buf, sub)
	w.paintArrowOverlays(buf, slotRects(ids, areas, empty), sub, expanded)
}

// slotRects rebuilds the four primary slot rectangles in manager slot-index
// order (0..3), the same indexing GetExpandedPositions uses, which is the
// insertion order of ids rather than the screen's left-to-right order.
func slotRects(ids []PaneID, areas map[PaneID]Rect, empty []layout.EmptySlot) [layout.NumPrimary]Rect {
	var out [layout.NumPrimary]Rect
	for i, id := range ids {
		if i >= layout.NumPrimary {
			break
		}
		out[i] = areas[id]
	}
	for _, es := range empty {
		if es.SlotIndex-1 >= 0 && es.SlotIndex-1 < layout.NumPrimary {
			out[es.SlotIndex-1] = fromLayoutRect(es.Area)
		}
	}
	return out
}

// paintBorder draws the pane border policy: the leftmost
// slot draws all four sides; every subsequent one shares its left edge with
// the previous slot's right edge and so draws only top, bottom, and right.
func (w *Widget) paintBorder(buf ScreenBuffer, a Rect, leftmost bool) {
	if a.W <= 0 || a.H <= 0 {
		return
	}
	top, bottom := a.Y, a.Y+a.H-1

	for x := a.X; x < a.X+a.W; x++ {
		buf.SetCell(x, top, w.Border.Horizontal, Color{Kind: ColorDefault}, Color{Kind: ColorDefault}, false, false, false)
		buf.SetCell(x, bottom, w.Border.Horizontal, Color{Kind: ColorDefault}, Color{Kind: ColorDefault}, false, false, false)
	}
	for y := top; y <= bottom; y++ {
		buf.SetCell(a.X+a.W-1, y, w.Border.Vertical, Color{Kind: ColorDefault}, Color{Kind: ColorDefault}, false, false, false)
		if leftmost {
			buf.SetCell(a.X, y, w.Border.Vertical, Color{Kind: ColorDefault}, Color{Kind: ColorDefault}, false, false, false)
		}
	}
	if leftmost {
		buf.SetCell(a.X, top, w.Border.TopLeft, Color{Kind: ColorDefault}, Color{Kind: ColorDefault}, false, false, false)
		buf.SetCell(a.X, bottom, w.Border.BottomLeft, Color{Kind: ColorDefault}, Color{Kind: ColorDefault}, false, false, false)
	}
	buf.SetCell(a.X+a.W-1, top, w.Border.TopRight, Color{Kind: ColorDefault}, Color{Kind: ColorDefault}, false, false, false)
	buf.SetCell(a.X+a.W-1, bottom, w.Border.BottomRight, Color{Kind: ColorDefault}, Color{Kind: ColorDefault}, false, false, false)
}

// paintPane copies the pane's VT100 screen cell-by-cell into the inner area,
// swapping fg/bg for inverse cells and inverting the cursor's cell when the
// slot is focused and the cursor is visible.
func (w *Widget) paintPane(buf ScreenBuffer, h *PaneHandle, area Rect, focused bool) {
	inner := area.Inner()
	if inner.Empty() {
		return
	}
	snap := h.ScreenSnapshot()
	cursorVisible := focused && h.emu.CursorVisible()

	for row := 0; row < inner.H && row < snap.Rows; row++ {
		col := 0
		for screenCol := 0; screenCol < inner.W && col < snap.Cols; screenCol++ {
			cell := snap.Cells[row][col]
			fg, bg := cell.Fg, cell.Bg
			if cell.Inverse {
				fg, bg = bg, fg
			}
			isCursor := cursorVisible && row == snap.CursorRow && col == snap.CursorCol
			if isCursor {
				fg, bg = bg, fg
			}
			buf.SetCell(inner.X+screenCol, inner.Y+row, cell.Rune, fg, bg, cell.Bold, cell.Italic, cell.Underline)
			if runewidth.RuneWidth(cell.Rune) == 2 {
				col++
				screenCol++
			}
			col++
		}
	}
}

// paintEmptyLabel centers a slot-number (or externally supplied process id)
// label inside an unoccupied primary slot.
func (w *Widget) paintEmptyLabel(buf ScreenBuffer, area Rect, slotIndex int) {
	inner := area.Inner()
	if inner.Empty() {
		return
	}
	label, ok := w.EmptyLabels[slotIndex]
	if !ok {
		label = fmt.Sprintf("%d", slotIndex)
	}
	y := inner.Y + inner.H/2
	x := inner.X + (inner.W-len(label))/2
	for i, r := range label {
		buf.SetCell(x+i, y, r, Color{Kind: ColorDefault}, Color{Kind: ColorDefault}, false, false, false)
	}
}

// paintSubPanes draws the navigation strip's borders: the leftmost visible
// sub-pane draws all four sides; subsequent visible sub-panes draw top,
// bottom, right only.
func (w *Widget) paintSubPanes(buf ScreenBuffer, sub [layout.NumSubPanes]Rect) {
	leftmostDrawn := false
	for _, area := range sub {
		if area.Empty() {
			continue
		}
		w.paintBorder(buf, area, !leftmostDrawn)
		leftmostDrawn = true
	}
}

// paintArrowOverlays draws the down-arrow / horizontal-arrow glyphs on
// sub-panes and the up-arrow glyph on any vertically expanded primary.
// Arrow cells use a transparent background: only non-space glyphs are
// written.
func (w *Widget) paintArrowOverlays(buf ScreenBuffer, primary [layout.NumPrimary]Rect, sub [layout.NumSubPanes]Rect, expanded [layout.NumPrimary]bool) {
	corners := [4]int{0, 3, 4, 7}
	for _, slot := range corners {
		area := sub[slot]
		if area.W == 0 && area.H == 0 {
			continue
		}
		w.overlayGlyph(buf, area, '▼')
	}
	inner := [4]int{1, 2, 5, 6}
	for _, slot := range inner {
		area := sub[slot]
		if area.W == 0 && area.H == 0 {
			continue
		}
		w.overlayGlyph(buf, area, '◆')
	}
	for i, exp := range expanded {
		if !exp {
			continue
		}
		w.overlayGlyph(buf, primary[i], '▲')
	}
}

// overlayGlyph writes one non-space rune centered in area, leaving every
// other cell untouched (transparent background).
func (w *Widget) overlayGlyph(buf ScreenBuffer, area Rect, glyph rune) {
	if area.Empty() {
		return
	}
	x := area.X + area.W/2
	y := area.Y + area.H/2
	buf.SetCell(x, y, glyph, Color{Kind: ColorDefault}, Color{Kind: ColorDefault}, false, false, false)
}
