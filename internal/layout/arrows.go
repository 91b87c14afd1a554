package layout

// ArrowWidth and ArrowHeight are the fixed dimensions of every clickable
// arrow affordance, inset one cell from its carrier slot's border.
const (
	ArrowWidth  = 5
	ArrowHeight = 3
)

// arrowRect returns the 5x3 hit rectangle anchored to the bottom-left or
// bottom-right interior of carrier, one cell inset from its border.
func arrowRect(carrier Rect, left bool) Rect {
	baseY := carrier.Y + carrier.H - (1 + ArrowHeight)
	var baseX int
	if left {
		baseX = carrier.X + 1
	} else {
		baseX = carrier.X + carrier.W - (1 + ArrowWidth)
	}
	return Rect{X: baseX, Y: baseY, W: ArrowWidth, H: ArrowHeight}
}

func hit(r Rect, x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// UpArrowAt returns the primary slot index (0-3) whose up-arrow (collapse
// affordance) is hit by (x, y), considering only currently expanded slots.
// Slots 0 and 2 carry a left-anchored arrow; 1 and 3 carry a right-anchored
// one.
func UpArrowAt(x, y int, primary [NumPrimary]Rect, expanded [NumPrimary]bool) (slot int, ok bool) {
	for i := 0; i < NumPrimary; i++ {
		if !expanded[i] {
			continue
		}
		left := i == 0 || i == 2
		if hit(arrowRect(primary[i], left), x, y) {
			return i, true
		}
	}
	return 0, false
}

// cornerSubPanes maps the four corner sub-pane slots (which carry a
// down-arrow / expand affordance) to the primary slot they control and
// whether their arrow is left-anchored.
var cornerSubPanes = [4]struct {
	subPaneSlot  int
	primarySlot  int
	leftAnchored bool
}{
	{subPaneSlot: 0, primarySlot: 0, leftAnchored: true},
	{subPaneSlot: 3, primarySlot: 1, leftAnchored: false},
	{subPaneSlot: 4, primarySlot: 2, leftAnchored: true},
	{subPaneSlot: 7, primarySlot: 3, leftAnchored: false},
}

// DownArrowAt returns the primary slot index (0-3) whose down-arrow (expand
// affordance) on a corner sub-pane is hit by (x, y). A zero-sized sub-pane
// (hidden by the current layout) never matches.
func DownArrowAt(x, y int, subPanes [NumSubPanes]Rect) (primarySlot int, ok bool) {
	for _, c := range cornerSubPanes {
		area := subPanes[c.subPaneSlot]
		if area.Empty() {
			continue
		}
		if hit(arrowRect(area, c.leftAnchored), x, y) {
			return c.primarySlot, true
		}
	}
	return 0, false
}

// innerSubPanes maps the four inner sub-pane slots (which carry a
// horizontal-navigation affordance) to the row they belong to and the
// direction their click toggles (true = expand left half).
var innerSubPanes = [4]struct {
	subPaneSlot  int
	row          int
	expandLeft   bool
	leftAnchored bool
}{
	{subPaneSlot: 1, row: 0, expandLeft: false, leftAnchored: false}, // under primary 0, points right at primary 1
	{subPaneSlot: 2, row: 0, expandLeft: true, leftAnchored: true},   // under primary 1, points left at primary 0
	{subPaneSlot: 5, row: 1, expandLeft: false, leftAnchored: false}, // under primary 2, points right at primary 3
	{subPaneSlot: 6, row: 1, expandLeft: true, leftAnchored: true},   // under primary 3, points left at primary 2
}

// HorizontalArrowAt returns the row index (0-1) and the direction
// (expandLeft) a horizontal-navigation click at (x, y) resolves to.
func HorizontalArrowAt(x, y int, subPanes [NumSubPanes]Rect) (row int, expandLeft bool, ok bool) {
	for _, c := range innerSubPanes {
		area := subPanes[c.subPaneSlot]
		if area.Empty() {
			continue
		}
		if hit(arrowRect(area, c.leftAnchored), x, y) {
			return c.row, c.expandLeft, true
		}
	}
	return 0, false, false
}
