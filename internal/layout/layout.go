// Package layout computes pane rectangles for the fixed four-primary,
// eight-sub-pane grid, honoring per-slot vertical expansion and per-row
// horizontal expansion.
package layout

import "github.com/samber/lo"

// Rect is an integer screen-space rectangle.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rectangle paints nothing.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// HState is the tri-state of a row's horizontal expansion.
type HState int

const (
	// HNone is the default: both halves of the row are equal width.
	HNone HState = iota
	// HLeft means the left half of the row takes the full row width.
	HLeft
	// HRight means the right half of the row takes the full row width.
	HRight
)

// DefaultSubPaneRatio is the fraction of total height given to the primary
// pane strip when a manager does not override it; the remainder (plus one
// shared border row) goes to the sub-pane navigation strip.
const DefaultSubPaneRatio = 0.7

// NumPrimary is the number of fixed primary slots.
const NumPrimary = 4

// NumSubPanes is the number of fixed sub-pane slots.
const NumSubPanes = 8

// State is the full grid layout state the manager owns between
// recomputations.
type State struct {
	Expanded           [NumPrimary]bool
	HorizontalExpanded [2]HState
	// Ratio is the primary/sub-pane height split. Zero uses
	// DefaultSubPaneRatio.
	Ratio float64
}

func (st State) ratio() float64 {
	if st.Ratio <= 0 || st.Ratio >= 1 {
		return DefaultSubPaneRatio
	}
	return st.Ratio
}

// Result is the output of one layout computation.
type Result struct {
	Primary  [NumPrimary]Rect
	SubPanes [NumSubPanes]Rect
}

// Compute derives every primary and sub-pane rectangle from the full area A
// and the current expansion state. It never consults which slots are live;
// slot assignment to live panes is the caller's responsibility (see
// AssignSlots).
func Compute(a Rect, st State) Result {
	var res Result
	if a.Empty() {
		return res
	}

	panesHeight := roundByRatio(a.H, st.ratio())
	subHeight := a.H - panesHeight + 1
	if subHeight < 0 {
		subHeight = 0
	}

	widths := primaryWidths(a.W, st.HorizontalExpanded)

	x := a.X
	for i := 0; i < NumPrimary; i++ {
		h := panesHeight
		if st.Expanded[i] {
			h = a.H
		}
		res.Primary[i] = Rect{X: x, Y: a.Y, W: widths[i], H: h}
		x += widths[i]
	}

	res.SubPanes = computeSubPanes(a, st, widths, subHeight)
	return res
}

// roundByRatio rounds height*ratio to the nearest integer, matching
// round(f32) on non-negative inputs.
func roundByRatio(height int, ratio float64) int {
	return int(float64(height)*ratio + 0.5)
}

// primaryWidths computes the four primary slot widths. Without horizontal
// expansion, slots 0 and 1 each get a quarter of the area; slots 2 and 3
// split the remaining half, with slot 3 absorbing the rounding remainder.
// Under row expansion, the collapsed half of that row gets width zero and
// the visible half gets the full row width.
func primaryWidths(totalWidth int, rows [2]HState) [NumPrimary]int {
	var w [NumPrimary]int

	quarter := totalWidth / 4
	w[0] = quarter
	w[1] = quarter
	w[2] = quarter
	w[3] = totalWidth - quarter*3 // absorbs remainder

	applyRowExpansion(&w[0], &w[1], rows[0])
	applyRowExpansion(&w[2], &w[3], rows[1])
	return w
}

func applyRowExpansion(left, right *int, state HState) {
	switch state {
	case HLeft:
		total := *left + *right
		*left = total
		*right = 0
	case HRight:
		total := *left + *right
		*left = 0
		*right = total
	}
}

// computeSubPanes lays out the eight-slot navigation strip: two sub-panes
// per primary column, each an eighth of the total width by default (slot 7
// absorbs rounding). A sub-pane is zeroed when its owning primary is
// vertically expanded, or when it lies in the hidden half of a horizontally
// expanded row; under horizontal expansion the visible half's two sub-panes
// span the entire half row instead.
func computeSubPanes(a Rect, st State, primaryWidths [NumPrimary]int, subHeight int) [NumSubPanes]Rect {
	var sub [NumSubPanes]Rect

	eighth := a.W / 8
	defaultWidths := [NumSubPanes]int{
		eighth, eighth, eighth, eighth,
		eighth, eighth, eighth, a.W - eighth*7, // slot 7 absorbs the remainder
	}

	// The strip begins one row before the primary strip ends so the two
	// strips share a border line.
	subY := a.Y + panesHeightOf(a, st) - 1
	x := a.X
	for col := 0; col < NumSubPanes; col++ {
		primarySlot := col / 2
		row := primarySlot / 2

		w := defaultWidths[col]
		advance := w

		hiddenHorizontal := false
		switch st.HorizontalExpanded[row] {
		case HLeft:
			hiddenHorizontal = isRightHalf(col)
		case HRight:
			hiddenHorizontal = !isRightHalf(col)
		}
		if st.HorizontalExpanded[row] != HNone {
			if hiddenHorizontal {
				// The hidden half's columns hand their width to the
				// visible half, so they contribute nothing to the walk.
				advance = 0
			} else {
				// The visible half's two sub-panes span the whole half
				// row rather than keeping their eighth width.
				w = halfRowWidth(a, row) / 2
				advance = w
			}
		}

		if hiddenHorizontal || st.Expanded[primarySlot] {
			sub[col] = Rect{}
			x += advance
			continue
		}

		sub[col] = Rect{X: x, Y: subY, W: w, H: subHeight}
		x += advance
	}
	return sub
}

func panesHeightOf(a Rect, st State) int {
	return roundByRatio(a.H, st.ratio())
}

// isRightHalf reports whether sub-pane slot col belongs to the second
// (right) primary of its row. Columns pair up as (0,1)->primary 0,
// (2,3)->primary 1, (4,5)->primary 2, (6,7)->primary 3; rows group
// primaries {0,1} and {2,3}.
func isRightHalf(col int) bool {
	primarySlot := col / 2
	return primarySlot == 1 || primarySlot == 3
}

func halfRowWidth(a Rect, row int) int {
	half := a.W / 2
	if row == 0 {
		return half
	}
	return a.W - half
}

// EmptySlot is one unoccupied primary slot, labeled for painting.
type EmptySlot struct {
	SlotIndex int // 1-indexed, for painting labels
	Area      Rect
}

// AssignSlots walks paneOrder in insertion order and assigns the i-th live
// pane to primary slot i. Remaining slots are returned as empty, 1-indexed
// for label painting.
func AssignSlots[T comparable](paneOrder []T, primary [NumPrimary]Rect) (areas map[T]Rect, empty []EmptySlot) {
	areas = make(map[T]Rect, len(paneOrder))
	occupied := make([]bool, NumPrimary)
	for i, id := range paneOrder {
		if i >= NumPrimary {
			break
		}
		areas[id] = primary[i]
		occupied[i] = true
	}

	unoccupied := lo.Filter(lo.Range(NumPrimary), func(i int, _ int) bool {
		return !occupied[i]
	})
	empty = lo.Map(unoccupied, func(i int, _ int) EmptySlot {
		return EmptySlot{SlotIndex: i + 1, Area: primary[i]}
	})
	return areas, empty
}
