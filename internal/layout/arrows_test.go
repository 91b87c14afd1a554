package layout

import "testing"

func TestUpArrowAtHitsOnlyExpandedSlot(t *testing.T) {
	res := Compute(Rect{X: 0, Y: 0, W: 80, H: 20}, State{})
	var expanded [NumPrimary]bool
	expanded[1] = true
	expandedRes := Compute(Rect{X: 0, Y: 0, W: 80, H: 20}, State{Expanded: expanded})

	r := arrowRect(expandedRes.Primary[1], false) // slot 1 is right-anchored
	if _, ok := UpArrowAt(r.X, r.Y, expandedRes.Primary, expanded); !ok {
		t.Fatalf("expected up-arrow hit on expanded slot 1")
	}
	if _, ok := UpArrowAt(r.X, r.Y, res.Primary, [NumPrimary]bool{}); ok {
		t.Fatalf("expected no up-arrow hit when nothing is expanded")
	}
}

func TestDownArrowAtCornerSlots(t *testing.T) {
	res := Compute(Rect{X: 0, Y: 0, W: 80, H: 20}, State{})
	r := arrowRect(res.SubPanes[0], true) // slot 0 is left-anchored, controls primary 0
	slot, ok := DownArrowAt(r.X, r.Y, res.SubPanes)
	if !ok || slot != 0 {
		t.Fatalf("DownArrowAt = %d,%v want 0,true", slot, ok)
	}
}

func TestHorizontalArrowAtInnerSlots(t *testing.T) {
	res := Compute(Rect{X: 0, Y: 0, W: 80, H: 20}, State{})
	r := arrowRect(res.SubPanes[1], false) // slot 1 is right-anchored, under primary 0
	row, expandLeft, ok := HorizontalArrowAt(r.X, r.Y, res.SubPanes)
	if !ok || row != 0 || expandLeft {
		t.Fatalf("HorizontalArrowAt(slot1) = row=%d expandLeft=%v ok=%v, want row=0 expandLeft=false", row, expandLeft, ok)
	}
}

func TestClickDispatchOrderCollapseBeforeFocus(t *testing.T) {
	var expanded [NumPrimary]bool
	expanded[1] = true
	res := Compute(Rect{X: 0, Y: 0, W: 80, H: 20}, State{Expanded: expanded})

	up := arrowRect(res.Primary[1], false)
	// A click on slot 1's up-arrow lies inside slot 1's own rectangle too;
	// resolution order requires the up-arrow collapse to win.
	if !hit(res.Primary[1], up.X, up.Y) {
		t.Fatalf("test setup invalid: up-arrow should lie inside the expanded primary rect")
	}
	slot, ok := UpArrowAt(up.X, up.Y, res.Primary, expanded)
	if !ok || slot != 1 {
		t.Fatalf("UpArrowAt must win resolution over a focus-set click: got %d,%v", slot, ok)
	}
}
