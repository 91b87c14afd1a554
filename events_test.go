package paned

import "testing"

func TestEventQueueDrainReturnsInOrder(t *testing.T) {
	q := newEventQueue()
	for i := 0; i < 5; i++ {
		q.push(Event{Kind: EventOutput, PaneID: PaneID(i + 1)})
	}

	evs := q.drain()
	if len(evs) != 5 {
		t.Fatalf("drain() len = %d, want 5", len(evs))
	}
	for i, ev := range evs {
		if ev.PaneID != PaneID(i+1) {
			t.Fatalf("drain()[%d].PaneID = %d, want %d (FIFO order)", i, ev.PaneID, i+1)
		}
	}

	if evs := q.drain(); len(evs) != 0 {
		t.Fatalf("second drain() = %v, want empty", evs)
	}
}

func TestEventQueueDropsOldestAdvisoryWhenSaturated(t *testing.T) {
	q := newEventQueue()
	for i := 0; i < eventQueueCapacity; i++ {
		q.push(Event{Kind: EventOutput, PaneID: PaneID(i)})
	}

	// A saturated queue must never block a worker: the oldest advisory
	// entry makes room for the newest event.
	q.push(Event{Kind: EventExited, PaneID: PaneID(9999), Code: 1})

	evs := q.drain()
	if len(evs) != eventQueueCapacity {
		t.Fatalf("drain() len = %d, want %d", len(evs), eventQueueCapacity)
	}
	if evs[0].PaneID != PaneID(1) {
		t.Fatalf("oldest advisory event should have been dropped, drain()[0].PaneID = %d", evs[0].PaneID)
	}
	last := evs[len(evs)-1]
	if last.Kind != EventExited || last.PaneID != PaneID(9999) {
		t.Fatalf("newest event missing after saturation, got %+v", last)
	}
}

func TestEventQueueNeverEvictsTerminalEvents(t *testing.T) {
	q := newEventQueue()
	q.push(Event{Kind: EventExited, PaneID: PaneID(1), Code: 137})
	q.push(Event{Kind: EventCrashed, PaneID: PaneID(2), Err: "wait failed"})

	// A later flood of advisory events from busy panes must shed itself,
	// never an already-pending terminal-state notification.
	for i := 0; i < 3*eventQueueCapacity; i++ {
		q.push(Event{Kind: EventOutput, PaneID: PaneID(3)})
	}

	var exited, crashed bool
	for _, ev := range q.drain() {
		switch {
		case ev.Kind == EventExited && ev.PaneID == PaneID(1) && ev.Code == 137:
			exited = true
		case ev.Kind == EventCrashed && ev.PaneID == PaneID(2):
			crashed = true
		}
	}
	if !exited || !crashed {
		t.Fatalf("terminal events lost under advisory flood: exited=%v crashed=%v", exited, crashed)
	}
}
