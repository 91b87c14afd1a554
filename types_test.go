package paned

import (
	"testing"

	"github.com/centy-project/paned/internal/testutil"
)

func TestPaneStateIsAlive(t *testing.T) {
	tests := []struct {
		name  string
		state PaneState
		want  bool
	}{
		{name: "running", state: PaneState{Kind: StateRunning}, want: true},
		{name: "paused", state: PaneState{Kind: StatePaused}, want: true},
		{name: "exited", state: PaneState{Kind: StateExited, Code: 137}, want: false},
		{
			name:  "crashed",
			state: PaneState{Kind: StateCrashed, Signal: testutil.Ptr(9), Err: testutil.Ptr("wait failed")},
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsAlive(); got != tt.want {
				t.Errorf("IsAlive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectInner(t *testing.T) {
	r := Rect{X: 10, Y: 5, W: 20, H: 14}
	inner := r.Inner()
	if inner != (Rect{X: 11, Y: 6, W: 18, H: 12}) {
		t.Fatalf("Inner() = %+v, want 1-cell border subtracted on every side", inner)
	}

	tiny := Rect{X: 0, Y: 0, W: 2, H: 2}
	if !tiny.Inner().Empty() {
		t.Fatalf("Inner() of a 2x2 rect = %+v, want empty", tiny.Inner())
	}
}

func TestMintPaneIDNeverRepeats(t *testing.T) {
	seen := make(map[PaneID]bool)
	for i := 0; i < 100; i++ {
		id := mintPaneID()
		if seen[id] {
			t.Fatalf("mintPaneID() repeated %d", id)
		}
		seen[id] = true
	}
}
