package paned

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/centy-project/paned/internal/testutil"
)

func TestEmulatorSnapshotCopiesCells(t *testing.T) {
	e := newEmulator(4, 10, 0)
	e.Feed([]byte("hi"))

	snap := e.Snapshot()
	if snap.Rows != 4 || snap.Cols != 10 {
		t.Fatalf("snapshot size = %dx%d, want 4x10", snap.Rows, snap.Cols)
	}
	if snap.Cells[0][0].Rune != 'h' || snap.Cells[0][1].Rune != 'i' {
		t.Fatalf("snapshot row 0 = %q%q, want \"hi\"", snap.Cells[0][0].Rune, snap.Cells[0][1].Rune)
	}
	if snap.CursorRow != 0 || snap.CursorCol != 2 {
		t.Fatalf("cursor = (%d,%d), want (0,2)", snap.CursorRow, snap.CursorCol)
	}

	// The snapshot must be a copy: later feeds never show up in it.
	e.Feed([]byte("!"))
	if snap.Cells[0][2].Rune != ' ' {
		t.Fatalf("snapshot aliased live emulator state: %q", snap.Cells[0][2].Rune)
	}
}

func TestEmulatorSnapshotDecodesAttributes(t *testing.T) {
	e := newEmulator(2, 10, 0)
	e.Feed([]byte("\x1b[1;3;4;7mX"))

	cell := e.Snapshot().Cells[0][0]
	if !cell.Bold || !cell.Italic || !cell.Underline || !cell.Inverse {
		t.Fatalf("cell attributes = %+v, want bold+italic+underline+inverse", cell)
	}
}

func TestEmulatorSnapshotDecodesColors(t *testing.T) {
	e := newEmulator(2, 10, 0)
	e.Feed([]byte("\x1b[31ma\x1b[38;2;10;20;30mb\x1b[0mc"))

	cells := e.Snapshot().Cells[0]
	if cells[0].Fg.Kind != ColorIndexed || cells[0].Fg.Indexed != 1 {
		t.Errorf("indexed cell fg = %+v, want indexed 1", cells[0].Fg)
	}
	if cells[1].Fg.Kind != ColorRGB || cells[1].Fg.R != 10 || cells[1].Fg.G != 20 || cells[1].Fg.B != 30 {
		t.Errorf("rgb cell fg = %+v, want rgb(10,20,30)", cells[1].Fg)
	}
	if cells[2].Fg.Kind != ColorDefault {
		t.Errorf("reset cell fg = %+v, want default", cells[2].Fg)
	}
}

func TestEmulatorResizeAdoptsNewGrid(t *testing.T) {
	e := newEmulator(4, 10, 0)
	e.Resize(6, 20)

	snap := e.Snapshot()
	if snap.Rows != 6 || snap.Cols != 20 {
		t.Fatalf("size after Resize = %dx%d, want 6x20", snap.Rows, snap.Cols)
	}
}

func TestOSCScannerRecognizesTitles(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "osc0 bel", input: "\x1b]0;hello\x07", want: "hello", ok: true},
		{name: "osc2 st", input: "\x1b]2;world\x1b\\", want: "world", ok: true},
		{name: "empty input", input: "", ok: false},
		{name: "osc10 ignored", input: "\x1b]10;?\x07", ok: false},
		{name: "plain text", input: "just text", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s oscScanner
			s.scan([]byte(tt.input))
			got, ok := s.take()
			if ok != tt.ok || got != tt.want {
				t.Errorf("take() = %q,%v want %q,%v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestOSCScannerSplitAcrossFeeds(t *testing.T) {
	var s oscScanner
	s.scan([]byte("\x1b]2;sp"))
	if _, ok := s.take(); ok {
		t.Fatal("title reported before terminator arrived")
	}
	s.scan([]byte("lit\x07"))
	got, ok := s.take()
	if !ok || got != "split" {
		t.Fatalf("take() = %q,%v want \"split\",true", got, ok)
	}
}

func TestPlainScannerCapturesStrippedLines(t *testing.T) {
	s := plainScanner{maxLines: 10}
	s.scan([]byte("\x1b[32mgreen\x1b[0m line\r\nsecond\n"))

	if len(s.lines) != 2 || s.lines[0] != "green line" || s.lines[1] != "second" {
		t.Fatalf("lines = %q, want [\"green line\" \"second\"]", s.lines)
	}
}

func TestPlainScannerDiscardsOnRepaint(t *testing.T) {
	s := plainScanner{maxLines: 10}
	s.scan([]byte("stale\x1b[2Jfresh\n"))

	if len(s.lines) != 1 || s.lines[0] != "fresh" {
		t.Fatalf("lines = %q, want [\"fresh\"] (erase-display discards the partial line)", s.lines)
	}
}

func TestPlainScannerTrimsToCapacity(t *testing.T) {
	logBuf := testutil.CaptureLogBuffer(t, slog.LevelDebug)

	s := plainScanner{maxLines: 2}
	s.scan([]byte("a\nb\nc\n"))

	if len(s.lines) != 2 || s.lines[0] != "b" || s.lines[1] != "c" {
		t.Fatalf("lines = %q, want oldest line trimmed to [\"b\" \"c\"]", s.lines)
	}
	if !strings.Contains(logBuf.String(), "trimmed scrollback") {
		t.Errorf("expected a trim debug log line, got %q", logBuf.String())
	}
}
