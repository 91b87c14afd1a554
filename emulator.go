package paned

import (
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/hinshun/vt10x"
)

// vt10x packs a glyph's text attributes into Mode bits and its colors into a
// single uint32: values below 256 are palette indices, values at or above
// colorDefault mark the terminal default, and anything between is a packed
// 24-bit RGB triple.
const (
	attrReverse   = 0x01
	attrUnderline = 0x02
	attrBold      = 0x04
	attrItalic    = 0x10

	colorDefault vt10x.Color = 1 << 24
)

// emulator owns one pane's VT100 state and scrollback, guarded by its own
// reader/writer lock. The Reader worker is the sole writer; the painter and
// any caller of ScreenSnapshot are readers. The lock is never held across a
// host-level await -- every exported method here takes the lock, does its
// work, and releases it before returning.
type emulator struct {
	mu    sync.RWMutex
	term  vt10x.Terminal
	title string
	osc   oscScanner
	plain plainScanner
}

func newEmulator(rows, cols, scrollbackLines int) *emulator {
	if rows <= 0 {
		rows = defaultRows
	}
	if cols <= 0 {
		cols = defaultCols
	}
	e := &emulator{
		term: vt10x.New(vt10x.WithSize(cols, rows)),
	}
	e.plain.maxLines = scrollbackLines
	return e
}

// Feed parses a chunk of child output into the terminal grid and advances
// the OSC title and plain-history scanners. Called only by a pane's Reader
// worker.
func (e *emulator) Feed(data []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, _ = e.term.Write(data)
	e.osc.scan(data)
	e.plain.scan(data)
}

// TitleIfChanged reports a new OSC 0/2 window title, if the last Feed call
// produced one, and clears the pending flag.
func (e *emulator) TitleIfChanged() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.osc.take()
	if !ok {
		return "", false
	}
	e.title = t
	return t, true
}

// Title returns the most recently observed window title.
func (e *emulator) Title() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.title
}

// Resize adopts a new grid size; the manager keeps this equal to the
// pane's inner area on every resize fan-out.
func (e *emulator) Resize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.term.Resize(cols, rows)
}

// Snapshot copies the current grid, cursor, and dimensions into an
// immutable value that never aliases memory owned by the emulator.
func (e *emulator) Snapshot() ScreenSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	e.term.Lock()
	defer e.term.Unlock()

	cols, rows := e.term.Size()
	cells := make([][]Cell, rows)
	for y := 0; y < rows; y++ {
		row := make([]Cell, cols)
		for x := 0; x < cols; x++ {
			g := e.term.Cell(x, y)
			r := g.Char
			if r == 0 {
				r = ' '
			}
			row[x] = Cell{
				Rune:      r,
				Fg:        convertColor(g.FG),
				Bg:        convertColor(g.BG),
				Bold:      g.Mode&attrBold != 0,
				Italic:    g.Mode&attrItalic != 0,
				Underline: g.Mode&attrUnderline != 0,
				Inverse:   g.Mode&attrReverse != 0,
			}
		}
		cells[y] = row
	}

	cursor := e.term.Cursor()
	return ScreenSnapshot{
		Cells:     cells,
		CursorRow: cursor.Y,
		CursorCol: cursor.X,
		Rows:      rows,
		Cols:      cols,
	}
}

// CursorVisible reports whether the emulator's cursor should be painted.
func (e *emulator) CursorVisible() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	e.term.Lock()
	defer e.term.Unlock()
	return e.term.CursorVisible()
}

// Scrollback returns a copy of the captured plain-text history lines, most
// recent last.
func (e *emulator) Scrollback() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, len(e.plain.lines))
	copy(out, e.plain.lines)
	return out
}

func convertColor(c vt10x.Color) Color {
	switch {
	case c >= colorDefault:
		return Color{Kind: ColorDefault}
	case c < 256:
		return Color{Kind: ColorIndexed, Indexed: uint8(c)}
	default:
		return Color{
			Kind: ColorRGB,
			R:    uint8(c >> 16),
			G:    uint8(c >> 8),
			B:    uint8(c),
		}
	}
}

// oscScanner is a minimal OSC 0/2 (window title) recognizer run over raw PTY
// output as it streams past, independent of the emulator's own grid state.
// Other OSC codes are consumed and discarded.
type oscScanner struct {
	state   oscState
	code    []byte
	body    []byte
	pending string
	hasNew  bool
}

type oscState int

const (
	oscIdle oscState = iota
	oscEsc
	oscCode
	oscBody
	oscBodyEsc
)

func (s *oscScanner) scan(data []byte) {
	for _, b := range data {
		switch s.state {
		case oscIdle:
			if b == 0x1B {
				s.state = oscEsc
			}
		case oscEsc:
			if b == ']' {
				s.state = oscCode
				s.code = s.code[:0]
			} else {
				s.state = oscIdle
			}
		case oscCode:
			if b == ';' {
				s.state = oscBody
				s.body = s.body[:0]
			} else if b >= '0' && b <= '9' {
				s.code = append(s.code, b)
			} else {
				s.state = oscIdle
			}
		case oscBody:
			switch b {
			case 0x07:
				s.finish()
			case 0x1B:
				s.state = oscBodyEsc
			default:
				s.body = append(s.body, b)
			}
		case oscBodyEsc:
			if b == '\\' {
				s.finish()
			} else {
				s.state = oscIdle
			}
		}
	}
}

func (s *oscScanner) finish() {
	if string(s.code) == "0" || string(s.code) == "2" {
		s.pending = string(s.body)
		s.hasNew = true
	}
	s.state = oscIdle
}

func (s *oscScanner) take() (string, bool) {
	if !s.hasNew {
		return "", false
	}
	s.hasNew = false
	return s.pending, true
}

// plainScanner captures ANSI-stripped logical output lines from raw PTY
// bytes as the pane's scrollback. Cursor-repositioning and erase-display
// CSIs discard the partial line so TUI repaints do not corrupt the history.
// A maxLines of zero disables capture entirely.
type plainScanner struct {
	state    plainState
	line     []rune
	lines    []string
	maxLines int
}

type plainState int

const (
	plainNormal plainState = iota
	plainEsc
	plainCSI
	plainOSC
	plainOSCEsc
)

func (s *plainScanner) scan(data []byte) {
	if s.maxLines <= 0 {
		return
	}
	for len(data) > 0 {
		r, sz := utf8.DecodeRune(data)
		if r == utf8.RuneError && sz == 1 {
			r = rune(data[0])
		}
		data = data[sz:]

		switch s.state {
		case plainEsc:
			switch r {
			case '[':
				s.state = plainCSI
			case ']':
				s.state = plainOSC
			default:
				s.state = plainNormal
			}
			continue
		case plainCSI:
			if r >= 0x40 && r <= 0x7E {
				if r == 'H' || r == 'f' || r == 'J' {
					s.line = s.line[:0]
				}
				s.state = plainNormal
			}
			continue
		case plainOSC:
			if r == 0x07 {
				s.state = plainNormal
			} else if r == 0x1B {
				s.state = plainOSCEsc
			}
			continue
		case plainOSCEsc:
			if r == '\\' {
				s.state = plainNormal
			} else if r != 0x1B {
				s.state = plainOSC
			}
			continue
		}

		switch r {
		case 0x1B:
			s.state = plainEsc
		case '\r':
			// Column reset only; clearing here would turn CRLF output into
			// empty history lines.
		case '\n':
			s.appendLine(string(s.line))
			s.line = s.line[:0]
		case 0x08, 0x7F:
			if len(s.line) > 0 {
				s.line = s.line[:len(s.line)-1]
			}
		case '\t':
			s.line = append(s.line, ' ', ' ', ' ', ' ')
		default:
			if r >= 0x20 {
				s.line = append(s.line, r)
			}
		}
	}
}

func (s *plainScanner) appendLine(line string) {
	s.lines = append(s.lines, line)
	if len(s.lines) > s.maxLines {
		trimmed := len(s.lines) - s.maxLines
		dropped := 0
		for _, l := range s.lines[:trimmed] {
			dropped += len(l)
		}
		s.lines = s.lines[trimmed:]
		slog.Debug("[DEBUG-EMULATOR] trimmed scrollback",
			"lines", trimmed, "size", humanize.Bytes(uint64(dropped)))
	}
}
