package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/centy-project/paned"
)

// cell mirrors paned.Cell with the minimal fields screenBuf paints.
type cell struct {
	r                       rune
	fg, bg                  paned.Color
	bold, italic, underline bool
}

// screenBuf is the demo's ScreenBuffer implementation: a flat grid that
// flush() renders as one ANSI escape sequence per frame. It does not diff
// against the previous frame — a real host would, but that belongs to the
// frame-scheduling loop the library explicitly treats as an external
// collaborator.
type screenBuf struct {
	w, h  int
	cells []cell
}

func newScreenBuf(w, h int) *screenBuf {
	b := &screenBuf{w: w, h: h}
	b.cells = make([]cell, w*h)
	b.reset()
	return b
}

func (b *screenBuf) reset() {
	for i := range b.cells {
		b.cells[i] = cell{r: ' '}
	}
}

// SetCell implements paned.ScreenBuffer.
func (b *screenBuf) SetCell(x, y int, r rune, fg, bg paned.Color, bold, italic, underline bool) {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return
	}
	b.cells[y*b.w+x] = cell{r: r, fg: fg, bg: bg, bold: bold, italic: italic, underline: underline}
}

func (b *screenBuf) flush(w io.Writer) {
	var sb strings.Builder
	sb.WriteString("\x1b[H")

	var cur cell
	first := true
	for y := 0; y < b.h; y++ {
		for x := 0; x < b.w; x++ {
			c := b.cells[y*b.w+x]
			if first || c.fg != cur.fg || c.bg != cur.bg || c.bold != cur.bold || c.italic != cur.italic || c.underline != cur.underline {
				sb.WriteString(sgr(c))
				cur = c
				first = false
			}
			sb.WriteRune(c.r)
		}
		if y != b.h-1 {
			sb.WriteString("\x1b[0m\r\n")
			first = true
		}
	}
	sb.WriteString("\x1b[0m")
	_, _ = io.WriteString(w, sb.String())
}

func sgr(c cell) string {
	codes := []string{"0"}
	if c.bold {
		codes = append(codes, "1")
	}
	if c.italic {
		codes = append(codes, "3")
	}
	if c.underline {
		codes = append(codes, "4")
	}
	codes = append(codes, colorCode(c.fg, false), colorCode(c.bg, true))
	return "\x1b[" + strings.Join(codes, ";") + "m"
}

func colorCode(col paned.Color, background bool) string {
	base := 30
	if background {
		base = 40
	}
	switch col.Kind {
	case paned.ColorIndexed:
		if background {
			return fmt.Sprintf("48;5;%d", col.Indexed)
		}
		return fmt.Sprintf("38;5;%d", col.Indexed)
	case paned.ColorRGB:
		if background {
			return fmt.Sprintf("48;2;%d;%d;%d", col.R, col.G, col.B)
		}
		return fmt.Sprintf("38;2;%d;%d;%d", col.R, col.G, col.B)
	default:
		return fmt.Sprintf("%d", base+9) // default fg/bg
	}
}
