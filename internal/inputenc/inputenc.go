// Package inputenc translates semantic key events into the exact byte
// sequences a VT100-speaking child expects on its PTY.
package inputenc

// Key is the semantic code of one key event, independent of modifiers.
type Key int

const (
	KeyChar Key = iota // Rune holds the printable character
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEscape
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyDelete
	KeyInsert
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Modifiers is a bitset of held modifier keys.
type Modifiers uint8

const (
	ModNone  Modifiers = 0
	ModCtrl  Modifiers = 1 << iota
	ModAlt
	ModShift
)

func (m Modifiers) has(f Modifiers) bool { return m&f != 0 }

// Event is one semantic key press to encode.
type Event struct {
	Key  Key
	Rune rune // valid when Key == KeyChar
	Mods Modifiers
}

// csiTable maps the fixed-code keys to their CSI/SS3 byte sequences. Built
// as a lookup table rather than a switch, in the same style as a send-keys
// translation table: most entries are static byte literals, with only the
// printable-character and control-folding paths needing logic.
var csiTable = map[Key][]byte{
	KeyEnter:     {'\r'},
	KeyTab:       {'\t'},
	KeyBackspace: {0x7F},
	KeyEscape:    {0x1B},
	KeyUp:        {0x1B, '[', 'A'},
	KeyDown:      {0x1B, '[', 'B'},
	KeyRight:     {0x1B, '[', 'C'},
	KeyLeft:      {0x1B, '[', 'D'},
	KeyHome:      {0x1B, '[', 'H'},
	KeyEnd:       {0x1B, '[', 'F'},
	KeyPageUp:    {0x1B, '[', '5', '~'},
	KeyPageDown:  {0x1B, '[', '6', '~'},
	KeyDelete:    {0x1B, '[', '3', '~'},
	KeyInsert:    {0x1B, '[', '2', '~'},
	KeyF1:        {0x1B, 'O', 'P'},
	KeyF2:        {0x1B, 'O', 'Q'},
	KeyF3:        {0x1B, 'O', 'R'},
	KeyF4:        {0x1B, 'O', 'S'},
	KeyF5:        {0x1B, '[', '1', '5', '~'},
	KeyF6:        {0x1B, '[', '1', '7', '~'},
	KeyF7:        {0x1B, '[', '1', '8', '~'},
	KeyF8:        {0x1B, '[', '1', '9', '~'},
	KeyF9:        {0x1B, '[', '2', '0', '~'},
	KeyF10:       {0x1B, '[', '2', '1', '~'},
	KeyF11:       {0x1B, '[', '2', '3', '~'},
	KeyF12:       {0x1B, '[', '2', '4', '~'},
}

// Encode is a pure function from a key event to the byte sequence sent to
// the focused pane's PTY. An unmapped combination returns nil, which the
// router silently drops rather than sending.
func Encode(ev Event) []byte {
	if ev.Key == KeyChar {
		return encodeChar(ev.Rune, ev.Mods)
	}
	if seq, ok := csiTable[ev.Key]; ok {
		return seq
	}
	return nil
}

func encodeChar(r rune, mods Modifiers) []byte {
	switch {
	case mods.has(ModCtrl):
		lower := r
		if lower >= 'A' && lower <= 'Z' {
			lower = lower - 'A' + 'a'
		}
		if lower < 'a' || lower > 'z' {
			return nil
		}
		return []byte{byte(lower-'a') + 1}
	case mods.has(ModAlt):
		return append([]byte{0x1B}, byte(r))
	default:
		return []byte(string(r))
	}
}
