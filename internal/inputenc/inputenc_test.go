package inputenc

import (
	"bytes"
	"testing"
)

func TestEncodeControlLetters(t *testing.T) {
	for c := byte('a'); c <= 'z'; c++ {
		got := Encode(Event{Key: KeyChar, Rune: rune(c), Mods: ModCtrl})
		want := []byte{c - 'a' + 1}
		if !bytes.Equal(got, want) {
			t.Fatalf("Encode(Ctrl+%c) = %v, want %v", c, got, want)
		}
	}
}

func TestEncodeControlUppercaseFoldsToLower(t *testing.T) {
	got := Encode(Event{Key: KeyChar, Rune: 'A', Mods: ModCtrl})
	want := []byte{0x01}
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode(Ctrl+A) = %v, want %v", got, want)
	}
}

func TestEncodeAlt(t *testing.T) {
	got := Encode(Event{Key: KeyChar, Rune: 'x', Mods: ModAlt})
	want := []byte{0x1B, 'x'}
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode(Alt+x) = %v, want %v", got, want)
	}
}

func TestEncodePlainPrintable(t *testing.T) {
	got := Encode(Event{Key: KeyChar, Rune: '€'})
	want := []byte("€")
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode(plain €) = %v, want UTF-8 bytes %v", got, want)
	}
}

func TestEncodeNamedKeys(t *testing.T) {
	cases := []struct {
		key  Key
		want []byte
	}{
		{KeyEnter, []byte{'\r'}},
		{KeyTab, []byte{'\t'}},
		{KeyBackspace, []byte{0x7F}},
		{KeyEscape, []byte{0x1B}},
		{KeyUp, []byte("\x1b[A")},
		{KeyDown, []byte("\x1b[B")},
		{KeyRight, []byte("\x1b[C")},
		{KeyLeft, []byte("\x1b[D")},
		{KeyHome, []byte("\x1b[H")},
		{KeyEnd, []byte("\x1b[F")},
		{KeyPageUp, []byte("\x1b[5~")},
		{KeyPageDown, []byte("\x1b[6~")},
		{KeyDelete, []byte("\x1b[3~")},
		{KeyInsert, []byte("\x1b[2~")},
		{KeyF1, []byte("\x1bOP")},
		{KeyF5, []byte("\x1b[15~")},
		{KeyF12, []byte("\x1b[24~")},
	}
	for _, tc := range cases {
		got := Encode(Event{Key: tc.key})
		if !bytes.Equal(got, tc.want) {
			t.Fatalf("Encode(%v) = %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestEncodeUnmappedDrops(t *testing.T) {
	got := Encode(Event{Key: KeyChar, Rune: '1', Mods: ModCtrl})
	if got != nil {
		t.Fatalf("Encode(Ctrl+1) = %v, want nil (dropped)", got)
	}
}
