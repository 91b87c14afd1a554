package main

import "golang.org/x/term"

// enterRawMode puts fd into raw mode and returns a func that restores it.
// golang.org/x/term handles the POSIX/Windows split internally, so this
// host never needs its own build-tagged syscalls.
func enterRawMode(fd int) (func(), error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() { _ = term.Restore(fd, state) }, nil
}
