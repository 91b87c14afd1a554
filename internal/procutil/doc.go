// Package procutil provides cross-platform process utilities.
// Currently exposes HideWindow, which prevents console window flash on
// Windows when a pane's pipe-mode fallback (terminal.startPipeMode) starts a
// shell via exec.Command; ConPTY and creack/pty panes never need it.
package procutil
