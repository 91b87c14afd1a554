package paned

import "fmt"

// ErrorKind classifies the failure modes a PaneManager or PaneHandle can
// surface. Background-worker failures never reach the caller as an error;
// they manifest as state transitions and events (see EventKind).
type ErrorKind int

const (
	// ErrKindPtySpawn indicates the child process could not be started.
	ErrKindPtySpawn ErrorKind = iota
	// ErrKindPtyCreate indicates the PTY pair itself could not be allocated.
	ErrKindPtyCreate
	// ErrKindPty is a generic underlying PTY I/O failure.
	ErrKindPty
	// ErrKindPaneClosed indicates the pane's writer queue is gone.
	ErrKindPaneClosed
	// ErrKindPaneNotFound indicates the referenced PaneId has no live pane.
	ErrKindPaneNotFound
	// ErrKindLayout indicates a layout capacity or invariant violation.
	ErrKindLayout
	// ErrKindResize indicates an explicit resize_pane call failed.
	ErrKindResize
	// ErrKindInputSend indicates enqueueing input bytes failed.
	ErrKindInputSend
	// ErrKindProcessMonitor indicates the monitor worker could not wait on
	// the child process.
	ErrKindProcessMonitor
	// ErrKindInitFailed indicates a plugin failed Init or its initial Refresh
	// during registration.
	ErrKindInitFailed
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindPtySpawn:
		return "PtySpawn"
	case ErrKindPtyCreate:
		return "PtyCreate"
	case ErrKindPty:
		return "Pty"
	case ErrKindPaneClosed:
		return "PaneClosed"
	case ErrKindPaneNotFound:
		return "PaneNotFound"
	case ErrKindLayout:
		return "Layout"
	case ErrKindResize:
		return "Resize"
	case ErrKindInputSend:
		return "InputSend"
	case ErrKindProcessMonitor:
		return "ProcessMonitor"
	case ErrKindInitFailed:
		return "InitFailed"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by every public operation in
// this package. It always carries a Kind so callers can switch on category
// without string matching, and optionally wraps an underlying cause.
type Error struct {
	Kind   ErrorKind
	PaneID PaneID // zero value when not pane-specific
	Reason string
	Cause  error
}

func (e *Error) Error() string {
	switch {
	case e.PaneID != 0 && e.Reason != "":
		return fmt.Sprintf("%s: pane %d: %s", e.Kind, e.PaneID, e.Reason)
	case e.PaneID != 0:
		return fmt.Sprintf("%s: pane %d", e.Kind, e.PaneID)
	case e.Reason != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Cause }

func newErr(kind ErrorKind, reason string, cause error) *Error {
	return &Error{Kind: kind, Reason: reason, Cause: cause}
}

func newPaneErr(kind ErrorKind, id PaneID, reason string, cause error) *Error {
	return &Error{Kind: kind, PaneID: id, Reason: reason, Cause: cause}
}

// errPaneNotFound builds the PaneNotFound(id) error named in the error kind
// table.
func errPaneNotFound(id PaneID) *Error {
	return newPaneErr(ErrKindPaneNotFound, id, "no live pane with this id", nil)
}

// errPaneClosed builds the PaneClosed error for a writer queue that is gone.
func errPaneClosed(id PaneID) *Error {
	return newPaneErr(ErrKindPaneClosed, id, "writer queue closed", nil)
}
