package paned

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/centy-project/paned/internal/terminal"
)

// inputQueueCapacity is the bound on a pane's writer input queue: SendInput
// suspends once this many pending byte vectors are queued, rather than
// dropping input.
const inputQueueCapacity = 256

// PaneHandle is the clonable, thread-safe façade for one pane exposed to a
// host application. All fields are either immutable or guarded
// by their own synchronization, so a PaneHandle may be freely shared and
// copied across goroutines.
type PaneHandle struct {
	id    PaneID
	state *atomic.Pointer[PaneState]
	emu   *emulator
	input *inputQueue
	title *atomic.Pointer[string]
}

// ID returns the pane's identifier.
func (h *PaneHandle) ID() PaneID { return h.id }

// State returns a synchronous snapshot of the pane's current lifecycle
// state, never blocking on the Monitor worker.
func (h *PaneHandle) State() PaneState {
	return *h.state.Load()
}

// IsAlive reports whether the pane is Running or Paused.
func (h *PaneHandle) IsAlive() bool { return h.State().IsAlive() }

// Title returns the pane's most recently observed OSC window title, or the
// empty string if none has been reported yet.
func (h *PaneHandle) Title() string {
	if t := h.title.Load(); t != nil {
		return *t
	}
	return ""
}

// ScreenSnapshot returns an immutable copy of the pane's VT100 grid, safe to
// read concurrently with the Reader worker feeding new output.
func (h *PaneHandle) ScreenSnapshot() ScreenSnapshot {
	return h.emu.Snapshot()
}

// SendInput enqueues bytes for the pane's Writer worker. It suspends
// (applies backpressure) once the input queue is full rather than dropping
// bytes, and returns PaneClosed once the writer has torn down.
func (h *PaneHandle) SendInput(data []byte) error {
	return h.input.send(h.id, data)
}

// inputQueue is the per-pane bounded MPSC queue of pending byte vectors
// drained by the Writer worker. Closing it (via close()) makes
// every blocked and future SendInput return PaneClosed instead of panicking
// on a closed channel.
type inputQueue struct {
	ch   chan []byte
	done chan struct{}
	once sync.Once
}

func newInputQueue() *inputQueue {
	return &inputQueue{
		ch:   make(chan []byte, inputQueueCapacity),
		done: make(chan struct{}),
	}
}

func (q *inputQueue) send(id PaneID, data []byte) error {
	buf := append([]byte(nil), data...)
	select {
	case q.ch <- buf:
		return nil
	case <-q.done:
		return errPaneClosed(id)
	}
}

func (q *inputQueue) close() {
	q.once.Do(func() { close(q.done) })
}

// managedPane is the manager's internal record for one live pane: it owns
// the PaneHandle, the PTY master (for resize/close), and the lifetimes of
// the three worker goroutines. Tearing down a managedPane cancels all three
// workers.
type managedPane struct {
	handle *PaneHandle
	term   *terminal.Terminal
	outbuf *terminal.OutputBuffer

	cancel context.CancelFunc
	wg     sync.WaitGroup

	spawnID string // uuid correlating this pane's worker log lines
}

// outputBatchInterval and outputBatchMaxBytes bound how long the Reader
// worker coalesces PTY output before feeding the emulator: whichever limit
// is hit first triggers a flush. This keeps a pane producing output in a
// tight loop (e.g. `yes`, a big `cat`) from taking the emulator's write
// lock once per 32KB read when a handful of larger feeds would do.
const (
	outputBatchInterval = 16 * time.Millisecond
	outputBatchMaxBytes = 8 * 1024
)

// spawnPane opens a PTY, starts the child described by cfg, and launches the
// three supervised workers. No pane is registered with the caller on error:
// spawn failures surface directly, leaving nothing behind to clean up.
func spawnPane(id PaneID, cfg SpawnConfig, scrollbackDefault int, events *eventQueue) (*managedPane, error) {
	scrollback := cfg.ScrollbackLines
	if scrollback <= 0 {
		scrollback = scrollbackDefault
	}

	rows, cols := cfg.Size.Rows, cfg.Size.Cols
	if rows == 0 || cols == 0 {
		rows, cols = defaultRows, defaultCols
	}

	spawnID := uuid.NewString()
	shell := cfg.Command
	if shell == "" {
		shell = defaultShell()
	}

	tcfg := terminal.Config{
		Shell:   shell,
		Args:    cfg.Args,
		Dir:     cfg.Dir,
		Env:     mergeEnv(cfg.Env),
		Columns: int(cols),
		Rows:    int(rows),
	}

	term, err := terminal.Start(tcfg)
	if err != nil {
		slog.Warn("[DEBUG-PANE] spawn failed", "spawn_id", spawnID, "pane_id", id, "error", err)
		return nil, newPaneErr(ErrKindPtySpawn, id, err.Error(), err)
	}

	emu := newEmulator(int(rows), int(cols), scrollback)

	state := &atomic.Pointer[PaneState]{}
	running := PaneState{Kind: StateRunning}
	state.Store(&running)

	title := &atomic.Pointer[string]{}

	mp := &managedPane{
		handle: &PaneHandle{
			id:    id,
			state: state,
			emu:   emu,
			input: newInputQueue(),
			title: title,
		},
		term:    term,
		spawnID: spawnID,
	}
	mp.outbuf = terminal.NewOutputBuffer(outputBatchInterval, outputBatchMaxBytes, func(batch []byte) {
		feedEmulator(mp, events, batch)
	})
	mp.outbuf.Start()

	ctx, cancel := context.WithCancel(context.Background())
	mp.cancel = cancel

	launchWorkers(ctx, &mp.wg, mp, events)

	slog.Debug("[DEBUG-PANE] spawned", "spawn_id", spawnID, "pane_id", id, "rows", rows, "cols", cols)
	return mp, nil
}

// close cancels the pane's three workers, closes the input queue so any
// blocked SendInput returns PaneClosed, and releases the PTY.
func (mp *managedPane) close() error {
	mp.cancel()
	mp.handle.input.close()
	err := mp.term.Close()
	mp.wg.Wait()
	mp.outbuf.Stop() // flushes any trailing batched output once the Reader has stopped writing to it
	return err
}

// resize adopts rows/cols for both the PTY and the emulator, keeping the
// two in lockstep with the pane's inner paint area.
func (mp *managedPane) resize(rows, cols int) error {
	if err := mp.term.Resize(cols, rows); err != nil {
		return newPaneErr(ErrKindResize, mp.handle.id, err.Error(), err)
	}
	mp.handle.emu.Resize(rows, cols)
	return nil
}

func defaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

func mergeEnv(extra map[string]string) []string {
	if len(extra) == 0 {
		return nil
	}
	base := os.Environ()
	out := make([]string, 0, len(base)+len(extra))
	overridden := make(map[string]bool, len(extra))
	for k, v := range extra {
		out = append(out, fmt.Sprintf("%s=%s", k, v))
		overridden[k] = true
	}
	for _, kv := range base {
		if idx := indexByte(kv, '='); idx >= 0 && overridden[kv[:idx]] {
			continue
		}
		out = append(out, kv)
	}
	return out
}

func indexByte(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}
