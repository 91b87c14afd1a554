package paned

import (
	"context"
	"sync"

	"github.com/centy-project/paned/internal/workerutil"
)

// launchWorkers starts the Reader, Writer, and Monitor goroutines for one
// pane. Each is wrapped in the panic-recovery supervisor with MaxRetries=1:
// these workers never restart themselves on a normal termination path (EOF,
// write error, process exit), only a panic is caught and reported as a
// Crashed transition instead of taking the process down.
func launchWorkers(ctx context.Context, wg *sync.WaitGroup, mp *managedPane, events *eventQueue) {
	recoveryOpts := workerutil.RecoveryOptions{
		MaxRetries: 1,
		OnFatal: func(name string, _ int) {
			reportCrash(mp, events, name+" panicked")
		},
	}

	workerutil.RunWithPanicRecovery(ctx, "reader", wg, func(ctx context.Context) {
		runReader(mp, events)
	}, recoveryOpts)

	workerutil.RunWithPanicRecovery(ctx, "writer", wg, func(ctx context.Context) {
		runWriter(ctx, mp)
	}, recoveryOpts)

	workerutil.RunWithPanicRecovery(ctx, "monitor", wg, func(ctx context.Context) {
		runMonitor(mp, events)
	}, recoveryOpts)
}

// runReader owns the PTY master read side. Each raw read is handed to the
// pane's output buffer, which coalesces bursty output before it reaches
// feedEmulator (see outputBatchInterval/outputBatchMaxBytes in pane.go). It
// terminates on EOF or read error (the child died or closed its terminal).
func runReader(mp *managedPane, events *eventQueue) {
	mp.term.ReadLoop(func(chunk []byte) {
		mp.outbuf.Write(chunk)
	})
}

// feedEmulator applies one batched chunk of PTY output to the emulator and
// publishes the advisory Output/TitleChanged events that follow from it.
// Called from the output buffer's flush path, either the Reader goroutine
// (threshold flush) or the buffer's own ticker goroutine (interval flush).
func feedEmulator(mp *managedPane, events *eventQueue, batch []byte) {
	if len(batch) == 0 {
		return
	}
	mp.handle.emu.Feed(batch)
	events.push(Event{Kind: EventOutput, PaneID: mp.handle.id, Size: len(batch)})
	if title, changed := mp.handle.emu.TitleIfChanged(); changed {
		mp.handle.title.Store(&title)
		events.push(Event{Kind: EventTitleChanged, PaneID: mp.handle.id, Title: title})
	}
}

// runWriter drains the pane's bounded input queue, writing each vector in
// full. It terminates when the queue is closed (pane torn down) or a write
// fails (the child's controlling terminal is gone).
func runWriter(ctx context.Context, mp *managedPane) {
	q := mp.handle.input
	for {
		select {
		case data := <-q.ch:
			if _, err := mp.term.Write(data); err != nil {
				return
			}
		case <-q.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// runMonitor waits for the child to exit and publishes the terminal state
// transition to both the state watch and the manager's event queue. Here
// Crashed comes only from a failed wait (the other source of Crashed is
// reportCrash, on a worker panic); a signal-killed child surfaces as a
// nonzero Exited code instead.
func runMonitor(mp *managedPane, events *eventQueue) {
	result, err := mp.term.Wait()
	id := mp.handle.id
	if err != nil {
		msg := err.Error()
		st := PaneState{Kind: StateCrashed, Err: &msg}
		mp.handle.state.Store(&st)
		events.push(Event{Kind: EventCrashed, PaneID: id, Err: msg})
		return
	}
	st := PaneState{Kind: StateExited, Code: result.Code}
	mp.handle.state.Store(&st)
	events.push(Event{Kind: EventExited, PaneID: id, Code: result.Code})
}

// reportCrash is invoked by the panic-recovery supervisor when a worker
// exhausts its (single) retry budget, surfacing the panic the same way a
// Monitor wait failure would.
func reportCrash(mp *managedPane, events *eventQueue, reason string) {
	st := PaneState{Kind: StateCrashed, Err: &reason}
	mp.handle.state.Store(&st)
	events.push(Event{Kind: EventCrashed, PaneID: mp.handle.id, Err: reason})
}
