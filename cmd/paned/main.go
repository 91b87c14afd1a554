// Command paned is a minimal terminal host that exercises the paned
// library end to end: it loads a YAML ManagerConfig, spawns -panes
// default-shell panes (clamped to 1..4), puts the controlling
// terminal into raw mode, and drives a read/route/render loop until every
// pane has exited or the host receives SIGINT/SIGTERM.
//
// It is a hand-run integration point for maintainers, not part of the
// library's test surface.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/centy-project/paned"
	"github.com/centy-project/paned/internal/config"
	"github.com/centy-project/paned/internal/inputenc"
	"github.com/centy-project/paned/plugins/gituser"
)

func main() {
	configPath := flag.String("config", "", "path to a ManagerConfig YAML document")
	shells := flag.Int("panes", 1, "number of default-shell panes to spawn (max 4)")
	withPlugins := flag.Bool("plugins", false, "enable the status-bar plugin registry")
	flag.Parse()

	slog.SetLogLoggerLevel(slog.LevelInfo)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "paned: loading config: %v\n", err)
		os.Exit(1)
	}

	m := paned.NewManagerWithConfig(cfg)
	if *withPlugins || cfg.PluginsEnabled {
		cwd, _ := os.Getwd()
		m = m.WithPlugins(cwd)
		if err := m.RegisterPlugin(gituser.New()); err != nil {
			slog.Warn("[WARN-DEMO] git-user plugin registration failed", "error", err)
		}
	}

	cols, rows := 80, 24
	if w, h, err := term.GetSize(int(os.Stdin.Fd())); err == nil {
		cols, rows = w, h
	}
	m.SetTerminalSize(paned.Rect{X: 0, Y: 0, W: cols, H: rows})

	n := *shells
	if n < 1 {
		n = 1
	}
	if n > 4 {
		n = 4
	}
	for i := 0; i < n; i++ {
		if _, err := m.Spawn(paned.SpawnConfig{}); err != nil {
			fmt.Fprintf(os.Stderr, "paned: spawn: %v\n", err)
			os.Exit(1)
		}
	}

	restore, err := enterRawMode(int(os.Stdin.Fd()))
	if err != nil {
		slog.Warn("[WARN-DEMO] could not enter raw mode, falling back to line mode", "error", err)
	} else {
		defer restore()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	widget := paned.NewWidget()
	buf := newScreenBuf(cols, rows)

	stdinCh := make(chan byte, 4096)
	go readStdin(stdinCh)

	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			_ = m.Close()
			return
		case b, ok := <-stdinCh:
			if !ok {
				_ = m.Close()
				return
			}
			if b == 0x11 { // Ctrl-Q: quit the demo
				_ = m.Close()
				return
			}
			if b == 0x0E { // Ctrl-N: cycle focus
				m.FocusNext()
				continue
			}
			_ = m.RouteKey(inputenc.Event{Key: inputenc.KeyChar, Rune: rune(b)})
		case <-ticker.C:
			m.TickPlugins()
			for _, ev := range m.PollEvents() {
				logEvent(ev)
			}
			alive := false
			for _, id := range m.PaneIDs() {
				if h, ok := m.GetPane(id); ok && h.IsAlive() {
					alive = true
					break
				}
			}
			if !alive {
				_ = m.Close()
				return
			}
			buf.reset()
			widget.Render(buf, m)
			buf.flush(os.Stdout)
		}
	}
}

func readStdin(out chan<- byte) {
	defer close(out)
	b := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(b)
		if n > 0 {
			out <- b[0]
		}
		if err != nil {
			return
		}
	}
}

func logEvent(ev paned.Event) {
	switch ev.Kind {
	case paned.EventExited:
		slog.Info("[INFO-DEMO] pane exited", "pane", ev.PaneID, "code", ev.Code)
	case paned.EventCrashed:
		slog.Warn("[WARN-DEMO] pane crashed", "pane", ev.PaneID, "error", ev.Err)
	case paned.EventTitleChanged:
		slog.Debug("[DEBUG-DEMO] pane title changed", "pane", ev.PaneID, "title", ev.Title)
	}
}
