package paned

import (
	"errors"
	"testing"
	"time"
)

type fakePlugin struct {
	name        string
	priority    int
	refreshes   int
	initErr     error
	refreshErr  error
	shutdowns   int
	lastContext PluginContext
}

func (f *fakePlugin) Name() string { return f.name }

func (f *fakePlugin) Config() PluginConfig {
	return PluginConfig{RefreshInterval: time.Millisecond, Priority: f.priority}
}

func (f *fakePlugin) Init(ctx PluginContext) error { return f.initErr }

func (f *fakePlugin) Refresh(ctx PluginContext) error {
	f.refreshes++
	f.lastContext = ctx
	return f.refreshErr
}

func (f *fakePlugin) Render() StatusSegment {
	return StatusSegment{Content: f.name}
}

func (f *fakePlugin) Shutdown() { f.shutdowns++ }

func TestPluginRegistryRegisterOrdersByPriority(t *testing.T) {
	reg := NewPluginRegistry("/tmp")

	low := &fakePlugin{name: "low", priority: 10}
	high := &fakePlugin{name: "high", priority: 1}

	if err := reg.Register(low); err != nil {
		t.Fatalf("Register(low) error = %v", err)
	}
	if err := reg.Register(high); err != nil {
		t.Fatalf("Register(high) error = %v", err)
	}

	segs := reg.Segments()
	if len(segs) != 2 {
		t.Fatalf("Segments() len = %d, want 2", len(segs))
	}
	if segs[0].Content != "high" || segs[1].Content != "low" {
		t.Errorf("Segments() = %+v, want high before low", segs)
	}
}

func TestPluginRegistryRejectsDuplicateName(t *testing.T) {
	reg := NewPluginRegistry("/tmp")
	if err := reg.Register(&fakePlugin{name: "dup"}); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	err := reg.Register(&fakePlugin{name: "dup"})
	if err == nil {
		t.Fatal("expected error registering a duplicate plugin name")
	}
	var pe *Error
	if !errors.As(err, &pe) || pe.Kind != ErrKindInitFailed {
		t.Errorf("error = %v, want ErrKindInitFailed", err)
	}
}

func TestPluginRegistryInitFailurePropagates(t *testing.T) {
	reg := NewPluginRegistry("/tmp")
	boom := errors.New("boom")
	err := reg.Register(&fakePlugin{name: "broken", initErr: boom})
	if err == nil {
		t.Fatal("expected error from failing Init")
	}
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapping %v", err, boom)
	}
}

func TestPluginRegistryTickRefreshes(t *testing.T) {
	reg := NewPluginRegistry("/tmp")
	p := &fakePlugin{name: "ticking"}
	if err := reg.Register(p); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	// Register already does one synchronous Refresh.
	if p.refreshes != 1 {
		t.Fatalf("refreshes after Register() = %d, want 1", p.refreshes)
	}

	time.Sleep(2 * time.Millisecond)
	reg.UpdateContext(PaneID(7), 3, 120)
	reg.Tick()

	if p.refreshes != 2 {
		t.Errorf("refreshes after Tick() = %d, want 2", p.refreshes)
	}
	if p.lastContext.FocusedPane != PaneID(7) || p.lastContext.PaneCount != 3 || p.lastContext.TerminalWidth != 120 {
		t.Errorf("lastContext = %+v, want updated context", p.lastContext)
	}
}

func TestPluginRegistryUnregisterShutsDown(t *testing.T) {
	reg := NewPluginRegistry("/tmp")
	p := &fakePlugin{name: "leaving"}
	if err := reg.Register(p); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	reg.Unregister("leaving")
	if p.shutdowns != 1 {
		t.Errorf("shutdowns = %d, want 1", p.shutdowns)
	}
	if len(reg.Segments()) != 0 {
		t.Errorf("Segments() after Unregister() = %v, want empty", reg.Segments())
	}
}

func TestManagerPluginsDisabledByDefault(t *testing.T) {
	m := NewManager()
	err := m.RegisterPlugin(&fakePlugin{name: "noop"})
	var pe *Error
	if !errors.As(err, &pe) || pe.Kind != ErrKindInitFailed {
		t.Fatalf("RegisterPlugin() without WithPlugins error = %v, want ErrKindInitFailed", err)
	}
	if segs := m.StatusBarSegments(); segs != nil {
		t.Errorf("StatusBarSegments() = %v, want nil when plugins disabled", segs)
	}
	m.TickPlugins() // must not panic
}

func TestManagerWithPluginsRegistersAndTicks(t *testing.T) {
	m := NewManager().WithPlugins("/tmp")
	p := &fakePlugin{name: "status"}
	if err := m.RegisterPlugin(p); err != nil {
		t.Fatalf("RegisterPlugin() error = %v", err)
	}
	segs := m.StatusBarSegments()
	if len(segs) != 1 || segs[0].Content != "status" {
		t.Errorf("StatusBarSegments() = %+v, want one status segment", segs)
	}

	time.Sleep(2 * time.Millisecond)
	m.TickPlugins()
	if p.refreshes < 2 {
		t.Errorf("refreshes = %d, want at least 2 after a tick", p.refreshes)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if p.shutdowns != 1 {
		t.Errorf("shutdowns = %d, want 1 after Close()", p.shutdowns)
	}
}
