package daemon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/ipc"
)

func writeConfig(t *testing.T, path string, minWidth int) {
	t.Helper()
	data := fmt.Sprintf(`watch_config: true
viewport:
  source: static
  width: 1280
  height: 800
windows:
  min_width: %d
logging:
  enabled: false
`, minWidth)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func startDaemon(t *testing.T) (*Daemon, *ipc.Client, string) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	writeConfig(t, cfgPath, 280)

	d, err := New(Options{
		ConfigPath:        cfgPath,
		SocketPath:        filepath.Join(dir, "rd.sock"),
		Logger:            quietLogger(),
		ReconcileInterval: 20 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run: %v", err)
		}
	})

	c := ipc.NewClientAt(d.SocketPath())
	waitFor(t, "daemon socket", func() bool { return c.Ping() == nil })
	return d, c, cfgPath
}

func TestDaemon_ServesWindows(t *testing.T) {
	d, c, _ := startDaemon(t)

	w, err := c.Open(ipc.OpenPayload{ID: "about"})
	if err != nil || w == nil {
		t.Fatalf("Open: %+v, %v", w, err)
	}
	if got := d.Desktop().Registry.ActiveID(); got != "about" {
		t.Fatalf("expected about active, got %q", got)
	}
}

func TestDaemon_ReloadsOnFileChange(t *testing.T) {
	d, _, cfgPath := startDaemon(t)

	writeConfig(t, cfgPath, 320)
	waitFor(t, "min width 320", func() bool {
		return d.Desktop().Config().Windows.MinWidth == 320
	})

	// A broken file keeps the running config.
	if err := os.WriteFile(cfgPath, []byte("windows: ["), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	time.Sleep(3 * watchDebounce)
	if got := d.Desktop().Config().Windows.MinWidth; got != 320 {
		t.Fatalf("expected config kept after bad reload, got min width %d", got)
	}
}

func TestDaemon_ReconcilesAfterViewportChange(t *testing.T) {
	d, c, _ := startDaemon(t)

	pos := geometry.Point{X: 1200, Y: 700}
	size := geometry.Size{Width: 300, Height: 200}
	if _, err := c.Open(ipc.OpenPayload{ID: "far", Position: &pos, Size: &size}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := c.SetViewport(geometry.Size{Width: 1024, Height: 600}); err != nil {
		t.Fatalf("SetViewport: %v", err)
	}

	waitFor(t, "far pulled into view", func() bool {
		w, ok := d.Desktop().Registry.Window("far")
		return ok && w.Position == (geometry.Point{X: 984, Y: 512})
	})
}

func TestNew_BadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("windows: ["), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := New(Options{ConfigPath: cfgPath, SocketPath: filepath.Join(dir, "rd.sock"), Logger: quietLogger()}); err == nil {
		t.Fatalf("expected load error")
	}
}
