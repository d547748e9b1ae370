package eventlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/retrodesk/internal/config"
	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/gesture"
	"github.com/1broseidon/retrodesk/internal/registry"
	"github.com/1broseidon/retrodesk/internal/viewport"
)

func newTestLogger(t *testing.T, level LogLevel, maxSizeMB int) (*Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logs", "actions.log")
	l, err := New(Options{Enabled: true, Level: level, FilePath: path, MaxSizeMB: maxSizeMB, MaxFiles: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { l.Close() })
	return l, path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(data)
}

func TestLog_FormatsSortedDetails(t *testing.T) {
	l, path := newTestLogger(t, LevelDebug, 10)
	l.Log(ActionOpen, "about", map[string]interface{}{"y": 50, "title": "About Me", "x": 40})

	got := readLog(t, path)
	want := `2024-05-01 12:00:00 [OPEN] window=about title="About Me" x=40 y=50` + "\n"
	if got != want {
		t.Fatalf("unexpected entry:\n got %q\nwant %q", got, want)
	}
}

func TestLog_FiltersByLevel(t *testing.T) {
	l, path := newTestLogger(t, LevelInfo, 10)
	l.Log(ActionBounds, "about", nil)
	l.Log(ActionFocus, "about", nil)

	got := readLog(t, path)
	if strings.Contains(got, "[BOUNDS]") {
		t.Fatalf("debug entry should be filtered: %q", got)
	}
	if !strings.Contains(got, "[FOCUS] window=about") {
		t.Fatalf("missing info entry: %q", got)
	}
}

func TestLog_Rotates(t *testing.T) {
	l, path := newTestLogger(t, LevelDebug, 1)
	l.currentSize = 1024 * 1024

	l.Log(ActionFocus, "about", nil)

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Fatalf("expected rotated file: %v", err)
	}
	if got := readLog(t, path); !strings.Contains(got, "[FOCUS]") {
		t.Fatalf("expected fresh log to hold the new entry, got %q", got)
	}
}

func TestDisabledLoggerIsNoop(t *testing.T) {
	l, err := New(Options{Enabled: false})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Log(ActionOpen, "about", nil)
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var nilLogger *Logger
	nilLogger.Log(ActionOpen, "about", nil)
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"bogus":   LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRecordRegistry(t *testing.T) {
	l, path := newTestLogger(t, LevelDebug, 10)
	cfg := config.DefaultConfig()
	cfg.Windows.CloseDelayMS = 0
	reg := registry.New(cfg, viewport.NewStatic(1280, 800))
	stop := l.RecordRegistry(reg)

	reg.Open("about", "About", registry.WithPosition(geometry.Point{X: 50, Y: 50}))
	reg.Open("welcome", "Welcome")
	reg.Close("welcome")
	reg.Close("about")
	stop()
	reg.Open("about", "About")

	got := readLog(t, path)
	for _, want := range []string{
		"[OPEN] window=about height=400 width=600 x=50 y=50",
		"[CLOSE-DENIED] window=welcome",
		"[CLOSED] window=about",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("log missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "[OPEN] window=about") != 1 {
		t.Fatalf("expected no entries after unsubscribe:\n%s", got)
	}
}

func TestRecordGestures(t *testing.T) {
	l, path := newTestLogger(t, LevelDebug, 10)
	reg := registry.New(config.DefaultConfig(), viewport.NewStatic(1280, 800))
	c := gesture.NewController(reg, 40)
	l.RecordGestures(c)

	reg.Open("about", "About", registry.WithPosition(geometry.Point{X: 50, Y: 50}))
	c.BeginDrag("about", geometry.Point{X: 60, Y: 60})
	c.BeginResize("about", gesture.HandleSE, geometry.Point{})
	c.End("about", gesture.EndPointerUp)

	got := readLog(t, path)
	for _, want := range []string{
		`[GESTURE-BEGIN] window=about phase="dragging"`,
		`[GESTURE-REFUSED] window=about error="a gesture is already in flight on this window" phase="resizing"`,
		"[GESTURE-END] window=about",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("log missing %q:\n%s", want, got)
		}
	}
}
