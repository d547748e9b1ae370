package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/retrodesk/internal/config"
	"github.com/1broseidon/retrodesk/internal/desktop"
	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/icons"
	"github.com/1broseidon/retrodesk/internal/ipc"
	"github.com/1broseidon/retrodesk/internal/registry"
	"github.com/1broseidon/retrodesk/internal/viewport"
)

type nopTimer struct{}

func (nopTimer) Stop() bool { return true }

func startDaemon(t *testing.T, ids ...string) (*ipc.Client, *desktop.Desktop) {
	t.Helper()
	never := func(time.Duration, func()) registry.Timer { return nopTimer{} }
	d := desktop.New(config.DefaultConfig(), viewport.NewStatic(1280, 800), desktop.WithScheduler(never))

	socket := filepath.Join(t.TempDir(), "rd.sock")
	srv := ipc.NewServerAt(socket, d, nil, nil)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)

	c := ipc.NewClientAt(socket)
	for _, id := range ids {
		if _, err := c.Open(ipc.OpenPayload{ID: id}); err != nil {
			t.Fatalf("Open %s: %v", id, err)
		}
	}
	return c, d
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m model, keys ...string) model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(model)
	}
	return m
}

func sized(m model) model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(model)
}

func TestNewModel_LoadsDock(t *testing.T) {
	c, _ := startDaemon(t, "about", "skills")
	m := newModel(c)

	if m.status == nil {
		t.Fatalf("expected status, got error %q", m.lastErr)
	}
	if m.status.Windows != 2 || m.status.ActiveID != "skills" {
		t.Fatalf("unexpected status %+v", m.status)
	}
	if id, ok := m.windowsTab.Selected(); !ok || id != "about" {
		t.Fatalf("expected about selected, got %q %v", id, ok)
	}
	if m.iconsTab.data == nil || len(m.iconsTab.data.Icons) != 6 {
		t.Fatalf("expected 6 icons, got %+v", m.iconsTab.data)
	}
}

func TestWindowKeys(t *testing.T) {
	c, d := startDaemon(t, "about", "skills")
	m := newModel(c)

	m = press(t, m, "enter")
	if got := d.Registry.ActiveID(); got != "about" {
		t.Fatalf("enter: expected about active, got %q", got)
	}

	m = press(t, m, "m")
	if w, _ := d.Registry.Window("about"); !w.IsMinimized {
		t.Fatalf("m: expected about minimized")
	}

	m = press(t, m, "z")
	if w, _ := d.Registry.Window("about"); !w.IsMaximized || w.IsMinimized {
		t.Fatalf("z: expected about maximized and restored, got %+v", w)
	}

	m = press(t, m, "n")
	if got := d.Registry.ActiveID(); got != "skills" {
		t.Fatalf("n: expected skills active, got %q", got)
	}
	if m.lastErr != "" {
		t.Fatalf("unexpected error %q", m.lastErr)
	}
}

func TestCloseKey_NonClosable(t *testing.T) {
	c, d := startDaemon(t, "welcome")
	m := newModel(c)

	m = press(t, m, "x")
	if d.Registry.Closing("welcome") {
		t.Fatalf("welcome must not start closing")
	}
	if !strings.Contains(m.lastErr, "cannot be closed") {
		t.Fatalf("expected close refusal message, got %q", m.lastErr)
	}
}

func TestCloseKey(t *testing.T) {
	c, d := startDaemon(t, "about")
	m := newModel(c)

	m = press(t, m, "x")
	if !d.Registry.Closing("about") {
		t.Fatalf("expected about closing")
	}
	if m.lastErr != "" {
		t.Fatalf("unexpected error %q", m.lastErr)
	}
}

func TestTabs(t *testing.T) {
	c, _ := startDaemon(t, "about")
	m := sized(newModel(c))

	if !strings.Contains(m.View(), "About Me") {
		t.Fatalf("windows view should list About Me")
	}

	m = press(t, m, "tab")
	if m.activeTab != TabIcons {
		t.Fatalf("expected icons tab, got %v", m.activeTab)
	}
	view := m.View()
	for _, want := range []string{"projects", "trash at", "grid 9x4"} {
		if !strings.Contains(view, want) {
			t.Fatalf("icons view missing %q:\n%s", want, view)
		}
	}

	m = press(t, m, "1")
	if m.activeTab != TabWindows {
		t.Fatalf("expected windows tab, got %v", m.activeTab)
	}
}

func TestIconKeys_MoveSelection(t *testing.T) {
	c, d := startDaemon(t)
	m := sized(newModel(c))
	m = press(t, m, "2", "right")

	if id, _ := d.Selection.Selected(); id != "about" {
		t.Fatalf("expected about selected, got %q", id)
	}
	if view := m.View(); !strings.Contains(view, "selected about") {
		t.Fatalf("icons view should name the selection:\n%s", view)
	}

	m = press(t, m, "left")
	if id, _ := d.Selection.Selected(); id != "trash" {
		t.Fatalf("expected wrap to trash, got %q", id)
	}

	m = press(t, m, "esc")
	if _, ok := d.Selection.Selected(); ok {
		t.Fatalf("expected esc to clear the selection")
	}
	if strings.Contains(m.View(), "selected ") {
		t.Fatalf("expected no selection in view")
	}
}

func TestWindowDetail_ShowsExitReason(t *testing.T) {
	c, _ := startDaemon(t, "about", "skills")
	m := sized(newModel(c))
	m = press(t, m, "m")

	if view := m.View(); !strings.Contains(view, "leaving") || !strings.Contains(view, "minimize") {
		t.Fatalf("expected minimized window to show its exit reason:\n%s", view)
	}
}

func TestNoDaemon(t *testing.T) {
	c := ipc.NewClientAt(filepath.Join(t.TempDir(), "missing.sock"))
	m := sized(newModel(c))

	if m.status != nil {
		t.Fatalf("expected nil status")
	}
	if !strings.Contains(m.View(), "daemon not running") {
		t.Fatalf("expected disconnected status bar")
	}

	m = press(t, m, "enter")
	if m.status != nil {
		t.Fatalf("expected nil status after refresh")
	}
}

func TestOpenKey_ShowsForm(t *testing.T) {
	c, _ := startDaemon(t)
	m := sized(newModel(c))

	m = press(t, m, "o")
	if !m.openForm.Active() {
		t.Fatalf("expected open form")
	}
	// q is typed into the form rather than quitting.
	next, _ := m.Update(key("q"))
	m = next.(model)
	if !m.openForm.Active() {
		t.Fatalf("form closed on q")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(model)
	if m.openForm.Active() {
		t.Fatalf("esc should dismiss the form")
	}
}

func TestOpenForm_Take(t *testing.T) {
	var o OpenForm
	if _, ok := o.Take(); ok {
		t.Fatalf("empty form should not yield a request")
	}

	o.fields = &openFields{id: " about ", title: " Me "}
	o.done = true
	req, ok := o.Take()
	if !ok || req.ID != "about" || req.Title != "Me" {
		t.Fatalf("unexpected request %+v %v", req, ok)
	}
	if _, ok := o.Take(); ok {
		t.Fatalf("request should be taken once")
	}
}

func TestValidateWindowID(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"about", false},
		{"", true},
		{"   ", true},
		{"my window", true},
	}
	for _, tt := range tests {
		if err := validateWindowID(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("validateWindowID(%q) = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestIconGrid_SkipsTrashAndOffGrid(t *testing.T) {
	data := &ipc.IconsData{
		Cols: 2,
		Rows: 2,
		Icons: []icons.Icon{
			{ID: "a", Cell: geometry.Point{X: 1, Y: 0}},
			{ID: "trash", Cell: icons.TrashSentinel, Trash: true},
			{ID: "far", Cell: geometry.Point{X: 5, Y: 5}},
		},
	}
	grid := iconGrid(data)
	if grid[0][1] == nil || grid[0][1].ID != "a" {
		t.Fatalf("expected a at (1,0), got %+v", grid[0][1])
	}
	count := 0
	for _, row := range grid {
		for _, ic := range row {
			if ic != nil {
				count++
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected one placed icon, got %d", count)
	}
}

func TestReport(t *testing.T) {
	var m model
	m.report("focus", "x", nil, errors.New("boom"))
	if m.lastErr != "focus failed: boom" {
		t.Fatalf("unexpected %q", m.lastErr)
	}
	m.report("focus", "x", nil, nil)
	if m.lastErr != `focus: no window "x"` {
		t.Fatalf("unexpected %q", m.lastErr)
	}
	m.report("focus", "x", &registry.Window{ID: "x"}, nil)
	if m.lastErr != "" {
		t.Fatalf("expected cleared error, got %q", m.lastErr)
	}
}
