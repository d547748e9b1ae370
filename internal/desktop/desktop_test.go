package desktop

import (
	"errors"
	"testing"
	"time"

	"github.com/1broseidon/retrodesk/internal/config"
	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/gesture"
	"github.com/1broseidon/retrodesk/internal/icons"
	"github.com/1broseidon/retrodesk/internal/registry"
	"github.com/1broseidon/retrodesk/internal/viewport"
)

type nopTimer struct{}

func (nopTimer) Stop() bool { return true }

func newTestDesktop(t *testing.T) *Desktop {
	t.Helper()
	never := func(time.Duration, func()) registry.Timer { return nopTimer{} }
	return New(config.DefaultConfig(), viewport.NewStatic(1280, 800), WithScheduler(never))
}

func TestOpenWindow_UsesCatalogDefaults(t *testing.T) {
	d := newTestDesktop(t)

	tests := []struct {
		id        string
		title     string
		wantTitle string
		wantPos   geometry.Point
		wantSize  geometry.Size
	}{
		{"about", "", "About Me", geometry.Point{X: 50, Y: 50}, geometry.Size{Width: 600, Height: 400}},
		{"browser", "", "Web Browser", geometry.Point{X: 50, Y: 50}, geometry.Size{Width: 800, Height: 600}},
		{"notes", "", "notes", geometry.Point{X: 100, Y: 100}, geometry.Size{Width: 600, Height: 400}},
		{"skills", "Skills!", "Skills!", geometry.Point{X: 150, Y: 110}, geometry.Size{Width: 600, Height: 400}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			w, err := d.OpenWindow(tt.id, tt.title, nil, nil)
			if err != nil {
				t.Fatalf("OpenWindow: %v", err)
			}
			if w.Title != tt.wantTitle || w.Position != tt.wantPos || w.Size != tt.wantSize {
				t.Fatalf("got %+v", w)
			}
		})
	}

	if _, err := d.OpenWindow("", "", nil, nil); !errors.Is(err, ErrEmptyID) {
		t.Fatalf("expected ErrEmptyID, got %v", err)
	}
}

func TestOpenWindow_ExplicitGeometryWins(t *testing.T) {
	d := newTestDesktop(t)
	pos := geometry.Point{X: 300, Y: 200}
	size := geometry.Size{Width: 100, Height: 100}

	w, _ := d.OpenWindow("about", "", &pos, &size)

	if w.Position != pos {
		t.Fatalf("expected %+v, got %+v", pos, w.Position)
	}
	if w.Size != (geometry.Size{Width: 280, Height: 200}) {
		t.Fatalf("expected size floored to minimum, got %+v", w.Size)
	}
}

func TestMoveWindow_Clamps(t *testing.T) {
	d := newTestDesktop(t)
	d.OpenWindow("about", "", nil, nil)

	tests := []struct {
		name string
		to   geometry.Point
		want geometry.Point
	}{
		{"inside", geometry.Point{X: 400, Y: 300}, geometry.Point{X: 400, Y: 300}},
		{"far bottom right", geometry.Point{X: 5000, Y: 5000}, geometry.Point{X: 1240, Y: 712}},
		{"far top left", geometry.Point{X: -1000, Y: 0}, geometry.Point{X: -560, Y: 36}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := d.MoveWindow("about", tt.to)
			if err != nil {
				t.Fatalf("MoveWindow: %v", err)
			}
			if w.Position != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, w.Position)
			}
		})
	}
}

func TestResizeWindow_Clamps(t *testing.T) {
	d := newTestDesktop(t)
	d.OpenWindow("about", "", nil, nil)

	w, _ := d.ResizeWindow("about", geometry.Size{Width: 5000, Height: 5000})
	if w.Size != (geometry.Size{Width: 1230, Height: 702}) {
		t.Fatalf("expected size capped to work area, got %+v", w.Size)
	}
	w, _ = d.ResizeWindow("about", geometry.Size{Width: 10, Height: 10})
	if w.Size != (geometry.Size{Width: 280, Height: 200}) {
		t.Fatalf("expected minimum size, got %+v", w.Size)
	}
	if w.Position != (geometry.Point{X: 50, Y: 50}) {
		t.Fatalf("bottom-right resize must not move the origin, got %+v", w.Position)
	}
}

func TestMoveWindow_Refusals(t *testing.T) {
	d := newTestDesktop(t)
	if _, err := d.MoveWindow("ghost", geometry.Point{}); !errors.Is(err, gesture.ErrUnknownWindow) {
		t.Fatalf("expected ErrUnknownWindow, got %v", err)
	}

	d.OpenWindow("about", "", nil, nil)
	d.Registry.ToggleMaximize("about")
	if _, err := d.ResizeWindow("about", geometry.Size{Width: 300, Height: 300}); !errors.Is(err, gesture.ErrMaximized) {
		t.Fatalf("expected ErrMaximized, got %v", err)
	}
}

func TestDragIcon(t *testing.T) {
	d := newTestDesktop(t)

	icon, err := d.DragIcon("about", geometry.Point{X: 410, Y: 211})
	if err != nil {
		t.Fatalf("DragIcon: %v", err)
	}
	if icon.Cell != (geometry.Point{X: 3, Y: 1}) {
		t.Fatalf("expected cell 3,1, got %+v", icon.Cell)
	}

	if _, err := d.DragIcon("trash", geometry.Point{}); !errors.Is(err, icons.ErrTrashPinned) {
		t.Fatalf("expected ErrTrashPinned, got %v", err)
	}
	if _, err := d.DragIcon("ghost", geometry.Point{}); !errors.Is(err, icons.ErrUnknownIcon) {
		t.Fatalf("expected ErrUnknownIcon, got %v", err)
	}
}

func TestSetViewport(t *testing.T) {
	d := newTestDesktop(t)
	if err := d.SetViewport(geometry.Size{Width: 1024, Height: 600}); err != nil {
		t.Fatalf("SetViewport: %v", err)
	}
	if wa := d.Registry.WorkArea(); wa != (geometry.Rect{X: 0, Y: 36, Width: 1024, Height: 516}) {
		t.Fatalf("unexpected work area %+v", wa)
	}
	if err := d.SetViewport(geometry.Size{}); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
}

type fixedSource struct{}

func (fixedSource) Size() geometry.Size { return geometry.Size{Width: 800, Height: 600} }

func TestSetViewport_FixedSource(t *testing.T) {
	d := New(config.DefaultConfig(), fixedSource{})
	if err := d.SetViewport(geometry.Size{Width: 1024, Height: 600}); !errors.Is(err, ErrFixedViewport) {
		t.Fatalf("expected ErrFixedViewport, got %v", err)
	}
}

func TestReloadAndStatus(t *testing.T) {
	d := newTestDesktop(t)
	d.OpenWindow("about", "", nil, nil)
	d.OpenWindow("skills", "", nil, nil)
	d.Registry.Minimize("about")

	cfg := config.DefaultConfig()
	cfg.Catalog["about"] = config.CatalogEntry{Title: "Who"}
	d.Reload(cfg)
	if d.Config() != cfg {
		t.Fatalf("expected reloaded config")
	}

	st := d.Status()
	if st.Windows != 2 || st.Minimized != 1 || st.ActiveID != "skills" {
		t.Fatalf("unexpected status %+v", st)
	}
	if st.InstanceID == "" || st.InstanceID != d.ID() {
		t.Fatalf("expected instance id, got %q", st.InstanceID)
	}
	if st.Viewport != (geometry.Size{Width: 1280, Height: 800}) {
		t.Fatalf("unexpected viewport %+v", st.Viewport)
	}
}

func TestReload_RepinsMaximizedWindows(t *testing.T) {
	d := newTestDesktop(t)
	d.OpenWindow("browser", "", nil, nil)
	d.OpenWindow("about", "", nil, nil)
	d.Registry.ToggleMaximize("browser")

	cfg := config.DefaultConfig()
	cfg.Chrome.MenubarHeight = 50
	cfg.Chrome.DockHeight = 100
	d.Reload(cfg)

	wa := d.Registry.WorkArea()
	if wa != (geometry.Rect{X: 0, Y: 50, Width: 1280, Height: 650}) {
		t.Fatalf("unexpected work area %+v", wa)
	}
	browser, _ := d.Registry.Window("browser")
	if browser.Position != wa.Origin() || browser.Size != wa.Extent() {
		t.Fatalf("expected maximized window on the new work area, got %+v", browser.Bounds())
	}
	if browser.RestoreBounds == nil || browser.RestoreBounds.Size != (geometry.Size{Width: 800, Height: 600}) {
		t.Fatalf("expected restore bounds kept, got %+v", browser.RestoreBounds)
	}
	about, _ := d.Registry.Window("about")
	if about.Position != (geometry.Point{X: 50, Y: 50}) {
		t.Fatalf("expected unmaximized window untouched, got %+v", about.Position)
	}
}

func TestIconSelection(t *testing.T) {
	d := newTestDesktop(t)

	if id, err := d.StepIconSelection(icons.StepNext); err != nil || id != "about" {
		t.Fatalf("StepIconSelection(next) = %q, %v", id, err)
	}
	if id, err := d.SelectIcon("trash"); err != nil || id != "trash" {
		t.Fatalf("SelectIcon(trash) = %q, %v", id, err)
	}
	if id, _ := d.StepIconSelection(icons.StepNext); id != "about" {
		t.Fatalf("expected wrap from trash to about, got %q", id)
	}
	if _, err := d.SelectIcon("ghost"); !errors.Is(err, icons.ErrUnknownIcon) {
		t.Fatalf("expected ErrUnknownIcon, got %v", err)
	}
	if id, _ := d.StepIconSelection(icons.StepClear); id != "" {
		t.Fatalf("expected cleared selection, got %q", id)
	}
	if _, ok := d.Selection.Selected(); ok {
		t.Fatalf("expected nothing selected")
	}
}
