package gesture

import (
	"errors"
	"testing"

	"github.com/1broseidon/retrodesk/internal/config"
	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/registry"
	"github.com/1broseidon/retrodesk/internal/viewport"
)

func pt(x, y int) geometry.Point { return geometry.Point{X: x, Y: y} }

func bounds(x, y, w, h int) geometry.Bounds {
	return geometry.Bounds{Position: pt(x, y), Size: geometry.Size{Width: w, Height: h}}
}

func newTestController(t *testing.T) (*Controller, *registry.Registry) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Windows.CloseDelayMS = 0
	reg := registry.New(cfg, viewport.NewStatic(1200, 800))
	return NewController(reg, cfg.Windows.MinVisible), reg
}

func TestBeginDrag_FocusesAndMoves(t *testing.T) {
	c, reg := newTestController(t)
	reg.Open("about", "About Me")
	reg.UpdateBounds("about", bounds(100, 100, 500, 400))
	reg.Open("projects", "Projects")

	if _, err := c.BeginDrag("about", pt(200, 110)); err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	if reg.ActiveID() != "about" {
		t.Fatalf("expected drag start to focus about, got %q", reg.ActiveID())
	}
	if c.Phase("about") != PhaseDragging {
		t.Fatalf("expected dragging, got %s", c.Phase("about"))
	}

	got, ok := c.Move("about", pt(250, 160))
	if !ok || got.Position != pt(150, 150) {
		t.Fatalf("expected transient 150,150, got %+v (ok=%v)", got.Position, ok)
	}
	w, _ := reg.Window("about")
	if w.Position != pt(100, 100) {
		t.Fatalf("expected registry untouched mid-gesture, got %+v", w.Position)
	}

	final, ok := c.End("about", EndPointerUp)
	if !ok || final.Position != pt(150, 150) {
		t.Fatalf("expected commit at 150,150, got %+v", final)
	}
	w, _ = reg.Window("about")
	if w.Position != pt(150, 150) || w.Size != (geometry.Size{Width: 500, Height: 400}) {
		t.Fatalf("expected committed bounds, got %+v", w.Bounds())
	}
	if c.Phase("about") != PhaseIdle {
		t.Fatalf("expected idle after end")
	}
}

func TestBegin_Refusals(t *testing.T) {
	c, reg := newTestController(t)
	reg.Open("about", "About Me")
	reg.Open("big", "Big")
	reg.ToggleMaximize("big")

	if _, err := c.BeginDrag("ghost", pt(0, 0)); !errors.Is(err, ErrUnknownWindow) {
		t.Fatalf("expected ErrUnknownWindow, got %v", err)
	}
	if _, err := c.BeginDrag("big", pt(0, 0)); !errors.Is(err, ErrMaximized) {
		t.Fatalf("expected ErrMaximized for drag, got %v", err)
	}
	if _, err := c.BeginResize("big", HandleSE, pt(0, 0)); !errors.Is(err, ErrMaximized) {
		t.Fatalf("expected ErrMaximized for resize, got %v", err)
	}
	if _, err := c.BeginResize("about", EdgeNorth|EdgeSouth, pt(0, 0)); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("expected ErrInvalidHandle, got %v", err)
	}

	if _, err := c.BeginDrag("about", pt(0, 0)); err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	if _, err := c.BeginResize("about", HandleSE, pt(0, 0)); !errors.Is(err, ErrGestureActive) {
		t.Fatalf("expected ErrGestureActive, got %v", err)
	}
	if c.Phase("about") != PhaseDragging {
		t.Fatalf("expected first gesture to continue")
	}
}

func TestEnd_IsIdempotent(t *testing.T) {
	c, reg := newTestController(t)
	reg.Open("about", "About Me")

	var commits int
	c.OnEnd(func(string, EndReason, geometry.Bounds) { commits++ })

	token, err := c.BeginDrag("about", pt(0, 0))
	if err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	c.Move("about", pt(10, 10))

	if _, ok := c.End("about", EndPointerUp); !ok {
		t.Fatalf("expected first end to commit")
	}
	if _, ok := c.End("about", EndPointerCancel); ok {
		t.Fatalf("expected second end to be a no-op")
	}
	if _, ok := c.EndToken("about", token, EndLostCapture); ok {
		t.Fatalf("expected stale token end to be a no-op")
	}
	if commits != 1 {
		t.Fatalf("expected exactly one commit, got %d", commits)
	}
	if _, err := c.BeginDrag("about", pt(0, 0)); err != nil {
		t.Fatalf("expected a new gesture to start after end, got %v", err)
	}
}

func TestEndToken_IgnoresOtherGesture(t *testing.T) {
	c, reg := newTestController(t)
	reg.Open("about", "About Me")

	old, _ := c.BeginDrag("about", pt(0, 0))
	c.End("about", EndPointerUp)
	current, _ := c.BeginDrag("about", pt(0, 0))

	if _, ok := c.EndToken("about", old, EndPointerUp); ok {
		t.Fatalf("expected old token to be ignored")
	}
	if _, ok := c.EndToken("about", current, EndPointerUp); !ok {
		t.Fatalf("expected current token to end the gesture")
	}
}

func TestCancelAll_CommitsEveryWindowIndependently(t *testing.T) {
	c, reg := newTestController(t)
	reg.Open("a", "A")
	reg.UpdateBounds("a", bounds(100, 100, 400, 300))
	reg.Open("b", "B")
	reg.UpdateBounds("b", bounds(500, 200, 400, 300))

	c.BeginDrag("a", pt(0, 0))
	c.BeginResize("b", HandleSE, pt(0, 0))
	c.Move("a", pt(20, 30))
	c.Move("b", pt(50, 60))

	ended := c.CancelAll(EndBlur)
	if len(ended) != 2 || ended[0] != "a" || ended[1] != "b" {
		t.Fatalf("expected both gestures ended, got %v", ended)
	}
	a, _ := reg.Window("a")
	b, _ := reg.Window("b")
	if a.Bounds() != bounds(120, 130, 400, 300) {
		t.Fatalf("unexpected a bounds %+v", a.Bounds())
	}
	if b.Bounds() != bounds(500, 200, 450, 360) {
		t.Fatalf("unexpected b bounds %+v", b.Bounds())
	}
	if len(c.Active()) != 0 {
		t.Fatalf("expected no gestures left in flight")
	}
}

func TestTitleDoubleClick_TogglesMaximize(t *testing.T) {
	c, reg := newTestController(t)
	reg.Open("about", "About Me")
	reg.UpdateBounds("about", bounds(50, 50, 500, 400))

	if !c.TitleDoubleClick("about") {
		t.Fatalf("expected double click to toggle")
	}
	w, _ := reg.Window("about")
	if !w.IsMaximized || w.Bounds() != bounds(0, 36, 1200, 716) {
		t.Fatalf("expected maximized to work area, got %+v", w.Bounds())
	}
	c.TitleDoubleClick("about")
	w, _ = reg.Window("about")
	if w.IsMaximized || w.Bounds() != bounds(50, 50, 500, 400) {
		t.Fatalf("expected restore, got %+v", w.Bounds())
	}

	c.BeginDrag("about", pt(0, 0))
	if c.TitleDoubleClick("about") {
		t.Fatalf("expected double click ignored mid-gesture")
	}
	if c.TitleDoubleClick("ghost") {
		t.Fatalf("expected double click on unknown window to be ignored")
	}
}

func TestEnd_SkipsCommitAfterMaximize(t *testing.T) {
	c, reg := newTestController(t)
	reg.Open("about", "About Me")
	reg.UpdateBounds("about", bounds(100, 100, 500, 400))

	if _, err := c.BeginDrag("about", pt(100, 100)); err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	c.Move("about", pt(160, 160))
	reg.ToggleMaximize("about")

	if c.Phase("about") != PhaseIdle {
		t.Fatalf("expected maximize to drop the gesture, got %s", c.Phase("about"))
	}
	if _, ok := c.End("about", EndPointerUp); ok {
		t.Fatalf("expected end after maximize to be a no-op")
	}
	w, _ := reg.Window("about")
	if !w.IsMaximized || w.Bounds() != bounds(0, 36, 1200, 716) {
		t.Fatalf("expected window pinned to the work area, got %+v (maximized=%v)", w.Bounds(), w.IsMaximized)
	}
	if w.RestoreBounds == nil || *w.RestoreBounds != bounds(100, 100, 500, 400) {
		t.Fatalf("expected restore bounds from before the drag, got %+v", w.RestoreBounds)
	}
}

func TestEnd_SkipsCommitAfterCloseAndReopen(t *testing.T) {
	c, reg := newTestController(t)
	reg.Open("about", "About Me")
	reg.UpdateBounds("about", bounds(100, 100, 600, 400))

	if _, err := c.BeginDrag("about", pt(0, 0)); err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	c.Move("about", pt(300, 200))
	reg.Close("about")
	reg.Open("about", "About Me")
	fresh, _ := reg.Window("about")

	if _, err := c.BeginDrag("about", pt(0, 0)); err != nil {
		t.Fatalf("expected a gesture on the reopened window, got %v", err)
	}
	c.End("about", EndPointerUp)

	w, _ := reg.Window("about")
	if w.Bounds() != fresh.Bounds() {
		t.Fatalf("expected fresh geometry %+v, got %+v", fresh.Bounds(), w.Bounds())
	}
}

func TestEnd_StaleGestureAfterCloseIsDropped(t *testing.T) {
	c, reg := newTestController(t)
	reg.Open("about", "About Me")

	c.BeginResize("about", HandleSE, pt(0, 0))
	c.Move("about", pt(40, 40))
	reg.Close("about")

	if _, ok := c.End("about", EndPointerUp); ok {
		t.Fatalf("expected end on a closed window to be a no-op")
	}
	if _, ok := reg.Window("about"); ok {
		t.Fatalf("expected no record to be recreated")
	}
}

func TestOnBegin_ReportsStartsAndRefusals(t *testing.T) {
	c, reg := newTestController(t)
	reg.Open("about", "About Me")

	type begin struct {
		id    string
		phase Phase
		err   error
	}
	var got []begin
	c.OnBegin(func(id string, phase Phase, err error) {
		got = append(got, begin{id, phase, err})
	})

	c.BeginDrag("about", pt(0, 0))
	c.BeginResize("about", HandleSE, pt(0, 0))
	c.BeginDrag("ghost", pt(0, 0))

	if len(got) != 3 {
		t.Fatalf("expected 3 begin reports, got %d", len(got))
	}
	if got[0].err != nil || got[0].phase != PhaseDragging {
		t.Fatalf("unexpected first report %+v", got[0])
	}
	if !errors.Is(got[1].err, ErrGestureActive) || got[1].phase != PhaseResizing {
		t.Fatalf("unexpected second report %+v", got[1])
	}
	if !errors.Is(got[2].err, ErrUnknownWindow) {
		t.Fatalf("unexpected third report %+v", got[2])
	}
}

func TestMove_ConcurrentReconfigure(t *testing.T) {
	c, reg := newTestController(t)
	reg.Open("about", "About Me")
	c.BeginResize("about", HandleSE, pt(0, 0))

	cfg := config.DefaultConfig()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			reg.Reconfigure(cfg)
		}
	}()
	for i := 0; i < 200; i++ {
		c.Move("about", pt(i, i))
	}
	<-done

	if got, ok := c.End("about", EndPointerUp); !ok || got.Size.Width < cfg.MinSize().Width {
		t.Fatalf("expected resize above the minimum width, got %+v (ok=%v)", got, ok)
	}
}

func TestParseHandle(t *testing.T) {
	tests := map[string]Handle{
		"n": HandleN, "S": HandleS, "e": HandleE, "w": HandleW,
		"ne": HandleNE, "NW": HandleNW, "se": HandleSE, "sw": HandleSW,
	}
	for in, want := range tests {
		got, err := ParseHandle(in)
		if err != nil || got != want {
			t.Errorf("ParseHandle(%q) = %v, %v; want %v", in, got, err, want)
		}
		if !got.Valid() {
			t.Errorf("expected %v to be valid", got)
		}
	}
	if _, err := ParseHandle("x"); err == nil {
		t.Fatalf("expected error for unknown handle")
	}
	if HandleNE.String() != "ne" || HandleSW.String() != "sw" {
		t.Fatalf("unexpected handle names %s %s", HandleNE, HandleSW)
	}
}
