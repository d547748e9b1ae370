package viewport

import (
	"testing"

	"github.com/1broseidon/retrodesk/internal/config"
	"github.com/1broseidon/retrodesk/internal/geometry"
)

func TestStaticSetSize(t *testing.T) {
	s := NewStatic(1200, 800)
	if got := s.Size(); got != (geometry.Size{Width: 1200, Height: 800}) {
		t.Fatalf("unexpected size %+v", got)
	}
	s.SetSize(geometry.Size{Width: 640, Height: 480})
	if got := s.Size(); got.Width != 640 || got.Height != 480 {
		t.Fatalf("expected 640x480, got %+v", got)
	}
}

func TestFromConfig_AutoWithoutDisplayIsStatic(t *testing.T) {
	t.Setenv("DISPLAY", "")
	cfg := config.DefaultConfig()
	cfg.Viewport.Width = 1024
	cfg.Viewport.Height = 768

	src, closeFn, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	defer closeFn()

	if _, ok := src.(Resizer); !ok {
		t.Fatalf("expected a resizable static source, got %T", src)
	}
	if got := src.Size(); got.Width != 1024 || got.Height != 768 {
		t.Fatalf("expected 1024x768, got %+v", got)
	}
}

func TestIntersect(t *testing.T) {
	a := geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	b := geometry.Rect{X: 0, Y: 28, Width: 1920, Height: 1052}
	if got := intersect(a, b); got != b {
		t.Fatalf("expected %+v, got %+v", b, got)
	}
	if got := intersect(a, geometry.Rect{X: 2000, Y: 0, Width: 10, Height: 10}); got.Width != 0 {
		t.Fatalf("expected empty intersection, got %+v", got)
	}
}
