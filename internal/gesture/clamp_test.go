package gesture

import (
	"testing"

	"github.com/1broseidon/retrodesk/internal/geometry"
)

var testWorkArea = geometry.Rect{X: 0, Y: 36, Width: 1200, Height: 716}
var testMin = geometry.Size{Width: 280, Height: 200}

func TestDragBounds_Clamping(t *testing.T) {
	start := bounds(100, 100, 500, 400)
	tests := []struct {
		name  string
		delta geometry.Point
		want  geometry.Point
	}{
		{"free move", pt(10, 20), pt(110, 120)},
		{"title bar stays below menu bar", pt(0, -500), pt(100, 36)},
		{"sliver stays above dock", pt(0, 5000), pt(100, 752-40)},
		{"sliver stays on the right", pt(5000, 0), pt(1200-40, 100)},
		{"sliver stays on the left", pt(-5000, 0), pt(-(500-40), 100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DragBounds(start, tt.delta, testWorkArea, 40)
			if got.Position != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got.Position)
			}
			if got.Size != start.Size {
				t.Fatalf("drag must not change size")
			}
		})
	}
}

func TestResizeBounds(t *testing.T) {
	start := bounds(200, 200, 500, 400)
	tests := []struct {
		name   string
		handle Handle
		delta  geometry.Point
		want   geometry.Bounds
	}{
		{"east grows", HandleE, pt(100, 0), bounds(200, 200, 600, 400)},
		{"south grows", HandleS, pt(0, 50), bounds(200, 200, 500, 450)},
		{"east shrink stops at minimum", HandleE, pt(-1000, 0), bounds(200, 200, 280, 400)},
		{"west grows left", HandleW, pt(-50, 0), bounds(150, 200, 550, 400)},
		{"west shrink keeps right edge", HandleW, pt(1000, 0), bounds(420, 200, 280, 400)},
		{"north shrink keeps bottom edge", HandleN, pt(0, 1000), bounds(200, 400, 500, 200)},
		{"north stops at work area top", HandleN, pt(0, -1000), bounds(200, 36, 500, 564)},
		{"west stops at work area left", HandleW, pt(-1000, 0), bounds(0, 200, 700, 400)},
		{"south-east capped by work area", HandleSE, pt(5000, 5000), bounds(200, 200, 1000, 552)},
		{"north-west corner", HandleNW, pt(-20, -30), bounds(180, 170, 520, 430)},
		{"north-east corner", HandleNE, pt(40, -10), bounds(200, 190, 540, 410)},
		{"south-west corner min", HandleSW, pt(900, -900), bounds(420, 200, 280, 200)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResizeBounds(start, tt.handle, tt.delta, testWorkArea, testMin)
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestResizeBounds_NeverBelowMinimum(t *testing.T) {
	handles := []Handle{HandleN, HandleS, HandleE, HandleW, HandleNE, HandleNW, HandleSE, HandleSW}
	deltas := []geometry.Point{pt(-3000, -3000), pt(3000, 3000), pt(-3000, 3000), pt(3000, -3000), pt(0, 0)}
	starts := []geometry.Bounds{bounds(0, 36, 280, 200), bounds(1100, 700, 300, 250), bounds(400, 300, 600, 400)}

	for _, start := range starts {
		for _, h := range handles {
			for _, d := range deltas {
				got := ResizeBounds(start, h, d, testWorkArea, testMin)
				if got.Size.Width < testMin.Width || got.Size.Height < testMin.Height {
					t.Fatalf("start %+v handle %s delta %+v: size %+v below minimum", start, h, d, got.Size)
				}
			}
		}
	}
}
