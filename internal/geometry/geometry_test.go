package geometry

import "testing"

func TestWorkArea(t *testing.T) {
	tests := []struct {
		name     string
		viewport Size
		want     Rect
	}{
		{"typical", Size{Width: 1200, Height: 800}, Rect{X: 0, Y: 36, Width: 1200, Height: 716}},
		{"tiny viewport never negative", Size{Width: 300, Height: 50}, Rect{X: 0, Y: 36, Width: 300, Height: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WorkArea(tt.viewport, 36, 48)
			if got != tt.want {
				t.Fatalf("WorkArea(%v) = %+v, want %+v", tt.viewport, got, tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want int
	}{
		{5, 0, 10, 5},
		{-3, 0, 10, 0},
		{42, 0, 10, 10},
		{5, 10, 0, 10},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestBoundsRectRoundTrip(t *testing.T) {
	b := Bounds{Position: Point{X: 50, Y: 60}, Size: Size{Width: 500, Height: 400}}
	r := b.Rect()
	if r.Right() != 550 || r.Bottom() != 460 {
		t.Fatalf("unexpected edges: right=%d bottom=%d", r.Right(), r.Bottom())
	}
	if BoundsOf(r) != b {
		t.Fatalf("expected %+v, got %+v", b, BoundsOf(r))
	}
	if !r.Contains(Point{X: 50, Y: 60}) || r.Contains(Point{X: 550, Y: 60}) {
		t.Fatalf("Contains is not half-open")
	}
}

func TestChebyshev(t *testing.T) {
	if got := Chebyshev(Point{X: 1, Y: 1}, Point{X: 3, Y: 0}); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := Chebyshev(Point{X: 0, Y: 0}, Point{X: 0, Y: 0}); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestClampSize(t *testing.T) {
	got := ClampSize(Size{Width: 100, Height: 500}, Size{Width: 280, Height: 200})
	if got != (Size{Width: 280, Height: 500}) {
		t.Fatalf("unexpected size %+v", got)
	}
}
