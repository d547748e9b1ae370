package geometry

// Point is a pixel coordinate in viewport space.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the delta from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Rect represents a positioned rectangle
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Right returns the x coordinate one past the right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the y coordinate one past the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Extent returns the rectangle size.
func (r Rect) Extent() Size { return Size{Width: r.Width, Height: r.Height} }

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Bounds is a window's committed geometry.
type Bounds struct {
	Position Point `json:"position" yaml:"position"`
	Size     Size  `json:"size" yaml:"size"`
}

// Rect converts b to a Rect.
func (b Bounds) Rect() Rect {
	return Rect{X: b.Position.X, Y: b.Position.Y, Width: b.Size.Width, Height: b.Size.Height}
}

// BoundsOf converts r to Bounds.
func BoundsOf(r Rect) Bounds {
	return Bounds{Position: r.Origin(), Size: r.Extent()}
}

// WorkArea derives the usable desktop rectangle: the full viewport minus the
// top menu bar and the bottom dock. Height never goes negative.
func WorkArea(viewport Size, menubarHeight, dockHeight int) Rect {
	h := viewport.Height - menubarHeight - dockHeight
	if h < 0 {
		h = 0
	}
	w := viewport.Width
	if w < 0 {
		w = 0
	}
	return Rect{X: 0, Y: menubarHeight, Width: w, Height: h}
}

// Clamp limits v to [lo, hi]. When hi < lo the lower bound wins.
func Clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// ClampSize raises s to at least min in both dimensions.
func ClampSize(s, min Size) Size {
	if s.Width < min.Width {
		s.Width = min.Width
	}
	if s.Height < min.Height {
		s.Height = min.Height
	}
	return s
}

// Chebyshev returns the chessboard distance between two grid cells.
func Chebyshev(a, b Point) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}
