package gesture

import "github.com/1broseidon/retrodesk/internal/geometry"

// DragBounds moves start by delta. The title bar never leaves the work area
// vertically and at least minVisible pixels stay inside it horizontally and
// above the dock.
func DragBounds(start geometry.Bounds, delta geometry.Point, wa geometry.Rect, minVisible int) geometry.Bounds {
	out := start
	pos := start.Position.Add(delta)

	w := start.Size.Width
	visible := minVisible
	if visible > w {
		visible = w
	}
	pos.X = geometry.Clamp(pos.X, wa.X-(w-visible), wa.Right()-visible)
	pos.Y = geometry.Clamp(pos.Y, wa.Y, wa.Bottom()-minVisible)

	out.Position = pos
	return out
}

// ResizeBounds applies delta to the edges in handle. Shrinking from the west
// or north keeps the opposite edge fixed; no dimension drops below min, and
// size is capped to the work area remaining from the resulting origin.
func ResizeBounds(start geometry.Bounds, handle Handle, delta geometry.Point, wa geometry.Rect, minSize geometry.Size) geometry.Bounds {
	x, y := start.Position.X, start.Position.Y
	w, h := start.Size.Width, start.Size.Height

	if handle.Has(EdgeEast) {
		w = start.Size.Width + delta.X
	}
	if handle.Has(EdgeWest) {
		right := start.Position.X + start.Size.Width
		x = start.Position.X + delta.X
		if x < wa.X {
			x = wa.X
		}
		if right-x < minSize.Width {
			x = right - minSize.Width
		}
		w = right - x
	}
	if handle.Has(EdgeSouth) {
		h = start.Size.Height + delta.Y
	}
	if handle.Has(EdgeNorth) {
		bottom := start.Position.Y + start.Size.Height
		y = start.Position.Y + delta.Y
		if y < wa.Y {
			y = wa.Y
		}
		if bottom-y < minSize.Height {
			y = bottom - minSize.Height
		}
		h = bottom - y
	}

	if maxW := wa.Right() - x; w > maxW {
		w = maxW
	}
	if maxH := wa.Bottom() - y; h > maxH {
		h = maxH
	}
	size := geometry.ClampSize(geometry.Size{Width: w, Height: h}, minSize)

	return geometry.Bounds{Position: geometry.Point{X: x, Y: y}, Size: size}
}
