package icons

import "github.com/1broseidon/retrodesk/internal/geometry"

// FindFreeCell returns the free cell closest to target in Chebyshev
// distance. The target is first clamped into the cols x rows grid. Rings of
// growing radius are scanned clockwise starting due north of the target;
// the first free in-grid cell wins. ok is false when the grid is full.
func FindFreeCell(target geometry.Point, occupied map[geometry.Point]bool, cols, rows int) (geometry.Point, bool) {
	target.X = geometry.Clamp(target.X, 0, cols-1)
	target.Y = geometry.Clamp(target.Y, 0, rows-1)
	if !occupied[target] {
		return target, true
	}

	maxRadius := cols
	if rows > maxRadius {
		maxRadius = rows
	}
	for r := 1; r <= maxRadius; r++ {
		for _, d := range Ring(r) {
			cell := target.Add(d)
			if cell.X < 0 || cell.X >= cols || cell.Y < 0 || cell.Y >= rows {
				continue
			}
			if !occupied[cell] {
				return cell, true
			}
		}
	}
	return target, false
}

// Ring returns the 8r offsets at Chebyshev distance r, clockwise from due
// north (y grows downward): north, along the top edge to the north-east
// corner, down the east edge, back along the bottom edge, up the west edge
// and along the top edge to just before north.
func Ring(r int) []geometry.Point {
	if r <= 0 {
		return []geometry.Point{{}}
	}
	out := make([]geometry.Point, 0, 8*r)
	for dx := 0; dx <= r; dx++ {
		out = append(out, geometry.Point{X: dx, Y: -r})
	}
	for dy := -r + 1; dy <= r; dy++ {
		out = append(out, geometry.Point{X: r, Y: dy})
	}
	for dx := r - 1; dx >= -r; dx-- {
		out = append(out, geometry.Point{X: dx, Y: r})
	}
	for dy := r - 1; dy >= -r; dy-- {
		out = append(out, geometry.Point{X: -r, Y: dy})
	}
	for dx := -r + 1; dx < 0; dx++ {
		out = append(out, geometry.Point{X: dx, Y: -r})
	}
	return out
}
