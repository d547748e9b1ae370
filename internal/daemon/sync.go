package daemon

import (
	"fmt"

	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/gesture"
)

// fitBounds returns where a window belongs in wa. Maximized windows fill
// it; others keep their size and are moved the least distance that
// satisfies the drag clamp.
func fitBounds(b geometry.Bounds, maximized bool, wa geometry.Rect, minVisible int) geometry.Bounds {
	if maximized {
		return geometry.Bounds{Position: wa.Origin(), Size: wa.Extent()}
	}
	return gesture.DragBounds(b, geometry.Point{}, wa, minVisible)
}

func sizeString(s geometry.Size) string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}
