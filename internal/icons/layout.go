// Package icons places desktop icons on a snap grid. Icons move freely while
// dragged and snap to the nearest free cell on release, so no two icons ever
// share a cell. The trash icon is pinned to the bottom-right corner.
package icons

import (
	"errors"
	"math"
	"sync"

	"github.com/1broseidon/retrodesk/internal/config"
	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/viewport"
)

var (
	ErrUnknownIcon = errors.New("unknown icon")
	ErrTrashPinned = errors.New("the trash icon cannot be moved")
	ErrDragActive  = errors.New("another icon is being dragged")
)

// TrashSentinel is the stored position of the trash icon; its real position
// is derived from the viewport.
var TrashSentinel = geometry.Point{X: -1, Y: -1}

// Icon is a resolved icon placement.
type Icon struct {
	ID       string         `json:"id"`
	Position geometry.Point `json:"position"`
	Cell     geometry.Point `json:"cell"`
	Trash    bool           `json:"trash,omitempty"`
	Dragging bool           `json:"dragging,omitempty"`
}

type dragState struct {
	id     string
	offset geometry.Point
	origin geometry.Point
}

// Layout tracks icon positions on the desktop.
type Layout struct {
	grid     config.IconSettings
	menubar  int
	dock     int
	viewport viewport.Source

	mu        sync.Mutex
	ids       []string
	positions map[string]geometry.Point
	drag      *dragState
}

// New lays out the configured icon ids on the default grid.
func New(cfg *config.Config, vp viewport.Source) *Layout {
	return NewWithIDs(cfg.Icons.IDs, cfg, vp)
}

// NewWithIDs lays out ids column by column, PerColumn icons per column.
func NewWithIDs(ids []string, cfg *config.Config, vp viewport.Source) *Layout {
	l := &Layout{
		grid:      cfg.Icons,
		menubar:   cfg.Chrome.MenubarHeight,
		dock:      cfg.Chrome.DockHeight,
		viewport:  vp,
		ids:       append([]string(nil), ids...),
		positions: make(map[string]geometry.Point, len(ids)),
	}

	index := 0
	for _, id := range ids {
		if id == l.grid.TrashID {
			l.positions[id] = TrashSentinel
			continue
		}
		col := index / l.grid.PerColumn
		row := index % l.grid.PerColumn
		l.positions[id] = l.cellToPos(geometry.Point{X: col, Y: row})
		index++
	}
	return l
}

// IDs returns the icon ids in layout order.
func (l *Layout) IDs() []string {
	return append([]string(nil), l.ids...)
}

// Origin returns the pixel position of cell (0,0).
func (l *Layout) Origin() geometry.Point {
	return geometry.Point{X: l.grid.OffsetX, Y: l.menubar + l.grid.OffsetY}
}

func (l *Layout) cellToPos(cell geometry.Point) geometry.Point {
	o := l.Origin()
	return geometry.Point{X: o.X + cell.X*l.grid.CellWidth, Y: o.Y + cell.Y*l.grid.CellHeight}
}

// CellAt returns the grid cell nearest to a pixel position.
func (l *Layout) CellAt(p geometry.Point) geometry.Point {
	o := l.Origin()
	return geometry.Point{
		X: int(math.Round(float64(p.X-o.X) / float64(l.grid.CellWidth))),
		Y: int(math.Round(float64(p.Y-o.Y) / float64(l.grid.CellHeight))),
	}
}

// GridSize returns how many columns and rows fit the current viewport.
// Both are at least 1.
func (l *Layout) GridSize() (cols, rows int) {
	vp := l.viewportSize()
	cols = (vp.Width - l.grid.OffsetX) / l.grid.CellWidth
	rows = (vp.Height - l.menubar - l.dock - 2*l.grid.OffsetY) / l.grid.CellHeight
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

func (l *Layout) viewportSize() geometry.Size {
	if l.viewport == nil {
		return geometry.Size{}
	}
	return l.viewport.Size()
}

func (l *Layout) trashPosition() geometry.Point {
	vp := l.viewportSize()
	return geometry.Point{
		X: vp.Width - l.grid.TrashInset.X,
		Y: vp.Height - l.dock - l.grid.TrashInset.Y,
	}
}

// Position returns where an icon is drawn.
func (l *Layout) Position(id string) (geometry.Point, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pos, ok := l.positions[id]
	if !ok {
		return geometry.Point{}, false
	}
	if id == l.grid.TrashID {
		return l.trashPosition(), true
	}
	return pos, true
}

// Icons lists every icon with its drawn position, in layout order.
func (l *Layout) Icons() []Icon {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Icon, 0, len(l.ids))
	for _, id := range l.ids {
		icon := Icon{ID: id, Position: l.positions[id]}
		if id == l.grid.TrashID {
			icon.Trash = true
			icon.Position = l.trashPosition()
			icon.Cell = TrashSentinel
		} else {
			icon.Cell = l.CellAt(icon.Position)
		}
		icon.Dragging = l.drag != nil && l.drag.id == id
		out = append(out, icon)
	}
	return out
}

// StartDrag grabs an icon at pointer. The grab offset inside the icon is kept
// for the rest of the drag.
func (l *Layout) StartDrag(id string, pointer geometry.Point) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if id == l.grid.TrashID {
		return ErrTrashPinned
	}
	pos, ok := l.positions[id]
	if !ok {
		return ErrUnknownIcon
	}
	if l.drag != nil {
		return ErrDragActive
	}
	l.drag = &dragState{id: id, offset: pointer.Sub(pos), origin: pos}
	return nil
}

// Dragging returns the id of the icon being dragged.
func (l *Layout) Dragging() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.drag == nil {
		return "", false
	}
	return l.drag.id, true
}

// UpdateDrag moves the dragged icon with the pointer, kept below the menu
// bar and above the dock.
func (l *Layout) UpdateDrag(pointer geometry.Point) (geometry.Point, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.drag == nil {
		return geometry.Point{}, false
	}

	vp := l.viewportSize()
	pos := pointer.Sub(l.drag.offset)
	pos.X = geometry.Clamp(pos.X, 0, vp.Width-l.grid.IconWidth)
	pos.Y = geometry.Clamp(pos.Y, l.menubar, vp.Height-l.dock-l.grid.IconHeight)
	l.positions[l.drag.id] = pos
	return pos, true
}

// EndDrag snaps the dragged icon to the nearest free cell.
func (l *Layout) EndDrag() (Icon, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.drag == nil {
		return Icon{}, false
	}
	d := l.drag
	l.drag = nil

	cols, rows := l.GridSize()
	occupied := l.occupiedLocked(d.id)
	target := l.CellAt(l.positions[d.id])

	cell, ok := FindFreeCell(target, occupied, cols, rows)
	if !ok {
		l.positions[d.id] = d.origin
		return Icon{ID: d.id, Position: d.origin, Cell: l.CellAt(d.origin)}, true
	}
	pos := l.cellToPos(cell)
	l.positions[d.id] = pos
	return Icon{ID: d.id, Position: pos, Cell: cell}, true
}

// CancelDrag ends the drag the same way a drop does.
func (l *Layout) CancelDrag() (Icon, bool) {
	return l.EndDrag()
}

func (l *Layout) occupiedLocked(exclude string) map[geometry.Point]bool {
	occupied := make(map[geometry.Point]bool, len(l.positions))
	for id, pos := range l.positions {
		if id == exclude || id == l.grid.TrashID || pos.X < 0 {
			continue
		}
		occupied[l.CellAt(pos)] = true
	}
	return occupied
}
