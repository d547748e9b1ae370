// Package render draws a desktop snapshot into an image.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"sort"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/1broseidon/retrodesk/internal/desktop"
	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/icons"
	"github.com/1broseidon/retrodesk/internal/ipc"
	"github.com/1broseidon/retrodesk/internal/registry"
)

// Palette colors used by Draw.
var (
	ColorDesktop       = color.RGBA{0x00, 0x80, 0x80, 0xff}
	ColorChrome        = color.RGBA{0xc0, 0xc0, 0xc0, 0xff}
	ColorChromeEdge    = color.RGBA{0x80, 0x80, 0x80, 0xff}
	ColorWindow        = color.RGBA{0xf0, 0xf0, 0xf0, 0xff}
	ColorTitleActive   = color.RGBA{0x00, 0x00, 0x80, 0xff}
	ColorTitleInactive = color.RGBA{0x80, 0x80, 0x80, 0xff}
	ColorIcon          = color.RGBA{0xff, 0xff, 0xe0, 0xff}
	ColorText          = color.RGBA{0x00, 0x00, 0x00, 0xff}
	ColorTitleText     = color.RGBA{0xff, 0xff, 0xff, 0xff}
	ColorDockMinimized = color.RGBA{0xa0, 0xa0, 0xa0, 0xff}
	ColorDockActive    = color.RGBA{0xe0, 0xe0, 0xff, 0xff}
)

const (
	titleBarHeight = 22
	iconBoxSize    = 48
	dockButtonW    = 120
	dockPadding    = 6
)

// Scene is everything Draw needs.
type Scene struct {
	Viewport geometry.Size
	Menubar  int
	DockBar  int
	Windows  []registry.Window // back to front
	ActiveID string
	Icons    []icons.Icon
	Dock     []registry.DockEntry
}

// SceneOf captures the current state of d.
func SceneOf(d *desktop.Desktop) Scene {
	cfg := d.Config()
	return Scene{
		Viewport: d.Viewport(),
		Menubar:  cfg.Chrome.MenubarHeight,
		DockBar:  cfg.Chrome.DockHeight,
		Windows:  d.Registry.WindowsByZ(),
		ActiveID: d.Registry.ActiveID(),
		Icons:    d.Icons.Icons(),
		Dock:     d.Registry.DockEntries(),
	}
}

// SceneFrom rebuilds a scene from daemon replies. Chrome heights are
// recovered from the work area.
func SceneFrom(st *desktop.Status, wd *ipc.WindowsData, id *ipc.IconsData) Scene {
	windows := append([]registry.Window(nil), wd.Windows...)
	sort.SliceStable(windows, func(i, j int) bool { return windows[i].ZIndex < windows[j].ZIndex })

	s := Scene{
		Viewport: st.Viewport,
		Menubar:  st.WorkArea.Y,
		DockBar:  st.Viewport.Height - st.WorkArea.Bottom(),
		Windows:  windows,
		ActiveID: wd.ActiveID,
		Dock:     wd.Dock,
	}
	if id != nil {
		s.Icons = id.Icons
	}
	return s
}

// Draw renders the scene: desktop, icons, windows back to front, then the
// menu bar and dock on top.
func Draw(s Scene) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.Viewport.Width, s.Viewport.Height))
	fill(img, img.Bounds(), ColorDesktop)

	for _, icon := range s.Icons {
		drawIcon(img, icon)
	}

	for _, w := range s.Windows {
		if !w.IsOpen || w.IsMinimized {
			continue
		}
		drawWindow(img, w, w.ID == s.ActiveID)
	}

	menubar := image.Rect(0, 0, s.Viewport.Width, s.Menubar)
	fill(img, menubar, ColorChrome)
	fill(img, image.Rect(0, s.Menubar-1, s.Viewport.Width, s.Menubar), ColorChromeEdge)
	drawText(img, "retrodesk", 8, s.Menubar/2+4, ColorText)

	dockTop := s.Viewport.Height - s.DockBar
	fill(img, image.Rect(0, dockTop, s.Viewport.Width, s.Viewport.Height), ColorChrome)
	fill(img, image.Rect(0, dockTop, s.Viewport.Width, dockTop+1), ColorChromeEdge)
	for i, entry := range s.Dock {
		drawDockButton(img, entry, i, dockTop, s.DockBar)
	}

	return img
}

// WritePNG encodes the rendered scene as PNG.
func WritePNG(w io.Writer, s Scene) error {
	if s.Viewport.Width <= 0 || s.Viewport.Height <= 0 {
		return fmt.Errorf("cannot render an empty viewport (%dx%d)", s.Viewport.Width, s.Viewport.Height)
	}
	if err := png.Encode(w, Draw(s)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

func drawWindow(img *image.RGBA, w registry.Window, active bool) {
	frame := rectOf(w.Bounds())
	fill(img, frame, ColorChromeEdge)
	fill(img, frame.Inset(1), ColorWindow)

	title := image.Rect(frame.Min.X+1, frame.Min.Y+1, frame.Max.X-1, frame.Min.Y+1+titleBarHeight)
	titleColor := ColorTitleInactive
	if active {
		titleColor = ColorTitleActive
	}
	fill(img, title, titleColor)
	drawText(img, w.Title, title.Min.X+6, title.Min.Y+titleBarHeight/2+4, ColorTitleText)
}

func drawIcon(img *image.RGBA, icon icons.Icon) {
	box := image.Rect(icon.Position.X+32, icon.Position.Y+8, icon.Position.X+32+iconBoxSize, icon.Position.Y+8+iconBoxSize)
	fill(img, box, ColorChromeEdge)
	fill(img, box.Inset(2), ColorIcon)

	label := icon.ID
	width := font.MeasureString(basicfont.Face7x13, label).Ceil()
	drawText(img, label, icon.Position.X+56-width/2, box.Max.Y+16, ColorTitleText)
}

func drawDockButton(img *image.RGBA, entry registry.DockEntry, index, dockTop, dockHeight int) {
	x := dockPadding + index*(dockButtonW+dockPadding)
	button := image.Rect(x, dockTop+dockPadding, x+dockButtonW, dockTop+dockHeight-dockPadding)
	bg := ColorWindow
	switch {
	case entry.Active:
		bg = ColorDockActive
	case entry.Minimized:
		bg = ColorDockMinimized
	}
	fill(img, button, ColorChromeEdge)
	fill(img, button.Inset(1), bg)
	drawText(img, entry.Title, button.Min.X+6, button.Min.Y+button.Dy()/2+4, ColorText)
}

func rectOf(b geometry.Bounds) image.Rectangle {
	return image.Rect(b.Position.X, b.Position.Y, b.Position.X+b.Size.Width, b.Position.Y+b.Size.Height)
}

func fill(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

// drawText draws s with its baseline at y.
func drawText(img *image.RGBA, s string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
